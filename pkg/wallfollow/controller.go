// Package wallfollow implements the proportional wall-following
// controller: it maps the live distance triple to bounded motor duty
// cycles and guards the steering law with a center-channel collision
// check.
package wallfollow

import (
	"fmt"

	"github.com/golang/glog"

	"github.com/robotalks/mazebot.go/pkg/distance"
	"github.com/robotalks/mazebot.go/pkg/drive"
	fx "github.com/robotalks/mazebot.go/pkg/framework"
	"github.com/robotalks/mazebot.go/pkg/robot"
)

// Controller is the periodic control task. It recomputes everything
// from the current distances each tick; there is no historical state
// and deliberately no hysteresis, so chattering between commands near
// a threshold is expected behavior.
type Controller struct {
	State  *robot.State
	Motors drive.Motors

	desired int32
	margin  int32
	kp      int32
	policy  Policy
}

// NewController creates the Controller.
func (c *Config) NewController(state *robot.State, motors drive.Motors) (*Controller, error) {
	policy, err := ParsePolicy(c.Policy)
	if err != nil {
		return nil, err
	}
	if c.Kp <= 0 {
		return nil, fmt.Errorf("kp must be positive, got %d", c.Kp)
	}
	return &Controller{
		State:   state,
		Motors:  motors,
		desired: int32(c.Desired),
		margin:  int32(c.Margin),
		kp:      int32(c.Kp),
		policy:  policy,
	}, nil
}

// AddToLoop implements LoopAdder: the follower runs at control
// priority on the slow loop.
func (c *Controller) AddToLoop(l *fx.Loop) {
	l.AddController(fx.PrLvControl, c)
}

// Steer computes the set point, error and clamped duty pair for one
// distance triple. Pure function of its inputs, exposed for tests and
// telemetry.
func (c *Controller) Steer(left, right int32) (setPoint, err int32, dutyLeft, dutyRight uint16) {
	// Track the midpoint of whatever is visible when no wall is
	// within the desired offset, otherwise track the fixed offset.
	if left > c.desired && right > c.desired {
		setPoint = (left + right) / 2
	} else {
		setPoint = c.desired
	}

	// Asymmetric tie-break: correct toward whichever side is closer.
	// Not a symmetric (left-right)/2 - this is the contract.
	if left < right {
		err = left - setPoint
	} else {
		err = setPoint - right
	}

	// Positive error steers right: speed up the left wheel, slow the
	// right one.
	dutyRight = drive.Clamp(int32(drive.PWMNominal) - c.kp*err)
	dutyLeft = drive.Clamp(int32(drive.PWMNominal) + c.kp*err)
	return
}

// Decide maps the center distance to a direction under the configured
// policy. The proportional law alone never stops the robot; only this
// check does.
func (c *Controller) Decide(center int32) drive.Command {
	switch c.policy {
	case PolicyForward:
		return drive.Forward
	case PolicyForwardStop:
		if center > c.desired && !distance.IsFar(center) {
			return drive.Forward
		}
		return drive.Stopped
	default: // PolicyForwardBackStop
		if center >= c.desired && !distance.IsFar(center) {
			return drive.Forward
		}
		if center < c.desired-c.margin {
			return drive.Backward
		}
		return drive.Stopped
	}
}

// Control implements Controller. Mode is checked first: Halted keeps
// the motors stopped and Manual applies the remotely commanded pair;
// only Auto runs the wall-following law.
func (c *Controller) Control(cc fx.ControlContext) error {
	switch c.State.Mode() {
	case robot.Halted:
		c.State.SetDrive(drive.Stopped, 0, 0, 0, 0)
		return c.Motors.Stop()
	case robot.Manual:
		cmd, left, right := c.State.Manual()
		c.State.SetDrive(cmd, 0, 0, left, right)
		return drive.Apply(c.Motors, cmd, left, right)
	}

	left, center, right := c.State.Distances()
	setPoint, err, dutyLeft, dutyRight := c.Steer(left, right)
	cmd := c.Decide(center)

	if cmd == drive.Stopped {
		dutyLeft, dutyRight = 0, 0
	}
	c.State.SetDrive(cmd, setPoint, err, dutyLeft, dutyRight)
	glog.V(3).Infof("wallfollow: sp=%d e=%d duty=(%d,%d) cmd=%s",
		setPoint, err, dutyLeft, dutyRight, cmd)
	return drive.Apply(c.Motors, cmd, dutyLeft, dutyRight)
}
