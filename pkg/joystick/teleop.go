package joystick

import (
	"context"
	"time"

	"github.com/golang/glog"

	"github.com/robotalks/mazebot.go/pkg/drive"
	fx "github.com/robotalks/mazebot.go/pkg/framework"
	"github.com/robotalks/mazebot.go/pkg/joystick/device"
	"github.com/robotalks/mazebot.go/pkg/robot"
)

const (
	axisMax  = 32767
	deadZone = axisMax / 10
)

// MapStick converts stick deflection into a drive command. x is
// positive rightward, y positive downward, raw axis range is
// [-axisMax, axisMax]. Deflections inside the dead zone read as
// centered.
func MapStick(x, y int) (cmd drive.Command, left, right uint16) {
	fwd := -y
	if fwd > -deadZone && fwd < deadZone {
		fwd = 0
	}
	if x > -deadZone && x < deadZone {
		x = 0
	}
	switch {
	case fwd == 0 && x == 0:
		return drive.Stopped, 0, 0
	case fwd == 0:
		duty := spinDuty(x)
		if x < 0 {
			return drive.TurnLeft, duty, duty
		}
		return drive.TurnRight, duty, duty
	}
	cmd = drive.Forward
	if fwd < 0 {
		cmd = drive.Backward
		fwd = -fwd
	}
	base := int32(drive.PWMMin) + int32(drive.PWMMax-drive.PWMMin)*int32(fwd)/axisMax
	delta := int32(drive.PWMSwing) * int32(x) / axisMax
	return cmd, drive.Clamp(base + delta), drive.Clamp(base - delta)
}

func spinDuty(x int) uint16 {
	if x < 0 {
		x = -x
	}
	return drive.Clamp(int32(drive.PWMMin) + int32(drive.PWMNominal-drive.PWMMin)*int32(x)/axisMax)
}

// Teleop reads joystick events and writes manual drive commands into
// the shared state. It never touches the motors: the control task
// applies the manual pair on its next tick.
type Teleop struct {
	State       *robot.State
	DeviceIndex int
	Verbose     bool

	axisX, axisY int
	cmd          drive.Command
	left, right  uint16
	active       bool
}

// Run implements Runnable. The device is reopened after read errors
// and hot (re)plugged joysticks are picked up by periodic detection.
func (t *Teleop) Run(ctx context.Context) error {
	for {
		js, err := t.open()
		if err != nil {
			glog.Warningf("joystick open: %v", err)
		}
		if js != nil {
			glog.Infof("joystick %d %q opened", js.Index(), js.Name())
			err = fx.RunWithContextCloser(ctx, js, func() error {
				return t.readLoop(js)
			})
			if err == context.Canceled {
				return err
			}
			glog.Warningf("joystick lost: %v", err)
			if t.active {
				t.State.SetManual(drive.Stopped, 0, 0)
			}
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Second):
		}
	}
}

func (t *Teleop) open() (device.Device, error) {
	if t.DeviceIndex >= 0 {
		return device.Open(t.DeviceIndex)
	}
	return device.DetectAndOpen(0)
}

func (t *Teleop) readLoop(js device.Device) error {
	for {
		ev, err := js.ReadEvent()
		if err != nil {
			return err
		}
		if ev == nil || ev.IsInit() {
			continue
		}
		t.handleEvent(ev)
	}
}

func (t *Teleop) handleEvent(ev device.Event) {
	switch e := ev.(type) {
	case device.AxisEvent:
		if t.Verbose {
			glog.Infof("axis %d: %d", e.Index(), e.Value())
		}
		switch e.Index() {
		case 0, 6:
			t.axisX = e.Value()
		case 1, 7:
			t.axisY = e.Value()
		default:
			return
		}
		t.update()
	case device.ButtonEvent:
		if t.Verbose {
			glog.Infof("button %d: %v", e.Index(), e.Pressed())
		}
		if e.Pressed() && t.active {
			t.active = false
			t.cmd, t.left, t.right = drive.Stopped, 0, 0
			t.State.SetMode(robot.Auto)
		}
	}
}

// update recomputes the manual command. A centered stick does not
// seize control; once active, centering sends a manual stop instead.
func (t *Teleop) update() {
	cmd, left, right := MapStick(t.axisX, t.axisY)
	if cmd == t.cmd && left == t.left && right == t.right {
		return
	}
	t.cmd, t.left, t.right = cmd, left, right
	if !t.active {
		if cmd == drive.Stopped {
			return
		}
		t.active = true
	}
	t.State.SetManual(cmd, left, right)
}
