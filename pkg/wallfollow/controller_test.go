package wallfollow

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/mazebot.go/pkg/distance"
	"github.com/robotalks/mazebot.go/pkg/drive"
	fx "github.com/robotalks/mazebot.go/pkg/framework"
	"github.com/robotalks/mazebot.go/pkg/robot"
)

// motorLog records the last actuation call.
type motorLog struct {
	cmd         drive.Command
	left, right uint16
	calls       int
}

func (m *motorLog) record(cmd drive.Command, l, r uint16) error {
	m.cmd, m.left, m.right = cmd, l, r
	m.calls++
	return nil
}

func (m *motorLog) Forward(l, r uint16) error  { return m.record(drive.Forward, l, r) }
func (m *motorLog) Backward(l, r uint16) error { return m.record(drive.Backward, l, r) }
func (m *motorLog) Left(l, r uint16) error     { return m.record(drive.TurnLeft, l, r) }
func (m *motorLog) Right(l, r uint16) error    { return m.record(drive.TurnRight, l, r) }
func (m *motorLog) Stop() error                { return m.record(drive.Stopped, 0, 0) }

type tickContext struct{}

func (tickContext) Time() time.Time          { return time.Now() }
func (tickContext) Context() context.Context { return context.Background() }
func (tickContext) PriorityLevel() int       { return fx.PrLvControl }
func (tickContext) Tick() uint64             { return 0 }

func newTestController(t *testing.T, policy Policy) (*Controller, *robot.State, *motorLog) {
	t.Helper()
	conf := NewConfig()
	conf.Policy = policy.String()
	state := &robot.State{}
	motors := &motorLog{}
	ctl, err := conf.NewController(state, motors)
	require.NoError(t, err)
	return ctl, state, motors
}

func TestConfigDefaults(t *testing.T) {
	conf := NewConfig()
	require.Equal(t, DefaultDesiredDistance, conf.Desired)
	require.Equal(t, DefaultBackoffMargin, conf.Margin)
	require.Equal(t, DefaultKp, conf.Kp)
	require.Equal(t, PolicyForwardBackStop.String(), conf.Policy)

	// NewConfig copies: mutating the copy leaves the defaults alone.
	conf.Kp = 9
	require.Equal(t, DefaultKp, Default().Kp)
}

func TestSetPointRule(t *testing.T) {
	ctl, _, _ := newTestController(t, PolicyForwardStop)

	// Both sides exceed desired: track the midpoint.
	setPoint, err, _, _ := ctl.Steer(500, 500)
	require.Equal(t, int32(500), setPoint)
	require.Equal(t, int32(0), err)

	// One side below desired: fall back to the fixed offset, and the
	// asymmetric branch tracks the left-side deficit.
	setPoint, err, _, _ = ctl.Steer(100, 500)
	require.Equal(t, int32(250), setPoint)
	require.Equal(t, int32(-150), err)
}

func TestAsymmetricErrorTieBreak(t *testing.T) {
	ctl, _, _ := newTestController(t, PolicyForwardStop)

	// left < right tracks left - setPoint.
	_, err, _, _ := ctl.Steer(300, 400)
	require.Equal(t, int32(300-350), err)

	// left >= right (including equality) tracks setPoint - right.
	_, err, _, _ = ctl.Steer(400, 300)
	require.Equal(t, int32(350-300), err)
	_, err, _, _ = ctl.Steer(300, 300)
	require.Equal(t, int32(0), err)
}

func TestSteeringSignConvention(t *testing.T) {
	ctl, _, _ := newTestController(t, PolicyForwardStop)

	// Left wall closer than set point (negative error): slow the left
	// wheel, speed the right wheel, steering away from the left wall.
	_, err, dutyLeft, dutyRight := ctl.Steer(200, 500)
	require.True(t, err < 0)
	require.True(t, dutyLeft < drive.PWMNominal, "left duty %d", dutyLeft)
	require.True(t, dutyRight > drive.PWMNominal, "right duty %d", dutyRight)
}

func TestDutyClamping(t *testing.T) {
	ctl, _, _ := newTestController(t, PolicyForwardStop)
	testCases := []struct {
		left, right int32
	}{
		{0, 0}, {10, 790}, {790, 10}, {250, 250},
		{799, 799}, {800, 800}, {65535, 65535}, {-100, 500},
	}
	for _, tc := range testCases {
		_, _, dutyLeft, dutyRight := ctl.Steer(tc.left, tc.right)
		require.True(t, dutyLeft >= drive.PWMMin && dutyLeft <= drive.PWMMax,
			"left=%d right=%d dutyLeft=%d", tc.left, tc.right, dutyLeft)
		require.True(t, dutyRight >= drive.PWMMin && dutyRight <= drive.PWMMax,
			"left=%d right=%d dutyRight=%d", tc.left, tc.right, dutyRight)
	}
}

func TestEndToEndCentered(t *testing.T) {
	ctl, state, motors := newTestController(t, PolicyForwardBackStop)
	state.SetDistances(300, 260, 300)

	require.NoError(t, ctl.Control(tickContext{}))
	require.Equal(t, drive.Forward, motors.cmd)
	require.Equal(t, drive.PWMNominal, motors.left)
	require.Equal(t, drive.PWMNominal, motors.right)

	snap := state.Snapshot()
	require.Equal(t, int32(300), snap.SetPoint)
	require.Equal(t, int32(0), snap.Error)
}

func TestCollisionOverride(t *testing.T) {
	ctl, state, motors := newTestController(t, PolicyForwardBackStop)
	// Frontal obstacle below desired-margin forces backward no matter
	// what the steering law computed.
	state.SetDistances(300, 150, 300)

	require.NoError(t, ctl.Control(tickContext{}))
	require.Equal(t, drive.Backward, motors.cmd)
}

func TestDecidePolicies(t *testing.T) {
	testCases := []struct {
		name   string
		policy Policy
		center int32
		want   drive.Command
	}{
		{"always forward ignores center", PolicyForward, 100, drive.Forward},
		{"forward-stop open corridor", PolicyForwardStop, 500, drive.Forward},
		{"forward-stop sentinel is not open", PolicyForwardStop, 800, drive.Stopped},
		{"forward-stop at desired stops", PolicyForwardStop, 250, drive.Stopped},
		{"forward-back-stop at desired drives", PolicyForwardBackStop, 250, drive.Forward},
		{"forward-back-stop dead band stops", PolicyForwardBackStop, 220, drive.Stopped},
		{"forward-back-stop close backs off", PolicyForwardBackStop, 199, drive.Backward},
		{"forward-back-stop sentinel stops", PolicyForwardBackStop, 800, drive.Stopped},
		{"forward-stop weak echo is not open", PolicyForwardStop,
			int32(distance.TofLowAmplitude), drive.Stopped},
		{"forward-back-stop hardware error stops", PolicyForwardBackStop,
			int32(distance.TofHardwareError), drive.Stopped},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctl, _, _ := newTestController(t, tc.policy)
			require.Equal(t, tc.want, ctl.Decide(tc.center))
		})
	}
}

func TestSentinelAbsorbed(t *testing.T) {
	ctl, state, motors := newTestController(t, PolicyForwardBackStop)
	// Open area on all sides: sentinel 800 is legitimate "far" data.
	state.SetDistances(800, 500, 800)

	require.NoError(t, ctl.Control(tickContext{}))
	require.Equal(t, drive.Forward, motors.cmd)
	snap := state.Snapshot()
	require.Equal(t, int32(800), snap.SetPoint)
}

func TestModeGate(t *testing.T) {
	ctl, state, motors := newTestController(t, PolicyForwardBackStop)
	state.SetDistances(300, 260, 300)

	state.SetMode(robot.Halted)
	require.NoError(t, ctl.Control(tickContext{}))
	require.Equal(t, drive.Stopped, motors.cmd)

	state.SetManual(drive.TurnLeft, 2000, 3000)
	require.NoError(t, ctl.Control(tickContext{}))
	require.Equal(t, drive.TurnLeft, motors.cmd)
	require.Equal(t, uint16(2000), motors.left)
	require.Equal(t, uint16(3000), motors.right)

	state.SetMode(robot.Auto)
	require.NoError(t, ctl.Control(tickContext{}))
	require.Equal(t, drive.Forward, motors.cmd)
}
