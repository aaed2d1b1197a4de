package joystick

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/mazebot.go/pkg/drive"
	"github.com/robotalks/mazebot.go/pkg/robot"
)

func TestMapStick(t *testing.T) {
	testCases := []struct {
		name        string
		x, y        int
		cmd         drive.Command
		left, right uint16
	}{
		{"centered", 0, 0, drive.Stopped, 0, 0},
		{"dead zone", 3000, -3000, drive.Stopped, 0, 0},
		{"full forward", 0, -axisMax, drive.Forward, drive.PWMMax, drive.PWMMax},
		{"full backward", 0, axisMax, drive.Backward, drive.PWMMax, drive.PWMMax},
		{"spin left", -axisMax, 0, drive.TurnLeft, drive.PWMNominal, drive.PWMNominal},
		{"spin right", axisMax, 0, drive.TurnRight, drive.PWMNominal, drive.PWMNominal},
		{"half forward right", 16383, -16383, drive.Forward, 2998, 2000},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cmd, left, right := MapStick(tc.x, tc.y)
			require.Equal(t, tc.cmd, cmd)
			require.Equal(t, tc.left, left)
			require.Equal(t, tc.right, right)
		})
	}
}

type fakeAxis struct {
	index, value int
}

func (e fakeAxis) IsInit() bool { return false }
func (e fakeAxis) Index() int   { return e.index }
func (e fakeAxis) Value() int   { return e.value }

type fakeButton struct {
	index   int
	pressed bool
}

func (e fakeButton) IsInit() bool  { return false }
func (e fakeButton) Index() int    { return e.index }
func (e fakeButton) Pressed() bool { return e.pressed }

func TestTeleopSeizesAndReleases(t *testing.T) {
	var state robot.State
	teleop := &Teleop{State: &state}

	// A centered stick must not take over from the wall follower.
	teleop.handleEvent(fakeAxis{index: 0, value: 100})
	require.Equal(t, robot.Auto, state.Mode())

	// Pushing the stick forward switches to manual forward drive.
	teleop.handleEvent(fakeAxis{index: 1, value: -axisMax})
	require.Equal(t, robot.Manual, state.Mode())
	cmd, _, _ := state.Manual()
	require.Equal(t, drive.Forward, cmd)

	// Centering while active stops the motors but stays manual.
	teleop.handleEvent(fakeAxis{index: 1, value: 0})
	require.Equal(t, robot.Manual, state.Mode())
	cmd, left, right := state.Manual()
	require.Equal(t, drive.Stopped, cmd)
	require.Equal(t, uint16(0), left)
	require.Equal(t, uint16(0), right)

	// A button press hands control back.
	teleop.handleEvent(fakeButton{index: 0, pressed: true})
	require.Equal(t, robot.Auto, state.Mode())
}
