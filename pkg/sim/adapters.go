package sim

import (
	"time"

	"github.com/robotalks/mazebot.go/pkg/color"
	"github.com/robotalks/mazebot.go/pkg/distance"
	"github.com/robotalks/mazebot.go/pkg/drive"
	fx "github.com/robotalks/mazebot.go/pkg/framework"
)

// Sensor ray headings relative to the robot orientation, in degrees
// with positive angles to the robot's left. The side sensors are
// angled 45 degrees across the nose: the left channel ranges the
// right-hand wall and vice versa. The steering law depends on this
// crossed mounting, it speeds up the right wheel when the left channel
// reads short.
const (
	leftSensorDeg  = -45
	rightSensorDeg = 45
)

// Sensors answers analog conversions by ray casting into the world and
// running the distances back through the inverse calibration curve, so
// the sampling pipeline exercises exactly the same math as on raw ADC
// counts.
type Sensors struct {
	World *World
	Robot *Robot
}

// Convert implements adc.Converter.
func (s *Sensors) Convert() (right, center, left uint32, err error) {
	pose := s.Robot.Pose()
	right = s.raw(pose, rightSensorDeg)
	center = s.raw(pose, 0)
	left = s.raw(pose, leftSensorDeg)
	return
}

func (s *Sensors) raw(pose Pose2D, deg float64) uint32 {
	d := s.World.RayDistance(pose.Pos2D, pose.Orientation.AddDegrees(deg))
	return distance.RawFor(int32(d))
}

// Motors routes drive commands into the Robot model.
type Motors struct {
	Robot *Robot
}

// Forward implements drive.Motors.
func (m *Motors) Forward(left, right uint16) error {
	m.Robot.SetDrive(drive.Forward, left, right)
	return nil
}

// Backward implements drive.Motors.
func (m *Motors) Backward(left, right uint16) error {
	m.Robot.SetDrive(drive.Backward, left, right)
	return nil
}

// Left implements drive.Motors.
func (m *Motors) Left(left, right uint16) error {
	m.Robot.SetDrive(drive.TurnLeft, left, right)
	return nil
}

// Right implements drive.Motors.
func (m *Motors) Right(left, right uint16) error {
	m.Robot.SetDrive(drive.TurnRight, left, right)
	return nil
}

// Stop implements drive.Motors.
func (m *Motors) Stop() error {
	m.Robot.SetDrive(drive.Stopped, 0, 0)
	return nil
}

// Stepper integrates the robot motion on every loop tick, using the
// wall clock deltas between ticks.
type Stepper struct {
	Robot *Robot

	last time.Time
}

// AddToLoop implements LoopAdder.
func (s *Stepper) AddToLoop(l *fx.Loop) {
	l.AddController(fx.PrLvPostProc, s)
}

// Control implements Controller.
func (s *Stepper) Control(cc fx.ControlContext) error {
	now := cc.Time()
	if !s.last.IsZero() {
		s.Robot.Step(now.Sub(s.last))
	}
	s.last = now
	return nil
}

// ColorSensor models the floor color sensor. The first two reads
// return the black and white reference the driver sweeps at power-on,
// so the running calibration spans the full count range before real
// floor samples arrive.
type ColorSensor struct {
	World *World
	Robot *Robot

	reads int
}

// Floor samples in raw sensor counts.
var (
	blackRef    = color.Data{}
	whiteRef    = color.Data{Clear: 65535, Red: 65535, Green: 65535, Blue: 65535}
	floorPlain  = color.Data{Clear: 30000, Red: 28000, Green: 28000, Blue: 18000}
	floorMarker = color.Data{Clear: 20000, Red: 15000, Green: 20000, Blue: 52000}
)

// ReadRGBC implements color.Sensor.
func (s *ColorSensor) ReadRGBC() (color.Data, error) {
	s.reads++
	switch s.reads {
	case 1:
		return blackRef, nil
	case 2:
		return whiteRef, nil
	}
	if s.World.OnMarker(s.Robot.Pose().Pos2D) {
		return floorMarker, nil
	}
	return floorPlain, nil
}
