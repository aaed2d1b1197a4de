package sim

import (
	"sync"
	"time"

	"github.com/robotalks/mazebot.go/pkg/drive"
)

// Robot is a differential drive model. The motor adapter writes the
// last commanded duty pair, Step integrates it into the pose.
type Robot struct {
	// WheelBase is the track width in millimeters.
	WheelBase float64
	// SpeedAtNominal is the wheel ground speed in mm/s when driven
	// at the nominal duty cycle.
	SpeedAtNominal float64

	lock        sync.Mutex
	pose        Pose2D
	cmd         drive.Command
	left, right uint16
}

// NewRobot creates a Robot with plausible chassis parameters.
func NewRobot(pose Pose2D) *Robot {
	return &Robot{
		WheelBase:      140,
		SpeedAtNominal: 350,
		pose:           pose,
	}
}

// Pose reads the current pose.
func (r *Robot) Pose() Pose2D {
	r.lock.Lock()
	defer r.lock.Unlock()
	return r.pose
}

// SetDrive records the motor command to integrate from now on.
func (r *Robot) SetDrive(cmd drive.Command, left, right uint16) {
	r.lock.Lock()
	r.cmd, r.left, r.right = cmd, left, right
	r.lock.Unlock()
}

// Step advances the pose by dt under the last command.
func (r *Robot) Step(dt time.Duration) {
	r.lock.Lock()
	defer r.lock.Unlock()

	vl := r.wheelSpeed(r.left)
	vr := r.wheelSpeed(r.right)
	switch r.cmd {
	case drive.Forward:
	case drive.Backward:
		vl, vr = -vl, -vr
	case drive.TurnLeft:
		vl = -vl
	case drive.TurnRight:
		vr = -vr
	default:
		return
	}

	secs := dt.Seconds()
	v := (vl + vr) / 2
	omega := (vr - vl) / r.WheelBase
	r.pose.Orientation = r.pose.Orientation.AddRadians(omega * secs)
	r.pose.Pos2D.OffsetBy(r.pose.Orientation.Project(v * secs))
}

func (r *Robot) wheelSpeed(duty uint16) float64 {
	return r.SpeedAtNominal * float64(duty) / float64(drive.PWMNominal)
}
