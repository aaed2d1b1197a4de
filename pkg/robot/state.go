// Package robot holds the shared state that connects the periodic
// tasks: the sampling task is the sole writer of distances, the
// wall-following controller the sole writer of drive outputs, and the
// telemetry publisher reads snapshots of both.
//
// The original firmware shared these values as bare globals and
// relied on word-atomic stores; here a short mutex critical section
// makes reads tear-free regardless of platform.
package robot

import (
	"sync"

	"github.com/robotalks/mazebot.go/pkg/drive"
)

// Mode selects who owns the motors.
type Mode int

// Modes.
const (
	// Auto runs the wall-following controller.
	Auto Mode = iota
	// Manual applies remotely commanded duty cycles.
	Manual
	// Halted keeps the motors stopped until the mode changes.
	// The marker detector latches this mode.
	Halted
)

func (m Mode) String() string {
	switch m {
	case Auto:
		return "auto"
	case Manual:
		return "manual"
	case Halted:
		return "halted"
	}
	return "unknown"
}

// Snapshot is a coherent copy of the live state, published as the
// debug/telemetry side channel. It has no role in the control loop.
type Snapshot struct {
	Left     int32  `json:"left_mm"`
	Center   int32  `json:"center_mm"`
	Right    int32  `json:"right_mm"`
	SetPoint int32  `json:"set_point_mm"`
	Error    int32  `json:"error_mm"`
	DutyLeft uint16 `json:"duty_left"`
	DutyRght uint16 `json:"duty_right"`
	Command  string `json:"command"`
	Mode     string `json:"mode"`
	Marker   bool   `json:"marker"`
}

// State is the shared mutable state. Zero value is usable: mode Auto,
// everything else zero until the first sampling tick overwrites it.
type State struct {
	lock sync.Mutex

	left, center, right int32
	setPoint, err       int32
	dutyLeft, dutyRight uint16
	command             drive.Command

	mode                  Mode
	manualCmd             drive.Command
	manualLeft, manualRgt uint16
	marker                bool
}

// SetDistances publishes the three calibrated distances. Called only
// by the sampling task.
func (s *State) SetDistances(left, center, right int32) {
	s.lock.Lock()
	s.left, s.center, s.right = left, center, right
	s.lock.Unlock()
}

// Distances reads a coherent triple.
func (s *State) Distances() (left, center, right int32) {
	s.lock.Lock()
	left, center, right = s.left, s.center, s.right
	s.lock.Unlock()
	return
}

// SetDrive publishes the controller outputs of the current tick.
func (s *State) SetDrive(cmd drive.Command, setPoint, err int32, left, right uint16) {
	s.lock.Lock()
	s.command, s.setPoint, s.err = cmd, setPoint, err
	s.dutyLeft, s.dutyRight = left, right
	s.lock.Unlock()
}

// SetMode switches motor ownership.
func (s *State) SetMode(m Mode) {
	s.lock.Lock()
	s.mode = m
	s.lock.Unlock()
}

// Mode reads the current mode.
func (s *State) Mode() Mode {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.mode
}

// SetManual stores a manual drive command and switches to Manual mode.
func (s *State) SetManual(cmd drive.Command, left, right uint16) {
	s.lock.Lock()
	s.mode = Manual
	s.manualCmd, s.manualLeft, s.manualRgt = cmd, left, right
	s.lock.Unlock()
}

// Manual reads the pending manual command.
func (s *State) Manual() (cmd drive.Command, left, right uint16) {
	s.lock.Lock()
	cmd, left, right = s.manualCmd, s.manualLeft, s.manualRgt
	s.lock.Unlock()
	return
}

// MarkerDetected latches the marker event and halts the robot.
func (s *State) MarkerDetected() {
	s.lock.Lock()
	s.marker = true
	s.mode = Halted
	s.lock.Unlock()
}

// Snapshot copies the live state under the lock.
func (s *State) Snapshot() Snapshot {
	s.lock.Lock()
	defer s.lock.Unlock()
	return Snapshot{
		Left:     s.left,
		Center:   s.center,
		Right:    s.right,
		SetPoint: s.setPoint,
		Error:    s.err,
		DutyLeft: s.dutyLeft,
		DutyRght: s.dutyRight,
		Command:  s.command.String(),
		Mode:     s.mode.String(),
		Marker:   s.marker,
	}
}
