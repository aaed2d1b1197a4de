// Package drive defines the motor actuation interface and the duty
// cycle conventions shared by every backend (packet link, simulator).
package drive

// PWM duty cycle window. Values are timer compare ticks on the real
// board; backends without PWM hardware treat them as an abstract scale
// where Nominal is straight-ahead cruise and Swing the steering
// authority around it.
const (
	PWMNominal uint16 = 2500
	PWMSwing   uint16 = 1000
	PWMMin            = PWMNominal - PWMSwing
	PWMMax            = PWMNominal + PWMSwing
)

// Motors accepts (left, right) duty cycle pairs and a direction mode.
// Calls are idempotent: re-issuing the same command is harmless, and
// the last command stays in effect until replaced.
type Motors interface {
	Forward(left, right uint16) error
	Backward(left, right uint16) error
	Left(left, right uint16) error
	Right(left, right uint16) error
	Stop() error
}

// Command tags the direction mode last issued to the motors.
type Command int

// Direction modes.
const (
	Stopped Command = iota
	Forward
	Backward
	TurnLeft
	TurnRight
)

func (c Command) String() string {
	switch c {
	case Stopped:
		return "stop"
	case Forward:
		return "forward"
	case Backward:
		return "backward"
	case TurnLeft:
		return "left"
	case TurnRight:
		return "right"
	}
	return "unknown"
}

// Clamp bounds a computed duty cycle into [PWMMin, PWMMax]. The input
// is signed because the proportional term can push the raw value
// below zero before clamping.
func Clamp(duty int32) uint16 {
	if duty < int32(PWMMin) {
		return PWMMin
	}
	if duty > int32(PWMMax) {
		return PWMMax
	}
	return uint16(duty)
}

// Apply issues cmd with the given duty pair on m.
func Apply(m Motors, cmd Command, left, right uint16) error {
	switch cmd {
	case Forward:
		return m.Forward(left, right)
	case Backward:
		return m.Backward(left, right)
	case TurnLeft:
		return m.Left(left, right)
	case TurnRight:
		return m.Right(left, right)
	default:
		return m.Stop()
	}
}
