// Package distance turns raw analog readings into calibrated
// millimeter distances and runs the periodic sampling task that keeps
// the shared state fresh for the controller.
package distance

// Calibration constants for the Sharp GP2Y0A21YK0F sensors, tuned
// against the integer arithmetic below. Moving this computation to
// floating point changes the effective curve and amounts to a
// recalibration, not a cleanup.
const (
	// SensorMax is the raw reading below which the sensor is
	// looking at nothing it can range reliably.
	SensorMax = 2552

	calA = 1195159
	calB = -1058
	calC = 40
)

// FarSentinel is the distance reported when the sensor sees no
// reliable target: treat as "no obstacle within range".
const FarSentinel = 800

// Calibrate maps a filtered raw reading to millimeters using the
// inverse-rational calibration curve. Raw values below SensorMax mean
// the echo was too weak and yield FarSentinel.
func Calibrate(filtered uint32) int32 {
	if filtered < SensorMax {
		return FarSentinel
	}
	return calA/(int32(filtered)+calB) + calC
}

// RawFor inverts the calibration curve: it returns a raw reading that
// Calibrate maps back to approximately mm. Distances at or beyond
// FarSentinel return a raw value below SensorMax. Used by the
// simulator and tests.
func RawFor(mm int32) uint32 {
	if mm >= FarSentinel {
		return 0
	}
	if mm <= calC {
		mm = calC + 1
	}
	return uint32(calA/(mm-calC) - calB)
}
