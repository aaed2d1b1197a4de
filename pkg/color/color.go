// Package color implements marker detection on an RGBC color sensor:
// running min/max calibration, 16-bit normalization and band matching
// used to stop the robot on a colored floor marker.
package color

// Data is one raw or normalized RGBC sample.
type Data struct {
	Clear uint16
	Red   uint16
	Green uint16
	Blue  uint16
}

// Sensor is the boundary to the color sensor hardware.
type Sensor interface {
	ReadRGBC() (Data, error)
}

// ReadRGBCFunc is the func form of Sensor.
type ReadRGBCFunc func() (Data, error)

// ReadRGBC implements Sensor.
func (f ReadRGBCFunc) ReadRGBC() (Data, error) {
	return f()
}

// CalibrationData tracks the per-channel extremes seen so far. The
// sensor has no absolute scale; normalizing against the observed range
// makes the band thresholds lighting-independent.
type CalibrationData struct {
	Min Data
	Max Data
}

// NewCalibrationData seeds calibration with the first sample.
func NewCalibrationData(first Data) CalibrationData {
	return CalibrationData{Min: first, Max: first}
}

// Update widens the observed range with a new sample.
func (c *CalibrationData) Update(sample Data) {
	if sample.Clear < c.Min.Clear {
		c.Min.Clear = sample.Clear
	}
	if sample.Red < c.Min.Red {
		c.Min.Red = sample.Red
	}
	if sample.Green < c.Min.Green {
		c.Min.Green = sample.Green
	}
	if sample.Blue < c.Min.Blue {
		c.Min.Blue = sample.Blue
	}
	if sample.Clear > c.Max.Clear {
		c.Max.Clear = sample.Clear
	}
	if sample.Red > c.Max.Red {
		c.Max.Red = sample.Red
	}
	if sample.Green > c.Max.Green {
		c.Max.Green = sample.Green
	}
	if sample.Blue > c.Max.Blue {
		c.Max.Blue = sample.Blue
	}
}

// Normalize stretches a sample over the observed range to the full
// 16-bit scale, channel by channel, with the original's integer
// semantics (the scale factor truncates before multiplying). Channels
// with no observed range yet pass through unchanged.
func (c CalibrationData) Normalize(sample Data) Data {
	return Data{
		Clear: normalize(sample.Clear, c.Min.Clear, c.Max.Clear),
		Red:   normalize(sample.Red, c.Min.Red, c.Max.Red),
		Green: normalize(sample.Green, c.Min.Green, c.Max.Green),
		Blue:  normalize(sample.Blue, c.Min.Blue, c.Max.Blue),
	}
}

func normalize(v, min, max uint16) uint16 {
	if max == min {
		return v
	}
	return uint16(uint32(v-min) * (0xFFFF / uint32(max-min)))
}
