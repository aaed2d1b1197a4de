package distance

// Sentinel distances for the time-of-flight sensor variant. Each is an
// out-of-band code, not a millimeter value: controllers must treat all
// of them as "very far".
const (
	// TofHardwareError reports a failed measurement.
	TofHardwareError uint32 = 65535
	// TofLowAmplitude reports a return signal too weak to trust.
	TofLowAmplitude uint32 = 65534
	// TofOverflow reports a phase underflow that wrapped around to an
	// absurdly large distance.
	TofOverflow uint32 = 65533
)

// Amplitude below this is ignored.
const tofAmplitudeMin = 150

// Distances above this are wrapped underflows, not real measurements.
const tofDistanceMax = 10000

// ClassifyTof maps a raw time-of-flight measurement to either a
// plausible distance in millimeters or one of the sentinel codes.
func ClassifyTof(distanceMM, amplitude uint32, hwErr bool) uint32 {
	if hwErr {
		return TofHardwareError
	}
	if amplitude < tofAmplitudeMin {
		return TofLowAmplitude
	}
	if distanceMM > tofDistanceMax {
		return TofOverflow
	}
	return distanceMM
}

// IsFar reports whether d should be treated as open space. The analog
// far sentinel and all time-of-flight sentinel codes sit at or above
// FarSentinel, so a single threshold covers both sensor variants.
func IsFar(d int32) bool {
	return d >= FarSentinel
}
