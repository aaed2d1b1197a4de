package distance

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCalibrateBoundary(t *testing.T) {
	require.Equal(t, int32(FarSentinel), Calibrate(SensorMax-1))
	// At the threshold the rational formula applies, not the sentinel.
	require.Equal(t, int32(calA/(SensorMax+calB)+calC), Calibrate(SensorMax))
	require.NotEqual(t, int32(FarSentinel), Calibrate(SensorMax))
}

func TestCalibrateCurve(t *testing.T) {
	testCases := []struct {
		raw  uint32
		want int32
	}{
		{0, FarSentinel},
		{2551, FarSentinel},
		{2552, 1195159/(2552-1058) + 40},
		{3720, 1195159/(3720-1058) + 40}, // ~489mm
		{5838, 1195159/(5838-1058) + 40}, // ~290mm
		{14000, 1195159/(14000-1058) + 40},
	}
	for _, tc := range testCases {
		require.Equal(t, tc.want, Calibrate(tc.raw), "raw=%d", tc.raw)
	}
}

func TestCalibrateMonotonicallyDecreasing(t *testing.T) {
	// Stronger echo means closer target.
	prev := Calibrate(SensorMax)
	for raw := uint32(SensorMax + 100); raw < 16000; raw += 100 {
		d := Calibrate(raw)
		require.True(t, d <= prev, "raw=%d: %d > %d", raw, d, prev)
		prev = d
	}
}

func TestClassifyTof(t *testing.T) {
	testCases := []struct {
		name      string
		dist, amp uint32
		hwErr     bool
		want      uint32
	}{
		{"ok", 420, 900, false, 420},
		{"hardware error", 420, 900, true, TofHardwareError},
		{"low amplitude", 420, 149, false, TofLowAmplitude},
		{"underflow wrap", 10001, 900, false, TofOverflow},
		{"hw error wins over amplitude", 420, 10, true, TofHardwareError},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, ClassifyTof(tc.dist, tc.amp, tc.hwErr))
		})
	}
}

func TestIsFar(t *testing.T) {
	require.True(t, IsFar(FarSentinel))
	require.True(t, IsFar(int32(TofHardwareError)))
	require.True(t, IsFar(int32(TofLowAmplitude)))
	require.True(t, IsFar(int32(TofOverflow)))
	require.False(t, IsFar(250))
	require.False(t, IsFar(799))
}
