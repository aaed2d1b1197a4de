package lpf

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSteadyStateUnderConstantInput(t *testing.T) {
	for _, depth := range []int{2, 4, 64, 512} {
		const seed = 1234
		f, err := New(seed, depth)
		require.NoError(t, err)
		for i := 0; i < depth; i++ {
			require.Equal(t, uint32(seed), f.Calc(seed), "depth=%d update=%d", depth, i)
		}
	}
}

func TestStepConvergence(t *testing.T) {
	const depth = 64
	const v = 640
	f, err := New(0, depth)
	require.NoError(t, err)
	var prev uint32
	for i := 1; i <= depth; i++ {
		out := f.Calc(v)
		require.True(t, out >= prev, "output must be monotonically non-decreasing")
		require.Equal(t, uint32(v*i/depth), out)
		prev = out
	}
	require.Equal(t, uint32(v), prev, "step input must be reached after depth updates")
}

func TestTruncatingDivision(t *testing.T) {
	f, err := New(0, 2)
	require.NoError(t, err)
	// 1/2 truncates to 0, not rounds to 1.
	require.Equal(t, uint32(0), f.Calc(1))
	require.Equal(t, uint32(1), f.Calc(2))
}

func TestOutputBoundedByWindow(t *testing.T) {
	f, err := New(100, 4)
	require.NoError(t, err)
	samples := []uint32{90, 250, 10, 400, 400, 3, 77}
	window := []uint32{100, 100, 100, 100}
	for i, s := range samples {
		window = append(window[1:], s)
		out := f.Calc(s)
		lo, hi := window[0], window[0]
		for _, w := range window {
			if w < lo {
				lo = w
			}
			if w > hi {
				hi = w
			}
		}
		require.True(t, out >= lo && out <= hi, "sample %d: %d not in [%d,%d]", i, out, lo, hi)
	}
}

func TestDepthLimits(t *testing.T) {
	_, err := New(0, 1)
	require.Error(t, err)
	_, err = New(0, 0)
	require.Error(t, err)
	f, err := New(0, MaxDepth+100)
	require.NoError(t, err)
	require.Equal(t, MaxDepth, f.Depth())
}

func TestIsqrt(t *testing.T) {
	for _, s := range []uint32{0, 1, 2, 3, 4, 10, 16, 100, 1000, 4095, 65536, 1 << 20,
		1<<31 - 1, 1 << 31, 3333333333, 1<<32 - 1} {
		got := Isqrt(s)
		exact := uint32(math.Sqrt(float64(s)))
		diff := int64(got) - int64(exact)
		require.True(t, diff >= -1 && diff <= 1, "isqrt(%d)=%d, exact=%d", s, got, exact)
	}
}

func TestNoise(t *testing.T) {
	f, err := New(500, 16)
	require.NoError(t, err)
	require.Equal(t, int32(0), f.Noise(), "constant window has no noise")

	// Alternate 490/510: variance is exactly 100 with mean 500,
	// sample variance sum/(n-1) = 1600/15 = 106 -> isqrt ~ 10.
	for i := 0; i < 16; i++ {
		if i%2 == 0 {
			f.Calc(490)
		} else {
			f.Calc(510)
		}
	}
	sigma := f.Noise()
	require.True(t, sigma >= 9 && sigma <= 11, "sigma=%d", sigma)
}

func TestNoiseLargeSamples(t *testing.T) {
	// Large sample values: the squared deviations exceed 32 bits, so
	// the energy accumulation must happen in 64-bit arithmetic.
	f, err := New(2000000000, 4)
	require.NoError(t, err)
	for i := 0; i < 4; i++ {
		if i%2 == 0 {
			f.Calc(2000000000)
		} else {
			f.Calc(2000100000)
		}
	}
	// mean 2000050000, deviations +-50000, energy 4*2.5e9,
	// sample variance 1e10/3 -> isqrt ~ 57735.
	sigma := f.Noise()
	require.True(t, sigma >= 57734 && sigma <= 57736, "sigma=%d", sigma)
}

func TestMedian3(t *testing.T) {
	var m Median3
	testCases := []struct {
		in, out int32
	}{
		{10, 0},  // window 10,0,0
		{20, 10}, // window 20,10,0
		{5, 10},  // window 5,20,10
		{5, 5},   // window 5,5,20
		{5, 5},   // window 5,5,5
		{99, 5},  // spike rejected
	}
	for i, tc := range testCases {
		require.Equal(t, tc.out, m.Calc(tc.in), "step %d", i)
	}
}
