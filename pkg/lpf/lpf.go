// Package lpf implements the streaming moving-average filter used to
// smooth raw distance sensor readings before calibration.
//
// The filter keeps the most recent N samples in a ring buffer together
// with their running sum, so each update costs one subtraction, one
// addition and one integer divide. The divide truncates toward zero;
// the calibration constants downstream were tuned against exactly this
// fixed-point behavior, so callers must tolerate the truncation bias.
package lpf

import (
	"fmt"
	"math"
)

// MaxDepth bounds the averaging window. Requests above it are clamped.
const MaxDepth = 1024

// LPF is one moving-average filter channel. Each sensor channel needs
// its own instance: Calc mutates the ring buffer and running sum in
// place and is not safe for concurrent use.
type LPF struct {
	buf   []uint32
	index int
	sum   uint32
}

// New creates a filter with the whole window primed to seed, so the
// first outputs equal seed instead of ramping up from zero. depth
// below 2 is rejected; depth above MaxDepth is clamped.
func New(seed uint32, depth int) (*LPF, error) {
	if depth < 2 {
		return nil, fmt.Errorf("filter depth %d: must be at least 2", depth)
	}
	if depth > MaxDepth {
		depth = MaxDepth
	}
	f := &LPF{buf: make([]uint32, depth)}
	f.Reset(seed)
	return f, nil
}

// Reset re-primes the whole window with seed.
func (f *LPF) Reset(seed uint32) {
	for i := range f.buf {
		f.buf[i] = seed
	}
	f.sum = uint32(len(f.buf)) * seed
	f.index = len(f.buf) - 1
}

// Depth returns the window size.
func (f *LPF) Depth() int {
	return len(f.buf)
}

// Calc consumes one new sample and returns the filter output
// y(n) = (x(n)+x(n-1)+...+x(n-N+1))/N. The oldest slot is found by
// decrementing and wrapping the index, its value is swapped out of the
// running sum, and the sum is divided by the depth with truncation.
func (f *LPF) Calc(newdata uint32) uint32 {
	if f.index == 0 {
		f.index = len(f.buf) - 1 // wrap
	} else {
		f.index--
	}
	f.sum = f.sum + newdata - f.buf[f.index] // subtract oldest, add newest
	f.buf[f.index] = newdata
	return f.sum / uint32(len(f.buf))
}

// Noise estimates the noise level as the standard deviation of the
// current window contents. The result uses Isqrt and is therefore
// approximate (within one count of the true integer square root).
func (f *LPF) Noise() int32 {
	n := int64(len(f.buf))
	if n < 2 {
		return 0
	}
	var sum int64
	for _, v := range f.buf {
		sum += int64(v)
	}
	mean := sum / n // DC component
	var energy int64
	for _, v := range f.buf {
		d := int64(v) - mean
		energy += d * d // total energy in AC part
	}
	variance := energy / (n - 1)
	if variance > math.MaxUint32 {
		variance = math.MaxUint32
	}
	return int32(Isqrt(uint32(variance)))
}

// Isqrt computes an integer square root by Newton's method. The fixed
// 16 iterations are sufficient for the 32-bit domain; the result may
// differ from the exact integer square root by one. Intermediates are
// carried in 64 bits: the t*t product wraps uint32 for inputs above
// 2^32/t and the iteration never converges from a wrapped product.
//
// s == 0 returns 0 immediately: the iteration divides by t, and a zero
// input would walk t down to zero.
func Isqrt(s uint32) uint32 {
	if s == 0 {
		return 0
	}
	s64 := uint64(s)
	t := s64/10 + 1 // initial guess
	for n := 16; n > 0; n-- {
		t = ((t*t + s64) / t) / 2
	}
	return uint32(t)
}

// Median3 is a 3-point streaming median, useful for knocking single
// sample spikes out of a stream before it reaches the average.
type Median3 struct {
	u1, u2, u3 int32
}

// Calc pushes newdata and returns the median of the last three samples.
func (m *Median3) Calc(newdata int32) int32 {
	m.u3 = m.u2
	m.u2 = m.u1
	m.u1 = newdata
	u1, u2, u3 := m.u1, m.u2, m.u3
	if u1 > u2 {
		if u2 > u3 {
			return u2 // u1>u2>u3
		}
		if u1 > u3 {
			return u3 // u1>u3>u2
		}
		return u1 // u3>u1>u2
	}
	if u3 > u2 {
		return u2 // u3>u2>u1
	}
	if u1 > u3 {
		return u1 // u2>u1>u3
	}
	return u3 // u2>u3>u1
}
