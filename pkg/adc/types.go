// Package adc defines the boundary to the analog sampling hardware.
//
// The control core only needs "get three raw samples"; how a backend
// waits on conversion-ready flags is its own business, as long as the
// wait is bounded so the sampling task stays inside its period budget.
package adc

import "errors"

// Converter is a blocking triple-channel analog read.
//
// The return order is right, center, left. It mirrors the wiring of
// the three distance sensors to ADC channels A17, A14 and A16 and must
// not be shuffled: all downstream position mapping relies on it.
type Converter interface {
	Convert() (right, center, left uint32, err error)
}

// ConvertFunc is the func form of Converter.
type ConvertFunc func() (right, center, left uint32, err error)

// Convert implements Converter.
func (f ConvertFunc) Convert() (right, center, left uint32, err error) {
	return f()
}

// ErrExhausted indicates a replay source ran out of samples.
var ErrExhausted = errors.New("no more samples")
