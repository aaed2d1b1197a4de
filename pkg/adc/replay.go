package adc

import (
	"bufio"
	"fmt"
	"io"
)

// Replay is a Converter fed from recorded raw triples, one
// "right center left" triple per line. It is used to re-run the
// filter and controller against captured sensor traces.
type Replay struct {
	scanner *bufio.Scanner
	line    int
	last    [3]uint32
	primed  bool

	// HoldLast keeps returning the final triple after the trace is
	// exhausted instead of reporting ErrExhausted.
	HoldLast bool
}

// NewReplay creates a Replay reading from r.
func NewReplay(r io.Reader) *Replay {
	return &Replay{scanner: bufio.NewScanner(r)}
}

// Convert implements Converter.
func (r *Replay) Convert() (right, center, left uint32, err error) {
	for r.scanner.Scan() {
		r.line++
		text := r.scanner.Text()
		if text == "" || text[0] == '#' {
			continue
		}
		var triple [3]uint32
		if _, err = fmt.Sscan(text, &triple[0], &triple[1], &triple[2]); err != nil {
			return 0, 0, 0, fmt.Errorf("trace line %d: %v", r.line, err)
		}
		r.last, r.primed = triple, true
		return triple[0], triple[1], triple[2], nil
	}
	if err = r.scanner.Err(); err != nil {
		return 0, 0, 0, err
	}
	if r.HoldLast && r.primed {
		return r.last[0], r.last[1], r.last[2], nil
	}
	return 0, 0, 0, ErrExhausted
}
