// Package link implements the framed packet protocol spoken to the
// motor driver board over a byte stream (UART in practice).
//
// Frame layout: a sequence byte, a code byte carrying the operation in
// the low nibble and the payload length in bits 4-6, then the payload.
// Sequence bytes stay below 0xf0 so the values 0xf0-0xff remain
// available as resync markers a receiver can never mistake for the
// start of a frame.
package link

import (
	"fmt"
	"io"
	"time"
)

// Operation codes.
const (
	OpStop     byte = 0x00
	OpForward  byte = 0x01
	OpBackward byte = 0x02
	OpLeft     byte = 0x03
	OpRight    byte = 0x04

	// OpAck is set on reply frames; the low bits echo the operation
	// being acknowledged.
	OpAck byte = 0x08
)

// Seq defines the type of frame sequence number.
type Seq byte

// NewSeq creates a random frame sequence number.
func NewSeq() Seq {
	return Seq(byte(time.Now().UnixNano())).Next()
}

// Next calculates the next sequence number.
func (s Seq) Next() Seq {
	n := byte(s) + 1
	if n == 0 || n >= 0xf0 {
		n = 1
	}
	return Seq(n)
}

// IsValid checks if it's a valid sequence number.
func (s Seq) IsValid() bool {
	n := byte(s)
	return n > 0 && n < 0xf0
}

// Frame is one parsed or to-be-sent frame.
type Frame struct {
	Seq  Seq
	Code byte
	Data []byte
}

// MaxPayload is bounded by the 3-bit length nibble.
const MaxPayload = 7

// Bytes returns encoded bytes for sending.
func (f *Frame) Bytes() ([]byte, error) {
	if len(f.Data) > MaxPayload {
		return nil, fmt.Errorf("payload %d exceeds %d bytes", len(f.Data), MaxPayload)
	}
	b := make([]byte, len(f.Data)+2)
	b[0] = byte(f.Seq)
	b[1] = (f.Code & 0x8f) | byte(len(f.Data))<<4
	copy(b[2:], f.Data)
	return b, nil
}

// WriteTo writes encoded bytes.
func (f *Frame) WriteTo(w io.Writer) (int, error) {
	b, err := f.Bytes()
	if err != nil {
		return 0, err
	}
	return w.Write(b)
}

// DutyFrame builds a motor command frame: operation code plus the
// (left, right) duty pair in little-endian. Stop carries no payload.
func DutyFrame(op byte, left, right uint16) *Frame {
	f := &Frame{Code: op}
	if op != OpStop {
		f.Data = []byte{
			byte(left), byte(left >> 8),
			byte(right), byte(right >> 8),
		}
	}
	return f
}

// DutyPair decodes the payload of a motor command frame.
func (f *Frame) DutyPair() (left, right uint16, err error) {
	if len(f.Data) != 4 {
		return 0, 0, fmt.Errorf("duty payload must be 4 bytes, got %d", len(f.Data))
	}
	left = uint16(f.Data[0]) | uint16(f.Data[1])<<8
	right = uint16(f.Data[2]) | uint16(f.Data[3])<<8
	return
}
