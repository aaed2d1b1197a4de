package link

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/mazebot.go/pkg/drive"
)

func TestFrameRoundTrip(t *testing.T) {
	testCases := []struct {
		name        string
		op          byte
		left, right uint16
	}{
		{"forward", OpForward, 2500, 2500},
		{"backward", OpBackward, 1500, 3500},
		{"left", OpLeft, 0, 65535},
		{"right", OpRight, 3000, 2000},
		{"stop", OpStop, 0, 0},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			f := DutyFrame(tc.op, tc.left, tc.right)
			f.Seq = 5
			b, err := f.Bytes()
			require.NoError(t, err)

			var p Parser
			var got *Frame
			for _, by := range b {
				if out := p.Parse(by); out != nil {
					require.Nil(t, got, "only one frame expected")
					got = out
				}
			}
			require.NotNil(t, got)
			require.Equal(t, tc.op, got.Code)
			require.Equal(t, Seq(5), got.Seq)
			if tc.op == OpStop {
				require.Empty(t, got.Data)
			} else {
				left, right, err := got.DutyPair()
				require.NoError(t, err)
				require.Equal(t, tc.left, left)
				require.Equal(t, tc.right, right)
			}
		})
	}
}

func TestFramePayloadLimit(t *testing.T) {
	f := &Frame{Code: OpForward, Data: make([]byte, MaxPayload+1)}
	_, err := f.Bytes()
	require.Error(t, err)
}

func TestSeqWraps(t *testing.T) {
	s := Seq(0xef)
	require.True(t, s.IsValid())
	require.Equal(t, Seq(1), s.Next())
	require.False(t, Seq(0).IsValid())
	require.False(t, Seq(0xf0).IsValid())
	require.False(t, Seq(0xff).IsValid())
}

func TestParserResync(t *testing.T) {
	var p Parser
	// Garbage that can never be a sequence byte.
	require.Nil(t, p.Parse(0xff))
	require.Nil(t, p.Parse(0xf3))

	// A valid frame right after garbage parses cleanly.
	f := DutyFrame(OpForward, 2500, 2500)
	f.Seq = 7
	b, err := f.Bytes()
	require.NoError(t, err)
	var got *Frame
	for _, by := range b {
		if out := p.Parse(by); out != nil {
			got = out
		}
	}
	require.NotNil(t, got)

	// Out-of-order sequence drops sync: the frame must not be
	// delivered as sent (later bytes may be re-hunted as frame
	// starts, which is fine).
	bad := DutyFrame(OpForward, 1, 1)
	bad.Seq = 99 // expected is 8
	b, err = bad.Bytes()
	require.NoError(t, err)
	for _, by := range b {
		if out := p.Parse(by); out != nil {
			require.NotEqual(t, Seq(99), out.Seq)
		}
	}
}

func TestParserConsecutiveFrames(t *testing.T) {
	var p Parser
	var buf bytes.Buffer
	seq := Seq(10)
	for i := 0; i < 3; i++ {
		f := DutyFrame(OpForward, uint16(1000+i), 2500)
		f.Seq = seq
		_, err := f.WriteTo(&buf)
		require.NoError(t, err)
		seq = seq.Next()
	}

	var frames []*Frame
	for _, by := range buf.Bytes() {
		if f := p.Parse(by); f != nil {
			frames = append(frames, f)
		}
	}
	require.Len(t, frames, 3)
	for i, f := range frames {
		left, _, err := f.DutyPair()
		require.NoError(t, err)
		require.Equal(t, uint16(1000+i), left)
	}
}

func TestMotorsThroughDriveInterface(t *testing.T) {
	// The control loop only ever sees the drive.Motors interface.
	var buf bytes.Buffer
	var m drive.Motors = NewMotors(&buf)
	require.NoError(t, drive.Apply(m, drive.Backward, 1500, 3500))

	var p Parser
	var got *Frame
	for _, by := range buf.Bytes() {
		if f := p.Parse(by); f != nil {
			got = f
		}
	}
	require.NotNil(t, got)
	require.Equal(t, OpBackward, got.Code)
	left, right, err := got.DutyPair()
	require.NoError(t, err)
	require.Equal(t, uint16(1500), left)
	require.Equal(t, uint16(3500), right)
}

func TestMotorsEmitsFrames(t *testing.T) {
	var buf bytes.Buffer
	m := NewMotors(&buf)
	require.NoError(t, m.Forward(2600, 2400))
	require.NoError(t, m.Stop())

	var p Parser
	var frames []*Frame
	for _, by := range buf.Bytes() {
		if f := p.Parse(by); f != nil {
			frames = append(frames, f)
		}
	}
	require.Len(t, frames, 2)

	require.Equal(t, OpForward, frames[0].Code)
	left, right, err := frames[0].DutyPair()
	require.NoError(t, err)
	require.Equal(t, uint16(2600), left)
	require.Equal(t, uint16(2400), right)

	require.Equal(t, OpStop, frames[1].Code)
	require.Equal(t, frames[0].Seq.Next(), frames[1].Seq)
}
