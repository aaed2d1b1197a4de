package link

import (
	"context"
	"io"
	"sync"

	"github.com/golang/glog"

	"github.com/robotalks/mazebot.go/pkg/drive"
	fx "github.com/robotalks/mazebot.go/pkg/framework"
)

// Motors implements drive.Motors over the packet link. Commands are
// fire-and-forget: the control loop re-issues its command every tick,
// so a lost frame heals on the next tick and there is nothing useful
// to do with a missing ack beyond counting it.
type Motors struct {
	rw io.ReadWriter

	lock sync.Mutex
	seq  Seq

	parser  Parser
	pending map[Seq]byte
	acked   uint64
	lost    uint64
}

var _ drive.Motors = (*Motors)(nil)

// NewMotors creates Motors over a byte stream.
func NewMotors(rw io.ReadWriter) *Motors {
	return &Motors{
		rw:      rw,
		seq:     NewSeq(),
		pending: make(map[Seq]byte),
	}
}

func (m *Motors) send(op byte, left, right uint16) error {
	f := DutyFrame(op, left, right)
	m.lock.Lock()
	defer m.lock.Unlock()
	f.Seq = m.seq
	if _, err := f.WriteTo(m.rw); err != nil {
		return err
	}
	m.pending[f.Seq] = op
	m.seq = m.seq.Next()
	return nil
}

// Forward implements Motors.
func (m *Motors) Forward(left, right uint16) error {
	return m.send(OpForward, left, right)
}

// Backward implements Motors.
func (m *Motors) Backward(left, right uint16) error {
	return m.send(OpBackward, left, right)
}

// Left implements Motors.
func (m *Motors) Left(left, right uint16) error {
	return m.send(OpLeft, left, right)
}

// Right implements Motors.
func (m *Motors) Right(left, right uint16) error {
	return m.send(OpRight, left, right)
}

// Stop implements Motors.
func (m *Motors) Stop() error {
	return m.send(OpStop, 0, 0)
}

// Run implements Runnable: it drains ack frames from the board and
// keeps loss counters. If the stream also implements io.Closer it is
// closed on cancellation to unblock the read.
func (m *Motors) Run(ctx context.Context) error {
	readLoop := func() error {
		buf := make([]byte, 1)
		for {
			n, err := m.rw.Read(buf)
			if err != nil {
				return err
			}
			if n == 0 {
				continue
			}
			if f := m.parseLocked(buf[0]); f != nil {
				m.handleReply(f)
			}
		}
	}
	if closer, ok := m.rw.(io.Closer); ok {
		return fx.RunWithContextCloser(ctx, closer, readLoop)
	}
	return fx.RunWithContext(ctx, readLoop)
}

func (m *Motors) parseLocked(b byte) *Frame {
	m.lock.Lock()
	defer m.lock.Unlock()
	return m.parser.Parse(b)
}

func (m *Motors) handleReply(f *Frame) {
	if f.Code&OpAck == 0 {
		glog.Warningf("motor board: unexpected frame code %#x", f.Code)
		return
	}
	m.lock.Lock()
	defer m.lock.Unlock()
	op, ok := m.pending[f.Seq]
	if !ok || op != f.Code&^OpAck {
		m.lost++
		glog.V(2).Infof("motor board: stray ack seq=%d code=%#x", f.Seq, f.Code)
		return
	}
	delete(m.pending, f.Seq)
	m.acked++
}

// Stats reports acknowledged and stray/lost reply counts.
func (m *Motors) Stats() (acked, lost uint64) {
	m.lock.Lock()
	defer m.lock.Unlock()
	return m.acked, m.lost
}
