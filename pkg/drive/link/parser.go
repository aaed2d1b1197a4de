package link

// Parser is a byte-at-a-time frame parser. It tracks the peer's
// expected sequence number; any byte that cannot continue the current
// frame drops the parser back to hunting for the next valid sequence
// byte, so a corrupted frame costs at most itself plus one.
type Parser struct {
	peerSeq Seq
	state   parseState
	frame   *Frame
	recvLen byte
	synced  bool
}

type parseState int

const (
	stateSeq parseState = iota
	stateCode
	stateData
)

// Parse consumes one byte and returns a completed frame, if any.
func (p *Parser) Parse(b byte) *Frame {
	switch p.state {
	case stateSeq:
		seq := Seq(b)
		if !seq.IsValid() {
			return p.resync()
		}
		if p.synced && seq != p.peerSeq {
			return p.resync()
		}
		p.frame = &Frame{Seq: seq}
		p.peerSeq, p.synced = seq.Next(), true
		p.state = stateCode
	case stateCode:
		p.frame.Code = b & 0x8f
		dataLen := (b >> 4) & 7
		if dataLen == 0 {
			return p.frameReady()
		}
		p.frame.Data, p.recvLen = make([]byte, dataLen), 0
		p.state = stateData
	case stateData:
		p.frame.Data[p.recvLen] = b
		p.recvLen++
		if p.recvLen >= byte(len(p.frame.Data)) {
			return p.frameReady()
		}
	}
	return nil
}

// Reset drops sync and any partial frame, e.g. after a read timeout.
func (p *Parser) Reset() {
	p.resync()
}

func (p *Parser) resync() *Frame {
	p.state, p.frame, p.synced = stateSeq, nil, false
	return nil
}

func (p *Parser) frameReady() *Frame {
	p.state = stateSeq
	f := p.frame
	p.frame = nil
	return f
}
