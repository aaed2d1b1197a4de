package distance

import (
	"github.com/golang/glog"

	"github.com/robotalks/mazebot.go/pkg/adc"
	fx "github.com/robotalks/mazebot.go/pkg/framework"
	"github.com/robotalks/mazebot.go/pkg/lpf"
	"github.com/robotalks/mazebot.go/pkg/robot"
)

// DefaultFilterDepth is the moving-average window per channel.
const DefaultFilterDepth = 64

// Sampler is the periodic sampling task. Each tick it performs one
// blocking triple conversion, low-pass filters each channel through
// its own filter instance, calibrates the results and overwrites the
// shared distance state. That side effect is its entire contract.
type Sampler struct {
	Conv  adc.Converter
	State *robot.State

	filterRight  *lpf.LPF
	filterCenter *lpf.LPF
	filterLeft   *lpf.LPF
}

// NewSampler creates a Sampler and primes the three filters with one
// initial conversion so the first outputs start at the seed instead of
// ramping from zero.
func NewSampler(conv adc.Converter, state *robot.State, depth int) (*Sampler, error) {
	right, center, left, err := conv.Convert()
	if err != nil {
		return nil, err
	}
	s := &Sampler{Conv: conv, State: state}
	if s.filterRight, err = lpf.New(right, depth); err != nil {
		return nil, err
	}
	if s.filterCenter, err = lpf.New(center, depth); err != nil {
		return nil, err
	}
	if s.filterLeft, err = lpf.New(left, depth); err != nil {
		return nil, err
	}
	s.publish(right, center, left)
	return s, nil
}

// AddToLoop implements LoopAdder: the sampler runs at sense priority
// on the fast loop.
func (s *Sampler) AddToLoop(l *fx.Loop) {
	l.AddController(fx.PrLvSense, s)
}

// Control implements Controller. Conversion errors are reported and
// the previous distances stay in place; the controller keeps running
// on stale-but-valid data.
func (s *Sampler) Control(cc fx.ControlContext) error {
	right, center, left, err := s.Conv.Convert()
	if err != nil {
		return err
	}
	s.publish(s.filterRight.Calc(right), s.filterCenter.Calc(center), s.filterLeft.Calc(left))
	return nil
}

func (s *Sampler) publish(filteredRight, filteredCenter, filteredLeft uint32) {
	left := Calibrate(filteredLeft)
	center := Calibrate(filteredCenter)
	right := Calibrate(filteredRight)
	s.State.SetDistances(left, center, right)
	glog.V(4).Infof("distances: left=%dmm center=%dmm right=%dmm", left, center, right)
}
