package color

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	fx "github.com/robotalks/mazebot.go/pkg/framework"
	"github.com/robotalks/mazebot.go/pkg/robot"
)

func TestCalibrationTracksExtremes(t *testing.T) {
	cal := NewCalibrationData(Data{Clear: 100, Red: 100, Green: 100, Blue: 100})
	cal.Update(Data{Clear: 50, Red: 120, Green: 90, Blue: 300})
	cal.Update(Data{Clear: 200, Red: 80, Green: 110, Blue: 10})

	require.Equal(t, Data{Clear: 50, Red: 80, Green: 90, Blue: 10}, cal.Min)
	require.Equal(t, Data{Clear: 200, Red: 120, Green: 110, Blue: 300}, cal.Max)
}

func TestNormalize(t *testing.T) {
	cal := CalibrationData{
		Min: Data{Clear: 0, Red: 0, Green: 0, Blue: 0},
		Max: Data{Clear: 1000, Red: 100, Green: 200, Blue: 400},
	}
	n := cal.Normalize(Data{Clear: 500, Red: 100, Green: 100, Blue: 100})
	// Scale factor truncates first: 0xFFFF/1000 = 65.
	require.Equal(t, uint16(500*65), n.Clear)
	// Full-scale input lands near but not exactly at 0xFFFF.
	require.Equal(t, uint16(100*(0xFFFF/100)), n.Red)
	require.Equal(t, uint16(100*(0xFFFF/200)), n.Green)
	require.Equal(t, uint16(100*(0xFFFF/400)), n.Blue)
}

func TestNormalizeDegenerateRange(t *testing.T) {
	cal := NewCalibrationData(Data{Red: 42})
	// No range observed yet: pass through instead of dividing by zero.
	require.Equal(t, uint16(42), cal.Normalize(Data{Red: 42}).Red)
}

func TestBandMatch(t *testing.T) {
	testCases := []struct {
		name    string
		r, g, b uint16 // 8-bit scale
		want    bool
	}{
		{"marker blue", 50, 100, 200, true},
		{"band edges inclusive", 90, 130, 180, true},
		{"red too strong", 91, 100, 200, false},
		{"blue too weak", 50, 100, 179, false},
		{"blue saturated", 50, 100, 241, false},
		{"white floor", 250, 250, 250, false},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			d := Data{Red: tc.r * 256, Green: tc.g * 256, Blue: tc.b * 256}
			require.Equal(t, tc.want, BlueMarker.Match(d))
		})
	}
}

type tickContext struct{}

func (tickContext) Time() time.Time          { return time.Now() }
func (tickContext) Context() context.Context { return context.Background() }
func (tickContext) PriorityLevel() int       { return fx.PrLvSense }
func (tickContext) Tick() uint64             { return 0 }

func TestWatcherLatchesHalt(t *testing.T) {
	samples := []Data{
		// Priming + calibration sweep establishing the range.
		{Clear: 0, Red: 0, Green: 0, Blue: 0},
		{Clear: 65535, Red: 65535, Green: 65535, Blue: 65535},
		// White floor: no match.
		{Clear: 60000, Red: 60000, Green: 60000, Blue: 60000},
		// Blue marker.
		{Clear: 30000, Red: 10000, Green: 20000, Blue: 50000},
	}
	i := 0
	sensor := ReadRGBCFunc(func() (Data, error) {
		d := samples[i]
		if i < len(samples)-1 {
			i++
		}
		return d, nil
	})

	state := &robot.State{}
	w := NewConfig().NewWatcher(sensor, state)
	for range samples {
		require.NoError(t, w.Control(tickContext{}))
	}
	require.Equal(t, robot.Halted, state.Mode())
	require.True(t, state.Snapshot().Marker)

	// Latched: further samples are not even read.
	require.NoError(t, w.Control(tickContext{}))
}
