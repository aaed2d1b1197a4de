package color

import (
	"flag"

	"github.com/golang/glog"

	fx "github.com/robotalks/mazebot.go/pkg/framework"
	"github.com/robotalks/mazebot.go/pkg/robot"
)

// Band is an inclusive RGB match window on the 8-bit scale
// (normalized 16-bit channels divided by 256). Zero Min and 255 Max
// leave a channel unconstrained.
type Band struct {
	RedMin, RedMax     uint16
	GreenMin, GreenMax uint16
	BlueMin, BlueMax   uint16
}

// BlueMarker is the default marker band: low red and green, strong
// but not saturated blue.
var BlueMarker = Band{
	RedMin: 0, RedMax: 90,
	GreenMin: 0, GreenMax: 130,
	BlueMin: 180, BlueMax: 240,
}

// Match reports whether a normalized sample falls inside the band.
func (b Band) Match(d Data) bool {
	r, g, bl := d.Red/256, d.Green/256, d.Blue/256
	return r >= b.RedMin && r <= b.RedMax &&
		g >= b.GreenMin && g <= b.GreenMax &&
		bl >= b.BlueMin && bl <= b.BlueMax
}

// Config defines the configuration for the marker watcher.
type Config struct {
	Disabled bool
}

var defaultConfig = Config{}

// SetupFlags sets command line flags.
func SetupFlags() {
	flag.BoolVar(&defaultConfig.Disabled, "no-marker", defaultConfig.Disabled,
		"Disable color marker detection.")
}

// NewConfig creates a copy of the default configuration.
func NewConfig() *Config {
	conf := defaultConfig
	return &conf
}

// Watcher polls the color sensor, keeps the running calibration up to
// date and latches the robot into Halted mode when the marker band
// matches. Detection is one-shot per run.
type Watcher struct {
	Sensor Sensor
	State  *robot.State
	Band   Band

	calibration CalibrationData
	primed      bool
	detected    bool
}

// NewWatcher creates the Watcher.
func (c *Config) NewWatcher(sensor Sensor, state *robot.State) *Watcher {
	return &Watcher{Sensor: sensor, State: state, Band: BlueMarker}
}

// AddToLoop implements LoopAdder: the watcher runs at sense priority
// on its own slow loop.
func (w *Watcher) AddToLoop(l *fx.Loop) {
	l.AddController(fx.PrLvSense, w)
}

// Control implements Controller.
func (w *Watcher) Control(cc fx.ControlContext) error {
	if w.detected {
		return nil
	}
	sample, err := w.Sensor.ReadRGBC()
	if err != nil {
		return err
	}
	if !w.primed {
		w.calibration = NewCalibrationData(sample)
		w.primed = true
		return nil
	}
	w.calibration.Update(sample)
	normalized := w.calibration.Normalize(sample)
	if w.Band.Match(normalized) {
		w.detected = true
		glog.Infof("marker detected: r=%d g=%d b=%d, halting",
			normalized.Red/256, normalized.Green/256, normalized.Blue/256)
		w.State.MarkerDetected()
	}
	return nil
}
