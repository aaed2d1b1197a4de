// Package joystick feeds manual drive commands from a gamepad into
// the shared state. Moving the stick seizes control (Manual mode); a
// button press hands control back to the wall follower.
package joystick

import (
	"flag"

	"github.com/robotalks/mazebot.go/pkg/robot"
)

// Config defines the configuration for the teleop input.
type Config struct {
	Enabled     bool
	DeviceIndex int
	Verbose     bool
}

var defaultConfig = Config{DeviceIndex: -1}

// SetupFlags sets command line flags.
func SetupFlags() {
	flag.BoolVar(&defaultConfig.Enabled, "teleop", defaultConfig.Enabled, "Enable joystick teleop input.")
	flag.IntVar(&defaultConfig.DeviceIndex, "device", defaultConfig.DeviceIndex, "Joystick device index, -1 for auto detection.")
	flag.BoolVar(&defaultConfig.Verbose, "verbose", defaultConfig.Verbose, "Print joystick events.")
}

// Default gets default config.
func Default() *Config {
	return &defaultConfig
}

// NewConfig creates a copy of the default configuration.
func NewConfig() *Config {
	conf := defaultConfig
	return &conf
}

// NewTeleop creates the teleop input.
func (c *Config) NewTeleop(state *robot.State) *Teleop {
	return &Teleop{State: state, DeviceIndex: c.DeviceIndex, Verbose: c.Verbose}
}
