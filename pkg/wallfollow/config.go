package wallfollow

import (
	"flag"
	"fmt"
)

// Distance thresholds (mm) and controller gain. The defaults are the
// values the calibration curve was tuned against.
const (
	DefaultDesiredDistance = 250
	DefaultBackoffMargin   = 50
	DefaultKp              = 4
)

// Policy selects the actuation decision guarding the steering law.
type Policy int

// Policies, from simplest to richest.
const (
	// PolicyForward always drives forward with the computed duties.
	PolicyForward Policy = iota
	// PolicyForwardStop stops unless the center channel sees open
	// corridor ahead.
	PolicyForwardStop
	// PolicyForwardBackStop additionally backs away from an imminent
	// frontal obstacle.
	PolicyForwardBackStop
)

func (p Policy) String() string {
	switch p {
	case PolicyForward:
		return "forward"
	case PolicyForwardStop:
		return "forward-stop"
	case PolicyForwardBackStop:
		return "forward-back-stop"
	}
	return "unknown"
}

// ParsePolicy converts a policy name into a Policy.
func ParsePolicy(value string) (Policy, error) {
	switch value {
	case "forward":
		return PolicyForward, nil
	case "forward-stop":
		return PolicyForwardStop, nil
	case "forward-back-stop":
		return PolicyForwardBackStop, nil
	}
	return PolicyForward, fmt.Errorf("unknown policy %q", value)
}

// Config defines the configuration for the wall follower.
type Config struct {
	Desired int
	Margin  int
	Kp      int
	Policy  string
}

var defaultConfig = Config{
	Desired: DefaultDesiredDistance,
	Margin:  DefaultBackoffMargin,
	Kp:      DefaultKp,
	Policy:  PolicyForwardBackStop.String(),
}

// SetupFlags sets command line flags.
func SetupFlags() {
	flag.IntVar(&defaultConfig.Kp, "kp", defaultConfig.Kp, "Proportional gain.")
	flag.IntVar(&defaultConfig.Desired, "desired-mm", defaultConfig.Desired, "Desired wall distance (mm).")
	flag.IntVar(&defaultConfig.Margin, "backoff-mm", defaultConfig.Margin, "Backoff margin below desired distance (mm).")
	flag.StringVar(&defaultConfig.Policy, "policy", defaultConfig.Policy,
		"Actuation policy: forward, forward-stop, forward-back-stop.")
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
