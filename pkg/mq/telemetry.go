package mq

import (
	"encoding/json"
	"flag"
	"os"

	"github.com/denisbrodbeck/machineid"
	"github.com/golang/glog"

	fx "github.com/robotalks/mazebot.go/pkg/framework"
	"github.com/robotalks/mazebot.go/pkg/robot"
)

// Config provides the common MQTT options for the robot daemon.
type Config struct {
	// BrokerURL specifies the MQTT broker,
	// e.g. mqtt://host:port/topic-prefix.
	BrokerURL string
	// Type and ID form the robot's topic path <type>/<id>/...
	Type string
	ID   string
	// PubEvery publishes telemetry every N control ticks.
	PubEvery uint64
}

var defaultConfig = Config{
	BrokerURL: "mqtt://localhost:1883/mazebot/",
	Type:      "wallbot",
	PubEvery:  50,
}

func init() {
	if val := os.Getenv("MAZEBOT_MQTT_URL"); val != "" {
		defaultConfig.BrokerURL = val
	}
	if id, err := machineid.ID(); err == nil {
		defaultConfig.ID = id
	}
}

// SetupFlags sets command line flags.
func SetupFlags() {
	flag.StringVar(&defaultConfig.BrokerURL, "mqtt", defaultConfig.BrokerURL, "MQTT broker URL, empty disables.")
	flag.StringVar(&defaultConfig.Type, "type", defaultConfig.Type, "Robot type in topic path.")
	flag.StringVar(&defaultConfig.ID, "id", defaultConfig.ID, "Robot ID in topic path.")
}

// NewConfig creates a copy of the default configuration.
func NewConfig() *Config {
	conf := defaultConfig
	return &conf
}

// StateTopic returns the telemetry topic relative to the prefix.
func (c *Config) StateTopic() string {
	return c.Type + "/" + c.ID + "/state"
}

// CmdTopic returns the command topic relative to the prefix.
func (c *Config) CmdTopic() string {
	return c.Type + "/" + c.ID + "/cmd"
}

// Telemetry periodically publishes state snapshots. It runs at
// post-processing priority on the control loop and divides the tick
// rate down, mirroring the firmware's 500ms debug print.
type Telemetry struct {
	Queue *Queue
	State *robot.State
	Topic string
	Every uint64
}

// NewTelemetry creates the Telemetry publisher.
func (c *Config) NewTelemetry(q *Queue, state *robot.State) *Telemetry {
	every := c.PubEvery
	if every == 0 {
		every = 1
	}
	return &Telemetry{Queue: q, State: state, Topic: c.StateTopic(), Every: every}
}

// AddToLoop implements LoopAdder.
func (t *Telemetry) AddToLoop(l *fx.Loop) {
	l.AddController(fx.PrLvPostProc, t)
}

// Control implements Controller. Publish failures are deliberately
// not propagated: telemetry must never disturb the control loop.
func (t *Telemetry) Control(cc fx.ControlContext) error {
	if cc.Tick()%t.Every != 0 {
		return nil
	}
	snap := t.State.Snapshot()
	payload, err := json.Marshal(&snap)
	if err != nil {
		return err
	}
	t.Queue.Pub(t.Topic, payload)
	glog.V(3).Infof("telemetry: %s", payload)
	return nil
}
