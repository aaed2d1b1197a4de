package mq

import (
	"encoding/json"
	"fmt"

	"github.com/golang/glog"

	"github.com/robotalks/mazebot.go/pkg/drive"
	"github.com/robotalks/mazebot.go/pkg/robot"
)

// Command is the JSON document accepted on the command topic.
//
// Mode switches: {"op":"auto"}, {"op":"halt"}.
// Manual drive: {"op":"forward","left":2500,"right":2500} and the
// backward/left/right/stop variants; these imply manual mode.
type Command struct {
	Op    string `json:"op"`
	Left  uint16 `json:"left"`
	Right uint16 `json:"right"`
}

// ApplyTo validates the command and writes it into the shared state.
// It never touches the motors directly: the control task owns
// actuation and picks the change up on its next tick.
func (c *Command) ApplyTo(state *robot.State) error {
	switch c.Op {
	case "auto":
		state.SetMode(robot.Auto)
	case "halt":
		state.SetMode(robot.Halted)
	case "stop":
		state.SetManual(drive.Stopped, 0, 0)
	case "forward", "backward", "left", "right", "manual":
		cmd, err := parseDirection(c.Op)
		if err != nil {
			return err
		}
		state.SetManual(cmd, drive.Clamp(int32(c.Left)), drive.Clamp(int32(c.Right)))
	default:
		return fmt.Errorf("unknown op %q", c.Op)
	}
	return nil
}

func parseDirection(op string) (drive.Command, error) {
	switch op {
	case "forward", "manual":
		return drive.Forward, nil
	case "backward":
		return drive.Backward, nil
	case "left":
		return drive.TurnLeft, nil
	case "right":
		return drive.TurnRight, nil
	}
	return drive.Stopped, fmt.Errorf("unknown direction %q", op)
}

// SubscribeCommands wires the command topic to the shared state.
func (c *Config) SubscribeCommands(q *Queue, state *robot.State) {
	q.Sub(c.CmdTopic(), func(topic string, payload []byte) {
		var cmd Command
		if err := json.Unmarshal(payload, &cmd); err != nil {
			glog.Errorf("bad command payload %q: %v", payload, err)
			return
		}
		if err := cmd.ApplyTo(state); err != nil {
			glog.Errorf("command rejected: %v", err)
			return
		}
		glog.Infof("remote command: %s left=%d right=%d", cmd.Op, cmd.Left, cmd.Right)
	})
}
