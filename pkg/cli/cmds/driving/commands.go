package driving

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/abiosoft/ishell"

	"github.com/robotalks/mazebot.go/pkg/cli/sh"
	"github.com/robotalks/mazebot.go/pkg/drive"
	"github.com/robotalks/mazebot.go/pkg/mq"
	"github.com/robotalks/mazebot.go/pkg/robot"
)

func dutyArgs(c *ishell.Context) (left, right uint16, err error) {
	left, right = drive.PWMNominal, drive.PWMNominal
	if len(c.Args) == 1 {
		return 0, 0, fmt.Errorf("both LEFT and RIGHT duties required")
	}
	if len(c.Args) >= 2 {
		l, err1 := strconv.ParseUint(c.Args[0], 10, 16)
		r, err2 := strconv.ParseUint(c.Args[1], 10, 16)
		if err1 != nil || err2 != nil {
			return 0, 0, fmt.Errorf("invalid duty pair %q %q", c.Args[0], c.Args[1])
		}
		left, right = uint16(l), uint16(r)
	}
	return left, right, nil
}

func driveCmd(name, alias, op string) *ishell.Cmd {
	return &ishell.Cmd{
		Name:    name,
		Aliases: []string{alias},
		Help:    "[LEFT RIGHT] duty cycles, nominal when omitted",
		Func: func(c *ishell.Context) {
			left, right, err := dutyArgs(c)
			if err != nil {
				c.Err(err)
				return
			}
			sh.SendCommand(c, mq.Command{Op: op, Left: left, Right: right})
		},
	}
}

func printState(c *ishell.Context, payload []byte) {
	if sh.ShellFrom(c).OutputJSON {
		c.Println(string(payload))
		return
	}
	var snap robot.Snapshot
	if err := json.Unmarshal(payload, &snap); err != nil {
		c.Err(err)
		return
	}
	c.Printf("mode=%s cmd=%s L=%d C=%d R=%d sp=%d e=%d duty=(%d,%d) marker=%v\n",
		snap.Mode, snap.Command, snap.Left, snap.Center, snap.Right,
		snap.SetPoint, snap.Error, snap.DutyLeft, snap.DutyRght, snap.Marker)
}

var (
	// AutoCmd resumes autonomous wall following.
	AutoCmd = ishell.Cmd{
		Name:    "auto",
		Aliases: []string{"a"},
		Help:    "",
		Func: func(c *ishell.Context) {
			sh.SendCommand(c, mq.Command{Op: "auto"})
		},
	}

	// HaltCmd halts the robot until the mode is changed.
	HaltCmd = ishell.Cmd{
		Name:    "halt",
		Aliases: []string{"h"},
		Help:    "",
		Func: func(c *ishell.Context) {
			sh.SendCommand(c, mq.Command{Op: "halt"})
		},
	}

	// StopCmd stops the motors, staying in manual mode.
	StopCmd = ishell.Cmd{
		Name:    "stop",
		Aliases: []string{"s"},
		Help:    "",
		Func: func(c *ishell.Context) {
			sh.SendCommand(c, mq.Command{Op: "stop"})
		},
	}

	// ForwardCmd drives forward manually.
	ForwardCmd = driveCmd("forward", "f", "forward")
	// BackwardCmd drives backward manually.
	BackwardCmd = driveCmd("backward", "b", "backward")
	// LeftCmd spins left manually.
	LeftCmd = driveCmd("left", "l", "left")
	// RightCmd spins right manually.
	RightCmd = driveCmd("right", "r", "right")

	// StateCmd prints the next telemetry snapshot.
	StateCmd = ishell.Cmd{
		Name:    "state",
		Aliases: []string{"st"},
		Help:    "",
		Func: func(c *ishell.Context) {
			select {
			case payload := <-sh.ShellFrom(c).StateChan():
				printState(c, payload)
			case <-time.After(3 * time.Second):
				c.Err(fmt.Errorf("no state received"))
			}
		},
	}

	// WatchCmd prints a stream of telemetry snapshots.
	WatchCmd = ishell.Cmd{
		Name:    "watch",
		Aliases: []string{"w"},
		Help:    "[COUNT] state messages, default 10",
		Func: func(c *ishell.Context) {
			count := 10
			if len(c.Args) > 0 {
				val, err := strconv.Atoi(c.Args[0])
				if err != nil || val <= 0 {
					c.Err(fmt.Errorf("invalid COUNT %q", c.Args[0]))
					return
				}
				count = val
			}
			ch := sh.ShellFrom(c).StateChan()
			for i := 0; i < count; i++ {
				select {
				case payload := <-ch:
					printState(c, payload)
				case <-time.After(3 * time.Second):
					c.Err(fmt.Errorf("no state received"))
					return
				}
			}
		},
	}
)

func init() {
	sh.AddCmds(
		&AutoCmd,
		&HaltCmd,
		&StopCmd,
		ForwardCmd,
		BackwardCmd,
		LeftCmd,
		RightCmd,
		&StateCmd,
		&WatchCmd,
	)
}
