// Package sh implements the interactive robot shell. It talks to the
// daemon over the MQTT side channel only: commands are published to
// the command topic and state is observed on the telemetry topic.
package sh

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"

	"github.com/abiosoft/ishell"

	"github.com/robotalks/mazebot.go/pkg/mq"
)

// Shell provides ishell backed interactive shell.
type Shell struct {
	Interactive bool
	OutputJSON  bool

	Shell  *ishell.Shell
	Config *mq.Config
	Queue  *mq.Queue

	stateCh chan []byte
}

const shellKey = "$shell"

var (
	// flags

	evalOnly   bool
	outputJSON bool

	commands []*ishell.Cmd
)

func init() {
	flag.BoolVar(&evalOnly, "e", evalOnly, "Evaluation only, no interactive shell.")
	flag.BoolVar(&outputJSON, "json", outputJSON, "Print output in JSON.")
}

// AddCmds is used by command providers during init func.
func AddCmds(cmds ...*ishell.Cmd) {
	commands = append(commands, cmds...)
}

// New creates a new shell.
func New(conf *mq.Config) *Shell {
	s := &Shell{
		Interactive: !evalOnly,
		OutputJSON:  outputJSON,

		Shell:  ishell.New(),
		Config: conf,
	}
	s.Shell.Set(shellKey, s)
	s.Shell.SetPrompt(fmt.Sprintf("%s/%s > ", conf.Type, conf.ID))
	for _, cmd := range commands {
		s.Shell.AddCmd(cmd)
	}
	return s
}

// ShellFrom gets Shell from ishell context.
func ShellFrom(c *ishell.Context) *Shell {
	return c.Get(shellKey).(*Shell)
}

// Connect connects the MQTT broker.
func (s *Shell) Connect() error {
	q, err := mq.NewQueueFromURL(s.Config.BrokerURL)
	if err != nil {
		return err
	}
	if err = q.Connect(); err != nil {
		return err
	}
	s.Queue = q
	return nil
}

// Send publishes a command to the robot and waits for the broker ack.
func (s *Shell) Send(cmd mq.Command) error {
	payload, err := json.Marshal(&cmd)
	if err != nil {
		return err
	}
	token := s.Queue.Pub(s.Config.CmdTopic(), payload)
	token.Wait()
	return token.Error()
}

// StateChan subscribes the state topic on first use and returns the
// channel of raw telemetry payloads. Payloads are dropped when the
// consumer falls behind.
func (s *Shell) StateChan() <-chan []byte {
	if s.stateCh == nil {
		s.stateCh = make(chan []byte, 16)
		s.Queue.Sub(s.Config.StateTopic(), func(topic string, payload []byte) {
			msg := make([]byte, len(payload))
			copy(msg, payload)
			select {
			case s.stateCh <- msg:
			default:
			}
		})
	}
	return s.stateCh
}

// SendCommand sends a command from an ishell context, reporting errors
// to the shell.
func SendCommand(c *ishell.Context, cmd mq.Command) {
	s := ShellFrom(c)
	if err := s.Send(cmd); err != nil {
		c.Err(err)
		return
	}
	if !s.OutputJSON {
		c.Println("OK")
	}
}

// Run runs the shell.
func (s *Shell) Run(args ...string) {
	if err := s.Connect(); err != nil {
		log.Fatalln(err)
	}
	defer s.Queue.Close()

	if len(args) > 0 {
		if err := s.Shell.Process(args...); err != nil {
			log.Fatalln(err)
		}
		return
	}
	if s.Interactive {
		s.Shell.Run()
		return
	}
	log.Fatalln("command expected")
}

// Main is a helper to provide a single call in main.
func Main() {
	flag.Parse()
	New(mq.NewConfig()).Run(flag.Args()...)
}
