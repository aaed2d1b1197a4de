package main

//go-build: CGO_ENABLED=0

import (
	"flag"
	"os"
	"time"

	"github.com/golang/glog"

	"github.com/robotalks/mazebot.go/pkg/adc"
	"github.com/robotalks/mazebot.go/pkg/color"
	"github.com/robotalks/mazebot.go/pkg/distance"
	"github.com/robotalks/mazebot.go/pkg/drive"
	"github.com/robotalks/mazebot.go/pkg/drive/link"
	fx "github.com/robotalks/mazebot.go/pkg/framework"
	"github.com/robotalks/mazebot.go/pkg/joystick"
	"github.com/robotalks/mazebot.go/pkg/mq"
	"github.com/robotalks/mazebot.go/pkg/robot"
	"github.com/robotalks/mazebot.go/pkg/sim"
	"github.com/robotalks/mazebot.go/pkg/wallfollow"
)

// Loop rates mirror the board interrupt sources: 2 kHz sampling,
// 100 Hz control and 20 Hz color polling.
const (
	sampleInterval  = 500 * time.Microsecond
	controlInterval = 10 * time.Millisecond
	colorInterval   = 50 * time.Millisecond
)

var (
	backend     = "sim"
	tracePath   = ""
	serialDev   = ""
	baudRate    = link.DefaultBaudRate
	filterDepth = distance.DefaultFilterDepth
)

func init() {
	flag.StringVar(&backend, "backend", backend, "Robot backend: sim or serial.")
	flag.StringVar(&tracePath, "trace", tracePath, "Raw sample trace to replay instead of live conversion.")
	flag.StringVar(&serialDev, "dev", serialDev, "Serial device of the motor board.")
	flag.IntVar(&baudRate, "baud", baudRate, "Serial baud rate.")
	flag.IntVar(&filterDepth, "filter-depth", filterDepth, "Moving average depth per channel.")
	mq.SetupFlags()
	wallfollow.SetupFlags()
	color.SetupFlags()
	joystick.SetupFlags()
}

func main() {
	flag.Parse()

	state := &robot.State{}
	controlLoop := fx.NewLoopAt(controlInterval)

	var conv adc.Converter
	var motors drive.Motors
	var colorSensor color.Sensor

	switch backend {
	case "sim":
		world := sim.NewCorridor(10000, 500).
			AddMarker(sim.Rect{Min: sim.Pos2D{X: 5000, Y: -250}, Max: sim.Pos2D{X: 5300, Y: 250}})
		bot := sim.NewRobot(sim.Pose2D{Pos2D: sim.Pos2D{X: 200, Y: 60}})
		conv = &sim.Sensors{World: world, Robot: bot}
		motors = &sim.Motors{Robot: bot}
		colorSensor = &sim.ColorSensor{World: world, Robot: bot}
		controlLoop.Add(&sim.Stepper{Robot: bot})
	case "serial":
		if serialDev == "" {
			glog.Exit("serial backend requires -dev")
		}
		if tracePath == "" {
			glog.Exit("serial backend requires -trace for sensor input")
		}
		rw, err := link.OpenSerial(serialDev, baudRate)
		if err != nil {
			glog.Exit(err)
		}
		m := link.NewMotors(rw)
		controlLoop.AddRunnable(m)
		motors = m
	default:
		glog.Exitf("unknown backend %q", backend)
	}

	if tracePath != "" {
		f, err := os.Open(tracePath)
		if err != nil {
			glog.Exit(err)
		}
		defer f.Close()
		replay := adc.NewReplay(f)
		replay.HoldLast = true
		conv = replay
	}

	sampler, err := distance.NewSampler(conv, state, filterDepth)
	if err != nil {
		glog.Exit(err)
	}
	ctl, err := wallfollow.NewConfig().NewController(state, motors)
	if err != nil {
		glog.Exit(err)
	}
	sampleLoop := fx.NewLoopAt(sampleInterval).Add(sampler)
	controlLoop.Add(ctl)

	mqConf := mq.NewConfig()
	if mqConf.BrokerURL != "" {
		q, err := mq.NewQueueFromURL(mqConf.BrokerURL)
		if err != nil {
			glog.Exit(err)
		}
		if err = q.Connect(); err != nil {
			glog.Exit(err)
		}
		defer q.Close()
		mqConf.SubscribeCommands(q, state)
		controlLoop.Add(mqConf.NewTelemetry(q, state))
	}

	runner := fx.NewRunner().HandleSignals()
	runner.Go(fx.NamedRun("sample", sampleLoop), fx.NamedRun("control", controlLoop))

	if jsConf := joystick.NewConfig(); jsConf.Enabled {
		runner.Go(fx.NamedRun("teleop", jsConf.NewTeleop(state)))
	}

	colorConf := color.NewConfig()
	if colorSensor != nil && !colorConf.Disabled {
		colorLoop := fx.NewLoopAt(colorInterval).Add(colorConf.NewWatcher(colorSensor, state))
		runner.Go(fx.NamedRun("color", colorLoop))
	}

	if err := runner.Wait(); err != nil {
		glog.Exit(err)
	}
}
