package main

//go-build: CGO_ENABLED=0

import (
	"github.com/robotalks/mazebot.go/pkg/cli/sh"
	"github.com/robotalks/mazebot.go/pkg/mq"

	_ "github.com/robotalks/mazebot.go/pkg/cli/cmds/driving"
)

func init() {
	mq.SetupFlags()
}

func main() {
	sh.Main()
}
