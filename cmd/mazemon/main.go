package main

//go-build: CGO_ENABLED=0

import (
	"encoding/json"
	"flag"
	"log"
	"os"
	"strings"

	"github.com/robotalks/mazebot.go/pkg/mq"
	"github.com/robotalks/mazebot.go/pkg/robot"
)

var (
	mqttURL = "mqtt://localhost:1883/mazebot/"
	rawJSON bool
)

func init() {
	if val := os.Getenv("MAZEBOT_MQTT_URL"); val != "" {
		mqttURL = val
	}
	flag.StringVar(&mqttURL, "mqtt", mqttURL, "MQTT broker URL.")
	flag.BoolVar(&rawJSON, "json", rawJSON, "Print raw JSON payloads.")
}

func main() {
	flag.Parse()
	log.SetFlags(log.Lmicroseconds)

	q, err := mq.NewQueueFromURL(mqttURL)
	if err != nil {
		log.Fatalln(err)
	}
	if err = q.Connect(); err != nil {
		log.Fatalln(err)
	}

	q.Sub("#", func(topic string, payload []byte) {
		if !rawJSON && strings.HasSuffix(topic, "/state") {
			var snap robot.Snapshot
			if err := json.Unmarshal(payload, &snap); err != nil {
				log.Printf("%s: bad payload: %v", topic, err)
				return
			}
			log.Printf("%s: mode=%s cmd=%s L=%d C=%d R=%d sp=%d e=%d duty=(%d,%d) marker=%v",
				topic, snap.Mode, snap.Command, snap.Left, snap.Center, snap.Right,
				snap.SetPoint, snap.Error, snap.DutyLeft, snap.DutyRght, snap.Marker)
			return
		}
		log.Printf("%s: %s", topic, payload)
	})
	<-(chan struct{})(nil)
}
