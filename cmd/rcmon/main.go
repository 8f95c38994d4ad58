package main

import (
	"flag"
	"log"
	"os"
	"strings"

	"github.com/robotalks/rcbot/pkg/telemetry"
)

var (
	mqttURL = "mqtt://localhost:1883/robo/"
)

func init() {
	flag.Set("logtostderr", "true")
	if val := os.Getenv("ROBO_MQTT_URL"); val != "" {
		mqttURL = val
	}
	flag.StringVar(&mqttURL, "mqtt", mqttURL, "MQTT broker URL.")
}

func main() {
	flag.Parse()
	log.SetFlags(log.Lmicroseconds)

	q, err := telemetry.NewQueueFromURL(mqttURL)
	if err != nil {
		log.Fatalln(err)
	}
	if token := q.Connect(); token.Wait() && token.Error() != nil {
		log.Fatalln(token.Error())
	}

	q.Sub("#", func(topic string, payload []byte) {
		switch {
		case strings.HasSuffix(topic, telemetry.TopicMeta):
			log.Printf("%s: %s", topic, string(payload))
		case strings.HasSuffix(topic, telemetry.TopicState):
			report, err := telemetry.DecodeReport(payload)
			if err != nil {
				log.Printf("%s: bad report: %v", topic, err)
				return
			}
			log.Printf("%s: %s", topic, report)
		}
	})
	<-(chan struct{})(nil)
}
