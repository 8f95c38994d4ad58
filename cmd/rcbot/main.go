package main

//go-build: CGO_ENABLED=0

import (
	"context"
	"flag"
	"log"

	fx "github.com/robotalks/rcbot/pkg/framework"
	"github.com/robotalks/rcbot/pkg/robot"
	"github.com/robotalks/rcbot/pkg/telemetry"
	"github.com/robotalks/rcbot/pkg/transport"
)

func init() {
	flag.Set("logtostderr", "true")
	robot.SetupFlags()
}

func main() {
	flag.Parse()

	conf := robot.NewConfig()
	port, err := transport.Open(conf.Transport)
	if err != nil {
		log.Fatalln(err)
	}
	bot, err := conf.NewRobot(port)
	if err != nil {
		log.Fatalf("create robot error: %v", err)
	}

	runner := fx.NewRunner().HandleSignals()
	runner.Go(fx.NamedRun("robot", fx.RunFunc(func(ctx context.Context) error {
		return fx.RunWithContextCloser(ctx, port, func() error {
			return bot.Run(ctx)
		})
	})))
	if pub, ok := bot.Publisher.(*telemetry.Publisher); ok {
		runner.Go(fx.NamedRun("telemetry", pub))
	}
	if srv := conf.NewMetricsServer(bot); srv != nil {
		runner.Go(fx.NamedRun("metrics", srv))
	}
	if err := runner.Wait(); err != nil {
		log.Fatalln(err)
	}
}
