package main

//go-build: CGO_ENABLED=0

import (
	"context"
	"flag"
	"log"

	"github.com/robotalks/rcbot/pkg/cli/sh"
	fx "github.com/robotalks/rcbot/pkg/framework"
	"github.com/robotalks/rcbot/pkg/transmitter"
	"github.com/robotalks/rcbot/pkg/transport"
)

var useShell bool

func init() {
	flag.Set("logtostderr", "true")
	flag.BoolVar(&useShell, "shell", useShell, "Drive from an interactive shell instead of a joystick.")
	transmitter.SetupFlags()
	sh.SetupFlags()
}

func main() {
	flag.Parse()

	conf := transmitter.NewConfig()
	port, err := transport.Open(conf.Transport)
	if err != nil {
		log.Fatalln(err)
	}
	defer port.Close()

	runner := fx.NewRunner().HandleSignals()

	if useShell {
		input := &transmitter.ManualInput{}
		tx := transmitter.New(port, input, conf.Interval)
		runner.Go(
			fx.NamedRun("transmitter", tx),
			fx.NamedRun("shell", fx.RunFunc(func(context.Context) error {
				sh.New(input, tx).Run(flag.Args()...)
				if flag.NArg() > 0 {
					// commands given on the command line are sent once.
					return tx.Send()
				}
				return nil
			})),
		)
	} else {
		input := conf.NewJoystickInput()
		tx := transmitter.New(port, input, conf.Interval)
		tx.Mixer.Cube = true
		runner.Go(fx.NamedRun("joystick", input), fx.NamedRun("transmitter", tx))
	}
	if err := runner.Wait(); err != nil {
		log.Fatalln(err)
	}
}
