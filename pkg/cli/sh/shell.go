// Package sh provides an interactive shell driving the transmitter
// with manual inputs.
package sh

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"strconv"

	"github.com/abiosoft/ishell"

	"github.com/robotalks/rcbot/pkg/control"
	"github.com/robotalks/rcbot/pkg/transmitter"
)

// Shell provides ishell backed interactive shell.
type Shell struct {
	Interactive bool
	OutputJSON  bool

	Shell       *ishell.Shell
	Input       *transmitter.ManualInput
	Transmitter *transmitter.Transmitter
}

const (
	shellKey = "$shell"
	prompt   = "rc > "
)

var (
	// flags

	evalOnly   bool
	outputJSON bool

	// commands
	commands = []*ishell.Cmd{
		&DriveCmd,
		&ArmCmd,
		&GrabCmd,
		&ReleaseCmd,
		&StopCmd,
		&StatusCmd,
	}
)

// SetupFlags sets command line flags.
func SetupFlags() {
	flag.BoolVar(&evalOnly, "e", evalOnly, "Evaluation only, no interactive shell.")
	flag.BoolVar(&outputJSON, "json", outputJSON, "Print output in JSON.")
}

// AddCmds is used by other commands providers during init func.
func AddCmds(cmds ...*ishell.Cmd) {
	commands = append(commands, cmds...)
}

// New creates a new shell.
func New(input *transmitter.ManualInput, tx *transmitter.Transmitter) *Shell {
	s := &Shell{
		Interactive: !evalOnly,
		OutputJSON:  outputJSON,

		Shell:       ishell.New(),
		Input:       input,
		Transmitter: tx,
	}
	s.Shell.Set(shellKey, s)
	s.Shell.SetPrompt(prompt)
	for _, cmd := range commands {
		s.Shell.AddCmd(cmd)
	}
	return s
}

// ShellFrom gets Shell from ishell context.
func ShellFrom(c *ishell.Context) *Shell {
	return c.Get(shellKey).(*Shell)
}

// Run runs the shell.
func (s *Shell) Run(args ...string) {
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

// Status is the output of the status command.
type Status struct {
	Input   control.Input   `json:"input"`
	Command control.Command `json:"command"`
	Sent    uint64          `json:"sent"`
}

// Status collects the current inputs and the last sent command.
func (s *Shell) Status() Status {
	st := Status{Input: s.Input.Peek()}
	if s.Transmitter != nil {
		st.Command, st.Sent = s.Transmitter.Last()
	}
	return st
}

// ParseValues parses args as values in [-1, 1].
func ParseValues(args []string, min, max int) ([]float64, error) {
	if len(args) < min || len(args) > max {
		if min == max {
			return nil, fmt.Errorf("expect %d values", min)
		}
		return nil, fmt.Errorf("expect %d to %d values", min, max)
	}
	vals := make([]float64, max)
	for n, arg := range args {
		v, err := strconv.ParseFloat(arg, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid value %q", arg)
		}
		if v < -1 || v > 1 {
			return nil, fmt.Errorf("value %q out of range [-1, 1]", arg)
		}
		vals[n] = v
	}
	return vals, nil
}

var (
	// DriveCmd sets the drive stick.
	DriveCmd = ishell.Cmd{
		Name:    "drive",
		Aliases: []string{"d"},
		Help:    "X Y, X turns left, Y forward",
		Func: func(c *ishell.Context) {
			vals, err := ParseValues(c.Args, 2, 2)
			if err != nil {
				c.Err(err)
				return
			}
			ShellFrom(c).Input.Drive(vals[0], vals[1])
		},
	}

	// ArmCmd sets the arm axes.
	ArmCmd = ishell.Cmd{
		Name:    "arm",
		Aliases: []string{"a"},
		Help:    "HORIZONTAL VERTICAL [LIFT]",
		Func: func(c *ishell.Context) {
			vals, err := ParseValues(c.Args, 2, 3)
			if err != nil {
				c.Err(err)
				return
			}
			ShellFrom(c).Input.Arm(vals[0], vals[1], vals[2])
		},
	}

	// GrabCmd closes the gripper.
	GrabCmd = ishell.Cmd{
		Name:    "grab",
		Aliases: []string{"g"},
		Help:    "",
		Func: func(c *ishell.Context) {
			ShellFrom(c).Input.Grab()
		},
	}

	// ReleaseCmd opens the gripper, only when not driving.
	ReleaseCmd = ishell.Cmd{
		Name:    "release",
		Aliases: []string{"r"},
		Help:    "",
		Func: func(c *ishell.Context) {
			ShellFrom(c).Input.Release()
		},
	}

	// StopCmd centers all axes.
	StopCmd = ishell.Cmd{
		Name:    "stop",
		Aliases: []string{"s"},
		Help:    "",
		Func: func(c *ishell.Context) {
			ShellFrom(c).Input.Stop()
		},
	}

	// StatusCmd prints inputs and the last sent command.
	StatusCmd = ishell.Cmd{
		Name:    "status",
		Aliases: []string{"st"},
		Help:    "",
		Func: func(c *ishell.Context) {
			s := ShellFrom(c)
			st := s.Status()
			if s.OutputJSON {
				out, err := json.Marshal(st)
				if err != nil {
					c.Err(err)
					return
				}
				c.Println(string(out))
				return
			}
			c.Printf("input: drive=(%.2f,%.2f) arm=(%.2f,%.2f) lift=%.2f\n",
				st.Input.X, st.Input.Y, st.Input.ArmHorizontal, st.Input.ArmVertical, st.Input.ArmLift)
			c.Printf("sent:  %s (%d frames)\n", st.Command, st.Sent)
		},
	}
)
