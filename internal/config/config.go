// Package config handles the command line options and logger setup shared by
// the emulator hosts.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"time"

	"github.com/p47t/chip8vm"
	"github.com/retroenv/retrogolib/log"
)

// ErrUsage is returned when the command line has the wrong shape.
var ErrUsage = errors.New("usage")

// Options are the parsed command line flags of a host.
type Options struct {
	ROM     string
	Debug   bool
	Quiet   bool
	Scale   int
	Timed   time.Duration
	Machine chip8vm.Config
}

// Parse parses the arguments of the command name. The ROM path is the only
// positional argument and may be omitted.
func Parse(name string, args []string, output io.Writer) (Options, error) {
	opts := Options{Machine: chip8vm.DefaultConfig()}

	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(output)
	fs.Usage = func() {
		fmt.Fprintf(output, "usage: %s [options] [romfile]\n", name)
		fs.PrintDefaults()
	}

	fs.BoolVar(&opts.Debug, "debug", false, "enable debug logging and dump the machine state every frame")
	fs.BoolVar(&opts.Quiet, "quiet", false, "only log errors")
	fs.IntVar(&opts.Scale, "scale", 10, "display scale factor")
	fs.DurationVar(&opts.Timed, "timed", 0, "exit after running for this long")
	fs.IntVar(&opts.Machine.CyclesPerFrame, "cycles", opts.Machine.CyclesPerFrame, "instructions executed per frame")
	fs.Int64Var(&opts.Machine.Seed, "seed", 0, "random seed, 0 picks one from the clock")

	if err := fs.Parse(args); err != nil {
		return opts, err
	}

	switch fs.NArg() {
	case 0:
	case 1:
		opts.ROM = fs.Arg(0)
	default:
		fs.Usage()
		return opts, fmt.Errorf("%w: unexpected arguments %v", ErrUsage, fs.Args()[1:])
	}

	if opts.Machine.CyclesPerFrame < 0 {
		return opts, fmt.Errorf("%w: cycles must not be negative", ErrUsage)
	}
	if opts.Scale < 1 {
		return opts, fmt.Errorf("%w: scale must be positive", ErrUsage)
	}
	return opts, nil
}

// CreateLogger creates a logger with appropriate settings.
func CreateLogger(debug, quiet bool) *log.Logger {
	cfg := log.DefaultConfig()
	if debug {
		cfg.Level = log.DebugLevel
	} else if quiet {
		cfg.Level = log.ErrorLevel
	}
	return log.NewWithConfig(cfg)
}
