// Command chip8term runs a CHIP-8 program in a terminal.
package main

import (
	"errors"
	"flag"
	"os"

	"github.com/p47t/chip8vm"
	"github.com/p47t/chip8vm/internal/config"
	"github.com/retroenv/retrogolib/log"
)

func main() {
	opts, err := config.Parse("chip8term", os.Args[1:], os.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	logger := config.CreateLogger(opts.Debug, opts.Quiet)
	if err != nil {
		logger.Error("Invalid command line", err)
		os.Exit(2)
	}
	if opts.ROM == "" {
		logger.Error("A rom file is required", chip8vm.ErrNoROM)
		os.Exit(2)
	}

	sys := chip8vm.NewSystem(opts.Machine)
	sys.SetLogger(logger)
	if err := sys.Load(opts.ROM); err != nil {
		logger.Error("Loading rom failed", err, log.String("file", opts.ROM))
		os.Exit(1)
	}

	term := &Terminal{sys: sys, opts: opts}
	if err := term.Run(); err != nil {
		logger.Error("Terminal failed", err)
		os.Exit(1)
	}
}
