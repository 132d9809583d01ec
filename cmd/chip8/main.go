package main

import (
	"errors"
	"flag"
	"os"
	"runtime"

	"github.com/p47t/chip8vm"
	"github.com/p47t/chip8vm/internal/config"
	"github.com/retroenv/retrogolib/log"
)

func init() {
	// GLFW event handling must run on the main OS thread
	runtime.LockOSThread()
}

func main() {
	opts, err := config.Parse("chip8", os.Args[1:], os.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	logger := config.CreateLogger(opts.Debug, opts.Quiet)
	if err != nil {
		logger.Error("Invalid command line", err)
		os.Exit(2)
	}

	sys := chip8vm.NewSystem(opts.Machine)
	sys.SetLogger(logger)

	if opts.ROM == "" {
		logger.Warn("Running without a program", log.Err(chip8vm.ErrNoROM))
	} else if err := sys.Load(opts.ROM); err != nil {
		// keep the window up with a blank display, like an empty console
		logger.Error("Loading rom failed", err, log.String("file", opts.ROM))
	}

	var emu Emulator
	if err := emu.Initialize(sys, opts, logger); err != nil {
		logger.Error("Initializing emulator failed", err)
		os.Exit(1)
	}
	defer emu.Terminate()
	emu.Loop()
}
