// Package main implements a minimal SDL only CHIP-8 player using the modern
// quirk profile at the default speed.
package main

import (
	"os"

	"github.com/mnafees/chopper/v2/internal"
	"github.com/mnafees/chopper/v2/internal/config"
	"github.com/mnafees/chopper/v2/internal/options"
	"github.com/mnafees/chopper/v2/pkg/runner"
	"github.com/mnafees/chopper/v2/pkg/sdl"
	"github.com/retroenv/retrogolib/app"
	"github.com/retroenv/retrogolib/log"
)

func main() {
	logger := config.CreateLogger(false, false)
	if len(os.Args) != 2 {
		logger.Fatal("Usage: chopper-sdl <CHIP-8 program>")
	}

	vm, err := internal.NewC8VM()
	if err != nil {
		logger.Fatal("Creating VM failed", log.Err(err))
	}
	if err := vm.LoadProgram(os.Args[1]); err != nil {
		logger.Fatal("Loading program failed", log.Err(err))
	}

	io := sdl.NewIO(logger, options.DefaultScale)
	defer io.Destroy()
	if err := io.SetupWindow("Chopper | CHIP-8 Emulator"); err != nil {
		logger.Error("Opening window failed", log.Err(err))
		return
	}

	r := runner.New(logger, vm, io, runner.Config{}, io)
	if err := r.Run(app.Context()); err != nil {
		logger.Error("Emulation failed", log.Err(err))
	}
}
