// Package session wires a VM, a frontend and the optional recorders together
// for a single run of a program.
package session

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/mnafees/chopper/v2/internal"
	"github.com/mnafees/chopper/v2/internal/options"
	"github.com/mnafees/chopper/v2/pkg/ebiten"
	"github.com/mnafees/chopper/v2/pkg/inspect"
	"github.com/mnafees/chopper/v2/pkg/runner"
	"github.com/mnafees/chopper/v2/pkg/sdl"
	"github.com/mnafees/chopper/v2/pkg/statsview"
	"github.com/mnafees/chopper/v2/pkg/term"
	"github.com/mnafees/chopper/v2/pkg/wav"
	"github.com/retroenv/retrogolib/buildinfo"
	"github.com/retroenv/retrogolib/log"
)

// Title is shown in window titles
const Title = "Chopper | CHIP-8 Emulator"

// PrintBanner logs the program version unless running quietly
func PrintBanner(logger *log.Logger, opts options.Program, version, commit, date string) {
	if opts.Quiet {
		return
	}
	logger.Info("chopper", log.String("version", buildinfo.Version(version, commit, date)))
}

// Run loads the program given in opts and runs it until the frontend quits,
// the frame limit is reached, the context is canceled or the VM halts.
// With -disasm set the listing is written to out instead.
func Run(ctx context.Context, logger *log.Logger, opts options.Program, out io.Writer) error {
	program, err := os.ReadFile(opts.Input)
	if err != nil {
		return fmt.Errorf("reading program: %w", err)
	}
	if opts.Disasm {
		return inspect.Disassemble(out, program)
	}

	vmOpts, err := opts.VMOptions()
	if err != nil {
		return err
	}
	vm, err := internal.NewC8VM(vmOpts...)
	if err != nil {
		return fmt.Errorf("creating VM: %w", err)
	}
	if err := vm.LoadROM(program); err != nil {
		return fmt.Errorf("loading program '%s': %w", opts.Input, err)
	}
	logger.Debug("Program loaded",
		log.String("file", opts.Input),
		log.Int("size", len(program)),
		log.String("quirks", opts.Quirks))

	if opts.Stats {
		statsview.Launch(logger, statsview.Address)
	}

	var sinks []runner.ToneSink
	if opts.WavFile != "" {
		rec, err := wav.Create(opts.WavFile)
		if err != nil {
			return err
		}
		defer func() {
			if err := rec.Close(); err != nil {
				logger.Error("Closing wav file failed", log.Err(err))
			}
		}()
		sinks = append(sinks, rec)
	}

	if opts.DumpFile != "" {
		defer func() {
			if err := writeDump(opts.DumpFile, vm); err != nil {
				logger.Error("Writing state dump failed", log.Err(err))
			}
		}()
	}

	cfg := runner.Config{
		InstructionsPerSecond: opts.IPS,
		TimerHz:               internal.TimerFrequency,
		MaxFrames:             opts.Frames,
		Trace:                 opts.Trace,
	}

	frames, err := runFrontend(ctx, logger, opts, vm, cfg, sinks)
	logger.Debug("Emulation stopped",
		log.Int("frames", frames),
		log.Hex("pc", vm.PC()))
	return err
}

func runFrontend(ctx context.Context, logger *log.Logger, opts options.Program,
	vm *internal.C8VM, cfg runner.Config, sinks []runner.ToneSink) (int, error) {

	switch opts.Frontend {
	case options.FrontendSDL:
		window := sdl.NewIO(logger, opts.Scale)
		defer window.Destroy()
		if err := window.SetupWindow(Title); err != nil {
			return 0, err
		}
		r := runner.New(logger, vm, window, cfg, append(sinks, window)...)
		err := r.Run(ctx)
		return r.Frames(), err

	case options.FrontendEbiten:
		game := ebiten.New(logger, opts.Scale)
		r := runner.New(logger, vm, game, cfg, sinks...)
		err := game.Run(Title, func() error {
			if ctx.Err() != nil {
				return runner.ErrQuit
			}
			return r.Frame()
		})
		return r.Frames(), err

	case options.FrontendTerminal:
		tty, err := term.Open(logger)
		if err != nil {
			return 0, err
		}
		defer tty.Close()
		r := runner.New(logger, vm, tty, cfg, sinks...)
		err = r.Run(ctx)
		return r.Frames(), err

	case options.FrontendHeadless:
		headless := &runner.Headless{}
		r := runner.New(logger, vm, headless, cfg, sinks...)
		err := r.Run(ctx)
		logger.Info("Headless run finished",
			log.Int("frames", r.Frames()),
			log.Int("renders", headless.Renders),
			log.Int("lit_pixels", headless.Last.Lit()))
		return r.Frames(), err
	}

	return 0, fmt.Errorf("unsupported frontend: %s", opts.Frontend)
}

func writeDump(path string, vm *internal.C8VM) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating dump file: %w", err)
	}
	inspect.DumpState(f, vm)
	return f.Close()
}

