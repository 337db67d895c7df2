// Package runner drives a CHIP-8 VM at a fixed instruction rate and couples it
// to a frontend that handles input, display and sound.
package runner

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mnafees/chopper/v2/internal"
	"github.com/retroenv/retrogolib/log"
)

// ErrQuit is returned by Frame when the frontend asked to quit or the frame
// limit was reached.
var ErrQuit = errors.New("quit requested")

// DefaultInstructionsPerSecond is a speed most programs were written for.
const DefaultInstructionsPerSecond = 700

// Keypad receives key state changes from a frontend.
type Keypad interface {
	SetKey(code uint8, pressed bool)
}

// Frontend is the input/output abstraction layer for the VM.
type Frontend interface {
	// PollInput forwards pending key events to the keypad and returns true
	// when the user asked to quit.
	PollInput(k Keypad) bool
	// Render shows the display.
	Render(d internal.Display) error
	// SetTone starts or stops the beeper.
	SetTone(on bool)
}

// ToneSink receives the beeper state once per frame.
type ToneSink interface {
	Tone(on bool) error
}

// Config of the runner.
type Config struct {
	InstructionsPerSecond int
	TimerHz               int
	MaxFrames             int // 0 runs until quit
	Trace                 bool
}

// Runner executes instructions in frames of 1/TimerHz seconds.
type Runner struct {
	logger   *log.Logger
	vm       *internal.C8VM
	frontend Frontend
	sinks    []ToneSink
	cfg      Config

	budget int // instructions owed, scaled by TimerHz
	frames int
	tone   bool
}

// New returns a runner for the VM. Zero config values are replaced by their
// defaults.
func New(logger *log.Logger, vm *internal.C8VM, frontend Frontend, cfg Config, sinks ...ToneSink) *Runner {
	if cfg.InstructionsPerSecond <= 0 {
		cfg.InstructionsPerSecond = DefaultInstructionsPerSecond
	}
	if cfg.TimerHz <= 0 {
		cfg.TimerHz = internal.TimerFrequency
	}
	return &Runner{
		logger:   logger,
		vm:       vm,
		frontend: frontend,
		sinks:    sinks,
		cfg:      cfg,
	}
}

// Frames returns the number of completed frames.
func (r *Runner) Frames() int {
	return r.frames
}

// Frame polls input, runs one frame worth of instructions, ticks the timers
// once and updates sound and display.
func (r *Runner) Frame() error {
	if r.frontend.PollInput(r.vm) {
		return ErrQuit
	}

	r.budget += r.cfg.InstructionsPerSecond
	steps := r.budget / r.cfg.TimerHz
	r.budget -= steps * r.cfg.TimerHz

	for range steps {
		status, err := r.step()
		if err != nil {
			return err
		}
		if status == internal.StatusWaitingForKey {
			break
		}
	}

	r.vm.TickTimers()
	if err := r.updateTone(); err != nil {
		return err
	}

	if r.vm.IsDrawFlagSet() {
		if err := r.frontend.Render(r.vm.Pixels()); err != nil {
			return fmt.Errorf("rendering display: %w", err)
		}
		r.vm.UnsetDrawFlag()
	}

	r.frames++
	if r.cfg.MaxFrames > 0 && r.frames >= r.cfg.MaxFrames {
		return ErrQuit
	}
	return nil
}

func (r *Runner) step() (internal.Status, error) {
	if r.cfg.Trace {
		in := r.vm.Fetch()
		r.logger.Debug("Executing",
			log.Hex("pc", r.vm.PC()),
			log.String("instruction", in.String()))
	}

	status, err := r.vm.Step()
	if err == nil {
		return status, nil
	}
	if internal.IsFatal(err) {
		r.logger.Debug("VM halted", log.Err(err), log.Hex("pc", r.vm.PC()))
		return status, fmt.Errorf("executing instruction: %w", err)
	}

	var unknown *internal.UnknownOpcodeError
	if errors.As(err, &unknown) {
		r.logger.Warn("Skipping unknown opcode",
			log.Hex("opcode", unknown.Opcode),
			log.Hex("address", unknown.Address))
	}
	return status, nil
}

func (r *Runner) updateTone() error {
	on := r.vm.SoundActive()
	if on != r.tone {
		r.frontend.SetTone(on)
		r.tone = on
	}
	for _, sink := range r.sinks {
		if err := sink.Tone(on); err != nil {
			return fmt.Errorf("recording tone: %w", err)
		}
	}
	return nil
}

// Run calls Frame at TimerHz until the context is canceled, the frontend
// quits or the VM halts.
func (r *Runner) Run(ctx context.Context) error {
	ticker := time.NewTicker(time.Second / time.Duration(r.cfg.TimerHz))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			err := r.Frame()
			if errors.Is(err, ErrQuit) {
				return nil
			}
			if err != nil {
				return err
			}
		}
	}
}
