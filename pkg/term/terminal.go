// Package term implements a frontend running in a text terminal. The display
// is drawn with half block characters, two CHIP-8 rows per text line.
package term

import (
	"fmt"
	"sync"

	"github.com/mnafees/chopper/v2/internal"
	"github.com/mnafees/chopper/v2/pkg/runner"
	"github.com/nsf/termbox-go"
	"github.com/retroenv/retrogolib/log"
)

// holdFrames is how long a key counts as pressed after its last key event
// arrived. Terminals report no key releases and repeat held keys.
const holdFrames = 8

const (
	screenColor = termbox.ColorBlue
	spriteColor = termbox.ColorWhite

	halfBlock = '▀'
)

var keys = map[rune]uint8{
	'1': 0x1, '2': 0x2, '3': 0x3, '4': 0xC,
	'q': 0x4, 'w': 0x5, 'e': 0x6, 'r': 0xD,
	'a': 0x7, 's': 0x8, 'd': 0x9, 'f': 0xE,
	'z': 0xA, 'x': 0x0, 'c': 0xB, 'v': 0xF,
}

// canvas is the part of termbox the renderer draws through
type canvas interface {
	Clear(fg, bg termbox.Attribute) error
	SetCell(x, y int, ch rune, fg, bg termbox.Attribute)
	Flush() error
}

type termboxCanvas struct{}

func (termboxCanvas) Clear(fg, bg termbox.Attribute) error {
	return termbox.Clear(fg, bg)
}

func (termboxCanvas) SetCell(x, y int, ch rune, fg, bg termbox.Attribute) {
	termbox.SetCell(x, y, ch, fg, bg)
}

func (termboxCanvas) Flush() error {
	return termbox.Flush()
}

// Terminal is the input/output abstraction layer for a text terminal
type Terminal struct {
	logger *log.Logger
	screen canvas

	events chan termbox.Event
	done   chan struct{}
	wg     sync.WaitGroup

	held [internal.NumKeys]int // frames left until release
}

// Open initialises termbox and starts reading key events.
func Open(logger *log.Logger) (*Terminal, error) {
	if err := termbox.Init(); err != nil {
		return nil, fmt.Errorf("initialising terminal: %w", err)
	}
	termbox.SetInputMode(termbox.InputEsc)
	termbox.HideCursor()

	t := newTerminal(logger, termboxCanvas{})
	t.wg.Add(1)
	go t.readInput()

	if err := t.screen.Clear(termbox.ColorDefault, screenColor); err != nil {
		t.Close()
		return nil, fmt.Errorf("clearing terminal: %w", err)
	}
	logger.Debug("Terminal opened")
	return t, nil
}

func newTerminal(logger *log.Logger, screen canvas) *Terminal {
	return &Terminal{
		logger: logger,
		screen: screen,
		events: make(chan termbox.Event, 64),
		done:   make(chan struct{}),
	}
}

// readInput forwards termbox events until Close interrupts it
func (t *Terminal) readInput() {
	defer t.wg.Done()

	for {
		ev := termbox.PollEvent()
		if ev.Type == termbox.EventInterrupt {
			return
		}
		select {
		case t.events <- ev:
		case <-t.done:
			return
		}
	}
}

// Close stops the input reader and restores the terminal
func (t *Terminal) Close() {
	close(t.done)
	termbox.Interrupt()
	t.wg.Wait()
	termbox.Close()
}

// PollInput presses the keys typed since the last frame and releases the
// ones not repeated for holdFrames frames. Escape, Ctrl-C and P quit.
func (t *Terminal) PollInput(k runner.Keypad) bool {
	for code := range t.held {
		if t.held[code] == 0 {
			continue
		}
		t.held[code]--
		if t.held[code] == 0 {
			k.SetKey(uint8(code), false)
		}
	}

	for {
		select {
		case ev := <-t.events:
			if t.handleEvent(k, ev) {
				return true
			}
		default:
			return false
		}
	}
}

func (t *Terminal) handleEvent(k runner.Keypad, ev termbox.Event) bool {
	if ev.Type == termbox.EventError {
		t.logger.Warn("Terminal input failed", log.Err(ev.Err))
		return false
	}
	if ev.Type != termbox.EventKey {
		return false
	}

	switch {
	case ev.Key == termbox.KeyEsc, ev.Key == termbox.KeyCtrlC:
		return true
	case ev.Ch == 'p', ev.Ch == 'P':
		return true
	}

	code, ok := keys[toLower(ev.Ch)]
	if !ok {
		return false
	}
	if t.held[code] == 0 {
		k.SetKey(code, true)
	}
	t.held[code] = holdFrames
	return false
}

// Render redraws the whole display. Every text cell shows the upper pixel
// as foreground and the lower one as background of a half block.
func (t *Terminal) Render(d internal.Display) error {
	if err := t.screen.Clear(termbox.ColorDefault, screenColor); err != nil {
		return err
	}
	for y := 0; y < internal.ScreenHeight; y += 2 {
		for x := range internal.ScreenWidth {
			t.screen.SetCell(x, y/2, halfBlock, pixelColor(d[y][x]), pixelColor(d[y+1][x]))
		}
	}
	return t.screen.Flush()
}

// SetTone logs the beeper state, termbox has no audio output.
func (t *Terminal) SetTone(on bool) {
	if on {
		t.logger.Debug("Beeper on")
	}
}

func pixelColor(lit bool) termbox.Attribute {
	if lit {
		return spriteColor
	}
	return screenColor
}

func toLower(r rune) rune {
	if r >= 'A' && r <= 'Z' {
		return r + 'a' - 'A'
	}
	return r
}
