package sdl

import (
	"fmt"

	"github.com/mnafees/chopper/v2/internal"
	"github.com/mnafees/chopper/v2/pkg/runner"
	"github.com/mnafees/chopper/v2/pkg/tone"
	"github.com/retroenv/retrogolib/log"
	"github.com/veandco/go-sdl2/sdl"
)

const (
	screenColor = 0x1A237E
	spriteColor = 0x9FA8DA

	toneVolume = 24
	// frames of audio kept queued ahead of playback
	audioLead = 2
)

// IO is the input/output abstraction layer for the VM
type IO struct {
	logger *log.Logger
	scale  int32

	window  *sdl.Window
	surface *sdl.Surface

	audio     sdl.AudioDeviceID
	audioOpen bool
	silence   uint8
	wave      *tone.Square
	samples   []uint8
}

// NewIO returns a new I/O instance for the SDL frontend. Every CHIP-8 pixel
// is drawn as a scale×scale square.
func NewIO(logger *log.Logger, scale int) *IO {
	return &IO{
		logger:  logger,
		scale:   int32(scale),
		wave:    tone.NewSquare(tone.SampleRate, tone.Frequency),
		samples: make([]uint8, tone.SamplesPerFrame),
	}
}

// SetupWindow initialises and sets up the main SDL window and the audio
// device. A missing audio device only disables the beeper.
func (io *IO) SetupWindow(title string) error {
	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_AUDIO | sdl.INIT_EVENTS); err != nil {
		return fmt.Errorf("initialising SDL: %w", err)
	}

	window, err := sdl.CreateWindow(title, sdl.WINDOWPOS_UNDEFINED, sdl.WINDOWPOS_UNDEFINED,
		internal.ScreenWidth*io.scale, internal.ScreenHeight*io.scale, sdl.WINDOW_SHOWN)
	if err != nil {
		return fmt.Errorf("creating window: %w", err)
	}
	io.window = window
	io.surface, err = window.GetSurface()
	if err != nil {
		return fmt.Errorf("getting window surface: %w", err)
	}
	if err := io.surface.FillRect(nil, screenColor); err != nil {
		return fmt.Errorf("clearing window surface: %w", err)
	}

	if err := io.openAudio(); err != nil {
		io.logger.Warn("Audio disabled", log.Err(err))
	}
	io.logger.Debug("SDL window created",
		log.String("title", title),
		log.Int("scale", int(io.scale)))
	return nil
}

func (io *IO) openAudio() error {
	spec := &sdl.AudioSpec{
		Freq:     tone.SampleRate,
		Format:   sdl.AUDIO_U8,
		Channels: 1,
		Samples:  1024,
	}
	var actual sdl.AudioSpec
	id, err := sdl.OpenAudioDevice("", false, spec, &actual, 0)
	if err != nil {
		return fmt.Errorf("opening audio device: %w", err)
	}
	io.audio = id
	io.audioOpen = true
	io.silence = actual.Silence
	return nil
}

// Destroy should be called before quitting the application
func (io *IO) Destroy() {
	if io.audioOpen {
		sdl.CloseAudioDevice(io.audio)
	}
	if io.window != nil {
		_ = io.window.Destroy()
	}
	sdl.Quit()
}

// PollInput drains the SDL event queue. Escape and closing the window
// request a quit.
func (io *IO) PollInput(k runner.Keypad) bool {
	quit := false
	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		switch t := event.(type) {
		case *sdl.KeyboardEvent:
			scancode := t.Keysym.Scancode
			if scancode == sdl.SCANCODE_ESCAPE {
				quit = true
				continue
			}
			code := keymap(scancode)
			if code == -1 || t.Repeat != 0 {
				continue
			}
			switch t.GetType() {
			case sdl.KEYDOWN:
				k.SetKey(uint8(code), true)
			case sdl.KEYUP:
				k.SetKey(uint8(code), false)
			}
		case *sdl.QuitEvent:
			quit = true
		}
	}
	return quit
}

// Render draws the display on the window surface
func (io *IO) Render(d internal.Display) error {
	if err := io.surface.FillRect(nil, screenColor); err != nil {
		return err
	}
	for y := range int32(internal.ScreenHeight) {
		for x := range int32(internal.ScreenWidth) {
			if !d[y][x] {
				continue
			}
			rect := &sdl.Rect{X: x * io.scale, Y: y * io.scale, W: io.scale, H: io.scale}
			if err := io.surface.FillRect(rect, spriteColor); err != nil {
				return err
			}
		}
	}
	return io.window.UpdateSurface()
}

// SetTone starts or pauses playback on the audio device
func (io *IO) SetTone(on bool) {
	if !io.audioOpen {
		return
	}
	if !on {
		sdl.ClearQueuedAudio(io.audio)
	}
	sdl.PauseAudioDevice(io.audio, !on)
}

// Tone queues one frame of the square wave while the beeper is on
func (io *IO) Tone(on bool) error {
	if !io.audioOpen || !on {
		return nil
	}
	if sdl.GetQueuedAudioSize(io.audio) > uint32(audioLead*len(io.samples)) {
		return nil
	}
	tone.Fill(io.wave, io.samples, on, io.silence-toneVolume, io.silence, io.silence+toneVolume)
	if err := sdl.QueueAudio(io.audio, io.samples); err != nil {
		return fmt.Errorf("queueing audio: %w", err)
	}
	return nil
}

// Maps keys from a QWERTY keyboard to the keypad used by CHIP-8
// Below we have a mapping QWERTY keyboard to the CHIP-8 keypad
// +--------+--------+--------+--------+
// | 1 -> 1 | 2 -> 2 | 3 -> 3 | 4 -> C |
// +--------+--------+--------+--------+
// | Q -> 4 | W -> 5 | E -> 6 | R -> D |
// +--------+--------+--------+--------+
// | A -> 7 | S -> 8 | D -> 9 | F -> E |
// +--------+--------+--------+--------+
// | Z -> A | X -> 0 | C -> B | V -> F |
// +--------+--------+--------+--------+
func keymap(code sdl.Scancode) int8 {
	switch code {
	case sdl.SCANCODE_1:
		return 0x1
	case sdl.SCANCODE_2:
		return 0x2
	case sdl.SCANCODE_3:
		return 0x3
	case sdl.SCANCODE_4:
		return 0xC
	case sdl.SCANCODE_Q:
		return 0x4
	case sdl.SCANCODE_W:
		return 0x5
	case sdl.SCANCODE_E:
		return 0x6
	case sdl.SCANCODE_R:
		return 0xD
	case sdl.SCANCODE_A:
		return 0x7
	case sdl.SCANCODE_S:
		return 0x8
	case sdl.SCANCODE_D:
		return 0x9
	case sdl.SCANCODE_F:
		return 0xE
	case sdl.SCANCODE_Z:
		return 0xA
	case sdl.SCANCODE_X:
		return 0x0
	case sdl.SCANCODE_C:
		return 0xB
	case sdl.SCANCODE_V:
		return 0xF
	default:
		return -1
	}
}
