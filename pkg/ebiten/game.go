// Package ebiten implements a frontend on top of the Ebitengine game library.
package ebiten

import (
	"errors"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/mnafees/chopper/v2/internal"
	"github.com/mnafees/chopper/v2/pkg/runner"
	"github.com/retroenv/retrogolib/log"
)

var (
	screenColor = [3]uint8{0x1A, 0x23, 0x7E}
	spriteColor = [3]uint8{0x9F, 0xA8, 0xDA}
)

// keys uses the same QWERTY layout as the SDL frontend
var keys = map[ebiten.Key]uint8{
	ebiten.Key1: 0x1, ebiten.Key2: 0x2, ebiten.Key3: 0x3, ebiten.Key4: 0xC,
	ebiten.KeyQ: 0x4, ebiten.KeyW: 0x5, ebiten.KeyE: 0x6, ebiten.KeyR: 0xD,
	ebiten.KeyA: 0x7, ebiten.KeyS: 0x8, ebiten.KeyD: 0x9, ebiten.KeyF: 0xE,
	ebiten.KeyZ: 0xA, ebiten.KeyX: 0x0, ebiten.KeyC: 0xB, ebiten.KeyV: 0xF,
}

// Game implements ebiten.Game and the runner frontend. Ebitengine calls
// Update at TimerFrequency and every update runs one frame of the VM.
type Game struct {
	logger *log.Logger
	scale  int
	frame  func() error

	image  *ebiten.Image
	pixels []byte // RGBA
	beep   bool
}

// New returns a new game drawing every CHIP-8 pixel as a scale×scale square.
func New(logger *log.Logger, scale int) *Game {
	g := &Game{
		logger: logger,
		scale:  scale,
		pixels: make([]byte, internal.ScreenWidth*internal.ScreenHeight*4),
	}
	renderPixels(internal.Display{}, g.pixels)
	return g
}

// Run opens the window and calls frame on every update until it returns an
// error. runner.ErrQuit ends the game without an error.
func (g *Game) Run(title string, frame func() error) error {
	g.frame = frame
	g.image = ebiten.NewImage(internal.ScreenWidth, internal.ScreenHeight)
	g.image.WritePixels(g.pixels)

	ebiten.SetWindowTitle(title)
	ebiten.SetWindowSize(internal.ScreenWidth*g.scale, internal.ScreenHeight*g.scale)
	ebiten.SetTPS(internal.TimerFrequency)

	err := ebiten.RunGame(g)
	if errors.Is(err, ebiten.Termination) {
		return nil
	}
	return err
}

// Update implements ebiten.Game.Update
func (g *Game) Update() error {
	if g.frame == nil {
		return nil
	}
	err := g.frame()
	if errors.Is(err, runner.ErrQuit) {
		return ebiten.Termination
	}
	return err
}

// Draw implements ebiten.Game.Draw
func (g *Game) Draw(screen *ebiten.Image) {
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(g.scale), float64(g.scale))
	screen.DrawImage(g.image, op)
}

// Layout implements ebiten.Game.Layout
func (g *Game) Layout(_, _ int) (int, int) {
	return internal.ScreenWidth * g.scale, internal.ScreenHeight * g.scale
}

// PollInput forwards key changes since the last update. Escape quits.
func (g *Game) PollInput(k runner.Keypad) bool {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return true
	}
	for key, code := range keys {
		if inpututil.IsKeyJustPressed(key) {
			k.SetKey(code, true)
		} else if inpututil.IsKeyJustReleased(key) {
			k.SetKey(code, false)
		}
	}
	return false
}

// Render copies the display into the frame image
func (g *Game) Render(d internal.Display) error {
	renderPixels(d, g.pixels)
	if g.image != nil {
		g.image.WritePixels(g.pixels)
	}
	return nil
}

// SetTone logs the beeper state, this frontend has no audio output.
func (g *Game) SetTone(on bool) {
	if on != g.beep {
		state := "off"
		if on {
			state = "on"
		}
		g.logger.Debug("Beeper", log.String("state", state))
		g.beep = on
	}
}

func renderPixels(d internal.Display, pix []byte) {
	for y := range internal.ScreenHeight {
		for x := range internal.ScreenWidth {
			c := screenColor
			if d[y][x] {
				c = spriteColor
			}
			i := (y*internal.ScreenWidth + x) * 4
			pix[i] = c[0]
			pix[i+1] = c[1]
			pix[i+2] = c[2]
			pix[i+3] = 0xFF
		}
	}
}
