package runner

import "github.com/mnafees/chopper/v2/internal"

// Headless is a frontend without input or output. It counts renders and
// tone changes so that runs without a window can still be inspected.
type Headless struct {
	Renders     int
	ToneChanges int
	Last        internal.Display
}

// PollInput never reports a quit request.
func (h *Headless) PollInput(Keypad) bool {
	return false
}

// Render keeps a copy of the display.
func (h *Headless) Render(d internal.Display) error {
	h.Renders++
	h.Last = d
	return nil
}

// SetTone counts beeper state changes.
func (h *Headless) SetTone(bool) {
	h.ToneChanges++
}
