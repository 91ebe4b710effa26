package tui

import (
	"github.com/gdamore/tcell/v2"

	"github.com/Garsondee/catacomb/internal/game"
)

// control is one of the three inputs a key can map to.
type control int

const (
	ctrlLeft control = iota
	ctrlRight
	ctrlJump
	ctrlCount
)

// HoldKeys turns key-press events into held controls. Terminals report no
// key-up, so a control stays held for window ticks after its last press; key
// auto-repeat keeps it alive while the key is down.
type HoldKeys struct {
	window int
	now    int
	last   [ctrlCount]int
	seen   [ctrlCount]bool
}

// NewHoldKeys returns a tracker with the given hold window in ticks.
func NewHoldKeys(window int) *HoldKeys {
	return &HoldKeys{window: window}
}

// Advance moves the tracker to tick.
func (h *HoldKeys) Advance(tick int) { h.now = tick }

// HandleKey records a key event and reports whether it was a movement key.
func (h *HoldKeys) HandleKey(ev *tcell.EventKey) bool {
	return h.Press(ev.Key(), ev.Rune())
}

// Press records a key by code and rune.
func (h *HoldKeys) Press(k tcell.Key, r rune) bool {
	c, ok := keyControl(k, r)
	if !ok {
		return false
	}
	h.last[c] = h.now
	h.seen[c] = true
	return true
}

// Clear releases every control.
func (h *HoldKeys) Clear() {
	h.seen = [ctrlCount]bool{}
}

func (h *HoldKeys) held(c control) bool {
	return h.seen[c] && h.now-h.last[c] <= h.window
}

// Intent implements game.InputSource.
func (h *HoldKeys) Intent() game.Intent {
	return game.Intent{Left: h.held(ctrlLeft), Right: h.held(ctrlRight), Jump: h.held(ctrlJump)}
}

func keyControl(k tcell.Key, r rune) (control, bool) {
	switch k {
	case tcell.KeyLeft:
		return ctrlLeft, true
	case tcell.KeyRight:
		return ctrlRight, true
	case tcell.KeyUp:
		return ctrlJump, true
	case tcell.KeyRune:
		switch r {
		case 'a', 'A':
			return ctrlLeft, true
		case 'd', 'D':
			return ctrlRight, true
		case 'w', 'W', ' ':
			return ctrlJump, true
		}
	}
	return 0, false
}
