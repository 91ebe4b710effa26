package gui

import (
	"image"
	"unicode"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/Garsondee/catacomb/internal/game"
)

// KeyboardSource reads arrows, WASD and space.
type KeyboardSource struct{}

// Intent implements game.InputSource.
func (KeyboardSource) Intent() game.Intent {
	return game.Intent{
		Left:  ebiten.IsKeyPressed(ebiten.KeyArrowLeft) || ebiten.IsKeyPressed(ebiten.KeyA),
		Right: ebiten.IsKeyPressed(ebiten.KeyArrowRight) || ebiten.IsKeyPressed(ebiten.KeyD),
		Jump: ebiten.IsKeyPressed(ebiten.KeySpace) || ebiten.IsKeyPressed(ebiten.KeyArrowUp) ||
			ebiten.IsKeyPressed(ebiten.KeyW),
	}
}

// touchButton is one on-screen control.
type touchButton struct {
	label  string
	bounds image.Rectangle
	apply  func(*game.Intent)
}

// TouchSource maps held touches (and the left mouse button, so the bar also
// works on desktop) onto the on-screen buttons.
type TouchSource struct {
	buttons []touchButton
	ids     []ebiten.TouchID
}

// NewTouchSource lays out left, right and jump buttons across bar.
func NewTouchSource(bar image.Rectangle) *TouchSource {
	w := bar.Dx() / 4
	pad := 6
	btn := func(i int, span int) image.Rectangle {
		x0 := bar.Min.X + i*w + pad
		return image.Rect(x0, bar.Min.Y+pad, x0+span*w-2*pad, bar.Max.Y-pad)
	}
	return &TouchSource{buttons: []touchButton{
		{label: "<", bounds: btn(0, 1), apply: func(in *game.Intent) { in.Left = true }},
		{label: ">", bounds: btn(1, 1), apply: func(in *game.Intent) { in.Right = true }},
		{label: "JUMP", bounds: btn(2, 2), apply: func(in *game.Intent) { in.Jump = true }},
	}}
}

// At returns the intent produced by a press at (x, y).
func (t *TouchSource) At(x, y int) game.Intent {
	var in game.Intent
	pt := image.Pt(x, y)
	for _, b := range t.buttons {
		if pt.In(b.bounds) {
			b.apply(&in)
		}
	}
	return in
}

// Intent implements game.InputSource.
func (t *TouchSource) Intent() game.Intent {
	var in game.Intent
	merge := func(o game.Intent) {
		in.Left = in.Left || o.Left
		in.Right = in.Right || o.Right
		in.Jump = in.Jump || o.Jump
	}
	t.ids = ebiten.AppendTouchIDs(t.ids[:0])
	for _, id := range t.ids {
		merge(t.At(ebiten.TouchPosition(id)))
	}
	if ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) {
		merge(t.At(ebiten.CursorPosition()))
	}
	return in
}

// nameEntry is the menu's text field.
type nameEntry struct {
	runes []rune
	max   int
}

func newNameEntry(max int) *nameEntry {
	return &nameEntry{max: max}
}

// Type appends printable runes up to the length limit.
func (n *nameEntry) Type(rs []rune) {
	for _, r := range rs {
		if n.max > 0 && len(n.runes) >= n.max {
			return
		}
		if unicode.IsPrint(r) {
			n.runes = append(n.runes, r)
		}
	}
}

// Backspace removes the last rune.
func (n *nameEntry) Backspace() {
	if len(n.runes) > 0 {
		n.runes = n.runes[:len(n.runes)-1]
	}
}

func (n *nameEntry) Reset() { n.runes = n.runes[:0] }

func (n *nameEntry) String() string { return string(n.runes) }
