package game

import "github.com/Garsondee/catacomb/internal/level"

// Bot is an InputSource that walks the solver's path from the player spawn to
// the door. It ignores enemies, so it loses rounds; it exists to drive
// spectator streams and batch reports with plausible play.
type Bot struct {
	world *World
	path  []level.Point
	idx   int
	held  bool
}

// NewBot returns a bot steering the player in w.
func NewBot(w *World) *Bot {
	return &Bot{world: w}
}

// Intent implements InputSource.
func (b *Bot) Intent() Intent {
	lvl := b.world.Level()
	p := b.world.Player()
	if lvl == nil || p == nil || len(lvl.Path) == 0 {
		b.path, b.held = nil, false
		return Intent{}
	}
	if !samePath(b.path, lvl.Path) {
		b.path, b.idx = lvl.Path, 0
	}

	tile := float64(lvl.TileSize)
	x, _ := p.Pos()
	_, top, _, h := p.Rect()
	cur := level.Point{Col: int(x / tile), Row: int((top + h - 1) / tile)}
	for i := len(b.path) - 1; i > b.idx; i-- {
		if b.path[i] == cur {
			b.idx = i
			break
		}
	}
	if b.idx+1 >= len(b.path) {
		b.held = false
		return Intent{}
	}

	next := b.path[b.idx+1]
	var in Intent
	targetX := (float64(next.Col) + 0.5) * tile
	switch {
	case targetX > x+2:
		in.Right = true
	case targetX < x-2:
		in.Left = true
	}

	dc := next.Col - b.path[b.idx].Col
	if dc < 0 {
		dc = -dc
	}
	needJump := next.Row < b.path[b.idx].Row || dc > 1
	if needJump && cur == b.path[b.idx] && p.Grounded && !b.held {
		in.Jump = true
	}
	b.held = in.Jump
	return in
}

func samePath(a, b []level.Point) bool {
	return len(a) == len(b) && (len(a) == 0 || &a[0] == &b[0])
}
