package tui

import (
	"strings"
	"testing"

	"github.com/gdamore/tcell/v2"

	"github.com/Garsondee/catacomb/internal/game"
	"github.com/Garsondee/catacomb/internal/level"
)

// gridCanvas records SetContent calls as text.
type gridCanvas struct {
	cells map[[2]int]rune
}

func newGridCanvas() *gridCanvas { return &gridCanvas{cells: map[[2]int]rune{}} }

func (g *gridCanvas) SetContent(x, y int, r rune, _ []rune, _ tcell.Style) {
	g.cells[[2]int{x, y}] = r
}

func (g *gridCanvas) line(y, width int) string {
	var sb strings.Builder
	for x := 0; x < width; x++ {
		r, ok := g.cells[[2]int{x, y}]
		if !ok {
			r = ' '
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

func TestHoldKeys_HoldWindow(t *testing.T) {
	h := NewHoldKeys(3)
	h.Advance(10)
	if !h.Press(tcell.KeyRune, 'd') {
		t.Fatal("expected d to map to a control")
	}
	for tick := 10; tick <= 13; tick++ {
		h.Advance(tick)
		if !h.Intent().Right {
			t.Fatalf("expected right held at tick %d", tick)
		}
	}
	h.Advance(14)
	if h.Intent().Right {
		t.Fatal("expected right released after the window")
	}
}

func TestHoldKeys_RepeatExtendsAndClear(t *testing.T) {
	h := NewHoldKeys(2)
	h.Advance(1)
	h.Press(tcell.KeyRune, ' ')
	h.Advance(3)
	h.Press(tcell.KeyUp, 0)
	h.Advance(5)
	if !h.Intent().Jump {
		t.Fatal("auto-repeat should keep jump held")
	}
	h.Clear()
	if h.Intent() != (game.Intent{}) {
		t.Fatal("Clear should release everything")
	}
}

func TestHoldKeys_Mapping(t *testing.T) {
	cases := []struct {
		k    tcell.Key
		r    rune
		want game.Intent
	}{
		{tcell.KeyLeft, 0, game.Intent{Left: true}},
		{tcell.KeyRune, 'A', game.Intent{Left: true}},
		{tcell.KeyRight, 0, game.Intent{Right: true}},
		{tcell.KeyRune, 'w', game.Intent{Jump: true}},
	}
	for _, c := range cases {
		h := NewHoldKeys(5)
		h.Press(c.k, c.r)
		if got := h.Intent(); got != c.want {
			t.Fatalf("key %v %q: expected %+v, got %+v", c.k, c.r, c.want, got)
		}
	}
	h := NewHoldKeys(5)
	if h.Press(tcell.KeyRune, 'x') {
		t.Fatal("x should not map to a control")
	}
}

func TestRender_DrawsGridAndActors(t *testing.T) {
	lvl, err := level.ParseLevel(`
P...D
#^###
.....
.....
.....`, 48)
	if err != nil {
		t.Fatal(err)
	}
	f := game.Frame{
		State:      game.State{Phase: game.PhaseRunning, Remaining: 12},
		Round:      2,
		PlayerName: "Ada",
		Seed:       9,
		Actors: []game.ActorSnapshot{
			{Kind: "player", X: 8, Y: 8, W: 32, H: 32},
			{Kind: "enemy", X: 104, Y: 8, W: 32, H: 32},
		},
	}
	c := newGridCanvas()
	Render(c, f, lvl, "")
	status := c.line(0, 60)
	if !strings.Contains(status, "Ada") || !strings.Contains(status, "Time: 12") || !strings.Contains(status, "seed 9") {
		t.Fatalf("unexpected status line %q", status)
	}
	if got := c.line(1, 10); got != "@@  &&  []" {
		t.Fatalf("expected actors and door on row 0, got %q", got)
	}
	if got := c.line(2, 10); got != "##^^######" {
		t.Fatalf("expected floor and spike row, got %q", got)
	}
}

func TestRender_BannerAndMenu(t *testing.T) {
	lvl, _ := level.ParseLevel("P...D\n#####\n.....\n.....\n.....", 48)
	f := game.Frame{
		State: game.State{Phase: game.PhaseWon},
		Last:  &game.Result{Outcome: game.PhaseWon, PlayerName: "ada", Elapsed: 7},
	}
	c := newGridCanvas()
	Render(c, f, lvl, "")
	var all strings.Builder
	for y := 0; y < 8; y++ {
		all.WriteString(c.line(y, 40))
	}
	if !strings.Contains(all.String(), "ADA WINS!") || !strings.Contains(all.String(), "Time: 7 seconds") {
		t.Fatalf("expected win banner, got %q", all.String())
	}

	c = newGridCanvas()
	Render(c, game.Frame{State: game.State{Phase: game.PhaseMenu}}, nil, "Bo")
	if !strings.Contains(c.line(3, 40), "Enter your name: Bo_") {
		t.Fatalf("expected name prompt, got %q", c.line(3, 40))
	}
}
