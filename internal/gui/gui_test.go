package gui

import (
	"image"
	"math"
	"testing"

	"github.com/tanema/gween/ease"

	"github.com/Garsondee/catacomb/internal/game"
)

func TestEventFeed_RingOrder(t *testing.T) {
	f := NewEventFeed()
	for i := 0; i < feedMaxEntries+5; i++ {
		f.Add(i, "--", "session", "x")
	}
	if f.Len() != feedMaxEntries {
		t.Fatalf("expected %d entries, got %d", feedMaxEntries, f.Len())
	}
	got := f.Recent()
	if got[0].Tick != 5 || got[len(got)-1].Tick != feedMaxEntries+4 {
		t.Fatalf("expected ticks 5..%d, got %d..%d", feedMaxEntries+4, got[0].Tick, got[len(got)-1].Tick)
	}
	for i := 1; i < len(got); i++ {
		if got[i].Tick != got[i-1].Tick+1 {
			t.Fatalf("entries out of order at %d", i)
		}
	}
}

func TestEventFeed_PartiallyFilled(t *testing.T) {
	f := NewEventFeed()
	f.Add(1, "P", "input", "jump")
	f.Add(2, "E1", "patrol", "reverse")
	got := f.Recent()
	if len(got) != 2 || got[0].Message != "jump" || got[1].Label != "E1" {
		t.Fatalf("unexpected feed %+v", got)
	}
}

func TestTouchSource_ButtonLayout(t *testing.T) {
	ts := NewTouchSource(image.Rect(0, 100, 400, 172))
	cases := []struct {
		x, y int
		want game.Intent
	}{
		{50, 130, game.Intent{Left: true}},
		{150, 130, game.Intent{Right: true}},
		{300, 130, game.Intent{Jump: true}},
		{50, 20, game.Intent{}},  // above the bar
		{50, 102, game.Intent{}}, // inside padding
	}
	for _, c := range cases {
		if got := ts.At(c.x, c.y); got != c.want {
			t.Fatalf("At(%d,%d): expected %+v, got %+v", c.x, c.y, c.want, got)
		}
	}
}

func TestNameEntry_LimitAndBackspace(t *testing.T) {
	n := newNameEntry(4)
	n.Type([]rune("ad\ta lovelace"))
	if n.String() != "ada " {
		t.Fatalf("expected %q, got %q", "ada ", n.String())
	}
	n.Backspace()
	n.Backspace()
	if n.String() != "ad" {
		t.Fatalf("expected %q, got %q", "ad", n.String())
	}
	n.Reset()
	n.Backspace()
	if n.String() != "" {
		t.Fatalf("expected empty name, got %q", n.String())
	}
}

func TestPulse_SettlesOnEndValue(t *testing.T) {
	p := newPulse(2, 1, 0.5, ease.OutQuad)
	if p.Value() != 1 || p.Active() {
		t.Fatal("idle pulse should rest on its end value")
	}
	p.Restart()
	if p.Value() != 2 || !p.Active() {
		t.Fatalf("expected restart at 2, got %v", p.Value())
	}
	mid := p.Update(0.25)
	if mid >= 2 || mid <= 1 {
		t.Fatalf("expected a value between the ends mid-tween, got %v", mid)
	}
	for i := 0; i < 10; i++ {
		p.Update(0.1)
	}
	if math.Abs(float64(p.Value()-1)) > 1e-6 || p.Active() {
		t.Fatalf("expected pulse to settle at 1, got %v", p.Value())
	}
}
