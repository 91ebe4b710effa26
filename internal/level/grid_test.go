package level

import "testing"

func TestGrid_NewIsEmpty(t *testing.T) {
	g := NewGrid(5)
	if got := g.Count(Empty); got != 25 {
		t.Fatalf("expected 25 empty cells, got %d", got)
	}
	if g.Count(Floor) != 0 || g.Count(Spike) != 0 {
		t.Fatal("fresh grid should hold no floor or spike")
	}
}

func TestGrid_WorldFloorRow(t *testing.T) {
	g := NewGrid(4)
	if g.At(2, 4) != Floor {
		t.Fatal("row Size should report the invisible world floor")
	}
	if g.InBounds(2, 4) {
		t.Fatal("world floor row must not be in bounds")
	}
	if !g.FloorBelow(0, 3) {
		t.Fatal("bottom row should rest on the world floor")
	}
	if g.At(-1, 0) != Empty || g.At(4, 0) != Empty || g.At(0, -1) != Empty || g.At(-1, 4) != Empty {
		t.Fatal("out-of-range cells other than the world floor should read Empty")
	}
}

func TestGrid_SetOutOfRangeIgnored(t *testing.T) {
	g := NewGrid(3)
	g.Set(5, 5, Floor)
	g.Set(-1, 0, Floor)
	if g.Count(Floor) != 0 {
		t.Fatal("out-of-range writes should be ignored")
	}
}

func TestGrid_OpenRejectsSolidAndOutside(t *testing.T) {
	g := ParseGrid(`
.#.
.^.
...`)
	if g.Open(1, 0) {
		t.Fatal("floor should not be open")
	}
	if g.Open(1, 1) {
		t.Fatal("spike should not be open")
	}
	if !g.Open(0, 0) {
		t.Fatal("empty in-bounds cell should be open")
	}
	if g.Open(-1, 0) || g.Open(3, 0) {
		t.Fatal("outside the grid should not be open")
	}
}

func TestGrid_ParseStringRoundTrip(t *testing.T) {
	src := "..#.\n.^#.\n####\n....\n"
	g := ParseGrid(src)
	if g.Size != 4 {
		t.Fatalf("expected size 4, got %d", g.Size)
	}
	if got := g.String(); got != src {
		t.Fatalf("expected\n%s\ngot\n%s", src, got)
	}
}

func TestGrid_ParseTreatsSpawnGlyphsAsEmpty(t *testing.T) {
	g := ParseGrid(`
P.D
###
E..`)
	if g.At(0, 0) != Empty || g.At(2, 0) != Empty || g.At(0, 2) != Empty {
		t.Fatal("spawn glyphs should parse as Empty")
	}
}

func TestGrid_CloneIsIndependent(t *testing.T) {
	g := ParseGrid(`
...
.#.
...`)
	cp := g.Clone()
	if !g.Equal(cp) {
		t.Fatal("clone should equal original")
	}
	cp.Set(0, 0, Spike)
	if g.At(0, 0) != Empty {
		t.Fatal("mutating the clone changed the original")
	}
	if g.Equal(cp) {
		t.Fatal("grids should differ after mutation")
	}
}

func TestGrid_EqualNilAndSize(t *testing.T) {
	var a, b *Grid
	if !a.Equal(b) {
		t.Fatal("two nil grids should be equal")
	}
	if NewGrid(3).Equal(nil) {
		t.Fatal("grid should not equal nil")
	}
	if NewGrid(3).Equal(NewGrid(4)) {
		t.Fatal("grids of different size should differ")
	}
}

func TestCell_String(t *testing.T) {
	cases := map[Cell]string{Empty: "empty", Floor: "floor", Spike: "spike", Cell(9): "unknown"}
	for c, want := range cases {
		if got := c.String(); got != want {
			t.Fatalf("expected %q, got %q", want, got)
		}
	}
}
