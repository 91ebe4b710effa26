package level

import "strings"

// Cell identifies what occupies one grid square.
type Cell uint8

const (
	Empty Cell = iota // open air
	Floor             // solid platform tile
	Spike             // lethal tile resting on a Floor below
)

func (c Cell) String() string {
	switch c {
	case Empty:
		return "empty"
	case Floor:
		return "floor"
	case Spike:
		return "spike"
	default:
		return "unknown"
	}
}

// glyph is the single-character rendering used by Grid.String.
func (c Cell) glyph() byte {
	switch c {
	case Floor:
		return '#'
	case Spike:
		return '^'
	default:
		return '.'
	}
}

// Grid is a square tile matrix for one level. Row 0 is the top of the screen.
//
// A row of invisible Floor exists at row index Size (beneath the lowest
// playable row); At reports it but it is never stored.
type Grid struct {
	Size  int
	cells []Cell
}

// NewGrid allocates an all-Empty grid of size × size.
func NewGrid(size int) *Grid {
	return &Grid{
		Size:  size,
		cells: make([]Cell, size*size),
	}
}

// InBounds reports whether (col, row) is a playable cell.
func (g *Grid) InBounds(col, row int) bool {
	return col >= 0 && row >= 0 && col < g.Size && row < g.Size
}

// At returns the cell at (col, row). The world-floor row reports Floor and any
// other out-of-range coordinate reports Empty.
func (g *Grid) At(col, row int) Cell {
	if row == g.Size && col >= 0 && col < g.Size {
		return Floor
	}
	if !g.InBounds(col, row) {
		return Empty
	}
	return g.cells[row*g.Size+col]
}

// Set writes a cell. Out-of-range writes are ignored.
func (g *Grid) Set(col, row int, c Cell) {
	if !g.InBounds(col, row) {
		return
	}
	g.cells[row*g.Size+col] = c
}

// FloorBelow reports whether the cell directly beneath (col, row) is Floor,
// counting the world-floor row.
func (g *Grid) FloorBelow(col, row int) bool {
	return g.At(col, row+1) == Floor
}

// Open reports whether an actor may occupy (col, row) without dying or being
// blocked: inside the grid and neither Floor nor Spike.
func (g *Grid) Open(col, row int) bool {
	return g.InBounds(col, row) && g.At(col, row) == Empty
}

// Count returns how many cells hold the given kind.
func (g *Grid) Count(kind Cell) int {
	n := 0
	for _, c := range g.cells {
		if c == kind {
			n++
		}
	}
	return n
}

// Equal reports whether two grids have identical dimensions and contents.
func (g *Grid) Equal(other *Grid) bool {
	if g == nil || other == nil {
		return g == other
	}
	if g.Size != other.Size {
		return false
	}
	for i := range g.cells {
		if g.cells[i] != other.cells[i] {
			return false
		}
	}
	return true
}

// Clone returns a deep copy.
func (g *Grid) Clone() *Grid {
	cp := &Grid{Size: g.Size, cells: make([]Cell, len(g.cells))}
	copy(cp.cells, g.cells)
	return cp
}

// String renders the grid one row per line.
func (g *Grid) String() string {
	var sb strings.Builder
	for _, line := range g.rows(nil) {
		sb.Write(line)
		sb.WriteByte('\n')
	}
	return sb.String()
}

// rows renders each row into a byte slice, then lets overlay stamp extra
// glyphs (spawns) on top.
func (g *Grid) rows(overlay func(lines [][]byte)) [][]byte {
	lines := make([][]byte, g.Size)
	for row := 0; row < g.Size; row++ {
		line := make([]byte, g.Size)
		for col := 0; col < g.Size; col++ {
			line[col] = g.At(col, row).glyph()
		}
		lines[row] = line
	}
	if overlay != nil {
		overlay(lines)
	}
	return lines
}

// ParseGrid builds a grid from the ASCII form produced by String. Spawn glyphs
// (P, D, E) are read as Empty. Used by tests and fixtures.
func ParseGrid(s string) *Grid {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	g := NewGrid(len(lines))
	for row, line := range lines {
		line = strings.TrimSpace(line)
		for col := 0; col < len(line) && col < g.Size; col++ {
			switch line[col] {
			case '#':
				g.Set(col, row, Floor)
			case '^':
				g.Set(col, row, Spike)
			}
		}
	}
	return g
}
