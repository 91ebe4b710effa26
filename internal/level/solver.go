package level

import "container/heap"

// Point is a grid coordinate.
type Point struct {
	Col, Row int
}

// Reach is how far the jump arc carries an actor, in whole cells.
// Rise is the number of rows a jump can climb onto a neighbouring column;
// Gap is the number of open columns a level jump can clear.
type Reach struct {
	Rise int `yaml:"rise" json:"rise"`
	Gap  int `yaml:"gap" json:"gap"`
}

// DefaultReach matches the default movement model: a 400 u/s jump under 800
// u/s² gravity peaks just over two 48-unit tiles, which reliably clears one
// tile up or one open column across.
func DefaultReach() Reach {
	return Reach{Rise: 1, Gap: 1}
}

// Standing reports whether an actor can rest at (col, row): the cell is open,
// has Floor directly below and is not in the bottom row (which sits past the
// fall-through threshold).
func Standing(g *Grid, col, row int) bool {
	return g.Open(col, row) && row < g.Size-1 && g.FloorBelow(col, row)
}

// land drops an actor straight down from (col, row) until it rests on a
// standing cell. Falling into a Spike or into the bottom row is death.
func land(g *Grid, col, row int) (int, bool) {
	for y := row; y < g.Size-1; y++ {
		if !g.Open(col, y) {
			return 0, false
		}
		if g.FloorBelow(col, y) {
			return y, true
		}
	}
	return 0, false
}

type move struct {
	to   Point
	cost int
}

// moves lists the legal transitions out of a standing cell.
func moves(g *Grid, from Point, reach Reach) []move {
	var out []move
	c, r := from.Col, from.Row
	for _, dir := range [2]int{-1, 1} {
		nc := c + dir

		// Walk, possibly off a ledge.
		if g.Open(nc, r) {
			if y, ok := land(g, nc, r); ok {
				out = append(out, move{to: Point{nc, y}, cost: 1 + (y - r)})
			}
		}

		// Jump up onto the neighbouring column.
		for k := 1; k <= reach.Rise; k++ {
			if !g.Open(c, r-k) {
				break
			}
			if Standing(g, nc, r-k) {
				out = append(out, move{to: Point{nc, r - k}, cost: 2 + k})
			}
		}

		// Jump across open columns at the same height.
		for gap := 1; gap <= reach.Gap; gap++ {
			airborne := g.Open(c, r-1)
			for i := 1; i <= gap && airborne; i++ {
				airborne = g.Open(c+dir*i, r) && g.Open(c+dir*i, r-1)
			}
			if !airborne {
				break
			}
			tc := c + dir*(gap+1)
			if Standing(g, tc, r) {
				out = append(out, move{to: Point{tc, r}, cost: 2 + gap})
			}
		}
	}
	return out
}

// --- A* over standing cells ---

type pathNode struct {
	p      Point
	g, h   int
	parent *pathNode
	index  int // heap index
}

type openList []*pathNode

func (ol openList) Len() int           { return len(ol) }
func (ol openList) Less(i, j int) bool { return ol[i].g+ol[i].h < ol[j].g+ol[j].h }
func (ol openList) Swap(i, j int)      { ol[i], ol[j] = ol[j], ol[i]; ol[i].index = i; ol[j].index = j }
func (ol *openList) Push(x any)        { n := x.(*pathNode); n.index = len(*ol); *ol = append(*ol, n) }
func (ol *openList) Pop() any {
	old := *ol
	n := old[len(old)-1]
	old[len(old)-1] = nil
	*ol = old[:len(old)-1]
	return n
}

// FindPath returns the cheapest chain of standing cells from `from` to `to`
// under the jump model, inclusive of both ends. Returns nil if none exists or
// either end is not a standing cell.
func FindPath(g *Grid, from, to Point, reach Reach) []Point {
	if !Standing(g, from.Col, from.Row) || !Standing(g, to.Col, to.Row) {
		return nil
	}

	// Every move that covers m columns costs at least m, so column distance
	// is admissible.
	heuristic := func(p Point) int {
		d := p.Col - to.Col
		if d < 0 {
			d = -d
		}
		return d
	}
	key := func(p Point) int { return p.Row*g.Size + p.Col }

	start := &pathNode{p: from, h: heuristic(from)}
	ol := &openList{start}
	heap.Init(ol)

	closed := make(map[int]bool)
	best := map[int]*pathNode{key(from): start}

	for ol.Len() > 0 {
		cur := heap.Pop(ol).(*pathNode)
		if cur.p == to {
			return buildPath(cur)
		}
		k := key(cur.p)
		if closed[k] {
			continue
		}
		closed[k] = true

		for _, m := range moves(g, cur.p, reach) {
			nk := key(m.to)
			if closed[nk] {
				continue
			}
			ng := cur.g + m.cost
			if prev, ok := best[nk]; ok && ng >= prev.g {
				continue
			}
			node := &pathNode{p: m.to, g: ng, h: heuristic(m.to), parent: cur}
			best[nk] = node
			heap.Push(ol, node)
		}
	}
	return nil
}

// Reachable reports whether `to` can be reached from `from`.
func Reachable(g *Grid, from, to Point, reach Reach) bool {
	return FindPath(g, from, to, reach) != nil
}

func buildPath(end *pathNode) []Point {
	var cells []Point
	for n := end; n != nil; n = n.parent {
		cells = append(cells, n.p)
	}
	for i, j := 0, len(cells)-1; i < j; i, j = i+1, j-1 {
		cells[i], cells[j] = cells[j], cells[i]
	}
	return cells
}
