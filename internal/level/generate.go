package level

import (
	"fmt"
	"math/rand"
	"strings"
	"time"
)

// SpawnKind tags a spawn point.
type SpawnKind uint8

const (
	SpawnPlayer SpawnKind = iota
	SpawnDoor
	SpawnEnemy
)

func (k SpawnKind) String() string {
	switch k {
	case SpawnPlayer:
		return "player"
	case SpawnDoor:
		return "door"
	case SpawnEnemy:
		return "enemy"
	default:
		return fmt.Sprintf("spawn(%d)", uint8(k))
	}
}

// SpawnPoint is a grid coordinate designated for an actor or the door.
type SpawnPoint struct {
	Kind SpawnKind `json:"kind"`
	Col  int       `json:"col"`
	Row  int       `json:"row"`
}

// Point returns the spawn's grid coordinate.
func (s SpawnPoint) Point() Point {
	return Point{Col: s.Col, Row: s.Row}
}

// World converts the spawn to tile-centre world units.
func (s SpawnPoint) World(tileSize int) (x, y float64) {
	half := float64(tileSize) / 2
	return float64(s.Col*tileSize) + half, float64(s.Row*tileSize) + half
}

// Level is one generated dungeon: terrain plus every spawn point.
type Level struct {
	Grid     *Grid
	Player   SpawnPoint
	Door     SpawnPoint
	Enemies  []SpawnPoint
	TileSize int

	// Path is the solver's route from Player to Door; nil when reachability
	// was not required.
	Path []Point

	// Seed is recorded by GenerateSeeded for replay; zero when Generate was
	// called with a caller-owned source. Attempts counts whole-grid
	// generations, including the accepted one.
	Seed     int64
	Attempts int
}

// sharedSpawnGlyph marks a cell holding both the player and the door, which
// only happens when DistinctSpawns is off.
const sharedSpawnGlyph = '*'

// String renders the grid with P, D and E stamped on the spawn cells, or *
// where the player starts on the door.
func (l *Level) String() string {
	lines := l.Grid.rows(func(lines [][]byte) {
		for _, e := range l.Enemies {
			lines[e.Row][e.Col] = 'E'
		}
		lines[l.Door.Row][l.Door.Col] = 'D'
		lines[l.Player.Row][l.Player.Col] = 'P'
		if l.Player.Point() == l.Door.Point() {
			lines[l.Player.Row][l.Player.Col] = sharedSpawnGlyph
		}
	})
	out := make([]byte, 0, len(lines)*(l.Grid.Size+1))
	for _, line := range lines {
		out = append(out, line...)
		out = append(out, '\n')
	}
	return string(out)
}

// Generate builds a level. It is deterministic for a given rng state.
// Every rejection-sampling loop is bounded by p's attempt caps; on exhaustion
// a *GenerationFailed is returned.
func Generate(p Params, rng *rand.Rand) (*Level, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	var lastErr error
	for attempt := 1; attempt <= p.MaxLevelAttempts; attempt++ {
		lvl, err := generateOnce(p, rng)
		if err != nil {
			// A grid with no legal door or player cell is as bad as an
			// unsolvable one: scatter a new grid.
			lastErr = err
			continue
		}
		lvl.Attempts = attempt
		return lvl, nil
	}
	if gf, ok := lastErr.(*GenerationFailed); ok && gf.Stage != StageReachability {
		return nil, gf
	}
	return nil, &GenerationFailed{Stage: StageReachability, Attempts: p.MaxLevelAttempts, Params: p}
}

// GenerateSeeded resolves seed 0 to a time-based seed, generates with it and
// records the seed on the level so the layout can be replayed.
func GenerateSeeded(p Params, seed int64) (*Level, error) {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	lvl, err := Generate(p, NewRand(seed))
	if err != nil {
		return nil, err
	}
	lvl.Seed = seed
	return lvl, nil
}

// generateOnce runs one pass of scatter, spike promotion and spawn placement.
func generateOnce(p Params, rng *rand.Rand) (*Level, error) {
	g := scatter(p, rng)
	lvl := &Level{Grid: g, TileSize: p.TileSize}

	door, err := sample(p, rng, StageDoor, func(c, r int) bool {
		return r > 0 && r < p.Size-1 && g.At(c, r) == Empty && g.FloorBelow(c, r)
	})
	if err != nil {
		return nil, err
	}
	lvl.Door = SpawnPoint{Kind: SpawnDoor, Col: door.Col, Row: door.Row}

	player, err := sample(p, rng, StagePlayer, func(c, r int) bool {
		if p.DistinctSpawns && c == door.Col && r == door.Row {
			return false
		}
		return r < p.Size-1 && g.At(c, r) == Empty && g.FloorBelow(c, r)
	})
	if err != nil {
		return nil, err
	}
	lvl.Player = SpawnPoint{Kind: SpawnPlayer, Col: player.Col, Row: player.Row}

	if p.RequireReachable {
		lvl.Path = FindPath(g, player, door, p.Reach)
		if lvl.Path == nil {
			return nil, &GenerationFailed{Stage: StageReachability, Attempts: 1, Params: p}
		}
	}

	n := p.EnemyMin
	if p.EnemyMax > p.EnemyMin {
		n += rng.Intn(p.EnemyMax - p.EnemyMin + 1)
	}
	taken := map[Point]bool{player: true, door: true}
	for i := 0; i < n; i++ {
		// Enemies may spawn mid-air; they are dynamic bodies and fall to rest.
		e, err := sample(p, rng, StageEnemy, func(c, r int) bool {
			return g.At(c, r) == Empty && !taken[Point{c, r}]
		})
		if err != nil {
			return nil, err
		}
		taken[e] = true
		lvl.Enemies = append(lvl.Enemies, SpawnPoint{Kind: SpawnEnemy, Col: e.Col, Row: e.Row})
	}
	return lvl, nil
}

// scatter allocates the grid, drops Floor cells independently and promotes
// Empty cells resting on Floor to Spike.
func scatter(p Params, rng *rand.Rand) *Grid {
	g := NewGrid(p.Size)
	for row := 0; row < p.Size; row++ {
		for col := 0; col < p.Size; col++ {
			if rng.Float64() < p.FloorProbability {
				g.Set(col, row, Floor)
			}
		}
	}
	for row := 1; row < p.Size; row++ {
		for col := 0; col < p.Size; col++ {
			if g.At(col, row) == Floor && g.At(col, row-1) == Empty && rng.Float64() < p.SpikeProbability {
				g.Set(col, row-1, Spike)
			}
		}
	}
	return g
}

// sample draws uniform coordinates until accept passes or the placement cap
// is hit.
func sample(p Params, rng *rand.Rand, stage string, accept func(col, row int) bool) (Point, error) {
	for i := 0; i < p.MaxPlacementAttempts; i++ {
		c := rng.Intn(p.Size)
		r := rng.Intn(p.Size)
		if accept(c, r) {
			return Point{Col: c, Row: r}, nil
		}
	}
	return Point{}, &GenerationFailed{Stage: stage, Attempts: p.MaxPlacementAttempts, Params: p}
}

// ParseLevel reads the stamped form produced by Level.String. It needs exactly
// one P and one D, or a single * standing for both; every E becomes an enemy
// spawn. Path and Seed are left empty.
func ParseLevel(s string, tileSize int) (*Level, error) {
	g := ParseGrid(s)
	lvl := &Level{Grid: g, TileSize: tileSize}
	var players, doors int
	for row, line := range strings.Split(strings.TrimSpace(s), "\n") {
		line = strings.TrimSpace(line)
		for col := 0; col < len(line) && col < g.Size; col++ {
			switch line[col] {
			case 'P':
				lvl.Player = SpawnPoint{Kind: SpawnPlayer, Col: col, Row: row}
				players++
			case 'D':
				lvl.Door = SpawnPoint{Kind: SpawnDoor, Col: col, Row: row}
				doors++
			case sharedSpawnGlyph:
				lvl.Player = SpawnPoint{Kind: SpawnPlayer, Col: col, Row: row}
				lvl.Door = SpawnPoint{Kind: SpawnDoor, Col: col, Row: row}
				players++
				doors++
			case 'E':
				lvl.Enemies = append(lvl.Enemies, SpawnPoint{Kind: SpawnEnemy, Col: col, Row: row})
			}
		}
	}
	if players != 1 || doors != 1 {
		return nil, fmt.Errorf("level: parse: want one player and one door, got %d and %d", players, doors)
	}
	return lvl, nil
}
