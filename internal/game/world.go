package game

import (
	"math"

	"github.com/solarlune/resolv"

	"github.com/Garsondee/catacomb/internal/level"
)

const (
	tagSolid  = "solid"
	tagSpike  = "spike"
	tagDoor   = "door"
	tagPlayer = "player"
	tagEnemy  = "enemy"
)

// BodyKind distinguishes the two dynamic actors.
type BodyKind uint8

const (
	BodyPlayer BodyKind = iota
	BodyEnemy
)

func (k BodyKind) String() string {
	if k == BodyPlayer {
		return "player"
	}
	return "enemy"
}

// Body is a dynamic box moved by the world.
type Body struct {
	ID       int
	Kind     BodyKind
	VX, VY   float64
	Grounded bool
	Patrol   PatrolState

	wasGrounded bool
	obj         *resolv.Object
}

// Pos returns the body's centre.
func (b *Body) Pos() (x, y float64) {
	return b.obj.X + b.obj.W/2, b.obj.Y + b.obj.H/2
}

// Rect returns the body's top-left corner and size.
func (b *Body) Rect() (x, y, w, h float64) {
	return b.obj.X, b.obj.Y, b.obj.W, b.obj.H
}

// Landed reports whether ground contact began during the last step.
func (b *Body) Landed() bool {
	return b.Grounded && !b.wasGrounded
}

// World is the arcade physics for one level: gravity, axis-separated box
// collision against floor tiles and overlap checks for spikes, the door and
// enemies. Broadphase queries go through a resolv.Space hashed at tile size.
//
// World implements Actors.
type World struct {
	phys   Physics
	tile   float64
	width  float64
	height float64

	space   *resolv.Space
	lvl     *level.Level
	player  *Body
	enemies []*Body
	frozen  bool
}

// NewWorld returns an empty world. Load populates it.
func NewWorld(phys Physics) *World {
	return &World{phys: phys}
}

// Load tears down the current contents and builds bodies for lvl.
func (w *World) Load(lvl *level.Level) {
	w.Clear()
	w.lvl = lvl
	size := lvl.Grid.Size
	ts := lvl.TileSize
	w.tile = float64(ts)
	w.width = float64(size * ts)
	w.height = float64(size * ts)

	// One extra row for the world floor beneath the playfield.
	w.space = resolv.NewSpace(size*ts, (size+1)*ts, ts, ts)

	for row := 0; row < size; row++ {
		for col := 0; col < size; col++ {
			switch lvl.Grid.At(col, row) {
			case level.Floor:
				w.space.Add(resolv.NewObject(float64(col*ts), float64(row*ts), w.tile, w.tile, tagSolid))
			case level.Spike:
				w.space.Add(w.hazard(col, row, tagSpike))
			}
		}
	}
	for col := 0; col < size; col++ {
		w.space.Add(resolv.NewObject(float64(col*ts), w.height, w.tile, w.tile, tagSolid))
	}
	w.space.Add(w.hazard(lvl.Door.Col, lvl.Door.Row, tagDoor))

	w.player = w.spawn(0, BodyPlayer, lvl.Player, tagPlayer)
	for i, e := range lvl.Enemies {
		w.enemies = append(w.enemies, w.spawn(i+1, BodyEnemy, e, tagEnemy))
	}
}

// hazard builds a small centred hitbox inside a tile.
func (w *World) hazard(col, row int, tag string) *resolv.Object {
	hs := w.phys.HazardSize
	x := float64(col)*w.tile + (w.tile-hs)/2
	y := float64(row)*w.tile + (w.tile-hs)/2
	return resolv.NewObject(x, y, hs, hs, tag)
}

func (w *World) spawn(id int, kind BodyKind, sp level.SpawnPoint, tag string) *Body {
	cx, cy := sp.World(int(w.tile))
	s := w.phys.ActorSize
	b := &Body{ID: id, Kind: kind, obj: resolv.NewObject(cx-s/2, cy-s/2, s, s, tag)}
	b.obj.Data = b
	w.space.Add(b.obj)
	return b
}

// Level returns the loaded level, or nil.
func (w *World) Level() *level.Level { return w.lvl }

// Player returns the player body, or nil once removed.
func (w *World) Player() *Body { return w.player }

// Enemies returns the enemy bodies.
func (w *World) Enemies() []*Body { return w.enemies }

// Frozen reports whether integration is paused.
func (w *World) Frozen() bool { return w.frozen }

// Bounds returns the playfield size in world units.
func (w *World) Bounds() (width, height float64) { return w.width, w.height }

// SetFrozen pauses or resumes integration. Freezing also zeroes velocities.
func (w *World) SetFrozen(frozen bool) {
	w.frozen = frozen
	if !frozen {
		return
	}
	for _, b := range w.bodies() {
		b.VX, b.VY = 0, 0
	}
}

// EnemyIDs lists live enemy ids.
func (w *World) EnemyIDs() []int {
	ids := make([]int, 0, len(w.enemies))
	for _, e := range w.enemies {
		ids = append(ids, e.ID)
	}
	return ids
}

// SetEnemyVelocityX sets an enemy's horizontal velocity. Unknown ids are
// ignored.
func (w *World) SetEnemyVelocityX(id int, vx float64) {
	for _, e := range w.enemies {
		if e.ID == id {
			e.VX = vx
			return
		}
	}
}

// RemovePlayer takes the player out of the simulation. Safe to call twice.
func (w *World) RemovePlayer() {
	if w.player == nil {
		return
	}
	if w.space != nil {
		w.space.Remove(w.player.obj)
	}
	w.player = nil
}

// Clear drops every body and the level.
func (w *World) Clear() {
	w.space = nil
	w.lvl = nil
	w.player = nil
	w.enemies = nil
}

func (w *World) bodies() []*Body {
	out := make([]*Body, 0, len(w.enemies)+1)
	if w.player != nil {
		out = append(out, w.player)
	}
	return append(out, w.enemies...)
}

// Step integrates every body by dt seconds and returns the player's overlap
// events in the order spike, enemy, door, fall. A frozen or empty world does
// nothing.
func (w *World) Step(dt float64) []Event {
	if w.space == nil || w.frozen {
		return nil
	}
	for _, e := range w.enemies {
		w.integrate(e, dt)
	}
	if w.player == nil {
		return nil
	}
	w.integrate(w.player, dt)
	return w.playerEvents()
}

func (w *World) integrate(b *Body, dt float64) {
	b.wasGrounded = b.Grounded
	b.VY = math.Min(b.VY+w.phys.Gravity*dt, w.phys.MaxFallSpeed)
	w.moveX(b, b.VX*dt)
	w.moveY(b, b.VY*dt)
	b.obj.Update()
}

// moveX slides the body horizontally, stopping flush against solids and the
// side walls. Horizontal velocity is kept so a blocked enemy stalls in place.
func (w *World) moveX(b *Body, dx float64) {
	if dx == 0 {
		return
	}
	o := b.obj
	target := o.X + dx
	if c := o.Check(dx, 0, tagSolid); c != nil {
		for _, s := range c.Objects {
			if !overlaps(target, o.Y, o.W, o.H, s) {
				continue
			}
			if dx > 0 {
				target = math.Min(target, s.X-o.W)
			} else {
				target = math.Max(target, s.X+s.W)
			}
		}
	}
	o.X = math.Max(0, math.Min(target, w.width-o.W))
}

// moveY applies vertical motion. Landing on a solid sets ground contact;
// hitting a solid or the ceiling stops vertical velocity.
func (w *World) moveY(b *Body, dy float64) {
	b.Grounded = false
	if dy == 0 {
		return
	}
	o := b.obj
	target := o.Y + dy
	blocked := false
	if c := o.Check(0, dy, tagSolid); c != nil {
		for _, s := range c.Objects {
			if !overlaps(o.X, target, o.W, o.H, s) {
				continue
			}
			blocked = true
			if dy > 0 {
				target = math.Min(target, s.Y-o.H)
			} else {
				target = math.Max(target, s.Y+s.H)
			}
		}
	}
	if target < 0 {
		target = 0
		blocked = true
	}
	o.Y = target
	if blocked {
		b.Grounded = dy > 0
		b.VY = 0
	}
}

func (w *World) playerEvents() []Event {
	p := w.player.obj
	var spike, enemy, door bool
	if c := p.Check(0, 0, tagSpike, tagEnemy, tagDoor); c != nil {
		for _, s := range c.Objects {
			if !overlaps(p.X, p.Y, p.W, p.H, s) {
				continue
			}
			switch {
			case s.HasTags(tagSpike):
				spike = true
			case s.HasTags(tagEnemy):
				enemy = true
			case s.HasTags(tagDoor):
				door = true
			}
		}
	}
	var events []Event
	if spike {
		events = append(events, EventHitSpike)
	}
	if enemy {
		events = append(events, EventHitEnemy)
	}
	if door {
		events = append(events, EventReachedDoor)
	}
	if p.Y+p.H >= w.height-w.phys.FallMargin {
		events = append(events, EventFell)
	}
	return events
}

// overlaps is a strict AABB test; boxes that only share an edge do not
// overlap.
func overlaps(x, y, width, height float64, o *resolv.Object) bool {
	return x < o.X+o.W && x+width > o.X && y < o.Y+o.H && y+height > o.Y
}

// ActorSnapshot is a render-ready copy of one body.
type ActorSnapshot struct {
	ID       int     `json:"id"`
	Kind     string  `json:"kind"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	W        float64 `json:"w"`
	H        float64 `json:"h"`
	Grounded bool    `json:"grounded"`
}

// Snapshot copies every body's box, player first.
func (w *World) Snapshot() []ActorSnapshot {
	bodies := w.bodies()
	out := make([]ActorSnapshot, 0, len(bodies))
	for _, b := range bodies {
		x, y, bw, bh := b.Rect()
		out = append(out, ActorSnapshot{
			ID: b.ID, Kind: b.Kind.String(),
			X: x, Y: y, W: bw, H: bh,
			Grounded: b.Grounded,
		})
	}
	return out
}
