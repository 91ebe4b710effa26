package game

// LatchState is the observable state of a JumpLatch.
type LatchState uint8

const (
	LatchArmed   LatchState = iota // grounded, released: next press fires
	LatchHeld                      // signal still asserted since the last press
	LatchCooling                   // released but not yet re-armed by ground contact
)

func (s LatchState) String() string {
	switch s {
	case LatchArmed:
		return "armed"
	case LatchHeld:
		return "held"
	case LatchCooling:
		return "cooling"
	default:
		return "unknown"
	}
}

// JumpLatch turns a level-sensitive jump signal into at most one jump per
// grounded press-and-release cycle. Holding the button never re-fires, and a
// press made in the air is consumed rather than buffered until landing.
//
// Use NewJumpLatch; the zero value waits for one release before it can fire.
type JumpLatch struct {
	canJump      bool
	justReleased bool
	pressed      bool
}

// NewJumpLatch returns a latch that fires on the first grounded press.
func NewJumpLatch() JumpLatch {
	return JumpLatch{justReleased: true}
}

// Update advances the latch by one tick and reports whether a jump fires.
func (l *JumpLatch) Update(grounded, signal bool) bool {
	if grounded {
		l.canJump = true
	}
	switch {
	case signal && !l.pressed:
		l.pressed = true
		if grounded && l.canJump && l.justReleased {
			l.canJump = false
			l.justReleased = false
			return true
		}
		l.justReleased = false
	case !signal && l.pressed:
		l.pressed = false
		l.justReleased = true
	}
	return false
}

// State reports the latch's current state.
func (l *JumpLatch) State() LatchState {
	switch {
	case l.pressed:
		return LatchHeld
	case l.canJump && l.justReleased:
		return LatchArmed
	default:
		return LatchCooling
	}
}

// JumpResolver keeps one latch per input source. All latches share the
// ground gate and any one of them firing produces a single jump.
type JumpResolver struct {
	latches []JumpLatch
}

// NewJumpResolver returns a resolver for n sources.
func NewJumpResolver(n int) *JumpResolver {
	r := &JumpResolver{latches: make([]JumpLatch, n)}
	for i := range r.latches {
		r.latches[i] = NewJumpLatch()
	}
	return r
}

// Resolve updates every latch with its source's jump signal. intents must be
// indexed like the sources the resolver was built for; extra entries are
// ignored.
func (r *JumpResolver) Resolve(grounded bool, intents []Intent) bool {
	fire := false
	for i := range r.latches {
		signal := i < len(intents) && intents[i].Jump
		if r.latches[i].Update(grounded, signal) {
			fire = true
		}
	}
	return fire
}

// Latch returns the latch for source i.
func (r *JumpResolver) Latch(i int) *JumpLatch {
	return &r.latches[i]
}

// Reset re-arms every latch, used when a new round spawns the player.
func (r *JumpResolver) Reset() {
	for i := range r.latches {
		r.latches[i] = NewJumpLatch()
	}
}
