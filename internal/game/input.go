package game

// Intent is what one input source asks of the player this tick.
type Intent struct {
	Left  bool
	Right bool
	Jump  bool
}

// InputSource is polled once per tick. Keyboard, touch, terminal and bot
// sources all satisfy it; the Sim composes them.
type InputSource interface {
	Intent() Intent
}

// InputFunc adapts a plain function to InputSource.
type InputFunc func() Intent

// Intent implements InputSource.
func (f InputFunc) Intent() Intent { return f() }

// ManualInput is an InputSource whose intent is set directly, used by tests
// and scripted runs.
type ManualInput struct {
	Current Intent
}

// Intent implements InputSource.
func (m *ManualInput) Intent() Intent { return m.Current }

// Press sets the jump signal.
func (m *ManualInput) Press() { m.Current.Jump = true }

// Release clears the jump signal.
func (m *ManualInput) Release() { m.Current.Jump = false }

// pollInputs collects one intent per source.
func pollInputs(sources []InputSource, into []Intent) []Intent {
	into = into[:0]
	for _, s := range sources {
		into = append(into, s.Intent())
	}
	return into
}

// moveDirection ORs the movement intents of every source: -1 left, +1 right,
// 0 idle. Left wins when both are held.
func moveDirection(intents []Intent) float64 {
	left, right := false, false
	for _, in := range intents {
		left = left || in.Left
		right = right || in.Right
	}
	switch {
	case left:
		return -1
	case right:
		return 1
	default:
		return 0
	}
}
