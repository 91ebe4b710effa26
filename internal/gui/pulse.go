package gui

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// pulse replays a one-shot tween and holds its last value once finished.
type pulse struct {
	from, to, dur float32
	easing        ease.TweenFunc
	tw            *gween.Tween
	value         float32
}

func newPulse(from, to, dur float32, easing ease.TweenFunc) *pulse {
	return &pulse{from: from, to: to, dur: dur, easing: easing, value: to}
}

// Restart begins the tween again from its start value.
func (p *pulse) Restart() {
	p.tw = gween.New(p.from, p.to, p.dur, p.easing)
	p.value = p.from
}

// Update advances by dt seconds and returns the current value.
func (p *pulse) Update(dt float32) float32 {
	if p.tw == nil {
		return p.value
	}
	v, done := p.tw.Update(dt)
	p.value = v
	if done {
		p.tw = nil
		p.value = p.to
	}
	return p.value
}

// Value is the current tweened value.
func (p *pulse) Value() float32 { return p.value }

// Active reports whether the tween is still running.
func (p *pulse) Active() bool { return p.tw != nil }
