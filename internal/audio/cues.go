// Package audio plays the short tone cues both frontends share.
package audio

import (
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"
	log "github.com/sirupsen/logrus"

	"github.com/Garsondee/catacomb/internal/game"
)

// note is one tone in a cue; a zero frequency is a rest.
type note struct {
	freq float64
	dur  time.Duration
}

// cueNotes describes every cue as a short melody.
var cueNotes = map[game.Cue][]note{
	game.CueCount:    {{660, 90 * time.Millisecond}},
	game.CueJump:     {{520, 40 * time.Millisecond}, {780, 50 * time.Millisecond}},
	game.CueLand:     {{140, 45 * time.Millisecond}},
	game.CueDamage:   {{300, 80 * time.Millisecond}, {180, 140 * time.Millisecond}},
	game.CueGameOver: {{392, 160 * time.Millisecond}, {0, 40 * time.Millisecond}, {262, 320 * time.Millisecond}},
	game.CueWin:      {{523, 100 * time.Millisecond}, {659, 100 * time.Millisecond}, {784, 220 * time.Millisecond}},
}

// Player plays cues. Frontends hold this rather than *Cues so muted runs and
// tests can pass Mute.
type Player interface {
	Play(game.Cue)
}

// Mute discards every cue.
type Mute struct{}

func (Mute) Play(game.Cue) {}

// Cues renders cue melodies and plays them through the speaker mixer.
// Cues are fire-and-forget: a new cue never stops one already playing.
type Cues struct {
	mu     sync.Mutex
	rate   beep.SampleRate
	volume float64
	mixer  *beep.Mixer
	logger log.FieldLogger
	ready  bool
}

// NewCues prepares a player at the given sample rate. volume is a base-2 gain
// exponent (0 unity, -1 half).
func NewCues(sampleRate int, volume float64, logger log.FieldLogger) *Cues {
	if logger == nil {
		logger = log.StandardLogger()
	}
	return &Cues{
		rate:   beep.SampleRate(sampleRate),
		volume: volume,
		mixer:  &beep.Mixer{},
		logger: logger.WithField("component", "audio"),
	}
}

// Init opens the speaker. Without an audio device this fails and the caller
// should fall back to Mute.
func (c *Cues) Init() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.ready {
		return nil
	}
	if err := speaker.Init(c.rate, c.rate.N(50*time.Millisecond)); err != nil {
		return err
	}
	speaker.Play(c.mixer)
	c.ready = true
	return nil
}

// Close silences any cues still in flight.
func (c *Cues) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.ready {
		return
	}
	speaker.Lock()
	c.mixer.Clear()
	speaker.Unlock()
	c.ready = false
}

// Play queues cue on the mixer. Unknown cues and an unopened speaker are
// ignored.
func (c *Cues) Play(cue game.Cue) {
	c.mu.Lock()
	ready := c.ready
	c.mu.Unlock()
	if !ready {
		return
	}
	s, err := c.Render(cue)
	if err != nil {
		c.logger.WithError(err).WithField("cue", cue).Warn("cue render failed")
		return
	}
	if s == nil {
		return
	}
	speaker.Lock()
	c.mixer.Add(s)
	speaker.Unlock()
}

// Render builds the finite streamer for cue, or nil for an unknown cue.
func (c *Cues) Render(cue game.Cue) (beep.Streamer, error) {
	notes, ok := cueNotes[cue]
	if !ok {
		return nil, nil
	}
	parts := make([]beep.Streamer, 0, len(notes))
	for _, n := range notes {
		samples := c.rate.N(n.dur)
		if n.freq == 0 {
			parts = append(parts, beep.Silence(samples))
			continue
		}
		tone, err := generators.SineTone(c.rate, n.freq)
		if err != nil {
			return nil, err
		}
		parts = append(parts, beep.Take(samples, tone))
	}
	return &effects.Volume{Streamer: beep.Seq(parts...), Base: 2, Volume: c.volume}, nil
}

// Length returns the sample count of cue at this player's rate.
func (c *Cues) Length(cue game.Cue) int {
	total := 0
	for _, n := range cueNotes[cue] {
		total += c.rate.N(n.dur)
	}
	return total
}
