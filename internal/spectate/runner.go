package spectate

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/Garsondee/catacomb/internal/game"
)

// Message is the envelope every websocket frame carries.
type Message struct {
	Type       string           `json:"type"` // hello, frame, transition
	Run        uuid.UUID        `json:"run"`
	Spectator  *uuid.UUID       `json:"spectator,omitempty"`
	Frame      *game.Frame      `json:"frame,omitempty"`
	Transition *game.Transition `json:"transition,omitempty"`
}

// Runner owns a Sim driven by a Bot and publishes it to a Hub. Only the
// goroutine calling Step or Run touches the Sim; readers get copies.
type Runner struct {
	sim        *game.Sim
	hub        *Hub
	name       string
	frameEvery int
	runID      uuid.UUID
	logger     log.FieldLogger

	mu     sync.RWMutex
	latest game.Frame
	rounds int
	wins   int
}

// NewRunner builds the bot session and starts its first round.
func NewRunner(cfg game.SimConfig, name string, frameEvery int, hub *Hub, logger log.FieldLogger) (*Runner, error) {
	if logger == nil {
		logger = log.StandardLogger()
	}
	if frameEvery < 1 {
		frameEvery = 1
	}
	r := &Runner{
		hub:        hub,
		name:       name,
		frameEvery: frameEvery,
		runID:      uuid.New(),
	}
	r.logger = logger.WithFields(log.Fields{"component": "runner", "run": r.runID})
	r.sim = game.NewSim(cfg, logger, nil)
	r.sim.AddSource(game.NewBot(r.sim.World))
	r.sim.OnTransition = r.onTransition
	if err := r.sim.Start(name); err != nil {
		return nil, err
	}
	r.latest = r.sim.Frame()
	return r, nil
}

// RunID identifies this runner's stream.
func (r *Runner) RunID() uuid.UUID { return r.runID }

// Latest returns the most recently published frame.
func (r *Runner) Latest() game.Frame {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.latest
}

// Stats returns finished rounds and wins so far.
func (r *Runner) Stats() (rounds, wins int) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.rounds, r.wins
}

// Step advances one tick and publishes a frame every frameEvery ticks.
func (r *Runner) Step() {
	if r.sim.Session.State().Phase == game.PhaseMenu {
		// Only reachable when regeneration failed twice.
		if err := r.sim.Start(r.name); err != nil {
			r.logger.WithError(err).Warn("restart failed")
			return
		}
	}
	r.sim.Tick(game.TickDuration)
	r.sim.Log.Reset()
	if r.sim.Ticks()%r.frameEvery == 0 {
		f := r.sim.Frame()
		r.mu.Lock()
		r.latest = f
		r.mu.Unlock()
		r.publish(Message{Type: "frame", Frame: &f})
	}
}

// Run steps at the fixed tick rate until ctx is done.
func (r *Runner) Run(ctx context.Context) error {
	ticker := time.NewTicker(game.TickDuration)
	defer ticker.Stop()
	r.logger.Info("runner started")
	for {
		select {
		case <-ctx.Done():
			r.logger.Info("runner stopped")
			return nil
		case <-ticker.C:
			r.Step()
		}
	}
}

func (r *Runner) onTransition(tr game.Transition) {
	if tr.To.Phase.Terminal() {
		r.mu.Lock()
		r.rounds++
		if tr.To.Phase == game.PhaseWon {
			r.wins++
		}
		r.mu.Unlock()
	}
	r.publish(Message{Type: "transition", Transition: &tr})
}

func (r *Runner) publish(m Message) {
	m.Run = r.runID
	b, err := json.Marshal(m)
	if err != nil {
		r.logger.WithError(err).Error("encode message")
		return
	}
	if _, dropped := r.hub.Broadcast(b); dropped > 0 {
		r.logger.WithField("dropped", dropped).Debug("slow spectators")
	}
}

func (r *Runner) hello(id uuid.UUID) []byte {
	f := r.Latest()
	b, _ := json.Marshal(Message{Type: "hello", Run: r.runID, Spectator: &id, Frame: &f})
	return b
}
