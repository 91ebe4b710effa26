package game

import (
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/Garsondee/catacomb/internal/level"
)

// TickRate is the fixed simulation rate every frontend drives.
const TickRate = 60

// TickDuration is one simulation step.
const TickDuration = time.Second / TickRate

// SimConfig bundles the tuning a Sim needs.
type SimConfig struct {
	Level   level.Params  `yaml:"level" json:"level"`
	Physics Physics       `yaml:"physics" json:"physics"`
	Session SessionConfig `yaml:"session" json:"session"`
}

// DefaultSimConfig returns the desktop game tuning.
func DefaultSimConfig() SimConfig {
	return SimConfig{
		Level:   level.DefaultParams(),
		Physics: DefaultPhysics(),
		Session: DefaultSessionConfig(),
	}
}

// Sim wires the session, the world and the input sources together and steps
// them in a fixed order: timers, input and jump latches, patrol, physics,
// then collision events back into the session.
type Sim struct {
	Clock   *Clock
	World   *World
	Session *Session
	Log     *SimLog

	cfg     SimConfig
	sources []InputSource
	intents []Intent
	jump    *JumpResolver
	patrol  PatrolController
	logger  log.FieldLogger
	tick    int

	// Observers called after the SimLog has recorded the event; nil is
	// allowed.
	OnCue        func(Cue)
	OnTransition func(Transition)
}

// NewSim builds a Sim in the menu. A nil logger uses the logrus standard
// logger.
func NewSim(cfg SimConfig, logger log.FieldLogger, sources []InputSource, opts ...SessionOption) *Sim {
	if logger == nil {
		logger = log.StandardLogger()
	}
	s := &Sim{
		Clock:   NewClock(),
		World:   NewWorld(cfg.Physics),
		Log:     NewSimLog(false),
		cfg:     cfg,
		sources: append([]InputSource(nil), sources...),
		patrol:  NewPatrolController(cfg.Physics.EnemySpeed, cfg.Physics.StallTimeout),
		logger:  logger.WithField("component", "sim"),
	}
	s.jump = NewJumpResolver(len(s.sources))
	opts = append([]SessionOption{WithLogger(logger.WithField("component", "session"))}, opts...)
	s.Session = NewSession(cfg.Session, cfg.Level, cfg.Physics.EnemyKick, s.Clock, s.World, opts...)
	s.Session.OnTransition = s.transition
	s.Session.OnCue = s.cue
	return s
}

// AddSource attaches another input source with its own jump latch.
func (s *Sim) AddSource(src InputSource) {
	s.sources = append(s.sources, src)
	s.jump = NewJumpResolver(len(s.sources))
}

// Config returns the tuning the Sim was built with.
func (s *Sim) Config() SimConfig { return s.cfg }

// Ticks returns how many ticks have run.
func (s *Sim) Ticks() int { return s.tick }

// Start submits the player name and begins the first countdown.
func (s *Sim) Start(name string) error {
	return s.Session.SubmitName(name)
}

// Tick advances the simulation by dt.
func (s *Sim) Tick(dt time.Duration) {
	s.tick++
	s.Clock.Advance(dt)

	s.intents = pollInputs(s.sources, s.intents)
	running := s.Session.State().Phase == PhaseRunning
	p := s.World.Player()
	grounded := running && p != nil && p.Grounded
	fire := s.jump.Resolve(grounded, s.intents)

	if running && p != nil {
		p.VX = moveDirection(s.intents) * s.cfg.Physics.RunSpeed
		if fire {
			p.VY = -s.cfg.Physics.JumpVelocity
			x, _ := p.Pos()
			s.Log.Add(s.tick, "P", "input", "jump", fmt.Sprintf("x=%.0f", x), x)
			s.cue(CueJump)
		}
	}
	if running {
		s.steerEnemies()
	}

	events := s.World.Step(dt.Seconds())
	if p := s.World.Player(); running && p != nil && p.Landed() {
		s.Log.AddVerbose(s.tick, "P", "physics", "land", "", 0)
		s.cue(CueLand)
	}
	for _, ev := range events {
		handled := s.Session.Handle(ev)
		s.Log.Add(s.tick, "P", "physics", ev.String(), fmt.Sprintf("handled=%v", handled), 0)
	}
}

// steerEnemies runs the patrol controller for every enemy.
func (s *Sim) steerEnemies() {
	now := s.Clock.Now()
	for _, e := range s.World.Enemies() {
		x, _ := e.Pos()
		vx, reversed := s.patrol.Update(&e.Patrol, x, e.VX, now)
		e.VX = vx
		label := fmt.Sprintf("E%d", e.ID)
		if reversed {
			s.Log.Add(s.tick, label, "patrol", "reverse", fmt.Sprintf("dir=%+d x=%.1f", e.Patrol.Direction, x), vx)
		} else {
			s.Log.AddVerbose(s.tick, label, "patrol", "speed", fmt.Sprintf("%.0f", vx), vx)
		}
	}
}

func (s *Sim) transition(tr Transition) {
	if tr.To.Phase == PhaseRunning && tr.From.Phase == PhaseRunning {
		s.Log.AddVerbose(s.tick, "--", "session", "timer", tr.To.String(), float64(tr.To.Remaining))
	} else {
		s.Log.Add(s.tick, "--", "session", "transition", tr.From.String()+" -> "+tr.To.String(), float64(tr.Round))
	}
	if tr.To.Phase.Terminal() {
		if last := s.Session.Context().Last; last != nil {
			s.Log.Add(s.tick, "--", "session", "result", fmt.Sprintf("%s %s %ds", last.Outcome, last.Cause, last.Elapsed), float64(last.Elapsed))
		}
	}
	if tr.To.Phase == PhaseCountdown && tr.To.Count == s.cfg.Session.CountdownFrom {
		s.jump.Reset()
		if lvl := s.World.Level(); lvl != nil {
			s.Log.Add(s.tick, "--", "level", "generated", fmt.Sprintf("seed=%d attempts=%d", lvl.Seed, lvl.Attempts), float64(lvl.Attempts))
		}
	}
	if s.OnTransition != nil {
		s.OnTransition(tr)
	}
}

func (s *Sim) cue(c Cue) {
	s.Log.AddVerbose(s.tick, "--", "cue", c.String(), "", 0)
	if s.OnCue != nil {
		s.OnCue(c)
	}
}

// Frame is an immutable render snapshot of the simulation.
type Frame struct {
	Tick       int             `json:"tick"`
	State      State           `json:"state"`
	Round      int             `json:"round"`
	PlayerName string          `json:"player_name"`
	Seed       int64           `json:"seed"`
	Actors     []ActorSnapshot `json:"actors"`
	Last       *Result         `json:"last,omitempty"`
}

// Frame captures the current state for renderers and spectators.
func (s *Sim) Frame() Frame {
	ctx := s.Session.Context()
	f := Frame{
		Tick:       s.tick,
		State:      s.Session.State(),
		Round:      ctx.Round,
		PlayerName: ctx.PlayerName,
		Actors:     s.World.Snapshot(),
	}
	if ctx.Level != nil {
		f.Seed = ctx.Level.Seed
	}
	if ctx.Last != nil {
		last := *ctx.Last
		f.Last = &last
	}
	return f
}
