package game

import (
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/Garsondee/catacomb/internal/level"
)

// Phase is the coarse session state.
type Phase uint8

const (
	PhaseMenu Phase = iota
	PhaseCountdown
	PhaseRunning
	PhaseWon
	PhaseLost
)

func (p Phase) String() string {
	switch p {
	case PhaseMenu:
		return "menu"
	case PhaseCountdown:
		return "countdown"
	case PhaseRunning:
		return "running"
	case PhaseWon:
		return "won"
	case PhaseLost:
		return "lost"
	default:
		return "unknown"
	}
}

// MarshalText renders the phase by name in JSON frames.
func (p Phase) MarshalText() ([]byte, error) { return []byte(p.String()), nil }

// UnmarshalText parses a phase name.
func (p *Phase) UnmarshalText(b []byte) error {
	for c := PhaseMenu; c <= PhaseLost; c++ {
		if c.String() == string(b) {
			*p = c
			return nil
		}
	}
	return fmt.Errorf("game: unknown phase %q", b)
}

// Terminal reports whether the phase ends a round.
func (p Phase) Terminal() bool {
	return p == PhaseWon || p == PhaseLost
}

// State is the full session state. Count is meaningful in Countdown (3, 2, 1,
// then 0 for "GO!"); Remaining is the seconds left in Running.
type State struct {
	Phase     Phase `json:"phase"`
	Count     int   `json:"count,omitempty"`
	Remaining int   `json:"remaining,omitempty"`
}

func (s State) String() string {
	switch s.Phase {
	case PhaseCountdown:
		return fmt.Sprintf("countdown(%d)", s.Count)
	case PhaseRunning:
		return fmt.Sprintf("running(%d)", s.Remaining)
	default:
		return s.Phase.String()
	}
}

// Event is a collision or timer signal fed into the session.
type Event uint8

const (
	EventHitSpike Event = iota
	EventHitEnemy
	EventReachedDoor
	EventFell
	EventTimerExpired
)

func (e Event) String() string {
	switch e {
	case EventHitSpike:
		return "hitSpike"
	case EventHitEnemy:
		return "hitEnemy"
	case EventReachedDoor:
		return "reachedDoor"
	case EventFell:
		return "fell"
	case EventTimerExpired:
		return "timerExpired"
	default:
		return "unknown"
	}
}

// Cause records why a round ended.
type Cause uint8

const (
	CauseNone Cause = iota
	CauseSpike
	CauseEnemy
	CauseFall
	CauseTimeout
	CauseDoor
)

func (c Cause) String() string {
	switch c {
	case CauseSpike:
		return "spike"
	case CauseEnemy:
		return "enemy"
	case CauseFall:
		return "fall"
	case CauseTimeout:
		return "timeout"
	case CauseDoor:
		return "door"
	default:
		return "none"
	}
}

func (c Cause) MarshalText() ([]byte, error) { return []byte(c.String()), nil }

func (c *Cause) UnmarshalText(b []byte) error {
	for k := CauseNone; k <= CauseDoor; k++ {
		if k.String() == string(b) {
			*c = k
			return nil
		}
	}
	return fmt.Errorf("game: unknown cause %q", b)
}

// Cue is a fire-and-forget sound cue.
type Cue uint8

const (
	CueCount Cue = iota
	CueJump
	CueLand
	CueDamage
	CueGameOver
	CueWin
)

func (c Cue) String() string {
	switch c {
	case CueCount:
		return "count"
	case CueJump:
		return "jump"
	case CueLand:
		return "land"
	case CueDamage:
		return "damage"
	case CueGameOver:
		return "gameover"
	case CueWin:
		return "win"
	default:
		return "unknown"
	}
}

// Result summarises a finished round. Elapsed is round time minus the time
// that was left.
type Result struct {
	Outcome    Phase  `json:"outcome"`
	Cause      Cause  `json:"cause"`
	Elapsed    int    `json:"elapsed"`
	PlayerName string `json:"player_name"`
	Round      int    `json:"round"`
	Seed       int64  `json:"seed"`
}

// Banner is the terminal screen headline.
func (r Result) Banner() string {
	if r.Outcome == PhaseWon {
		return strings.ToUpper(r.PlayerName) + " WINS!"
	}
	return "GAME OVER"
}

// SessionContext holds everything a round needs. It is rebuilt when the
// session returns to the menu and its Level is replaced on every regeneration.
type SessionContext struct {
	PlayerName string
	Level      *level.Level
	Round      int
	Last       *Result
}

// Transition is reported to observers on every state change.
type Transition struct {
	From  State `json:"from"`
	To    State `json:"to"`
	Cause Cause `json:"cause,omitempty"`
	Round int   `json:"round"`
}

// Actors is the physics-side collaborator the session drives. World
// implements it.
type Actors interface {
	Load(lvl *level.Level)
	SetFrozen(frozen bool)
	EnemyIDs() []int
	SetEnemyVelocityX(id int, vx float64)
	RemovePlayer()
	Clear()
}

// SessionConfig tunes the round timers and naming.
type SessionConfig struct {
	CountdownFrom int           `yaml:"countdown_from" json:"countdown_from"`
	RoundSeconds  int           `yaml:"round_seconds" json:"round_seconds"`
	Tick          time.Duration `yaml:"tick" json:"tick"`
	TerminalDelay time.Duration `yaml:"terminal_delay" json:"terminal_delay"`

	// Seed 0 draws a fresh seed per round. Any other value makes round k
	// (counting from 0) use Seed+k, so a whole session replays.
	Seed int64 `yaml:"seed" json:"seed"`

	DefaultName   string `yaml:"default_name" json:"default_name"`
	MaxNameLength int    `yaml:"max_name_length" json:"max_name_length"`
}

// DefaultSessionConfig returns a 3-2-1 countdown, 30 second rounds and a 3
// second pause on the result screen.
func DefaultSessionConfig() SessionConfig {
	return SessionConfig{
		CountdownFrom: 3,
		RoundSeconds:  30,
		Tick:          time.Second,
		TerminalDelay: 3 * time.Second,
		DefaultName:   "Player",
		MaxNameLength: 16,
	}
}

// ErrNotInMenu is returned by SubmitName outside the menu.
var ErrNotInMenu = errors.New("session: name can only be submitted from the menu")

// Generator builds a level for a seed. level.GenerateSeeded is the default.
type Generator func(p level.Params, seed int64) (*level.Level, error)

// SessionOption customises a Session at construction.
type SessionOption func(*Session)

// WithLogger sets the session logger.
func WithLogger(l log.FieldLogger) SessionOption {
	return func(s *Session) { s.log = l }
}

// WithGenerator replaces level generation.
func WithGenerator(g Generator) SessionOption {
	return func(s *Session) { s.generate = g }
}

// WithSessionRand sets the source used for per-round seeds and enemy kicks.
func WithSessionRand(rng *rand.Rand) SessionOption {
	return func(s *Session) { s.rng = rng }
}

// Session sequences menu, countdown, running, the terminal screens and
// regeneration. It is single-threaded: every method and every timer callback
// must run on the simulation goroutine.
type Session struct {
	cfg      SessionConfig
	params   level.Params
	kick     float64
	actors   Actors
	log      log.FieldLogger
	rng      *rand.Rand
	generate Generator

	state State
	ctx   *SessionContext

	countdown *timerSlot
	run       *timerSlot
	terminal  *timerSlot

	// Observers; nil is allowed.
	OnTransition func(Transition)
	OnCue        func(Cue)
}

// NewSession returns a session in the menu. kick is the largest enemy
// velocity handed out when a round starts.
func NewSession(cfg SessionConfig, params level.Params, kick float64, sched Scheduler, actors Actors, opts ...SessionOption) *Session {
	s := &Session{
		cfg:       cfg,
		params:    params,
		kick:      kick,
		actors:    actors,
		log:       log.WithField("component", "session"),
		generate:  level.GenerateSeeded,
		ctx:       &SessionContext{},
		countdown: newTimerSlot("countdown", sched),
		run:       newTimerSlot("run", sched),
		terminal:  newTimerSlot("terminal", sched),
	}
	for _, o := range opts {
		o(s)
	}
	if s.rng == nil {
		s.rng = level.NewRand(cfg.Seed)
	}
	return s
}

// State returns the current state.
func (s *Session) State() State { return s.state }

// Context returns the live session context.
func (s *Session) Context() *SessionContext { return s.ctx }

// Config returns the session configuration.
func (s *Session) Config() SessionConfig { return s.cfg }

// PendingTimers reports which slots hold a callback, for diagnostics.
func (s *Session) PendingTimers() (countdown, run, terminal bool) {
	return s.countdown.Armed(), s.run.Armed(), s.terminal.Armed()
}

// NormalizeName trims the name, caps its length and substitutes the default
// for a blank name.
func (s *Session) NormalizeName(name string) string {
	name = strings.TrimSpace(name)
	if s.cfg.MaxNameLength > 0 {
		if r := []rune(name); len(r) > s.cfg.MaxNameLength {
			name = strings.TrimSpace(string(r[:s.cfg.MaxNameLength]))
		}
	}
	if name == "" {
		name = s.cfg.DefaultName
	}
	return name
}

// SubmitName leaves the menu: it records the player name, generates the first
// level and starts the countdown. If no level can be generated the session
// stays in the menu and the error is returned.
func (s *Session) SubmitName(name string) error {
	if s.state.Phase != PhaseMenu {
		return ErrNotInMenu
	}
	s.ctx.PlayerName = s.NormalizeName(name)
	if err := s.startRound(); err != nil {
		s.enterMenu()
		return err
	}
	return nil
}

// ReturnToMenu abandons the session from any state.
func (s *Session) ReturnToMenu() {
	if s.state.Phase == PhaseMenu {
		return
	}
	s.enterMenu()
}

// Handle feeds a collision or timer event. Events outside Running are
// ignored, as is any event after the first terminal one in a tick. It reports
// whether the event changed the state.
func (s *Session) Handle(ev Event) bool {
	if s.state.Phase != PhaseRunning {
		s.log.WithFields(log.Fields{"event": ev, "state": s.state}).Debug("event ignored")
		return false
	}
	switch ev {
	case EventReachedDoor:
		s.enterTerminal(PhaseWon, CauseDoor)
	case EventHitSpike:
		s.enterTerminal(PhaseLost, CauseSpike)
	case EventHitEnemy:
		s.enterTerminal(PhaseLost, CauseEnemy)
	case EventFell:
		s.enterTerminal(PhaseLost, CauseFall)
	case EventTimerExpired:
		s.enterTerminal(PhaseLost, CauseTimeout)
	default:
		return false
	}
	return true
}

// startRound generates the next level, spawns it frozen and starts the
// countdown.
func (s *Session) startRound() error {
	round := s.ctx.Round + 1
	seed := s.nextSeed(round)
	lvl, err := s.generate(s.params, seed)
	if err != nil {
		s.log.WithError(err).WithField("seed", seed).Warn("generation failed, retrying with defaults")
		seed++
		lvl, err = s.generate(level.DefaultParams(), seed)
		if err != nil {
			s.log.WithError(err).WithField("seed", seed).Error("fallback generation failed")
			return fmt.Errorf("session: round %d: %w", round, err)
		}
	}
	if lvl.Seed == 0 {
		lvl.Seed = seed
	}
	s.ctx.Round = round
	s.ctx.Level = lvl
	s.actors.Load(lvl)
	s.actors.SetFrozen(true)
	s.log.WithFields(log.Fields{
		"round":    round,
		"seed":     lvl.Seed,
		"attempts": lvl.Attempts,
		"enemies":  len(lvl.Enemies),
	}).Info("level generated")

	s.enterCountdown(s.cfg.CountdownFrom)
	s.emit(CueCount)
	return nil
}

func (s *Session) nextSeed(round int) int64 {
	if s.cfg.Seed != 0 {
		return s.cfg.Seed + int64(round-1)
	}
	for {
		if seed := s.rng.Int63(); seed != 0 {
			return seed
		}
	}
}

func (s *Session) enterCountdown(n int) {
	s.setState(State{Phase: PhaseCountdown, Count: n}, CauseNone)
	s.countdown.Arm(s.cfg.Tick, s.countdownTick)
}

func (s *Session) countdownTick() {
	if s.state.Phase != PhaseCountdown {
		return
	}
	if s.state.Count > 0 {
		s.enterCountdown(s.state.Count - 1)
		return
	}
	s.startRunning()
}

func (s *Session) startRunning() {
	s.setState(State{Phase: PhaseRunning, Remaining: s.cfg.RoundSeconds}, CauseNone)
	s.actors.SetFrozen(false)
	for _, id := range s.actors.EnemyIDs() {
		vx := (s.rng.Float64()*2 - 1) * s.kick
		s.actors.SetEnemyVelocityX(id, vx)
	}
	s.run.Arm(s.cfg.Tick, s.runTick)
}

func (s *Session) runTick() {
	if s.state.Phase != PhaseRunning {
		return
	}
	remaining := s.state.Remaining - 1
	if remaining <= 0 {
		s.state.Remaining = 0
		s.Handle(EventTimerExpired)
		return
	}
	s.setState(State{Phase: PhaseRunning, Remaining: remaining}, CauseNone)
	s.run.Arm(s.cfg.Tick, s.runTick)
}

// enterTerminal stops the round synchronously and arms the single
// regeneration callback.
func (s *Session) enterTerminal(phase Phase, cause Cause) {
	s.countdown.Cancel()
	s.run.Cancel()
	s.actors.SetFrozen(true)
	s.actors.RemovePlayer()

	res := Result{
		Outcome:    phase,
		Cause:      cause,
		Elapsed:    s.cfg.RoundSeconds - s.state.Remaining,
		PlayerName: s.ctx.PlayerName,
		Round:      s.ctx.Round,
	}
	if s.ctx.Level != nil {
		res.Seed = s.ctx.Level.Seed
	}
	s.ctx.Last = &res
	s.setState(State{Phase: phase}, cause)

	switch {
	case phase == PhaseWon:
		s.emit(CueWin)
	case cause == CauseTimeout:
		s.emit(CueGameOver)
	default:
		s.emit(CueDamage)
	}
	s.terminal.Arm(s.cfg.TerminalDelay, s.regenerate)
}

func (s *Session) regenerate() {
	if !s.state.Phase.Terminal() {
		return
	}
	s.actors.Clear()
	if err := s.startRound(); err != nil {
		s.log.WithError(err).Error("regeneration failed, returning to menu")
		s.enterMenu()
	}
}

func (s *Session) enterMenu() {
	s.countdown.Cancel()
	s.run.Cancel()
	s.terminal.Cancel()
	s.actors.Clear()
	s.ctx = &SessionContext{}
	s.setState(State{Phase: PhaseMenu}, CauseNone)
}

func (s *Session) setState(next State, cause Cause) {
	prev := s.state
	s.state = next
	if prev == next {
		return
	}
	tr := Transition{From: prev, To: next, Cause: cause, Round: s.ctx.Round}
	entry := s.log.WithFields(log.Fields{"from": prev, "to": next, "round": tr.Round})
	if cause != CauseNone {
		entry = entry.WithField("cause", cause)
	}
	if next.Phase == PhaseRunning && prev.Phase == PhaseRunning {
		entry.Debug("tick")
	} else {
		entry.Info("transition")
	}
	if s.OnTransition != nil {
		s.OnTransition(tr)
	}
}

func (s *Session) emit(c Cue) {
	if s.OnCue != nil {
		s.OnCue(c)
	}
}
