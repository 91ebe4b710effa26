package game

import (
	"io"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/Garsondee/catacomb/internal/level"
)

// Headless runs a Sim without any frontend. Tests and the batch report drive
// it with fixed ticks.
type Headless struct {
	Sim    *Sim
	Input  *ManualInput // always attached as source 0
	Bot    *Bot         // nil unless WithBot was given
	SimLog *SimLog

	cfg      SimConfig
	logger   log.FieldLogger
	verbose  bool
	name     string
	start    bool
	opts     []SessionOption
	startErr error
}

// headlessOptionKind controls the pass in which an option is applied.
type headlessOptionKind int

const (
	headlessOptConfig headlessOptionKind = iota // tuning, seed, logger: applied before the Sim exists
	headlessOptInput                            // extra input sources: applied after the Sim is built
)

// HeadlessOption is a builder function applied during construction.
type HeadlessOption struct {
	kind headlessOptionKind
	fn   func(*Headless)
}

// WithSeed fixes the session seed so every round replays.
func WithSeed(seed int64) HeadlessOption {
	return HeadlessOption{headlessOptConfig, func(h *Headless) {
		h.cfg.Session.Seed = seed
	}}
}

// WithVerbose enables per-tick SimLog entries.
func WithVerbose(v bool) HeadlessOption {
	return HeadlessOption{headlessOptConfig, func(h *Headless) {
		h.verbose = v
	}}
}

// WithLevelParams overrides generation parameters.
func WithLevelParams(p level.Params) HeadlessOption {
	return HeadlessOption{headlessOptConfig, func(h *Headless) {
		h.cfg.Level = p
	}}
}

// WithPhysics overrides the movement model.
func WithPhysics(p Physics) HeadlessOption {
	return HeadlessOption{headlessOptConfig, func(h *Headless) {
		h.cfg.Physics = p
	}}
}

// WithSessionConfig overrides round timing. The seed set by WithSeed is kept
// if this option comes first.
func WithSessionConfig(c SessionConfig) HeadlessOption {
	return HeadlessOption{headlessOptConfig, func(h *Headless) {
		h.cfg.Session = c
	}}
}

// WithConfig replaces the whole tuning.
func WithConfig(c SimConfig) HeadlessOption {
	return HeadlessOption{headlessOptConfig, func(h *Headless) {
		h.cfg = c
	}}
}

// WithHeadlessLogger sets the logrus logger; the default discards output.
func WithHeadlessLogger(l log.FieldLogger) HeadlessOption {
	return HeadlessOption{headlessOptConfig, func(h *Headless) {
		h.logger = l
	}}
}

// WithSessionOptions passes options through to the Session.
func WithSessionOptions(opts ...SessionOption) HeadlessOption {
	return HeadlessOption{headlessOptConfig, func(h *Headless) {
		h.opts = append(h.opts, opts...)
	}}
}

// WithName submits the player name once the Sim is built, starting the first
// countdown.
func WithName(name string) HeadlessOption {
	return HeadlessOption{headlessOptConfig, func(h *Headless) {
		h.name = name
		h.start = true
	}}
}

// WithBot attaches a Bot as a second input source.
func WithBot() HeadlessOption {
	return HeadlessOption{headlessOptInput, func(h *Headless) {
		h.Bot = NewBot(h.Sim.World)
		h.Sim.AddSource(h.Bot)
	}}
}

// NewHeadless constructs a Headless in two ordered passes:
//  1. Tuning, seed and logging
//  2. Build the Sim, then attach input sources
//
// If WithName was given the session is started last; a generation failure is
// reported by StartErr.
func NewHeadless(opts ...HeadlessOption) *Headless {
	quiet := log.New()
	quiet.SetOutput(io.Discard)
	h := &Headless{
		cfg:    DefaultSimConfig(),
		logger: quiet,
		Input:  &ManualInput{},
	}
	for _, o := range opts {
		if o.kind == headlessOptConfig {
			o.fn(h)
		}
	}
	h.Sim = NewSim(h.cfg, h.logger, []InputSource{h.Input}, h.opts...)
	h.SimLog = NewSimLog(h.verbose)
	h.Sim.Log = h.SimLog
	for _, o := range opts {
		if o.kind == headlessOptInput {
			o.fn(h)
		}
	}
	if h.start {
		h.startErr = h.Sim.Start(h.name)
	}
	return h
}

// StartErr returns the error from the initial SubmitName, if any.
func (h *Headless) StartErr() error { return h.startErr }

// State is shorthand for the session state.
func (h *Headless) State() State { return h.Sim.Session.State() }

// Tick returns how many ticks have run.
func (h *Headless) Tick() int { return h.Sim.Ticks() }

// RunTicks advances the simulation n fixed ticks.
func (h *Headless) RunTicks(n int) {
	for i := 0; i < n; i++ {
		h.Sim.Tick(TickDuration)
	}
}

// RunFor advances the simulation by at least d in fixed ticks.
func (h *Headless) RunFor(d time.Duration) {
	n := int((d + TickDuration - 1) / TickDuration)
	h.RunTicks(n)
}

// RunUntil advances the simulation up to maxTicks, stopping early if predicate
// returns true. Returns the tick at which the predicate was satisfied, or -1.
func (h *Headless) RunUntil(predicate func(*Headless) bool, maxTicks int) int {
	for i := 0; i < maxTicks; i++ {
		h.Sim.Tick(TickDuration)
		if predicate(h) {
			return h.Sim.Ticks()
		}
	}
	return -1
}

// Summary formats the SimLog summary for the current tick.
func (h *Headless) Summary() string {
	return h.SimLog.Summary(h.Sim.Ticks(), h.State(), h.Sim.Session.Context(), h.Sim.World)
}
