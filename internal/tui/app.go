// Package tui is the tcell terminal frontend.
package tui

import (
	"context"
	"time"
	"unicode"

	"github.com/gdamore/tcell/v2"
	log "github.com/sirupsen/logrus"

	"github.com/Garsondee/catacomb/internal/audio"
	"github.com/Garsondee/catacomb/internal/game"
)

// DefaultHoldTicks covers the gap before a terminal's key auto-repeat starts.
const DefaultHoldTicks = 30

// App runs a Sim on a tcell screen.
type App struct {
	screen tcell.Screen
	sim    *game.Sim
	keys   *HoldKeys
	cues   audio.Player
	logger log.FieldLogger
	name   []rune
}

// NewApp wires a Sim to screen. The screen must already be initialised.
func NewApp(screen tcell.Screen, cfg game.SimConfig, logger log.FieldLogger, cues audio.Player) *App {
	if logger == nil {
		logger = log.StandardLogger()
	}
	if cues == nil {
		cues = audio.Mute{}
	}
	a := &App{
		screen: screen,
		keys:   NewHoldKeys(DefaultHoldTicks),
		cues:   cues,
		logger: logger.WithField("component", "tui"),
	}
	a.sim = game.NewSim(cfg, logger, []game.InputSource{a.keys})
	a.sim.OnCue = a.cues.Play
	a.sim.OnTransition = func(tr game.Transition) {
		if tr.To.Phase == game.PhaseCountdown || tr.To.Phase == game.PhaseMenu {
			a.keys.Clear()
		}
	}
	return a
}

// Sim exposes the underlying simulation.
func (a *App) Sim() *game.Sim { return a.sim }

// Run polls events and ticks at the fixed rate until ctx is done or the user
// quits.
func (a *App) Run(ctx context.Context) error {
	events := make(chan tcell.Event, 64)
	quit := make(chan struct{})
	go func() {
		for {
			ev := a.screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-quit:
				return
			}
		}
	}()
	defer close(quit)

	ticker := time.NewTicker(game.TickDuration)
	defer ticker.Stop()
	a.draw()
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev := <-events:
			if !a.handle(ev) {
				return nil
			}
		case <-ticker.C:
			if a.sim.Session.State().Phase != game.PhaseMenu {
				a.keys.Advance(a.sim.Ticks() + 1)
				a.sim.Tick(game.TickDuration)
			}
			a.sim.Log.Reset()
			a.draw()
		}
	}
}

// handle processes one event and reports whether to keep running.
func (a *App) handle(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		a.screen.Sync()
	case *tcell.EventKey:
		if ev.Key() == tcell.KeyCtrlC {
			return false
		}
		if a.sim.Session.State().Phase == game.PhaseMenu {
			a.handleMenuKey(ev)
			return true
		}
		if ev.Key() == tcell.KeyEscape {
			a.sim.Session.ReturnToMenu()
			a.name = a.name[:0]
			return true
		}
		a.keys.HandleKey(ev)
	}
	return true
}

func (a *App) handleMenuKey(ev *tcell.EventKey) {
	max := a.sim.Session.Config().MaxNameLength
	switch ev.Key() {
	case tcell.KeyEnter:
		if err := a.sim.Start(string(a.name)); err != nil {
			a.logger.WithError(err).Error("could not start round")
		}
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		if len(a.name) > 0 {
			a.name = a.name[:len(a.name)-1]
		}
	case tcell.KeyRune:
		if r := ev.Rune(); unicode.IsPrint(r) && (max <= 0 || len(a.name) < max) {
			a.name = append(a.name, r)
		}
	}
}

func (a *App) draw() {
	a.screen.Clear()
	Render(a.screen, a.sim.Frame(), a.sim.World.Level(), string(a.name))
	a.screen.Show()
}
