// Package gui is the ebiten desktop frontend.
package gui

import (
	"fmt"
	"image"
	"strconv"

	"github.com/atotto/clipboard"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	log "github.com/sirupsen/logrus"
	"github.com/tanema/gween/ease"
	"golang.org/x/image/font/basicfont"

	"github.com/Garsondee/catacomb/internal/audio"
	"github.com/Garsondee/catacomb/internal/game"
)

// borderWidth is the pixel gap between the window edge and the playfield.
const borderWidth = 24

// touchBarHeight is the strip of on-screen buttons under the playfield.
const touchBarHeight = 72

// statusTicks is how long a status message stays up.
const statusTicks = 2 * game.TickRate

// Game implements ebiten.Game around a Sim.
type Game struct {
	sim    *game.Sim
	logger log.FieldLogger
	cues   audio.Player

	touch *TouchSource
	name  *nameEntry
	feed  *EventFeed
	face  text.Face

	countPulse *pulse // countdown digit scale
	bannerFade *pulse // terminal banner alpha

	status      string
	statusUntil int
	frames      int

	width, height int
	worldPx       int
	offX, offY    int
}

// New builds the desktop game. A nil cues player is muted.
func New(cfg game.SimConfig, logger log.FieldLogger, cues audio.Player) *Game {
	if logger == nil {
		logger = log.StandardLogger()
	}
	if cues == nil {
		cues = audio.Mute{}
	}
	worldPx := cfg.Level.WorldSize()
	g := &Game{
		logger:     logger.WithField("component", "gui"),
		cues:       cues,
		name:       newNameEntry(cfg.Session.MaxNameLength),
		feed:       NewEventFeed(),
		face:       text.NewGoXFace(basicfont.Face7x13),
		countPulse: newPulse(2.4, 1.0, 0.45, ease.OutBack),
		bannerFade: newPulse(0, 1, 0.6, ease.OutQuad),
		worldPx:    worldPx,
		offX:       borderWidth,
		offY:       borderWidth,
		width:      borderWidth + worldPx + borderWidth + feedPanelWidth,
		height:     borderWidth + worldPx + borderWidth + touchBarHeight,
	}
	bar := image.Rect(g.offX, g.offY+worldPx+borderWidth, g.offX+worldPx, g.height)
	g.touch = NewTouchSource(bar)
	g.sim = game.NewSim(cfg, logger, []game.InputSource{KeyboardSource{}, g.touch})
	g.sim.OnCue = g.cues.Play
	g.sim.OnTransition = g.onTransition
	return g
}

// Sim exposes the underlying simulation.
func (g *Game) Sim() *game.Sim { return g.sim }

// Size is the window size the layout expects.
func (g *Game) Size() (int, int) { return g.width, g.height }

// StartAs skips name entry.
func (g *Game) StartAs(name string) error {
	return g.sim.Start(name)
}

func (g *Game) onTransition(tr game.Transition) {
	switch tr.To.Phase {
	case game.PhaseCountdown:
		g.countPulse.Restart()
	case game.PhaseWon, game.PhaseLost:
		g.bannerFade.Restart()
	case game.PhaseMenu:
		g.name.Reset()
	}
}

func (g *Game) Update() error {
	g.frames++
	if g.sim.Session.State().Phase == game.PhaseMenu {
		g.updateMenu()
		return nil
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		g.sim.Session.ReturnToMenu()
		return nil
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyC) {
		g.copySeed()
	}
	g.sim.Tick(game.TickDuration)
	g.drainLog()
	dt := float32(game.TickDuration.Seconds())
	g.countPulse.Update(dt)
	g.bannerFade.Update(dt)
	return nil
}

func (g *Game) updateMenu() {
	g.name.Type(ebiten.AppendInputChars(nil))
	if inpututil.IsKeyJustPressed(ebiten.KeyBackspace) {
		g.name.Backspace()
	}
	tapped := false
	for _, id := range inpututil.AppendJustPressedTouchIDs(nil) {
		if x, y := ebiten.TouchPosition(id); image.Pt(x, y).In(g.playfield()) {
			tapped = true
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEnter) || inpututil.IsKeyJustPressed(ebiten.KeyKPEnter) || tapped {
		if err := g.sim.Start(g.name.String()); err != nil {
			g.logger.WithError(err).Error("could not start round")
			g.setStatus("level generation failed, try again")
		}
		g.drainLog()
	}
}

// drainLog moves new SimLog entries into the on-screen feed.
func (g *Game) drainLog() {
	for _, e := range g.sim.Log.Entries() {
		g.feed.Add(e.Tick, e.Actor, e.Category, e.Key+" "+e.Value)
	}
	g.sim.Log.Reset()
}

func (g *Game) copySeed() {
	lvl := g.sim.World.Level()
	if lvl == nil {
		return
	}
	seed := strconv.FormatInt(lvl.Seed, 10)
	if err := clipboard.WriteAll(seed); err != nil {
		g.logger.WithError(err).Warn("clipboard unavailable")
		g.setStatus("clipboard unavailable")
		return
	}
	g.logger.WithField("seed", lvl.Seed).Info("seed copied")
	g.setStatus(fmt.Sprintf("seed %s copied", seed))
}

func (g *Game) setStatus(msg string) {
	g.status = msg
	g.statusUntil = g.frames + statusTicks
}

func (g *Game) playfield() image.Rectangle {
	return image.Rect(g.offX, g.offY, g.offX+g.worldPx, g.offY+g.worldPx)
}

func (g *Game) Layout(_, _ int) (int, int) {
	return g.width, g.height
}
