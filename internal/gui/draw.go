package gui

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/Garsondee/catacomb/internal/game"
	"github.com/Garsondee/catacomb/internal/level"
)

var (
	colBackground = color.RGBA{R: 14, G: 12, B: 18, A: 255}
	colFloor      = color.RGBA{R: 74, G: 68, B: 82, A: 255}
	colFloorLight = color.RGBA{R: 110, G: 102, B: 120, A: 255}
	colFloorDark  = color.RGBA{R: 40, G: 36, B: 46, A: 255}
	colSpike      = color.RGBA{R: 200, G: 200, B: 210, A: 255}
	colDoor       = color.RGBA{R: 150, G: 96, B: 40, A: 255}
	colDoorFrame  = color.RGBA{R: 230, G: 190, B: 90, A: 255}
	colPlayer     = color.RGBA{R: 80, G: 200, B: 110, A: 255}
	colEnemy      = color.RGBA{R: 210, G: 70, B: 70, A: 255}
	colButton     = color.RGBA{R: 40, G: 34, B: 50, A: 230}
	colButtonEdge = color.RGBA{R: 110, G: 90, B: 130, A: 255}
)

// drawText draws s with the HUD face. scale multiplies the 7x13 glyphs.
func drawText(dst *ebiten.Image, face text.Face, s string, x, y, scale float64, clr color.Color, align text.Align) {
	op := &text.DrawOptions{}
	op.GeoM.Scale(scale, scale)
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleWithColor(clr)
	op.PrimaryAlign = align
	text.Draw(dst, s, face, op)
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(colBackground)
	ox, oy := float32(g.offX), float32(g.offY)
	wp := float32(g.worldPx)
	vector.StrokeRect(screen, ox-1, oy-1, wp+2, wp+2, 2.0, color.RGBA{R: 70, G: 55, B: 80, A: 255}, false)

	st := g.sim.Session.State()
	if st.Phase == game.PhaseMenu {
		g.drawMenu(screen)
	} else {
		g.drawLevel(screen)
		g.drawActors(screen)
		g.drawHUD(screen, st)
	}
	g.drawTouchBar(screen)
	g.feed.Draw(screen, g.face, g.width-feedPanelWidth, g.height)
}

func (g *Game) drawLevel(screen *ebiten.Image) {
	lvl := g.sim.World.Level()
	if lvl == nil {
		return
	}
	ts := float32(lvl.TileSize)
	ox, oy := float32(g.offX), float32(g.offY)
	for row := 0; row < lvl.Grid.Size; row++ {
		for col := 0; col < lvl.Grid.Size; col++ {
			x0 := ox + float32(col)*ts
			y0 := oy + float32(row)*ts
			switch lvl.Grid.At(col, row) {
			case level.Floor:
				vector.FillRect(screen, x0, y0, ts, ts, colFloor, false)
				vector.StrokeLine(screen, x0, y0, x0+ts, y0, 1.0, colFloorLight, false)
				vector.StrokeLine(screen, x0, y0+ts, x0+ts, y0+ts, 1.0, colFloorDark, false)
			case level.Spike:
				drawSpikes(screen, x0, y0, ts)
			}
		}
	}

	d := lvl.Door
	dx := ox + float32(d.Col)*ts + ts*0.2
	dy := oy + float32(d.Row)*ts + ts*0.1
	vector.FillRect(screen, dx, dy, ts*0.6, ts*0.9, colDoor, false)
	vector.StrokeRect(screen, dx, dy, ts*0.6, ts*0.9, 2.0, colDoorFrame, false)
	vector.FillCircle(screen, dx+ts*0.48, dy+ts*0.5, 2.5, colDoorFrame, true)
}

// drawSpikes draws three teeth resting on the bottom of the tile.
func drawSpikes(screen *ebiten.Image, x0, y0, ts float32) {
	var path vector.Path
	tooth := ts / 3
	base := y0 + ts
	for i := 0; i < 3; i++ {
		left := x0 + float32(i)*tooth
		path.MoveTo(left, base)
		path.LineTo(left+tooth/2, base-ts*0.55)
		path.LineTo(left+tooth, base)
		path.Close()
	}
	op := &vector.DrawPathOptions{AntiAlias: true}
	op.ColorScale.ScaleWithColor(colSpike)
	vector.FillPath(screen, &path, &vector.FillOptions{}, op)
}

func (g *Game) drawActors(screen *ebiten.Image) {
	ox, oy := float32(g.offX), float32(g.offY)
	name := g.sim.Session.Context().PlayerName
	for _, a := range g.sim.World.Snapshot() {
		x, y := ox+float32(a.X), oy+float32(a.Y)
		w, h := float32(a.W), float32(a.H)
		c := colEnemy
		if a.Kind == game.BodyPlayer.String() {
			c = colPlayer
		}
		vector.FillRect(screen, x, y, w, h, c, false)
		vector.StrokeRect(screen, x, y, w, h, 1.0, color.RGBA{A: 200}, false)
		// Eyes face the direction of travel well enough for flat sprites.
		vector.FillRect(screen, x+w*0.25, y+h*0.3, 4, 4, color.White, false)
		vector.FillRect(screen, x+w*0.6, y+h*0.3, 4, 4, color.White, false)
		if a.Kind == game.BodyPlayer.String() && name != "" {
			drawText(screen, g.face, name, float64(x+w/2), float64(y-16), 1, color.White, text.AlignCenter)
		}
	}
}

func (g *Game) drawHUD(screen *ebiten.Image, st game.State) {
	cx := float64(g.offX + g.worldPx/2)
	cy := float64(g.offY + g.worldPx/2)
	ctx := g.sim.Session.Context()

	seed := int64(0)
	if ctx.Level != nil {
		seed = ctx.Level.Seed
	}
	drawText(screen, g.face, fmt.Sprintf("Round %d  Seed %d  [C] copy  [Esc] menu", ctx.Round, seed),
		float64(g.offX), 4, 1, color.RGBA{R: 170, G: 160, B: 190, A: 255}, text.AlignStart)

	switch st.Phase {
	case game.PhaseCountdown:
		label := "GO!"
		if st.Count > 0 {
			label = fmt.Sprint(st.Count)
		}
		scale := 6 * float64(g.countPulse.Value())
		drawText(screen, g.face, label, cx, cy-6.5*scale, scale, color.RGBA{R: 250, G: 230, B: 120, A: 255}, text.AlignCenter)
	case game.PhaseRunning:
		c := color.RGBA{R: 240, G: 240, B: 240, A: 255}
		if st.Remaining <= 5 {
			c = color.RGBA{R: 240, G: 90, B: 80, A: 255}
		}
		drawText(screen, g.face, fmt.Sprintf("Time: %d", st.Remaining), float64(g.offX+g.worldPx-8), float64(g.offY+8), 2, c, text.AlignEnd)
	case game.PhaseWon, game.PhaseLost:
		g.drawBanner(screen, ctx, cx, cy)
	}

	if g.status != "" && g.frames < g.statusUntil {
		drawText(screen, g.face, g.status, cx, float64(g.offY+g.worldPx-24), 1, color.RGBA{R: 160, G: 220, B: 255, A: 255}, text.AlignCenter)
	}
}

func (g *Game) drawBanner(screen *ebiten.Image, ctx *game.SessionContext, cx, cy float64) {
	if ctx.Last == nil {
		return
	}
	alpha := g.bannerFade.Value()
	shade := color.RGBA{A: uint8(170 * alpha)}
	vector.FillRect(screen, float32(g.offX), float32(cy-90), float32(g.worldPx), 180, shade, false)

	head := color.RGBA{R: 240, G: 80, B: 70, A: 255}
	if ctx.Last.Outcome == game.PhaseWon {
		head = color.RGBA{R: 110, G: 230, B: 120, A: 255}
	}
	var cs ebiten.ColorScale
	cs.ScaleWithColor(head)
	cs.ScaleAlpha(alpha)
	drawTextScaled(screen, g.face, ctx.Last.Banner(), cx, cy-70, 4, cs)
	drawText(screen, g.face, fmt.Sprintf("Time: %d seconds", ctx.Last.Elapsed), cx, cy+4, 2, color.White, text.AlignCenter)
	drawText(screen, g.face, "Generating next level...", cx, cy+44, 1, color.RGBA{R: 180, G: 180, B: 190, A: 255}, text.AlignCenter)
}

func drawTextScaled(dst *ebiten.Image, face text.Face, s string, x, y, scale float64, cs ebiten.ColorScale) {
	op := &text.DrawOptions{}
	op.GeoM.Scale(scale, scale)
	op.GeoM.Translate(x, y)
	op.ColorScale = cs
	op.PrimaryAlign = text.AlignCenter
	text.Draw(dst, s, face, op)
}

func (g *Game) drawMenu(screen *ebiten.Image) {
	cx := float64(g.offX + g.worldPx/2)
	cy := float64(g.offY + g.worldPx/2)
	drawText(screen, g.face, "CATACOMB", cx, cy-140, 5, color.RGBA{R: 230, G: 190, B: 90, A: 255}, text.AlignCenter)
	drawText(screen, g.face, "Enter your name:", cx, cy-30, 2, color.White, text.AlignCenter)
	cursor := ""
	if (g.frames/30)%2 == 0 {
		cursor = "_"
	}
	drawText(screen, g.face, g.name.String()+cursor, cx, cy+10, 2, colPlayer, text.AlignCenter)
	drawText(screen, g.face, "Press Enter or tap to start", cx, cy+70, 1, color.RGBA{R: 170, G: 160, B: 190, A: 255}, text.AlignCenter)
	if g.status != "" && g.frames < g.statusUntil {
		drawText(screen, g.face, g.status, cx, cy+100, 1, colEnemy, text.AlignCenter)
	}
}

func (g *Game) drawTouchBar(screen *ebiten.Image) {
	for _, b := range g.touch.buttons {
		r := b.bounds
		x, y := float32(r.Min.X), float32(r.Min.Y)
		w, h := float32(r.Dx()), float32(r.Dy())
		vector.FillRect(screen, x, y, w, h, colButton, false)
		vector.StrokeRect(screen, x, y, w, h, 1.5, colButtonEdge, false)
		drawText(screen, g.face, b.label, float64(x+w/2), float64(y+h/2-13), 2, color.White, text.AlignCenter)
	}
}
