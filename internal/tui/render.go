package tui

import (
	"fmt"

	"github.com/gdamore/tcell/v2"

	"github.com/Garsondee/catacomb/internal/game"
	"github.com/Garsondee/catacomb/internal/level"
)

// canvas is the part of tcell.Screen the renderer draws through.
type canvas interface {
	SetContent(x, y int, primary rune, combining []rune, style tcell.Style)
}

// cellWidth is how many terminal columns one grid cell takes, which keeps
// tiles roughly square.
const cellWidth = 2

var (
	styleText   = tcell.StyleDefault
	styleDim    = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleFloor  = tcell.StyleDefault.Foreground(tcell.ColorSilver).Background(tcell.ColorDarkSlateGray)
	styleSpike  = tcell.StyleDefault.Foreground(tcell.ColorWhite)
	styleDoor   = tcell.StyleDefault.Foreground(tcell.ColorGold)
	stylePlayer = tcell.StyleDefault.Foreground(tcell.ColorGreen).Bold(true)
	styleEnemy  = tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true)
	styleAlert  = tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
)

func drawString(c canvas, x, y int, s string, style tcell.Style) {
	for _, r := range s {
		c.SetContent(x, y, r, nil, style)
		x++
	}
}

func drawCentered(c canvas, width, y int, s string, style tcell.Style) {
	x := (width - len([]rune(s))) / 2
	if x < 0 {
		x = 0
	}
	drawString(c, x, y, s, style)
}

func drawCell(c canvas, col, row int, glyph string, style tcell.Style) {
	drawString(c, col*cellWidth, row+1, glyph, style)
}

// Render draws one frame: a status line, then the grid with actors on top.
// name is the text typed so far while in the menu.
func Render(c canvas, f game.Frame, lvl *level.Level, name string) {
	if f.State.Phase == game.PhaseMenu {
		renderMenu(c, name)
		return
	}
	size := 0
	if lvl != nil {
		size = lvl.Grid.Size
	}
	width := size * cellWidth
	drawString(c, 0, 0, statusLine(f), styleText)
	if lvl == nil {
		return
	}

	for row := 0; row < size; row++ {
		for col := 0; col < size; col++ {
			switch lvl.Grid.At(col, row) {
			case level.Floor:
				drawCell(c, col, row, "##", styleFloor)
			case level.Spike:
				drawCell(c, col, row, "^^", styleSpike)
			default:
				drawCell(c, col, row, "  ", styleText)
			}
		}
	}
	drawCell(c, lvl.Door.Col, lvl.Door.Row, "[]", styleDoor)

	ts := float64(lvl.TileSize)
	for i := len(f.Actors) - 1; i >= 0; i-- {
		a := f.Actors[i]
		col := int((a.X + a.W/2) / ts)
		row := int((a.Y + a.H/2) / ts)
		if col < 0 || col >= size || row < 0 || row >= size {
			continue
		}
		if a.Kind == game.BodyPlayer.String() {
			drawCell(c, col, row, "@@", stylePlayer)
		} else {
			drawCell(c, col, row, "&&", styleEnemy)
		}
	}

	mid := size / 2
	switch f.State.Phase {
	case game.PhaseCountdown:
		label := "GO!"
		if f.State.Count > 0 {
			label = fmt.Sprint(f.State.Count)
		}
		drawCentered(c, width, mid+1, " "+label+" ", styleAlert)
	case game.PhaseWon, game.PhaseLost:
		if f.Last != nil {
			drawCentered(c, width, mid, " "+f.Last.Banner()+" ", styleAlert)
			drawCentered(c, width, mid+1, fmt.Sprintf(" Time: %d seconds ", f.Last.Elapsed), styleText)
			drawCentered(c, width, mid+2, " Generating next level... ", styleDim)
		}
	}
	drawString(c, 0, size+1, "arrows/WASD move, space jump, esc menu, ctrl-c quit", styleDim)
}

func statusLine(f game.Frame) string {
	s := fmt.Sprintf("%-16s round %-3d seed %d", f.PlayerName, f.Round, f.Seed)
	if f.State.Phase == game.PhaseRunning {
		s += fmt.Sprintf("  Time: %d", f.State.Remaining)
	}
	return s
}

func renderMenu(c canvas, name string) {
	drawString(c, 2, 1, "CATACOMB", styleDoor)
	drawString(c, 2, 3, "Enter your name: "+name+"_", styleText)
	drawString(c, 2, 5, "Enter to start, ctrl-c to quit", styleDim)
}
