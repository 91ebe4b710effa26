package gui

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

const (
	feedPanelWidth = 280
	feedMaxEntries = 60
	feedLineHeight = 15
)

// FeedEntry is a single line in the event feed.
type FeedEntry struct {
	Tick     int
	Label    string // "P", "E3", "--"
	Category string
	Message  string
}

// EventFeed is a ring buffer of recent simulation events rendered beside the
// playfield.
type EventFeed struct {
	entries []FeedEntry
	head    int
	count   int
}

// NewEventFeed creates a feed with a fixed capacity.
func NewEventFeed() *EventFeed {
	return &EventFeed{entries: make([]FeedEntry, feedMaxEntries)}
}

// Add appends an entry, overwriting the oldest once full.
func (f *EventFeed) Add(tick int, label, category, msg string) {
	f.entries[f.head] = FeedEntry{Tick: tick, Label: label, Category: category, Message: msg}
	f.head = (f.head + 1) % feedMaxEntries
	if f.count < feedMaxEntries {
		f.count++
	}
}

// Recent returns entries oldest first.
func (f *EventFeed) Recent() []FeedEntry {
	out := make([]FeedEntry, f.count)
	for i := 0; i < f.count; i++ {
		idx := (f.head - f.count + i + feedMaxEntries) % feedMaxEntries
		out[i] = f.entries[idx]
	}
	return out
}

// Len is the number of entries held.
func (f *EventFeed) Len() int { return f.count }

func categoryColor(cat string) color.RGBA {
	switch cat {
	case "session":
		return color.RGBA{R: 220, G: 200, B: 90, A: 255}
	case "physics":
		return color.RGBA{R: 210, G: 80, B: 70, A: 255}
	case "patrol":
		return color.RGBA{R: 200, G: 110, B: 200, A: 255}
	case "level":
		return color.RGBA{R: 90, G: 170, B: 220, A: 255}
	default:
		return color.RGBA{R: 120, G: 200, B: 120, A: 255}
	}
}

// Draw renders the feed panel at panelX, newest entry at the bottom.
func (f *EventFeed) Draw(screen *ebiten.Image, face text.Face, panelX, panelH int) {
	px := float32(panelX)
	vector.FillRect(screen, px, 0, feedPanelWidth, float32(panelH), color.RGBA{R: 12, G: 10, B: 14, A: 248}, false)
	vector.StrokeLine(screen, px, 0, px, float32(panelH), 1.0, color.RGBA{R: 70, G: 55, B: 80, A: 255}, false)
	vector.FillRect(screen, px, 0, feedPanelWidth, 18, color.RGBA{R: 28, G: 22, B: 34, A: 255}, false)
	drawText(screen, face, "EVENTS", float64(panelX+8), 3, 1, color.White, text.AlignStart)

	entries := f.Recent()
	maxVisible := (panelH - 26) / feedLineHeight
	if len(entries) > maxVisible {
		entries = entries[len(entries)-maxVisible:]
	}
	y := 24
	for i, e := range entries {
		if i >= len(entries)-3 {
			vector.FillRect(screen, px+2, float32(y), feedPanelWidth-4, feedLineHeight, color.RGBA{R: 36, G: 30, B: 44, A: 160}, false)
		}
		vector.FillRect(screen, px+5, float32(y+4), 3, 6, categoryColor(e.Category), false)
		line := fmt.Sprintf("%5d %-2s %s", e.Tick, e.Label, e.Message)
		drawText(screen, face, line, float64(panelX+12), float64(y+1), 1, color.RGBA{R: 210, G: 210, B: 210, A: 255}, text.AlignStart)
		y += feedLineHeight
	}
}
