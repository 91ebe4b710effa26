package game

import (
	"fmt"
	"strings"
)

// SimLogEntry is one recorded event during a simulation.
type SimLogEntry struct {
	Tick     int
	Actor    string  // "P", "E3", or "--" for session-wide events
	Category string  // session, level, input, physics, patrol
	Key      string  // event name, e.g. "jump", "reverse", "transition"
	Value    string  // free text
	NumVal   float64 // seconds, speeds or counts, depending on Key
}

// String lays the entry out in fixed-width columns:
//
//	[T=0242] P    input     jump             grounded
func (e SimLogEntry) String() string {
	return fmt.Sprintf("[T=%04d] %-4s %-9s %-16s %s",
		e.Tick, e.Actor, e.Category, e.Key, e.Value)
}

// SimLog collects structured events during a simulation. Unlike the logrus
// output it is unbounded and machine-readable, so tests and the batch report
// can query it.
type SimLog struct {
	entries []SimLogEntry
	verbose bool
}

// NewSimLog returns an empty log. If verbose is true, per-tick entries (timer
// ticks, patrol speed clamps) are recorded too.
func NewSimLog(verbose bool) *SimLog {
	return &SimLog{verbose: verbose}
}

// Add appends an entry.
func (sl *SimLog) Add(tick int, actor, category, key, value string, numVal float64) {
	sl.entries = append(sl.entries, SimLogEntry{
		Tick:     tick,
		Actor:    actor,
		Category: category,
		Key:      key,
		Value:    value,
		NumVal:   numVal,
	})
}

// AddVerbose is Add for per-tick noise; dropped unless the log is verbose.
func (sl *SimLog) AddVerbose(tick int, actor, category, key, value string, numVal float64) {
	if !sl.verbose {
		return
	}
	sl.Add(tick, actor, category, key, value, numVal)
}

// Entries exposes the backing slice; callers must not retain it across Reset.
func (sl *SimLog) Entries() []SimLogEntry {
	return sl.entries
}

// Reset drops every entry.
func (sl *SimLog) Reset() {
	sl.entries = sl.entries[:0]
}

// match reports whether e carries category and key; empty strings are
// wildcards.
func (e SimLogEntry) match(category, key string) bool {
	return (category == "" || e.Category == category) && (key == "" || e.Key == key)
}

// Filter selects entries by category and key; "" matches anything.
func (sl *SimLog) Filter(category, key string) []SimLogEntry {
	var out []SimLogEntry
	for _, e := range sl.entries {
		if e.match(category, key) {
			out = append(out, e)
		}
	}
	return out
}

// Count is len(Filter(category, key)) without the allocation.
func (sl *SimLog) Count(category, key string) int {
	n := 0
	for _, e := range sl.entries {
		if e.match(category, key) {
			n++
		}
	}
	return n
}

// HasEntry is like Count > 0 but also requires Value to contain substr.
func (sl *SimLog) HasEntry(category, key, substr string) bool {
	for _, e := range sl.entries {
		if e.match(category, key) && strings.Contains(e.Value, substr) {
			return true
		}
	}
	return false
}

// Format renders every entry, one per line, for t.Log and -verbose output.
func (sl *SimLog) Format() string {
	var sb strings.Builder
	for _, e := range sl.entries {
		sb.WriteString(e.String())
		sb.WriteByte('\n')
	}
	return sb.String()
}

// Summary returns a short human-readable summary of the session at tick.
func (sl *SimLog) Summary(tick int, st State, ctx *SessionContext, w *World) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "--- Summary at T=%04d ---\n", tick)
	fmt.Fprintf(&sb, "State: %s  round=%d  player=%q\n", st, ctx.Round, ctx.PlayerName)
	if ctx.Level != nil {
		fmt.Fprintf(&sb, "Level: seed=%d attempts=%d enemies=%d path=%d cells\n",
			ctx.Level.Seed, ctx.Level.Attempts, len(ctx.Level.Enemies), len(ctx.Level.Path))
	}
	if w != nil {
		if p := w.Player(); p != nil {
			x, y := p.Pos()
			fmt.Fprintf(&sb, "Player: (%.1f, %.1f) grounded=%v\n", x, y, p.Grounded)
		} else {
			sb.WriteString("Player: removed\n")
		}
	}
	if ctx.Last != nil {
		r := ctx.Last
		fmt.Fprintf(&sb, "Last: %s by %s after %ds (round %d)\n", r.Outcome, r.Cause, r.Elapsed, r.Round)
	}
	fmt.Fprintf(&sb, "Jumps=%d  Reversals=%d  Transitions=%d\n",
		sl.Count("input", "jump"), sl.Count("patrol", "reverse"), sl.Count("session", "transition"))
	return sb.String()
}
