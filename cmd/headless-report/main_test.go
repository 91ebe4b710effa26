package main

import (
	"testing"

	"github.com/Garsondee/catacomb/internal/game"
	"github.com/Garsondee/catacomb/internal/level"
)

func TestParseResult(t *testing.T) {
	outcome, cause, elapsed, ok := parseResult("won door 12s")
	if !ok || outcome != "won" || cause != "door" || elapsed != 12 {
		t.Fatalf("unexpected parse %q %q %d %v", outcome, cause, elapsed, ok)
	}
	for _, bad := range []string{"", "won door", "won door 12", "won door xs"} {
		if _, _, _, ok := parseResult(bad); ok {
			t.Fatalf("expected %q to be rejected", bad)
		}
	}
}

func TestCollectRun_TalliesEntries(t *testing.T) {
	entries := []game.SimLogEntry{
		{Tick: 1, Category: "level", Key: "generated"},
		{Tick: 200, Category: "input", Key: "jump"},
		{Tick: 250, Category: "patrol", Key: "reverse"},
		{Tick: 300, Category: "session", Key: "result", Value: "lost spike 3s"},
		{Tick: 480, Category: "level", Key: "generated"},
		{Tick: 900, Category: "session", Key: "result", Value: "won door 4s"},
		{Tick: 1500, Category: "session", Key: "result", Value: "won door 6s"},
		{Tick: 1600, Category: "session", Key: "transition", Value: "won -> countdown(3)"},
	}
	rs := collectRun(entries)
	if rs.rounds != 3 || rs.wins != 2 {
		t.Fatalf("expected 3 rounds and 2 wins, got %d and %d", rs.rounds, rs.wins)
	}
	if rs.firstWinTick != 900 {
		t.Fatalf("expected first win at 900, got %d", rs.firstWinTick)
	}
	if rs.causes["door"] != 2 || rs.causes["spike"] != 1 {
		t.Fatalf("unexpected causes %v", rs.causes)
	}
	if rs.elapsedSum != 13 || rs.jumps != 1 || rs.reversals != 1 || rs.generated != 2 {
		t.Fatalf("unexpected totals %+v", rs)
	}
}

func TestCollectRun_NoWins(t *testing.T) {
	rs := collectRun(nil)
	if rs.firstWinTick != -1 || rs.rounds != 0 {
		t.Fatalf("expected empty stats, got %+v", rs)
	}
}

func TestSummariseLevels(t *testing.T) {
	stats := []levelStat{
		{attempts: 1, pathLen: 4, enemies: 3, floor: 60, spikes: 10},
		{attempts: 5, pathLen: 8, enemies: 5, floor: 70, spikes: 12},
		{failed: level.StageReachability},
	}
	agg := summariseLevels(stats)
	if agg.count != 3 || agg.failures[level.StageReachability] != 1 {
		t.Fatalf("unexpected counts %+v", agg)
	}
	if agg.avgAttempts != 3 || agg.maxAttempts != 5 || agg.avgPath != 6 || agg.avgEnemies != 4 {
		t.Fatalf("unexpected averages %+v", agg)
	}
}

func TestGenerateLevel_DefaultSeed(t *testing.T) {
	st := generateLevel(level.DefaultParams(), 42)
	if st.failed != "" || st.attempts < 1 || st.pathLen < 1 {
		t.Fatalf("expected a solvable level, got %+v", st)
	}
	bad := level.DefaultParams()
	bad.FloorProbability = 0
	if st := generateLevel(bad, 42); st.failed != "invalid" {
		t.Fatalf("expected invalid params to be reported, got %+v", st)
	}
}

func TestFormatTally(t *testing.T) {
	if got := formatTally(map[string]int{"spike": 2, "door": 1}); got != "door=1,spike=2" {
		t.Fatalf("expected sorted tally, got %q", got)
	}
	if got := formatTally(nil); got != "none" {
		t.Fatalf("expected none, got %q", got)
	}
}

func TestAvgHelpers(t *testing.T) {
	if avg(10, 0) != 0 || avg(9, 3) != 3 {
		t.Fatal("unexpected avg")
	}
	if avgTickString(nil) != "n/a" || avgTickString([]int{10, 20}) != "15.0" {
		t.Fatal("unexpected avgTickString")
	}
}
