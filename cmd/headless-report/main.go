package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/Garsondee/catacomb/internal/config"
	"github.com/Garsondee/catacomb/internal/game"
	"github.com/Garsondee/catacomb/internal/level"
)

// levelStat describes one generated level.
type levelStat struct {
	seed     int64
	attempts int
	pathLen  int
	enemies  int
	floor    int
	spikes   int
	failed   string // failure stage, empty on success
}

type levelAggregate struct {
	count       int
	failures    map[string]int
	avgAttempts float64
	maxAttempts int
	avgPath     float64
	avgEnemies  float64
	avgFloor    float64
	avgSpikes   float64
}

// runStats summarises one bot session.
type runStats struct {
	runIndex int
	seed     int64

	rounds       int
	wins         int
	causes       map[string]int
	elapsedSum   int
	firstWinTick int
	jumps        int
	reversals    int
	generated    int
}

func main() {
	var (
		runs       int
		ticks      int
		levels     int
		seedBase   int64
		seedStep   int64
		configPath string
	)
	flag.IntVar(&runs, "runs", 5, "number of bot sessions")
	flag.IntVar(&ticks, "ticks", 3600, "ticks per session (60 per second)")
	flag.IntVar(&levels, "levels", 200, "levels to generate for the generator report")
	flag.Int64Var(&seedBase, "seed-base", 42, "seed for run 1 and level 1")
	flag.Int64Var(&seedStep, "seed-step", 1, "seed increment between runs and levels")
	flag.StringVar(&configPath, "config", "", "YAML config file")
	flag.Parse()

	if runs < 0 || levels < 0 || ticks <= 0 {
		fmt.Println("error: -runs and -levels must be >= 0, -ticks must be > 0")
		os.Exit(2)
	}
	if seedBase == 0 {
		fmt.Println("error: -seed-base must be non-zero so the report replays")
		os.Exit(2)
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Printf("error: %v\n", err)
		os.Exit(1)
	}
	if err := config.SetupLogging(log.StandardLogger(), cfg.Log); err != nil {
		fmt.Printf("error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("=== Headless Catacomb Report ===\n")
	fmt.Printf("runs=%d ticks=%d levels=%d seed_base=%d seed_step=%d size=%d floor=%.2f spike=%.2f\n\n",
		runs, ticks, levels, seedBase, seedStep, cfg.Level.Size, cfg.Level.FloorProbability, cfg.Level.SpikeProbability)

	stats := make([]levelStat, 0, levels)
	for i := 0; i < levels; i++ {
		stats = append(stats, generateLevel(cfg.Level, seedBase+int64(i)*seedStep))
	}
	if levels > 0 {
		printLevels(summariseLevels(stats))
	}

	all := make([]runStats, 0, runs)
	for i := 0; i < runs; i++ {
		rs := runSession(cfg.SimConfig(), i+1, seedBase+int64(i)*seedStep, ticks)
		all = append(all, rs)
		printRun(rs)
	}
	if runs > 0 {
		printAggregate(all)
	}
}

func generateLevel(p level.Params, seed int64) levelStat {
	st := levelStat{seed: seed}
	lvl, err := level.GenerateSeeded(p, seed)
	if err != nil {
		var gf *level.GenerationFailed
		if errors.As(err, &gf) {
			st.failed = gf.Stage
		} else {
			st.failed = "invalid"
		}
		return st
	}
	st.attempts = lvl.Attempts
	st.pathLen = len(lvl.Path)
	st.enemies = len(lvl.Enemies)
	st.floor = lvl.Grid.Count(level.Floor)
	st.spikes = lvl.Grid.Count(level.Spike)
	return st
}

func summariseLevels(stats []levelStat) levelAggregate {
	agg := levelAggregate{count: len(stats), failures: map[string]int{}}
	var attempts, path, enemies, floor, spikes, ok int
	for _, s := range stats {
		if s.failed != "" {
			agg.failures[s.failed]++
			continue
		}
		ok++
		attempts += s.attempts
		path += s.pathLen
		enemies += s.enemies
		floor += s.floor
		spikes += s.spikes
		if s.attempts > agg.maxAttempts {
			agg.maxAttempts = s.attempts
		}
	}
	agg.avgAttempts = avg(attempts, ok)
	agg.avgPath = avg(path, ok)
	agg.avgEnemies = avg(enemies, ok)
	agg.avgFloor = avg(floor, ok)
	agg.avgSpikes = avg(spikes, ok)
	return agg
}

func printLevels(agg levelAggregate) {
	fmt.Printf("--- Generator (%d levels) ---\n", agg.count)
	fmt.Printf("attempts: avg=%.2f max=%d\n", agg.avgAttempts, agg.maxAttempts)
	fmt.Printf("layout_avg: path=%.1f enemies=%.1f floor=%.1f spikes=%.1f\n",
		agg.avgPath, agg.avgEnemies, agg.avgFloor, agg.avgSpikes)
	fmt.Printf("failures: %s\n\n", formatTally(agg.failures))
}

func runSession(cfg game.SimConfig, runIndex int, seed int64, ticks int) runStats {
	h := game.NewHeadless(
		game.WithConfig(cfg),
		game.WithSeed(seed),
		game.WithBot(),
		game.WithName("Bot"),
	)
	if err := h.StartErr(); err != nil {
		log.WithError(err).WithField("run", runIndex).Error("session did not start")
		return runStats{runIndex: runIndex, seed: seed, firstWinTick: -1, causes: map[string]int{}}
	}
	h.RunTicks(ticks)
	rs := collectRun(h.SimLog.Entries())
	rs.runIndex = runIndex
	rs.seed = seed
	return rs
}

// collectRun tallies a session's SimLog.
func collectRun(entries []game.SimLogEntry) runStats {
	rs := runStats{causes: map[string]int{}, firstWinTick: -1}
	for _, e := range entries {
		switch {
		case e.Category == "session" && e.Key == "result":
			outcome, cause, elapsed, ok := parseResult(e.Value)
			if !ok {
				continue
			}
			rs.rounds++
			rs.elapsedSum += elapsed
			rs.causes[cause]++
			if outcome == "won" {
				rs.wins++
				if rs.firstWinTick < 0 {
					rs.firstWinTick = e.Tick
				}
			}
		case e.Category == "input" && e.Key == "jump":
			rs.jumps++
		case e.Category == "patrol" && e.Key == "reverse":
			rs.reversals++
		case e.Category == "level" && e.Key == "generated":
			rs.generated++
		}
	}
	return rs
}

// parseResult splits a "won door 12s" result entry.
func parseResult(v string) (outcome, cause string, elapsed int, ok bool) {
	parts := strings.Fields(v)
	if len(parts) != 3 || !strings.HasSuffix(parts[2], "s") {
		return "", "", 0, false
	}
	n, err := strconv.Atoi(strings.TrimSuffix(parts[2], "s"))
	if err != nil {
		return "", "", 0, false
	}
	return parts[0], parts[1], n, true
}

func printRun(rs runStats) {
	fmt.Printf("--- Run %d (seed=%d) ---\n", rs.runIndex, rs.seed)
	fmt.Printf("rounds=%d wins=%d levels_generated=%d first_win_tick=%d\n", rs.rounds, rs.wins, rs.generated, rs.firstWinTick)
	fmt.Printf("events: jumps=%d patrol_reversals=%d avg_round_seconds=%.1f\n", rs.jumps, rs.reversals, avg(rs.elapsedSum, rs.rounds))
	fmt.Printf("causes: %s\n\n", formatTally(rs.causes))
}

func printAggregate(all []runStats) {
	rounds, wins, jumps, reversals, elapsed := 0, 0, 0, 0, 0
	causes := map[string]int{}
	winTicks := make([]int, 0, len(all))
	for _, rs := range all {
		rounds += rs.rounds
		wins += rs.wins
		jumps += rs.jumps
		reversals += rs.reversals
		elapsed += rs.elapsedSum
		for k, v := range rs.causes {
			causes[k] += v
		}
		if rs.firstWinTick >= 0 {
			winTicks = append(winTicks, rs.firstWinTick)
		}
	}
	fmt.Printf("=== Aggregate (%d runs) ===\n", len(all))
	fmt.Printf("rounds=%d wins=%d win_rate=%.1f%%\n", rounds, wins, 100*avg(wins, rounds))
	fmt.Printf("per_run_avg: jumps=%.1f patrol_reversals=%.1f\n", avg(jumps, len(all)), avg(reversals, len(all)))
	fmt.Printf("avg_round_seconds=%.1f avg_first_win_tick=%s\n", avg(elapsed, rounds), avgTickString(winTicks))
	fmt.Printf("causes: %s\n", formatTally(causes))
}

func avg(sum int, n int) float64 {
	if n <= 0 {
		return 0
	}
	return float64(sum) / float64(n)
}

func avgTickString(vals []int) string {
	if len(vals) == 0 {
		return "n/a"
	}
	sum := 0
	for _, v := range vals {
		sum += v
	}
	return fmt.Sprintf("%.1f", float64(sum)/float64(len(vals)))
}

// formatTally renders counts as "a=1,b=2" in key order.
func formatTally(m map[string]int) string {
	if len(m) == 0 {
		return "none"
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%d", k, m[k]))
	}
	return strings.Join(parts, ",")
}
