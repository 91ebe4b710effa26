package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/Garsondee/catacomb/internal/level"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "catacomb.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefault_Validates(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("expected defaults to validate, got %v", err)
	}
}

func TestLoad_EmptyPathReturnsDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Level != level.DefaultParams() {
		t.Fatal("expected default level params")
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected not-exist error, got %v", err)
	}
}

func TestLoad_OverridesMergeWithDefaults(t *testing.T) {
	path := writeConfig(t, `
level:
  size: 12
  floor_probability: 0.4
  reach:
    gap: 2
physics:
  stall_timeout: 1500ms
session:
  seed: 42
  round_seconds: 45
log:
  format: json
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Level.Size != 12 || cfg.Level.FloorProbability != 0.4 {
		t.Fatalf("level overrides not applied: %+v", cfg.Level)
	}
	if cfg.Level.Reach.Gap != 2 || cfg.Level.Reach.Rise != 1 {
		t.Fatalf("expected gap 2 with default rise, got %+v", cfg.Level.Reach)
	}
	if cfg.Level.TileSize != 48 || cfg.Level.SpikeProbability != 0.2 {
		t.Fatal("unset level fields should keep defaults")
	}
	if cfg.Physics.StallTimeout != 1500*time.Millisecond {
		t.Fatalf("expected 1.5s stall timeout, got %v", cfg.Physics.StallTimeout)
	}
	if cfg.Session.Seed != 42 || cfg.Session.RoundSeconds != 45 || cfg.Session.CountdownFrom != 3 {
		t.Fatalf("unexpected session section %+v", cfg.Session)
	}
	if cfg.Log.Format != "json" || cfg.Log.Level != "info" {
		t.Fatalf("unexpected log section %+v", cfg.Log)
	}
	sc := cfg.SimConfig()
	if sc.Level.Size != 12 || sc.Session.Seed != 42 {
		t.Fatal("SimConfig should carry the loaded values")
	}
}

func TestLoad_EmptyFileIsDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, ""))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Session != Default().Session {
		t.Fatal("empty file should leave defaults")
	}
}

func TestLoad_RejectsUnknownKeys(t *testing.T) {
	_, err := Load(writeConfig(t, "level:\n  sise: 10\n"))
	if err == nil || !strings.Contains(err.Error(), "sise") {
		t.Fatalf("expected unknown field error, got %v", err)
	}
}

func TestLoad_RejectsInvalidValues(t *testing.T) {
	_, err := Load(writeConfig(t, "level:\n  floor_probability: 0\n"))
	if err == nil {
		t.Fatal("expected zero floor probability to be rejected")
	}
	_, err = Load(writeConfig(t, "session:\n  round_seconds: 0\n"))
	var ve *ValidationError
	if !errors.As(err, &ve) || ve.Field != "session.round_seconds" {
		t.Fatalf("expected round_seconds validation error, got %v", err)
	}
}

func TestValidate_Table(t *testing.T) {
	cases := map[string]func(*Config){
		"gravity":      func(c *Config) { c.Physics.Gravity = 0 },
		"actor size":   func(c *Config) { c.Physics.ActorSize = 48 },
		"stall":        func(c *Config) { c.Physics.StallTimeout = 0 },
		"blank name":   func(c *Config) { c.Session.DefaultName = "  " },
		"log level":    func(c *Config) { c.Log.Level = "loud" },
		"log format":   func(c *Config) { c.Log.Format = "xml" },
		"sample rate":  func(c *Config) { c.Audio.SampleRate = 0 },
		"frame every":  func(c *Config) { c.Server.FrameEvery = 0 },
		"enemy range":  func(c *Config) { c.Level.EnemyMin = 9 },
		"negative tick": func(c *Config) { c.Session.Tick = -time.Second },
	}
	for name, mutate := range cases {
		cfg := Default()
		mutate(&cfg)
		if err := cfg.Validate(); err == nil {
			t.Fatalf("%s: expected validation error", name)
		}
	}
}

func TestMarshal_RoundTripsThroughDecode(t *testing.T) {
	cfg := Default()
	cfg.Session.Seed = 7
	cfg.Physics.StallTimeout = 2 * time.Second
	b, err := cfg.Marshal()
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(b), "stall_timeout: 2s") {
		t.Fatalf("expected durations rendered as strings, got\n%s", b)
	}
	var back Config
	if err := Decode(b, &back); err != nil {
		t.Fatal(err)
	}
	if back != cfg {
		t.Fatalf("expected %+v, got %+v", cfg, back)
	}
}

func TestSetupLogging(t *testing.T) {
	l := log.New()
	if err := SetupLogging(l, LogConfig{Level: "debug", Format: "json"}); err != nil {
		t.Fatal(err)
	}
	if l.GetLevel() != log.DebugLevel {
		t.Fatalf("expected debug level, got %s", l.GetLevel())
	}
	if _, ok := l.Formatter.(*log.JSONFormatter); !ok {
		t.Fatalf("expected JSON formatter, got %T", l.Formatter)
	}
	if err := SetupLogging(l, LogConfig{Level: "nope"}); err == nil {
		t.Fatal("expected bad level to fail")
	}
}
