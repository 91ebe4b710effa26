// Package config loads the YAML configuration shared by every entry point.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/Garsondee/catacomb/internal/game"
	"github.com/Garsondee/catacomb/internal/level"
)

// Config is the whole tunable surface. Unset fields keep their defaults.
type Config struct {
	Level   level.Params       `yaml:"level"`
	Physics game.Physics       `yaml:"physics"`
	Session game.SessionConfig `yaml:"session"`
	Log     LogConfig          `yaml:"log"`
	Audio   AudioConfig        `yaml:"audio"`
	Server  ServerConfig       `yaml:"server"`
}

// LogConfig selects the logrus level and formatter.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // text or json
}

// AudioConfig controls the tone cues both frontends play.
type AudioConfig struct {
	Enabled    bool    `yaml:"enabled"`
	SampleRate int     `yaml:"sample_rate"`
	Volume     float64 `yaml:"volume"` // gain exponent, 0 is unity, negative is quieter
}

// ServerConfig controls the spectator server.
type ServerConfig struct {
	Addr          string `yaml:"addr"`
	FrameEvery    int    `yaml:"frame_every"`    // ticks between broadcast frames
	SendBuffer    int    `yaml:"send_buffer"`    // queued frames per spectator before drops
	MaxSpectators int    `yaml:"max_spectators"` // 0 means unlimited
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Level:   level.DefaultParams(),
		Physics: game.DefaultPhysics(),
		Session: game.DefaultSessionConfig(),
		Log:     LogConfig{Level: "info", Format: "text"},
		Audio:   AudioConfig{Enabled: true, SampleRate: 44100, Volume: -1},
		Server:  ServerConfig{Addr: ":8080", FrameEvery: 2, SendBuffer: 16},
	}
}

// ValidationError reports one bad field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("config: %s: %s", e.Field, e.Reason)
}

// Load reads path over the defaults. An empty path returns the defaults.
// Unknown keys are rejected so typos do not silently fall back.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := Decode(b, &cfg); err != nil {
		return cfg, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, cfg.Validate()
}

// Decode strictly unmarshals YAML into cfg, leaving absent fields untouched.
func Decode(b []byte, cfg *Config) error {
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// Marshal renders cfg as YAML, used by -print-config.
func (c Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}

// Validate checks every section.
func (c Config) Validate() error {
	if err := c.Level.Validate(); err != nil {
		return err
	}
	p := c.Physics
	switch {
	case p.Gravity <= 0:
		return &ValidationError{"physics.gravity", "must be positive"}
	case p.MaxFallSpeed <= 0:
		return &ValidationError{"physics.max_fall_speed", "must be positive"}
	case p.RunSpeed <= 0 || p.JumpVelocity <= 0 || p.EnemySpeed <= 0:
		return &ValidationError{"physics", "speeds must be positive"}
	case p.EnemyKick < 0:
		return &ValidationError{"physics.enemy_kick", "must not be negative"}
	case p.StallTimeout <= 0:
		return &ValidationError{"physics.stall_timeout", "must be positive"}
	case p.ActorSize <= 0 || p.ActorSize >= float64(c.Level.TileSize):
		return &ValidationError{"physics.actor_size", "must fit inside one tile"}
	case p.HazardSize <= 0 || p.HazardSize > float64(c.Level.TileSize):
		return &ValidationError{"physics.hazard_size", "must fit inside one tile"}
	case p.FallMargin < 0 || p.FallMargin >= float64(c.Level.TileSize):
		return &ValidationError{"physics.fall_margin", "must be within one tile of the bottom"}
	}
	s := c.Session
	switch {
	case s.CountdownFrom < 0:
		return &ValidationError{"session.countdown_from", "must not be negative"}
	case s.RoundSeconds <= 0:
		return &ValidationError{"session.round_seconds", "must be positive"}
	case s.Tick <= 0:
		return &ValidationError{"session.tick", "must be positive"}
	case s.TerminalDelay < 0:
		return &ValidationError{"session.terminal_delay", "must not be negative"}
	case strings.TrimSpace(s.DefaultName) == "":
		return &ValidationError{"session.default_name", "must not be blank"}
	}
	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		return &ValidationError{"log.level", err.Error()}
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		return &ValidationError{"log.format", "must be text or json"}
	}
	if c.Audio.SampleRate <= 0 {
		return &ValidationError{"audio.sample_rate", "must be positive"}
	}
	if c.Server.FrameEvery <= 0 || c.Server.SendBuffer <= 0 || c.Server.MaxSpectators < 0 {
		return &ValidationError{"server", "frame_every and send_buffer must be positive"}
	}
	return nil
}

// SimConfig extracts the simulation tuning.
func (c Config) SimConfig() game.SimConfig {
	return game.SimConfig{Level: c.Level, Physics: c.Physics, Session: c.Session}
}

// SetupLogging applies the log section to l.
func SetupLogging(l *log.Logger, c LogConfig) error {
	lvl, err := log.ParseLevel(c.Level)
	if err != nil {
		return &ValidationError{"log.level", err.Error()}
	}
	l.SetLevel(lvl)
	switch c.Format {
	case "json":
		l.SetFormatter(&log.JSONFormatter{})
	default:
		l.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}
	return nil
}
