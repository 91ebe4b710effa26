package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/gdamore/tcell/v2"
	log "github.com/sirupsen/logrus"

	"github.com/Garsondee/catacomb/internal/audio"
	"github.com/Garsondee/catacomb/internal/config"
	"github.com/Garsondee/catacomb/internal/tui"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "", "YAML config file")
	seed := flag.Int64("seed", 0, "fixed level seed (0 = random every round)")
	logPath := flag.String("log", "", "write logs to this file (the terminal is taken by the game)")
	mute := flag.Bool("mute", false, "disable sound cues")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	if *seed != 0 {
		cfg.Session.Seed = *seed
	}
	logger := log.New()
	if err := config.SetupLogging(logger, cfg.Log); err != nil {
		return err
	}
	logger.SetOutput(io.Discard)
	if *logPath != "" {
		f, err := os.OpenFile(*logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return err
		}
		defer f.Close()
		logger.SetOutput(f)
	}

	var cues audio.Player = audio.Mute{}
	if cfg.Audio.Enabled && !*mute {
		c := audio.NewCues(cfg.Audio.SampleRate, cfg.Audio.Volume, logger)
		if err := c.Init(); err != nil {
			logger.WithError(err).Warn("audio unavailable, continuing muted")
		} else {
			defer c.Close()
			cues = c
		}
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	defer screen.Fini()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return tui.NewApp(screen, cfg.SimConfig(), logger, cues).Run(ctx)
}
