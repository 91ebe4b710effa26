package main

import (
	"flag"

	"github.com/hajimehoshi/ebiten/v2"
	log "github.com/sirupsen/logrus"

	"github.com/Garsondee/catacomb/internal/audio"
	"github.com/Garsondee/catacomb/internal/config"
	"github.com/Garsondee/catacomb/internal/gui"
)

func main() {
	configPath := flag.String("config", "", "YAML config file")
	seed := flag.Int64("seed", 0, "fixed level seed (0 = random every round)")
	name := flag.String("name", "", "skip name entry and start as this player")
	mute := flag.Bool("mute", false, "disable sound cues")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal(err)
	}
	if *seed != 0 {
		cfg.Session.Seed = *seed
	}
	if err := config.SetupLogging(log.StandardLogger(), cfg.Log); err != nil {
		log.Fatal(err)
	}

	var cues audio.Player = audio.Mute{}
	if cfg.Audio.Enabled && !*mute {
		c := audio.NewCues(cfg.Audio.SampleRate, cfg.Audio.Volume, log.StandardLogger())
		if err := c.Init(); err != nil {
			log.WithError(err).Warn("audio unavailable, continuing muted")
		} else {
			defer c.Close()
			cues = c
		}
	}

	g := gui.New(cfg.SimConfig(), log.StandardLogger(), cues)
	if *name != "" {
		if err := g.StartAs(*name); err != nil {
			log.WithError(err).Warn("could not start round, showing menu")
		}
	}
	w, h := g.Size()
	ebiten.SetWindowTitle("Catacomb")
	ebiten.SetWindowSize(w, h)
	ebiten.SetTPS(60)
	if err := ebiten.RunGame(g); err != nil {
		log.Fatal(err)
	}
}
