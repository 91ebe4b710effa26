package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/Garsondee/catacomb/internal/config"
	"github.com/Garsondee/catacomb/internal/spectate"
)

func main() {
	configPath := flag.String("config", "", "YAML config file")
	addr := flag.String("addr", "", "listen address (overrides config)")
	name := flag.String("name", "Bot", "name shown for the bot player")
	printConfig := flag.Bool("print-config", false, "print the effective config as YAML and exit")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal(err)
	}
	if *addr != "" {
		cfg.Server.Addr = *addr
	}
	if port := os.Getenv("PORT"); port != "" && *addr == "" {
		cfg.Server.Addr = ":" + port
	}
	if *printConfig {
		b, err := cfg.Marshal()
		if err != nil {
			log.Fatal(err)
		}
		os.Stdout.Write(b)
		return
	}
	if err := config.SetupLogging(log.StandardLogger(), cfg.Log); err != nil {
		log.Fatal(err)
	}

	hub := spectate.NewHub(cfg.Server.SendBuffer, cfg.Server.MaxSpectators, log.StandardLogger())
	runner, err := spectate.NewRunner(cfg.SimConfig(), *name, cfg.Server.FrameEvery, hub, log.StandardLogger())
	if err != nil {
		log.Fatal(err)
	}
	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           spectate.NewServer(hub, runner, cfg.Level, log.StandardLogger()),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return runner.Run(ctx)
	})
	g.Go(func() error {
		log.WithFields(log.Fields{"addr": cfg.Server.Addr, "run": runner.RunID()}).Info("spectator server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		hub.Close()
		shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdown)
	})
	if err := g.Wait(); err != nil {
		log.Fatal(err)
	}
	log.Info("spectator server stopped")
}
