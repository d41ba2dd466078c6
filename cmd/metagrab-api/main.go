package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"metagrab/internal/config"
	server "metagrab/internal/http"
	"metagrab/internal/services"
	"metagrab/internal/youtube"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "path to config file")
	debug := flag.Bool("debug", false, "enable debug logging")
	flag.Parse()

	cfg := config.Load(*configPath)

	level := slog.LevelInfo
	if *debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}))

	svc, err := services.NewMetadataServiceFromConfig(context.Background(), cfg, logger)
	if err != nil {
		log.Fatalf("metadata service init failed: %v", err)
	}

	if cfg.YouTube.Strategy == youtube.StrategyAPI && cfg.YouTube.APIKey == "" {
		logger.Warn("YouTube API key not configured; YouTube Shorts requests will fail until YOUTUBE_API_KEY is set")
	}

	s := server.NewServer(cfg, svc, logger)

	go func() {
		sigs := make(chan os.Signal, 1)
		signal.Notify(sigs, os.Interrupt, syscall.SIGTERM)
		<-sigs

		logger.Info("shutting down")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := s.Shutdown(ctx); err != nil {
			logger.Error("shutdown failed", "error", err)
		}
	}()

	if err := s.Listen(); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}
