package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"StaffRankService/internal/config"
	"StaffRankService/internal/graceful"
	"StaffRankService/internal/repositories"
	"StaffRankService/internal/scoring"
	"StaffRankService/internal/server"
	"StaffRankService/internal/telegram"
	"StaffRankService/internal/utils/logger/handlers/slogpretty"
	"StaffRankService/internal/utils/logger/sl"
)

const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"
)

var Version = "0.1"

func main() {
	cfg := config.MustLoad()

	log := setupLogger(cfg.Env)

	log.Info(
		"starting staff performance service",
		slog.String("env", cfg.Env),
		slog.String("version", Version),
	)

	repositoryService := repositories.New(log, cfg)
	scoringService := scoring.New(log, repositoryService)
	httpServer := server.New(log, cfg, scoringService, repositoryService)

	shutdownOps := map[string]graceful.Operation{
		"Repository service": func(ctx context.Context) error {
			return repositoryService.Shutdown(ctx)
		},
		"HTTP server": func(ctx context.Context) error {
			return httpServer.Shutdown(ctx)
		},
	}

	var digestBot *telegram.Bot
	if cfg.BotConfig.Enabled {
		digestBot = telegram.New(log, cfg, scoringService)
		if digestBot != nil {
			shutdownOps["Telegram bot"] = func(ctx context.Context) error {
				return digestBot.Shutdown(ctx)
			}
		}
	}

	maxSecond := 15 * time.Second
	waitShutdown := graceful.Shutdown(
		context.Background(),
		maxSecond,
		shutdownOps,
		log,
	)

	go func() {
		if err := httpServer.Start(); err != nil {
			log.Error("http server stopped", sl.Err(err))
		}
	}()
	if digestBot != nil {
		go digestBot.Start()
	}

	<-waitShutdown
}

func setupLogger(env string) *slog.Logger {
	var log *slog.Logger

	switch env {
	case envLocal:
		log = setupPrettySlog(slog.LevelDebug)
	case envDev:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}),
		)
	case envProd:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
		)
	default:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
		)
	}

	return log
}

func setupPrettySlog(level slog.Level) *slog.Logger {
	opts := slogpretty.PrettyHandlerOptions{
		SlogOpts: &slog.HandlerOptions{
			Level: level,
		},
	}
	handler := opts.NewPrettyHandler(os.Stdout)
	return slog.New(handler)
}
