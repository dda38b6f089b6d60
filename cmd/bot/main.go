// Package main is the entry point for the game bot.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"gamebot/internal/bot"
	"gamebot/internal/config"
	"gamebot/internal/pkg/db"
	"gamebot/internal/pkg/lock"
	"gamebot/internal/repository"
	"gamebot/internal/service"
)

func main() {
	// Configure zerolog
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	// Optional .env for local development; real deployments set the
	// environment directly.
	if err := godotenv.Load(); err != nil {
		log.Debug().Err(err).Msg("No .env file loaded")
	}

	cfg, err := config.Load("config")
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	log.Info().Msg("Configuration loaded successfully")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	dbPool, err := db.NewPool(ctx, &cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer dbPool.Close()

	if err := repository.Migrate(ctx, dbPool.Pool); err != nil {
		log.Fatal().Err(err).Msg("Failed to run database migrations")
	}

	userRepo := repository.NewUserRepository(dbPool.Pool)
	ledgerRepo := repository.NewLedgerRepository(dbPool.Pool)

	userLock := lock.NewUserLock()
	rng := service.NewRand()

	accountService := service.NewAccountService(userRepo, ledgerRepo, userLock, rng, service.DailyConfig{
		RewardMin: cfg.Daily.RewardMin,
		RewardMax: cfg.Daily.RewardMax,
		Cooldown:  time.Duration(cfg.Daily.CooldownHours) * time.Hour,
	})
	gameService := service.NewGameService(userRepo, ledgerRepo, userLock, rng)
	transferService := service.NewTransferService(userRepo, ledgerRepo, userLock)
	convertService := service.NewConvertService(userRepo, ledgerRepo, userLock)
	shopService := service.NewShopService(userRepo, ledgerRepo, userLock)
	boardService := service.NewLeaderboardService(userRepo)

	// Periodic sweep of stale per-command cooldown entries.
	sweeper := cron.New()
	if _, err := sweeper.AddFunc(cfg.Cleanup.Schedule, func() {
		n, err := userRepo.CleanupCooldowns(context.Background(), cfg.Cleanup.MaxAge, time.Now().Unix())
		if err != nil {
			log.Error().Err(err).Msg("Cooldown sweep failed")
			return
		}
		log.Info().Int("users", n).Msg("Cooldown sweep finished")
	}); err != nil {
		log.Fatal().Err(err).Str("schedule", cfg.Cleanup.Schedule).Msg("Invalid cleanup schedule")
	}
	sweeper.Start()
	defer sweeper.Stop()

	telegramBot, err := bot.New(&bot.Dependencies{
		Config:   cfg,
		Users:    userRepo,
		Account:  accountService,
		Games:    gameService,
		Transfer: transferService,
		Convert:  convertService,
		Shop:     shopService,
		Boards:   boardService,
		Rand:     rng,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create bot")
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Info().Msg("Bot is starting...")
		telegramBot.Start()
	}()

	sig := <-sigChan
	log.Info().Str("signal", sig.String()).Msg("Received shutdown signal")

	telegramBot.Stop()
	log.Info().Msg("Bot stopped gracefully")
}
