package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/ozaibAuday/telegram-admin-bot/internal/bot"
	"github.com/ozaibAuday/telegram-admin-bot/internal/config"
	"github.com/ozaibAuday/telegram-admin-bot/internal/db"
	"github.com/ozaibAuday/telegram-admin-bot/internal/repo"
)

func main() {
	_ = godotenv.Load()

	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}).
		With().Timestamp().Str("service", "admin-bot").Logger()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config")
	}
	if cfg.Debug {
		log = log.Level(zerolog.DebugLevel)
	} else {
		log = log.Level(zerolog.InfoLevel)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store, err := db.Open(ctx, cfg.DBPath)
	if err != nil {
		log.Fatal().Err(err).Msg("open store")
	}
	defer store.Close()

	if err := db.EnsureSchema(ctx, store); err != nil {
		log.Fatal().Err(err).Msg("ensure schema")
	}

	botAPI, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		log.Fatal().Err(err).Msg("bot init")
	}
	botAPI.Debug = cfg.Debug

	rUsers := repo.NewUsers(store, log)
	rActivity := repo.NewActivity(store, log)

	h := bot.NewHandler(botAPI, bot.NewAdminSet(cfg.AdminIDs), rUsers, rActivity, log)

	// Graceful shutdown
	go func() {
		ch := make(chan os.Signal, 1)
		signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
		<-ch
		cancel()
	}()

	// Prune old activity entries once a day
	go h.RunCleanupWorker(ctx, 24*time.Hour, 30)

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := botAPI.GetUpdatesChan(u)

	log.Info().Str("username", botAPI.Self.UserName).Msg("bot started")

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("shutdown")
			return
		case upd := <-updates:
			h.HandleUpdate(ctx, upd)
		}
	}
}
