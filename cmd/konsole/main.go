package main

// Package main ist der Einstiegspunkt der Operator-Konsole. Es baut die
// lokale Pebble-Ablage, den API-Client und die Feed-Subscription zusammen und
// hält die Session bis zum Shutdown-Signal am Leben. Rendern ist Sache einer
// aufsetzenden Schicht; hier lebt nur die Engine.

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Xenn-00/warteschlangen-meister/internal/abstraction/kv"
	"github.com/Xenn-00/warteschlangen-meister/internal/config"
	"github.com/Xenn-00/warteschlangen-meister/internal/db"
	"github.com/Xenn-00/warteschlangen-meister/internal/feed"
	"github.com/Xenn-00/warteschlangen-meister/internal/i18n"
	"github.com/Xenn-00/warteschlangen-meister/internal/konsole/apiclient"
	"github.com/Xenn-00/warteschlangen-meister/internal/konsole/notify"
	"github.com/Xenn-00/warteschlangen-meister/internal/konsole/session"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	i18nSvc := i18n.NewInitI18nService()
	cfg := config.LoadConfig()

	store, err := kv.OpenPebbleStore(cfg.KONSOLE.DataDir)
	if err != nil {
		log.Fatal().Err(err).Msg("konnte lokale Ablage nicht öffnen")
	}

	redisPool, err := db.RedisPool(cfg.DATABASE.Redis.Addr, cfg.DATABASE.Redis.Password, 0)
	if err != nil {
		log.Fatal().Err(err).Msg("konnte Redis-Verbindung nicht aufbauen")
	}

	api := apiclient.New(cfg.KONSOLE.BaseURL, cfg.APP_SECRET.APIToken, cfg.KONSOLE.OperatorID)
	notifier := notify.NewLogNotifier(i18nSvc, "de")
	subscriber := feed.NewRedisFeed(redisPool)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sess := session.New(ctx, api, store, subscriber, notifier, cfg.PollInterval())
	sess.Filters.PullRemote(ctx)

	log.Info().Str("base_url", cfg.KONSOLE.BaseURL).Str("operator", cfg.KONSOLE.OperatorID).Msg("Konsole gestartet")

	<-ctx.Done()
	log.Warn().Msg("Shutdown-Signal empfangen... Session wird beendet.")

	sess.Filters.PushRemote(context.Background())
	sess.Close()

	if err := store.Close(); err != nil {
		log.Error().Err(err).Msg("Fehler beim Schließen der lokalen Ablage")
	}
	redisPool.Close()
	log.Info().Msg("Konsole ordnungsgemäß heruntergefahren.")
}
