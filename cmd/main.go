package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"skillswap/backend/internal/api/handler"
	"skillswap/backend/internal/chathub"
	"skillswap/backend/internal/config"
	"skillswap/backend/internal/localization"
	clog "skillswap/backend/internal/log"
	"skillswap/backend/internal/mw"
	"skillswap/backend/internal/notification"
	"skillswap/backend/internal/review"
	"skillswap/backend/internal/storage"
	"skillswap/backend/internal/swap"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

func main() {
	cfg, err := config.Load("config")
	if err != nil {
		log.Fatal().Err(err).Msg("config load")
	}
	clog.Init(cfg.Env)
	if err := config.Validate(cfg); err != nil {
		log.Fatal().Err(err).Msg("config invalid")
	}
	if !cfg.IsDev() {
		gin.SetMode(gin.ReleaseMode)
	}
	log.Info().Str("env", cfg.Env).Msg("starting skillswap backend")

	gdb, err := storage.Connect(cfg.Database.DSN)
	if err != nil {
		log.Fatal().Err(err).Msg("db connect")
	}
	if err := storage.Migrate(gdb); err != nil {
		log.Fatal().Err(err).Msg("db migrate")
	}

	rdb, err := storage.ConnectRedis(context.Background(), cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		log.Warn().Err(err).Msg("redis unavailable, unread counts served from postgres")
	}
	store := storage.NewStorageService(gdb, rdb)

	l10n, err := localization.Default()
	if err != nil {
		log.Fatal().Err(err).Msg("localization load")
	}
	if !l10n.Has(cfg.Locale) {
		log.Fatal().Str("locale", cfg.Locale).Msg("no translations bundled for locale")
	}

	hub := chathub.NewHub(store, chathub.Options{
		SendRate:         cfg.Chat.SendRate,
		SendBurst:        cfg.Chat.SendBurst,
		MaxMessageLength: cfg.Chat.MaxMessageLength,
	})
	notifications := notification.NewService(store, hub, l10n).WithLanguage(cfg.Locale)
	h := handler.NewHandler(cfg, hub, store,
		swap.NewService(store, notifications),
		review.NewService(store, notifications),
		notifications,
	)

	rl := mw.NewRateLimiter(rate.Limit(cfg.HTTP.Rate), cfg.HTTP.Burst, 2*time.Minute)
	go rl.Run()

	server := &http.Server{
		Addr:           ":" + cfg.Port,
		Handler:        handler.SetupRouter(h, rl),
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   10 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server run")
		}
	}()
	log.Info().Str("addr", server.Addr).Msg("listening")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("server shutdown")
	}
	rl.Stop()
	if rdb != nil {
		_ = rdb.Close()
	}
	if sqlDB, err := gdb.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
