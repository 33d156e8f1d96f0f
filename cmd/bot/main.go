package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/tLat87/VisitTours/internal/config"
	"github.com/tLat87/VisitTours/internal/delivery/telegram"
	"github.com/tLat87/VisitTours/internal/game"
	"github.com/tLat87/VisitTours/internal/infra/storage"
	"github.com/tLat87/VisitTours/internal/logger"
	"github.com/tLat87/VisitTours/internal/metrics"
	"github.com/tLat87/VisitTours/internal/repository"
	"github.com/tLat87/VisitTours/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	lg, err := logger.New(cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = lg.Sync() }()

	if err := run(cfg, lg); err != nil {
		lg.Fatal("bot stopped with error", zap.Error(err))
	}
}

func run(cfg *config.Config, lg *zap.Logger) error {
	token, err := cfg.TelegramToken()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize catalog, storage and services.
	catalog, err := repository.NewCatalogRepository(cfg.CatalogPath)
	if err != nil {
		return err
	}

	backend, err := storage.Open(ctx, cfg, lg)
	if err != nil {
		return err
	}
	defer func() {
		if err := backend.Close(); err != nil {
			lg.Error("failed to close storage", zap.Error(err))
		}
	}()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	m := metrics.NewMetrics()
	if err := m.Register(reg); err != nil {
		return err
	}

	reducer := game.NewReducer(game.Rules{
		VisitReward:             cfg.Game.VisitReward,
		ShareReward:             cfg.Game.ShareReward,
		CreditRepeatVisits:      cfg.Game.CreditRepeatVisits,
		CreditRepeatCompletions: cfg.Game.CreditRepeatCompletions,
	}, catalog)

	progressService := service.NewProgressService(
		backend.KV,
		catalog,
		reducer,
		service.ProgressConfig{
			KeyPrefix:     cfg.Storage.Key,
			IdleTTL:       cfg.Sessions.IdleTTL,
			EvictSchedule: cfg.Sessions.EvictSchedule,
		},
		lg,
		service.WithSessionRecorder(m),
	)
	defer progressService.Close()

	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return err
	}
	bot.Debug = cfg.Env != "production"

	// Set commands.
	commands := []tgbotapi.BotCommand{
		{Command: "start", Description: "Start the tour"},
		{Command: "locations", Description: "Places to visit"},
		{Command: "challenges", Description: "Photo, quiz and audio challenges"},
		{Command: "progress", Description: "Points and level"},
		{Command: "achievements", Description: "Your achievements"},
		{Command: "help", Description: "Help"},
	}
	if _, err = bot.Request(tgbotapi.NewSetMyCommands(commands...)); err != nil {
		lg.Warn("failed to set bot commands", zap.Error(err))
	}

	lg.Info("authorized on telegram", zap.String("account", bot.Self.UserName))

	handler := telegram.NewHandler(bot, lg, progressService, catalog)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return progressService.Start(gctx)
	})

	g.Go(func() error {
		err := handler.Run(gctx)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})

	if cfg.Metrics.Addr != "" {
		srv := &http.Server{
			Addr:              cfg.Metrics.Addr,
			Handler:           promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}),
			ReadHeaderTimeout: 5 * time.Second,
		}

		g.Go(func() error {
			lg.Info("metrics server started", zap.String("addr", cfg.Metrics.Addr))
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})

		g.Go(func() error {
			<-gctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		})
	}

	err = g.Wait()
	lg.Info("shutdown signal received")
	return err
}
