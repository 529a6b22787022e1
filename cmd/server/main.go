package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/nightroster/werewolf-backend/internal/config"
	"github.com/nightroster/werewolf-backend/internal/engine"
	"github.com/nightroster/werewolf-backend/internal/httpapi"
	"github.com/nightroster/werewolf-backend/internal/hub"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		zap.NewExample().Fatal("config", zap.Error(err))
	}

	log, err := buildLogger(cfg)
	if err != nil {
		zap.NewExample().Fatal("logger", zap.Error(err))
	}
	defer func() { _ = log.Sync() }()

	rules := engine.DefaultRules()
	if cfg.RuleFile != "" {
		text, err := os.ReadFile(cfg.RuleFile)
		if err != nil {
			log.Fatal("read rule file", zap.String("path", cfg.RuleFile), zap.Error(err))
		}
		for _, e := range rules.ApplyEdits(string(text)) {
			log.Warn("rule file edit rejected", zap.Error(e))
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	h := hub.NewHub(ctx, log)
	handler := httpapi.SetupRoutes(h, httpapi.Deps{BaseRules: rules, GMs: cfg.DefaultGMs})

	srv := &http.Server{Addr: cfg.Addr, Handler: handler}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("listening", zap.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		h.Inbox() <- hub.ShutdownHub{}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Fatal("server", zap.Error(err))
	}
}

func buildLogger(cfg config.Config) (*zap.Logger, error) {
	if cfg.Dev {
		return zap.NewDevelopment()
	}
	zcfg := zap.NewProductionConfig()
	if err := zcfg.Level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		return nil, err
	}
	return zcfg.Build()
}
