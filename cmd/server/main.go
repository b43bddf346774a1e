// Command server runs the lead-capture wizard API: session endpoints, the
// address-lookup relay, and the finance-submission pipeline.
package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	_ "github.com/jackc/pgx/v5/stdlib"

	"leadgate/internal/addresslookup"
	"leadgate/internal/leads"
	"leadgate/internal/platform/config"
	"leadgate/internal/platform/httpserver"
	"leadgate/internal/platform/logger"
	"leadgate/internal/platform/metrics"
	"leadgate/internal/platform/middleware"
	platformredis "leadgate/internal/platform/redis"
	"leadgate/internal/submission"
	"leadgate/internal/wizard/flow"
	wizardhandler "leadgate/internal/wizard/handler"
	"leadgate/internal/wizard/service"
	"leadgate/internal/wizard/store"
)

func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		// A broken .env should be visible, a missing one is normal.
		os.Stderr.WriteString("warning: could not load .env: " + err.Error() + "\n")
	}

	cfg := config.FromEnv()
	log := logger.New()
	m := metrics.New()

	sessionStore, err := buildSessionStore(cfg)
	if err != nil {
		log.Error("session store init failed", "error", err)
		os.Exit(1)
	}

	archive, dbClose, err := buildArchive(cfg)
	if err != nil {
		log.Error("lead archive init failed", "error", err)
		os.Exit(1)
	}
	if dbClose != nil {
		defer dbClose()
	}

	lookupClient := addresslookup.NewClient(cfg.GetAddressURL, cfg.GetAddressKey, log)
	submitClient := submission.NewClient(cfg.AutoConvertURL, cfg.AutoConvertKey, log)
	mapper := submission.Mapper{PlaceholderFallback: cfg.PlaceholderFallback}

	wizardFlow := flow.New(cfg.MaxPreviousAddresses)
	svc := service.New(sessionStore, wizardFlow, mapper, submitClient, archive, log, m)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recovery(log))
	r.Use(middleware.Logger(log))
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(middleware.ContentTypeJSON)

	wizardhandler.New(svc, log).Register(r)
	addresslookup.NewHandler(lookupClient, log, m).Register(r)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())

	srv := httpserver.New(cfg.Addr, r)

	go func() {
		log.Info("server listening", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
		os.Exit(1)
	}
}

// buildSessionStore picks Redis when configured, in-memory otherwise.
func buildSessionStore(cfg config.Config) (store.Store, error) {
	client, err := platformredis.New(cfg.RedisURL)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return store.NewMemory(), nil
	}
	return store.NewRedis(client.Client, cfg.SessionTTL), nil
}

// buildArchive picks PostgreSQL when configured, in-memory otherwise.
func buildArchive(cfg config.Config) (leads.Archive, func() error, error) {
	if cfg.DatabaseURL == "" {
		return leads.NewMemoryArchive(), nil, nil
	}
	db, err := sql.Open("pgx", cfg.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, nil, err
	}
	return leads.NewPostgresArchive(db), db.Close, nil
}
