package main

import (
	"context"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/MasoodZaf/Seek-sub004/internal/api"
	"github.com/MasoodZaf/Seek-sub004/internal/auth"
	"github.com/MasoodZaf/Seek-sub004/internal/config"
	"github.com/MasoodZaf/Seek-sub004/internal/metrics"
	"github.com/MasoodZaf/Seek-sub004/internal/routers"
	"github.com/MasoodZaf/Seek-sub004/internal/session"
	"github.com/MasoodZaf/Seek-sub004/internal/users"
)

var (
	listenAndServe = http.ListenAndServe
	exitFunc       = func(err error) { log.Fatal(err) }
)

func run(_ context.Context) error {
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})

	directory := users.NewClient(cfg.UserServiceURL, rdb, cfg.IdentityCacheTTL)
	verifier := auth.NewVerifier([]byte(cfg.JWTSecret), directory, rdb)

	registry := session.NewRegistry()
	hub := session.NewHub()
	eventRouter := session.NewRouter(hub, registry, logger)
	coordinator := session.NewCoordinator(registry, hub, eventRouter, logger)

	handlers := api.NewHandlers(logger, verifier, registry, hub, coordinator)

	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) { _, _ = w.Write([]byte("ok")) })
	r.Handle("/metrics", metrics.Handler())
	r.Mount("/", routers.New(handlers, cfg.AllowedOrigins))

	addr := ":" + cfg.Port
	log.Printf("realtime-svc listening on %s", addr)
	return listenAndServe(addr, r)
}

func main() {
	if err := run(context.Background()); err != nil {
		exitFunc(err)
	}
}
