package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"manvan/internal/config"
	"manvan/internal/logging"
	"manvan/internal/modules/admin"
	"manvan/internal/modules/message"
	"manvan/internal/pkg/jwt"
	"manvan/internal/server"
	"manvan/internal/session"
	"manvan/internal/storage"
	"manvan/internal/storage/migrate"
	"manvan/internal/storage/relational"
	"manvan/internal/storage/selector"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	logging.Init(cfg.ServiceName, cfg.AppEnv)
	if cfg.IsProdLike() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := selector.Select(ctx, selector.Options{
		MongoURI:       cfg.MongoURI,
		MongoDatabase:  cfg.MongoDatabase,
		ConnectTimeout: cfg.MongoConnectTimeout,
		DatabaseURL:    cfg.DatabaseURL,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("open storage")
	}

	sessions, closeSessions := openSessions(ctx, cfg)
	hub := message.NewHub()

	var migrator admin.Migrator
	var source storage.Storage
	if store.Kind() == storage.KindDocument && cfg.DatabaseURL != "" {
		// the relational database becomes the source for POST /api/admin/migrate
		source, err = relational.Open(cfg.DatabaseURL)
		if err != nil {
			log.Warn().Err(err).Msg("migration source unavailable")
		} else {
			migrator = migrate.New(source, store)
		}
	}

	router := server.NewRouter(server.Deps{
		Store:          store,
		Sessions:       sessions,
		Tokens:         jwt.New(cfg.SessionSecret, cfg.SessionTTL),
		Hub:            hub,
		Migrator:       migrator,
		AllowedOrigins: cfg.CORSAllowedOrigins,
		CookieSecure:   cfg.CookieSecure,
		SessionTTL:     cfg.SessionTTL,
	})

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", cfg.HTTPAddr).Str("storage", string(store.Kind())).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown")
	}
	hub.Close()
	closeSessions()
	if source != nil {
		_ = source.Close(shutdownCtx)
	}
	if err := store.Close(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("close storage")
	}
	log.Info().Msg("server stopped")
}

// openSessions prefers Redis when configured and falls back to the in-memory
// store, whose sweeper stops with ctx.
func openSessions(ctx context.Context, cfg *config.Config) (session.Store, func()) {
	if cfg.RedisURL != "" {
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		client, err := session.ConnectRedis(pingCtx, cfg.RedisURL)
		cancel()
		if err == nil {
			log.Info().Msg("using Redis session store")
			return session.NewRedisStore(client, cfg.SessionTTL), func() { _ = client.Close() }
		}
		log.Warn().Err(err).Msg("Redis unavailable, sessions kept in memory")
	}

	mem := session.NewMemoryStore(cfg.SessionTTL)
	go mem.Run(ctx, cfg.SessionSweepInterval)
	return mem, func() {}
}
