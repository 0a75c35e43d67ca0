package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"medical-office/internal/adapters/auth/jwtauth"
	pg "medical-office/internal/adapters/storage/postgres"
	"medical-office/internal/config"
	"medical-office/internal/platform/logger"
	"medical-office/internal/router"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		l := logger.NewFromEnv()
		l.Fatal().Err(err).Msg("load config")
	}

	log := logger.New(logger.Options{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
		App:    "medical-office",
	})

	key := []byte(cfg.JWTSecret)
	ttl := time.Duration(cfg.TokenTTLHours) * time.Hour

	issuer, err := jwtauth.NewIssuer(key, ttl)
	if err != nil {
		log.Fatal().Err(err).Msg("token issuer")
	}
	verifier, err := jwtauth.NewVerifier(key)
	if err != nil {
		log.Fatal().Err(err).Msg("token verifier")
	}

	opts := router.Options{
		Issuer:      issuer,
		Verifier:    verifier,
		Logger:      log,
		CORSOrigins: cfg.CORSOrigins,
		SeedAdmin:   cfg.SeedAdmin,
	}

	if cfg.DBDSN != "" {
		db, err := pg.Open(cfg.DBDSN)
		if err != nil {
			log.Fatal().Err(err).Msg("open postgres")
		}
		defer db.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := pg.EnsureSchema(ctx, db); err != nil {
			cancel()
			log.Fatal().Err(err).Msg("ensure schema")
		}
		cancel()

		opts.DB = db
		log.Info().Msg("using postgres store")
	} else {
		log.Warn().Msg("DB_DSN not set, using in-memory store")
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router.NewRouter(opts),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	log.Info().Str("addr", srv.Addr).Msg("starting server")
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error().Err(err).Msg("server error")
		os.Exit(1)
	}
}
