package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"pet-boarding/internal/adapters/auth/jwtauth"
	objmem "pet-boarding/internal/adapters/objectstore/memory"
	"pet-boarding/internal/adapters/storage/postgres"
	"pet-boarding/internal/config"
	"pet-boarding/internal/platform/logger"
	"pet-boarding/internal/router"
)

// devTokenKey solo aplica con APP_ENV=dev; en prod TOKEN_KEY es obligatoria.
const devTokenKey = "dev-secret-do-not-use"

func main() {
	cfg := config.Load()

	log, err := logger.New(cfg.AppEnv, cfg.LogLevel)
	if err != nil {
		os.Stderr.WriteString("logger init: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	tokenKey := cfg.TokenKey
	if tokenKey == "" {
		if !cfg.IsDev() {
			log.Fatal("TOKEN_KEY is required outside dev")
		}
		tokenKey = devTokenKey
		log.Warn("TOKEN_KEY vacía, usando secreto de dev")
	}

	jwtSvc, err := jwtauth.New(jwtauth.Options{
		Secret: tokenKey,
		TTL:    24 * time.Hour,
	})
	if err != nil {
		log.Fatal("jwt init", zap.Error(err))
	}

	var pool *pgxpool.Pool
	if cfg.DBDSN != "" {
		pool, err = postgres.Open(context.Background(), cfg.DBDSN)
		if err != nil {
			log.Fatal("postgres open", zap.Error(err))
		}
		defer pool.Close()
		log.Info("conectado a Postgres")
	} else {
		log.Info("sin DB_DSN: repos in-memory")
	}

	r := router.NewRouter(router.Options{
		AuthVerifier: jwtSvc,
		TokenIssuer:  jwtSvc,
		Pool:         pool,
		Store:        objmem.NewStore(cfg.FilesURL),
		Logger:       log,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	log.Info("starting server", zap.String("addr", srv.Addr))
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal("server error", zap.Error(err))
	}
}
