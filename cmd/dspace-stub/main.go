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

	"dsaps/internal/config"
	"dsaps/internal/handlers"
	"dsaps/internal/middleware"
	"dsaps/internal/repo"
	"dsaps/internal/service"
)

func main() {
	cfg := config.NewConfig()

	// создаём предустановленный регистратор zap
	zc := zap.NewDevelopmentConfig()
	if lvl, err := zap.ParseAtomicLevel(cfg.LogLevel); err == nil {
		zc.Level = lvl
	}
	logger, err := zc.Build()
	if err != nil {
		panic(err)
	}

	// делаем регистратор SugaredLogger
	sugar := logger.Sugar()
	middleware.SetLogger(sugar) // передаём логгер в middleware
	//сброс буфера логгера
	defer func() {
		_ = logger.Sync()
	}()

	//context
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	gormDB, err := repo.InitDB(cfg.DatabaseDSN)
	if err != nil {
		sugar.Fatalw("failed to initialize database", "error", err)
	}

	userService := service.NewUserService(repo.NewUserRepository(gormDB))
	archiveService := service.NewArchiveService(
		repo.NewArchiveRepository(gormDB),
		cfg.HandlePrefix,
		int64(cfg.BlobMaxSizeMB)<<20,
		sugar,
	)

	if cfg.SeedEmail != "" {
		if _, err := userService.EnsureUser(ctx, cfg.SeedEmail, cfg.SeedPassword, cfg.SeedFullName); err != nil {
			sugar.Fatalw("failed to seed user", "email", cfg.SeedEmail, "error", err)
		}
		sugar.Infow("Seed user ready", "email", cfg.SeedEmail)
	}

	h := handlers.NewHandler(userService, archiveService, sugar, cfg)

	addr := cfg.BaseURL
	srv := &http.Server{Addr: addr, Handler: h.Router, ReadHeaderTimeout: 10 * time.Second}

	sugar.Infow(
		"Starting server",
		"addr", addr,
	)

	sugar.Infow("Config",
		"BaseURL", cfg.BaseURL,
		"EnableHTTPS", cfg.EnableHTTPS,
		"HandlePrefix", cfg.HandlePrefix,
		"Postgres", repo.IsPostgresDSN(cfg.DatabaseDSN),
	)

	go func() {
		<-ctx.Done()
		shutdownCtx, stop := context.WithTimeout(context.Background(), 5*time.Second)
		defer stop()
		_ = srv.Shutdown(shutdownCtx)
	}()

	if cfg.EnableHTTPS {
		err = srv.ListenAndServeTLS(cfg.TLSCertFile, cfg.TLSKeyFile)
	} else {
		err = srv.ListenAndServe()
	}
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		sugar.Fatalw("Server failed", "error", err)
	}
}
