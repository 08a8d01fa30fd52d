package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/Xtown-XT/va-erp-sub000/config"
	"github.com/Xtown-XT/va-erp-sub000/internal/api/handler"
	"github.com/Xtown-XT/va-erp-sub000/internal/api/router"
	"github.com/Xtown-XT/va-erp-sub000/internal/repository"
	"github.com/Xtown-XT/va-erp-sub000/internal/service"
	"github.com/Xtown-XT/va-erp-sub000/pkg/database"
	"github.com/Xtown-XT/va-erp-sub000/pkg/jwt"
	applogger "github.com/Xtown-XT/va-erp-sub000/pkg/logger"
	"github.com/Xtown-XT/va-erp-sub000/pkg/metrics"
	"github.com/Xtown-XT/va-erp-sub000/pkg/redis"
)

func main() {
	// 1. config
	cfg, err := config.Load("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	// 2. logger
	logger, err := applogger.NewLogger(&cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("starting ledger service",
		zap.Int("port", cfg.Server.Port),
		zap.String("log_level", cfg.Log.Level),
	)

	// 3. database
	db, err := database.NewDB(&cfg.Database, cfg.Log.Level, logger)
	if err != nil {
		logger.Fatal("database connection failed", zap.Error(err))
	}

	sqlDB, err := db.DB()
	if err != nil {
		logger.Fatal("get sql.DB", zap.Error(err))
	}
	if err := database.RunMigrations(sqlDB, logger); err != nil {
		logger.Fatal("migrations failed", zap.Error(err))
	}

	// 4. redis is optional; without it there is no token blacklist, rate limit or alert cache
	rdb, err := redis.NewClient(&cfg.Redis, logger)
	if err != nil {
		logger.Warn("redis unavailable, running without cache", zap.Error(err))
		rdb = nil
	}

	// 5. token verifier and metrics
	verifier := jwt.NewVerifier(&cfg.Auth)

	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		m = metrics.New()
	}

	// 6. Repository → Service → Handler
	repo := repository.NewRepository(db)

	var cache service.AlertCache
	if rdb != nil {
		cache = rdb
	}
	svc := service.NewService(cfg, repo, cache, m, logger)
	h := handler.NewHandler(svc)

	// 7. routes
	engine := router.Setup(cfg, h, verifier, rdb, db, m, logger)

	// 8. HTTP server with graceful shutdown
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("http server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("http server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	logger.Info("shutting down", zap.String("signal", sig.String()))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server shutdown", zap.Error(err))
	}

	if err := sqlDB.Close(); err != nil {
		logger.Error("close database", zap.Error(err))
	}

	if rdb != nil {
		if err := rdb.Close(); err != nil {
			logger.Error("close redis", zap.Error(err))
		}
	}

	logger.Info("server stopped")
}
