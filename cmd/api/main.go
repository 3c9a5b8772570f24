package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"

	"github.com/harentsoaR/folio-api/internal/config"
	"github.com/harentsoaR/folio-api/internal/handlers"
	"github.com/harentsoaR/folio-api/internal/logger"
	"github.com/harentsoaR/folio-api/internal/middleware"
	"github.com/harentsoaR/folio-api/internal/router"
	"github.com/harentsoaR/folio-api/internal/services"
	"github.com/harentsoaR/folio-api/internal/store"
	"github.com/harentsoaR/folio-api/internal/utils"
	"github.com/harentsoaR/folio-api/internal/validation"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	zl, err := logger.New(cfg.IsDevelopment())
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = zl.Sync() }()
	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --- Database Connection ---
	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		zl.Fatal("failed to connect to MongoDB", zap.Error(err))
	}
	if err := client.Ping(connectCtx, readpref.Primary()); err != nil {
		zl.Fatal("failed to ping MongoDB", zap.Error(err))
	}
	db := client.Database(cfg.MongoDatabase)
	if err := store.EnsureIndexes(connectCtx, db); err != nil {
		zl.Fatal("failed to ensure indexes", zap.Error(err))
	}
	zl.Info("connected to MongoDB", zap.String("database", cfg.MongoDatabase))

	// --- Media storage ---
	backend, err := services.NewBackend(connectCtx, cfg.Media)
	if err != nil {
		zl.Fatal("failed to initialise media storage", zap.String("driver", cfg.Media.Driver), zap.Error(err))
	}
	media := services.NewMediaService(backend, cfg.Media.MaxFileSize, cfg.Media.MaxImageWidth, zl.Named("media"))

	// --- Handlers and routes ---
	tokens := utils.NewTokenManager(cfg.JWTSecret, cfg.JWTTTL)
	h := handlers.NewHandler(
		store.NewUserStore(db),
		store.NewProjectStore(db),
		store.NewHomePageStore(db),
		media,
		tokens,
		zl,
		handlers.Options{
			BcryptCost:             cfg.BcryptCost,
			AllowAdminRegistration: cfg.AllowAdminRegistration,
		},
	)

	limiter := middleware.NewIPRateLimiter(cfg.AuthRatePerMinute, zl)
	go limiter.Cleanup(ctx, time.Minute, 10*time.Minute)

	r := router.New(h, validation.New(), tokens, router.Options{
		CORSOrigins: cfg.CORSOrigins,
		AuthLimiter: limiter,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		zl.Info("starting server", zap.String("addr", srv.Addr), zap.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zl.Fatal("listen failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	zl.Info("shutdown requested")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancelShutdown()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zl.Error("server shutdown", zap.Error(err))
	}
	if err := client.Disconnect(shutdownCtx); err != nil {
		zl.Error("mongo disconnect", zap.Error(err))
	}
	zl.Info("shutdown completed")
}
