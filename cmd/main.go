package main

import (
	"complainthub/backend/internal/api/handler"
	"complainthub/backend/internal/complaint"
	"complainthub/backend/internal/config"
	"complainthub/backend/internal/eventhub"
	"complainthub/backend/internal/logging"
	"complainthub/backend/internal/storage"
	"complainthub/backend/internal/telegram"
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"
	"github.com/ulule/limiter/v3"
	"golang.org/x/sync/errgroup"
)

type dependencies struct {
	store storage.Storage
	blobs storage.BlobStore
	rdb   *redis.Client
}

func setupDependencies(ctx context.Context, cfg *config.Config, logger *logrus.Logger) (*dependencies, error) {
	store, err := storage.Open(cfg.Database)
	if err != nil {
		return nil, err
	}
	logger.WithField("driver", cfg.Database.Driver).Info("complaint store ready")

	blobs, err := storage.NewDiskBlobStore(cfg.Uploads.Dir)
	if err != nil {
		return nil, err
	}

	deps := &dependencies{store: store, blobs: blobs}
	if cfg.Redis.Enabled() {
		deps.rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if _, err := deps.rdb.Ping(ctx).Result(); err != nil {
			return nil, err
		}
		logger.WithField("addr", cfg.Redis.Addr).Info("redis connected")
	}
	return deps, nil
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("failed to load configuration")
	}
	logger := logging.New(cfg.LogLevel, cfg.LogFormat)
	logger.WithField("env", cfg.Env).Info("starting complaints backend")

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	g, ctx := errgroup.WithContext(sigCtx)

	// 1. Store, blobs, redis
	deps, err := setupDependencies(ctx, cfg, logger)
	if err != nil {
		logger.WithError(err).Fatal("failed to initialise dependencies")
	}

	// 2. Event hub and its transport
	hub := eventhub.NewHub(logger)
	g.Go(func() error {
		hub.Run(ctx)
		return nil
	})

	var events complaint.EventPublisher = eventhub.LocalBus{Hub: hub}
	if deps.rdb != nil {
		bus := eventhub.NewRedisBus(deps.rdb, cfg.Redis.EventsChannel, logger)
		g.Go(func() error {
			bus.Listen(ctx, hub)
			return nil
		})
		events = bus
	}

	if cfg.Telegram.Enabled() {
		notifier, err := telegram.NewBotNotifier(cfg.Telegram.BotToken, cfg.Telegram.ManagerChatID, logger)
		if err != nil {
			logger.WithError(err).Error("telegram notifier disabled")
		} else {
			notifier.Run()
			hub.Register(notifier)
		}
	}

	// 3. Lifecycle engine
	policy, err := complaint.NewPolicy(complaint.DefaultCapabilities)
	if err != nil {
		logger.WithError(err).Fatal("failed to build access policy")
	}
	svc := complaint.NewService(deps.store, policy, complaint.NewAttachmentResolver(deps.blobs, logger), events, logger)

	// 4. HTTP
	var rateLimiter *limiter.Limiter
	if cfg.RateLimit.Enabled {
		rateLimiter, err = handler.NewLimiter(cfg.RateLimit.Rate, deps.rdb)
		if err != nil {
			logger.WithError(err).Fatal("failed to build rate limiter")
		}
	}

	auth := handler.NewAuthenticator(cfg.JWTSecret, cfg.JWTIssuer)
	h := handler.NewHandler(svc, hub, auth, cfg.Uploads.URLPrefix, cfg.CORSOrigins, logger)
	router := h.Router(handler.RouterOptions{
		Limiter:     rateLimiter,
		MetricsPath: cfg.MetricsPath,
		UploadDir:   cfg.Uploads.Dir,
	})

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
	}).Handler(router)

	server := &http.Server{
		Addr:           cfg.HTTPAddr,
		Handler:        corsHandler,
		ReadTimeout:    30 * time.Second,
		WriteTimeout:   30 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	g.Go(func() error {
		logger.WithField("addr", cfg.HTTPAddr).Info("http server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		logger.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.WithError(err).Error("server stopped with error")
	}
	if deps.rdb != nil {
		_ = deps.rdb.Close()
	}
}
