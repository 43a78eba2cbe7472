package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/mdmahmu/toolstun-server/internal/api"
	"github.com/mdmahmu/toolstun-server/internal/auth"
	"github.com/mdmahmu/toolstun-server/internal/cache"
	"github.com/mdmahmu/toolstun-server/internal/config"
	"github.com/mdmahmu/toolstun-server/internal/database"
	"github.com/mdmahmu/toolstun-server/internal/events"
	"github.com/mdmahmu/toolstun-server/internal/logging"
	"github.com/mdmahmu/toolstun-server/internal/payment"
	"github.com/mdmahmu/toolstun-server/internal/repository"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("failed to load config: ", err)
	}

	logger, err := logging.New(cfg.Logger)
	if err != nil {
		log.Fatal("failed to init logger: ", err)
	}
	defer func() { _ = logger.Sync() }()

	if err := cfg.Validate(); err != nil {
		zap.L().Fatal("invalid config", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := database.Connect(ctx, cfg.Database)
	if err != nil {
		zap.L().Fatal("failed to connect database", zap.Error(err))
	}
	defer pool.Close()

	if err := database.EnsureSchema(ctx, pool); err != nil {
		zap.L().Fatal("schema bootstrap failed", zap.Error(err))
	}

	var (
		products    repository.ProductRepository    = repository.NewProductRepository(pool)
		settlements repository.SettlementRepository = repository.NewSettlementRepository(pool)
	)

	if cfg.Redis.URL != "" {
		rdb, err := cache.ConnectRedis(ctx, cfg.Redis)
		if err != nil {
			zap.L().Fatal("failed to connect redis", zap.Error(err))
		}
		defer rdb.Close()

		cached := cache.NewCachedProductRepository(products, rdb, cfg.Redis.TTL)
		products = cached
		settlements = cache.NewInvalidatingSettlementRepository(settlements, cached)
		zap.L().Info("product cache enabled", zap.Duration("ttl", cfg.Redis.TTL))
	}

	var publisher events.Publisher = events.Noop{}
	if cfg.AMQP.URL != "" {
		amqpPublisher, err := events.DialAMQP(cfg.AMQP.URL, cfg.AMQP.Queue)
		if err != nil {
			zap.L().Fatal("failed to connect amqp", zap.Error(err))
		}
		publisher = amqpPublisher
		zap.L().Info("settlement events enabled", zap.String("queue", cfg.AMQP.Queue))
	}
	defer publisher.Close()
	settlements = events.NewPublishingSettlementRepository(settlements, publisher)

	if cfg.Auth.LegacyOwnerCheck {
		zap.L().Warn("legacy owner check enabled: any valid token can read any owner's orders")
	}

	router := api.NewRouter(api.Deps{
		Reviews:          repository.NewReviewRepository(pool),
		Products:         products,
		Orders:           repository.NewOrderRepository(pool),
		Users:            repository.NewUserRepository(pool),
		Settlements:      settlements,
		Payments:         payment.NewStripeGateway(cfg.Payment.SecretKey, cfg.Payment.Currency),
		Tokens:           auth.NewIssuer([]byte(cfg.Auth.Secret), cfg.Auth.TokenTTL),
		DB:               pool,
		LegacyOwnerCheck: cfg.Auth.LegacyOwnerCheck,
		CORSOrigins:      cfg.HTTP.CORSOrigins,
	})

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      router,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	}

	go func() {
		zap.L().Info("server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zap.L().Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	zap.L().Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		zap.L().Error("graceful shutdown failed", zap.Error(err))
	}
}
