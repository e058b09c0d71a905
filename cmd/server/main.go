package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/d60-Lab/shop-api/config"
	"github.com/d60-Lab/shop-api/internal/api"
	"github.com/d60-Lab/shop-api/internal/api/handler"
	"github.com/d60-Lab/shop-api/internal/cache"
	"github.com/d60-Lab/shop-api/internal/event"
	"github.com/d60-Lab/shop-api/internal/repository"
	"github.com/d60-Lab/shop-api/internal/service"
	"github.com/d60-Lab/shop-api/pkg/database"
	"github.com/d60-Lab/shop-api/pkg/logger"
	"github.com/d60-Lab/shop-api/pkg/token"
	"github.com/d60-Lab/shop-api/pkg/tracing"
)

// @title Shop API
// @version 1.0
// @description 电商与预订后端
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	if err := logger.Init(cfg.Log.Level, cfg.Log.Format); err != nil {
		panic(err)
	}
	defer logger.Sync()

	if cfg.Sentry.DSN != "" {
		if err := sentry.Init(sentry.ClientOptions{Dsn: cfg.Sentry.DSN, Environment: cfg.Sentry.Environment}); err != nil {
			logger.Warn("sentry init failed", zap.Error(err))
		}
		defer sentry.Flush(2 * time.Second)
	}

	ctx := context.Background()
	shutdownTracing, err := tracing.Init(ctx, cfg.Tracing)
	if err != nil {
		logger.Fatal("tracing init failed", zap.Error(err))
	}

	db, err := database.InitDB(cfg)
	if err != nil {
		logger.Fatal("database init failed", zap.Error(err))
	}
	if cfg.Database.AutoMigrate {
		if err := repository.AutoMigrate(db); err != nil {
			logger.Fatal("auto migrate failed", zap.Error(err))
		}
	}

	var rdb *redis.Client
	if cfg.Redis.Enabled {
		rdb, err = cache.NewRedisClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			logger.Warn("redis unavailable, falling back to in-process stores", zap.Error(err))
			rdb = nil
		}
	}
	var (
		productCache cache.ProductCache = cache.NopProductCache{}
		codeStore    cache.CodeStore    = cache.NewMemoryCodeStore(cfg.JWT.ResetCodeTTL)
	)
	if rdb != nil {
		productCache = cache.NewRedisProductCache(rdb, cfg.Redis.CacheTTL)
		codeStore = cache.NewRedisCodeStore(rdb, "auth:reset:", cfg.JWT.ResetCodeTTL)
	}

	publisher := newPublisher(cfg)
	tokens := token.NewManager(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.Expire)

	categoryRepo := repository.NewCategoryRepository(db)
	productRepo := repository.NewProductRepository(db)
	counterRepo := repository.NewCounterRepository(db)
	outboxRepo := repository.NewOutboxRepository(db)

	recorder := service.NewCounterRecorder(counterRepo, cfg.Counter.QueueSize)
	stopRecorder := recorder.Start(cfg.Counter.Workers)

	h := handler.New(handler.Services{
		Categories: service.NewCategoryService(categoryRepo),
		Products:   service.NewProductService(productRepo, categoryRepo, productCache),
		Posts:      service.NewPostService(repository.NewPostRepository(db)),
		Contacts:   service.NewContactService(repository.NewContactRepository(db)),
		Orders: service.NewOrderService(db,
			repository.NewOrderRepository(db),
			repository.NewCustomerRepository(db),
			productRepo,
			outboxRepo,
		),
		Counters: service.NewCounterService(counterRepo, recorder),
		Auth:     service.NewAuthService(repository.NewUserRepository(db), tokens, codeStore, service.LogMailer{}),
	})

	stopRelay := func(context.Context) error { return nil }
	if cfg.Outbox.Enabled {
		relay := event.NewOutboxRelay(db, outboxRepo, publisher, cfg.Outbox.BatchSize, cfg.Outbox.MaxAttempts, cfg.Outbox.PollInterval)
		stopRelay = relay.Start()
	}

	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      api.NewRouter(cfg, h, tokens),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	go func() {
		logger.Info("server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("listen failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", zap.Error(err))
	}
	if err := stopRelay(shutdownCtx); err != nil {
		logger.Error("outbox relay shutdown", zap.Error(err))
	}
	if err := stopRecorder(shutdownCtx); err != nil {
		logger.Error("counter recorder shutdown", zap.Error(err))
	}
	closeAll(shutdownCtx, db, rdb, publisher, shutdownTracing)
}

func newPublisher(cfg *config.Config) event.Publisher {
	if !cfg.Kafka.Enabled {
		return event.LogPublisher{}
	}
	p, err := event.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic)
	if err != nil {
		logger.Fatal("kafka init failed", zap.Error(err))
	}
	return p
}

func closeAll(ctx context.Context, db *gorm.DB, rdb *redis.Client, publisher event.Publisher, shutdownTracing func(context.Context) error) {
	if err := publisher.Close(); err != nil {
		logger.Error("publisher close", zap.Error(err))
	}
	if rdb != nil {
		_ = rdb.Close()
	}
	if err := database.Close(db); err != nil {
		logger.Error("database close", zap.Error(err))
	}
	if err := shutdownTracing(ctx); err != nil {
		logger.Error("tracing shutdown", zap.Error(err))
	}
}
