package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	authapp "github.com/wyfcoding/inventory/internal/auth/application"
	authdomain "github.com/wyfcoding/inventory/internal/auth/domain"
	authmysql "github.com/wyfcoding/inventory/internal/auth/infrastructure/persistence/mysql"
	authredis "github.com/wyfcoding/inventory/internal/auth/infrastructure/persistence/redis"
	"github.com/wyfcoding/inventory/internal/auth/infrastructure/security"
	authhttp "github.com/wyfcoding/inventory/internal/auth/interfaces/http"
	invapp "github.com/wyfcoding/inventory/internal/inventory/application"
	invdomain "github.com/wyfcoding/inventory/internal/inventory/domain"
	"github.com/wyfcoding/inventory/internal/inventory/infrastructure/messaging"
	invmysql "github.com/wyfcoding/inventory/internal/inventory/infrastructure/persistence/mysql"
	invhttp "github.com/wyfcoding/inventory/internal/inventory/interfaces/http"
	"github.com/wyfcoding/inventory/pkg/cache"
	"github.com/wyfcoding/inventory/pkg/config"
	"github.com/wyfcoding/inventory/pkg/db"
	"github.com/wyfcoding/inventory/pkg/logger"
	"github.com/wyfcoding/inventory/pkg/metrics"
	"github.com/wyfcoding/inventory/pkg/middleware"
	"github.com/wyfcoding/inventory/pkg/mq"
	"github.com/wyfcoding/inventory/pkg/ratelimit"
	"golang.org/x/sync/errgroup"
)

func main() {
	var configPath string
	flag.StringVar(&configPath, "config", "configs/config.toml", "path to config file")
	flag.Parse()

	// 1. Config
	cfg, err := config.Load(configPath)
	if err != nil {
		panic(fmt.Sprintf("load config failed: %v", err))
	}

	// 2. Logger
	if err := logger.Init(logger.Config{
		Level:      cfg.Logger.Level,
		Format:     cfg.Logger.Format,
		Output:     cfg.Logger.Output,
		FilePath:   cfg.Logger.FilePath,
		MaxSize:    cfg.Logger.MaxSize,
		MaxBackups: cfg.Logger.MaxBackups,
		MaxAge:     cfg.Logger.MaxAge,
		Compress:   cfg.Logger.Compress,
		WithCaller: cfg.Logger.WithCaller,
	}); err != nil {
		panic(fmt.Sprintf("init logger failed: %v", err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 3. Database
	database, err := db.Init(db.Config{
		Driver:             cfg.Database.Driver,
		DSN:                cfg.Database.DSN,
		MaxOpenConns:       cfg.Database.MaxOpenConns,
		MaxIdleConns:       cfg.Database.MaxIdleConns,
		ConnMaxLifetime:    cfg.Database.ConnMaxLifetime,
		LogEnabled:         cfg.Database.LogEnabled,
		SlowQueryThreshold: cfg.Database.SlowQueryThreshold,
	})
	if err != nil {
		logger.Fatal(ctx, "connect db failed", "error", err)
	}
	defer database.Close()

	if err := database.AutoMigrate(&authdomain.User{}, &invdomain.Product{}); err != nil {
		logger.Fatal(ctx, "migrate db failed", "error", err)
	}

	// 4. Redis
	redisCache, err := cache.New(cache.Config{
		Host:         cfg.Redis.Host,
		Port:         cfg.Redis.Port,
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		MaxPoolSize:  cfg.Redis.MaxPoolSize,
		ConnTimeout:  cfg.Redis.ConnTimeout,
		ReadTimeout:  cfg.Redis.ReadTimeout,
		WriteTimeout: cfg.Redis.WriteTimeout,
	})
	if err != nil {
		logger.Fatal(ctx, "connect redis failed", "error", err)
	}
	defer redisCache.Close()

	// 5. Kafka (optional; events are skipped when no brokers are configured)
	var events invdomain.EventPublisher
	var producer *mq.KafkaProducer
	if len(cfg.Kafka.Brokers) > 0 {
		producer, err = mq.NewProducer(mq.KafkaConfig{
			Brokers:      cfg.Kafka.Brokers,
			MaxRetries:   cfg.Kafka.MaxRetries,
			RetryBackoff: cfg.Kafka.RetryBackoff,
		})
		if err != nil {
			logger.Fatal(ctx, "create kafka producer failed", "error", err)
		}
		defer producer.Close()
		events = messaging.NewKafkaEventPublisher(producer, cfg.Kafka.Topic)
	}

	// 6. Repositories & application services
	userRepo := authmysql.NewUserRepository(database.DB)
	sessionRepo := authredis.NewSessionRepository(redisCache)
	hasher := security.NewHasher(security.DefaultParams())
	authService := authapp.NewAuthService(userRepo, sessionRepo, hasher, time.Duration(cfg.Session.TTL)*time.Second)

	productRepo := invmysql.NewProductRepository(database.DB)
	queryService := invapp.NewQueryService(productRepo)
	dashboardService := invapp.NewDashboardService(productRepo)
	commandService := invapp.NewCommandService(productRepo, events)

	// 7. HTTP
	if cfg.Environment == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(middleware.Recovery(), middleware.RequestLogging())

	m := metrics.New("inventory")
	if cfg.Metrics.Enabled {
		r.Use(m.Instrument())
		r.GET(cfg.Metrics.Path, m.Handler())
	}

	sys := r.Group("/sys")
	{
		sys.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "UP"}) })
		sys.GET("/ready", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "READY"}) })
	}

	api := r.Group("/api")

	// Only the credential endpoints are throttled; authenticated traffic
	// inside /api is not.
	var authGuards []gin.HandlerFunc
	if cfg.RateLimit.Enabled {
		limiter := ratelimit.New(redisCache.Client(), "ratelimit:auth", cfg.RateLimit.QPS, cfg.RateLimit.Burst)
		authGuards = append(authGuards, middleware.RateLimit(limiter))
	}

	authHandler := authhttp.NewHandler(authService, cfg.Session.CookieName, cfg.Environment == "prod")
	authHandler.RegisterRoutes(api, authGuards...)

	requireUser := authhttp.RequireUser(authService, cfg.Session.CookieName, cfg.HTTP.SignInURL)
	invHandler := invhttp.NewHandler(queryService, dashboardService, commandService)
	invHandler.RegisterRoutes(api, requireUser)

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeout) * time.Second,
	}

	// 8. Start
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info(gctx, "HTTP server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info(context.Background(), "Shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Fatal(context.Background(), "server exited with error", "error", err)
	}
}
