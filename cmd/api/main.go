package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/shop-service/internal/api/http"
	"github.com/spec-kit/shop-service/internal/api/http/handlers"
	"github.com/spec-kit/shop-service/internal/auth"
	"github.com/spec-kit/shop-service/internal/config"
	"github.com/spec-kit/shop-service/internal/events"
	"github.com/spec-kit/shop-service/internal/observability"
	"github.com/spec-kit/shop-service/internal/persistence"
	"github.com/spec-kit/shop-service/internal/repository"
	"github.com/spec-kit/shop-service/internal/service"
	"github.com/spec-kit/shop-service/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	rdb := persistence.NewRedis(ctx, cfg.Redis, logger)
	defer rdb.Close()

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := observability.NewMetrics(registry)

	dispatcher := events.NewInMemoryDispatcher(logger)
	var sinks []worker.EventSink
	if cfg.Events.AMQPURL != "" {
		publisher, err := events.NewAMQPPublisher(cfg.Events.AMQPURL, cfg.Events.AMQPQueue)
		if err != nil {
			logger.Warn("order events will not be forwarded to amqp", zap.Error(err))
		} else {
			defer publisher.Close()
			sinks = append(sinks, publisher)
			logger.Info("forwarding order events to amqp", zap.String("queue", cfg.Events.AMQPQueue))
		}
	}
	worker.StartNotificationWorker(dispatcher, service.NewNotificationService(dispatcher, logger), sinks...)

	pool := pg.PoolHandle()
	userRepo := repository.NewUserRepository(pool)
	productRepo := repository.NewProductRepository(pool)
	orderItemRepo := repository.NewOrderItemRepository(pool)
	orderRepo := repository.NewOrderRepository(pool)

	authDeps := service.AuthDependencies{UserRepo: userRepo}
	var revocations auth.RevocationChecker
	var redisProbe handlers.Pinger
	if rdb != nil {
		revocationRepo := repository.NewTokenRevocationRepository(rdb.Client)
		authDeps.RevocationRepo = revocationRepo
		revocations = revocationRepo
		redisProbe = rdb
	}

	authService := service.NewAuthService(*cfg, authDeps)
	orderService := service.NewOrderService(service.OrderDependencies{
		OrderRepo:         orderRepo,
		OrderItemRepo:     orderItemRepo,
		ProductRepo:       productRepo,
		Dispatcher:        dispatcher,
		Metrics:           metrics,
		Logger:            logger,
		MaxParallelWrites: cfg.Orders.MaxParallelWrites,
	})
	productService := service.NewProductService(productRepo)
	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), revocations, logger)

	sweeper := worker.NewOrphanSweeper(orderItemRepo, cfg.Orders.OrphanSweepInterval(), cfg.Orders.OrphanGrace(), metrics, logger)
	go sweeper.Run(ctx)

	app := fiber.New(fiber.Config{
		AppName:               cfg.App.Name,
		DisableStartupMessage: true,
	})
	httptransport.RegisterEdgeMiddlewares(app, cfg.App.CORSAllowOrigins)
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:          handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redisProbe),
		Users:           handlers.NewUsersHandler(authService),
		Orders:          handlers.NewOrdersHandler(orderService),
		Products:        handlers.NewProductsHandler(productService),
		AuthMiddleware:  authMiddleware,
		MetricsGatherer: registry,
	})

	go func() {
		logger.Info("listening", zap.String("addr", cfg.App.Addr()), zap.String("env", cfg.App.Env))
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)
	cancel()

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		logger.Warn("shutdown", zap.Error(err))
	}
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
