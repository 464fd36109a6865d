package app

import (
	"context"
	"database/sql"
	"time"

	"github.com/gin-gonic/gin"
	_ "github.com/go-sql-driver/mysql"
	"github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"github.com/rma010101/ecommerce-fullstack/configs"
	"github.com/rma010101/ecommerce-fullstack/internal/adapter/cache"
	"github.com/rma010101/ecommerce-fullstack/internal/adapter/http"
	"github.com/rma010101/ecommerce-fullstack/internal/adapter/http/middleware"
	"github.com/rma010101/ecommerce-fullstack/internal/adapter/kafka"
	"github.com/rma010101/ecommerce-fullstack/internal/adapter/queue"
	"github.com/rma010101/ecommerce-fullstack/internal/adapter/repo"
	"github.com/rma010101/ecommerce-fullstack/internal/logging"
	"github.com/rma010101/ecommerce-fullstack/internal/usecase"
)

type App struct {
	Router *gin.Engine
}

func InitWithConfig(cfg configs.Config) (*App, func(), error) {
	logFile := cfg.App.LogFile
	if logFile == "" {
		logFile = "./logs/app.log"
	}
	logger := logging.Init(cfg.App.Name, logFile)

	// init database
	db, err := sql.Open("mysql", cfg.MySQL.DSN)
	if err != nil {
		return nil, nil, err
	}
	db.SetConnMaxLifetime(cfg.MySQL.ConnMaxLifetime)
	db.SetMaxOpenConns(cfg.MySQL.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MySQL.MaxIdleConns)

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	if err := db.PingContext(ctx); err != nil {
		cancel()
		return nil, nil, err
	}
	cancel()

	logger.Info("inventory-api: starting up")

	// init redis
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       0,
	})
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		return nil, nil, err
	}

	// init rabbitmq
	conn, err := amqp091.Dial(cfg.Rabbit.URL)
	if err != nil {
		return nil, nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		return nil, nil, err
	}
	producer, err := queue.NewRabbitProducer(ch)
	if err != nil {
		return nil, nil, err
	}

	// infra
	productRepo := repo.NewMySQLProductRepo(db)
	orderRepo := repo.NewMySQLOrderRepo(db)
	userRepo := repo.NewMySQLUserRepo(db)
	auditRepo := repo.NewMySQLAuditRepo(db)
	productCache := cache.NewRedisProductCache(rdb, cfg.Cache.ProductTTL)
	rateCounter := cache.NewRedisRateCounter(rdb, cfg.RateLimit.Window)

	// services
	tokens := usecase.TokenSettings{
		Secret:   cfg.Security.JWTSecret,
		Issuer:   cfg.Security.Issuer,
		Audience: cfg.Security.Audience,
		TTL:      cfg.Security.TTL,
	}
	ledger := usecase.NewInventoryLedger(productRepo)
	products := usecase.NewProducts(productRepo, productCache, logging.New("products"))
	orders := usecase.NewOrders(orderRepo, userRepo, ledger, producer, logging.New("orders"))
	auth := usecase.NewAuth(userRepo, tokens, logging.New("auth"))
	audit := usecase.NewAudit(auditRepo)

	// payment events in from kafka
	consumerCtx, stopConsumer := context.WithCancel(context.Background())
	if err := startPaymentConsumer(consumerCtx, cfg, orders); err != nil {
		stopConsumer()
		return nil, nil, err
	}

	// init handlers + router + middleware
	h := http.Handlers{
		Products: http.NewProductHandler(products),
		Orders:   http.NewOrderHandler(orders),
		Auth:     http.NewAuthHandler(auth),
		Audit:    http.NewAuditHandler(audit),
	}
	authz := middleware.NewAuthz(tokens)
	limits := http.RateLimits{
		Default: cfg.RateLimit.Default,
		Bulk:    cfg.RateLimit.Bulk,
		Search:  cfg.RateLimit.Search,
	}
	router := http.NewRouter(h, authz, audit, rateCounter, limits)

	cleanup := func() {
		stopConsumer()
		_ = ch.Close()
		_ = conn.Close()
		_ = rdb.Close()
		_ = db.Close()
	}

	return &App{Router: router}, cleanup, nil
}

func startPaymentConsumer(ctx context.Context, cfg configs.Config, orders *usecase.Orders) error {
	if len(cfg.Kafka.Brokers) == 0 {
		// Payment ingestion is optional in local setups.
		return nil
	}
	grp, err := kafka.NewGroup(cfg.Kafka.Brokers, cfg.Kafka.ConsumerGroup)
	if err != nil {
		return err
	}

	h := kafka.NewPaymentEventHandler(orders)
	log := logging.New("kafka")
	consumer := kafka.NewConsumer(grp, []string{cfg.Kafka.PaymentTopic}, h.Handle, log)

	go func() {
		if err := consumer.Start(ctx); err != nil && ctx.Err() == nil {
			log.Error("payment consumer stopped", "err", err)
		}
	}()
	return nil
}
