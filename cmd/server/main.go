package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	kafkaevents "github.com/ogurasousui/grpc-employee-records/internal/adapters/events/kafka"
	rabbitevents "github.com/ogurasousui/grpc-employee-records/internal/adapters/events/rabbitmq"
	"github.com/ogurasousui/grpc-employee-records/internal/adapters/httpapi"
	"github.com/ogurasousui/grpc-employee-records/internal/adapters/repository/memory"
	"github.com/ogurasousui/grpc-employee-records/internal/adapters/repository/postgres"
	redisrepo "github.com/ogurasousui/grpc-employee-records/internal/adapters/repository/redis"
	"github.com/ogurasousui/grpc-employee-records/internal/core/employee"
	"github.com/ogurasousui/grpc-employee-records/internal/platform/config"
	pg "github.com/ogurasousui/grpc-employee-records/internal/platform/db/postgres"
	"github.com/ogurasousui/grpc-employee-records/internal/platform/logger"
	"github.com/ogurasousui/grpc-employee-records/internal/platform/server"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func main() {
	os.Exit(serve())
}

// serve はプロセス全体を実行して終了コードを返します。defer による後始末は終了前に実行されます。
func serve() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "assets/local.yaml"
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Printf("failed to load config: %v", err)
		return 1
	}

	l, err := logger.New(cfg.Log)
	if err != nil {
		log.Printf("failed to initialize logger: %v", err)
		return 1
	}
	defer func() { _ = l.Sync() }()

	if err := run(ctx, cfg, l); err != nil {
		l.Error("server stopped with error", zap.Error(err))
		return 1
	}
	return 0
}

func run(ctx context.Context, cfg *config.Config, l *zap.Logger) error {
	repo, tx, closeStorage, err := openStorage(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStorage()

	publisher, closePublisher, err := openPublisher(cfg.Events)
	if err != nil {
		return err
	}
	defer closePublisher()

	svc := employee.NewService(repo, nil, tx,
		employee.WithEventPublisher(publisher),
		employee.WithLogger(l),
	)

	l.Info("starting employee records service",
		zap.String("storage", cfg.Storage.Driver),
		zap.String("events", cfg.Events.Driver),
	)

	g, gctx := errgroup.WithContext(ctx)

	grpcServer := server.New(cfg.Server.ListenAddr, svc, l)
	g.Go(func() error {
		return grpcServer.Run(gctx)
	})

	if cfg.HTTP.ListenAddr != "" {
		httpServer := server.NewHTTP(cfg.HTTP, httpapi.NewHandler(svc, l).Routes(), l)
		g.Go(func() error {
			return httpServer.Run(gctx)
		})
	}

	return g.Wait()
}

// openStorage は storage.driver に応じてリポジトリとトランザクション管理を構築します。
func openStorage(ctx context.Context, cfg *config.Config) (employee.Repository, employee.TransactionManager, func(), error) {
	switch cfg.Storage.Driver {
	case config.StoragePostgres:
		pool, err := pg.NewPool(ctx, cfg.Database)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("initialize database pool: %w", err)
		}
		return postgres.NewEmployeeRepository(pool), pg.NewTransactionManager(pool), pool.Close, nil
	case config.StorageRedis:
		client := goredis.NewClient(&goredis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, nil, nil, fmt.Errorf("connect redis: %w", err)
		}
		closeFn := func() { _ = client.Close() }
		return redisrepo.NewEmployeeRepository(client, cfg.Redis.KeyPrefix),
			redisrepo.NewTransactionManager(client, cfg.Redis.KeyPrefix), closeFn, nil
	default:
		store := memory.NewEmployeeRepository()
		return store, memory.NewTransactionManager(store), func() {}, nil
	}
}

// openPublisher は events.driver に応じてイベント発行先を構築します。
func openPublisher(cfg config.EventsConfig) (employee.EventPublisher, func(), error) {
	switch cfg.Driver {
	case config.EventsKafka:
		p := kafkaevents.NewPublisher(cfg.Kafka)
		return p, func() { _ = p.Close() }, nil
	case config.EventsRabbitMQ:
		p, err := rabbitevents.Dial(cfg.RabbitMQ)
		if err != nil {
			return nil, nil, err
		}
		return p, func() { _ = p.Close() }, nil
	default:
		return nil, func() {}, nil
	}
}
