package main

import (
	"context"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/bookport/bookport/internal/config"
	kafkax "github.com/bookport/bookport/internal/kafka"
	"github.com/bookport/bookport/internal/ledger"
	"github.com/bookport/bookport/internal/notarize"
	"github.com/bookport/bookport/internal/orders"
	"github.com/bookport/bookport/internal/postgres"
	"github.com/bookport/bookport/internal/redisx"
	"github.com/bookport/bookport/internal/sweeper"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	log, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer log.Sync()
	log = log.With(zap.String("service", "bookport-worker"))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := postgres.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		log.Fatal("postgres connect", zap.Error(err))
	}
	defer pool.Close()

	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	workers := 4
	if v := os.Getenv("NOTARIZE_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			workers = n
		}
	}

	svc := &notarize.Service{
		Repo:        &orders.Repo{DB: pool},
		Queue:       &ledger.RetryQueue{DB: pool},
		Notary:      ledger.NewClient(cfg.LedgerURL, cfg.LedgerAPIKey),
		Redis:       rdb,
		Timeout:     cfg.NotaryTimeout,
		ServiceName: "bookport-worker",
		Log:         log,
	}

	sw := &sweeper.Sweeper{
		Repo:     &orders.Repo{DB: pool},
		Interval: cfg.SweepInterval,
		MaxAge:   cfg.OrderMaxAge,
		Log:      log,
	}
	go sw.Run(ctx)

	cons := kafkax.NewConsumer(cfg.KafkaBrokers, "notarize-svc", orders.TopicReceiptRequested, workers, log)
	log.Info("worker consuming",
		zap.String("topic", orders.TopicReceiptRequested), zap.Int("workers", workers))
	if err := cons.Start(ctx, svc.HandleReceiptRequested); err != nil {
		log.Fatal("consumer stopped", zap.Error(err))
	}
	log.Info("bye")
}
