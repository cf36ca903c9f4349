package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/bookport/bookport/internal/auth"
	"github.com/bookport/bookport/internal/catalog"
	"github.com/bookport/bookport/internal/config"
	"github.com/bookport/bookport/internal/httpx"
	kafkax "github.com/bookport/bookport/internal/kafka"
	"github.com/bookport/bookport/internal/ledger"
	"github.com/bookport/bookport/internal/orders"
	"github.com/bookport/bookport/internal/payment"
	"github.com/bookport/bookport/internal/postgres"
	"github.com/bookport/bookport/internal/redisx"
	"github.com/bookport/bookport/internal/tracking"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	log, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer log.Sync()
	log = log.With(zap.String("service", cfg.ServiceName))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := postgres.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		log.Fatal("postgres connect", zap.Error(err))
	}
	defer pool.Close()

	if err := postgres.Migrate(cfg.PostgresDSN, cfg.MigrationsDir); err != nil {
		log.Fatal("migrations", zap.Error(err))
	}

	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	// Producers outlive the signal context: handlers still publish while the
	// http server drains, so they are flushed explicitly after Shutdown.
	prod := kafkax.NewProducer(cfg.KafkaBrokers, orders.TopicReceiptRequested, 1024)
	prod.Start(context.Background())
	statusProd := kafkax.NewProducer(cfg.KafkaBrokers, orders.TopicOrderStatus, 1024)
	statusProd.Start(context.Background())

	tokens := auth.NewTokens(cfg.JWTSecret, cfg.TokenTTL)
	users := &auth.Repo{DB: pool}
	books := &catalog.Repo{DB: pool}
	orderRepo := &orders.Repo{DB: pool}

	gateway := payment.NewSnapClient(cfg.MidtransBaseURL, cfg.MidtransServerKey)
	checkout := &orders.CheckoutService{
		DB:          pool,
		Orders:      orderRepo,
		Gateway:     gateway,
		FrontendURL: cfg.FrontendURL,
		Log:         log,
	}
	reconciler := &orders.Reconciler{
		DB:          pool,
		Redis:       rdb,
		Producer:    prod,
		Status:      statusProd,
		ServerKey:   cfg.MidtransServerKey,
		ServiceName: cfg.ServiceName,
		Log:         log,
	}

	store := &tracking.RedisStore{RDB: rdb}
	feed := tracking.NewFeed(store, rdb, log)
	fulfillment := &orders.FulfillmentService{DB: pool, Feed: feed, Log: log}

	notary := ledger.NewClient(cfg.LedgerURL, cfg.LedgerAPIKey)

	api := &httpx.API{
		Tokens:  tokens,
		Auth:    &httpx.AuthHandler{Users: users, Tokens: tokens, Log: log},
		Catalog: &httpx.CatalogHandler{Books: books},
		Orders: &httpx.OrdersHandler{
			Repo:     orderRepo,
			Checkout: checkout,
			Tracking: store,
			Log:      log,
		},
		Webhook: &httpx.WebhookHandler{Reconciler: reconciler, Log: log},
		Admin: &httpx.AdminHandler{
			Books:       books,
			Orders:      orderRepo,
			Fulfillment: fulfillment,
			Notary:      notary,
			NotaryWait:  cfg.NotaryTimeout,
			Log:         log,
		},
	}

	r := httpx.NewRouter()
	api.Register(r)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info("http listening", zap.String("addr", cfg.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("http server", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warn("http shutdown", zap.Error(err))
	}

	feed.Shutdown()
	prod.Close()
	statusProd.Close()
	prod.WaitClosed()
	statusProd.WaitClosed()
	log.Info("bye")
}
