package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/ariefcatur/go-laptop-shop/internal/auth"
	"github.com/ariefcatur/go-laptop-shop/internal/catalog"
	"github.com/ariefcatur/go-laptop-shop/internal/config"
	"github.com/ariefcatur/go-laptop-shop/internal/httpx"
	kafkax "github.com/ariefcatur/go-laptop-shop/internal/kafka"
	"github.com/ariefcatur/go-laptop-shop/internal/logx"
	"github.com/ariefcatur/go-laptop-shop/internal/mongox"
	"github.com/ariefcatur/go-laptop-shop/internal/orders"
	"github.com/ariefcatur/go-laptop-shop/internal/redisx"
	"github.com/ariefcatur/go-laptop-shop/internal/reports"
	"github.com/ariefcatur/go-laptop-shop/internal/users"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	logx.Setup(cfg.Env)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Mongo
	client, err := mongox.Connect(ctx, cfg.MongoURI)
	if err != nil {
		slog.Error("mongo connect", "err", err)
		os.Exit(1)
	}
	defer func() { _ = client.Disconnect(context.Background()) }()
	db := client.Database(cfg.MongoDB)

	// Redis
	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	// Kafka producer for order events
	prod := kafkax.NewProducer(cfg.KafkaBrokers, 1024)
	prod.Start(ctx)

	// Stores and services
	tokens := auth.NewTokens(cfg.JWTSecret)
	catalogStore := catalog.NewStore(db)
	userStore := users.NewStore(db)
	if err := userStore.EnsureIndexes(ctx); err != nil {
		slog.Warn("ensure user indexes", "err", err)
	}
	orderSvc := &orders.Service{
		Catalog: catalogStore,
		Store:   orders.NewMongoStore(db),
		Pub:     prod,
		Name:    cfg.ServiceName,
		Strict:  cfg.StrictStatusFlow,
	}

	// Router
	router := httpx.NewRouter()
	(&httpx.CatalogHandler{Store: catalogStore, Tokens: tokens}).Register(router)
	(&httpx.OrdersHandler{Service: orderSvc, Tokens: tokens}).Register(router)
	(&httpx.ReportsHandler{Agg: reports.NewAggregator(db), Redis: rdb, Tokens: tokens}).Register(router)
	(&httpx.UsersHandler{Store: userStore, Tokens: tokens}).Register(router)

	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: router}

	go func() {
		slog.Info("HTTP listening", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("listen", "err", err)
			os.Exit(1)
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	slog.Info("shutting down...")

	ctx2, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel2()
	_ = srv.Shutdown(ctx2)
	prod.Close()      // close inbox -> flush & close writer
	prod.WaitClosed() // drain
}
