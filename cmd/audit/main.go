package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/ariefcatur/go-laptop-shop/internal/audit"
	"github.com/ariefcatur/go-laptop-shop/internal/config"
	kafkax "github.com/ariefcatur/go-laptop-shop/internal/kafka"
	"github.com/ariefcatur/go-laptop-shop/internal/logx"
	"github.com/ariefcatur/go-laptop-shop/internal/mongox"
	"github.com/ariefcatur/go-laptop-shop/internal/orders"
	"github.com/ariefcatur/go-laptop-shop/internal/redisx"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	logx.Setup(cfg.Env)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	client, err := mongox.Connect(ctx, cfg.MongoURI)
	if err != nil {
		slog.Error("mongo connect", "err", err)
		os.Exit(1)
	}
	defer func() { _ = client.Disconnect(context.Background()) }()

	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	svc := audit.NewService(client.Database(cfg.MongoDB), rdb, cfg.ServiceName+"-audit")

	group := getenv("AUDIT_GROUP", "order-audit")
	workers := mustAtoi(os.Getenv("AUDIT_WORKERS"), 4)
	cons := kafkax.NewConsumer(cfg.KafkaBrokers, group, orders.Topics, workers)

	done := make(chan struct{})
	go func() {
		defer close(done)
		slog.Info("audit consumer started", "group", group, "workers", workers)
		if err := cons.Start(ctx, svc.HandleEvent); err != nil {
			slog.Error("consumer exit", "err", err)
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	slog.Info("shutting down consumer...")
	cancel()
	<-done
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func mustAtoi(s string, def int) int {
	if s == "" {
		return def
	}
	i, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return i
}
