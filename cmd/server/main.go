package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"github.com/artem-burashnikov/grpc-rendezvous/internal/config"
	"github.com/artem-burashnikov/grpc-rendezvous/internal/logger"
	"github.com/artem-burashnikov/grpc-rendezvous/internal/metrics"
	"github.com/artem-burashnikov/grpc-rendezvous/internal/server"
	"github.com/artem-burashnikov/grpc-rendezvous/pkg/rendezvous"
)

func Must[T any](obj T, err error) T {
	if err != nil {
		panic(err)
	}
	return obj
}

func main() {
	const defaultConfigPath = "config.yaml"

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = defaultConfigPath
	}

	cfg := Must(config.Load(configPath))

	log := logger.NewZap(cfg.App.Environment)
	defer log.Sync()

	hub := rendezvous.NewHub[[]byte](cfg.Rendezvous.Shards)

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(reg, hub.Len)

	s := server.New(cfg, log.With("app", cfg.App.Name, "version", cfg.App.Version), hub, m)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := s.Run(ctx); err != nil {
		log.Fatal("server failed", zap.Error(err))
	}
}
