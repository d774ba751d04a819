// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

// The sanctions-api command serves the SDN and press release searches.
package main

import (
	"context"
	"flag"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/sanctionsexplorer/sanctions-query-service/cmd/service"
	"github.com/sanctionsexplorer/sanctions-query-service/internal/metrics"
	"github.com/sanctionsexplorer/sanctions-query-service/internal/usecase"
	logging "github.com/sanctionsexplorer/sanctions-query-service/pkg/log"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	defaultPort = "8080"
	// gracefulShutdownSeconds should be lower than the pod's
	// terminationGracePeriodSeconds.
	gracefulShutdownSeconds = 25
)

func init() {
	logging.InitStructureLogConfig()
}

func main() {
	var (
		dbgF = flag.Bool("d", false, "enable debug logging")
		port = flag.String("p", defaultPort, "listen port")
		bind = flag.String("bind", "*", "interface to bind on")
	)
	flag.Usage = func() {
		flag.PrintDefaults()
		os.Exit(2)
	}
	flag.Parse()

	if err := run(*bind, *port, *dbgF); err != nil {
		slog.Error("sanctions-api stopped", "error", err)
		os.Exit(1)
	}
}

func run(bind, port string, dbg bool) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	addr := ":" + port
	if bind != "*" {
		addr = net.JoinHostPort(bind, port)
	}
	slog.InfoContext(ctx, "starting sanctions search service",
		"addr", addr,
		"graceful-shutdown-seconds", gracefulShutdownSeconds,
	)

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	tables := service.LookupTablesImpl(ctx)
	indexClient := service.IndexClientImpl(ctx, service.SearchSource(), tables)
	defer func() {
		if err := indexClient.Close(); err != nil {
			slog.Error("failed to close index client", "error", err)
		}
	}()

	api := service.NewSanctionsAPI(
		usecase.NewSanctionsSearch(indexClient, service.SearchConfigImpl(ctx), metrics.New(registry)),
		promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
	)

	serverCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	var wg sync.WaitGroup
	errc := make(chan error, 1)
	handleHTTPServer(serverCtx, addr, api, &wg, errc, dbg)

	var runErr error
	select {
	case <-ctx.Done():
		slog.Info("received shutdown signal, stopping server")
	case runErr = <-errc:
		slog.Error("HTTP server failed", "error", runErr)
	}
	cancel()

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		slog.Info("graceful shutdown completed")
	case <-time.After(gracefulShutdownSeconds * time.Second):
		slog.Warn("graceful shutdown timed out")
	}
	return runErr
}
