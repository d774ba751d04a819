// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/sanctionsexplorer/sanctions-query-service/cmd/service"
	"github.com/sanctionsexplorer/sanctions-query-service/internal/middleware"

	"goa.design/clue/debug"
	goahttp "goa.design/goa/v3/http"
)

const (
	readHeaderTimeout = 10 * time.Second
	shutdownTimeout   = 20 * time.Second
)

// newHandler mounts the API on a goa muxer. In debug mode pprof, the log
// level toggle and request/response logging are added.
func newHandler(ctx context.Context, api *service.SanctionsAPI, dbg bool) http.Handler {
	mux := goahttp.NewMuxer()
	if dbg {
		debug.MountPprofHandlers(debug.Adapt(mux))
		debug.MountDebugLogEnabler(debug.Adapt(mux))
	}

	for _, m := range api.Mount(mux) {
		slog.InfoContext(ctx, "HTTP endpoint mounted",
			"method", m.Method,
			"verb", m.Verb,
			"pattern", m.Pattern,
		)
	}

	var handler http.Handler = mux
	if dbg {
		handler = debug.HTTP()(handler)
	}
	// outermost so debug logs carry the request id
	return middleware.RequestIDMiddleware()(handler)
}

// handleHTTPServer serves the API on host until ctx is canceled, then
// drains in-flight searches. Listen errors are sent on errc.
func handleHTTPServer(ctx context.Context, host string, api *service.SanctionsAPI, wg *sync.WaitGroup, errc chan error, dbg bool) {
	srv := &http.Server{
		Addr:              host,
		Handler:           newHandler(ctx, api, dbg),
		ReadHeaderTimeout: readHeaderTimeout,
	}

	wg.Add(1)
	go func() {
		defer wg.Done()

		go func() {
			slog.InfoContext(ctx, "HTTP server listening", "host", host)
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				errc <- err
			}
		}()

		<-ctx.Done()
		slog.InfoContext(ctx, "shutting down HTTP server", "host", host)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.ErrorContext(shutdownCtx, "failed to shutdown HTTP server", "error", err)
		}
	}()
}
