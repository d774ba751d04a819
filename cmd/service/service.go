// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/sanctionsexplorer/sanctions-query-service/internal/usecase"
	"github.com/sanctionsexplorer/sanctions-query-service/pkg/constants"

	goahttp "goa.design/goa/v3/http"
)

// MountPoint describes one mounted HTTP endpoint.
type MountPoint struct {
	Method  string
	Verb    string
	Pattern string
}

// SanctionsAPI serves the search endpoints and health checks.
type SanctionsAPI struct {
	search  usecase.SanctionsSearcher
	metrics http.Handler
}

// NewSanctionsAPI returns the HTTP service. metrics may be nil.
func NewSanctionsAPI(search usecase.SanctionsSearcher, metrics http.Handler) *SanctionsAPI {
	return &SanctionsAPI{search: search, metrics: metrics}
}

// Mount registers every endpoint on mux.
func (s *SanctionsAPI) Mount(mux goahttp.Muxer) []MountPoint {
	mounts := []MountPoint{
		{Method: "SearchSDN", Verb: http.MethodGet, Pattern: "/search/sdn"},
		{Method: "SearchPressReleases", Verb: http.MethodGet, Pattern: "/search/press-releases"},
		{Method: "Livez", Verb: http.MethodGet, Pattern: "/livez"},
		{Method: "Readyz", Verb: http.MethodGet, Pattern: "/readyz"},
	}
	mux.Handle(http.MethodGet, "/search/sdn", weblog(s.SearchSDN))
	mux.Handle(http.MethodGet, "/search/press-releases", weblog(s.SearchPressReleases))
	mux.Handle(http.MethodGet, "/livez", s.Livez)
	mux.Handle(http.MethodGet, "/readyz", s.Readyz)

	if s.metrics != nil {
		mux.Handle(http.MethodGet, "/metrics", s.metrics.ServeHTTP)
		mounts = append(mounts, MountPoint{Method: "Metrics", Verb: http.MethodGet, Pattern: "/metrics"})
	}
	return mounts
}

// SearchSDN searches sanctioned entries by field.
func (s *SanctionsAPI) SearchSDN(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	criteria, err := queryToCriteria(r.URL.Query())
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := s.search.SearchSDN(ctx, criteria)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	encode(ctx, w, http.StatusOK, domainResultToResponse(result))
}

// SearchPressReleases searches press releases by free text.
func (s *SanctionsAPI) SearchPressReleases(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	criteria, err := queryToPressReleaseCriteria(r.URL.Query())
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := s.search.SearchPressReleases(ctx, criteria)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	encode(ctx, w, http.StatusOK, domainResultToResponse(result))
}

// Check if the service is able to take inbound requests.
func (s *SanctionsAPI) Readyz(w http.ResponseWriter, r *http.Request) {
	if err := s.search.IsReady(r.Context()); err != nil {
		slog.ErrorContext(r.Context(), "readyz failed", "error", err)
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("NOT READY\n"))
		return
	}
	_, _ = w.Write([]byte("OK\n"))
}

// Check if the service is alive.
func (s *SanctionsAPI) Livez(w http.ResponseWriter, r *http.Request) {
	// This always returns as long as the service is still running.
	_, _ = w.Write([]byte("OK\n"))
}

// weblog records the raw query and the forwarded client address of every
// search request.
func weblog(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slog.InfoContext(r.Context(), "search request",
			"path", r.URL.Path,
			"query", map[string][]string(r.URL.Query()),
			"forwarded_for", r.Header.Get(constants.ForwardedForHeader),
		)
		next(w, r)
	}
}

func writeError(ctx context.Context, w http.ResponseWriter, err error) {
	status, body := wrapError(ctx, err)
	encode(ctx, w, status, body)
}

func encode(ctx context.Context, w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := goahttp.ResponseEncoder(ctx, w).Encode(v); err != nil {
		slog.ErrorContext(ctx, "failed to encode response", "error", err)
	}
}
