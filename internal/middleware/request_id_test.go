// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sanctionsexplorer/sanctions-query-service/pkg/log"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestIDMiddleware(t *testing.T) {
	tests := []struct {
		name       string
		incoming   string
		wantReused bool
	}{
		{
			name:       "generates an id for a bare search request",
			incoming:   "",
			wantReused: false,
		},
		{
			name:       "keeps the id set by the proxy",
			incoming:   "sdn-search-42",
			wantReused: true,
		},
		{
			name:       "keeps a uuid set by the proxy",
			incoming:   "550e8400-e29b-41d4-a716-446655440000",
			wantReused: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assertion := assert.New(t)

			var logs bytes.Buffer
			logger := slog.New(log.NewHandler(&logs, "json", nil))

			var seen string
			handler := RequestIDMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				seen = RequestIDFromContext(r.Context())
				logger.InfoContext(r.Context(), "searching sdn")
				w.WriteHeader(http.StatusOK)
			}))

			req := httptest.NewRequest(http.MethodGet, "/search/sdn?countries=cuba", nil)
			if tc.incoming != "" {
				req.Header.Set(RequestIDHeader, tc.incoming)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assertion.Equal(http.StatusOK, rec.Code)
			assertion.Equal(seen, rec.Header().Get(RequestIDHeader))
			if tc.wantReused {
				assertion.Equal(tc.incoming, seen)
			} else {
				_, err := uuid.Parse(seen)
				assertion.NoError(err)
			}

			var line map[string]any
			require.NoError(t, json.Unmarshal(logs.Bytes(), &line))
			assertion.Equal(seen, line["request_id"])
		})
	}
}

func TestRequestIDsAreDistinct(t *testing.T) {
	handler := RequestIDMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	ids := make(map[string]struct{})
	for range 20 {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/search/press-releases?query=airline", nil))
		ids[rec.Header().Get(RequestIDHeader)] = struct{}{}
	}
	assert.Len(t, ids, 20)
}

func TestRequestIDFromContextWithoutMiddleware(t *testing.T) {
	assert.Empty(t, RequestIDFromContext(context.Background()))
}
