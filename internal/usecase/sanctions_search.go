// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/sanctionsexplorer/sanctions-query-service/internal/domain/model"
	"github.com/sanctionsexplorer/sanctions-query-service/internal/domain/port"
	"github.com/sanctionsexplorer/sanctions-query-service/internal/metrics"
	"github.com/sanctionsexplorer/sanctions-query-service/internal/query"
	"github.com/sanctionsexplorer/sanctions-query-service/internal/validation"
	"github.com/sanctionsexplorer/sanctions-query-service/pkg/constants"
	"github.com/sanctionsexplorer/sanctions-query-service/pkg/errors"
)

// SanctionsSearcher defines the search operations exposed over HTTP
type SanctionsSearcher interface {
	// SearchSDN searches the SDN index with field filters
	SearchSDN(ctx context.Context, criteria model.SearchCriteria) (*model.SearchResult, error)

	// SearchPressReleases runs a free-text search over press releases
	SearchPressReleases(ctx context.Context, criteria model.PressReleaseCriteria) (*model.SearchResult, error)

	// IsReady checks if the search engine is ready
	IsReady(ctx context.Context) error
}

// SearchConfig holds the index names and page limits of the search use case.
type SearchConfig struct {
	SDNIndex          string
	PressReleaseIndex string
	// MaxPageSize caps the page size; zero means unbounded.
	MaxPageSize int
}

func (c SearchConfig) withDefaults() SearchConfig {
	if c.SDNIndex == "" {
		c.SDNIndex = constants.DefaultSDNIndex
	}
	if c.PressReleaseIndex == "" {
		c.PressReleaseIndex = constants.DefaultPressReleaseIndex
	}
	return c
}

// SanctionsSearch builds engine queries from request parameters and runs them
type SanctionsSearch struct {
	searcher  port.IndexSearcher
	validator *validation.Validator
	metrics   *metrics.Metrics
	config    SearchConfig
}

// SearchSDN builds the boolean query for the SDN index. A request without any
// recognized parameter is rejected before reaching the engine.
func (s *SanctionsSearch) SearchSDN(ctx context.Context, criteria model.SearchCriteria) (*model.SearchResult, error) {

	slog.DebugContext(ctx, "starting sdn search",
		"params", len(criteria.Params),
		"size", criteria.Size,
		"from", criteria.From,
	)

	if err := s.validator.Validate(criteria); err != nil {
		s.metrics.ObserveSearch(s.config.SDNIndex, metrics.OutcomeInvalid, 0, 0)
		return nil, err
	}

	q := query.SDN(criteria.Params)
	if q.IsEmpty() {
		s.metrics.ObserveSearch(s.config.SDNIndex, metrics.OutcomeInvalid, 0, 0)
		return nil, errors.NewValidation("at least one recognized search parameter must be provided")
	}

	return s.search(ctx, s.config.SDNIndex, q, criteria.Page)
}

// SearchPressReleases matches text against press release content and titles.
func (s *SanctionsSearch) SearchPressReleases(ctx context.Context, criteria model.PressReleaseCriteria) (*model.SearchResult, error) {
	criteria.Query = strings.TrimSpace(criteria.Query)

	slog.DebugContext(ctx, "starting press release search",
		"query", criteria.Query,
		"size", criteria.Size,
		"from", criteria.From,
	)

	if err := s.validator.Validate(criteria); err != nil {
		s.metrics.ObserveSearch(s.config.PressReleaseIndex, metrics.OutcomeInvalid, 0, 0)
		return nil, err
	}

	return s.search(ctx, s.config.PressReleaseIndex, query.PressReleases(criteria.Query), criteria.Page)
}

func (s *SanctionsSearch) search(ctx context.Context, index string, q model.BoolQuery, page model.Page) (*model.SearchResult, error) {
	size := page.Size
	if s.config.MaxPageSize > 0 && size > s.config.MaxPageSize {
		slog.DebugContext(ctx, "page size capped", "requested", size, "max", s.config.MaxPageSize)
		size = s.config.MaxPageSize
	}

	start := time.Now()
	result, err := s.searcher.Search(ctx, index, model.SearchRequest{
		Query: q,
		Size:  size,
		From:  page.From,
	})
	if err != nil {
		s.metrics.ObserveSearch(index, metrics.OutcomeError, time.Since(start), 0)
		slog.ErrorContext(ctx, "search failed", "index", index, "error", err)
		return nil, fmt.Errorf("search operation failed: %w", err)
	}
	s.metrics.ObserveSearch(index, metrics.OutcomeOK, time.Since(start), len(result.Hits))

	slog.DebugContext(ctx, "search completed",
		"index", index,
		"hits", len(result.Hits),
		"total", result.Total,
	)
	return result, nil
}

func (s *SanctionsSearch) IsReady(ctx context.Context) error {
	return s.searcher.IsReady(ctx)
}

// NewSanctionsSearch creates a new SanctionsSearch instance
func NewSanctionsSearch(searcher port.IndexSearcher, config SearchConfig, m *metrics.Metrics) SanctionsSearcher {
	return &SanctionsSearch{
		searcher:  searcher,
		validator: validation.New(),
		metrics:   m,
		config:    config.withDefaults(),
	}
}
