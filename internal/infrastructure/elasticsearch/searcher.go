// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package elasticsearch

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sanctionsexplorer/sanctions-query-service/internal/infrastructure/searchdsl"

	"github.com/elastic/go-elasticsearch/v8"
)

const backendName = "elasticsearch"

// Config represents Elasticsearch configuration
type Config struct {
	URL      string
	Username string
	Password string
}

// NewIndexClient creates an index client backed by Elasticsearch
func NewIndexClient(ctx context.Context, config Config, synonyms [][]string) (*searchdsl.IndexClient, error) {
	if config.URL == "" {
		return nil, fmt.Errorf("elasticsearch URL is required")
	}

	es, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{config.URL},
		Username:  config.Username,
		Password:  config.Password,
	})
	if err != nil {
		slog.ErrorContext(ctx, "failed to create Elasticsearch client", "error", err)
		return nil, fmt.Errorf("failed to create Elasticsearch client: %w", err)
	}

	slog.DebugContext(ctx, "elasticsearch client created", "url", config.URL)

	return searchdsl.NewIndexClient(&HTTPClient{es: es}, synonyms, backendName), nil
}
