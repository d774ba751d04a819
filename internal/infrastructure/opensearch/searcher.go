// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package opensearch

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/sanctionsexplorer/sanctions-query-service/internal/infrastructure/searchdsl"

	"github.com/opensearch-project/opensearch-go/v4"
	"github.com/opensearch-project/opensearch-go/v4/opensearchapi"
)

const backendName = "opensearch"

// NewIndexClient returns an index client backed by OpenSearch.
// synonyms are the country classes used when creating indexes.
func NewIndexClient(ctx context.Context, config Config, synonyms [][]string) (*searchdsl.IndexClient, error) {

	if config.URL == "" {
		slog.ErrorContext(ctx, "opensearch URL is required")
		return nil, fmt.Errorf("opensearch URL is required")
	}

	transport := &http.Transport{
		MaxIdleConnsPerHost:   10,
		ResponseHeaderTimeout: config.responseTimeout(),
		DialContext:           (&net.Dialer{Timeout: 3 * time.Second}).DialContext,
	}

	opensearchClient, errOpensearchClient := opensearchapi.NewClient(opensearchapi.Config{
		Client: opensearch.Config{
			Addresses: []string{config.URL},
			Username:  config.Username,
			Password:  config.Password,
			Transport: transport,
		},
	})
	if errOpensearchClient != nil {
		slog.ErrorContext(ctx, "failed to create OpenSearch client", "error", errOpensearchClient)
		return nil, fmt.Errorf("failed to create OpenSearch client: %w", errOpensearchClient)
	}

	engine := &httpClient{
		transport: transport,
		client:    opensearchClient,
	}
	return searchdsl.NewIndexClient(engine, synonyms, backendName), nil
}
