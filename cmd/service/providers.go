// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"log"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/sanctionsexplorer/sanctions-query-service/internal/domain/port"
	"github.com/sanctionsexplorer/sanctions-query-service/internal/infrastructure/bleveindex"
	"github.com/sanctionsexplorer/sanctions-query-service/internal/infrastructure/elasticsearch"
	"github.com/sanctionsexplorer/sanctions-query-service/internal/infrastructure/mock"
	"github.com/sanctionsexplorer/sanctions-query-service/internal/infrastructure/opensearch"
	"github.com/sanctionsexplorer/sanctions-query-service/internal/lookup"
	"github.com/sanctionsexplorer/sanctions-query-service/internal/usecase"
	"github.com/sanctionsexplorer/sanctions-query-service/pkg/constants"
)

// Search engine backends selectable with SEARCH_SOURCE.
const (
	SourceOpenSearch    = "opensearch"
	SourceElasticsearch = "elasticsearch"
	SourceBleve         = "bleve"
	SourceMock          = "mock"
)

func envOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// SearchSource returns the configured backend name.
func SearchSource() string {
	return envOrDefault("SEARCH_SOURCE", SourceOpenSearch)
}

// LookupTablesImpl injects the lookup tables, embedded unless LOOKUP_TABLES_FILE is set
func LookupTablesImpl(ctx context.Context) *lookup.Tables {

	path := os.Getenv("LOOKUP_TABLES_FILE")
	if path == "" {
		tables, err := lookup.Default()
		if err != nil {
			log.Fatalf("failed to load embedded lookup tables: %v", err)
		}
		return tables
	}

	slog.InfoContext(ctx, "loading lookup tables", "path", path)
	file, err := os.Open(path)
	if err != nil {
		log.Fatalf("failed to open lookup tables %s: %v", path, err)
	}
	defer file.Close()

	tables, err := lookup.Load(file)
	if err != nil {
		log.Fatalf("failed to load lookup tables %s: %v", path, err)
	}
	return tables
}

// IndexClientImpl injects the index client implementation for searchSource
func IndexClientImpl(ctx context.Context, searchSource string, tables *lookup.Tables) port.IndexClient {

	var (
		indexClient port.IndexClient
		err         error
	)

	synonyms := tables.SynonymClasses()

	switch searchSource {
	case SourceMock:
		slog.InfoContext(ctx, "initializing mock index client")
		indexClient = mock.NewMockIndexClient()

	case SourceOpenSearch:
		opensearchConfig := opensearch.Config{
			URL:      envOrDefault("OPENSEARCH_URL", "http://localhost:9200"),
			Username: os.Getenv("OPENSEARCH_USERNAME"),
			Password: os.Getenv("OPENSEARCH_PASSWORD"),
		}
		if timeout := os.Getenv("OPENSEARCH_TIMEOUT"); timeout != "" {
			opensearchConfig.ResponseTimeout, err = time.ParseDuration(timeout)
			if err != nil {
				log.Fatalf("invalid OpenSearch timeout duration %s: %v", timeout, err)
			}
		}

		slog.InfoContext(ctx, "initializing opensearch index client", "url", opensearchConfig.URL)
		indexClient, err = opensearch.NewIndexClient(ctx, opensearchConfig, synonyms)
		if err != nil {
			log.Fatalf("failed to initialize OpenSearch index client: %v", err)
		}

	case SourceElasticsearch:
		elasticsearchConfig := elasticsearch.Config{
			URL:      envOrDefault("ELASTICSEARCH_URL", "http://localhost:9200"),
			Username: os.Getenv("ELASTICSEARCH_USERNAME"),
			Password: os.Getenv("ELASTICSEARCH_PASSWORD"),
		}

		slog.InfoContext(ctx, "initializing elasticsearch index client", "url", elasticsearchConfig.URL)
		indexClient, err = elasticsearch.NewIndexClient(ctx, elasticsearchConfig, synonyms)
		if err != nil {
			log.Fatalf("failed to initialize Elasticsearch index client: %v", err)
		}

	case SourceBleve:
		bleveConfig := bleveindex.Config{
			DataDir: os.Getenv("BLEVE_DATA_PATH"),
		}

		slog.InfoContext(ctx, "initializing bleve index client", "data_dir", bleveConfig.DataDir)
		indexClient, err = bleveindex.NewIndexClient(ctx, bleveConfig, synonyms)
		if err != nil {
			log.Fatalf("failed to initialize bleve index client: %v", err)
		}

	default:
		log.Fatalf("unsupported search implementation: %s", searchSource)
	}

	return indexClient
}

// SearchConfigImpl reads index names and page limits
func SearchConfigImpl(ctx context.Context) usecase.SearchConfig {

	config := usecase.SearchConfig{
		SDNIndex:          envOrDefault("SDN_INDEX", constants.DefaultSDNIndex),
		PressReleaseIndex: envOrDefault("PRESS_RELEASE_INDEX", constants.DefaultPressReleaseIndex),
	}

	if maxPageSize := os.Getenv("SEARCH_MAX_PAGE_SIZE"); maxPageSize != "" {
		value, err := strconv.Atoi(maxPageSize)
		if err != nil || value < 0 {
			log.Fatalf("invalid SEARCH_MAX_PAGE_SIZE value %s", maxPageSize)
		}
		config.MaxPageSize = value
	}

	slog.InfoContext(ctx, "search configuration",
		"sdn_index", config.SDNIndex,
		"press_release_index", config.PressReleaseIndex,
		"max_page_size", config.MaxPageSize,
	)
	return config
}
