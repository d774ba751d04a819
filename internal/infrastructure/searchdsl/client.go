// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package searchdsl

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/sanctionsexplorer/sanctions-query-service/internal/domain/model"
	"github.com/sanctionsexplorer/sanctions-query-service/internal/domain/port"
)

// Engine is the transport to an Elasticsearch-compatible engine.
// This allows for easy mocking and testing
type Engine interface {
	Search(ctx context.Context, index string, body []byte) (*SearchResponse, error)
	Bulk(ctx context.Context, index string, body []byte) (*BulkResponse, error)
	CreateIndex(ctx context.Context, name string, body []byte) error
	DeleteIndex(ctx context.Context, name string) error
	IndexExists(ctx context.Context, name string) (bool, error)
	Stats(ctx context.Context, name string) (*StatsResponse, error)
	Ping(ctx context.Context) error
	Close() error
}

// IndexClient implements port.IndexClient on top of an Engine.
type IndexClient struct {
	engine   Engine
	synonyms [][]string
	backend  string
}

// NewIndexClient returns an IndexClient. synonyms are the country classes
// used by the analyzer of created indexes; backend names the engine in logs.
func NewIndexClient(engine Engine, synonyms [][]string, backend string) *IndexClient {
	return &IndexClient{
		engine:   engine,
		synonyms: synonyms,
		backend:  backend,
	}
}

var _ port.IndexClient = (*IndexClient)(nil)

// DeleteIndex removes the index. A missing index is logged and ignored.
func (c *IndexClient) DeleteIndex(ctx context.Context, name string) error {
	slog.InfoContext(ctx, "deleting index", "backend", c.backend, "index", name)

	exists, err := c.engine.IndexExists(ctx, name)
	if err != nil {
		slog.ErrorContext(ctx, "failed to check index", "index", name, "error", err)
		return fmt.Errorf("failed to check index %s: %w", name, err)
	}
	if !exists {
		slog.WarnContext(ctx, "index does not exist, nothing to delete", "index", name)
		return nil
	}

	if err := c.engine.DeleteIndex(ctx, name); err != nil {
		slog.ErrorContext(ctx, "failed to delete index", "index", name, "error", err)
		return fmt.Errorf("failed to delete index %s: %w", name, err)
	}
	return nil
}

// CreateIndex creates the index with the synonym analyzer. An index that
// already exists, including one created concurrently, is success.
func (c *IndexClient) CreateIndex(ctx context.Context, name string) error {
	slog.InfoContext(ctx, "creating index", "backend", c.backend, "index", name)

	exists, err := c.engine.IndexExists(ctx, name)
	if err != nil {
		slog.ErrorContext(ctx, "failed to check index", "index", name, "error", err)
		return fmt.Errorf("failed to check index %s: %w", name, err)
	}
	if exists {
		slog.InfoContext(ctx, "index already exists", "index", name)
		return nil
	}

	body, err := RenderIndexBody(c.synonyms)
	if err != nil {
		return err
	}

	errCreate := c.engine.CreateIndex(ctx, name, body)
	if errCreate == nil {
		return nil
	}

	exists, err = c.engine.IndexExists(ctx, name)
	if err == nil && exists {
		slog.InfoContext(ctx, "index was created concurrently", "index", name, "error", errCreate)
		return nil
	}
	slog.ErrorContext(ctx, "failed to create index", "index", name, "error", errCreate)
	return fmt.Errorf("failed to create index %s: %w", name, errCreate)
}

// BulkAdd indexes docs in a single bulk call.
func (c *IndexClient) BulkAdd(ctx context.Context, index string, docs []model.Document, idField string) (*model.BulkResult, error) {
	slog.InfoContext(ctx, "bulk loading", "index", index, "documents", len(docs))
	if len(docs) == 0 {
		return &model.BulkResult{}, nil
	}

	body, err := RenderBulkIndex(docs, idField)
	if err != nil {
		return nil, err
	}
	return c.bulk(ctx, index, OpIndex, body)
}

// BulkUpdate applies partial updates in a single bulk call.
func (c *IndexClient) BulkUpdate(ctx context.Context, index string, ops []model.UpdateOperation) (*model.BulkResult, error) {
	slog.InfoContext(ctx, "bulk updating", "index", index, "operations", len(ops))
	if len(ops) == 0 {
		return &model.BulkResult{}, nil
	}

	body, err := RenderBulkUpdate(ops)
	if err != nil {
		return nil, err
	}
	return c.bulk(ctx, index, OpUpdate, body)
}

func (c *IndexClient) bulk(ctx context.Context, index, op string, body []byte) (*model.BulkResult, error) {
	response, err := c.engine.Bulk(ctx, index, body)
	if err != nil {
		slog.ErrorContext(ctx, "bulk request failed", "index", index, "op", op, "error", err)
		return nil, fmt.Errorf("bulk %s on index %s failed: %w", op, index, err)
	}

	result, err := response.Outcome(index, op)
	if err != nil {
		var bulkErr *model.BulkError
		if errors.As(err, &bulkErr) {
			slog.ErrorContext(ctx, "bulk items failed",
				"index", index,
				"op", op,
				"failed", bulkErr.Total,
				"first_failures", bulkErr.Failures,
			)
		}
	}
	return result, err
}

// IndexingStats returns the cumulative indexing counter of the index.
func (c *IndexClient) IndexingStats(ctx context.Context, name string) (int64, error) {
	stats, err := c.engine.Stats(ctx, name)
	if err != nil {
		slog.ErrorContext(ctx, "failed to read index stats", "index", name, "error", err)
		return 0, fmt.Errorf("failed to read stats of index %s: %w", name, err)
	}
	return stats.IndexTotal(name)
}

// Search executes the query and converts hits in engine order.
func (c *IndexClient) Search(ctx context.Context, index string, req model.SearchRequest) (*model.SearchResult, error) {
	body, err := RenderSearch(req)
	if err != nil {
		slog.ErrorContext(ctx, "failed to render query", "error", err)
		return nil, fmt.Errorf("failed to render query: %w", err)
	}

	slog.DebugContext(ctx, "executing search",
		"backend", c.backend,
		"index", index,
		"query", string(body),
	)

	response, err := c.engine.Search(ctx, index, body)
	if err != nil {
		return nil, fmt.Errorf("%s search failed: %w", c.backend, err)
	}

	result := response.ToResult(ctx)

	slog.DebugContext(ctx, "search completed",
		"backend", c.backend,
		"results_count", len(result.Hits),
		"total", result.Total,
	)
	return result, nil
}

// IsReady checks if the engine answers.
func (c *IndexClient) IsReady(ctx context.Context) error {
	return c.engine.Ping(ctx)
}

// Close releases the engine transport.
func (c *IndexClient) Close() error {
	return c.engine.Close()
}
