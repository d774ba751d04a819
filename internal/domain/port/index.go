// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package port

import (
	"context"

	"github.com/sanctionsexplorer/sanctions-query-service/internal/domain/model"
)

// IndexManager defines the index lifecycle operations used by the ETL.
// Engine failures are returned as errors, never swallowed.
type IndexManager interface {
	// DeleteIndex removes the index; a missing index is not an error
	DeleteIndex(ctx context.Context, name string) error

	// CreateIndex creates the index; an existing index is not an error
	CreateIndex(ctx context.Context, name string) error

	// BulkAdd indexes docs. When idField is set and present on a document its
	// value is the document id, otherwise the zero-based batch position is used.
	// Per-item failures are reported as a *model.BulkError alongside the result.
	BulkAdd(ctx context.Context, index string, docs []model.Document, idField string) (*model.BulkResult, error)

	// BulkUpdate applies partial updates keyed by numeric id
	BulkUpdate(ctx context.Context, index string, ops []model.UpdateOperation) (*model.BulkResult, error)

	// IndexingStats returns the cumulative indexed-document counter of the index
	IndexingStats(ctx context.Context, name string) (int64, error)
}

// IndexSearcher defines the query side of the search engine
type IndexSearcher interface {
	// Search executes a boolean query with pagination
	Search(ctx context.Context, index string, req model.SearchRequest) (*model.SearchResult, error)

	// IsReady checks if the search engine is reachable
	IsReady(ctx context.Context) error
}

// IndexClient is the full adapter over a search engine backend.
type IndexClient interface {
	IndexManager
	IndexSearcher
	Close() error
}
