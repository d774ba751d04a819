// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package usecase

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"

	"github.com/sanctionsexplorer/sanctions-query-service/internal/domain/model"
	"github.com/sanctionsexplorer/sanctions-query-service/internal/domain/port"
	"github.com/sanctionsexplorer/sanctions-query-service/internal/metrics"
	"github.com/sanctionsexplorer/sanctions-query-service/pkg/constants"
)

// ReloadReport summarizes a full index reload.
type ReloadReport struct {
	Index      string `json:"index"`
	Indexed    int    `json:"indexed"`
	Failed     int    `json:"failed"`
	IndexTotal int64  `json:"index_total"`
}

// IndexReload replaces or patches the content of an index
type IndexReload struct {
	manager port.IndexManager
	metrics *metrics.Metrics
}

// NewIndexReload creates a new IndexReload instance
func NewIndexReload(manager port.IndexManager, m *metrics.Metrics) *IndexReload {
	return &IndexReload{manager: manager, metrics: m}
}

// Reload deletes the index, recreates it and bulk loads docs keyed by
// fixed_ref. Readers see a missing or partial index meanwhile.
// Item failures do not stop the load; they are returned as a *model.BulkError
// together with the report.
func (r *IndexReload) Reload(ctx context.Context, index string, docs []model.Document) (*ReloadReport, error) {
	slog.InfoContext(ctx, "reloading index", "index", index, "documents", len(docs))

	if err := r.manager.DeleteIndex(ctx, index); err != nil {
		return nil, fmt.Errorf("reload of %s failed: %w", index, err)
	}
	if err := r.manager.CreateIndex(ctx, index); err != nil {
		return nil, fmt.Errorf("reload of %s failed: %w", index, err)
	}

	report := &ReloadReport{Index: index}
	result, errBulk := r.manager.BulkAdd(ctx, index, docs, constants.DocumentIDField)
	if errBulk != nil && !isBulkError(errBulk) {
		return nil, fmt.Errorf("reload of %s failed: %w", index, errBulk)
	}
	if result != nil {
		report.Indexed = result.Indexed
		report.Failed = result.Failed
		r.metrics.ObserveBulk(index, "index", result.Indexed, result.Failed)
	}

	total, err := r.manager.IndexingStats(ctx, index)
	if err != nil {
		slog.WarnContext(ctx, "failed to read indexing stats after reload", "index", index, "error", err)
	}
	report.IndexTotal = total

	slog.InfoContext(ctx, "index reloaded",
		"index", index,
		"indexed", report.Indexed,
		"failed", report.Failed,
		"index_total", report.IndexTotal,
	)
	return report, errBulk
}

// Update applies partial document updates.
func (r *IndexReload) Update(ctx context.Context, index string, ops []model.UpdateOperation) (*model.BulkResult, error) {
	result, err := r.manager.BulkUpdate(ctx, index, ops)
	if result != nil {
		r.metrics.ObserveBulk(index, "update", result.Indexed, result.Failed)
	}
	if err != nil && !isBulkError(err) {
		return nil, fmt.Errorf("update of %s failed: %w", index, err)
	}
	return result, err
}

// Stats returns the cumulative indexing counter of the index.
func (r *IndexReload) Stats(ctx context.Context, index string) (int64, error) {
	return r.manager.IndexingStats(ctx, index)
}

func isBulkError(err error) bool {
	var bulkErr *model.BulkError
	return stderrors.As(err, &bulkErr)
}
