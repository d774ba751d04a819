// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

// Package etl normalizes raw sanctions lists into search documents.
package etl

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sanctionsexplorer/sanctions-query-service/internal/domain/model"
)

// BuildReport summarizes one batch build.
type BuildReport struct {
	Read       int `json:"read"`
	Duplicates int `json:"duplicates"`
	Documents  int `json:"documents"`
}

// Loader deduplicates and transforms a full batch of raw entries.
type Loader struct {
	transformer *Transformer
}

// NewLoader returns a Loader using transformer.
func NewLoader(transformer *Transformer) *Loader {
	return &Loader{transformer: transformer}
}

// Build concatenates primary and supplementary (primary first), keeps the
// first entry of every fixed_ref and transforms the survivors in order.
// The first transform error aborts the whole batch.
func (l *Loader) Build(ctx context.Context, primary, supplementary []model.RawEntry) ([]model.Document, BuildReport, error) {
	report := BuildReport{Read: len(primary) + len(supplementary)}

	seen := make(map[model.Ref]struct{}, report.Read)
	docs := make([]model.Document, 0, report.Read)

	for _, source := range [][]model.RawEntry{primary, supplementary} {
		for _, entry := range source {
			if err := ctx.Err(); err != nil {
				return nil, report, err
			}
			if _, dup := seen[entry.FixedRef]; dup {
				report.Duplicates++
				continue
			}
			seen[entry.FixedRef] = struct{}{}

			doc, err := l.transformer.Transform(ctx, entry)
			if err != nil {
				slog.ErrorContext(ctx, "failed to transform entry",
					"fixed_ref", entry.FixedRef,
					"error", err,
				)
				return nil, report, fmt.Errorf("failed to transform entry %q: %w", entry.FixedRef, err)
			}
			docs = append(docs, doc)
		}
	}

	report.Documents = len(docs)
	slog.InfoContext(ctx, "batch built",
		"read", report.Read,
		"duplicates", report.Duplicates,
		"documents", report.Documents,
	)
	return docs, report, nil
}
