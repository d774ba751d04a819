// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package searchdsl

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/sanctionsexplorer/sanctions-query-service/internal/domain/model"
	"github.com/sanctionsexplorer/sanctions-query-service/pkg/errors"
)

// SearchResponse represents the search response
type SearchResponse struct {
	Hits Hits `json:"hits"`
}

// Hits represents the hits in the search response
type Hits struct {
	Total Total `json:"total"`
	Hits  []Hit `json:"hits"`
}

// Total represents the total number of hits. Older engines report a bare
// number, newer ones an object with a value.
type Total struct {
	Value int `json:"value"`
}

// UnmarshalJSON accepts both total encodings.
func (t *Total) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '{' {
		var obj struct {
			Value int `json:"value"`
		}
		if err := json.Unmarshal(data, &obj); err != nil {
			return err
		}
		t.Value = obj.Value
		return nil
	}
	if bytes.Equal(data, []byte("null")) {
		t.Value = 0
		return nil
	}
	return json.Unmarshal(data, &t.Value)
}

// Hit represents a single search result hit
type Hit struct {
	ID     string          `json:"_id"`
	Score  *float64        `json:"_score"`
	Source json.RawMessage `json:"_source"`
}

// ToResult converts the engine response, keeping engine order. Hits whose
// source cannot be decoded are logged and skipped.
func (r *SearchResponse) ToResult(ctx context.Context) *model.SearchResult {
	result := &model.SearchResult{
		Hits:  make([]model.Hit, 0, len(r.Hits.Hits)),
		Total: r.Hits.Total.Value,
	}

	for _, hit := range r.Hits.Hits {
		doc, err := decodeSource(hit.Source)
		if err != nil {
			slog.ErrorContext(ctx, "failed to convert hit", "hit_id", hit.ID, "error", err)
			continue
		}
		h := model.Hit{ID: hit.ID, Document: doc}
		if hit.Score != nil {
			h.Score = *hit.Score
		}
		result.Hits = append(result.Hits, h)
	}

	return result
}

func decodeSource(source json.RawMessage) (model.Document, error) {
	if len(source) == 0 {
		return nil, fmt.Errorf("hit has no source")
	}
	decoder := json.NewDecoder(bytes.NewReader(source))
	decoder.UseNumber()
	var doc model.Document
	if err := decoder.Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to unmarshal source data: %w", err)
	}
	if doc == nil {
		return nil, fmt.Errorf("hit source is null")
	}
	return doc, nil
}

// StatsResponse is the subset of an index stats response used here.
type StatsResponse struct {
	Indices map[string]struct {
		Total struct {
			Indexing struct {
				IndexTotal int64 `json:"index_total"`
			} `json:"indexing"`
		} `json:"total"`
	} `json:"indices"`
}

// IndexTotal returns the cumulative indexing counter of index name.
func (s *StatsResponse) IndexTotal(name string) (int64, error) {
	stats, ok := s.Indices[name]
	if !ok {
		return 0, errors.NewNotFound(fmt.Sprintf("no stats for index %s", name))
	}
	return stats.Total.Indexing.IndexTotal, nil
}
