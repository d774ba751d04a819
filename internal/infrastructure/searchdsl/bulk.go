// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package searchdsl

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/sanctionsexplorer/sanctions-query-service/internal/domain/model"
)

// Bulk action names.
const (
	OpIndex  = "index"
	OpUpdate = "update"
)

type bulkAction struct {
	ID string `json:"_id"`
}

// RenderBulkIndex renders the NDJSON body indexing docs. The id of each
// document is its idField value when present, its position otherwise.
func RenderBulkIndex(docs []model.Document, idField string) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	for i, doc := range docs {
		id, ok := doc.ID(idField)
		if !ok {
			id = strconv.Itoa(i)
		}
		if err := enc.Encode(map[string]bulkAction{OpIndex: {ID: id}}); err != nil {
			return nil, fmt.Errorf("failed to encode bulk action %d: %w", i, err)
		}
		if err := enc.Encode(doc); err != nil {
			return nil, fmt.Errorf("failed to encode document %s: %w", id, err)
		}
	}
	return buf.Bytes(), nil
}

// RenderBulkUpdate renders the NDJSON body applying partial updates.
func RenderBulkUpdate(ops []model.UpdateOperation) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	for _, op := range ops {
		id := strconv.FormatInt(op.ID, 10)
		if err := enc.Encode(map[string]bulkAction{OpUpdate: {ID: id}}); err != nil {
			return nil, fmt.Errorf("failed to encode bulk action %s: %w", id, err)
		}
		if err := enc.Encode(map[string]any{"doc": op.Doc}); err != nil {
			return nil, fmt.Errorf("failed to encode update %s: %w", id, err)
		}
	}
	return buf.Bytes(), nil
}

// BulkResponse is the subset of a bulk response used here.
type BulkResponse struct {
	Errors bool                          `json:"errors"`
	Items  []map[string]BulkResponseItem `json:"items"`
}

// BulkResponseItem is the outcome of one bulk item.
type BulkResponseItem struct {
	ID     string          `json:"_id"`
	Status int             `json:"status"`
	Error  json.RawMessage `json:"error,omitempty"`
}

// Outcome scans every item of a bulk response. Failed items are aggregated
// into a *model.BulkError returned together with the counts.
func (r *BulkResponse) Outcome(index, op string) (*model.BulkResult, error) {
	result := &model.BulkResult{}
	bulkErr := &model.BulkError{Index: index, Op: op}

	for _, item := range r.Items {
		outcome, ok := item[op]
		if !ok {
			// a single-key map keyed by another action
			for _, v := range item {
				outcome = v
			}
		}
		if failed(outcome) {
			result.Failed++
			bulkErr.AddFailure(model.BulkItemFailure{
				ID:     outcome.ID,
				Status: outcome.Status,
				Reason: reason(outcome.Error),
			})
			continue
		}
		result.Indexed++
	}

	if bulkErr.Total > 0 {
		return result, bulkErr
	}
	return result, nil
}

func failed(item BulkResponseItem) bool {
	if len(item.Error) > 0 && !bytes.Equal(item.Error, []byte("null")) {
		return true
	}
	return item.Status >= 300
}

func reason(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var structured struct {
		Type   string `json:"type"`
		Reason string `json:"reason"`
	}
	if err := json.Unmarshal(raw, &structured); err == nil && structured.Type != "" {
		return structured.Type + ": " + structured.Reason
	}
	return string(raw)
}
