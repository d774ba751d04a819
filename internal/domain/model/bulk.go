// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package model

import (
	"fmt"
	"strings"
)

// maxReportedFailures bounds the failures kept on a BulkError.
const maxReportedFailures = 10

// UpdateOperation is a partial update of the document with the given id.
type UpdateOperation struct {
	ID  int64          `json:"id"`
	Doc map[string]any `json:"doc"`
}

// BulkResult counts the outcome of a bulk call.
type BulkResult struct {
	Indexed int `json:"indexed"`
	Failed  int `json:"failed"`
}

// BulkItemFailure describes one rejected item.
type BulkItemFailure struct {
	ID     string
	Status int
	Reason string
}

// BulkError reports that some items of an otherwise applied bulk call failed.
type BulkError struct {
	Index    string
	Op       string
	Total    int
	Failures []BulkItemFailure
}

// AddFailure records a failed item, keeping at most the first few details.
func (e *BulkError) AddFailure(f BulkItemFailure) {
	e.Total++
	if len(e.Failures) < maxReportedFailures {
		e.Failures = append(e.Failures, f)
	}
}

// Error implements error.
func (e *BulkError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "bulk %s on index %s: %d item(s) failed", e.Op, e.Index, e.Total)
	for _, f := range e.Failures {
		fmt.Fprintf(&b, "; id=%s status=%d reason=%s", f.ID, f.Status, f.Reason)
	}
	return b.String()
}
