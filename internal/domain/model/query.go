// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package model

// ClauseKind is the kind of full-text clause sent to the search engine.
type ClauseKind string

const (
	// ClauseMatch is an analyzed match on one field
	ClauseMatch ClauseKind = "match"
	// ClauseMatchPhrase is a phrase match on one field
	ClauseMatchPhrase ClauseKind = "match_phrase"
)

// Boolean operators between the terms of a match clause.
const (
	OperatorAnd = "and"
	OperatorOr  = "or"
)

// FuzzinessAuto lets the engine pick the edit distance from the term length.
const FuzzinessAuto = "AUTO"

// Clause targets a single field.
type Clause struct {
	Kind  ClauseKind
	Field string
	Query string
	// Operator applies to match clauses only.
	Operator string
	// Fuzziness is empty when the clause is exact.
	Fuzziness string
	// Boost is omitted when zero.
	Boost float64
	// Slop applies to phrase clauses only.
	Slop int
}

// BoolQuery is a boolean tree of required and score-boosting clauses.
type BoolQuery struct {
	Must   []Clause
	Should []Clause
}

// IsEmpty reports whether the query has no clause at all.
func (q BoolQuery) IsEmpty() bool {
	return len(q.Must) == 0 && len(q.Should) == 0
}
