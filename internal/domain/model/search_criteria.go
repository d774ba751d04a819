// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package model

// Param is one request parameter of an SDN search.
type Param struct {
	Key   string
	Value string
}

// Page controls pagination of a search.
type Page struct {
	// Size is the number of results per page
	Size int `json:"size" validate:"gte=0"`
	// From is the offset of the first result
	From int `json:"from" validate:"gte=0"`
}

// SearchCriteria encapsulates the parameters of an SDN search
type SearchCriteria struct {
	// Params are the field filters of the request, size and from excluded
	Params []Param
	Page
}

// PressReleaseCriteria encapsulates the parameters of a press release search
type PressReleaseCriteria struct {
	Query string `json:"query" validate:"required"`
	Page
}

// SearchRequest is a built query plus pagination, ready for the engine.
type SearchRequest struct {
	Query BoolQuery
	Size  int
	From  int
}

// Hit is one matched document and its relevance score.
type Hit struct {
	ID       string
	Document Document
	Score    float64
}

// SearchResult contains the results of a search, in engine order
type SearchResult struct {
	// Hits found
	Hits []Hit
	// Total number of documents matching the query
	Total int
}
