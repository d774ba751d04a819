// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package mock

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"net/http"
	"strconv"
	"strings"
	"sync"

	"github.com/sanctionsexplorer/sanctions-query-service/internal/domain/model"
	"github.com/sanctionsexplorer/sanctions-query-service/internal/domain/port"
	"github.com/sanctionsexplorer/sanctions-query-service/pkg/constants"
	"github.com/sanctionsexplorer/sanctions-query-service/pkg/errors"
)

// MockIndexClient is an in-memory implementation of port.IndexClient for testing
// and for running the service without a search engine.
type MockIndexClient struct {
	mu      sync.Mutex
	indexes map[string]*mockIndex

	// FailIDs makes bulk items with these document ids fail.
	FailIDs map[string]bool
	// SearchResponse, when set, is returned by every search.
	SearchResponse *model.SearchResult
	SearchError    error
	BulkError      error
	IsReadyError   error

	// LastSearch is the last request received by Search.
	LastSearch model.SearchRequest
	Deleted    []string
	Created    []string
}

type mockIndex struct {
	ids     []string
	docs    map[string]model.Document
	indexed int64
}

var _ port.IndexClient = (*MockIndexClient)(nil)

// NewMockIndexClient creates a new mock client with some sample data
func NewMockIndexClient() *MockIndexClient {
	m := NewEmptyMockIndexClient()
	m.seed(constants.DefaultSDNIndex, constants.DocumentIDField, []model.Document{
		{
			"fixed_ref":            "36",
			"primary_display_name": "AEROCARIBBEAN AIRLINES",
			"all_display_names":    []any{"AEROCARIBBEAN AIRLINES", "AERO-CARIBBEAN"},
			"programs":             []any{"CUBA"},
			"countries":            []any{"Cuba"},
			"party_sub_type":       "Entity",
			"sdn_display":          "[SDN]",
			"is_sdn":               true,
		},
		{
			"fixed_ref":            "173",
			"primary_display_name": "ANGLO-CARIBBEAN CO., LTD.",
			"all_display_names":    []any{"ANGLO-CARIBBEAN CO., LTD."},
			"programs":             []any{"CUBA"},
			"countries":            []any{"Cuba", "United Kingdom"},
			"party_sub_type":       "Entity",
			"sdn_display":          "[SDN]",
			"is_sdn":               true,
		},
		{
			"fixed_ref":            "306",
			"primary_display_name": "BANCO NACIONAL DE CUBA",
			"all_display_names":    []any{"BANCO NACIONAL DE CUBA", "NATIONAL BANK OF CUBA"},
			"programs":             []any{"CUBA"},
			"countries":            []any{"Cuba", "Spain", "Panama"},
			"party_sub_type":       "Entity",
			"sdn_display":          "[SDN]",
			"is_sdn":               true,
		},
	})
	m.seed(constants.DefaultPressReleaseIndex, "", []model.Document{
		{
			"title":   "Treasury Sanctions Cuban Airline",
			"date":    "2019-12-04",
			"content": "OFAC designated a state-run airline.",
		},
	})
	return m
}

// NewEmptyMockIndexClient creates a mock client without any index.
func NewEmptyMockIndexClient() *MockIndexClient {
	return &MockIndexClient{
		indexes: make(map[string]*mockIndex),
		FailIDs: make(map[string]bool),
	}
}

func (m *MockIndexClient) seed(name, idField string, docs []model.Document) {
	m.indexes[name] = &mockIndex{docs: make(map[string]model.Document)}
	_, _ = m.BulkAdd(context.Background(), name, docs, idField)
}

// Documents returns the documents of an index in insertion order.
func (m *MockIndexClient) Documents(name string) []model.Document {
	m.mu.Lock()
	defer m.mu.Unlock()

	idx, ok := m.indexes[name]
	if !ok {
		return nil
	}
	docs := make([]model.Document, 0, len(idx.ids))
	for _, id := range idx.ids {
		docs = append(docs, idx.docs[id])
	}
	return docs
}

func (m *MockIndexClient) DeleteIndex(ctx context.Context, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Deleted = append(m.Deleted, name)
	delete(m.indexes, name)
	return nil
}

func (m *MockIndexClient) CreateIndex(ctx context.Context, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Created = append(m.Created, name)
	if _, ok := m.indexes[name]; !ok {
		m.indexes[name] = &mockIndex{docs: make(map[string]model.Document)}
	}
	return nil
}

func (m *MockIndexClient) BulkAdd(ctx context.Context, index string, docs []model.Document, idField string) (*model.BulkResult, error) {
	return m.bulk(index, "index", func(idx *mockIndex, bulkErr *model.BulkError) int {
		indexed := 0
		for i, doc := range docs {
			id, ok := doc.ID(idField)
			if !ok {
				id = strconv.Itoa(i)
			}
			if m.FailIDs[id] {
				bulkErr.AddFailure(model.BulkItemFailure{ID: id, Status: http.StatusBadRequest, Reason: "mapper_parsing_exception: injected failure"})
				continue
			}
			idx.put(id, maps.Clone(doc))
			indexed++
		}
		return indexed
	})
}

func (m *MockIndexClient) BulkUpdate(ctx context.Context, index string, ops []model.UpdateOperation) (*model.BulkResult, error) {
	return m.bulk(index, "update", func(idx *mockIndex, bulkErr *model.BulkError) int {
		indexed := 0
		for _, op := range ops {
			id := strconv.FormatInt(op.ID, 10)
			doc, ok := idx.docs[id]
			if !ok || m.FailIDs[id] {
				bulkErr.AddFailure(model.BulkItemFailure{ID: id, Status: http.StatusNotFound, Reason: "document_missing_exception"})
				continue
			}
			merged := maps.Clone(doc)
			maps.Copy(merged, op.Doc)
			idx.put(id, merged)
			indexed++
		}
		return indexed
	})
}

func (m *MockIndexClient) bulk(index, op string, apply func(*mockIndex, *model.BulkError) int) (*model.BulkResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.BulkError != nil {
		return nil, m.BulkError
	}
	idx, ok := m.indexes[index]
	if !ok {
		return nil, errors.NewNotFound(fmt.Sprintf("index %s does not exist", index))
	}

	bulkErr := &model.BulkError{Index: index, Op: op}
	indexed := apply(idx, bulkErr)
	idx.indexed += int64(indexed)

	result := &model.BulkResult{Indexed: indexed, Failed: bulkErr.Total}
	if bulkErr.Total > 0 {
		return result, bulkErr
	}
	return result, nil
}

func (idx *mockIndex) put(id string, doc model.Document) {
	if _, ok := idx.docs[id]; !ok {
		idx.ids = append(idx.ids, id)
	}
	idx.docs[id] = doc
}

func (m *MockIndexClient) IndexingStats(ctx context.Context, name string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	idx, ok := m.indexes[name]
	if !ok {
		return 0, errors.NewNotFound(fmt.Sprintf("index %s does not exist", name))
	}
	return idx.indexed, nil
}

// Search returns SearchResponse when set. Otherwise documents match when every
// must clause is a case-insensitive substring of its field.
func (m *MockIndexClient) Search(ctx context.Context, index string, req model.SearchRequest) (*model.SearchResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	slog.DebugContext(ctx, "executing mock search", "index", index, "size", req.Size, "from", req.From)

	m.LastSearch = req
	if m.SearchError != nil {
		return nil, m.SearchError
	}
	if m.SearchResponse != nil {
		return m.SearchResponse, nil
	}

	idx, ok := m.indexes[index]
	if !ok {
		return nil, errors.NewNotFound(fmt.Sprintf("index %s does not exist", index))
	}

	var matched []model.Hit
	for _, id := range idx.ids {
		doc := idx.docs[id]
		if !matches(doc, req.Query) {
			continue
		}
		matched = append(matched, model.Hit{ID: id, Document: doc, Score: 1})
	}

	result := &model.SearchResult{Total: len(matched), Hits: []model.Hit{}}
	if req.From < len(matched) {
		end := min(req.From+req.Size, len(matched))
		result.Hits = matched[req.From:end]
	}
	return result, nil
}

func matches(doc model.Document, q model.BoolQuery) bool {
	if q.IsEmpty() {
		return false
	}
	for _, c := range q.Must {
		if !strings.Contains(strings.ToLower(doc.Text(c.Field)), strings.ToLower(strings.TrimSpace(c.Query))) {
			return false
		}
	}
	if len(q.Must) > 0 {
		return true
	}
	for _, c := range q.Should {
		if strings.Contains(strings.ToLower(doc.Text(c.Field)), strings.ToLower(strings.TrimSpace(c.Query))) {
			return true
		}
	}
	return false
}

func (m *MockIndexClient) IsReady(ctx context.Context) error {
	return m.IsReadyError
}

func (m *MockIndexClient) Close() error {
	return nil
}
