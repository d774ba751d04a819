// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package searchdsl

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"testing"

	"github.com/sanctionsexplorer/sanctions-query-service/internal/domain/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeEngine is a scripted Engine recording what it receives.
type fakeEngine struct {
	exists       []bool
	existsErr    error
	createErr    error
	deleteErr    error
	bulkResponse *BulkResponse
	bulkErr      error
	search       *SearchResponse
	searchErr    error
	stats        *StatsResponse

	created    []string
	deleted    []string
	bulkBodies [][]byte
	searchBody []byte
}

func (f *fakeEngine) Search(ctx context.Context, index string, body []byte) (*SearchResponse, error) {
	f.searchBody = body
	return f.search, f.searchErr
}

func (f *fakeEngine) Bulk(ctx context.Context, index string, body []byte) (*BulkResponse, error) {
	f.bulkBodies = append(f.bulkBodies, body)
	return f.bulkResponse, f.bulkErr
}

func (f *fakeEngine) CreateIndex(ctx context.Context, name string, body []byte) error {
	f.created = append(f.created, name)
	return f.createErr
}

func (f *fakeEngine) DeleteIndex(ctx context.Context, name string) error {
	f.deleted = append(f.deleted, name)
	return f.deleteErr
}

func (f *fakeEngine) IndexExists(ctx context.Context, name string) (bool, error) {
	if f.existsErr != nil {
		return false, f.existsErr
	}
	if len(f.exists) == 0 {
		return false, nil
	}
	next := f.exists[0]
	f.exists = f.exists[1:]
	return next, nil
}

func (f *fakeEngine) Stats(ctx context.Context, name string) (*StatsResponse, error) {
	return f.stats, nil
}

func (f *fakeEngine) Ping(ctx context.Context) error { return nil }

func (f *fakeEngine) Close() error { return nil }

func TestIndexClientCreateIndex(t *testing.T) {
	tests := []struct {
		name            string
		engine          *fakeEngine
		expectedErr     bool
		expectedCreated int
	}{
		{
			name:            "creates missing index",
			engine:          &fakeEngine{exists: []bool{false}},
			expectedCreated: 1,
		},
		{
			name:            "existing index is success",
			engine:          &fakeEngine{exists: []bool{true}},
			expectedCreated: 0,
		},
		{
			name:            "index created concurrently is success",
			engine:          &fakeEngine{exists: []bool{false, true}, createErr: stderrors.New("resource_already_exists_exception")},
			expectedCreated: 1,
		},
		{
			name:            "create failure is reported",
			engine:          &fakeEngine{exists: []bool{false, false}, createErr: stderrors.New("boom")},
			expectedErr:     true,
			expectedCreated: 1,
		},
		{
			name:        "exists failure is reported",
			engine:      &fakeEngine{existsErr: stderrors.New("connection refused")},
			expectedErr: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assertion := assert.New(t)

			client := NewIndexClient(tc.engine, nil, "test")
			err := client.CreateIndex(context.Background(), "sdn")
			assertion.Equal(tc.expectedErr, err != nil)
			assertion.Len(tc.engine.created, tc.expectedCreated)
		})
	}
}

func TestIndexClientDeleteMissingIndex(t *testing.T) {
	engine := &fakeEngine{exists: []bool{false}}
	client := NewIndexClient(engine, nil, "test")

	require.NoError(t, client.DeleteIndex(context.Background(), "sdn"))
	assert.Empty(t, engine.deleted)

	engine.exists = []bool{true}
	require.NoError(t, client.DeleteIndex(context.Background(), "sdn"))
	assert.Equal(t, []string{"sdn"}, engine.deleted)
}

func TestIndexClientBulkAddReportsPartialFailure(t *testing.T) {
	engine := &fakeEngine{
		bulkResponse: &BulkResponse{
			Errors: true,
			Items: []map[string]BulkResponseItem{
				{"index": {ID: "a", Status: 201}},
				{"index": {ID: "b", Status: 201}},
				{"index": {ID: "c", Status: 400, Error: []byte(`{"type":"mapper_parsing_exception","reason":"bad"}`)}},
				{"index": {ID: "d", Status: 201}},
				{"index": {ID: "e", Status: 201}},
			},
		},
	}
	client := NewIndexClient(engine, nil, "test")

	docs := []model.Document{
		{"fixed_ref": "a"}, {"fixed_ref": "b"}, {"fixed_ref": "c"}, {"fixed_ref": "d"}, {"fixed_ref": "e"},
	}
	result, err := client.BulkAdd(context.Background(), "sdn", docs, "fixed_ref")

	assertion := assert.New(t)
	var bulkErr *model.BulkError
	require.ErrorAs(t, err, &bulkErr)
	assertion.Equal(&model.BulkResult{Indexed: 4, Failed: 1}, result)
	assertion.Equal("c", bulkErr.Failures[0].ID)
	require.Len(t, engine.bulkBodies, 1)
}

func TestIndexClientBulkAddEmpty(t *testing.T) {
	engine := &fakeEngine{}
	client := NewIndexClient(engine, nil, "test")

	result, err := client.BulkAdd(context.Background(), "sdn", nil, "fixed_ref")
	require.NoError(t, err)
	assert.Equal(t, &model.BulkResult{}, result)
	assert.Empty(t, engine.bulkBodies)
}

func TestIndexClientBulkTransportFailure(t *testing.T) {
	engine := &fakeEngine{bulkErr: stderrors.New("connection reset")}
	client := NewIndexClient(engine, nil, "test")

	_, err := client.BulkUpdate(context.Background(), "sdn", []model.UpdateOperation{{ID: 1, Doc: map[string]any{"a": 1}}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection reset")
}

func TestIndexClientSearch(t *testing.T) {
	first, second := 8.1, 3.2
	engine := &fakeEngine{
		search: &SearchResponse{Hits: Hits{
			Total: Total{Value: 12},
			Hits: []Hit{
				{ID: "1", Score: &first, Source: []byte(`{"primary_display_name":"A"}`)},
				{ID: "2", Score: &second, Source: []byte(`{"primary_display_name":"B"}`)},
			},
		}},
	}
	client := NewIndexClient(engine, nil, "test")

	result, err := client.Search(context.Background(), "sdn", model.SearchRequest{Size: 2})
	require.NoError(t, err)

	assertion := assert.New(t)
	assertion.Equal(12, result.Total)
	require.Len(t, result.Hits, 2)
	assertion.Equal(8.1, result.Hits[0].Score)
	assertion.Equal(3.2, result.Hits[1].Score)
	assertion.Contains(string(engine.searchBody), `"size":2`)
}

func TestIndexClientSearchFailure(t *testing.T) {
	engine := &fakeEngine{searchErr: stderrors.New("index_not_found_exception")}
	client := NewIndexClient(engine, nil, "test")

	_, err := client.Search(context.Background(), "sdn", model.SearchRequest{})
	require.Error(t, err)
}

func TestIndexClientIndexingStats(t *testing.T) {
	var stats StatsResponse
	require.NoError(t, json.Unmarshal([]byte(`{"indices":{"sdn":{"total":{"indexing":{"index_total":5}}}}}`), &stats))

	client := NewIndexClient(&fakeEngine{stats: &stats}, nil, "test")

	total, err := client.IndexingStats(context.Background(), "sdn")
	require.NoError(t, err)
	assert.Equal(t, int64(5), total)
}
