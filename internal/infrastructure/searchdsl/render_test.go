// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package searchdsl

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/sanctionsexplorer/sanctions-query-service/internal/domain/model"
	"github.com/sanctionsexplorer/sanctions-query-service/internal/query"
	"github.com/sanctionsexplorer/sanctions-query-service/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderSearch(t *testing.T) {
	req := model.SearchRequest{
		Query: query.SDN([]model.Param{{Key: "sanction_dates", Value: "2011-2012"}}),
		Size:  10,
		From:  20,
	}

	body, err := RenderSearch(req)
	require.NoError(t, err)

	const expected = `{
		"size": 10,
		"from": 20,
		"track_total_hits": true,
		"query": {
			"bool": {
				"must": [
					{"match": {"sanction_dates": {"query": " 2011 2012", "operator": "or", "fuzziness": "0", "boost": 1}}}
				],
				"should": [
					{"match": {"sanction_dates": {"query": " 2011 2012", "operator": "or", "boost": 1000}}}
				]
			}
		}
	}`
	assert.JSONEq(t, expected, string(body))
	assert.NotContains(t, string(body), "\n")
}

func TestRenderSearchPhraseAndEscaping(t *testing.T) {
	req := model.SearchRequest{
		Query: query.PressReleases(`"quoted" \ text`),
		Size:  50,
	}

	body, err := RenderSearch(req)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(body, &decoded))

	should := decoded["query"].(map[string]any)["bool"].(map[string]any)["should"].([]any)
	require.Len(t, should, 2)
	title := should[1].(map[string]any)["match_phrase"].(map[string]any)["title"].(map[string]any)

	assertion := assert.New(t)
	assertion.Equal(`"quoted" \ text`, title["query"])
	assertion.Equal(float64(3), title["slop"])
	assertion.Equal(float64(1000), title["boost"])
	assertion.NotContains(title, "operator")
}

func TestRenderSearchEmptyQuery(t *testing.T) {
	body, err := RenderSearch(model.SearchRequest{Size: 1})
	require.NoError(t, err)
	assert.JSONEq(t, `{"size":1,"from":0,"track_total_hits":true,"query":{"bool":{"must":[],"should":[]}}}`, string(body))
}

func readNDJSON(t *testing.T, body []byte) []map[string]any {
	t.Helper()
	var lines []map[string]any
	scanner := bufio.NewScanner(bytes.NewReader(body))
	for scanner.Scan() {
		var line map[string]any
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &line))
		lines = append(lines, line)
	}
	require.NoError(t, scanner.Err())
	return lines
}

func TestRenderBulkIndex(t *testing.T) {
	docs := []model.Document{
		{"fixed_ref": "36", "title": "a"},
		{"title": "no ref"},
	}

	body, err := RenderBulkIndex(docs, "fixed_ref")
	require.NoError(t, err)

	lines := readNDJSON(t, body)
	require.Len(t, lines, 4)

	assertion := assert.New(t)
	assertion.Equal(map[string]any{"index": map[string]any{"_id": "36"}}, lines[0])
	assertion.Equal("a", lines[1]["title"])
	assertion.Equal(map[string]any{"index": map[string]any{"_id": "1"}}, lines[2])

	positional, err := RenderBulkIndex(docs, "")
	require.NoError(t, err)
	lines = readNDJSON(t, positional)
	assertion.Equal(map[string]any{"index": map[string]any{"_id": "0"}}, lines[0])
}

func TestRenderBulkUpdate(t *testing.T) {
	body, err := RenderBulkUpdate([]model.UpdateOperation{{ID: 7, Doc: map[string]any{"title": "Minister"}}})
	require.NoError(t, err)

	lines := readNDJSON(t, body)
	require.Len(t, lines, 2)
	assert.Equal(t, map[string]any{"update": map[string]any{"_id": "7"}}, lines[0])
	assert.Equal(t, map[string]any{"doc": map[string]any{"title": "Minister"}}, lines[1])
}

func TestRenderIndexBody(t *testing.T) {
	body, err := RenderIndexBody([][]string{{"NK", "Korea, North"}, {"UAE", "United Arab Emirates"}})
	require.NoError(t, err)

	var decoded struct {
		Settings struct {
			Analysis struct {
				Filter map[string]struct {
					Type     string   `json:"type"`
					Lenient  bool     `json:"lenient"`
					Synonyms []string `json:"synonyms"`
				} `json:"filter"`
			} `json:"analysis"`
		} `json:"settings"`
		Mappings struct {
			Properties map[string]map[string]string `json:"properties"`
		} `json:"mappings"`
	}
	require.NoError(t, json.Unmarshal(body, &decoded))

	assertion := assert.New(t)
	filter := decoded.Settings.Analysis.Filter["country_synonyms"]
	assertion.Equal("synonym", filter.Type)
	assertion.True(filter.Lenient)
	assertion.Equal([]string{"NK, Korea North", "UAE, United Arab Emirates"}, filter.Synonyms)
	for _, field := range []string{"all_fields", "countries", "nationality_country", "citizenship_country", "nationality_of_registration"} {
		assertion.Equal("synonym", decoded.Mappings.Properties[field]["analyzer"], field)
	}
}

func TestTotalDecoding(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected int
	}{
		{name: "object", input: `{"value": 42, "relation": "eq"}`, expected: 42},
		{name: "number", input: `17`, expected: 17},
		{name: "null", input: `null`, expected: 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assertion := assert.New(t)

			var total Total
			assertion.NoError(json.Unmarshal([]byte(tc.input), &total))
			assertion.Equal(tc.expected, total.Value)
		})
	}
}

func TestToResultKeepsOrderAndSkipsInvalidSources(t *testing.T) {
	const data = `{"hits": {"total": {"value": 3}, "hits": [
		{"_id": "1", "_score": 8.1, "_source": {"primary_display_name": "A", "fixed_ref": 1}},
		{"_id": "2", "_score": 5.0, "_source": "not an object"},
		{"_id": "3", "_score": 3.2, "_source": {"primary_display_name": "C"}}
	]}}`

	var response SearchResponse
	require.NoError(t, json.Unmarshal([]byte(data), &response))

	result := response.ToResult(context.Background())

	assertion := assert.New(t)
	assertion.Equal(3, result.Total)
	require.Len(t, result.Hits, 2)
	assertion.Equal(8.1, result.Hits[0].Score)
	assertion.Equal("A", result.Hits[0].Document["primary_display_name"])
	assertion.Equal(json.Number("1"), result.Hits[0].Document["fixed_ref"])
	assertion.Equal(3.2, result.Hits[1].Score)
}

func TestBulkOutcome(t *testing.T) {
	const data = `{"errors": true, "items": [
		{"index": {"_id": "0", "status": 201}},
		{"index": {"_id": "1", "status": 400, "error": {"type": "mapper_parsing_exception", "reason": "failed to parse"}}},
		{"index": {"_id": "2", "status": 200}}
	]}`

	var response BulkResponse
	require.NoError(t, json.Unmarshal([]byte(data), &response))

	result, err := response.Outcome("sdn", OpIndex)

	assertion := assert.New(t)
	assertion.Equal(&model.BulkResult{Indexed: 2, Failed: 1}, result)

	var bulkErr *model.BulkError
	require.ErrorAs(t, err, &bulkErr)
	assertion.Equal(1, bulkErr.Total)
	assertion.Equal("1", bulkErr.Failures[0].ID)
	assertion.Equal("mapper_parsing_exception: failed to parse", bulkErr.Failures[0].Reason)
}

func TestStatsIndexTotal(t *testing.T) {
	const data = `{"indices": {"sdn": {"total": {"indexing": {"index_total": 9001}}}}}`

	var stats StatsResponse
	require.NoError(t, json.Unmarshal([]byte(data), &stats))

	total, err := stats.IndexTotal("sdn")
	require.NoError(t, err)
	assert.Equal(t, int64(9001), total)

	_, err = stats.IndexTotal("pr")
	assert.True(t, errors.IsNotFound(err))
}
