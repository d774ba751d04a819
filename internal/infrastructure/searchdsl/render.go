// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

// Package searchdsl renders requests for Elasticsearch-compatible engines,
// decodes their responses and implements the index lifecycle on top of a
// minimal engine transport.
package searchdsl

import (
	"bytes"
	"encoding/json"
	"fmt"
	"text/template"

	"github.com/sanctionsexplorer/sanctions-query-service/internal/domain/model"
)

var searchTemplate = template.Must(
	template.New("search").
		Funcs(template.FuncMap{
			"clauses": renderClauses,
		}).
		Parse(searchSource))

// RenderSearch renders the body of a _search request.
func RenderSearch(req model.SearchRequest) ([]byte, error) {
	var buf bytes.Buffer
	if err := searchTemplate.Execute(&buf, req); err != nil {
		return nil, fmt.Errorf("failed to render search template: %w", err)
	}

	var compact bytes.Buffer
	if err := json.Compact(&compact, buf.Bytes()); err != nil {
		return nil, fmt.Errorf("rendered search is not valid JSON: %w", err)
	}
	return compact.Bytes(), nil
}

func renderClauses(clauses []model.Clause) (string, error) {
	out := make([]map[string]any, 0, len(clauses))
	for _, c := range clauses {
		out = append(out, clauseJSON(c))
	}
	data, err := json.Marshal(out)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func clauseJSON(c model.Clause) map[string]any {
	params := map[string]any{"query": c.Query}

	switch c.Kind {
	case model.ClauseMatchPhrase:
		if c.Slop > 0 {
			params["slop"] = c.Slop
		}
	default:
		if c.Operator != "" {
			params["operator"] = c.Operator
		}
		if c.Fuzziness != "" {
			params["fuzziness"] = c.Fuzziness
		}
	}
	if c.Boost != 0 {
		params["boost"] = c.Boost
	}

	kind := c.Kind
	if kind == "" {
		kind = model.ClauseMatch
	}
	return map[string]any{
		string(kind): map[string]any{c.Field: params},
	}
}
