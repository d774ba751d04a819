// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package searchdsl

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sanctionsexplorer/sanctions-query-service/internal/domain/model"
)

const synonymAnalyzer = "synonym"

// synonymMappedFields are analyzed with the country synonym analyzer.
var synonymMappedFields = []string{
	model.FieldAllFields,
	model.FieldCountries,
	model.FieldNationalityCountry,
	model.FieldCitizenshipCountry,
	model.FieldNationalityOfRegistration,
}

// RenderIndexBody renders the create-index body: a synonym analyzer built
// from the country classes, applied to the country fields and all_fields.
func RenderIndexBody(classes [][]string) ([]byte, error) {
	rules := make([]string, 0, len(classes))
	for _, class := range classes {
		terms := make([]string, 0, len(class))
		for _, term := range class {
			// commas separate terms in the synonym rule format
			terms = append(terms, strings.Join(strings.Fields(strings.ReplaceAll(term, ",", " ")), " "))
		}
		rules = append(rules, strings.Join(terms, ", "))
	}

	properties := make(map[string]any, len(synonymMappedFields))
	for _, field := range synonymMappedFields {
		properties[field] = map[string]any{
			"type":     "text",
			"analyzer": synonymAnalyzer,
		}
	}

	body := map[string]any{
		"settings": map[string]any{
			"analysis": map[string]any{
				"filter": map[string]any{
					"country_synonyms": map[string]any{
						"type":     "synonym",
						"lenient":  true,
						"synonyms": rules,
					},
				},
				"analyzer": map[string]any{
					synonymAnalyzer: map[string]any{
						"type":      "custom",
						"tokenizer": "standard",
						"filter":    []string{"lowercase", "country_synonyms"},
					},
				},
			},
		},
		"mappings": map[string]any{
			"properties": properties,
		},
	}

	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to encode index body: %w", err)
	}
	return data, nil
}
