// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package service

import (
	"fmt"
	"net/url"
	"slices"
	"strconv"

	"github.com/sanctionsexplorer/sanctions-query-service/internal/domain/model"
	"github.com/sanctionsexplorer/sanctions-query-service/pkg/constants"
	"github.com/sanctionsexplorer/sanctions-query-service/pkg/errors"
)

// Pagination parameters shared by both search endpoints.
const (
	paramSize  = "size"
	paramFrom  = "from"
	paramQuery = "query"
)

// SearchResponse is the body of both search endpoints: each element of
// Response is a [document, score] pair.
type SearchResponse struct {
	Response   [][2]any `json:"response"`
	NumResults int      `json:"num_results"`
}

// queryToPage reads size and from, defaulting to the first page of 50.
func queryToPage(values url.Values) (model.Page, error) {
	page := model.Page{Size: constants.DefaultPageSize}

	for name, target := range map[string]*int{paramSize: &page.Size, paramFrom: &page.From} {
		raw := values.Get(name)
		if raw == "" {
			continue
		}
		value, err := strconv.Atoi(raw)
		if err != nil {
			return page, errors.NewValidationWithFields(
				fmt.Sprintf("%s must be an integer", name),
				map[string]string{name: "must be an integer"},
			)
		}
		*target = value
	}
	return page, nil
}

// queryToCriteria converts the URL query of /search/sdn into search criteria.
// Keys are sorted and only the first value of a repeated key is kept.
func queryToCriteria(values url.Values) (model.SearchCriteria, error) {
	page, err := queryToPage(values)
	if err != nil {
		return model.SearchCriteria{}, err
	}

	keys := make([]string, 0, len(values))
	for key := range values {
		if key == paramSize || key == paramFrom {
			continue
		}
		keys = append(keys, key)
	}
	slices.Sort(keys)

	criteria := model.SearchCriteria{
		Params: make([]model.Param, 0, len(keys)),
		Page:   page,
	}
	for _, key := range keys {
		criteria.Params = append(criteria.Params, model.Param{Key: key, Value: values.Get(key)})
	}
	return criteria, nil
}

// queryToPressReleaseCriteria converts the URL query of /search/press-releases.
func queryToPressReleaseCriteria(values url.Values) (model.PressReleaseCriteria, error) {
	page, err := queryToPage(values)
	if err != nil {
		return model.PressReleaseCriteria{}, err
	}
	return model.PressReleaseCriteria{
		Query: values.Get(paramQuery),
		Page:  page,
	}, nil
}

// domainResultToResponse keeps the engine order of hits.
func domainResultToResponse(result *model.SearchResult) SearchResponse {
	response := SearchResponse{
		Response:   make([][2]any, 0, len(result.Hits)),
		NumResults: result.Total,
	}
	for _, hit := range result.Hits {
		response.Response = append(response.Response, [2]any{hit.Document, hit.Score})
	}
	return response
}
