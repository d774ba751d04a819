// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package elasticsearch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/sanctionsexplorer/sanctions-query-service/internal/infrastructure/searchdsl"
	"github.com/sanctionsexplorer/sanctions-query-service/pkg/errors"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
)

// HTTPClient implements searchdsl.Engine on top of the official client.
type HTTPClient struct {
	es *elasticsearch.Client
}

var _ searchdsl.Engine = (*HTTPClient)(nil)

// Search executes a search query against Elasticsearch
func (c *HTTPClient) Search(ctx context.Context, index string, query []byte) (*searchdsl.SearchResponse, error) {
	slog.DebugContext(ctx, "executing elasticsearch search", "index", index)

	res, err := c.es.Search(
		c.es.Search.WithContext(ctx),
		c.es.Search.WithIndex(index),
		c.es.Search.WithBody(bytes.NewReader(query)),
		c.es.Search.WithTrackTotalHits(true),
	)
	if err != nil {
		return nil, unavailable("search", err)
	}
	defer res.Body.Close()

	var searchResponse searchdsl.SearchResponse
	if err := decode(res, "search", &searchResponse); err != nil {
		return nil, err
	}
	return &searchResponse, nil
}

func (c *HTTPClient) Bulk(ctx context.Context, index string, body []byte) (*searchdsl.BulkResponse, error) {
	res, err := c.es.Bulk(
		bytes.NewReader(body),
		c.es.Bulk.WithIndex(index),
		c.es.Bulk.WithContext(ctx),
	)
	if err != nil {
		return nil, unavailable("bulk", err)
	}
	defer res.Body.Close()

	var bulkResponse searchdsl.BulkResponse
	if err := decode(res, "bulk", &bulkResponse); err != nil {
		return nil, err
	}
	return &bulkResponse, nil
}

func (c *HTTPClient) CreateIndex(ctx context.Context, name string, body []byte) error {
	res, err := c.es.Indices.Create(
		name,
		c.es.Indices.Create.WithBody(bytes.NewReader(body)),
		c.es.Indices.Create.WithContext(ctx),
	)
	if err != nil {
		return unavailable("create index", err)
	}
	defer res.Body.Close()
	return decode(res, "create index", nil)
}

func (c *HTTPClient) DeleteIndex(ctx context.Context, name string) error {
	res, err := c.es.Indices.Delete(
		[]string{name},
		c.es.Indices.Delete.WithContext(ctx),
	)
	if err != nil {
		return unavailable("delete index", err)
	}
	defer res.Body.Close()
	return decode(res, "delete index", nil)
}

func (c *HTTPClient) IndexExists(ctx context.Context, name string) (bool, error) {
	res, err := c.es.Indices.Exists(
		[]string{name},
		c.es.Indices.Exists.WithContext(ctx),
	)
	if err != nil {
		return false, unavailable("index exists", err)
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusNotFound {
		return false, nil
	}
	if err := decode(res, "index exists", nil); err != nil {
		return false, err
	}
	return true, nil
}

func (c *HTTPClient) Stats(ctx context.Context, name string) (*searchdsl.StatsResponse, error) {
	res, err := c.es.Indices.Stats(
		c.es.Indices.Stats.WithIndex(name),
		c.es.Indices.Stats.WithMetric("indexing"),
		c.es.Indices.Stats.WithContext(ctx),
	)
	if err != nil {
		return nil, unavailable("index stats", err)
	}
	defer res.Body.Close()

	var stats searchdsl.StatsResponse
	if err := decode(res, "index stats", &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// Ping checks if Elasticsearch is reachable
func (c *HTTPClient) Ping(ctx context.Context) error {
	res, err := c.es.Ping(c.es.Ping.WithContext(ctx))
	if err != nil {
		return unavailable("ping", err)
	}
	defer res.Body.Close()
	return decode(res, "ping", nil)
}

func (c *HTTPClient) Close() error {
	return nil
}

func unavailable(action string, err error) error {
	return errors.NewServiceUnavailable(fmt.Sprintf("elasticsearch %s failed", action), err)
}

// decode checks the status of res and unmarshals its body into dst when set.
func decode(res *esapi.Response, action string, dst any) error {
	if res.IsError() {
		body, _ := io.ReadAll(io.LimitReader(res.Body, 4096))
		message := fmt.Sprintf("elasticsearch %s returned status %d: %s", action, res.StatusCode, string(body))
		if res.StatusCode == http.StatusNotFound {
			return errors.NewNotFound(message)
		}
		return errors.NewUnexpected(message)
	}
	if dst == nil {
		return nil
	}
	if err := json.NewDecoder(res.Body).Decode(dst); err != nil {
		return errors.NewUnexpected(fmt.Sprintf("failed to decode elasticsearch %s response", action), err)
	}
	return nil
}
