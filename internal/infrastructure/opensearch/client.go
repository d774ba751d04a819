// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package opensearch

import (
	"bytes"
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/sanctionsexplorer/sanctions-query-service/internal/infrastructure/searchdsl"
	"github.com/sanctionsexplorer/sanctions-query-service/pkg/errors"

	"github.com/opensearch-project/opensearch-go/v4"
	"github.com/opensearch-project/opensearch-go/v4/opensearchapi"
)

type httpClient struct {
	transport *http.Transport
	client    *opensearchapi.Client
}

var _ searchdsl.Engine = (*httpClient)(nil)

// do performs req and decodes a successful body into dst.
// A response carrying an error status is returned without error so the
// caller can branch on the status code. A body that cannot be read or
// decoded is Unexpected; only a failed round trip is ServiceUnavailable.
func (c *httpClient) do(ctx context.Context, req opensearch.Request, dst any, action string) (*opensearch.Response, error) {
	resp, err := c.client.Client.Do(ctx, req, dst)
	if err == nil {
		return resp, nil
	}
	if resp != nil && resp.IsError() {
		return resp, nil
	}
	closeBody(resp)
	if stderrors.Is(err, opensearch.ErrJSONUnmarshalBody) || stderrors.Is(err, opensearch.ErrReadBody) {
		return nil, errors.NewUnexpected(fmt.Sprintf("failed to decode opensearch %s response", action), err)
	}
	return nil, errors.NewServiceUnavailable(fmt.Sprintf("opensearch %s failed", action), err)
}

func (c *httpClient) Search(ctx context.Context, index string, query []byte) (*searchdsl.SearchResponse, error) {

	slog.DebugContext(ctx, "executing opensearch search",
		"index", index,
		"query", string(query),
	)

	searchRequest := opensearchapi.SearchReq{
		Indices: []string{index},
		Body:    bytes.NewReader(query),
	}

	var searchResponse searchdsl.SearchResponse
	resp, err := c.do(ctx, searchRequest, &searchResponse, "search")
	if err != nil {
		return nil, err
	}
	defer closeBody(resp)

	// Check for errors in the response
	if resp.IsError() {
		return nil, statusError("search", resp)
	}

	return &searchResponse, nil
}

func (c *httpClient) Bulk(ctx context.Context, index string, body []byte) (*searchdsl.BulkResponse, error) {
	var bulkResponse searchdsl.BulkResponse
	resp, err := c.do(ctx, opensearchapi.BulkReq{
		Index: index,
		Body:  bytes.NewReader(body),
	}, &bulkResponse, "bulk")
	if err != nil {
		return nil, err
	}
	defer closeBody(resp)

	if resp.IsError() {
		return nil, statusError("bulk", resp)
	}
	return &bulkResponse, nil
}

func (c *httpClient) CreateIndex(ctx context.Context, name string, body []byte) error {
	resp, err := c.do(ctx, opensearchapi.IndicesCreateReq{
		Index: name,
		Body:  bytes.NewReader(body),
	}, nil, "create index")
	if err != nil {
		return err
	}
	defer closeBody(resp)

	if resp.IsError() {
		return statusError("create index", resp)
	}
	return nil
}

func (c *httpClient) DeleteIndex(ctx context.Context, name string) error {
	resp, err := c.do(ctx, opensearchapi.IndicesDeleteReq{
		Indices: []string{name},
	}, nil, "delete index")
	if err != nil {
		return err
	}
	defer closeBody(resp)

	if resp.IsError() {
		return statusError("delete index", resp)
	}
	return nil
}

func (c *httpClient) IndexExists(ctx context.Context, name string) (bool, error) {
	resp, err := c.do(ctx, opensearchapi.IndicesExistsReq{
		Indices: []string{name},
	}, nil, "index exists")
	if err != nil {
		return false, err
	}
	defer closeBody(resp)

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return false, nil
	case resp.IsError():
		return false, statusError("index exists", resp)
	}
	return true, nil
}

func (c *httpClient) Stats(ctx context.Context, name string) (*searchdsl.StatsResponse, error) {
	var stats searchdsl.StatsResponse
	resp, err := c.do(ctx, opensearchapi.IndicesStatsReq{
		Indices: []string{name},
		Metrics: []string{"indexing"},
	}, &stats, "index stats")
	if err != nil {
		return nil, err
	}
	defer closeBody(resp)

	if resp.IsError() {
		return nil, statusError("index stats", resp)
	}
	return &stats, nil
}

func (c *httpClient) Ping(ctx context.Context) error {
	resp, err := c.do(ctx, opensearchapi.PingReq{}, nil, "ping")
	if err != nil {
		return err
	}
	defer closeBody(resp)

	if resp.IsError() {
		return statusError("ping", resp)
	}
	return nil
}

func (c *httpClient) Close() error {
	if c.transport != nil {
		c.transport.CloseIdleConnections()
	}
	return nil
}

func closeBody(resp *opensearch.Response) {
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}
}

// statusError turns a non-2xx answer into a typed error carrying the body.
func statusError(action string, resp *opensearch.Response) error {
	var body []byte
	if resp.Body != nil {
		body, _ = io.ReadAll(io.LimitReader(resp.Body, 4096))
	}
	message := fmt.Sprintf("opensearch %s returned status %d: %s", action, resp.StatusCode, string(body))
	if resp.StatusCode == http.StatusNotFound {
		return errors.NewNotFound(message)
	}
	return errors.NewUnexpected(message)
}
