// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

// Package bleveindex is an embedded search backend for single-node
// deployments and local development. It mirrors the behavior of the
// remote engines closely enough to share every use case with them.
package bleveindex

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/sanctionsexplorer/sanctions-query-service/internal/domain/model"
	"github.com/sanctionsexplorer/sanctions-query-service/internal/domain/port"
	"github.com/sanctionsexplorer/sanctions-query-service/pkg/errors"

	"github.com/blevesearch/bleve/v2"
)

const (
	opIndex  = "index"
	opUpdate = "update"
)

// Config represents the embedded index configuration
type Config struct {
	// DataDir keeps one index directory per name. Empty means memory only.
	DataDir string
}

type openIndex struct {
	index   bleve.Index
	indexed atomic.Int64
}

// Client implements port.IndexClient with bleve.
type Client struct {
	mu       sync.RWMutex
	dataDir  string
	synonyms synonymExpander
	indexes  map[string]*openIndex
	closed   bool
}

var _ port.IndexClient = (*Client)(nil)

// NewIndexClient creates an embedded index client.
func NewIndexClient(ctx context.Context, config Config, synonyms [][]string) (*Client, error) {
	if config.DataDir != "" {
		if err := os.MkdirAll(config.DataDir, 0o755); err != nil {
			slog.ErrorContext(ctx, "failed to create bleve data directory", "path", config.DataDir, "error", err)
			return nil, fmt.Errorf("failed to create bleve data directory: %w", err)
		}
	}

	slog.DebugContext(ctx, "bleve client created", "data_dir", config.DataDir)

	return &Client{
		dataDir:  config.DataDir,
		synonyms: newSynonymExpander(synonyms),
		indexes:  make(map[string]*openIndex),
	}, nil
}

func (c *Client) path(name string) string {
	return filepath.Join(c.dataDir, name+".bleve")
}

func (c *Client) onDisk(name string) bool {
	if c.dataDir == "" {
		return false
	}
	_, err := os.Stat(c.path(name))
	return err == nil
}

// get returns the named index, opening it from disk on first use.
func (c *Client) get(name string) (*openIndex, error) {
	c.mu.RLock()
	idx, ok := c.indexes[name]
	c.mu.RUnlock()
	if ok {
		return idx, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if idx, ok := c.indexes[name]; ok {
		return idx, nil
	}
	if !c.onDisk(name) {
		return nil, errors.NewNotFound(fmt.Sprintf("index %s does not exist", name))
	}
	index, err := bleve.Open(c.path(name))
	if err != nil {
		return nil, errors.NewUnexpected(fmt.Sprintf("failed to open index %s", name), err)
	}
	idx = &openIndex{index: index}
	c.indexes[name] = idx
	return idx, nil
}

func (c *Client) DeleteIndex(ctx context.Context, name string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	idx, open := c.indexes[name]
	if !open && !c.onDisk(name) {
		slog.InfoContext(ctx, "index does not exist, nothing to delete", "index", name)
		return nil
	}

	if open {
		if err := idx.index.Close(); err != nil {
			slog.WarnContext(ctx, "failed to close index before delete", "index", name, "error", err)
		}
		delete(c.indexes, name)
	}
	if c.dataDir != "" {
		if err := os.RemoveAll(c.path(name)); err != nil {
			slog.ErrorContext(ctx, "failed to delete index", "index", name, "error", err)
			return fmt.Errorf("failed to delete index %s: %w", name, err)
		}
	}

	slog.InfoContext(ctx, "index deleted", "index", name)
	return nil
}

func (c *Client) CreateIndex(ctx context.Context, name string) error {
	if name == "" {
		return errors.NewValidation("index name is required")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.indexes[name]; ok {
		slog.InfoContext(ctx, "index already exists", "index", name)
		return nil
	}

	var (
		index bleve.Index
		err   error
	)
	switch {
	case c.onDisk(name):
		slog.InfoContext(ctx, "index already exists", "index", name)
		index, err = bleve.Open(c.path(name))
	case c.dataDir == "":
		index, err = bleve.NewMemOnly(indexMapping())
	default:
		index, err = bleve.New(c.path(name), indexMapping())
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to create index", "index", name, "error", err)
		return fmt.Errorf("failed to create index %s: %w", name, err)
	}

	c.indexes[name] = &openIndex{index: index}
	slog.InfoContext(ctx, "index created", "index", name)
	return nil
}

func (c *Client) BulkAdd(ctx context.Context, index string, docs []model.Document, idField string) (*model.BulkResult, error) {
	slog.InfoContext(ctx, "bulk loading", "index", index, "documents", len(docs))

	idx, err := c.get(index)
	if err != nil {
		return nil, err
	}

	bulkErr := &model.BulkError{Index: index, Op: opIndex}
	batch := idx.index.NewBatch()
	for i, doc := range docs {
		id, ok := doc.ID(idField)
		if !ok {
			id = strconv.Itoa(i)
		}
		if err := c.stage(batch, id, doc); err != nil {
			bulkErr.AddFailure(model.BulkItemFailure{ID: id, Status: http.StatusBadRequest, Reason: err.Error()})
		}
	}
	return c.apply(ctx, idx, batch, bulkErr)
}

func (c *Client) BulkUpdate(ctx context.Context, index string, ops []model.UpdateOperation) (*model.BulkResult, error) {
	slog.InfoContext(ctx, "bulk updating", "index", index, "operations", len(ops))

	idx, err := c.get(index)
	if err != nil {
		return nil, err
	}

	bulkErr := &model.BulkError{Index: index, Op: opUpdate}
	batch := idx.index.NewBatch()
	for _, op := range ops {
		id := strconv.FormatInt(op.ID, 10)
		doc, found, err := source(ctx, idx.index, id)
		switch {
		case err != nil:
			bulkErr.AddFailure(model.BulkItemFailure{ID: id, Status: http.StatusInternalServerError, Reason: err.Error()})
			continue
		case !found:
			bulkErr.AddFailure(model.BulkItemFailure{ID: id, Status: http.StatusNotFound, Reason: "document_missing_exception"})
			continue
		}
		maps.Copy(doc, op.Doc)
		if err := c.stage(batch, id, doc); err != nil {
			bulkErr.AddFailure(model.BulkItemFailure{ID: id, Status: http.StatusBadRequest, Reason: err.Error()})
		}
	}
	return c.apply(ctx, idx, batch, bulkErr)
}

func (c *Client) stage(batch *bleve.Batch, id string, doc model.Document) error {
	fields, err := indexable(doc, c.synonyms)
	if err != nil {
		return err
	}
	return batch.Index(id, fields)
}

// apply commits batch and reports staged failures like a remote bulk call.
func (c *Client) apply(ctx context.Context, idx *openIndex, batch *bleve.Batch, bulkErr *model.BulkError) (*model.BulkResult, error) {
	result := &model.BulkResult{Failed: bulkErr.Total}
	if size := batch.Size(); size > 0 {
		if err := idx.index.Batch(batch); err != nil {
			slog.ErrorContext(ctx, "bulk request failed", "index", bulkErr.Index, "op", bulkErr.Op, "error", err)
			return nil, fmt.Errorf("bulk %s on index %s failed: %w", bulkErr.Op, bulkErr.Index, err)
		}
		result.Indexed = size
		idx.indexed.Add(int64(size))
	}

	if bulkErr.Total > 0 {
		slog.ErrorContext(ctx, "bulk items failed",
			"index", bulkErr.Index,
			"op", bulkErr.Op,
			"failed", bulkErr.Total,
			"first_failures", bulkErr.Failures,
		)
		return result, bulkErr
	}
	return result, nil
}

// source loads the stored document with the given id.
func source(ctx context.Context, index bleve.Index, id string) (model.Document, bool, error) {
	req := bleve.NewSearchRequestOptions(bleve.NewDocIDQuery([]string{id}), 1, 0, false)
	req.Fields = []string{sourceField}

	res, err := index.SearchInContext(ctx, req)
	if err != nil {
		return nil, false, err
	}
	if len(res.Hits) == 0 {
		return nil, false, nil
	}
	raw, _ := res.Hits[0].Fields[sourceField].(string)
	doc, err := decodeSource(raw)
	if err != nil {
		return nil, false, err
	}
	return doc, true, nil
}

func (c *Client) IndexingStats(ctx context.Context, name string) (int64, error) {
	idx, err := c.get(name)
	if err != nil {
		slog.ErrorContext(ctx, "failed to read index stats", "index", name, "error", err)
		return 0, err
	}
	return idx.indexed.Load(), nil
}

func (c *Client) Search(ctx context.Context, index string, req model.SearchRequest) (*model.SearchResult, error) {
	idx, err := c.get(index)
	if err != nil {
		return nil, fmt.Errorf("bleve search failed: %w", err)
	}

	searchRequest := bleve.NewSearchRequestOptions(toBleveQuery(req.Query), req.Size, req.From, false)
	searchRequest.Fields = []string{sourceField}

	slog.DebugContext(ctx, "executing search",
		"backend", "bleve",
		"index", index,
		"size", req.Size,
		"from", req.From,
	)

	res, err := idx.index.SearchInContext(ctx, searchRequest)
	if err != nil {
		return nil, fmt.Errorf("bleve search failed: %w", err)
	}

	result := &model.SearchResult{
		Total: int(res.Total),
		Hits:  make([]model.Hit, 0, len(res.Hits)),
	}
	for _, hit := range res.Hits {
		raw, _ := hit.Fields[sourceField].(string)
		doc, err := decodeSource(raw)
		if err != nil {
			// Log error but continue processing other hits
			slog.ErrorContext(ctx, "failed to convert hit", "hit_id", hit.ID, "error", err)
			continue
		}
		result.Hits = append(result.Hits, model.Hit{ID: hit.ID, Document: doc, Score: hit.Score})
	}

	slog.DebugContext(ctx, "search completed",
		"backend", "bleve",
		"results_count", len(result.Hits),
		"total", result.Total,
	)
	return result, nil
}

func (c *Client) IsReady(ctx context.Context) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return errors.NewServiceUnavailable("bleve client is closed")
	}
	return nil
}

func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var firstErr error
	for name, idx := range c.indexes {
		if err := idx.index.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("failed to close index %s: %w", name, err)
		}
		delete(c.indexes, name)
	}
	c.closed = true
	return firstErr
}
