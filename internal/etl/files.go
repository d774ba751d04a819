// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package etl

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/sanctionsexplorer/sanctions-query-service/internal/domain/model"

	"golang.org/x/sync/errgroup"
)

// ReadRawEntries decodes a JSON array of raw entries.
func ReadRawEntries(path string) ([]model.RawEntry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	var entries []model.RawEntry
	if err := json.NewDecoder(bufio.NewReader(f)).Decode(&entries); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return entries, nil
}

// ReadSources reads the primary and supplementary lists concurrently.
func ReadSources(ctx context.Context, primaryPath, supplementaryPath string) (primary, supplementary []model.RawEntry, err error) {
	g, _ := errgroup.WithContext(ctx)

	g.Go(func() error {
		var errRead error
		primary, errRead = ReadRawEntries(primaryPath)
		return errRead
	})
	g.Go(func() error {
		var errRead error
		supplementary, errRead = ReadRawEntries(supplementaryPath)
		return errRead
	})

	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	slog.DebugContext(ctx, "sources read",
		"primary", len(primary),
		"supplementary", len(supplementary),
	)
	return primary, supplementary, nil
}

// WriteSnapshot writes docs as a JSON array. The file is replaced atomically.
func WriteSnapshot(path string, docs []model.Document) error {
	if docs == nil {
		docs = []model.Document{}
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create snapshot: %w", err)
	}
	defer os.Remove(tmp.Name())

	w := bufio.NewWriter(tmp)
	if err := json.NewEncoder(w).Encode(docs); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}
	if err := w.Flush(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close snapshot: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to replace snapshot: %w", err)
	}
	return nil
}

// ReadSnapshot reads documents written by WriteSnapshot.
func ReadSnapshot(path string) ([]model.Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open snapshot %s: %w", path, err)
	}
	defer f.Close()

	decoder := json.NewDecoder(bufio.NewReader(f))
	decoder.UseNumber()
	var docs []model.Document
	if err := decoder.Decode(&docs); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot %s: %w", path, err)
	}
	return docs, nil
}

// ReadUpdateOperations decodes a JSON array of partial updates.
func ReadUpdateOperations(path string) ([]model.UpdateOperation, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	var ops []model.UpdateOperation
	if err := json.NewDecoder(bufio.NewReader(f)).Decode(&ops); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return ops, nil
}
