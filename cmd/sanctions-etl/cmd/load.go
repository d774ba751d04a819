// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sanctionsexplorer/sanctions-query-service/internal/domain/model"
	"github.com/sanctionsexplorer/sanctions-query-service/internal/etl"
	"github.com/sanctionsexplorer/sanctions-query-service/internal/usecase"
	"github.com/sanctionsexplorer/sanctions-query-service/pkg/constants"

	"github.com/spf13/cobra"
)

var loadCmd = &cobra.Command{
	Use:   "load",
	Short: "Replace the index content with the document snapshot",
	Long: `Deletes and recreates the index, then bulk loads transformed_combined.json.
Searches see a missing or partial index while the load runs.`,
	Args: cobra.NoArgs,
	RunE: runLoad,
}

var reloadCmd = &cobra.Command{
	Use:   "reload",
	Short: "Transform the raw lists and load the result",
	Args:  cobra.NoArgs,
	RunE:  runReload,
}

func runLoad(cmd *cobra.Command, args []string) error {
	docs, err := etl.ReadSnapshot(dataFile(constants.SnapshotFile))
	if err != nil {
		return err
	}
	return load(cmd, docs)
}

func runReload(cmd *cobra.Command, args []string) error {
	docs, _, err := transform(cmd.Context())
	if err != nil {
		return err
	}
	return load(cmd, docs)
}

func load(cmd *cobra.Command, docs []model.Document) error {
	ctx := cmd.Context()

	client := newIndexClient(ctx)
	defer closeClient(ctx, client)

	report, err := usecase.NewIndexReload(client, nil).Reload(ctx, indexName, docs)
	if report != nil {
		if errPrint := printJSON(cmd.OutOrStdout(), report); errPrint != nil {
			return errPrint
		}
	}
	if err != nil {
		return fmt.Errorf("load of %s: %w", indexName, err)
	}
	return nil
}

func closeClient(ctx context.Context, client interface{ Close() error }) {
	if err := client.Close(); err != nil {
		slog.WarnContext(ctx, "failed to close index client", "error", err)
	}
}
