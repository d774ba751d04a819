// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package cmd

import (
	"fmt"

	"github.com/sanctionsexplorer/sanctions-query-service/internal/etl"
	"github.com/sanctionsexplorer/sanctions-query-service/internal/usecase"

	"github.com/spf13/cobra"
)

var updateFile string

var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Apply partial document updates to the index",
	Long: `Reads a JSON array of {"id": <fixed_ref>, "doc": {...}} objects and merges
each doc into the indexed document with that id.`,
	Args: cobra.NoArgs,
	RunE: runUpdate,
}

func init() {
	updateCmd.Flags().StringVarP(&updateFile, "file", "f", "", "JSON file with the update operations")
	_ = updateCmd.MarkFlagRequired("file")
}

func runUpdate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	ops, err := etl.ReadUpdateOperations(updateFile)
	if err != nil {
		return err
	}

	client := newIndexClient(ctx)
	defer closeClient(ctx, client)

	result, err := usecase.NewIndexReload(client, nil).Update(ctx, indexName, ops)
	if result != nil {
		if errPrint := printJSON(cmd.OutOrStdout(), result); errPrint != nil {
			return errPrint
		}
	}
	if err != nil {
		return fmt.Errorf("update of %s: %w", indexName, err)
	}
	return nil
}
