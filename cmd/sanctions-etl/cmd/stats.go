// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package cmd

import (
	"fmt"

	"github.com/sanctionsexplorer/sanctions-query-service/internal/usecase"

	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print how many documents the index has indexed",
	Args:  cobra.NoArgs,
	RunE:  runStats,
}

func runStats(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	client := newIndexClient(ctx)
	defer closeClient(ctx, client)

	total, err := usecase.NewIndexReload(client, nil).Stats(ctx, indexName)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s: %d\n", indexName, total)
	return err
}
