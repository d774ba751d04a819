// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package cmd

import (
	"context"
	"log/slog"

	"github.com/sanctionsexplorer/sanctions-query-service/cmd/service"
	"github.com/sanctionsexplorer/sanctions-query-service/internal/domain/model"
	"github.com/sanctionsexplorer/sanctions-query-service/internal/etl"
	"github.com/sanctionsexplorer/sanctions-query-service/pkg/constants"

	"github.com/spf13/cobra"
)

var transformCmd = &cobra.Command{
	Use:   "transform",
	Short: "Transform the raw lists into the document snapshot",
	Long: `Reads sdn.json and non_sdn.json from the data directory, drops repeated
fixed_ref entries and writes transformed_combined.json next to them.`,
	Args: cobra.NoArgs,
	RunE: runTransform,
}

func runTransform(cmd *cobra.Command, args []string) error {
	_, report, err := transform(cmd.Context())
	if err != nil {
		return err
	}
	return printJSON(cmd.OutOrStdout(), report)
}

func transform(ctx context.Context) ([]model.Document, etl.BuildReport, error) {
	primary, supplementary, err := etl.ReadSources(ctx,
		dataFile(constants.PrimarySourceFile),
		dataFile(constants.SupplementarySourceFile),
	)
	if err != nil {
		return nil, etl.BuildReport{}, err
	}

	tables := service.LookupTablesImpl(ctx)
	docs, report, err := etl.NewLoader(etl.NewTransformer(tables)).Build(ctx, primary, supplementary)
	if err != nil {
		return nil, report, err
	}

	snapshot := dataFile(constants.SnapshotFile)
	if err := etl.WriteSnapshot(snapshot, docs); err != nil {
		return nil, report, err
	}

	slog.InfoContext(ctx, "snapshot written",
		"path", snapshot,
		"read", report.Read,
		"duplicates", report.Duplicates,
		"documents", report.Documents,
	)
	return docs, report, nil
}
