// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package cmd

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/sanctionsexplorer/sanctions-query-service/cmd/service"
	"github.com/sanctionsexplorer/sanctions-query-service/internal/domain/port"
	logging "github.com/sanctionsexplorer/sanctions-query-service/pkg/log"
	"github.com/sanctionsexplorer/sanctions-query-service/pkg/constants"

	"github.com/spf13/cobra"
)

var (
	searchSource string
	indexName    string
	dataDir      string
)

var rootCmd = &cobra.Command{
	Use:   "sanctions-etl",
	Short: "Build and load the sanctions search index",
	Long: `sanctions-etl turns the raw SDN and non-SDN lists into search documents
and loads them into OpenSearch, Elasticsearch or a local bleve index.

Environment variables select the engine connection, the same ones the API uses.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logging.InitStructureLogConfig()
	},
}

// Execute runs the root command until it finishes or a signal arrives.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&searchSource, "source", service.SearchSource(), "search engine: opensearch, elasticsearch, bleve or mock")
	rootCmd.PersistentFlags().StringVar(&indexName, "index", constants.DefaultSDNIndex, "index to load")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", constants.DefaultDataDir, "directory holding the source and snapshot files")

	rootCmd.AddCommand(fetchCmd)
	rootCmd.AddCommand(transformCmd)
	rootCmd.AddCommand(loadCmd)
	rootCmd.AddCommand(reloadCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(updateCmd)
}

func dataFile(name string) string {
	return filepath.Join(dataDir, name)
}

func newIndexClient(ctx context.Context) port.IndexClient {
	tables := service.LookupTablesImpl(ctx)
	return service.IndexClientImpl(ctx, searchSource, tables)
}

func printJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
