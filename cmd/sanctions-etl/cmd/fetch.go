// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/sanctionsexplorer/sanctions-query-service/pkg/constants"
	"github.com/sanctionsexplorer/sanctions-query-service/pkg/httpclient"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var (
	primaryURL       string
	supplementaryURL string
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Download the raw lists into the data directory",
	Long: `Downloads the SDN and non-SDN exports into sdn.json and non_sdn.json.
The URLs default to SDN_SOURCE_URL and NON_SDN_SOURCE_URL. Existing files
are replaced only when both downloads succeed.`,
	Args: cobra.NoArgs,
	RunE: runFetch,
}

func init() {
	fetchCmd.Flags().StringVar(&primaryURL, "sdn-url", os.Getenv("SDN_SOURCE_URL"), "URL of the SDN export")
	fetchCmd.Flags().StringVar(&supplementaryURL, "non-sdn-url", os.Getenv("NON_SDN_SOURCE_URL"), "URL of the non-SDN export")
}

func runFetch(cmd *cobra.Command, args []string) error {
	if primaryURL == "" || supplementaryURL == "" {
		return fmt.Errorf("both --sdn-url and --non-sdn-url are required")
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return fmt.Errorf("failed to create %s: %w", dataDir, err)
	}

	// the pair is staged and only renamed into place once both arrive
	staging, err := os.MkdirTemp(dataDir, ".fetch-*")
	if err != nil {
		return fmt.Errorf("failed to create staging directory: %w", err)
	}
	defer os.RemoveAll(staging)

	client := httpclient.NewClient(httpclient.DefaultConfig())
	sources := map[string]string{
		constants.PrimarySourceFile:       primaryURL,
		constants.SupplementarySourceFile: supplementaryURL,
	}

	g, ctx := errgroup.WithContext(cmd.Context())
	for name, url := range sources {
		g.Go(func() error {
			_, err := client.Download(ctx, url, filepath.Join(staging, name))
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	for _, name := range []string{constants.PrimarySourceFile, constants.SupplementarySourceFile} {
		if err := os.Rename(filepath.Join(staging, name), dataFile(name)); err != nil {
			return fmt.Errorf("failed to replace %s: %w", dataFile(name), err)
		}
	}

	_, err = fmt.Fprintf(cmd.OutOrStdout(), "downloaded %s and %s\n",
		dataFile(constants.PrimarySourceFile),
		dataFile(constants.SupplementarySourceFile),
	)
	return err
}
