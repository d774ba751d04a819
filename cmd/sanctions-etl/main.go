// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

// The sanctions-etl command builds the search documents and loads them
// into the configured search engine.
package main

import (
	"os"

	"github.com/sanctionsexplorer/sanctions-query-service/cmd/sanctions-etl/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
