// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package constants

const (
	// DefaultDataDir is where the ETL reads raw lists and writes the snapshot
	DefaultDataDir = "data/update_files"

	// PrimarySourceFile holds the raw SDN list
	PrimarySourceFile = "sdn.json"

	// SupplementarySourceFile holds the raw consolidated (Non-SDN) list
	SupplementarySourceFile = "non_sdn.json"

	// SnapshotFile holds the transformed documents
	SnapshotFile = "transformed_combined.json"
)
