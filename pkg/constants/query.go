// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package constants

const (

	// DefaultPageSize is the default number of results per page for queries
	DefaultPageSize = 50

	// DefaultSDNIndex is the index holding normalized SDN and Non-SDN entries
	DefaultSDNIndex = "sdn"

	// DefaultPressReleaseIndex is the index holding press releases
	DefaultPressReleaseIndex = "pr"

	// DocumentIDField is the document attribute used as the engine document id on load
	DocumentIDField = "fixed_ref"
)
