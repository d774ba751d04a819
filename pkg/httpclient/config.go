// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package httpclient

import (
	"time"
)

// Config holds the configuration for the download client
type Config struct {
	// Timeout bounds one whole attempt, body included
	Timeout time.Duration

	// MaxRetries is the number of extra attempts after a retryable failure
	MaxRetries int

	// RetryDelay is the delay before the first retry
	RetryDelay time.Duration

	// RetryBackoff doubles the delay on every further retry
	RetryBackoff bool
}

// DefaultConfig returns the settings used for the list downloads.
func DefaultConfig() Config {
	return Config{
		Timeout:      5 * time.Minute,
		MaxRetries:   2,
		RetryDelay:   1 * time.Second,
		RetryBackoff: true,
	}
}
