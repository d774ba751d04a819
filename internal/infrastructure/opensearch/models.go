// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package opensearch

import "time"

const defaultResponseTimeout = 30 * time.Second

// Config represents OpenSearch configuration
type Config struct {
	URL      string `json:"url"`
	Username string `json:"username"`
	Password string `json:"password"`
	// ResponseTimeout bounds the wait for response headers; bulk loads of
	// the full list need more than the one second a search does.
	ResponseTimeout time.Duration `json:"response_timeout"`
}

func (c Config) responseTimeout() time.Duration {
	if c.ResponseTimeout > 0 {
		return c.ResponseTimeout
	}
	return defaultResponseTimeout
}
