// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package constants

const (
	// RequestIDHeader is the header name for the request ID
	RequestIDHeader = "X-REQUEST-ID"

	// ForwardedForHeader carries the client address behind a proxy
	ForwardedForHeader = "X-Forwarded-For"
)
