// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	stderrors "errors"
	"log/slog"
	"net/http"

	"github.com/sanctionsexplorer/sanctions-query-service/internal/middleware"
	"github.com/sanctionsexplorer/sanctions-query-service/pkg/errors"
)

// genericSearchError is returned when the failure detail must stay server side.
const genericSearchError = "the search could not be completed"

// ErrorBody is the JSON body of every error response. RequestID matches
// the X-REQUEST-ID response header so a caller can quote it.
type ErrorBody struct {
	Message   string            `json:"message"`
	Fields    map[string]string `json:"fields,omitempty"`
	RequestID string            `json:"request_id,omitempty"`
}

// wrapError logs err and maps it to a status and a body. Only validation
// messages reach the client; engine failures are reported as a bad request
// with a generic message.
func wrapError(ctx context.Context, err error) (int, ErrorBody) {

	f := func(err error) (int, ErrorBody) {
		if err == nil {
			return http.StatusBadRequest, ErrorBody{Message: "unknown error"}
		}

		var validation errors.Validation
		if stderrors.As(err, &validation) {
			return http.StatusBadRequest, ErrorBody{
				Message: validation.Error(),
				Fields:  validation.Fields,
			}
		}
		return http.StatusBadRequest, ErrorBody{Message: genericSearchError}
	}

	slog.ErrorContext(ctx, "request failed",
		"error", err,
	)
	status, body := f(err)
	body.RequestID = middleware.RequestIDFromContext(ctx)
	return status, body
}
