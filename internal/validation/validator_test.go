// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package validation

import (
	"errors"
	"testing"

	"github.com/sanctionsexplorer/sanctions-query-service/internal/domain/model"
	pkgerrors "github.com/sanctionsexplorer/sanctions-query-service/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name            string
		input           any
		expectedFields  map[string]string
		expectedMessage string
	}{
		{
			name:  "valid page",
			input: model.SearchCriteria{Page: model.Page{Size: 50}},
		},
		{
			name:            "negative size",
			input:           model.SearchCriteria{Page: model.Page{Size: -1}},
			expectedFields:  map[string]string{"size": "must be greater than or equal to 0"},
			expectedMessage: "size must be greater than or equal to 0",
		},
		{
			name:  "missing press release query and negative offset",
			input: model.PressReleaseCriteria{Page: model.Page{Size: 10, From: -5}},
			expectedFields: map[string]string{
				"query": "is required",
				"from":  "must be greater than or equal to 0",
			},
			expectedMessage: "from must be greater than or equal to 0, query is required",
		},
	}

	v := New()
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assertion := assert.New(t)

			err := v.Validate(tc.input)
			if tc.expectedFields == nil {
				assertion.NoError(err)
				return
			}

			var validation pkgerrors.Validation
			assertion.True(errors.As(err, &validation))
			assertion.Equal(tc.expectedFields, validation.Fields)
			assertion.Equal(tc.expectedMessage, err.Error())
		})
	}
}
