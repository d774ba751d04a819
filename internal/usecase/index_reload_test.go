// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package usecase

import (
	"context"
	stderrors "errors"
	"testing"

	"github.com/sanctionsexplorer/sanctions-query-service/internal/domain/model"
	"github.com/sanctionsexplorer/sanctions-query-service/internal/infrastructure/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fiveDocuments() []model.Document {
	docs := make([]model.Document, 0, 5)
	for _, ref := range []string{"10", "20", "30", "40", "50"} {
		docs = append(docs, model.Document{"fixed_ref": ref, "primary_display_name": "entry " + ref})
	}
	return docs
}

func TestReload(t *testing.T) {
	tests := []struct {
		name            string
		setupMock       func(*mock.MockIndexClient)
		expectedReport  *ReloadReport
		expectedBulkErr bool
		expectedErr     bool
	}{
		{
			name:           "full reload",
			expectedReport: &ReloadReport{Index: "sdn", Indexed: 5, IndexTotal: 5},
		},
		{
			name: "one failed item leaves the others indexed",
			setupMock: func(m *mock.MockIndexClient) {
				m.FailIDs["30"] = true
			},
			expectedReport:  &ReloadReport{Index: "sdn", Indexed: 4, Failed: 1, IndexTotal: 4},
			expectedBulkErr: true,
		},
		{
			name: "transport failure aborts",
			setupMock: func(m *mock.MockIndexClient) {
				m.BulkError = stderrors.New("connection reset by peer")
			},
			expectedErr: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assertion := assert.New(t)

			client := mock.NewMockIndexClient()
			if tc.setupMock != nil {
				tc.setupMock(client)
			}
			reload := NewIndexReload(client, nil)

			report, err := reload.Reload(context.Background(), "sdn", fiveDocuments())

			assertion.Equal([]string{"sdn"}, client.Deleted)
			assertion.Equal([]string{"sdn"}, client.Created)

			if tc.expectedErr {
				assertion.Error(err)
				assertion.Nil(report)
				return
			}

			var bulkErr *model.BulkError
			assertion.Equal(tc.expectedBulkErr, stderrors.As(err, &bulkErr))
			if !tc.expectedBulkErr {
				assertion.NoError(err)
			}
			assertion.Equal(tc.expectedReport, report)
		})
	}
}

func TestReloadReplacesPreviousContent(t *testing.T) {
	client := mock.NewMockIndexClient()
	reload := NewIndexReload(client, nil)

	_, err := reload.Reload(context.Background(), "sdn", fiveDocuments()[:2])
	require.NoError(t, err)

	docs := client.Documents("sdn")
	require.Len(t, docs, 2)
	assert.Equal(t, "10", docs[0]["fixed_ref"])
}

func TestUpdateAndStats(t *testing.T) {
	ctx := context.Background()
	client := mock.NewMockIndexClient()
	reload := NewIndexReload(client, nil)

	_, err := reload.Reload(ctx, "sdn", fiveDocuments())
	require.NoError(t, err)

	result, err := reload.Update(ctx, "sdn", []model.UpdateOperation{
		{ID: 20, Doc: map[string]any{"title": "Minister"}},
	})
	require.NoError(t, err)

	assertion := assert.New(t)
	assertion.Equal(&model.BulkResult{Indexed: 1}, result)
	assertion.Equal("Minister", client.Documents("sdn")[1]["title"])

	total, err := reload.Stats(ctx, "sdn")
	require.NoError(t, err)
	assertion.Equal(int64(6), total)

	_, err = reload.Update(ctx, "sdn", []model.UpdateOperation{{ID: 99, Doc: map[string]any{"title": "x"}}})
	var bulkErr *model.BulkError
	assertion.ErrorAs(err, &bulkErr)
}
