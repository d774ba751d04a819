// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package etl

import (
	"context"
	"encoding/json"
	"os"
	"testing"

	"github.com/sanctionsexplorer/sanctions-query-service/internal/domain/model"
	"github.com/sanctionsexplorer/sanctions-query-service/internal/lookup"
	"github.com/sanctionsexplorer/sanctions-query-service/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTransformer(t *testing.T) *Transformer {
	t.Helper()
	tables, err := lookup.Default()
	require.NoError(t, err)
	return NewTransformer(tables)
}

func decodeEntry(t *testing.T, data string) model.RawEntry {
	t.Helper()
	var entry model.RawEntry
	require.NoError(t, json.Unmarshal([]byte(data), &entry))
	return entry
}

func loadEntryFixture(t *testing.T) model.RawEntry {
	t.Helper()
	data, err := os.ReadFile("testdata/entry.json")
	require.NoError(t, err)
	return decodeEntry(t, string(data))
}

func entryOnLists(t *testing.T, ref string, lists ...string) model.RawEntry {
	t.Helper()
	entries := make([]map[string]any, 0, len(lists))
	for _, l := range lists {
		entries = append(entries, map[string]any{"list": l, "program": []string{}, "entry_events": [][]any{}})
	}
	raw := map[string]any{
		"fixed_ref":         ref,
		"identity":          map[string]any{"id": ref, "primary": map[string]any{"display_name": "ENTRY " + ref}, "aliases": []any{}},
		"sanctions_entries": entries,
		"linked_profiles":   []any{},
		"features":          map[string]any{},
		"documents":         []any{},
	}
	data, err := json.Marshal(raw)
	require.NoError(t, err)
	return decodeEntry(t, string(data))
}

func TestTransformSDNDisplay(t *testing.T) {
	tests := []struct {
		name            string
		lists           []string
		expectedDisplay string
		expectedIsSDN   bool
	}{
		{
			name:            "sdn and consolidated",
			lists:           []string{"SDN List", "Consolidated List"},
			expectedDisplay: "[SDN] [Non-SDN]",
			expectedIsSDN:   true,
		},
		{
			name:            "consolidated and part 561",
			lists:           []string{"Consolidated List", "Part 561 List"},
			expectedDisplay: "[Non-SDN: 561List]",
		},
		{
			name:            "consolidated with several lists sorted",
			lists:           []string{"Sectoral Sanctions Identifications List", "Consolidated List", "Part 561 List"},
			expectedDisplay: "[Non-SDN: 561List, SSI]",
		},
		{
			name:            "sdn only",
			lists:           []string{"SDN List"},
			expectedDisplay: "[SDN]",
			expectedIsSDN:   true,
		},
		{
			name:            "no recognizable list",
			lists:           []string{"Sectoral Sanctions Identifications List"},
			expectedDisplay: "",
		},
	}

	transformer := newTestTransformer(t)
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assertion := assert.New(t)

			doc, err := transformer.Transform(context.Background(), entryOnLists(t, "1", tc.lists...))
			require.NoError(t, err)
			assertion.Equal(tc.expectedDisplay, doc[model.FieldSDNDisplay])
			assertion.Equal(tc.expectedIsSDN, doc[model.FieldIsSDN])
		})
	}
}

func TestTransformDerivesFields(t *testing.T) {
	transformer := newTestTransformer(t)
	entry := loadEntryFixture(t)

	doc, err := transformer.Transform(context.Background(), entry)
	require.NoError(t, err)

	assertion := assert.New(t)

	assertion.Equal("9", doc[model.FieldIdentityID])
	assertion.Equal("AEROCARIBBEAN AIRLINES", doc[model.FieldPrimaryDisplayName])
	assertion.Equal([]string{"AEROCARIBBEAN AIRLINES", "AERO-CARIBBEAN", "AEROCARIBE"}, doc[model.FieldAllDisplayNames])
	assertion.Equal([]string{"CUBA", "DPRK"}, doc[model.FieldPrograms])
	assertion.Equal([]string{"1986-12-10", "2012-01-01"}, doc[model.FieldSanctionDates])
	assertion.Equal("[SDN] [Non-SDN]", doc[model.FieldSDNDisplay])
	assertion.Equal([]string{"10"}, doc[model.FieldLinkedProfileIDs])
	assertion.Equal([]string{"BANCO NACIONAL DE CUBA"}, doc[model.FieldLinkedProfileNames])

	assertion.Equal([]string{
		"Cuba", "North Korea", "Russia", "Panama",
		"NK", "DPRK", "Democratic People's Republic of Korea", "Korea, North",
		"Russian Federation",
	}, doc[model.FieldCountries])
	assertion.Equal([]string{"Cuba", "Panama"}, doc[model.FieldDocumentCountries])
	assertion.Equal([]string{"Russia", "Russian Federation"}, doc[model.FieldNationalityCountry])

	assertion.Equal([]string{"BCUBCUHH", "SWIFT/BIC", "IMO 8123456", "Vessel Registration Identification"}, doc[model.FieldDocIDNumbers])
	assertion.Equal([]string{"IMO 8123456", "9HA2"}, doc[model.FieldVesselTags])
	assertion.Equal([]string{}, doc[model.FieldAircraftTags])

	assertion.Equal([]string{"9HA2"}, doc["vessel_call_sign"])
	assertion.Equal([]string{"BCUBCUHH"}, doc["swift/bic"])
	assertion.Equal([]string{"Havana, Cuba"}, doc["location"])
	assertion.Equal("Entity", doc["party_sub_type"])

	assertion.Equal([]string{"issued_in", "issuing_authority", "issue_date"}, doc[model.FieldDocumentHeaders])

	documents, ok := doc[model.FieldDocuments].([]any)
	require.True(t, ok)
	require.Len(t, documents, 1)
	record, ok := documents[0].(map[string]any)
	require.True(t, ok)
	assertion.Nil(record["issued_by"])
	assertion.Equal("Havana, Cuba", record["issued_in"])
	assertion.Equal("Panama", record["issuing_authority"])
	assertion.Equal("2001-01-01", record["issue_date"])

	identity, ok := doc[model.FieldIdentity].(map[string]any)
	require.True(t, ok)
	aliases, ok := identity["aliases"].([]any)
	require.True(t, ok)
	require.Len(t, aliases, 2)
	first := aliases[0].(map[string]any)
	second := aliases[1].(map[string]any)
	assertion.Equal("strong", first["strength"])
	assertion.Equal("weak", second["strength"])
	assertion.NotContains(second, "date_period")

	allFields, ok := doc[model.FieldAllFields].([]string)
	require.True(t, ok)
	assertion.Contains(allFields, "AEROCARIBBEAN AIRLINES")
	assertion.Contains(allFields, "CUBA,DPRK")
	assertion.Contains(allFields, "Entity")
	assertion.Contains(allFields, "Havana, Cuba")
	assertion.Contains(allFields, "Russia,Russian Federation")
	assertion.Equal("[SDN] [Non-SDN]", allFields[len(allFields)-1])
	assertion.NotContains(allFields, "36")
}

func TestTransformIsDeterministicAndLeavesInputUntouched(t *testing.T) {
	transformer := newTestTransformer(t)
	entry := loadEntryFixture(t)

	first, err := transformer.Transform(context.Background(), entry)
	require.NoError(t, err)
	second, err := transformer.Transform(context.Background(), entry)
	require.NoError(t, err)

	assertion := assert.New(t)
	assertion.Equal(first, second)

	identity := entry.Attributes["identity"].(map[string]any)
	aliases := identity["aliases"].([]any)
	assertion.Contains(aliases[1].(map[string]any), "date_period")
	assertion.NotContains(aliases[1].(map[string]any), "strength")

	documents := entry.Attributes["documents"].([]any)
	assertion.Equal("None", documents[0].(map[string]any)["issued_by"])
}

func TestTransformRejectsMissingFixedRef(t *testing.T) {
	transformer := newTestTransformer(t)

	_, err := transformer.Transform(context.Background(), model.RawEntry{})
	require.Error(t, err)
	assert.True(t, errors.IsValidation(err))
}

func TestTransformTypedEntryWithoutAttributes(t *testing.T) {
	transformer := newTestTransformer(t)

	entry := model.RawEntry{
		FixedRef: "77",
		Identity: model.Identity{
			ID:      "5",
			Primary: model.Name{DisplayName: "KIM"},
			Aliases: []model.Alias{{DisplayName: "KIM IL", IsLowQuality: true}},
		},
		SanctionsEntries: []model.SanctionsEntry{{List: "SDN List", Program: []string{"DPRK2"}}},
		Documents: []model.IDDocument{{
			IDNumber:         "P1",
			Type:             "Passport",
			Validity:         "Expired",
			IssuedBy:         "None",
			IssuedIn:         "None",
			IssuingAuthority: "None",
		}},
	}

	doc, err := transformer.Transform(context.Background(), entry)
	require.NoError(t, err)

	assertion := assert.New(t)
	assertion.Equal("77", doc[model.FieldFixedRef])
	assertion.Equal("[SDN]", doc[model.FieldSDNDisplay])
	assertion.Equal([]string{}, doc[model.FieldDocumentHeaders])
	assertion.Equal([]string{}, doc[model.FieldDocumentCountries])
	assertion.Equal([]string{"P1", "Passport"}, doc[model.FieldDocIDNumbers])
	assertion.Equal([]string{
		"North Korea", "NK", "DPRK", "Democratic People's Republic of Korea", "Korea, North",
	}, doc[model.FieldCountries])

	identity := doc[model.FieldIdentity].(map[string]any)
	aliases := identity["aliases"].([]any)
	assertion.Equal("weak", aliases[0].(map[string]any)["strength"])
}

func TestFeatureKey(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{input: "Citizenship Country", expected: "citizenship_country"},
		{input: "SWIFT/BIC", expected: "swift/bic"},
		{input: "Vessel Gross Registered Tonnage", expected: "vessel_gross_registered_tonnage"},
		{input: "BIK (RU)", expected: "bik_(ru)"},
		{input: "Aircraft Manufacturer's Serial Number (MSN)", expected: "aircraft_manufacturer's_serial_number_(msn)"},
	}

	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			assertion := assert.New(t)

			assertion.Equal(tc.expected, featureKey(tc.input))
		})
	}
}
