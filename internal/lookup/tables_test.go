// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package lookup

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadDefault(t *testing.T) *Tables {
	t.Helper()
	tables, err := Default()
	require.NoError(t, err)
	return tables
}

func TestProgramCountry(t *testing.T) {
	tables := loadDefault(t)

	tests := []struct {
		name     string
		code     string
		expected string
		found    bool
	}{
		{name: "korea program", code: "DPRK3", expected: "North Korea", found: true},
		{name: "program with space", code: "SOUTH SUDAN", expected: "South Sudan", found: true},
		{name: "libya keeps source spelling", code: "LIBYA2", expected: "Lybia", found: true},
		{name: "ukraine executive order", code: "UKRAINE-EO13685", expected: "Ukraine", found: true},
		{name: "unknown program", code: "SDGT", found: false},
		{name: "empty code", code: "", found: false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assertion := assert.New(t)

			country, ok := tables.ProgramCountry(tc.code)
			assertion.Equal(tc.found, ok)
			assertion.Equal(tc.expected, country)
		})
	}
}

func TestListAcronym(t *testing.T) {
	tables := loadDefault(t)

	tests := []struct {
		name     string
		list     string
		expected string
	}{
		{name: "consolidated list", list: "Consolidated List", expected: "Non-SDN"},
		{name: "sectoral sanctions", list: "Sectoral Sanctions Identifications List", expected: "SSI"},
		{name: "part 561", list: "Part 561 List", expected: "561List"},
		{name: "sdn list maps to itself", list: "SDN List", expected: "SDN"},
		{name: "name without suffix", list: "Executive Order 13599", expected: "EO13599"},
		{name: "unknown name", list: "Some Other", expected: "Some Other"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assertion := assert.New(t)

			assertion.Equal(tc.expected, tables.ListAcronym(tc.list))
		})
	}
}

func TestExpandCountriesIsSymmetricWithinClass(t *testing.T) {
	tables := loadDefault(t)
	assertion := assert.New(t)

	for _, class := range tables.SynonymClasses() {
		want := tables.ExpandCountries([]string{class[0]})
		for _, member := range class {
			assertion.ElementsMatch(want, tables.ExpandCountries([]string{member}), "member %q", member)
		}
	}
}

func TestExpandCountries(t *testing.T) {
	tables := loadDefault(t)

	tests := []struct {
		name     string
		input    []string
		expected []string
	}{
		{
			name:     "no synonyms",
			input:    []string{"Iran", "Cuba"},
			expected: []string{"Iran", "Cuba"},
		},
		{
			name:     "inputs first then synonyms",
			input:    []string{"Iran", "Russia"},
			expected: []string{"Iran", "Russia", "Russian Federation"},
		},
		{
			name:     "duplicates collapse",
			input:    []string{"UAE", "United Arab Emirates", "UAE"},
			expected: []string{"UAE", "United Arab Emirates"},
		},
		{
			name:     "empty values are dropped",
			input:    []string{"", "Cuba"},
			expected: []string{"Cuba"},
		},
		{
			name:     "nil input",
			input:    nil,
			expected: []string{},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assertion := assert.New(t)

			assertion.Equal(tc.expected, tables.ExpandCountries(tc.input))
		})
	}
}

func TestSynonymsReturnsCopy(t *testing.T) {
	tables := loadDefault(t)
	assertion := assert.New(t)

	set, ok := tables.Synonyms("UK")
	require.True(t, ok)
	set.Add("Scotland")

	again, ok := tables.Synonyms("UK")
	require.True(t, ok)
	assertion.False(again.Has("Scotland"))
	assertion.Equal([]string{"England", "UK", "United Kingdom", "Britain"}, again.Values())
}

func TestLoadRejectsOverlappingClasses(t *testing.T) {
	const data = `
programs: {}
lists: {}
synonyms:
  - ["US", "USA"]
  - ["USA", "America"]
`
	_, err := Load(strings.NewReader(data))
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"USA"`)
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	_, err := Load(strings.NewReader("programs: [unclosed"))
	require.Error(t, err)
}

func TestCountrySetUnionDoesNotMutateOperands(t *testing.T) {
	assertion := assert.New(t)

	a := NewCountrySet("Iran", "Iraq")
	b := NewCountrySet("Iraq", "Syria")

	u := a.Union(b)

	assertion.Equal([]string{"Iran", "Iraq", "Syria"}, u.Values())
	assertion.Equal([]string{"Iran", "Iraq"}, a.Values())
	assertion.Equal([]string{"Iraq", "Syria"}, b.Values())

	unordered := NewCountrySet("Syria", "Iran", "Iraq")
	assertion.Equal([]string{"Iran", "Iraq", "Syria"}, unordered.Sorted())
}
