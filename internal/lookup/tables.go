// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

// Package lookup holds the static tables used to normalize sanctions entries:
// program code to country, list name to acronym, and country synonym classes.
package lookup

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed tables.yaml
var embeddedTables []byte

const listSuffix = " List"

// Tables is the immutable set of lookup tables. Build it with Load or Default.
type Tables struct {
	programs map[string]string
	lists    map[string]string
	classes  []CountrySet
	// alias -> index into classes
	byAlias map[string]int
}

type tablesFile struct {
	Programs map[string]string `yaml:"programs"`
	Lists    map[string]string `yaml:"lists"`
	Synonyms [][]string        `yaml:"synonyms"`
}

var (
	defaultOnce   sync.Once
	defaultTables *Tables
	defaultErr    error
)

// Default returns the tables embedded in the binary, decoded once.
func Default() (*Tables, error) {
	defaultOnce.Do(func() {
		defaultTables, defaultErr = Load(bytes.NewReader(embeddedTables))
	})
	return defaultTables, defaultErr
}

// Load decodes tables from YAML. Synonym classes must be disjoint.
func Load(r io.Reader) (*Tables, error) {
	var file tablesFile
	if err := yaml.NewDecoder(r).Decode(&file); err != nil {
		return nil, fmt.Errorf("failed to decode lookup tables: %w", err)
	}

	t := &Tables{
		programs: make(map[string]string, len(file.Programs)),
		lists:    make(map[string]string, len(file.Lists)),
		classes:  make([]CountrySet, 0, len(file.Synonyms)),
		byAlias:  make(map[string]int),
	}
	for k, v := range file.Programs {
		t.programs[k] = v
	}
	for k, v := range file.Lists {
		t.lists[k] = v
	}

	for i, class := range file.Synonyms {
		set := NewCountrySet(class...)
		if set.Len() == 0 {
			return nil, fmt.Errorf("synonym class %d is empty", i)
		}
		for _, alias := range set.Values() {
			if prev, ok := t.byAlias[alias]; ok {
				return nil, fmt.Errorf("country %q appears in synonym classes %d and %d", alias, prev, i)
			}
			t.byAlias[alias] = len(t.classes)
		}
		t.classes = append(t.classes, set)
	}

	return t, nil
}

// ProgramCountry resolves a program code to the country it targets.
func (t *Tables) ProgramCountry(code string) (string, bool) {
	country, ok := t.programs[code]
	return country, ok
}

// ListAcronym maps a list name to its short form, stripping a trailing
// " List" first. Unknown names are returned as given (after stripping).
func (t *Tables) ListAcronym(name string) string {
	name = strings.TrimSuffix(name, listSuffix)
	if acronym, ok := t.lists[name]; ok {
		return acronym
	}
	return name
}

// Synonyms returns the equivalence class containing country.
func (t *Tables) Synonyms(country string) (CountrySet, bool) {
	i, ok := t.byAlias[country]
	if !ok {
		return CountrySet{}, false
	}
	return t.classes[i].Clone(), true
}

// SynonymClasses returns every equivalence class in table order.
func (t *Tables) SynonymClasses() [][]string {
	out := make([][]string, 0, len(t.classes))
	for i := range t.classes {
		out = append(out, t.classes[i].Values())
	}
	return out
}

// ExpandCountries returns countries (first-seen order, deduplicated) followed
// by every member of the synonym class of each input.
func (t *Tables) ExpandCountries(countries []string) []string {
	expanded := NewCountrySet(countries...)
	for _, c := range countries {
		if synonyms, ok := t.Synonyms(c); ok {
			expanded = expanded.Union(synonyms)
		}
	}
	return expanded.Values()
}
