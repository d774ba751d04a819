// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package bleveindex

import (
	"encoding/json"
	"slices"
	"sort"
	"strings"
	"unicode"

	"github.com/sanctionsexplorer/sanctions-query-service/internal/domain/model"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/mapping"
)

// sourceField holds the JSON of the original document. It is stored only.
const sourceField = "source_json"

// countryFields hold lists of country names expanded element by element.
var countryFields = []string{
	model.FieldCountries,
	model.FieldNationalityCountry,
	model.FieldCitizenshipCountry,
	model.FieldNationalityOfRegistration,
}

func indexMapping() mapping.IndexMapping {
	source := bleve.NewTextFieldMapping()
	source.Index = false
	source.Store = true
	source.IncludeInAll = false
	source.IncludeTermVectors = false

	doc := bleve.NewDocumentMapping()
	doc.AddFieldMappingsAt(sourceField, source)

	m := bleve.NewIndexMapping()
	m.DefaultMapping = doc
	m.DefaultAnalyzer = "standard"
	m.StoreDynamic = false
	m.IndexDynamic = true
	return m
}

// synonymExpander appends every member of a synonym class to values that
// name one of its members. Names are compared as whole words, so "US" never
// matches inside "Russia".
type synonymExpander struct {
	classes [][]string
	// normalized member -> class
	byName map[string]int
	names  []classPhrase
}

type classPhrase struct {
	words []string
	class int
}

func newSynonymExpander(classes [][]string) synonymExpander {
	s := synonymExpander{
		classes: classes,
		byName:  make(map[string]int),
	}
	for i, class := range classes {
		for _, member := range class {
			words := tokenize(member)
			if len(words) == 0 {
				continue
			}
			s.byName[strings.Join(words, " ")] = i
			s.names = append(s.names, classPhrase{words: words, class: i})
		}
	}
	return s
}

// tokenize lower-cases s and splits it on anything but letters and digits.
func tokenize(s string) []string {
	return strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// expandValues appends the classes of values that are exactly a member name.
func (s synonymExpander) expandValues(values []string) []string {
	matched := make(map[int]bool)
	for _, value := range values {
		if class, ok := s.byName[strings.Join(tokenize(value), " ")]; ok {
			matched[class] = true
		}
	}
	return s.appendClasses(values, matched)
}

// expandText appends the classes of member names found on word boundaries.
func (s synonymExpander) expandText(text string) string {
	words := tokenize(text)
	if len(words) == 0 {
		return text
	}
	matched := make(map[int]bool)
	for _, name := range s.names {
		if !matched[name.class] && containsRun(words, name.words) {
			matched[name.class] = true
		}
	}
	extra := s.appendClasses(nil, matched)
	if len(extra) == 0 {
		return text
	}
	return text + " " + strings.Join(extra, " ")
}

func (s synonymExpander) appendClasses(values []string, matched map[int]bool) []string {
	if len(matched) == 0 {
		return values
	}
	present := make(map[string]bool, len(values))
	for _, v := range values {
		present[v] = true
	}
	for i, class := range s.classes {
		if !matched[i] {
			continue
		}
		for _, member := range class {
			if !present[member] {
				present[member] = true
				values = append(values, member)
			}
		}
	}
	return values
}

// containsRun reports whether phrase occurs as consecutive words of words.
func containsRun(words, phrase []string) bool {
	for i := 0; i+len(phrase) <= len(words); i++ {
		if slices.Equal(words[i:i+len(phrase)], phrase) {
			return true
		}
	}
	return false
}

// indexable flattens doc into top-level text fields plus the stored source.
func indexable(doc model.Document, synonyms synonymExpander) (map[string]any, error) {
	source, err := json.Marshal(doc)
	if err != nil {
		return nil, err
	}

	fields := make(map[string]any, len(doc)+1)
	for key, value := range doc {
		var parts []string
		leafText(value, &parts)
		if slices.Contains(countryFields, key) {
			parts = synonyms.expandValues(parts)
		}
		text := strings.Join(parts, ",")
		if text == "" {
			continue
		}
		if key == model.FieldAllFields {
			text = synonyms.expandText(text)
		}
		fields[key] = text
	}
	fields[sourceField] = string(source)
	return fields, nil
}

// leafText collects every scalar below v in a stable order.
func leafText(v any, out *[]string) {
	switch t := v.(type) {
	case nil:
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			leafText(t[k], out)
		}
	case model.Document:
		leafText(map[string]any(t), out)
	case []any:
		for _, e := range t {
			leafText(e, out)
		}
	case []map[string]any:
		for _, e := range t {
			leafText(e, out)
		}
	case []string:
		for _, e := range t {
			if e != "" {
				*out = append(*out, e)
			}
		}
	default:
		if s := model.Stringify(t); s != "" {
			*out = append(*out, s)
		}
	}
}

func decodeSource(raw string) (model.Document, error) {
	decoder := json.NewDecoder(strings.NewReader(raw))
	decoder.UseNumber()
	var doc model.Document
	if err := decoder.Decode(&doc); err != nil {
		return nil, err
	}
	return doc, nil
}
