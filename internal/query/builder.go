// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

// Package query translates search request parameters into the boolean query
// sent to the search engine.
package query

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/sanctionsexplorer/sanctions-query-service/internal/domain/model"
)

const (
	phraseSlop = 3

	mustBoost        = 1
	exactMatchBoost  = 1000
	allNamesBoost    = 2000
	primaryNameBoost = 4000
)

var yearRange = regexp.MustCompile(`^[0-9]{4}-[0-9]{4}$`)

// SDN builds the query of an SDN search. Params are processed in key order;
// for a repeated key only the first value is used. Unrecognized keys are
// ignored, so the result may be empty.
func SDN(params []model.Param) model.BoolQuery {
	var q model.BoolQuery

	for _, p := range firstValues(params) {
		value := p.Value
		forcedOp := ""

		switch p.Key {
		case model.FieldAllFields:
			// prioritize primary names over all names, both over other fields
			q.Should = append(q.Should,
				phrase(model.FieldAllDisplayNames, value, allNamesBoost),
				phrase(model.FieldPrimaryDisplayName, value, primaryNameBoost),
			)
		case model.FieldAllDisplayNames:
			q.Should = append(q.Should, phrase(model.FieldPrimaryDisplayName, value, allNamesBoost))
		case model.FieldSanctionDates:
			if years, ok := ExpandYearRange(value); ok {
				value = years
				forcedOp = model.OperatorOr
			}
		}

		if !IsRecognized(p.Key) {
			continue
		}
		q.Must = append(q.Must, match(p.Key, value, true, mustBoost, forcedOp))
		q.Should = append(q.Should, match(p.Key, value, false, exactMatchBoost, forcedOp))
	}

	return q
}

// PressReleases builds the query of a press release search.
func PressReleases(text string) model.BoolQuery {
	return model.BoolQuery{
		Must: []model.Clause{
			{
				Kind:      model.ClauseMatch,
				Field:     "content",
				Query:     text,
				Operator:  model.OperatorAnd,
				Fuzziness: model.FuzzinessAuto,
			},
		},
		Should: []model.Clause{
			phrase("content", text, exactMatchBoost),
			phrase("title", text, exactMatchBoost),
		},
	}
}

// ExpandYearRange turns "2011-2013" into " 2011 2012 2013". ok is false when
// value is not a year range. A reversed range expands to "".
func ExpandYearRange(value string) (string, bool) {
	if !yearRange.MatchString(value) {
		return "", false
	}
	// both halves are four digits, Atoi cannot fail
	begin, _ := strconv.Atoi(value[:4])
	end, _ := strconv.Atoi(value[5:])

	var b strings.Builder
	for y := begin; y <= end; y++ {
		b.WriteByte(' ')
		b.WriteString(strconv.Itoa(y))
	}
	return b.String(), true
}

func match(field, value string, fuzzy bool, boost float64, forcedOp string) model.Clause {
	op := forcedOp
	if op == "" {
		op = operators[field]
	}
	if op == "" {
		op = model.OperatorAnd
	}

	c := model.Clause{
		Kind:     model.ClauseMatch,
		Field:    field,
		Query:    value,
		Operator: op,
		Boost:    boost,
	}
	if fuzzy {
		switch f := fuzziness[field]; f {
		case fuzzinessNone:
		case "":
			c.Fuzziness = model.FuzzinessAuto
		default:
			c.Fuzziness = f
		}
	}
	return c
}

func phrase(field, value string, boost float64) model.Clause {
	return model.Clause{
		Kind:  model.ClauseMatchPhrase,
		Field: field,
		Query: value,
		Slop:  phraseSlop,
		Boost: boost,
	}
}

func firstValues(params []model.Param) []model.Param {
	seen := make(map[string]struct{}, len(params))
	out := make([]model.Param, 0, len(params))
	for _, p := range params {
		if _, ok := seen[p.Key]; ok {
			continue
		}
		seen[p.Key] = struct{}{}
		out = append(out, p)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}
