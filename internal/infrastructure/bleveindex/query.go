// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package bleveindex

import (
	"strconv"

	"github.com/sanctionsexplorer/sanctions-query-service/internal/domain/model"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/search/query"
)

// maxFuzziness is the largest edit distance bleve accepts on a term.
const maxFuzziness = 2

// toBleveQuery maps the engine-neutral boolean query onto bleve queries.
func toBleveQuery(q model.BoolQuery) query.Query {
	if q.IsEmpty() {
		return bleve.NewMatchNoneQuery()
	}

	boolQuery := bleve.NewBooleanQuery()
	for _, c := range q.Must {
		boolQuery.AddMust(toClause(c))
	}
	for _, c := range q.Should {
		boolQuery.AddShould(toClause(c))
	}
	if len(q.Must) == 0 {
		boolQuery.SetMinShould(1)
	}
	return boolQuery
}

func toClause(c model.Clause) query.Query {
	if c.Kind == model.ClauseMatchPhrase {
		phrase := bleve.NewMatchPhraseQuery(c.Query)
		phrase.SetField(c.Field)
		if c.Boost != 0 {
			phrase.SetBoost(c.Boost)
		}
		return phrase
	}

	match := bleve.NewMatchQuery(c.Query)
	match.SetField(c.Field)
	if c.Boost != 0 {
		match.SetBoost(c.Boost)
	}
	if c.Operator == model.OperatorAnd {
		match.SetOperator(query.MatchQueryOperatorAnd)
	} else {
		match.SetOperator(query.MatchQueryOperatorOr)
	}
	match.SetFuzziness(fuzziness(c.Fuzziness))
	return match
}

// fuzziness turns an engine fuzziness setting into a bleve edit distance.
// AUTO becomes 1 and anything unparsable is exact.
func fuzziness(value string) int {
	if value == model.FuzzinessAuto {
		return 1
	}
	n, err := strconv.Atoi(value)
	if err != nil || n < 0 {
		return 0
	}
	return min(n, maxFuzziness)
}
