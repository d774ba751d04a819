// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package searchdsl

const searchSource = `{
  "size": {{ .Size }},
  "from": {{ .From }},
  "track_total_hits": true,
  "query": {
    "bool": {
      "must": {{ clauses .Query.Must }},
      "should": {{ clauses .Query.Should }}
    }
  }
}`
