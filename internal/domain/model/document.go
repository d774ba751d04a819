// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package model

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Derived document fields.
const (
	FieldFixedRef           = "fixed_ref"
	FieldIdentityID         = "identity_id"
	FieldPrimaryDisplayName = "primary_display_name"
	FieldAllDisplayNames    = "all_display_names"
	FieldPrograms           = "programs"
	FieldSanctionDates      = "sanction_dates"
	FieldCountries          = "countries"
	FieldDocumentCountries  = "document_countries"
	FieldDocIDNumbers       = "doc_id_numbers"
	FieldLinkedProfileIDs   = "linked_profile_ids"
	FieldLinkedProfileNames = "linked_profile_names"
	FieldAircraftTags       = "aircraft_tags"
	FieldVesselTags         = "vessel_tags"
	FieldAllFields          = "all_fields"
	FieldSDNDisplay         = "sdn_display"
	FieldIsSDN              = "is_sdn"
	FieldDocumentHeaders    = "document_headers"
	FieldIdentity           = "identity"
	FieldDocuments          = "documents"

	FieldNationalityCountry        = "nationality_country"
	FieldCitizenshipCountry        = "citizenship_country"
	FieldNationalityOfRegistration = "nationality_of_registration"
)

// Document is a normalized, search-ready sanctions entry.
type Document map[string]any

// Present reports whether field holds a usable value: non-nil, and not an
// empty string or empty list. false and 0 are present.
func (d Document) Present(field string) bool {
	v, ok := d[field]
	if !ok || v == nil {
		return false
	}
	switch t := v.(type) {
	case string:
		return t != ""
	case []string:
		return len(t) > 0
	case []any:
		return len(t) > 0
	}
	return true
}

// Text stringifies field. Lists are joined with "," and nested values are
// stringified recursively. Absent fields yield "".
func (d Document) Text(field string) string {
	if !d.Present(field) {
		return ""
	}
	return Stringify(d[field])
}

// Strings returns field as a list of strings, or nil when it is not a list.
func (d Document) Strings(field string) []string {
	switch t := d[field].(type) {
	case []string:
		return t
	case []any:
		out := make([]string, 0, len(t))
		for _, v := range t {
			out = append(out, Stringify(v))
		}
		return out
	}
	return nil
}

// ID returns the engine document id carried in field, if any.
func (d Document) ID(field string) (string, bool) {
	if field == "" || !d.Present(field) {
		return "", false
	}
	return d.Text(field), true
}

// Stringify renders a decoded JSON value the way the search text fields
// expect it.
func Stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case json.Number:
		return t.String()
	case []string:
		return strings.Join(t, ",")
	case []any:
		parts := make([]string, len(t))
		for i, e := range t {
			parts[i] = Stringify(e)
		}
		return strings.Join(parts, ",")
	case fmt.Stringer:
		return t.String()
	}
	return fmt.Sprint(v)
}
