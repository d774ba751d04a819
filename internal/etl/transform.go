// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package etl

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"maps"
	"slices"
	"strings"

	"github.com/sanctionsexplorer/sanctions-query-service/internal/domain/model"
	"github.com/sanctionsexplorer/sanctions-query-service/internal/lookup"
	"github.com/sanctionsexplorer/sanctions-query-service/pkg/errors"
	"github.com/sanctionsexplorer/sanctions-query-service/pkg/log"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	listSDN    = "SDN"
	listNonSDN = "Non-SDN"

	featureSWIFTBIC = "SWIFT/BIC"

	locationCombined = "COMBINED"
	locationCountry  = "COUNTRY"

	nullMarker = "None"

	strengthWeak   = "weak"
	strengthStrong = "strong"
)

var (
	aircraftTagFields = []string{
		"aircraft_construction_number_(also_called_l/n_or_s/n_or_f/n)",
		"aircraft_manufacturer's_serial_number_(msn)",
		"aircraft_model",
		"aircraft_operator",
		"aircraft_tail_number",
		"previous_aircraft_tail_number",
	}

	vesselTagFields = []string{
		"vessel_call_sign",
		"other_vessel_call_sign",
		"vessel_flag",
		"other_vessel_flag",
		"vessel_owner",
		"vessel_tonnage",
		"vessel_gross_registered_tonnage",
		"vessel_type",
	}

	// synonymFields are expanded through the country synonym table.
	synonymFields = []string{
		model.FieldCountries,
		model.FieldNationalityCountry,
		model.FieldCitizenshipCountry,
		model.FieldNationalityOfRegistration,
	}

	// allFieldsSources feed the whole-record text blob. linked_profile_ids
	// and fixed_ref are left out on purpose.
	allFieldsSources = []string{
		model.FieldPrimaryDisplayName,
		model.FieldIdentityID,
		model.FieldAllDisplayNames,
		model.FieldPrograms,
		model.FieldDocIDNumbers,
		model.FieldLinkedProfileNames,
		"location",
		"title",
		"birthdate",
		"place_of_birth",
		"additional_sanctions_information_-_",
		"vessel_call_sign",
		"other_vessel_call_sign",
		"vessel_flag",
		"other_vessel_flag",
		"vessel_owner",
		"vessel_tonnage",
		"vessel_gross_registered_tonnage",
		"vessel_type",
		model.FieldNationalityCountry,
		model.FieldCitizenshipCountry,
		"gender",
		"website",
		"email_address",
		"swift/bic",
		"ifca_determination_-_",
		"aircraft_construction_number_(also_called_l/n_or_s/n_or_f/n)",
		"aircraft_manufacturer's_serial_number_(msn)",
		"aircraft_manufacture_date",
		"aircraft_model",
		"aircraft_operator",
		"bik_(ru)",
		"un/locode",
		"aircraft_tail_number",
		"previous_aircraft_tail_number",
		"micex_code",
		model.FieldNationalityOfRegistration,
		"d-u-n-s_number",
		"party_sub_type",
		model.FieldCountries,
	}
)

// Transformer turns raw sanctions entries into search documents.
type Transformer struct {
	tables *lookup.Tables
}

// NewTransformer returns a Transformer backed by tables.
func NewTransformer(tables *lookup.Tables) *Transformer {
	return &Transformer{tables: tables}
}

// entryState accumulates the derived values of one entry.
type entryState struct {
	programs          lookup.CountrySet
	countries         lookup.CountrySet
	documentCountries lookup.CountrySet
	lists             map[string]struct{}

	sanctionDates []string
	docIDNumbers  []string
	vesselTags    []string
}

// Transform builds the search document of entry. The input is not modified.
// Structural anomalies are logged and the best-effort document is returned;
// only an entry without fixed_ref or with unencodable parts is an error.
func (t *Transformer) Transform(ctx context.Context, entry model.RawEntry) (model.Document, error) {
	if entry.FixedRef == "" {
		return nil, errors.NewValidation("entry has no fixed_ref")
	}

	ctx = withEntry(ctx, entry.FixedRef)

	doc := make(model.Document, len(entry.Attributes)+24)
	for k, v := range entry.Attributes {
		doc[k] = v
	}
	if _, ok := doc[model.FieldFixedRef]; !ok {
		doc[model.FieldFixedRef] = string(entry.FixedRef)
	}

	st := &entryState{
		lists:         make(map[string]struct{}),
		sanctionDates: []string{},
		docIDNumbers:  []string{},
		vesselTags:    []string{},
	}

	t.collectSanctions(entry, st)

	display, isSDN, ok := sdnDisplay(st.lists)
	if !ok {
		slog.ErrorContext(ctx, "entry is on no recognizable sanctions list")
	}

	identity, allNames, err := t.identity(ctx, entry)
	if err != nil {
		return nil, err
	}

	linkedIDs := make([]string, 0, len(entry.LinkedProfiles))
	linkedNames := make([]string, 0, len(entry.LinkedProfiles))
	for _, p := range entry.LinkedProfiles {
		linkedIDs = append(linkedIDs, string(p.LinkedID))
		linkedNames = append(linkedNames, p.LinkedName.DisplayName)
	}

	t.collectFeatures(entry, st, doc)

	documents, headers, err := t.documents(ctx, entry, st)
	if err != nil {
		return nil, err
	}

	doc[model.FieldIdentityID] = string(entry.Identity.ID)
	doc[model.FieldPrimaryDisplayName] = entry.Identity.Primary.DisplayName
	doc[model.FieldIdentity] = identity
	doc[model.FieldAllDisplayNames] = allNames
	doc[model.FieldPrograms] = st.programs.Sorted()
	doc[model.FieldSanctionDates] = st.sanctionDates
	doc[model.FieldSDNDisplay] = display
	doc[model.FieldIsSDN] = isSDN
	doc[model.FieldLinkedProfileIDs] = linkedIDs
	doc[model.FieldLinkedProfileNames] = linkedNames
	doc[model.FieldDocIDNumbers] = st.docIDNumbers
	doc[model.FieldDocuments] = documents
	if headers != nil {
		doc[model.FieldDocumentHeaders] = headers
	}
	doc[model.FieldCountries] = st.countries.Values()
	doc[model.FieldDocumentCountries] = st.documentCountries.Values()

	aircraftTags := []string{}
	for _, field := range aircraftTagFields {
		if doc.Present(field) {
			aircraftTags = append(aircraftTags, doc.Text(field))
		}
	}
	vesselTags := st.vesselTags
	for _, field := range vesselTagFields {
		if doc.Present(field) {
			vesselTags = append(vesselTags, doc.Text(field))
		}
	}
	doc[model.FieldAircraftTags] = aircraftTags
	doc[model.FieldVesselTags] = vesselTags

	for _, field := range synonymFields {
		if !doc.Present(field) && field != model.FieldCountries {
			continue
		}
		values := doc.Strings(field)
		if values == nil {
			values = []string{doc.Text(field)}
		}
		doc[field] = t.tables.ExpandCountries(values)
	}

	allFields := []string{}
	for _, field := range allFieldsSources {
		if doc.Present(field) {
			allFields = append(allFields, doc.Text(field))
		}
	}
	if display != "" {
		allFields = append(allFields, display)
	}
	doc[model.FieldAllFields] = allFields

	return doc, nil
}

func (t *Transformer) collectSanctions(entry model.RawEntry, st *entryState) {
	for _, se := range entry.SanctionsEntries {
		st.lists[t.tables.ListAcronym(se.List)] = struct{}{}
		for _, program := range se.Program {
			if program == "" {
				continue
			}
			st.programs.Add(program)
			if country, ok := t.tables.ProgramCountry(program); ok {
				st.countries.Add(country)
			}
		}
		for _, event := range se.EntryEvents {
			if len(event) == 0 {
				continue
			}
			st.sanctionDates = append(st.sanctionDates, model.Stringify(event[0]))
		}
	}
}

// sdnDisplay renders list membership, e.g. "[SDN] [Non-SDN: 561List]".
// ok is false when neither SDN nor Non-SDN is among lists.
func sdnDisplay(lists map[string]struct{}) (display string, isSDN bool, ok bool) {
	remaining := maps.Clone(lists)
	_, nonSDN := remaining[listNonSDN]
	delete(remaining, listNonSDN)
	_, isSDN = remaining[listSDN]
	delete(remaining, listSDN)

	switch {
	case nonSDN:
		var b strings.Builder
		if isSDN {
			b.WriteString("[SDN] ")
		}
		b.WriteString("[Non-SDN")
		if len(remaining) > 0 {
			b.WriteString(": ")
			b.WriteString(strings.Join(slices.Sorted(maps.Keys(remaining)), ", "))
		}
		b.WriteString("]")
		return b.String(), isSDN, true
	case isSDN:
		return "[SDN]", true, true
	}
	return "", false, false
}

func (t *Transformer) identity(ctx context.Context, entry model.RawEntry) (map[string]any, []string, error) {
	identity, _ := entry.Attributes[model.FieldIdentity].(map[string]any)
	identity = maps.Clone(identity)
	if identity == nil {
		var err error
		if identity, err = toRecord(entry.Identity); err != nil {
			return nil, nil, err
		}
	}

	aliases, err := records(identity["aliases"], entry.Identity.Aliases)
	if err != nil {
		return nil, nil, err
	}

	allNames := make([]string, 0, len(entry.Identity.Aliases)+1)
	allNames = append(allNames, entry.Identity.Primary.DisplayName)

	out := make([]any, len(aliases))
	for i, alias := range entry.Identity.Aliases {
		allNames = append(allNames, alias.DisplayName)
		if alias.DatePeriod != nil {
			slog.ErrorContext(ctx, "alias carries a date period that will not be rendered",
				"alias", alias.DisplayName,
			)
		}
		record := aliases[i]
		delete(record, "date_period")
		if alias.IsLowQuality {
			record["strength"] = strengthWeak
		} else {
			record["strength"] = strengthStrong
		}
		out[i] = record
	}
	identity["aliases"] = out

	return identity, allNames, nil
}

func (t *Transformer) collectFeatures(entry model.RawEntry, st *entryState, doc model.Document) {
	for _, key := range slices.Sorted(maps.Keys(entry.Features)) {
		combined := []string{}
		for _, f := range entry.Features[key] {
			if f.Details != "" {
				combined = append(combined, f.Details)
				if key == featureSWIFTBIC {
					st.docIDNumbers = append(st.docIDNumbers, f.Details, key)
				}
			}
			if f.Date != "" {
				combined = append(combined, f.Date)
			}
			if f.Location != nil {
				if c := f.Location[locationCombined]; c != "" {
					combined = append(combined, c)
				}
				st.countries.Add(f.Location[locationCountry])
			}
		}
		doc[featureKey(key)] = combined
	}
}

// featureKey turns "Citizenship Country" into "citizenship_country".
func featureKey(key string) string {
	lower := cases.Lower(language.Und)
	words := strings.Split(key, " ")
	for i, w := range words {
		words[i] = lower.String(w)
	}
	return strings.Join(words, "_")
}

func (t *Transformer) documents(ctx context.Context, entry model.RawEntry, st *entryState) ([]any, []string, error) {
	recs, err := records(entry.Attributes[model.FieldDocuments], entry.Documents)
	if err != nil {
		return nil, nil, err
	}

	var headers []string
	out := make([]any, len(recs))
	for i, d := range entry.Documents {
		record := recs[i]

		st.docIDNumbers = append(st.docIDNumbers, d.IDNumber, d.Type)
		if strings.Contains(d.Type, "Vessel") {
			st.vesselTags = append(st.vesselTags, d.IDNumber)
		}

		if d.Validity != "Valid" && d.Validity != "Fraudulent" {
			slog.WarnContext(ctx, "unexpected document validity (normally Valid or Fraudulent)",
				"validity", d.Validity,
			)
		}

		headers = []string{}

		if isNull(d.IssuedBy) {
			record["issued_by"] = nil
		} else {
			headers = append(headers, "issued_by")
			st.countries.Add(d.IssuedBy)
			st.documentCountries.Add(d.IssuedBy)
		}

		if isNull(d.IssuedIn) {
			record["issued_in"] = nil
		} else {
			headers = append(headers, "issued_in")
			combined, country := parseLocation(ctx, d.IssuedIn)
			st.countries.Add(country)
			st.documentCountries.Add(country)
			record["issued_in"] = combined
		}

		if isNull(d.IssuingAuthority) {
			record["issuing_authority"] = nil
		} else {
			headers = append(headers, "issuing_authority")
			st.countries.Add(d.IssuingAuthority)
			st.documentCountries.Add(d.IssuingAuthority)
		}

		for _, name := range slices.Sorted(maps.Keys(d.RelevantDates)) {
			record[name] = d.RelevantDates[name]
			headers = append(headers, name)
		}

		out[i] = record
	}

	return out, headers, nil
}

func withEntry(ctx context.Context, ref model.Ref) context.Context {
	return log.AppendCtx(ctx, slog.String(model.FieldFixedRef, string(ref)))
}

func isNull(v string) bool {
	return v == "" || v == nullMarker
}

// parseLocation decodes an embedded location record. A value that is not a
// record is kept as its own display string.
func parseLocation(ctx context.Context, raw string) (combined, country string) {
	var location map[string]any
	if err := json.Unmarshal([]byte(raw), &location); err != nil {
		slog.WarnContext(ctx, "issued_in is not a location record", "issued_in", raw, "error", err)
		return raw, ""
	}
	combined = model.Stringify(location[locationCombined])
	country = model.Stringify(location[locationCountry])
	return combined, country
}

// records returns a mutable generic record per typed element, cloned from
// the decoded source when available so unmodeled attributes survive.
func records[T any](generic any, typed []T) ([]map[string]any, error) {
	list, _ := generic.([]any)
	out := make([]map[string]any, len(typed))
	for i := range typed {
		if i < len(list) {
			if src, ok := list[i].(map[string]any); ok {
				out[i] = maps.Clone(src)
				continue
			}
		}
		record, err := toRecord(typed[i])
		if err != nil {
			return nil, err
		}
		out[i] = record
	}
	return out, nil
}

func toRecord(v any) (map[string]any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, errors.NewUnexpected("failed to encode entry record", err)
	}
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber()
	var record map[string]any
	if err := decoder.Decode(&record); err != nil {
		return nil, errors.NewUnexpected("failed to decode entry record", err)
	}
	return record, nil
}
