// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package model

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Ref is an identifier that the source lists encode either as a JSON string
// or as a JSON number.
type Ref string

// UnmarshalJSON accepts strings, numbers and null.
func (r *Ref) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*r = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*r = Ref(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("identifier must be a string or a number: %w", err)
	}
	*r = Ref(n.String())
	return nil
}

// RawEntry is one record of the primary (SDN) or supplementary (Non-SDN) list.
type RawEntry struct {
	FixedRef         Ref                  `json:"fixed_ref"`
	Identity         Identity             `json:"identity"`
	SanctionsEntries []SanctionsEntry     `json:"sanctions_entries"`
	LinkedProfiles   []LinkedProfile      `json:"linked_profiles"`
	Features         map[string][]Feature `json:"features"`
	Documents        []IDDocument         `json:"documents"`

	// Attributes holds every top-level attribute of the source record,
	// including the ones modeled above.
	Attributes map[string]any `json:"-"`
}

type rawEntryAlias RawEntry

// UnmarshalJSON decodes the typed view and keeps the generic attribute map.
func (e *RawEntry) UnmarshalJSON(data []byte) error {
	var typed rawEntryAlias
	if err := json.Unmarshal(data, &typed); err != nil {
		return err
	}

	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber()
	var attributes map[string]any
	if err := decoder.Decode(&attributes); err != nil {
		return err
	}

	*e = RawEntry(typed)
	e.Attributes = attributes
	return nil
}

// Identity is the primary name plus aliases of an entry.
type Identity struct {
	ID      Ref     `json:"id"`
	Primary Name    `json:"primary"`
	Aliases []Alias `json:"aliases"`
}

// Name carries a display name.
type Name struct {
	DisplayName string `json:"display_name"`
}

// Alias is an alternative name of an entry.
type Alias struct {
	DisplayName  string `json:"display_name"`
	AliasType    string `json:"alias_type,omitempty"`
	IsLowQuality bool   `json:"is_low_quality"`
	DatePeriod   any    `json:"date_period,omitempty"`
	Strength     string `json:"strength,omitempty"`
}

// SanctionsEntry is the membership of an entry in one sanctions list.
type SanctionsEntry struct {
	List    string   `json:"list"`
	Program []string `json:"program"`
	// EntryEvents are tuples whose first element is the event date.
	EntryEvents [][]any `json:"entry_events"`
}

// LinkedProfile references another entry.
type LinkedProfile struct {
	LinkedID   Ref  `json:"linked_id"`
	LinkedName Name `json:"linked_name"`
}

// Feature is one value of a free-form entry attribute.
type Feature struct {
	Details  string            `json:"details,omitempty"`
	Date     string            `json:"date,omitempty"`
	Location map[string]string `json:"location,omitempty"`
}

// IDDocument is an identifying document attached to an entry.
type IDDocument struct {
	IDNumber         string            `json:"id_number"`
	Type             string            `json:"type"`
	Validity         string            `json:"validity"`
	IssuedBy         string            `json:"issued_by"`
	IssuedIn         string            `json:"issued_in"`
	IssuingAuthority string            `json:"issuing_authority"`
	RelevantDates    map[string]string `json:"relevant_dates"`
}
