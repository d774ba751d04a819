// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package query

import "github.com/sanctionsexplorer/sanctions-query-service/internal/domain/model"

// fuzzinessNone disables fuzziness on the must clause.
const fuzzinessNone = "NONE"

// keywords are the request parameters that map to a document field.
var keywords = map[string]struct{}{
	"title":                               {},
	"countries":                           {},
	"birthdate":                           {},
	"place_of_birth":                      {},
	"location":                            {},
	"additional_sanctions_information_-_": {},
	"vessel_call_sign":                    {},
	"vessel_flag":                         {},
	"vessel_owner":                        {},
	"vessel_tonnage":                      {},
	"vessel_gross_tonnage":                {},
	"vessel_gross_registered_tonnage":     {},
	"vessel_type":                         {},
	"nationality_country":                 {},
	"citizenship_country":                 {},
	"gender":                              {},
	"website":                             {},
	"email_address":                       {},
	"swift/bic":                           {},
	"ifca_determination_-_":               {},
	// the unbalanced form is accepted for older clients
	"aircraft_construction_number_(also_called_l/n_or_s/n_or_f/n":  {},
	"aircraft_construction_number_(also_called_l/n_or_s/n_or_f/n)": {},
	"aircraft_manufacturer's_serial_number_(msn)":                  {},
	"aircraft_manufacture_date":                                    {},
	"aircraft_model":                                               {},
	"aircraft_operator":                                            {},
	"bik_(ru)":                                                     {},
	"un/locode":                                                    {},
	"aircraft_tail_number":                                         {},
	"previous_aircraft_tail_number":                                {},
	"micex_code":                                                   {},
	"nationality_of_registration":                                  {},
	"d-u-n-s_number":                                               {},
	model.FieldIdentityID:                                          {},
	model.FieldPrimaryDisplayName:                                  {},
	model.FieldAllDisplayNames:                                     {},
	model.FieldPrograms:                                            {},
	model.FieldLinkedProfileNames:                                  {},
	model.FieldLinkedProfileIDs:                                    {},
	model.FieldDocIDNumbers:                                        {},
	model.FieldFixedRef:                                            {},
	"party_sub_type":                                               {},
	model.FieldAircraftTags:                                        {},
	model.FieldVesselTags:                                          {},
	model.FieldAllFields:                                           {},
	model.FieldSanctionDates:                                       {},
	model.FieldDocumentCountries:                                   {},
}

// fuzziness overrides the AUTO default of must clauses.
var fuzziness = map[string]string{
	model.FieldPrograms:      "0",
	model.FieldDocIDNumbers:  "0",
	"birthdate":              "0",
	model.FieldFixedRef:      fuzzinessNone,
	"party_sub_type":         "0",
	model.FieldSanctionDates: "0",
}

// operators overrides the "and" default.
var operators = map[string]string{
	model.FieldPrograms: model.OperatorOr,
}

// IsRecognized reports whether key is a searchable field.
func IsRecognized(key string) bool {
	_, ok := keywords[key]
	return ok
}
