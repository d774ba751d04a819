// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package lookup

import "sort"

// CountrySet is an insertion-ordered set of country names.
// The zero value is ready to use.
type CountrySet struct {
	index  map[string]struct{}
	values []string
}

// NewCountrySet returns a set holding values in first-seen order.
func NewCountrySet(values ...string) CountrySet {
	var s CountrySet
	for _, v := range values {
		s.Add(v)
	}
	return s
}

// Add inserts value unless it is empty or already present.
func (s *CountrySet) Add(value string) {
	if value == "" {
		return
	}
	if s.index == nil {
		s.index = make(map[string]struct{})
	}
	if _, ok := s.index[value]; ok {
		return
	}
	s.index[value] = struct{}{}
	s.values = append(s.values, value)
}

// Has reports whether value is in the set.
func (s *CountrySet) Has(value string) bool {
	_, ok := s.index[value]
	return ok
}

// Len returns the number of values in the set.
func (s *CountrySet) Len() int {
	return len(s.values)
}

// Union returns a new set with the values of s followed by the values of
// other not already in s. Neither operand is modified.
func (s *CountrySet) Union(other CountrySet) CountrySet {
	out := s.Clone()
	for _, v := range other.values {
		out.Add(v)
	}
	return out
}

// Clone returns an independent copy of s.
func (s *CountrySet) Clone() CountrySet {
	return NewCountrySet(s.values...)
}

// Values returns the values in insertion order.
func (s *CountrySet) Values() []string {
	out := make([]string, len(s.values))
	copy(out, s.values)
	return out
}

// Sorted returns the values in lexical order.
func (s *CountrySet) Sorted() []string {
	out := s.Values()
	sort.Strings(out)
	return out
}
