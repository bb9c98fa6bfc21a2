// Package querystate maps QueryState values to and from the flat parameter
// set of a page address. Only non-default fields are written, so every state
// has exactly one canonical address.
package querystate

import (
	"net/url"
	"strings"

	"go-doctor-directory/internal/domain/entity"
)

// Address parameter keys.
const (
	KeySearch           = "search"
	KeyConsultationType = "consultationType"
	KeySpecialties      = "specialties"
	KeySortBy           = "sortBy"
)

// Decode reads the query state from values. Missing keys and unrecognised
// enum values decode to the field default.
func Decode(values url.Values) entity.QueryState {
	return entity.QueryState{
		SearchTerm:       values.Get(KeySearch),
		ConsultationType: entity.ParseConsultationMode(values.Get(KeyConsultationType)),
		Specialties:      DecodeList(values.Get(KeySpecialties)),
		SortBy:           entity.ParseSortOption(values.Get(KeySortBy)),
	}
}

// Encode returns the canonical parameter set for state.
func Encode(state entity.QueryState) url.Values {
	return Update(url.Values{}, state)
}

// Update returns a copy of values with the four query-state keys rewritten
// from state. Keys it does not own are left untouched.
func Update(values url.Values, state entity.QueryState) url.Values {
	out := Set(values, KeySearch, state.SearchTerm)
	out = Set(out, KeyConsultationType, string(state.ConsultationType))
	out = SetList(out, KeySpecialties, state.Specialties)
	return Set(out, KeySortBy, string(state.SortBy))
}

// Set returns a copy of values with key set to value. An empty value removes
// the key instead of writing an empty marker.
func Set(values url.Values, key, value string) url.Values {
	out := clone(values)
	if value == "" {
		out.Del(key)
		return out
	}
	out.Set(key, value)
	return out
}

// SetList stores list under key as one delimited value, or removes key when
// list is empty.
func SetList(values url.Values, key string, list []string) url.Values {
	return Set(values, key, EncodeList(list))
}

// Address renders the canonical query string for state, without the leading
// question mark. Keys are sorted.
func Address(state entity.QueryState) string {
	return Encode(state).Encode()
}

// Parse decodes a raw query string. A malformed string is read as far as
// possible; whatever cannot be parsed is dropped.
func Parse(rawQuery string) entity.QueryState {
	rawQuery = strings.TrimPrefix(rawQuery, "?")
	values, _ := url.ParseQuery(rawQuery)
	if values == nil {
		values = url.Values{}
	}
	return Decode(values)
}

// Canonicalize rewrites a raw query string into the canonical address of
// the state it encodes.
func Canonicalize(rawQuery string) string {
	return Address(Parse(rawQuery))
}

func clone(values url.Values) url.Values {
	out := make(url.Values, len(values))
	for k, v := range values {
		out[k] = append([]string(nil), v...)
	}
	return out
}
