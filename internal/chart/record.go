package chart

import (
	"fmt"
	"slices"
	"strings"
)

const (
	// HouseSuffix marks the house a planet sits in, ex. "Sun_H" -> "10th House".
	HouseSuffix = "_H"
	// DecanSuffix marks a sign qualified with its decan, ex. "Sun_D" -> "Leo_2".
	DecanSuffix = "_D"
)

// DisplayColumns is the fixed, ordered set of keys shown for a person.
var DisplayColumns = []string{
	"Sun_D",
	"Moon_D",
	"Mercury_D",
	"Mars_D",
	"Venus_D",
	"Jupiter_D",
	"Saturn_D",
	"Uranus_D",
	"Neptune_D",
	"Pluto_D",
	"N Node_D",
	"Lilith_D",
}

// Record is a natal chart scraped from the chart page.
//
// Values holds three families of keys:
//   - "<planet>" and "<house>" map to a sign name
//   - "<planet>_H" maps to the house the planet is in
//   - "<name>_D" maps to "<sign>_<decan>"
//
// Document is the page the record was parsed from, it is kept so decans can
// be derived again later.
type Record struct {
	Values   map[string]string
	Document string
}

func (r Record) Get(key string) (string, bool) {
	value, ok := r.Values[key]
	return value, ok
}

// Keys returns every key of the record in sorted order.
func (r Record) Keys() []string {
	keys := make([]string, 0, len(r.Values))
	for key := range r.Values {
		keys = append(keys, key)
	}
	slices.Sort(keys)
	return keys
}

// Signs returns the keys that map directly to a sign, that is every key
// without a house or decan suffix.
func (r Record) Signs() []string {
	var out []string
	for _, key := range r.Keys() {
		if strings.HasSuffix(key, HouseSuffix) || strings.HasSuffix(key, DecanSuffix) {
			continue
		}
		out = append(out, key)
	}
	return out
}

// Project returns the values of the given columns in order, every column
// must be present.
func (r Record) Project(columns []string) ([]string, error) {
	out := make([]string, len(columns))
	for i, column := range columns {
		value, ok := r.Values[column]
		if !ok {
			return nil, TableParseError{
				Step:  StepProjection,
				Table: TablePlanetSign,
				Row:   -1,
				Err:   fmt.Errorf("%w: %q", ErrMissingColumn, column),
			}
		}
		out[i] = value
	}
	return out, nil
}
