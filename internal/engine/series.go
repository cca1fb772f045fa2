package engine

import (
	"log/slog"
	"sort"
)

// Value is a single yearly observation. A blank or non-numeric source cell
// keeps its year key with Defined=false, so "cell was empty" stays
// distinguishable from "column never existed". Defined values are always
// finite, never NaN.
type Value struct {
	V       float64
	Defined bool
}

// Some returns a defined Value.
func Some(v float64) Value { return Value{V: v, Defined: true} }

// None returns the explicit no-data marker.
func None() Value { return Value{} }

// Ptr converts a Value to a nullable float for JSON payloads.
func (v Value) Ptr() *float64 {
	if !v.Defined {
		return nil
	}
	f := v.V
	return &f
}

// TimeSeries is one region's named series of yearly observations.
type TimeSeries struct {
	Code   string
	Name   string
	Values map[int]Value
}

// At returns the observation for a year. Missing key and undefined cell
// both report ok=false.
func (s *TimeSeries) At(year int) (float64, bool) {
	if s == nil {
		return 0, false
	}
	v, ok := s.Values[year]
	if !ok || !v.Defined {
		return 0, false
	}
	return v.V, true
}

// Store maps region codes to their time series. Codes are unique within
// one store; insertion order is irrelevant, lookups go by code.
type Store struct {
	series map[string]*TimeSeries
}

func NewStore() *Store {
	return &Store{series: make(map[string]*TimeSeries)}
}

func (st *Store) Get(code string) (*TimeSeries, bool) {
	s, ok := st.series[code]
	return s, ok
}

// Put inserts a series, overwriting any prior entry for the same code
// (last-source-wins). An overwrite of a differently named entry points at
// a broken code-synthesis invariant, so it is flagged rather than
// swallowed.
func (st *Store) Put(s *TimeSeries) {
	if prev, ok := st.series[s.Code]; ok && prev.Name != s.Name {
		slog.Warn("region code collision, overwriting",
			"code", s.Code, "old", prev.Name, "new", s.Name)
	}
	st.series[s.Code] = s
}

func (st *Store) Len() int { return len(st.series) }

// Codes returns all region codes in sorted order.
func (st *Store) Codes() []string {
	codes := make([]string, 0, len(st.series))
	for c := range st.series {
		codes = append(codes, c)
	}
	sort.Strings(codes)
	return codes
}

// Years returns the sorted union of year keys across all series.
func (st *Store) Years() []int {
	seen := make(map[int]struct{})
	for _, s := range st.series {
		for y := range s.Values {
			seen[y] = struct{}{}
		}
	}
	years := make([]int, 0, len(seen))
	for y := range seen {
		years = append(years, y)
	}
	sort.Ints(years)
	return years
}

// Merge copies every entry of src into st, last-source-wins. Merging the
// same source twice yields the same entries as merging it once.
func (st *Store) Merge(src *Store) {
	if src == nil {
		return
	}
	for _, s := range src.series {
		st.Put(s)
	}
}

// Combined builds the country+region comparison store: the country-level
// store plus any number of subnational parses merged on top.
func Combined(country *Store, regionals ...*Store) *Store {
	out := NewStore()
	out.Merge(country)
	for _, r := range regionals {
		out.Merge(r)
	}
	return out
}

// Dataset groups the two valuation bases of one indicator.
type Dataset struct {
	Current  *Store // current prices (nominal)
	Constant *Store // constant prices (inflation-adjusted)
}

// Basis resolves a valuation-basis name to its store.
func (d Dataset) Basis(name string) (*Store, bool) {
	switch name {
	case "", "current":
		return d.Current, d.Current != nil
	case "constant":
		return d.Constant, d.Constant != nil
	}
	return nil, false
}
