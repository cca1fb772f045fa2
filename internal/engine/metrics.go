package engine

import "math"

// Derived metrics over one or two series. Every operation degrades to
// ok=false instead of raising or returning NaN; callers must never coerce
// a missing result to zero, that would corrupt ranking and coloring math
// downstream.

// Growth returns the percentage change between two years. Positive means
// increase. Undefined when either endpoint is missing or the start value
// is zero.
func Growth(s *TimeSeries, fromYear, toYear int) (float64, bool) {
	start, ok := s.At(fromYear)
	if !ok || start == 0 {
		return 0, false
	}
	end, ok := s.At(toYear)
	if !ok {
		return 0, false
	}
	return (end - start) / start * 100, true
}

// CAGR returns the compound annual growth rate in percent over the
// interval. Undefined for a non-positive interval, a missing endpoint, or
// a non-positive start (fractional powers of non-positive bases are not
// taken).
func CAGR(s *TimeSeries, fromYear, toYear int) (float64, bool) {
	n := toYear - fromYear
	if n <= 0 {
		return 0, false
	}
	start, ok := s.At(fromYear)
	if !ok || start <= 0 {
		return 0, false
	}
	end, ok := s.At(toYear)
	if !ok {
		return 0, false
	}
	return (math.Pow(end/start, 1/float64(n)) - 1) * 100, true
}

// Ratio returns a/b for one year across two aligned series. Undefined
// when either value is missing or the denominator is zero.
//
// The nominal-to-PPP price-level ratio is only economically meaningful at
// current prices, so callers pass the current-price variant of both
// series regardless of which basis they are otherwise displaying.
func Ratio(a, b *TimeSeries, year int) (float64, bool) {
	av, ok := a.At(year)
	if !ok {
		return 0, false
	}
	bv, ok := b.At(year)
	if !ok || bv == 0 {
		return 0, false
	}
	return av / bv, true
}

func toValue(v float64, ok bool) Value {
	if !ok {
		return None()
	}
	return Some(v)
}

// Snapshot builds the per-region metric view for one year from the
// combined nominal store and the country-level PPP store. window is the
// growth lookback in years. Subnational entries have no PPP series, so
// their secondary and ratio fields stay undefined.
func Snapshot(nominal, ppp *Store, year, window int) []RankEntry {
	if nominal == nil {
		return nil
	}
	entries := make([]RankEntry, 0, nominal.Len())
	for _, code := range nominal.Codes() {
		s, _ := nominal.Get(code)
		e := RankEntry{
			Code:   code,
			Name:   s.Name,
			Metric: toValue(s.At(year)),
			Growth: toValue(Growth(s, year-window, year)),
		}
		if ppp != nil {
			if p, ok := ppp.Get(code); ok {
				e.Secondary = toValue(p.At(year))
				e.Ratio = toValue(Ratio(s, p, year))
			}
		}
		entries = append(entries, e)
	}
	return entries
}
