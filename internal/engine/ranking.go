package engine

import (
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// RankEntry is one row of the comparison table for a single year.
type RankEntry struct {
	Code      string
	Name      string
	Metric    Value // primary metric (nominal value for the year)
	Secondary Value // PPP value for the year
	Growth    Value
	Ratio     Value
	Rank      int
}

// SortKey selects the column driving a reorder.
type SortKey string

const (
	SortByRank      SortKey = "rank"
	SortByName      SortKey = "name"
	SortByMetric    SortKey = "metric"
	SortBySecondary SortKey = "secondary"
	SortByGrowth    SortKey = "growth"
)

// newCollator builds the locale-aware comparator for display names. A
// collator carries internal buffers, so each sort gets its own.
func newCollator() *collate.Collator {
	return collate.New(language.English, collate.IgnoreCase)
}

// Rank sorts entries by primary metric descending and assigns dense
// 1-based ranks: ties share a rank, the next distinct value takes the
// following one. Entries with an undefined metric sink below all defined
// ones and share the trailing rank. Ranks are computed here once, from
// the unfiltered metric order, and stay frozen under later re-sorting or
// filtering.
func Rank(entries []RankEntry) []RankEntry {
	SortEntries(entries, SortByMetric, false)
	rank := 0
	var prev Value
	for i := range entries {
		cur := entries[i].Metric
		if i == 0 || cur.Defined != prev.Defined || (cur.Defined && cur.V != prev.V) {
			rank++
		}
		entries[i].Rank = rank
		prev = cur
	}
	return entries
}

// SortEntries reorders entries in place by the given key. Numeric keys
// always sink undefined values to the bottom, regardless of direction;
// ties fall back to name order so the result is deterministic.
func SortEntries(entries []RankEntry, key SortKey, ascending bool) {
	col := newCollator()
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		switch key {
		case SortByName:
			cmp := col.CompareString(a.Name, b.Name)
			if ascending {
				return cmp < 0
			}
			return cmp > 0
		case SortByRank:
			if ascending {
				return a.Rank < b.Rank
			}
			return a.Rank > b.Rank
		}
		av, bv := numericKey(a, key), numericKey(b, key)
		// Missing data sinks no matter which way the toggle points.
		if av.Defined != bv.Defined {
			return av.Defined
		}
		if !av.Defined || av.V == bv.V {
			return col.CompareString(a.Name, b.Name) < 0
		}
		if ascending {
			return av.V < bv.V
		}
		return av.V > bv.V
	})
}

func numericKey(e RankEntry, key SortKey) Value {
	switch key {
	case SortBySecondary:
		return e.Secondary
	case SortByGrowth:
		return e.Growth
	default:
		return e.Metric
	}
}

// FilterEntries keeps entries whose name or code contains the query,
// case-insensitively. An empty query keeps everything. Ranks are
// untouched: standing by the primary metric is independent of filtering.
func FilterEntries(entries []RankEntry, query string) []RankEntry {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return entries
	}
	out := make([]RankEntry, 0, len(entries))
	for _, e := range entries {
		if strings.Contains(strings.ToLower(e.Name), q) ||
			strings.Contains(strings.ToLower(e.Code), q) {
			out = append(out, e)
		}
	}
	return out
}
