package engine

import (
	"log/slog"
	"math"
	"strconv"
	"strings"
)

// Provider country-table layout: four metadata lines, then a header row
// naming each year column, then one data row per region. Fields are
// comma-delimited with optional double-quote quoting, and quoted fields
// may contain commas.
const (
	countryHeaderLine = 4      // zero-based index of the header row
	startYearHeader   = "1960" // documented start of the time range
	minCountryTokens  = 5      // rows shorter than this are malformed
)

// splitFields tokenizes one line. A quote character toggles in-quote
// state; while active, delimiters are kept as field text. The quote
// characters themselves are stripped.
func splitFields(line string) []string {
	var fields []string
	var b strings.Builder
	inQuotes := false
	for _, r := range line {
		switch {
		case r == '"':
			inQuotes = !inQuotes
		case r == ',' && !inQuotes:
			fields = append(fields, b.String())
			b.Reset()
		default:
			b.WriteRune(r)
		}
	}
	fields = append(fields, b.String())
	return fields
}

func splitLines(raw string) []string {
	return strings.Split(strings.ReplaceAll(raw, "\r\n", "\n"), "\n")
}

// parseCell turns one cell into a Value. Blank and non-numeric cells are
// explicit no-data, never zero. Infinities and NaN are rejected the same
// way so a Defined value is always finite.
func parseCell(cell string) Value {
	v, err := strconv.ParseFloat(strings.TrimSpace(cell), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return None()
	}
	return Some(v)
}

// ParseCountryTable parses one raw provider table into a Store.
//
// If the header row has no "1960" column the input is not usable and the
// result is an empty store; callers surface that as "no data available"
// rather than an error.
func ParseCountryTable(raw string) *Store {
	store := NewStore()
	lines := splitLines(raw)
	if len(lines) <= countryHeaderLine {
		return store
	}

	header := splitFields(lines[countryHeaderLine])
	start := -1
	for i, h := range header {
		if strings.TrimSpace(h) == startYearHeader {
			start = i
			break
		}
	}
	if start < 0 {
		slog.Warn("country table has no start-year column, yielding empty store",
			"want", startYearHeader)
		return store
	}

	for _, line := range lines[countryHeaderLine+1:] {
		if strings.TrimSpace(line) == "" {
			continue
		}
		tokens := splitFields(line)
		if len(tokens) < minCountryTokens {
			continue
		}
		s := &TimeSeries{
			Name:   tokens[0],
			Code:   tokens[1],
			Values: make(map[int]Value),
		}
		for i := start; i < len(tokens) && i < len(header); i++ {
			// Trailing non-year metadata columns have non-integer headers.
			year, err := strconv.Atoi(strings.TrimSpace(header[i]))
			if err != nil {
				continue
			}
			s.Values[year] = parseCell(tokens[i])
		}
		store.Put(s)
	}
	return store
}
