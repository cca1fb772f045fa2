package engine

import (
	"regexp"
	"strconv"
	"strings"
)

// Subnational tables have no metadata preamble: the first line is a
// header of bare year numbers, each data row starts with a human-readable
// region name followed by per-year values. Region codes do not exist in
// the source and are synthesized from the name.

// regionPrefix namespaces synthesized codes away from real country codes.
// Country codes are exactly three letters; synthesized codes always carry
// this prefix (and therefore an underscore), so the two can never collide.
const regionPrefix = "RG_"

var whitespaceRun = regexp.MustCompile(`\s+`)

// CodeOf deterministically synthesizes a store key for a subnational
// region name. Identical names always map to the identical code.
func CodeOf(name string) string {
	normalized := whitespaceRun.ReplaceAllString(strings.TrimSpace(name), "_")
	return regionPrefix + strings.ToUpper(normalized)
}

// IsRegionCode reports whether a code was synthesized by CodeOf.
func IsRegionCode(code string) bool {
	return strings.HasPrefix(code, regionPrefix)
}

// ParseRegionalTable parses one subnational table into a Store keyed by
// synthesized region codes. It shares the quote-aware tokenizer with the
// country parser; the schema differs, the tokenizing does not.
func ParseRegionalTable(raw string) *Store {
	store := NewStore()
	lines := splitLines(raw)
	if len(lines) < 2 {
		return store
	}

	header := splitFields(lines[0])
	for _, line := range lines[1:] {
		if strings.TrimSpace(line) == "" {
			continue
		}
		tokens := splitFields(line)
		if len(tokens) < 2 {
			continue
		}
		name := strings.TrimSpace(tokens[0])
		if name == "" {
			continue
		}
		s := &TimeSeries{
			Name:   name,
			Code:   CodeOf(name),
			Values: make(map[int]Value),
		}
		for i := 1; i < len(tokens) && i < len(header); i++ {
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
