package geo

import "math"

// Palette is an ordered light-to-dark color scale plus the fill used for
// regions with no usable value.
type Palette struct {
	Colors []string
	NoData string
}

// DefaultPalette matches the classic sequential green scale.
var DefaultPalette = Palette{
	Colors: []string{
		"#edf8e9", "#c7e9c0", "#a1d99b", "#74c476",
		"#41ab5d", "#238b45", "#006d2c", "#00441b",
	},
	NoData: "#d9d9d9",
}

// Domain returns min and max over the defined values only. ok=false when
// nothing is defined, in which case every region renders as no-data.
func Domain(values []float64, defined []bool) (min, max float64, ok bool) {
	for i, v := range values {
		if !defined[i] {
			continue
		}
		if !ok {
			min, max, ok = v, v, true
			continue
		}
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	return min, max, ok
}

// ColorFor maps a value into the palette. The value range can span orders
// of magnitude, so normalization is logarithmic: t = ln(v)/ln(max),
// clamped into [0,1), bucket = floor(t*k) capped at k-1. Non-positive
// values are invalid on a log scale and render as no-data instead of
// feeding ln a zero. A degenerate range (min == max) puts every defined
// value in the first bucket.
func ColorFor(v, min, max float64, p Palette) string {
	k := len(p.Colors)
	if k == 0 || v <= 0 || max <= 0 {
		return p.NoData
	}
	if min == max {
		return p.Colors[0]
	}
	t := math.Log(v) / math.Log(max)
	if math.IsNaN(t) || t < 0 {
		t = 0
	}
	bucket := int(t * float64(k))
	if bucket > k-1 {
		bucket = k - 1
	}
	return p.Colors[bucket]
}
