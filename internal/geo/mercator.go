// Package geo turns geographic boundaries into flat-plane path geometry
// and scalar metrics into choropleth colors.
package geo

import (
	"fmt"
	"math"
	"strings"

	geojson "github.com/paulmach/go.geojson"
)

// maxLat is the latitude clamp bound. True Mercator diverges at the
// poles, so anything beyond ±85° projects as if it sat on the bound.
const maxLat = 85.0

// Mercator projects lon/lat onto a W×H canvas. Longitude maps linearly
// across the width; latitude goes through the Mercator transform and is
// rescaled so +85° lands on y=0 and -85° on y=H (screen y grows down).
type Mercator struct {
	W, H float64
}

func mercY(lat float64) float64 {
	return math.Log(math.Tan(math.Pi/4 + lat*math.Pi/360))
}

var mercYMax = mercY(maxLat)

// Project maps one vertex to canvas coordinates.
func (m Mercator) Project(lon, lat float64) (x, y float64) {
	x = (lon + 180) * m.W / 360
	if lat > maxLat {
		lat = maxLat
	} else if lat < -maxLat {
		lat = -maxLat
	}
	y = m.H/2 - (mercY(lat)/mercYMax)*m.H/2
	return x, y
}

// FeaturePath renders a Polygon or MultiPolygon geometry as one SVG path
// string. Only outer rings are rendered; holes are skipped (a known v1
// simplification). Every ring is closed explicitly whether or not the
// source pre-closes it. Nil or empty geometry yields an empty path.
func FeaturePath(g *geojson.Geometry, w, h float64) string {
	if g == nil {
		return ""
	}
	m := Mercator{W: w, H: h}
	var b strings.Builder
	switch {
	case g.IsPolygon():
		writeOuterRing(&b, m, g.Polygon)
	case g.IsMultiPolygon():
		// Each ring-set becomes its own closed sub-path.
		for _, poly := range g.MultiPolygon {
			writeOuterRing(&b, m, poly)
		}
	}
	return b.String()
}

func writeOuterRing(b *strings.Builder, m Mercator, rings [][][]float64) {
	if len(rings) == 0 || len(rings[0]) == 0 {
		return
	}
	first := true
	for _, pt := range rings[0] {
		if len(pt) < 2 {
			continue
		}
		x, y := m.Project(pt[0], pt[1])
		if first {
			fmt.Fprintf(b, "M%.2f,%.2f", x, y)
			first = false
		} else {
			fmt.Fprintf(b, "L%.2f,%.2f", x, y)
		}
	}
	if !first {
		b.WriteString("Z")
	}
}
