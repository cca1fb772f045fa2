package geo

import (
	"math"
	"strings"
	"testing"

	geojson "github.com/paulmach/go.geojson"
)

func TestProjectBoundaries(t *testing.T) {
	m := Mercator{W: 1000, H: 600}

	x, y := m.Project(-180, 0)
	if x != 0 {
		t.Errorf("lon -180 should project to x=0, got %v", x)
	}
	if math.Abs(y-300) > 1e-9 {
		t.Errorf("equator should project to H/2, got %v", y)
	}

	x, _ = m.Project(180, 0)
	if x != 1000 {
		t.Errorf("lon 180 should project to x=W, got %v", x)
	}

	_, top := m.Project(0, maxLat)
	if math.Abs(top) > 1e-9 {
		t.Errorf("clamp bound should project to y=0, got %v", top)
	}
	_, bottom := m.Project(0, -maxLat)
	if math.Abs(bottom-600) > 1e-9 {
		t.Errorf("-85 should project to y=H, got %v", bottom)
	}
}

// Latitudes beyond the clamp bound project exactly like the bound.
func TestProjectClampsPolarLatitudes(t *testing.T) {
	m := Mercator{W: 1000, H: 600}
	_, yClamp := m.Project(10, 85)
	_, yPolar := m.Project(10, 89)
	if yClamp != yPolar {
		t.Errorf("lat 89 should project like lat 85: %v vs %v", yPolar, yClamp)
	}
	_, ySouth := m.Project(10, -90)
	_, ySouthClamp := m.Project(10, -85)
	if ySouth != ySouthClamp {
		t.Errorf("lat -90 should project like lat -85: %v vs %v", ySouth, ySouthClamp)
	}
}

func TestFeaturePathPolygon(t *testing.T) {
	g := geojson.NewPolygonGeometry([][][]float64{
		{{-180, 0}, {0, 85}, {180, 0}},
	})
	path := FeaturePath(g, 1000, 600)

	if !strings.HasPrefix(path, "M0.00,300.00") {
		t.Errorf("path should start at projected first vertex: %q", path)
	}
	if !strings.HasSuffix(path, "Z") {
		t.Errorf("ring must be closed explicitly: %q", path)
	}
	if strings.Count(path, "M") != 1 || strings.Count(path, "L") != 2 {
		t.Errorf("unexpected path structure: %q", path)
	}
}

func TestFeaturePathMultiPolygon(t *testing.T) {
	g := geojson.NewMultiPolygonGeometry(
		[][][]float64{{{0, 0}, {10, 0}, {10, 10}}},
		[][][]float64{{{20, 20}, {30, 20}, {30, 30}}},
	)
	path := FeaturePath(g, 1000, 600)

	// Each ring-set becomes its own closed sub-path.
	if strings.Count(path, "M") != 2 || strings.Count(path, "Z") != 2 {
		t.Errorf("multipolygon should emit two closed sub-paths: %q", path)
	}
}

// Holes are out of scope: only the outer ring renders.
func TestFeaturePathSkipsHoles(t *testing.T) {
	g := geojson.NewPolygonGeometry([][][]float64{
		{{0, 0}, {40, 0}, {40, 40}, {0, 40}},
		{{10, 10}, {20, 10}, {20, 20}}, // hole
	})
	path := FeaturePath(g, 1000, 600)
	if strings.Count(path, "M") != 1 {
		t.Errorf("hole ring should not render: %q", path)
	}
}

func TestFeaturePathEmptyGeometry(t *testing.T) {
	if got := FeaturePath(nil, 1000, 600); got != "" {
		t.Errorf("nil geometry should yield empty path, got %q", got)
	}
	empty := geojson.NewPolygonGeometry([][][]float64{})
	if got := FeaturePath(empty, 1000, 600); got != "" {
		t.Errorf("empty polygon should yield empty path, got %q", got)
	}
	point := geojson.NewPointGeometry([]float64{1, 2})
	if got := FeaturePath(point, 1000, 600); got != "" {
		t.Errorf("non-areal geometry should yield empty path, got %q", got)
	}
}
