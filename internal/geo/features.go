package geo

import (
	"fmt"

	geojson "github.com/paulmach/go.geojson"
)

// Feature is one region boundary with its identifying code and label.
type Feature struct {
	Code     string
	Name     string
	Geometry *geojson.Geometry
}

// LoadFeatures decodes a GeoJSON feature collection. The property key
// carrying the region code varies by data provider, so both it and the
// display-name key are passed in. Features without the code property are
// dropped, they cannot be joined against any series store.
func LoadFeatures(data []byte, codeProperty, nameProperty string) ([]Feature, error) {
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("decode boundaries: %w", err)
	}
	features := make([]Feature, 0, len(fc.Features))
	for _, f := range fc.Features {
		code, err := f.PropertyString(codeProperty)
		if err != nil || code == "" {
			continue
		}
		name, _ := f.PropertyString(nameProperty)
		features = append(features, Feature{
			Code:     code,
			Name:     name,
			Geometry: f.Geometry,
		})
	}
	return features, nil
}
