package app

import (
	"context"
	"fmt"
	"log/slog"

	"econatlas/internal/config"
	"econatlas/internal/engine"
	"econatlas/internal/fetch"
	"econatlas/internal/geo"
)

// Source names used to key the fetched bodies.
const (
	srcNominalCurrent  = "nominal_current"
	srcNominalConstant = "nominal_constant"
	srcPPPCurrent      = "ppp_current"
	srcPPPConstant     = "ppp_constant"
	srcBoundaries      = "boundaries"
)

// Load fetches every raw source and builds a complete Data snapshot.
// Fetching is all-or-nothing; a single failed source aborts the load.
func Load(ctx context.Context, cfg *config.Config, client *fetch.Client) (*Data, error) {
	sources := []fetch.Source{
		{Name: srcNominalCurrent, URL: cfg.Data.NominalCurrentURL},
		{Name: srcNominalConstant, URL: cfg.Data.NominalConstantURL},
		{Name: srcPPPCurrent, URL: cfg.Data.PPPCurrentURL},
		{Name: srcPPPConstant, URL: cfg.Data.PPPConstantURL},
		{Name: srcBoundaries, URL: cfg.Geo.BoundariesURL},
	}
	for i, url := range cfg.Data.RegionalURLs {
		sources = append(sources, fetch.Source{
			Name: fmt.Sprintf("regional_%d", i),
			URL:  url,
		})
	}

	bodies, err := client.FetchAll(ctx, sources)
	if err != nil {
		return nil, err
	}

	nominal := engine.Dataset{
		Current:  engine.ParseCountryTable(string(bodies[srcNominalCurrent])),
		Constant: engine.ParseCountryTable(string(bodies[srcNominalConstant])),
	}
	ppp := engine.Dataset{
		Current:  engine.ParseCountryTable(string(bodies[srcPPPCurrent])),
		Constant: engine.ParseCountryTable(string(bodies[srcPPPConstant])),
	}

	regionals := make([]*engine.Store, 0, len(cfg.Data.RegionalURLs))
	for i := range cfg.Data.RegionalURLs {
		st := engine.ParseRegionalTable(string(bodies[fmt.Sprintf("regional_%d", i)]))
		slog.Info("parsed regional table", "index", i, "regions", st.Len())
		regionals = append(regionals, st)
	}
	combined := engine.Combined(nominal.Current, regionals...)

	features, err := geo.LoadFeatures(bodies[srcBoundaries], cfg.Geo.CodeProperty, cfg.Geo.NameProperty)
	if err != nil {
		return nil, err
	}

	slog.Info("data load complete",
		"countries", nominal.Current.Len(),
		"combined", combined.Len(),
		"features", len(features),
	)
	return &Data{
		Nominal:  nominal,
		PPP:      ppp,
		Combined: combined,
		Features: features,
		Years:    combined.Years(),
	}, nil
}
