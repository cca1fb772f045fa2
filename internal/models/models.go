package models

// View-model payloads served to the UI layer. Missing values serialize
// as JSON null, never as zero.

type SeriesPayload struct {
	Code   string     `json:"code"`
	Name   string     `json:"name"`
	Labels []int      `json:"labels"`
	Points []*float64 `json:"points"`
}

type MetricPayload struct {
	Code  string   `json:"code"`
	Kind  string   `json:"kind"`
	From  int      `json:"from_year,omitempty"`
	To    int      `json:"to_year,omitempty"`
	Year  int      `json:"year,omitempty"`
	Value *float64 `json:"value"`
}

type MapRegion struct {
	Code  string   `json:"code"`
	Name  string   `json:"name"`
	Path  string   `json:"path"`
	Color string   `json:"color"`
	Value *float64 `json:"value"`
}

type MapPayload struct {
	Year    int         `json:"year"`
	Width   int         `json:"width"`
	Height  int         `json:"height"`
	Regions []MapRegion `json:"regions"`
}

type RankingRow struct {
	Rank      int      `json:"rank"`
	Code      string   `json:"code"`
	Name      string   `json:"name"`
	Metric    *float64 `json:"gdp"`
	Secondary *float64 `json:"gdp_ppp"`
	Growth    *float64 `json:"growth"`
	Ratio     *float64 `json:"price_level_ratio"`
}

type RankingPayload struct {
	Year  int          `json:"year"`
	Total int          `json:"total"`
	Rows  []RankingRow `json:"rows"`
}

type ChartCreated struct {
	ID string `json:"id"`
}

type ErrorPayload struct {
	Error string `json:"error"`
}
