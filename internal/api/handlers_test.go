package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"econatlas/internal/app"
	"econatlas/internal/engine"
	"econatlas/internal/geo"
	"econatlas/internal/models"

	geojson "github.com/paulmach/go.geojson"
)

func testApp() *app.App {
	nominal := engine.NewStore()
	nominal.Put(&engine.TimeSeries{Code: "AAA", Name: "Alpha", Values: map[int]engine.Value{
		2021: engine.Some(100), 2022: engine.Some(110), 2023: engine.Some(121),
	}})
	nominal.Put(&engine.TimeSeries{Code: "BBB", Name: "Beta", Values: map[int]engine.Value{
		2023: engine.None(),
	}})
	ppp := engine.NewStore()
	ppp.Put(&engine.TimeSeries{Code: "AAA", Name: "Alpha", Values: map[int]engine.Value{
		2023: engine.Some(242),
	}})

	a := app.New()
	a.SetData(&app.Data{
		Nominal:  engine.Dataset{Current: nominal, Constant: engine.NewStore()},
		PPP:      engine.Dataset{Current: ppp, Constant: engine.NewStore()},
		Combined: nominal,
		Features: []geo.Feature{
			{Code: "AAA", Name: "Alpha", Geometry: geojson.NewPolygonGeometry(
				[][][]float64{{{0, 0}, {10, 0}, {10, 10}}})},
			{Code: "ZZZ", Name: "Nowhere", Geometry: nil},
		},
		Years: nominal.Years(),
	})
	return a
}

func do(t *testing.T, h *Handler, method, target string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	h.RegisterRoutes(e)
	req := httptest.NewRequest(method, target, nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestGetSeries(t *testing.T) {
	h := NewHandler(testApp())
	rec := do(t, h, http.MethodGet, "/api/series/AAA")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}
	var payload models.SeriesPayload
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatal(err)
	}
	if payload.Name != "Alpha" || len(payload.Labels) != 3 {
		t.Errorf("payload = %+v", payload)
	}
	if payload.Points[0] == nil || *payload.Points[0] != 100 {
		t.Errorf("points misaligned: %+v", payload.Points)
	}
}

func TestGetSeriesUnknownRegion(t *testing.T) {
	h := NewHandler(testApp())
	if rec := do(t, h, http.MethodGet, "/api/series/QQQ"); rec.Code != http.StatusNotFound {
		t.Errorf("unknown region status = %d", rec.Code)
	}
}

func TestGetSeriesBadDataset(t *testing.T) {
	h := NewHandler(testApp())
	if rec := do(t, h, http.MethodGet, "/api/series/AAA?dataset=bogus"); rec.Code != http.StatusBadRequest {
		t.Errorf("bad dataset status = %d", rec.Code)
	}
}

func TestLoadingAndFailedStates(t *testing.T) {
	loading := NewHandler(app.New())
	rec := do(t, loading, http.MethodGet, "/api/series/AAA")
	if rec.Code != http.StatusServiceUnavailable || !strings.Contains(rec.Body.String(), "data loading") {
		t.Errorf("loading state: %d %s", rec.Code, rec.Body)
	}

	failed := app.New()
	failed.Fail(errors.New("fetch gdp: connection refused"))
	rec = do(t, NewHandler(failed), http.MethodGet, "/api/series/AAA")
	if rec.Code != http.StatusServiceUnavailable || !strings.Contains(rec.Body.String(), "initialization failed") {
		t.Errorf("failed state should be distinct: %d %s", rec.Code, rec.Body)
	}
}

func TestGetGrowthAndCAGR(t *testing.T) {
	h := NewHandler(testApp())

	rec := do(t, h, http.MethodGet, "/api/metrics/growth?code=AAA&from=2021&to=2023")
	var payload models.MetricPayload
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatal(err)
	}
	if payload.Value == nil || *payload.Value != 21 {
		t.Errorf("growth payload = %+v", payload)
	}

	rec = do(t, h, http.MethodGet, "/api/metrics/cagr?code=AAA&from=2021&to=2023")
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatal(err)
	}
	if payload.Value == nil || *payload.Value < 9.99 || *payload.Value > 10.01 {
		t.Errorf("cagr payload = %+v", payload)
	}

	// Not computable serializes as null, not zero.
	rec = do(t, h, http.MethodGet, "/api/metrics/growth?code=AAA&from=1900&to=2023")
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatal(err)
	}
	if payload.Value != nil {
		t.Errorf("uncomputable growth should be null, got %v", *payload.Value)
	}
}

func TestGetRatio(t *testing.T) {
	h := NewHandler(testApp())
	rec := do(t, h, http.MethodGet, "/api/metrics/ratio?code=AAA&year=2023")

	var payload models.MetricPayload
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatal(err)
	}
	if payload.Value == nil || *payload.Value != 0.5 {
		t.Errorf("ratio payload = %+v", payload)
	}
}

func TestGetMap(t *testing.T) {
	h := NewHandler(testApp())
	rec := do(t, h, http.MethodGet, "/api/map?year=2023&width=800&height=400")

	var payload models.MapPayload
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatal(err)
	}
	if len(payload.Regions) != 2 {
		t.Fatalf("expected 2 regions, got %d", len(payload.Regions))
	}
	byCode := map[string]models.MapRegion{}
	for _, r := range payload.Regions {
		byCode[r.Code] = r
	}
	if byCode["AAA"].Path == "" || byCode["AAA"].Value == nil {
		t.Errorf("joined region should have path and value: %+v", byCode["AAA"])
	}
	if byCode["ZZZ"].Color != geo.DefaultPalette.NoData || byCode["ZZZ"].Value != nil {
		t.Errorf("unjoined region should render no-data: %+v", byCode["ZZZ"])
	}
}

func TestGetRankings(t *testing.T) {
	h := NewHandler(testApp())
	rec := do(t, h, http.MethodGet, "/api/rankings?year=2023&window=2")

	var payload models.RankingPayload
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatal(err)
	}
	if payload.Total != 2 {
		t.Fatalf("total = %d", payload.Total)
	}
	// Alpha has data, Beta does not: Beta sinks and ranks below.
	if payload.Rows[0].Code != "AAA" || payload.Rows[0].Rank != 1 {
		t.Errorf("row 0 = %+v", payload.Rows[0])
	}
	if payload.Rows[1].Code != "BBB" || payload.Rows[1].Metric != nil {
		t.Errorf("row 1 = %+v", payload.Rows[1])
	}

	rec = do(t, h, http.MethodGet, "/api/rankings?year=2023&q=beta")
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatal(err)
	}
	if payload.Total != 1 || payload.Rows[0].Code != "BBB" || payload.Rows[0].Rank != 2 {
		t.Errorf("filtered payload = %+v", payload)
	}
}

func TestExportCSV(t *testing.T) {
	h := NewHandler(testApp())
	rec := do(t, h, http.MethodGet, "/api/export?codes=AAA&from=2021&to=2022")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}
	lines := strings.Split(strings.TrimSpace(rec.Body.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header + 2 rows, got %q", rec.Body.String())
	}
	if !strings.HasPrefix(lines[1], "Alpha,2021,100") {
		t.Errorf("row 1 = %q", lines[1])
	}
}

func TestSelectionEndpoints(t *testing.T) {
	h := NewHandler(testApp())

	do(t, h, http.MethodPost, "/api/selection/AAA")
	do(t, h, http.MethodPost, "/api/selection/BBB")
	do(t, h, http.MethodDelete, "/api/selection/AAA")

	rec := do(t, h, http.MethodGet, "/api/selection")
	var payload map[string][]string
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatal(err)
	}
	if len(payload["codes"]) != 1 || payload["codes"][0] != "BBB" {
		t.Errorf("selection = %v", payload["codes"])
	}
}

func TestYearEndpoints(t *testing.T) {
	h := NewHandler(testApp())

	if rec := do(t, h, http.MethodPut, "/api/year/2021"); rec.Code != http.StatusOK {
		t.Fatalf("set year status = %d", rec.Code)
	}
	rec := do(t, h, http.MethodGet, "/api/year")
	if !strings.Contains(rec.Body.String(), "2021") {
		t.Errorf("year body = %s", rec.Body)
	}
	if rec := do(t, h, http.MethodPut, "/api/year/noise"); rec.Code != http.StatusBadRequest {
		t.Errorf("bad year status = %d", rec.Code)
	}
}
