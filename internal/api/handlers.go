package api

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/labstack/echo/v4"

	"econatlas/internal/app"
	"econatlas/internal/engine"
	"econatlas/internal/export"
	"econatlas/internal/geo"
	"econatlas/internal/logging"
	"econatlas/internal/models"
	"econatlas/internal/plot"
)

type Handler struct {
	app     *app.App
	charts  *plot.Registry
	palette geo.Palette

	animMu   sync.Mutex
	animator *app.Animator
}

func NewHandler(a *app.App) *Handler {
	return &Handler{
		app:     a,
		charts:  plot.NewRegistry(),
		palette: geo.DefaultPalette,
	}
}

func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", h.Health)

	api := e.Group("/api")
	api.GET("/series/:code", h.GetSeries)
	api.GET("/metrics/growth", h.GetGrowth)
	api.GET("/metrics/cagr", h.GetCAGR)
	api.GET("/metrics/ratio", h.GetRatio)
	api.GET("/map", h.GetMap)
	api.GET("/rankings", h.GetRankings)
	api.POST("/charts", h.CreateChart)
	api.GET("/charts/:id", h.GetChart)
	api.DELETE("/charts/:id", h.DeleteChart)
	api.GET("/export", h.Export)
	api.GET("/selection", h.GetSelection)
	api.POST("/selection/:code", h.AddSelection)
	api.DELETE("/selection/:code", h.RemoveSelection)
	api.GET("/year", h.GetYear)
	api.PUT("/year/:year", h.SetYear)
	api.POST("/animation/start", h.StartAnimation)
	api.POST("/animation/stop", h.StopAnimation)
}

// --- HELPERS ---

// snapshot returns the loaded data or writes the appropriate 503. A
// failed initialization reads differently from "still loading" so the
// UI can tell a broken deployment from a slow one.
func (h *Handler) snapshot(c echo.Context) (*app.Data, error) {
	data, initErr, ok := h.app.Data()
	if ok {
		return data, nil
	}
	if initErr != nil {
		return nil, c.JSON(http.StatusServiceUnavailable,
			models.ErrorPayload{Error: "initialization failed: " + initErr.Error()})
	}
	return nil, c.JSON(http.StatusServiceUnavailable,
		models.ErrorPayload{Error: "data loading"})
}

func intParam(c echo.Context, name string, def int) int {
	v, err := strconv.Atoi(c.QueryParam(name))
	if err != nil {
		return def
	}
	return v
}

// resolveStore picks the store for dataset/basis query params.
// dataset: nominal (default), ppp, combined. basis: current (default),
// constant. The combined store only exists at nominal current prices.
func resolveStore(data *app.Data, dataset, basis string) (*engine.Store, error) {
	switch dataset {
	case "", "nominal":
		if st, ok := data.Nominal.Basis(basis); ok {
			return st, nil
		}
	case "ppp":
		if st, ok := data.PPP.Basis(basis); ok {
			return st, nil
		}
	case "combined":
		if basis == "" || basis == "current" {
			return data.Combined, nil
		}
	default:
		return nil, fmt.Errorf("unknown dataset %q", dataset)
	}
	return nil, fmt.Errorf("unknown basis %q for dataset %q", basis, dataset)
}

func notFound(c echo.Context, code string) error {
	return c.JSON(http.StatusNotFound,
		models.ErrorPayload{Error: "no data for region " + code})
}

// seriesPayload aligns one series to the shared year labels; years the
// series lacks come out as nulls.
func seriesPayload(s *engine.TimeSeries, labels []int) models.SeriesPayload {
	points := make([]*float64, len(labels))
	for i, y := range labels {
		points[i] = s.Values[y].Ptr()
	}
	return models.SeriesPayload{
		Code:   s.Code,
		Name:   s.Name,
		Labels: labels,
		Points: points,
	}
}

// --- HANDLERS ---

func (h *Handler) Health(c echo.Context) error {
	_, initErr, ok := h.app.Data()
	status := "loading"
	if ok {
		status = "ok"
	} else if initErr != nil {
		status = "failed"
	}
	return c.JSON(http.StatusOK, map[string]string{"status": status})
}

func (h *Handler) GetSeries(c echo.Context) error {
	data, err := h.snapshot(c)
	if data == nil {
		return err
	}
	store, rerr := resolveStore(data, c.QueryParam("dataset"), c.QueryParam("basis"))
	if rerr != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorPayload{Error: rerr.Error()})
	}
	code := c.Param("code")
	s, ok := store.Get(code)
	if !ok {
		return notFound(c, code)
	}
	return c.JSON(http.StatusOK, seriesPayload(s, store.Years()))
}

func (h *Handler) GetGrowth(c echo.Context) error {
	return h.intervalMetric(c, "growth", engine.Growth)
}

func (h *Handler) GetCAGR(c echo.Context) error {
	return h.intervalMetric(c, "cagr", engine.CAGR)
}

func (h *Handler) intervalMetric(c echo.Context, kind string,
	compute func(*engine.TimeSeries, int, int) (float64, bool)) error {

	data, err := h.snapshot(c)
	if data == nil {
		return err
	}
	store, rerr := resolveStore(data, c.QueryParam("dataset"), c.QueryParam("basis"))
	if rerr != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorPayload{Error: rerr.Error()})
	}
	code := c.QueryParam("code")
	s, ok := store.Get(code)
	if !ok {
		return notFound(c, code)
	}
	from := intParam(c, "from", 0)
	to := intParam(c, "to", 0)
	v, ok := compute(s, from, to)
	payload := models.MetricPayload{Code: code, Kind: kind, From: from, To: to}
	if ok {
		payload.Value = &v
	}
	return c.JSON(http.StatusOK, payload)
}

// GetRatio serves the nominal-to-PPP price-level ratio. Both sides come
// from the current-price stores whatever basis the caller is otherwise
// viewing; the ratio is only meaningful at current prices.
func (h *Handler) GetRatio(c echo.Context) error {
	data, err := h.snapshot(c)
	if data == nil {
		return err
	}
	code := c.QueryParam("code")
	a, aok := data.Nominal.Current.Get(code)
	b, bok := data.PPP.Current.Get(code)
	if !aok || !bok {
		return notFound(c, code)
	}
	year := intParam(c, "year", h.app.Year())
	v, ok := engine.Ratio(a, b, year)
	payload := models.MetricPayload{Code: code, Kind: "ratio", Year: year}
	if ok {
		payload.Value = &v
	}
	return c.JSON(http.StatusOK, payload)
}

func (h *Handler) GetMap(c echo.Context) error {
	data, err := h.snapshot(c)
	if data == nil {
		return err
	}
	year := intParam(c, "year", h.app.Year())
	width := intParam(c, "width", 1000)
	height := intParam(c, "height", 600)

	// The map defaults to the combined store so subnational regions can
	// color alongside countries.
	dataset := c.QueryParam("dataset")
	if dataset == "" {
		dataset = "combined"
	}
	store, rerr := resolveStore(data, dataset, c.QueryParam("basis"))
	if rerr != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorPayload{Error: rerr.Error()})
	}

	// Join boundary features against the store, then bin the joined
	// values on a log scale.
	values := make([]float64, len(data.Features))
	defined := make([]bool, len(data.Features))
	for i, f := range data.Features {
		if s, ok := store.Get(f.Code); ok {
			values[i], defined[i] = s.At(year)
		}
	}
	min, max, ok := geo.Domain(values, defined)
	if !ok {
		min, max = 0, 0 // every region renders as no-data
	}

	regions := make([]models.MapRegion, 0, len(data.Features))
	for i, f := range data.Features {
		r := models.MapRegion{
			Code:  f.Code,
			Name:  f.Name,
			Path:  geo.FeaturePath(f.Geometry, float64(width), float64(height)),
			Color: h.palette.NoData,
		}
		if defined[i] {
			v := values[i]
			r.Value = &v
			r.Color = geo.ColorFor(v, min, max, h.palette)
		}
		regions = append(regions, r)
	}
	return c.JSON(http.StatusOK, models.MapPayload{
		Year: year, Width: width, Height: height, Regions: regions,
	})
}

func (h *Handler) GetRankings(c echo.Context) error {
	data, err := h.snapshot(c)
	if data == nil {
		return err
	}
	year := intParam(c, "year", h.app.Year())
	window := intParam(c, "window", 1)

	entries := engine.Snapshot(data.Combined, data.PPP.Current, year, window)
	entries = engine.Rank(entries)

	sortKey := engine.SortKey(c.QueryParam("sort"))
	if sortKey == "" {
		sortKey = engine.SortByRank
	}
	ascending := c.QueryParam("order") != "desc"
	engine.SortEntries(entries, sortKey, ascending)
	entries = engine.FilterEntries(entries, c.QueryParam("q"))

	rows := make([]models.RankingRow, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, models.RankingRow{
			Rank:      e.Rank,
			Code:      e.Code,
			Name:      e.Name,
			Metric:    e.Metric.Ptr(),
			Secondary: e.Secondary.Ptr(),
			Growth:    e.Growth.Ptr(),
			Ratio:     e.Ratio.Ptr(),
		})
	}
	return c.JSON(http.StatusOK, models.RankingPayload{
		Year: year, Total: len(rows), Rows: rows,
	})
}

type chartRequest struct {
	Title   string   `json:"title"`
	Codes   []string `json:"codes"`
	Dataset string   `json:"dataset"`
	Basis   string   `json:"basis"`
	Width   int      `json:"width"`
	Height  int      `json:"height"`
}

// Line colors cycle through a fixed order, one per selected region.
var lineColors = []string{
	"#1f77b4", "#ff7f0e", "#2ca02c", "#d62728",
	"#9467bd", "#8c564b", "#e377c2", "#7f7f7f",
}

func (h *Handler) CreateChart(c echo.Context) error {
	data, err := h.snapshot(c)
	if data == nil {
		return err
	}
	var req chartRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorPayload{Error: "invalid request body"})
	}
	store, rerr := resolveStore(data, req.Dataset, req.Basis)
	if rerr != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorPayload{Error: rerr.Error()})
	}
	codes := req.Codes
	if len(codes) == 0 {
		codes = h.app.Selection()
	}
	if len(codes) == 0 {
		return c.JSON(http.StatusBadRequest, models.ErrorPayload{Error: "no regions selected"})
	}

	labels := store.Years()
	lines := make([]plot.Line, 0, len(codes))
	for i, code := range codes {
		s, ok := store.Get(code)
		if !ok {
			return notFound(c, code)
		}
		payload := seriesPayload(s, labels)
		lines = append(lines, plot.Line{
			Name:   s.Name,
			Points: payload.Points,
			Color:  lineColors[i%len(lineColors)],
		})
	}

	handle, perr := h.charts.Plot(plot.Request{
		Title: req.Title, Width: req.Width, Height: req.Height,
		Labels: labels, Lines: lines,
	})
	if perr != nil {
		logging.ForRequest(c).Error("chart render failed", "error", perr)
		return c.JSON(http.StatusInternalServerError, models.ErrorPayload{Error: "chart render failed"})
	}
	logging.ForRequest(c).Info("chart created", "id", handle.ID, "regions", len(lines))
	return c.JSON(http.StatusCreated, models.ChartCreated{ID: handle.ID})
}

func (h *Handler) GetChart(c echo.Context) error {
	handle, ok := h.charts.Get(c.Param("id"))
	if !ok {
		return c.JSON(http.StatusNotFound, models.ErrorPayload{Error: "unknown chart"})
	}
	return c.Blob(http.StatusOK, "image/png", handle.PNG)
}

func (h *Handler) DeleteChart(c echo.Context) error {
	handle, ok := h.charts.Get(c.Param("id"))
	if ok {
		handle.Close()
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) Export(c echo.Context) error {
	data, err := h.snapshot(c)
	if data == nil {
		return err
	}
	codes := strings.Split(c.QueryParam("codes"), ",")
	if len(codes) == 1 && codes[0] == "" {
		codes = h.app.Selection()
	}
	if len(codes) == 0 {
		return c.JSON(http.StatusBadRequest, models.ErrorPayload{Error: "no regions selected"})
	}
	years := data.Combined.Years()
	if len(years) == 0 {
		return c.JSON(http.StatusConflict, models.ErrorPayload{Error: "no data available"})
	}
	from := intParam(c, "from", years[0])
	to := intParam(c, "to", years[len(years)-1])

	rows := export.BuildRows(data.Combined, data.PPP.Current, codes, from, to)

	switch c.QueryParam("format") {
	case "", "csv":
		c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="econatlas.csv"`)
		c.Response().Header().Set(echo.HeaderContentType, "text/csv")
		c.Response().WriteHeader(http.StatusOK)
		return export.WriteCSV(c.Response(), rows)
	case "xlsx":
		c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="econatlas.xlsx"`)
		c.Response().Header().Set(echo.HeaderContentType,
			"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Response().WriteHeader(http.StatusOK)
		return export.WriteXLSX(c.Response(), rows)
	}
	return c.JSON(http.StatusBadRequest, models.ErrorPayload{Error: "unknown format"})
}

func (h *Handler) GetSelection(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string][]string{"codes": h.app.Selection()})
}

func (h *Handler) AddSelection(c echo.Context) error {
	h.app.Select(c.Param("code"))
	return c.JSON(http.StatusOK, map[string][]string{"codes": h.app.Selection()})
}

func (h *Handler) RemoveSelection(c echo.Context) error {
	h.app.Deselect(c.Param("code"))
	return c.JSON(http.StatusOK, map[string][]string{"codes": h.app.Selection()})
}

func (h *Handler) GetYear(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]int{"year": h.app.Year()})
}

func (h *Handler) SetYear(c echo.Context) error {
	year, err := strconv.Atoi(c.Param("year"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorPayload{Error: "invalid year"})
	}
	h.app.SetYear(year)
	return c.JSON(http.StatusOK, map[string]int{"year": year})
}

// StartAnimation begins advancing the displayed year on a fixed
// interval. Starting while already running restarts with the new
// interval; ticks never overlap.
func (h *Handler) StartAnimation(c echo.Context) error {
	interval := time.Duration(intParam(c, "interval_ms", 1000)) * time.Millisecond
	if interval <= 0 {
		return c.JSON(http.StatusBadRequest, models.ErrorPayload{Error: "invalid interval"})
	}
	h.animMu.Lock()
	defer h.animMu.Unlock()
	if h.animator != nil {
		h.animator.Stop()
	}
	h.animator = app.NewAnimator(interval, func() { h.app.AdvanceYear() })
	h.animator.Start()
	return c.JSON(http.StatusOK, map[string]string{"status": "running"})
}

func (h *Handler) StopAnimation(c echo.Context) error {
	h.animMu.Lock()
	defer h.animMu.Unlock()
	if h.animator != nil {
		h.animator.Stop()
		h.animator = nil
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "stopped"})
}
