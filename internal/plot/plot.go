// Package plot adapts the time-series chart collaborator. The rest of
// the system hands over labels and nullable point arrays and gets back a
// disposable handle; the chart library's behavior stays behind this
// boundary.
package plot

import (
	"bytes"
	"fmt"
	"math"
	"strings"
	"sync"

	"github.com/google/uuid"
	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// Line is one series to draw. A nil point is a gap in the data.
type Line struct {
	Name   string
	Points []*float64
	Color  string // hex, e.g. "#1f77b4"
}

// Request describes one chart: shared year labels plus any number of
// lines aligned to them.
type Request struct {
	Title  string
	Width  int
	Height int
	Labels []int
	Lines  []Line
}

// Handle is a rendered chart. Close releases it from the registry.
type Handle struct {
	ID  string
	PNG []byte
	reg *Registry
}

func (h *Handle) Close() {
	if h.reg != nil {
		h.reg.remove(h.ID)
	}
}

// Registry renders charts and keeps the handles addressable until closed.
type Registry struct {
	mu     sync.Mutex
	charts map[string]*Handle
}

func NewRegistry() *Registry {
	return &Registry{charts: make(map[string]*Handle)}
}

// Plot renders the request to PNG and registers a handle for it.
func (r *Registry) Plot(req Request) (*Handle, error) {
	if len(req.Labels) < 2 {
		return nil, fmt.Errorf("need at least two year labels, got %d", len(req.Labels))
	}
	if req.Width <= 0 {
		req.Width = 900
	}
	if req.Height <= 0 {
		req.Height = 360
	}

	xs := make([]float64, len(req.Labels))
	for i, y := range req.Labels {
		xs[i] = float64(y)
	}

	series := make([]chart.Series, 0, len(req.Lines))
	for _, line := range req.Lines {
		ys := make([]float64, len(req.Labels))
		for i := range ys {
			if i < len(line.Points) && line.Points[i] != nil {
				ys[i] = *line.Points[i]
			} else {
				ys[i] = math.NaN()
			}
		}
		st := chart.Style{StrokeWidth: 2}
		if line.Color != "" {
			st.StrokeColor = drawing.ColorFromHex(strings.TrimPrefix(line.Color, "#"))
		}
		series = append(series, chart.ContinuousSeries{
			Name:    line.Name,
			XValues: xs,
			YValues: ys,
			Style:   st,
		})
	}

	ch := chart.Chart{
		Title:  req.Title,
		Width:  req.Width,
		Height: req.Height,
		Series: series,
	}
	ch.Elements = []chart.Renderable{chart.Legend(&ch)}

	var buf bytes.Buffer
	if err := ch.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("render chart: %w", err)
	}

	h := &Handle{ID: uuid.NewString(), PNG: buf.Bytes(), reg: r}
	r.mu.Lock()
	r.charts[h.ID] = h
	r.mu.Unlock()
	return h, nil
}

func (r *Registry) Get(id string) (*Handle, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	h, ok := r.charts[id]
	return h, ok
}

func (r *Registry) remove(id string) {
	r.mu.Lock()
	delete(r.charts, id)
	r.mu.Unlock()
}
