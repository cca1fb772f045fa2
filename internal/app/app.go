// Package app owns the mutable application state: the loaded series
// stores, the boundary features, the user's selection and the current
// year. Everything hangs off one App value handed to the API layer; there
// are no package globals.
package app

import (
	"sync"

	"econatlas/internal/engine"
	"econatlas/internal/geo"
)

// Data is the immutable result of one complete load. It is built once
// and swapped in whole; handlers only ever see a finished snapshot.
type Data struct {
	Nominal  engine.Dataset // GDP
	PPP      engine.Dataset // GDP at purchasing power parity
	Combined *engine.Store  // nominal current prices, countries + regions
	Features []geo.Feature
	Years    []int // sorted union of years in the combined store
}

// App is the single controlling context for shared mutable state.
type App struct {
	mu        sync.RWMutex
	data      *Data
	initErr   error
	selection []string
	year      int
}

func New() *App {
	return &App{}
}

// SetData publishes a finished load. It also clears any prior init error
// and snaps the current year to the latest available one.
func (a *App) SetData(d *Data) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.data = d
	a.initErr = nil
	if a.year == 0 && len(d.Years) > 0 {
		a.year = d.Years[len(d.Years)-1]
	}
}

// Fail records a fatal initialization error. The API surfaces this
// distinctly from "still loading" and from "no data for this region".
func (a *App) Fail(err error) {
	a.mu.Lock()
	a.initErr = err
	a.mu.Unlock()
}

// Data returns the current snapshot. ok=false while loading or after a
// failed init; initErr distinguishes the two.
func (a *App) Data() (d *Data, initErr error, ok bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.data, a.initErr, a.data != nil
}

// Year returns the currently displayed year.
func (a *App) Year() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.year
}

// SetYear moves the displayed year. Out-of-range values are accepted;
// lookups for them simply come back undefined.
func (a *App) SetYear(year int) {
	a.mu.Lock()
	a.year = year
	a.mu.Unlock()
}

// AdvanceYear steps to the next available year, wrapping at the end.
// Used by the animation loop; a manual year change goes through SetYear
// on the same state, there is no separate code path.
func (a *App) AdvanceYear() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.data == nil || len(a.data.Years) == 0 {
		return a.year
	}
	years := a.data.Years
	next := years[0]
	for i, y := range years {
		if y == a.year && i+1 < len(years) {
			next = years[i+1]
			break
		}
	}
	a.year = next
	return next
}

// Select adds a region code to the comparison selection, ignoring
// duplicates.
func (a *App) Select(code string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	for _, c := range a.selection {
		if c == code {
			return
		}
	}
	a.selection = append(a.selection, code)
}

// Deselect removes a region code from the selection.
func (a *App) Deselect(code string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	for i, c := range a.selection {
		if c == code {
			a.selection = append(a.selection[:i], a.selection[i+1:]...)
			return
		}
	}
}

// Selection returns a copy of the current selection list.
func (a *App) Selection() []string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	out := make([]string, len(a.selection))
	copy(out, a.selection)
	return out
}
