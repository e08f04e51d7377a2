// Package dashboard is the caller-owned context that ties one dataset snapshot to
// its derived views and the interactive view state. A Dashboard is not safe for
// concurrent use; hosts that serve several clients must serialise access.
package dashboard

import (
	"time"

	"greenpulse/domain/core"
	"greenpulse/domain/series"
	"greenpulse/domain/viewstate"
	"greenpulse/internal/aggregate"
	"greenpulse/internal/loader"
)

// Dashboard holds the current snapshot, its views and the view state
type Dashboard struct {
	engine   *aggregate.Engine
	records  []series.Record
	views    *aggregate.Views
	state    viewstate.State
	report   loader.Report
	loadID   core.LoadID
	loadedAt time.Time
}

// New creates an empty dashboard; every query answers "nothing to draw" until Load
func New(engine *aggregate.Engine) *Dashboard {
	return &Dashboard{
		engine: engine,
		views:  engine.Build(nil, nil, nil),
		state:  viewstate.New(engine.Categories()),
	}
}

// Load replaces the snapshot with bundle and rebuilds every derived view. The view
// state survives reloads.
func (d *Dashboard) Load(bundle *loader.Bundle) core.LoadID {
	d.records = append([]series.Record(nil), bundle.Records...)
	d.views = d.engine.Build(d.records, bundle.Features, bundle.Countries)
	d.report = bundle.Report
	d.loadedAt = bundle.LoadedAt
	if d.loadedAt.IsZero() {
		d.loadedAt = time.Now()
	}
	d.loadID = core.NewLoadID()
	return d.loadID
}

// LoadRecords is Load for an already normalized record slice without join data
func (d *Dashboard) LoadRecords(records []series.Record) core.LoadID {
	return d.Load(&loader.Bundle{
		Records: records,
		Report: loader.Report{
			RowsRead:  len(records),
			RowsKept:  len(records),
			DroppedBy: map[loader.DropReason]int{},
		},
	})
}

// Resize is called when the host viewport changes. The data did not change, so
// nothing is rebuilt; the current views are returned for re-rendering.
func (d *Dashboard) Resize() *aggregate.Views {
	return d.views
}

// Views returns the derived views of the current snapshot
func (d *Dashboard) Views() *aggregate.Views { return d.views }

// Records returns a copy of the current snapshot
func (d *Dashboard) Records() []series.Record {
	return append([]series.Record(nil), d.records...)
}

// State returns the current view state
func (d *Dashboard) State() viewstate.State { return d.state }

// Categories returns the closed category set in display order
func (d *Dashboard) Categories() series.CategorySet { return d.engine.Categories() }

// BaselineWindow returns the inclusive baseline window
func (d *Dashboard) BaselineWindow() (int, int) { return d.engine.BaselineWindow() }

// Report returns the normalization report of the last load
func (d *Dashboard) Report() loader.Report { return d.report }

// LoadID identifies the last load; empty before the first one
func (d *Dashboard) LoadID() core.LoadID { return d.loadID }

// LoadedAt returns when the last load's data was read
func (d *Dashboard) LoadedAt() time.Time { return d.loadedAt }

// Apply feeds one user event through the pure state transitions
func (d *Dashboard) Apply(e viewstate.Event) viewstate.State {
	d.state = viewstate.Apply(d.state, e)
	return d.state
}

// Toggle flips a category's visibility; unknown categories are ignored
func (d *Dashboard) Toggle(c series.Category) viewstate.State {
	return d.Apply(viewstate.Event{Kind: viewstate.EventToggle, Category: c})
}

// HoverEnter marks a category as hovered
func (d *Dashboard) HoverEnter(c series.Category) viewstate.State {
	return d.Apply(viewstate.Event{Kind: viewstate.EventHoverEnter, Category: c})
}

// HoverLeave clears the hover selection
func (d *Dashboard) HoverLeave() viewstate.State {
	return d.Apply(viewstate.Event{Kind: viewstate.EventHoverLeave})
}

// ResolveAtYear returns visible values at year in display order
func (d *Dashboard) ResolveAtYear(year int) []series.CategoryValue {
	return d.engine.ResolveAtYear(d.views, d.state, year)
}

// BarSnapshot returns the visible values at the most recent year with data
func (d *Dashboard) BarSnapshot() (int, []series.CategoryValue, bool) {
	year, ok := d.views.LatestYear()
	if !ok {
		return 0, []series.CategoryValue{}, false
	}
	return year, d.ResolveAtYear(year), true
}
