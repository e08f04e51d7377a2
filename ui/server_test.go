package ui

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"greenpulse/domain/series"
	"greenpulse/domain/viewstate"
	"greenpulse/internal"
	"greenpulse/internal/aggregate"
	"greenpulse/internal/dashboard"
	apperrors "greenpulse/internal/errors"
	"greenpulse/internal/loader"
)

func init() {
	gin.SetMode(gin.TestMode)
}

var sampleRecords = []series.Record{
	{Year: 2000, Category: series.HighIncome, RawValue: 0.5, PctChange: 0},
	{Year: 2000, Category: series.LowerMiddleIncome, RawValue: 0.3, PctChange: -1},
	{Year: 2001, Category: series.HighIncome, RawValue: 0.52, PctChange: 4},
	{Year: 2001, Category: series.LowerMiddleIncome, RawValue: 0.31, PctChange: 2},
}

func newTestServer(reload ReloadFunc) *Server {
	d := dashboard.New(aggregate.NewEngine(series.DefaultCategories(), 2000, 2005))
	d.LoadRecords(sampleRecords)
	return NewServer(d, reload, internal.NewLogger(internal.LogLevelError))
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v), w.Body.String())
}

// ============================================================================
// Views
// ============================================================================

func TestServer_Health(t *testing.T) {
	s := newTestServer(nil)
	w := do(t, s.Handler(), http.MethodGet, "/api/health", "")

	require.Equal(t, http.StatusOK, w.Code)
	var body map[string]interface{}
	decode(t, w, &body)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, float64(4), body["records"])
	assert.NotEmpty(t, body["load_id"])
}

func TestServer_Bands(t *testing.T) {
	s := newTestServer(nil)
	w := do(t, s.Handler(), http.MethodGet, "/api/bands", "")

	require.Equal(t, http.StatusOK, w.Code)
	var bands []series.YearBand
	decode(t, w, &bands)
	assert.Equal(t, []series.YearBand{
		{Year: 2000, Min: -1, Max: 0, Mid: -0.5},
		{Year: 2001, Min: 2, Max: 4, Mid: 3},
	}, bands)
}

func TestServer_Baseline(t *testing.T) {
	s := newTestServer(nil)
	w := do(t, s.Handler(), http.MethodGet, "/api/baseline", "")

	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Start    int                         `json:"start"`
		End      int                         `json:"end"`
		Baseline map[series.Category]float64 `json:"baseline"`
	}
	decode(t, w, &body)
	assert.Equal(t, 2000, body.Start)
	assert.Equal(t, 2005, body.End)
	assert.Len(t, body.Baseline, 3)
	assert.InDelta(t, 0.51, body.Baseline[series.HighIncome], 1e-9)
	assert.Equal(t, 0.0, body.Baseline[series.UpperMiddleIncome])
}

func TestServer_SeriesAndExtent(t *testing.T) {
	s := newTestServer(nil)

	w := do(t, s.Handler(), http.MethodGet, "/api/series", "")
	require.Equal(t, http.StatusOK, w.Code)
	var bySeries map[series.Category][]series.Record
	decode(t, w, &bySeries)
	assert.Len(t, bySeries, 2)
	assert.Len(t, bySeries[series.HighIncome], 2)

	w = do(t, s.Handler(), http.MethodGet, "/api/extent", "")
	require.Equal(t, http.StatusOK, w.Code)
	var ext struct {
		Years  *series.Extent `json:"years"`
		Values *series.Extent `json:"values"`
	}
	decode(t, w, &ext)
	require.NotNil(t, ext.Years)
	assert.Equal(t, series.Extent{Min: 2000, Max: 2001}, *ext.Years)
	assert.Equal(t, series.Extent{Min: -1, Max: 4}, *ext.Values)
}

// ============================================================================
// Point queries
// ============================================================================

func TestServer_Resolve(t *testing.T) {
	s := newTestServer(nil)

	w := do(t, s.Handler(), http.MethodGet, "/api/resolve?year=2001", "")
	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Year   int                    `json:"year"`
		Values []series.CategoryValue `json:"values"`
	}
	decode(t, w, &body)
	assert.Equal(t, []series.CategoryValue{
		{Category: series.HighIncome, Value: 4},
		{Category: series.LowerMiddleIncome, Value: 2},
	}, body.Values)

	// Scenario: a year with no data answers an empty list, not an error
	w = do(t, s.Handler(), http.MethodGet, "/api/resolve?year=1990", "")
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &body)
	assert.Empty(t, body.Values)
	assert.NotNil(t, body.Values)
}

func TestServer_BadQueries(t *testing.T) {
	s := newTestServer(nil)

	for _, path := range []string{"/api/resolve", "/api/resolve?year=abc", "/api/resolve?year=2001.5", "/api/tooltip?x=", "/api/tooltip?x=far"} {
		w := do(t, s.Handler(), http.MethodGet, path, "")
		assert.Equal(t, http.StatusBadRequest, w.Code, path)
		var body map[string]string
		decode(t, w, &body)
		assert.NotEmpty(t, body["error"], path)
	}
}

func TestServer_Tooltip(t *testing.T) {
	s := newTestServer(nil)

	w := do(t, s.Handler(), http.MethodGet, "/api/tooltip?x=2003.4", "")
	require.Equal(t, http.StatusOK, w.Code)
	var tip dashboard.Tooltip
	decode(t, w, &tip)
	assert.Equal(t, 2001, tip.Year)
	require.Len(t, tip.Rows, 2)
	assert.Equal(t, "4.00%", tip.Rows[0].Label)
}

// ============================================================================
// View state
// ============================================================================

func TestServer_ToggleVisibility(t *testing.T) {
	s := newTestServer(nil)

	w := do(t, s.Handler(), http.MethodPost, "/api/visibility/high%20income/toggle", "")
	require.Equal(t, http.StatusOK, w.Code)
	var snap viewstate.Snapshot
	decode(t, w, &snap)
	assert.Equal(t, []series.Category{series.HighIncome}, snap.Hidden)

	w = do(t, s.Handler(), http.MethodGet, "/api/resolve?year=2001", "")
	var body struct {
		Values []series.CategoryValue `json:"values"`
	}
	decode(t, w, &body)
	require.Len(t, body.Values, 1)
	assert.Equal(t, series.LowerMiddleIncome, body.Values[0].Category)
}

func TestServer_ToggleUnknownCategoryIsNoop(t *testing.T) {
	s := newTestServer(nil)

	w := do(t, s.Handler(), http.MethodPost, "/api/visibility/Low%20income/toggle", "")
	require.Equal(t, http.StatusOK, w.Code)
	var snap viewstate.Snapshot
	decode(t, w, &snap)
	assert.Empty(t, snap.Hidden)
	assert.Len(t, snap.Visibility, 3)
}

func TestServer_Hover(t *testing.T) {
	s := newTestServer(nil)

	w := do(t, s.Handler(), http.MethodPost, "/api/hover/Upper-middle%20income", "")
	require.Equal(t, http.StatusOK, w.Code)
	var snap viewstate.Snapshot
	decode(t, w, &snap)
	require.NotNil(t, snap.Hovered)
	assert.Equal(t, series.UpperMiddleIncome, *snap.Hovered)

	w = do(t, s.Handler(), http.MethodDelete, "/api/hover", "")
	require.Equal(t, http.StatusOK, w.Code)
	snap = viewstate.Snapshot{}
	decode(t, w, &snap)
	assert.Nil(t, snap.Hovered)
}

func TestServer_Events(t *testing.T) {
	s := newTestServer(nil)

	w := do(t, s.Handler(), http.MethodPost, "/api/events", `{"kind":"toggle","category":"lower-middle income"}`)
	require.Equal(t, http.StatusOK, w.Code)
	var snap viewstate.Snapshot
	decode(t, w, &snap)
	assert.Equal(t, []series.Category{series.LowerMiddleIncome}, snap.Hidden)

	w = do(t, s.Handler(), http.MethodPost, "/api/events", `{"kind":`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// ============================================================================
// Reload
// ============================================================================

func TestServer_Reload(t *testing.T) {
	reload := func(ctx context.Context) (*loader.Bundle, error) {
		return &loader.Bundle{
			Records: sampleRecords[:2],
			Report:  loader.Report{RowsRead: 3, RowsKept: 2, DroppedBy: map[loader.DropReason]int{loader.DropBadRawValue: 1}},
		}, nil
	}
	s := newTestServer(reload)
	before := s.dash.LoadID()

	w := do(t, s.Handler(), http.MethodPost, "/api/reload", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEqual(t, before, s.dash.LoadID())
	assert.Len(t, s.dash.Views().Bands, 1)

	w = do(t, s.Handler(), http.MethodGet, "/api/ingest", "")
	var body map[string]interface{}
	decode(t, w, &body)
	assert.Equal(t, float64(1), body["dropped"])
}

func TestServer_ReloadFailureKeepsSnapshot(t *testing.T) {
	reload := func(ctx context.Context) (*loader.Bundle, error) {
		return nil, apperrors.ValidationError("rows dropped", errors.New("bad rows"))
	}
	s := newTestServer(reload)
	before := s.dash.LoadID()

	w := do(t, s.Handler(), http.MethodPost, "/api/reload", "")
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, before, s.dash.LoadID())
	assert.Len(t, s.dash.Views().Bands, 2)
}

func TestServer_ReloadNotConfigured(t *testing.T) {
	s := newTestServer(nil)
	w := do(t, s.Handler(), http.MethodPost, "/api/reload", "")
	assert.Equal(t, http.StatusNotImplemented, w.Code)
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, statusFor(apperrors.NotFound("data file")))
	assert.Equal(t, http.StatusBadGateway, statusFor(apperrors.SourceError("db", errors.New("down"))))
	assert.Equal(t, http.StatusInternalServerError, statusFor(errors.New("plain")))
}
