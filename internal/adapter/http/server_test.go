package http_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	httpadapter "github.com/couchcryptid/india-cartogram/internal/adapter/http"
	"github.com/couchcryptid/india-cartogram/internal/domain"
	"github.com/couchcryptid/india-cartogram/internal/pipeline"
)

type mockReadiness struct {
	err error
}

func (m *mockReadiness) CheckReadiness(_ context.Context) error { return m.err }

// stubLayouts derives layouts of a fixed dataset, or reports not ready when ds is nil.
type stubLayouts struct {
	ds *domain.Dataset
}

func (s *stubLayouts) Options() domain.Options { return domain.NewOptions() }

func (s *stubLayouts) Layout(opts domain.Options) (domain.LayoutResult, error) {
	if s.ds == nil {
		return domain.LayoutResult{}, pipeline.ErrNotReady
	}
	return domain.Build(*s.ds, domain.DefaultCatalog, opts)
}

func ptr(v float64) *float64 { return &v }

// testDataset: DL rises 100..250, KL falls 500..350, MH is flat at 1000 with day 3 missing.
func testDataset(days int) *domain.Dataset {
	start := time.Date(2020, time.March, 14, 0, 0, 0, 0, time.UTC)
	ds := &domain.Dataset{Dates: make([]time.Time, days)}
	dl := make([]*float64, days)
	kl := make([]*float64, days)
	mh := make([]*float64, days)
	for i := range days {
		ds.Dates[i] = start.AddDate(0, 0, i)
		dl[i] = ptr(float64(100 + 10*i))
		kl[i] = ptr(float64(500 - 10*i))
		if i != 3 {
			mh[i] = ptr(1000)
		}
	}
	for _, r := range []struct {
		key    string
		counts []*float64
	}{{"DL", dl}, {"KL", kl}, {"MH", mh}} {
		ds.Regions = append(ds.Regions, domain.RawRegion{
			Key:      r.key,
			Reported: map[domain.Category][]*float64{domain.CategoryCases: r.counts, domain.CategoryDeaths: r.counts},
		})
	}
	return ds
}

func newTestServer(readyErr error, ds *domain.Dataset) *httpadapter.Server {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return httpadapter.NewServer(":0", &mockReadiness{err: readyErr}, &stubLayouts{ds: ds},
		domain.DefaultCatalog, domain.DefaultResponsiveWidth, logger)
}

func get(t *testing.T, srv *httpadapter.Server, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestHealthzReturns200(t *testing.T) {
	rec := get(t, newTestServer(nil, nil), "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestReadyzReturns200WhenReady(t *testing.T) {
	rec := get(t, newTestServer(nil, testDataset(16)), "/readyz")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestReadyzReturns503WhenNotReady(t *testing.T) {
	rec := get(t, newTestServer(fmt.Errorf("not ready yet"), nil), "/readyz")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	rec := get(t, newTestServer(nil, nil), "/metrics")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}

func TestLayout_Cartogram(t *testing.T) {
	rec := get(t, newTestServer(nil, testDataset(16)), "/api/layout")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	layout := decode[domain.LayoutResult](t, rec)
	require.Len(t, layout.Regions, 3)
	assert.Equal(t, domain.ModeCartogram, layout.Mode)
	assert.Equal(t, domain.GridSize{Cols: 8, Rows: 8}, layout.Grid)
	assert.InDelta(t, 1000.0, layout.UniformMax, 1e-9)

	dl := layout.Regions[0]
	assert.Equal(t, "DL", dl.Key)
	assert.Equal(t, 4, dl.Col)
	assert.Equal(t, 3, dl.Row)
	assert.Equal(t, domain.TrendRising, dl.Trend)
	assert.Equal(t, domain.TrendFalling, layout.Regions[1].Trend)
}

func TestLayout_NarrowWidthIsSequential(t *testing.T) {
	rec := get(t, newTestServer(nil, testDataset(16)), "/api/layout?width=320")
	require.Equal(t, http.StatusOK, rec.Code)

	layout := decode[domain.LayoutResult](t, rec)
	assert.Equal(t, domain.ModeSequential, layout.Mode)
	assert.Equal(t, domain.GridSize{Cols: 4, Rows: 1}, layout.Grid)
	assert.Equal(t, 1, layout.Regions[2].Row)
	assert.Equal(t, 3, layout.Regions[2].Col)
}

func TestLayout_BadParams(t *testing.T) {
	srv := newTestServer(nil, testDataset(16))
	for _, target := range []string{
		"/api/layout?cat=recovered",
		"/api/layout?field=median",
		"/api/layout?scale=log",
		"/api/layout?policy=loose",
		"/api/layout?width=wide",
		"/api/layout?cols=0",
		"/api/layout?rows=x",
		"/api/layout?mobileCols=-1",
	} {
		t.Run(target, func(t *testing.T) {
			rec := get(t, srv, target)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, decode[map[string]string](t, rec)["error"], "invalid input")
		})
	}
}

func TestLayout_NotReady(t *testing.T) {
	rec := get(t, newTestServer(nil, nil), "/api/layout")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestRegion_AdjustedAndUniformScale(t *testing.T) {
	srv := newTestServer(nil, testDataset(16))

	rec := get(t, srv, "/api/regions/dl")
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[map[string]any](t, rec)
	assert.Equal(t, "DL", body["key"])
	assert.InDelta(t, 220.0, body["y_max"], 1e-9)

	rec = get(t, srv, "/api/regions/DL?scale=uniform")
	require.Equal(t, http.StatusOK, rec.Code)
	body = decode[map[string]any](t, rec)
	assert.InDelta(t, 1000.0, body["y_max"], 1e-9)
}

func TestRegion_Unknown(t *testing.T) {
	rec := get(t, newTestServer(nil, testDataset(16)), "/api/regions/GJ")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPoint(t *testing.T) {
	srv := newTestServer(nil, testDataset(16))

	tests := []struct {
		name        string
		target      string
		wantDay     float64
		wantVisible bool
		wantDisplay any
	}{
		{"seven day average", "/api/regions/DL/points/7", 7, true, 140.0},
		{"per capita rounded", "/api/regions/DL/points/7?field=per100k&decimals=2", 7, true, 0.75},
		{"clamped past end", "/api/regions/DL/points/99?field=val", 15, true, 250.0},
		{"missing average hidden", "/api/regions/MH/points/8", 8, false, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := get(t, srv, tt.target)
			require.Equal(t, http.StatusOK, rec.Code)
			body := decode[map[string]any](t, rec)
			assert.Equal(t, tt.wantDay, body["day"])
			assert.Equal(t, tt.wantVisible, body["visible"])
			assert.Equal(t, tt.wantDisplay, body["display"])
		})
	}
}

func TestPoint_BadDay(t *testing.T) {
	srv := newTestServer(nil, testDataset(16))
	assert.Equal(t, http.StatusBadRequest, get(t, srv, "/api/regions/DL/points/last").Code)
	assert.Equal(t, http.StatusBadRequest, get(t, srv, "/api/regions/DL/points/3?decimals=-1").Code)
}

func TestTrend(t *testing.T) {
	srv := newTestServer(nil, testDataset(16))

	rec := get(t, srv, "/api/regions/KL/trend")
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[map[string]string](t, rec)
	assert.Equal(t, "falling", body["trend"])
	assert.Equal(t, "val", body["field"])

	// The two-weeks-ago average does not exist yet.
	rec = get(t, srv, "/api/regions/DL/trend?trend=avg7day")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "flat", decode[map[string]string](t, rec)["trend"])
}

func TestTrend_InsufficientHistory(t *testing.T) {
	rec := get(t, newTestServer(nil, testDataset(10)), "/api/regions/DL/trend?field=val")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestMeta(t *testing.T) {
	rec := get(t, newTestServer(nil, nil), "/api/meta")
	require.Equal(t, http.StatusOK, rec.Code)

	entries := decode[[]map[string]any](t, rec)
	assert.Len(t, entries, len(domain.DefaultCatalog))
	assert.Equal(t, "AN", entries[0]["code"])
}
