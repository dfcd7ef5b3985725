package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/couchcryptid/india-cartogram/internal/domain"
	"github.com/couchcryptid/india-cartogram/internal/pipeline"
)

type regionResponse struct {
	domain.RegionSeries
	YMax float64 `json:"y_max"`
}

type pointResponse struct {
	domain.PointLookup
	Visible bool     `json:"visible"`
	Display *float64 `json:"display,omitempty"`
}

type trendResponse struct {
	Key   string       `json:"key"`
	Field domain.Field `json:"field"`
	Trend domain.Trend `json:"trend"`
}

type metaEntry struct {
	domain.RegionMeta
	Label string `json:"label"`
}

func (s *Server) handleMeta(w http.ResponseWriter, _ *http.Request) {
	codes := s.catalog.Codes()
	out := make([]metaEntry, len(codes))
	for i, code := range codes {
		meta := s.catalog[code]
		out[i] = metaEntry{RegionMeta: meta, Label: meta.DisplayLabel()}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	layout, ok := s.layout(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, layout)
}

func (s *Server) handleRegion(w http.ResponseWriter, r *http.Request) {
	layout, ok := s.layout(w, r)
	if !ok {
		return
	}
	region, err := layout.Region(regionCode(r))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, regionResponse{RegionSeries: region, YMax: layout.YMax(region)})
}

func (s *Server) handleTrend(w http.ResponseWriter, r *http.Request) {
	opts, err := parseOptions(s.layouts.Options(), r.URL.Query(), s.threshold)
	if err != nil {
		s.writeError(w, err)
		return
	}
	layout, err := s.layouts.Layout(opts)
	if err != nil {
		s.writeError(w, err)
		return
	}
	region, err := layout.Region(regionCode(r))
	if err != nil {
		s.writeError(w, err)
		return
	}
	trend, err := domain.ClassifyTrend(region.Series, opts.TrendField)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, trendResponse{Key: region.Key, Field: opts.TrendField, Trend: trend})
}

func (s *Server) handlePoint(w http.ResponseWriter, r *http.Request) {
	day, err := strconv.Atoi(r.PathValue("day"))
	if err != nil {
		s.writeError(w, invalidParam("day", r.PathValue("day")))
		return
	}
	decimals := 0
	if v := r.URL.Query().Get("decimals"); v != "" {
		if decimals, err = strconv.Atoi(v); err != nil || decimals < 0 {
			s.writeError(w, invalidParam("decimals", v))
			return
		}
	}

	layout, ok := s.layout(w, r)
	if !ok {
		return
	}
	point, err := layout.PointAt(regionCode(r), day)
	if err != nil {
		s.writeError(w, err)
		return
	}

	resp := pointResponse{PointLookup: point, Visible: point.Visible()}
	if point.Visible() {
		v := domain.Round(*point.Value, decimals)
		resp.Display = &v
	}
	writeJSON(w, http.StatusOK, resp)
}

// layout resolves the request's options and derives the layout, writing an
// error response on failure.
func (s *Server) layout(w http.ResponseWriter, r *http.Request) (domain.LayoutResult, bool) {
	opts, err := parseOptions(s.layouts.Options(), r.URL.Query(), s.threshold)
	if err != nil {
		s.writeError(w, err)
		return domain.LayoutResult{}, false
	}
	layout, err := s.layouts.Layout(opts)
	if err != nil {
		s.writeError(w, err)
		return domain.LayoutResult{}, false
	}
	return layout, true
}

func regionCode(r *http.Request) string {
	return strings.ToUpper(r.PathValue("code"))
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("api request failed", "error", err, "status", status)
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrUnknownRegion):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInsufficientHistory), errors.Is(err, domain.ErrEmptySeries):
		return http.StatusUnprocessableEntity
	case errors.Is(err, pipeline.ErrNotReady):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // response already committed
}
