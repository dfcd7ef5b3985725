package source

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/couchcryptid/india-cartogram/internal/domain"
)

// maxErrorBody caps how much of a failed response is echoed into the error.
const maxErrorBody = 512

// HTTPSource downloads the dataset document from a URL.
type HTTPSource struct {
	url        string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewHTTPSource creates an HTTP dataset source with a per-request timeout.
func NewHTTPSource(url string, timeout time.Duration, logger *slog.Logger) *HTTPSource {
	return &HTTPSource{
		url: url,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// Fetch downloads and decodes the dataset.
func (s *HTTPSource) Fetch(ctx context.Context) (domain.Dataset, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return domain.Dataset{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := s.httpClient.Do(req)
	if err != nil {
		return domain.Dataset{}, fmt.Errorf("dataset request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return domain.Dataset{}, fmt.Errorf("dataset source error: status %d: %s", resp.StatusCode, body)
	}

	ds, err := Decode(resp.Body)
	if err != nil {
		return domain.Dataset{}, err
	}
	s.logger.Debug("dataset downloaded",
		"url", s.url,
		"regions", len(ds.Regions),
		"days", len(ds.Dates),
		"duration", time.Since(start),
	)
	return ds, nil
}

// String names the source in logs.
func (s *HTTPSource) String() string { return s.url }
