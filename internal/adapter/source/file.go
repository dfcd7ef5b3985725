package source

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/couchcryptid/india-cartogram/internal/domain"
)

// FileSource reads the dataset from a local JSON file on every Fetch.
type FileSource struct {
	path string
}

// NewFileSource creates a FileSource for path.
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

// Fetch opens and decodes the file.
func (s *FileSource) Fetch(_ context.Context) (domain.Dataset, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return domain.Dataset{}, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()
	return Decode(f)
}

// String names the source in logs.
func (s *FileSource) String() string { return s.path }

// Fetcher is a dataset source.
type Fetcher interface {
	Fetch(ctx context.Context) (domain.Dataset, error)
}

// New picks an HTTP source for http(s) locations and a file source otherwise.
func New(location string, timeout time.Duration, logger *slog.Logger) Fetcher {
	if strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://") {
		return NewHTTPSource(location, timeout, logger)
	}
	return NewFileSource(location)
}
