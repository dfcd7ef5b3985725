package pipeline

import (
	"log/slog"
	"time"

	"github.com/couchcryptid/india-cartogram/internal/domain"
	"github.com/couchcryptid/india-cartogram/internal/observability"
)

// SeriesBuilder implements LayoutBuilder by deriving every region against a
// fixed catalog.
type SeriesBuilder struct {
	catalog domain.Catalog
	metrics *observability.Metrics
	logger  *slog.Logger
}

// NewBuilder creates a SeriesBuilder. A nil catalog uses the embedded Indian
// state metadata.
func NewBuilder(catalog domain.Catalog, metrics *observability.Metrics, logger *slog.Logger) *SeriesBuilder {
	if catalog == nil {
		catalog = domain.DefaultCatalog
	}
	return &SeriesBuilder{
		catalog: catalog,
		metrics: metrics,
		logger:  logger,
	}
}

func (b *SeriesBuilder) Build(ds domain.Dataset, version uint64, opts domain.Options) (domain.LayoutResult, error) {
	start := time.Now()
	layout, err := domain.Build(ds, b.catalog, opts)
	if err != nil {
		return domain.LayoutResult{}, err
	}
	b.metrics.BuildDuration.Observe(time.Since(start).Seconds())
	b.logger.Debug("layout built",
		"version", version,
		"mode", layout.Mode,
		"category", layout.Category,
		"field", layout.Field,
		"regions", len(layout.Regions),
	)
	return layout, nil
}
