package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/couchcryptid/india-cartogram/internal/domain"
)

// Chart holds display settings for derived layouts.
type Chart struct {
	Options         domain.Options
	ResponsiveWidth float64
}

// DefaultChart returns the shipped display defaults.
func DefaultChart() Chart {
	return Chart{
		Options:         domain.DefaultOptions(),
		ResponsiveWidth: domain.DefaultResponsiveWidth,
	}
}

// FileConfig represents the TOML chart configuration file.
type FileConfig struct {
	Chart ChartFile `toml:"chart"`
}

// ChartFile maps the [chart] section. Unset keys keep their defaults.
type ChartFile struct {
	Cols            *int     `toml:"cols"`
	Rows            *int     `toml:"rows"`
	MobileCols      *int     `toml:"mobile-cols"`
	Category        *string  `toml:"category"`
	LineVar         *string  `toml:"line-var"`
	TrendVar        *string  `toml:"trend-var"`
	Scale           *string  `toml:"scale"`
	AveragePolicy   *string  `toml:"average-policy"`
	ResponsiveWidth *float64 `toml:"responsive-width"`
	RowBase         *int     `toml:"row-base"`
	LegacyRowBreak  *bool    `toml:"legacy-row-break"`
	Parallelism     *int     `toml:"parallelism"`
}

// LoadChart reads a TOML chart config from path. A missing file yields the defaults.
func LoadChart(path string) (Chart, error) {
	if path == "" {
		return Chart{}, fmt.Errorf("chart config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return DefaultChart(), nil
		}
		return Chart{}, fmt.Errorf("failed to stat chart config: %w", err)
	}
	var fc FileConfig
	if _, err := toml.DecodeFile(path, &fc); err != nil {
		return Chart{}, fmt.Errorf("failed to decode chart config: %w", err)
	}
	return fc.Chart.Apply(DefaultChart())
}

// Apply overlays the set keys onto base and validates the result.
func (f ChartFile) Apply(base Chart) (Chart, error) {
	var opts []domain.Option
	grid := base.Options.Grid
	if f.Cols != nil {
		grid.Cols = *f.Cols
	}
	if f.Rows != nil {
		grid.Rows = *f.Rows
	}
	opts = append(opts, domain.WithGrid(grid.Cols, grid.Rows))

	if f.MobileCols != nil {
		opts = append(opts, domain.WithMobileCols(*f.MobileCols))
	}
	if f.Category != nil {
		opts = append(opts, domain.WithCategory(domain.Category(*f.Category)))
	}
	if f.LineVar != nil {
		opts = append(opts, domain.WithField(domain.Field(*f.LineVar)))
	}
	if f.TrendVar != nil {
		opts = append(opts, domain.WithTrendField(domain.Field(*f.TrendVar)))
	}
	if f.Scale != nil {
		opts = append(opts, domain.WithScale(domain.Scale(*f.Scale)))
	}
	if f.AveragePolicy != nil {
		opts = append(opts, domain.WithPolicy(domain.AveragePolicy(*f.AveragePolicy)))
	}
	if f.Parallelism != nil {
		opts = append(opts, domain.WithParallelism(*f.Parallelism))
	}

	seq := base.Options.Sequential
	if f.RowBase != nil {
		seq.Base = *f.RowBase
	}
	if f.LegacyRowBreak != nil {
		seq.LegacyRowBreak = *f.LegacyRowBreak
	}
	opts = append(opts, domain.WithSequential(seq))

	out := Chart{
		Options:         base.Options.With(opts...),
		ResponsiveWidth: base.ResponsiveWidth,
	}
	if f.ResponsiveWidth != nil {
		out.ResponsiveWidth = *f.ResponsiveWidth
	}

	if err := out.Options.Validate(); err != nil {
		return Chart{}, fmt.Errorf("chart config: %w", err)
	}
	if out.ResponsiveWidth < 0 {
		return Chart{}, fmt.Errorf("chart config: responsive-width must not be negative")
	}
	return out, nil
}
