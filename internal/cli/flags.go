package cli

import (
	"github.com/spf13/cobra"

	"github.com/couchcryptid/india-cartogram/internal/config"
	"github.com/couchcryptid/india-cartogram/internal/domain"
)

// optionFlags are the display options shared by derive, trend, and layout.
// Unset flags keep the chart config's values.
type optionFlags struct {
	category string
	field    string
	trend    string
	scale    string
	policy   string
	mode     string
	width    float64
	cols     int
	rows     int
}

func (f *optionFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVar(&f.category, "cat", "", "category: cases or deaths")
	fs.StringVar(&f.field, "field", "", "plotted field: val, avg7day or per100k")
	fs.StringVar(&f.trend, "trend", "", "field the trend arrow samples")
	fs.StringVar(&f.scale, "scale", "", "y scale: adjusted or uniform")
	fs.StringVar(&f.policy, "policy", "", "missing-day policy: strict or lenient")
	fs.StringVar(&f.mode, "mode", "", "layout: cartogram or sequential")
	fs.Float64Var(&f.width, "width", 0, "container width; below the responsive width the layout is sequential")
	fs.IntVar(&f.cols, "cols", 0, "grid columns")
	fs.IntVar(&f.rows, "rows", 0, "grid rows")
}

func (f *optionFlags) options(cmd *cobra.Command, chart config.Chart) (domain.Options, error) {
	fs := cmd.Flags()
	var opts []domain.Option
	if fs.Changed("cat") {
		opts = append(opts, domain.WithCategory(domain.Category(f.category)))
	}
	if fs.Changed("field") {
		opts = append(opts, domain.WithField(domain.Field(f.field)))
	}
	if fs.Changed("trend") {
		opts = append(opts, domain.WithTrendField(domain.Field(f.trend)))
	}
	if fs.Changed("scale") {
		opts = append(opts, domain.WithScale(domain.Scale(f.scale)))
	}
	if fs.Changed("policy") {
		opts = append(opts, domain.WithPolicy(domain.AveragePolicy(f.policy)))
	}
	if fs.Changed("mode") {
		opts = append(opts, domain.WithMode(domain.Mode(f.mode)))
	}
	if fs.Changed("width") {
		opts = append(opts, domain.WithWidth(f.width, chart.ResponsiveWidth))
	}
	if fs.Changed("cols") || fs.Changed("rows") {
		cols, rows := chart.Options.Grid.Cols, chart.Options.Grid.Rows
		if fs.Changed("cols") {
			cols = f.cols
		}
		if fs.Changed("rows") {
			rows = f.rows
		}
		opts = append(opts, domain.WithGrid(cols, rows))
	}

	out := chart.Options.With(opts...)
	if err := out.Validate(); err != nil {
		return domain.Options{}, err
	}
	return out, nil
}
