package domain

import "fmt"

// Scale selects the y ceiling a renderer uses for each cell.
type Scale string

const (
	// ScaleAdjusted scales each region to its own max.
	ScaleAdjusted Scale = "adjusted"
	// ScaleUniform scales every region to the largest max.
	ScaleUniform Scale = "uniform"
)

// Options is the immutable configuration for one Build call.
type Options struct {
	Category    Category
	Field       Field
	TrendField  Field
	Scale       Scale
	Policy      AveragePolicy
	Mode        Mode
	Grid        GridSize
	MobileCols  int
	Sequential  SequentialOptions
	Parallelism int
}

// Option configures Options.
type Option func(*Options)

// DefaultOptions matches the chart's shipped defaults: an 8x8 cartogram of
// seven-day case averages with per-region scaling.
func DefaultOptions() Options {
	return Options{
		Category:    CategoryCases,
		Field:       FieldAvg7Day,
		TrendField:  FieldVal,
		Scale:       ScaleAdjusted,
		Policy:      AverageStrict,
		Mode:        ModeCartogram,
		Grid:        GridSize{Cols: 8, Rows: 8},
		MobileCols:  4,
		Sequential:  SequentialOptions{Base: 1},
		Parallelism: 1,
	}
}

// NewOptions applies opts over DefaultOptions.
func NewOptions(opts ...Option) Options {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// With returns a copy of o with opts applied. The receiver is not modified.
func (o Options) With(opts ...Option) Options {
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func WithCategory(c Category) Option { return func(o *Options) { o.Category = c } }

func WithField(f Field) Option { return func(o *Options) { o.Field = f } }

func WithTrendField(f Field) Option { return func(o *Options) { o.TrendField = f } }

func WithScale(s Scale) Option { return func(o *Options) { o.Scale = s } }

func WithPolicy(p AveragePolicy) Option { return func(o *Options) { o.Policy = p } }

func WithMode(m Mode) Option { return func(o *Options) { o.Mode = m } }

// WithGrid sets the cartogram canvas size.
func WithGrid(cols, rows int) Option {
	return func(o *Options) { o.Grid = GridSize{Cols: cols, Rows: rows} }
}

// WithMobileCols sets the column count used in sequential mode.
func WithMobileCols(n int) Option { return func(o *Options) { o.MobileCols = n } }

func WithSequential(s SequentialOptions) Option { return func(o *Options) { o.Sequential = s } }

// WithParallelism bounds how many regions are derived concurrently.
func WithParallelism(n int) Option { return func(o *Options) { o.Parallelism = n } }

// WithWidth resolves the layout mode from a container width.
func WithWidth(width, threshold float64) Option {
	return func(o *Options) { o.Mode = ModeForWidth(width, threshold) }
}

// Validate reports the first unrecognized or out-of-range option.
func (o Options) Validate() error {
	switch o.Category {
	case CategoryCases, CategoryDeaths:
	default:
		return fmt.Errorf("%w: unknown category %q", ErrInvalidInput, o.Category)
	}
	for _, f := range []Field{o.Field, o.TrendField} {
		switch f {
		case FieldVal, FieldAvg7Day, FieldPer100k:
		default:
			return fmt.Errorf("%w: unknown field %q", ErrInvalidInput, f)
		}
	}
	switch o.Scale {
	case ScaleAdjusted, ScaleUniform:
	default:
		return fmt.Errorf("%w: unknown scale %q", ErrInvalidInput, o.Scale)
	}
	switch o.Policy {
	case AverageStrict, AverageLenient:
	default:
		return fmt.Errorf("%w: unknown average policy %q", ErrInvalidInput, o.Policy)
	}
	switch o.Mode {
	case ModeCartogram, ModeSequential:
	default:
		return fmt.Errorf("%w: unknown layout mode %q", ErrInvalidInput, o.Mode)
	}
	if o.Grid.Cols <= 0 || o.Grid.Rows <= 0 {
		return fmt.Errorf("%w: grid must be positive, got %dx%d", ErrInvalidInput, o.Grid.Cols, o.Grid.Rows)
	}
	if o.MobileCols <= 0 {
		return fmt.Errorf("%w: mobile cols must be positive, got %d", ErrInvalidInput, o.MobileCols)
	}
	if o.Sequential.Base != 0 && o.Sequential.Base != 1 {
		return fmt.Errorf("%w: grid base must be 0 or 1, got %d", ErrInvalidInput, o.Sequential.Base)
	}
	return nil
}

// CacheKey identifies the options for memoizing layouts.
func (o Options) CacheKey() string {
	return fmt.Sprintf("%s|%s|%s|%s|%s|%s|%dx%d|%d|%d|%t",
		o.Category, o.Field, o.TrendField, o.Scale, o.Policy, o.Mode,
		o.Grid.Cols, o.Grid.Rows, o.MobileCols, o.Sequential.Base, o.Sequential.LegacyRowBreak)
}
