package domain

import (
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// Build derives every region of ds and lays them out according to opts.
// It is all-or-nothing: the first invalid region fails the whole call.
// Regions keep the dataset's order regardless of parallelism.
func Build(ds Dataset, catalog Catalog, opts Options) (LayoutResult, error) {
	if err := opts.Validate(); err != nil {
		return LayoutResult{}, err
	}
	if err := ValidateDataset(ds, opts.Category); err != nil {
		return LayoutResult{}, err
	}

	regions := make([]RegionSeries, len(ds.Regions))
	var g errgroup.Group
	g.SetLimit(max(1, opts.Parallelism))
	for i := range ds.Regions {
		g.Go(func() error {
			rs, err := deriveRegion(ds.Regions[i], catalog, opts)
			if err != nil {
				return fmt.Errorf("region %s: %w", ds.Regions[i].Key, err)
			}
			regions[i] = rs
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return LayoutResult{}, err
	}

	placements := make([]Placement, len(regions))
	for i, r := range regions {
		placements[i] = Placement{Key: r.Key, Max: r.Max}
	}

	grid := opts.Grid
	if opts.Mode == ModeSequential {
		grid.Cols = opts.MobileCols
	}
	plan, err := PlanLayout(placements, opts.Mode, grid, catalog, opts.Sequential)
	if err != nil {
		return LayoutResult{}, err
	}
	for i := range regions {
		regions[i].Col = plan.Cells[i].Col
		regions[i].Row = plan.Cells[i].Row
	}

	return LayoutResult{
		Regions:    regions,
		UniformMax: plan.UniformMax,
		Grid:       plan.Grid,
		Mode:       opts.Mode,
		Scale:      opts.Scale,
		Field:      opts.Field,
		Category:   opts.Category,
		Dates:      ds.Dates,
	}, nil
}

func deriveRegion(raw RawRegion, catalog Catalog, opts Options) (RegionSeries, error) {
	meta, err := catalog.Lookup(raw.Key)
	if err != nil {
		return RegionSeries{}, err
	}

	counts := raw.Reported[opts.Category]
	if len(counts) == 0 {
		return RegionSeries{}, fmt.Errorf("%w: no %s reported", ErrEmptySeries, opts.Category)
	}

	points, err := DeriveSeries(counts, meta.Population, opts.Policy)
	if err != nil {
		return RegionSeries{}, err
	}
	peak, err := SeriesMax(points, opts.Field)
	if err != nil {
		return RegionSeries{}, err
	}

	trend, err := ClassifyTrend(points, opts.TrendField)
	if err != nil && !errors.Is(err, ErrInsufficientHistory) {
		return RegionSeries{}, err
	}

	name := raw.Name
	if name == "" {
		name = meta.Name
	}
	return RegionSeries{
		Key:    raw.Key,
		Name:   name,
		Label:  meta.DisplayLabel(),
		Max:    peak,
		Trend:  trend,
		Series: points,
	}, nil
}

// ValidateDataset checks that region keys are unique and that every region's
// category series is as long as the date axis.
func ValidateDataset(ds Dataset, category Category) error {
	seen := make(map[string]struct{}, len(ds.Regions))
	for _, r := range ds.Regions {
		if _, dup := seen[r.Key]; dup {
			return fmt.Errorf("%w: duplicate region %q", ErrInvalidInput, r.Key)
		}
		seen[r.Key] = struct{}{}

		if n := len(r.Reported[category]); n != len(ds.Dates) {
			return fmt.Errorf("%w: region %s has %d %s values for %d dates",
				ErrMisalignedSeries, r.Key, n, category, len(ds.Dates))
		}
	}
	return nil
}
