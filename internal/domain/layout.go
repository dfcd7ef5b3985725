package domain

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
)

// Mode selects how regions are placed on the grid.
type Mode string

const (
	// ModeCartogram places each region at its fixed geographic cell.
	ModeCartogram Mode = "cartogram"
	// ModeSequential fills the grid left to right, top to bottom.
	ModeSequential Mode = "sequential"
)

// DefaultResponsiveWidth is the container width below which the chart falls
// back to a sequential grid.
const DefaultResponsiveWidth = 500

// ModeForWidth picks the layout mode for a container width.
func ModeForWidth(width, threshold float64) Mode {
	if width < threshold {
		return ModeSequential
	}
	return ModeCartogram
}

// SequentialOptions tunes sequential placement.
type SequentialOptions struct {
	// Base is the index of the first row and column, 0 or 1.
	Base int
	// LegacyRowBreak starts a new row only when i%cols == 0 && i > 2, which
	// overfills the first row when cols <= 2 (cols=2 puts 4 regions on it).
	// With cols >= 3 it places regions exactly like the plain row-major fill.
	LegacyRowBreak bool
}

// Placement is one region's input to the planner.
type Placement struct {
	Key string
	Max float64
}

// Plan is the planner output, parallel to its input.
type Plan struct {
	Cells      []Cell
	Grid       GridSize
	UniformMax float64
}

// PlanLayout assigns every region a cell and computes the uniform max.
// In cartogram mode grid is returned as given; in sequential mode its rows are
// derived from the region count.
func PlanLayout(regions []Placement, mode Mode, grid GridSize, catalog Catalog, seq SequentialOptions) (Plan, error) {
	if grid.Cols <= 0 {
		return Plan{}, fmt.Errorf("%w: cols must be positive, got %d", ErrInvalidInput, grid.Cols)
	}

	var (
		cells []Cell
		err   error
	)
	switch mode {
	case ModeCartogram:
		cells, err = cartogramCells(regions, catalog)
	case ModeSequential:
		cells, err = sequentialCells(len(regions), grid.Cols, seq)
		grid.Rows = (len(regions) + grid.Cols - 1) / grid.Cols
	default:
		err = fmt.Errorf("%w: unknown layout mode %q", ErrInvalidInput, mode)
	}
	if err != nil {
		return Plan{}, err
	}

	return Plan{Cells: cells, Grid: grid, UniformMax: UniformMax(regions)}, nil
}

func cartogramCells(regions []Placement, catalog Catalog) ([]Cell, error) {
	cells := make([]Cell, len(regions))
	for i, r := range regions {
		meta, err := catalog.Lookup(r.Key)
		if err != nil {
			return nil, err
		}
		if meta.Cell == nil {
			return nil, fmt.Errorf("%w: region %s has no cartogram cell", ErrInvalidInput, r.Key)
		}
		cells[i] = *meta.Cell
	}
	return cells, nil
}

func sequentialCells(n, cols int, seq SequentialOptions) ([]Cell, error) {
	if seq.Base != 0 && seq.Base != 1 {
		return nil, fmt.Errorf("%w: grid base must be 0 or 1, got %d", ErrInvalidInput, seq.Base)
	}
	cells := make([]Cell, n)
	if !seq.LegacyRowBreak {
		for i := range cells {
			cells[i] = Cell{Col: seq.Base + i%cols, Row: seq.Base + i/cols}
		}
		return cells, nil
	}

	row, col := seq.Base, seq.Base
	for i := range cells {
		if i%cols == 0 && i > 2 {
			row++
			col = seq.Base
		}
		cells[i] = Cell{Col: col, Row: row}
		col++
	}
	return cells, nil
}

// UniformMax is the largest per-region max, the shared y ceiling for the
// uniform scale. It is 0 for no regions.
func UniformMax(regions []Placement) float64 {
	if len(regions) == 0 {
		return 0
	}
	maxes := make([]float64, len(regions))
	for i, r := range regions {
		maxes[i] = r.Max
	}
	return floats.Max(maxes)
}
