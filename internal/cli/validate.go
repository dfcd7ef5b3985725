package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/couchcryptid/india-cartogram/internal/config"
	"github.com/couchcryptid/india-cartogram/internal/domain"
)

// errValidation is returned when at least one phase fails.
var errValidation = errors.New("validation failed")

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
	notes  []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) notef(format string, args ...any) {
	p.notes = append(p.notes, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

// validateCommand creates the "validate" command.
func (c *CLI) validateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check a dataset against the reference table and derivation rules",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			chart, err := c.loadChart()
			if err != nil {
				return err
			}
			ds, err := c.loadDataset(cmd.Context())
			if err != nil {
				return err
			}
			return c.report(runPhases(ds, domain.DefaultCatalog, chart), len(ds.Regions), len(ds.Dates))
		},
	}
}

func runPhases(ds domain.Dataset, catalog domain.Catalog, chart config.Chart) []*phase {
	return []*phase{
		validateDates(ds),
		validateAlignment(ds),
		validateCatalogCoverage(ds, catalog),
		validateCells(ds, catalog, chart.Options.Grid),
		validateDerivation(ds, catalog, chart.Options),
	}
}

func (c *CLI) report(phases []*phase, regions, days int) error {
	fmt.Fprintln(c.out, "=== Dataset Validation ===")
	fmt.Fprintln(c.out)

	failed := 0
	for _, p := range phases {
		status := "PASS"
		if !p.passed() {
			status = fmt.Sprintf("FAIL (%d errors)", len(p.errors))
			failed++
		}
		fmt.Fprintf(c.out, "  %-32s %s\n", p.name, status)
	}
	fmt.Fprintf(c.out, "\nRegions: %d, days: %d\n", regions, days)

	for _, p := range phases {
		if len(p.errors) == 0 && len(p.notes) == 0 {
			continue
		}
		fmt.Fprintf(c.out, "\n--- %s ---\n", p.name)
		for _, e := range p.errors {
			fmt.Fprintf(c.out, "  error: %s\n", e)
		}
		for _, n := range p.notes {
			fmt.Fprintf(c.out, "  note: %s\n", n)
		}
	}

	if failed > 0 {
		return fmt.Errorf("%w: %d of %d phases", errValidation, failed, len(phases))
	}
	return nil
}

func validateDates(ds domain.Dataset) *phase {
	p := &phase{name: "Date axis"}
	if len(ds.Dates) == 0 {
		p.errorf("series is empty")
		return p
	}
	for i := 1; i < len(ds.Dates); i++ {
		prev, cur := ds.Dates[i-1], ds.Dates[i]
		if !cur.After(prev) {
			p.errorf("series[%d] %s is not after %s", i, cur.Format("2006-01-02"), prev.Format("2006-01-02"))
			continue
		}
		if !cur.Equal(prev.AddDate(0, 0, 1)) {
			p.notef("gap between %s and %s", prev.Format("2006-01-02"), cur.Format("2006-01-02"))
		}
	}
	if len(ds.Dates) < 15 {
		p.notef("%d days is too short for trend arrows (need 15)", len(ds.Dates))
	}
	return p
}

func validateAlignment(ds domain.Dataset) *phase {
	p := &phase{name: "Series alignment"}
	for _, cat := range []domain.Category{domain.CategoryCases, domain.CategoryDeaths} {
		if err := domain.ValidateDataset(ds, cat); err != nil {
			p.errorf("%s: %v", cat, err)
		}
	}
	for _, r := range ds.Regions {
		for cat, counts := range r.Reported {
			nulls := 0
			for _, v := range counts {
				if v == nil {
					nulls++
				}
			}
			if nulls > 0 {
				p.notef("%s %s: %d missing days", r.Key, cat, nulls)
			}
		}
	}
	return p
}

func validateCatalogCoverage(ds domain.Dataset, catalog domain.Catalog) *phase {
	p := &phase{name: "Reference table coverage"}
	present := make(map[string]bool, len(ds.Regions))
	for _, r := range ds.Regions {
		present[r.Key] = true
		if _, err := catalog.Lookup(r.Key); err != nil {
			p.errorf("%v", err)
		}
	}
	for _, code := range catalog.Codes() {
		if !present[code] {
			p.notef("%s (%s) has no data", code, catalog[code].Name)
		}
	}
	return p
}

func validateCells(ds domain.Dataset, catalog domain.Catalog, grid domain.GridSize) *phase {
	p := &phase{name: "Cartogram cells"}
	taken := make(map[domain.Cell]string, len(ds.Regions))
	for _, r := range ds.Regions {
		meta, err := catalog.Lookup(r.Key)
		if err != nil {
			continue
		}
		if meta.Cell == nil {
			p.errorf("%s has no cartogram cell", r.Key)
			continue
		}
		cell := *meta.Cell
		if cell.Col < 1 || cell.Col > grid.Cols || cell.Row < 1 || cell.Row > grid.Rows {
			p.errorf("%s cell %d,%d is outside the %dx%d grid", r.Key, cell.Col, cell.Row, grid.Cols, grid.Rows)
		}
		if other, dup := taken[cell]; dup {
			p.errorf("%s and %s share cell %d,%d", other, r.Key, cell.Col, cell.Row)
		}
		taken[cell] = r.Key
	}
	return p
}

func validateDerivation(ds domain.Dataset, catalog domain.Catalog, opts domain.Options) *phase {
	p := &phase{name: "Derivation"}
	for _, cat := range []domain.Category{domain.CategoryCases, domain.CategoryDeaths} {
		for _, field := range []domain.Field{domain.FieldAvg7Day, domain.FieldPer100k} {
			o := opts.With(domain.WithCategory(cat), domain.WithField(field))
			if _, err := domain.Build(ds, catalog, o); err != nil {
				p.errorf("%s/%s: %v", cat, field, err)
			}
		}
	}
	return p
}
