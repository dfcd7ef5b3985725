package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/couchcryptid/india-cartogram/internal/domain"
)

// deriveCommand creates the "derive" command.
func (c *CLI) deriveCommand() *cobra.Command {
	var flags optionFlags
	var decimals int

	cmd := &cobra.Command{
		Use:   "derive REGION",
		Short: "Print a region's daily value, 7-day average and rate per 100k",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			chart, err := c.loadChart()
			if err != nil {
				return err
			}
			opts, err := flags.options(cmd, chart)
			if err != nil {
				return err
			}
			ds, err := c.loadDataset(cmd.Context())
			if err != nil {
				return err
			}

			code := strings.ToUpper(args[0])
			meta, err := domain.DefaultCatalog.Lookup(code)
			if err != nil {
				return err
			}
			raw, ok := findRegion(ds, code)
			if !ok {
				return fmt.Errorf("%w: %s is not in the dataset", domain.ErrUnknownRegion, code)
			}
			counts := raw.Reported[opts.Category]
			if len(counts) != len(ds.Dates) {
				return fmt.Errorf("%w: %s has %d values for %d dates", domain.ErrMisalignedSeries, code, len(counts), len(ds.Dates))
			}

			points, err := domain.DeriveSeries(counts, meta.Population, opts.Policy)
			if err != nil {
				return err
			}
			if c.jsonOut {
				return writeJSON(c.out, points)
			}

			tw := newTable(c.out)
			fmt.Fprintf(tw, "DATE\t%s\tAVG7DAY\tPER100K\n", strings.ToUpper(string(opts.Category)))
			for i, p := range points {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", ds.Dates[i].Format("2006-01-02"),
					formatValue(p.Val, 0), formatValue(p.Avg7Day, decimals), formatValue(p.Per100k, decimals))
			}
			if err := tw.Flush(); err != nil {
				return err
			}

			peak, err := domain.SeriesMax(points, opts.Field)
			if err != nil {
				fmt.Fprintf(c.out, "\n%s (%s): no %s values\n", meta.Name, code, opts.Field)
				return nil
			}
			fmt.Fprintf(c.out, "\n%s (%s): max %s %s\n", meta.Name, code, opts.Field, formatValue(&peak, decimals))
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().IntVar(&decimals, "decimals", 2, "decimal places for averages and rates")
	return cmd
}

func findRegion(ds domain.Dataset, code string) (domain.RawRegion, bool) {
	for _, r := range ds.Regions {
		if r.Key == code {
			return r, true
		}
	}
	return domain.RawRegion{}, false
}
