package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/couchcryptid/india-cartogram/internal/domain"
)

type trendRow struct {
	Key   string       `json:"key"`
	Name  string       `json:"name"`
	Trend domain.Trend `json:"trend,omitempty"`
}

// trendCommand creates the "trend" command.
func (c *CLI) trendCommand() *cobra.Command {
	var flags optionFlags

	cmd := &cobra.Command{
		Use:   "trend [REGION...]",
		Short: "Classify the recent direction of each region's series",
		Long:  `trend compares the latest complete day with one and two weeks earlier. With no arguments every region in the dataset is listed.`,
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
			layout, err := domain.Build(ds, domain.DefaultCatalog, opts)
			if err != nil {
				return err
			}

			regions := layout.Regions
			if len(args) > 0 {
				regions = regions[:0:0]
				for _, a := range args {
					r, err := layout.Region(strings.ToUpper(a))
					if err != nil {
						return err
					}
					if r.Trend == "" {
						// Build tolerates short history; an explicit request does not.
						_, err := domain.ClassifyTrend(r.Series, opts.TrendField)
						return fmt.Errorf("region %s: %w", r.Key, err)
					}
					regions = append(regions, r)
				}
			}

			rows := make([]trendRow, len(regions))
			for i, r := range regions {
				rows[i] = trendRow{Key: r.Key, Name: r.Name, Trend: r.Trend}
			}
			if c.jsonOut {
				return writeJSON(c.out, rows)
			}

			tw := newTable(c.out)
			fmt.Fprintln(tw, "CODE\tNAME\tTREND")
			for _, r := range rows {
				fmt.Fprintf(tw, "%s\t%s\t%s\n", r.Key, r.Name, formatTrend(r.Trend))
			}
			return tw.Flush()
		},
	}

	flags.register(cmd)
	return cmd
}
