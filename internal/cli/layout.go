package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/couchcryptid/india-cartogram/internal/domain"
)

// layoutCommand creates the "layout" command.
func (c *CLI) layoutCommand() *cobra.Command {
	var flags optionFlags

	cmd := &cobra.Command{
		Use:   "layout",
		Short: "Derive every region and place it on the grid",
		RunE: func(cmd *cobra.Command, _ []string) error {
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
			if c.jsonOut {
				return writeJSON(c.out, layout)
			}

			fmt.Fprintf(c.out, "mode=%s grid=%dx%d scale=%s field=%s category=%s uniform_max=%s\n\n",
				layout.Mode, layout.Grid.Cols, layout.Grid.Rows, layout.Scale, layout.Field, layout.Category,
				formatValue(&layout.UniformMax, 2))

			tw := newTable(c.out)
			fmt.Fprintln(tw, "CODE\tLABEL\tROW\tCOL\tMAX\tYMAX\tTREND")
			for _, r := range layout.Regions {
				yMax := layout.YMax(r)
				fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%s\t%s\t%s\n", r.Key, oneLine(r.Label), r.Row, r.Col,
					formatValue(&r.Max, 2), formatValue(&yMax, 2), formatTrend(r.Trend))
			}
			return tw.Flush()
		},
	}

	flags.register(cmd)
	return cmd
}
