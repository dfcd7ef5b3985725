package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/couchcryptid/india-cartogram/internal/domain"
)

// metaCommand creates the "meta" command.
func (c *CLI) metaCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "meta",
		Short: "List the region reference table",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			codes := domain.DefaultCatalog.Codes()
			if c.jsonOut {
				entries := make([]domain.RegionMeta, len(codes))
				for i, code := range codes {
					entries[i] = domain.DefaultCatalog[code]
				}
				return writeJSON(c.out, entries)
			}

			tw := newTable(c.out)
			fmt.Fprintln(tw, "CODE\tNAME\tSHORT\tPOPULATION\tCELL")
			for _, code := range codes {
				m := domain.DefaultCatalog[code]
				cell := "-"
				if m.Cell != nil {
					cell = fmt.Sprintf("%d,%d", m.Cell.Col, m.Cell.Row)
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\n", m.Code, m.Name, m.Short, m.Population, cell)
			}
			return tw.Flush()
		},
	}
}
