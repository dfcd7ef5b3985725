package cli

import (
	"encoding/json"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/couchcryptid/india-cartogram/internal/domain"
)

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
}

// formatValue renders a nullable number the way the tooltip would, "-" when absent.
func formatValue(v *float64, decimals int) string {
	if v == nil {
		return "-"
	}
	return strconv.FormatFloat(domain.Round(*v, decimals), 'f', -1, 64)
}

func formatTrend(t domain.Trend) string {
	switch t {
	case domain.TrendRising:
		return "↑ rising"
	case domain.TrendFalling:
		return "↓ falling"
	case domain.TrendFlat:
		return "→ flat"
	default:
		return "n/a"
	}
}

// oneLine flattens a two-line display label for tables.
func oneLine(label string) string {
	return strings.ReplaceAll(label, "\n", " ")
}
