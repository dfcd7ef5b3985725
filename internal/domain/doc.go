// Package domain derives chartable series for a small-multiples cartogram of
// Indian states and union territories.
//
// # Data Source
//
// The input dataset is a JSON document with a shared date axis and per-region
// daily counts:
//
//	{
//	  "series": ["2020-03-14", "2020-03-15", ...],
//	  "states": {
//	    "DL": {"name": "Delhi", "reported": {"cases": [7, null, 12, ...], "deaths": [...]}},
//	    ...
//	  }
//	}
//
// A null count is a missing report. Every region's arrays are aligned by index
// with "series". Region order in "states" is the canonical iteration order and
// drives sequential placement, so adapters must decode it without going
// through a Go map.
//
// # Derived Fields
//
//	val      raw count, passed through (may be null)
//	avg7day  mean of the trailing seven days ending at the current index
//	per100k  avg7day / population * 100,000
//
// The seven-day average has two policies. [AverageStrict] drops missing days
// and averages only when all seven reported; [AverageLenient] counts missing
// days as zero. Both yield null for the first six days. per100k is null exactly
// when avg7day is null and 0 exactly when avg7day is 0.
//
// Populations are 2020 projections from the embedded reference table
// (data/india_states_meta.json), which also holds each region's cartogram cell.
//
// # Layout
//
// In cartogram mode each region sits at its fixed (col, row) from the
// reference table, approximating its geographic position on an 8x8 grid. Below
// the responsive width threshold (500 units by default) the chart falls back
// to a sequential grid of 4 columns filled in dataset order.
//
// # Trend
//
// The trend arrow compares the second-to-last day with the days 6 and 13
// days before it (points len-2, len-8 and len-15). The last day is skipped
// because the most recent report is often incomplete.
package domain
