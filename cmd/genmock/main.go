// Command genmock writes a synthetic daily case and death dataset covering
// every region in the reference table. The output matches the document format
// the service and CLI read, and is reproducible for a given seed.
//
// Usage:
//
//	go run ./cmd/genmock \
//	  -out data/india.json \
//	  -days 120 \
//	  -start 2020-03-14 \
//	  -seed 42
package main

import (
	"flag"
	"fmt"
	"log"
	"math"
	"math/rand/v2"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/couchcryptid/india-cartogram/internal/adapter/source"
	"github.com/couchcryptid/india-cartogram/internal/domain"
)

// curve describes one region's synthetic outbreak.
type curve struct {
	peakDay   float64
	width     float64
	peakRate  float64 // daily cases per 100k at the peak
	deathRate float64 // share of cases reported as deaths a week later
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	out := flag.String("out", "", "output path for the dataset JSON")
	days := flag.Int("days", 120, "number of days in the series")
	startStr := flag.String("start", "2020-03-14", "first date (YYYY-MM-DD)")
	seed := flag.Uint64("seed", 42, "random seed")
	missing := flag.Float64("missing", 0.01, "probability that a day is unreported")
	flag.Parse()

	if *out == "" {
		flag.Usage()
		return fmt.Errorf("missing required flag: -out")
	}
	if *days <= 0 {
		return fmt.Errorf("-days must be positive, got %d", *days)
	}
	start, err := time.Parse("2006-01-02", *startStr)
	if err != nil {
		return fmt.Errorf("parse -start: %w", err)
	}

	rng := rand.New(rand.NewPCG(*seed, *seed^0x9e3779b97f4a7c15))
	ds := generate(rng, domain.DefaultCatalog, start, *days, *missing)

	if err := writeDataset(*out, ds); err != nil {
		return fmt.Errorf("writing dataset: %w", err)
	}
	log.Printf("wrote %d regions x %d days: %s", len(ds.Regions), len(ds.Dates), *out)

	return printStats(ds)
}

func generate(rng *rand.Rand, catalog domain.Catalog, start time.Time, days int, missing float64) domain.Dataset {
	ds := domain.Dataset{Dates: make([]time.Time, days)}
	for i := range days {
		ds.Dates[i] = start.AddDate(0, 0, i)
	}

	for _, code := range catalog.Codes() {
		meta := catalog[code]
		c := curve{
			peakDay:   float64(days) * (0.4 + 0.8*rng.Float64()),
			width:     float64(days) * (0.1 + 0.15*rng.Float64()),
			peakRate:  0.5 + 9.5*rng.Float64(),
			deathRate: 0.01 + 0.02*rng.Float64(),
		}

		cases := make([]*float64, days)
		deaths := make([]*float64, days)
		for i := range days {
			expected := c.peakRate * float64(meta.Population) / 100000 *
				math.Exp(-math.Pow(float64(i)-c.peakDay, 2)/(2*c.width*c.width))
			if rng.Float64() >= missing {
				cases[i] = count(expected * (1 + 0.2*rng.NormFloat64()))
			}
			if rng.Float64() >= missing {
				lagged := 0.0
				if i >= 7 && cases[i-7] != nil {
					lagged = *cases[i-7]
				}
				deaths[i] = count(lagged * c.deathRate * (1 + 0.3*rng.NormFloat64()))
			}
		}

		ds.Regions = append(ds.Regions, domain.RawRegion{
			Key:  code,
			Name: meta.Name,
			Reported: map[domain.Category][]*float64{
				domain.CategoryCases:  cases,
				domain.CategoryDeaths: deaths,
			},
		})
	}
	return ds
}

func count(v float64) *float64 {
	v = math.Max(0, math.Round(v))
	return &v
}

func writeDataset(path string, ds domain.Dataset) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return err
	}
	if err := source.Encode(f, ds); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

type regionPeak struct {
	key   string
	max   float64
	trend domain.Trend
}

// printStats derives the generated dataset so test assertions can be updated.
func printStats(ds domain.Dataset) error {
	layout, err := domain.Build(ds, domain.DefaultCatalog, domain.NewOptions(domain.WithPolicy(domain.AverageLenient)))
	if err != nil {
		return fmt.Errorf("derive generated dataset: %w", err)
	}

	peaks := make([]regionPeak, len(layout.Regions))
	trends := map[domain.Trend]int{}
	for i, r := range layout.Regions {
		peaks[i] = regionPeak{key: r.Key, max: r.Max, trend: r.Trend}
		trends[r.Trend]++
	}
	sort.Slice(peaks, func(i, j int) bool { return peaks[i].max > peaks[j].max })

	fmt.Println("\n=== Stats for updating test assertions ===")
	fmt.Printf("Regions: %d, days: %d\n", len(layout.Regions), len(layout.Dates))
	fmt.Printf("Uniform max (avg7day): %.2f\n", layout.UniformMax)
	fmt.Printf("Trends: rising=%d, falling=%d, flat=%d\n",
		trends[domain.TrendRising], trends[domain.TrendFalling], trends[domain.TrendFlat])
	fmt.Println("Top regions by peak 7-day average:")
	for _, p := range peaks[:min(5, len(peaks))] {
		fmt.Printf("  %s %.2f (%s)\n", p.key, p.max, p.trend)
	}
	return nil
}
