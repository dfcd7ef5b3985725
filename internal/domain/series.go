package domain

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// AveragePolicy decides how missing reports inside the rolling window are treated.
type AveragePolicy string

const (
	// AverageStrict drops nulls and averages only when all seven days reported.
	AverageStrict AveragePolicy = "strict"
	// AverageLenient counts nulls as zero and averages any full seven-day window.
	AverageLenient AveragePolicy = "lenient"
)

const (
	rollingWindow = 7
	perCapitaBase = 100000
)

// DeriveSeries turns a raw daily series into derived points: the raw value,
// the trailing seven-day average under policy, and that average per 100k people.
func DeriveSeries(raw []*float64, population int64, policy AveragePolicy) ([]DerivedPoint, error) {
	if population <= 0 {
		return nil, fmt.Errorf("%w: population must be positive, got %d", ErrInvalidInput, population)
	}
	if policy != AverageStrict && policy != AverageLenient {
		return nil, fmt.Errorf("%w: unknown average policy %q", ErrInvalidInput, policy)
	}

	points := make([]DerivedPoint, len(raw))
	for i, v := range raw {
		var p DerivedPoint
		if v != nil {
			p.Val = float(*v)
		}
		p.Avg7Day = rollingAverage(raw, i, policy)
		p.Per100k = perCapita(p.Avg7Day, population)
		points[i] = p
	}
	return points, nil
}

// rollingAverage averages raw[i-6..i]. Windows shorter than seven days yield nil.
func rollingAverage(raw []*float64, i int, policy AveragePolicy) *float64 {
	if i < rollingWindow-1 {
		return nil
	}
	values := make([]float64, 0, rollingWindow)
	for _, v := range raw[i-rollingWindow+1 : i+1] {
		if v == nil {
			if policy == AverageStrict {
				return nil
			}
			values = append(values, 0)
			continue
		}
		values = append(values, *v)
	}
	return float(stat.Mean(values, nil))
}

func perCapita(avg *float64, population int64) *float64 {
	if avg == nil {
		return nil
	}
	if *avg == 0 {
		return float(0)
	}
	return float(*avg / float64(population) * perCapitaBase)
}

// SeriesMax returns the largest non-null value of field across points.
func SeriesMax(points []DerivedPoint, field Field) (float64, error) {
	if len(points) == 0 {
		return 0, fmt.Errorf("%w: no points", ErrEmptySeries)
	}
	values := make([]float64, 0, len(points))
	for _, p := range points {
		if v := p.Get(field); v != nil {
			values = append(values, *v)
		}
	}
	if len(values) == 0 {
		return 0, fmt.Errorf("%w: no %s values", ErrEmptySeries, field)
	}
	return floats.Max(values), nil
}
