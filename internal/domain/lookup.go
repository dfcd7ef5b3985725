package domain

import (
	"fmt"
	"math"
	"time"
)

// Region returns the region with the given key.
func (l LayoutResult) Region(key string) (RegionSeries, error) {
	for _, r := range l.Regions {
		if r.Key == key {
			return r, nil
		}
	}
	return RegionSeries{}, fmt.Errorf("%w: %q", ErrUnknownRegion, key)
}

// YMax is the y ceiling for r under the layout's scale.
func (l LayoutResult) YMax(r RegionSeries) float64 {
	if l.Scale == ScaleUniform {
		return l.UniformMax
	}
	return r.Max
}

// PointLookup is what a hover tooltip needs for one day of one region.
type PointLookup struct {
	Region RegionSeries `json:"-"`
	Key    string       `json:"key"`
	Day    int          `json:"day"`
	Date   time.Time    `json:"date,omitzero"`
	Point  DerivedPoint `json:"point"`
	Value  *float64     `json:"value"`
	Row    int          `json:"row"`
	Col    int          `json:"col"`
}

// Visible reports whether the selected field has a value to show.
func (p PointLookup) Visible() bool { return p.Value != nil }

// PointAt returns the derived point of region key at day, clamped into the
// series range.
func (l LayoutResult) PointAt(key string, day int) (PointLookup, error) {
	r, err := l.Region(key)
	if err != nil {
		return PointLookup{}, err
	}
	if len(r.Series) == 0 {
		return PointLookup{}, fmt.Errorf("%w: region %s", ErrEmptySeries, key)
	}

	day = min(max(day, 0), len(r.Series)-1)
	p := r.Series[day]
	out := PointLookup{
		Region: r,
		Key:    r.Key,
		Day:    day,
		Point:  p,
		Value:  p.Get(l.Field),
		Row:    r.Row,
		Col:    r.Col,
	}
	if day < len(l.Dates) {
		out.Date = l.Dates[day]
	}
	return out, nil
}

// Round rounds value to the given number of decimal places.
func Round(value float64, decimals int) float64 {
	pow := math.Pow(10, float64(decimals))
	return math.Round(value*pow) / pow
}
