package domain

import "time"

// Category selects which reported count a raw series carries.
type Category string

const (
	CategoryCases  Category = "cases"
	CategoryDeaths Category = "deaths"
)

// Field names one value of a DerivedPoint. It drives max, scale, and trend computations.
type Field string

const (
	FieldVal     Field = "val"
	FieldAvg7Day Field = "avg7day"
	FieldPer100k Field = "per100k"
)

// Cell is a 1-based (or 0-based, see SequentialOptions.Base) grid position.
type Cell struct {
	Col int `json:"col"`
	Row int `json:"row"`
}

// RegionMeta is static reference data for one state or union territory.
type RegionMeta struct {
	Code       string `json:"code"`
	Name       string `json:"name"`
	Short      string `json:"short"`
	Population int64  `json:"pop_2020"`
	Cell       *Cell  `json:"cell,omitempty"` // fixed cartogram position, nil when the region has none
}

// RawRegion is one region of the input dataset: its display name and the
// reported daily counts per category. A nil entry is a missing report.
type RawRegion struct {
	Key      string
	Name     string
	Reported map[Category][]*float64
}

// Dataset is the time-indexed raw input. Dates is the shared axis; every
// region's series is aligned to it by index. Regions keep the input order.
type Dataset struct {
	Dates   []time.Time
	Regions []RawRegion
}

// DerivedPoint is one day's derived record. Nil fields serialize as null.
type DerivedPoint struct {
	Val     *float64 `json:"val"`
	Avg7Day *float64 `json:"avg7day"`
	Per100k *float64 `json:"per100k"`
}

// Get returns the value of field f, or nil when it is missing.
func (p DerivedPoint) Get(f Field) *float64 {
	switch f {
	case FieldVal:
		return p.Val
	case FieldAvg7Day:
		return p.Avg7Day
	case FieldPer100k:
		return p.Per100k
	default:
		return nil
	}
}

// RegionSeries is a region's derived series with its local max and placement.
type RegionSeries struct {
	Key    string         `json:"key"`
	Name   string         `json:"name"`
	Label  string         `json:"label"`
	Row    int            `json:"row"`
	Col    int            `json:"col"`
	Max    float64        `json:"max"`
	Trend  Trend          `json:"trend,omitempty"`
	Series []DerivedPoint `json:"series"`
}

// GridSize is the overall canvas size in cells.
type GridSize struct {
	Cols int `json:"cols"`
	Rows int `json:"rows"`
}

// LayoutResult is the derived data model handed to a renderer.
type LayoutResult struct {
	Regions    []RegionSeries `json:"regions"`
	UniformMax float64        `json:"uniform_max"`
	Grid       GridSize       `json:"grid"`
	Mode       Mode           `json:"mode"`
	Scale      Scale          `json:"scale"`
	Field      Field          `json:"field"`
	Category   Category       `json:"category"`
	Dates      []time.Time    `json:"dates"`
}

// Snapshot stamps a LayoutResult with the time it was produced.
type Snapshot struct {
	Layout      LayoutResult `json:"layout"`
	GeneratedAt time.Time    `json:"generated_at"`
}

// NewSnapshot wraps a layout with the current time from the package clock.
func NewSnapshot(layout LayoutResult) Snapshot {
	return Snapshot{Layout: layout, GeneratedAt: clock.Now().UTC()}
}

func float(v float64) *float64 { return &v }
