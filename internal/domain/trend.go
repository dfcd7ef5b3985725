package domain

import "fmt"

// Trend is the short-term direction of a region's series.
type Trend string

const (
	TrendRising  Trend = "rising"
	TrendFalling Trend = "falling"
	TrendFlat    Trend = "flat"
)

// Offsets from the end of the series. The final day is skipped as provisional.
const (
	trendLatest     = 2
	trendWeekAgo    = 8
	trendTwoWeeks   = 15
	minTrendHistory = trendTwoWeeks
)

// ClassifyTrend compares the latest complete day with one and two weeks
// earlier. It is Rising or Falling only when both steps move the same way
// strictly; a missing sample makes it Flat.
func ClassifyTrend(points []DerivedPoint, field Field) (Trend, error) {
	if len(points) < minTrendHistory {
		return "", fmt.Errorf("%w: need %d points, have %d", ErrInsufficientHistory, minTrendHistory, len(points))
	}

	n := len(points)
	latest := points[n-trendLatest].Get(field)
	weekAgo := points[n-trendWeekAgo].Get(field)
	twoWeeks := points[n-trendTwoWeeks].Get(field)
	if latest == nil || weekAgo == nil || twoWeeks == nil {
		return TrendFlat, nil
	}

	switch {
	case *latest > *weekAgo && *weekAgo > *twoWeeks:
		return TrendRising, nil
	case *latest < *weekAgo && *weekAgo < *twoWeeks:
		return TrendFalling, nil
	default:
		return TrendFlat, nil
	}
}
