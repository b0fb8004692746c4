package workout

import "github.com/claude/gymlog/internal/models"

// ChartPoint is one point of the progression series: a short day/month label
// and the weight lifted. Reps and ids are not part of the chart.
type ChartPoint struct {
	Date   string  `json:"date"`
	Weight float64 `json:"weight"`
}

// MinChartPoints is the minimum series length for a drawable curve. Below
// it, clients render an "insufficient data" placeholder instead of a line.
const MinChartPoints = 2

// chartDateFormat renders "2 Jan" style labels. The axis is categorical, so
// two sets on the same day stay separate points.
const chartDateFormat = "2 Jan"

// BuildSeries converts a recency window (newest first, as the store returns
// it) into a chronological progression series (oldest first). Pure: no
// side effects, no store access.
func BuildSeries(window []models.Set) []ChartPoint {
	if len(window) == 0 {
		return nil
	}
	series := make([]ChartPoint, 0, len(window))
	for i := len(window) - 1; i >= 0; i-- {
		series = append(series, ChartPoint{
			Date:   window[i].CreatedAt.Format(chartDateFormat),
			Weight: window[i].WeightKg,
		})
	}
	return series
}

// HasEnoughData reports whether the series is long enough to draw.
func HasEnoughData(series []ChartPoint) bool {
	return len(series) >= MinChartPoints
}
