// internal/analytics/trend.go
package analytics

import (
	"context"
	"fmt"
	"math"
	"sort"
)

// TrendResult describes the projected direction of PM2.5 over a
// multi-year window.
type TrendResult struct {
	Country     string          `json:"country"`
	StartYear   int             `json:"start_year"`
	EndYear     int             `json:"end_year"`
	Direction   string          `json:"direction"`
	PctChange   float64         `json:"pct_change"`
	Stability   string          `json:"stability"`
	CV          float64         `json:"cv"`
	Predictions map[int]float64 `json:"predictions"`
	WindowYears int             `json:"window_years"`
}

// Trend projects PM2.5 over [startYear, endYear] and classifies the
// direction. Total changes within ±2% count as stable.
func (a *Analytics) Trend(ctx context.Context, country string, startYear, endYear int) (*TrendResult, error) {
	predictions, err := a.forecaster.PredictRange(ctx, country, startYear, endYear)
	if err != nil {
		return nil, err
	}

	years := make([]int, 0, len(predictions))
	for y := range predictions {
		years = append(years, y)
	}
	sort.Ints(years)
	if len(years) < 2 {
		return nil, fmt.Errorf("need at least 2 years for trend analysis, got %d", len(years))
	}

	values := make([]float64, len(years))
	for i, y := range years {
		values[i] = predictions[y]
	}

	startVal := values[0]
	endVal := values[len(values)-1]
	pctChange := 0.0
	if startVal > 0 {
		pctChange = round1((endVal - startVal) / startVal * 100.0)
	}

	direction := "Stable"
	switch {
	case pctChange > 2.0:
		direction = "Increasing"
	case pctChange < -2.0:
		direction = "Decreasing"
	}

	cv := coefficientOfVariation(values)
	stability := "Stable trend pattern (low volatility)"
	if cv >= 5 {
		stability = "Volatile trend pattern (high volatility)"
	}

	return &TrendResult{
		Country:     country,
		StartYear:   years[0],
		EndYear:     years[len(years)-1],
		Direction:   direction,
		PctChange:   pctChange,
		Stability:   stability,
		CV:          round2(cv),
		Predictions: predictions,
		WindowYears: len(years),
	}, nil
}

// coefficientOfVariation is the population standard deviation relative
// to the mean, as a percentage.
func coefficientOfVariation(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	mean := 0.0
	for _, v := range values {
		mean += v
	}
	mean /= float64(len(values))
	if mean <= 0 {
		return 0
	}

	sumSq := 0.0
	for _, v := range values {
		d := v - mean
		sumSq += d * d
	}
	std := math.Sqrt(sumSq / float64(len(values)))
	return std / mean * 100
}
