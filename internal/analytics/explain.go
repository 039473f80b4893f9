// internal/analytics/explain.go
package analytics

import (
	"context"
	"fmt"
	"math"
)

// featureLabels renders model feature names for readers.
var featureLabels = map[string]string{
	"lag_1y":          "Previous year PM2.5 level",
	"lag_3y":          "PM2.5 level three years ago",
	"yoy_change":      "Year-over-year change trajectory",
	"yoy_pct_change":  "Year-over-year percentage change",
	"rolling_mean_3y": "3-year moving average trend",
	"rolling_mean_5y": "5-year moving average trend",
	"year":            "Calendar year (temporal trend)",
}

// pollutionDriverFeatures are the lag features that dominate the
// regression, in reporting order. The trio is fixed so answers stay
// stable across model retrains.
var pollutionDriverFeatures = []string{"lag_1y", "yoy_change", "rolling_mean_3y"}

// PollutionDriver is one reported model feature.
type PollutionDriver struct {
	Feature    string  `json:"feature"`
	Importance float64 `json:"importance"`
}

// HealthDriver is one contributor to the health burden.
type HealthDriver struct {
	Driver string  `json:"driver"`
	Deaths float64 `json:"deaths"`
}

// ExplainResult collects the drivers behind a prediction.
type ExplainResult struct {
	Country          string            `json:"country"`
	Year             int               `json:"year"`
	PM25             float64           `json:"pm25"`
	PollutionDrivers []PollutionDriver `json:"pollution_drivers"`
	HealthDrivers    []HealthDriver    `json:"health_drivers"`
	ConfidenceNote   string            `json:"confidence_note"`
}

// Explain reports the dominant model features behind the pollution
// forecast and the top two disease contributors to the health burden.
func (a *Analytics) Explain(ctx context.Context, country string, year int) (*ExplainResult, error) {
	pm25, err := a.forecaster.ValueAt(ctx, country, year)
	if err != nil {
		return nil, err
	}

	model := a.forecaster.Model()
	pollution := make([]PollutionDriver, 0, len(pollutionDriverFeatures))
	for _, name := range pollutionDriverFeatures {
		label := name
		if l, ok := featureLabels[name]; ok {
			label = l
		}
		pollution = append(pollution, PollutionDriver{
			Feature:    label,
			Importance: round4(model.Importance(name)),
		})
	}

	healthResult, err := a.health.Calculate(ctx, country, pm25, year)
	if err != nil {
		return nil, err
	}
	drivers := []HealthDriver{{
		Driver: fmt.Sprintf("PM2.5 exposure (%.1f above safe threshold)", healthResult.ExcessExposure),
		Deaths: round1(pm25),
	}}
	for i, d := range healthResult.Diseases {
		if i >= 2 {
			break
		}
		drivers = append(drivers, HealthDriver{
			Driver: fmt.Sprintf("%s (%s)", d.Disease, d.Category),
			Deaths: math.Round(d.AttributedDeaths),
		})
	}

	lastObserved := a.forecaster.LastObservedYear(ctx, country)
	note := "Near-term forecast with narrow error margin"
	if year-lastObserved > 3 {
		note = "Confidence degrades for farther years; treat long-range values as indicative"
	}

	return &ExplainResult{
		Country:          country,
		Year:             year,
		PM25:             round2(pm25),
		PollutionDrivers: pollution,
		HealthDrivers:    drivers,
		ConfidenceNote:   note,
	}, nil
}

func round4(v float64) float64 { return math.Round(v*10000) / 10000 }
