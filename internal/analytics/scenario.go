// internal/analytics/scenario.go
package analytics

import (
	"context"
	"math"

	"aq-insight/internal/health"
)

// ScenarioResult is the outcome of a what-if PM2.5 change.
type ScenarioResult struct {
	Country          string   `json:"country"`
	Year             int      `json:"year"`
	PercentChange    float64  `json:"percent_change"`
	IsIncrease       bool     `json:"is_increase"`
	BaselinePM25     float64  `json:"baseline_pm25"`
	ScenarioPM25     float64  `json:"scenario_pm25"`
	BaselineDeaths   float64  `json:"baseline_deaths"`
	ScenarioDeaths   float64  `json:"scenario_deaths"`
	PreventedDeaths  float64  `json:"prevented_deaths"`
	AdditionalDeaths float64  `json:"additional_deaths"`
	BaselineRate     float64  `json:"baseline_rate"`
	ScenarioRate     float64  `json:"scenario_rate"`
	Confidence       string   `json:"confidence"`
	TopDiseases      []string `json:"top_diseases"`
}

// SimulateChange applies a signed percent change to the forecast level
// and recomputes the health burden. Negative percent means a
// reduction. The scenario level never drops below TMREL, and a zero
// percent change reproduces the baseline exactly.
func (a *Analytics) SimulateChange(ctx context.Context, country string, year int, percentChange float64) (*ScenarioResult, error) {
	baselinePM25, err := a.forecaster.ValueAt(ctx, country, year)
	if err != nil {
		return nil, err
	}

	scenarioPM25 := math.Max(baselinePM25*(1+percentChange/100.0), health.TMREL)

	baselineDeaths, baselineRate, err := a.health.Deaths(ctx, country, baselinePM25, year)
	if err != nil {
		return nil, err
	}
	scenarioDeaths, scenarioRate, err := a.health.Deaths(ctx, country, scenarioPM25, year)
	if err != nil {
		return nil, err
	}

	delta := scenarioDeaths - baselineDeaths
	isIncrease := percentChange > 0

	prevented := 0.0
	additional := 0.0
	if isIncrease {
		additional = math.Max(0, delta)
	} else {
		prevented = math.Max(0, -delta)
	}

	topDiseases, err := a.health.TopDiseases(ctx, country, scenarioPM25, year, 3)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(topDiseases))
	for _, d := range topDiseases {
		names = append(names, d.Disease)
	}

	return &ScenarioResult{
		Country:          country,
		Year:             year,
		PercentChange:    round1(percentChange),
		IsIncrease:       isIncrease,
		BaselinePM25:     round2(baselinePM25),
		ScenarioPM25:     round2(scenarioPM25),
		BaselineDeaths:   math.Round(baselineDeaths),
		ScenarioDeaths:   math.Round(scenarioDeaths),
		PreventedDeaths:  math.Round(prevented),
		AdditionalDeaths: math.Round(additional),
		BaselineRate:     round1(baselineRate),
		ScenarioRate:     round1(scenarioRate),
		Confidence:       healthConfidence(year, a.forecaster.LastObservedYear(ctx, country)),
		TopDiseases:      names,
	}, nil
}

// healthConfidence grades health predictions, which chain forecast
// uncertainty through the IER curve and so never rate higher than
// Medium.
func healthConfidence(year, lastObserved int) string {
	yearsAhead := year - lastObserved
	if yearsAhead < 1 {
		yearsAhead = 1
	}
	switch {
	case yearsAhead <= 2:
		return "Medium"
	case yearsAhead <= 5:
		return "Low-Medium"
	default:
		return "Low"
	}
}
