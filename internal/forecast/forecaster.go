// internal/forecast/forecaster.go
package forecast

import (
	"context"
	"fmt"
	"math"

	"aq-insight/internal/common/logger"
	"aq-insight/internal/common/metrics"
	"aq-insight/internal/models"
	"aq-insight/internal/refdata"
)

// fallbackPM25 seeds persistence when a country has an empty series.
const fallbackPM25 = 25.0

// Forecaster predicts annual PM2.5 by recursive one-step regression:
// each predicted year is appended to a request-local copy of the
// series before the next year's features are computed. The stored
// history is never mutated.
type Forecaster struct {
	provider   refdata.Provider
	model      *Model
	floor      float64
	maxHorizon int
	log        logger.Logger
}

func NewForecaster(provider refdata.Provider, model *Model, floor float64, maxHorizon int, log logger.Logger) *Forecaster {
	return &Forecaster{
		provider:   provider,
		model:      model,
		floor:      floor,
		maxHorizon: maxHorizon,
		log:        log,
	}
}

// Predict forecasts PM2.5 for a country through targetYear. Target
// years at or before the last observation return the observed value.
func (f *Forecaster) Predict(ctx context.Context, country string, targetYear int) (*models.AnnualForecast, error) {
	obs, err := f.provider.History(ctx, country)
	if err != nil {
		return nil, err
	}

	series := make(map[int]float64, len(obs))
	lastObserved := 0
	for _, o := range obs {
		series[o.Year] = o.PM25
		if o.Year > lastObserved {
			lastObserved = o.Year
		}
	}

	if targetYear <= lastObserved {
		value, ok := series[targetYear]
		if !ok {
			return nil, fmt.Errorf("no observation for %s in %d", country, targetYear)
		}
		return &models.AnnualForecast{
			Country:       country,
			TargetYear:    targetYear,
			PredictedPM25: round2(value),
			Path:          map[int]float64{targetYear: round2(value)},
			Unit:          "ug/m3",
			Confidence:    models.Confidence{Level: "high", Score: 0.95, Note: "Observed value, not a forecast"},
		}, nil
	}

	if targetYear-lastObserved > f.maxHorizon {
		return nil, fmt.Errorf("target year %d exceeds the %d-year forecast horizon", targetYear, f.maxHorizon)
	}

	path := make(map[int]float64, targetYear-lastObserved)
	lastValue := fallbackPM25
	if len(obs) > 0 {
		lastValue = obs[len(obs)-1].PM25
	}

	steps := 0
	for year := lastObserved + 1; year <= targetYear; year++ {
		var pred float64
		if features, ok := computeFeatures(series, year); ok {
			pred = f.model.Predict(features)
			if pred < f.floor {
				pred = f.floor
			}
		} else {
			pred = lastValue
		}
		pred = round2(pred)
		path[year] = pred
		series[year] = pred
		lastValue = pred
		steps++
	}
	metrics.ForecastSteps.WithLabelValues(country).Observe(float64(steps))

	return &models.AnnualForecast{
		Country:       country,
		TargetYear:    targetYear,
		PredictedPM25: path[targetYear],
		Path:          path,
		Unit:          "ug/m3",
		Confidence:    f.confidence(targetYear, lastObserved),
	}, nil
}

// ValueAt returns the PM2.5 level for a year, observed or forecast.
func (f *Forecaster) ValueAt(ctx context.Context, country string, year int) (float64, error) {
	result, err := f.Predict(ctx, country, year)
	if err != nil {
		return 0, err
	}
	return result.PredictedPM25, nil
}

// PredictRange forecasts a window of years and returns the per-year
// values within [startYear, endYear].
func (f *Forecaster) PredictRange(ctx context.Context, country string, startYear, endYear int) (map[int]float64, error) {
	if endYear < startYear {
		startYear, endYear = endYear, startYear
	}
	result, err := f.Predict(ctx, country, endYear)
	if err != nil {
		return nil, err
	}

	out := make(map[int]float64)
	for year, value := range result.Path {
		if year >= startYear {
			out[year] = value
		}
	}
	// Path only covers forecast years; fill observed years from history.
	if len(out) < endYear-startYear+1 {
		obs, err := f.provider.History(ctx, country)
		if err != nil {
			return nil, err
		}
		for _, o := range obs {
			if o.Year >= startYear && o.Year <= endYear {
				out[o.Year] = round2(o.PM25)
			}
		}
	}
	return out, nil
}

// PredictMonthly scales the annual forecast by the regional seasonal
// factor for the requested month.
func (f *Forecaster) PredictMonthly(ctx context.Context, country string, year, month int) (*models.MonthlyForecast, error) {
	if month < 1 || month > 12 {
		return nil, fmt.Errorf("invalid month %d", month)
	}
	annual, err := f.Predict(ctx, country, year)
	if err != nil {
		return nil, err
	}

	region, factor := seasonalFactor(country, month)
	return &models.MonthlyForecast{
		Country:        country,
		TargetYear:     year,
		Month:          month,
		MonthName:      monthName(month),
		PredictedPM25:  round2(annual.PredictedPM25 * factor),
		AnnualPM25:     annual.PredictedPM25,
		SeasonalFactor: factor,
		Region:         region,
		Unit:           "ug/m3",
		Confidence:     annual.Confidence,
	}, nil
}

// MonthlyProfile returns all twelve monthly forecasts for a year.
func (f *Forecaster) MonthlyProfile(ctx context.Context, country string, year int) ([]models.MonthlyForecast, error) {
	annual, err := f.Predict(ctx, country, year)
	if err != nil {
		return nil, err
	}

	profile := make([]models.MonthlyForecast, 0, 12)
	for month := 1; month <= 12; month++ {
		region, factor := seasonalFactor(country, month)
		profile = append(profile, models.MonthlyForecast{
			Country:        country,
			TargetYear:     year,
			Month:          month,
			MonthName:      monthName(month),
			PredictedPM25:  round2(annual.PredictedPM25 * factor),
			AnnualPM25:     annual.PredictedPM25,
			SeasonalFactor: factor,
			Region:         region,
			Unit:           "ug/m3",
			Confidence:     annual.Confidence,
		})
	}
	return profile, nil
}

// ChangeBetween compares PM2.5 levels for two years.
func (f *Forecaster) ChangeBetween(ctx context.Context, country string, year1, year2 int) (*models.PM25Change, error) {
	if year2 < year1 {
		year1, year2 = year2, year1
	}
	v1, err := f.ValueAt(ctx, country, year1)
	if err != nil {
		return nil, err
	}
	v2, err := f.ValueAt(ctx, country, year2)
	if err != nil {
		return nil, err
	}

	abs := v2 - v1
	pct := 0.0
	if v1 > 0 {
		pct = abs / v1 * 100
	}
	return &models.PM25Change{
		Country:   country,
		Year1:     year1,
		Year2:     year2,
		PM25Y1:    v1,
		PM25Y2:    v2,
		AbsChange: round2(abs),
		PctChange: round1(pct),
	}, nil
}

// YoYChangePct returns the percent change from the prior year's level.
func (f *Forecaster) YoYChangePct(ctx context.Context, country string, year int, current float64) float64 {
	prev, err := f.ValueAt(ctx, country, year-1)
	if err != nil || prev <= 0 {
		return 0
	}
	return round1((current - prev) / prev * 100)
}

// Uncertainty returns the ± prediction interval in µg/m³, derived from
// the confidence score and widening with the forecast horizon.
func (f *Forecaster) Uncertainty(ctx context.Context, country string, year int, pm25 float64) float64 {
	obs, err := f.provider.History(ctx, country)
	if err != nil || len(obs) == 0 {
		return round1(pm25 * 0.25)
	}
	lastObserved := obs[len(obs)-1].Year
	conf := f.confidence(year, lastObserved)
	interval := pm25 * (1 - conf.Score) * 0.5
	if interval < 0.5 {
		interval = 0.5
	}
	return round1(interval)
}

// Confidence degrades in tiers as the horizon extends past the last
// observed year.
func (f *Forecaster) confidence(targetYear, lastObserved int) models.Confidence {
	yearsAhead := targetYear - lastObserved
	switch {
	case yearsAhead <= 3:
		return models.Confidence{Level: "high", Score: 0.90, Note: "Near-term forecast based on recent data"}
	case yearsAhead <= 7:
		return models.Confidence{Level: "moderate", Score: 0.70, Note: "Medium-term forecast; compounding uncertainty"}
	case yearsAhead <= 12:
		return models.Confidence{Level: "low", Score: 0.50, Note: "Long-term projection; treat as indicative trend"}
	default:
		return models.Confidence{Level: "speculative", Score: 0.30, Note: "Very long-range; high uncertainty"}
	}
}

// LastObservedYear returns the final year with an observation, or 0
// when the country is unknown.
func (f *Forecaster) LastObservedYear(ctx context.Context, country string) int {
	obs, err := f.provider.History(ctx, country)
	if err != nil || len(obs) == 0 {
		return 0
	}
	return obs[len(obs)-1].Year
}

// Model exposes the regression for driver analysis.
func (f *Forecaster) Model() *Model { return f.model }

func monthName(month int) string {
	names := [...]string{"", "January", "February", "March", "April", "May", "June",
		"July", "August", "September", "October", "November", "December"}
	if month < 1 || month > 12 {
		return ""
	}
	return names[month]
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }
func round1(v float64) float64 { return math.Round(v*10) / 10 }
