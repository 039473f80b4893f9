// internal/analytics/rankings.go
package analytics

import (
	"context"
	"math"
	"sort"

	"aq-insight/internal/health"
)

// PM25Rank is one entry in a level-based ranking.
type PM25Rank struct {
	Country string  `json:"country"`
	PM25    float64 `json:"pm25"`
}

// RankPM25 sorts countries by predicted PM2.5 concentration. With
// ascending false the most polluted comes first. Ties break on
// country name.
func (a *Analytics) RankPM25(ctx context.Context, countries []string, year int, topN int, ascending bool) []PM25Rank {
	results := make([]PM25Rank, 0, len(countries))
	for _, c := range countries {
		pm25, err := a.forecaster.ValueAt(ctx, c, year)
		if err != nil {
			continue
		}
		results = append(results, PM25Rank{Country: c, PM25: round2(pm25)})
	}
	sort.Slice(results, func(i, j int) bool {
		if results[i].PM25 != results[j].PM25 {
			if ascending {
				return results[i].PM25 < results[j].PM25
			}
			return results[i].PM25 > results[j].PM25
		}
		return results[i].Country < results[j].Country
	})
	if topN > 0 && len(results) > topN {
		results = results[:topN]
	}
	return results
}

// StabilityRank is one entry in a volatility ranking.
type StabilityRank struct {
	Country  string  `json:"country"`
	CV       float64 `json:"cv"`
	MeanPM25 float64 `json:"mean_pm25"`
	StdPM25  float64 `json:"std_pm25"`
	Label    string  `json:"label"`
}

// RankStability orders countries by projected PM2.5 volatility,
// lowest coefficient of variation first.
func (a *Analytics) RankStability(ctx context.Context, countries []string, startYear, endYear int) []StabilityRank {
	results := make([]StabilityRank, 0, len(countries))
	for _, c := range countries {
		predictions, err := a.forecaster.PredictRange(ctx, c, startYear, endYear)
		if err != nil || len(predictions) < 2 {
			continue
		}
		values := make([]float64, 0, len(predictions))
		mean := 0.0
		for _, v := range predictions {
			values = append(values, v)
			mean += v
		}
		mean /= float64(len(values))

		cv := coefficientOfVariation(values)
		label := "Stable"
		if cv >= 5 {
			label = "Volatile"
		}
		results = append(results, StabilityRank{
			Country:  c,
			CV:       round2(cv),
			MeanPM25: round2(mean),
			StdPM25:  round2(cv * mean / 100),
			Label:    label,
		})
	}
	sort.Slice(results, func(i, j int) bool {
		if results[i].CV != results[j].CV {
			return results[i].CV < results[j].CV
		}
		return results[i].Country < results[j].Country
	})
	return results
}

// ImprovementRank is one entry in a fastest-improvement ranking.
type ImprovementRank struct {
	Country   string  `json:"country"`
	PM25Start float64 `json:"pm25_start"`
	PM25End   float64 `json:"pm25_end"`
	PctChange float64 `json:"pct_change"`
	Direction string  `json:"direction"`
}

// FastestImproving orders countries by percent PM2.5 change over the
// window, most negative first.
func (a *Analytics) FastestImproving(ctx context.Context, countries []string, startYear, endYear int) []ImprovementRank {
	results := make([]ImprovementRank, 0, len(countries))
	for _, c := range countries {
		predictions, err := a.forecaster.PredictRange(ctx, c, startYear, endYear)
		if err != nil {
			continue
		}
		startVal, okStart := predictions[startYear]
		endVal, okEnd := predictions[endYear]
		if !okStart || !okEnd || startVal == 0 {
			continue
		}
		pct := round1((endVal - startVal) / startVal * 100)
		direction := "Improving"
		if pct >= 0 {
			direction = "Worsening"
		}
		results = append(results, ImprovementRank{
			Country:   c,
			PM25Start: round2(startVal),
			PM25End:   round2(endVal),
			PctChange: pct,
			Direction: direction,
		})
	}
	sort.Slice(results, func(i, j int) bool {
		if results[i].PctChange != results[j].PctChange {
			return results[i].PctChange < results[j].PctChange
		}
		return results[i].Country < results[j].Country
	})
	return results
}

// BurdenRank is one entry in a health-burden ranking.
type BurdenRank struct {
	Country string  `json:"country"`
	PM25    float64 `json:"pm25"`
	Deaths  float64 `json:"deaths"`
	Value   float64 `json:"value"`
	Metric  string  `json:"metric"`
}

// LowestHealthBurden orders countries by attributed burden ascending.
// Metric is "deaths" or "dalys"; countries with no burden data are
// skipped.
func (a *Analytics) LowestHealthBurden(ctx context.Context, countries []string, year int, metric string) []BurdenRank {
	results := make([]BurdenRank, 0, len(countries))
	for _, c := range countries {
		pm25, err := a.forecaster.ValueAt(ctx, c, year)
		if err != nil {
			continue
		}
		deaths, _, err := a.health.Deaths(ctx, c, pm25, year)
		if err != nil || deaths <= 0 {
			continue
		}
		value := deaths
		label := "DEATHS"
		if metric == "dalys" {
			value = health.DALYs(deaths)
			label = "DALYS"
		}
		results = append(results, BurdenRank{
			Country: c,
			PM25:    round2(pm25),
			Deaths:  math.Round(deaths),
			Value:   math.Round(value),
			Metric:  label,
		})
	}
	sort.Slice(results, func(i, j int) bool {
		if results[i].Value != results[j].Value {
			return results[i].Value < results[j].Value
		}
		return results[i].Country < results[j].Country
	})
	return results
}

// SensitivityEntry measures how strongly deaths respond to a PM2.5
// change in one country.
type SensitivityEntry struct {
	Country          string  `json:"country"`
	PM25Baseline     float64 `json:"pm25_baseline"`
	BaselineDeaths   float64 `json:"baseline_deaths"`
	ScenarioDeaths   float64 `json:"scenario_deaths"`
	Prevented        float64 `json:"prevented"`
	PreventedPer1Pct float64 `json:"prevented_per_1pct"`
}

// SensitivityResult aggregates the per-country elasticities.
type SensitivityResult struct {
	Year             int                `json:"year"`
	DeltaPercent     float64            `json:"delta_percent"`
	PerCountry       []SensitivityEntry `json:"per_country"`
	AvgPreventedPer1 float64            `json:"avg_prevented_per_1pct"`
	TopSensitive     []SensitivityEntry `json:"top_sensitive"`
}

// Sensitivity applies a PM2.5 change to each country and reports the
// deaths prevented per 1% reduction, most sensitive first.
func (a *Analytics) Sensitivity(ctx context.Context, countries []string, year int, deltaPercent float64) *SensitivityResult {
	if deltaPercent == 0 {
		deltaPercent = -5.0
	}
	absDelta := math.Abs(deltaPercent)

	perCountry := make([]SensitivityEntry, 0, len(countries))
	for _, c := range countries {
		basePM25, err := a.forecaster.ValueAt(ctx, c, year)
		if err != nil {
			continue
		}
		scenPM25 := math.Max(basePM25*(1+deltaPercent/100), health.TMREL)

		baseDeaths, _, err := a.health.Deaths(ctx, c, basePM25, year)
		if err != nil || baseDeaths <= 0 {
			continue
		}
		scenDeaths, _, err := a.health.Deaths(ctx, c, scenPM25, year)
		if err != nil {
			continue
		}

		delta := baseDeaths - scenDeaths
		perCountry = append(perCountry, SensitivityEntry{
			Country:          c,
			PM25Baseline:     round2(basePM25),
			BaselineDeaths:   math.Round(baseDeaths),
			ScenarioDeaths:   math.Round(scenDeaths),
			Prevented:        math.Round(delta),
			PreventedPer1Pct: round1(delta / absDelta),
		})
	}
	sort.Slice(perCountry, func(i, j int) bool {
		if perCountry[i].PreventedPer1Pct != perCountry[j].PreventedPer1Pct {
			return perCountry[i].PreventedPer1Pct > perCountry[j].PreventedPer1Pct
		}
		return perCountry[i].Country < perCountry[j].Country
	})

	avg := 0.0
	if len(perCountry) > 0 {
		for _, e := range perCountry {
			avg += e.PreventedPer1Pct
		}
		avg = round1(avg / float64(len(perCountry)))
	}

	top := perCountry
	if len(top) > 3 {
		top = top[:3]
	}
	return &SensitivityResult{
		Year:             year,
		DeltaPercent:     deltaPercent,
		PerCountry:       perCountry,
		AvgPreventedPer1: avg,
		TopSensitive:     top,
	}
}

// DeathsYoYResult is the year-over-year change in attributed deaths.
type DeathsYoYResult struct {
	Country        string  `json:"country"`
	Year           int     `json:"year"`
	PrevYear       int     `json:"prev_year"`
	DeathsCurrent  float64 `json:"deaths_current"`
	DeathsPrevious float64 `json:"deaths_previous"`
	Delta          float64 `json:"delta"`
	PctChange      float64 `json:"pct_change"`
	Direction      string  `json:"direction"`
}

// DeathsChangeYoY compares this year's attributed deaths against the
// nearest prior year with usable data, searching back up to 5 years.
func (a *Analytics) DeathsChangeYoY(ctx context.Context, country string, year int) (*DeathsYoYResult, error) {
	currPM25, err := a.forecaster.ValueAt(ctx, country, year)
	if err != nil {
		return nil, err
	}
	currDeaths, _, err := a.health.Deaths(ctx, country, currPM25, year)
	if err != nil {
		return nil, err
	}

	prevYear := 0
	prevDeaths := 0.0
	for y := year - 1; y >= year-5; y-- {
		pm25, err := a.forecaster.ValueAt(ctx, country, y)
		if err != nil {
			continue
		}
		d, _, err := a.health.Deaths(ctx, country, pm25, y)
		if err == nil && d > 0 {
			prevYear = y
			prevDeaths = d
			break
		}
	}

	result := &DeathsYoYResult{
		Country:       country,
		Year:          year,
		DeathsCurrent: math.Round(currDeaths),
	}
	if prevYear == 0 {
		result.Direction = "Unknown"
		return result, nil
	}

	delta := currDeaths - prevDeaths
	result.PrevYear = prevYear
	result.DeathsPrevious = math.Round(prevDeaths)
	result.Delta = math.Round(delta)
	result.PctChange = round1(delta / prevDeaths * 100)
	switch {
	case delta > 0:
		result.Direction = "Increased"
	case delta < 0:
		result.Direction = "Decreased"
	default:
		result.Direction = "Unchanged"
	}
	return result, nil
}
