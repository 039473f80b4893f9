// internal/analytics/compare.go
package analytics

import (
	"context"
	"math"
)

// CompareResult is a head-to-head health comparison of two countries.
type CompareResult struct {
	Year     int     `json:"year"`
	CountryA string  `json:"country_a"`
	PM25A    float64 `json:"pm25_a"`
	DeathsA  float64 `json:"deaths_a"`
	CountryB string  `json:"country_b"`
	PM25B    float64 `json:"pm25_b"`
	DeathsB  float64 `json:"deaths_b"`
	Diff     float64 `json:"diff"`
	Higher   string  `json:"higher_burden"`
}

// CompareHealth contrasts the attributed burden of two countries for
// one year.
func (a *Analytics) CompareHealth(ctx context.Context, countryA, countryB string, year int) (*CompareResult, error) {
	pmA, err := a.forecaster.ValueAt(ctx, countryA, year)
	if err != nil {
		return nil, err
	}
	pmB, err := a.forecaster.ValueAt(ctx, countryB, year)
	if err != nil {
		return nil, err
	}
	deathsA, _, err := a.health.Deaths(ctx, countryA, pmA, year)
	if err != nil {
		return nil, err
	}
	deathsB, _, err := a.health.Deaths(ctx, countryB, pmB, year)
	if err != nil {
		return nil, err
	}

	higher := countryA
	if deathsB > deathsA {
		higher = countryB
	}
	return &CompareResult{
		Year:     year,
		CountryA: countryA,
		PM25A:    round2(pmA),
		DeathsA:  math.Round(deathsA),
		CountryB: countryB,
		PM25B:    round2(pmB),
		DeathsB:  math.Round(deathsB),
		Diff:     math.Round(math.Abs(deathsA - deathsB)),
		Higher:   higher,
	}, nil
}

// MonthExtreme is the best or worst month of a forecast year.
type MonthExtreme struct {
	Country   string  `json:"country"`
	Year      int     `json:"year"`
	Month     int     `json:"month"`
	MonthName string  `json:"month_name"`
	PM25      float64 `json:"pm25"`
	Kind      string  `json:"kind"`
}

// BestMonth finds the cleanest forecast month of the year. Ties break
// on the earlier month.
func (a *Analytics) BestMonth(ctx context.Context, country string, year int) (*MonthExtreme, error) {
	return a.monthExtreme(ctx, country, year, true)
}

// WorstMonth finds the most polluted forecast month of the year.
func (a *Analytics) WorstMonth(ctx context.Context, country string, year int) (*MonthExtreme, error) {
	return a.monthExtreme(ctx, country, year, false)
}

func (a *Analytics) monthExtreme(ctx context.Context, country string, year int, lowest bool) (*MonthExtreme, error) {
	profile, err := a.forecaster.MonthlyProfile(ctx, country, year)
	if err != nil {
		return nil, err
	}

	best := profile[0]
	for _, m := range profile[1:] {
		if lowest && m.PredictedPM25 < best.PredictedPM25 {
			best = m
		}
		if !lowest && m.PredictedPM25 > best.PredictedPM25 {
			best = m
		}
	}

	kind := "best"
	if !lowest {
		kind = "worst"
	}
	return &MonthExtreme{
		Country:   country,
		Year:      year,
		Month:     best.Month,
		MonthName: best.MonthName,
		PM25:      best.PredictedPM25,
		Kind:      kind,
	}, nil
}
