// internal/analytics/analytics_test.go
package analytics

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aq-insight/internal/common/logger"
	"aq-insight/internal/forecast"
	"aq-insight/internal/health"
	"aq-insight/internal/models"
	"aq-insight/internal/refdata"
)

// analyticsProvider serves fixed histories and baselines so rankings
// and scenarios are fully deterministic.
type analyticsProvider struct {
	series    map[string][]refdata.Observation
	baselines map[string]map[string]float64
}

func (p *analyticsProvider) History(_ context.Context, country string) ([]refdata.Observation, error) {
	obs, ok := p.series[country]
	if !ok {
		return nil, refdata.ErrCountryNotFound
	}
	out := make([]refdata.Observation, len(obs))
	copy(out, obs)
	return out, nil
}

func (p *analyticsProvider) Countries(_ context.Context) ([]models.CountryInfo, error) {
	return nil, nil
}

func (p *analyticsProvider) Baseline(_ context.Context, country string) (map[string]float64, error) {
	b, ok := p.baselines[country]
	if !ok {
		return nil, refdata.ErrCountryNotFound
	}
	return b, nil
}

func (p *analyticsProvider) Canonical(name string) (string, bool) {
	_, ok := p.series[name]
	return name, ok
}

func (p *analyticsProvider) AgeShares(_ context.Context, _ string) (map[string]float64, bool) {
	return nil, false
}

func obsRange(country string, start int, values ...float64) []refdata.Observation {
	obs := make([]refdata.Observation, len(values))
	for i, v := range values {
		obs[i] = refdata.Observation{Country: country, Year: start + i, PM25: v}
	}
	return obs
}

func createTestAnalytics(t *testing.T) *Analytics {
	provider := &analyticsProvider{
		series: map[string][]refdata.Observation{
			"India": obsRange("India", 2015,
				50.0, 51.0, 52.0, 53.0, 54.0, 55.0, 56.0, 57.0, 58.0),
			"Thailand": obsRange("Thailand", 2015,
				29.0, 28.0, 27.0, 26.0, 25.0, 24.0, 23.0, 22.0, 21.0),
			"Norway": obsRange("Norway", 2015,
				7.2, 7.1, 7.1, 7.0, 7.0, 7.0, 7.0, 6.9, 6.9),
		},
		baselines: map[string]map[string]float64{
			"India": {
				"Ischemic heart disease":       900000,
				"Stroke":                       700000,
				"Lower respiratory infections": 500000,
			},
			"Thailand": {
				"Ischemic heart disease":       32000,
				"Stroke":                       28000,
				"Lower respiratory infections": 12000,
			},
			"Norway": {
				"Ischemic heart disease":       8000,
				"Stroke":                       6000,
				"Lower respiratory infections": 1500,
			},
		},
	}

	model, err := forecast.LoadModel("../../data/model/pm25_linear_v1.json")
	require.NoError(t, err)
	log := logger.NewTestLogger(t)
	forecaster := forecast.NewForecaster(provider, model, 5.0, 30, log)
	engine := health.NewEngine(provider, log)
	return New(forecaster, engine, log)
}

var allCountries = []string{"India", "Norway", "Thailand"}

// ============================================================
// Composite risk
// ============================================================

func TestRiskTier(t *testing.T) {
	tests := []struct {
		pm25 float64
		tier string
	}{
		{8.0, "Low"},
		{11.9, "Low"},
		{12.0, "Moderate"},
		{35.5, "Moderate"},
		{35.6, "High"},
		{55.5, "High"},
		{55.6, "Very High"},
		{120.0, "Very High"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.tier, RiskTier(tt.pm25), "pm25=%v", tt.pm25)
	}
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, 0.0, normalize(-10, 0, 100))
	assert.Equal(t, 100.0, normalize(250, 0, 100))
	assert.Equal(t, 50.0, normalize(50, 0, 100))
	assert.Equal(t, 50.0, normalize(42, 10, 10), "degenerate range")
}

func TestRiskScore(t *testing.T) {
	// Midpoint on every component lands exactly on 50.
	assert.Equal(t, 50.0, RiskScore(52.5, 0, 15))

	assert.Equal(t, 100.0, RiskScore(150, 40, 50))
	assert.Equal(t, 0.0, RiskScore(5.0, -20, 0))

	score := RiskScore(38.0, 4.0, 6.0)
	assert.GreaterOrEqual(t, score, 0.0)
	assert.LessOrEqual(t, score, 100.0)
}

func TestAnalytics_RankByRisk(t *testing.T) {
	a := createTestAnalytics(t)

	ranked := a.RankByRisk(context.Background(), []string{"India", "Norway", "Wakanda"}, 2025)

	// Unknown countries are skipped rather than failing the ranking.
	require.Len(t, ranked, 2)
	assert.Equal(t, "India", ranked[0].Country)
	assert.Equal(t, "Norway", ranked[1].Country)
	assert.Greater(t, ranked[0].RiskScore, ranked[1].RiskScore)
	assert.Equal(t, "Low", ranked[1].RiskTier)
}

func TestAnalytics_HighestRisk(t *testing.T) {
	a := createTestAnalytics(t)

	top, ok := a.HighestRisk(context.Background(), allCountries, 2025)
	require.True(t, ok)
	assert.Equal(t, "India", top.Country)

	_, ok = a.HighestRisk(context.Background(), []string{"Wakanda"}, 2025)
	assert.False(t, ok)
}

func TestAnalytics_RiskLevel(t *testing.T) {
	a := createTestAnalytics(t)

	card, err := a.RiskLevel(context.Background(), "Thailand", 2025)
	require.NoError(t, err)

	assert.Equal(t, "Thailand", card.Country)
	assert.Equal(t, 2025, card.Year)
	assert.Positive(t, card.PM25)
	assert.Positive(t, card.Deaths)
	assert.NotEmpty(t, card.RiskTier)
}

// ============================================================
// Scenarios
// ============================================================

func TestAnalytics_SimulateChange(t *testing.T) {
	a := createTestAnalytics(t)
	ctx := context.Background()

	t.Run("reduction prevents deaths", func(t *testing.T) {
		result, err := a.SimulateChange(ctx, "India", 2025, -20)
		require.NoError(t, err)

		assert.False(t, result.IsIncrease)
		assert.Less(t, result.ScenarioPM25, result.BaselinePM25)
		assert.Positive(t, result.PreventedDeaths)
		assert.Zero(t, result.AdditionalDeaths)
		assert.Len(t, result.TopDiseases, 3)
	})

	t.Run("increase adds deaths", func(t *testing.T) {
		result, err := a.SimulateChange(ctx, "India", 2025, 10)
		require.NoError(t, err)

		assert.True(t, result.IsIncrease)
		assert.Greater(t, result.ScenarioPM25, result.BaselinePM25)
		assert.Positive(t, result.AdditionalDeaths)
		assert.Zero(t, result.PreventedDeaths)
	})

	t.Run("zero change reproduces the baseline", func(t *testing.T) {
		result, err := a.SimulateChange(ctx, "India", 2025, 0)
		require.NoError(t, err)

		assert.Equal(t, result.BaselinePM25, result.ScenarioPM25)
		assert.Equal(t, result.BaselineDeaths, result.ScenarioDeaths)
		assert.Zero(t, result.PreventedDeaths)
		assert.Zero(t, result.AdditionalDeaths)
	})

	t.Run("full elimination clamps to the safe threshold", func(t *testing.T) {
		result, err := a.SimulateChange(ctx, "India", 2025, -100)
		require.NoError(t, err)

		assert.Equal(t, health.TMREL, result.ScenarioPM25)
		assert.Zero(t, result.ScenarioDeaths)
		assert.Equal(t, result.BaselineDeaths, result.PreventedDeaths)
	})
}

func TestHealthConfidence(t *testing.T) {
	assert.Equal(t, "Medium", healthConfidence(2024, 2023))
	assert.Equal(t, "Medium", healthConfidence(2020, 2023), "past years clamp to one year ahead")
	assert.Equal(t, "Low-Medium", healthConfidence(2028, 2023))
	assert.Equal(t, "Low", healthConfidence(2032, 2023))
}

// ============================================================
// Trends and volatility
// ============================================================

func TestAnalytics_Trend(t *testing.T) {
	a := createTestAnalytics(t)
	ctx := context.Background()

	t.Run("rising series", func(t *testing.T) {
		result, err := a.Trend(ctx, "India", 2019, 2023)
		require.NoError(t, err)

		assert.Equal(t, "Increasing", result.Direction)
		assert.InDelta(t, 7.4, result.PctChange, 0.1)
		assert.Equal(t, 5, result.WindowYears)
		assert.Contains(t, result.Stability, "low volatility")
	})

	t.Run("falling series", func(t *testing.T) {
		result, err := a.Trend(ctx, "Thailand", 2019, 2023)
		require.NoError(t, err)
		assert.Equal(t, "Decreasing", result.Direction)
	})

	t.Run("flat series", func(t *testing.T) {
		result, err := a.Trend(ctx, "Norway", 2019, 2023)
		require.NoError(t, err)
		assert.Equal(t, "Stable", result.Direction)
	})

	t.Run("too narrow", func(t *testing.T) {
		_, err := a.Trend(ctx, "India", 2023, 2023)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "at least 2 years")
	})
}

func TestCoefficientOfVariation(t *testing.T) {
	assert.Zero(t, coefficientOfVariation([]float64{10.0}))
	assert.Zero(t, coefficientOfVariation([]float64{10.0, 10.0, 10.0}))
	assert.InDelta(t, 8.16, coefficientOfVariation([]float64{9.0, 10.0, 11.0}), 0.01)
}

// ============================================================
// Rankings
// ============================================================

func TestAnalytics_RankPM25(t *testing.T) {
	a := createTestAnalytics(t)
	ctx := context.Background()

	t.Run("most polluted first", func(t *testing.T) {
		ranked := a.RankPM25(ctx, allCountries, 2025, 10, false)
		require.Len(t, ranked, 3)
		assert.Equal(t, "India", ranked[0].Country)
		assert.Equal(t, "Norway", ranked[2].Country)
	})

	t.Run("cleanest first", func(t *testing.T) {
		ranked := a.RankPM25(ctx, allCountries, 2025, 10, true)
		require.Len(t, ranked, 3)
		assert.Equal(t, "Norway", ranked[0].Country)
	})

	t.Run("top n truncates", func(t *testing.T) {
		ranked := a.RankPM25(ctx, allCountries, 2025, 2, false)
		assert.Len(t, ranked, 2)
	})
}

func TestAnalytics_RankStability(t *testing.T) {
	a := createTestAnalytics(t)

	ranked := a.RankStability(context.Background(), allCountries, 2019, 2023)
	require.Len(t, ranked, 3)

	// Norway's nearly flat series has the lowest volatility.
	assert.Equal(t, "Norway", ranked[0].Country)
	for i := 1; i < len(ranked); i++ {
		assert.GreaterOrEqual(t, ranked[i].CV, ranked[i-1].CV)
	}
}

func TestAnalytics_FastestImproving(t *testing.T) {
	a := createTestAnalytics(t)

	ranked := a.FastestImproving(context.Background(), allCountries, 2019, 2023)
	require.Len(t, ranked, 3)

	assert.Equal(t, "Thailand", ranked[0].Country)
	assert.Equal(t, "Improving", ranked[0].Direction)
	assert.Negative(t, ranked[0].PctChange)
	assert.Equal(t, "India", ranked[2].Country)
	assert.Equal(t, "Worsening", ranked[2].Direction)
}

func TestAnalytics_LowestHealthBurden(t *testing.T) {
	a := createTestAnalytics(t)
	ctx := context.Background()

	t.Run("deaths", func(t *testing.T) {
		ranked := a.LowestHealthBurden(ctx, allCountries, 2025, "deaths")
		require.Len(t, ranked, 3)
		assert.Equal(t, "Norway", ranked[0].Country)
		assert.Equal(t, "India", ranked[2].Country)
		assert.Equal(t, "DEATHS", ranked[0].Metric)
	})

	t.Run("dalys", func(t *testing.T) {
		ranked := a.LowestHealthBurden(ctx, allCountries, 2025, "dalys")
		require.Len(t, ranked, 3)
		assert.Equal(t, "DALYS", ranked[0].Metric)
		assert.Greater(t, ranked[0].Value, ranked[0].Deaths)
	})
}

func TestAnalytics_Sensitivity(t *testing.T) {
	a := createTestAnalytics(t)

	result := a.Sensitivity(context.Background(), allCountries, 2025, 0)

	// A zero delta falls back to the standard -5% change.
	assert.Equal(t, -5.0, result.DeltaPercent)
	require.Len(t, result.PerCountry, 3)
	assert.Equal(t, "India", result.PerCountry[0].Country)
	for _, e := range result.PerCountry {
		assert.GreaterOrEqual(t, e.Prevented, 0.0)
	}
	assert.Len(t, result.TopSensitive, 3)
	assert.Positive(t, result.AvgPreventedPer1)
}

func TestAnalytics_DeathsChangeYoY(t *testing.T) {
	a := createTestAnalytics(t)
	ctx := context.Background()

	t.Run("declining country", func(t *testing.T) {
		result, err := a.DeathsChangeYoY(ctx, "Thailand", 2023)
		require.NoError(t, err)

		assert.Equal(t, 2022, result.PrevYear)
		assert.Equal(t, "Decreased", result.Direction)
		assert.Negative(t, result.Delta)
	})

	t.Run("rising country", func(t *testing.T) {
		result, err := a.DeathsChangeYoY(ctx, "India", 2023)
		require.NoError(t, err)
		assert.Equal(t, "Increased", result.Direction)
	})

	t.Run("unknown country", func(t *testing.T) {
		_, err := a.DeathsChangeYoY(ctx, "Wakanda", 2023)
		assert.Error(t, err)
	})
}

// ============================================================
// Comparisons and months
// ============================================================

func TestAnalytics_CompareHealth(t *testing.T) {
	a := createTestAnalytics(t)

	result, err := a.CompareHealth(context.Background(), "India", "Norway", 2025)
	require.NoError(t, err)

	assert.Equal(t, "India", result.Higher)
	assert.Greater(t, result.DeathsA, result.DeathsB)
	assert.Positive(t, result.Diff)
}

func TestAnalytics_BestWorstMonth(t *testing.T) {
	a := createTestAnalytics(t)
	ctx := context.Background()

	// Southeast Asia bottoms out in the July wet season and peaks with
	// the February burning season.
	best, err := a.BestMonth(ctx, "Thailand", 2025)
	require.NoError(t, err)
	assert.Equal(t, 7, best.Month)
	assert.Equal(t, "July", best.MonthName)
	assert.Equal(t, "best", best.Kind)

	worst, err := a.WorstMonth(ctx, "Thailand", 2025)
	require.NoError(t, err)
	assert.Equal(t, 2, worst.Month)
	assert.Equal(t, "February", worst.MonthName)
	assert.Equal(t, "worst", worst.Kind)

	assert.Less(t, best.PM25, worst.PM25)
}

func TestAnalytics_Explain(t *testing.T) {
	a := createTestAnalytics(t)

	result, err := a.Explain(context.Background(), "India", 2025)
	require.NoError(t, err)

	require.Len(t, result.PollutionDrivers, 3)
	assert.Equal(t, "Previous year PM2.5 level", result.PollutionDrivers[0].Feature)
	assert.Equal(t, "Year-over-year change trajectory", result.PollutionDrivers[1].Feature)
	assert.Equal(t, "3-year moving average trend", result.PollutionDrivers[2].Feature)
	for _, d := range result.PollutionDrivers {
		assert.Positive(t, d.Importance)
	}
	assert.NotEmpty(t, result.HealthDrivers)
	assert.Positive(t, result.PM25)
	assert.NotEmpty(t, result.ConfidenceNote)
}
