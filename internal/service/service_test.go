// internal/service/service_test.go
package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aq-insight/internal/analytics"
	stderrors "aq-insight/internal/common/errors"
	"aq-insight/internal/common/logger"
	"aq-insight/internal/forecast"
	"aq-insight/internal/health"
	"aq-insight/internal/models"
	"aq-insight/internal/nlp"
	"aq-insight/internal/refdata"
	"aq-insight/internal/regions"
)

// pipelineProvider serves fixed reference data for end-to-end tests.
type pipelineProvider struct {
	series    map[string][]refdata.Observation
	baselines map[string]map[string]float64
}

func (p *pipelineProvider) History(_ context.Context, country string) ([]refdata.Observation, error) {
	obs, ok := p.series[country]
	if !ok {
		return nil, refdata.ErrCountryNotFound
	}
	out := make([]refdata.Observation, len(obs))
	copy(out, obs)
	return out, nil
}

func (p *pipelineProvider) Countries(_ context.Context) ([]models.CountryInfo, error) {
	infos := []models.CountryInfo{
		{Name: "India", StartYear: 2015, EndYear: 2023, DataPoints: 9},
		{Name: "Thailand", StartYear: 2015, EndYear: 2023, DataPoints: 9},
		{Name: "Vietnam", StartYear: 2015, EndYear: 2023, DataPoints: 9},
	}
	return infos, nil
}

func (p *pipelineProvider) Baseline(_ context.Context, country string) (map[string]float64, error) {
	b, ok := p.baselines[country]
	if !ok {
		return nil, refdata.ErrCountryNotFound
	}
	return b, nil
}

func (p *pipelineProvider) Canonical(name string) (string, bool) {
	for stored := range p.series {
		if strings.EqualFold(stored, strings.TrimSpace(name)) {
			return stored, true
		}
	}
	return "", false
}

func (p *pipelineProvider) AgeShares(_ context.Context, _ string) (map[string]float64, bool) {
	return nil, false
}

func obsSeries(country string, start int, values ...float64) []refdata.Observation {
	obs := make([]refdata.Observation, len(values))
	for i, v := range values {
		obs[i] = refdata.Observation{Country: country, Year: start + i, PM25: v}
	}
	return obs
}

func createTestService(t *testing.T, cache *ForecastCache) *Service {
	t.Helper()
	provider := &pipelineProvider{
		series: map[string][]refdata.Observation{
			"Thailand": obsSeries("Thailand", 2015,
				29.0, 28.0, 27.0, 26.0, 25.0, 24.0, 23.0, 22.0, 21.0),
			"Vietnam": obsSeries("Vietnam", 2015,
				33.0, 32.5, 32.0, 31.5, 31.0, 30.5, 30.0, 29.5, 29.0),
			"India": obsSeries("India", 2015,
				50.0, 51.0, 52.0, 53.0, 54.0, 55.0, 56.0, 57.0, 58.0),
		},
		baselines: map[string]map[string]float64{
			"Thailand": {
				"Ischemic heart disease":       32000,
				"Stroke":                       28000,
				"Lower respiratory infections": 12000,
			},
			"Vietnam": {
				"Ischemic heart disease":       41000,
				"Stroke":                       35000,
				"Lower respiratory infections": 16000,
			},
			"India": {
				"Ischemic heart disease":       900000,
				"Stroke":                       700000,
				"Lower respiratory infections": 500000,
			},
		},
	}

	log := logger.NewTestLogger(t)
	names := []string{"Thailand", "Vietnam", "India"}
	resolver := regions.NewResolver(names, log)
	parser := nlp.NewParser(names, resolver, log)
	parser.SetReferenceYear(2024)

	model, err := forecast.LoadModel("../../data/model/pm25_linear_v1.json")
	require.NoError(t, err)
	forecaster := forecast.NewForecaster(provider, model, 5.0, 30, log)
	engine := health.NewEngine(provider, log)

	return New(Options{
		Parser:      parser,
		Dispatcher:  nlp.NewDispatcher(log),
		Regions:     resolver,
		Forecaster:  forecaster,
		Health:      engine,
		Analytics:   analytics.New(forecaster, engine, log),
		Provider:    provider,
		Cache:       cache,
		Logger:      log,
		CurrentYear: 2024,
	})
}

// ============================================================
// End-to-end query handling
// ============================================================

func TestService_Handle_Forecast(t *testing.T) {
	svc := createTestService(t, nil)

	result := svc.Handle(context.Background(), "What will PM2.5 be in Thailand in 2026?")

	require.False(t, result.IsError())
	assert.Equal(t, models.IntentPM25Forecast, result.Intent)
	assert.Equal(t, "Thailand", result.Parsed.Country)
	assert.Equal(t, 2026, result.Parsed.Year)
	assert.NotEmpty(t, result.Answer)

	annual, ok := result.Data.(*models.AnnualForecast)
	require.True(t, ok)
	assert.Equal(t, 2026, annual.TargetYear)
	assert.Positive(t, annual.PredictedPM25)
}

func TestService_Handle_DefaultYear(t *testing.T) {
	svc := createTestService(t, nil)

	result := svc.Handle(context.Background(), "What is the PM2.5 outlook for Vietnam?")

	require.False(t, result.IsError())
	annual, ok := result.Data.(*models.AnnualForecast)
	require.True(t, ok)
	assert.Equal(t, 2025, annual.TargetYear)
}

func TestService_DefaultYear(t *testing.T) {
	svc := createTestService(t, nil)
	assert.Equal(t, 2025, svc.DefaultYear())
}

func TestService_Handle_MissingCountry(t *testing.T) {
	svc := createTestService(t, nil)

	result := svc.Handle(context.Background(), "How many deaths will air pollution cause in 2027?")

	require.True(t, result.IsError())
	assert.Equal(t, stderrors.CodeMissingRequiredEntity, result.ErrorCode)
	assert.NotEmpty(t, result.ErrorMsg)
}

func TestService_Handle_UnrecognizedQuery(t *testing.T) {
	svc := createTestService(t, nil)

	result := svc.Handle(context.Background(), "tell me a joke about bananas")

	require.True(t, result.IsError())
	assert.Equal(t, stderrors.CodeUnrecognizedIntent, result.ErrorCode)
}

func TestService_Handle_Compare(t *testing.T) {
	svc := createTestService(t, nil)

	result := svc.Handle(context.Background(),
		"Compare health impacts in India vs Thailand for 2026")

	require.False(t, result.IsError())
	assert.Equal(t, models.IntentCompareHealth, result.Intent)

	compared, ok := result.Data.(*analytics.CompareResult)
	require.True(t, ok)
	assert.Equal(t, "India", compared.Higher)
}

func TestService_Handle_Scenario(t *testing.T) {
	svc := createTestService(t, nil)

	result := svc.Handle(context.Background(),
		"What if India reduces PM2.5 by 20% by 2026?")

	require.False(t, result.IsError())
	assert.Equal(t, models.IntentScenarioPM25Change, result.Intent)

	scenario, ok := result.Data.(*analytics.ScenarioResult)
	require.True(t, ok)
	assert.Equal(t, -20.0, scenario.PercentChange)
	assert.Positive(t, scenario.PreventedDeaths)
}

func TestService_Handle_ListCountries(t *testing.T) {
	svc := createTestService(t, nil)

	result := svc.Handle(context.Background(), "Which countries are available in the dataset?")

	require.False(t, result.IsError())
	assert.Equal(t, models.IntentListCountries, result.Intent)

	infos, ok := result.Data.([]models.CountryInfo)
	require.True(t, ok)
	assert.Len(t, infos, 3)
}

func TestService_Handle_MonthlyNeedsMonth(t *testing.T) {
	svc := createTestService(t, nil)

	// A month reference routes to the monthly forecast.
	result := svc.Handle(context.Background(), "PM2.5 in Thailand in January 2026")
	require.False(t, result.IsError())
	monthly, ok := result.Data.(*models.MonthlyForecast)
	require.True(t, ok)
	assert.Equal(t, 1, monthly.Month)
}

func TestService_Handle_TrendDefaultWindow(t *testing.T) {
	svc := createTestService(t, nil)

	result := svc.Handle(context.Background(), "What is the PM2.5 trend for Thailand?")

	require.False(t, result.IsError())
	trend, ok := result.Data.(*analytics.TrendResult)
	require.True(t, ok)
	assert.Equal(t, trendWindowYears+1, trend.WindowYears)
	assert.NotEmpty(t, trend.Direction)
}

func TestService_Handle_RegionScope(t *testing.T) {
	svc := createTestService(t, nil)

	result := svc.Handle(context.Background(),
		"Rank countries by risk across all countries for 2026")

	require.False(t, result.IsError())
	assert.Equal(t, models.IntentRiskRanking, result.Intent)

	ranked, ok := result.Data.([]analytics.RiskEntry)
	require.True(t, ok)
	require.Len(t, ranked, 3)
	assert.Equal(t, "India", ranked[0].Country)
}

func TestService_Handle_PM25Change(t *testing.T) {
	svc := createTestService(t, nil)

	result := svc.Handle(context.Background(),
		"How did PM2.5 change in Thailand from 2016 to 2020?")

	require.False(t, result.IsError())
	change, ok := result.Data.(*models.PM25Change)
	require.True(t, ok)
	assert.Equal(t, 28.0, change.PM25Y1)
	assert.Equal(t, 24.0, change.PM25Y2)
}

// ============================================================
// Direct operations
// ============================================================

func TestService_Predict(t *testing.T) {
	svc := createTestService(t, nil)

	t.Run("known country", func(t *testing.T) {
		result, err := svc.Predict(context.Background(), "thailand", 2026)
		require.NoError(t, err)
		assert.Equal(t, "Thailand", result.Country)
	})

	t.Run("unknown country", func(t *testing.T) {
		_, err := svc.Predict(context.Background(), "Atlantis", 2026)
		require.Error(t, err)
		assert.Equal(t, stderrors.CodeUnknownCountry, stderrors.AsStandard(err).Code)
	})
}

func TestService_HealthRisk(t *testing.T) {
	svc := createTestService(t, nil)

	result, err := svc.HealthRisk(context.Background(), "India", 2026, "", "")
	require.NoError(t, err)
	assert.Positive(t, result.TotalDeaths)
	assert.Len(t, result.Diseases, 3)
}

func TestService_DebugParse(t *testing.T) {
	svc := createTestService(t, nil)

	out := svc.DebugParse("worst month for pollution in Vietnam")

	assert.Equal(t, string(models.IntentWorstMonth), out["intent"])
	parsed, ok := out["parsed_query"].(models.ParsedQuery)
	require.True(t, ok)
	assert.Equal(t, "Vietnam", parsed.Country)
}

func TestService_DebugStatus(t *testing.T) {
	svc := createTestService(t, nil)

	status, err := svc.DebugStatus(context.Background())
	require.NoError(t, err)

	assert.Equal(t, true, status["model_loaded"])
	assert.Equal(t, 3, status["country_count"])
	assert.Equal(t, 2025, status["default_year"])
	assert.Equal(t, false, status["cache_enabled"])

	ranges, ok := status["data_ranges"].(map[string]map[string]int)
	require.True(t, ok)
	assert.Equal(t, 2015, ranges["Thailand"]["start_year"])
	assert.Equal(t, 2023, ranges["Thailand"]["end_year"])
}

// ============================================================
// Forecast cache
// ============================================================

func TestForecastCache(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	cache := NewForecastCache(client, time.Hour, logger.NewTestLogger(t))

	t.Run("round trip", func(t *testing.T) {
		stored := &models.AnnualForecast{
			Country:       "Thailand",
			TargetYear:    2026,
			PredictedPM25: 20.5,
			Path:          map[int]float64{2026: 20.5},
			Unit:          "ug/m3",
			Confidence:    models.Confidence{Level: "high", Score: 0.90},
		}
		cache.Set(context.Background(), stored)

		got := cache.Get(context.Background(), "Thailand", 2026)
		require.NotNil(t, got)
		assert.Equal(t, stored.PredictedPM25, got.PredictedPM25)
		assert.Equal(t, stored.Confidence.Level, got.Confidence.Level)
	})

	t.Run("miss", func(t *testing.T) {
		assert.Nil(t, cache.Get(context.Background(), "Vietnam", 2030))
	})

	t.Run("expiry", func(t *testing.T) {
		cache.Set(context.Background(), &models.AnnualForecast{
			Country: "Vietnam", TargetYear: 2026, PredictedPM25: 29.0,
		})
		mr.FastForward(2 * time.Hour)
		assert.Nil(t, cache.Get(context.Background(), "Vietnam", 2026))
	})

	t.Run("nil cache is a no-op", func(t *testing.T) {
		var disabled *ForecastCache
		disabled.Set(context.Background(), &models.AnnualForecast{Country: "India"})
		assert.Nil(t, disabled.Get(context.Background(), "India", 2026))
	})
}

func TestService_Handle_UsesCache(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	cache := NewForecastCache(client, time.Hour, logger.NewNoOpLogger())
	svc := createTestService(t, cache)

	first := svc.Handle(context.Background(), "What will PM2.5 be in Thailand in 2026?")
	require.False(t, first.IsError())
	assert.NotEmpty(t, mr.Keys())

	second := svc.Handle(context.Background(), "What will PM2.5 be in Thailand in 2026?")
	require.False(t, second.IsError())

	a := first.Data.(*models.AnnualForecast)
	b := second.Data.(*models.AnnualForecast)
	assert.Equal(t, a.PredictedPM25, b.PredictedPM25)
}
