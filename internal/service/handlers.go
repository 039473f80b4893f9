// internal/service/handlers.go
package service

import (
	"context"

	"aq-insight/internal/common/errors"
	"aq-insight/internal/health"
	"aq-insight/internal/models"
)

// trendWindowYears is the default projection window when a trend
// question names no range.
const trendWindowYears = 4

func (s *Service) execute(ctx context.Context, intent models.Intent, q models.ParsedQuery) (*models.Result, error) {
	switch intent {
	case models.IntentPM25Forecast:
		return s.handleForecast(ctx, q)
	case models.IntentPM25ForecastMonthly:
		return s.handleForecastMonthly(ctx, q)
	case models.IntentPM25Change:
		return s.handlePM25Change(ctx, q)
	case models.IntentHealthDeaths:
		return s.handleHealthDeaths(ctx, q)
	case models.IntentHealthRate:
		return s.handleHealthRate(ctx, q)
	case models.IntentHealthDALYs:
		return s.handleHealthDALYs(ctx, q)
	case models.IntentTopDiseases:
		return s.handleTopDiseases(ctx, q)
	case models.IntentScenarioPM25Change:
		return s.handleScenario(ctx, q)
	case models.IntentCompareHealth:
		return s.handleCompare(ctx, q)
	case models.IntentTrendPM25:
		return s.handleTrend(ctx, q)
	case models.IntentRiskLevel:
		return s.handleRiskLevel(ctx, q)
	case models.IntentRiskRanking:
		return s.handleRiskRanking(ctx, q)
	case models.IntentHighestRiskCountry:
		return s.handleHighestRisk(ctx, q)
	case models.IntentRankPM25:
		return s.handleRankPM25(ctx, q)
	case models.IntentStabilityPM25:
		return s.handleStability(ctx, q)
	case models.IntentFastestImprovement:
		return s.handleFastestImprovement(ctx, q)
	case models.IntentLowestHealthBurden:
		return s.handleLowestBurden(ctx, q)
	case models.IntentSensitivityPM25Deaths:
		return s.handleSensitivity(ctx, q)
	case models.IntentDeathsChangeYoY:
		return s.handleDeathsYoY(ctx, q)
	case models.IntentExplainability:
		return s.handleExplain(ctx, q)
	case models.IntentBestMonth:
		return s.handleMonthExtreme(ctx, q, true)
	case models.IntentWorstMonth:
		return s.handleMonthExtreme(ctx, q, false)
	case models.IntentListCountries:
		return s.handleListCountries(ctx)
	default:
		return nil, errors.NewUnrecognizedIntent(q.RawMessage)
	}
}

func (s *Service) handleForecast(ctx context.Context, q models.ParsedQuery) (*models.Result, error) {
	country, err := s.requireCountry(q, models.IntentPM25Forecast)
	if err != nil {
		return nil, err
	}
	result, err := s.predictCached(ctx, country, s.year(q))
	if err != nil {
		return nil, err
	}
	return &models.Result{Data: result, Answer: answerForecast(result)}, nil
}

func (s *Service) handleForecastMonthly(ctx context.Context, q models.ParsedQuery) (*models.Result, error) {
	country, err := s.requireCountry(q, models.IntentPM25ForecastMonthly)
	if err != nil {
		return nil, err
	}
	if q.Month == 0 {
		return nil, errors.NewMissingRequiredEntity("month", string(models.IntentPM25ForecastMonthly))
	}
	result, err := s.forecaster.PredictMonthly(ctx, country, s.year(q), q.Month)
	if err != nil {
		return nil, err
	}
	return &models.Result{Data: result, Answer: answerMonthly(result)}, nil
}

func (s *Service) handlePM25Change(ctx context.Context, q models.ParsedQuery) (*models.Result, error) {
	country, err := s.requireCountry(q, models.IntentPM25Change)
	if err != nil {
		return nil, err
	}
	if !q.HasYearRange() {
		return nil, errors.NewMissingRequiredEntity("year range", string(models.IntentPM25Change))
	}
	result, err := s.forecaster.ChangeBetween(ctx, country, q.YearStart, q.YearEnd)
	if err != nil {
		return nil, err
	}
	return &models.Result{Data: result, Answer: answerChange(result)}, nil
}

func (s *Service) handleHealthDeaths(ctx context.Context, q models.ParsedQuery) (*models.Result, error) {
	country, err := s.requireCountry(q, models.IntentHealthDeaths)
	if err != nil {
		return nil, err
	}
	year := s.year(q)
	pred, err := s.predictCached(ctx, country, year)
	if err != nil {
		return nil, err
	}
	result, err := s.health.CalculateFiltered(ctx, country, pred.PredictedPM25, year, q.AgeGroup, q.Disease)
	if err != nil {
		return nil, err
	}
	return &models.Result{Data: result, Answer: answerDeaths(result)}, nil
}

func (s *Service) handleHealthRate(ctx context.Context, q models.ParsedQuery) (*models.Result, error) {
	country, err := s.requireCountry(q, models.IntentHealthRate)
	if err != nil {
		return nil, err
	}
	year := s.year(q)
	pred, err := s.predictCached(ctx, country, year)
	if err != nil {
		return nil, err
	}
	result, err := s.health.Calculate(ctx, country, pred.PredictedPM25, year)
	if err != nil {
		return nil, err
	}
	return &models.Result{Data: result, Answer: answerRate(result)}, nil
}

func (s *Service) handleHealthDALYs(ctx context.Context, q models.ParsedQuery) (*models.Result, error) {
	country, err := s.requireCountry(q, models.IntentHealthDALYs)
	if err != nil {
		return nil, err
	}
	year := s.year(q)
	pred, err := s.predictCached(ctx, country, year)
	if err != nil {
		return nil, err
	}
	result, err := s.health.Calculate(ctx, country, pred.PredictedPM25, year)
	if err != nil {
		return nil, err
	}
	dalys := health.DALYs(result.TotalDeaths)
	data := map[string]interface{}{
		"country": country,
		"year":    year,
		"deaths":  result.TotalDeaths,
		"dalys":   dalys,
	}
	return &models.Result{Data: data, Answer: answerDALYs(country, year, result.TotalDeaths, dalys)}, nil
}

func (s *Service) handleTopDiseases(ctx context.Context, q models.ParsedQuery) (*models.Result, error) {
	country, err := s.requireCountry(q, models.IntentTopDiseases)
	if err != nil {
		return nil, err
	}
	year := s.year(q)
	pred, err := s.predictCached(ctx, country, year)
	if err != nil {
		return nil, err
	}
	diseases, err := s.health.TopDiseases(ctx, country, pred.PredictedPM25, year, 3)
	if err != nil {
		return nil, err
	}
	data := map[string]interface{}{
		"country":  country,
		"year":     year,
		"diseases": diseases,
	}
	return &models.Result{Data: data, Answer: answerTopDiseases(country, year, diseases)}, nil
}

func (s *Service) handleScenario(ctx context.Context, q models.ParsedQuery) (*models.Result, error) {
	country, err := s.requireCountry(q, models.IntentScenarioPM25Change)
	if err != nil {
		return nil, err
	}
	percent := 15.0
	if q.Percent != nil {
		percent = *q.Percent
	}
	signed := percent * float64(q.PercentSign)
	if q.PercentSign == 0 {
		signed = -percent
	}
	result, err := s.analytics.SimulateChange(ctx, country, s.year(q), signed)
	if err != nil {
		return nil, err
	}
	return &models.Result{Data: result, Answer: answerScenario(result)}, nil
}

func (s *Service) handleCompare(ctx context.Context, q models.ParsedQuery) (*models.Result, error) {
	if len(q.Countries) < 2 {
		return nil, errors.NewMissingRequiredEntity("two countries", string(models.IntentCompareHealth))
	}
	a, err := s.canonical(q.Countries[0])
	if err != nil {
		return nil, err
	}
	b, err := s.canonical(q.Countries[1])
	if err != nil {
		return nil, err
	}
	result, err := s.analytics.CompareHealth(ctx, a, b, s.year(q))
	if err != nil {
		return nil, err
	}
	return &models.Result{Data: result, Answer: answerCompare(result)}, nil
}

func (s *Service) handleTrend(ctx context.Context, q models.ParsedQuery) (*models.Result, error) {
	country, err := s.requireCountry(q, models.IntentTrendPM25)
	if err != nil {
		return nil, err
	}
	start, end := q.YearStart, q.YearEnd
	if !q.HasYearRange() {
		start = s.year(q)
		end = start + trendWindowYears
	}
	result, err := s.analytics.Trend(ctx, country, start, end)
	if err != nil {
		return nil, err
	}
	return &models.Result{Data: result, Answer: answerTrend(result)}, nil
}

func (s *Service) handleRiskLevel(ctx context.Context, q models.ParsedQuery) (*models.Result, error) {
	country, err := s.requireCountry(q, models.IntentRiskLevel)
	if err != nil {
		return nil, err
	}
	result, err := s.analytics.RiskLevel(ctx, country, s.year(q))
	if err != nil {
		return nil, err
	}
	return &models.Result{Data: result, Answer: answerRiskLevel(result)}, nil
}

func (s *Service) handleRiskRanking(ctx context.Context, q models.ParsedQuery) (*models.Result, error) {
	countries, err := s.scope(q)
	if err != nil {
		return nil, err
	}
	ranked := s.analytics.RankByRisk(ctx, countries, s.year(q))
	return &models.Result{Data: ranked, Answer: answerRiskRanking(ranked, s.year(q))}, nil
}

func (s *Service) handleHighestRisk(ctx context.Context, q models.ParsedQuery) (*models.Result, error) {
	countries, err := s.scope(q)
	if err != nil {
		return nil, err
	}
	top, ok := s.analytics.HighestRisk(ctx, countries, s.year(q))
	if !ok {
		return nil, errors.NewMissingRequiredEntity("countries with data", string(models.IntentHighestRiskCountry))
	}
	return &models.Result{Data: top, Answer: answerHighestRisk(top, s.year(q))}, nil
}

func (s *Service) handleRankPM25(ctx context.Context, q models.ParsedQuery) (*models.Result, error) {
	countries, err := s.scope(q)
	if err != nil {
		return nil, err
	}
	ascending := wantsCleanest(q.RawMessage)
	ranked := s.analytics.RankPM25(ctx, countries, s.year(q), 10, ascending)
	return &models.Result{Data: ranked, Answer: answerRankPM25(ranked, s.year(q), ascending)}, nil
}

func (s *Service) handleStability(ctx context.Context, q models.ParsedQuery) (*models.Result, error) {
	countries, err := s.scope(q)
	if err != nil {
		return nil, err
	}
	start, end := s.analysisWindow(q)
	ranked := s.analytics.RankStability(ctx, countries, start, end)
	return &models.Result{Data: ranked, Answer: answerStability(ranked)}, nil
}

func (s *Service) handleFastestImprovement(ctx context.Context, q models.ParsedQuery) (*models.Result, error) {
	countries, err := s.scope(q)
	if err != nil {
		return nil, err
	}
	start, end := s.analysisWindow(q)
	ranked := s.analytics.FastestImproving(ctx, countries, start, end)
	return &models.Result{Data: ranked, Answer: answerImprovement(ranked)}, nil
}

func (s *Service) handleLowestBurden(ctx context.Context, q models.ParsedQuery) (*models.Result, error) {
	countries, err := s.scope(q)
	if err != nil {
		return nil, err
	}
	metric := "deaths"
	if mentionsDALYs(q.RawMessage) {
		metric = "dalys"
	}
	ranked := s.analytics.LowestHealthBurden(ctx, countries, s.year(q), metric)
	return &models.Result{Data: ranked, Answer: answerLowestBurden(ranked, s.year(q))}, nil
}

func (s *Service) handleSensitivity(ctx context.Context, q models.ParsedQuery) (*models.Result, error) {
	countries, err := s.scope(q)
	if err != nil {
		return nil, err
	}
	delta := -5.0
	if q.Percent != nil {
		delta = -*q.Percent
		if q.PercentSign > 0 {
			delta = *q.Percent
		}
	}
	result := s.analytics.Sensitivity(ctx, countries, s.year(q), delta)
	return &models.Result{Data: result, Answer: answerSensitivity(result)}, nil
}

func (s *Service) handleDeathsYoY(ctx context.Context, q models.ParsedQuery) (*models.Result, error) {
	country, err := s.requireCountry(q, models.IntentDeathsChangeYoY)
	if err != nil {
		return nil, err
	}
	result, err := s.analytics.DeathsChangeYoY(ctx, country, s.year(q))
	if err != nil {
		return nil, err
	}
	return &models.Result{Data: result, Answer: answerDeathsYoY(result)}, nil
}

func (s *Service) handleExplain(ctx context.Context, q models.ParsedQuery) (*models.Result, error) {
	country, err := s.requireCountry(q, models.IntentExplainability)
	if err != nil {
		return nil, err
	}
	result, err := s.analytics.Explain(ctx, country, s.year(q))
	if err != nil {
		return nil, err
	}
	return &models.Result{Data: result, Answer: answerExplain(result)}, nil
}

func (s *Service) handleMonthExtreme(ctx context.Context, q models.ParsedQuery, best bool) (*models.Result, error) {
	intent := models.IntentBestMonth
	if !best {
		intent = models.IntentWorstMonth
	}
	country, err := s.requireCountry(q, intent)
	if err != nil {
		return nil, err
	}
	year := s.year(q)
	if best {
		result, err := s.analytics.BestMonth(ctx, country, year)
		if err != nil {
			return nil, err
		}
		return &models.Result{Data: result, Answer: answerMonthExtreme(result)}, nil
	}
	result, err := s.analytics.WorstMonth(ctx, country, year)
	if err != nil {
		return nil, err
	}
	return &models.Result{Data: result, Answer: answerMonthExtreme(result)}, nil
}

func (s *Service) handleListCountries(ctx context.Context) (*models.Result, error) {
	infos, err := s.provider.Countries(ctx)
	if err != nil {
		return nil, err
	}
	return &models.Result{Data: infos, Answer: answerCountries(infos)}, nil
}

// analysisWindow picks the year span for window-based rankings.
func (s *Service) analysisWindow(q models.ParsedQuery) (int, int) {
	if q.HasYearRange() {
		return q.YearStart, q.YearEnd
	}
	end := s.year(q)
	return end - trendWindowYears, end
}
