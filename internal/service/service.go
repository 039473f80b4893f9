// internal/service/service.go
package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"aq-insight/internal/analytics"
	"aq-insight/internal/common/errors"
	"aq-insight/internal/common/logger"
	"aq-insight/internal/common/metrics"
	"aq-insight/internal/common/observability"
	"aq-insight/internal/forecast"
	"aq-insight/internal/health"
	"aq-insight/internal/models"
	"aq-insight/internal/nlp"
	"aq-insight/internal/refdata"
	"aq-insight/internal/regions"
)

// Service runs the full query pipeline: parse, dispatch, execute, and
// assemble the response envelope.
type Service struct {
	parser      *nlp.Parser
	dispatcher  *nlp.Dispatcher
	regions     *regions.Resolver
	forecaster  *forecast.Forecaster
	health      *health.Engine
	analytics   *analytics.Analytics
	provider    refdata.Provider
	cache       *ForecastCache
	obs         *observability.Observability
	log         logger.Logger
	defaultYear func() int
}

// Options bundles the pipeline dependencies. Cache and Obs may be nil.
type Options struct {
	Parser     *nlp.Parser
	Dispatcher *nlp.Dispatcher
	Regions    *regions.Resolver
	Forecaster *forecast.Forecaster
	Health     *health.Engine
	Analytics  *analytics.Analytics
	Provider   refdata.Provider
	Cache      *ForecastCache
	Obs        *observability.Observability
	Logger     logger.Logger

	// CurrentYear pins the reference year for defaulting; zero means
	// the calendar year at construction time.
	CurrentYear int
}

func New(opts Options) *Service {
	defaultYear := func() int { return time.Now().Year() + 1 }
	if opts.CurrentYear != 0 {
		year := opts.CurrentYear
		defaultYear = func() int { return year + 1 }
	}
	return &Service{
		parser:      opts.Parser,
		dispatcher:  opts.Dispatcher,
		regions:     opts.Regions,
		forecaster:  opts.Forecaster,
		health:      opts.Health,
		analytics:   opts.Analytics,
		provider:    opts.Provider,
		cache:       opts.Cache,
		obs:         opts.Obs,
		log:         opts.Logger,
		defaultYear: defaultYear,
	}
}

// DefaultYear reports the year used when a query names none.
func (s *Service) DefaultYear() int {
	return s.defaultYear()
}

// Handle answers one natural language question.
func (s *Service) Handle(ctx context.Context, message string) *models.Result {
	requestID := uuid.New().String()
	log := s.log.WithFields(map[string]interface{}{"request_id": requestID})

	start := time.Now()
	q := s.parser.Parse(message)
	intent := s.dispatcher.Dispatch(q)

	log.Info("handling query", map[string]interface{}{
		"intent":    string(intent),
		"countries": q.Countries,
		"year":      q.Year,
	})

	result, err := s.execute(ctx, intent, q)
	duration := time.Since(start)

	metrics.QueryDuration.WithLabelValues(string(intent)).Observe(duration.Seconds())
	if s.obs != nil {
		s.obs.RecordQueryProcessed(ctx, string(intent))
		s.obs.RecordQueryDuration(ctx, duration, string(intent))
	}

	if err != nil {
		se := errors.AsStandard(err)
		metrics.QueriesFailed.WithLabelValues(string(intent), se.Code).Inc()
		log.Warn("query failed", map[string]interface{}{
			"intent": string(intent),
			"code":   se.Code,
			"error":  se.Message,
		})
		return &models.Result{
			Intent:    intent,
			Parsed:    q,
			ErrorCode: se.Code,
			ErrorMsg:  se.Message,
		}
	}

	metrics.QueriesHandled.WithLabelValues(string(intent)).Inc()
	result.Intent = intent
	result.Parsed = q
	return result
}

// year picks the asked-for year, falling back to next calendar year.
func (s *Service) year(q models.ParsedQuery) int {
	if q.Year != 0 {
		return q.Year
	}
	return s.defaultYear()
}

// requireCountry resolves the single-country scope for an intent.
func (s *Service) requireCountry(q models.ParsedQuery, intent models.Intent) (string, error) {
	if q.Country == "" {
		return "", errors.NewMissingRequiredEntity("country", string(intent))
	}
	return s.canonical(q.Country)
}

// canonical maps a parsed country name to its stored form.
func (s *Service) canonical(country string) (string, error) {
	if stored, ok := s.provider.Canonical(regions.CanonicalCountry(country)); ok {
		return stored, nil
	}
	return "", errors.NewUnknownCountry(country)
}

// scope resolves the country list an aggregate intent runs over:
// explicit countries first, then the named region, then everything.
func (s *Service) scope(q models.ParsedQuery) ([]string, error) {
	if len(q.Countries) > 0 {
		out := make([]string, 0, len(q.Countries))
		for _, c := range q.Countries {
			stored, err := s.canonical(c)
			if err != nil {
				continue
			}
			out = append(out, stored)
		}
		if len(out) > 0 {
			return out, nil
		}
	}
	_, countries, err := s.regions.Resolve(q.Region)
	if err != nil {
		return nil, err
	}
	return countries, nil
}

// predictCached wraps the forecaster with the Redis cache.
func (s *Service) predictCached(ctx context.Context, country string, year int) (*models.AnnualForecast, error) {
	if cached := s.cache.Get(ctx, country, year); cached != nil {
		return cached, nil
	}
	result, err := s.forecaster.Predict(ctx, country, year)
	if err != nil {
		return nil, err
	}
	s.cache.Set(ctx, result)
	return result, nil
}

// Countries lists every country with observed history.
func (s *Service) Countries(ctx context.Context) ([]models.CountryInfo, error) {
	return s.provider.Countries(ctx)
}

// Predict exposes the annual forecast as a direct operation.
func (s *Service) Predict(ctx context.Context, country string, year int) (*models.AnnualForecast, error) {
	stored, err := s.canonical(country)
	if err != nil {
		return nil, err
	}
	return s.predictCached(ctx, stored, year)
}

// HealthRisk exposes the health assessment as a direct operation.
func (s *Service) HealthRisk(ctx context.Context, country string, year int, ageGroup, disease string) (*models.HealthResult, error) {
	stored, err := s.canonical(country)
	if err != nil {
		return nil, err
	}
	pred, err := s.predictCached(ctx, stored, year)
	if err != nil {
		return nil, err
	}
	return s.health.CalculateFiltered(ctx, stored, pred.PredictedPM25, year, ageGroup, disease)
}

// DebugParse exposes the parse and dispatch outcome for inspection.
func (s *Service) DebugParse(message string) map[string]interface{} {
	q := s.parser.Parse(message)
	intent := s.dispatcher.Dispatch(q)
	return map[string]interface{}{
		"intent":       string(intent),
		"parsed_query": q,
	}
}

// DebugStatus reports the loaded model and dataset coverage.
func (s *Service) DebugStatus(ctx context.Context) (map[string]interface{}, error) {
	infos, err := s.provider.Countries(ctx)
	if err != nil {
		return nil, err
	}
	ranges := make(map[string]map[string]int, len(infos))
	for _, info := range infos {
		ranges[info.Name] = map[string]int{
			"start_year":  info.StartYear,
			"end_year":    info.EndYear,
			"data_points": info.DataPoints,
		}
	}
	model := s.forecaster.Model()
	status := map[string]interface{}{
		"model_loaded":  model != nil,
		"country_count": len(infos),
		"data_ranges":   ranges,
		"default_year":  s.defaultYear(),
		"cache_enabled": s.cache != nil,
	}
	if model != nil {
		status["model_name"] = model.Name
		status["feature_importances"] = model.FeatureImportances()
	}
	return status, nil
}
