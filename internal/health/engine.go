// internal/health/engine.go
package health

import (
	"context"
	"math"
	"sort"
	"strings"

	"aq-insight/internal/common/logger"
	"aq-insight/internal/models"
	"aq-insight/internal/refdata"
)

// Attributable fraction after age scaling never exceeds this cap.
const maxAttributableFraction = 0.95

// dalyPerDeath approximates disability-adjusted life years per
// attributed death, per the WHO burden literature.
const dalyPerDeath = 12.5

// ageMultipliers scale the attributable fraction for vulnerable
// groups.
var ageMultipliers = map[string]float64{
	models.AgeChildren: 1.3,
	models.AgeAdults:   1.0,
	models.AgeElderly:  1.5,
}

var ageLabels = map[string]string{
	models.AgeChildren: "Children (0-14)",
	models.AgeAdults:   "Adults (15-64)",
	models.AgeElderly:  "Elderly (65+)",
}

// Engine computes pollution-attributable mortality from baseline
// cause-specific deaths and the IER exposure-response curves.
type Engine struct {
	provider refdata.Provider
	log      logger.Logger
}

func NewEngine(provider refdata.Provider, log logger.Logger) *Engine {
	return &Engine{provider: provider, log: log}
}

// Calculate runs the full assessment for one country at a PM2.5 level.
func (e *Engine) Calculate(ctx context.Context, country string, pm25 float64, targetYear int) (*models.HealthResult, error) {
	return e.CalculateFiltered(ctx, country, pm25, targetYear, "", "")
}

// CalculateFiltered runs the assessment with optional age group and
// disease filters. The age multiplier scales every attributable
// fraction; the disease filter narrows the breakdown to matching
// causes while totals still cover only the matches.
func (e *Engine) CalculateFiltered(ctx context.Context, country string, pm25 float64, targetYear int, ageGroup, diseaseFilter string) (*models.HealthResult, error) {
	baseline, err := e.provider.Baseline(ctx, country)
	if err != nil {
		return nil, err
	}

	result := &models.HealthResult{
		Country:        country,
		TargetYear:     targetYear,
		PM25Level:      pm25,
		ExcessExposure: round2(math.Max(0, pm25-TMREL)),
		TMREL:          TMREL,
		AQICategory:    AQICategory(pm25),
	}

	ageMult := 1.0
	if ageGroup != "" {
		if m, ok := ageMultipliers[ageGroup]; ok {
			ageMult = m
			result.AgeGroup = ageLabels[ageGroup]
			result.AgeMultiplier = m
		}
	}

	filter := strings.ToLower(diseaseFilter)
	total := 0.0
	populationProxy := 0.0

	for disease, deaths := range baseline {
		populationProxy += deaths
		if filter != "" && !strings.Contains(strings.ToLower(disease), filter) {
			continue
		}

		rr, af := relativeRisk(pm25, disease)
		if af <= 0 {
			continue
		}
		adjustedAF := math.Min(af*ageMult, maxAttributableFraction)
		attributed := deaths * adjustedAF
		total += attributed

		result.Diseases = append(result.Diseases, models.DiseaseImpact{
			Disease:              disease,
			Category:             diseaseCategory(disease),
			AttributedDeaths:     round1(attributed),
			CILower:              round1(attributed * 0.8),
			CIUpper:              round1(attributed * 1.2),
			BaselineDeaths:       round1(deaths),
			RelativeRisk:         rr,
			AttributableFraction: adjustedAF,
		})
	}

	// Highest burden first; ties break on disease name so the order
	// is deterministic.
	sort.Slice(result.Diseases, func(i, j int) bool {
		if result.Diseases[i].AttributedDeaths != result.Diseases[j].AttributedDeaths {
			return result.Diseases[i].AttributedDeaths > result.Diseases[j].AttributedDeaths
		}
		return result.Diseases[i].Disease < result.Diseases[j].Disease
	})

	result.TotalDeaths = math.Round(total)
	result.TotalCILower = math.Round(total * 0.8)
	result.TotalCIUpper = math.Round(total * 1.2)
	result.PopulationProxy = math.Round(populationProxy)
	if populationProxy > 0 {
		result.RatePer100k = round1(total / populationProxy * 100000)
	}
	result.DataNote = "Aggregated baseline"
	if shares, ok := e.provider.AgeShares(ctx, country); ok && ageGroup != "" {
		if share, ok := shares[ageGroup]; ok && share > 0 {
			result.DataNote = "Aggregated baseline with age detail"
			// Scale the burden to the group's population share.
			result.TotalDeaths = math.Round(total * share)
			result.TotalCILower = math.Round(total * share * 0.8)
			result.TotalCIUpper = math.Round(total * share * 1.2)
		}
	}
	return result, nil
}

// Deaths returns the attributed death total and the rate per 100 000,
// using summed baseline deaths as the population proxy.
func (e *Engine) Deaths(ctx context.Context, country string, pm25 float64, targetYear int) (deaths, ratePer100k float64, err error) {
	result, err := e.Calculate(ctx, country, pm25, targetYear)
	if err != nil {
		return 0, 0, err
	}
	return result.TotalDeaths, result.RatePer100k, nil
}

// DALYs approximates disability-adjusted life years from deaths.
func DALYs(deaths float64) float64 {
	return math.Round(deaths * dalyPerDeath)
}

// TopDiseases returns the k highest-burden causes.
func (e *Engine) TopDiseases(ctx context.Context, country string, pm25 float64, targetYear, k int) ([]models.DiseaseImpact, error) {
	result, err := e.Calculate(ctx, country, pm25, targetYear)
	if err != nil {
		return nil, err
	}
	if k > 0 && len(result.Diseases) > k {
		return result.Diseases[:k], nil
	}
	return result.Diseases, nil
}

// AQICategory labels a PM2.5 level on the US EPA scale.
func AQICategory(pm25 float64) models.AQICategory {
	switch {
	case pm25 < 12:
		return models.AQICategory{Level: "Good"}
	case pm25 < 35.5:
		return models.AQICategory{Level: "Moderate"}
	case pm25 < 55.5:
		return models.AQICategory{Level: "Unhealthy for Sensitive Groups"}
	case pm25 < 150.5:
		return models.AQICategory{Level: "Unhealthy"}
	case pm25 < 250.5:
		return models.AQICategory{Level: "Very Unhealthy"}
	default:
		return models.AQICategory{Level: "Hazardous"}
	}
}

func round1(v float64) float64 { return math.Round(v*10) / 10 }
func round2(v float64) float64 { return math.Round(v*100) / 100 }
