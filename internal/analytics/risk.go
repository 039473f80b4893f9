// internal/analytics/risk.go
package analytics

import (
	"context"
	"math"
	"sort"

	"aq-insight/internal/common/logger"
	"aq-insight/internal/forecast"
	"aq-insight/internal/health"
)

// Analytics computes executive-level rankings, scenarios, and risk
// summaries on top of the forecaster and the health engine.
type Analytics struct {
	forecaster *forecast.Forecaster
	health     *health.Engine
	log        logger.Logger
}

func New(forecaster *forecast.Forecaster, healthEngine *health.Engine, log logger.Logger) *Analytics {
	return &Analytics{forecaster: forecaster, health: healthEngine, log: log}
}

// RiskEntry is one country's composite risk assessment.
type RiskEntry struct {
	Country   string  `json:"country"`
	PM25      float64 `json:"pm25"`
	RiskScore float64 `json:"risk_score"`
	RiskTier  string  `json:"risk_tier"`
	YoYPct    float64 `json:"yoy_pct"`
	Interval  float64 `json:"interval"`
}

// RiskTier classifies a PM2.5 level on the 4-tier scale. Boundaries
// are inclusive on the lower tier.
func RiskTier(pm25 float64) string {
	switch {
	case pm25 < 12.0:
		return "Low"
	case pm25 <= 35.5:
		return "Moderate"
	case pm25 <= 55.5:
		return "High"
	default:
		return "Very High"
	}
}

// normalize rescales a value into [0, 100] over [low, high], clamping
// at the edges.
func normalize(value, low, high float64) float64 {
	if high <= low {
		return 50.0
	}
	n := (value - low) / (high - low) * 100.0
	return math.Max(0.0, math.Min(100.0, n))
}

// RiskScore combines level, trajectory, and uncertainty into a 0-100
// composite. PM2.5 dominates at 60%, year-over-year momentum carries
// 25%, and the prediction interval width 15%.
func RiskScore(pm25, yoyPct, interval float64) float64 {
	score := normalize(pm25, 5.0, 100.0)*0.60 +
		normalize(yoyPct, -20.0, 20.0)*0.25 +
		normalize(interval, 0.0, 30.0)*0.15
	return round1(score)
}

// RankByRisk scores every country and sorts by composite risk score
// descending, breaking ties on country name.
func (a *Analytics) RankByRisk(ctx context.Context, countries []string, year int) []RiskEntry {
	entries := make([]RiskEntry, 0, len(countries))
	for _, c := range countries {
		pm25, err := a.forecaster.ValueAt(ctx, c, year)
		if err != nil {
			a.log.Warn("skipping country in risk ranking", map[string]interface{}{
				"country": c, "error": err.Error(),
			})
			continue
		}
		yoy := a.forecaster.YoYChangePct(ctx, c, year, pm25)
		interval := a.forecaster.Uncertainty(ctx, c, year, pm25)
		entries = append(entries, RiskEntry{
			Country:   c,
			PM25:      round2(pm25),
			RiskScore: RiskScore(pm25, yoy, interval),
			RiskTier:  RiskTier(pm25),
			YoYPct:    yoy,
			Interval:  interval,
		})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].RiskScore != entries[j].RiskScore {
			return entries[i].RiskScore > entries[j].RiskScore
		}
		return entries[i].Country < entries[j].Country
	})
	return entries
}

// HighestRisk returns the top entry of the risk ranking, or false when
// no country could be scored.
func (a *Analytics) HighestRisk(ctx context.Context, countries []string, year int) (RiskEntry, bool) {
	ranked := a.RankByRisk(ctx, countries, year)
	if len(ranked) == 0 {
		return RiskEntry{}, false
	}
	return ranked[0], true
}

// RiskLevelResult is the single-country risk card.
type RiskLevelResult struct {
	Country   string  `json:"country"`
	Year      int     `json:"year"`
	PM25      float64 `json:"pm25"`
	RiskTier  string  `json:"risk_tier"`
	RiskScore float64 `json:"risk_score"`
	YoYPct    float64 `json:"yoy_pct"`
	Interval  float64 `json:"interval"`
	Deaths    float64 `json:"deaths"`
}

// RiskLevel builds the risk card for one country.
func (a *Analytics) RiskLevel(ctx context.Context, country string, year int) (*RiskLevelResult, error) {
	pm25, err := a.forecaster.ValueAt(ctx, country, year)
	if err != nil {
		return nil, err
	}
	yoy := a.forecaster.YoYChangePct(ctx, country, year, pm25)
	interval := a.forecaster.Uncertainty(ctx, country, year, pm25)
	deaths, _, err := a.health.Deaths(ctx, country, pm25, year)
	if err != nil {
		return nil, err
	}
	return &RiskLevelResult{
		Country:   country,
		Year:      year,
		PM25:      round2(pm25),
		RiskTier:  RiskTier(pm25),
		RiskScore: RiskScore(pm25, yoy, interval),
		YoYPct:    yoy,
		Interval:  interval,
		Deaths:    deaths,
	}, nil
}

func round1(v float64) float64 { return math.Round(v*10) / 10 }
func round2(v float64) float64 { return math.Round(v*100) / 100 }
