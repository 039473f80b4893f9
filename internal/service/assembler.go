// internal/service/assembler.go
package service

import (
	"fmt"
	"strings"

	"aq-insight/internal/analytics"
	"aq-insight/internal/models"
)

// Answer assembly: each handler's data payload gets a one-paragraph
// plain-text summary suitable for a chat response.

func answerForecast(r *models.AnnualForecast) string {
	return fmt.Sprintf("Predicted PM2.5 for %s in %d is %.2f µg/m³ (confidence: %s).",
		r.Country, r.TargetYear, r.PredictedPM25, r.Confidence.Level)
}

func answerMonthly(r *models.MonthlyForecast) string {
	return fmt.Sprintf("Predicted PM2.5 for %s in %s %d is %.2f µg/m³ (annual mean %.2f, seasonal factor %.2f).",
		r.Country, r.MonthName, r.TargetYear, r.PredictedPM25, r.AnnualPM25, r.SeasonalFactor)
}

func answerChange(r *models.PM25Change) string {
	direction := "fell"
	if r.AbsChange > 0 {
		direction = "rose"
	} else if r.AbsChange == 0 {
		direction = "held steady"
	}
	return fmt.Sprintf("PM2.5 in %s %s from %.2f µg/m³ in %d to %.2f µg/m³ in %d (%+.1f%%).",
		r.Country, direction, r.PM25Y1, r.Year1, r.PM25Y2, r.Year2, r.PctChange)
}

func answerDeaths(r *models.HealthResult) string {
	scope := ""
	if r.AgeGroup != "" {
		scope = fmt.Sprintf(" among %s", strings.ToLower(r.AgeGroup))
	}
	return fmt.Sprintf("An estimated %.0f deaths%s in %s in %d are attributable to PM2.5 exposure of %.2f µg/m³ (95%% CI %.0f-%.0f).",
		r.TotalDeaths, scope, r.Country, r.TargetYear, r.PM25Level, r.TotalCILower, r.TotalCIUpper)
}

func answerRate(r *models.HealthResult) string {
	return fmt.Sprintf("The pollution-attributable death rate in %s in %d is %.1f per 100,000 (total %.0f deaths at %.2f µg/m³).",
		r.Country, r.TargetYear, r.RatePer100k, r.TotalDeaths, r.PM25Level)
}

func answerDALYs(country string, year int, deaths, dalys float64) string {
	return fmt.Sprintf("Air pollution in %s in %d accounts for roughly %.0f DALYs (from %.0f attributed deaths).",
		country, year, dalys, deaths)
}

func answerTopDiseases(country string, year int, diseases []models.DiseaseImpact) string {
	if len(diseases) == 0 {
		return fmt.Sprintf("No pollution-attributable disease burden found for %s in %d.", country, year)
	}
	names := make([]string, 0, len(diseases))
	for _, d := range diseases {
		names = append(names, fmt.Sprintf("%s (%.0f deaths)", d.Disease, d.AttributedDeaths))
	}
	return fmt.Sprintf("Top pollution-linked diseases in %s for %d: %s.",
		country, year, strings.Join(names, ", "))
}

func answerScenario(r *analytics.ScenarioResult) string {
	if r.IsIncrease {
		return fmt.Sprintf("If PM2.5 in %s rises %.1f%% in %d (%.2f to %.2f µg/m³), attributed deaths grow from %.0f to %.0f, about %.0f additional deaths.",
			r.Country, r.PercentChange, r.Year, r.BaselinePM25, r.ScenarioPM25,
			r.BaselineDeaths, r.ScenarioDeaths, r.AdditionalDeaths)
	}
	return fmt.Sprintf("If PM2.5 in %s falls %.1f%% in %d (%.2f to %.2f µg/m³), attributed deaths drop from %.0f to %.0f, preventing about %.0f deaths.",
		r.Country, -r.PercentChange, r.Year, r.BaselinePM25, r.ScenarioPM25,
		r.BaselineDeaths, r.ScenarioDeaths, r.PreventedDeaths)
}

func answerCompare(r *analytics.CompareResult) string {
	return fmt.Sprintf("In %d, %s carries the higher burden: %s has %.0f attributed deaths at %.2f µg/m³ vs %s with %.0f at %.2f µg/m³ (difference %.0f).",
		r.Year, r.Higher, r.CountryA, r.DeathsA, r.PM25A, r.CountryB, r.DeathsB, r.PM25B, r.Diff)
}

func answerTrend(r *analytics.TrendResult) string {
	return fmt.Sprintf("PM2.5 in %s is %s over %d-%d (%+.1f%% total). %s.",
		r.Country, strings.ToLower(r.Direction), r.StartYear, r.EndYear, r.PctChange,
		strings.TrimSuffix(r.Stability, "."))
}

func answerRiskLevel(r *analytics.RiskLevelResult) string {
	return fmt.Sprintf("%s is rated %s risk for %d: PM2.5 %.2f µg/m³, composite risk score %.1f/100, about %.0f attributed deaths.",
		r.Country, r.RiskTier, r.Year, r.PM25, r.RiskScore, r.Deaths)
}

func answerRiskRanking(ranked []analytics.RiskEntry, year int) string {
	if len(ranked) == 0 {
		return "No countries could be ranked."
	}
	n := len(ranked)
	if n > 5 {
		n = 5
	}
	parts := make([]string, 0, n)
	for i := 0; i < n; i++ {
		parts = append(parts, fmt.Sprintf("%d. %s (score %.1f, %.2f µg/m³)",
			i+1, ranked[i].Country, ranked[i].RiskScore, ranked[i].PM25))
	}
	return fmt.Sprintf("Risk ranking for %d: %s.", year, strings.Join(parts, "; "))
}

func answerHighestRisk(top analytics.RiskEntry, year int) string {
	return fmt.Sprintf("%s carries the highest composite risk for %d: score %.1f/100 at %.2f µg/m³ (%s).",
		top.Country, year, top.RiskScore, top.PM25, top.RiskTier)
}

func answerRankPM25(ranked []analytics.PM25Rank, year int, ascending bool) string {
	if len(ranked) == 0 {
		return "No countries could be ranked."
	}
	label := "Most polluted"
	if ascending {
		label = "Cleanest"
	}
	n := len(ranked)
	if n > 5 {
		n = 5
	}
	parts := make([]string, 0, n)
	for i := 0; i < n; i++ {
		parts = append(parts, fmt.Sprintf("%d. %s (%.2f µg/m³)", i+1, ranked[i].Country, ranked[i].PM25))
	}
	return fmt.Sprintf("%s countries for %d: %s.", label, year, strings.Join(parts, "; "))
}

func answerStability(ranked []analytics.StabilityRank) string {
	if len(ranked) == 0 {
		return "No countries could be ranked by stability."
	}
	top := ranked[0]
	return fmt.Sprintf("%s has the most stable PM2.5 pattern (CV %.2f%%, mean %.2f µg/m³); %d countries ranked.",
		top.Country, top.CV, top.MeanPM25, len(ranked))
}

func answerImprovement(ranked []analytics.ImprovementRank) string {
	if len(ranked) == 0 {
		return "No countries could be ranked by improvement."
	}
	top := ranked[0]
	return fmt.Sprintf("%s is improving fastest: PM2.5 %s %.1f%% (%.2f to %.2f µg/m³) over the window.",
		top.Country, strings.ToLower(top.Direction), abs1(top.PctChange), top.PM25Start, top.PM25End)
}

func answerLowestBurden(ranked []analytics.BurdenRank, year int) string {
	if len(ranked) == 0 {
		return "No countries with health burden data in scope."
	}
	top := ranked[0]
	return fmt.Sprintf("%s has the lowest pollution health burden for %d: %.0f %s at %.2f µg/m³.",
		top.Country, year, top.Value, strings.ToLower(top.Metric), top.PM25)
}

func answerSensitivity(r *analytics.SensitivityResult) string {
	if len(r.PerCountry) == 0 {
		return "No countries with enough data for sensitivity analysis."
	}
	top := r.PerCountry[0]
	return fmt.Sprintf("Deaths are most sensitive to PM2.5 in %s: about %.1f deaths prevented per 1%% reduction (average %.1f across %d countries).",
		top.Country, top.PreventedPer1Pct, r.AvgPreventedPer1, len(r.PerCountry))
}

func answerDeathsYoY(r *analytics.DeathsYoYResult) string {
	if r.PrevYear == 0 {
		return fmt.Sprintf("Attributed deaths in %s for %d are about %.0f, but no prior-year data is available for comparison.",
			r.Country, r.Year, r.DeathsCurrent)
	}
	return fmt.Sprintf("Attributed deaths in %s %s from %.0f in %d to %.0f in %d (%+.1f%%).",
		r.Country, strings.ToLower(r.Direction), r.DeathsPrevious, r.PrevYear, r.DeathsCurrent, r.Year, r.PctChange)
}

func answerExplain(r *analytics.ExplainResult) string {
	features := make([]string, 0, len(r.PollutionDrivers))
	for _, d := range r.PollutionDrivers {
		features = append(features, d.Feature)
	}
	return fmt.Sprintf("The %d forecast for %s (%.2f µg/m³) is driven mainly by: %s. %s.",
		r.Year, r.Country, r.PM25, strings.Join(features, "; "), r.ConfidenceNote)
}

func answerMonthExtreme(r *analytics.MonthExtreme) string {
	if r.Kind == "best" {
		return fmt.Sprintf("The cleanest month in %s for %d is %s at about %.2f µg/m³.",
			r.Country, r.Year, r.MonthName, r.PM25)
	}
	return fmt.Sprintf("The most polluted month in %s for %d is %s at about %.2f µg/m³.",
		r.Country, r.Year, r.MonthName, r.PM25)
}

func answerCountries(infos []models.CountryInfo) string {
	names := make([]string, 0, len(infos))
	for _, info := range infos {
		names = append(names, info.Name)
	}
	return fmt.Sprintf("Data covers %d countries: %s.", len(infos), strings.Join(names, ", "))
}

// wantsCleanest flips a PM2.5 ranking to ascending order.
func wantsCleanest(raw string) bool {
	lowered := strings.ToLower(raw)
	return strings.Contains(lowered, "cleanest") ||
		strings.Contains(lowered, "least polluted") ||
		strings.Contains(lowered, "lowest pm")
}

func mentionsDALYs(raw string) bool {
	return strings.Contains(strings.ToLower(raw), "daly")
}

func abs1(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
