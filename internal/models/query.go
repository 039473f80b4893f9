// internal/models/query.go
package models

// Intent identifies which analytics handler answers a query. The set is
// closed; dispatch never invents new values.
type Intent string

const (
	IntentScenarioPM25Change    Intent = "SCENARIO_PM25_CHANGE"
	IntentSensitivityPM25Deaths Intent = "SENSITIVITY_PM25_DEATHS"
	IntentLowestHealthBurden    Intent = "LOWEST_HEALTH_BURDEN"
	IntentFastestImprovement    Intent = "FASTEST_IMPROVEMENT_PM25"
	IntentStabilityPM25         Intent = "STABILITY_PM25"
	IntentRankPM25              Intent = "RANK_PM25"
	IntentDeathsChangeYoY       Intent = "DEATHS_CHANGE_YOY"
	IntentRiskRanking           Intent = "RISK_RANKING"
	IntentHighestRiskCountry    Intent = "HIGHEST_RISK_COUNTRY"
	IntentHealthDALYs           Intent = "HEALTH_DALYS"
	IntentExplainability        Intent = "EXPLAINABILITY"
	IntentRiskLevel             Intent = "RISK_LEVEL"
	IntentTrendPM25             Intent = "TREND_PM25"
	IntentCompareHealth         Intent = "COMPARE_HEALTH"
	IntentPM25Change            Intent = "PM25_CHANGE"
	IntentHealthRate            Intent = "HEALTH_RATE"
	IntentHealthDeaths          Intent = "HEALTH_DEATHS"
	IntentTopDiseases           Intent = "TOP_DISEASES"
	IntentBestMonth             Intent = "BEST_MONTH"
	IntentWorstMonth            Intent = "WORST_MONTH"
	IntentPM25Forecast          Intent = "PM25_FORECAST"
	IntentPM25ForecastMonthly   Intent = "PM25_FORECAST_MONTHLY"
	IntentListCountries         Intent = "LIST_COUNTRIES"
	IntentUnknown               Intent = "UNKNOWN"
)

// Age groups recognized by the parser and the health engine.
const (
	AgeChildren = "children"
	AgeAdults   = "adults"
	AgeElderly  = "elderly"
)

// ParsedQuery is the typed entity bundle extracted from one message.
// Every field is optional; zero values mean "not present in the text".
type ParsedQuery struct {
	Countries   []string `json:"countries,omitempty"`
	Country     string   `json:"country,omitempty"`
	Region      string   `json:"region,omitempty"`
	Year        int      `json:"year,omitempty"`
	YearStart   int      `json:"year_start,omitempty"`
	YearEnd     int      `json:"year_end,omitempty"`
	Month       int      `json:"month,omitempty"` // 1-12
	Percent     *float64 `json:"percent,omitempty"`
	PercentSign int      `json:"percent_sign,omitempty"` // +1, -1, or 0 when absent
	AgeGroup    string   `json:"age_group,omitempty"`
	Disease     string   `json:"disease,omitempty"`
	RawMessage  string   `json:"raw_message,omitempty"`
}

// HasYearRange reports whether the text named two distinct years.
func (q ParsedQuery) HasYearRange() bool {
	return q.YearStart != 0 && q.YearEnd != 0 && q.YearStart != q.YearEnd
}
