// internal/models/health.go
package models

// DiseaseImpact is the attributed burden for a single cause of death.
type DiseaseImpact struct {
	Disease              string  `json:"disease"`
	Category             string  `json:"category"`
	AttributedDeaths     float64 `json:"attributed_deaths"`
	CILower              float64 `json:"ci_lower"`
	CIUpper              float64 `json:"ci_upper"`
	BaselineDeaths       float64 `json:"baseline_deaths"`
	RelativeRisk         float64 `json:"relative_risk"`
	AttributableFraction float64 `json:"attributable_fraction"`
}

// AQICategory labels a PM2.5 level on the US EPA scale.
type AQICategory struct {
	Level string `json:"level"`
}

// HealthResult is the full exposure-response assessment for one
// country and year.
type HealthResult struct {
	Country         string          `json:"country"`
	TargetYear      int             `json:"target_year"`
	PM25Level       float64         `json:"pm25_level"`
	ExcessExposure  float64         `json:"excess_exposure"`
	TMREL           float64         `json:"tmrel"`
	AQICategory     AQICategory     `json:"aqi_category"`
	TotalDeaths     float64         `json:"total_attributed_deaths"`
	TotalCILower    float64         `json:"total_ci_lower"`
	TotalCIUpper    float64         `json:"total_ci_upper"`
	RatePer100k     float64         `json:"rate_per_100k"`
	Diseases        []DiseaseImpact `json:"diseases"`
	AgeGroup        string          `json:"age_group,omitempty"`
	AgeMultiplier   float64         `json:"age_multiplier,omitempty"`
	PopulationProxy float64         `json:"population_proxy,omitempty"`
	DataNote        string          `json:"data_note,omitempty"`
}
