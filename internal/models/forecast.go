// internal/models/forecast.go
package models

// Confidence grades a prediction by forecast horizon.
type Confidence struct {
	Level string  `json:"level"`
	Score float64 `json:"score"`
	Note  string  `json:"note,omitempty"`
}

// ForecastPoint is one year of PM2.5 for a country, observed or predicted.
type ForecastPoint struct {
	Country   string  `json:"country"`
	Year      int     `json:"year"`
	PM25      float64 `json:"pm25"`
	Predicted bool    `json:"is_predicted"`
}

// AnnualForecast is the result of a multi-step recursive prediction.
// Path holds every intermediate year so callers can show the trajectory.
type AnnualForecast struct {
	Country       string          `json:"country"`
	TargetYear    int             `json:"target_year"`
	PredictedPM25 float64         `json:"predicted_pm25"`
	Path          map[int]float64 `json:"prediction_path,omitempty"`
	Unit          string          `json:"unit"`
	Confidence    Confidence      `json:"confidence"`
}

// MonthlyForecast scales an annual prediction by a regional seasonal factor.
type MonthlyForecast struct {
	Country        string     `json:"country"`
	TargetYear     int        `json:"target_year"`
	Month          int        `json:"month"`
	MonthName      string     `json:"month_name"`
	PredictedPM25  float64    `json:"predicted_pm25"`
	AnnualPM25     float64    `json:"annual_pm25"`
	SeasonalFactor float64    `json:"seasonal_factor"`
	Region         string     `json:"region"`
	Unit           string     `json:"unit"`
	Confidence     Confidence `json:"confidence"`
}

// PM25Change compares the level between two years for one country.
type PM25Change struct {
	Country   string  `json:"country"`
	Year1     int     `json:"year1"`
	Year2     int     `json:"year2"`
	PM25Y1    float64 `json:"pm25_year1"`
	PM25Y2    float64 `json:"pm25_year2"`
	AbsChange float64 `json:"absolute_change"`
	PctChange float64 `json:"percent_change"`
}

// CountryInfo summarizes the observed history available for a country.
type CountryInfo struct {
	Name       string `json:"name"`
	StartYear  int    `json:"start_year"`
	EndYear    int    `json:"end_year"`
	DataPoints int    `json:"data_points"`
}
