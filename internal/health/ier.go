// internal/health/ier.go
package health

import "math"

// TMREL is the theoretical minimum risk exposure level in µg/m³.
// Exposure below it carries no attributable risk.
const TMREL = 5.0

// ierParams are GBD 2019 exposure-response curve parameters.
// RR = 1 + alpha * (1 - exp(-gamma * exposure^delta))
type ierParams struct {
	Alpha    float64
	Gamma    float64
	Delta    float64
	Category string
}

var ierCurves = map[string]ierParams{
	"Ischemic heart disease":                {0.2969, 0.0133, 1.0, "Cardiovascular"},
	"Stroke":                                {0.3120, 0.0098, 1.0, "Cardiovascular"},
	"Chronic obstructive pulmonary disease": {0.2680, 0.0105, 1.0, "Respiratory"},
	"Lower respiratory infections":          {0.3570, 0.0154, 1.0, "Respiratory"},
	"Upper respiratory infections":          {0.1850, 0.0120, 1.0, "Respiratory"},
	"Tracheal, bronchus, and lung cancer":   {0.4050, 0.0185, 1.0, "Cancer"},
	"Larynx cancer":                         {0.3200, 0.0160, 1.0, "Cancer"},
	"Tuberculosis":                          {0.2200, 0.0095, 1.0, "Infectious"},
	"Diabetes mellitus":                     {0.1650, 0.0088, 1.0, "Metabolic"},
	"Asthma":                                {0.2350, 0.0110, 1.0, "Respiratory"},
}

// relativeRisk evaluates the IER curve for a disease at a PM2.5 level.
// Returns the relative risk and the attributable fraction. Unknown
// diseases and exposure at or below TMREL carry no risk.
func relativeRisk(pm25 float64, disease string) (rr, af float64) {
	params, ok := ierCurves[disease]
	if !ok {
		return 1.0, 0.0
	}
	exposure := pm25 - TMREL
	if exposure <= 0 {
		return 1.0, 0.0
	}
	rr = 1.0 + params.Alpha*(1.0-math.Exp(-params.Gamma*math.Pow(exposure, params.Delta)))
	af = 1.0 - 1.0/rr
	return round4(rr), round4(af)
}

func diseaseCategory(disease string) string {
	if params, ok := ierCurves[disease]; ok {
		return params.Category
	}
	return "Other"
}

func round4(v float64) float64 { return math.Round(v*10000) / 10000 }
