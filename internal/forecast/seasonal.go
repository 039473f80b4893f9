// internal/forecast/seasonal.go
package forecast

// Seasonal PM2.5 multipliers by region and month. Dry-season burning
// drives the Southeast Asia peak in February and March; winter
// inversions drive the South and East Asia peaks.
var seasonalPatterns = map[string]map[int]float64{
	"Southeast Asia": {
		1: 1.20, 2: 1.25, 3: 1.20, 4: 1.10, 5: 0.90, 6: 0.80,
		7: 0.75, 8: 0.80, 9: 0.85, 10: 0.95, 11: 1.10, 12: 1.15,
	},
	"South Asia": {
		1: 1.30, 2: 1.25, 3: 1.15, 4: 1.10, 5: 1.05, 6: 0.90,
		7: 0.85, 8: 0.85, 9: 0.90, 10: 1.10, 11: 1.25, 12: 1.30,
	},
	"East Asia": {
		1: 1.25, 2: 1.20, 3: 1.10, 4: 1.00, 5: 0.95, 6: 0.90,
		7: 0.90, 8: 0.95, 9: 1.00, 10: 1.10, 11: 1.20, 12: 1.25,
	},
	"Default": {
		1: 1.15, 2: 1.15, 3: 1.10, 4: 1.05, 5: 0.95, 6: 0.90,
		7: 0.90, 8: 0.90, 9: 0.95, 10: 1.05, 11: 1.10, 12: 1.15,
	},
}

var seasonalRegions = map[string][]string{
	"Southeast Asia": {"Myanmar", "Thailand", "Vietnam", "Laos", "Cambodia",
		"Malaysia", "Singapore", "Indonesia", "Philippines"},
	"South Asia": {"India", "Bangladesh", "Pakistan", "Sri Lanka", "Nepal",
		"Afghanistan", "Bhutan"},
	"East Asia": {"China", "Japan", "South Korea", "North Korea", "Taiwan", "Mongolia"},
}

// seasonalRegion maps a country to its seasonal pattern key.
func seasonalRegion(country string) string {
	for region, countries := range seasonalRegions {
		for _, c := range countries {
			if c == country {
				return region
			}
		}
	}
	return "Default"
}

// seasonalFactor returns the multiplier for a country and month.
// Months outside 1..12 get a flat 1.0.
func seasonalFactor(country string, month int) (string, float64) {
	region := seasonalRegion(country)
	if factor, ok := seasonalPatterns[region][month]; ok {
		return region, factor
	}
	return region, 1.0
}
