// internal/forecast/features.go
package forecast

// computeFeatures builds the regression input for one target year from
// a year-indexed working series. Returns false when the series is too
// short or the immediately preceding year is missing; the caller then
// falls back to persistence.
func computeFeatures(series map[int]float64, targetYear int) ([featureCount]float64, bool) {
	var features [featureCount]float64
	if len(series) < 3 {
		return features, false
	}

	lag1, ok := series[targetYear-1]
	if !ok {
		return features, false
	}

	lag3 := lag1
	if v, ok := series[targetYear-3]; ok {
		lag3 = v
	}

	yoyChange := 0.0
	yoyPct := 0.0
	if lag2, ok := series[targetYear-2]; ok {
		yoyChange = lag1 - lag2
		if lag2 > 0.001 || lag2 < -0.001 {
			yoyPct = yoyChange / lag2
		}
	}

	roll3 := windowMean(series, targetYear-3, targetYear-1, lag1)
	roll5 := windowMean(series, targetYear-5, targetYear-1, lag1)

	features = [featureCount]float64{
		lag1, lag3, yoyChange, yoyPct, roll3, roll5, float64(targetYear),
	}
	return features, true
}

// windowMean averages the values present in [from, to]. When the
// window is empty it returns the fallback.
func windowMean(series map[int]float64, from, to int, fallback float64) float64 {
	sum := 0.0
	n := 0
	for y := from; y <= to; y++ {
		if v, ok := series[y]; ok {
			sum += v
			n++
		}
	}
	if n == 0 {
		return fallback
	}
	return sum / float64(n)
}
