// internal/nlp/dispatcher.go
package nlp

import (
	"regexp"
	"strings"

	"aq-insight/internal/common/logger"
	"aq-insight/internal/models"
)

// rule pairs an intent with the patterns and entity conditions that
// select it. Rules are evaluated strictly in order; the first match
// wins.
type rule struct {
	intent   models.Intent
	patterns []*regexp.Regexp
	// when set, the rule only fires if the condition over the parsed
	// entities holds, otherwise evaluation falls through to later rules
	condition func(q models.ParsedQuery) bool
}

func compile(exprs ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(exprs))
	for i, e := range exprs {
		out[i] = regexp.MustCompile(e)
	}
	return out
}

// Scenario and ranking style questions must beat the broad catch-alls
// further down, so the table runs from most to least specific.
var dispatchRules = []rule{
	{
		intent: models.IntentScenarioPM25Change,
		patterns: compile(
			`\d+\s*%`,
			`\d+\s+percent`,
			`\b(rise|increase|grow)[sd]?\s+by\s+\d{1,3}\b`,
			`\b(reduce|decrease|drop|cut|lower)\w*\s+by\s+\d{1,3}\b`,
			`\breduce\b`, `\breduction\b`,
			`\bcuts?\s+(pm|pollution)\b`,
			`\bdrop\s+(pm|pollution)\b`,
			`\blower\s*by\b`, `\braise\s*by\b`,
			`\bif\b.*\bredu`, `\bwhat\s+if\b`,
			`\bwhat\s+happens?\b`,
			`\bhow\s+many\s+(deaths?|lives?)\s+(saved|prevented|happen)`,
			`\bbaseline\s+vs\b`,
			`\bsensitive\s+to\s+a\s+\d`,
			`\bmarginal\s+death`,
			`\bwho\s+guideline\b`,
			`\bstays?\s+at\b`,
			`\bdrops?\s+below\b`,
		),
	},
	{
		intent: models.IntentSensitivityPM25Deaths,
		patterns: compile(
			`\bsensitiv\w*\s+(?:to|of)\s+pm`,
			`\bsensitiv\w*\s+(?:to|of)\s+pollution`,
			`\bmost\s+sensitive\b`,
			`\belasticity\b`,
			`\bper\s+1\s*(?:ug|µg|microgram)`,
			`\bmarginal\s+effect\b`,
			`\bdeaths?\s+per\s+(?:ug|µg|unit)\b`,
		),
	},
	{
		intent: models.IntentLowestHealthBurden,
		patterns: compile(
			`\blowest\s+(?:health\s+)?burden\b`,
			`\bleast\s+(?:health\s+)?burden\b`,
			`\blowest\s+deaths?\b`,
			`\bleast\s+deaths?\b`,
			`\bfewest\s+deaths?\b`,
			`\blowest\s+mortality\b`,
			`\blowest\s+dalys?\b`,
			`\bleast\s+dalys?\b`,
		),
	},
	{
		intent: models.IntentFastestImprovement,
		patterns: compile(
			`\bimproving\s+fastest\b`,
			`\bfastest\s+improv`,
			`\bmost\s+improved\b`,
			`\bimproved?\s+most\b`,
			`\bcleaner\s+fastest\b`,
			`\bgetting\s+cleaner\s+fast`,
			`\b(worse|worsening)\s+fastest\b`,
			`\bgetting\s+worse\s+fast`,
		),
	},
	{
		intent: models.IntentStabilityPM25,
		patterns: compile(
			`\bmost\s+stable\b`,
			`\bleast\s+stable\b`,
			`\bstable\s+(?:pollution\s+)?pattern\b`,
			`\bmost\s+volatile\b`,
			`\bleast\s+volatile\b`,
			`\bvolatil`,
			`\bstable\s+or\s+volatile\b`,
		),
	},
	{
		intent: models.IntentRankPM25,
		patterns: compile(
			`\btop\s+\d+\s+(most\s+)?polluted\b`,
			`\bhighest\s+pm2\.?5\b`,
			`\blowest\s+pm2\.?5\b`,
			`\brank\w*\s+by\s+pm2?\.?5?\b`,
			`\brank\w*\s+by\s+pollution\b`,
			`\bmost\s+polluted\b`,
			`\bleast\s+polluted\b`,
			`\bcleanest\b`,
		),
	},
	{
		intent: models.IntentDeathsChangeYoY,
		patterns: compile(
			`\bdeaths?\s+(increase|decrease|change|grew|dropped)\w*\s+(compared|vs|versus|from)\b`,
			`\b(increase|decrease|change)\w*\s+in\s+deaths?\b`,
			`\byoy\s+deaths?\b`,
			`\bdeaths?\s+yoy\b`,
			`\bdeaths?\s+this\s+year\s+vs\b`,
			`\bpollution\s+deaths?\s+(increase|decrease)\w*\s+(compared|vs)\b`,
			`\bdeaths?\s+(increase|decrease)\w*.*\b(compared|last\s+year)\b`,
		),
	},
	{
		intent: models.IntentListCountries,
		patterns: compile(
			`\b(list|show)\s+(of\s+)?(available\s+|supported\s+)?countries\b`,
			`\b(what|which)\s+countries\s+(do\s+you|are\s+(covered|available|supported))`,
			`\bavailable\s+countries\b`,
			`\bcountries\s+in\s+(the\s+)?dataset\b`,
		),
	},
	{
		intent: models.IntentRiskRanking,
		patterns: compile(
			`\branke?d?\s+by\s+risk\b`,
			`\branking\b`,
			`\brisk\s+ranking\b`,
			`\bregional\s+risk\b`,
			`\bacross\s+all\b`,
			`\bshow\s+countries\b`,
			`\branke?d?\b`,
			`\brank\w*\s+by\s+(?:death|mortality)\b`,
			`\brank\w*\s+by\s+death\s+rate\b`,
		),
	},
	{
		intent: models.IntentHighestRiskCountry,
		patterns: compile(
			`\bhighest\s+risk(?:\s+score)?\b`,
			`\bhighest\s+pollution\s+risk\b`,
			`\blowest\s+risk(?:\s+score)?\b`,
			`\bmost\s+dangerous\b`,
			`\bgetting\s+(cleaner|worse)\b.*\bregion\b`,
			`\boverall\b.*\bregion\b`,
		),
	},
	{
		intent: models.IntentHealthDALYs,
		patterns: compile(
			`\bdalys?\b`,
			`\bdisability[- ]adjusted\b`,
		),
	},
	{
		intent: models.IntentExplainability,
		patterns: compile(
			`\bwhy\s+is\b`,
			`\bwhat\s+(are\s+the\s+)?main\s+drivers?\b`,
			`\bfactors?\s+contribut`,
			`\bwhat\s+features?\b`,
			`\bwhat\s+assumptions?\b`,
			`\bhow\s+reliable\b`,
			`\bhow\s+certain\b`,
			`\bwhy\s+does\b`,
			`\bwhy\s+(is\s+)?confidence\b`,
			`\bnonlinear\b`,
			`\bdiminishing\s+returns\b`,
			`\bstructural\s+break\b`,
		),
	},
	{
		intent: models.IntentRiskLevel,
		patterns: compile(
			`\brisk\s+level\b`,
			`\brisk\s+tier\b`,
			`\bhigh\s+risk\b`,
			`\bmoderate\s+risk\b`,
			`\bred\s+zone\b`,
			`\brisk\s+score\b`,
		),
	},
	{
		intent: models.IntentTrendPM25,
		patterns: compile(
			`\btrend\b`, `\btrajectory\b`,
			`\bimproving\b`, `\bimproved\b`,
			`\bworsening\b`,
			`\bincreasing\b`, `\bdecreasing\b`,
			`\bgetting\s+(better|worse|cleaner)\b`,
			`\bover\s+the\s+years?\b`,
			`\bover\s+time\b`,
			`\bover\s+the\s+next\b`,
			`\byear\s+over\s+year\b`,
			`\bprojection\b`, `\bprojected\b`,
			`\bgrowth\s+rate\b`,
			`\b\d+[- ]year\b`,
			`\bphase\b`,
			`\bregime\b`,
			`\bpercentage\s+(increase|decrease)\b`,
			`20\d{2}[\x{2013}-]20\d{2}\b`,
		),
	},
	{
		// A head-to-head needs two countries; with fewer the question
		// falls through to the year-to-year comparison below.
		intent: models.IntentCompareHealth,
		patterns: compile(
			`\bcompare\b`, `\bvs\b`, `\bversus\b`,
		),
		condition: func(q models.ParsedQuery) bool { return len(q.Countries) >= 2 },
	},
	{
		intent: models.IntentPM25Change,
		patterns: compile(
			`\bfrom\s+20\d{2}\s+to\s+20\d{2}\b`,
			`\bbetween\s+20\d{2}\s+and\s+20\d{2}\b`,
			`\bsince\s+20\d{2}\b`,
			`\bchange\b`,
			`\bdifference\b`,
			`\b20\d{2}\s+vs\s+20\d{2}\b`,
			`\boutlook\b`,
		),
	},
	{
		intent: models.IntentHealthRate,
		patterns: compile(
			`\bper\s+100[,.]?000\b`,
			`\bdeath\s+rate\b`, `\bmortality\s+rate\b`,
			`\bper\s+capita\b`, `\bper\s+lakh\b`,
		),
	},
	{
		intent: models.IntentHealthDeaths,
		patterns: compile(
			`\bdeaths?\b`, `\bmortality\b`,
			`\battribut`, `\bdie\b`, `\bkill`,
			`\bhow\s+many\s+(people\s+)?die`,
			`\bhealth\s+(risk|impact|burden|effect)\b`,
			`\bconfidence\s+interval\b`,
		),
	},
	{
		intent: models.IntentTopDiseases,
		patterns: compile(
			`\btop\s+\d*\s*diseases?\b`,
			`\bbreakdown\b`,
			`\bcaused\s+by\b`,
			`\bwhich\s+diseases?\b`,
			`\bdisease\s+list\b`,
			`\bdisease\s+burden\b`,
			`\bcontribute\s+most\b`,
			`\blinked\s+to\s+pollution\b`,
			`\bsensitive\b.*\bdisease\b`,
			`\bdisease\b.*\bsensitive\b`,
		),
	},
	{
		intent: models.IntentBestMonth,
		patterns: compile(
			`\bbest\s+(month|time|period)\b`,
			`\bcleanest\s+(month|air)\b`,
			`\bwhen\s+to\s+(visit|travel)\b`,
			`\bsafest\s+month\b`,
			`\bmonthly\s+(breakdown|data|prediction)\b`,
		),
	},
	{
		intent: models.IntentWorstMonth,
		patterns: compile(
			`\bworst\s+(month|time|period)\b`,
			`\bmost\s+polluted\s+month\b`,
			`\bavoid\s+visiting\b`,
			`\bpeak\s+pollution\b`,
		),
	},
}

// Dispatcher routes a parsed query to an intent by walking the rule
// table in order.
type Dispatcher struct {
	log logger.Logger
}

func NewDispatcher(log logger.Logger) *Dispatcher {
	return &Dispatcher{log: log}
}

// Dispatch returns the first intent whose rule matches the message.
// Questions matching no rule fall back to a forecast only when they
// name both a country and a year; anything else stays unrecognized.
// A forecast with a month becomes a monthly forecast.
func (d *Dispatcher) Dispatch(q models.ParsedQuery) models.Intent {
	lowered := strings.ToLower(strings.TrimSpace(q.RawMessage))

	intent := models.IntentUnknown
	for _, r := range dispatchRules {
		if !matchAny(r.patterns, lowered) {
			continue
		}
		if r.condition != nil && !r.condition(q) {
			continue
		}
		intent = r.intent
		break
	}

	if intent == models.IntentUnknown && q.Country != "" && q.Year != 0 {
		intent = models.IntentPM25Forecast
	}

	// A year-to-year change question without two years is really just
	// a forecast for the one year it named.
	if intent == models.IntentPM25Change && !q.HasYearRange() {
		intent = models.IntentPM25Forecast
	}
	if intent == models.IntentPM25Forecast && q.Month != 0 {
		intent = models.IntentPM25ForecastMonthly
	}

	d.log.Debug("intent dispatched", map[string]interface{}{
		"intent":  string(intent),
		"message": q.RawMessage,
	})
	return intent
}

func matchAny(patterns []*regexp.Regexp, msg string) bool {
	for _, p := range patterns {
		if p.MatchString(msg) {
			return true
		}
	}
	return false
}
