// internal/nlp/parser.go
package nlp

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"aq-insight/internal/common/logger"
	"aq-insight/internal/models"
	"aq-insight/internal/regions"
)

var (
	yearPattern      = regexp.MustCompile(`\b(20[0-4]\d)\b`)
	inNYearsPattern  = regexp.MustCompile(`\bin\s+(\d+)\s+years?\b`)
	sinceYearPattern = regexp.MustCompile(`\bsince\s+(20[0-4]\d)\b`)
	nextYearPattern  = regexp.MustCompile(`\bnext\s+year\b`)
	thisYearPattern  = regexp.MustCompile(`\bthis\s+year\b`)
	lastYearPattern  = regexp.MustCompile(`\blast\s+year\b`)
	percentPattern   = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*%`)
	byPercentPattern = regexp.MustCompile(`by\s+(\d+(?:\.\d+)?)\s+percent`)
	pctTokenPattern  = regexp.MustCompile(`\d+(?:\.\d+)?\s*(?:%|percent)`)
	wordPattern      = regexp.MustCompile(`[a-z][a-z-]+`)
)

// RegionNormalizer maps free text to a canonical region name.
type RegionNormalizer interface {
	Normalize(text string) (string, bool)
}

// Parser extracts typed entities from a natural language message. It
// never decides what to do with them; dispatch is a separate step.
type Parser struct {
	countryIndex map[string]string // lower-cased token or full name -> canonical
	countryNames []string          // canonical names for fuzzy matching
	indexKeys    []string          // longest first, for greedy masking
	regions      RegionNormalizer
	now          func() time.Time
	log          logger.Logger
}

// NewParser indexes the available country names, including synonyms,
// for extraction.
func NewParser(countries []string, regionNorm RegionNormalizer, log logger.Logger) *Parser {
	p := &Parser{
		countryIndex: make(map[string]string),
		countryNames: make([]string, 0, len(countries)),
		regions:      regionNorm,
		now:          time.Now,
		log:          log,
	}
	for _, c := range countries {
		p.indexCountry(c, c)
		p.countryNames = append(p.countryNames, c)
	}
	for variant, canonical := range countrySynonymsLower() {
		if _, known := p.countryIndex[canonical]; known {
			p.countryIndex[variant] = p.countryIndex[canonical]
		}
	}
	p.indexKeys = make([]string, 0, len(p.countryIndex))
	for key := range p.countryIndex {
		p.indexKeys = append(p.indexKeys, key)
	}
	sort.Slice(p.indexKeys, func(i, j int) bool {
		return len(p.indexKeys[i]) > len(p.indexKeys[j])
	})
	return p
}

// SetReferenceYear pins the year against which relative phrases like
// "next year" are resolved, instead of the wall clock.
func (p *Parser) SetReferenceYear(year int) {
	p.now = func() time.Time {
		return time.Date(year, time.June, 30, 0, 0, 0, 0, time.UTC)
	}
}

func (p *Parser) indexCountry(key, canonical string) {
	lower := strings.ToLower(key)
	p.countryIndex[lower] = canonical
	for _, part := range strings.Fields(lower) {
		if len(part) > 3 {
			if _, taken := p.countryIndex[part]; !taken {
				p.countryIndex[part] = canonical
			}
		}
	}
}

func countrySynonymsLower() map[string]string {
	out := make(map[string]string)
	for _, name := range []string{
		"Viet Nam", "Lao PDR", "Czechia", "Korea, Republic of",
		"Russian Federation", "USA", "UK", "UAE",
	} {
		out[strings.ToLower(name)] = strings.ToLower(regions.CanonicalCountry(name))
	}
	return out
}

// Parse extracts every recognizable entity from the message. Fields
// the text does not mention stay at their zero values; in particular
// the year is never defaulted here.
func (p *Parser) Parse(message string) models.ParsedQuery {
	lowered := strings.ToLower(strings.TrimSpace(message))

	q := models.ParsedQuery{RawMessage: message}
	q.Countries = p.extractCountries(lowered)
	if len(q.Countries) > 0 {
		q.Country = q.Countries[0]
	}

	years := p.extractYears(lowered)
	if len(years) > 0 {
		q.Year = years[len(years)-1]
	}
	if len(years) >= 2 {
		q.YearStart = years[0]
		q.YearEnd = years[1]
	}

	if p.regions != nil {
		if region, ok := p.regions.Normalize(lowered); ok {
			q.Region = region
		}
	}

	q.Month = extractMonth(lowered)
	q.Percent = extractPercent(lowered)
	q.PercentSign = extractPercentSign(lowered, q.Percent)
	q.AgeGroup = extractAgeGroup(lowered)
	q.Disease = extractDisease(lowered)
	return q
}

// extractCountries finds country mentions, longest name first, masking
// each match so substrings cannot double-count. When no exact token
// matches, a fuzzy pass over the message words catches near misses
// such as "tailand".
func (p *Parser) extractCountries(msg string) []string {
	var found []string
	seen := make(map[string]bool)
	masked := msg
	for _, key := range p.indexKeys {
		pattern := regexp.MustCompile(`\b` + regexp.QuoteMeta(key) + `\b`)
		if pattern.MatchString(masked) {
			canonical := p.countryIndex[key]
			if !seen[canonical] {
				seen[canonical] = true
				found = append(found, canonical)
			}
			masked = pattern.ReplaceAllString(masked, " ")
		}
	}
	if len(found) > 0 {
		return found
	}
	return p.fuzzyCountries(msg)
}

func (p *Parser) fuzzyCountries(msg string) []string {
	var found []string
	seen := make(map[string]bool)
	for _, word := range wordPattern.FindAllString(msg, -1) {
		if len(word) < 5 {
			continue
		}
		ranks := fuzzy.RankFindNormalizedFold(word, p.countryNames)
		if len(ranks) == 0 {
			continue
		}
		sort.Sort(ranks)
		best := ranks[0]
		// Require a near-complete match; fuzzy.Find accepts any
		// subsequence, which is far too loose for country names.
		if best.Distance >= 0 && best.Distance <= 2 && len(word) >= len(best.Target)-2 {
			if !seen[best.Target] {
				seen[best.Target] = true
				found = append(found, best.Target)
			}
		}
	}
	return found
}

func (p *Parser) extractYears(msg string) []int {
	currentYear := p.now().Year()
	set := make(map[int]bool)

	for _, m := range yearPattern.FindAllString(msg, -1) {
		y, _ := strconv.Atoi(m)
		set[y] = true
	}
	if nextYearPattern.MatchString(msg) {
		set[currentYear+1] = true
	}
	if thisYearPattern.MatchString(msg) {
		set[currentYear] = true
	}
	if lastYearPattern.MatchString(msg) {
		set[currentYear-1] = true
	}
	if m := inNYearsPattern.FindStringSubmatch(msg); m != nil {
		n, _ := strconv.Atoi(m[1])
		set[currentYear+n] = true
	}
	if m := sinceYearPattern.FindStringSubmatch(msg); m != nil {
		y, _ := strconv.Atoi(m[1])
		set[y] = true
		set[currentYear] = true
	}

	years := make([]int, 0, len(set))
	for y := range set {
		years = append(years, y)
	}
	sort.Ints(years)
	return years
}

// extractMonth returns the month named earliest in the text, so a
// question naming two months resolves the same way every time.
func extractMonth(msg string) int {
	month, bestPos := 0, -1
	for _, alias := range monthAliases {
		pattern := regexp.MustCompile(`\b` + alias.name + `\b`)
		loc := pattern.FindStringIndex(msg)
		if loc == nil {
			continue
		}
		if bestPos == -1 || loc[0] < bestPos {
			month, bestPos = alias.num, loc[0]
		}
	}
	return month
}

func extractPercent(msg string) *float64 {
	if m := percentPattern.FindStringSubmatch(msg); m != nil {
		v, _ := strconv.ParseFloat(m[1], 64)
		return &v
	}
	if m := byPercentPattern.FindStringSubmatch(msg); m != nil {
		v, _ := strconv.ParseFloat(m[1], 64)
		return &v
	}
	return nil
}

// extractPercentSign decides whether a scenario raises or lowers the
// level. With a percent present the nearest direction keyword to the
// percent token wins; without one, any decrease keyword wins over any
// increase keyword. The default is a decrease.
func extractPercentSign(msg string, percent *float64) int {
	if percent == nil {
		for _, kw := range decreaseKeywords {
			if strings.Contains(msg, kw) {
				return -1
			}
		}
		for _, kw := range increaseKeywords {
			if strings.Contains(msg, kw) {
				return +1
			}
		}
		return -1
	}

	pctPos := len(msg) / 2
	if loc := pctTokenPattern.FindStringIndex(msg); loc != nil {
		pctPos = loc[0]
	}

	incDist := maxInt
	decDist := maxInt
	for _, kw := range increaseKeywords {
		if idx := strings.Index(msg, kw); idx >= 0 {
			if d := absInt(idx - pctPos); d < incDist {
				incDist = d
			}
		}
	}
	for _, kw := range decreaseKeywords {
		if idx := strings.Index(msg, kw); idx >= 0 {
			if d := absInt(idx - pctPos); d < decDist {
				decDist = d
			}
		}
	}

	switch {
	case incDist < decDist:
		return +1
	case decDist < incDist:
		return -1
	case incDist != maxInt:
		return +1
	default:
		return -1
	}
}

func extractAgeGroup(msg string) string {
	for _, group := range ageGroups {
		for _, kw := range group.keywords {
			if strings.Contains(msg, kw) {
				return group.name
			}
		}
	}
	return ""
}

func extractDisease(msg string) string {
	for _, group := range diseaseGroups {
		for _, kw := range group.keywords {
			if strings.Contains(msg, kw) {
				return group.name
			}
		}
	}
	return ""
}

const maxInt = int(^uint(0) >> 1)

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
