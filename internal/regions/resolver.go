// internal/regions/resolver.go
package regions

import (
	"regexp"
	"sort"
	"strings"

	"aq-insight/internal/common/errors"
	"aq-insight/internal/common/logger"
)

// GlobalRegion is the pseudo-region covering every available country.
const GlobalRegion = "Global"

type aliasRule struct {
	pattern *regexp.Regexp
	region  string
}

// Order matters, more specific first. "Southeast Asia" must win over
// plain "South Asia" and "East Asia".
var aliasRules = []aliasRule{
	{regexp.MustCompile(`\basean\b`), "ASEAN"},
	{regexp.MustCompile(`\bsoutheast\s+asia(?:n)?\b`), "ASEAN"},
	{regexp.MustCompile(`\bsouth\s+asia(?:n)?\b`), "South Asia"},
	{regexp.MustCompile(`\beast\s+asia(?:n)?\b`), "East Asia"},
	{regexp.MustCompile(`\bcentral\s+asia(?:n)?\b`), "Central Asia"},
	{regexp.MustCompile(`\beurop(?:e|ean)\b`), "Europe"},
	{regexp.MustCompile(`\b(?:eu|european\s+union)\b`), "Europe"},
	{regexp.MustCompile(`\bafric(?:a|an)\b`), "Africa"},
	{regexp.MustCompile(`\bnorth\s+americ(?:a|an)\b`), "North America"},
	{regexp.MustCompile(`\bsouth\s+americ(?:a|an)\b`), "South America"},
	{regexp.MustCompile(`\bcentral\s+americ(?:a|an)\b`), "Central America"},
	{regexp.MustCompile(`\blatin\s+americ(?:a|an)\b`), "South America"},
	{regexp.MustCompile(`\bmiddle\s+east(?:ern)?\b`), "Middle East"},
	{regexp.MustCompile(`\boceani(?:a|an)\b`), "Oceania"},
	{regexp.MustCompile(`\bcaribbean\b`), "Caribbean"},
	{regexp.MustCompile(`\bglobal(?:ly)?\b`), GlobalRegion},
	{regexp.MustCompile(`\bworld\s*wide\b`), GlobalRegion},
	{regexp.MustCompile(`\ball\s+countr`), GlobalRegion},
	{regexp.MustCompile(`\bantarctic(?:a|an)?\b`), "Antarctica"},
	{regexp.MustCompile(`\barctic\b`), "Arctic"},
}

// Resolver maps free-text region mentions to the set of countries with
// observed data.
type Resolver struct {
	available map[string]bool
	sorted    []string
	log       logger.Logger
}

// NewResolver builds a resolver over the countries present in the
// reference data.
func NewResolver(available []string, log logger.Logger) *Resolver {
	set := make(map[string]bool, len(available))
	for _, c := range available {
		set[c] = true
	}
	sorted := make([]string, len(available))
	copy(sorted, available)
	sort.Strings(sorted)
	return &Resolver{available: set, sorted: sorted, log: log}
}

// Normalize parses free text and returns the canonical region name.
// The second return is false when the text names no region. The
// mapping is idempotent: feeding a canonical name back returns itself.
func (r *Resolver) Normalize(text string) (string, bool) {
	lowered := strings.ToLower(strings.TrimSpace(text))
	for _, rule := range aliasRules {
		if rule.pattern.MatchString(lowered) {
			return rule.region, true
		}
	}
	return "", false
}

// Resolve returns the available countries in a region, sorted by name.
// An empty region and Global both resolve to every available country.
// Unknown regions, and regions with no data coverage, return
// UNKNOWN_REGION.
func (r *Resolver) Resolve(region string) (string, []string, error) {
	if region == "" || region == GlobalRegion {
		countries := make([]string, len(r.sorted))
		copy(countries, r.sorted)
		return GlobalRegion, countries, nil
	}

	members, ok := regionCountries[region]
	if !ok {
		return region, nil, errors.NewUnknownRegion(region, r.Supported())
	}

	matched := make([]string, 0, len(members))
	for _, c := range members {
		if r.available[c] {
			matched = append(matched, c)
		}
	}
	if len(matched) == 0 {
		return region, nil, errors.NewUnknownRegion(region, r.Supported())
	}
	sort.Strings(matched)
	return region, matched, nil
}

// Supported lists the canonical region names, sorted.
func (r *Resolver) Supported() []string {
	names := make([]string, 0, len(regionCountries))
	for name := range regionCountries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Available reports whether a country has observed data.
func (r *Resolver) Available(country string) bool {
	return r.available[country]
}

// AllCountries returns every available country, sorted.
func (r *Resolver) AllCountries() []string {
	countries := make([]string, len(r.sorted))
	copy(countries, r.sorted)
	return countries
}
