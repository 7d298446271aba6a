package upstream

import (
	"net/http"
	"regexp"
)

// Rule is a single public-endpoint allowlist entry: a method plus a path
// pattern. Patterns match the request path only; query strings never
// participate in the decision.
type Rule struct {
	Method  string
	Pattern *regexp.Regexp
}

// Allowlist is an ordered set of rules consulted per request. It is data,
// fixed for the process lifetime; evaluation is deterministic first-match.
type Allowlist []Rule

// Public reports whether the call may go out without a credential.
func (a Allowlist) Public(method, path string) bool {
	for _, r := range a {
		if r.Method == method && r.Pattern.MatchString(path) {
			return true
		}
	}
	return false
}

// DefaultAllowlist returns the fixed set of read-only endpoints reachable
// without authentication: home sections, car search/listing/detail,
// brand/category-scoped car listings, car spec sheets, news, comparison, and
// metadata lookups.
func DefaultAllowlist() Allowlist {
	get := func(expr string) Rule {
		return Rule{Method: http.MethodGet, Pattern: regexp.MustCompile(expr)}
	}
	return Allowlist{
		get(`^/home/sections$`),
		get(`^/search/cars$`),
		get(`^/cars/?$`),
		get(`^/cars/\d+$`),
		get(`^/car-details/\d+$`),
		get(`^/car-details/car/\d+$`),
		get(`^/cars/(brand|category)/\w+$`),
		get(`^/news/?$`),
		get(`^/news/\d+$`),
		get(`^/compare$`),
		get(`^/cars/compare$`),
		get(`^/meta/(brands|categories|colors)$`),
	}
}
