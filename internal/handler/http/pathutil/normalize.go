// Package pathutil normalizes dynamic URL paths so that metrics labels
// stay bounded regardless of how many distinct IDs appear in requests.
package pathutil

import (
	"regexp"
	"strings"
)

// pathPattern pairs a route regex with its normalized template.
type pathPattern struct {
	pattern  *regexp.Regexp
	template string
}

// pathPatterns lists the dynamic routes, most specific first.
// Pre-compiled at initialization.
var pathPatterns = []pathPattern{
	{pattern: regexp.MustCompile(`^/api/dashboard/movie/\d+/enriched$`), template: "/api/dashboard/movie/:id/enriched"},
	{pattern: regexp.MustCompile(`^/api/dashboard/movie/\d+$`), template: "/api/dashboard/movie/:id"},
}

// NormalizePath converts paths containing movie IDs to their template
// form, e.g. /api/dashboard/movie/550/enriched becomes
// /api/dashboard/movie/:id/enriched. Static paths pass through
// unchanged. Query strings and trailing slashes are stripped first.
func NormalizePath(path string) string {
	if idx := strings.IndexByte(path, '?'); idx != -1 {
		path = path[:idx]
	}
	if len(path) > 1 && path[len(path)-1] == '/' {
		path = path[:len(path)-1]
	}

	for _, p := range pathPatterns {
		if p.pattern.MatchString(path) {
			return p.template
		}
	}
	return path
}
