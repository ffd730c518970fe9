package query

import (
	"net/url"
	"strings"
)

// registryAliases maps legacy registry names to their canonical singular
// forms. Lookup is case-insensitive; unlisted values pass through lower-cased.
var registryAliases = map[string]string{
	"standards": "standard",
	"databases": "database",
	"policies":  "policy",
}

// LegacySearchQuery is the reduced query shape of the v0.3 compatibility API.
// Field names differ from the canonical shape: disciplines maps to subjects
// and tags maps to user-defined tags.
type LegacySearchQuery struct {
	Query       string
	Registry    string
	Domains     string
	Taxonomies  string
	Disciplines string
	Countries   string
	Tags        string
}

// LegacyFromParams builds a LegacySearchQuery from URL query parameters.
func LegacyFromParams(params url.Values) *LegacySearchQuery {
	return &LegacySearchQuery{
		Query:       params.Get("q"),
		Registry:    params.Get("registry"),
		Domains:     params.Get("domains"),
		Taxonomies:  params.Get("taxonomies"),
		Disciplines: params.Get("disciplines"),
		Countries:   params.Get("countries"),
		Tags:        params.Get("tags"),
	}
}

// ToQuery translates the legacy query to the canonical shape.
func (q *LegacySearchQuery) ToQuery() *SearchQuery {
	return &SearchQuery{
		Query:           q.Query,
		Registry:        rectifyRegistry(q.Registry),
		Domains:         q.Domains,
		Taxonomies:      q.Taxonomies,
		Subjects:        q.Disciplines,
		Countries:       q.Countries,
		UserDefinedTags: q.Tags,
	}
}

func rectifyRegistry(registry string) string {
	if registry == "" {
		return ""
	}
	registry = strings.ToLower(registry)
	if canonical, ok := registryAliases[registry]; ok {
		return canonical
	}
	return registry
}
