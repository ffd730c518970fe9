package query

import (
	"encoding/json"
	"net/url"
	"strings"
)

// SearchQuery is the canonical search input. Query is the free-text part;
// every other field is an optional filter where the empty string means
// "not set".
type SearchQuery struct {
	Query           string `json:"q"`
	Registry        string `json:"registry"`
	Status          string `json:"status"`
	RecordType      string `json:"record_type"`
	Countries       string `json:"countries"`
	Subjects        string `json:"subjects"`
	Domains         string `json:"domains"`
	Taxonomies      string `json:"taxonomies"`
	UserDefinedTags string `json:"user_defined_tags"`
	IsRecommended   string `json:"is_recommended"`
	IsApproved      string `json:"is_approved"`
	IsMaintained    string `json:"is_maintained"`
}

// FromParams builds a SearchQuery from URL query parameters.
func FromParams(params url.Values) *SearchQuery {
	return &SearchQuery{
		Query:           params.Get("q"),
		Registry:        params.Get("registry"),
		Status:          params.Get("status"),
		RecordType:      params.Get("record_type"),
		Countries:       params.Get("countries"),
		Subjects:        params.Get("subjects"),
		Domains:         params.Get("domains"),
		Taxonomies:      params.Get("taxonomies"),
		UserDefinedTags: params.Get("user_defined_tags"),
		IsRecommended:   params.Get("is_recommended"),
		IsApproved:      params.Get("is_approved"),
		IsMaintained:    params.Get("is_maintained"),
	}
}

// FromJSON builds a SearchQuery from a JSON request body. A missing, empty,
// or undecodable body yields an empty query rather than an error; the search
// then simply runs unfiltered.
func FromJSON(data []byte) *SearchQuery {
	var q SearchQuery
	if len(data) == 0 {
		return &q
	}
	if err := json.Unmarshal(data, &q); err != nil {
		return &SearchQuery{}
	}
	return &q
}

// Params serializes the query to the parameter map of the upstream search
// endpoint. The free-text query is emitted only when non-empty. Optional
// filters are emitted lower-cased. The three boolean-flag filters are emitted
// verbatim and only when their value is exactly "true" or "false"; anything
// else is dropped so that malformed flags never reach the upstream.
func (q *SearchQuery) Params() map[string]string {
	params := make(map[string]string)
	if q.Query != "" {
		params["q"] = q.Query
	}

	lowered := map[string]string{
		"fairsharing_registry": q.Registry,
		"status":               q.Status,
		"record_type":          q.RecordType,
		"domains":              q.Domains,
		"subjects":             q.Subjects,
		"countries":            q.Countries,
		"taxonomies":           q.Taxonomies,
		"user_defined_tags":    q.UserDefinedTags,
	}
	for key, value := range lowered {
		if value != "" {
			params[key] = strings.ToLower(value)
		}
	}

	flags := map[string]string{
		"is_recommended": q.IsRecommended,
		"is_approved":    q.IsApproved,
		"is_maintained":  q.IsMaintained,
	}
	for key, value := range flags {
		if value == "true" || value == "false" {
			params[key] = value
		}
	}

	return params
}

// Encode renders the parameter map as a URL query string.
func (q *SearchQuery) Encode() string {
	values := url.Values{}
	for key, value := range q.Params() {
		values.Set(key, value)
	}
	return values.Encode()
}
