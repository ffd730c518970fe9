// Package query defines the search query models accepted by the proxy and
// their translation to the parameter set of the FAIRsharing search endpoint.
//
// Two shapes exist: SearchQuery is the canonical, current shape with the full
// filter set, and LegacySearchQuery is the reduced shape kept for backward
// compatibility with older integrations. A LegacySearchQuery is always
// translated to a SearchQuery before anything is sent upstream.
package query
