// Package records models FAIRsharing records as they flow through the proxy:
// tolerant parsing of the upstream payload, text normalization, validity
// checking, and projection to the canonical and legacy response schemas.
//
// The upstream has shipped two attribute shapes over time (flat attributes
// with underscore or hyphen naming, and a nested "metadata" object holding
// name, description, homepage and status). ParseRecord reads both shapes with
// the nested metadata taking precedence, so callers never need to know which
// variant they received.
package records
