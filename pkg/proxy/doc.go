// Package proxy implements the search orchestration of the FAIRsharing proxy:
// it turns client credentials and query parameters into authenticated upstream
// searches, caching tokens per username and retrying once on token rejection.
package proxy
