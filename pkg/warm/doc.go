// Package warm implements the scheduled record warming job: it periodically
// lists the whole FAIRsharing registry through the authenticated API and
// stores the records in a local SQLite database, giving operators an offline
// copy to inspect and a fallback dataset for outage analysis.
package warm
