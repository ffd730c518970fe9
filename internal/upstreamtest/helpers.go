package upstreamtest

// RecordPayload builds a minimal raw record payload in the current upstream
// shape (nested metadata block).
func RecordPayload(id, name, recordURL string) map[string]any {
	return map[string]any{
		"id": id,
		"attributes": map[string]any{
			"fairsharing_registry": "standard",
			"record_type":          "reporting_guideline",
			"url":                  recordURL,
			"metadata": map[string]any{
				"name":        name,
				"description": "Description of " + name,
				"status":      "ready",
			},
			"subjects":   []any{"Life Science"},
			"legacy_ids": []any{},
		},
	}
}
