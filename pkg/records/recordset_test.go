package records

import (
	"encoding/json"
	"testing"
)

func TestNewRecordSet_DropsInvalid(t *testing.T) {
	recs := []*Record{
		{ID: "1", Name: "first"},
		{ID: "", Name: "no id"},
		{ID: "3", Name: ""},
		{ID: "4", Name: "FAIRsharing record for: fourth"},
	}

	set := NewRecordSet(recs)

	if len(set.Records) != 2 {
		t.Fatalf("got %d records, want 2", len(set.Records))
	}
	if set.Records[0].ID != "1" || set.Records[1].ID != "4" {
		t.Errorf("upstream order not preserved: %v, %v", set.Records[0].ID, set.Records[1].ID)
	}
	if set.Records[1].Name != "fourth" {
		t.Errorf("records must be normalized, got name %q", set.Records[1].Name)
	}
}

func TestSearchResponse_Envelope(t *testing.T) {
	set := NewRecordSet([]*Record{{ID: "1", Name: "only"}})
	data, err := json.Marshal(set.ToResponse())
	if err != nil {
		t.Fatalf("marshal response: %v", err)
	}

	var envelope map[string]any
	if err := json.Unmarshal(data, &envelope); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}

	if envelope["note"] != Note {
		t.Errorf("note = %v, want fixed attribution string", envelope["note"])
	}
	links, ok := envelope["links"].(map[string]any)
	if !ok {
		t.Fatalf("links missing: %v", envelope)
	}
	for _, key := range []string{"self", "first", "prev", "next", "last"} {
		value, present := links[key]
		if !present {
			t.Errorf("links.%s missing", key)
		}
		if value != nil {
			t.Errorf("links.%s = %v, want null", key, value)
		}
	}
	if _, ok := envelope["data"].([]any); !ok {
		t.Errorf("data is not an array: %v", envelope["data"])
	}
}

func TestLegacySearchResponse_Envelope(t *testing.T) {
	set := NewRecordSet(nil)
	data, err := json.Marshal(set.ToLegacyResponse())
	if err != nil {
		t.Fatalf("marshal legacy response: %v", err)
	}

	var envelope map[string]any
	if err := json.Unmarshal(data, &envelope); err != nil {
		t.Fatalf("unmarshal legacy response: %v", err)
	}

	if envelope["api_version"] != LegacyAPIVersion {
		t.Errorf("api_version = %v, want %q", envelope["api_version"], LegacyAPIVersion)
	}
	if envelope["licence"] != Licence {
		t.Errorf("licence = %v, want fixed licence string", envelope["licence"])
	}
	if envelope["note"] != Note {
		t.Errorf("note = %v, want fixed attribution string", envelope["note"])
	}
	results, ok := envelope["results"].([]any)
	if !ok {
		t.Fatalf("results is not an array: %v", envelope["results"])
	}
	if len(results) != 0 {
		t.Errorf("results = %v, want empty array", results)
	}
}
