package records

import (
	"encoding/json"
	"testing"
)

func samplePayload() map[string]any {
	return map[string]any{
		"id": float64(3017),
		"attributes": map[string]any{
			"fairsharing_registry": "Standard",
			"record_type":          "Reporting_Guideline",
			"abbreviation":         "MIAME",
			"doi":                  "10.25504/FAIRsharing.32b10v",
			"url":                  "https://fairsharing.org/bsg-s000073",
			"metadata": map[string]any{
				"name":        "FAIRsharing record for: Minimum Information About a Microarray Experiment",
				"description": "FAIRsharing record for: MIAME describes microarray experiments.",
				"homepage":    "http://fged.org/projects/miame/",
				"status":      "ready",
			},
			"subjects":            []any{"Genomics"},
			"domains":             []any{"Assay", "Microarray experiment"},
			"taxonomies":          []any{"All"},
			"user_defined_tags":   []any{},
			"countries":           []any{"United Kingdom"},
			"fairsharing_licence": "CC-BY-SA",
			"legacy_ids":          []any{"bsg-000073", "bsg-s000073"},
			"created_at":          "2011-03-11T10:33:47.000Z",
			"updated_at":          "2021-11-22T17:26:19.930Z",
		},
	}
}

func TestParseRecord(t *testing.T) {
	rec := ParseRecord(samplePayload())

	if rec.ID != "3017" {
		t.Errorf("ID = %q, want %q", rec.ID, "3017")
	}
	if rec.Registry != "standard" {
		t.Errorf("Registry = %q, want lower-cased %q", rec.Registry, "standard")
	}
	if rec.RecordType != "reporting_guideline" {
		t.Errorf("RecordType = %q, want lower-cased %q", rec.RecordType, "reporting_guideline")
	}
	if rec.Homepage == nil || *rec.Homepage != "http://fged.org/projects/miame/" {
		t.Errorf("Homepage = %v, want metadata homepage", rec.Homepage)
	}
	if rec.Status == nil || *rec.Status != "ready" {
		t.Errorf("Status = %v, want %q", rec.Status, "ready")
	}
	if rec.DOI == nil || *rec.DOI != "10.25504/FAIRsharing.32b10v" {
		t.Errorf("DOI = %v, want attribute doi", rec.DOI)
	}
	if len(rec.Domains) != 2 || rec.Domains[0] != "Assay" {
		t.Errorf("Domains = %v, want two entries starting with Assay", rec.Domains)
	}
	if len(rec.LegacyIDs) != 2 {
		t.Errorf("LegacyIDs = %v, want two entries", rec.LegacyIDs)
	}
}

func TestParseRecord_MetadataPrecedence(t *testing.T) {
	payload := map[string]any{
		"id": "42",
		"attributes": map[string]any{
			"name":        "attribute name",
			"description": "attribute description",
			"metadata": map[string]any{
				"name": "metadata name",
			},
		},
	}

	rec := ParseRecord(payload)

	if rec.Name != "metadata name" {
		t.Errorf("Name = %q, want metadata to win", rec.Name)
	}
	if rec.Description != "attribute description" {
		t.Errorf("Description = %q, want attribute fallback", rec.Description)
	}
}

func TestParseRecord_HyphenatedShape(t *testing.T) {
	payload := map[string]any{
		"id": "7",
		"attributes": map[string]any{
			"fairsharing-registry": "Database",
			"record-type":          "repository",
			"name":                 "Some Database",
			"user-defined-tags":    []any{"tag-a"},
			"legacy-ids":           []any{"bsg-d000001"},
			"created-at":           "2020-01-01T00:00:00.000Z",
		},
	}

	rec := ParseRecord(payload)

	if rec.Registry != "database" {
		t.Errorf("Registry = %q, want hyphenated key to be read", rec.Registry)
	}
	if rec.RecordType != "repository" {
		t.Errorf("RecordType = %q, want %q", rec.RecordType, "repository")
	}
	if len(rec.UserDefinedTags) != 1 || rec.UserDefinedTags[0] != "tag-a" {
		t.Errorf("UserDefinedTags = %v, want [tag-a]", rec.UserDefinedTags)
	}
	if rec.CreatedAt != "2020-01-01T00:00:00.000Z" {
		t.Errorf("CreatedAt = %q, want hyphenated key to be read", rec.CreatedAt)
	}
}

func TestParseRecord_MissingEverything(t *testing.T) {
	rec := ParseRecord(map[string]any{})

	if rec.ID != "" || rec.Name != "" {
		t.Errorf("empty payload should give zero fields, got %+v", rec)
	}
	if rec.IsValid() {
		t.Error("record without id and name must not be valid")
	}
	if rec.DOI != nil || rec.Homepage != nil || rec.Status != nil {
		t.Errorf("optional fields should be nil, got %+v", rec)
	}
	if rec.Subjects == nil || len(rec.Subjects) != 0 {
		t.Errorf("list fields should be empty, not nil: %v", rec.Subjects)
	}
}

func TestParseRecordJSON_Invalid(t *testing.T) {
	rec := ParseRecordJSON([]byte("not json"))
	if rec.IsValid() {
		t.Error("undecodable payload must yield an invalid record")
	}
}

func TestIsValid(t *testing.T) {
	tests := []struct {
		name   string
		record Record
		want   bool
	}{
		{"both present", Record{ID: "1", Name: "a"}, true},
		{"missing id", Record{Name: "a"}, false},
		{"missing name", Record{ID: "1"}, false},
		{"missing both", Record{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.record.IsValid(); got != tt.want {
				t.Errorf("IsValid() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNormalize(t *testing.T) {
	rec := &Record{
		ID:          "1",
		Name:        "FAIRsharing record for: MIAME",
		Description: " FAIRsharing record for: a description. ",
	}

	rec.Normalize()

	if rec.Name != "MIAME" {
		t.Errorf("Name = %q, want %q", rec.Name, "MIAME")
	}
	if rec.Description != "a description." {
		t.Errorf("Description = %q, want %q", rec.Description, "a description.")
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	tests := []string{
		"FAIRsharing record for: MIAME",
		"MIAME: an acronym with a colon",
		"plain name",
		"  padded  ",
	}

	for _, name := range tests {
		once := &Record{ID: "1", Name: name}
		once.Normalize()
		twice := &Record{ID: "1", Name: name}
		twice.Normalize()
		twice.Normalize()
		if once.Name != twice.Name {
			t.Errorf("normalize not idempotent for %q: %q vs %q", name, once.Name, twice.Name)
		}
	}
}

func TestNormalize_KeepsUnrelatedColons(t *testing.T) {
	rec := &Record{ID: "1", Name: "HUPO: Proteomics Standards"}
	rec.Normalize()
	if rec.Name != "HUPO: Proteomics Standards" {
		t.Errorf("Name = %q, colon without vendor prefix must be kept", rec.Name)
	}
}

func TestLegacyRecordID(t *testing.T) {
	tests := []struct {
		name   string
		record Record
		want   string
	}{
		{
			name:   "derived from url",
			record: Record{URL: "https://fairsharing.org/bsg-d000123"},
			want:   "bsg-d000123",
		},
		{
			name: "derived from legacy ids",
			record: Record{
				URL:       "https://example.org/elsewhere",
				LegacyIDs: []string{"other-1", "bsg-s000073"},
			},
			want: "bsg-s000073",
		},
		{
			name:   "unknown",
			record: Record{URL: "https://example.org/elsewhere"},
			want:   "unknown",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.record.LegacyRecordID(); got != tt.want {
				t.Errorf("LegacyRecordID() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestToLegacy(t *testing.T) {
	rec := ParseRecord(samplePayload())
	rec.Normalize()
	legacy := rec.ToLegacy()

	if legacy.RecordID != "bsg-s000073" {
		t.Errorf("RecordID = %q, want %q", legacy.RecordID, "bsg-s000073")
	}
	if legacy.Shortname != "MIAME" {
		t.Errorf("Shortname = %q, want abbreviation", legacy.Shortname)
	}
	if legacy.Subtype != nil {
		t.Error("Subtype must always be null")
	}
	if len(legacy.OntoDisciplines) != 1 || legacy.OntoDisciplines[0] != "Genomics" {
		t.Errorf("OntoDisciplines = %v, want subjects", legacy.OntoDisciplines)
	}

	data, err := json.Marshal(legacy)
	if err != nil {
		t.Fatalf("marshal legacy record: %v", err)
	}
	var asMap map[string]any
	if err := json.Unmarshal(data, &asMap); err != nil {
		t.Fatalf("unmarshal legacy record: %v", err)
	}
	if _, ok := asMap["subtype"]; !ok {
		t.Error("legacy projection must carry an explicit subtype null")
	}
	if asMap["subtype"] != nil {
		t.Errorf("subtype = %v, want null", asMap["subtype"])
	}
}

func TestToCanonical_SubjectsExposedAsDisciplines(t *testing.T) {
	rec := &Record{ID: "1", Name: "n", Subjects: []string{"Genomics"}}
	canonical := rec.ToCanonical()
	if len(canonical.Disciplines) != 1 || canonical.Disciplines[0] != "Genomics" {
		t.Errorf("Disciplines = %v, want subjects", canonical.Disciplines)
	}
}
