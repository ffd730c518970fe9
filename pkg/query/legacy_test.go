package query

import (
	"net/url"
	"testing"
)

func TestLegacySearchQuery_ToQuery(t *testing.T) {
	legacy := LegacySearchQuery{
		Query:       "microscopy",
		Registry:    "Databases",
		Domains:     "Imaging",
		Taxonomies:  "Mus musculus",
		Disciplines: "Cell Biology",
		Countries:   "France",
		Tags:        "imaging-data",
	}

	q := legacy.ToQuery()

	if q.Query != "microscopy" {
		t.Errorf("Query = %q, want %q", q.Query, "microscopy")
	}
	if q.Registry != "database" {
		t.Errorf("Registry = %q, want %q", q.Registry, "database")
	}
	if q.Subjects != "Cell Biology" {
		t.Errorf("Subjects = %q, want disciplines value %q", q.Subjects, "Cell Biology")
	}
	if q.UserDefinedTags != "imaging-data" {
		t.Errorf("UserDefinedTags = %q, want tags value %q", q.UserDefinedTags, "imaging-data")
	}
	if q.Domains != "Imaging" || q.Taxonomies != "Mus musculus" || q.Countries != "France" {
		t.Errorf("plain fields not carried over: %+v", q)
	}
	if q.Status != "" || q.RecordType != "" {
		t.Errorf("fields absent from the legacy shape must stay empty: %+v", q)
	}
}

func TestRectifyRegistry(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"standards", "standard"},
		{"Standards", "standard"},
		{"DATABASES", "database"},
		{"policies", "policy"},
		{"standard", "standard"},
		{"unlisted-value", "unlisted-value"},
		{"Unlisted-Value", "unlisted-value"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := rectifyRegistry(tt.in); got != tt.want {
			t.Errorf("rectifyRegistry(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestLegacyFromParams(t *testing.T) {
	params := url.Values{}
	params.Set("q", "proteins")
	params.Set("registry", "standards")
	params.Set("disciplines", "Biochemistry")
	params.Set("tags", "mass-spec")

	legacy := LegacyFromParams(params)

	if legacy.Query != "proteins" {
		t.Errorf("Query = %q, want %q", legacy.Query, "proteins")
	}
	if legacy.Disciplines != "Biochemistry" {
		t.Errorf("Disciplines = %q, want %q", legacy.Disciplines, "Biochemistry")
	}
	if legacy.Tags != "mass-spec" {
		t.Errorf("Tags = %q, want %q", legacy.Tags, "mass-spec")
	}

	q := legacy.ToQuery()
	if q.Registry != "standard" {
		t.Errorf("translated Registry = %q, want %q", q.Registry, "standard")
	}
}
