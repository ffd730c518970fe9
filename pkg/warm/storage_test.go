package warm

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/ds-wizard/fairsharing-proxy/pkg/records"
)

func newTestStorage(t *testing.T) *Storage {
	t.Helper()
	storage, err := NewStorage(StorageConfig{
		Path: filepath.Join(t.TempDir(), "warm.db"),
	})
	if err != nil {
		t.Fatalf("NewStorage failed: %v", err)
	}
	t.Cleanup(func() { storage.Close() })
	return storage
}

func sampleRecord(id, name string) *records.Record {
	status := "ready"
	return &records.Record{
		ID:              id,
		Registry:        "standard",
		RecordType:      "reporting_guideline",
		Name:            name,
		Description:     "Description of " + name,
		Status:          &status,
		URL:             "https://fairsharing.org/bsg-s00000" + id,
		Subjects:        []string{"Life Science"},
		Domains:         []string{},
		Taxonomies:      []string{},
		Countries:       []string{},
		UserDefinedTags: []string{},
		LegacyIDs:       []string{"bsg-s00000" + id},
	}
}

func TestStorage_ReplaceAndCount(t *testing.T) {
	storage := newTestStorage(t)
	ctx := context.Background()

	err := storage.ReplaceRecords(ctx, []*records.Record{
		sampleRecord("1", "First"),
		sampleRecord("2", "Second"),
	})
	if err != nil {
		t.Fatalf("ReplaceRecords failed: %v", err)
	}

	count, err := storage.CountRecords(ctx)
	if err != nil {
		t.Fatalf("CountRecords failed: %v", err)
	}
	if count != 2 {
		t.Errorf("CountRecords = %d, want 2", count)
	}

	// A second replace swaps the dataset wholesale.
	if err := storage.ReplaceRecords(ctx, []*records.Record{sampleRecord("3", "Third")}); err != nil {
		t.Fatalf("second ReplaceRecords failed: %v", err)
	}
	count, err = storage.CountRecords(ctx)
	if err != nil {
		t.Fatalf("CountRecords failed: %v", err)
	}
	if count != 1 {
		t.Errorf("CountRecords after replace = %d, want 1", count)
	}
}

func TestStorage_SearchRecords(t *testing.T) {
	storage := newTestStorage(t)
	ctx := context.Background()

	err := storage.ReplaceRecords(ctx, []*records.Record{
		sampleRecord("1", "Genomics Standard"),
		sampleRecord("2", "Proteomics Guideline"),
	})
	if err != nil {
		t.Fatalf("ReplaceRecords failed: %v", err)
	}

	found, err := storage.SearchRecords(ctx, "genomics", 10)
	if err != nil {
		t.Fatalf("SearchRecords failed: %v", err)
	}
	if len(found) != 1 {
		t.Fatalf("got %d records, want 1", len(found))
	}

	rec := found[0]
	if rec.Name != "Genomics Standard" {
		t.Errorf("Name = %q", rec.Name)
	}
	if rec.Status == nil || *rec.Status != "ready" {
		t.Errorf("Status = %v, want %q", rec.Status, "ready")
	}
	if rec.Homepage != nil {
		t.Errorf("Homepage = %v, want nil", rec.Homepage)
	}
	if len(rec.Subjects) != 1 || rec.Subjects[0] != "Life Science" {
		t.Errorf("Subjects = %v", rec.Subjects)
	}
	if len(rec.LegacyIDs) != 1 {
		t.Errorf("LegacyIDs = %v", rec.LegacyIDs)
	}
}

func TestStorage_RunHistory(t *testing.T) {
	storage := newTestStorage(t)
	ctx := context.Background()

	if _, ok, err := storage.LastRun(ctx); err != nil || ok {
		t.Fatalf("LastRun on empty history = (%v, %v), want (false, nil)", ok, err)
	}

	started := time.Now().UTC().Add(-time.Minute)
	run := Run{
		ID:          "run-1",
		StartedAt:   started,
		FinishedAt:  started.Add(30 * time.Second),
		Success:     true,
		RecordCount: 42,
		PageCount:   3,
	}
	if err := storage.RecordRun(ctx, run); err != nil {
		t.Fatalf("RecordRun failed: %v", err)
	}

	last, ok, err := storage.LastRun(ctx)
	if err != nil || !ok {
		t.Fatalf("LastRun = (%v, %v)", ok, err)
	}
	if last.ID != "run-1" || !last.Success || last.RecordCount != 42 || last.PageCount != 3 {
		t.Errorf("LastRun = %+v", last)
	}
}
