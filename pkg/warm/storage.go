package warm

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/ds-wizard/fairsharing-proxy/pkg/records"
)

// StorageConfig contains configuration for the warming database.
type StorageConfig struct {
	// Path is the database file path.
	Path string

	// BusyTimeout is the duration to wait when the database is locked.
	// Default: 5 seconds
	BusyTimeout time.Duration
}

// Storage persists warmed records and run history in SQLite.
type Storage struct {
	db     *sql.DB
	logger *slog.Logger
}

// Run describes one warming run, stored whether it succeeded or not.
type Run struct {
	ID          string
	StartedAt   time.Time
	FinishedAt  time.Time
	Success     bool
	RecordCount int
	PageCount   int
	Error       string
}

// NewStorage opens (or creates) the warming database, enabling WAL mode and
// creating the schema.
func NewStorage(cfg StorageConfig) (*Storage, error) {
	if cfg.BusyTimeout == 0 {
		cfg.BusyTimeout = 5 * time.Second
	}

	db, err := sql.Open("sqlite3", cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("opening warming database: %w", err)
	}

	s := &Storage{
		db:     db,
		logger: slog.Default().With("component", "warm.storage"),
	}

	if err := s.initialize(cfg.BusyTimeout); err != nil {
		db.Close()
		return nil, err
	}

	s.logger.Info("warming database initialized", "path", cfg.Path)
	return s, nil
}

func (s *Storage) initialize(busyTimeout time.Duration) error {
	if _, err := s.db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
		return fmt.Errorf("enabling WAL mode: %w", err)
	}
	if _, err := s.db.Exec(fmt.Sprintf("PRAGMA busy_timeout=%d;", busyTimeout.Milliseconds())); err != nil {
		return fmt.Errorf("setting busy timeout: %w", err)
	}
	if _, err := s.db.Exec(Schema); err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	if _, err := s.db.Exec(insertSchemaVersion, SchemaVersion); err != nil {
		return fmt.Errorf("recording schema version: %w", err)
	}
	return nil
}

// Close closes the database.
func (s *Storage) Close() error {
	return s.db.Close()
}

// ReplaceRecords atomically replaces the whole warmed dataset with recs and
// stamps the warming time.
func (s *Storage) ReplaceRecords(ctx context.Context, recs []*records.Record) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting replace transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM records`); err != nil {
		return fmt.Errorf("clearing records: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO records (
			id, registry, record_type, name, description, abbreviation,
			url, homepage, doi, status,
			subjects, domains, taxonomies, countries, user_defined_tags, legacy_ids,
			created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, rec := range recs {
		_, err := stmt.ExecContext(ctx,
			rec.ID, rec.Registry, rec.RecordType, rec.Name, rec.Description, rec.Abbreviation,
			rec.URL, rec.Homepage, rec.DOI, rec.Status,
			encodeList(rec.Subjects), encodeList(rec.Domains), encodeList(rec.Taxonomies),
			encodeList(rec.Countries), encodeList(rec.UserDefinedTags), encodeList(rec.LegacyIDs),
			rec.CreatedAt, rec.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("inserting record %s: %w", rec.ID, err)
		}
	}

	warmedAt := time.Now().UTC().Format(time.RFC3339)
	if _, err := tx.ExecContext(ctx,
		`INSERT OR REPLACE INTO meta (key, value) VALUES ('warmed_at', ?)`, warmedAt); err != nil {
		return fmt.Errorf("stamping warming time: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing replace: %w", err)
	}
	return nil
}

// RecordRun stores one warming run in the history.
func (s *Storage) RecordRun(ctx context.Context, run Run) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (id, started_at, finished_at, success, record_count, page_count, error)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.StartedAt.UTC(), run.FinishedAt.UTC(),
		run.Success, run.RecordCount, run.PageCount, run.Error,
	)
	if err != nil {
		return fmt.Errorf("recording run: %w", err)
	}
	return nil
}

// CountRecords returns the number of warmed records.
func (s *Storage) CountRecords(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM records`).Scan(&count); err != nil {
		return 0, fmt.Errorf("counting records: %w", err)
	}
	return count, nil
}

// LastRun returns the most recent warming run, if any.
func (s *Storage) LastRun(ctx context.Context) (*Run, bool, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, started_at, finished_at, success, record_count, page_count, error
		FROM runs ORDER BY started_at DESC LIMIT 1`)

	var run Run
	err := row.Scan(&run.ID, &run.StartedAt, &run.FinishedAt,
		&run.Success, &run.RecordCount, &run.PageCount, &run.Error)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("reading last run: %w", err)
	}
	return &run, true, nil
}

// SearchRecords finds warmed records whose name or description contains the
// given text, case-insensitively, ordered by name.
func (s *Storage) SearchRecords(ctx context.Context, text string, limit int) ([]*records.Record, error) {
	if limit <= 0 {
		limit = 100
	}
	pattern := "%" + text + "%"

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, registry, record_type, name, description, abbreviation,
		       url, homepage, doi, status,
		       subjects, domains, taxonomies, countries, user_defined_tags, legacy_ids,
		       created_at, updated_at
		FROM records
		WHERE name LIKE ? COLLATE NOCASE OR description LIKE ? COLLATE NOCASE
		ORDER BY name LIMIT ?`,
		pattern, pattern, limit)
	if err != nil {
		return nil, fmt.Errorf("searching records: %w", err)
	}
	defer rows.Close()

	var result []*records.Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, rec)
	}
	return result, rows.Err()
}

func scanRecord(rows *sql.Rows) (*records.Record, error) {
	var rec records.Record
	var subjects, domains, taxonomies, countries, tags, legacyIDs string

	err := rows.Scan(
		&rec.ID, &rec.Registry, &rec.RecordType, &rec.Name, &rec.Description, &rec.Abbreviation,
		&rec.URL, &rec.Homepage, &rec.DOI, &rec.Status,
		&subjects, &domains, &taxonomies, &countries, &tags, &legacyIDs,
		&rec.CreatedAt, &rec.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("scanning record: %w", err)
	}

	rec.Subjects = decodeList(subjects)
	rec.Domains = decodeList(domains)
	rec.Taxonomies = decodeList(taxonomies)
	rec.Countries = decodeList(countries)
	rec.UserDefinedTags = decodeList(tags)
	rec.LegacyIDs = decodeList(legacyIDs)
	return &rec, nil
}

func encodeList(list []string) string {
	if list == nil {
		list = []string{}
	}
	data, _ := json.Marshal(list)
	return string(data)
}

func decodeList(data string) []string {
	list := []string{}
	_ = json.Unmarshal([]byte(data), &list)
	return list
}
