package warm

// SchemaVersion is the current database schema version.
const SchemaVersion = 1

// Schema contains the SQL statements creating the warming database schema.
const Schema = `
-- Warmed registry records, replaced wholesale on each successful run
CREATE TABLE IF NOT EXISTS records (
    id TEXT PRIMARY KEY,
    registry TEXT NOT NULL,
    record_type TEXT NOT NULL,
    name TEXT NOT NULL,
    description TEXT NOT NULL,
    abbreviation TEXT,
    url TEXT,
    homepage TEXT,
    doi TEXT,
    status TEXT,

    -- JSON-encoded string lists
    subjects TEXT NOT NULL,
    domains TEXT NOT NULL,
    taxonomies TEXT NOT NULL,
    countries TEXT NOT NULL,
    user_defined_tags TEXT NOT NULL,
    legacy_ids TEXT NOT NULL,

    created_at TEXT,
    updated_at TEXT
);

CREATE INDEX IF NOT EXISTS idx_records_registry ON records(registry);
CREATE INDEX IF NOT EXISTS idx_records_name ON records(name);

-- One row per warming run, successful or not
CREATE TABLE IF NOT EXISTS runs (
    id TEXT PRIMARY KEY,
    started_at TIMESTAMP NOT NULL,
    finished_at TIMESTAMP NOT NULL,
    success BOOLEAN NOT NULL,
    record_count INTEGER NOT NULL,
    page_count INTEGER NOT NULL,
    error TEXT
);

-- Key-value metadata about the warmed dataset
CREATE TABLE IF NOT EXISTS meta (
    key TEXT PRIMARY KEY,
    value TEXT NOT NULL
);
`

const (
	insertSchemaVersion = `INSERT OR REPLACE INTO meta (key, value) VALUES ('schema_version', ?)`
	getSchemaVersion    = `SELECT value FROM meta WHERE key = 'schema_version'`
)
