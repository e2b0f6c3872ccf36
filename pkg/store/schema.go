package store

// SchemaVersion is the current settings schema version.
const SchemaVersion = 1

// Schema contains the SQLite settings schema.
const Schema = `
-- Key-value settings (selected pool, wallet address)
CREATE TABLE IF NOT EXISTS settings (
    key TEXT PRIMARY KEY,
    value TEXT NOT NULL,
    updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

-- Schema version tracking
CREATE TABLE IF NOT EXISTS schema_version (
    version INTEGER PRIMARY KEY,
    applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
);
`

// Migrations maps schema versions to the SQL that upgrades to them. Version 1
// is created directly from Schema, so the map is empty until a version 2
// exists; bump SchemaVersion and add the upgrade here together.
var Migrations = map[int]string{}
