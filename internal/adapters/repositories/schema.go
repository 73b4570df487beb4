package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"waste-collection-service/internal/platform/db"
)

// Column types that differ between dialects. Statements use {{id}}, {{float}}, {{bool}} and {{ts}}.
var columnTypes = map[db.Dialect]*strings.Replacer{
	db.SQLite: strings.NewReplacer(
		"{{id}}", "INTEGER PRIMARY KEY AUTOINCREMENT",
		"{{float}}", "REAL",
		"{{bool}}", "INTEGER",
		"{{ts}}", "DATETIME",
	),
	db.Postgres: strings.NewReplacer(
		"{{id}}", "BIGSERIAL PRIMARY KEY",
		"{{float}}", "DOUBLE PRECISION",
		"{{bool}}", "BOOLEAN",
		"{{ts}}", "TIMESTAMPTZ",
	),
}

var schemaStatements = []string{
	`
	CREATE TABLE IF NOT EXISTS roles (
		id {{id}},
		name TEXT NOT NULL UNIQUE,
		description TEXT NOT NULL DEFAULT '',
		permissions TEXT NOT NULL DEFAULT '{}',
		created_at {{ts}} NOT NULL,
		updated_at {{ts}} NOT NULL
	);
	`,
	`
	CREATE TABLE IF NOT EXISTS users (
		id {{id}},
		username TEXT NOT NULL UNIQUE,
		email TEXT NOT NULL DEFAULT '',
		password_hash TEXT NOT NULL,
		role TEXT NOT NULL,
		is_active {{bool}} NOT NULL,
		is_staff {{bool}} NOT NULL,
		created_at {{ts}} NOT NULL
	);
	`,
	`
	CREATE TABLE IF NOT EXISTS bins (
		id {{id}},
		bin_id TEXT NOT NULL UNIQUE,
		fill_level {{float}} NOT NULL,
		lat {{float}} NOT NULL,
		lon {{float}} NOT NULL,
		organic_pct {{float}} NOT NULL,
		plastic_pct {{float}} NOT NULL,
		metal_pct {{float}} NOT NULL,
		last_updated {{ts}} NOT NULL
	);
	`,
	`
	CREATE TABLE IF NOT EXISTS dumping_spots (
		id {{id}},
		spot_id TEXT NOT NULL UNIQUE,
		lat {{float}} NOT NULL,
		lon {{float}} NOT NULL,
		total_capacity {{float}} NOT NULL,
		organic_content {{float}} NOT NULL,
		plastic_content {{float}} NOT NULL,
		metal_content {{float}} NOT NULL
	);
	`,
	`
	CREATE TABLE IF NOT EXISTS trucks (
		id {{id}},
		truck_id TEXT NOT NULL UNIQUE,
		driver_name TEXT NOT NULL DEFAULT '',
		lat {{float}} NOT NULL,
		lon {{float}} NOT NULL,
		fuel_level {{float}} NOT NULL,
		status TEXT NOT NULL,
		last_updated {{ts}} NOT NULL
	);
	`,
	`
	CREATE TABLE IF NOT EXISTS sensor_readings (
		id {{id}},
		sensor_id TEXT NOT NULL DEFAULT '',
		bin_id TEXT NOT NULL,
		fill_level {{float}} NOT NULL,
		lat {{float}},
		lon {{float}},
		organic_pct {{float}},
		plastic_pct {{float}},
		metal_pct {{float}},
		recorded_at {{ts}} NOT NULL
	);
	`,
	`
	CREATE INDEX IF NOT EXISTS idx_sensor_readings_recorded_at
	ON sensor_readings(recorded_at);
	`,
	`
	CREATE TABLE IF NOT EXISTS cameras (
		id {{id}},
		camera_id TEXT NOT NULL UNIQUE,
		name TEXT NOT NULL DEFAULT '',
		bin_id TEXT NOT NULL DEFAULT '',
		lat {{float}} NOT NULL,
		lon {{float}} NOT NULL,
		active {{bool}} NOT NULL
	);
	`,
	`
	CREATE TABLE IF NOT EXISTS camera_images (
		id {{id}},
		camera_id BIGINT NOT NULL REFERENCES cameras(id) ON DELETE CASCADE,
		analysis_type TEXT NOT NULL,
		path TEXT NOT NULL,
		thumbnail_path TEXT NOT NULL DEFAULT '',
		width INTEGER NOT NULL,
		height INTEGER NOT NULL,
		size_bytes BIGINT NOT NULL,
		uploaded_at {{ts}} NOT NULL
	);
	`,
	`
	CREATE INDEX IF NOT EXISTS idx_camera_images_camera_id
	ON camera_images(camera_id);
	`,
}

// Initialize the database schema for the given dialect.
func InitSchema(conn *sql.DB, dialect db.Dialect) error {
	if conn == nil {
		return errors.New("init schema: DB is nil")
	}

	types, ok := columnTypes[dialect]
	if !ok {
		return fmt.Errorf("init schema: unsupported dialect %q", dialect)
	}

	tx, err := conn.Begin()
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for i, stmt := range schemaStatements {
		if _, err := tx.Exec(types.Replace(stmt)); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}

// Open the configured database and ensure its schema exists.
// A SQLite file's parent directory is created when missing.
func Open(driver, dsn string) (*sql.DB, db.Dialect, error) {
	if db.Dialect(driver) == db.SQLite {
		if dir := filepath.Dir(dsn); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, "", fmt.Errorf("open store: create %s: %w", dir, err)
			}
		}
	}

	conn, dialect, err := db.OpenDriver(driver, dsn)
	if err != nil {
		return nil, "", fmt.Errorf("open store: %w", err)
	}
	if err := InitSchema(conn, dialect); err != nil {
		conn.Close()
		return nil, "", fmt.Errorf("open store: %w", err)
	}
	return conn, dialect, nil
}
