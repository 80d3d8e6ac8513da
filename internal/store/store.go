// Package store persists opt-in device snapshots in a local SQLite
// database for the history commands. The rendering pipeline never touches
// it.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/blktree/blktree/internal/device"
)

// DefaultPath returns the default database location.
func DefaultPath() string {
	return filepath.Join(os.Getenv("HOME"), ".local/share/blktree/history.db")
}

// DB wraps the SQLite database connection.
type DB struct {
	conn *sql.DB
	path string
}

// Snapshot is one saved device snapshot's metadata.
type Snapshot struct {
	ID      int64
	TakenAt time.Time
	Devices int
}

// Open opens or creates the snapshot database at the given path.
func Open(path string) (*DB, error) {
	if path == "" {
		path = DefaultPath()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("creating database directory: %w", err)
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if _, err := conn.Exec("PRAGMA foreign_keys = ON; PRAGMA journal_mode = WAL;"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("configuring database: %w", err)
	}

	db := &DB{conn: conn, path: path}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	return db, nil
}

// Close closes the database connection.
func (d *DB) Close() error {
	return d.conn.Close()
}

// Path returns the database file path.
func (d *DB) Path() string {
	return d.path
}

func (d *DB) migrate() error {
	_, err := d.conn.Exec(`
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER PRIMARY KEY,
			applied_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return err
	}

	var version int
	if err := d.conn.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_version").Scan(&version); err != nil {
		return err
	}

	migrations := []string{
		migrationV1,
	}
	for i, migration := range migrations {
		v := i + 1
		if v <= version {
			continue
		}
		tx, err := d.conn.Begin()
		if err != nil {
			return err
		}
		if _, err := tx.Exec(migration); err != nil {
			tx.Rollback()
			return fmt.Errorf("migration v%d: %w", v, err)
		}
		if _, err := tx.Exec("INSERT INTO schema_version (version) VALUES (?)", v); err != nil {
			tx.Rollback()
			return err
		}
		if err := tx.Commit(); err != nil {
			return err
		}
	}
	return nil
}

const migrationV1 = `
CREATE TABLE snapshots (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	taken_at TIMESTAMP NOT NULL
);

CREATE TABLE snapshot_devices (
	snapshot_id INTEGER NOT NULL REFERENCES snapshots(id) ON DELETE CASCADE,
	name TEXT NOT NULL,
	type TEXT NOT NULL,
	parent TEXT NOT NULL DEFAULT '',
	size_bytes INTEGER NOT NULL,
	used_bytes INTEGER,
	mountpoint TEXT NOT NULL DEFAULT '',
	fstype TEXT NOT NULL DEFAULT '',
	model TEXT NOT NULL DEFAULT '',
	label TEXT NOT NULL DEFAULT '',
	removable INTEGER NOT NULL DEFAULT 0,
	readonly INTEGER NOT NULL DEFAULT 0,
	PRIMARY KEY (snapshot_id, name)
);

CREATE INDEX idx_snapshot_devices_snapshot ON snapshot_devices(snapshot_id);
`

// SaveSnapshot records one full device snapshot and returns its id.
func (d *DB) SaveSnapshot(records []device.Record) (int64, error) {
	tx, err := d.conn.Begin()
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	res, err := tx.Exec("INSERT INTO snapshots (taken_at) VALUES (?)", time.Now().UTC())
	if err != nil {
		return 0, fmt.Errorf("inserting snapshot: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}

	stmt, err := tx.Prepare(`
		INSERT INTO snapshot_devices (
			snapshot_id, name, type, parent, size_bytes, used_bytes,
			mountpoint, fstype, model, label, removable, readonly
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	for _, r := range records {
		var used sql.NullInt64
		if r.UsedBytes != nil {
			used = sql.NullInt64{Int64: int64(*r.UsedBytes), Valid: true}
		}
		if _, err := stmt.Exec(
			id, r.Name, r.Type, r.Parent, int64(r.SizeBytes), used,
			r.Mountpoint, r.FSType, r.Model, r.Label, r.Removable, r.ReadOnly,
		); err != nil {
			return 0, fmt.Errorf("inserting device %s: %w", r.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return id, nil
}

// ListSnapshots returns all saved snapshots, newest first.
func (d *DB) ListSnapshots() ([]Snapshot, error) {
	rows, err := d.conn.Query(`
		SELECT s.id, s.taken_at, COUNT(sd.name)
		FROM snapshots s
		LEFT JOIN snapshot_devices sd ON sd.snapshot_id = s.id
		GROUP BY s.id
		ORDER BY s.id DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var snaps []Snapshot
	for rows.Next() {
		var s Snapshot
		if err := rows.Scan(&s.ID, &s.TakenAt, &s.Devices); err != nil {
			return nil, err
		}
		snaps = append(snaps, s)
	}
	return snaps, rows.Err()
}

// LoadSnapshot returns the device records of one saved snapshot.
func (d *DB) LoadSnapshot(id int64) ([]device.Record, error) {
	var exists int
	if err := d.conn.QueryRow("SELECT COUNT(*) FROM snapshots WHERE id = ?", id).Scan(&exists); err != nil {
		return nil, err
	}
	if exists == 0 {
		return nil, fmt.Errorf("snapshot %d not found", id)
	}

	rows, err := d.conn.Query(`
		SELECT name, type, parent, size_bytes, used_bytes,
		       mountpoint, fstype, model, label, removable, readonly
		FROM snapshot_devices
		WHERE snapshot_id = ?
		ORDER BY name
	`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []device.Record
	for rows.Next() {
		var r device.Record
		var size int64
		var used sql.NullInt64
		if err := rows.Scan(
			&r.Name, &r.Type, &r.Parent, &size, &used,
			&r.Mountpoint, &r.FSType, &r.Model, &r.Label, &r.Removable, &r.ReadOnly,
		); err != nil {
			return nil, err
		}
		r.SizeBytes = uint64(size)
		if used.Valid {
			u := uint64(used.Int64)
			r.UsedBytes = &u
		}
		r.Kind = device.KindFromType(r.Type)
		records = append(records, r)
	}
	return records, rows.Err()
}

// LatestIDs returns the ids of the most recent n snapshots, oldest first.
func (d *DB) LatestIDs(n int) ([]int64, error) {
	rows, err := d.conn.Query("SELECT id FROM snapshots ORDER BY id DESC LIMIT ?", n)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	// Reverse into chronological order.
	for i, j := 0, len(ids)-1; i < j; i, j = i+1, j-1 {
		ids[i], ids[j] = ids[j], ids[i]
	}
	return ids, nil
}
