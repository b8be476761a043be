// Package store persists analysis results in a SQLite database.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/unclesp1d3r/credscan/lib/result"
	_ "modernc.org/sqlite" // SQLite driver
)

const (
	busyTimeoutMillis = 5000
	dirPermissions    = 0o750
)

// ErrNotFound is returned by LoadResult when no result is stored for the object and plugin.
var ErrNotFound = errors.New("no stored result")

const schema = `
CREATE TABLE IF NOT EXISTS analysis_results (
	object_id     TEXT    NOT NULL,
	plugin        TEXT    NOT NULL,
	result_json   TEXT    NOT NULL,
	analysis_date INTEGER NOT NULL,
	PRIMARY KEY (object_id, plugin)
)`

// SQLiteStore stores one result per object and plugin. It implements plugin.ResultSink.
type SQLiteStore struct {
	db *sql.DB
}

// Open opens, creating if needed, the database at path and applies the schema.
func Open(ctx context.Context, path string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), dirPermissions); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// Workers store concurrently; a single connection avoids "database is locked".
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, fmt.Sprintf("PRAGMA busy_timeout = %d", busyTimeoutMillis)); err != nil {
		_ = db.Close()

		return nil, fmt.Errorf("set busy_timeout: %w", err)
	}

	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()

		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// StoreResult stores r for objectID under pluginName, replacing any earlier result.
func (s *SQLiteStore) StoreResult(ctx context.Context, objectID, pluginName string, r *result.AnalysisResult) error {
	data, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("encode result: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO analysis_results(object_id, plugin, result_json, analysis_date)
		VALUES(?, ?, ?, ?)
		ON CONFLICT(object_id, plugin) DO UPDATE SET
			result_json=excluded.result_json,
			analysis_date=excluded.analysis_date
	`, objectID, pluginName, string(data), time.Now().Unix())
	if err != nil {
		return fmt.Errorf("upsert result: %w", err)
	}

	return nil
}

// Record is a stored result.
type Record struct {
	ObjectID     string
	Plugin       string
	Result       json.RawMessage
	AnalysisDate time.Time
}

// LoadResult returns the stored result JSON for objectID and pluginName.
func (s *SQLiteStore) LoadResult(ctx context.Context, objectID, pluginName string) (json.RawMessage, error) {
	rec, err := s.LoadRecord(ctx, objectID, pluginName)
	if err != nil {
		return nil, err
	}

	return rec.Result, nil
}

// LoadRecord returns the stored result for objectID and pluginName with its analysis date.
func (s *SQLiteStore) LoadRecord(ctx context.Context, objectID, pluginName string) (Record, error) {
	var (
		data string
		date int64
	)

	err := s.db.QueryRowContext(ctx, `
		SELECT result_json, analysis_date
		FROM analysis_results
		WHERE object_id = ? AND plugin = ?
	`, objectID, pluginName).Scan(&data, &date)
	if errors.Is(err, sql.ErrNoRows) {
		return Record{}, fmt.Errorf("%w for %s (%s)", ErrNotFound, objectID, pluginName)
	}

	if err != nil {
		return Record{}, fmt.Errorf("query result: %w", err)
	}

	return Record{
		ObjectID:     objectID,
		Plugin:       pluginName,
		Result:       json.RawMessage(data),
		AnalysisDate: time.Unix(date, 0),
	}, nil
}

// ObjectIDs returns the ids of every object with a result from pluginName, oldest first.
func (s *SQLiteStore) ObjectIDs(ctx context.Context, pluginName string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT object_id FROM analysis_results WHERE plugin = ? ORDER BY analysis_date, object_id
	`, pluginName)
	if err != nil {
		return nil, fmt.Errorf("query objects: %w", err)
	}
	defer rows.Close()

	var ids []string

	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan object id: %w", err)
		}

		ids = append(ids, id)
	}

	return ids, rows.Err()
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
