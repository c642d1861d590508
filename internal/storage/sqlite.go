package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // pure go sqlite driver

	"github.com/san-kum/sigpath/internal/dynamo"
	"github.com/san-kum/sigpath/internal/sim"
)

// SQLiteStore keeps run metadata as JSON in a runs table and samples in a
// samples table keyed by run and row index.
type SQLiteStore struct {
	db   *sql.DB
	path string
}

func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil && !errors.Is(err, os.ErrExist) {
		return nil, fmt.Errorf("create dirs: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	return &SQLiteStore{db: db, path: path}, nil
}

func (s *SQLiteStore) Init() error {
	if _, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		created_at INTEGER NOT NULL,
		model TEXT NOT NULL,
		metadata BLOB NOT NULL
	)`); err != nil {
		return fmt.Errorf("create runs table: %w", err)
	}
	if _, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS samples (
		run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
		idx INTEGER NOT NULL,
		t REAL NOT NULL,
		state BLOB NOT NULL,
		PRIMARY KEY (run_id, idx)
	)`); err != nil {
		return fmt.Errorf("create samples table: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Close() error { return s.db.Close() }

func (s *SQLiteStore) Save(meta RunMetadata, result *sim.Result) (_ string, retErr error) {
	meta = complete(meta, result)
	blob, err := json.Marshal(meta)
	if err != nil {
		return "", err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return "", err
	}
	defer func() {
		if retErr != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err := tx.Exec(`INSERT INTO runs (id, created_at, model, metadata) VALUES (?, ?, ?, ?)`,
		meta.ID, meta.Timestamp.UnixNano(), meta.Model, blob); err != nil {
		return "", fmt.Errorf("insert run: %w", err)
	}

	stmt, err := tx.Prepare(`INSERT INTO samples (run_id, idx, t, state) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return "", err
	}
	defer stmt.Close()

	for i, x := range result.States {
		state, err := json.Marshal(x)
		if err != nil {
			return "", err
		}
		if _, err := stmt.Exec(meta.ID, i, result.Times[i], state); err != nil {
			return "", fmt.Errorf("insert sample %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", err
	}
	return meta.ID, nil
}

func (s *SQLiteStore) List() ([]RunMetadata, error) {
	rows, err := s.db.Query(`SELECT metadata FROM runs ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("select runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	runs := make([]RunMetadata, 0)
	for rows.Next() {
		var blob []byte
		if err := rows.Scan(&blob); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		var meta RunMetadata
		if err := json.Unmarshal(blob, &meta); err != nil {
			return nil, fmt.Errorf("decode run: %w", err)
		}
		runs = append(runs, meta)
	}
	return runs, rows.Err()
}

func (s *SQLiteStore) Load(id string) (*RunMetadata, error) {
	var blob []byte
	err := s.db.QueryRow(`SELECT metadata FROM runs WHERE id = ?`, id).Scan(&blob)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	var meta RunMetadata
	if err := json.Unmarshal(blob, &meta); err != nil {
		return nil, fmt.Errorf("decode run: %w", err)
	}
	return &meta, nil
}

func (s *SQLiteStore) LoadTrajectory(id string) (*Trajectory, error) {
	meta, err := s.Load(id)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.Query(`SELECT t, state FROM samples WHERE run_id = ? ORDER BY idx`, id)
	if err != nil {
		return nil, fmt.Errorf("select samples: %w", err)
	}
	defer func() { _ = rows.Close() }()

	tr := &Trajectory{Species: meta.Species}
	for rows.Next() {
		var (
			t    float64
			blob []byte
			x    dynamo.State
		)
		if err := rows.Scan(&t, &blob); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		if err := json.Unmarshal(blob, &x); err != nil {
			return nil, fmt.Errorf("decode sample: %w", err)
		}
		tr.Times = append(tr.Times, t)
		tr.States = append(tr.States, x)
	}
	return tr, rows.Err()
}
