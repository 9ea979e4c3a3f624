// Package store handles durable vote tallies and voter records.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/manabcodes/bangladesh-election-poll/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

const (
	tallyKey    = "pollVotes"
	voterPrefix = "voted_"
)

// Store wraps SQLite access for the poll key space.
type Store struct {
	db  *sql.DB
	now func() time.Time

	// mu serializes writers (Save, Update, RecordVote); reads go straight to the db.
	mu sync.Mutex
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path+"?_txlock=immediate&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, err
	}
	store := &Store{db: db, now: time.Now}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS kv (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

type queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// Load reads the persisted tally. A missing record yields an empty tally.
func (s *Store) Load(ctx context.Context) (model.Tally, error) {
	return loadTally(ctx, s.db)
}

// Save overwrites the persisted tally. Last writer wins.
func (s *Store) Save(ctx context.Context, t model.Tally) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return saveTally(ctx, s.db, t)
}

// Update loads, transforms and saves the tally in one immediate transaction,
// so concurrent increments from other handles are not lost.
func (s *Store) Update(ctx context.Context, fn func(model.Tally) model.Tally) (model.Tally, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()

	current, err := loadTally(ctx, tx)
	if err != nil {
		return nil, err
	}
	next := fn(current)
	if err = saveTally(ctx, tx, next); err != nil {
		return nil, err
	}
	if err = tx.Commit(); err != nil {
		return nil, err
	}
	return next, nil
}

// HasVoted reports whether a voter record exists for the fingerprint.
func (s *Store) HasVoted(ctx context.Context, fingerprint string) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx, `SELECT 1 FROM kv WHERE key = ?`, VoterKey(fingerprint)).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// RecordVote writes the voter record for the fingerprint with the current time.
func (s *Store) RecordVote(ctx context.Context, fingerprint string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stamp := strconv.FormatInt(s.now().UnixMilli(), 10)
	return upsert(ctx, s.db, VoterKey(fingerprint), stamp)
}

// Voters lists voter records ordered by vote time.
func (s *Store) Voters(ctx context.Context) ([]model.VoterRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT key, value FROM kv WHERE substr(key, 1, ?) = ? ORDER BY value ASC`,
		len(voterPrefix), voterPrefix)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var voters []model.VoterRecord
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, err
		}
		rec := model.VoterRecord{Fingerprint: strings.TrimPrefix(key, voterPrefix)}
		if ms, err := strconv.ParseInt(value, 10, 64); err == nil {
			rec.VotedAt = time.UnixMilli(ms)
		}
		voters = append(voters, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return voters, nil
}

// VoterKey derives the durable key name for a fingerprint.
func VoterKey(fingerprint string) string {
	return voterPrefix + fingerprint
}

func loadTally(ctx context.Context, q queryer) (model.Tally, error) {
	var raw string
	err := q.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, tallyKey).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Tally{}, nil
	}
	if err != nil {
		return nil, err
	}
	return decodeTally(raw)
}

func saveTally(ctx context.Context, q queryer, t model.Tally) error {
	raw, err := encodeTally(t)
	if err != nil {
		return err
	}
	return upsert(ctx, q, tallyKey, raw)
}

func upsert(ctx context.Context, q queryer, key, value string) error {
	_, err := q.ExecContext(ctx,
		`INSERT INTO kv (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value)
	return err
}

func encodeTally(t model.Tally) (string, error) {
	if t == nil {
		t = model.Tally{}
	}
	raw, err := json.Marshal(t)
	if err != nil {
		return "", fmt.Errorf("failed to encode tally: %w", err)
	}
	return string(raw), nil
}

func decodeTally(raw string) (model.Tally, error) {
	t := model.Tally{}
	if err := json.Unmarshal([]byte(raw), &t); err != nil {
		return nil, fmt.Errorf("failed to decode tally: %w", err)
	}
	if t == nil {
		t = model.Tally{}
	}
	return t, nil
}
