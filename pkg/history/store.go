package history

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/offtimer/offtimer-go/pkg/version"
)

var (
	// ErrCycleNotFound is returned when finishing an unknown cycle.
	ErrCycleNotFound = errors.New("cycle not found")

	// ErrIncompatibleSchema is returned when opening a database written with
	// a different major schema version.
	ErrIncompatibleSchema = errors.New("incompatible history schema")
)

// Outcome is how a cycle ended.
type Outcome string

const (
	OutcomePending   Outcome = "pending"
	OutcomeCompleted Outcome = "completed"
	OutcomeCancelled Outcome = "cancelled"
	OutcomeFailed    Outcome = "failed"
)

// Cycle is one armed period.
type Cycle struct {
	ID       string
	Mode     string
	Intent   string
	ArmedAt  time.Time
	Deadline time.Time
	Outcome  Outcome
	Reason   string
	EndedAt  *time.Time
}

// Store provides SQLite persistence for cycle history.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// NewStore opens (creating if needed) the database at dbPath.
func NewStore(dbPath string) (*Store, error) {
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// A single connection keeps ":memory:" databases coherent.
	db.SetMaxOpenConns(1)

	_, err = db.Exec(`PRAGMA journal_mode = WAL;`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to configure database: %w", err)
	}

	s := &Store{db: db}

	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return s, nil
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS cycles (
		id TEXT PRIMARY KEY,
		mode TEXT NOT NULL,
		intent TEXT NOT NULL,
		armed_at DATETIME NOT NULL,
		deadline DATETIME NOT NULL,
		outcome TEXT NOT NULL DEFAULT 'pending',
		reason TEXT,
		ended_at DATETIME
	);

	CREATE INDEX IF NOT EXISTS idx_cycles_armed_at ON cycles(armed_at);
	CREATE INDEX IF NOT EXISTS idx_cycles_outcome ON cycles(outcome);

	CREATE TABLE IF NOT EXISTS meta (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);
	`

	if _, err := s.db.Exec(schema); err != nil {
		return err
	}
	return s.checkSchema()
}

// checkSchema stamps a new database with the current schema version and
// refuses one written by an incompatible release.
func (s *Store) checkSchema() error {
	current := version.MustParse(version.HistorySchema)

	var stored string
	err := s.db.QueryRow(`SELECT value FROM meta WHERE key = 'schema_version'`).Scan(&stored)
	if err == sql.ErrNoRows {
		_, err = s.db.Exec(`INSERT INTO meta (key, value) VALUES ('schema_version', ?)`, current.String())
		return err
	}
	if err != nil {
		return err
	}

	v, err := version.Parse(stored)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrIncompatibleSchema, err)
	}
	if !current.Compatible(v) {
		return fmt.Errorf("%w: database has %s, want %d.x", ErrIncompatibleSchema, v, current.Major)
	}
	return nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Start records a newly armed cycle as pending.
func (s *Store) Start(c *Cycle) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`
		INSERT INTO cycles (id, mode, intent, armed_at, deadline, outcome)
		VALUES (?, ?, ?, ?, ?, ?)
	`, c.ID, c.Mode, c.Intent, c.ArmedAt.UTC(), c.Deadline.UTC(), OutcomePending)

	return err
}

// Finish sets the outcome of a pending cycle.
func (s *Store) Finish(id string, outcome Outcome, reason string, endedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.Exec(`
		UPDATE cycles SET outcome = ?, reason = ?, ended_at = ?
		WHERE id = ? AND outcome = ?
	`, outcome, reason, endedAt.UTC(), id, OutcomePending)
	if err != nil {
		return err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrCycleNotFound
	}
	return nil
}

// Get retrieves a cycle by ID. It returns nil, nil if the cycle is unknown.
func (s *Store) Get(id string) (*Cycle, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRow(`
		SELECT id, mode, intent, armed_at, deadline, outcome, reason, ended_at
		FROM cycles WHERE id = ?
	`, id)

	c, err := scanCycle(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return c, err
}

// List returns up to limit cycles, newest first. A limit <= 0 returns all.
func (s *Store) List(limit int) ([]*Cycle, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.Query(`
		SELECT id, mode, intent, armed_at, deadline, outcome, reason, ended_at
		FROM cycles ORDER BY armed_at DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cycles []*Cycle
	for rows.Next() {
		c, err := scanCycle(rows)
		if err != nil {
			return nil, err
		}
		cycles = append(cycles, c)
	}
	return cycles, rows.Err()
}

// Counts returns the number of cycles per outcome.
func (s *Store) Counts() (map[Outcome]int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`SELECT outcome, COUNT(*) FROM cycles GROUP BY outcome`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[Outcome]int)
	for rows.Next() {
		var o Outcome
		var n int
		if err := rows.Scan(&o, &n); err != nil {
			return nil, err
		}
		counts[o] = n
	}
	return counts, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanCycle(sc scanner) (*Cycle, error) {
	var c Cycle
	var reason sql.NullString
	var endedAt sql.NullTime

	err := sc.Scan(&c.ID, &c.Mode, &c.Intent, &c.ArmedAt, &c.Deadline, &c.Outcome, &reason, &endedAt)
	if err != nil {
		return nil, err
	}
	if reason.Valid {
		c.Reason = reason.String
	}
	if endedAt.Valid {
		t := endedAt.Time
		c.EndedAt = &t
	}
	return &c, nil
}
