package audit

import (
	"database/sql"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Invocation is one recorded tool call: what was invoked, with what
// arguments, and how it went. Business state lives in the remote
// ledger; this is the local audit trail only.
type Invocation struct {
	ID         string
	SessionID  string
	Tool       string
	Arguments  map[string]any
	StartedAt  time.Time
	DurationMS int64
	Success    bool
	Error      string
}

// Store persists tool invocations to SQLite.
type Store struct {
	db *sql.DB
}

// NewStore opens (or creates) the audit database at dbPath.
func NewStore(dbPath string) (*Store, error) {
	// Expand ~ in path
	if strings.HasPrefix(dbPath, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, err
	}

	return store, nil
}

func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS tool_invocations (
			id TEXT PRIMARY KEY,
			session_id TEXT NOT NULL,
			tool TEXT NOT NULL,
			arguments TEXT,
			started_at DATETIME NOT NULL,
			duration_ms INTEGER NOT NULL,
			success INTEGER NOT NULL,
			error TEXT
		);

		CREATE INDEX IF NOT EXISTS idx_invocations_tool ON tool_invocations(tool);
		CREATE INDEX IF NOT EXISTS idx_invocations_session ON tool_invocations(session_id);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// Record saves one invocation.
func (s *Store) Record(inv *Invocation) error {
	argsJSON, _ := json.Marshal(inv.Arguments)

	_, err := s.db.Exec(`
		INSERT INTO tool_invocations (id, session_id, tool, arguments, started_at, duration_ms, success, error)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, inv.ID, inv.SessionID, inv.Tool, string(argsJSON), inv.StartedAt, inv.DurationMS, inv.Success, inv.Error)

	return err
}

// ListRecent returns the newest invocations, most recent first.
func (s *Store) ListRecent(limit int) ([]*Invocation, error) {
	rows, err := s.db.Query(`
		SELECT id, session_id, tool, arguments, started_at, duration_ms, success, error
		FROM tool_invocations
		ORDER BY started_at DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var invocations []*Invocation
	for rows.Next() {
		inv := &Invocation{}
		var argsJSON string
		if err := rows.Scan(&inv.ID, &inv.SessionID, &inv.Tool, &argsJSON, &inv.StartedAt, &inv.DurationMS, &inv.Success, &inv.Error); err != nil {
			return nil, err
		}
		if argsJSON != "" {
			_ = json.Unmarshal([]byte(argsJSON), &inv.Arguments)
		}
		invocations = append(invocations, inv)
	}

	return invocations, rows.Err()
}
