package store

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"strings"
	"sync"

	_ "modernc.org/sqlite"
)

// Fixed keys for client-durable state. The token is the only credential the
// client persists; theme and debug mirror the server-side profile preference
// and the diagnostic override respectively.
const (
	keyToken = "token"
	keyTheme = "theme"
	keyDebug = "debug"
)

const stateFileName = "state.sqlite"

// Store persists small key-value client state (bearer token, theme, debug
// flag) in a SQLite file under the opsdash config dir.
//
// Storage trouble must never reach callers: if the database cannot be opened
// or written, the store degrades to process-memory values for the rest of the
// session. Reads prefer SQLite and fall back to memory.
type Store struct {
	Dir string

	mu       sync.Mutex
	db       *sql.DB
	degraded bool
	mem      map[string]string
}

// Open returns a Store rooted at dir (empty = ~/.opsdash). It never fails;
// a broken environment yields an in-memory-only store.
func Open(dir string) *Store {
	if strings.TrimSpace(dir) == "" {
		if d, err := ConfigDir(); err == nil {
			dir = d
		}
	}
	return &Store{Dir: dir, mem: map[string]string{}}
}

func (s *Store) Token() (string, bool) {
	v := s.get(keyToken)
	return v, v != ""
}

// SetToken persists the bearer token; an empty token removes the stored
// credential.
func (s *Store) SetToken(token string) {
	s.set(keyToken, token)
}

func (s *Store) Theme() string {
	switch s.get(keyTheme) {
	case "bright":
		return "bright"
	default:
		return "dark"
	}
}

func (s *Store) SetTheme(theme string) {
	s.set(keyTheme, theme)
}

func (s *Store) Debug() bool {
	return s.get(keyDebug) == "1"
}

// SetDebug persists the diagnostic override. Once enabled it survives across
// sessions until explicitly cleared.
func (s *Store) SetDebug(on bool) {
	if on {
		s.set(keyDebug, "1")
	} else {
		s.set(keyDebug, "")
	}
}

func (s *Store) get(key string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if db := s.open(); db != nil {
		var v string
		err := db.QueryRowContext(context.Background(), `SELECT v FROM prefs WHERE k = ?`, key).Scan(&v)
		if err == nil {
			return v
		}
		if err == sql.ErrNoRows {
			return s.mem[key]
		}
		// Read failure: fall through to memory for this call.
	}
	return s.mem[key]
}

func (s *Store) set(key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Memory always tracks the latest value so degraded sessions stay coherent.
	if value == "" {
		delete(s.mem, key)
	} else {
		s.mem[key] = value
	}

	db := s.open()
	if db == nil {
		return
	}
	ctx := context.Background()
	var err error
	if value == "" {
		_, err = db.ExecContext(ctx, `DELETE FROM prefs WHERE k = ?`, key)
	} else {
		_, err = db.ExecContext(ctx, `INSERT OR REPLACE INTO prefs(k, v) VALUES(?, ?)`, key, value)
	}
	if err != nil {
		// Keep serving from memory; later calls may succeed again.
		return
	}
}

// open lazily opens the SQLite handle. Callers hold s.mu. A nil return means
// the store is degraded to memory.
func (s *Store) open() *sql.DB {
	if s.db != nil {
		return s.db
	}
	if s.degraded {
		return nil
	}
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		s.degraded = true
		return nil
	}
	// modernc.org/sqlite driver name is "sqlite".
	db, err := sql.Open("sqlite", filepath.Join(s.Dir, stateFileName))
	if err != nil {
		s.degraded = true
		return nil
	}
	ctx := context.Background()
	// busy_timeout keeps concurrent CLI + TUI invocations from "database is locked" flakiness.
	for _, p := range []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
	} {
		if _, err := db.ExecContext(ctx, p); err != nil {
			_ = db.Close()
			s.degraded = true
			return nil
		}
	}
	if _, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS prefs (
		k TEXT PRIMARY KEY,
		v TEXT NOT NULL
	);`); err != nil {
		_ = db.Close()
		s.degraded = true
		return nil
	}
	s.db = db
	return db
}

// Close releases the underlying handle. Safe on a degraded store.
func (s *Store) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db != nil {
		_ = s.db.Close()
		s.db = nil
	}
}
