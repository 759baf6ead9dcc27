package via

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"time"

	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"
)

// Session provides access to the user's session data.
// Session data persists across page views for the same browser.
// Every method is a no-op when no SessionManager is configured or when the
// context has no request attached yet (e.g. during page registration).
type Session struct {
	ctx     context.Context
	manager *scs.SessionManager
}

func (s *Session) usable() bool {
	return s.manager != nil && s.ctx != nil
}

// GetString retrieves a string value from the session.
func (s *Session) GetString(key string) string {
	if !s.usable() {
		return ""
	}
	return s.manager.GetString(s.ctx, key)
}

// Set stores a value in the session.
func (s *Session) Set(key string, val any) {
	if !s.usable() {
		return
	}
	s.manager.Put(s.ctx, key, val)
}

const sqliteSessionSchema = `CREATE TABLE IF NOT EXISTS sessions (
	token TEXT PRIMARY KEY,
	data BLOB NOT NULL,
	expiry REAL NOT NULL
)`

const sqliteSessionIndex = `CREATE INDEX IF NOT EXISTS sessions_expiry_idx ON sessions(expiry)`

// NewSQLiteSessionManager creates the sessions table in db when missing and
// returns a session manager storing its data there. The caller owns db and
// must register a sqlite3 driver (e.g. github.com/mattn/go-sqlite3).
func NewSQLiteSessionManager(db *sql.DB) (*scs.SessionManager, error) {
	if db == nil {
		return nil, fmt.Errorf("sqlite session manager: nil db")
	}
	if _, err := db.Exec(sqliteSessionSchema); err != nil {
		return nil, fmt.Errorf("sqlite session manager: create table: %w", err)
	}
	if _, err := db.Exec(sqliteSessionIndex); err != nil {
		return nil, fmt.Errorf("sqlite session manager: create index: %w", err)
	}
	sm := scs.New()
	sm.Lifetime = 24 * time.Hour
	sm.Cookie.SameSite = http.SameSiteLaxMode
	sm.Store = sqlite3store.NewWithCleanupInterval(db, 30*time.Minute)
	return sm, nil
}
