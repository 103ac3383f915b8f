package session

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/wishwell/wishwell-go/pkg/models"
)

const (
	tokenKey    = "session.token"
	identityKey = "session.identity"
)

// SQLiteStore persists the session snapshot in a local SQLite file, the
// durable-storage analog of the browser client's localStorage.
type SQLiteStore struct {
	sqlDB *sql.DB
}

// OpenSQLiteStore opens (or creates) the session store at the given path.
func OpenSQLiteStore(path string) (*SQLiteStore, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("session store path is required")
	}
	cleanPath := filepath.Clean(path)
	dsn := cleanPath + "?_journal_mode=WAL&_busy_timeout=5000&_synchronous=NORMAL"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite session store: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite session store: %w", err)
	}

	const schema = `CREATE TABLE IF NOT EXISTS session_state (
		key   TEXT PRIMARY KEY,
		value TEXT NOT NULL
	)`
	if _, err := sqlDB.Exec(schema); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("create session_state table: %w", err)
	}

	return &SQLiteStore{sqlDB: sqlDB}, nil
}

func (s *SQLiteStore) Load(ctx context.Context) (*models.Session, error) {
	token, err := s.get(ctx, tokenKey)
	if err != nil {
		return nil, err
	}
	if token == "" {
		return nil, nil
	}

	session := &models.Session{Token: token}

	rawIdentity, err := s.get(ctx, identityKey)
	if err != nil {
		return nil, err
	}
	if rawIdentity != "" {
		var identity models.Identity
		if err := json.Unmarshal([]byte(rawIdentity), &identity); err != nil {
			return nil, fmt.Errorf("decode persisted identity: %w", err)
		}
		session.Identity = &identity
	}

	return session, nil
}

func (s *SQLiteStore) Save(ctx context.Context, session *models.Session) error {
	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin session save: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := upsert(ctx, tx, tokenKey, session.Token); err != nil {
		return err
	}

	if session.Identity != nil {
		rawIdentity, err := json.Marshal(session.Identity)
		if err != nil {
			return fmt.Errorf("encode identity snapshot: %w", err)
		}
		if err := upsert(ctx, tx, identityKey, string(rawIdentity)); err != nil {
			return err
		}
	} else {
		if _, err := tx.ExecContext(ctx, `DELETE FROM session_state WHERE key = ?`, identityKey); err != nil {
			return fmt.Errorf("clear identity snapshot: %w", err)
		}
	}

	return tx.Commit()
}

func (s *SQLiteStore) Clear(ctx context.Context) error {
	if _, err := s.sqlDB.ExecContext(ctx, `DELETE FROM session_state`); err != nil {
		return fmt.Errorf("clear session state: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

func (s *SQLiteStore) get(ctx context.Context, key string) (string, error) {
	var value string
	err := s.sqlDB.QueryRowContext(ctx, `SELECT value FROM session_state WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read %s: %w", key, err)
	}
	return value, nil
}

func upsert(ctx context.Context, tx *sql.Tx, key, value string) error {
	const query = `INSERT INTO session_state (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`
	if _, err := tx.ExecContext(ctx, query, key, value); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}
