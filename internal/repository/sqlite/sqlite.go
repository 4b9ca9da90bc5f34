// Package sqlite implements the repository interfaces on SQLite.
//
// WHY modernc.org/sqlite?
// It's a pure Go translation of the SQLite C code — no CGo, no C
// compiler, cross-compiles everywhere Go does. The driver registers
// itself under the name "sqlite" via its init function, which is what
// the blank import below is for.
//
// The database is a single file (or ":memory:" in tests). WAL mode
// allows concurrent reads while a generation worker commits progress
// updates; foreign keys are enabled so deleting a user cascades to
// their podcasts, favorites and chat history.
package sqlite

import (
	"database/sql"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"
)

// DB wraps a sql.DB connection pool. The per-entity repositories
// (Users, Podcasts, Favorites, Chat) share it.
type DB struct {
	conn *sql.DB
}

// Users returns the user repository backed by this database.
func (db *DB) Users() *UserRepo { return &UserRepo{db: db} }

// Podcasts returns the podcast repository backed by this database.
func (db *DB) Podcasts() *PodcastRepo { return &PodcastRepo{db: db} }

// Favorites returns the favorites repository backed by this database.
func (db *DB) Favorites() *FavoriteRepo { return &FavoriteRepo{db: db} }

// Chat returns the chat history repository backed by this database.
func (db *DB) Chat() *ChatRepo { return &ChatRepo{db: db} }

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// isUniqueViolation detects UNIQUE constraint failures without
// depending on the driver's error types. SQLite reports these as
// "UNIQUE constraint failed: <table>.<column>".
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// New opens the database at dbPath, applies pragmas and runs migrations.
func New(dbPath string) (*DB, error) {
	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening database: %w", err)
	}

	// sql.Open only creates the pool; Ping forces a real connection so
	// a bad path or permissions problem surfaces here, not on the
	// first query.
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: pinging database: %w", err)
	}

	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: setting WAL mode: %w", err)
	}
	if _, err := conn.Exec("PRAGMA foreign_keys=ON"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: enabling foreign keys: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: running migrations: %w", err)
	}

	return db, nil
}

// Close closes the connection pool. Always defer this next to New.
func (db *DB) Close() error {
	return db.conn.Close()
}

// Ping verifies the connection; the health endpoint uses it.
func (db *DB) Ping() error {
	return db.conn.Ping()
}

// migrate creates the schema. CREATE TABLE IF NOT EXISTS keeps this
// safe to run on every start.
func (db *DB) migrate() error {
	_, err := db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS users (
			id            TEXT PRIMARY KEY,
			name          TEXT NOT NULL,
			email         TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			role          TEXT NOT NULL DEFAULT 'user' CHECK (role IN ('user', 'admin')),
			bio           TEXT NOT NULL DEFAULT '',
			avatar_url    TEXT NOT NULL DEFAULT '',
			preferences   TEXT NOT NULL DEFAULT '',
			is_active     INTEGER NOT NULL DEFAULT 1,
			is_verified   INTEGER NOT NULL DEFAULT 0,
			created_at    DATETIME NOT NULL,
			updated_at    DATETIME NOT NULL,
			last_login    DATETIME,
			last_logout   DATETIME
		);
		CREATE INDEX IF NOT EXISTS idx_users_created_at ON users(created_at);
	`)
	if err != nil {
		return fmt.Errorf("creating users table: %w", err)
	}

	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS podcasts (
			id             TEXT PRIMARY KEY,
			user_id        TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			book_id        INTEGER NOT NULL,
			book_title     TEXT NOT NULL,
			book_author    TEXT NOT NULL,
			title          TEXT NOT NULL,
			description    TEXT NOT NULL DEFAULT '',
			audio_url      TEXT NOT NULL DEFAULT '',
			file_size      INTEGER NOT NULL DEFAULT 0,
			duration       TEXT NOT NULL,
			format         TEXT NOT NULL DEFAULT 'mp3',
			script         TEXT NOT NULL DEFAULT '',
			language       TEXT NOT NULL DEFAULT 'English',
			tone           TEXT NOT NULL DEFAULT 'educational',
			speed          REAL NOT NULL DEFAULT 1.0,
			status         TEXT NOT NULL DEFAULT 'pending'
				CHECK (status IN ('pending', 'processing', 'completed', 'failed', 'cancelled')),
			progress       INTEGER NOT NULL DEFAULT 0 CHECK (progress BETWEEN 0 AND 100),
			error_message  TEXT NOT NULL DEFAULT '',
			play_count     INTEGER NOT NULL DEFAULT 0,
			like_count     INTEGER NOT NULL DEFAULT 0,
			download_count INTEGER NOT NULL DEFAULT 0,
			tags           TEXT NOT NULL DEFAULT '',
			is_public      INTEGER NOT NULL DEFAULT 0,
			created_at     DATETIME NOT NULL,
			updated_at     DATETIME NOT NULL,
			completed_at   DATETIME
		);
		CREATE INDEX IF NOT EXISTS idx_podcast_user_status ON podcasts(user_id, status);
		CREATE INDEX IF NOT EXISTS idx_podcast_created ON podcasts(created_at);
		CREATE INDEX IF NOT EXISTS idx_podcast_book ON podcasts(book_id);
	`)
	if err != nil {
		return fmt.Errorf("creating podcasts table: %w", err)
	}

	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS favorite_books (
			id        TEXT PRIMARY KEY,
			user_id   TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			book_id   INTEGER NOT NULL,
			notes     TEXT NOT NULL DEFAULT '',
			rating    INTEGER NOT NULL DEFAULT 0 CHECK (rating BETWEEN 0 AND 5),
			last_read DATETIME,
			added_at  DATETIME NOT NULL,
			UNIQUE (user_id, book_id)
		);
	`)
	if err != nil {
		return fmt.Errorf("creating favorite_books table: %w", err)
	}

	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS chat_history (
			id         TEXT PRIMARY KEY,
			user_id    TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			message    TEXT NOT NULL,
			is_user    INTEGER NOT NULL DEFAULT 1,
			session_id TEXT NOT NULL DEFAULT '',
			is_helpful INTEGER,
			feedback   TEXT NOT NULL DEFAULT '',
			timestamp  DATETIME NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_chat_user_timestamp ON chat_history(user_id, timestamp);
		CREATE INDEX IF NOT EXISTS idx_chat_session ON chat_history(session_id);
	`)
	if err != nil {
		return fmt.Errorf("creating chat_history table: %w", err)
	}

	return nil
}
