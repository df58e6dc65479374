package database

import (
	"context"
	"fmt"
	"log"

	"github.com/jmoiron/sqlx"
)

const createUsersTable = `
CREATE TABLE IF NOT EXISTS users (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    username TEXT UNIQUE NOT NULL,
    email TEXT UNIQUE NOT NULL,
    password_hash TEXT NOT NULL,
    display_name TEXT,
    bio TEXT,
    city TEXT,
    status_msg TEXT,
    age INTEGER,
    gender TEXT,
    avatar_path TEXT,
    created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);
`

const createPostsTable = `
CREATE TABLE IF NOT EXISTS posts (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    user_id INTEGER NOT NULL,
    content TEXT,
    media_path TEXT,
    created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
    FOREIGN KEY (user_id) REFERENCES users (id)
);
`

const createScoresTable = `
CREATE TABLE IF NOT EXISTS scores (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    user_id INTEGER NOT NULL,
    game TEXT NOT NULL,
    score INTEGER NOT NULL,
    created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
    FOREIGN KEY (user_id) REFERENCES users (id)
);
`

const createCommentsTable = `
CREATE TABLE IF NOT EXISTS comments (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    post_id INTEGER NOT NULL,
    user_id INTEGER NOT NULL,
    content TEXT NOT NULL,
    created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
    FOREIGN KEY (post_id) REFERENCES posts (id),
    FOREIGN KEY (user_id) REFERENCES users (id)
);
`

const createAIChatsTable = `
CREATE TABLE IF NOT EXISTS ai_chats (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    user_id INTEGER NOT NULL,
    role TEXT NOT NULL,
    content TEXT NOT NULL,
    created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
    FOREIGN KEY (user_id) REFERENCES users (id)
);
`

const createSessionsTable = `
CREATE TABLE IF NOT EXISTS sessions (
    id TEXT PRIMARY KEY,
    user_id INTEGER NOT NULL,
    expires_at DATETIME NOT NULL,
    created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
    FOREIGN KEY (user_id) REFERENCES users (id)
);
`

const createIndexes = `
CREATE INDEX IF NOT EXISTS idx_scores_game_user ON scores (game, user_id);
CREATE INDEX IF NOT EXISTS idx_comments_post ON comments (post_id);
CREATE INDEX IF NOT EXISTS idx_ai_chats_user ON ai_chats (user_id);
CREATE INDEX IF NOT EXISTS idx_sessions_user ON sessions (user_id);
`

// optionalUserColumns lists profile columns added after the first release.
var optionalUserColumns = []struct {
	Name string
	Type string
}{
	{"display_name", "TEXT"},
	{"bio", "TEXT"},
	{"city", "TEXT"},
	{"status_msg", "TEXT"},
	{"age", "INTEGER"},
	{"gender", "TEXT"},
	{"avatar_path", "TEXT"},
}

type tableColumn struct {
	CID       int     `db:"cid"`
	Name      string  `db:"name"`
	Type      string  `db:"type"`
	NotNull   int     `db:"notnull"`
	DfltValue *string `db:"dflt_value"`
	PK        int     `db:"pk"`
}

// Migrate creates missing tables and adds missing optional user columns.
// It is safe to run on every start; it never drops or rewrites data.
func Migrate(ctx context.Context, db *sqlx.DB) error {
	migrations := []string{
		createUsersTable,
		createPostsTable,
		createScoresTable,
		createCommentsTable,
		createAIChatsTable,
		createSessionsTable,
		createIndexes,
	}

	for _, migration := range migrations {
		if _, err := db.ExecContext(ctx, migration); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}

	if err := upgradeUserColumns(ctx, db); err != nil {
		return err
	}

	log.Println("Database initialized/checked")
	return nil
}

func upgradeUserColumns(ctx context.Context, db *sqlx.DB) error {
	var columns []tableColumn
	if err := db.SelectContext(ctx, &columns, `PRAGMA table_info(users)`); err != nil {
		return fmt.Errorf("read users columns: %w", err)
	}

	existing := make(map[string]struct{}, len(columns))
	for _, c := range columns {
		existing[c.Name] = struct{}{}
	}

	for _, col := range optionalUserColumns {
		if _, ok := existing[col.Name]; ok {
			continue
		}
		stmt := fmt.Sprintf("ALTER TABLE users ADD COLUMN %s %s", col.Name, col.Type)
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("add users.%s: %w", col.Name, err)
		}
		log.Printf("Added column users.%s", col.Name)
	}

	return nil
}
