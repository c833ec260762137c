// Package store persists conversation transcripts in SQLite so a chat
// session can be resumed later.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/jimmymills/llmfunctionclient/llm"
)

const schema = `
CREATE TABLE IF NOT EXISTS conversations (
	id         TEXT PRIMARY KEY,
	label      TEXT NOT NULL DEFAULT '',
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE TABLE IF NOT EXISTS messages (
	id              INTEGER PRIMARY KEY AUTOINCREMENT,
	conversation_id TEXT NOT NULL REFERENCES conversations(id),
	role            TEXT NOT NULL,
	content         TEXT NOT NULL,
	tool_call_id    TEXT NOT NULL DEFAULT '',
	name            TEXT NOT NULL DEFAULT '',
	created_at      DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_messages_conversation ON messages(conversation_id, id);
`

// DB wraps *sql.DB for transcript storage. The schema is owned by this
// package and applied on Open.
type DB struct {
	*sql.DB
}

// Open opens (creating if missing) the SQLite database at path.
func Open(ctx context.Context, path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &DB{db}, nil
}

// Conversation is one stored transcript's metadata.
type Conversation struct {
	ID        string
	Label     string
	CreatedAt time.Time
}

// CreateConversation registers a new transcript and returns its id.
func (db *DB) CreateConversation(ctx context.Context, label string) (string, error) {
	id := uuid.NewString()
	_, err := db.ExecContext(ctx,
		`INSERT INTO conversations (id, label) VALUES (?, ?)`, id, label)
	if err != nil {
		return "", err
	}
	return id, nil
}

// Conversations lists stored transcripts, newest first.
func (db *DB) Conversations(ctx context.Context) ([]Conversation, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT id, label, created_at FROM conversations ORDER BY created_at DESC, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Conversation
	for rows.Next() {
		var c Conversation
		if err := rows.Scan(&c.ID, &c.Label, &c.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// AppendMessage stores one message at the end of the transcript.
func (db *DB) AppendMessage(ctx context.Context, conversationID string, m llm.Message) error {
	_, err := db.ExecContext(ctx,
		`INSERT INTO messages (conversation_id, role, content, tool_call_id, name) VALUES (?, ?, ?, ?, ?)`,
		conversationID, m.Role, m.Content, m.ToolCallID, m.Name)
	return err
}

// AppendMessages stores messages in order inside one transaction.
func (db *DB) AppendMessages(ctx context.Context, conversationID string, messages []llm.Message) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	for _, m := range messages {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO messages (conversation_id, role, content, tool_call_id, name) VALUES (?, ?, ?, ?, ?)`,
			conversationID, m.Role, m.Content, m.ToolCallID, m.Name); err != nil {
			_ = tx.Rollback()
			return err
		}
	}
	return tx.Commit()
}

// Messages returns the transcript in append order.
func (db *DB) Messages(ctx context.Context, conversationID string) ([]llm.Message, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT role, content, tool_call_id, name FROM messages WHERE conversation_id = ? ORDER BY id`,
		conversationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []llm.Message
	for rows.Next() {
		var m llm.Message
		if err := rows.Scan(&m.Role, &m.Content, &m.ToolCallID, &m.Name); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}
