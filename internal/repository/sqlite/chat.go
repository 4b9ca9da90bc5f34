package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/xid"

	"github.com/educast/studio/internal/model"
	"github.com/educast/studio/internal/repository"
)

var _ repository.ChatRepository = (*ChatRepo)(nil)

// ChatRepo implements repository.ChatRepository on SQLite.
type ChatRepo struct {
	db *DB
}

// Append stores one message, user or assistant side.
func (r *ChatRepo) Append(ctx context.Context, msg *model.ChatMessage) error {
	msg.ID = xid.New().String()
	if msg.Timestamp.IsZero() {
		msg.Timestamp = time.Now().UTC()
	}

	_, err := r.db.conn.ExecContext(ctx,
		`INSERT INTO chat_history (id, user_id, message, is_user, session_id, is_helpful, feedback, timestamp)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		msg.ID, msg.UserID, msg.Message, msg.IsUser, msg.SessionID, msg.IsHelpful, msg.Feedback, msg.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("sqlite: appending chat message: %w", err)
	}
	return nil
}

// History returns a user's messages oldest-first, optionally limited
// to a session. The limit applies to the most recent messages; they
// still come back in conversation order.
func (r *ChatRepo) History(ctx context.Context, userID, sessionID string, limit int) ([]model.ChatMessage, error) {
	query := `SELECT id, user_id, message, is_user, session_id, is_helpful, feedback, timestamp
		FROM chat_history WHERE user_id = ?`
	args := []any{userID}
	if sessionID != "" {
		query += ` AND session_id = ?`
		args = append(args, sessionID)
	}

	// Take the newest N, then flip. ORDER BY timestamp ASC LIMIT N
	// would drop the recent end of a long conversation instead.
	query = `SELECT * FROM (` + query + ` ORDER BY timestamp DESC, id DESC LIMIT ?) ORDER BY timestamp ASC, id ASC`
	args = append(args, limit)

	rows, err := r.db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("sqlite: loading chat history: %w", err)
	}
	defer rows.Close()

	msgs := []model.ChatMessage{}
	for rows.Next() {
		var m model.ChatMessage
		err := rows.Scan(&m.ID, &m.UserID, &m.Message, &m.IsUser, &m.SessionID, &m.IsHelpful, &m.Feedback, &m.Timestamp)
		if err != nil {
			return nil, fmt.Errorf("sqlite: scanning chat row: %w", err)
		}
		msgs = append(msgs, m)
	}
	return msgs, rows.Err()
}

// ClearSession deletes a user's messages in one session, or all their
// messages when sessionID is empty. Returns how many rows went.
func (r *ChatRepo) ClearSession(ctx context.Context, userID, sessionID string) (int, error) {
	query := `DELETE FROM chat_history WHERE user_id = ?`
	args := []any{userID}
	if sessionID != "" {
		query += ` AND session_id = ?`
		args = append(args, sessionID)
	}

	res, err := r.db.conn.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("sqlite: clearing chat history: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("sqlite: clearing chat history: %w", err)
	}
	return int(affected), nil
}
