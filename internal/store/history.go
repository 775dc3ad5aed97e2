package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// ChatMessage is one persisted turn of a user's conversation.
type ChatMessage struct {
	ID        int64     `json:"id"`
	UserID    string    `json:"user_id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	ToolCalls string    `json:"tool_calls,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// HistoryStore persists chat history per user. Only incoming user messages
// and final assistant answers are stored, never intermediate tool traffic.
type HistoryStore struct {
	db *sql.DB
}

// Append stores one message.
func (s *HistoryStore) Append(ctx context.Context, userID, role, content, toolCalls string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO chat_messages (user_id, role, content, tool_calls, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		userID, role, content, nullStr(toolCalls), fmtTime(time.Now().UTC()))
	if err != nil {
		return fmt.Errorf("append message: %w", err)
	}
	return nil
}

// List returns the most recent limit messages in chronological order.
// limit <= 0 returns everything.
func (s *HistoryStore) List(ctx context.Context, userID string, limit int) ([]*ChatMessage, error) {
	query := `SELECT id, user_id, role, content, tool_calls, created_at
		FROM chat_messages WHERE user_id = ? ORDER BY id DESC`
	args := []any{userID}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	defer rows.Close()

	var msgs []*ChatMessage
	for rows.Next() {
		var m ChatMessage
		var toolCalls sql.NullString
		var created string
		if err := rows.Scan(&m.ID, &m.UserID, &m.Role, &m.Content, &toolCalls, &created); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		m.ToolCalls = toolCalls.String
		m.CreatedAt = parseTime(created)
		msgs = append(msgs, &m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Reverse into chronological order.
	for i, j := 0, len(msgs)-1; i < j; i, j = i+1, j-1 {
		msgs[i], msgs[j] = msgs[j], msgs[i]
	}
	return msgs, nil
}

// Clear removes all history for a user and returns how many rows were deleted.
func (s *HistoryStore) Clear(ctx context.Context, userID string) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM chat_messages WHERE user_id = ?`, userID)
	if err != nil {
		return 0, fmt.Errorf("clear messages: %w", err)
	}
	return res.RowsAffected()
}
