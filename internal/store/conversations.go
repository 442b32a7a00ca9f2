package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// NewConversationID mints an identifier for a fresh conversation.
func NewConversationID() string {
	return uuid.NewString()
}

// ValidateConversationID checks that id is a well-formed conversation
// identifier before it is used in a query.
func ValidateConversationID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("invalid conversation id %q: %w", id, err)
	}
	return nil
}

// AppendMessage records one conversation turn and returns the stored
// message. Messages are append-only; there is no update or delete path.
func (s *Store) AppendMessage(ctx context.Context, conversationID string, owner int64, role Role, content string, toolCalls json.RawMessage) (*Message, error) {
	if err := ValidateConversationID(conversationID); err != nil {
		return nil, err
	}
	now := time.Now().UTC()

	var calls any
	if len(toolCalls) > 0 {
		calls = string(toolCalls)
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO messages (conversation_id, owner_id, role, content, tool_calls, created_at)
		VALUES (?, ?, ?, ?, ?, ?);
	`, conversationID, owner, string(role), content, calls, now)
	if err != nil {
		return nil, fmt.Errorf("insert message: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("read message id: %w", err)
	}

	return &Message{
		ID:             id,
		ConversationID: conversationID,
		OwnerID:        owner,
		Role:           role,
		Content:        content,
		ToolCalls:      toolCalls,
		CreatedAt:      now,
	}, nil
}

// Window returns the most recent n messages of a conversation in
// chronological order. owner > 0 restricts the window to that owner's
// messages; n <= 0 means the whole conversation.
func (s *Store) Window(ctx context.Context, conversationID string, owner int64, n int) ([]*Message, error) {
	if err := ValidateConversationID(conversationID); err != nil {
		return nil, err
	}

	query := `
		SELECT id, conversation_id, owner_id, role, content, tool_calls, created_at
		FROM messages
		WHERE conversation_id = ?`
	args := []any{conversationID}
	if owner > 0 {
		query += " AND owner_id = ?"
		args = append(args, owner)
	}
	query += `
		ORDER BY created_at DESC, id DESC`
	if n > 0 {
		query += " LIMIT ?"
		args = append(args, n)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query messages: %w", err)
	}
	defer rows.Close()

	var messages []*Message
	for rows.Next() {
		var (
			msg   Message
			role  string
			calls sql.NullString
		)
		if err := rows.Scan(&msg.ID, &msg.ConversationID, &msg.OwnerID, &role, &msg.Content, &calls, &msg.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		msg.Role = Role(role)
		if calls.Valid {
			msg.ToolCalls = json.RawMessage(calls.String)
		}
		messages = append(messages, &msg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate messages: %w", err)
	}

	// The query walks newest-first to apply the window; reverse back to
	// chronological order for the caller.
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
	return messages, nil
}
