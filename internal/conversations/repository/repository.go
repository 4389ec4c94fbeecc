// Package repository provides persistence for conversations and their
// append-only message history.
package repository

import (
	"context"
	"errors"
	"time"

	"landing_backend/platform/apperr"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const pgErrForeignKeyViolation = "23503"

// Conversation owns an ordered sequence of messages.
type Conversation struct {
	ID        uuid.UUID
	Title     string
	CreatedAt time.Time
}

// Message is one turn in a conversation. Messages are never mutated.
type Message struct {
	ID             uuid.UUID
	ConversationID uuid.UUID
	Role           string
	Content        string
	CreatedAt      time.Time
}

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Create inserts a new conversation.
func (r *Repository) Create(ctx context.Context, title string) (Conversation, error) {
	var conv Conversation
	err := r.pool.QueryRow(ctx, `
		INSERT INTO conversations (title)
		VALUES ($1)
		RETURNING id, title, created_at
	`, title).Scan(&conv.ID, &conv.Title, &conv.CreatedAt)
	if err != nil {
		return Conversation{}, err
	}
	return conv, nil
}

// GetByID returns a single conversation.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (Conversation, error) {
	var conv Conversation
	err := r.pool.QueryRow(ctx, `
		SELECT id, title, created_at
		FROM conversations
		WHERE id = $1
	`, id).Scan(&conv.ID, &conv.Title, &conv.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Conversation{}, apperr.NotFound("conversation not found")
	}
	if err != nil {
		return Conversation{}, err
	}
	return conv, nil
}

// ListMessages returns the full message history in chronological order.
func (r *Repository) ListMessages(ctx context.Context, conversationID uuid.UUID) ([]Message, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, conversation_id, role, content, created_at
		FROM messages
		WHERE conversation_id = $1
		ORDER BY created_at ASC, id ASC
	`, conversationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	messages := make([]Message, 0)
	for rows.Next() {
		var msg Message
		if err := rows.Scan(&msg.ID, &msg.ConversationID, &msg.Role, &msg.Content, &msg.CreatedAt); err != nil {
			return nil, err
		}
		messages = append(messages, msg)
	}
	return messages, rows.Err()
}

// AppendMessage appends one message. A missing conversation surfaces as
// not-found via the FK violation.
func (r *Repository) AppendMessage(ctx context.Context, conversationID uuid.UUID, role, content string) (Message, error) {
	var msg Message
	err := r.pool.QueryRow(ctx, `
		INSERT INTO messages (conversation_id, role, content)
		VALUES ($1, $2, $3)
		RETURNING id, conversation_id, role, content, created_at
	`, conversationID, role, content).Scan(&msg.ID, &msg.ConversationID, &msg.Role, &msg.Content, &msg.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgErrForeignKeyViolation {
			return Message{}, apperr.NotFound("conversation not found")
		}
		return Message{}, err
	}
	return msg, nil
}

// Delete removes a conversation; messages cascade at the storage layer.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM conversations WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("conversation not found")
	}
	return nil
}
