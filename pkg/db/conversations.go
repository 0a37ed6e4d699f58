package db

import (
	"context"
	"fmt"

	"social-lens-go/pkg/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// CreateConversation starts a new conversation for a profile
func (db *DB) CreateConversation(ctx context.Context, userID uuid.UUID, create models.ConversationCreate) (*models.Conversation, error) {
	var conv models.Conversation
	err := db.Pool.QueryRow(ctx,
		`INSERT INTO conversations (profile_id, user_id, title)
		 VALUES ($1, $2, $3)
		 RETURNING id, profile_id, user_id, title, created_at, updated_at`,
		create.ProfileID, userID, create.Title,
	).Scan(
		&conv.ID,
		&conv.ProfileID,
		&conv.UserID,
		&conv.Title,
		&conv.CreatedAt,
		&conv.UpdatedAt,
	)

	if err != nil {
		return nil, fmt.Errorf("failed to create conversation: %w", err)
	}

	return &conv, nil
}

// GetConversation retrieves a conversation scoped to its owning user
func (db *DB) GetConversation(ctx context.Context, conversationID, userID uuid.UUID) (*models.Conversation, error) {
	var conv models.Conversation
	err := db.Pool.QueryRow(ctx,
		`SELECT id, profile_id, user_id, title, created_at, updated_at
		 FROM conversations
		 WHERE id = $1 AND user_id = $2`,
		conversationID, userID,
	).Scan(
		&conv.ID,
		&conv.ProfileID,
		&conv.UserID,
		&conv.Title,
		&conv.CreatedAt,
		&conv.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, fmt.Errorf("conversation not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get conversation: %w", err)
	}

	return &conv, nil
}

// ListConversationsByProfile retrieves all conversations for a profile
func (db *DB) ListConversationsByProfile(ctx context.Context, profileID, userID uuid.UUID) ([]models.Conversation, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT id, profile_id, user_id, title, created_at, updated_at
		 FROM conversations
		 WHERE profile_id = $1 AND user_id = $2
		 ORDER BY created_at DESC`,
		profileID, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query conversations: %w", err)
	}
	defer rows.Close()

	var conversations []models.Conversation
	for rows.Next() {
		var conv models.Conversation
		err := rows.Scan(
			&conv.ID,
			&conv.ProfileID,
			&conv.UserID,
			&conv.Title,
			&conv.CreatedAt,
			&conv.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan conversation: %w", err)
		}
		conversations = append(conversations, conv)
	}

	return conversations, rows.Err()
}

// CreateMessage appends a message to a conversation
func (db *DB) CreateMessage(ctx context.Context, conversationID uuid.UUID, role models.MessageRole, content string) (*models.Message, error) {
	var msg models.Message
	err := db.Pool.QueryRow(ctx,
		`INSERT INTO messages (conversation_id, role, content)
		 VALUES ($1, $2, $3)
		 RETURNING id, conversation_id, role, content, created_at`,
		conversationID, role, content,
	).Scan(
		&msg.ID,
		&msg.ConversationID,
		&msg.Role,
		&msg.Content,
		&msg.CreatedAt,
	)

	if err != nil {
		return nil, fmt.Errorf("failed to create message: %w", err)
	}

	return &msg, nil
}

// ListMessages retrieves a conversation's messages in chronological order
func (db *DB) ListMessages(ctx context.Context, conversationID uuid.UUID) ([]models.Message, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT id, conversation_id, role, content, created_at
		 FROM messages
		 WHERE conversation_id = $1
		 ORDER BY created_at ASC`,
		conversationID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query messages: %w", err)
	}
	defer rows.Close()

	var messages []models.Message
	for rows.Next() {
		var msg models.Message
		err := rows.Scan(
			&msg.ID,
			&msg.ConversationID,
			&msg.Role,
			&msg.Content,
			&msg.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		messages = append(messages, msg)
	}

	return messages, rows.Err()
}
