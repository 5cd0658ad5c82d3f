package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/raheem101000-netizen/gamehub/models"
)

type MessageRepository interface {
	CreateChatMessage(ctx context.Context, msg *models.ChatMessage) error
	CreateChannelMessage(ctx context.Context, msg *models.ChannelMessage) error
}

type postgresMessageRepository struct {
	db *sql.DB
}

func NewPostgresMessageRepository(db *sql.DB) MessageRepository {
	return &postgresMessageRepository{db: db}
}

func (r *postgresMessageRepository) CreateChatMessage(ctx context.Context, msg *models.ChatMessage) error {
	query := `
		INSERT INTO chat_messages (match_id, sender_id, message, image_url, reply_to_id, team_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		msg.MatchID,
		msg.SenderID,
		msg.Message,
		msg.ImageURL,
		msg.ReplyToID,
		msg.TeamID,
	).Scan(&msg.ID, &msg.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create chat message for match %d: %w", msg.MatchID, err)
	}
	return nil
}

func (r *postgresMessageRepository) CreateChannelMessage(ctx context.Context, msg *models.ChannelMessage) error {
	query := `
		INSERT INTO channel_messages (channel_id, sender_id, message, image_url, reply_to_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		msg.ChannelID,
		msg.SenderID,
		msg.Message,
		msg.ImageURL,
		msg.ReplyToID,
	).Scan(&msg.ID, &msg.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create channel message for channel %d: %w", msg.ChannelID, err)
	}
	return nil
}
