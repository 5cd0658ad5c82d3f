package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/raheem101000-netizen/gamehub/models"
)

var ErrThreadNotFound = errors.New("message thread not found")

type ThreadRepository interface {
	// GetOrCreate upserts the (matchID, userID) thread. Re-runs return the
	// existing row untouched.
	GetOrCreate(ctx context.Context, matchID, userID int) (*models.MessageThread, error)
	// TouchPreview sets the preview on the sender's thread without
	// affecting their unread counter.
	TouchPreview(ctx context.Context, matchID, userID int, lastMessage string, at time.Time) error
	// BumpUnread updates the preview and increments the unread counter on
	// every member thread of the match except the sender's.
	BumpUnread(ctx context.Context, matchID, senderID int, lastMessage string, at time.Time) error
	ResetUnread(ctx context.Context, matchID, userID int) error
}

type postgresThreadRepository struct {
	db *sql.DB
}

func NewPostgresThreadRepository(db *sql.DB) ThreadRepository {
	return &postgresThreadRepository{db: db}
}

func (r *postgresThreadRepository) GetOrCreate(ctx context.Context, matchID, userID int) (*models.MessageThread, error) {
	query := `
		INSERT INTO message_threads (match_id, user_id, unread_count)
		VALUES ($1, $2, 0)
		ON CONFLICT (match_id, user_id) DO UPDATE SET match_id = EXCLUDED.match_id
		RETURNING id, match_id, user_id, last_message, last_message_time, unread_count, created_at`

	t := &models.MessageThread{}
	err := r.db.QueryRowContext(ctx, query, matchID, userID).Scan(
		&t.ID,
		&t.MatchID,
		&t.UserID,
		&t.LastMessage,
		&t.LastMessageTime,
		&t.UnreadCount,
		&t.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert thread (match %d, user %d): %w", matchID, userID, err)
	}
	return t, nil
}

func (r *postgresThreadRepository) TouchPreview(ctx context.Context, matchID, userID int, lastMessage string, at time.Time) error {
	query := `
		UPDATE message_threads
		SET last_message = $1, last_message_time = $2
		WHERE match_id = $3 AND user_id = $4`

	result, err := r.db.ExecContext(ctx, query, lastMessage, at, matchID, userID)
	if err != nil {
		return fmt.Errorf("failed to touch thread preview (match %d, user %d): %w", matchID, userID, err)
	}
	return checkAffectedRows(result, ErrThreadNotFound)
}

func (r *postgresThreadRepository) BumpUnread(ctx context.Context, matchID, senderID int, lastMessage string, at time.Time) error {
	query := `
		UPDATE message_threads
		SET last_message = $1, last_message_time = $2, unread_count = unread_count + 1
		WHERE match_id = $3 AND user_id <> $4`

	// Zero affected rows is fine here: the sender may be the only
	// provisioned member so far.
	if _, err := r.db.ExecContext(ctx, query, lastMessage, at, matchID, senderID); err != nil {
		return fmt.Errorf("failed to bump unread counters for match %d: %w", matchID, err)
	}
	return nil
}

func (r *postgresThreadRepository) ResetUnread(ctx context.Context, matchID, userID int) error {
	query := `UPDATE message_threads SET unread_count = 0 WHERE match_id = $1 AND user_id = $2`

	result, err := r.db.ExecContext(ctx, query, matchID, userID)
	if err != nil {
		return fmt.Errorf("failed to reset unread counter (match %d, user %d): %w", matchID, userID, err)
	}
	return checkAffectedRows(result, ErrThreadNotFound)
}
