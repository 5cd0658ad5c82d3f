package services

import (
	"context"
	"errors"
	"log/slog"

	"github.com/raheem101000-netizen/gamehub/models"
	"github.com/raheem101000-netizen/gamehub/repositories"
)

// InboundChatPayload is the client-supplied part of a chat message. The
// sender identity never comes from here; it is always the authenticated
// session user.
type InboundChatPayload struct {
	Message   *string `json:"message,omitempty"`
	ImageURL  *string `json:"imageUrl,omitempty"`
	ReplyToID *int    `json:"replyToId,omitempty"`
	TeamID    *int    `json:"teamId,omitempty"`
}

func (p InboundChatPayload) empty() bool {
	hasText := p.Message != nil && *p.Message != ""
	hasImage := p.ImageURL != nil && *p.ImageURL != ""
	return !hasText && !hasImage
}

// preview is the thread-preview text for the payload.
func (p InboundChatPayload) preview() string {
	if p.Message != nil && *p.Message != "" {
		return *p.Message
	}
	return "[image]"
}

// ChatService persists chat messages, enriches them with the sender's
// current profile, and keeps match thread previews/unread counters.
type ChatService interface {
	SaveMatchMessage(ctx context.Context, matchID, senderID int, payload InboundChatPayload) (*models.ChatMessage, error)
	SaveChannelMessage(ctx context.Context, channelID, senderID int, payload InboundChatPayload) (*models.ChannelMessage, error)
	MarkThreadRead(ctx context.Context, matchID, userID int) error
}

type chatService struct {
	messageRepo repositories.MessageRepository
	threadRepo  repositories.ThreadRepository
	userRepo    repositories.UserRepository
	threads     ThreadProvisioner
	logger      *slog.Logger
}

func NewChatService(
	messageRepo repositories.MessageRepository,
	threadRepo repositories.ThreadRepository,
	userRepo repositories.UserRepository,
	threads ThreadProvisioner,
	logger *slog.Logger,
) ChatService {
	return &chatService{
		messageRepo: messageRepo,
		threadRepo:  threadRepo,
		userRepo:    userRepo,
		threads:     threads,
		logger:      logger,
	}
}

func (s *chatService) SaveMatchMessage(ctx context.Context, matchID, senderID int, payload InboundChatPayload) (*models.ChatMessage, error) {
	if payload.empty() {
		return nil, ErrEmptyMessage
	}

	msg := &models.ChatMessage{
		MatchID:   matchID,
		SenderID:  senderID,
		Message:   payload.Message,
		ImageURL:  payload.ImageURL,
		ReplyToID: payload.ReplyToID,
		TeamID:    payload.TeamID,
	}
	if err := s.messageRepo.CreateChatMessage(ctx, msg); err != nil {
		return nil, err
	}

	s.enrich(ctx, senderID, &msg.SenderUsername, &msg.SenderAvatarURL)

	// Thread bookkeeping is a best-effort side effect of the persisted
	// message; failures are logged, never surfaced.
	if _, err := s.threads.Ensure(ctx, matchID, senderID); err != nil {
		s.logger.Warn("failed to ensure sender thread",
			slog.Int("match_id", matchID), slog.Int("user_id", senderID), slog.Any("error", err))
	}
	if err := s.threadRepo.TouchPreview(ctx, matchID, senderID, payload.preview(), msg.CreatedAt); err != nil {
		s.logger.Warn("failed to update sender thread preview",
			slog.Int("match_id", matchID), slog.Any("error", err))
	}
	if err := s.threadRepo.BumpUnread(ctx, matchID, senderID, payload.preview(), msg.CreatedAt); err != nil {
		s.logger.Warn("failed to bump unread counters",
			slog.Int("match_id", matchID), slog.Any("error", err))
	}

	return msg, nil
}

func (s *chatService) SaveChannelMessage(ctx context.Context, channelID, senderID int, payload InboundChatPayload) (*models.ChannelMessage, error) {
	if payload.empty() {
		return nil, ErrEmptyMessage
	}

	msg := &models.ChannelMessage{
		ChannelID: channelID,
		SenderID:  senderID,
		Message:   payload.Message,
		ImageURL:  payload.ImageURL,
		ReplyToID: payload.ReplyToID,
	}
	if err := s.messageRepo.CreateChannelMessage(ctx, msg); err != nil {
		return nil, err
	}

	s.enrich(ctx, senderID, &msg.SenderUsername, &msg.SenderAvatarURL)
	return msg, nil
}

func (s *chatService) MarkThreadRead(ctx context.Context, matchID, userID int) error {
	if err := s.threadRepo.ResetUnread(ctx, matchID, userID); err != nil {
		return mapThreadErr(err)
	}
	return nil
}

// enrich re-reads the sender's profile so the broadcast always carries the
// current username and avatar, whatever the client claimed.
func (s *chatService) enrich(ctx context.Context, senderID int, username *string, avatarURL **string) {
	user, err := s.userRepo.GetByID(ctx, senderID)
	if err != nil {
		if !errors.Is(err, repositories.ErrUserNotFound) {
			s.logger.Warn("failed to load sender profile", slog.Int("user_id", senderID), slog.Any("error", err))
		}
		return
	}
	*username = user.Username
	*avatarURL = user.AvatarURL
}
