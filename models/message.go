package models

import "time"

// ChatMessage is a message in a match chat. Append-only.
type ChatMessage struct {
	ID        int       `json:"id" db:"id"`
	MatchID   int       `json:"match_id" db:"match_id"`
	SenderID  int       `json:"sender_id" db:"sender_id"`
	Message   *string   `json:"message,omitempty" db:"message"`
	ImageURL  *string   `json:"image_url,omitempty" db:"image_url"`
	ReplyToID *int      `json:"reply_to_id,omitempty" db:"reply_to_id"`
	TeamID    *int      `json:"team_id,omitempty" db:"team_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`

	// Display fields attached from the sender's profile before fan-out.
	SenderUsername  string  `json:"sender_username,omitempty" db:"-"`
	SenderAvatarURL *string `json:"sender_avatar_url,omitempty" db:"-"`
}

// ChannelMessage is a message in a community channel. Append-only.
type ChannelMessage struct {
	ID        int       `json:"id" db:"id"`
	ChannelID int       `json:"channel_id" db:"channel_id"`
	SenderID  int       `json:"sender_id" db:"sender_id"`
	Message   *string   `json:"message,omitempty" db:"message"`
	ImageURL  *string   `json:"image_url,omitempty" db:"image_url"`
	ReplyToID *int      `json:"reply_to_id,omitempty" db:"reply_to_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`

	SenderUsername  string  `json:"sender_username,omitempty" db:"-"`
	SenderAvatarURL *string `json:"sender_avatar_url,omitempty" db:"-"`
}

// MessageThread is a per-user inbox entry for one match chat, used for
// previews and unread counts. One row per (match, user) pair.
type MessageThread struct {
	ID              int        `json:"id" db:"id"`
	MatchID         int        `json:"match_id" db:"match_id"`
	UserID          int        `json:"user_id" db:"user_id"`
	LastMessage     *string    `json:"last_message,omitempty" db:"last_message"`
	LastMessageTime *time.Time `json:"last_message_time,omitempty" db:"last_message_time"`
	UnreadCount     int        `json:"unread_count" db:"unread_count"`
	CreatedAt       time.Time  `json:"created_at" db:"created_at"`
}
