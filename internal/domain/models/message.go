package models

import "time"

type MessageType string

const (
	MessageTypeText  MessageType = "text"
	MessageTypeImage MessageType = "image"
	MessageTypeFile  MessageType = "file"
)

func (t MessageType) Valid() bool {
	switch t {
	case MessageTypeText, MessageTypeImage, MessageTypeFile:
		return true
	}
	return false
}

type Message struct {
	ID        int64       `db:"id" json:"message_id"`
	RoomID    int64       `db:"chat_room_id" json:"room_id"`
	UserID    int64       `db:"user_id" json:"user_id"`
	Content   string      `db:"content" json:"content"`
	Type      MessageType `db:"message_type" json:"message_type"`
	IsDeleted bool        `db:"is_deleted" json:"-"`
	CreatedAt time.Time   `db:"created_at" json:"timestamp"`
}

type MessageWithUser struct {
	Message
	Username      string  `db:"username"`
	UserAvatarURL *string `db:"user_avatar_url"`
}

// DailyCount is one bucket of the per-day message statistics.
type DailyCount struct {
	Date  string `db:"date" json:"date"`
	Count int    `db:"count" json:"count"`
}

// ActiveAuthor is one row of the most-active-authors statistics.
type ActiveAuthor struct {
	UserID       int64  `db:"user_id" json:"user_id"`
	Username     string `db:"username" json:"username"`
	MessageCount int    `db:"message_count" json:"message_count"`
}
