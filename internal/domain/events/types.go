package events

import (
	"time"

	"github.com/Fanyuxuan0817/StudySync/internal/domain/models"
)

// Frame type discriminators for the websocket protocol.
const (
	TypeSystem      = "system"
	TypeOnlineUsers = "online_users"
	TypeUserJoined  = "user_joined"
	TypeUserLeft    = "user_left"
	TypeMessage     = "message"
	TypeError       = "error"
)

// InboundMessage is the only frame clients send: a chat message to append.
type InboundMessage struct {
	Content string             `json:"content"`
	Type    models.MessageType `json:"type"`
}

type SystemFrame struct {
	Type      string    `json:"type"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

func NewSystem(message string) SystemFrame {
	return SystemFrame{Type: TypeSystem, Message: message, Timestamp: time.Now().UTC()}
}

type OnlineUsersFrame struct {
	Type  string  `json:"type"`
	Users []int64 `json:"users"`
	Count int     `json:"count"`
}

func NewOnlineUsers(users []int64) OnlineUsersFrame {
	return OnlineUsersFrame{Type: TypeOnlineUsers, Users: users, Count: len(users)}
}

// PresenceFrame announces a user joining or leaving the room.
type PresenceFrame struct {
	Type      string    `json:"type"`
	UserID    int64     `json:"user_id"`
	Username  string    `json:"username"`
	Timestamp time.Time `json:"timestamp"`
}

func NewUserJoined(userID int64, username string) PresenceFrame {
	return PresenceFrame{Type: TypeUserJoined, UserID: userID, Username: username, Timestamp: time.Now().UTC()}
}

func NewUserLeft(userID int64, username string) PresenceFrame {
	return PresenceFrame{Type: TypeUserLeft, UserID: userID, Username: username, Timestamp: time.Now().UTC()}
}

type MessageFrame struct {
	Type        string             `json:"type"`
	MessageID   int64              `json:"message_id"`
	UserID      int64              `json:"user_id"`
	Username    string             `json:"username"`
	AvatarURL   *string            `json:"avatar_url,omitempty"`
	Content     string             `json:"content"`
	MessageType models.MessageType `json:"message_type"`
	Timestamp   time.Time          `json:"timestamp"`
	IsOwn       bool               `json:"is_own"`
}

func NewMessage(msg *models.Message, author *models.User) MessageFrame {
	return MessageFrame{
		Type:        TypeMessage,
		MessageID:   msg.ID,
		UserID:      msg.UserID,
		Username:    author.Username,
		AvatarURL:   author.AvatarURL,
		Content:     msg.Content,
		MessageType: msg.Type,
		Timestamp:   msg.CreatedAt,
	}
}

type ErrorFrame struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

func NewError(message string) ErrorFrame {
	return ErrorFrame{Type: TypeError, Message: message}
}
