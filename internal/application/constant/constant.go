package constant

// Shared slog attribute keys.
const (
	Error     = "error"
	UserID    = "user_id"
	UserName  = "username"
	RoomID    = "room_id"
	ChatID    = "chat_id"
	SessionID = "session_id"
	RequestID = "request_id"
	MessageID = "message_id"
)
