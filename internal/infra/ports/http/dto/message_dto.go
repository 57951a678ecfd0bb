package dto

import "github.com/Fanyuxuan0817/StudySync/internal/domain/models"

type SendMessageRequest struct {
	Content string             `json:"content"`
	Type    models.MessageType `json:"message_type,omitempty"`
}

type MessageView struct {
	models.Message
	Username      string  `json:"username"`
	UserAvatarURL *string `json:"user_avatar_url,omitempty"`
	IsOwn         bool    `json:"is_own"`
}

type MessagesPageResponse struct {
	Messages []MessageView `json:"messages"`
	HasMore  bool          `json:"has_more"`
}

type MessageStatsResponse struct {
	Days       int                   `json:"days"`
	Daily      []models.DailyCount   `json:"daily"`
	TopAuthors []models.ActiveAuthor `json:"top_authors"`
}

func NewMessageViews(messages []models.MessageWithUser, viewerID int64) []MessageView {
	views := make([]MessageView, 0, len(messages))
	for _, m := range messages {
		views = append(views, MessageView{
			Message:       m.Message,
			Username:      m.Username,
			UserAvatarURL: m.UserAvatarURL,
			IsOwn:         m.UserID == viewerID,
		})
	}

	return views
}
