package output

import "github.com/Fanyuxuan0817/StudySync/internal/domain/models"

type RoomSummary struct {
	models.Room
	CurrentMembers int `json:"current_members"`
}

type RoomDetail struct {
	models.Room
	CurrentMembers int          `json:"current_members"`
	ViewerRole     *models.Role `json:"viewer_role,omitempty"`
}
