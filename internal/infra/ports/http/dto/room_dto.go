package dto

import (
	"github.com/Fanyuxuan0817/StudySync/internal/domain/models"
	"github.com/Fanyuxuan0817/StudySync/internal/domain/output"
)

type CreateRoomRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
	AvatarURL   *string `json:"avatar_url,omitempty"`
	GroupID     *int64  `json:"group_id,omitempty"`
	MaxMembers  int     `json:"max_members,omitempty"`
	IsPublic    bool    `json:"is_public"`
}

type UpdateRoomRequest struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	AvatarURL   *string `json:"avatar_url,omitempty"`
	MaxMembers  *int    `json:"max_members,omitempty"`
	IsPublic    *bool   `json:"is_public,omitempty"`
}

type SetRoomStatusRequest struct {
	Status models.RoomStatus `json:"status"`
}

type CreateRoomResponse struct {
	Room          *models.Room `json:"room"`
	ChatIDDisplay string       `json:"chat_id_display"`
}

type MyRoomsResponse struct {
	Created []output.RoomSummary `json:"created"`
	Joined  []output.RoomSummary `json:"joined"`
}

type SearchRoomsResponse struct {
	Rooms    []output.RoomSummary `json:"rooms"`
	Total    int                  `json:"total"`
	Page     int                  `json:"page"`
	PageSize int                  `json:"page_size"`
}

type MemberView struct {
	models.Member
	Username      string  `json:"username"`
	UserAvatarURL *string `json:"user_avatar_url,omitempty"`
}

func NewMemberViews(members []models.MemberWithUser) []MemberView {
	views := make([]MemberView, 0, len(members))
	for _, m := range members {
		views = append(views, MemberView{
			Member:        m.Member,
			Username:      m.Username,
			UserAvatarURL: m.UserAvatarURL,
		})
	}

	return views
}

type JoinRequestView struct {
	models.JoinRequest
	Username     string  `json:"username"`
	ReviewerName *string `json:"reviewer_name,omitempty"`
}

func NewJoinRequestViews(reqs []models.JoinRequestWithUser) []JoinRequestView {
	views := make([]JoinRequestView, 0, len(reqs))
	for _, r := range reqs {
		views = append(views, JoinRequestView{
			JoinRequest:  r.JoinRequest,
			Username:     r.Username,
			ReviewerName: r.ReviewerName,
		})
	}

	return views
}

type TransferOwnershipRequest struct {
	NewOwnerID int64 `json:"new_owner_id"`
}

type MuteMemberRequest struct {
	Muted bool `json:"muted"`
}

type JoinRequestRequest struct {
	Message *string `json:"message,omitempty"`
}

type ReviewJoinRequestRequest struct {
	Approve bool    `json:"approve"`
	Message *string `json:"message,omitempty"`
}
