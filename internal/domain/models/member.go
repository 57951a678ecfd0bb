package models

import "time"

type Role string

const (
	RoleOwner  Role = "owner"
	RoleAdmin  Role = "admin"
	RoleMember Role = "member"
)

// CanModerate reports whether the role may review join requests, edit the
// room, mute members and delete foreign messages.
func (r Role) CanModerate() bool {
	return r == RoleOwner || r == RoleAdmin
}

type Member struct {
	ID           int64      `db:"id" json:"-"`
	RoomID       int64      `db:"chat_room_id" json:"room_id"`
	UserID       int64      `db:"user_id" json:"user_id"`
	Role         Role       `db:"role" json:"role"`
	JoinedAt     time.Time  `db:"joined_at" json:"joined_at"`
	LastActiveAt *time.Time `db:"last_active_at" json:"last_active_at,omitempty"`
	IsMuted      bool       `db:"is_muted" json:"is_muted"`
}

type MemberWithUser struct {
	Member
	Username      string  `db:"username"`
	UserAvatarURL *string `db:"user_avatar_url"`
}
