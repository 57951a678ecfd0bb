package models

import "time"

type RoomStatus string

const (
	RoomStatusActive    RoomStatus = "active"
	RoomStatusArchived  RoomStatus = "archived"
	RoomStatusSuspended RoomStatus = "suspended"
	RoomStatusClosed    RoomStatus = "closed"
)

// roomTransitions is the allow-list of legal status changes. Closed is
// terminal; archived and suspended rooms may return to active.
var roomTransitions = map[RoomStatus]map[RoomStatus]bool{
	RoomStatusActive:    {RoomStatusArchived: true, RoomStatusSuspended: true, RoomStatusClosed: true},
	RoomStatusArchived:  {RoomStatusActive: true, RoomStatusClosed: true},
	RoomStatusSuspended: {RoomStatusActive: true, RoomStatusClosed: true},
	RoomStatusClosed:    {},
}

func (s RoomStatus) Valid() bool {
	_, ok := roomTransitions[s]
	return ok
}

func (s RoomStatus) CanTransitionTo(next RoomStatus) bool {
	return roomTransitions[s][next]
}

const (
	MinRoomCapacity     = 10
	MaxRoomCapacity     = 1000
	DefaultRoomCapacity = 500
)

type Room struct {
	ID          int64      `db:"id" json:"room_id"`
	ChatID      string     `db:"chat_id" json:"chat_id"`
	Name        string     `db:"name" json:"name"`
	Description *string    `db:"description" json:"description,omitempty"`
	AvatarURL   *string    `db:"avatar_url" json:"avatar_url,omitempty"`
	GroupID     *int64     `db:"group_id" json:"group_id,omitempty"`
	CreatedBy   int64      `db:"created_by" json:"creator_id"`
	MaxMembers  int        `db:"max_members" json:"max_members"`
	IsPublic    bool       `db:"is_public" json:"is_public"`
	Status      RoomStatus `db:"status" json:"status"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updated_at"`
}

func (r *Room) Active() bool {
	return r.Status == RoomStatusActive
}
