package models

import "time"

type JoinStatus string

const (
	JoinStatusPending   JoinStatus = "pending"
	JoinStatusApproved  JoinStatus = "approved"
	JoinStatusRejected  JoinStatus = "rejected"
	JoinStatusCancelled JoinStatus = "cancelled"
)

// Every status except pending is terminal.
var joinTransitions = map[JoinStatus]map[JoinStatus]bool{
	JoinStatusPending: {
		JoinStatusApproved:  true,
		JoinStatusRejected:  true,
		JoinStatusCancelled: true,
	},
	JoinStatusApproved:  {},
	JoinStatusRejected:  {},
	JoinStatusCancelled: {},
}

func (s JoinStatus) Valid() bool {
	_, ok := joinTransitions[s]
	return ok
}

func (s JoinStatus) CanTransitionTo(next JoinStatus) bool {
	return joinTransitions[s][next]
}

type JoinRequest struct {
	ID            int64      `db:"id" json:"request_id"`
	RoomID        int64      `db:"chat_room_id" json:"room_id"`
	UserID        int64      `db:"user_id" json:"user_id"`
	Status        JoinStatus `db:"status" json:"status"`
	Message       *string    `db:"message" json:"message,omitempty"`
	ReviewedBy    *int64     `db:"reviewed_by" json:"reviewed_by,omitempty"`
	ReviewedAt    *time.Time `db:"reviewed_at" json:"reviewed_at,omitempty"`
	ReviewMessage *string    `db:"review_message" json:"review_message,omitempty"`
	CreatedAt     time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time  `db:"updated_at" json:"updated_at"`
}

type JoinRequestWithUser struct {
	JoinRequest
	Username     string  `db:"username"`
	ReviewerName *string `db:"reviewer_name"`
}

// PendingApproval is one row of the reviewer dashboard: a pending request in
// any room the reviewer moderates.
type PendingApproval struct {
	RequestID int64     `db:"request_id" json:"request_id"`
	RoomID    int64     `db:"room_id" json:"room_id"`
	ChatID    string    `db:"chat_id" json:"chat_id"`
	RoomName  string    `db:"room_name" json:"room_name"`
	UserID    int64     `db:"user_id" json:"user_id"`
	Username  string    `db:"username" json:"username"`
	Message   *string   `db:"message" json:"message,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
