package repository

import (
	"context"

	"github.com/jmoiron/sqlx"
)

// GroupRepository is the read-only view onto the study-group tables owned by
// the rest of the platform; the chat core only checks existence and
// membership when a room is linked to a group.
type GroupRepository interface {
	Exists(ctx context.Context, id int64) (bool, error)
	IsMember(ctx context.Context, groupID, userID int64) (bool, error)
}

type groupRepo struct {
	db *sqlx.DB
}

func NewGroupRepo(db *sqlx.DB) GroupRepository {
	return &groupRepo{db: db}
}

func (r *groupRepo) Exists(ctx context.Context, id int64) (bool, error) {
	var exists bool

	err := r.db.GetContext(ctx, &exists, "SELECT EXISTS (SELECT 1 FROM groups WHERE id = $1)", id)
	if err != nil {
		return false, err
	}

	return exists, nil
}

func (r *groupRepo) IsMember(ctx context.Context, groupID, userID int64) (bool, error) {
	var exists bool

	err := r.db.GetContext(
		ctx,
		&exists,
		"SELECT EXISTS (SELECT 1 FROM group_members WHERE group_id = $1 AND user_id = $2)",
		groupID,
		userID,
	)
	if err != nil {
		return false, err
	}

	return exists, nil
}
