package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/Fanyuxuan0817/StudySync/internal/domain/apperr"
	"github.com/Fanyuxuan0817/StudySync/internal/domain/models"
)

type JoinRequestRepository interface {
	Create(ctx context.Context, req *models.JoinRequest) error
	GetByID(ctx context.Context, roomID, requestID int64) (*models.JoinRequest, error)
	HasPending(ctx context.Context, roomID, userID int64) (bool, error)

	// Approve settles the request and inserts the member row in one
	// transaction. The room row is locked first so two concurrent approvals
	// cannot both pass the capacity check.
	Approve(ctx context.Context, roomID, requestID, reviewerID int64, reviewMessage *string) error
	Reject(ctx context.Context, roomID, requestID, reviewerID int64, reviewMessage *string) error
	Cancel(ctx context.Context, requestID int64) error

	ListByRoom(ctx context.Context, roomID int64, status *models.JoinStatus) ([]models.JoinRequestWithUser, error)
	ListPendingForReviewer(ctx context.Context, reviewerID int64) ([]models.PendingApproval, error)
}

type joinRequestRepo struct {
	db *sqlx.DB
}

func NewJoinRequestRepo(db *sqlx.DB) JoinRequestRepository {
	return &joinRequestRepo{db: db}
}

func (r *joinRequestRepo) Create(ctx context.Context, req *models.JoinRequest) error {
	return r.db.QueryRowContext(
		ctx,
		`INSERT INTO chat_room_join_requests (chat_room_id, user_id, status, message)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at, updated_at`,
		req.RoomID,
		req.UserID,
		req.Status,
		req.Message,
	).Scan(&req.ID, &req.CreatedAt, &req.UpdatedAt)
}

func (r *joinRequestRepo) GetByID(ctx context.Context, roomID, requestID int64) (*models.JoinRequest, error) {
	var req models.JoinRequest

	err := r.db.GetContext(
		ctx,
		&req,
		"SELECT * FROM chat_room_join_requests WHERE id = $1 AND chat_room_id = $2",
		requestID,
		roomID,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.New(apperr.NotFound, "join request not found")
	}
	if err != nil {
		return nil, err
	}

	return &req, nil
}

func (r *joinRequestRepo) HasPending(ctx context.Context, roomID, userID int64) (bool, error) {
	var exists bool

	err := r.db.GetContext(
		ctx,
		&exists,
		"SELECT EXISTS (SELECT 1 FROM chat_room_join_requests WHERE chat_room_id = $1 AND user_id = $2 AND status = 'pending')",
		roomID,
		userID,
	)
	if err != nil {
		return false, err
	}

	return exists, nil
}

func (r *joinRequestRepo) Approve(ctx context.Context, roomID, requestID, reviewerID int64, reviewMessage *string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var maxMembers int
	err = tx.GetContext(ctx, &maxMembers, "SELECT max_members FROM chat_rooms WHERE id = $1 FOR UPDATE", roomID)
	if errors.Is(err, sql.ErrNoRows) {
		return apperr.New(apperr.NotFound, "room not found")
	}
	if err != nil {
		return err
	}

	var count int
	if err := tx.GetContext(ctx, &count, "SELECT count(*) FROM chat_room_members WHERE chat_room_id = $1", roomID); err != nil {
		return err
	}
	if count >= maxMembers {
		return apperr.New(apperr.ResourceExhausted, "room is full")
	}

	res, err := tx.ExecContext(
		ctx,
		`UPDATE chat_room_join_requests
		 SET status = 'approved', reviewed_by = $1, reviewed_at = now(), review_message = $2, updated_at = now()
		 WHERE id = $3 AND chat_room_id = $4 AND status = 'pending'`,
		reviewerID,
		reviewMessage,
		requestID,
		roomID,
	)
	if err != nil {
		return err
	}
	if affected, err := res.RowsAffected(); err != nil {
		return err
	} else if affected == 0 {
		return apperr.New(apperr.NotFound, "join request not found or already settled")
	}

	_, err = tx.ExecContext(
		ctx,
		`INSERT INTO chat_room_members (chat_room_id, user_id, role, last_active_at)
		 SELECT chat_room_id, user_id, 'member', now()
		 FROM chat_room_join_requests WHERE id = $1`,
		requestID,
	)
	if err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit join request approval: %w", err)
	}

	return nil
}

func (r *joinRequestRepo) Reject(ctx context.Context, roomID, requestID, reviewerID int64, reviewMessage *string) error {
	res, err := r.db.ExecContext(
		ctx,
		`UPDATE chat_room_join_requests
		 SET status = 'rejected', reviewed_by = $1, reviewed_at = now(), review_message = $2, updated_at = now()
		 WHERE id = $3 AND chat_room_id = $4 AND status = 'pending'`,
		reviewerID,
		reviewMessage,
		requestID,
		roomID,
	)
	if err != nil {
		return err
	}

	if affected, err := res.RowsAffected(); err != nil {
		return err
	} else if affected == 0 {
		return apperr.New(apperr.NotFound, "join request not found or already settled")
	}

	return nil
}

func (r *joinRequestRepo) Cancel(ctx context.Context, requestID int64) error {
	res, err := r.db.ExecContext(
		ctx,
		"UPDATE chat_room_join_requests SET status = 'cancelled', updated_at = now() WHERE id = $1 AND status = 'pending'",
		requestID,
	)
	if err != nil {
		return err
	}

	if affected, err := res.RowsAffected(); err != nil {
		return err
	} else if affected == 0 {
		return apperr.New(apperr.NotFound, "join request not found or already settled")
	}

	return nil
}

func (r *joinRequestRepo) ListByRoom(ctx context.Context, roomID int64, status *models.JoinStatus) ([]models.JoinRequestWithUser, error) {
	query := `
		SELECT jr.*, u.username AS username, reviewer.username AS reviewer_name
		FROM chat_room_join_requests jr
		INNER JOIN users u ON u.id = jr.user_id
		LEFT JOIN users reviewer ON reviewer.id = jr.reviewed_by
		WHERE jr.chat_room_id = $1
	`
	args := []any{roomID}

	if status != nil {
		query += " AND jr.status = $2"
		args = append(args, *status)
	}

	query += " ORDER BY jr.created_at DESC"

	var reqs []models.JoinRequestWithUser
	if err := r.db.SelectContext(ctx, &reqs, query, args...); err != nil {
		return nil, err
	}

	return reqs, nil
}

func (r *joinRequestRepo) ListPendingForReviewer(ctx context.Context, reviewerID int64) ([]models.PendingApproval, error) {
	query := `
		SELECT jr.id AS request_id,
		       jr.chat_room_id AS room_id,
		       c.chat_id AS chat_id,
		       c.name AS room_name,
		       jr.user_id AS user_id,
		       u.username AS username,
		       jr.message AS message,
		       jr.created_at AS created_at
		FROM chat_room_join_requests jr
		INNER JOIN chat_rooms c ON c.id = jr.chat_room_id
		INNER JOIN users u ON u.id = jr.user_id
		WHERE jr.status = 'pending'
		  AND jr.chat_room_id IN (
			SELECT chat_room_id FROM chat_room_members
			WHERE user_id = $1 AND role IN ('owner', 'admin')
		  )
		ORDER BY jr.created_at DESC
	`

	var approvals []models.PendingApproval
	if err := r.db.SelectContext(ctx, &approvals, query, reviewerID); err != nil {
		return nil, err
	}

	return approvals, nil
}
