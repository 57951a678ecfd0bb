package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/Fanyuxuan0817/StudySync/internal/domain/apperr"
	"github.com/Fanyuxuan0817/StudySync/internal/domain/models"
)

type MemberRepository interface {
	Add(ctx context.Context, member *models.Member) error
	Get(ctx context.Context, roomID, userID int64) (*models.Member, error)
	Count(ctx context.Context, roomID int64) (int, error)
	CountByRooms(ctx context.Context, roomIDs []int64) (map[int64]int, error)
	ListByRoom(ctx context.Context, roomID int64) ([]models.MemberWithUser, error)
	Remove(ctx context.Context, roomID, userID int64) error
	SetMuted(ctx context.Context, roomID, userID int64, muted bool) error
	TouchLastActive(ctx context.Context, roomID, userID int64) error

	// TransferOwnership flips the two role rows in a single transaction so
	// the one-owner-per-room invariant holds at every commit point.
	TransferOwnership(ctx context.Context, roomID, fromUserID, toUserID int64) error
}

type memberRepo struct {
	db *sqlx.DB
}

func NewMemberRepo(db *sqlx.DB) MemberRepository {
	return &memberRepo{db: db}
}

func (r *memberRepo) Add(ctx context.Context, member *models.Member) error {
	return r.db.QueryRowContext(
		ctx,
		`INSERT INTO chat_room_members (chat_room_id, user_id, role, last_active_at, is_muted)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, joined_at`,
		member.RoomID,
		member.UserID,
		member.Role,
		member.LastActiveAt,
		member.IsMuted,
	).Scan(&member.ID, &member.JoinedAt)
}

func (r *memberRepo) Get(ctx context.Context, roomID, userID int64) (*models.Member, error) {
	var member models.Member

	err := r.db.GetContext(
		ctx,
		&member,
		"SELECT * FROM chat_room_members WHERE chat_room_id = $1 AND user_id = $2",
		roomID,
		userID,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.New(apperr.NotFound, "not a member of this room")
	}
	if err != nil {
		return nil, err
	}

	return &member, nil
}

func (r *memberRepo) Count(ctx context.Context, roomID int64) (int, error) {
	var count int

	err := r.db.GetContext(ctx, &count, "SELECT count(*) FROM chat_room_members WHERE chat_room_id = $1", roomID)
	if err != nil {
		return 0, err
	}

	return count, nil
}

func (r *memberRepo) CountByRooms(ctx context.Context, roomIDs []int64) (map[int64]int, error) {
	counts := make(map[int64]int, len(roomIDs))
	if len(roomIDs) == 0 {
		return counts, nil
	}

	query, args, err := sqlx.In(
		"SELECT chat_room_id, count(*) AS count FROM chat_room_members WHERE chat_room_id IN (?) GROUP BY chat_room_id",
		roomIDs,
	)
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, r.db.Rebind(query), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var roomID int64
		var count int
		if err := rows.Scan(&roomID, &count); err != nil {
			return nil, err
		}
		counts[roomID] = count
	}

	return counts, rows.Err()
}

func (r *memberRepo) ListByRoom(ctx context.Context, roomID int64) ([]models.MemberWithUser, error) {
	var members []models.MemberWithUser

	query := `
		SELECT m.*, u.username AS username, u.avatar_url AS user_avatar_url
		FROM chat_room_members m
		INNER JOIN users u ON u.id = m.user_id
		WHERE m.chat_room_id = $1
		ORDER BY m.joined_at
	`

	err := r.db.SelectContext(ctx, &members, query, roomID)
	if err != nil {
		return nil, err
	}

	return members, nil
}

func (r *memberRepo) Remove(ctx context.Context, roomID, userID int64) error {
	res, err := r.db.ExecContext(
		ctx,
		"DELETE FROM chat_room_members WHERE chat_room_id = $1 AND user_id = $2",
		roomID,
		userID,
	)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return apperr.New(apperr.NotFound, "not a member of this room")
	}

	return nil
}

func (r *memberRepo) SetMuted(ctx context.Context, roomID, userID int64, muted bool) error {
	res, err := r.db.ExecContext(
		ctx,
		"UPDATE chat_room_members SET is_muted = $1 WHERE chat_room_id = $2 AND user_id = $3",
		muted,
		roomID,
		userID,
	)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return apperr.New(apperr.NotFound, "not a member of this room")
	}

	return nil
}

func (r *memberRepo) TouchLastActive(ctx context.Context, roomID, userID int64) error {
	_, err := r.db.ExecContext(
		ctx,
		"UPDATE chat_room_members SET last_active_at = $1 WHERE chat_room_id = $2 AND user_id = $3",
		time.Now(),
		roomID,
		userID,
	)

	return err
}

func (r *memberRepo) TransferOwnership(ctx context.Context, roomID, fromUserID, toUserID int64) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(
		ctx,
		"UPDATE chat_room_members SET role = 'member' WHERE chat_room_id = $1 AND user_id = $2 AND role = 'owner'",
		roomID,
		fromUserID,
	)
	if err != nil {
		return err
	}
	if affected, err := res.RowsAffected(); err != nil {
		return err
	} else if affected == 0 {
		return apperr.New(apperr.Forbidden, "only the owner can transfer ownership")
	}

	res, err = tx.ExecContext(
		ctx,
		"UPDATE chat_room_members SET role = 'owner' WHERE chat_room_id = $1 AND user_id = $2",
		roomID,
		toUserID,
	)
	if err != nil {
		return err
	}
	if affected, err := res.RowsAffected(); err != nil {
		return err
	} else if affected == 0 {
		return apperr.New(apperr.NotFound, "target user is not a member of this room")
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit ownership transfer: %w", err)
	}

	return nil
}
