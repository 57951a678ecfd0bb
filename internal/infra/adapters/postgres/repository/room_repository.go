package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/Fanyuxuan0817/StudySync/internal/domain/apperr"
	"github.com/Fanyuxuan0817/StudySync/internal/domain/models"
)

type RoomRepository interface {
	Create(ctx context.Context, room *models.Room) error
	GetByID(ctx context.Context, id int64) (*models.Room, error)
	GetActiveByID(ctx context.Context, id int64) (*models.Room, error)
	GetActiveByChatID(ctx context.Context, chatID string) (*models.Room, error)
	Update(ctx context.Context, room *models.Room) error
	UpdateStatus(ctx context.Context, id int64, status models.RoomStatus) error
	ChatIDExists(ctx context.Context, chatID string) (bool, error)

	ListCreatedBy(ctx context.Context, userID int64) ([]models.Room, error)
	ListJoined(ctx context.Context, userID int64) ([]models.Room, error)
	Search(ctx context.Context, viewerID int64, keyword, chatID string, limit, offset int) ([]models.Room, int, error)
}

type roomRepo struct {
	db *sqlx.DB
}

func NewRoomRepo(db *sqlx.DB) RoomRepository {
	return &roomRepo{db: db}
}

func (r *roomRepo) Create(ctx context.Context, room *models.Room) error {
	return r.db.QueryRowContext(
		ctx,
		`INSERT INTO chat_rooms (chat_id, name, description, avatar_url, group_id, created_by, max_members, is_public, status)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 RETURNING id, created_at, updated_at`,
		room.ChatID,
		room.Name,
		room.Description,
		room.AvatarURL,
		room.GroupID,
		room.CreatedBy,
		room.MaxMembers,
		room.IsPublic,
		room.Status,
	).Scan(&room.ID, &room.CreatedAt, &room.UpdatedAt)
}

func (r *roomRepo) GetByID(ctx context.Context, id int64) (*models.Room, error) {
	return r.getOne(ctx, "SELECT * FROM chat_rooms WHERE id = $1", id)
}

func (r *roomRepo) GetActiveByID(ctx context.Context, id int64) (*models.Room, error) {
	return r.getOne(ctx, "SELECT * FROM chat_rooms WHERE id = $1 AND status = 'active'", id)
}

func (r *roomRepo) GetActiveByChatID(ctx context.Context, chatID string) (*models.Room, error) {
	return r.getOne(ctx, "SELECT * FROM chat_rooms WHERE chat_id = $1 AND status = 'active'", chatID)
}

func (r *roomRepo) getOne(ctx context.Context, query string, arg any) (*models.Room, error) {
	var room models.Room

	err := r.db.GetContext(ctx, &room, query, arg)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.New(apperr.NotFound, "room not found")
	}
	if err != nil {
		return nil, err
	}

	return &room, nil
}

func (r *roomRepo) Update(ctx context.Context, room *models.Room) error {
	_, err := r.db.ExecContext(
		ctx,
		`UPDATE chat_rooms
		 SET name = $1, description = $2, avatar_url = $3, max_members = $4, is_public = $5, updated_at = $6
		 WHERE id = $7`,
		room.Name,
		room.Description,
		room.AvatarURL,
		room.MaxMembers,
		room.IsPublic,
		time.Now(),
		room.ID,
	)

	return err
}

func (r *roomRepo) UpdateStatus(ctx context.Context, id int64, status models.RoomStatus) error {
	_, err := r.db.ExecContext(
		ctx,
		"UPDATE chat_rooms SET status = $1, updated_at = $2 WHERE id = $3",
		status,
		time.Now(),
		id,
	)

	return err
}

func (r *roomRepo) ChatIDExists(ctx context.Context, chatID string) (bool, error) {
	var exists bool

	err := r.db.GetContext(ctx, &exists, "SELECT EXISTS (SELECT 1 FROM chat_rooms WHERE chat_id = $1)", chatID)
	if err != nil {
		return false, err
	}

	return exists, nil
}

func (r *roomRepo) ListCreatedBy(ctx context.Context, userID int64) ([]models.Room, error) {
	var rooms []models.Room

	err := r.db.SelectContext(
		ctx,
		&rooms,
		"SELECT * FROM chat_rooms WHERE created_by = $1 AND status = 'active' ORDER BY created_at DESC",
		userID,
	)
	if err != nil {
		return nil, err
	}

	return rooms, nil
}

func (r *roomRepo) ListJoined(ctx context.Context, userID int64) ([]models.Room, error) {
	var rooms []models.Room

	query := `
		SELECT c.*
		FROM chat_rooms c
		INNER JOIN chat_room_members m ON c.id = m.chat_room_id
		WHERE m.user_id = $1 AND c.created_by != $1 AND c.status = 'active'
		ORDER BY c.created_at DESC
	`

	err := r.db.SelectContext(ctx, &rooms, query, userID)
	if err != nil {
		return nil, err
	}

	return rooms, nil
}

// Search returns active rooms visible to the viewer (public, or any room the
// viewer is a member of), filtered by exact chat id or keyword over name and
// description, with the total match count for pagination.
func (r *roomRepo) Search(ctx context.Context, viewerID int64, keyword, chatID string, limit, offset int) ([]models.Room, int, error) {
	conds := []string{
		"c.status = 'active'",
		"(c.is_public = TRUE OR c.id IN (SELECT chat_room_id FROM chat_room_members WHERE user_id = $1))",
	}
	args := []any{viewerID}

	if chatID != "" {
		args = append(args, chatID)
		conds = append(conds, fmt.Sprintf("c.chat_id = $%d", len(args)))
	}

	if keyword != "" {
		args = append(args, "%"+keyword+"%")
		conds = append(conds, fmt.Sprintf("(c.name ILIKE $%d OR c.description ILIKE $%d)", len(args), len(args)))
	}

	where := strings.Join(conds, " AND ")

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT count(*) FROM chat_rooms c WHERE "+where, args...); err != nil {
		return nil, 0, err
	}

	args = append(args, limit, offset)
	query := fmt.Sprintf(
		"SELECT c.* FROM chat_rooms c WHERE %s ORDER BY c.created_at DESC LIMIT $%d OFFSET $%d",
		where,
		len(args)-1,
		len(args),
	)

	var rooms []models.Room
	if err := r.db.SelectContext(ctx, &rooms, query, args...); err != nil {
		return nil, 0, err
	}

	return rooms, total, nil
}
