package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/Fanyuxuan0817/StudySync/internal/domain/apperr"
	"github.com/Fanyuxuan0817/StudySync/internal/domain/models"
)

type MessageRepository interface {
	Insert(ctx context.Context, msg *models.Message) error
	GetByID(ctx context.Context, roomID, messageID int64) (*models.Message, error)

	// Page returns up to limit non-deleted messages with id strictly below
	// beforeID (or the newest ones when beforeID is 0), oldest first, plus a
	// flag telling whether older messages remain.
	Page(ctx context.Context, roomID, beforeID int64, limit int) ([]models.MessageWithUser, bool, error)

	SoftDelete(ctx context.Context, messageID int64) error
	Search(ctx context.Context, roomID int64, keyword string, limit int) ([]models.MessageWithUser, error)
	DailyStats(ctx context.Context, roomID int64, since time.Time) ([]models.DailyCount, []models.ActiveAuthor, error)
}

type messageRepo struct {
	db *sqlx.DB
}

func NewMessageRepo(db *sqlx.DB) MessageRepository {
	return &messageRepo{db: db}
}

func (r *messageRepo) Insert(ctx context.Context, msg *models.Message) error {
	return r.db.QueryRowContext(
		ctx,
		`INSERT INTO chat_messages (chat_room_id, user_id, content, message_type)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at`,
		msg.RoomID,
		msg.UserID,
		msg.Content,
		msg.Type,
	).Scan(&msg.ID, &msg.CreatedAt)
}

func (r *messageRepo) GetByID(ctx context.Context, roomID, messageID int64) (*models.Message, error) {
	var msg models.Message

	err := r.db.GetContext(
		ctx,
		&msg,
		"SELECT * FROM chat_messages WHERE id = $1 AND chat_room_id = $2",
		messageID,
		roomID,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.New(apperr.NotFound, "message not found")
	}
	if err != nil {
		return nil, err
	}

	return &msg, nil
}

func (r *messageRepo) Page(ctx context.Context, roomID, beforeID int64, limit int) ([]models.MessageWithUser, bool, error) {
	query := `
		SELECT m.*, u.username AS username, u.avatar_url AS user_avatar_url
		FROM chat_messages m
		INNER JOIN users u ON u.id = m.user_id
		WHERE m.chat_room_id = $1 AND m.is_deleted = FALSE
	`
	args := []any{roomID}

	if beforeID > 0 {
		query += " AND m.id < $2 ORDER BY m.id DESC LIMIT $3"
		args = append(args, beforeID, limit)
	} else {
		query += " ORDER BY m.id DESC LIMIT $2"
		args = append(args, limit)
	}

	var page []models.MessageWithUser
	if err := r.db.SelectContext(ctx, &page, query, args...); err != nil {
		return nil, false, err
	}

	if len(page) == 0 {
		return nil, false, nil
	}

	// Newest-first from the query; reverse for display order.
	for i, j := 0, len(page)-1; i < j; i, j = i+1, j-1 {
		page[i], page[j] = page[j], page[i]
	}

	oldestID := page[0].ID

	var hasMore bool
	err := r.db.GetContext(
		ctx,
		&hasMore,
		"SELECT EXISTS (SELECT 1 FROM chat_messages WHERE chat_room_id = $1 AND id < $2 AND is_deleted = FALSE)",
		roomID,
		oldestID,
	)
	if err != nil {
		return nil, false, err
	}

	return page, hasMore, nil
}

func (r *messageRepo) SoftDelete(ctx context.Context, messageID int64) error {
	_, err := r.db.ExecContext(ctx, "UPDATE chat_messages SET is_deleted = TRUE WHERE id = $1", messageID)
	return err
}

func (r *messageRepo) Search(ctx context.Context, roomID int64, keyword string, limit int) ([]models.MessageWithUser, error) {
	query := `
		SELECT m.*, u.username AS username, u.avatar_url AS user_avatar_url
		FROM chat_messages m
		INNER JOIN users u ON u.id = m.user_id
		WHERE m.chat_room_id = $1 AND m.is_deleted = FALSE AND m.content ILIKE $2
		ORDER BY m.created_at DESC
		LIMIT $3
	`

	var messages []models.MessageWithUser
	if err := r.db.SelectContext(ctx, &messages, query, roomID, "%"+keyword+"%", limit); err != nil {
		return nil, err
	}

	return messages, nil
}

func (r *messageRepo) DailyStats(ctx context.Context, roomID int64, since time.Time) ([]models.DailyCount, []models.ActiveAuthor, error) {
	var daily []models.DailyCount

	dailyQuery := `
		SELECT to_char(created_at, 'YYYY-MM-DD') AS date, count(*) AS count
		FROM chat_messages
		WHERE chat_room_id = $1 AND is_deleted = FALSE AND created_at >= $2
		GROUP BY 1
		ORDER BY 1
	`
	if err := r.db.SelectContext(ctx, &daily, dailyQuery, roomID, since); err != nil {
		return nil, nil, err
	}

	var authors []models.ActiveAuthor

	authorsQuery := `
		SELECT m.user_id AS user_id, u.username AS username, count(*) AS message_count
		FROM chat_messages m
		INNER JOIN users u ON u.id = m.user_id
		WHERE m.chat_room_id = $1 AND m.is_deleted = FALSE AND m.created_at >= $2
		GROUP BY m.user_id, u.username
		ORDER BY count(*) DESC
		LIMIT 10
	`
	if err := r.db.SelectContext(ctx, &authors, authorsQuery, roomID, since); err != nil {
		return nil, nil, err
	}

	return daily, authors, nil
}
