package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/Fanyuxuan0817/StudySync/internal/domain/apperr"
	"github.com/Fanyuxuan0817/StudySync/internal/domain/models"
	"github.com/Fanyuxuan0817/StudySync/internal/infra/adapters/postgres/repository"
)

const (
	defaultPageSize = 50
	maxPageSize     = 100

	defaultStatsDays = 7
	maxStatsDays     = 90
)

type MessageUsecase interface {
	// Append validates and persists one message. It is the single write path
	// for both the websocket session and the HTTP fallback, so membership and
	// mute checks live here.
	Append(ctx context.Context, roomID, userID int64, content string, msgType models.MessageType) (*models.Message, error)

	Page(ctx context.Context, roomID, viewerID, beforeID int64, limit int) ([]models.MessageWithUser, bool, error)
	Delete(ctx context.Context, roomID, messageID, actorID int64) error
	Search(ctx context.Context, roomID, viewerID int64, keyword string, limit int) ([]models.MessageWithUser, error)
	DailyStats(ctx context.Context, roomID, viewerID int64, days int) ([]models.DailyCount, []models.ActiveAuthor, error)
}

type messageUsecase struct {
	roomRepo    repository.RoomRepository
	memberRepo  repository.MemberRepository
	messageRepo repository.MessageRepository
}

func NewMessageUsecase(
	roomRepo repository.RoomRepository,
	memberRepo repository.MemberRepository,
	messageRepo repository.MessageRepository,
) MessageUsecase {
	return &messageUsecase{
		roomRepo:    roomRepo,
		memberRepo:  memberRepo,
		messageRepo: messageRepo,
	}
}

func (uc *messageUsecase) Append(ctx context.Context, roomID, userID int64, content string, msgType models.MessageType) (*models.Message, error) {
	if msgType == "" {
		msgType = models.MessageTypeText
	}
	if !msgType.Valid() {
		return nil, apperr.New(apperr.InvalidArgument, "unsupported message type")
	}
	if msgType == models.MessageTypeText && strings.TrimSpace(content) == "" {
		return nil, apperr.New(apperr.InvalidArgument, "message content must not be empty")
	}

	if _, err := uc.roomRepo.GetActiveByID(ctx, roomID); err != nil {
		return nil, err
	}

	member, err := uc.requireMember(ctx, roomID, userID)
	if err != nil {
		return nil, err
	}
	if member.IsMuted {
		return nil, apperr.New(apperr.Forbidden, "you are muted in this room")
	}

	msg := &models.Message{
		RoomID:  roomID,
		UserID:  userID,
		Content: content,
		Type:    msgType,
	}
	if err := uc.messageRepo.Insert(ctx, msg); err != nil {
		return nil, err
	}

	return msg, nil
}

func (uc *messageUsecase) Page(ctx context.Context, roomID, viewerID, beforeID int64, limit int) ([]models.MessageWithUser, bool, error) {
	if _, err := uc.requireMember(ctx, roomID, viewerID); err != nil {
		return nil, false, err
	}

	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}

	return uc.messageRepo.Page(ctx, roomID, beforeID, limit)
}

func (uc *messageUsecase) Delete(ctx context.Context, roomID, messageID, actorID int64) error {
	member, err := uc.requireMember(ctx, roomID, actorID)
	if err != nil {
		return err
	}

	msg, err := uc.messageRepo.GetByID(ctx, roomID, messageID)
	if err != nil {
		return err
	}

	if msg.UserID != actorID && !member.Role.CanModerate() {
		return apperr.New(apperr.Forbidden, "cannot delete another member's message")
	}

	return uc.messageRepo.SoftDelete(ctx, messageID)
}

func (uc *messageUsecase) Search(ctx context.Context, roomID, viewerID int64, keyword string, limit int) ([]models.MessageWithUser, error) {
	if _, err := uc.requireMember(ctx, roomID, viewerID); err != nil {
		return nil, err
	}

	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return nil, apperr.New(apperr.InvalidArgument, "search keyword must not be empty")
	}

	if limit <= 0 || limit > maxPageSize {
		limit = defaultPageSize
	}

	return uc.messageRepo.Search(ctx, roomID, keyword, limit)
}

func (uc *messageUsecase) DailyStats(ctx context.Context, roomID, viewerID int64, days int) ([]models.DailyCount, []models.ActiveAuthor, error) {
	if _, err := uc.requireMember(ctx, roomID, viewerID); err != nil {
		return nil, nil, err
	}

	if days <= 0 {
		days = defaultStatsDays
	}
	if days > maxStatsDays {
		days = maxStatsDays
	}

	since := time.Now().AddDate(0, 0, -days)

	return uc.messageRepo.DailyStats(ctx, roomID, since)
}

func (uc *messageUsecase) requireMember(ctx context.Context, roomID, userID int64) (*models.Member, error) {
	member, err := uc.memberRepo.Get(ctx, roomID, userID)
	if apperr.IsKind(err, apperr.NotFound) {
		return nil, apperr.New(apperr.Forbidden, "not a member of this room")
	}
	if err != nil {
		return nil, err
	}

	return member, nil
}
