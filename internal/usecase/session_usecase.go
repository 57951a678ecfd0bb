package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/Fanyuxuan0817/StudySync/internal/application/constant"
	"github.com/Fanyuxuan0817/StudySync/internal/application/metric"
	"github.com/Fanyuxuan0817/StudySync/internal/domain/apperr"
	"github.com/Fanyuxuan0817/StudySync/internal/domain/events"
	"github.com/Fanyuxuan0817/StudySync/internal/domain/models"
	"github.com/Fanyuxuan0817/StudySync/internal/domain/realtime"
	"github.com/Fanyuxuan0817/StudySync/internal/infra/adapters/postgres/repository"
)

// Broadcaster is the live-connection side of a room session. Satisfied by the
// in-memory connection registry.
type Broadcaster interface {
	Register(roomID, userID int64, conn realtime.Conn)
	Deregister(roomID, userID int64)
	Broadcast(roomID int64, payload any, excludeUserID int64)
	SendToUser(userID int64, payload any)
	OnlineUsers(roomID int64) []int64
}

// SessionUsecase drives one websocket session from admission to teardown.
type SessionUsecase interface {
	// Run blocks until the connection drops or the context is cancelled. The
	// caller owns the transport; Run never closes a healthy connection.
	Run(ctx context.Context, roomID int64, token string, conn realtime.Conn) error
}

type sessionUsecase struct {
	userUsecase    UserUsecase
	roomRepo       repository.RoomRepository
	memberRepo     repository.MemberRepository
	messageUsecase MessageUsecase
	broadcaster    Broadcaster
}

func NewSessionUsecase(
	userUsecase UserUsecase,
	roomRepo repository.RoomRepository,
	memberRepo repository.MemberRepository,
	messageUsecase MessageUsecase,
	broadcaster Broadcaster,
) SessionUsecase {
	return &sessionUsecase{
		userUsecase:    userUsecase,
		roomRepo:       roomRepo,
		memberRepo:     memberRepo,
		messageUsecase: messageUsecase,
		broadcaster:    broadcaster,
	}
}

func (uc *sessionUsecase) Run(ctx context.Context, roomID int64, token string, conn realtime.Conn) error {
	user, err := uc.admit(ctx, roomID, token)
	if err != nil {
		_ = conn.ClosePolicy(err.Error())
		return err
	}

	sessionID := uuid.NewString()

	log := slog.With(
		slog.String(constant.SessionID, sessionID),
		slog.Int64(constant.RoomID, roomID),
		slog.Int64(constant.UserID, user.ID),
		slog.String(constant.UserName, user.Username),
	)

	uc.broadcaster.Register(roomID, user.ID, conn)
	metric.IncrementWSActiveConnections()
	log.Info("session started")

	defer func() {
		uc.broadcaster.Deregister(roomID, user.ID)
		metric.DecrementWSActiveConnections()

		uc.broadcaster.Broadcast(roomID, events.NewUserLeft(user.ID, user.Username), user.ID)

		if err := uc.memberRepo.TouchLastActive(ctx, roomID, user.ID); err != nil {
			log.Warn("touch last active on disconnect", slog.Any(constant.Error, err))
		}

		log.Info("session ended")
	}()

	if err := uc.memberRepo.TouchLastActive(ctx, roomID, user.ID); err != nil {
		log.Warn("touch last active on connect", slog.Any(constant.Error, err))
	}

	uc.welcome(roomID, user)

	return uc.readLoop(ctx, roomID, user, conn, log)
}

// admit runs the connect-time checks. Any failure here must be reported with
// a policy close so well-behaved clients stop reconnecting.
func (uc *sessionUsecase) admit(ctx context.Context, roomID int64, token string) (*models.User, error) {
	userID, err := uc.userUsecase.VerifyToken(token)
	if err != nil {
		return nil, err
	}

	user, err := uc.userUsecase.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if _, err := uc.roomRepo.GetActiveByID(ctx, roomID); err != nil {
		return nil, err
	}

	member, err := uc.memberRepo.Get(ctx, roomID, userID)
	if apperr.IsKind(err, apperr.NotFound) {
		return nil, apperr.New(apperr.Forbidden, "not a member of this room")
	}
	if err != nil {
		return nil, err
	}
	if member.IsMuted {
		return nil, apperr.New(apperr.Forbidden, "you are muted in this room")
	}

	return user, nil
}

// welcome sends the admission frames: a system notice to the whole room, the
// snapshot of online users to the new session, and a presence announcement to
// everyone else.
func (uc *sessionUsecase) welcome(roomID int64, user *models.User) {
	uc.broadcaster.Broadcast(roomID, events.NewSystem(fmt.Sprintf("%s joined the room", user.Username)), 0)

	uc.broadcaster.SendToUser(user.ID, events.NewOnlineUsers(uc.broadcaster.OnlineUsers(roomID)))

	uc.broadcaster.Broadcast(roomID, events.NewUserJoined(user.ID, user.Username), user.ID)
}

func (uc *sessionUsecase) readLoop(ctx context.Context, roomID int64, user *models.User, conn realtime.Conn, log *slog.Logger) error {
	for {
		if ctx.Err() != nil {
			return nil
		}

		data, err := conn.ReadMessage()
		if err != nil {
			// Normal teardown path: client went away or the transport died.
			log.Debug("read loop closed", slog.Any(constant.Error, err))
			return nil
		}

		var in events.InboundMessage
		if err := json.Unmarshal(data, &in); err != nil {
			uc.broadcaster.SendToUser(user.ID, events.NewError("malformed message"))
			continue
		}

		msg, err := uc.messageUsecase.Append(ctx, roomID, user.ID, in.Content, in.Type)
		if err != nil {
			switch apperr.KindOf(err) {
			case apperr.InvalidArgument, apperr.Forbidden:
				// Rejected input keeps the session alive.
				uc.broadcaster.SendToUser(user.ID, events.NewError(err.Error()))
				continue
			default:
				// A message that cannot be persisted must never be
				// broadcast, and the session cannot continue honestly.
				log.Error("persist message", slog.Any(constant.Error, err))
				uc.broadcaster.SendToUser(user.ID, events.NewError("message could not be saved"))
				return err
			}
		}

		metric.IncrementWSMessages()

		uc.broadcaster.Broadcast(roomID, events.NewMessage(msg, user), 0)

		if err := uc.memberRepo.TouchLastActive(ctx, roomID, user.ID); err != nil {
			log.Warn("touch last active", slog.Any(constant.Error, err))
		}
	}
}
