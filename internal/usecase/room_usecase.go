package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Fanyuxuan0817/StudySync/internal/domain/apperr"
	"github.com/Fanyuxuan0817/StudySync/internal/domain/chatid"
	"github.com/Fanyuxuan0817/StudySync/internal/domain/input"
	"github.com/Fanyuxuan0817/StudySync/internal/domain/models"
	"github.com/Fanyuxuan0817/StudySync/internal/domain/output"
	"github.com/Fanyuxuan0817/StudySync/internal/infra/adapters/postgres/repository"
)

type RoomUsecase interface {
	CreateRoom(ctx context.Context, userID int64, in *input.CreateRoomInput) (*models.Room, error)
	GetRoom(ctx context.Context, viewerID, roomID int64) (*output.RoomDetail, error)
	GetRoomByChatID(ctx context.Context, viewerID int64, chatID string) (*output.RoomDetail, error)
	UpdateRoom(ctx context.Context, actorID, roomID int64, in *input.UpdateRoomInput) (*models.Room, error)

	// SetStatus drives the room lifecycle. Closing is owner-only and
	// terminal; archive, suspend and reactivate need a moderator role.
	SetStatus(ctx context.Context, actorID, roomID int64, status models.RoomStatus) error
	CloseRoom(ctx context.Context, actorID, roomID int64) error

	ListMembers(ctx context.Context, viewerID, roomID int64) ([]models.MemberWithUser, error)
	Leave(ctx context.Context, userID, roomID int64) error
	RemoveMember(ctx context.Context, actorID, roomID, targetID int64) error
	TransferOwnership(ctx context.Context, actorID, roomID, targetID int64) error
	SetMuted(ctx context.Context, actorID, roomID, targetID int64, muted bool) error

	MyRooms(ctx context.Context, userID int64) (created, joined []output.RoomSummary, err error)
	SearchRooms(ctx context.Context, viewerID int64, keyword, chatID string, page, pageSize int) ([]output.RoomSummary, int, error)

	RequestJoin(ctx context.Context, userID, roomID int64, message *string) (*models.JoinRequest, error)
	CancelJoinRequest(ctx context.Context, userID, roomID, requestID int64) error
	ListJoinRequests(ctx context.Context, actorID, roomID int64, status *models.JoinStatus) ([]models.JoinRequestWithUser, error)
	PendingApprovals(ctx context.Context, reviewerID int64) ([]models.PendingApproval, error)
	ReviewJoinRequest(ctx context.Context, reviewerID, roomID, requestID int64, approve bool, reviewMessage *string) error
}

type roomUsecase struct {
	roomRepo        repository.RoomRepository
	memberRepo      repository.MemberRepository
	joinRequestRepo repository.JoinRequestRepository
	userRepo        repository.UserRepository
	groupRepo       repository.GroupRepository

	chatIDs *chatid.Generator
}

func NewRoomUsecase(
	roomRepo repository.RoomRepository,
	memberRepo repository.MemberRepository,
	joinRequestRepo repository.JoinRequestRepository,
	userRepo repository.UserRepository,
	groupRepo repository.GroupRepository,
) RoomUsecase {
	return &roomUsecase{
		roomRepo:        roomRepo,
		memberRepo:      memberRepo,
		joinRequestRepo: joinRequestRepo,
		userRepo:        userRepo,
		groupRepo:       groupRepo,
		chatIDs:         chatid.NewGenerator(roomRepo.ChatIDExists),
	}
}

func (uc *roomUsecase) CreateRoom(ctx context.Context, userID int64, in *input.CreateRoomInput) (*models.Room, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" || len(name) > 100 {
		return nil, apperr.New(apperr.InvalidArgument, "room name must be between 1 and 100 characters")
	}

	maxMembers := in.MaxMembers
	if maxMembers == 0 {
		maxMembers = models.DefaultRoomCapacity
	}
	if maxMembers < models.MinRoomCapacity || maxMembers > models.MaxRoomCapacity {
		return nil, apperr.Newf(
			apperr.InvalidArgument,
			"max members must be between %d and %d",
			models.MinRoomCapacity,
			models.MaxRoomCapacity,
		)
	}

	if in.GroupID != nil {
		exists, err := uc.groupRepo.Exists(ctx, *in.GroupID)
		if err != nil {
			return nil, err
		}
		if !exists {
			return nil, apperr.New(apperr.NotFound, "group not found")
		}

		isMember, err := uc.groupRepo.IsMember(ctx, *in.GroupID, userID)
		if err != nil {
			return nil, err
		}
		if !isMember {
			return nil, apperr.New(apperr.Forbidden, "not a member of the linked group")
		}
	}

	id, err := uc.chatIDs.Generate(ctx)
	if err != nil {
		return nil, err
	}

	room := &models.Room{
		ChatID:      id,
		Name:        name,
		Description: in.Description,
		AvatarURL:   in.AvatarURL,
		GroupID:     in.GroupID,
		CreatedBy:   userID,
		MaxMembers:  maxMembers,
		IsPublic:    in.IsPublic,
		Status:      models.RoomStatusActive,
	}
	if err := uc.roomRepo.Create(ctx, room); err != nil {
		return nil, fmt.Errorf("create room: %w", err)
	}

	now := time.Now()
	owner := &models.Member{
		RoomID:       room.ID,
		UserID:       userID,
		Role:         models.RoleOwner,
		LastActiveAt: &now,
	}
	if err := uc.memberRepo.Add(ctx, owner); err != nil {
		return nil, fmt.Errorf("add room owner: %w", err)
	}

	return room, nil
}

func (uc *roomUsecase) GetRoom(ctx context.Context, viewerID, roomID int64) (*output.RoomDetail, error) {
	room, err := uc.roomRepo.GetByID(ctx, roomID)
	if err != nil {
		return nil, err
	}

	return uc.roomDetail(ctx, viewerID, room)
}

func (uc *roomUsecase) GetRoomByChatID(ctx context.Context, viewerID int64, chatID string) (*output.RoomDetail, error) {
	chatID = chatid.Normalize(chatID)
	if !chatid.Valid(chatID) {
		return nil, apperr.New(apperr.InvalidArgument, "malformed chat id")
	}

	room, err := uc.roomRepo.GetActiveByChatID(ctx, chatID)
	if err != nil {
		return nil, err
	}

	return uc.roomDetail(ctx, viewerID, room)
}

// roomDetail hides private rooms from non-members: they get the same not
// found as a room that does not exist.
func (uc *roomUsecase) roomDetail(ctx context.Context, viewerID int64, room *models.Room) (*output.RoomDetail, error) {
	var viewerRole *models.Role

	member, err := uc.memberRepo.Get(ctx, room.ID, viewerID)
	switch {
	case err == nil:
		viewerRole = &member.Role
	case !apperr.IsKind(err, apperr.NotFound):
		return nil, err
	case !room.IsPublic:
		return nil, apperr.New(apperr.NotFound, "room not found")
	}

	count, err := uc.memberRepo.Count(ctx, room.ID)
	if err != nil {
		return nil, err
	}

	return &output.RoomDetail{
		Room:           *room,
		CurrentMembers: count,
		ViewerRole:     viewerRole,
	}, nil
}

func (uc *roomUsecase) UpdateRoom(ctx context.Context, actorID, roomID int64, in *input.UpdateRoomInput) (*models.Room, error) {
	room, err := uc.roomRepo.GetByID(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if !room.Active() {
		return nil, apperr.New(apperr.InvalidState, "room is not active")
	}

	if _, err := uc.requireRole(ctx, roomID, actorID, "only the owner or an admin can edit the room"); err != nil {
		return nil, err
	}

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" || len(name) > 100 {
			return nil, apperr.New(apperr.InvalidArgument, "room name must be between 1 and 100 characters")
		}
		room.Name = name
	}
	if in.Description != nil {
		room.Description = in.Description
	}
	if in.AvatarURL != nil {
		room.AvatarURL = in.AvatarURL
	}
	if in.IsPublic != nil {
		room.IsPublic = *in.IsPublic
	}

	if in.MaxMembers != nil {
		if *in.MaxMembers < models.MinRoomCapacity || *in.MaxMembers > models.MaxRoomCapacity {
			return nil, apperr.Newf(
				apperr.InvalidArgument,
				"max members must be between %d and %d",
				models.MinRoomCapacity,
				models.MaxRoomCapacity,
			)
		}

		count, err := uc.memberRepo.Count(ctx, roomID)
		if err != nil {
			return nil, err
		}
		if *in.MaxMembers < count {
			return nil, apperr.New(apperr.InvalidState, "cannot shrink capacity below the current member count")
		}

		room.MaxMembers = *in.MaxMembers
	}

	if err := uc.roomRepo.Update(ctx, room); err != nil {
		return nil, fmt.Errorf("update room: %w", err)
	}

	return room, nil
}

func (uc *roomUsecase) SetStatus(ctx context.Context, actorID, roomID int64, status models.RoomStatus) error {
	if !status.Valid() {
		return apperr.New(apperr.InvalidArgument, "unknown room status")
	}

	room, err := uc.roomRepo.GetByID(ctx, roomID)
	if err != nil {
		return err
	}

	member, err := uc.requireRole(ctx, roomID, actorID, "only the owner or an admin can change the room status")
	if err != nil {
		return err
	}
	if status == models.RoomStatusClosed && member.Role != models.RoleOwner {
		return apperr.New(apperr.Forbidden, "only the owner can close the room")
	}

	if !room.Status.CanTransitionTo(status) {
		return apperr.Newf(apperr.InvalidState, "cannot change room status from %s to %s", room.Status, status)
	}

	return uc.roomRepo.UpdateStatus(ctx, roomID, status)
}

func (uc *roomUsecase) CloseRoom(ctx context.Context, actorID, roomID int64) error {
	return uc.SetStatus(ctx, actorID, roomID, models.RoomStatusClosed)
}

func (uc *roomUsecase) ListMembers(ctx context.Context, viewerID, roomID int64) ([]models.MemberWithUser, error) {
	if _, err := uc.memberRepo.Get(ctx, roomID, viewerID); err != nil {
		if apperr.IsKind(err, apperr.NotFound) {
			return nil, apperr.New(apperr.Forbidden, "not a member of this room")
		}
		return nil, err
	}

	return uc.memberRepo.ListByRoom(ctx, roomID)
}

func (uc *roomUsecase) Leave(ctx context.Context, userID, roomID int64) error {
	member, err := uc.memberRepo.Get(ctx, roomID, userID)
	if err != nil {
		return err
	}

	if member.Role == models.RoleOwner {
		return apperr.New(apperr.Forbidden, "transfer ownership or close the room first")
	}

	return uc.memberRepo.Remove(ctx, roomID, userID)
}

func (uc *roomUsecase) RemoveMember(ctx context.Context, actorID, roomID, targetID int64) error {
	if actorID == targetID {
		return apperr.New(apperr.InvalidArgument, "use leave to remove yourself")
	}

	// Removal is owner-only, stricter than ordinary moderation rights.
	actor, err := uc.memberRepo.Get(ctx, roomID, actorID)
	if apperr.IsKind(err, apperr.NotFound) {
		return apperr.New(apperr.Forbidden, "only the owner can remove members")
	}
	if err != nil {
		return err
	}
	if actor.Role != models.RoleOwner {
		return apperr.New(apperr.Forbidden, "only the owner can remove members")
	}

	if _, err := uc.memberRepo.Get(ctx, roomID, targetID); err != nil {
		return err
	}

	return uc.memberRepo.Remove(ctx, roomID, targetID)
}

func (uc *roomUsecase) TransferOwnership(ctx context.Context, actorID, roomID, targetID int64) error {
	if actorID == targetID {
		return apperr.New(apperr.InvalidArgument, "already the owner of this room")
	}

	return uc.memberRepo.TransferOwnership(ctx, roomID, actorID, targetID)
}

func (uc *roomUsecase) SetMuted(ctx context.Context, actorID, roomID, targetID int64, muted bool) error {
	actor, err := uc.requireRole(ctx, roomID, actorID, "only the owner or an admin can mute members")
	if err != nil {
		return err
	}

	target, err := uc.memberRepo.Get(ctx, roomID, targetID)
	if err != nil {
		return err
	}

	if target.Role == models.RoleOwner {
		return apperr.New(apperr.Forbidden, "cannot mute the room owner")
	}
	if target.Role == models.RoleAdmin && actor.Role != models.RoleOwner {
		return apperr.New(apperr.Forbidden, "only the owner can mute an admin")
	}

	return uc.memberRepo.SetMuted(ctx, roomID, targetID, muted)
}

func (uc *roomUsecase) MyRooms(ctx context.Context, userID int64) (created, joined []output.RoomSummary, err error) {
	createdRooms, err := uc.roomRepo.ListCreatedBy(ctx, userID)
	if err != nil {
		return nil, nil, err
	}

	joinedRooms, err := uc.roomRepo.ListJoined(ctx, userID)
	if err != nil {
		return nil, nil, err
	}

	ids := make([]int64, 0, len(createdRooms)+len(joinedRooms))
	for _, r := range createdRooms {
		ids = append(ids, r.ID)
	}
	for _, r := range joinedRooms {
		ids = append(ids, r.ID)
	}

	counts, err := uc.memberRepo.CountByRooms(ctx, ids)
	if err != nil {
		return nil, nil, err
	}

	return summarize(createdRooms, counts), summarize(joinedRooms, counts), nil
}

func (uc *roomUsecase) SearchRooms(ctx context.Context, viewerID int64, keyword, chatID string, page, pageSize int) ([]output.RoomSummary, int, error) {
	if chatID != "" {
		chatID = chatid.Normalize(chatID)
		if !chatid.Valid(chatID) {
			return nil, 0, apperr.New(apperr.InvalidArgument, "malformed chat id")
		}
	}

	if page < 1 {
		page = 1
	}
	if pageSize <= 0 || pageSize > maxPageSize {
		pageSize = 20
	}

	rooms, total, err := uc.roomRepo.Search(ctx, viewerID, strings.TrimSpace(keyword), chatID, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, 0, err
	}

	ids := make([]int64, 0, len(rooms))
	for _, r := range rooms {
		ids = append(ids, r.ID)
	}

	counts, err := uc.memberRepo.CountByRooms(ctx, ids)
	if err != nil {
		return nil, 0, err
	}

	return summarize(rooms, counts), total, nil
}

func (uc *roomUsecase) RequestJoin(ctx context.Context, userID, roomID int64, message *string) (*models.JoinRequest, error) {
	room, err := uc.roomRepo.GetActiveByID(ctx, roomID)
	if err != nil {
		return nil, err
	}

	if room.GroupID != nil {
		isMember, err := uc.groupRepo.IsMember(ctx, *room.GroupID, userID)
		if err != nil {
			return nil, err
		}
		if !isMember {
			return nil, apperr.New(apperr.Forbidden, "room is restricted to members of its study group")
		}
	}

	if _, err := uc.memberRepo.Get(ctx, roomID, userID); err == nil {
		return nil, apperr.New(apperr.Conflict, "already a member of this room")
	} else if !apperr.IsKind(err, apperr.NotFound) {
		return nil, err
	}

	pending, err := uc.joinRequestRepo.HasPending(ctx, roomID, userID)
	if err != nil {
		return nil, err
	}
	if pending {
		return nil, apperr.New(apperr.Conflict, "a pending join request already exists")
	}

	count, err := uc.memberRepo.Count(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if count >= room.MaxMembers {
		return nil, apperr.New(apperr.ResourceExhausted, "room is full")
	}

	req := &models.JoinRequest{
		RoomID:  roomID,
		UserID:  userID,
		Status:  models.JoinStatusPending,
		Message: message,
	}
	if err := uc.joinRequestRepo.Create(ctx, req); err != nil {
		return nil, fmt.Errorf("create join request: %w", err)
	}

	return req, nil
}

func (uc *roomUsecase) CancelJoinRequest(ctx context.Context, userID, roomID, requestID int64) error {
	req, err := uc.joinRequestRepo.GetByID(ctx, roomID, requestID)
	if err != nil {
		return err
	}

	if req.UserID != userID {
		return apperr.New(apperr.Forbidden, "can only cancel your own join request")
	}

	return uc.joinRequestRepo.Cancel(ctx, requestID)
}

func (uc *roomUsecase) ListJoinRequests(ctx context.Context, actorID, roomID int64, status *models.JoinStatus) ([]models.JoinRequestWithUser, error) {
	if _, err := uc.requireRole(ctx, roomID, actorID, "only the owner or an admin can list join requests"); err != nil {
		return nil, err
	}

	if status != nil && !status.Valid() {
		return nil, apperr.New(apperr.InvalidArgument, "unknown join request status")
	}

	return uc.joinRequestRepo.ListByRoom(ctx, roomID, status)
}

func (uc *roomUsecase) PendingApprovals(ctx context.Context, reviewerID int64) ([]models.PendingApproval, error) {
	return uc.joinRequestRepo.ListPendingForReviewer(ctx, reviewerID)
}

func (uc *roomUsecase) ReviewJoinRequest(ctx context.Context, reviewerID, roomID, requestID int64, approve bool, reviewMessage *string) error {
	if _, err := uc.roomRepo.GetActiveByID(ctx, roomID); err != nil {
		return err
	}

	if _, err := uc.requireRole(ctx, roomID, reviewerID, "only the owner or an admin can review join requests"); err != nil {
		return err
	}

	if approve {
		return uc.joinRequestRepo.Approve(ctx, roomID, requestID, reviewerID, reviewMessage)
	}

	return uc.joinRequestRepo.Reject(ctx, roomID, requestID, reviewerID, reviewMessage)
}

// requireRole loads the actor's membership and checks for a moderator role.
func (uc *roomUsecase) requireRole(ctx context.Context, roomID, userID int64, denied string) (*models.Member, error) {
	member, err := uc.memberRepo.Get(ctx, roomID, userID)
	if apperr.IsKind(err, apperr.NotFound) {
		return nil, apperr.New(apperr.Forbidden, denied)
	}
	if err != nil {
		return nil, err
	}

	if !member.Role.CanModerate() {
		return nil, apperr.New(apperr.Forbidden, denied)
	}

	return member, nil
}

func summarize(rooms []models.Room, counts map[int64]int) []output.RoomSummary {
	summaries := make([]output.RoomSummary, 0, len(rooms))
	for _, r := range rooms {
		summaries = append(summaries, output.RoomSummary{Room: r, CurrentMembers: counts[r.ID]})
	}

	return summaries
}
