package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Fanyuxuan0817/StudySync/internal/domain/chatid"
	"github.com/Fanyuxuan0817/StudySync/internal/domain/input"
	"github.com/Fanyuxuan0817/StudySync/internal/domain/models"
	"github.com/Fanyuxuan0817/StudySync/internal/infra/ports/http/dto"
	"github.com/Fanyuxuan0817/StudySync/internal/usecase"
)

type RoomHandler struct {
	roomUsecase usecase.RoomUsecase
}

func NewRoomHandler(roomUsecase usecase.RoomUsecase) *RoomHandler {
	return &RoomHandler{
		roomUsecase: roomUsecase,
	}
}

func (h *RoomHandler) Create(c echo.Context) error {
	userID, err := requestUserID(c)
	if err != nil {
		return respondError(c, err)
	}

	var req dto.CreateRoomRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	room, err := h.roomUsecase.CreateRoom(c.Request().Context(), userID, &input.CreateRoomInput{
		Name:        req.Name,
		Description: req.Description,
		AvatarURL:   req.AvatarURL,
		GroupID:     req.GroupID,
		MaxMembers:  req.MaxMembers,
		IsPublic:    req.IsPublic,
	})
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusCreated, dto.CreateRoomResponse{
		Room:          room,
		ChatIDDisplay: chatid.FormatForDisplay(room.ChatID),
	})
}

func (h *RoomHandler) Get(c echo.Context) error {
	userID, err := requestUserID(c)
	if err != nil {
		return respondError(c, err)
	}

	roomID, err := paramInt64(c, "room_id")
	if err != nil {
		return respondError(c, err)
	}

	detail, err := h.roomUsecase.GetRoom(c.Request().Context(), userID, roomID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, detail)
}

func (h *RoomHandler) GetByChatID(c echo.Context) error {
	userID, err := requestUserID(c)
	if err != nil {
		return respondError(c, err)
	}

	detail, err := h.roomUsecase.GetRoomByChatID(c.Request().Context(), userID, c.Param("chat_id"))
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, detail)
}

func (h *RoomHandler) Update(c echo.Context) error {
	userID, err := requestUserID(c)
	if err != nil {
		return respondError(c, err)
	}

	roomID, err := paramInt64(c, "room_id")
	if err != nil {
		return respondError(c, err)
	}

	var req dto.UpdateRoomRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	room, err := h.roomUsecase.UpdateRoom(c.Request().Context(), userID, roomID, &input.UpdateRoomInput{
		Name:        req.Name,
		Description: req.Description,
		AvatarURL:   req.AvatarURL,
		MaxMembers:  req.MaxMembers,
		IsPublic:    req.IsPublic,
	})
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, room)
}

func (h *RoomHandler) SetStatus(c echo.Context) error {
	userID, err := requestUserID(c)
	if err != nil {
		return respondError(c, err)
	}

	roomID, err := paramInt64(c, "room_id")
	if err != nil {
		return respondError(c, err)
	}

	var req dto.SetRoomStatusRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	if err := h.roomUsecase.SetStatus(c.Request().Context(), userID, roomID, req.Status); err != nil {
		return respondError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}

func (h *RoomHandler) Close(c echo.Context) error {
	userID, err := requestUserID(c)
	if err != nil {
		return respondError(c, err)
	}

	roomID, err := paramInt64(c, "room_id")
	if err != nil {
		return respondError(c, err)
	}

	if err := h.roomUsecase.CloseRoom(c.Request().Context(), userID, roomID); err != nil {
		return respondError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}

func (h *RoomHandler) ListMembers(c echo.Context) error {
	userID, err := requestUserID(c)
	if err != nil {
		return respondError(c, err)
	}

	roomID, err := paramInt64(c, "room_id")
	if err != nil {
		return respondError(c, err)
	}

	members, err := h.roomUsecase.ListMembers(c.Request().Context(), userID, roomID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, dto.NewMemberViews(members))
}

func (h *RoomHandler) Leave(c echo.Context) error {
	userID, err := requestUserID(c)
	if err != nil {
		return respondError(c, err)
	}

	roomID, err := paramInt64(c, "room_id")
	if err != nil {
		return respondError(c, err)
	}

	if err := h.roomUsecase.Leave(c.Request().Context(), userID, roomID); err != nil {
		return respondError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}

func (h *RoomHandler) RemoveMember(c echo.Context) error {
	userID, err := requestUserID(c)
	if err != nil {
		return respondError(c, err)
	}

	roomID, err := paramInt64(c, "room_id")
	if err != nil {
		return respondError(c, err)
	}

	targetID, err := paramInt64(c, "user_id")
	if err != nil {
		return respondError(c, err)
	}

	if err := h.roomUsecase.RemoveMember(c.Request().Context(), userID, roomID, targetID); err != nil {
		return respondError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}

func (h *RoomHandler) TransferOwnership(c echo.Context) error {
	userID, err := requestUserID(c)
	if err != nil {
		return respondError(c, err)
	}

	roomID, err := paramInt64(c, "room_id")
	if err != nil {
		return respondError(c, err)
	}

	var req dto.TransferOwnershipRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	if err := h.roomUsecase.TransferOwnership(c.Request().Context(), userID, roomID, req.NewOwnerID); err != nil {
		return respondError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}

func (h *RoomHandler) MuteMember(c echo.Context) error {
	userID, err := requestUserID(c)
	if err != nil {
		return respondError(c, err)
	}

	roomID, err := paramInt64(c, "room_id")
	if err != nil {
		return respondError(c, err)
	}

	targetID, err := paramInt64(c, "user_id")
	if err != nil {
		return respondError(c, err)
	}

	var req dto.MuteMemberRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	if err := h.roomUsecase.SetMuted(c.Request().Context(), userID, roomID, targetID, req.Muted); err != nil {
		return respondError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}

func (h *RoomHandler) MyRooms(c echo.Context) error {
	userID, err := requestUserID(c)
	if err != nil {
		return respondError(c, err)
	}

	created, joined, err := h.roomUsecase.MyRooms(c.Request().Context(), userID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, dto.MyRoomsResponse{Created: created, Joined: joined})
}

func (h *RoomHandler) Search(c echo.Context) error {
	userID, err := requestUserID(c)
	if err != nil {
		return respondError(c, err)
	}

	page := queryInt(c, "page", 1)
	pageSize := queryInt(c, "page_size", 20)

	rooms, total, err := h.roomUsecase.SearchRooms(
		c.Request().Context(),
		userID,
		c.QueryParam("keyword"),
		c.QueryParam("chat_id"),
		page,
		pageSize,
	)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, dto.SearchRoomsResponse{
		Rooms:    rooms,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	})
}

func (h *RoomHandler) RequestJoin(c echo.Context) error {
	userID, err := requestUserID(c)
	if err != nil {
		return respondError(c, err)
	}

	roomID, err := paramInt64(c, "room_id")
	if err != nil {
		return respondError(c, err)
	}

	var req dto.JoinRequestRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	joinReq, err := h.roomUsecase.RequestJoin(c.Request().Context(), userID, roomID, req.Message)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusCreated, joinReq)
}

func (h *RoomHandler) CancelJoinRequest(c echo.Context) error {
	userID, err := requestUserID(c)
	if err != nil {
		return respondError(c, err)
	}

	roomID, err := paramInt64(c, "room_id")
	if err != nil {
		return respondError(c, err)
	}

	requestID, err := paramInt64(c, "request_id")
	if err != nil {
		return respondError(c, err)
	}

	if err := h.roomUsecase.CancelJoinRequest(c.Request().Context(), userID, roomID, requestID); err != nil {
		return respondError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}

func (h *RoomHandler) ListJoinRequests(c echo.Context) error {
	userID, err := requestUserID(c)
	if err != nil {
		return respondError(c, err)
	}

	roomID, err := paramInt64(c, "room_id")
	if err != nil {
		return respondError(c, err)
	}

	var status *models.JoinStatus
	if raw := c.QueryParam("status"); raw != "" {
		s := models.JoinStatus(raw)
		status = &s
	}

	reqs, err := h.roomUsecase.ListJoinRequests(c.Request().Context(), userID, roomID, status)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, dto.NewJoinRequestViews(reqs))
}

func (h *RoomHandler) PendingApprovals(c echo.Context) error {
	userID, err := requestUserID(c)
	if err != nil {
		return respondError(c, err)
	}

	approvals, err := h.roomUsecase.PendingApprovals(c.Request().Context(), userID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, approvals)
}

func (h *RoomHandler) ReviewJoinRequest(c echo.Context) error {
	userID, err := requestUserID(c)
	if err != nil {
		return respondError(c, err)
	}

	roomID, err := paramInt64(c, "room_id")
	if err != nil {
		return respondError(c, err)
	}

	requestID, err := paramInt64(c, "request_id")
	if err != nil {
		return respondError(c, err)
	}

	var req dto.ReviewJoinRequestRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	if err := h.roomUsecase.ReviewJoinRequest(c.Request().Context(), userID, roomID, requestID, req.Approve, req.Message); err != nil {
		return respondError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}
