package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Fanyuxuan0817/StudySync/internal/infra/ports/http/dto"
	"github.com/Fanyuxuan0817/StudySync/internal/usecase"
)

type MessageHandler struct {
	messageUsecase usecase.MessageUsecase
}

func NewMessageHandler(messageUsecase usecase.MessageUsecase) *MessageHandler {
	return &MessageHandler{
		messageUsecase: messageUsecase,
	}
}

// Send is the HTTP fallback for clients without a live websocket. The message
// is persisted but only reaches connected members on their next history load.
func (h *MessageHandler) Send(c echo.Context) error {
	userID, err := requestUserID(c)
	if err != nil {
		return respondError(c, err)
	}

	roomID, err := paramInt64(c, "room_id")
	if err != nil {
		return respondError(c, err)
	}

	var req dto.SendMessageRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	msg, err := h.messageUsecase.Append(c.Request().Context(), roomID, userID, req.Content, req.Type)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusCreated, msg)
}

func (h *MessageHandler) Page(c echo.Context) error {
	userID, err := requestUserID(c)
	if err != nil {
		return respondError(c, err)
	}

	roomID, err := paramInt64(c, "room_id")
	if err != nil {
		return respondError(c, err)
	}

	messages, hasMore, err := h.messageUsecase.Page(
		c.Request().Context(),
		roomID,
		userID,
		queryInt64(c, "before_id"),
		queryInt(c, "limit", 0),
	)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, dto.MessagesPageResponse{
		Messages: dto.NewMessageViews(messages, userID),
		HasMore:  hasMore,
	})
}

func (h *MessageHandler) Delete(c echo.Context) error {
	userID, err := requestUserID(c)
	if err != nil {
		return respondError(c, err)
	}

	roomID, err := paramInt64(c, "room_id")
	if err != nil {
		return respondError(c, err)
	}

	messageID, err := paramInt64(c, "message_id")
	if err != nil {
		return respondError(c, err)
	}

	if err := h.messageUsecase.Delete(c.Request().Context(), roomID, messageID, userID); err != nil {
		return respondError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}

func (h *MessageHandler) Search(c echo.Context) error {
	userID, err := requestUserID(c)
	if err != nil {
		return respondError(c, err)
	}

	roomID, err := paramInt64(c, "room_id")
	if err != nil {
		return respondError(c, err)
	}

	messages, err := h.messageUsecase.Search(
		c.Request().Context(),
		roomID,
		userID,
		c.QueryParam("keyword"),
		queryInt(c, "limit", 0),
	)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, dto.NewMessageViews(messages, userID))
}

func (h *MessageHandler) Stats(c echo.Context) error {
	userID, err := requestUserID(c)
	if err != nil {
		return respondError(c, err)
	}

	roomID, err := paramInt64(c, "room_id")
	if err != nil {
		return respondError(c, err)
	}

	days := queryInt(c, "days", 7)

	daily, authors, err := h.messageUsecase.DailyStats(c.Request().Context(), roomID, userID, days)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, dto.MessageStatsResponse{
		Days:       days,
		Daily:      daily,
		TopAuthors: authors,
	})
}
