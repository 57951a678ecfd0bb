package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Fanyuxuan0817/StudySync/internal/infra/ports/http/dto"
	"github.com/Fanyuxuan0817/StudySync/internal/usecase"
)

type AuthHandler struct {
	userUsecase usecase.UserUsecase
}

func NewAuthHandler(userUsecase usecase.UserUsecase) *AuthHandler {
	return &AuthHandler{
		userUsecase: userUsecase,
	}
}

func (h *AuthHandler) Register(c echo.Context) error {
	var req dto.RegisterRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	user, token, err := h.userUsecase.Register(c.Request().Context(), req.Username, req.Password, req.AvatarURL)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusCreated, dto.AuthResponse{Token: token, User: user})
}

func (h *AuthHandler) Login(c echo.Context) error {
	var req dto.LoginRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	user, token, err := h.userUsecase.Login(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, dto.AuthResponse{Token: token, User: user})
}

func (h *AuthHandler) GetMe(c echo.Context) error {
	userID, err := requestUserID(c)
	if err != nil {
		return respondError(c, err)
	}

	user, err := h.userUsecase.GetUser(c.Request().Context(), userID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, user)
}
