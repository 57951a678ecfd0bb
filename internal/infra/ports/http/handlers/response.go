package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/Fanyuxuan0817/StudySync/internal/application/constant"
	"github.com/Fanyuxuan0817/StudySync/internal/domain/apperr"
	"github.com/Fanyuxuan0817/StudySync/internal/infra/appctx"
	"github.com/Fanyuxuan0817/StudySync/internal/infra/ports/http/dto"
)

func httpStatus(err error) int {
	switch apperr.KindOf(err) {
	case apperr.NotFound:
		return http.StatusNotFound
	case apperr.Forbidden:
		return http.StatusForbidden
	case apperr.Conflict:
		return http.StatusConflict
	case apperr.InvalidArgument, apperr.InvalidState, apperr.ResourceExhausted:
		return http.StatusBadRequest
	case apperr.Unauthenticated:
		return http.StatusUnauthorized
	case apperr.Unavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// respondError translates a usecase error into a JSON error response.
// Internal errors are logged and masked.
func respondError(c echo.Context, err error) error {
	status := httpStatus(err)

	if status == http.StatusInternalServerError {
		slog.Error(
			"request failed",
			slog.String("path", c.Path()),
			slog.Any(constant.Error, err),
		)

		return c.JSON(status, dto.ErrorResponse{Error: "internal server error", Code: apperr.Unknown.String()})
	}

	return c.JSON(status, dto.ErrorResponse{Error: err.Error(), Code: apperr.KindOf(err).String()})
}

func badRequest(c echo.Context, msg string) error {
	return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: msg, Code: apperr.InvalidArgument.String()})
}

// requestUserID reads the authenticated user id placed in the context by the
// JWT middleware.
func requestUserID(c echo.Context) (int64, error) {
	userID, ok := appctx.UserID(c.Request().Context())
	if !ok {
		return 0, apperr.New(apperr.Unauthenticated, "missing authentication")
	}

	return userID, nil
}

func paramInt64(c echo.Context, name string) (int64, error) {
	v, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil {
		return 0, apperr.Newf(apperr.InvalidArgument, "malformed %s", name)
	}

	return v, nil
}

func queryInt(c echo.Context, name string, fallback int) int {
	raw := c.QueryParam(name)
	if raw == "" {
		return fallback
	}

	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}

	return v
}

func queryInt64(c echo.Context, name string) int64 {
	v, err := strconv.ParseInt(c.QueryParam(name), 10, 64)
	if err != nil {
		return 0
	}

	return v
}
