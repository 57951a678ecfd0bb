package handlers

import (
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"github.com/Fanyuxuan0817/StudySync/internal/application/config"
	"github.com/Fanyuxuan0817/StudySync/internal/application/constant"
	"github.com/Fanyuxuan0817/StudySync/internal/usecase"
)

const (
	pongWait     = 60 * time.Second
	pingInterval = 30 * time.Second
	writeWait    = 10 * time.Second
)

type WebSocketHandler struct {
	upgrader *websocket.Upgrader

	sessionUsecase usecase.SessionUsecase
}

func NewWebSocketHandler(cfg *config.Config, sessionUsecase usecase.SessionUsecase) *WebSocketHandler {
	return &WebSocketHandler{
		upgrader: &websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				if cfg.Debug {
					return true
				}

				return r.Header.Get("Origin") == cfg.Domain
			},
		},
		sessionUsecase: sessionUsecase,
	}
}

func (h *WebSocketHandler) Handle(c echo.Context) error {
	roomID, err := paramInt64(c, "room_id")
	if err != nil {
		return respondError(c, err)
	}

	token := bearerToken(c)

	ws, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		slog.Error("websocket upgrade", slog.Any(constant.Error, err))
		return err
	}

	conn := newWSConn(ws)
	defer conn.Close()

	_ = ws.SetReadDeadline(time.Now().Add(pongWait))
	ws.SetPongHandler(func(string) error {
		return ws.SetReadDeadline(time.Now().Add(pongWait))
	})

	done := make(chan struct{})
	defer close(done)

	go func() {
		ticker := time.NewTicker(pingInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				if err := conn.ping(); err != nil {
					return
				}
			case <-done:
				return
			case <-c.Request().Context().Done():
				return
			}
		}
	}()

	// Run owns the session from here; admission failures are reported to the
	// client with a policy close, not an HTTP status.
	if err := h.sessionUsecase.Run(c.Request().Context(), roomID, token, conn); err != nil {
		slog.Info(
			"websocket session refused",
			slog.Int64(constant.RoomID, roomID),
			slog.Any(constant.Error, err),
		)
	}

	return nil
}

// bearerToken pulls the auth token from the query string, the Authorization
// header or the jwt cookie, in that order. Browsers cannot set headers on
// websocket dials, hence the query parameter.
func bearerToken(c echo.Context) string {
	if token := c.QueryParam("token"); token != "" {
		return token
	}

	if header := c.Request().Header.Get("Authorization"); strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}

	if cookie, err := c.Cookie("jwt"); err == nil {
		return cookie.Value
	}

	return ""
}

// wsConn adapts a gorilla connection to realtime.Conn. All writes, pings and
// control frames share one mutex because gorilla allows a single writer.
type wsConn struct {
	ws *websocket.Conn
	mu sync.Mutex
}

func newWSConn(ws *websocket.Conn) *wsConn {
	return &wsConn{ws: ws}
}

func (c *wsConn) ReadMessage() ([]byte, error) {
	_, data, err := c.ws.ReadMessage()
	return data, err
}

func (c *wsConn) WriteJSON(v any) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))

	return c.ws.WriteJSON(v)
}

func (c *wsConn) ping() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.ws.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait))
}

func (c *wsConn) ClosePolicy(reason string) error {
	c.mu.Lock()
	_ = c.ws.WriteControl(
		websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.ClosePolicyViolation, reason),
		time.Now().Add(writeWait),
	)
	c.mu.Unlock()

	return c.ws.Close()
}

func (c *wsConn) Close() error {
	return c.ws.Close()
}
