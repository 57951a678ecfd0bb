package server

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Fanyuxuan0817/StudySync/internal/application/config"
	"github.com/Fanyuxuan0817/StudySync/internal/infra/ports/http/handlers"
	"github.com/Fanyuxuan0817/StudySync/internal/infra/ports/http/middleware"
)

func New(
	cfg *config.Config,
	authHandler *handlers.AuthHandler,
	roomHandler *handlers.RoomHandler,
	messageHandler *handlers.MessageHandler,
	wsHandler *handlers.WebSocketHandler,
) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	e.Use(middleware.SlogLogger())
	e.Use(middleware.PrometheusMiddleware())

	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	api := e.Group("/api")
	{
		authGroup := api.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
		}

		v1 := api.Group("/v1")
		v1.Use(middleware.JWTAuthMiddleware(cfg.JWTSecret))
		{
			v1.GET("/me", authHandler.GetMe)

			v1.GET("/ws/:room_id", wsHandler.Handle)

			v1.POST("/rooms", roomHandler.Create)
			v1.GET("/rooms/my", roomHandler.MyRooms)
			v1.GET("/rooms/search", roomHandler.Search)
			v1.GET("/rooms/by-chat-id/:chat_id", roomHandler.GetByChatID)
			v1.GET("/rooms/:room_id", roomHandler.Get)
			v1.PATCH("/rooms/:room_id", roomHandler.Update)
			v1.PUT("/rooms/:room_id/status", roomHandler.SetStatus)
			v1.DELETE("/rooms/:room_id", roomHandler.Close)

			v1.GET("/rooms/:room_id/members", roomHandler.ListMembers)
			v1.POST("/rooms/:room_id/leave", roomHandler.Leave)
			v1.DELETE("/rooms/:room_id/members/:user_id", roomHandler.RemoveMember)
			v1.PUT("/rooms/:room_id/members/:user_id/mute", roomHandler.MuteMember)
			v1.POST("/rooms/:room_id/transfer-ownership", roomHandler.TransferOwnership)

			v1.POST("/rooms/:room_id/join-requests", roomHandler.RequestJoin)
			v1.GET("/rooms/:room_id/join-requests", roomHandler.ListJoinRequests)
			v1.DELETE("/rooms/:room_id/join-requests/:request_id", roomHandler.CancelJoinRequest)
			v1.POST("/rooms/:room_id/join-requests/:request_id/review", roomHandler.ReviewJoinRequest)
			v1.GET("/join-requests/pending", roomHandler.PendingApprovals)

			v1.GET("/rooms/:room_id/messages", messageHandler.Page)
			v1.POST("/rooms/:room_id/messages", messageHandler.Send)
			v1.DELETE("/rooms/:room_id/messages/:message_id", messageHandler.Delete)
			v1.GET("/rooms/:room_id/messages/search", messageHandler.Search)
			v1.GET("/rooms/:room_id/messages/stats", messageHandler.Stats)
		}
	}

	return e
}
