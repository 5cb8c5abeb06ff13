package server

import (
	"github.com/labstack/echo/v4"

	"github.com/polok-dev98/agentpro/internal/server/middleware"
	"github.com/polok-dev98/agentpro/internal/server/routes"
)

func RegisterRoutes(e *echo.Echo) {
	// Health check route
	e.GET("/health", func(c echo.Context) error {
		return c.String(200, "OK")
	})

	// Auth routes
	e.POST("/api/signup", routes.SignupHandler)
	e.POST("/api/login", routes.LoginHandler)

	apiRoutes := e.Group("/api", middleware.AuthMiddleware)

	// Chat routes
	apiRoutes.POST("/chat", routes.ChatHandler)
	apiRoutes.GET("/chats/:session_id", routes.GetChatHistoryHandler)

	// Ingestion routes
	apiRoutes.POST("/process", routes.ProcessHandler)
}
