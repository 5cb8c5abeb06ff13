package routes

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/polok-dev98/agentpro/internal/db"
	"github.com/polok-dev98/agentpro/internal/server/middleware"
	"github.com/polok-dev98/agentpro/pkg/logger"
)

func GetChatHistoryHandler(c echo.Context) error {
	type chatTurn struct {
		Question  string `json:"question"`
		Answer    string `json:"answer"`
		CreatedAt string `json:"created_at"`
	}

	sessionID := strings.TrimSpace(c.Param("session_id"))
	if sessionID == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "session_id is required"})
	}

	user := c.(*middleware.AppContext).User
	if user == nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"message": "Unauthorized"})
	}

	ctx := c.Request().Context()
	app := c.(*middleware.AppContext).App
	q := db.New(app.DBConn)

	turns, err := q.GetChatHistory(ctx, db.GetChatHistoryParams{
		UserID:    user.UserID,
		SessionID: sessionID,
		Limit:     100,
	})
	if err != nil {
		logger.Error("failed to load chat history", "err", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Internal server error"})
	}

	resp := make([]chatTurn, 0, len(turns))
	for _, turn := range turns {
		resp = append(resp, chatTurn{
			Question:  turn.Question,
			Answer:    turn.Answer,
			CreatedAt: turn.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		})
	}

	return c.JSON(http.StatusOK, resp)
}
