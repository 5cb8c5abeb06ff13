package routes

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/polok-dev98/agentpro/internal/db"
	"github.com/polok-dev98/agentpro/internal/server/middleware"
	"github.com/polok-dev98/agentpro/internal/util"
	"github.com/polok-dev98/agentpro/pkg/logger"
	"github.com/polok-dev98/agentpro/pkg/query"
)

// historyWindow is how many prior exchanges feed question condensing.
const historyWindow = 5

func ChatHandler(c echo.Context) error {
	type chatParams struct {
		Question  string `json:"question"`
		SessionID string `json:"session_id"`
	}

	type chatResponse struct {
		Answer    string   `json:"answer"`
		Question  string   `json:"question"`
		SessionID string   `json:"session_id"`
		Status    string   `json:"status"`
		Degraded  []string `json:"degraded,omitempty"`
	}

	params := new(chatParams)
	if err := c.Bind(params); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "Invalid request params"})
	}

	params.Question = strings.TrimSpace(params.Question)
	if params.Question == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "A question is required"})
	}

	user := c.(*middleware.AppContext).User
	if user == nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"message": "Unauthorized"})
	}

	ctx := c.Request().Context()
	app := c.(*middleware.AppContext).App
	q := db.New(app.DBConn)

	sessionID := strings.TrimSpace(params.SessionID)
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	turns, err := q.GetChatHistory(ctx, db.GetChatHistoryParams{
		UserID:    user.UserID,
		SessionID: sessionID,
		Limit:     historyWindow,
	})
	if err != nil {
		logger.Error("failed to load chat history", "err", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Internal server error"})
	}

	history := make([]query.ConversationTurn, 0, len(turns))
	for _, turn := range turns {
		history = append(history, query.ConversationTurn{
			Human: turn.Question,
			AI:    turn.Answer,
		})
	}

	answer, err := app.Engine.Answer(ctx, params.Question, history)
	if err != nil {
		logger.Error("failed to answer question", "err", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Failed to answer question"})
	}

	turnID, err := util.NewID()
	if err != nil {
		logger.Error("failed to generate turn id", "err", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Internal server error"})
	}
	err = q.CreateChatTurn(ctx, db.CreateChatTurnParams{
		ID:        turnID,
		UserID:    user.UserID,
		SessionID: sessionID,
		Question:  params.Question,
		Answer:    answer.Text,
	})
	if err != nil {
		// The answer is already produced; losing one history row should not
		// fail the request.
		logger.Warn("failed to persist chat turn", "session", sessionID, "err", err)
	}

	degraded := make([]string, 0, len(answer.Reasons))
	for _, reason := range answer.Reasons {
		degraded = append(degraded, string(reason))
	}

	return c.JSON(http.StatusOK, chatResponse{
		Answer:    answer.Text,
		Question:  answer.Question,
		SessionID: sessionID,
		Status:    string(answer.Status),
		Degraded:  degraded,
	})
}
