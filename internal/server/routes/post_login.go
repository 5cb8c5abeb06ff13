package routes

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"

	"github.com/polok-dev98/agentpro/internal/db"
	"github.com/polok-dev98/agentpro/internal/server/middleware"
	"github.com/polok-dev98/agentpro/pkg/logger"
)

func LoginHandler(c echo.Context) error {
	type loginParams struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	type loginResponse struct {
		Token string `json:"token"`
	}

	params := new(loginParams)
	if err := c.Bind(params); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "Invalid request params"})
	}
	params.Email = strings.TrimSpace(strings.ToLower(params.Email))

	ctx := c.Request().Context()
	app := c.(*middleware.AppContext).App
	q := db.New(app.DBConn)

	user, err := q.GetUserByEmail(ctx, params.Email)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return c.JSON(http.StatusUnauthorized, map[string]string{"message": "Invalid email or password"})
		}
		logger.Error("failed to look up user", "err", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Internal server error"})
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(params.Password)); err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"message": "Invalid email or password"})
	}

	token, err := middleware.IssueToken(app.JWTSecret, user.ID, user.Email)
	if err != nil {
		logger.Error("failed to issue token", "err", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Internal server error"})
	}

	return c.JSON(http.StatusOK, loginResponse{Token: token})
}
