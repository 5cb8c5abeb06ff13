package routes

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"

	"github.com/polok-dev98/agentpro/internal/db"
	"github.com/polok-dev98/agentpro/internal/server/middleware"
	"github.com/polok-dev98/agentpro/internal/util"
	"github.com/polok-dev98/agentpro/pkg/logger"
)

func SignupHandler(c echo.Context) error {
	type signupParams struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	type signupResponse struct {
		Token string `json:"token"`
	}

	params := new(signupParams)
	if err := c.Bind(params); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "Invalid request params"})
	}

	params.Email = strings.TrimSpace(strings.ToLower(params.Email))
	if params.Email == "" || !strings.Contains(params.Email, "@") {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "A valid email is required"})
	}
	if len(params.Password) < 8 {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "Password must be at least 8 characters"})
	}

	ctx := c.Request().Context()
	app := c.(*middleware.AppContext).App
	q := db.New(app.DBConn)

	if _, err := q.GetUserByEmail(ctx, params.Email); err == nil {
		return c.JSON(http.StatusConflict, map[string]string{"message": "Email already registered"})
	} else if !errors.Is(err, db.ErrNotFound) {
		logger.Error("failed to check existing user", "err", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Internal server error"})
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(params.Password), bcrypt.DefaultCost)
	if err != nil {
		logger.Error("failed to hash password", "err", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Internal server error"})
	}

	id, err := util.NewID()
	if err != nil {
		logger.Error("failed to generate user id", "err", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Internal server error"})
	}

	user, err := q.CreateUser(ctx, db.CreateUserParams{
		ID:           id,
		Email:        params.Email,
		PasswordHash: string(hash),
	})
	if err != nil {
		logger.Error("failed to create user", "err", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Internal server error"})
	}

	token, err := middleware.IssueToken(app.JWTSecret, user.ID, user.Email)
	if err != nil {
		logger.Error("failed to issue token", "err", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Internal server error"})
	}

	return c.JSON(http.StatusCreated, signupResponse{Token: token})
}
