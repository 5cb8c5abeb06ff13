package middleware

import (
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"github.com/rabbitmq/amqp091-go"

	"github.com/polok-dev98/agentpro/pkg/query"
)

// AppUser is the authenticated caller, populated by AuthMiddleware.
type AppUser struct {
	UserID string
	Email  string
}

// App holds the shared handler dependencies.
type App struct {
	DBConn    *pgxpool.Pool
	Queue     *amqp091.Channel
	S3        *s3.Client
	Engine    *query.Engine
	JWTSecret []byte
}

// AppContext wraps the echo context with application state.
type AppContext struct {
	echo.Context
	App  *App
	User *AppUser
}

// AppContextMiddleware attaches the shared App to every request.
func AppContextMiddleware(app *App) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cc := &AppContext{c, app, nil}
			return next(cc)
		}
	}
}
