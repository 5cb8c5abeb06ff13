// Package db holds the relational queries for users and chat history.
package db

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound is returned when a lookup matches no row.
var ErrNotFound = errors.New("db: not found")

// Queries runs statements against the application database.
type Queries struct {
	conn *pgxpool.Pool
}

// New creates a Queries bound to the pool.
func New(conn *pgxpool.Pool) *Queries {
	return &Queries{conn: conn}
}

// User is one registered account.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

// CreateUserParams holds the fields for CreateUser.
type CreateUserParams struct {
	ID           string
	Email        string
	PasswordHash string
}

// CreateUser inserts a new account.
func (q *Queries) CreateUser(ctx context.Context, params CreateUserParams) (User, error) {
	row := q.conn.QueryRow(
		ctx,
		`INSERT INTO users (id, email, password_hash)
		 VALUES ($1, $2, $3)
		 RETURNING id, email, password_hash, created_at`,
		params.ID, params.Email, params.PasswordHash,
	)

	var u User
	if err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.CreatedAt); err != nil {
		return User{}, err
	}
	return u, nil
}

// GetUserByEmail looks an account up by its email address.
func (q *Queries) GetUserByEmail(ctx context.Context, email string) (User, error) {
	row := q.conn.QueryRow(
		ctx,
		`SELECT id, email, password_hash, created_at
		 FROM users
		 WHERE email = $1`,
		email,
	)

	var u User
	if err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return User{}, ErrNotFound
		}
		return User{}, err
	}
	return u, nil
}

// ChatTurn is one question/answer exchange within a session.
type ChatTurn struct {
	ID        string
	UserID    string
	SessionID string
	Question  string
	Answer    string
	CreatedAt time.Time
}

// CreateChatTurnParams holds the fields for CreateChatTurn.
type CreateChatTurnParams struct {
	ID        string
	UserID    string
	SessionID string
	Question  string
	Answer    string
}

// CreateChatTurn appends one exchange to a session's history.
func (q *Queries) CreateChatTurn(ctx context.Context, params CreateChatTurnParams) error {
	_, err := q.conn.Exec(
		ctx,
		`INSERT INTO chat_turns (id, user_id, session_id, question, answer)
		 VALUES ($1, $2, $3, $4, $5)`,
		params.ID, params.UserID, params.SessionID, params.Question, params.Answer,
	)
	return err
}

// GetChatHistoryParams holds the fields for GetChatHistory.
type GetChatHistoryParams struct {
	UserID    string
	SessionID string
	Limit     int
}

// GetChatHistory returns the most recent turns of a session in
// chronological order.
func (q *Queries) GetChatHistory(ctx context.Context, params GetChatHistoryParams) ([]ChatTurn, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = 10
	}

	rows, err := q.conn.Query(
		ctx,
		`SELECT id, user_id, session_id, question, answer, created_at
		 FROM (
		   SELECT id, user_id, session_id, question, answer, created_at
		   FROM chat_turns
		   WHERE user_id = $1 AND session_id = $2
		   ORDER BY created_at DESC
		   LIMIT $3
		 ) recent
		 ORDER BY created_at ASC`,
		params.UserID, params.SessionID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (ChatTurn, error) {
		var t ChatTurn
		err := row.Scan(&t.ID, &t.UserID, &t.SessionID, &t.Question, &t.Answer, &t.CreatedAt)
		return t, err
	})
}
