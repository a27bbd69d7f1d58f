// Package game implements the game lifecycle: question sampling, game and
// turn creation, turn scoring, and the leaderboard.
package game

import (
	"context"
	"errors"

	"github.com/worldpin/geodrop/internal/geodrop"
)

var (
	ErrNotFound = errors.New("not found")

	// ErrInsufficientQuestions means the question pool is smaller than the
	// number of turns a game needs.
	ErrInsufficientQuestions = errors.New("not enough questions in the pool")
)

// gameTotal is one (user, game) group's summed turn score, as produced by the
// leaderboard query. Only groups with a positive sum are included.
type gameTotal struct {
	UserID   int64
	Username string
	Total    int
}

type Store interface {
	UserByEmail(ctx context.Context, email string) (geodrop.User, error)
	UserByUsername(ctx context.Context, username string) (geodrop.User, error)
	UserByID(ctx context.Context, id int64) (geodrop.User, error)
	CreateUser(ctx context.Context, username, email, passwordHash string) (geodrop.User, error)

	Questions(ctx context.Context) ([]geodrop.Question, error)

	// CreateGame inserts one game row and one turn row per question, scores
	// unset, in a single transaction. Turn numbers follow question order.
	CreateGame(ctx context.Context, userID int64, questions []geodrop.Question) (geodrop.Game, []geodrop.Turn, error)
	GamesByUser(ctx context.Context, userID int64) ([]geodrop.Game, error)
	UpdateTurnScore(ctx context.Context, turnID int64, score int) error
	TotalScore(ctx context.Context, userID int64) (int, error)

	// GameTotals returns summed turn scores grouped by (user, game), keeping
	// only groups that sum above zero.
	GameTotals(ctx context.Context) ([]gameTotal, error)
}
