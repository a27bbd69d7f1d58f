// Package geodrop defines the core domain types.
// It has zero external dependencies — everything here is pure Go.
package geodrop

import "time"

type User struct {
	ID           int64
	Username     string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

// Question is a geographic target the player has to locate. The pool is
// static reference data seeded by a migration.
type Question struct {
	ID        int64
	Latitude  float64
	Longitude float64
}

type Game struct {
	ID        int64
	UserID    int64
	StartTime time.Time
}

// Turn is one round of a game. Score stays nil until the player submits an
// answer for it.
type Turn struct {
	ID         int64
	UserID     int64
	GameID     int64
	QuestionID int64
	TurnNumber int
	Score      *int
}

// TurnsPerGame is fixed by design: every game owns exactly three turns.
const TurnsPerGame = 3

// LeaderboardEntry is one user's best total score over a single game.
type LeaderboardEntry struct {
	UserID    int64
	Username  string
	BestScore int
}
