package server

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/worldpin/geodrop/internal/game"
)

// LeaderboardEntry is one row of GET /api/users/scores.
type LeaderboardEntry struct {
	UserID        int64  `json:"userId"`
	Username      string `json:"username"`
	BestGameScore int    `json:"bestGameScore"`
}

// UserScoreResponse is returned by GET /api/users/{userID}/scores.
type UserScoreResponse struct {
	UserID int64 `json:"userId"`
	Score  int   `json:"score"`
}

// PublicUser is the user shape exposed by GET /api/users/id/{userID}. The
// password hash never leaves the store layer.
type PublicUser struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

func handleLeaderboard(svc *game.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		entries, err := svc.Leaderboard(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		rows := make([]LeaderboardEntry, 0, len(entries))
		for _, e := range entries {
			rows = append(rows, LeaderboardEntry{
				UserID:        e.UserID,
				Username:      e.Username,
				BestGameScore: e.BestScore,
			})
		}
		writeJSON(w, http.StatusOK, rows)
	}
}

func handleUserScore(svc *game.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := strconv.ParseInt(chi.URLParam(r, "userID"), 10, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid user id")
			return
		}

		total, err := svc.TotalScoreForUser(r.Context(), userID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		writeJSON(w, http.StatusOK, UserScoreResponse{UserID: userID, Score: total})
	}
}

func handleUserByID(store game.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := strconv.ParseInt(chi.URLParam(r, "userID"), 10, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid user id")
			return
		}

		user, err := store.UserByID(r.Context(), userID)
		if errors.Is(err, game.ErrNotFound) {
			writeError(w, http.StatusNotFound, "user not found")
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		writeJSON(w, http.StatusOK, PublicUser{
			ID:        user.ID,
			Username:  user.Username,
			Email:     user.Email,
			CreatedAt: user.CreatedAt,
		})
	}
}
