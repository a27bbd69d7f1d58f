package server

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/worldpin/geodrop/internal/game"
)

// TurnItem is one turn inside a newly created game. Score is null until the
// player answers.
type TurnItem struct {
	ID         int64   `json:"id"`
	TurnNumber int     `json:"turnNumber"`
	QuestionID int64   `json:"questionID"`
	Latitude   float64 `json:"latitude"`
	Longitude  float64 `json:"longitude"`
	Score      *int    `json:"score"`
}

// NewGameResponse is returned by POST /api/games.
type NewGameResponse struct {
	GameID      int64      `json:"gameID"`
	Turns       []TurnItem `json:"turns"`
	CurrentTurn int        `json:"currentTurn"`
	TotalScore  int        `json:"totalScore"`
}

// GameItem is one game in GET /api/games/{userID}.
type GameItem struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"userId"`
	StartTime time.Time `json:"startTime"`
}

func handleCreateGame(svc *game.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims := claimsFrom(r)

		ng, err := svc.StartGame(r.Context(), claims.UserID)
		if errors.Is(err, game.ErrInsufficientQuestions) {
			writeError(w, http.StatusConflict, "not enough questions to start a game")
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		resp := NewGameResponse{
			GameID:      ng.Game.ID,
			Turns:       make([]TurnItem, 0, len(ng.Turns)),
			CurrentTurn: 1,
			TotalScore:  0,
		}
		for i, t := range ng.Turns {
			resp.Turns = append(resp.Turns, TurnItem{
				ID:         t.ID,
				TurnNumber: t.TurnNumber,
				QuestionID: t.QuestionID,
				Latitude:   ng.Questions[i].Latitude,
				Longitude:  ng.Questions[i].Longitude,
				Score:      t.Score,
			})
		}

		writeJSON(w, http.StatusOK, resp)
	}
}

func handleListGames(svc *game.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := strconv.ParseInt(chi.URLParam(r, "userID"), 10, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid user id")
			return
		}

		games, err := svc.GamesForUser(r.Context(), userID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		items := make([]GameItem, 0, len(games))
		for _, g := range games {
			items = append(items, GameItem{ID: g.ID, UserID: g.UserID, StartTime: g.StartTime})
		}
		writeJSON(w, http.StatusOK, items)
	}
}
