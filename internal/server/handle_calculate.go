package server

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/worldpin/geodrop/internal/game"
)

// CalculateRequest carries the turn's question point and the player's guess.
type CalculateRequest struct {
	QuestionLat float64 `json:"questionLat"`
	QuestionLon float64 `json:"questionLon"`
	AnswerLat   float64 `json:"answerLat"`
	AnswerLon   float64 `json:"answerLon"`
}

// CalculateResponse is returned by PUT /api/calculate/{turnID}.
type CalculateResponse struct {
	TurnScore  int `json:"turnScore"`
	DistanceKm int `json:"distanceKm"`
}

func handleCalculate(svc *game.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		turnID, err := strconv.ParseInt(chi.URLParam(r, "turnID"), 10, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid turn id")
			return
		}

		var req CalculateRequest
		if err := readJSON(w, r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		res, err := svc.SubmitAnswer(r.Context(), turnID,
			req.QuestionLat, req.QuestionLon, req.AnswerLat, req.AnswerLon)
		if errors.Is(err, game.ErrNotFound) {
			writeError(w, http.StatusNotFound, "turn not found")
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		writeJSON(w, http.StatusOK, CalculateResponse{
			TurnScore:  res.Score,
			DistanceKm: res.DistanceKm,
		})
	}
}
