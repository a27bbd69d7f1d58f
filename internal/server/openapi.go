package server

import (
	"encoding/json"
	"net/http"

	openapi "github.com/swaggest/openapi-go"
	"github.com/swaggest/openapi-go/openapi3"
)

// ErrorResponse is returned for all error responses.
type ErrorResponse struct {
	Error string `json:"error"`
}

// HealthResponse documents the /healthz body shape.
type HealthResponse map[string]struct {
	Status string `json:"status"`
}

func newOpenAPISpec() *openapi3.Spec {
	r := openapi3.NewReflector()
	r.Spec.Info.Title = "GeoDrop API"
	r.Spec.Info.Version = "0.1.0"
	r.Spec.Info.WithDescription("Backend API for the GeoDrop location-guessing game.")

	// GET /healthz
	getHealthz, _ := r.NewOperationContext(http.MethodGet, "/healthz")
	getHealthz.SetSummary("Health check")
	getHealthz.SetDescription("Returns the health status of backend dependencies.")
	getHealthz.AddRespStructure(HealthResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	getHealthz.AddRespStructure(HealthResponse{}, openapi.WithHTTPStatus(http.StatusServiceUnavailable))
	_ = r.AddOperation(getHealthz)

	// POST /api/register
	postRegister, _ := r.NewOperationContext(http.MethodPost, "/api/register")
	postRegister.SetSummary("Register")
	postRegister.SetDescription("Creates a user account. Returns a token and sets the session cookie.")
	postRegister.AddReqStructure(RegisterRequest{})
	postRegister.AddRespStructure(AuthResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	postRegister.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	_ = r.AddOperation(postRegister)

	// POST /api/login
	postLogin, _ := r.NewOperationContext(http.MethodPost, "/api/login")
	postLogin.SetSummary("Login")
	postLogin.SetDescription("Authenticate with email and password. Returns a token and sets the session cookie.")
	postLogin.AddReqStructure(LoginRequest{})
	postLogin.AddRespStructure(AuthResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	postLogin.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	_ = r.AddOperation(postLogin)

	// POST /api/authenticate
	postAuth, _ := r.NewOperationContext(http.MethodPost, "/api/authenticate")
	postAuth.SetSummary("Validate session")
	postAuth.SetDescription("Returns the identity behind the presented token.")
	postAuth.AddRespStructure(AuthenticateResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	postAuth.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	_ = r.AddOperation(postAuth)

	// POST /api/logout
	postLogout, _ := r.NewOperationContext(http.MethodPost, "/api/logout")
	postLogout.SetSummary("Logout")
	postLogout.SetDescription("Clears the session cookie.")
	postLogout.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusOK))
	_ = r.AddOperation(postLogout)

	// GET /api/games/{userID}
	getGames, _ := r.NewOperationContext(http.MethodGet, "/api/games/{userID}")
	getGames.SetSummary("List games")
	getGames.SetDescription("Returns all games started by a user.")
	getGames.AddRespStructure([]GameItem{}, openapi.WithHTTPStatus(http.StatusOK))
	_ = r.AddOperation(getGames)

	// POST /api/games
	postGames, _ := r.NewOperationContext(http.MethodPost, "/api/games")
	postGames.SetSummary("Start game")
	postGames.SetDescription("Creates a game with three randomly chosen question turns. Requires a token.")
	postGames.AddRespStructure(NewGameResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	postGames.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	postGames.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusConflict))
	_ = r.AddOperation(postGames)

	// PUT /api/calculate/{turnID}
	putCalculate, _ := r.NewOperationContext(http.MethodPut, "/api/calculate/{turnID}")
	putCalculate.SetSummary("Submit answer")
	putCalculate.SetDescription("Scores a guessed coordinate against the turn's question point. Requires a token.")
	putCalculate.AddReqStructure(CalculateRequest{})
	putCalculate.AddRespStructure(CalculateResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	putCalculate.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(putCalculate)

	// GET /api/users/scores
	getLeaderboard, _ := r.NewOperationContext(http.MethodGet, "/api/users/scores")
	getLeaderboard.SetSummary("Leaderboard")
	getLeaderboard.SetDescription("Best per-game score for every user with a positive-scoring game. Requires a token.")
	getLeaderboard.AddRespStructure([]LeaderboardEntry{}, openapi.WithHTTPStatus(http.StatusOK))
	_ = r.AddOperation(getLeaderboard)

	// GET /api/users/{userID}/scores
	getUserScore, _ := r.NewOperationContext(http.MethodGet, "/api/users/{userID}/scores")
	getUserScore.SetSummary("User total score")
	getUserScore.SetDescription("Sum of all turn scores for a user across all games.")
	getUserScore.AddRespStructure(UserScoreResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	_ = r.AddOperation(getUserScore)

	// GET /api/users/id/{userID}
	getUser, _ := r.NewOperationContext(http.MethodGet, "/api/users/id/{userID}")
	getUser.SetSummary("Look up user")
	getUser.SetDescription("Public user record by id.")
	getUser.AddRespStructure(PublicUser{}, openapi.WithHTTPStatus(http.StatusOK))
	getUser.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(getUser)

	return r.Spec
}

func handleOpenAPI() http.HandlerFunc {
	spec := newOpenAPISpec()
	data, _ := json.MarshalIndent(spec, "", "  ")

	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
	}
}
