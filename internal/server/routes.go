package server

import (
	"database/sql"
	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/swaggest/swgui/v5emb"

	"github.com/worldpin/geodrop/internal/game"
)

func addRoutes(r chi.Router, logger *slog.Logger, svc *game.Service, store game.Store, tokens *Tokens, db *sql.DB) {
	r.Get("/openapi.json", handleOpenAPI())
	r.Mount("/docs", v5emb.New("GeoDrop API", "/openapi.json", "/docs"))
	r.Get("/healthz", handleHealth(logger, db))

	r.Route("/api", func(r chi.Router) {
		r.Post("/register", handleRegister(store, tokens))
		r.Post("/login", handleLogin(store, tokens))
		r.Get("/games/{userID}", handleListGames(svc))
		r.Get("/users/id/{userID}", handleUserByID(store))
		r.Get("/users/{userID}/scores", handleUserScore(svc))

		// Protected operations — token required.
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware(tokens))
			r.Post("/authenticate", handleAuthenticate())
			r.Post("/logout", handleLogout())
			r.Post("/games", handleCreateGame(svc))
			r.Put("/calculate/{turnID}", handleCalculate(svc))
			r.Get("/users/scores", handleLeaderboard(svc))
		})
	})
}
