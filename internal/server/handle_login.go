package server

import (
	"errors"
	"net/http"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/worldpin/geodrop/internal/game"
)

// LoginRequest is the request body for POST /api/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthenticateResponse is returned by POST /api/authenticate.
type AuthenticateResponse struct {
	Authenticated bool     `json:"authenticated"`
	User          UserInfo `json:"user"`
}

func handleLogin(store game.Store, tokens *Tokens) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req LoginRequest
		if err := readJSON(w, r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		req.Email = strings.TrimSpace(strings.ToLower(req.Email))
		if req.Email == "" || req.Password == "" {
			writeError(w, http.StatusBadRequest, "email and password are required")
			return
		}

		user, err := store.UserByEmail(r.Context(), req.Email)
		if errors.Is(err, game.ErrNotFound) {
			writeError(w, http.StatusBadRequest, "Incorrect email or password!")
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
			writeError(w, http.StatusBadRequest, "Incorrect email or password!")
			return
		}

		token, err := tokens.Issue(user)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		setSessionCookie(w, token, tokens.ttl)

		writeJSON(w, http.StatusOK, AuthResponse{
			Authenticated: true,
			Token:         token,
			LoggedInUser:  UserInfo{ID: user.ID, Username: user.Username},
		})
	}
}

func handleAuthenticate() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims := claimsFrom(r)
		writeJSON(w, http.StatusOK, AuthenticateResponse{
			Authenticated: true,
			User:          UserInfo{ID: claims.UserID, Username: claims.Username},
		})
	}
}

func handleLogout() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		clearSessionCookie(w)
		writeJSON(w, http.StatusOK, map[string]bool{"auth": false})
	}
}
