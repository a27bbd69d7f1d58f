package server

import (
	"errors"
	"net/http"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/worldpin/geodrop/internal/game"
)

// RegisterRequest is the request body for POST /api/register.
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UserInfo is the public identity returned after register/login.
type UserInfo struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

// AuthResponse is returned by register and login.
type AuthResponse struct {
	Authenticated bool     `json:"authenticated"`
	Token         string   `json:"token"`
	LoggedInUser  UserInfo `json:"loggedInUser"`
}

func handleRegister(store game.Store, tokens *Tokens) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req RegisterRequest
		if err := readJSON(w, r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		req.Username = strings.TrimSpace(req.Username)
		req.Email = strings.TrimSpace(strings.ToLower(req.Email))
		if req.Username == "" || req.Email == "" || req.Password == "" {
			writeError(w, http.StatusBadRequest, "username, email and password are required")
			return
		}

		// Check duplicates before inserting so the caller gets a precise
		// message instead of a raw uniqueness violation.
		if _, err := store.UserByEmail(r.Context(), req.Email); err == nil {
			writeError(w, http.StatusBadRequest, "Email exists")
			return
		} else if !errors.Is(err, game.ErrNotFound) {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		if _, err := store.UserByUsername(r.Context(), req.Username); err == nil {
			writeError(w, http.StatusBadRequest, "Username exists")
			return
		} else if !errors.Is(err, game.ErrNotFound) {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		user, err := store.CreateUser(r.Context(), req.Username, req.Email, string(hash))
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
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
