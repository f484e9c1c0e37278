package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/mail"
	"strings"

	"lawvriksh-blog/backend/internal/model"
	"lawvriksh-blog/backend/internal/store"
)

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	Password string `json:"password"`
}

type loginRequest struct {
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
}

type loginResponse struct {
	Message     string     `json:"message"`
	User        model.User `json:"user"`
	AccessToken string     `json:"access_token"`
	TokenType   string     `json:"token_type"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid JSON")
		return
	}

	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)
	req.FullName = strings.TrimSpace(req.FullName)

	if req.Username == "" {
		writeError(w, http.StatusBadRequest, "invalid_username", "username is required")
		return
	}
	if _, err := mail.ParseAddress(req.Email); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_email", "a valid email is required")
		return
	}
	// Validation happens before any hashing work.
	if len(req.Password) < 6 {
		writeError(w, http.StatusBadRequest, "invalid_password", "password must be at least 6 characters")
		return
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal", "failed to hash password")
		return
	}

	created, err := s.store.CreateUser(r.Context(), store.CreateUserRequest{
		Username:     req.Username,
		Email:        req.Email,
		FullName:     req.FullName,
		PasswordHash: hash,
	})
	if err != nil {
		switch {
		case errors.Is(err, store.ErrUsernameTaken):
			writeError(w, http.StatusBadRequest, "username_taken", "username already taken")
		case errors.Is(err, store.ErrEmailTaken):
			writeError(w, http.StatusBadRequest, "email_taken", "email already registered")
		default:
			writeError(w, http.StatusInternalServerError, "internal", "failed to create user")
		}
		return
	}

	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid JSON")
		return
	}

	req.Identifier = strings.TrimSpace(req.Identifier)
	if req.Identifier == "" {
		writeError(w, http.StatusBadRequest, "bad_request", "identifier is required")
		return
	}

	user, err := s.store.GetUserByUsername(r.Context(), req.Identifier)
	if err != nil {
		user, err = s.store.GetUserByEmail(r.Context(), req.Identifier)
	}
	// One message for every mismatch; never say which field was wrong.
	if err != nil || !s.hasher.Verify(req.Password, user.PasswordHash) {
		w.Header().Set("WWW-Authenticate", "Bearer")
		writeError(w, http.StatusUnauthorized, "unauthorized", "invalid username or password")
		return
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal", "failed to generate token")
		return
	}

	writeJSON(w, http.StatusOK, loginResponse{
		Message:     "User logged in successfully",
		User:        *user,
		AccessToken: token,
		TokenType:   "bearer",
	})
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	user, ok := s.requireUser(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, user)
}
