package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"gitlab.com/spendwatch/spendwatch/internal/auth"
	"gitlab.com/spendwatch/spendwatch/internal/logger"
	"gitlab.com/spendwatch/spendwatch/internal/models"
	"gitlab.com/spendwatch/spendwatch/internal/repository"
)

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// handleRegister creates a new account and returns a signed token.
func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, codeValidation, "invalid JSON body")
		return
	}

	fields := map[string]string{}
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Name == "" {
		fields["name"] = "name is required"
	}
	if req.Email == "" || !strings.Contains(req.Email, "@") {
		fields["email"] = "a valid email is required"
	}
	if len(req.Password) < 8 {
		fields["password"] = "password must be at least 8 characters"
	}
	if len(fields) > 0 {
		respondValidation(w, fields)
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		respondInternal(w, err)
		return
	}

	user := &models.User{Name: req.Name, Email: req.Email, PasswordHash: hash}
	if err := s.users.Create(r.Context(), user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			respondError(w, http.StatusConflict, codeConflict, "user already exists")
			return
		}
		respondInternal(w, err)
		return
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		respondInternal(w, err)
		return
	}

	logger.Log.Info().Str("user_hash", logger.HashUserID(user.ID)).Msg("User registered")
	respondData(w, http.StatusCreated, authResponse{Token: token, User: user})
}

// handleLogin authenticates credentials and returns a signed token. Invalid
// email and invalid password answer identically.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, codeValidation, "invalid JSON body")
		return
	}
	if req.Email == "" || req.Password == "" {
		respondValidation(w, map[string]string{"credentials": "email and password are required"})
		return
	}

	user, err := s.users.GetByEmail(r.Context(), strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			respondError(w, http.StatusUnauthorized, codeNotAuthorized, "invalid credentials")
			return
		}
		respondInternal(w, err)
		return
	}

	if !auth.CheckPassword(user.PasswordHash, req.Password) {
		respondError(w, http.StatusUnauthorized, codeNotAuthorized, "invalid credentials")
		return
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		respondInternal(w, err)
		return
	}

	respondData(w, http.StatusOK, authResponse{Token: token, User: user})
}

// handleMe returns the authenticated user's profile.
func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromContext(r.Context())

	user, err := s.users.GetByID(r.Context(), userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			respondError(w, http.StatusNotFound, codeNotFound, "user not found")
			return
		}
		respondInternal(w, err)
		return
	}

	respondData(w, http.StatusOK, user)
}
