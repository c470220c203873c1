package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"photoshare-backend/internal/middleware"
	"photoshare-backend/internal/services"

	"github.com/rs/zerolog/log"
)

// AuthHandler handles signup, login and session HTTP requests
type AuthHandler struct {
	users    *services.UserService
	sessions *services.SessionStore
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(users *services.UserService, sessions *services.SessionStore) *AuthHandler {
	return &AuthHandler{users: users, sessions: sessions}
}

// SignupRequest represents the request body for signup
type SignupRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest represents the request body for login
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Signup handles POST /api/v1/auth/signup
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)
	if req.Username == "" || req.Email == "" || req.Password == "" {
		respondError(w, "username, email, and password are required", http.StatusBadRequest)
		return
	}

	if err := h.users.SignUp(r.Context(), req.Username, req.Email, req.Password); err != nil {
		if errors.Is(err, services.ErrDuplicateUser) {
			respondError(w, "Username or email already exists", http.StatusBadRequest)
			return
		}
		log.Error().Err(err).Str("username", req.Username).Msg("Signup failed")
		respondError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	log.Info().Str("username", req.Username).Msg("Signup request filed")
	respondJSON(w, http.StatusCreated, map[string]string{"message": "Signup request sent"})
}

// Login handles POST /api/v1/auth/login. A failed login is a 200 with
// success:false, not a 401.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	user, err := h.users.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrUnauthorized) {
			respondJSON(w, http.StatusOK, map[string]bool{"success": false})
			return
		}
		log.Error().Err(err).Str("username", req.Username).Msg("Login failed")
		respondError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	cookieValue, err := h.sessions.Create(r.Context(), user)
	if err != nil {
		log.Error().Err(err).Int64("user_id", user.ID).Msg("Failed to create session")
		respondError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	// No MaxAge or Expires: the inactivity window is rolling, enforced
	// by the session store TTL. A fixed cookie lifetime would log out
	// active users.
	http.SetCookie(w, &http.Cookie{
		Name:     services.SessionCookie,
		Value:    cookieValue,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	log.Info().Int64("user_id", user.ID).Str("username", user.Username).Msg("User logged in")
	respondJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// Logout handles POST /api/v1/auth/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	sess := middleware.GetSession(r.Context())
	if err := h.sessions.Delete(r.Context(), sess.ID); err != nil {
		log.Error().Err(err).Msg("Failed to delete session")
	}

	http.SetCookie(w, &http.Cookie{
		Name:     services.SessionCookie,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})

	respondJSON(w, http.StatusOK, map[string]string{"message": "logged out"})
}

// CurrentUser handles GET /api/v1/auth/user
func (h *AuthHandler) CurrentUser(w http.ResponseWriter, r *http.Request) {
	sess := middleware.GetSession(r.Context())
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"id":       sess.UserID,
		"username": sess.Username,
		"role":     sess.Role,
	})
}

// PushTokenRequest represents the request body for push token updates.
// A null token clears the registration.
type PushTokenRequest struct {
	PushToken *string `json:"push_token"`
}

// UpdatePushToken handles PUT /api/v1/me/push-token
func (h *AuthHandler) UpdatePushToken(w http.ResponseWriter, r *http.Request) {
	sess := middleware.GetSession(r.Context())

	var req PushTokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.users.UpdatePushToken(r.Context(), sess.UserID, req.PushToken); err != nil {
		respondServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
