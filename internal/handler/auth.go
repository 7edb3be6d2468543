// Package handler contains the HTTP layer: request parsing, response
// writing, and nothing else. Handlers delegate every decision to the
// service layer and translate its domain errors to status codes.
package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/sakif/taskora/internal/apperror"
	"github.com/sakif/taskora/internal/service"
)

// AuthHandler exposes signup, login, logout and "who am I" over HTTP.
//
// There are no cookies or tokens here: the device has one persisted session
// slot, and these endpoints read and write that slot via the AuthService —
// the same model the mobile screens used.
type AuthHandler struct {
	auth   *service.AuthService
	logger *slog.Logger
}

// NewAuthHandler creates an AuthHandler.
func NewAuthHandler(auth *service.AuthService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{auth: auth, logger: logger}
}

type signupRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// HandleSignup registers a new account and logs it in.
//
// HTTP: POST /api/auth/signup
// REQUEST: {"username": "alice", "email": "a@x.com", "password": "secret1"}
// RESPONSE: 201 with the session record; 400/409 with the field at fault.
func (h *AuthHandler) HandleSignup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperror.ValidationFailed("", "Invalid JSON body"))
		return
	}

	sess, err := h.auth.Signup(r.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, sess)
}

// HandleLogin checks credentials and writes the session slot.
//
// HTTP: POST /api/auth/login
// REQUEST: {"username": "alice", "password": "secret1"}
// RESPONSE: 200 with the session record; 401 with the generic
// invalid-credentials message on any mismatch.
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperror.ValidationFailed("", "Invalid JSON body"))
		return
	}

	sess, err := h.auth.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, sess)
}

// HandleLogout clears the session slot.
//
// HTTP: POST /api/auth/logout
// RESPONSE: 204. Logging out while logged out is still a 204 —
// the end state is the same either way.
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if err := h.auth.Logout(); err != nil {
		h.logger.Error("logout failed", slog.String("error", err.Error()))
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HandleMe returns the current session record.
//
// HTTP: GET /api/auth/me
// RESPONSE: 200 with {id, username, email}, or 401 when nobody is logged in
// (which is also what the client sees when the session slot is unreadable —
// the service reports both as "no session").
func (h *AuthHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	sess := h.auth.CurrentUser()
	if sess == nil {
		writeError(w, apperror.Unauthorized("Not logged in"))
		return
	}

	writeJSON(w, http.StatusOK, sess)
}
