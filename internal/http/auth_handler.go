package http

import (
	"encoding/json"
	"net/http"

	"github.com/fjod/go_boutique/internal/auth"
	"go.uber.org/zap"
)

type AuthHandler struct {
	sessions *auth.SessionManager
	log      *zap.Logger
}

func NewAuthHandler(sessions *auth.SessionManager, log *zap.Logger) *AuthHandler {
	return &AuthHandler{sessions: sessions, log: log}
}

type LoginRequestDTO struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponseDTO struct {
	Username string    `json:"username"`
	Role     auth.Role `json:"role"`
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	role, ok := auth.Authenticate(req.Username, req.Password)
	if !ok {
		respondError(w, http.StatusUnauthorized, "invalid_credentials", "incorrect username or password")
		return
	}

	session := h.sessions.Issue(w, req.Username, role)
	h.log.Info("user logged in", zap.String("username", session.Username), zap.String("role", string(role)))

	respondJSON(w, http.StatusOK, LoginResponseDTO{
		Username: session.Username,
		Role:     session.Role,
	})
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.sessions.Clear(w)
	w.WriteHeader(http.StatusNoContent)
}
