package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/vidmira/backend/internal/identity"
	"github.com/vidmira/backend/internal/logging"
	"github.com/vidmira/backend/internal/models"
)

// AuthHandler implements the session lifecycle endpoints.
type AuthHandler struct {
	Sessions SessionStore
}

type loginRequest struct {
	Provider string `json:"provider"`
}

type identityResponse struct {
	User models.Identity `json:"user"`
}

// Login handles POST /api/v1/auth/login requests.
func (h AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()
	logger := logging.FromContext(ctx)

	if h.Sessions == nil {
		logger.Error("session store unavailable")
		respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "session services unavailable"})
		return
	}

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid login payload", "error", err)
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	req.Provider = strings.TrimSpace(strings.ToLower(req.Provider))
	if req.Provider == "" {
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "provider is required"})
		return
	}

	resident, err := h.Sessions.Login(ctx, req.Provider)
	if err != nil {
		if errors.Is(err, identity.ErrUnknownProvider) {
			logger.Warn("login with unknown provider", "provider", req.Provider)
			respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "unknown provider"})
			return
		}
		logger.Error("login failed", "provider", req.Provider, "error", err)
		respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "failed to create session"})
		return
	}

	respondJSON(ctx, w, http.StatusOK, identityResponse{User: resident})
}

// Logout handles POST /api/v1/auth/logout requests.
func (h AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()
	logger := logging.FromContext(ctx)

	if h.Sessions == nil {
		logger.Error("session store unavailable")
		respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "session services unavailable"})
		return
	}

	if err := h.Sessions.Logout(ctx); err != nil {
		logger.Error("logout failed", "error", err)
		respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "failed to end session"})
		return
	}

	respondJSON(ctx, w, http.StatusOK, map[string]string{"status": "logged out"})
}

// Me handles GET /api/v1/auth/me requests.
func (h AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()
	logger := logging.FromContext(ctx)

	if h.Sessions == nil {
		logger.Error("session store unavailable")
		respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "session services unavailable"})
		return
	}

	resident, ok, err := h.Sessions.Current(ctx)
	if err != nil {
		logger.Error("resolve session", "error", err)
		respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "failed to resolve session"})
		return
	}
	if !ok {
		respondJSON(ctx, w, http.StatusUnauthorized, map[string]string{"error": "not logged in"})
		return
	}

	respondJSON(ctx, w, http.StatusOK, identityResponse{User: resident})
}
