package handlers

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/vidmira/backend/internal/logging"
	"github.com/vidmira/backend/internal/media"
	"github.com/vidmira/backend/internal/models"
	"github.com/vidmira/backend/internal/session"
)

// ProfileHandler updates the resident identity's channel fields.
type ProfileHandler struct {
	Sessions SessionStore
	Media    media.Store
}

type profileRequest struct {
	UserID       int64  `json:"user_id"`
	ChannelName  string `json:"channel_name"`
	AvatarBase64 string `json:"avatar_base64"`
}

// Update handles PUT /api/v1/profile requests.
func (h ProfileHandler) Update(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPut {
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

	var req profileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid profile payload", "error", err)
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	var update models.ProfileUpdate
	if name := strings.TrimSpace(req.ChannelName); name != "" {
		update.ChannelName = &name
	}

	if req.AvatarBase64 != "" {
		if h.Media == nil {
			logger.Error("media store unavailable for avatar upload")
			respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "media services unavailable"})
			return
		}

		data, err := base64.StdEncoding.DecodeString(req.AvatarBase64)
		if err != nil {
			logger.Warn("invalid avatar payload", "error", err)
			respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "failed to process avatar file"})
			return
		}

		key := fmt.Sprintf("avatars/%s.jpg", uuid.NewString())
		ref, err := h.Media.Save(ctx, key, bytes.NewReader(data))
		if err != nil {
			logger.Error("store avatar payload", "error", err)
			respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "failed to process avatar file"})
			return
		}
		update.AvatarURL = &ref
	}

	resident, err := h.Sessions.UpdateProfile(ctx, req.UserID, update)
	if err != nil {
		switch {
		case errors.Is(err, session.ErrNoSession):
			respondJSON(ctx, w, http.StatusUnauthorized, map[string]string{"error": "login required"})
		case errors.Is(err, session.ErrValidation):
			logger.Warn("profile update rejected", "userId", req.UserID, "error", err)
			respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "cannot update another user's profile"})
		default:
			logger.Error("profile update failed", "userId", req.UserID, "error", err)
			respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "failed to update profile"})
		}
		return
	}

	respondJSON(ctx, w, http.StatusOK, identityResponse{User: resident})
}
