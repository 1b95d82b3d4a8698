package handlers

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/vidmira/backend/internal/catalog"
	"github.com/vidmira/backend/internal/logging"
	"github.com/vidmira/backend/internal/media"
)

// VideoHandler provides catalog listing, upload and view-registration
// endpoints.
type VideoHandler struct {
	Catalog  CatalogStore
	Sessions SessionStore
	Media    media.Store
	Limiter  RateLimiter
}

// Handle dispatches /api/v1/videos by method.
func (h VideoHandler) Handle(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.list(w, r)
	case http.MethodPost:
		h.create(w, r)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// list handles GET /api/v1/videos.
func (h VideoHandler) list(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.FromContext(ctx)

	if h.Catalog == nil {
		logger.Error("catalog store unavailable")
		respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "catalog unavailable"})
		return
	}

	filter := catalog.Filter{
		Category: r.URL.Query().Get("category"),
		Search:   r.URL.Query().Get("search"),
	}
	if raw := r.URL.Query().Get("user_id"); raw != "" {
		ownerID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "invalid user_id"})
			return
		}
		filter.OwnerID = ownerID
	}

	videos, err := h.Catalog.List(ctx, filter)
	if err != nil {
		logger.Error("list videos", "error", err)
		respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "failed to list videos"})
		return
	}

	respondJSON(ctx, w, http.StatusOK, videos)
}

type uploadRequest struct {
	Title           string `json:"title"`
	Description     string `json:"description"`
	Category        string `json:"category"`
	VideoBase64     string `json:"video_base64"`
	ThumbnailBase64 string `json:"thumbnail_base64"`
}

// create handles POST /api/v1/videos.
func (h VideoHandler) create(w http.ResponseWriter, r *http.Request) {
	ctx, span := logging.StartSpan(r.Context(), "videos.upload")
	defer span.End()

	logger := logging.FromContext(ctx)

	if h.Catalog == nil || h.Sessions == nil || h.Media == nil {
		logger.Error("upload dependencies unavailable",
			"hasCatalog", h.Catalog != nil, "hasSessions", h.Sessions != nil, "hasMedia", h.Media != nil)
		respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "upload services unavailable"})
		return
	}

	if !allowRequest(h.Limiter, r, "upload") {
		logger.Warn("upload rate limited", "remoteAddr", r.RemoteAddr)
		respondJSON(ctx, w, http.StatusTooManyRequests, map[string]string{"error": "too many uploads, slow down"})
		return
	}

	owner, ok, err := h.Sessions.Current(ctx)
	if err != nil {
		logger.Error("resolve session", "error", err)
		respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "failed to resolve session"})
		return
	}
	if !ok {
		respondJSON(ctx, w, http.StatusUnauthorized, map[string]string{"error": "login required to upload"})
		return
	}

	var req uploadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid upload payload", "error", err)
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if strings.TrimSpace(req.Title) == "" || strings.TrimSpace(req.VideoBase64) == "" {
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "title and video are required"})
		return
	}

	videoRef, err := h.saveBase64(ctx, "videos", ".mp4", req.VideoBase64)
	if err != nil {
		logger.Error("store video payload", "error", err)
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "failed to process video file"})
		return
	}

	var thumbnailRef string
	if req.ThumbnailBase64 != "" {
		thumbnailRef, err = h.saveBase64(ctx, "thumbnails", ".jpg", req.ThumbnailBase64)
		if err != nil {
			logger.Error("store thumbnail payload", "error", err)
			respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "failed to process thumbnail file"})
			return
		}
	}

	video, err := h.Catalog.Create(ctx, owner, catalog.CreateParams{
		Title:        req.Title,
		Description:  req.Description,
		Category:     req.Category,
		VideoURL:     videoRef,
		ThumbnailURL: thumbnailRef,
	})
	if err != nil {
		if errors.Is(err, catalog.ErrValidation) {
			respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		logger.Error("create video", "error", err)
		respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "failed to create video"})
		return
	}

	respondJSON(ctx, w, http.StatusCreated, video)
}

type viewRequest struct {
	VideoID int64 `json:"video_id"`
}

// View handles POST /api/v1/videos/view.
func (h VideoHandler) View(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()
	logger := logging.FromContext(ctx)

	if h.Catalog == nil {
		logger.Error("catalog store unavailable")
		respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "catalog unavailable"})
		return
	}

	var req viewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid view payload", "error", err)
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	var viewerID int64
	if h.Sessions != nil {
		if viewer, ok, err := h.Sessions.Current(ctx); err == nil && ok {
			viewerID = viewer.ID
		}
	}

	counts, err := h.Catalog.RegisterView(ctx, req.VideoID, viewerID)
	if err != nil {
		logger.Error("register view", "videoId", req.VideoID, "error", err)
		respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "failed to register view"})
		return
	}

	respondJSON(ctx, w, http.StatusOK, counts)
}

// Stats handles GET /api/v1/channel/stats.
func (h VideoHandler) Stats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()
	logger := logging.FromContext(ctx)

	if h.Catalog == nil {
		logger.Error("catalog store unavailable")
		respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "catalog unavailable"})
		return
	}

	raw := r.URL.Query().Get("user_id")
	ownerID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || ownerID == 0 {
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "user_id required"})
		return
	}

	stats, err := h.Catalog.ChannelStats(ctx, ownerID)
	if err != nil {
		logger.Error("channel stats", "ownerId", ownerID, "error", err)
		respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "failed to load channel stats"})
		return
	}

	respondJSON(ctx, w, http.StatusOK, stats)
}

// saveBase64 decodes the payload and stores it under a fresh object key.
func (h VideoHandler) saveBase64(ctx context.Context, prefix, ext, payload string) (string, error) {
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", fmt.Errorf("decode media payload: %w", err)
	}

	key := fmt.Sprintf("%s/%s%s", prefix, uuid.NewString(), ext)
	ref, err := h.Media.Save(ctx, key, bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("store media payload: %w", err)
	}

	return ref, nil
}
