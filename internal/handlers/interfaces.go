package handlers

import (
	"context"

	"github.com/vidmira/backend/internal/catalog"
	"github.com/vidmira/backend/internal/media"
	"github.com/vidmira/backend/internal/models"
)

// CatalogStore captures the catalog operations required by the video handlers.
type CatalogStore interface {
	List(ctx context.Context, filter catalog.Filter) ([]models.Video, error)
	Create(ctx context.Context, owner models.Identity, params catalog.CreateParams) (models.Video, error)
	RegisterView(ctx context.Context, videoID, viewerID int64) (models.ViewCounts, error)
	ChannelStats(ctx context.Context, ownerID int64) (models.ChannelStats, error)
}

// SessionStore captures the session operations required by the auth and
// profile handlers.
type SessionStore interface {
	Current(ctx context.Context) (models.Identity, bool, error)
	Login(ctx context.Context, provider string) (models.Identity, error)
	Logout(ctx context.Context) error
	UpdateProfile(ctx context.Context, identityID int64, update models.ProfileUpdate) (models.Identity, error)
}

// Dependencies aggregates collaborators required by HTTP handlers.
type Dependencies struct {
	Catalog       CatalogStore
	Sessions      SessionStore
	Media         media.Store
	UploadLimiter RateLimiter
}
