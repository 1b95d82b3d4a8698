package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/vidmira/backend/internal/kv"
	"github.com/vidmira/backend/internal/logging"
	"github.com/vidmira/backend/internal/models"
)

// videosKey names the namespace document holding the full catalog,
// newest record first.
const videosKey = "videos"

// CategoryAll is the filter sentinel matching every category.
const CategoryAll = "Все"

// DefaultCategory is assigned to uploads that do not name one.
const DefaultCategory = "Разное"

// Filter narrows a catalog listing. Zero values leave the corresponding
// dimension unfiltered.
type Filter struct {
	OwnerID  int64
	Category string
	Search   string
}

// CreateParams carries the caller-supplied fields of a new upload.
type CreateParams struct {
	Title        string
	Description  string
	Category     string
	VideoURL     string
	ThumbnailURL string
}

// Store manages the persisted video collection. Each operation is a full
// read-modify-write of the catalog document; a mutex keeps in-process calls
// atomic, while concurrent writers through separate processes remain
// last-writer-wins.
type Store struct {
	kv      kv.Store
	mu      sync.Mutex
	nowFunc func() time.Time
}

// NewStore constructs a catalog store over the provided namespace.
func NewStore(store kv.Store) *Store {
	if store == nil {
		panic("catalog: kv store must not be nil")
	}
	return &Store{kv: store, nowFunc: time.Now}
}

// WithNowFunc overrides the time source. Useful for tests.
func (s *Store) WithNowFunc(now func() time.Time) *Store {
	s.nowFunc = now
	return s
}

// List returns the catalog narrowed by the filter, preserving stored order.
// An uninitialized or unreadable catalog lists as empty rather than failing.
func (s *Store) List(ctx context.Context, filter Filter) ([]models.Video, error) {
	videos, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]models.Video, 0, len(videos))
	search := strings.ToLower(strings.TrimSpace(filter.Search))
	for _, v := range videos {
		if filter.OwnerID != 0 && v.UserID != filter.OwnerID {
			continue
		}
		if filter.Category != "" && filter.Category != CategoryAll && v.Category != filter.Category {
			continue
		}
		if search != "" && !matchesSearch(v, search) {
			continue
		}
		out = append(out, v)
	}

	return out, nil
}

func matchesSearch(v models.Video, search string) bool {
	return strings.Contains(strings.ToLower(v.Title), search) ||
		strings.Contains(strings.ToLower(v.ChannelName), search) ||
		strings.Contains(strings.ToLower(v.Category), search)
}

// Create validates the upload, seeds its engagement counters, snapshots the
// owner's channel fields and prepends the record to the catalog.
func (s *Store) Create(ctx context.Context, owner models.Identity, params CreateParams) (models.Video, error) {
	title := strings.TrimSpace(params.Title)
	if title == "" {
		return models.Video{}, fmt.Errorf("%w: title is required", ErrValidation)
	}
	if strings.TrimSpace(params.VideoURL) == "" {
		return models.Video{}, fmt.Errorf("%w: video reference is required", ErrValidation)
	}

	category := strings.TrimSpace(params.Category)
	if category == "" {
		category = DefaultCategory
	}

	thumbnail := params.ThumbnailURL
	if thumbnail == "" {
		thumbnail = PlaceholderThumbnail(title)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	videos, err := s.load(ctx)
	if err != nil {
		return models.Video{}, err
	}

	now := s.nowFunc().UTC()
	video := models.Video{
		ID:            now.UnixMilli(),
		UserID:        owner.ID,
		Title:         title,
		Description:   params.Description,
		VideoURL:      params.VideoURL,
		ThumbnailURL:  thumbnail,
		Duration:      models.DefaultDuration,
		Category:      category,
		Views:         models.InitialViewBoost,
		RealViews:     0,
		ChannelName:   owner.ChannelName,
		ChannelAvatar: owner.AvatarURL,
		Subscribers:   owner.Subscribers,
		CreatedAt:     now.Format(time.RFC3339),
	}

	videos = append([]models.Video{video}, videos...)
	if err := s.save(ctx, videos); err != nil {
		return models.Video{}, err
	}

	logging.FromContext(ctx).Info("video created",
		"videoId", video.ID, "ownerId", owner.ID, "category", category)

	return video, nil
}

// RegisterView records a play event on the target video: real_views grows by
// one, views by the simulated boost, and each subscriber milestone whose
// threshold the views counter just crossed awards its subscribers once.
// A missing id is tolerated silently and reports zero counters.
func (s *Store) RegisterView(ctx context.Context, videoID int64, viewerID int64) (models.ViewCounts, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	videos, err := s.load(ctx)
	if err != nil {
		return models.ViewCounts{}, err
	}

	idx := -1
	for i := range videos {
		if videos[i].ID == videoID {
			idx = i
			break
		}
	}
	if idx == -1 {
		return models.ViewCounts{}, nil
	}

	video := &videos[idx]
	oldViews := video.Views

	video.RealViews++
	video.Views += models.ViewBoost

	// Each milestone is an independent check so larger boosts can cross
	// several thresholds in one event.
	for _, m := range models.SubscriberMilestones {
		if oldViews < m.Threshold && m.Threshold <= video.Views {
			video.Subscribers += m.Award
		}
	}

	if err := s.save(ctx, videos); err != nil {
		return models.ViewCounts{}, err
	}

	logging.FromContext(ctx).Debug("view registered",
		"videoId", videoID, "viewerId", viewerID, "views", video.Views)

	return models.ViewCounts{Views: video.Views, RealViews: video.RealViews}, nil
}

// ChannelStats totals the catalog figures owned by one channel.
func (s *Store) ChannelStats(ctx context.Context, ownerID int64) (models.ChannelStats, error) {
	videos, err := s.load(ctx)
	if err != nil {
		return models.ChannelStats{}, err
	}

	var stats models.ChannelStats
	for _, v := range videos {
		if v.UserID != ownerID {
			continue
		}
		stats.VideoCount++
		stats.TotalViews += v.Views
	}

	return stats, nil
}

func (s *Store) load(ctx context.Context) ([]models.Video, error) {
	data, err := s.kv.Get(ctx, videosKey)
	if err != nil {
		if errors.Is(err, kv.ErrKeyNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("load catalog: %w", err)
	}

	var videos []models.Video
	if err := json.Unmarshal(data, &videos); err != nil {
		// A corrupt catalog document reads as empty instead of failing.
		logging.FromContext(ctx).Warn("catalog document corrupt, treating as empty", "error", err)
		return nil, nil
	}

	return videos, nil
}

func (s *Store) save(ctx context.Context, videos []models.Video) error {
	data, err := json.Marshal(videos)
	if err != nil {
		return fmt.Errorf("encode catalog: %w", err)
	}
	if err := s.kv.Set(ctx, videosKey, data); err != nil {
		return fmt.Errorf("persist catalog: %w", err)
	}
	return nil
}
