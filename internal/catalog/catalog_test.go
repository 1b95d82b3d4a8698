package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/vidmira/backend/internal/kv"
	"github.com/vidmira/backend/internal/models"
)

var testOwner = models.Identity{
	ID:          1,
	Email:       "demo@google.com",
	Name:        "Demo User",
	AvatarURL:   "https://api.dicebear.com/7.x/avataaars/svg?seed=google",
	ChannelName: "Мой канал",
	Subscribers: 0,
}

func newTestStore(t *testing.T) (*Store, *kv.MemoryStore) {
	t.Helper()
	mem := kv.NewMemoryStore()
	store := NewStore(mem).WithNowFunc(func() time.Time {
		return time.Date(2024, time.March, 15, 12, 0, 0, 0, time.UTC)
	})
	return store, mem
}

func TestCreateDefaults(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)

	video, err := store.Create(ctx, testOwner, CreateParams{
		Title:    "T1",
		VideoURL: "blob:demo/video-1",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if video.Views != 100 || video.RealViews != 0 {
		t.Fatalf("unexpected seeded counters: views=%d realViews=%d", video.Views, video.RealViews)
	}
	if video.ThumbnailURL == "" {
		t.Fatal("expected a generated thumbnail reference")
	}
	if video.Duration != "0:00" {
		t.Fatalf("unexpected duration: %s", video.Duration)
	}
	if video.Category != DefaultCategory {
		t.Fatalf("unexpected category: %s", video.Category)
	}
	if video.ChannelName != testOwner.ChannelName || video.Subscribers != testOwner.Subscribers {
		t.Fatalf("channel snapshot mismatch: %+v", video)
	}
	if video.ID != time.Date(2024, time.March, 15, 12, 0, 0, 0, time.UTC).UnixMilli() {
		t.Fatalf("unexpected id: %d", video.ID)
	}
}

func TestCreateValidation(t *testing.T) {
	ctx := context.Background()
	store, mem := newTestStore(t)

	cases := []struct {
		name   string
		params CreateParams
	}{
		{"missingTitle", CreateParams{VideoURL: "blob:x"}},
		{"blankTitle", CreateParams{Title: "   ", VideoURL: "blob:x"}},
		{"missingVideo", CreateParams{Title: "T1"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := store.Create(ctx, testOwner, tc.params); !errors.Is(err, ErrValidation) {
				t.Fatalf("expected ErrValidation, got %v", err)
			}
		})
	}

	if mem.Has("videos") {
		t.Fatal("validation failure must not write the catalog")
	}
}

func TestCreatePrependsNewest(t *testing.T) {
	ctx := context.Background()
	mem := kv.NewMemoryStore()
	ts := time.Date(2024, time.March, 15, 12, 0, 0, 0, time.UTC)
	store := NewStore(mem).WithNowFunc(func() time.Time {
		ts = ts.Add(time.Second)
		return ts
	})

	if _, err := store.Create(ctx, testOwner, CreateParams{Title: "first", VideoURL: "blob:1"}); err != nil {
		t.Fatalf("create first: %v", err)
	}
	if _, err := store.Create(ctx, testOwner, CreateParams{Title: "second", VideoURL: "blob:2"}); err != nil {
		t.Fatalf("create second: %v", err)
	}

	videos, err := store.List(ctx, Filter{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(videos) != 2 {
		t.Fatalf("expected 2 videos, got %d", len(videos))
	}
	if videos[0].Title != "second" || videos[1].Title != "first" {
		t.Fatalf("expected newest first, got %q then %q", videos[0].Title, videos[1].Title)
	}
}

func TestListEmptyAndCorruptStore(t *testing.T) {
	ctx := context.Background()
	store, mem := newTestStore(t)

	videos, err := store.List(ctx, Filter{})
	if err != nil {
		t.Fatalf("list on empty store: %v", err)
	}
	if len(videos) != 0 {
		t.Fatalf("expected empty listing, got %d", len(videos))
	}

	if err := mem.Set(ctx, "videos", []byte("{broken")); err != nil {
		t.Fatalf("seed corrupt document: %v", err)
	}

	videos, err = store.List(ctx, Filter{})
	if err != nil {
		t.Fatalf("list over corrupt document: %v", err)
	}
	if len(videos) != 0 {
		t.Fatalf("corrupt document must list as empty, got %d", len(videos))
	}
}

func TestListFilters(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)

	seed := []struct {
		title    string
		category string
		owner    models.Identity
	}{
		{"Логотип за час", "Дизайн", testOwner},
		{"Интро для канала", "Дизайн", testOwner},
		{"Го уроки", "Программирование", testOwner},
		{"Сборка ПК", "Техника", models.Identity{ID: 2, ChannelName: "Второй канал"}},
		{"Обзор камеры", "Техника", models.Identity{ID: 2, ChannelName: "Второй канал"}},
	}

	for _, v := range seed {
		if _, err := store.Create(ctx, v.owner, CreateParams{
			Title:    v.title,
			Category: v.category,
			VideoURL: "blob:x",
		}); err != nil {
			t.Fatalf("seed %q: %v", v.title, err)
		}
	}

	all, err := store.List(ctx, Filter{})
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	if len(all) != 5 {
		t.Fatalf("expected 5 videos, got %d", len(all))
	}

	sentinel, err := store.List(ctx, Filter{Category: CategoryAll})
	if err != nil {
		t.Fatalf("list sentinel category: %v", err)
	}
	if len(sentinel) != 5 {
		t.Fatalf("sentinel category must not filter, got %d", len(sentinel))
	}

	design, err := store.List(ctx, Filter{Category: "Дизайн"})
	if err != nil {
		t.Fatalf("list category: %v", err)
	}
	if len(design) != 2 {
		t.Fatalf("expected 2 design videos, got %d", len(design))
	}
	if design[0].Title != "Интро для канала" || design[1].Title != "Логотип за час" {
		t.Fatalf("category filter broke relative order: %q, %q", design[0].Title, design[1].Title)
	}

	owned, err := store.List(ctx, Filter{OwnerID: 2})
	if err != nil {
		t.Fatalf("list owner: %v", err)
	}
	if len(owned) != 2 {
		t.Fatalf("expected 2 owned videos, got %d", len(owned))
	}

	searched, err := store.List(ctx, Filter{Search: "второй"})
	if err != nil {
		t.Fatalf("list search: %v", err)
	}
	if len(searched) != 2 {
		t.Fatalf("expected channel-name search to match 2 videos, got %d", len(searched))
	}

	combined, err := store.List(ctx, Filter{OwnerID: 1, Category: "Техника"})
	if err != nil {
		t.Fatalf("list combined: %v", err)
	}
	if len(combined) != 0 {
		t.Fatalf("expected filters to compose, got %d", len(combined))
	}
}

func TestRegisterViewIncrements(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)

	video, err := store.Create(ctx, testOwner, CreateParams{Title: "T1", VideoURL: "blob:x"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	for i := 1; i <= 3; i++ {
		counts, err := store.RegisterView(ctx, video.ID, testOwner.ID)
		if err != nil {
			t.Fatalf("register view %d: %v", i, err)
		}
		wantViews := int64(100 + 10*i)
		if counts.Views != wantViews || counts.RealViews != int64(i) {
			t.Fatalf("view %d: got %+v want views=%d realViews=%d", i, counts, wantViews, i)
		}
	}
}

func TestRegisterViewMilestoneFiresOnce(t *testing.T) {
	ctx := context.Background()
	store, mem := newTestStore(t)

	seedVideos(t, mem, []models.Video{{
		ID:          42,
		UserID:      1,
		Title:       "almost there",
		Views:       990,
		RealViews:   89,
		Subscribers: 7,
	}})

	counts, err := store.RegisterView(ctx, 42, 0)
	if err != nil {
		t.Fatalf("register view: %v", err)
	}
	if counts.Views != 1000 {
		t.Fatalf("expected views=1000, got %d", counts.Views)
	}
	if got := loadVideo(t, mem, 42); got.Subscribers != 107 {
		t.Fatalf("expected milestone award once, subscribers=%d", got.Subscribers)
	}

	if _, err := store.RegisterView(ctx, 42, 0); err != nil {
		t.Fatalf("second view: %v", err)
	}
	if got := loadVideo(t, mem, 42); got.Subscribers != 107 {
		t.Fatalf("milestone must not fire twice, subscribers=%d", got.Subscribers)
	}
	if got := loadVideo(t, mem, 42); got.Views != 1010 {
		t.Fatalf("expected views=1010 after second view, got %d", got.Views)
	}
}

func TestRegisterViewIndependentMilestones(t *testing.T) {
	// The milestones are independent conditionals: a hypothetical jump from
	// below 1000 to above 5000 would award both. Verify by crossing 5000 and
	// 10000 separately from high starting points.
	ctx := context.Background()
	store, mem := newTestStore(t)

	seedVideos(t, mem, []models.Video{
		{ID: 1, Views: 4995, Subscribers: 0},
		{ID: 2, Views: 9990, Subscribers: 0},
	})

	if _, err := store.RegisterView(ctx, 1, 0); err != nil {
		t.Fatalf("cross 5000: %v", err)
	}
	if got := loadVideo(t, mem, 1); got.Subscribers != 500 {
		t.Fatalf("expected +500 at 5000, got %d", got.Subscribers)
	}

	if _, err := store.RegisterView(ctx, 2, 0); err != nil {
		t.Fatalf("cross 10000: %v", err)
	}
	if got := loadVideo(t, mem, 2); got.Subscribers != 1000 {
		t.Fatalf("expected +1000 at 10000, got %d", got.Subscribers)
	}
}

func TestRegisterViewMissingIDIsNoOp(t *testing.T) {
	ctx := context.Background()
	store, mem := newTestStore(t)

	seedVideos(t, mem, []models.Video{{ID: 7, Title: "keep", Views: 100}})
	before, err := mem.Get(ctx, "videos")
	if err != nil {
		t.Fatalf("read seeded document: %v", err)
	}

	counts, err := store.RegisterView(ctx, 999, 0)
	if err != nil {
		t.Fatalf("register view on missing id: %v", err)
	}
	if counts.Views != 0 || counts.RealViews != 0 {
		t.Fatalf("expected zero counters, got %+v", counts)
	}

	after, err := mem.Get(ctx, "videos")
	if err != nil {
		t.Fatalf("read document after no-op: %v", err)
	}
	if string(before) != string(after) {
		t.Fatal("missing-id view must leave the persisted catalog untouched")
	}
}

func TestEngagementScenario(t *testing.T) {
	// 100 plays on a fresh upload: views 100 -> 1100, real_views 100, and the
	// 1000 milestone fires exactly once (at play 90).
	ctx := context.Background()
	store, mem := newTestStore(t)

	video, err := store.Create(ctx, testOwner, CreateParams{Title: "T1", VideoURL: "blob:x"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	var counts models.ViewCounts
	for i := 0; i < 100; i++ {
		counts, err = store.RegisterView(ctx, video.ID, testOwner.ID)
		if err != nil {
			t.Fatalf("register view %d: %v", i, err)
		}
	}

	if counts.Views != 1100 || counts.RealViews != 100 {
		t.Fatalf("unexpected final counters: %+v", counts)
	}
	if got := loadVideo(t, mem, video.ID); got.Subscribers != testOwner.Subscribers+100 {
		t.Fatalf("expected exactly one +100 award, subscribers=%d", got.Subscribers)
	}
}

func TestChannelStats(t *testing.T) {
	ctx := context.Background()
	store, mem := newTestStore(t)

	seedVideos(t, mem, []models.Video{
		{ID: 1, UserID: 1, Views: 150},
		{ID: 2, UserID: 1, Views: 250},
		{ID: 3, UserID: 2, Views: 999},
	})

	stats, err := store.ChannelStats(ctx, 1)
	if err != nil {
		t.Fatalf("channel stats: %v", err)
	}
	if stats.VideoCount != 2 || stats.TotalViews != 400 {
		t.Fatalf("unexpected stats: %+v", stats)
	}

	empty, err := store.ChannelStats(ctx, 99)
	if err != nil {
		t.Fatalf("channel stats for unknown owner: %v", err)
	}
	if empty.VideoCount != 0 || empty.TotalViews != 0 {
		t.Fatalf("expected zero stats, got %+v", empty)
	}
}

func seedVideos(t *testing.T, store *kv.MemoryStore, videos []models.Video) {
	t.Helper()
	data, err := json.Marshal(videos)
	if err != nil {
		t.Fatalf("marshal seed videos: %v", err)
	}
	if err := store.Set(context.Background(), "videos", data); err != nil {
		t.Fatalf("seed videos: %v", err)
	}
}

func loadVideo(t *testing.T, store *kv.MemoryStore, id int64) models.Video {
	t.Helper()
	data, err := store.Get(context.Background(), "videos")
	if err != nil {
		t.Fatalf("load videos: %v", err)
	}
	var videos []models.Video
	if err := json.Unmarshal(data, &videos); err != nil {
		t.Fatalf("decode videos: %v", err)
	}
	for _, v := range videos {
		if v.ID == id {
			return v
		}
	}
	t.Fatalf("video %d not found", id)
	return models.Video{}
}
