package models

// Video is a catalog record. Field tags match the persisted JSON layout of
// the `videos` document, newest entry first.
type Video struct {
	ID           int64  `json:"id"`
	UserID       int64  `json:"user_id"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	VideoURL     string `json:"video_url"`
	ThumbnailURL string `json:"thumbnail_url"`
	Duration     string `json:"duration"`
	Category     string `json:"category"`
	Views        int64  `json:"views"`
	RealViews    int64  `json:"real_views"`

	// Channel fields are snapshotted from the uploading identity at creation
	// time and are not kept in sync with later profile edits.
	ChannelName   string `json:"channel_name"`
	ChannelAvatar string `json:"channel_avatar"`
	Subscribers   int64  `json:"subscribers"`

	CreatedAt string `json:"created_at"`
}

// Identity is the logged-in user held by the session store as the `user`
// document.
type Identity struct {
	ID          int64  `json:"id"`
	Email       string `json:"email"`
	Name        string `json:"name"`
	AvatarURL   string `json:"avatar_url"`
	ChannelName string `json:"channel_name"`
	Subscribers int64  `json:"subscribers"`
}

// ViewCounts reports a video's engagement counters after a play event.
type ViewCounts struct {
	Views     int64 `json:"views"`
	RealViews int64 `json:"real_views"`
}

// ChannelStats aggregates catalog figures for one channel.
type ChannelStats struct {
	VideoCount int64 `json:"video_count"`
	TotalViews int64 `json:"total_views"`
}

// ProfileUpdate carries the optional profile fields merged by an update.
// Nil pointers leave the corresponding field untouched.
type ProfileUpdate struct {
	ChannelName *string
	AvatarURL   *string
}

// Engagement constants for the simulated growth rule. A new upload starts
// with a seeded views boost; every play event bumps real_views by one and
// views by ViewBoost.
const (
	InitialViewBoost = 100
	ViewBoost        = 10
	DefaultDuration  = "0:00"
)

// SubscriberMilestone pairs a views threshold with its one-time subscriber
// award.
type SubscriberMilestone struct {
	Threshold int64
	Award     int64
}

// SubscriberMilestones lists the thresholds in ascending order. Milestones
// are checked independently so a single large jump can fire more than one.
var SubscriberMilestones = []SubscriberMilestone{
	{Threshold: 1000, Award: 100},
	{Threshold: 5000, Award: 500},
	{Threshold: 10000, Award: 1000},
}
