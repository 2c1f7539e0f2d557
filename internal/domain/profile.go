package domain

import "time"

// Profile is a user's public running showcase, addressable by slug.
type Profile struct {
	ID          string `json:"id"`
	UserID      string `json:"user_id"`
	Slug        string `json:"slug"`
	DisplayName string `json:"display_name"`
	Tagline     string `json:"tagline,omitempty"`
	AvatarColor string `json:"avatar_color,omitempty"`

	WeeklyStats WeeklyStats `json:"weekly_stats"`

	// Legacy denormalized storage, kept for migration only. New writes
	// go to the normalized Shoe/Activity records.
	LegacySchemaVersion int                 `json:"legacy_schema_version,omitempty"`
	LegacyHighlightRun  *LegacyHighlightRun `json:"legacy_highlight_run,omitempty"`
	LegacyEvents        []LegacyEvent       `json:"legacy_events,omitempty"`
	LegacyShoes         []LegacyShoe        `json:"legacy_shoes,omitempty"`

	Strava *StravaConnection `json:"strava,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// WeeklyStats is the curated "this week" block shown on the profile page.
type WeeklyStats struct {
	Miles   float64 `json:"miles"`
	Runs    int     `json:"runs"`
	Minutes int     `json:"minutes"`
}

// StravaConnection holds OAuth state for a linked Strava account.
type StravaConnection struct {
	AthleteID    int64     `json:"athlete_id"`
	AccessToken  string    `json:"access_token,omitempty"`
	RefreshToken string    `json:"refresh_token,omitempty"`
	ExpiresAt    time.Time `json:"expires_at"`
	ConnectedAt  time.Time `json:"connected_at"`
}

// NeedsRefresh reports whether the access token is expired or about to
// expire and should be refreshed before use.
func (c *StravaConnection) NeedsRefresh(now time.Time) bool {
	return !now.Add(60 * time.Second).Before(c.ExpiresAt)
}

// NewProfile creates a profile for a user with sensible defaults.
func NewProfile(id, userID, slug, displayName string) *Profile {
	now := time.Now()
	return &Profile{
		ID:          id,
		UserID:      userID,
		Slug:        slug,
		DisplayName: displayName,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// Touch updates the UpdatedAt timestamp to the current time.
func (p *Profile) Touch() {
	p.UpdatedAt = time.Now()
}

// HasLegacyData reports whether any legacy embedded field still needs
// migrating into the normalized records.
func (p *Profile) HasLegacyData() bool {
	return (p.LegacyHighlightRun != nil && !p.LegacyHighlightRun.IsZero()) ||
		len(p.LegacyEvents) > 0 ||
		len(p.LegacyShoes) > 0
}
