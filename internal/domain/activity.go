package domain

import "time"

// WorkoutTypeRace marks an activity as a race. The field is otherwise
// free-form text carried over from the external source.
const WorkoutTypeRace = "race"

// Activity is a race or run record. Exactly one of RaceProfileID and
// HighlightProfileID is set: the former makes the activity one of the
// profile's races, the latter makes it the profile's single highlight
// run (uniqueness enforced by the store's highlight index).
type Activity struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	StartDate   time.Time `json:"start_date"`
	Description string    `json:"description"`
	WorkoutType string    `json:"workout_type,omitempty"`

	DistanceMeters      float64 `json:"distance_meters"`
	MovingTimeSeconds   int     `json:"moving_time_seconds"`
	ElevationGainMeters float64 `json:"elevation_gain_meters"`

	StartLatLng     []float64      `json:"start_latlng,omitempty"`
	EndLatLng       []float64      `json:"end_latlng,omitempty"`
	SummaryPolyline string         `json:"summary_polyline,omitempty"`
	Metadata        map[string]any `json:"metadata,omitempty"`

	RaceProfileID      string `json:"race_profile_id,omitempty"`
	HighlightProfileID string `json:"highlight_profile_id,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsRace reports whether the activity fills a race slot on a profile.
func (a *Activity) IsRace() bool {
	return a.RaceProfileID != ""
}

// IsHighlight reports whether the activity is a profile's highlight run.
func (a *Activity) IsHighlight() bool {
	return a.HighlightProfileID != ""
}

// NewRace creates a race activity for a profile with timestamps
// initialized and the workout type set.
func NewRace(id, profileID, name string, startDate time.Time) *Activity {
	now := time.Now()
	return &Activity{
		ID:            id,
		Name:          name,
		StartDate:     startDate,
		Description:   "",
		WorkoutType:   WorkoutTypeRace,
		RaceProfileID: profileID,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// NewHighlightRun creates a highlight-run activity for a profile with
// timestamps initialized.
func NewHighlightRun(id, profileID, name string, startDate time.Time) *Activity {
	now := time.Now()
	return &Activity{
		ID:                 id,
		Name:               name,
		StartDate:          startDate,
		Description:        "",
		HighlightProfileID: profileID,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
}

// Touch updates the UpdatedAt timestamp to the current time.
func (a *Activity) Touch() {
	a.UpdatedAt = time.Now()
}
