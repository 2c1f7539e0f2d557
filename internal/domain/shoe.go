package domain

import "time"

// ShoeCategory classifies what a shoe is used for in training.
type ShoeCategory string

const (
	CategoryDailyTrainer ShoeCategory = "daily_trainer"
	CategoryTempo        ShoeCategory = "tempo"
	CategoryRace         ShoeCategory = "race"
	CategoryLongRun      ShoeCategory = "long_run"
)

// ValidShoeCategory reports whether c is one of the known categories.
func ValidShoeCategory(c ShoeCategory) bool {
	switch c {
	case CategoryDailyTrainer, CategoryTempo, CategoryRace, CategoryLongRun:
		return true
	}
	return false
}

// ExternalSource records where an imported shoe came from.
type ExternalSource struct {
	ExternalID     string `json:"external_id"`
	ExternalSource string `json:"external_source"`
}

// Shoe is an owned shoe record belonging to exactly one profile.
type Shoe struct {
	ID             string          `json:"id"`
	ProfileID      string          `json:"profile_id"`
	BrandName      string          `json:"brand_name"`
	ModelName      string          `json:"model_name"`
	DistanceMeters float64         `json:"distance_meters"`
	StartDate      time.Time       `json:"start_date"`
	Description    string          `json:"description"`
	Categories     []ShoeCategory  `json:"categories,omitempty"`
	External       *ExternalSource `json:"external,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// NewShoe creates an owned shoe with timestamps initialized. An absent
// start date defaults to now.
func NewShoe(id, profileID, brand, model string, distanceMeters float64, startDate time.Time) *Shoe {
	now := time.Now()
	if startDate.IsZero() {
		startDate = now
	}
	return &Shoe{
		ID:             id,
		ProfileID:      profileID,
		BrandName:      brand,
		ModelName:      model,
		DistanceMeters: distanceMeters,
		StartDate:      startDate,
		Description:    "",
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// Touch updates the UpdatedAt timestamp to the current time.
func (s *Shoe) Touch() {
	s.UpdatedAt = time.Now()
}
