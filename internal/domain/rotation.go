package domain

import (
	"slices"
	"time"
)

// ShoeRotation is a named, dated grouping of shoes a profile used over
// a period. ShoeIDs is the authoritative link list; Shoes is the legacy
// embedded display copy retained from denormalized saves.
type ShoeRotation struct {
	ID          string    `json:"id"`
	ProfileID   string    `json:"profile_id"`
	Name        string    `json:"name"`
	StartDate   time.Time `json:"start_date"`
	Description string    `json:"description"`

	ShoeIDs []string     `json:"shoe_ids,omitempty"`
	Shoes   []LegacyShoe `json:"shoes,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewShoeRotation creates a rotation with timestamps initialized.
func NewShoeRotation(id, profileID, name string, startDate time.Time) *ShoeRotation {
	now := time.Now()
	return &ShoeRotation{
		ID:        id,
		ProfileID: profileID,
		Name:      name,
		StartDate: startDate,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// HasShoe reports whether the shoe is already linked into this rotation.
func (r *ShoeRotation) HasShoe(shoeID string) bool {
	return slices.Contains(r.ShoeIDs, shoeID)
}

// LinkShoe adds the shoe to the rotation's link list if not already
// present. Returns true if the list changed.
func (r *ShoeRotation) LinkShoe(shoeID string) bool {
	if r.HasShoe(shoeID) {
		return false
	}
	r.ShoeIDs = append(r.ShoeIDs, shoeID)
	return true
}

// Touch updates the UpdatedAt timestamp to the current time.
func (r *ShoeRotation) Touch() {
	r.UpdatedAt = time.Now()
}
