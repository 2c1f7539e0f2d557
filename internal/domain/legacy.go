package domain

import "time"

// LegacySchemaVersion values. Version 1 is the denormalized embedded
// form produced by the original frontend saves; higher versions are
// reserved.
const (
	LegacySchemaV1 = 1
)

// LegacyHighlightRun is the embedded highlight-run blob stored on a
// profile before highlight runs became normalized Activity records.
type LegacyHighlightRun struct {
	Name               string         `json:"name"`
	StartDate          time.Time      `json:"start_date"`
	Distance           float64        `json:"distance"`
	MovingTime         int            `json:"moving_time"`
	TotalElevationGain float64        `json:"total_elevation_gain"`
	StartLatLng        []float64      `json:"start_latlng,omitempty"`
	EndLatLng          []float64      `json:"end_latlng,omitempty"`
	SummaryPolyline    string         `json:"summary_polyline,omitempty"`
	Metadata           map[string]any `json:"metadata,omitempty"`
}

// IsZero reports whether the blob is absent in all but name, which is
// the shape an empty frontend save produces. A highlight run with no
// name is not migratable either way.
func (h *LegacyHighlightRun) IsZero() bool {
	if h == nil {
		return true
	}
	return h.Name == "" && h.Distance == 0 && h.MovingTime == 0
}

// LegacyEvent is one entry of the embedded races array stored on a
// profile before races became normalized Activity records.
type LegacyEvent struct {
	Name               string    `json:"name"`
	StartDate          time.Time `json:"start_date"`
	Distance           float64   `json:"distance"`
	MovingTime         int       `json:"moving_time"`
	TotalElevationGain float64   `json:"total_elevation_gain,omitempty"`
}

// LegacyShoe is one entry of the embedded shoes array stored on a
// rotation (and historically on a profile). Brand, model and distance
// identify the shoe for de-duplication since legacy entries carry no id.
type LegacyShoe struct {
	BrandName string    `json:"brand_name"`
	ModelName string    `json:"model_name"`
	Distance  float64   `json:"distance"`
	StartDate time.Time `json:"start_date,omitzero"`
}
