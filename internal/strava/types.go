package strava

import "time"

// TokenResponse is the payload of Strava's OAuth token endpoint, for
// both the initial code exchange and refreshes.
type TokenResponse struct {
	AccessToken  string  `json:"access_token"`
	RefreshToken string  `json:"refresh_token"`
	ExpiresAt    int64   `json:"expires_at"` // Unix seconds
	Athlete      Athlete `json:"athlete"`    // Present on code exchange only
}

// Expiry returns the access token expiry as a time.Time.
func (t *TokenResponse) Expiry() time.Time {
	return time.Unix(t.ExpiresAt, 0)
}

// Athlete is the minimal athlete payload the app needs.
type Athlete struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	FirstName string `json:"firstname"`
	LastName  string `json:"lastname"`
	Shoes     []Gear `json:"shoes"`
}

// Activity is a summary activity from the athlete activities feed.
type Activity struct {
	ID                 int64     `json:"id"`
	Name               string    `json:"name"`
	Distance           float64   `json:"distance"`    // meters
	MovingTime         int       `json:"moving_time"` // seconds
	TotalElevationGain float64   `json:"total_elevation_gain"`
	StartDate          time.Time `json:"start_date"`
	WorkoutType        int       `json:"workout_type"` // 1 = race for runs
	StartLatLng        []float64 `json:"start_latlng"`
	EndLatLng          []float64 `json:"end_latlng"`
	Map                Map       `json:"map"`
}

// Map carries the encoded route polyline of an activity.
type Map struct {
	SummaryPolyline string `json:"summary_polyline"`
}

// workoutTypeRace is Strava's workout_type value for a run race.
const workoutTypeRace = 1

// IsRace reports whether the activity is tagged as a race.
func (a *Activity) IsRace() bool {
	return a.WorkoutType == workoutTypeRace
}

// Gear is a shoe entry from the athlete's gear list. Name is a display
// string like "Saucony Ride 15" that needs brand/model splitting.
type Gear struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Distance float64 `json:"distance"` // meters
}
