package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLegacyHighlightRunIsZero(t *testing.T) {
	var nilRun *LegacyHighlightRun
	assert.True(t, nilRun.IsZero())

	assert.True(t, (&LegacyHighlightRun{}).IsZero())

	run := &LegacyHighlightRun{Name: "Dawn Loop", Distance: 10000, MovingTime: 3600}
	assert.False(t, run.IsZero())
}

func TestProfileHasLegacyData(t *testing.T) {
	p := NewProfile("prof-1", "user-1", "alex", "Alex")
	assert.False(t, p.HasLegacyData())

	p.LegacyHighlightRun = &LegacyHighlightRun{}
	assert.False(t, p.HasLegacyData(), "empty blob should not count as legacy data")

	p.LegacyEvents = []LegacyEvent{{Name: "Oakland Marathon"}}
	assert.True(t, p.HasLegacyData())
}

func TestStravaConnectionNeedsRefresh(t *testing.T) {
	now := time.Now()
	conn := &StravaConnection{ExpiresAt: now.Add(10 * time.Minute)}
	assert.False(t, conn.NeedsRefresh(now))

	conn.ExpiresAt = now.Add(30 * time.Second)
	assert.True(t, conn.NeedsRefresh(now))

	conn.ExpiresAt = now.Add(-time.Hour)
	assert.True(t, conn.NeedsRefresh(now))
}

func TestRotationLinkShoe(t *testing.T) {
	r := NewShoeRotation("rot-1", "prof-1", "Spring Block", time.Now())

	assert.True(t, r.LinkShoe("shoe-1"))
	assert.True(t, r.HasShoe("shoe-1"))

	assert.False(t, r.LinkShoe("shoe-1"), "re-link should not change the list")
	assert.Len(t, r.ShoeIDs, 1)
}

func TestNewShoeDefaultsStartDate(t *testing.T) {
	before := time.Now()
	s := NewShoe("shoe-1", "prof-1", "Saucony", "Ride 15", 82803, time.Time{})
	assert.False(t, s.StartDate.Before(before))

	want := time.Date(2023, 3, 19, 0, 0, 0, 0, time.UTC)
	s = NewShoe("shoe-2", "prof-1", "Saucony", "Ride 15", 82803, want)
	assert.Equal(t, want, s.StartDate)
}

func TestActivityRoles(t *testing.T) {
	race := NewRace("act-1", "prof-1", "Oakland Marathon", time.Now())
	assert.True(t, race.IsRace())
	assert.False(t, race.IsHighlight())
	assert.Equal(t, WorkoutTypeRace, race.WorkoutType)

	hl := NewHighlightRun("act-2", "prof-1", "Dawn Loop", time.Now())
	assert.True(t, hl.IsHighlight())
	assert.False(t, hl.IsRace())
}
