package domain

import (
	"strings"
	"time"
)

// UserProfile is the read model the matching engine works on. Age and Location
// are optional; Sports and Goals are resolved separately and attached before scoring.
type UserProfile struct {
	ID             int           `json:"id" db:"id"`
	FullName       string        `json:"full_name" db:"full_name"`
	Age            *int          `json:"age" db:"age"`
	Location       *string       `json:"location" db:"location"`
	Bio            *string       `json:"bio" db:"bio"`
	AvatarURL      *string       `json:"avatar_url" db:"avatar_url"`
	IsDiscoverable bool          `json:"is_discoverable" db:"is_discoverable"`
	IsActive       bool          `json:"is_active" db:"is_active"`
	CreatedAt      time.Time     `json:"created_at" db:"created_at"`
	Sports         []Affiliation `json:"sports" db:"-"`
	Goals          []Affiliation `json:"goals" db:"-"`
}

// AgeValue returns the age and whether it is known. Zero counts as unknown.
func (u *UserProfile) AgeValue() (int, bool) {
	if u.Age == nil || *u.Age <= 0 {
		return 0, false
	}
	return *u.Age, true
}

// NormalizedLocation returns the lower-cased, trimmed location or "".
func (u *UserProfile) NormalizedLocation() string {
	if u.Location == nil {
		return ""
	}
	return strings.ToLower(strings.TrimSpace(*u.Location))
}

// AffiliationKind distinguishes the two affiliation tables.
type AffiliationKind string

const (
	AffiliationSport AffiliationKind = "sport"
	AffiliationGoal  AffiliationKind = "goal"
)

// Affiliation is a sport or goal a user has picked.
type Affiliation struct {
	ID   int     `json:"id" db:"id"`
	Name string  `json:"name" db:"name"`
	Icon *string `json:"icon,omitempty" db:"icon"`
}

// AffiliationIDs returns the distinct ids of the given affiliations.
func AffiliationIDs(items []Affiliation) map[int]struct{} {
	ids := make(map[int]struct{}, len(items))
	for _, item := range items {
		ids[item.ID] = struct{}{}
	}
	return ids
}

// Sport is an entry of the sports catalogue.
type Sport struct {
	ID   int     `json:"id" db:"id"`
	Name string  `json:"name" db:"name"`
	Icon *string `json:"icon" db:"icon"`
}

// EventSummary is a short view of an event a user attended.
type EventSummary struct {
	ID        int       `json:"id" db:"id"`
	Title     string    `json:"title" db:"title"`
	SportID   *int      `json:"-" db:"sport_id"`
	Sport     *Sport    `json:"sport" db:"-"`
	StartTime time.Time `json:"start_time" db:"start_time"`
}
