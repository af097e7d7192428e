package matching

import (
	"context"
	"math"
	"strings"
	"unicode/utf8"

	"github.com/gdugdh24/buddyfit-backend/internal/domain"
)

// Factor weights. Each factor contributes at most its weight; the sum is scaled to 0-100.
const (
	SportsWeight   = 0.35
	GoalsWeight    = 0.25
	LocationWeight = 0.20
	AgeWeight      = 0.10
	ActivityWeight = 0.10
)

// DefaultScore is used for a pair whose inputs could not be assembled.
const DefaultScore = 50.0

const (
	locationExact      = 0.20
	locationCompact    = 0.18
	locationContains   = 0.12
	locationSharedWord = 0.08
	locationUnknown    = 0.05

	activityNeutral = 0.05
)

// ActivityLookup resolves a single user's approved event count. It is only
// consulted when the caller did not pass pre-resolved counts.
type ActivityLookup interface {
	ApprovedEventCount(ctx context.Context, userID int) (int, error)
}

// Calculator computes buddy compatibility scores. It holds no mutable state
// and is safe for concurrent use.
type Calculator struct {
	lookup ActivityLookup
}

// NewCalculator creates a calculator. lookup may be nil, in which case scores
// computed without counts get no activity contribution.
func NewCalculator(lookup ActivityLookup) *Calculator {
	return &Calculator{lookup: lookup}
}

// Score returns the compatibility of a and b in [0, 100] rounded to two decimals.
// counts maps user id to approved event count; ids missing from a non-nil map count as zero.
func (c *Calculator) Score(ctx context.Context, a, b *domain.UserProfile, counts map[int]int) (float64, error) {
	if a == nil || b == nil {
		return 0, domain.ErrInvalidInput
	}
	if a.ID != 0 && a.ID == b.ID {
		return 0, domain.ErrSelfComparison
	}

	total := overlapFactor(a.Sports, b.Sports, SportsWeight) +
		overlapFactor(a.Goals, b.Goals, GoalsWeight) +
		locationFactor(a.NormalizedLocation(), b.NormalizedLocation()) +
		ageFactor(a, b) +
		c.activity(ctx, a.ID, b.ID, counts)

	return roundScore(total * 100), nil
}

func (c *Calculator) activity(ctx context.Context, idA, idB int, counts map[int]int) float64 {
	if counts != nil {
		return activityFactor(counts[idA], counts[idB])
	}
	if c.lookup == nil {
		return 0
	}
	eventsA, err := c.lookup.ApprovedEventCount(ctx, idA)
	if err != nil {
		return activityNeutral
	}
	eventsB, err := c.lookup.ApprovedEventCount(ctx, idB)
	if err != nil {
		return activityNeutral
	}
	return activityFactor(eventsA, eventsB)
}

// overlapFactor is the Jaccard similarity of two affiliation sets scaled by weight.
// Two empty sets get half the weight; a single empty set gets nothing.
func overlapFactor(x, y []domain.Affiliation, weight float64) float64 {
	setX, setY := domain.AffiliationIDs(x), domain.AffiliationIDs(y)
	switch {
	case len(setX) == 0 && len(setY) == 0:
		return weight / 2
	case len(setX) == 0 || len(setY) == 0:
		return 0
	}

	common := 0
	for id := range setX {
		if _, ok := setY[id]; ok {
			common++
		}
	}
	union := len(setX) + len(setY) - common
	return float64(common) / float64(union) * weight
}

// locationFactor compares two normalized free-text locations.
func locationFactor(locA, locB string) float64 {
	if locA == "" || locB == "" {
		return locationUnknown
	}
	if locA == locB {
		return locationExact
	}
	if compactLocation(locA) == compactLocation(locB) {
		return locationCompact
	}
	if strings.Contains(locA, locB) || strings.Contains(locB, locA) {
		return locationContains
	}

	words := make(map[string]struct{})
	for _, w := range strings.Fields(locA) {
		if utf8.RuneCountInString(w) > 2 {
			words[w] = struct{}{}
		}
	}
	for _, w := range strings.Fields(locB) {
		if _, ok := words[w]; ok {
			return locationSharedWord
		}
	}
	return 0
}

func compactLocation(loc string) string {
	return strings.NewReplacer(",", "", " ", "").Replace(loc)
}

func ageFactor(a, b *domain.UserProfile) float64 {
	ageA, okA := a.AgeValue()
	ageB, okB := b.AgeValue()
	if !okA || !okB {
		return 0
	}

	diff := ageA - ageB
	if diff < 0 {
		diff = -diff
	}
	switch {
	case diff <= 3:
		return 0.10
	case diff <= 5:
		return 0.075
	case diff <= 10:
		return 0.05
	case diff <= 15:
		return 0.025
	default:
		return 0
	}
}

func activityFactor(eventsA, eventsB int) float64 {
	diff := eventsA - eventsB
	if diff < 0 {
		diff = -diff
	}
	switch {
	case eventsA >= 5 && eventsB >= 5:
		return 0.10
	case eventsA >= 3 && eventsB >= 3:
		return 0.075
	case eventsA <= 2 && eventsB <= 2:
		return activityNeutral
	case diff > 10:
		return 0.02
	default:
		return activityNeutral
	}
}

func roundScore(score float64) float64 {
	score = math.Round(score*100) / 100
	return math.Max(0, math.Min(100, score))
}
