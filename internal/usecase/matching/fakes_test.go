package matching

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/gdugdh24/buddyfit-backend/internal/domain"
)

var errRepoDown = errors.New("repository unavailable")

type fakeUsers struct {
	users   []*domain.UserProfile
	err     error
	mu      sync.Mutex
	lastCap int
	lastEx  []int
}

func (f *fakeUsers) GetByID(_ context.Context, id int) (*domain.UserProfile, error) {
	for _, u := range f.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (f *fakeUsers) GetByIDs(ctx context.Context, ids []int) (map[int]*domain.UserProfile, error) {
	out := make(map[int]*domain.UserProfile)
	for _, id := range ids {
		if u, err := f.GetByID(ctx, id); err == nil {
			out[id] = u
		}
	}
	return out, nil
}

// ListDiscoverable ignores excludeIDs on purpose so the ranker's own filtering is exercised.
func (f *fakeUsers) ListDiscoverable(_ context.Context, excludeIDs []int, limit int) ([]*domain.UserProfile, error) {
	f.mu.Lock()
	f.lastCap, f.lastEx = limit, excludeIDs
	f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	if len(f.users) > limit {
		return f.users[:limit], nil
	}
	return f.users, nil
}

type fakeBuddies struct {
	related []int
	err     error
}

func (f *fakeBuddies) Create(context.Context, *domain.Buddy) error { return nil }
func (f *fakeBuddies) GetByID(context.Context, int) (*domain.Buddy, error) {
	return nil, domain.ErrBuddyNotFound
}
func (f *fakeBuddies) GetByPair(context.Context, int, int) (*domain.Buddy, error) {
	return nil, domain.ErrBuddyNotFound
}
func (f *fakeBuddies) ListByUser(context.Context, int) ([]*domain.Buddy, error) { return nil, nil }
func (f *fakeBuddies) RelatedUserIDs(context.Context, int) ([]int, error) {
	return f.related, f.err
}
func (f *fakeBuddies) UpdateStatus(context.Context, int, domain.BuddyStatus) (*domain.Buddy, error) {
	return nil, domain.ErrBuddyNotFound
}
func (f *fakeBuddies) Delete(context.Context, int) error { return nil }

type fakeAffiliations struct {
	sports   map[int][]domain.Affiliation
	goals    map[int][]domain.Affiliation
	sportErr error
	goalErr  error
	mu       sync.Mutex
	calls    int
}

func (f *fakeAffiliations) ListByUsers(_ context.Context, kind domain.AffiliationKind, _ []int) (map[int][]domain.Affiliation, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	if kind == domain.AffiliationSport {
		return f.sports, f.sportErr
	}
	return f.goals, f.goalErr
}

type fakeActivity struct {
	counts map[int]int
	err    error
	mu     sync.Mutex
	calls  int
}

func (f *fakeActivity) ApprovedEventCounts(context.Context, []int) (map[int]int, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	return f.counts, f.err
}

func (f *fakeActivity) ApprovedEventCount(_ context.Context, userID int) (int, error) {
	return f.counts[userID], f.err
}

func (f *fakeActivity) RecentEvents(context.Context, []int, int) (map[int][]domain.EventSummary, error) {
	return map[int][]domain.EventSummary{}, nil
}

func ids(results []ScoredCandidate) []int {
	out := make([]int, len(results))
	for i, r := range results {
		out[i] = r.User.ID
	}
	return out
}

func sortedCopy(in []int) []int {
	out := append([]int(nil), in...)
	sort.Ints(out)
	return out
}
