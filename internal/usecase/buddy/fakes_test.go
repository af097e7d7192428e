package buddy

import (
	"context"
	"errors"
	"sync"

	"github.com/gdugdh24/buddyfit-backend/internal/domain"
)

var errRepoDown = errors.New("repository unavailable")

type fakeUsers struct {
	users  map[int]*domain.UserProfile
	getErr error
}

func (f *fakeUsers) GetByID(_ context.Context, id int) (*domain.UserProfile, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	u, ok := f.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUsers) GetByIDs(_ context.Context, ids []int) (map[int]*domain.UserProfile, error) {
	out := make(map[int]*domain.UserProfile)
	for _, id := range ids {
		if u, ok := f.users[id]; ok {
			out[id] = u
		}
	}
	return out, nil
}

func (f *fakeUsers) ListDiscoverable(_ context.Context, excludeIDs []int, limit int) ([]*domain.UserProfile, error) {
	skip := make(map[int]bool, len(excludeIDs))
	for _, id := range excludeIDs {
		skip[id] = true
	}
	var out []*domain.UserProfile
	for id := 1; id <= len(f.users) && len(out) < limit; id++ {
		u, ok := f.users[id]
		if !ok || skip[id] || !u.IsDiscoverable {
			continue
		}
		out = append(out, u)
	}
	return out, nil
}

type fakeBuddies struct {
	mu      sync.Mutex
	buddies []*domain.Buddy
	nextID  int
	pairErr error
	listErr error
	// beforeUpdate runs inside UpdateStatus before the pending check.
	beforeUpdate func(b *domain.Buddy)
}

func (f *fakeBuddies) Create(_ context.Context, b *domain.Buddy) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	b.ID = f.nextID
	cp := *b
	f.buddies = append(f.buddies, &cp)
	return nil
}

func (f *fakeBuddies) GetByID(_ context.Context, id int) (*domain.Buddy, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, b := range f.buddies {
		if b.ID == id {
			cp := *b
			return &cp, nil
		}
	}
	return nil, domain.ErrBuddyNotFound
}

func (f *fakeBuddies) GetByPair(_ context.Context, a, b int) (*domain.Buddy, error) {
	if f.pairErr != nil {
		return nil, f.pairErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	want := domain.NewPairKey(a, b)
	for _, existing := range f.buddies {
		if existing.Key() == want {
			cp := *existing
			return &cp, nil
		}
	}
	return nil, domain.ErrBuddyNotFound
}

func (f *fakeBuddies) ListByUser(_ context.Context, userID int) ([]*domain.Buddy, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*domain.Buddy
	for _, b := range f.buddies {
		if b.HasUser(userID) {
			out = append(out, b)
		}
	}
	return out, nil
}

func (f *fakeBuddies) RelatedUserIDs(ctx context.Context, userID int) ([]int, error) {
	list, err := f.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	var out []int
	for _, b := range list {
		other, _ := b.GetOtherUserID(userID)
		out = append(out, other)
	}
	return out, nil
}

func (f *fakeBuddies) UpdateStatus(_ context.Context, id int, status domain.BuddyStatus) (*domain.Buddy, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, b := range f.buddies {
		if b.ID == id {
			if f.beforeUpdate != nil {
				f.beforeUpdate(b)
			}
			if b.Status != domain.BuddyStatusPending {
				return nil, domain.ErrInvalidTransition
			}
			b.Status = status
			cp := *b
			return &cp, nil
		}
	}
	return nil, domain.ErrBuddyNotFound
}

func (f *fakeBuddies) Delete(_ context.Context, id int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, b := range f.buddies {
		if b.ID == id {
			f.buddies = append(f.buddies[:i], f.buddies[i+1:]...)
			return nil
		}
	}
	return domain.ErrBuddyNotFound
}

type fakeAffiliations struct {
	sports map[int][]domain.Affiliation
	goals  map[int][]domain.Affiliation
	err    error
}

func (f *fakeAffiliations) ListByUsers(_ context.Context, kind domain.AffiliationKind, _ []int) (map[int][]domain.Affiliation, error) {
	if f.err != nil {
		return nil, f.err
	}
	if kind == domain.AffiliationSport {
		return f.sports, nil
	}
	return f.goals, nil
}

type fakeActivity struct {
	counts    map[int]int
	events    map[int][]domain.EventSummary
	eventsErr error
}

func (f *fakeActivity) ApprovedEventCounts(context.Context, []int) (map[int]int, error) {
	return f.counts, nil
}

func (f *fakeActivity) ApprovedEventCount(_ context.Context, userID int) (int, error) {
	return f.counts[userID], nil
}

func (f *fakeActivity) RecentEvents(context.Context, []int, int) (map[int][]domain.EventSummary, error) {
	return f.events, f.eventsErr
}

type fakePhotos struct {
	photos map[int][]string
	err    error
}

func (f *fakePhotos) ListByUsers(context.Context, []int) (map[int][]string, error) {
	return f.photos, f.err
}

type fakeCatalogue struct {
	sports map[int]domain.Sport
}

func (f *fakeCatalogue) ByID(context.Context) (map[int]domain.Sport, error) {
	return f.sports, nil
}
