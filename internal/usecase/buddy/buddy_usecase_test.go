package buddy

import (
	"context"
	"testing"
	"time"

	"github.com/gdugdh24/buddyfit-backend/internal/domain"
	"github.com/gdugdh24/buddyfit-backend/internal/usecase/matching"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

func aff(ids ...int) []domain.Affiliation {
	out := make([]domain.Affiliation, len(ids))
	for i, id := range ids {
		out[i] = domain.Affiliation{ID: id}
	}
	return out
}

type fixture struct {
	users        *fakeUsers
	buddies      *fakeBuddies
	affiliations *fakeAffiliations
	activity     *fakeActivity
	photos       *fakePhotos
	uc           *BuddyUseCase
}

// newFixture builds four discoverable users. Against user 1, user 2 scores
// 90.0, user 3 scores 22.5 and user 4 scores 10.0.
func newFixture() *fixture {
	f := &fixture{
		users: &fakeUsers{users: map[int]*domain.UserProfile{
			1: {ID: 1, FullName: "Ann", Location: strPtr("Austin"), IsDiscoverable: true},
			2: {ID: 2, FullName: "Bob", Location: strPtr("Austin"), IsDiscoverable: true},
			3: {ID: 3, FullName: "Cid", Location: strPtr("Dallas"), Age: intPtr(30), IsDiscoverable: true},
			4: {ID: 4, FullName: "Dee", IsDiscoverable: true},
		}},
		buddies: &fakeBuddies{},
		affiliations: &fakeAffiliations{
			sports: map[int][]domain.Affiliation{
				1: aff(10),
				2: aff(10),
				3: aff(10, 11),
			},
			goals: map[int][]domain.Affiliation{
				1: aff(20),
				2: aff(20),
			},
		},
		activity: &fakeActivity{
			counts: map[int]int{1: 6, 2: 10, 3: 1},
			events: map[int][]domain.EventSummary{
				3: {{ID: 100, Title: "Morning run", SportID: intPtr(10), StartTime: time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC)}},
			},
		},
		photos: &fakePhotos{photos: map[int][]string{3: {"https://cdn.example/3.jpg"}}},
	}
	calculator := matching.NewCalculator(f.activity)
	ranker := matching.NewRanker(f.users, f.buddies, f.affiliations, f.activity, calculator, nil, zerolog.Nop())
	catalogue := &fakeCatalogue{sports: map[int]domain.Sport{10: {ID: 10, Name: "Running"}}}
	f.uc = NewBuddyUseCase(f.users, f.buddies, f.affiliations, f.activity, f.photos, catalogue, ranker, calculator, zerolog.Nop())
	return f
}

func suggestedIDs(items []*SuggestedBuddy) []int {
	out := make([]int, len(items))
	for i, item := range items {
		out[i] = item.User.ID
	}
	return out
}

func TestSuggestRanksAndEnriches(t *testing.T) {
	f := newFixture()

	got, err := f.uc.Suggest(context.Background(), 1, &SuggestRequest{Limit: 10, MinScore: 20})
	require.NoError(t, err)
	require.Equal(t, []int{2, 3, 4}, suggestedIDs(got))

	assert.Equal(t, 90.0, got[0].Score)
	assert.Equal(t, 22.5, got[1].Score)
	assert.Equal(t, 10.0, got[2].Score)

	assert.Equal(t, []Badge{{Name: "Event Veteran", Icon: "🏆"}}, got[0].User.Badges)
	assert.Equal(t, 10, got[0].User.EventCount)

	cid := got[1].User
	require.Len(t, cid.RecentEvents, 1)
	require.NotNil(t, cid.RecentEvents[0].Sport)
	assert.Equal(t, "Running", cid.RecentEvents[0].Sport.Name)
	assert.Equal(t, []string{"https://cdn.example/3.jpg"}, cid.Photos)
	assert.Equal(t, []Badge{{Name: "Getting Started", Icon: "🌱"}}, cid.Badges)

	dee := got[2].User
	assert.Empty(t, dee.Badges)
	assert.NotNil(t, dee.Photos)
	assert.NotNil(t, dee.Sports)
	assert.NotNil(t, dee.RecentEvents)
}

func TestSuggestPaginates(t *testing.T) {
	f := newFixture()

	got, err := f.uc.Suggest(context.Background(), 1, &SuggestRequest{Limit: 1, Offset: 1})
	require.NoError(t, err)
	assert.Equal(t, []int{3}, suggestedIDs(got))

	got, err = f.uc.Suggest(context.Background(), 1, &SuggestRequest{Limit: 10, Offset: 5})
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestSuggestSkipsRelatedUsers(t *testing.T) {
	f := newFixture()
	_, err := f.uc.Create(context.Background(), 2, &CreateBuddyRequest{User2ID: 1})
	require.NoError(t, err)

	got, err := f.uc.Suggest(context.Background(), 1, &SuggestRequest{Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, []int{3, 4}, suggestedIDs(got))
}

func TestSuggestRequiresDiscoverableSubject(t *testing.T) {
	f := newFixture()
	f.users.users[1].IsDiscoverable = false

	_, err := f.uc.Suggest(context.Background(), 1, &SuggestRequest{Limit: 10})
	assert.ErrorIs(t, err, domain.ErrNotDiscoverable)

	_, err = f.uc.Suggest(context.Background(), 99, &SuggestRequest{Limit: 10})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestSuggestToleratesEnrichmentFailures(t *testing.T) {
	f := newFixture()
	f.activity.eventsErr = errRepoDown
	f.photos.err = errRepoDown

	got, err := f.uc.Suggest(context.Background(), 1, &SuggestRequest{Limit: 10})
	require.NoError(t, err)
	require.Len(t, got, 3)
	for _, s := range got {
		assert.Empty(t, s.User.RecentEvents)
		assert.Empty(t, s.User.Photos)
	}
}

func TestBadgesFor(t *testing.T) {
	tests := []struct {
		name   string
		events int
		sports int
		want   []string
	}{
		{"newcomer", 0, 1, nil},
		{"getting started", 1, 0, []string{"Getting Started"}},
		{"active", 5, 2, []string{"Active Member"}},
		{"veteran multi-sport", 12, 5, []string{"Event Veteran", "Multi-Sport"}},
		{"multi-sport only", 0, 6, []string{"Multi-Sport"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var names []string
			for _, b := range badgesFor(tt.events, tt.sports) {
				names = append(names, b.Name)
			}
			assert.Equal(t, tt.want, names)
		})
	}
}

func TestCreate(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	buddy, err := f.uc.Create(ctx, 1, &CreateBuddyRequest{User2ID: 2})
	require.NoError(t, err)
	assert.Equal(t, 1, buddy.User1ID)
	assert.Equal(t, 2, buddy.User2ID)
	assert.Equal(t, domain.BuddyStatusPending, buddy.Status)
	require.NotNil(t, buddy.MatchScore)
	assert.Equal(t, 90.0, *buddy.MatchScore)

	_, err = f.uc.Create(ctx, 2, &CreateBuddyRequest{User2ID: 1})
	assert.ErrorIs(t, err, domain.ErrBuddyAlreadyExists)

	_, err = f.uc.Create(ctx, 1, &CreateBuddyRequest{User2ID: 1})
	assert.ErrorIs(t, err, domain.ErrCannotBuddySelf)

	_, err = f.uc.Create(ctx, 1, &CreateBuddyRequest{User2ID: 42})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestCreateFallsBackToDefaultScore(t *testing.T) {
	f := newFixture()
	f.affiliations.err = errRepoDown

	buddy, err := f.uc.Create(context.Background(), 1, &CreateBuddyRequest{User2ID: 3})
	require.NoError(t, err)
	require.NotNil(t, buddy.MatchScore)
	assert.Equal(t, matching.DefaultScore, *buddy.MatchScore)
}

func TestCreateContinuesWhenExistenceCheckFails(t *testing.T) {
	f := newFixture()
	f.buddies.pairErr = errRepoDown

	buddy, err := f.uc.Create(context.Background(), 1, &CreateBuddyRequest{User2ID: 4})
	require.NoError(t, err)
	assert.NotZero(t, buddy.ID)
}

func TestList(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.buddies.buddies = []*domain.Buddy{
		{ID: 1, User1ID: 1, User2ID: 2, Status: domain.BuddyStatusPending},
		{ID: 2, User1ID: 3, User2ID: 1, Status: domain.BuddyStatusAccepted},
		{ID: 3, User1ID: 1, User2ID: 77, Status: domain.BuddyStatusPending},
		{ID: 1, User1ID: 1, User2ID: 2, Status: domain.BuddyStatusPending},
	}

	all, err := f.uc.List(ctx, 1, "")
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "Ann", all[0].User1.FullName)
	assert.Equal(t, "Bob", all[0].User2.FullName)
	assert.Equal(t, "Cid", all[1].User1.FullName)
	assert.Equal(t, "Unknown", all[2].User2.FullName)
	assert.Len(t, all[0].User1.Sports, 1)

	pending, err := f.uc.List(ctx, 1, "pending")
	require.NoError(t, err)
	require.Len(t, pending, 2)
	for _, b := range pending {
		assert.Equal(t, domain.BuddyStatusPending, b.Status)
	}

	_, err = f.uc.List(ctx, 1, "blocked")
	assert.ErrorIs(t, err, domain.ErrInvalidStatus)
}

func TestListEmpty(t *testing.T) {
	f := newFixture()

	got, err := f.uc.List(context.Background(), 1, "")
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestListUnavailable(t *testing.T) {
	f := newFixture()
	f.buddies.listErr = errRepoDown

	_, err := f.uc.List(context.Background(), 1, "")
	assert.ErrorIs(t, err, domain.ErrServiceUnavailable)
	assert.NotErrorIs(t, err, errRepoDown)
}

func TestUpdateStatus(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		caller  int
		buddyID int
		status  domain.BuddyStatus
		wantErr error
	}{
		{"receiver accepts", 2, 1, domain.BuddyStatusAccepted, nil},
		{"receiver rejects", 2, 1, domain.BuddyStatusRejected, nil},
		{"initiator cannot resolve", 1, 1, domain.BuddyStatusAccepted, domain.ErrNotReceiver},
		{"already resolved", 1, 2, domain.BuddyStatusRejected, domain.ErrInvalidTransition},
		{"unknown buddy", 2, 9, domain.BuddyStatusAccepted, domain.ErrBuddyNotFound},
		{"pending is not a decision", 2, 1, domain.BuddyStatusPending, domain.ErrInvalidStatus},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			f.buddies.buddies = []*domain.Buddy{
				{ID: 1, User1ID: 1, User2ID: 2, Status: domain.BuddyStatusPending},
				{ID: 2, User1ID: 3, User2ID: 1, Status: domain.BuddyStatusAccepted},
			}

			got, err := f.uc.UpdateStatus(ctx, tt.caller, tt.buddyID, &UpdateBuddyRequest{Status: tt.status})
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.status, got.Status)
		})
	}
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	f.buddies.buddies = []*domain.Buddy{
		{ID: 1, User1ID: 1, User2ID: 2, Status: domain.BuddyStatusPending},
		{ID: 2, User1ID: 3, User2ID: 1, Status: domain.BuddyStatusAccepted},
	}

	assert.ErrorIs(t, f.uc.Delete(ctx, 4, 1), domain.ErrNotParticipant)
	require.NoError(t, f.uc.Delete(ctx, 1, 1))
	require.NoError(t, f.uc.Delete(ctx, 1, 2))
	assert.ErrorIs(t, f.uc.Delete(ctx, 1, 2), domain.ErrBuddyNotFound)
}

func TestUpdateStatusLosesToConcurrentDecision(t *testing.T) {
	f := newFixture()
	f.buddies.buddies = []*domain.Buddy{
		{ID: 1, User1ID: 1, User2ID: 2, Status: domain.BuddyStatusPending},
	}
	// another request rejects it between the read and the write
	f.buddies.beforeUpdate = func(b *domain.Buddy) {
		b.Status = domain.BuddyStatusRejected
	}

	_, err := f.uc.UpdateStatus(context.Background(), 2, 1, &UpdateBuddyRequest{Status: domain.BuddyStatusAccepted})
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	stored, err := f.buddies.GetByID(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, domain.BuddyStatusRejected, stored.Status)
}
