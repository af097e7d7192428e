package buddy

import (
	"context"
	"errors"
	"fmt"

	"github.com/gdugdh24/buddyfit-backend/internal/domain"
	"github.com/gdugdh24/buddyfit-backend/internal/repository"
	"github.com/gdugdh24/buddyfit-backend/internal/usecase/matching"
	"github.com/rs/zerolog"
)

// recentEventsPerUser is how many attended events a suggestion shows.
const recentEventsPerUser = 3

// SportCatalogue resolves sport ids to catalogue entries.
type SportCatalogue interface {
	ByID(ctx context.Context) (map[int]domain.Sport, error)
}

type BuddyUseCase struct {
	userRepo        repository.UserRepository
	buddyRepo       repository.BuddyRepository
	affiliationRepo repository.AffiliationRepository
	activityRepo    repository.ActivityRepository
	photoRepo       repository.PhotoRepository
	sports          SportCatalogue
	ranker          *matching.Ranker
	calculator      *matching.Calculator
	logger          zerolog.Logger
}

func NewBuddyUseCase(
	userRepo repository.UserRepository,
	buddyRepo repository.BuddyRepository,
	affiliationRepo repository.AffiliationRepository,
	activityRepo repository.ActivityRepository,
	photoRepo repository.PhotoRepository,
	sports SportCatalogue,
	ranker *matching.Ranker,
	calculator *matching.Calculator,
	logger zerolog.Logger,
) *BuddyUseCase {
	return &BuddyUseCase{
		userRepo:        userRepo,
		buddyRepo:       buddyRepo,
		affiliationRepo: affiliationRepo,
		activityRepo:    activityRepo,
		photoRepo:       photoRepo,
		sports:          sports,
		ranker:          ranker,
		calculator:      calculator,
		logger:          logger.With().Str("component", "buddy_usecase").Logger(),
	}
}

// SuggestRequest represents the suggested buddies query
type SuggestRequest struct {
	Limit    int     `form:"limit,default=10" binding:"min=1,max=50"`
	MinScore float64 `form:"min_score,default=20" binding:"min=0,max=100"`
	Offset   int     `form:"offset,default=0" binding:"min=0"`
}

// CreateBuddyRequest represents a buddy request
type CreateBuddyRequest struct {
	User2ID int `json:"user2_id" binding:"required,min=1"`
}

// UpdateBuddyRequest represents an accept or reject decision
type UpdateBuddyRequest struct {
	Status domain.BuddyStatus `json:"status" binding:"required,oneof=accepted rejected"`
}

// Badge is an achievement shown on a suggestion card
type Badge struct {
	Name string `json:"name"`
	Icon string `json:"icon"`
}

// SuggestedUser is a candidate profile enriched for display
type SuggestedUser struct {
	ID           int                   `json:"id"`
	FullName     string                `json:"full_name"`
	Age          *int                  `json:"age"`
	Location     *string               `json:"location"`
	AvatarURL    *string               `json:"avatar_url"`
	Bio          *string               `json:"bio"`
	Sports       []domain.Affiliation  `json:"sports"`
	Goals        []domain.Affiliation  `json:"goals"`
	RecentEvents []domain.EventSummary `json:"recent_events"`
	Badges       []Badge               `json:"badges"`
	EventCount   int                   `json:"event_count"`
	Photos       []string              `json:"photos"`
}

// SuggestedBuddy is one entry of the suggestions page
type SuggestedBuddy struct {
	User  SuggestedUser `json:"user"`
	Score float64       `json:"score"`
}

// BuddyUser is the public view of a relationship participant
type BuddyUser struct {
	ID        int                  `json:"id"`
	FullName  string               `json:"full_name"`
	Age       *int                 `json:"age"`
	Location  *string              `json:"location"`
	AvatarURL *string              `json:"avatar_url"`
	Bio       *string              `json:"bio"`
	Sports    []domain.Affiliation `json:"sports"`
	Goals     []domain.Affiliation `json:"goals"`
}

// BuddyDetail is a relationship with both participants resolved
type BuddyDetail struct {
	*domain.Buddy
	User1 BuddyUser `json:"user1"`
	User2 BuddyUser `json:"user2"`
}

// Suggest ranks every eligible candidate for userID and returns one page of them.
func (uc *BuddyUseCase) Suggest(ctx context.Context, userID int, req *SuggestRequest) ([]*SuggestedBuddy, error) {
	subject, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !subject.IsDiscoverable {
		return nil, domain.ErrNotDiscoverable
	}

	subject.Sports, subject.Goals = uc.ownAffiliations(ctx, userID)

	ranked, err := uc.ranker.Rank(ctx, subject, matching.RankOptions{MinScore: req.MinScore})
	if err != nil {
		return nil, fmt.Errorf("failed to rank buddies: %w", err)
	}

	page := paginate(ranked, req.Offset, req.Limit)
	if len(page) == 0 {
		return []*SuggestedBuddy{}, nil
	}

	return uc.enrich(ctx, page), nil
}

func (uc *BuddyUseCase) ownAffiliations(ctx context.Context, userID int) (sports, goals []domain.Affiliation) {
	ids := []int{userID}
	if bySport, err := uc.affiliationRepo.ListByUsers(ctx, domain.AffiliationSport, ids); err == nil {
		sports = bySport[userID]
	} else {
		uc.logger.Warn().Err(err).Int("user_id", userID).Msg("Failed to fetch own sports")
	}
	if byGoal, err := uc.affiliationRepo.ListByUsers(ctx, domain.AffiliationGoal, ids); err == nil {
		goals = byGoal[userID]
	} else {
		uc.logger.Warn().Err(err).Int("user_id", userID).Msg("Failed to fetch own goals")
	}
	return sports, goals
}

func paginate(items []matching.ScoredCandidate, offset, limit int) []matching.ScoredCandidate {
	if offset >= len(items) {
		return nil
	}
	end := len(items)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return items[offset:end]
}

// enrich attaches recent events, photos and badges to a page of candidates.
// Every lookup is batched and optional.
func (uc *BuddyUseCase) enrich(ctx context.Context, page []matching.ScoredCandidate) []*SuggestedBuddy {
	ids := make([]int, len(page))
	for i, c := range page {
		ids[i] = c.User.ID
	}

	events, err := uc.activityRepo.RecentEvents(ctx, ids, recentEventsPerUser)
	if err != nil {
		uc.logger.Warn().Err(err).Msg("Failed to fetch recent events")
		events = map[int][]domain.EventSummary{}
	}

	var sportsByID map[int]domain.Sport
	if hasEventSports(events) {
		if sportsByID, err = uc.sports.ByID(ctx); err != nil {
			uc.logger.Warn().Err(err).Msg("Failed to resolve event sports")
		}
	}

	photos, err := uc.photoRepo.ListByUsers(ctx, ids)
	if err != nil {
		uc.logger.Warn().Err(err).Msg("Failed to fetch photos")
		photos = map[int][]string{}
	}

	result := make([]*SuggestedBuddy, 0, len(page))
	for _, c := range page {
		u := c.User
		recent := make([]domain.EventSummary, 0, len(events[u.ID]))
		for _, ev := range events[u.ID] {
			if ev.SportID != nil {
				if sport, ok := sportsByID[*ev.SportID]; ok {
					ev.Sport = &sport
				}
			}
			recent = append(recent, ev)
		}

		userPhotos := photos[u.ID]
		if userPhotos == nil {
			userPhotos = []string{}
		}

		result = append(result, &SuggestedBuddy{
			User: SuggestedUser{
				ID:           u.ID,
				FullName:     u.FullName,
				Age:          u.Age,
				Location:     u.Location,
				AvatarURL:    u.AvatarURL,
				Bio:          u.Bio,
				Sports:       nonNil(u.Sports),
				Goals:        nonNil(u.Goals),
				RecentEvents: recent,
				Badges:       badgesFor(c.EventCount, len(u.Sports)),
				EventCount:   c.EventCount,
				Photos:       userPhotos,
			},
			Score: c.Score,
		})
	}
	return result
}

func hasEventSports(events map[int][]domain.EventSummary) bool {
	for _, list := range events {
		for _, ev := range list {
			if ev.SportID != nil {
				return true
			}
		}
	}
	return false
}

func badgesFor(eventCount, sportCount int) []Badge {
	badges := []Badge{}
	switch {
	case eventCount >= 10:
		badges = append(badges, Badge{Name: "Event Veteran", Icon: "🏆"})
	case eventCount >= 5:
		badges = append(badges, Badge{Name: "Active Member", Icon: "⭐"})
	case eventCount >= 1:
		badges = append(badges, Badge{Name: "Getting Started", Icon: "🌱"})
	}
	if sportCount >= 5 {
		badges = append(badges, Badge{Name: "Multi-Sport", Icon: "🎯"})
	}
	return badges
}

func nonNil(items []domain.Affiliation) []domain.Affiliation {
	if items == nil {
		return []domain.Affiliation{}
	}
	return items
}

// Create proposes a buddy relationship from userID to req.User2ID.
func (uc *BuddyUseCase) Create(ctx context.Context, userID int, req *CreateBuddyRequest) (*domain.Buddy, error) {
	if userID == req.User2ID {
		return nil, domain.ErrCannotBuddySelf
	}

	target, err := uc.userRepo.GetByID(ctx, req.User2ID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get target user: %w", err)
	}

	// Either direction counts as an existing relationship. A failed check does
	// not block the request.
	existing, err := uc.buddyRepo.GetByPair(ctx, userID, req.User2ID)
	switch {
	case err == nil && existing != nil:
		return nil, domain.ErrBuddyAlreadyExists
	case err != nil && !errors.Is(err, domain.ErrBuddyNotFound):
		uc.logger.Warn().Err(err).Int("user_id", userID).Int("user2_id", req.User2ID).Msg("Existing buddy check failed")
	}

	score := uc.pairScore(ctx, userID, target)
	buddy := &domain.Buddy{
		User1ID:    userID,
		User2ID:    req.User2ID,
		MatchScore: &score,
		Status:     domain.BuddyStatusPending,
	}
	if err := uc.buddyRepo.Create(ctx, buddy); err != nil {
		return nil, fmt.Errorf("failed to create buddy request: %w", err)
	}

	return buddy, nil
}

// pairScore scores two users for a new request, falling back to
// matching.DefaultScore when any input cannot be loaded.
func (uc *BuddyUseCase) pairScore(ctx context.Context, userID int, target *domain.UserProfile) float64 {
	logger := uc.logger.With().Int("user_id", userID).Int("user2_id", target.ID).Logger()

	subject, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		logger.Warn().Err(err).Msg("Failed to load requester, using default score")
		return matching.DefaultScore
	}

	ids := []int{userID, target.ID}
	sports, err := uc.affiliationRepo.ListByUsers(ctx, domain.AffiliationSport, ids)
	if err != nil {
		logger.Warn().Err(err).Msg("Failed to load sports, using default score")
		return matching.DefaultScore
	}
	goals, err := uc.affiliationRepo.ListByUsers(ctx, domain.AffiliationGoal, ids)
	if err != nil {
		logger.Warn().Err(err).Msg("Failed to load goals, using default score")
		return matching.DefaultScore
	}

	a, b := *subject, *target
	a.Sports, a.Goals = sports[a.ID], goals[a.ID]
	b.Sports, b.Goals = sports[b.ID], goals[b.ID]

	// nil counts: the calculator looks activity up per user
	score, err := uc.calculator.Score(ctx, &a, &b, nil)
	if err != nil {
		logger.Warn().Err(err).Msg("Scoring failed, using default score")
		return matching.DefaultScore
	}
	return score
}

// List returns every relationship of userID, optionally filtered by status.
func (uc *BuddyUseCase) List(ctx context.Context, userID int, status string) ([]*BuddyDetail, error) {
	if status != "" && !domain.BuddyStatus(status).Valid() {
		return nil, domain.ErrInvalidStatus
	}

	all, err := uc.buddyRepo.ListByUser(ctx, userID)
	if err != nil {
		uc.logger.Error().Err(err).Int("user_id", userID).Str("status_filter", status).Msg("Operational failure listing buddies")
		return nil, domain.ErrServiceUnavailable
	}

	seen := make(map[int]struct{}, len(all))
	buddies := make([]*domain.Buddy, 0, len(all))
	for _, b := range all {
		if _, dup := seen[b.ID]; dup {
			continue
		}
		if status != "" && string(b.Status) != status {
			continue
		}
		seen[b.ID] = struct{}{}
		buddies = append(buddies, b)
	}
	if len(buddies) == 0 {
		return []*BuddyDetail{}, nil
	}

	idSet := make(map[int]struct{})
	var ids []int
	for _, b := range buddies {
		for _, id := range []int{b.User1ID, b.User2ID} {
			if _, ok := idSet[id]; !ok {
				idSet[id] = struct{}{}
				ids = append(ids, id)
			}
		}
	}

	users, err := uc.userRepo.GetByIDs(ctx, ids)
	if err != nil {
		uc.logger.Warn().Err(err).Msg("Failed to fetch buddy users")
		users = map[int]*domain.UserProfile{}
	}
	sports, err := uc.affiliationRepo.ListByUsers(ctx, domain.AffiliationSport, ids)
	if err != nil {
		uc.logger.Warn().Err(err).Msg("Failed to fetch buddy sports")
	}
	goals, err := uc.affiliationRepo.ListByUsers(ctx, domain.AffiliationGoal, ids)
	if err != nil {
		uc.logger.Warn().Err(err).Msg("Failed to fetch buddy goals")
	}

	detail := func(id int) BuddyUser {
		u := BuddyUser{ID: id, FullName: "Unknown", Sports: nonNil(sports[id]), Goals: nonNil(goals[id])}
		if profile, ok := users[id]; ok {
			if profile.FullName != "" {
				u.FullName = profile.FullName
			}
			u.Age = profile.Age
			u.Location = profile.Location
			u.AvatarURL = profile.AvatarURL
			u.Bio = profile.Bio
		}
		return u
	}

	result := make([]*BuddyDetail, 0, len(buddies))
	for _, b := range buddies {
		result = append(result, &BuddyDetail{
			Buddy: b,
			User1: detail(b.User1ID),
			User2: detail(b.User2ID),
		})
	}
	return result, nil
}

// UpdateStatus lets the receiver of a pending request accept or reject it.
func (uc *BuddyUseCase) UpdateStatus(ctx context.Context, userID, buddyID int, req *UpdateBuddyRequest) (*domain.Buddy, error) {
	if req.Status != domain.BuddyStatusAccepted && req.Status != domain.BuddyStatusRejected {
		return nil, domain.ErrInvalidStatus
	}

	buddy, err := uc.buddyRepo.GetByID(ctx, buddyID)
	if err != nil {
		return nil, err
	}
	if buddy.User2ID != userID {
		return nil, domain.ErrNotReceiver
	}
	if buddy.Status != domain.BuddyStatusPending {
		return nil, domain.ErrInvalidTransition
	}

	updated, err := uc.buddyRepo.UpdateStatus(ctx, buddyID, req.Status)
	if err != nil {
		if errors.Is(err, domain.ErrBuddyNotFound) || errors.Is(err, domain.ErrInvalidTransition) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to update buddy: %w", err)
	}
	return updated, nil
}

// Delete removes a relationship; either participant may do so.
func (uc *BuddyUseCase) Delete(ctx context.Context, userID, buddyID int) error {
	buddy, err := uc.buddyRepo.GetByID(ctx, buddyID)
	if err != nil {
		return err
	}
	if !buddy.HasUser(userID) {
		return domain.ErrNotParticipant
	}

	if err := uc.buddyRepo.Delete(ctx, buddyID); err != nil {
		if errors.Is(err, domain.ErrBuddyNotFound) {
			return err
		}
		return fmt.Errorf("failed to delete buddy: %w", err)
	}
	return nil
}
