package matching

import (
	"context"
	"fmt"
	"runtime"
	"sort"
	"time"

	"github.com/gdugdh24/buddyfit-backend/internal/domain"
	"github.com/gdugdh24/buddyfit-backend/internal/repository"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

const (
	// DefaultPoolCap bounds the candidate pool when no limit is given.
	DefaultPoolCap = 300
	// PoolPadding is fetched on top of an explicit limit.
	PoolPadding = 20
)

// ScoredCandidate is a candidate profile with its score against the subject.
type ScoredCandidate struct {
	User       *domain.UserProfile `json:"user"`
	Score      float64             `json:"score"`
	EventCount int                 `json:"event_count"`
}

// RankOptions controls a ranking pass. MinScore is accepted but does not
// filter; every fetched candidate is returned.
type RankOptions struct {
	Limit    int
	MinScore float64
}

// Scorer scores one candidate pair. *Calculator is the production implementation.
type Scorer interface {
	Score(ctx context.Context, a, b *domain.UserProfile, counts map[int]int) (float64, error)
}

// Ranker finds and orders buddy candidates for a user.
type Ranker struct {
	users        repository.UserRepository
	buddies      repository.BuddyRepository
	affiliations repository.AffiliationRepository
	activity     repository.ActivityRepository
	scorer       Scorer
	metrics      *Metrics
	logger       zerolog.Logger
}

func NewRanker(
	users repository.UserRepository,
	buddies repository.BuddyRepository,
	affiliations repository.AffiliationRepository,
	activity repository.ActivityRepository,
	scorer Scorer,
	metrics *Metrics,
	logger zerolog.Logger,
) *Ranker {
	return &Ranker{
		users:        users,
		buddies:      buddies,
		affiliations: affiliations,
		activity:     activity,
		scorer:       scorer,
		metrics:      metrics,
		logger:       logger.With().Str("component", "ranker").Logger(),
	}
}

// Rank scores every eligible candidate against subject and returns them sorted
// by descending score. Repository failures degrade to empty sub-results; the only
// error is a subject without an id.
func (r *Ranker) Rank(ctx context.Context, subject *domain.UserProfile, opts RankOptions) ([]ScoredCandidate, error) {
	if subject == nil || subject.ID == 0 {
		return nil, fmt.Errorf("rank buddies: %w", domain.ErrInvalidInput)
	}
	start := time.Now()
	logger := r.logger.With().Int("user_id", subject.ID).Logger()

	excluded := r.excludedIDs(ctx, subject.ID, logger)

	poolCap := DefaultPoolCap
	if opts.Limit > 0 {
		poolCap = opts.Limit + PoolPadding
	}
	pool, err := r.users.ListDiscoverable(ctx, setToSlice(excluded), poolCap)
	if err != nil {
		r.metrics.degraded("candidates")
		logger.Warn().Err(err).Msg("Failed to fetch candidate pool")
		return []ScoredCandidate{}, nil
	}

	candidates := make([]*domain.UserProfile, 0, len(pool))
	for _, u := range pool {
		if u == nil || u.ID == 0 {
			continue
		}
		if _, skip := excluded[u.ID]; skip {
			continue
		}
		candidates = append(candidates, u)
	}
	if len(candidates) == 0 {
		r.metrics.observePass(time.Since(start).Seconds(), 0)
		return []ScoredCandidate{}, nil
	}

	counts := r.attachAuxiliary(ctx, subject.ID, candidates, logger)
	results := r.scoreAll(ctx, subject, candidates, counts)

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	if opts.Limit > 0 && len(results) > opts.Limit {
		results = results[:opts.Limit]
	}

	r.metrics.observePass(time.Since(start).Seconds(), len(candidates))
	logger.Debug().
		Int("candidates", len(candidates)).
		Int("returned", len(results)).
		Dur("took", time.Since(start)).
		Msg("Ranking pass completed")

	return results, nil
}

// excludedIDs returns the subject plus everyone already related to them.
func (r *Ranker) excludedIDs(ctx context.Context, subjectID int, logger zerolog.Logger) map[int]struct{} {
	excluded := map[int]struct{}{subjectID: {}}
	related, err := r.buddies.RelatedUserIDs(ctx, subjectID)
	if err != nil {
		r.metrics.degraded("relationships")
		logger.Warn().Err(err).Msg("Failed to fetch existing buddies")
		return excluded
	}
	for _, id := range related {
		excluded[id] = struct{}{}
	}
	return excluded
}

// attachAuxiliary resolves sports, goals and event counts for all candidates in
// three concurrent batched reads. The subject's own count is fetched with the
// candidates'. Candidate profiles are copied before the affiliations are attached
// so repository-owned values are never mutated.
func (r *Ranker) attachAuxiliary(ctx context.Context, subjectID int, candidates []*domain.UserProfile, logger zerolog.Logger) map[int]int {
	ids := make([]int, len(candidates))
	for i, c := range candidates {
		ids[i] = c.ID
	}
	countIDs := append([]int{subjectID}, ids...)

	var (
		sports map[int][]domain.Affiliation
		goals  map[int][]domain.Affiliation
		counts map[int]int
	)

	// Each goroutine swallows its own error so one failed read never cancels the others.
	var g errgroup.Group
	g.Go(func() error {
		var err error
		if sports, err = r.affiliations.ListByUsers(ctx, domain.AffiliationSport, ids); err != nil {
			r.metrics.degraded("sports")
			logger.Warn().Err(err).Msg("Failed to fetch candidate sports")
			sports = nil
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if goals, err = r.affiliations.ListByUsers(ctx, domain.AffiliationGoal, ids); err != nil {
			r.metrics.degraded("goals")
			logger.Warn().Err(err).Msg("Failed to fetch candidate goals")
			goals = nil
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if counts, err = r.activity.ApprovedEventCounts(ctx, countIDs); err != nil {
			r.metrics.degraded("activity")
			logger.Warn().Err(err).Msg("Failed to fetch candidate event counts")
			counts = nil
		}
		return nil
	})
	_ = g.Wait()

	if counts == nil {
		counts = map[int]int{}
	}
	for i, c := range candidates {
		cp := *c
		cp.Sports = sports[c.ID]
		cp.Goals = goals[c.ID]
		candidates[i] = &cp
	}
	return counts
}

func (r *Ranker) scoreAll(ctx context.Context, subject *domain.UserProfile, candidates []*domain.UserProfile, counts map[int]int) []ScoredCandidate {
	results := make([]ScoredCandidate, len(candidates))

	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, candidate := range candidates {
		i, candidate := i, candidate
		g.Go(func() error {
			results[i] = ScoredCandidate{
				User:       candidate,
				Score:      r.scoreOne(ctx, subject, candidate, counts),
				EventCount: counts[candidate.ID],
			}
			return nil
		})
	}
	_ = g.Wait()

	return results
}

// scoreOne never fails: any error or panic while scoring yields DefaultScore.
func (r *Ranker) scoreOne(ctx context.Context, subject, candidate *domain.UserProfile, counts map[int]int) (score float64) {
	defer func() {
		if rec := recover(); rec != nil {
			r.metrics.fallback()
			r.logger.Error().Interface("panic", rec).Int("candidate_id", candidate.ID).Msg("Scoring panicked")
			score = DefaultScore
		}
	}()

	score, err := r.scorer.Score(ctx, subject, candidate, counts)
	if err != nil {
		r.metrics.fallback()
		r.logger.Warn().Err(err).Int("candidate_id", candidate.ID).Msg("Scoring failed, using default score")
		return DefaultScore
	}
	return score
}

func setToSlice(set map[int]struct{}) []int {
	ids := make([]int, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}
