// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/okian/cpcoach/internal/adapters/platform"
	"github.com/okian/cpcoach/internal/adapters/session"
	"github.com/okian/cpcoach/internal/domain/classify"
	"github.com/okian/cpcoach/internal/domain/contests"
	"github.com/okian/cpcoach/internal/domain/model"
	"github.com/okian/cpcoach/internal/domain/roast"
	"github.com/okian/cpcoach/internal/domain/stats"
	"github.com/okian/cpcoach/pkg/logger"
	"github.com/okian/cpcoach/pkg/metrics"
)

// Service wires platform fetchers, session memory and the analysis domain
// behind the operations the HTTP API needs. Every analysis hits the
// platforms live; the service holds no profile state of its own.
type Service struct {
	fetchers     map[model.Platform]platform.Fetcher
	store        session.Store
	fetchTimeout time.Duration
	contestOpts  []contests.Option
	now          func() time.Time
	logger       logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithFetchers replaces the default adapter set.
func WithFetchers(fetchers ...platform.Fetcher) Option {
	return func(s *Service) {
		if len(fetchers) == 0 {
			return
		}
		s.fetchers = make(map[model.Platform]platform.Fetcher, len(fetchers))
		for _, f := range fetchers {
			s.fetchers[f.Platform()] = f
		}
	}
}

// WithStore sets the session store.
func WithStore(store session.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithFetchTimeout bounds each individual platform call.
func WithFetchTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.fetchTimeout = d
		}
	}
}

// WithContestWindow caps how far ahead the contest feed looks.
func WithContestWindow(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.contestOpts = append(s.contestOpts, contests.WithWindow(d))
		}
	}
}

// WithContestLimit caps the merged contest feed size.
func WithContestLimit(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.contestOpts = append(s.contestOpts, contests.WithLimit(n))
		}
	}
}

// WithClock overrides the service clock.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// New constructs a Service with default configuration: the full adapter
// set, an in-memory session store and the global logger.
func New(opts ...Option) *Service {
	s := &Service{
		store:        session.NewMemStore(),
		fetchTimeout: 8 * time.Second,
		now:          time.Now,
	}
	WithFetchers(platform.All()...)(s)

	for _, opt := range opts {
		opt(s)
	}

	if s.logger == nil {
		s.logger = logger.Get()
	}
	return s
}

// RegisteredHandle reports the outcome of a handle registration.
type RegisteredHandle struct {
	Handle model.Handle `json:"handle"`

	// New is false when the handle was already registered for the
	// conversation; registration is idempotent.
	New bool `json:"new"`

	Rating      int `json:"rating"`
	SolvedCount int `json:"solved_count"`
}

// ProfileSummary is the per-handle slice of an analysis response.
type ProfileSummary struct {
	Platform    model.Platform `json:"platform"`
	Handle      string         `json:"handle"`
	Rating      int            `json:"rating"`
	MaxRating   int            `json:"max_rating"`
	SolvedCount int            `json:"solved_count"`
}

// RoastResult carries the roast plus the evidence it was built from.
type RoastResult struct {
	Lines    []string         `json:"lines"`
	Profiles []ProfileSummary `json:"profiles"`

	Accuracy    float64     `json:"accuracy"`
	WeakTopics  []string    `json:"weak_topics"`
	RatingTrend stats.Trend `json:"rating_trend"`
}

// RecommendResult carries goal-directed practice problems.
type RecommendResult struct {
	Goal     model.Goal         `json:"goal"`
	Problems []model.ProblemRef `json:"problems"`
	Profiles []ProfileSummary   `json:"profiles"`
}

// RegisterHandle validates the handle, verifies it against the platform
// live, and stores it for the conversation. A handle the platform does not
// know is rejected with platform.ErrHandleNotFound.
func (s *Service) RegisterHandle(ctx context.Context, conversationID, platformName, handleID string) (RegisteredHandle, error) {
	h, err := model.NewHandle(platformName, handleID)
	if err != nil {
		return RegisteredHandle{}, err
	}

	f, ok := s.fetchers[h.Platform]
	if !ok {
		return RegisteredHandle{}, fmt.Errorf("%w: %s", ErrUnsupportedPlatform, h.Platform)
	}

	fetchCtx, cancel := context.WithTimeout(ctx, s.fetchTimeout)
	defer cancel()
	snap, err := f.FetchProfile(fetchCtx, h)
	if err != nil {
		return RegisteredHandle{}, err
	}

	added, err := s.store.Add(ctx, conversationID, h)
	if err != nil {
		return RegisteredHandle{}, err
	}

	s.logger.Info(ctx, "handle registered",
		logger.String("conversation", conversationID),
		logger.String("handle", h.String()),
		logger.Int("rating", snap.Rating),
	)
	return RegisteredHandle{
		Handle:      h,
		New:         added,
		Rating:      snap.Rating,
		SolvedCount: snap.SolvedCount,
	}, nil
}

// RemoveHandle drops a handle from the conversation.
func (s *Service) RemoveHandle(ctx context.Context, conversationID, platformName, handleID string) error {
	h, err := model.NewHandle(platformName, handleID)
	if err != nil {
		return err
	}
	return s.store.Remove(ctx, conversationID, h)
}

// Handles lists the conversation's registered handles.
func (s *Service) Handles(ctx context.Context, conversationID string) ([]model.Handle, error) {
	return s.store.List(ctx, conversationID)
}

// Roast fetches every registered profile live, merges the statistics and
// renders the roast. Individual fetch failures are tolerated; the call
// fails only when no profile could be fetched at all.
func (s *Service) Roast(ctx context.Context, conversationID string) (RoastResult, error) {
	snaps, err := s.fetchSnapshots(ctx, conversationID)
	if err != nil {
		return RoastResult{}, err
	}

	st := stats.Merge(snaps)
	c := classify.Classify(st)
	lines := roast.SelectRoast(c)

	metrics.RecordRoast()
	return RoastResult{
		Lines:       lines,
		Profiles:    summarize(snaps),
		Accuracy:    st.Accuracy,
		WeakTopics:  st.WeakTopics,
		RatingTrend: st.RatingTrend,
	}, nil
}

// Recommend runs the same live pipeline as Roast and selects practice
// problems for the goal.
func (s *Service) Recommend(ctx context.Context, conversationID string, goal model.Goal) (RecommendResult, error) {
	snaps, err := s.fetchSnapshots(ctx, conversationID)
	if err != nil {
		return RecommendResult{}, err
	}

	st := stats.Merge(snaps)
	c := classify.Classify(st)
	problems := roast.SelectRecommendations(c, st, goal)

	metrics.RecordRecommendation(string(goal))
	return RecommendResult{
		Goal:     goal,
		Problems: problems,
		Profiles: summarize(snaps),
	}, nil
}

// UpcomingContests fans out to every platform and merges the feeds.
// A platform that fails or times out is skipped; the call fails only when
// no platform answered.
func (s *Service) UpcomingContests(ctx context.Context) ([]model.ContestEntry, error) {
	lists := make([][]model.ContestEntry, len(s.fetchers))
	errs := make([]error, len(s.fetchers))
	fetched := make([]bool, len(s.fetchers))

	g, gctx := errgroup.WithContext(ctx)
	i := 0
	for _, f := range s.fetchers {
		idx, fetcher := i, f
		i++
		g.Go(func() error {
			fetchCtx, cancel := context.WithTimeout(gctx, s.fetchTimeout)
			defer cancel()
			entries, err := fetcher.FetchContests(fetchCtx)
			if err != nil {
				errs[idx] = err
				s.logger.Warn(gctx, "contest fetch failed",
					logger.String("platform", string(fetcher.Platform())),
					logger.Error(err),
				)
				return nil
			}
			lists[idx] = entries
			fetched[idx] = true
			return nil
		})
	}
	_ = g.Wait()

	if firstErr, ok := firstFailure(fetched, errs); !ok {
		return nil, wrapAllFailed(firstErr)
	}

	merged := contests.Merge(s.now(), lists, s.contestOpts...)
	metrics.UpdateContestFeedSize(len(merged))
	return merged, nil
}

// fetchSnapshots resolves the conversation's handles and fetches every
// profile concurrently, one timeout per call. Returns only the snapshots
// that succeeded.
func (s *Service) fetchSnapshots(ctx context.Context, conversationID string) ([]model.ProfileSnapshot, error) {
	handles, err := s.store.List(ctx, conversationID)
	if err != nil {
		return nil, err
	}

	snaps := make([]model.ProfileSnapshot, len(handles))
	errs := make([]error, len(handles))
	fetched := make([]bool, len(handles))

	g, gctx := errgroup.WithContext(ctx)
	for i, h := range handles {
		idx, handle := i, h
		f, ok := s.fetchers[handle.Platform]
		if !ok {
			errs[idx] = fmt.Errorf("%w: %s", ErrUnsupportedPlatform, handle.Platform)
			continue
		}
		g.Go(func() error {
			fetchCtx, cancel := context.WithTimeout(gctx, s.fetchTimeout)
			defer cancel()
			snap, err := f.FetchProfile(fetchCtx, handle)
			if err != nil {
				errs[idx] = err
				s.logger.Warn(gctx, "profile fetch failed",
					logger.String("handle", handle.String()),
					logger.Error(err),
				)
				return nil
			}
			snaps[idx] = snap
			fetched[idx] = true
			return nil
		})
	}
	_ = g.Wait()

	out := make([]model.ProfileSnapshot, 0, len(handles))
	for i, ok := range fetched {
		if ok {
			out = append(out, snaps[i])
		}
	}
	if len(out) == 0 {
		firstErr, _ := firstFailure(fetched, errs)
		return nil, wrapAllFailed(firstErr)
	}
	return out, nil
}

func summarize(snaps []model.ProfileSnapshot) []ProfileSummary {
	out := make([]ProfileSummary, len(snaps))
	for i, snap := range snaps {
		out[i] = ProfileSummary{
			Platform:    snap.Handle.Platform,
			Handle:      snap.Handle.ID,
			Rating:      snap.Rating,
			MaxRating:   snap.MaxRating,
			SolvedCount: snap.SolvedCount,
		}
	}
	return out
}

// firstFailure reports whether any fetch succeeded, and if none did, the
// first recorded error.
func firstFailure(fetched []bool, errs []error) (error, bool) {
	var firstErr error
	for i, ok := range fetched {
		if ok {
			return nil, true
		}
		if firstErr == nil && errs[i] != nil {
			firstErr = errs[i]
		}
	}
	return firstErr, false
}

// wrapAllFailed attaches the first recorded cause when one exists. A
// fan-out over zero entries records no cause to attach.
func wrapAllFailed(cause error) error {
	if cause == nil {
		return ErrAllPlatformsFailed
	}
	return fmt.Errorf("%w: %w", ErrAllPlatformsFailed, cause)
}
