package service_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/okian/cpcoach/internal/adapters/platform"
	"github.com/okian/cpcoach/internal/adapters/session"
	service "github.com/okian/cpcoach/internal/app"
	"github.com/okian/cpcoach/internal/domain/model"
	"github.com/okian/cpcoach/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	// Initialize logging for tests
	err := logger.Init()
	if err != nil {
		panic(err)
	}
}

var testNow = time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC)

// fakeFetcher is a programmable platform adapter.
type fakeFetcher struct {
	platform     model.Platform
	snapshot     model.ProfileSnapshot
	profileErr   error
	contests     []model.ContestEntry
	contestsErr  error
	profileCalls atomic.Int64
}

func (f *fakeFetcher) Platform() model.Platform { return f.platform }

func (f *fakeFetcher) FetchProfile(_ context.Context, h model.Handle) (model.ProfileSnapshot, error) {
	f.profileCalls.Add(1)
	if f.profileErr != nil {
		return model.ProfileSnapshot{}, f.profileErr
	}
	snap := f.snapshot
	snap.Handle = h
	return snap, nil
}

func (f *fakeFetcher) FetchContests(_ context.Context) ([]model.ContestEntry, error) {
	if f.contestsErr != nil {
		return nil, f.contestsErr
	}
	return f.contests, nil
}

func activeSnapshot() model.ProfileSnapshot {
	base := testNow.Add(-48 * time.Hour)
	return model.ProfileSnapshot{
		Rating:    1400,
		MaxRating: 1450,
		Submissions: []model.Submission{
			{ProblemID: "1A", Topics: []string{"dp"}, Difficulty: 1200, Verdict: model.VerdictAC, At: base},
			{ProblemID: "2B", Topics: []string{"graph"}, Difficulty: 1400, Verdict: model.VerdictWA, At: base.Add(time.Hour)},
		},
		SolvedCount:  1,
		LastActivity: base.Add(time.Hour),
		FetchedAt:    testNow,
	}
}

func newTestService(fetchers ...platform.Fetcher) *service.Service {
	return service.New(
		service.WithFetchers(fetchers...),
		service.WithStore(session.NewMemStore()),
		service.WithClock(func() time.Time { return testNow }),
	)
}

func TestService_New(t *testing.T) {
	Convey("Given a new service with default options", t, func() {
		svc := service.New()

		Convey("Then it should have sensible defaults", func() {
			So(svc, ShouldNotBeNil)
		})
	})
}

func TestRegisterHandle(t *testing.T) {
	Convey("Given a service with a working adapter", t, func() {
		ctx := context.Background()
		cf := &fakeFetcher{platform: model.Codeforces, snapshot: activeSnapshot()}
		svc := newTestService(cf)

		Convey("When registering a valid handle", func() {
			reg, err := svc.RegisterHandle(ctx, "conv-1", "codeforces", "alice")

			Convey("Then the handle verifies live and is stored", func() {
				So(err, ShouldBeNil)
				So(reg.New, ShouldBeTrue)
				So(reg.Rating, ShouldEqual, 1400)
				So(cf.profileCalls.Load(), ShouldEqual, 1)

				handles, err := svc.Handles(ctx, "conv-1")
				So(err, ShouldBeNil)
				So(len(handles), ShouldEqual, 1)
			})

			Convey("And registering it again reports not-new", func() {
				again, err := svc.RegisterHandle(ctx, "conv-1", "codeforces", "alice")
				So(err, ShouldBeNil)
				So(again.New, ShouldBeFalse)
			})
		})

		Convey("When the platform name is unknown", func() {
			_, err := svc.RegisterHandle(ctx, "conv-1", "topcoder", "alice")
			So(err, ShouldWrap, model.ErrUnknownPlatform)
		})

		Convey("When the identifier fails platform syntax", func() {
			_, err := svc.RegisterHandle(ctx, "conv-1", "codeforces", "no spaces allowed")
			So(err, ShouldWrap, model.ErrInvalidHandle)
		})

		Convey("When no fetcher serves the platform", func() {
			_, err := svc.RegisterHandle(ctx, "conv-1", "leetcode", "alice")
			So(err, ShouldWrap, service.ErrUnsupportedPlatform)
		})
	})

	Convey("Given an adapter that cannot find the handle", t, func() {
		ctx := context.Background()
		cf := &fakeFetcher{platform: model.Codeforces, profileErr: platform.ErrHandleNotFound}
		svc := newTestService(cf)

		Convey("Then registration fails and nothing is stored", func() {
			_, err := svc.RegisterHandle(ctx, "conv-1", "codeforces", "nobody")
			So(err, ShouldWrap, platform.ErrHandleNotFound)

			_, err = svc.Handles(ctx, "conv-1")
			So(err, ShouldWrap, session.ErrNoHandles)
		})
	})
}

func TestRoast(t *testing.T) {
	Convey("Given a conversation with no handles", t, func() {
		svc := newTestService(&fakeFetcher{platform: model.Codeforces})

		Convey("Then the roast refuses with the typed error", func() {
			_, err := svc.Roast(context.Background(), "conv-1")
			So(err, ShouldWrap, session.ErrNoHandles)
		})
	})

	Convey("Given a registered handle with live data", t, func() {
		ctx := context.Background()
		cf := &fakeFetcher{platform: model.Codeforces, snapshot: activeSnapshot()}
		svc := newTestService(cf)
		_, err := svc.RegisterHandle(ctx, "conv-1", "codeforces", "alice")
		So(err, ShouldBeNil)

		Convey("When roasting", func() {
			result, err := svc.Roast(ctx, "conv-1")

			Convey("Then roast lines and evidence come back", func() {
				So(err, ShouldBeNil)
				So(result.Lines, ShouldNotBeEmpty)
				So(result.Accuracy, ShouldAlmostEqual, 0.5, 1e-9)
				So(result.WeakTopics, ShouldResemble, []string{"graph"})
				So(len(result.Profiles), ShouldEqual, 1)
				So(result.Profiles[0].Handle, ShouldEqual, "alice")
			})
		})

		Convey("When roasting twice", func() {
			before := cf.profileCalls.Load()
			_, err1 := svc.Roast(ctx, "conv-1")
			_, err2 := svc.Roast(ctx, "conv-1")

			Convey("Then every analysis fetches live, nothing is cached", func() {
				So(err1, ShouldBeNil)
				So(err2, ShouldBeNil)
				So(cf.profileCalls.Load(), ShouldEqual, before+2)
			})
		})
	})

	Convey("Given one healthy and one failing platform", t, func() {
		ctx := context.Background()
		cf := &fakeFetcher{platform: model.Codeforces, snapshot: activeSnapshot()}
		lc := &fakeFetcher{platform: model.LeetCode, snapshot: activeSnapshot()}
		svc := newTestService(cf, lc)
		_, err := svc.RegisterHandle(ctx, "conv-1", "codeforces", "alice")
		So(err, ShouldBeNil)
		_, err = svc.RegisterHandle(ctx, "conv-1", "leetcode", "alice")
		So(err, ShouldBeNil)

		lc.profileErr = platform.ErrUnavailable

		Convey("Then the roast tolerates the partial failure", func() {
			result, err := svc.Roast(ctx, "conv-1")
			So(err, ShouldBeNil)
			So(len(result.Profiles), ShouldEqual, 1)
			So(result.Profiles[0].Platform, ShouldEqual, model.Codeforces)
		})

		Convey("And when every platform fails, the typed error surfaces", func() {
			cf.profileErr = platform.ErrUnavailable
			_, err := svc.Roast(ctx, "conv-1")
			So(err, ShouldWrap, service.ErrAllPlatformsFailed)
		})
	})
}

func TestRecommend(t *testing.T) {
	Convey("Given a registered handle", t, func() {
		ctx := context.Background()
		cf := &fakeFetcher{platform: model.Codeforces, snapshot: activeSnapshot()}
		svc := newTestService(cf)
		_, err := svc.RegisterHandle(ctx, "conv-1", "codeforces", "alice")
		So(err, ShouldBeNil)

		Convey("When recommending for each goal", func() {
			for _, goal := range []model.Goal{model.GoalInterview, model.GoalContest, model.GoalGeneral} {
				result, err := svc.Recommend(ctx, "conv-1", goal)
				So(err, ShouldBeNil)
				So(result.Goal, ShouldEqual, goal)
				So(result.Problems, ShouldNotBeEmpty)
			}
		})

		Convey("When no handles are registered", func() {
			_, err := svc.Recommend(ctx, "conv-2", model.GoalGeneral)
			So(err, ShouldWrap, session.ErrNoHandles)
		})
	})
}

func TestUpcomingContests(t *testing.T) {
	Convey("Given adapters with overlapping feeds", t, func() {
		ctx := context.Background()
		soon := testNow.Add(24 * time.Hour)
		later := testNow.Add(48 * time.Hour)

		cf := &fakeFetcher{platform: model.Codeforces, contests: []model.ContestEntry{
			{Platform: model.Codeforces, Name: "Round A", StartTime: later},
			{Platform: model.Codeforces, Name: "Round A", StartTime: later}, // duplicate
		}}
		lc := &fakeFetcher{platform: model.LeetCode, contests: []model.ContestEntry{
			{Platform: model.LeetCode, Name: "Weekly", StartTime: soon},
		}}
		svc := newTestService(cf, lc)

		Convey("Then the merged feed is sorted and de-duplicated", func() {
			entries, err := svc.UpcomingContests(ctx)
			So(err, ShouldBeNil)
			So(len(entries), ShouldEqual, 2)
			So(entries[0].Name, ShouldEqual, "Weekly")
			So(entries[1].Name, ShouldEqual, "Round A")
		})

		Convey("A failing platform is skipped, not fatal", func() {
			cf.contestsErr = platform.ErrUnavailable
			entries, err := svc.UpcomingContests(ctx)
			So(err, ShouldBeNil)
			So(len(entries), ShouldEqual, 1)
		})

		Convey("All platforms failing is fatal", func() {
			cf.contestsErr = platform.ErrUnavailable
			lc.contestsErr = platform.ErrUnavailable
			_, err := svc.UpcomingContests(ctx)
			So(err, ShouldWrap, service.ErrAllPlatformsFailed)
		})
	})
}
