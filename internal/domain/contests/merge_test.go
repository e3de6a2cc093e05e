package contests_test

import (
	"testing"
	"time"

	"github.com/okian/cpcoach/internal/domain/contests"
	"github.com/okian/cpcoach/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

var now = time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC)

func entry(p model.Platform, name string, start time.Time) model.ContestEntry {
	return model.ContestEntry{Platform: p, Name: name, StartTime: start, Duration: 2 * time.Hour}
}

func TestMerge(t *testing.T) {
	Convey("Given per-platform contest lists", t, func() {
		cf := []model.ContestEntry{
			entry(model.Codeforces, "Round A", now.Add(48*time.Hour)),
			entry(model.Codeforces, "Round B", now.Add(24*time.Hour)),
		}
		lc := []model.ContestEntry{
			entry(model.LeetCode, "Weekly", now.Add(24*time.Hour)),
		}

		Convey("When merging", func() {
			out := contests.Merge(now, [][]model.ContestEntry{cf, lc})

			Convey("Then entries sort by start time with platform tie-break", func() {
				So(len(out), ShouldEqual, 3)
				So(out[0].Name, ShouldEqual, "Round B")
				So(out[1].Name, ShouldEqual, "Weekly")
				So(out[2].Name, ShouldEqual, "Round A")
			})

			Convey("And input list order does not matter", func() {
				So(contests.Merge(now, [][]model.ContestEntry{lc, cf}), ShouldResemble, out)
			})

			Convey("And merging the result with itself changes nothing", func() {
				again := contests.Merge(now, [][]model.ContestEntry{out, cf, lc})
				So(again, ShouldResemble, out)
			})
		})
	})
}

func TestMergeDeduplication(t *testing.T) {
	Convey("Given the same contest reported twice", t, func() {
		start := now.Add(24 * time.Hour)
		a := []model.ContestEntry{entry(model.Codeforces, "Round A", start)}
		b := []model.ContestEntry{entry(model.Codeforces, "Round A", start)}

		out := contests.Merge(now, [][]model.ContestEntry{a, b})

		Convey("Then exact (platform, name, start) duplicates collapse", func() {
			So(len(out), ShouldEqual, 1)
		})
	})

	Convey("Given near-duplicates", t, func() {
		start := now.Add(24 * time.Hour)
		lists := [][]model.ContestEntry{
			{entry(model.Codeforces, "Round A", start)},
			{entry(model.Codeforces, "Round A", start.Add(time.Minute))},
			{entry(model.CodeChef, "Round A", start)},
		}

		out := contests.Merge(now, lists)

		Convey("Then no fuzzy matching occurs, all three survive", func() {
			So(len(out), ShouldEqual, 3)
		})
	})
}

func TestMergeWindow(t *testing.T) {
	Convey("Given entries around the time window", t, func() {
		lists := [][]model.ContestEntry{{
			entry(model.Codeforces, "Already started", now.Add(-time.Hour)),
			entry(model.Codeforces, "Starting now", now),
			entry(model.Codeforces, "Tomorrow", now.Add(24*time.Hour)),
			entry(model.Codeforces, "In forty days", now.Add(40*24*time.Hour)),
		}}

		out := contests.Merge(now, lists)

		Convey("Then only strictly-future entries inside the window survive", func() {
			So(len(out), ShouldEqual, 1)
			So(out[0].Name, ShouldEqual, "Tomorrow")
		})

		Convey("And a wider window admits the distant entry", func() {
			wide := contests.Merge(now, lists, contests.WithWindow(60*24*time.Hour))
			So(len(wide), ShouldEqual, 2)
		})
	})
}

func TestMergeLimit(t *testing.T) {
	Convey("Given more contests than the cap", t, func() {
		var list []model.ContestEntry
		for i := 0; i < 20; i++ {
			list = append(list, entry(model.Codeforces, "Round "+string(rune('A'+i)), now.Add(time.Duration(i+1)*time.Hour)))
		}

		Convey("Then the default cap keeps the soonest fifteen", func() {
			out := contests.Merge(now, [][]model.ContestEntry{list})
			So(len(out), ShouldEqual, 15)
			So(out[0].Name, ShouldEqual, "Round A")
		})

		Convey("And WithLimit overrides the cap", func() {
			out := contests.Merge(now, [][]model.ContestEntry{list}, contests.WithLimit(5))
			So(len(out), ShouldEqual, 5)
		})
	})
}

func TestMergeEmptyInput(t *testing.T) {
	Convey("Given no input lists", t, func() {
		out := contests.Merge(now, nil)

		Convey("Then the result is empty but not nil", func() {
			So(out, ShouldNotBeNil)
			So(out, ShouldBeEmpty)
		})
	})
}
