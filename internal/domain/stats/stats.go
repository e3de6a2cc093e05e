// Package stats computes normalized statistics from profile snapshots.
//
// Everything in this package is a pure function of its input: re-running
// Compute on the same snapshot yields identical Stats. Recency math uses
// the snapshot's FetchedAt clock, never the caller's wall clock.
package stats

import (
	"sort"
	"time"

	"github.com/okian/cpcoach/internal/domain/model"
)

// Analysis thresholds.
const (
	// ratingTrendThreshold is the implied-rating delta (in rating points)
	// between the first and last third of the submission sequence that
	// separates flat from rising/falling.
	ratingTrendThreshold = 50

	// minTrendSubmissions is the minimum sequence length for a trend call.
	minTrendSubmissions = 6

	// weakTopicAccuracyBar splits topics into weak (below) and strong.
	weakTopicAccuracyBar = 0.5

	hoursPerDay = 24
)

// Trend describes the direction of a user's implied rating.
type Trend string

// Rating trend values.
const (
	TrendRising  Trend = "rising"
	TrendFlat    Trend = "flat"
	TrendFalling Trend = "falling"
	TrendUnknown Trend = "unknown"
)

// Stats holds derived, recomputed-per-call statistics. Never mutated in
// place; a NoData value is a valid low-information state, not an error.
type Stats struct {
	// Accuracy is AC submissions over all submissions, in [0,1].
	// Meaningless when NoData is set.
	Accuracy float64

	// NoData marks an empty submission sequence. Accuracy must not be
	// read as zero in that case; the classifier maps NoData to a neutral
	// tier instead of "poor".
	NoData bool

	// TopicCounts counts attempts per topic; a submission tagged with
	// several topics increments each of them.
	TopicCounts map[string]int

	// WeakTopics lists topics with per-topic accuracy below the bar,
	// ascending by accuracy, ties broken by lower attempt count first.
	WeakTopics []string

	// StrongTopics lists the remaining topics, descending by attempt
	// count, ties broken alphabetically.
	StrongTopics []string

	RatingTrend Trend

	// DaysSinceLastSubmission is measured against FetchedAt.
	// -1 means the profile has no recorded activity at all.
	DaysSinceLastSubmission int

	// AvgDifficulty is the rounded mean difficulty of accepted
	// submissions with a known difficulty; 0 when none exist.
	AvgDifficulty int

	Rating    int
	MaxRating int
}

// topicTally accumulates per-topic attempt and accept counts.
type topicTally struct {
	topic    string
	attempts int
	accepted int
}

func (t topicTally) accuracy() float64 {
	if t.attempts == 0 {
		return 0
	}
	return float64(t.accepted) / float64(t.attempts)
}

// Compute derives Stats from a single snapshot.
func Compute(snap model.ProfileSnapshot) Stats {
	s := Stats{
		TopicCounts:             map[string]int{},
		RatingTrend:             TrendUnknown,
		DaysSinceLastSubmission: daysSince(snap.LastActivity, snap.FetchedAt),
		Rating:                  snap.Rating,
		MaxRating:               snap.MaxRating,
	}

	subs := snap.Submissions
	if len(subs) == 0 {
		s.NoData = true
		s.WeakTopics = []string{}
		s.StrongTopics = []string{}
		return s
	}

	accepted := 0
	tallies := map[string]*topicTally{}
	diffSum, diffCount := 0, 0
	for _, sub := range subs {
		if sub.Accepted() {
			accepted++
			if sub.Difficulty > 0 {
				diffSum += sub.Difficulty
				diffCount++
			}
		}
		for _, topic := range sub.Topics {
			t, ok := tallies[topic]
			if !ok {
				t = &topicTally{topic: topic}
				tallies[topic] = t
			}
			t.attempts++
			if sub.Accepted() {
				t.accepted++
			}
			s.TopicCounts[topic]++
		}
	}

	s.Accuracy = float64(accepted) / float64(len(subs))
	if diffCount > 0 {
		s.AvgDifficulty = (diffSum + diffCount/2) / diffCount
	}
	s.WeakTopics, s.StrongTopics = rankTopics(tallies)
	s.RatingTrend = ratingTrend(subs)
	return s
}

// Merge folds several snapshots into one Stats value. Submissions from all
// platforms form a single chronological sequence; rating fields take the
// best across platforms and recency takes the most recent activity.
func Merge(snaps []model.ProfileSnapshot) Stats {
	merged := model.ProfileSnapshot{}
	for _, snap := range snaps {
		merged.Submissions = append(merged.Submissions, snap.Submissions...)
		if snap.Rating > merged.Rating {
			merged.Rating = snap.Rating
		}
		if snap.MaxRating > merged.MaxRating {
			merged.MaxRating = snap.MaxRating
		}
		merged.SolvedCount += snap.SolvedCount
		if snap.LastActivity.After(merged.LastActivity) {
			merged.LastActivity = snap.LastActivity
		}
		if merged.FetchedAt.IsZero() || (!snap.FetchedAt.IsZero() && snap.FetchedAt.Before(merged.FetchedAt)) {
			merged.FetchedAt = snap.FetchedAt
		}
	}
	sort.SliceStable(merged.Submissions, func(i, j int) bool {
		return merged.Submissions[i].At.Before(merged.Submissions[j].At)
	})
	return Compute(merged)
}

// rankTopics splits tallied topics into weak and strong orderings.
func rankTopics(tallies map[string]*topicTally) (weak, strong []string) {
	weak = []string{}
	strong = []string{}
	var weakT, strongT []*topicTally
	for _, t := range tallies {
		if t.accuracy() < weakTopicAccuracyBar {
			weakT = append(weakT, t)
		} else {
			strongT = append(strongT, t)
		}
	}
	// Weakest first: lowest accuracy, then fewer attempts. A topic
	// attempted rarely and failed often ranks weaker than one attempted
	// often with the same ratio.
	sort.Slice(weakT, func(i, j int) bool {
		ai, aj := weakT[i].accuracy(), weakT[j].accuracy()
		if ai != aj {
			return ai < aj
		}
		if weakT[i].attempts != weakT[j].attempts {
			return weakT[i].attempts < weakT[j].attempts
		}
		return weakT[i].topic < weakT[j].topic
	})
	// Strongest first: most attempts, then name for a stable order.
	sort.Slice(strongT, func(i, j int) bool {
		if strongT[i].attempts != strongT[j].attempts {
			return strongT[i].attempts > strongT[j].attempts
		}
		return strongT[i].topic < strongT[j].topic
	})
	for _, t := range weakT {
		weak = append(weak, t.topic)
	}
	for _, t := range strongT {
		strong = append(strong, t.topic)
	}
	return weak, strong
}

// ratingTrend compares the implied rating of the first and last third of
// the chronological sequence. Implied rating is the mean difficulty of
// accepted submissions with a known difficulty inside that third.
func ratingTrend(subs []model.Submission) Trend {
	if len(subs) < minTrendSubmissions {
		return TrendUnknown
	}
	third := len(subs) / 3
	first, okFirst := impliedRating(subs[:third])
	last, okLast := impliedRating(subs[len(subs)-third:])
	if !okFirst || !okLast {
		return TrendUnknown
	}
	switch delta := last - first; {
	case delta > ratingTrendThreshold:
		return TrendRising
	case delta < -ratingTrendThreshold:
		return TrendFalling
	default:
		return TrendFlat
	}
}

func impliedRating(subs []model.Submission) (float64, bool) {
	sum, n := 0, 0
	for _, s := range subs {
		if s.Accepted() && s.Difficulty > 0 {
			sum += s.Difficulty
			n++
		}
	}
	if n == 0 {
		return 0, false
	}
	return float64(sum) / float64(n), true
}

func daysSince(last, now time.Time) int {
	if last.IsZero() || now.IsZero() || now.Before(last) {
		if last.IsZero() {
			return -1
		}
		return 0
	}
	return int(now.Sub(last).Hours() / hoursPerDay)
}
