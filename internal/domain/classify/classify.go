// Package classify maps aggregated statistics to qualitative tiers.
//
// Classify is pure and total: every Stats value yields a usable
// Classification, degrading to neutral tiers when data is missing.
package classify

import (
	"github.com/okian/cpcoach/internal/domain/stats"
)

// Tier boundaries. Closed on the lower end: exactly 40% accuracy is
// average, not poor; exactly 14 days is slowing, not active.
const (
	poorAccuracyBelow  = 0.40
	strongAccuracyFrom = 0.70
	activeDaysBelow    = 14
	slowingDaysBelow   = 60
	ratingDropPoints   = 200
	comfortSafeMargin  = 300
	comfortReachMargin = 200
)

// AccuracyTier buckets overall submission accuracy.
type AccuracyTier string

// Accuracy tiers.
const (
	AccuracyPoor    AccuracyTier = "poor"
	AccuracyAverage AccuracyTier = "average"
	AccuracyStrong  AccuracyTier = "strong"
)

// ActivityTier buckets recency of practice.
type ActivityTier string

// Activity tiers.
const (
	ActivityActive  ActivityTier = "active"
	ActivitySlowing ActivityTier = "slowing"
	ActivityDormant ActivityTier = "dormant"
)

// ComfortZone describes how solved difficulty relates to current rating.
type ComfortZone string

// Comfort zone calls.
const (
	ComfortNone        ComfortZone = "none"
	ComfortSafe        ComfortZone = "safe"
	ComfortOverreached ComfortZone = "overreached"
)

// Classification is the qualitative summary the content selector keys on.
// Empty topic fields mean "none"; the selector must fall back to generic
// content in that case.
type Classification struct {
	AccuracyTier   AccuracyTier
	ActivityTier   ActivityTier
	TopWeakTopic   string
	TopStrongTopic string
	RatingTrend    stats.Trend

	// RatingDrop marks a current rating well below the historical peak.
	RatingDrop bool

	// ComfortZone flags solved-difficulty sitting far from the rating:
	// safe means coasting below it, overreached means attempting far above.
	ComfortZone ComfortZone

	Rating        int
	MaxRating     int
	AvgDifficulty int
}

// Classify derives the qualitative tiers from Stats.
func Classify(s stats.Stats) Classification {
	c := Classification{
		AccuracyTier:  accuracyTier(s),
		ActivityTier:  activityTier(s.DaysSinceLastSubmission),
		RatingTrend:   s.RatingTrend,
		ComfortZone:   ComfortNone,
		Rating:        s.Rating,
		MaxRating:     s.MaxRating,
		AvgDifficulty: s.AvgDifficulty,
	}
	if len(s.WeakTopics) > 0 {
		c.TopWeakTopic = s.WeakTopics[0]
	}
	if len(s.StrongTopics) > 0 {
		c.TopStrongTopic = s.StrongTopics[0]
	}
	if s.MaxRating > 0 && s.Rating < s.MaxRating-ratingDropPoints {
		c.RatingDrop = true
	}
	if s.Rating > 0 && s.AvgDifficulty > 0 {
		switch {
		case s.AvgDifficulty < s.Rating-comfortSafeMargin:
			c.ComfortZone = ComfortSafe
		case s.AvgDifficulty > s.Rating+comfortReachMargin:
			c.ComfortZone = ComfortOverreached
		}
	}
	return c
}

// accuracyTier maps accuracy to its bucket. NoData is deliberately
// neutral: an empty live profile must not read as "poor".
func accuracyTier(s stats.Stats) AccuracyTier {
	if s.NoData {
		return AccuracyAverage
	}
	switch {
	case s.Accuracy < poorAccuracyBelow:
		return AccuracyPoor
	case s.Accuracy >= strongAccuracyFrom:
		return AccuracyStrong
	default:
		return AccuracyAverage
	}
}

// activityTier maps days since last submission to its bucket. A negative
// value means no recorded activity, which is dormant by definition.
func activityTier(days int) ActivityTier {
	switch {
	case days < 0:
		return ActivityDormant
	case days < activeDaysBelow:
		return ActivityActive
	case days < slowingDaysBelow:
		return ActivitySlowing
	default:
		return ActivityDormant
	}
}
