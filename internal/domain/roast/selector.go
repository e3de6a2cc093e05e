package roast

import (
	"fmt"

	"github.com/okian/cpcoach/internal/domain/classify"
	"github.com/okian/cpcoach/internal/domain/model"
	"github.com/okian/cpcoach/internal/domain/stats"
)

// maxRecommendations caps the recommendation list.
const maxRecommendations = 5

// SelectRoast renders the roast lines for a classification. The base line
// comes from the (accuracy, activity) table; topic, rating-drop and
// comfort-zone clauses append in a fixed order so the same classification
// always roasts the same way.
func SelectRoast(c classify.Classification) []string {
	lines := []string{baseLines[tableKey{c.AccuracyTier, c.ActivityTier}]}

	if c.TopWeakTopic != "" {
		if clause, ok := weakTopicClauses[c.TopWeakTopic]; ok {
			lines = append(lines, clause)
		} else {
			lines = append(lines, fmt.Sprintf(genericWeakClause, c.TopWeakTopic))
		}
	}
	if c.TopStrongTopic != "" {
		if clause, ok := strongTopicClauses[c.TopStrongTopic]; ok {
			lines = append(lines, clause)
		} else {
			lines = append(lines, fmt.Sprintf(genericStrongClause, c.TopStrongTopic))
		}
	}
	if c.RatingDrop {
		lines = append(lines, fmt.Sprintf(ratingDropClause, c.MaxRating, c.Rating, c.MaxRating-c.Rating))
	}
	switch c.ComfortZone {
	case classify.ComfortSafe:
		lines = append(lines, fmt.Sprintf(comfortSafeClause, c.AvgDifficulty, c.Rating))
	case classify.ComfortOverreached:
		lines = append(lines, fmt.Sprintf(comfortReachClause, c.AvgDifficulty, c.Rating))
	case classify.ComfortNone:
	}
	if c.RatingTrend == stats.TrendFalling {
		lines = append(lines, trendFallingClause)
	}
	if c.TopWeakTopic == "" && c.TopStrongTopic == "" {
		lines = append(lines, noProfileDataClause)
	}
	return lines
}

// SelectRecommendations picks problems for the goal. Stats supply the full
// topic ordering the classification alone does not carry (the general goal
// round-robins across every seen topic, weakest first). Never empty.
func SelectRecommendations(c classify.Classification, st stats.Stats, goal model.Goal) []model.ProblemRef {
	switch goal {
	case model.GoalInterview:
		return interviewRecommendations(st)
	case model.GoalContest:
		return contestRecommendations(st)
	default:
		return generalRecommendations(st)
	}
}

// interviewRecommendations intersects the interview allowlist with the
// user's weak topics, in allowlist order. With no usable weak topic the
// whole allowlist serves as the generic fallback.
func interviewRecommendations(st stats.Stats) []model.ProblemRef {
	weak := topicSet(st.WeakTopics)
	var topics []string
	for _, t := range interviewTopics {
		if weak[t] {
			topics = append(topics, t)
		}
	}
	if len(topics) == 0 {
		topics = interviewTopics
	}
	return pickRoundRobin(topics, nil)
}

// contestRecommendations biases toward topics near the current rating
// band, weak topics first. Falls back to the fixed contest topic list.
func contestRecommendations(st stats.Stats) []model.ProblemRef {
	band := bandFor(st.Rating)
	topics := append(append([]string{}, st.WeakTopics...), st.StrongTopics...)
	var usable []string
	for _, t := range topics {
		if len(problemsInBand(t, band)) > 0 {
			usable = append(usable, t)
		}
	}
	if len(usable) == 0 {
		usable = contestTopics
	}
	return pickRoundRobin(usable, func(t string) []model.ProblemRef {
		if refs := problemsInBand(t, band); len(refs) > 0 {
			return refs
		}
		return catalog[t]
	})
}

// generalRecommendations round-robins across every seen topic, weakest
// first, or a starter set when the profile has no topics.
func generalRecommendations(st stats.Stats) []model.ProblemRef {
	topics := append(append([]string{}, st.WeakTopics...), st.StrongTopics...)
	if len(topics) == 0 {
		topics = generalStarterTopics
	}
	return pickRoundRobin(topics, nil)
}

// pickRoundRobin walks the topics repeatedly, taking the next unused
// problem from each, until the cap is reached or the catalog is drained.
// source overrides the per-topic problem list when non-nil.
func pickRoundRobin(topics []string, source func(string) []model.ProblemRef) []model.ProblemRef {
	lists := make([][]model.ProblemRef, 0, len(topics))
	for _, t := range topics {
		var refs []model.ProblemRef
		if source != nil {
			refs = source(t)
		} else {
			refs = catalog[t]
		}
		if len(refs) > 0 {
			lists = append(lists, refs)
		}
	}
	if len(lists) == 0 {
		// Unknown topics throughout; fall back to the starter catalog so
		// the selector never returns an empty set.
		for _, t := range generalStarterTopics {
			lists = append(lists, catalog[t])
		}
	}

	out := make([]model.ProblemRef, 0, maxRecommendations)
	for round := 0; len(out) < maxRecommendations; round++ {
		took := false
		for _, refs := range lists {
			if round >= len(refs) {
				continue
			}
			out = append(out, refs[round])
			took = true
			if len(out) == maxRecommendations {
				break
			}
		}
		if !took {
			break
		}
	}
	return out
}

func problemsInBand(topic string, b ratingBand) []model.ProblemRef {
	var out []model.ProblemRef
	for _, ref := range catalog[topic] {
		if ref.Difficulty >= b.lo && ref.Difficulty <= b.hi {
			out = append(out, ref)
		}
	}
	return out
}

func topicSet(topics []string) map[string]bool {
	set := make(map[string]bool, len(topics))
	for _, t := range topics {
		set[t] = true
	}
	return set
}
