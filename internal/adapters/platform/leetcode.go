package platform

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/okian/cpcoach/internal/domain/model"
)

// defaultLeetCodeBaseURL is the public GraphQL endpoint. LeetCode has no
// documented API; this shape is provisional and kept private to this file.
const defaultLeetCodeBaseURL = "https://leetcode.com"

const leetcodeContestURL = "https://leetcode.com/contest/"

// Weekly contests run Sunday 08:00 UTC, biweekly Saturday 20:30 UTC.
// LeetCode publishes no contest API, so the schedule is derived.
const (
	weeklyContestHour     = 8
	biweeklyContestHour   = 20
	biweeklyContestMinute = 30
	weeklyDuration        = 90 * time.Minute
)

// lcProfileQuery pulls the handful of public fields the analysis needs.
const lcProfileQuery = `query userPublicProfile($username: String!) {
  matchedUser(username: $username) {
    username
    profile { ranking }
  }
  userContestRanking(username: $username) { rating }
  recentAcSubmissionList(username: $username, limit: 100) {
    titleSlug
    timestamp
  }
}`

// LeetCode fetches live data from the LeetCode GraphQL endpoint. Response
// shapes are unverified upstream; treat them as provisional.
type LeetCode struct {
	opts options
}

// NewLeetCode builds a LeetCode fetcher.
func NewLeetCode(opts ...Option) *LeetCode {
	return &LeetCode{opts: newOptions(defaultLeetCodeBaseURL, opts...)}
}

// Platform implements Fetcher.
func (l *LeetCode) Platform() model.Platform { return model.LeetCode }

type lcGraphQLRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables"`
}

type lcGraphQLResponse struct {
	Data struct {
		MatchedUser *struct {
			Username string `json:"username"`
		} `json:"matchedUser"`
		UserContestRanking *struct {
			Rating float64 `json:"rating"`
		} `json:"userContestRanking"`
		RecentAcSubmissionList []struct {
			TitleSlug string `json:"titleSlug"`
			Timestamp string `json:"timestamp"`
		} `json:"recentAcSubmissionList"`
	} `json:"data"`
}

// FetchProfile reads the public profile. Recent submissions only cover
// accepted ones and carry no topic tags, so the statistics layer sees a
// sparse but honest snapshot rather than invented numbers.
func (l *LeetCode) FetchProfile(ctx context.Context, handle model.Handle) (model.ProfileSnapshot, error) {
	req := lcGraphQLRequest{
		Query:     lcProfileQuery,
		Variables: map[string]any{"username": handle.ID},
	}
	var resp lcGraphQLResponse
	status, err := postJSON(ctx, l.opts, model.LeetCode, l.opts.baseURL+"/graphql", req, &resp)
	if err != nil {
		return model.ProfileSnapshot{}, err
	}
	if status == http.StatusNotFound || resp.Data.MatchedUser == nil {
		return model.ProfileSnapshot{}, fmt.Errorf("%w: leetcode handle %q", ErrHandleNotFound, handle.ID)
	}

	snap := model.ProfileSnapshot{
		Handle:    handle,
		FetchedAt: l.opts.now(),
	}
	if r := resp.Data.UserContestRanking; r != nil {
		snap.Rating = int(r.Rating)
		snap.MaxRating = int(r.Rating)
	}
	for _, raw := range resp.Data.RecentAcSubmissionList {
		at, ok := parseUnixString(raw.Timestamp)
		if !ok {
			continue
		}
		snap.Submissions = append(snap.Submissions, model.Submission{
			ProblemID: raw.TitleSlug,
			Verdict:   model.VerdictAC,
			At:        at,
		})
	}
	sortChronological(snap.Submissions)
	if n := len(snap.Submissions); n > 0 {
		snap.LastActivity = snap.Submissions[n-1].At
	}
	snap.SolvedCount = len(snap.Submissions)
	return snap, nil
}

// FetchContests derives the weekly and biweekly schedule from the adapter
// clock; both URLs point at the contest hub.
func (l *LeetCode) FetchContests(_ context.Context) ([]model.ContestEntry, error) {
	now := l.opts.now().UTC()
	weekly := nextWeekday(now, time.Sunday, weeklyContestHour, 0)
	biweekly := nextWeekday(now, time.Saturday, biweeklyContestHour, biweeklyContestMinute)
	return []model.ContestEntry{
		{
			Platform:  model.LeetCode,
			Name:      "LeetCode Weekly Contest",
			StartTime: weekly,
			Duration:  weeklyDuration,
			URL:       leetcodeContestURL,
		},
		{
			Platform:  model.LeetCode,
			Name:      "LeetCode Biweekly Contest",
			StartTime: biweekly,
			Duration:  weeklyDuration,
			URL:       leetcodeContestURL,
		},
	}, nil
}
