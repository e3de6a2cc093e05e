package platform

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/okian/cpcoach/internal/domain/model"
)

// defaultCodeforcesBaseURL is the public Codeforces API root.
const defaultCodeforcesBaseURL = "https://codeforces.com/api"

// codeforcesContestURL renders a contest link from its numeric id.
const codeforcesContestURL = "https://codeforces.com/contest/%d"

// codeforcesVerdicts is the fixed raw-verdict lookup table. Anything not
// listed coerces to VerdictOther; unknown payload fields are dropped.
var codeforcesVerdicts = map[string]model.Verdict{
	"OK":                  model.VerdictAC,
	"WRONG_ANSWER":        model.VerdictWA,
	"TIME_LIMIT_EXCEEDED": model.VerdictTLE,
	"RUNTIME_ERROR":       model.VerdictRE,
}

// Codeforces fetches live data from the Codeforces API. This is the one
// adapter with a documented, verified upstream contract.
type Codeforces struct {
	opts options
}

// NewCodeforces builds a Codeforces fetcher.
func NewCodeforces(opts ...Option) *Codeforces {
	return &Codeforces{opts: newOptions(defaultCodeforcesBaseURL, opts...)}
}

// Platform implements Fetcher.
func (c *Codeforces) Platform() model.Platform { return model.Codeforces }

// API envelope: every Codeforces response wraps its result with a status
// and an optional comment explaining a FAILED call.
type cfEnvelope[T any] struct {
	Status  string `json:"status"`
	Comment string `json:"comment"`
	Result  T      `json:"result"`
}

type cfUser struct {
	Handle    string `json:"handle"`
	Rating    int    `json:"rating"`
	MaxRating int    `json:"maxRating"`
}

type cfProblem struct {
	ContestID int      `json:"contestId"`
	Index     string   `json:"index"`
	Rating    int      `json:"rating"`
	Tags      []string `json:"tags"`
}

type cfSubmission struct {
	CreationTimeSeconds int64     `json:"creationTimeSeconds"`
	Problem             cfProblem `json:"problem"`
	Verdict             string    `json:"verdict"`
}

type cfContest struct {
	ID               int    `json:"id"`
	Name             string `json:"name"`
	Phase            string `json:"phase"`
	StartTimeSeconds int64  `json:"startTimeSeconds"`
	DurationSeconds  int64  `json:"durationSeconds"`
}

// FetchProfile reads user.info and user.status and normalizes both into a
// snapshot. A FAILED user.info with a "not found" comment maps to
// ErrHandleNotFound; a failed user.status degrades to an empty submission
// list rather than failing the whole profile.
func (c *Codeforces) FetchProfile(ctx context.Context, handle model.Handle) (model.ProfileSnapshot, error) {
	var userResp cfEnvelope[[]cfUser]
	infoURL := c.opts.baseURL + "/user.info?handles=" + url.QueryEscape(handle.ID)
	status, err := getJSON(ctx, c.opts, model.Codeforces, infoURL, &userResp)
	if err != nil {
		return model.ProfileSnapshot{}, err
	}
	if status == http.StatusNotFound || userResp.Status != "OK" || len(userResp.Result) == 0 {
		if strings.Contains(strings.ToLower(userResp.Comment), "not found") || status == http.StatusNotFound {
			return model.ProfileSnapshot{}, fmt.Errorf("%w: codeforces handle %q", ErrHandleNotFound, handle.ID)
		}
		return model.ProfileSnapshot{}, fmt.Errorf("%w: codeforces user.info: %s", ErrUnavailable, userResp.Comment)
	}
	user := userResp.Result[0]

	snap := model.ProfileSnapshot{
		Handle:    handle,
		Rating:    user.Rating,
		MaxRating: user.MaxRating,
		FetchedAt: c.opts.now(),
	}

	var subsResp cfEnvelope[[]cfSubmission]
	statusURL := fmt.Sprintf("%s/user.status?handle=%s&from=1&count=%d", c.opts.baseURL, url.QueryEscape(handle.ID), submissionFetchCount)
	if _, err := getJSON(ctx, c.opts, model.Codeforces, statusURL, &subsResp); err == nil && subsResp.Status == "OK" {
		snap.Submissions = normalizeCFSubmissions(subsResp.Result)
	}

	solved := map[string]struct{}{}
	for _, s := range snap.Submissions {
		if s.At.After(snap.LastActivity) {
			snap.LastActivity = s.At
		}
		if s.Accepted() {
			solved[s.ProblemID] = struct{}{}
		}
	}
	snap.SolvedCount = len(solved)
	return snap, nil
}

// normalizeCFSubmissions maps raw submissions to the common shape and
// orders them chronologically (the API returns newest first).
func normalizeCFSubmissions(raw []cfSubmission) []model.Submission {
	subs := make([]model.Submission, 0, len(raw))
	for _, r := range raw {
		verdict, ok := codeforcesVerdicts[r.Verdict]
		if !ok {
			verdict = model.VerdictOther
		}
		subs = append(subs, model.Submission{
			ProblemID:  fmt.Sprintf("%d%s", r.Problem.ContestID, r.Problem.Index),
			Topics:     append([]string(nil), r.Problem.Tags...),
			Difficulty: r.Problem.Rating,
			Verdict:    verdict,
			At:         time.Unix(r.CreationTimeSeconds, 0).UTC(),
		})
	}
	sort.SliceStable(subs, func(i, j int) bool { return subs[i].At.Before(subs[j].At) })
	return subs
}

// FetchContests lists contests in phase BEFORE.
func (c *Codeforces) FetchContests(ctx context.Context) ([]model.ContestEntry, error) {
	var resp cfEnvelope[[]cfContest]
	if _, err := getJSON(ctx, c.opts, model.Codeforces, c.opts.baseURL+"/contest.list", &resp); err != nil {
		return nil, err
	}
	if resp.Status != "OK" {
		return nil, fmt.Errorf("%w: codeforces contest.list: %s", ErrUnavailable, resp.Comment)
	}
	var entries []model.ContestEntry
	for _, contest := range resp.Result {
		if contest.Phase != "BEFORE" {
			continue
		}
		entries = append(entries, model.ContestEntry{
			Platform:  model.Codeforces,
			Name:      contest.Name,
			StartTime: time.Unix(contest.StartTimeSeconds, 0).UTC(),
			Duration:  time.Duration(contest.DurationSeconds) * time.Second,
			URL:       fmt.Sprintf(codeforcesContestURL, contest.ID),
		})
	}
	return entries, nil
}
