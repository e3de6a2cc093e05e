package platform

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/okian/cpcoach/internal/domain/model"
)

// defaultCodeChefBaseURL is an unofficial profile API; CodeChef's own API
// requires OAuth. The shape is provisional and kept private to this file.
const defaultCodeChefBaseURL = "https://codechef-api.vercel.app"

const codechefContestURL = "https://www.codechef.com/contests"

// Starters run Wednesdays 20:00 IST (14:30 UTC); Cook-Off is monthly.
const (
	startersContestHour   = 14
	startersContestMinute = 30
	startersRuntime       = 3 * time.Hour
	cookOffRuntime        = 150 * time.Minute
)

// CodeChef fetches live data through an unofficial profile endpoint.
// Response shapes are unverified upstream; treat them as provisional.
type CodeChef struct {
	opts options
}

// NewCodeChef builds a CodeChef fetcher.
func NewCodeChef(opts ...Option) *CodeChef {
	return &CodeChef{opts: newOptions(defaultCodeChefBaseURL, opts...)}
}

// Platform implements Fetcher.
func (c *CodeChef) Platform() model.Platform { return model.CodeChef }

type ccProfile struct {
	Success        bool `json:"success"`
	CurrentRating  int  `json:"currentRating"`
	HighestRating  int  `json:"highestRating"`
	ProblemsSolved int  `json:"problemsSolved"`
}

// FetchProfile reads the unofficial profile endpoint. Per-submission data
// is not exposed, so the snapshot carries ratings and counts only and the
// statistics layer reports NoData instead of fabricating a history.
func (c *CodeChef) FetchProfile(ctx context.Context, handle model.Handle) (model.ProfileSnapshot, error) {
	var resp ccProfile
	profileURL := c.opts.baseURL + "/handle/" + url.PathEscape(handle.ID)
	status, err := getJSON(ctx, c.opts, model.CodeChef, profileURL, &resp)
	if err != nil {
		return model.ProfileSnapshot{}, err
	}
	if status == http.StatusNotFound || !resp.Success {
		return model.ProfileSnapshot{}, fmt.Errorf("%w: codechef handle %q", ErrHandleNotFound, handle.ID)
	}
	return model.ProfileSnapshot{
		Handle:      handle,
		Rating:      resp.CurrentRating,
		MaxRating:   resp.HighestRating,
		SolvedCount: resp.ProblemsSolved,
		FetchedAt:   c.opts.now(),
	}, nil
}

// FetchContests derives the Starters and Cook-Off schedule from the
// adapter clock; CodeChef publishes no machine-readable contest feed here.
func (c *CodeChef) FetchContests(_ context.Context) ([]model.ContestEntry, error) {
	now := c.opts.now().UTC()
	starters := nextWeekday(now, time.Wednesday, startersContestHour, startersContestMinute)
	cookOff := firstOfNextMonth(now)
	return []model.ContestEntry{
		{
			Platform:  model.CodeChef,
			Name:      "CodeChef Starters",
			StartTime: starters,
			Duration:  startersRuntime,
			URL:       codechefContestURL,
		},
		{
			Platform:  model.CodeChef,
			Name:      "CodeChef Cook-Off",
			StartTime: cookOff,
			Duration:  cookOffRuntime,
			URL:       codechefContestURL,
		},
	}, nil
}
