// Package model contains domain models passed between layers.
package model

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// Platform identifies a supported judge platform.
type Platform string

// Supported platforms.
const (
	Codeforces Platform = "codeforces"
	LeetCode   Platform = "leetcode"
	CodeChef   Platform = "codechef"
)

// Platforms lists every supported platform in a fixed order.
func Platforms() []Platform {
	return []Platform{Codeforces, LeetCode, CodeChef}
}

// ParsePlatform normalizes and validates a platform name.
func ParsePlatform(s string) (Platform, error) {
	switch p := Platform(strings.ToLower(strings.TrimSpace(s))); p {
	case Codeforces, LeetCode, CodeChef:
		return p, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownPlatform, s)
	}
}

// Handle identifies a user on one judge platform.
type Handle struct {
	Platform Platform `json:"platform"`
	ID       string   `json:"id"`
}

// Per-platform identifier syntax. Codeforces documents alphanumeric,
// underscore, dash and dot; the other two accept the same shape in practice.
var (
	codeforcesHandleRe = regexp.MustCompile(`^[A-Za-z0-9_.-]{1,24}$`)
	leetcodeHandleRe   = regexp.MustCompile(`^[A-Za-z0-9_-]{1,30}$`)
	codechefHandleRe   = regexp.MustCompile(`^[a-z0-9_]{1,20}$`)
)

// NewHandle validates platform and identifier syntax and builds a Handle.
func NewHandle(platform, id string) (Handle, error) {
	p, err := ParsePlatform(platform)
	if err != nil {
		return Handle{}, err
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return Handle{}, ErrEmptyHandle
	}
	var re *regexp.Regexp
	switch p {
	case Codeforces:
		re = codeforcesHandleRe
	case LeetCode:
		re = leetcodeHandleRe
	case CodeChef:
		re = codechefHandleRe
	}
	if !re.MatchString(id) {
		return Handle{}, fmt.Errorf("%w: %q on %s", ErrInvalidHandle, id, p)
	}
	return Handle{Platform: p, ID: id}, nil
}

// String renders the handle in platform:id form.
func (h Handle) String() string {
	return string(h.Platform) + ":" + h.ID
}

// Verdict is a judge's outcome for a submission. Raw platform verdict
// strings map through a fixed per-platform table; anything unmapped
// coerces to VerdictOther.
type Verdict string

// Normalized verdicts.
const (
	VerdictAC    Verdict = "AC"
	VerdictWA    Verdict = "WA"
	VerdictTLE   Verdict = "TLE"
	VerdictRE    Verdict = "RE"
	VerdictOther Verdict = "other"
)

// Submission is one normalized judge submission. Immutable once built.
type Submission struct {
	ProblemID  string
	Topics     []string
	Difficulty int // 0 means unknown
	Verdict    Verdict
	At         time.Time
}

// Accepted reports whether the submission passed.
func (s Submission) Accepted() bool {
	return s.Verdict == VerdictAC
}

// ProfileSnapshot is one live read of a user's activity on a platform.
// Snapshots are never cached; every analysis re-fetches. FetchedAt is the
// adapter-reported clock and is the only "now" recency math may use.
type ProfileSnapshot struct {
	Handle       Handle
	Rating       int // 0 means unrated
	MaxRating    int
	SolvedCount  int
	Submissions  []Submission // chronological, oldest first
	LastActivity time.Time
	FetchedAt    time.Time
}

// ContestEntry is one upcoming contest on a platform.
type ContestEntry struct {
	Platform  Platform      `json:"platform"`
	Name      string        `json:"name"`
	StartTime time.Time     `json:"start_time"`
	Duration  time.Duration `json:"duration"`
	URL       string        `json:"url"`
}

// Key returns the identity used for contest deduplication: exact
// (platform, name, start) match, no fuzzy name matching.
func (c ContestEntry) Key() string {
	return string(c.Platform) + "|" + c.Name + "|" + c.StartTime.UTC().Format(time.RFC3339)
}

// ProblemRef points at a recommended practice problem.
type ProblemRef struct {
	Platform   Platform `json:"platform"`
	Name       string   `json:"name"`
	Topic      string   `json:"topic"`
	Difficulty int      `json:"difficulty"`
	URL        string   `json:"url"`
}

// Goal steers problem recommendations.
type Goal string

// Recommendation goals.
const (
	GoalInterview Goal = "interview"
	GoalContest   Goal = "contest"
	GoalGeneral   Goal = "general"
)

// ParseGoal maps free-form goal text to a Goal. Unknown values fall back
// to GoalGeneral rather than failing; the transport passes user text.
func ParseGoal(s string) Goal {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "interview", "job", "faang":
		return GoalInterview
	case "contest", "competitive", "cp":
		return GoalContest
	default:
		return GoalGeneral
	}
}
