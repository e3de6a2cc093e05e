// Package platform fetches and normalizes judge-platform data.
//
// One Fetcher per platform, all behind the same interface. The Codeforces
// API is documented and stable; the LeetCode and CodeChef response shapes
// are provisional, so each lives in its own file and a shape change stays
// contained there.
//
// Adapters never cache: every call builds a fresh request, by contract.
package platform

import (
	"context"
	"net/http"
	"time"

	"github.com/okian/cpcoach/internal/domain/model"
)

// defaultRequestTimeout bounds a single upstream call so one unresponsive
// platform cannot stall a whole response.
const defaultRequestTimeout = 8 * time.Second

// submissionFetchCount is how many recent submissions to request where the
// platform allows a count.
const submissionFetchCount = 2000

// Fetcher reads live data for one platform.
type Fetcher interface {
	// Platform identifies which judge this fetcher speaks to.
	Platform() model.Platform

	// FetchProfile returns a fresh snapshot for the handle.
	// Fails with ErrHandleNotFound (terminal for this handle) or
	// ErrUnavailable (transient, safe to retry).
	FetchProfile(ctx context.Context, handle model.Handle) (model.ProfileSnapshot, error)

	// FetchContests returns the platform's upcoming contests.
	FetchContests(ctx context.Context) ([]model.ContestEntry, error)
}

// options holds shared adapter configuration.
type options struct {
	baseURL string
	client  *http.Client
	now     func() time.Time
}

// Option applies a configuration option to an adapter.
type Option func(*options)

// WithBaseURL points the adapter at a different API root. Used by tests to
// target an httptest server.
func WithBaseURL(u string) Option {
	return func(o *options) {
		if u != "" {
			o.baseURL = u
		}
	}
}

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(o *options) {
		if c != nil {
			o.client = c
		}
	}
}

// WithClock overrides the adapter clock. Snapshots report this clock as
// FetchedAt so recency math stays independent of the caller's wall clock.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

func newOptions(baseURL string, opts ...Option) options {
	o := options{
		baseURL: baseURL,
		client:  &http.Client{Timeout: defaultRequestTimeout},
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// All returns one fetcher per supported platform, in the fixed platform
// order. Options apply to every adapter, so tests normally construct
// adapters individually instead.
func All(opts ...Option) []Fetcher {
	return []Fetcher{
		NewCodeforces(opts...),
		NewLeetCode(opts...),
		NewCodeChef(opts...),
	}
}
