// Package contests merges per-platform upcoming-contest feeds into one
// time-sorted, de-duplicated list.
package contests

import (
	"sort"
	"time"

	"github.com/okian/cpcoach/internal/domain/model"
)

// Feed limits, matching the product's contest listing behavior.
const (
	// window bounds how far ahead the merged feed looks.
	window = 30 * 24 * time.Hour

	// maxEntries caps the merged feed.
	maxEntries = 15
)

// Option applies a configuration option to a merge.
type Option func(*merger)

// WithWindow overrides the look-ahead window.
func WithWindow(d time.Duration) Option {
	return func(m *merger) {
		if d > 0 {
			m.window = d
		}
	}
}

// WithLimit overrides the entry cap.
func WithLimit(n int) Option {
	return func(m *merger) {
		if n > 0 {
			m.limit = n
		}
	}
}

type merger struct {
	window time.Duration
	limit  int
}

// Merge combines the per-platform lists into one ascending feed.
//
// Entries starting at or before now, or beyond the look-ahead window, are
// dropped. Duplicates are detected by exact (platform, name, start)
// identity via a seen-set; no fuzzy name matching. The result is sorted by
// start time with (platform, name) as the tie-break, so the merge is
// idempotent and commutative over input list order.
func Merge(now time.Time, lists [][]model.ContestEntry, opts ...Option) []model.ContestEntry {
	m := &merger{window: window, limit: maxEntries}
	for _, opt := range opts {
		opt(m)
	}

	horizon := now.Add(m.window)
	seen := make(map[string]struct{})
	out := []model.ContestEntry{}
	for _, list := range lists {
		for _, entry := range list {
			if !entry.StartTime.After(now) || entry.StartTime.After(horizon) {
				continue
			}
			key := entry.Key()
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			out = append(out, entry)
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if !out[i].StartTime.Equal(out[j].StartTime) {
			return out[i].StartTime.Before(out[j].StartTime)
		}
		if out[i].Platform != out[j].Platform {
			return out[i].Platform < out[j].Platform
		}
		return out[i].Name < out[j].Name
	})

	if len(out) > m.limit {
		out = out[:m.limit]
	}
	return out
}
