package platform

import (
	"sort"
	"strconv"
	"time"

	"github.com/okian/cpcoach/internal/domain/model"
)

// nextWeekday returns the next occurrence of the weekday at hh:mm UTC
// strictly after now.
func nextWeekday(now time.Time, day time.Weekday, hour, minute int) time.Time {
	daysAhead := (int(day) - int(now.Weekday()) + 7) % 7
	candidate := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, time.UTC).
		AddDate(0, 0, daysAhead)
	if !candidate.After(now) {
		candidate = candidate.AddDate(0, 0, 7)
	}
	return candidate
}

// firstOfNextMonth returns midnight UTC on the first day of the month
// after now.
func firstOfNextMonth(now time.Time) time.Time {
	return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, 1, 0)
}

// parseUnixString decodes a unix-seconds timestamp sent as a JSON string.
func parseUnixString(s string) (time.Time, bool) {
	secs, err := strconv.ParseInt(s, 10, 64)
	if err != nil || secs <= 0 {
		return time.Time{}, false
	}
	return time.Unix(secs, 0).UTC(), true
}

// sortChronological orders submissions oldest first in place.
func sortChronological(subs []model.Submission) {
	sort.SliceStable(subs, func(i, j int) bool { return subs[i].At.Before(subs[j].At) })
}
