package recurring

import (
	"fmt"
	"time"

	"bokclean/pkg/model"

	"github.com/google/uuid"
)

const dateLayout = "2006-01-02"

// NewGroupID mints the identifier shared by every occurrence of one
// series. Minted once per series by the caller, never per occurrence.
func NewGroupID() string {
	return "REC-" + uuid.New().String()
}

// Occurrences generates the future dates of a recurring series: exactly
// count dates after the anchor, anchor excluded. A one-time frequency
// yields an empty sequence.
//
// Monthly occurrences keep the anchor's day-of-month, clamped to the
// target month's length (Jan 31 + 1 month = Feb 28/29).
func Occurrences(frequency string, anchor time.Time, count int) []time.Time {
	if count <= 0 {
		return []time.Time{}
	}

	switch frequency {
	case model.FrequencyWeekly:
		return daySteps(anchor, 7, count)
	case model.FrequencyBiWeekly:
		return daySteps(anchor, 14, count)
	case model.FrequencyMonthly:
		return monthSteps(anchor, count)
	default:
		return []time.Time{}
	}
}

// OccurrenceDates is Occurrences for callers holding a YYYY-MM-DD
// scheduling string, returning the same format.
func OccurrenceDates(frequency, anchorDate string, count int) ([]string, error) {
	anchor, err := time.Parse(dateLayout, anchorDate)
	if err != nil {
		return nil, fmt.Errorf("invalid anchor date %q: %w", anchorDate, err)
	}

	occurrences := Occurrences(frequency, anchor, count)
	dates := make([]string, 0, len(occurrences))
	for _, occ := range occurrences {
		dates = append(dates, occ.Format(dateLayout))
	}
	return dates, nil
}

func daySteps(anchor time.Time, step, count int) []time.Time {
	out := make([]time.Time, 0, count)
	for k := 1; k <= count; k++ {
		out = append(out, anchor.AddDate(0, 0, step*k))
	}
	return out
}

func monthSteps(anchor time.Time, count int) []time.Time {
	out := make([]time.Time, 0, count)
	for k := 1; k <= count; k++ {
		out = append(out, addMonthsClamped(anchor, k))
	}
	return out
}

// addMonthsClamped advances by whole calendar months. time.AddDate
// normalizes Jan 31 + 1 month into Mar 2/3, so the day is clamped
// manually instead.
func addMonthsClamped(t time.Time, months int) time.Time {
	year, month, day := t.Date()

	firstOfTarget := time.Date(year, month+time.Month(months), 1, 0, 0, 0, 0, t.Location())
	lastDay := firstOfTarget.AddDate(0, 1, -1).Day()
	if day > lastDay {
		day = lastDay
	}

	return time.Date(firstOfTarget.Year(), firstOfTarget.Month(), day,
		t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}
