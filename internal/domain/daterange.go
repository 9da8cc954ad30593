package domain

import (
	"fmt"
	"time"
)

// DateLayout is the calendar date format accepted on the command line.
const DateLayout = "2006-01-02"

// DateRange is the half-open interval [Start, End).
type DateRange struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether t lies in [Start, End).
func (r DateRange) Contains(t time.Time) bool {
	return !t.Before(r.Start) && t.Before(r.End)
}

// Validate checks that Start is before End.
func (r DateRange) Validate() error {
	if !r.Start.Before(r.End) {
		return fmt.Errorf("%w: %s >= %s", ErrInvalidDateRange,
			r.Start.Format(time.RFC3339), r.End.Format(time.RFC3339))
	}
	return nil
}

// String formats the range as "YYYY-MM-DD to YYYY-MM-DD".
func (r DateRange) String() string {
	return r.Start.Format(DateLayout) + " to " + r.End.Format(DateLayout)
}

// PreviousMonth returns the whole calendar month before now, in UTC.
func PreviousMonth(now time.Time) DateRange {
	now = now.UTC()
	firstOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	return DateRange{
		Start: firstOfMonth.AddDate(0, -1, 0),
		End:   firstOfMonth,
	}
}

// ParseDate accepts YYYY-MM-DD (UTC midnight) or an RFC 3339 timestamp.
func ParseDate(s string) (time.Time, error) {
	if t, err := time.Parse(DateLayout, s); err == nil {
		return t.UTC(), nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), nil
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
}

// ResolveDateRange parses the optional bounds, defaulting each missing bound
// to the previous calendar month relative to now.
func ResolveDateRange(start, end string, now time.Time) (DateRange, error) {
	r := PreviousMonth(now)
	if start != "" {
		t, err := ParseDate(start)
		if err != nil {
			return DateRange{}, err
		}
		r.Start = t
	}
	if end != "" {
		t, err := ParseDate(end)
		if err != nil {
			return DateRange{}, err
		}
		r.End = t
	}
	if err := r.Validate(); err != nil {
		return DateRange{}, err
	}
	return r, nil
}

// FilterQuery returns the message list filter for the range. The backend only
// supports strict comparisons, so the lower bound is widened by one second and
// callers must still apply Contains to the results.
func (r DateRange) FilterQuery() string {
	return fmt.Sprintf(`createTime > "%s" AND createTime < "%s"`,
		r.Start.Add(-time.Second).UTC().Format(time.RFC3339),
		r.End.UTC().Format(time.RFC3339))
}
