package daterange

import (
	"errors"
	"fmt"
	"time"
)

var ErrInvalidRange = errors.New("daterange: invalid range")

// Accepted input layouts. Everything is normalized to UTC midnight, so two
// ranges compare by calendar date only.
var dateLayouts = []string{"2006-01-02", "02-01-2006"}

// DateRange is a half-open interval [Start, End): the end date is exclusive,
// which lets a checkout day double as another booking's checkin day.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// New builds a non-empty range. Start must be strictly before End.
func New(start, end time.Time) (DateRange, error) {
	start = Truncate(start)
	end = Truncate(end)
	if !start.Before(end) {
		return DateRange{}, fmt.Errorf("%w: start %s is not before end %s", ErrInvalidRange, start.Format(dateLayouts[0]), end.Format(dateLayouts[0]))
	}
	return DateRange{Start: start, End: end}, nil
}

// NewWindow builds a possibly-empty range. Only End before Start is rejected;
// Start == End yields an empty window that overlaps nothing.
func NewWindow(start, end time.Time) (DateRange, error) {
	start = Truncate(start)
	end = Truncate(end)
	if end.Before(start) {
		return DateRange{}, fmt.Errorf("%w: end %s is before start %s", ErrInvalidRange, end.Format(dateLayouts[0]), start.Format(dateLayouts[0]))
	}
	return DateRange{Start: start, End: end}, nil
}

// Parse builds a range from raw date strings in either accepted layout.
func Parse(start, end string) (DateRange, error) {
	s, err := ParseDate(start)
	if err != nil {
		return DateRange{}, err
	}
	e, err := ParseDate(end)
	if err != nil {
		return DateRange{}, err
	}
	return New(s, e)
}

// ParseDate accepts ISO YYYY-MM-DD or DD-MM-YYYY.
func ParseDate(value string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, value, time.UTC); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: cannot parse date %q", ErrInvalidRange, value)
}

// Truncate drops the time-of-day component, keeping the UTC calendar date.
func Truncate(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Overlaps reports whether two half-open ranges share at least one night.
func (r DateRange) Overlaps(other DateRange) bool {
	return !(r.End.Compare(other.Start) <= 0 || r.Start.Compare(other.End) >= 0)
}

// Nights returns the whole-day length of the range.
func (r DateRange) Nights() int {
	return int(r.End.Sub(r.Start) / (24 * time.Hour))
}

// IsZero reports whether the range is uninitialized or empty.
func (r DateRange) IsZero() bool {
	return !r.Start.Before(r.End)
}

func (r DateRange) String() string {
	return r.Start.Format(dateLayouts[0]) + ".." + r.End.Format(dateLayouts[0])
}
