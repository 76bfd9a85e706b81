package daterange_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stayhub/internal/domain/shared/daterange"
)

func day(value string) time.Time {
	t, err := time.ParseInLocation("2006-01-02", value, time.UTC)
	if err != nil {
		panic(err)
	}
	return t
}

func mustRange(t *testing.T, start, end string) daterange.DateRange {
	t.Helper()
	r, err := daterange.New(day(start), day(end))
	require.NoError(t, err)
	return r
}

func TestNewRejectsEmptyAndInverted(t *testing.T) {
	_, err := daterange.New(day("2026-09-10"), day("2026-09-10"))
	assert.ErrorIs(t, err, daterange.ErrInvalidRange)

	_, err = daterange.New(day("2026-09-12"), day("2026-09-10"))
	assert.ErrorIs(t, err, daterange.ErrInvalidRange)
}

func TestNewWindowAllowsEmpty(t *testing.T) {
	w, err := daterange.NewWindow(day("2026-09-10"), day("2026-09-10"))
	require.NoError(t, err)
	assert.True(t, w.IsZero())
	assert.Equal(t, 0, w.Nights())

	_, err = daterange.NewWindow(day("2026-09-12"), day("2026-09-10"))
	assert.ErrorIs(t, err, daterange.ErrInvalidRange)
}

func TestOverlapsIsHalfOpen(t *testing.T) {
	base := mustRange(t, "2026-09-10", "2026-09-14")

	cases := []struct {
		name  string
		other daterange.DateRange
		want  bool
	}{
		{"identical", mustRange(t, "2026-09-10", "2026-09-14"), true},
		{"contained", mustRange(t, "2026-09-11", "2026-09-13"), true},
		{"containing", mustRange(t, "2026-09-08", "2026-09-16"), true},
		{"overlaps start", mustRange(t, "2026-09-08", "2026-09-11"), true},
		{"overlaps end", mustRange(t, "2026-09-13", "2026-09-16"), true},
		{"single shared night", mustRange(t, "2026-09-13", "2026-09-14"), true},
		{"checkout equals checkin", mustRange(t, "2026-09-14", "2026-09-16"), false},
		{"checkin equals checkout", mustRange(t, "2026-09-08", "2026-09-10"), false},
		{"fully before", mustRange(t, "2026-09-01", "2026-09-05"), false},
		{"fully after", mustRange(t, "2026-09-20", "2026-09-25"), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, base.Overlaps(tc.other))
			assert.Equal(t, tc.want, tc.other.Overlaps(base), "overlap must be symmetric")
		})
	}
}

func TestEmptyWindowOverlapsNothing(t *testing.T) {
	empty, err := daterange.NewWindow(day("2026-09-12"), day("2026-09-12"))
	require.NoError(t, err)
	base := mustRange(t, "2026-09-10", "2026-09-14")
	assert.False(t, empty.Overlaps(base))
	assert.False(t, base.Overlaps(empty))
}

func TestParseAcceptsBothLayouts(t *testing.T) {
	iso, err := daterange.Parse("2026-09-10", "2026-09-14")
	require.NoError(t, err)

	euro, err := daterange.Parse("10-09-2026", "14-09-2026")
	require.NoError(t, err)

	assert.Equal(t, iso, euro)
	assert.Equal(t, 4, iso.Nights())
}

func TestParseRejectsGarbage(t *testing.T) {
	_, err := daterange.Parse("next tuesday", "2026-09-14")
	assert.ErrorIs(t, err, daterange.ErrInvalidRange)

	_, err = daterange.ParseDate("2026/09/10")
	assert.ErrorIs(t, err, daterange.ErrInvalidRange)
}

func TestTruncateDropsTimeOfDay(t *testing.T) {
	late := time.Date(2026, 9, 10, 23, 45, 0, 0, time.FixedZone("X", 3*3600))
	got := daterange.Truncate(late)
	assert.Equal(t, day("2026-09-10"), got)
}

func TestNights(t *testing.T) {
	assert.Equal(t, 1, mustRange(t, "2026-09-10", "2026-09-11").Nights())
	assert.Equal(t, 7, mustRange(t, "2026-09-10", "2026-09-17").Nights())
}
