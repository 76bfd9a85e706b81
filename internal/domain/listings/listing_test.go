package listings_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stayhub/internal/domain/listings"
	"stayhub/internal/domain/shared/daterange"
)

func testListing(t *testing.T) *listings.Listing {
	t.Helper()
	l, err := listings.NewListing(listings.CreateParams{
		ID:               "ls-1",
		Owner:            "owner-1",
		Title:            "Canal loft",
		City:             "Amsterdam",
		Country:          "NL",
		NightlyRateCents: 12000,
		MaxGuests:        4,
		Now:              time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	return l
}

func TestNewListingValidation(t *testing.T) {
	base := listings.CreateParams{
		ID:               "ls-1",
		Owner:            "owner-1",
		Title:            "Canal loft",
		City:             "Amsterdam",
		Country:          "NL",
		NightlyRateCents: 12000,
		MaxGuests:        4,
		Now:              time.Now(),
	}

	noTitle := base
	noTitle.Title = "   "
	_, err := listings.NewListing(noTitle)
	assert.ErrorIs(t, err, listings.ErrTitleRequired)

	noCity := base
	noCity.City = ""
	_, err = listings.NewListing(noCity)
	assert.ErrorIs(t, err, listings.ErrLocationRequired)

	negativeRate := base
	negativeRate.NightlyRateCents = -1
	_, err = listings.NewListing(negativeRate)
	assert.ErrorIs(t, err, listings.ErrNightlyRate)

	zeroGuests := base
	zeroGuests.MaxGuests = 0
	_, err = listings.NewListing(zeroGuests)
	assert.ErrorIs(t, err, listings.ErrMaxGuests)
}

func TestCheckCapacityBoundaries(t *testing.T) {
	l := testListing(t)
	assert.NoError(t, l.CheckCapacity(1))
	assert.NoError(t, l.CheckCapacity(4), "guest count at capacity is allowed")
	assert.ErrorIs(t, l.CheckCapacity(5), listings.ErrCapacityExceeded)
	assert.ErrorIs(t, l.CheckCapacity(0), listings.ErrInvalidGuestCount)
	assert.ErrorIs(t, l.CheckCapacity(-2), listings.ErrInvalidGuestCount)
}

func TestQuoteIsNightsTimesRate(t *testing.T) {
	l := testListing(t)
	stay, err := daterange.Parse("2026-09-10", "2026-09-14")
	require.NoError(t, err)
	assert.Equal(t, int64(48000), l.Quote(stay))

	oneNight, err := daterange.Parse("2026-09-10", "2026-09-11")
	require.NoError(t, err)
	assert.Equal(t, int64(12000), l.Quote(oneNight))
}

func TestOwnedBy(t *testing.T) {
	l := testListing(t)
	assert.True(t, l.OwnedBy("owner-1"))
	assert.False(t, l.OwnedBy("owner-2"))
}

func TestApplyPatchesOnlyProvidedFields(t *testing.T) {
	l := testListing(t)
	title := "Canal loft deluxe"
	rate := int64(15000)
	now := time.Date(2026, 7, 2, 0, 0, 0, 0, time.UTC)

	changed, err := l.Apply(listings.UpdateParams{Title: &title, NightlyRateCents: &rate}, now)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, "Canal loft deluxe", l.Title)
	assert.Equal(t, int64(15000), l.NightlyRateCents)
	assert.Equal(t, "Amsterdam", l.City)
	assert.Equal(t, now, l.UpdatedAt)
}

func TestApplyRejectsInvalidPatch(t *testing.T) {
	l := testListing(t)
	empty := " "
	_, err := l.Apply(listings.UpdateParams{Title: &empty}, time.Now())
	assert.ErrorIs(t, err, listings.ErrTitleRequired)

	badGuests := 0
	_, err = l.Apply(listings.UpdateParams{MaxGuests: &badGuests}, time.Now())
	assert.ErrorIs(t, err, listings.ErrMaxGuests)
}

func TestApplyNoFieldsIsNoChange(t *testing.T) {
	l := testListing(t)
	before := l.UpdatedAt
	changed, err := l.Apply(listings.UpdateParams{}, time.Now())
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, before, l.UpdatedAt)
}

func TestSearchParamsNormalized(t *testing.T) {
	p := listings.SearchParams{City: "  Amsterdam ", Limit: 0, Offset: -3}.Normalized()
	assert.Equal(t, "Amsterdam", p.City)
	assert.Equal(t, 200, p.Limit)
	assert.Equal(t, 0, p.Offset)

	capped := listings.SearchParams{Limit: 1000}.Normalized()
	assert.Equal(t, 200, capped.Limit)
}
