package projection_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stayhub/internal/app/projection"
	"stayhub/internal/infra/storage/memory"
)

func createdEvent(t *testing.T, bookingID, status string, createdAt time.Time) []byte {
	t.Helper()
	payload, err := json.Marshal(map[string]any{
		"bookingId":  bookingID,
		"travelerId": "traveler-1",
		"ownerId":    "owner-1",
		"propertyId": "ls-1",
		"status":     status,
		"totalPrice": 48000,
		"checkIn":    "2026-09-10",
		"checkOut":   "2026-09-14",
		"guests":     2,
		"createdAt":  createdAt,
	})
	require.NoError(t, err)
	return payload
}

func statusEvent(t *testing.T, bookingID, status string, updatedAt time.Time) []byte {
	t.Helper()
	payload, err := json.Marshal(map[string]any{
		"bookingId": bookingID,
		"ownerId":   "owner-1",
		"status":    status,
		"updatedAt": updatedAt,
	})
	require.NoError(t, err)
	return payload
}

func TestApplyCreatedBuildsView(t *testing.T) {
	ctx := context.Background()
	store := memory.NewTripStore()
	applier := &projection.Applier{Store: store}
	createdAt := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, applier.ApplyCreated(ctx, createdEvent(t, "bk-1", "pending", createdAt)))

	view, err := store.Get(ctx, "bk-1")
	require.NoError(t, err)
	assert.Equal(t, "traveler-1", view.TravelerID)
	assert.Equal(t, "ls-1", view.ListingID)
	assert.Equal(t, "2026-09-10", view.CheckIn)
	assert.Equal(t, "2026-09-14", view.CheckOut)
	assert.Equal(t, int64(48000), view.TotalPriceCents)
	assert.Equal(t, "pending", view.Status)
	assert.Equal(t, createdAt, view.UpdatedAt)
}

func TestApplyCreatedReplayIsNoOp(t *testing.T) {
	ctx := context.Background()
	store := memory.NewTripStore()
	applier := &projection.Applier{Store: store}
	createdAt := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, applier.ApplyCreated(ctx, createdEvent(t, "bk-1", "pending", createdAt)))
	require.NoError(t, applier.ApplyStatus(ctx, statusEvent(t, "bk-1", "accepted", createdAt.Add(time.Hour))))

	// At-least-once delivery replays the creation after the status landed.
	require.NoError(t, applier.ApplyCreated(ctx, createdEvent(t, "bk-1", "pending", createdAt)))

	view, err := store.Get(ctx, "bk-1")
	require.NoError(t, err)
	assert.Equal(t, "accepted", view.Status, "replayed creation must not roll the status back")
}

func TestApplyStatusIsIdempotent(t *testing.T) {
	ctx := context.Background()
	store := memory.NewTripStore()
	applier := &projection.Applier{Store: store}
	createdAt := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, applier.ApplyCreated(ctx, createdEvent(t, "bk-1", "pending", createdAt)))
	accepted := statusEvent(t, "bk-1", "accepted", createdAt.Add(time.Hour))
	require.NoError(t, applier.ApplyStatus(ctx, accepted))
	require.NoError(t, applier.ApplyStatus(ctx, accepted))

	view, err := store.Get(ctx, "bk-1")
	require.NoError(t, err)
	assert.Equal(t, "accepted", view.Status)
	assert.Equal(t, createdAt.Add(time.Hour), view.UpdatedAt)
}

func TestApplyStatusIgnoresStaleEvents(t *testing.T) {
	ctx := context.Background()
	store := memory.NewTripStore()
	applier := &projection.Applier{Store: store}
	createdAt := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, applier.ApplyCreated(ctx, createdEvent(t, "bk-1", "pending", createdAt)))
	require.NoError(t, applier.ApplyStatus(ctx, statusEvent(t, "bk-1", "cancelled", createdAt.Add(2*time.Hour))))

	// An older accepted event arriving out of order must not win.
	require.NoError(t, applier.ApplyStatus(ctx, statusEvent(t, "bk-1", "accepted", createdAt.Add(time.Hour))))

	view, err := store.Get(ctx, "bk-1")
	require.NoError(t, err)
	assert.Equal(t, "cancelled", view.Status)
}

func TestApplyStatusBeforeCreatedKeepsStub(t *testing.T) {
	ctx := context.Background()
	store := memory.NewTripStore()
	applier := &projection.Applier{Store: store}
	updatedAt := time.Date(2026, 8, 1, 13, 0, 0, 0, time.UTC)

	require.NoError(t, applier.ApplyStatus(ctx, statusEvent(t, "bk-1", "accepted", updatedAt)))

	view, err := store.Get(ctx, "bk-1")
	require.NoError(t, err)
	assert.Equal(t, "accepted", view.Status)
	assert.Equal(t, "owner-1", view.OwnerID)
}

func TestApplyRejectsEventsWithoutBookingID(t *testing.T) {
	ctx := context.Background()
	applier := &projection.Applier{Store: memory.NewTripStore()}

	assert.Error(t, applier.ApplyCreated(ctx, []byte(`{"status":"pending"}`)))
	assert.Error(t, applier.ApplyStatus(ctx, []byte(`{"status":"accepted"}`)))
	assert.Error(t, applier.ApplyCreated(ctx, []byte(`not json`)))
}
