package dto

import (
	"time"

	domainblackout "stayhub/internal/domain/blackout"
)

type BlackoutView struct {
	ID        string    `json:"id"`
	ListingID string    `json:"listing_id"`
	Start     time.Time `json:"start"`
	End       time.Time `json:"end"`
	CreatedAt time.Time `json:"created_at"`
}

type BlackoutCollection struct {
	Items []BlackoutView `json:"items"`
}

func MapBlackoutView(b *domainblackout.Blackout) BlackoutView {
	return BlackoutView{
		ID:        string(b.ID),
		ListingID: string(b.ListingID),
		Start:     b.Window.Start,
		End:       b.Window.End,
		CreatedAt: b.CreatedAt,
	}
}
