package availability

import (
	"context"
	"time"
)

type Repository interface {
	ListSlots(ctx context.Context, stadiumID int) ([]Slot, error)
	ReplaceSlots(ctx context.Context, stadiumID int, slots []Slot) ([]Slot, error)
	ListBookedRanges(ctx context.Context, stadiumID int, from, to time.Time) ([]BookedRange, error)
}
