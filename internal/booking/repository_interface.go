package booking

import (
	"context"
	"time"
)

type Repository interface {
	// Create inserts b as PENDING and, when b.Status asks for it, promotes it
	// in the same transaction. It fails with ErrBookingConflict when a booking
	// in one of the blocking statuses overlaps.
	Create(ctx context.Context, b *Booking, blocking []Status) error
	GetByID(ctx context.Context, id int) (*BookingWithDetails, error)
	ListForUser(ctx context.Context, userID int, f ListFilter) ([]BookingWithDetails, error)
	ListForStadium(ctx context.Context, stadiumID int, status Status) ([]BookingWithDetails, error)
	// TransitionStatus moves b to the given status only if it still has b.Status.
	TransitionStatus(ctx context.Context, b *Booking, to Status, blocking []Status) error
	CompleteEnded(ctx context.Context, now time.Time) ([]Booking, error)
}
