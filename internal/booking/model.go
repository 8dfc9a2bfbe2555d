package booking

import (
	"errors"
	"fmt"
	"time"
)

type Status string

const (
	StatusPending   Status = "PENDING"
	StatusConfirmed Status = "CONFIRMED"
	StatusCancelled Status = "CANCELLED"
	StatusCompleted Status = "COMPLETED"
)

var ErrInvalidTransition = errors.New("invalid status transition")

// transitions lists every status a booking may move to from a given status.
// CANCELLED and COMPLETED are terminal.
var transitions = map[Status][]Status{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusCancelled, StatusCompleted},
}

// Transition reports whether a booking may move from one status to another.
// Every status change in the package goes through it.
func Transition(from, to Status) error {
	if !from.Valid() || !to.Valid() {
		return fmt.Errorf("%w: unknown status %s -> %s", ErrInvalidTransition, from, to)
	}
	for _, next := range transitions[from] {
		if next == to {
			return nil
		}
	}
	return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
}

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCancelled, StatusCompleted:
		return true
	}
	return false
}

func (s Status) Terminal() bool {
	return len(transitions[s]) == 0
}

// Overlaps is the half-open interval test [aStart, aEnd) ∩ [bStart, bEnd) ≠ ∅.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}

// blockingStatuses are the statuses that make a time range unavailable.
func blockingStatuses(pendingBlocks bool) []Status {
	if pendingBlocks {
		return []Status{StatusConfirmed, StatusPending}
	}
	return []Status{StatusConfirmed}
}

type Booking struct {
	ID              int       `db:"id" json:"id"`
	StadiumID       int       `db:"stadium_id" json:"stadium_id"`
	UserID          int       `db:"user_id" json:"user_id"`
	StartTime       time.Time `db:"start_time" json:"start_time"`
	EndTime         time.Time `db:"end_time" json:"end_time"`
	Status          Status    `db:"status" json:"status" swaggertype:"string" example:"CONFIRMED"`
	TotalPriceCents int64     `db:"total_price_cents" json:"total_price_cents" example:"9000"`
	SpecialRequests string    `db:"special_requests" json:"special_requests"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time `db:"updated_at" json:"updated_at"`
}

type BookingWithDetails struct {
	Booking
	StadiumName       string `db:"stadium_name" json:"stadium_name"`
	StadiumAddress    string `db:"stadium_address" json:"stadium_address"`
	StadiumCity       string `db:"stadium_city" json:"stadium_city"`
	StadiumPostalCode string `db:"stadium_postal_code" json:"stadium_postal_code"`
	StadiumOwnerID    int    `db:"stadium_owner_id" json:"stadium_owner_id"`
	UserName          string `db:"user_name" json:"user_name"`
	UserEmail         string `db:"user_email" json:"user_email"`
}

type CreateBookingRequest struct {
	StadiumID       int       `json:"stadium_id" binding:"required,min=1" example:"1"`
	StartTime       time.Time `json:"start_time" binding:"required" example:"2025-03-10T09:00:00Z"`
	EndTime         time.Time `json:"end_time" binding:"required" example:"2025-03-10T11:00:00Z"`
	SpecialRequests string    `json:"special_requests" binding:"max=2000"`
}

type UpdateStatusRequest struct {
	Status Status `json:"status" binding:"required,oneof=CONFIRMED CANCELLED" swaggertype:"string" example:"CONFIRMED"`
}

type ListFilter struct {
	Status    Status `form:"status" binding:"omitempty,oneof=PENDING CONFIRMED CANCELLED COMPLETED"`
	StadiumID int    `form:"stadiumId" binding:"omitempty,min=1"`
}

// Event is the payload published for every booking lifecycle change.
type Event struct {
	BookingID  int       `json:"booking_id"`
	StadiumID  int       `json:"stadium_id"`
	UserID     int       `json:"user_id"`
	Status     Status    `json:"status"`
	StartTime  time.Time `json:"start_time"`
	EndTime    time.Time `json:"end_time"`
	OccurredAt time.Time `json:"occurred_at"`
}
