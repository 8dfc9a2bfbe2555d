package availability

import "time"

// Slot is a configured opening window. Recurring slots carry DayOfWeek
// (0 = Sunday); one-off slots carry SpecificDate as YYYY-MM-DD.
type Slot struct {
	ID           int       `db:"id" json:"id"`
	StadiumID    int       `db:"stadium_id" json:"stadium_id"`
	IsRecurring  bool      `db:"is_recurring" json:"is_recurring"`
	DayOfWeek    *int      `db:"day_of_week" json:"day_of_week,omitempty"`
	SpecificDate *string   `db:"specific_date" json:"specific_date,omitempty"`
	StartTime    string    `db:"start_time" json:"start_time"`
	EndTime      string    `db:"end_time" json:"end_time"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// BookedRange is the absolute time span of a booking that occupies the venue.
type BookedRange struct {
	StartTime time.Time `db:"start_time"`
	EndTime   time.Time `db:"end_time"`
}

type Window struct {
	StartTime string `json:"start_time" example:"08:00"`
	EndTime   string `json:"end_time" example:"10:00"`
}

type Candidate struct {
	Window
	IsBooked bool `json:"is_booked"`
}

type DayAvailability struct {
	Date           string      `json:"date" example:"2025-03-10"`
	AvailableSlots []Candidate `json:"available_slots"`
	BookedSlots    []Window    `json:"booked_slots"`
}

type RecurringSlotInput struct {
	DayOfWeek *int   `json:"day_of_week" binding:"required,min=0,max=6" example:"1"`
	StartTime string `json:"start_time" binding:"required,hhmm" example:"08:00"`
	EndTime   string `json:"end_time" binding:"required,hhmm" example:"10:00"`
}

type SpecificSlotInput struct {
	SpecificDate string `json:"specific_date" binding:"required,isodate" example:"2025-03-14"`
	StartTime    string `json:"start_time" binding:"required,hhmm" example:"18:00"`
	EndTime      string `json:"end_time" binding:"required,hhmm" example:"22:00"`
}

type ReplaceRequest struct {
	RecurringSlots []RecurringSlotInput `json:"recurring_slots" binding:"dive"`
	SpecificSlots  []SpecificSlotInput  `json:"specific_slots" binding:"dive"`
}

type SlotsResponse struct {
	RecurringSlots []Slot `json:"recurring_slots"`
	SpecificSlots  []Slot `json:"specific_slots"`
}
