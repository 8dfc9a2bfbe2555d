package availability

import (
	"context"
	"errors"
	"fmt"
	"time"

	"stadiumbook/internal/api"
	"stadiumbook/internal/auth"
	"stadiumbook/internal/metrics"
	"stadiumbook/internal/stadium"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

var (
	ErrDateRequired = errors.New("date is required")
	ErrInvalidDate  = errors.New("invalid date")
	ErrForbidden    = errors.New("forbidden")
)

var tracer = otel.Tracer("stadiumbook/availability")

// InvalidSlotError reports which submitted slot was rejected and why.
type InvalidSlotError struct {
	Field   string
	Message string
}

func (e *InvalidSlotError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// StadiumFinder is the part of the stadium store availability needs.
type StadiumFinder interface {
	GetByID(ctx context.Context, id int) (*stadium.Stadium, error)
}

type Service interface {
	ForDate(ctx context.Context, stadiumID int, date string) (*DayAvailability, error)
	Slots(ctx context.Context, stadiumID int) (*SlotsResponse, error)
	Replace(ctx context.Context, id auth.Identity, stadiumID int, req ReplaceRequest) (*SlotsResponse, error)
}

type service struct {
	repo     Repository
	stadiums StadiumFinder
	loc      *time.Location
}

func NewService(repo Repository, stadiums StadiumFinder, loc *time.Location) Service {
	if loc == nil {
		loc = time.UTC
	}
	return &service{
		repo:     repo,
		stadiums: stadiums,
		loc:      loc,
	}
}

func (s *service) ForDate(ctx context.Context, stadiumID int, date string) (*DayAvailability, error) {
	ctx, span := tracer.Start(ctx, "availability.ForDate")
	defer span.End()
	span.SetAttributes(attribute.Int("stadium.id", stadiumID), attribute.String("date", date))

	if date == "" {
		return nil, ErrDateRequired
	}
	day, err := time.ParseInLocation(api.DateLayout, date, s.loc)
	if err != nil {
		return nil, ErrInvalidDate
	}

	if _, err := s.stadiums.GetByID(ctx, stadiumID); err != nil {
		return nil, err
	}

	slots, err := s.repo.ListSlots(ctx, stadiumID)
	if err != nil {
		return nil, err
	}

	dayEnd := day.AddDate(0, 0, 1).Add(-time.Millisecond)
	booked, err := s.repo.ListBookedRanges(ctx, stadiumID, day, dayEnd)
	if err != nil {
		return nil, err
	}

	result := Resolve(day, slots, booked, s.loc)
	metrics.RecordAvailabilityLookup(len(result.AvailableSlots) > 0)

	return &result, nil
}

func (s *service) Slots(ctx context.Context, stadiumID int) (*SlotsResponse, error) {
	if _, err := s.stadiums.GetByID(ctx, stadiumID); err != nil {
		return nil, err
	}

	slots, err := s.repo.ListSlots(ctx, stadiumID)
	if err != nil {
		return nil, err
	}
	return split(slots), nil
}

func (s *service) Replace(ctx context.Context, id auth.Identity, stadiumID int, req ReplaceRequest) (*SlotsResponse, error) {
	ctx, span := tracer.Start(ctx, "availability.Replace")
	defer span.End()

	st, err := s.stadiums.GetByID(ctx, stadiumID)
	if err != nil {
		return nil, err
	}
	if !id.CanManage(st.OwnerID) {
		return nil, ErrForbidden
	}

	slots, err := toSlots(stadiumID, req)
	if err != nil {
		return nil, err
	}

	saved, err := s.repo.ReplaceSlots(ctx, stadiumID, slots)
	if err != nil {
		return nil, err
	}
	return split(saved), nil
}

// toSlots checks the cross-field rules binding cannot express and builds rows.
func toSlots(stadiumID int, req ReplaceRequest) ([]Slot, error) {
	slots := make([]Slot, 0, len(req.RecurringSlots)+len(req.SpecificSlots))

	for i, in := range req.RecurringSlots {
		if in.DayOfWeek == nil || *in.DayOfWeek < 0 || *in.DayOfWeek > 6 {
			return nil, &InvalidSlotError{Field: fmt.Sprintf("recurring_slots[%d].day_of_week", i), Message: "must be between 0 and 6"}
		}
		if in.StartTime >= in.EndTime {
			return nil, &InvalidSlotError{Field: fmt.Sprintf("recurring_slots[%d]", i), Message: "start_time must be before end_time"}
		}
		day := *in.DayOfWeek
		slots = append(slots, Slot{
			StadiumID:   stadiumID,
			IsRecurring: true,
			DayOfWeek:   &day,
			StartTime:   in.StartTime,
			EndTime:     in.EndTime,
		})
	}

	for i, in := range req.SpecificSlots {
		if _, err := time.Parse(api.DateLayout, in.SpecificDate); err != nil {
			return nil, &InvalidSlotError{Field: fmt.Sprintf("specific_slots[%d].specific_date", i), Message: "must be a date in YYYY-MM-DD format"}
		}
		if in.StartTime >= in.EndTime {
			return nil, &InvalidSlotError{Field: fmt.Sprintf("specific_slots[%d]", i), Message: "start_time must be before end_time"}
		}
		date := in.SpecificDate
		slots = append(slots, Slot{
			StadiumID:    stadiumID,
			SpecificDate: &date,
			StartTime:    in.StartTime,
			EndTime:      in.EndTime,
		})
	}

	return slots, nil
}

func split(slots []Slot) *SlotsResponse {
	resp := &SlotsResponse{RecurringSlots: []Slot{}, SpecificSlots: []Slot{}}
	for _, s := range slots {
		if s.IsRecurring {
			resp.RecurringSlots = append(resp.RecurringSlots, s)
		} else {
			resp.SpecificSlots = append(resp.SpecificSlots, s)
		}
	}
	return resp
}
