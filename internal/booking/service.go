package booking

import (
	"context"
	"errors"
	"math"
	"time"

	"stadiumbook/internal/auth"
	"stadiumbook/internal/email"
	"stadiumbook/internal/events"
	"stadiumbook/internal/logger"
	"stadiumbook/internal/metrics"
	"stadiumbook/internal/stadium"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var (
	ErrForbidden          = errors.New("forbidden")
	ErrInvalidTimeRange   = errors.New("end time must be after start time")
	ErrStartInPast        = errors.New("cannot book a time in the past")
	ErrInvalidTarget      = errors.New("status can only be changed to CONFIRMED or CANCELLED")
	ErrNotPending         = errors.New("only pending bookings can change status")
	ErrAlreadyClosed      = errors.New("booking is already cancelled or completed")
	ErrCancellationWindow = errors.New("bookings can only be cancelled ahead of the cancellation window")
)

var tracer = otel.Tracer("stadiumbook/booking")

// StadiumFinder is the part of the stadium store bookings need.
type StadiumFinder interface {
	GetByID(ctx context.Context, id int) (*stadium.Stadium, error)
}

type Notifier interface {
	SendBookingConfirmation(ctx context.Context, to, name string, d email.BookingDetails) error
	SendBookingCancellation(ctx context.Context, to, name string, d email.BookingDetails) error
}

type Config struct {
	// AutoConfirm confirms new bookings in the same transaction that creates them.
	AutoConfirm bool
	// PendingBlocks makes PENDING bookings hold their time range.
	PendingBlocks      bool
	CancellationWindow time.Duration
}

type Service interface {
	Create(ctx context.Context, id auth.Identity, req CreateBookingRequest) (*Booking, error)
	ListMine(ctx context.Context, id auth.Identity, f ListFilter) ([]BookingWithDetails, error)
	Get(ctx context.Context, id auth.Identity, bookingID int) (*BookingWithDetails, error)
	UpdateStatus(ctx context.Context, id auth.Identity, bookingID int, to Status) (*BookingWithDetails, error)
	Cancel(ctx context.Context, id auth.Identity, bookingID int) (*BookingWithDetails, error)
	ListForStadium(ctx context.Context, id auth.Identity, stadiumID int, status Status) ([]BookingWithDetails, error)
	CompleteEnded(ctx context.Context) (int, error)
}

type service struct {
	repo      Repository
	stadiums  StadiumFinder
	notifier  Notifier
	publisher events.Publisher
	cfg       Config
	now       func() time.Time
}

func NewService(repo Repository, stadiums StadiumFinder, notifier Notifier, publisher events.Publisher, cfg Config) Service {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &service{
		repo:      repo,
		stadiums:  stadiums,
		notifier:  notifier,
		publisher: publisher,
		cfg:       cfg,
		now:       time.Now,
	}
}

// priceFor charges the hourly rate pro rata, rounded to the nearest cent.
func priceFor(pricePerHourCents int64, d time.Duration) int64 {
	return int64(math.Round(float64(pricePerHourCents) * d.Hours()))
}

func (s *service) Create(ctx context.Context, id auth.Identity, req CreateBookingRequest) (*Booking, error) {
	ctx, span := tracer.Start(ctx, "booking.Create")
	defer span.End()
	span.SetAttributes(attribute.Int("stadium.id", req.StadiumID), attribute.Int("user.id", id.UserID))

	if !req.EndTime.After(req.StartTime) {
		return nil, ErrInvalidTimeRange
	}
	if req.StartTime.Before(s.now()) {
		return nil, ErrStartInPast
	}

	st, err := s.stadiums.GetByID(ctx, req.StadiumID)
	if err != nil {
		return nil, err
	}

	b := &Booking{
		StadiumID:       st.ID,
		UserID:          id.UserID,
		StartTime:       req.StartTime.UTC(),
		EndTime:         req.EndTime.UTC(),
		Status:          StatusPending,
		TotalPriceCents: priceFor(st.PricePerHourCents, req.EndTime.Sub(req.StartTime)),
		SpecialRequests: req.SpecialRequests,
	}
	if s.cfg.AutoConfirm {
		if err := Transition(StatusPending, StatusConfirmed); err != nil {
			return nil, err
		}
		b.Status = StatusConfirmed
	}

	if err := s.repo.Create(ctx, b, blockingStatuses(s.cfg.PendingBlocks)); err != nil {
		if errors.Is(err, ErrBookingConflict) {
			metrics.RecordBookingConflict()
			span.SetStatus(codes.Error, "conflict")
		}
		return nil, err
	}

	metrics.RecordBooking(string(b.Status))
	if b.Status == StatusConfirmed {
		metrics.RecordTransition(string(StatusPending), string(StatusConfirmed))
	}
	logger.Info("booking created", "booking_id", b.ID, "stadium_id", b.StadiumID, "user_id", b.UserID, "status", b.Status)

	s.publish(ctx, events.BookingCreated, b)
	if b.Status == StatusConfirmed {
		s.publish(ctx, events.BookingConfirmed, b)
	}
	return b, nil
}

func (s *service) ListMine(ctx context.Context, id auth.Identity, f ListFilter) ([]BookingWithDetails, error) {
	return s.repo.ListForUser(ctx, id.UserID, f)
}

func (s *service) Get(ctx context.Context, id auth.Identity, bookingID int) (*BookingWithDetails, error) {
	b, err := s.repo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if b.UserID != id.UserID && !id.CanManage(b.StadiumOwnerID) {
		return nil, ErrForbidden
	}
	return b, nil
}

func (s *service) UpdateStatus(ctx context.Context, id auth.Identity, bookingID int, to Status) (*BookingWithDetails, error) {
	ctx, span := tracer.Start(ctx, "booking.UpdateStatus")
	defer span.End()
	span.SetAttributes(attribute.Int("booking.id", bookingID), attribute.String("status.to", string(to)))

	if to != StatusConfirmed && to != StatusCancelled {
		return nil, ErrInvalidTarget
	}

	b, err := s.repo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !id.CanManage(b.StadiumOwnerID) {
		return nil, ErrForbidden
	}
	if b.Status != StatusPending {
		return nil, ErrNotPending
	}

	from := b.Status
	if err := s.transition(ctx, &b.Booking, to); err != nil {
		return nil, err
	}

	if to == StatusConfirmed {
		s.notify(ctx, b, email.TypeBookingConfirmation)
	} else {
		metrics.RecordBookingCancellation("owner")
	}

	logger.Info("booking status updated", "booking_id", b.ID, "from", from, "to", to, "by", id.UserID)
	return b, nil
}

func (s *service) Cancel(ctx context.Context, id auth.Identity, bookingID int) (*BookingWithDetails, error) {
	b, err := s.repo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if b.UserID != id.UserID {
		return nil, ErrForbidden
	}
	if b.Status.Terminal() {
		return nil, ErrAlreadyClosed
	}
	if b.StartTime.Sub(s.now()) < s.cfg.CancellationWindow {
		return nil, ErrCancellationWindow
	}

	if err := s.transition(ctx, &b.Booking, StatusCancelled); err != nil {
		return nil, err
	}

	metrics.RecordBookingCancellation("user")
	s.notify(ctx, b, email.TypeBookingCancellation)

	logger.Info("booking cancelled", "booking_id", b.ID, "user_id", id.UserID)
	return b, nil
}

func (s *service) ListForStadium(ctx context.Context, id auth.Identity, stadiumID int, status Status) ([]BookingWithDetails, error) {
	st, err := s.stadiums.GetByID(ctx, stadiumID)
	if err != nil {
		return nil, err
	}
	if !id.CanManage(st.OwnerID) {
		return nil, ErrForbidden
	}
	return s.repo.ListForStadium(ctx, stadiumID, status)
}

// CompleteEnded marks confirmed bookings whose end time has passed as completed.
func (s *service) CompleteEnded(ctx context.Context) (int, error) {
	if err := Transition(StatusConfirmed, StatusCompleted); err != nil {
		return 0, err
	}

	completed, err := s.repo.CompleteEnded(ctx, s.now())
	if err != nil {
		return 0, err
	}

	for i := range completed {
		metrics.RecordTransition(string(StatusConfirmed), string(StatusCompleted))
		s.publish(ctx, events.BookingCompleted, &completed[i])
	}
	return len(completed), nil
}

// transition validates the move, persists it and publishes the matching event.
func (s *service) transition(ctx context.Context, b *Booking, to Status) error {
	from := b.Status
	if err := Transition(from, to); err != nil {
		return err
	}

	if err := s.repo.TransitionStatus(ctx, b, to, blockingStatuses(s.cfg.PendingBlocks)); err != nil {
		if errors.Is(err, ErrBookingConflict) {
			metrics.RecordBookingConflict()
		}
		return err
	}

	metrics.RecordTransition(string(from), string(to))
	switch to {
	case StatusConfirmed:
		s.publish(ctx, events.BookingConfirmed, b)
	case StatusCancelled:
		s.publish(ctx, events.BookingCancelled, b)
	}
	return nil
}

func (s *service) publish(ctx context.Context, key string, b *Booking) {
	ev := Event{
		BookingID:  b.ID,
		StadiumID:  b.StadiumID,
		UserID:     b.UserID,
		Status:     b.Status,
		StartTime:  b.StartTime,
		EndTime:    b.EndTime,
		OccurredAt: s.now().UTC(),
	}
	if err := s.publisher.Publish(ctx, key, ev); err != nil {
		logger.Warn("failed to publish booking event", "key", key, "booking_id", b.ID, "error", err)
	}
}

// notify sends a booking email. Delivery problems never fail the request.
func (s *service) notify(ctx context.Context, b *BookingWithDetails, emailType string) {
	if s.notifier == nil {
		return
	}
	details := email.BookingDetails{
		BookingID:       b.ID,
		StadiumName:     b.StadiumName,
		Address:         b.StadiumAddress,
		City:            b.StadiumCity,
		PostalCode:      b.StadiumPostalCode,
		Start:           b.StartTime,
		End:             b.EndTime,
		TotalPriceCents: b.TotalPriceCents,
	}
	var err error
	switch emailType {
	case email.TypeBookingConfirmation:
		err = s.notifier.SendBookingConfirmation(ctx, b.UserEmail, b.UserName, details)
	case email.TypeBookingCancellation:
		err = s.notifier.SendBookingCancellation(ctx, b.UserEmail, b.UserName, details)
	}
	if err != nil {
		logger.Error("failed to queue booking email", "booking_id", b.ID, "error", err)
	}
}
