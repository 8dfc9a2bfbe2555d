package booking

import (
	"context"
	"sync"
	"time"

	"stadiumbook/internal/auth"
	"stadiumbook/internal/email"
	"stadiumbook/internal/stadium"

	"github.com/stretchr/testify/mock"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Create(ctx context.Context, b *Booking, blocking []Status) error {
	return m.Called(ctx, b, blocking).Error(0)
}

func (m *MockRepository) GetByID(ctx context.Context, id int) (*BookingWithDetails, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*BookingWithDetails), args.Error(1)
}

func (m *MockRepository) ListForUser(ctx context.Context, userID int, f ListFilter) ([]BookingWithDetails, error) {
	args := m.Called(ctx, userID, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]BookingWithDetails), args.Error(1)
}

func (m *MockRepository) ListForStadium(ctx context.Context, stadiumID int, status Status) ([]BookingWithDetails, error) {
	args := m.Called(ctx, stadiumID, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]BookingWithDetails), args.Error(1)
}

func (m *MockRepository) TransitionStatus(ctx context.Context, b *Booking, to Status, blocking []Status) error {
	return m.Called(ctx, b, to, blocking).Error(0)
}

func (m *MockRepository) CompleteEnded(ctx context.Context, now time.Time) ([]Booking, error) {
	args := m.Called(ctx, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Booking), args.Error(1)
}

type MockStadiums struct {
	mock.Mock
}

func (m *MockStadiums) GetByID(ctx context.Context, id int) (*stadium.Stadium, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*stadium.Stadium), args.Error(1)
}

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) SendBookingConfirmation(ctx context.Context, to, name string, d email.BookingDetails) error {
	return m.Called(ctx, to, name, d).Error(0)
}

func (m *MockNotifier) SendBookingCancellation(ctx context.Context, to, name string, d email.BookingDetails) error {
	return m.Called(ctx, to, name, d).Error(0)
}

// recordingPublisher keeps the routing keys of everything published.
type recordingPublisher struct {
	mu   sync.Mutex
	keys []string
	err  error
}

func (p *recordingPublisher) Publish(_ context.Context, key string, _ any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.keys = append(p.keys, key)
	return p.err
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) Keys() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.keys...)
}

var (
	owner    = auth.Identity{UserID: 10, Email: "owner@example.com", Role: auth.RoleStadiumOwner}
	stranger = auth.Identity{UserID: 11, Email: "other@example.com", Role: auth.RoleStadiumOwner}
	admin    = auth.Identity{UserID: 1, Email: "admin@example.com", Role: auth.RoleAdmin}
	player   = auth.Identity{UserID: 20, Email: "player@example.com", Role: auth.RoleUser}
)

// fixedNow is the clock every service test runs at.
var fixedNow = time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

func testStadium() *stadium.Stadium {
	return &stadium.Stadium{ID: 5, OwnerID: owner.UserID, Name: "Riverside Arena", PricePerHourCents: 4500}
}

func detailed(status Status, start time.Time) *BookingWithDetails {
	return &BookingWithDetails{
		Booking: Booking{
			ID:              42,
			StadiumID:       5,
			UserID:          player.UserID,
			StartTime:       start,
			EndTime:         start.Add(2 * time.Hour),
			Status:          status,
			TotalPriceCents: 9000,
		},
		StadiumName:    "Riverside Arena",
		StadiumCity:    "Leeds",
		StadiumOwnerID: owner.UserID,
		UserName:       "Player One",
		UserEmail:      "player@example.com",
	}
}

// setStatus makes a mocked TransitionStatus behave like the real one on success.
func setStatus(args mock.Arguments) {
	args.Get(1).(*Booking).Status = args.Get(2).(Status)
}
