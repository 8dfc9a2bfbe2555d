package review

import (
	"context"
	"testing"
	"time"

	"stadiumbook/internal/auth"
	"stadiumbook/internal/stadium"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Create(ctx context.Context, r *Review) error {
	return m.Called(ctx, r).Error(0)
}

func (m *MockRepository) GetByID(ctx context.Context, id int) (*Review, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Review), args.Error(1)
}

func (m *MockRepository) ListForStadium(ctx context.Context, stadiumID int) ([]ReviewWithAuthor, error) {
	args := m.Called(ctx, stadiumID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]ReviewWithAuthor), args.Error(1)
}

func (m *MockRepository) Delete(ctx context.Context, id int) error {
	return m.Called(ctx, id).Error(0)
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

var (
	author = auth.Identity{UserID: 20, Role: auth.RoleUser}
	other  = auth.Identity{UserID: 21, Role: auth.RoleUser}
	admin  = auth.Identity{UserID: 1, Role: auth.RoleAdmin}
)

func TestService_Create(t *testing.T) {
	tests := []struct {
		name        string
		setupMocks  func(*MockRepository, *MockStadiums)
		expectedErr error
	}{
		{
			name: "ok",
			setupMocks: func(r *MockRepository, s *MockStadiums) {
				s.On("GetByID", mock.Anything, 5).Return(&stadium.Stadium{ID: 5}, nil)
				r.On("Create", mock.Anything, mock.MatchedBy(func(rv *Review) bool {
					return rv.StadiumID == 5 && rv.UserID == 20 && rv.Rating == 4 && rv.Content == "Nice turf"
				})).Run(func(args mock.Arguments) {
					rv := args.Get(1).(*Review)
					rv.ID = 9
					rv.CreatedAt = time.Now()
				}).Return(nil)
			},
		},
		{
			name: "unknown stadium",
			setupMocks: func(r *MockRepository, s *MockStadiums) {
				s.On("GetByID", mock.Anything, 5).Return(nil, stadium.ErrStadiumNotFound)
			},
			expectedErr: stadium.ErrStadiumNotFound,
		},
		{
			name: "second review",
			setupMocks: func(r *MockRepository, s *MockStadiums) {
				s.On("GetByID", mock.Anything, 5).Return(&stadium.Stadium{ID: 5}, nil)
				r.On("Create", mock.Anything, mock.Anything).Return(ErrAlreadyReviewed)
			},
			expectedErr: ErrAlreadyReviewed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, stadiums := new(MockRepository), new(MockStadiums)
			tt.setupMocks(repo, stadiums)
			svc := NewService(repo, stadiums)

			rv, err := svc.Create(context.Background(), author, 5, CreateReviewRequest{Rating: 4, Content: "  Nice turf "})

			if tt.expectedErr != nil {
				assert.ErrorIs(t, err, tt.expectedErr)
			} else {
				require.NoError(t, err)
				assert.Equal(t, 9, rv.ID)
			}
			repo.AssertExpectations(t)
			stadiums.AssertExpectations(t)
		})
	}
}

func TestService_List(t *testing.T) {
	repo, stadiums := new(MockRepository), new(MockStadiums)
	stadiums.On("GetByID", mock.Anything, 5).Return(&stadium.Stadium{ID: 5}, nil)
	repo.On("ListForStadium", mock.Anything, 5).Return([]ReviewWithAuthor{{UserName: "Jane"}}, nil)

	reviews, err := NewService(repo, stadiums).List(context.Background(), 5)
	require.NoError(t, err)
	assert.Len(t, reviews, 1)
}

func TestService_Delete(t *testing.T) {
	tests := []struct {
		name        string
		caller      auth.Identity
		expectedErr error
	}{
		{name: "author", caller: author},
		{name: "admin", caller: admin},
		{name: "someone else", caller: other, expectedErr: ErrForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockRepository)
			repo.On("GetByID", mock.Anything, 9).Return(&Review{ID: 9, UserID: author.UserID}, nil)
			if tt.expectedErr == nil {
				repo.On("Delete", mock.Anything, 9).Return(nil)
			}

			err := NewService(repo, new(MockStadiums)).Delete(context.Background(), tt.caller, 9)

			if tt.expectedErr != nil {
				assert.ErrorIs(t, err, tt.expectedErr)
				repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
			} else {
				assert.NoError(t, err)
			}
			repo.AssertExpectations(t)
		})
	}
}
