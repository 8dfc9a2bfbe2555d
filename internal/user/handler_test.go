package user

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"stadiumbook/internal/auth"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) Register(ctx context.Context, req RegisterRequest) (*User, string, string, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, "", "", args.Error(3)
	}
	return args.Get(0).(*User), args.String(1), args.String(2), args.Error(3)
}

func (m *MockService) Login(ctx context.Context, req LoginRequest) (*User, string, string, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, "", "", args.Error(3)
	}
	return args.Get(0).(*User), args.String(1), args.String(2), args.Error(3)
}

func (m *MockService) GetByID(ctx context.Context, userID int) (*User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*User), args.Error(1)
}

func (m *MockService) RefreshToken(ctx context.Context, refreshToken string) (string, *User, error) {
	args := m.Called(ctx, refreshToken)
	if args.Get(1) == nil {
		return "", nil, args.Error(2)
	}
	return args.String(0), args.Get(1).(*User), args.Error(2)
}

func (m *MockService) UpdateProfile(ctx context.Context, userID int, req UpdateProfileRequest) (*User, error) {
	args := m.Called(ctx, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*User), args.Error(1)
}

const testCookie = "stadiumbook_session"

func setupRouter(svc Service, identity *auth.Identity) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewHandler(svc, testCookie, false)

	withIdentity := func(c *gin.Context) {
		if identity != nil {
			auth.SetIdentity(c, *identity)
		}
		c.Next()
	}

	r.POST("/auth/register", h.Register)
	r.POST("/auth/login", h.Login)
	r.POST("/auth/logout", h.Logout)
	r.POST("/auth/refresh", h.RefreshToken)
	r.GET("/me", withIdentity, h.GetMe)
	r.PATCH("/user/profile", withIdentity, h.UpdateProfile)
	return r
}

func doJSON(r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHandler_Register(t *testing.T) {
	tests := []struct {
		name           string
		body           any
		setupMocks     func(*MockService)
		expectedStatus int
		expectCookie   bool
	}{
		{
			name: "created",
			body: RegisterRequest{Name: "Jane", Email: "jane@example.com", Password: "secret123"},
			setupMocks: func(m *MockService) {
				m.On("Register", mock.Anything, mock.AnythingOfType("RegisterRequest")).
					Return(&User{ID: 1, Email: "jane@example.com", Role: auth.RoleUser}, "access", "refresh", nil)
			},
			expectedStatus: http.StatusCreated,
			expectCookie:   true,
		},
		{
			name:           "invalid email",
			body:           map[string]string{"name": "Jane", "email": "nope", "password": "secret123"},
			setupMocks:     func(m *MockService) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "duplicate",
			body: RegisterRequest{Name: "Jane", Email: "jane@example.com", Password: "secret123"},
			setupMocks: func(m *MockService) {
				m.On("Register", mock.Anything, mock.Anything).Return(nil, "", "", ErrEmailExists)
			},
			expectedStatus: http.StatusConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockService)
			tt.setupMocks(svc)

			w := doJSON(setupRouter(svc, nil), http.MethodPost, "/auth/register", tt.body)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectCookie {
				assert.Contains(t, w.Header().Get("Set-Cookie"), testCookie+"=access")
			}
			svc.AssertExpectations(t)
		})
	}
}

func TestHandler_Login(t *testing.T) {
	svc := new(MockService)
	svc.On("Login", mock.Anything, LoginRequest{Email: "jane@example.com", Password: "bad"}).
		Return(nil, "", "", ErrInvalidCredentials)
	svc.On("Login", mock.Anything, LoginRequest{Email: "jane@example.com", Password: "good"}).
		Return(&User{ID: 1, Email: "jane@example.com"}, "access", "refresh", nil)

	r := setupRouter(svc, nil)

	w := doJSON(r, http.MethodPost, "/auth/login", LoginRequest{Email: "jane@example.com", Password: "bad"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(r, http.MethodPost, "/auth/login", LoginRequest{Email: "jane@example.com", Password: "good"})
	require.Equal(t, http.StatusOK, w.Code)

	var resp LoginResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "access", resp.AccessToken)
	assert.Equal(t, "refresh", resp.RefreshToken)
}

func TestHandler_Logout(t *testing.T) {
	w := doJSON(setupRouter(new(MockService), nil), http.MethodPost, "/auth/logout", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Set-Cookie"), "Max-Age=0")
}

func TestHandler_RefreshToken(t *testing.T) {
	svc := new(MockService)
	svc.On("RefreshToken", mock.Anything, "expired").Return("", nil, auth.ErrTokenExpired)

	w := doJSON(setupRouter(svc, nil), http.MethodPost, "/auth/refresh", RefreshRequest{RefreshToken: "expired"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(setupRouter(svc, nil), http.MethodPost, "/auth/refresh", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandler_GetMe(t *testing.T) {
	t.Run("unauthenticated", func(t *testing.T) {
		w := doJSON(setupRouter(new(MockService), nil), http.MethodGet, "/me", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("found", func(t *testing.T) {
		svc := new(MockService)
		svc.On("GetByID", mock.Anything, 7).Return(&User{ID: 7, Name: "Jane", PasswordHash: "hidden"}, nil)

		w := doJSON(setupRouter(svc, &auth.Identity{UserID: 7, Role: auth.RoleUser}), http.MethodGet, "/me", nil)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.NotContains(t, w.Body.String(), "hidden")
	})

	t.Run("deleted user", func(t *testing.T) {
		svc := new(MockService)
		svc.On("GetByID", mock.Anything, 7).Return(nil, ErrUserNotFound)

		w := doJSON(setupRouter(svc, &auth.Identity{UserID: 7}), http.MethodGet, "/me", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestHandler_UpdateProfile(t *testing.T) {
	svc := new(MockService)
	svc.On("UpdateProfile", mock.Anything, 7, UpdateProfileRequest{Name: "Renamed"}).
		Return(&User{ID: 7, Name: "Renamed"}, nil)

	r := setupRouter(svc, &auth.Identity{UserID: 7, Role: auth.RoleUser})

	w := doJSON(r, http.MethodPatch, "/user/profile", UpdateProfileRequest{Name: "Renamed"})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Renamed")

	w = doJSON(r, http.MethodPatch, "/user/profile", map[string]string{"name": ""})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	svc.AssertExpectations(t)
}
