package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"stadiumbook/internal/auth"
	"stadiumbook/internal/availability"
	"stadiumbook/internal/booking"
	"stadiumbook/internal/config"
	"stadiumbook/internal/email"
	"stadiumbook/internal/events"
	"stadiumbook/internal/logger"
	"stadiumbook/internal/review"
	"stadiumbook/internal/stadium"
	"stadiumbook/internal/user"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
)

type Server struct {
	router   *gin.Engine
	http     *http.Server
	limiter  *RateLimiter
	bookings booking.Service
}

// New wires repositories, services and handlers into a gin engine.
// emailService and publisher may be nil.
func New(cfg *config.Config, database *sqlx.DB, emailService *email.Service, publisher events.Publisher) *Server {
	loc := cfg.Location()

	userRepo := user.NewRepository(database)
	stadiumRepo := stadium.NewRepository(database)
	availabilityRepo := availability.NewRepository(database)
	bookingRepo := booking.NewRepository(database)
	reviewRepo := review.NewRepository(database)

	var notifier booking.Notifier
	if emailService != nil {
		notifier = emailService
	}

	userService := user.NewService(userRepo, cfg.JWTSecret)
	stadiumService := stadium.NewService(stadiumRepo)
	availabilityService := availability.NewService(availabilityRepo, stadiumRepo, loc)
	bookingService := booking.NewService(bookingRepo, stadiumRepo, notifier, publisher, booking.Config{
		AutoConfirm:        cfg.BookingAutoConfirm,
		PendingBlocks:      cfg.BookingPendingBlocks,
		CancellationWindow: cfg.CancellationWindow,
	})
	reviewService := review.NewService(reviewRepo, stadiumRepo)

	userHandler := user.NewHandler(userService, cfg.SessionCookieName, cfg.SessionCookieSecure)
	stadiumHandler := stadium.NewHandler(stadiumService)
	availabilityHandler := availability.NewHandler(availabilityService)
	bookingHandler := booking.NewHandler(bookingService, loc)
	reviewHandler := review.NewHandler(reviewService)

	limiter := NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst, 3*time.Minute)

	router := gin.New()
	router.Use(
		RecoveryMiddleware(),
		RequestIDMiddleware(),
		TracingMiddleware(),
		RequestLoggingMiddleware(),
		MetricsMiddleware(),
		CORSMiddleware(cfg.CORSAllowedOrigins),
		RateLimitMiddleware(limiter),
	)

	router.GET("/health", Health)
	router.GET("/metrics", Metrics())
	SetupSwagger(router)

	requireAuth := auth.AuthMiddleware(cfg.JWTSecret, cfg.SessionCookieName)
	optionalAuth := auth.OptionalAuth(cfg.JWTSecret, cfg.SessionCookieName)

	apiGroup := router.Group("/api")

	authGroup := apiGroup.Group("/auth")
	{
		authGroup.POST("/register", userHandler.Register)
		authGroup.POST("/login", userHandler.Login)
		authGroup.POST("/logout", userHandler.Logout)
		authGroup.POST("/refresh", userHandler.RefreshToken)
	}

	apiGroup.GET("/me", requireAuth, userHandler.GetMe)
	apiGroup.PATCH("/user/profile", requireAuth, userHandler.UpdateProfile)

	stadiums := apiGroup.Group("/stadiums")
	{
		stadiums.GET("", optionalAuth, stadiumHandler.List)
		stadiums.POST("", requireAuth, auth.RequireRole(auth.RoleStadiumOwner), stadiumHandler.Create)
		stadiums.GET("/:id", optionalAuth, stadiumHandler.Get)
		stadiums.PUT("/:id", requireAuth, stadiumHandler.Update)
		stadiums.DELETE("/:id", requireAuth, stadiumHandler.Delete)

		stadiums.GET("/:id/availability", availabilityHandler.ForDate)
		stadiums.GET("/:id/availability/slots", availabilityHandler.Slots)
		stadiums.PUT("/:id/availability", requireAuth, availabilityHandler.Replace)

		stadiums.GET("/:id/reviews", reviewHandler.List)
		stadiums.POST("/:id/reviews", requireAuth, reviewHandler.Create)

		stadiums.GET("/:id/bookings", requireAuth, bookingHandler.ListForStadium)
		stadiums.GET("/:id/bookings/export", requireAuth, bookingHandler.Export)
	}

	apiGroup.DELETE("/reviews/:id", requireAuth, reviewHandler.Delete)

	bookings := apiGroup.Group("/bookings", requireAuth)
	{
		bookings.POST("", bookingHandler.Create)
		bookings.GET("", bookingHandler.List)
		bookings.GET("/:id", bookingHandler.Get)
		bookings.PATCH("/:id/status", bookingHandler.UpdateStatus)
		bookings.POST("/:id/cancel", bookingHandler.Cancel)
	}

	return &Server{
		router: router,
		http: &http.Server{
			Addr:              ":" + cfg.Port,
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
		limiter:  limiter,
		bookings: bookingService,
	}
}

func (s *Server) Handler() http.Handler {
	return s.router
}

// Bookings exposes the booking service for background jobs.
func (s *Server) Bookings() booking.Service {
	return s.bookings
}

// Start blocks serving HTTP until Shutdown is called.
func (s *Server) Start() error {
	logger.Info("HTTP server listening", "addr", s.http.Addr)
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.limiter.Close()
	return s.http.Shutdown(ctx)
}
