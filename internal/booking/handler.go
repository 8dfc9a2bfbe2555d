package booking

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"time"

	"stadiumbook/internal/api"
	"stadiumbook/internal/auth"
	"stadiumbook/internal/logger"
	"stadiumbook/internal/stadium"

	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type Handler struct {
	service Service
	loc     *time.Location
}

func NewHandler(service Service, loc *time.Location) *Handler {
	return &Handler{
		service: service,
		loc:     loc,
	}
}

func (h *Handler) respondError(c *gin.Context, err error, action string) {
	switch {
	case errors.Is(err, ErrBookingNotFound):
		c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "Booking not found"})
	case errors.Is(err, stadium.ErrStadiumNotFound):
		c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "Stadium not found"})
	case errors.Is(err, ErrForbidden):
		c.JSON(http.StatusForbidden, api.ErrorResponse{Error: "Forbidden"})
	case errors.Is(err, ErrBookingConflict):
		c.JSON(http.StatusConflict, api.ErrorResponse{Error: "This time slot is already booked"})
	case errors.Is(err, ErrStatusChanged):
		c.JSON(http.StatusConflict, api.ErrorResponse{Error: "Booking was modified by another request"})
	case errors.Is(err, ErrNotPending),
		errors.Is(err, ErrInvalidTimeRange),
		errors.Is(err, ErrStartInPast),
		errors.Is(err, ErrInvalidTarget),
		errors.Is(err, ErrAlreadyClosed),
		errors.Is(err, ErrCancellationWindow),
		errors.Is(err, ErrInvalidTransition):
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
	default:
		logger.Error(action+" failed", "error", err, "path", c.Request.URL.Path)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Internal server error"})
	}
}

func requireIdentity(c *gin.Context) (auth.Identity, bool) {
	identity, ok := auth.CurrentIdentity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "Unauthorized"})
	}
	return identity, ok
}

// @Summary      Book a stadium
// @Description  Reserves [start_time, end_time). The price is computed from the hourly rate.
// @Tags         bookings
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body booking.CreateBookingRequest true "Booking payload"
// @Success      201 {object} booking.Booking
// @Failure      400 {object} api.ErrorResponse
// @Failure      401 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Failure      409 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /bookings [post]
func (h *Handler) Create(c *gin.Context) {
	identity, ok := requireIdentity(c)
	if !ok {
		return
	}

	var req CreateBookingRequest
	if !api.BindJSON(c, &req) {
		return
	}

	ctx := c.Request.Context()
	b, err := h.service.Create(ctx, identity, req)
	if err != nil {
		h.respondError(c, err, "create booking")
		return
	}

	c.JSON(http.StatusCreated, b)
}

// @Summary      My bookings
// @Tags         bookings
// @Produce      json
// @Security     BearerAuth
// @Param        status    query string false "Status filter"
// @Param        stadiumId query int    false "Stadium filter"
// @Success      200 {array}  booking.BookingWithDetails
// @Failure      400 {object} api.ErrorResponse
// @Failure      401 {object} api.ErrorResponse
// @Router       /bookings [get]
func (h *Handler) List(c *gin.Context) {
	identity, ok := requireIdentity(c)
	if !ok {
		return
	}

	var f ListFilter
	if err := c.ShouldBindQuery(&f); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid query parameters"})
		return
	}

	ctx := c.Request.Context()
	bookings, err := h.service.ListMine(ctx, identity, f)
	if err != nil {
		h.respondError(c, err, "list bookings")
		return
	}

	c.JSON(http.StatusOK, bookings)
}

// @Summary      Get a booking
// @Description  Visible to the booker, the stadium owner and admins.
// @Tags         bookings
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Booking ID"
// @Success      200 {object} booking.BookingWithDetails
// @Failure      401 {object} api.ErrorResponse
// @Failure      403 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Router       /bookings/{id} [get]
func (h *Handler) Get(c *gin.Context) {
	identity, ok := requireIdentity(c)
	if !ok {
		return
	}
	bookingID, ok := stadium.ParseID(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	b, err := h.service.Get(ctx, identity, bookingID)
	if err != nil {
		h.respondError(c, err, "get booking")
		return
	}

	c.JSON(http.StatusOK, b)
}

// @Summary      Confirm or decline a booking
// @Description  Stadium owner or admin. Only PENDING bookings can change status.
// @Tags         bookings
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id      path int                         true "Booking ID"
// @Param        request body booking.UpdateStatusRequest true "Target status"
// @Success      200 {object} booking.BookingWithDetails
// @Failure      400 {object} api.ErrorResponse
// @Failure      401 {object} api.ErrorResponse
// @Failure      403 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Failure      409 {object} api.ErrorResponse
// @Router       /bookings/{id}/status [patch]
func (h *Handler) UpdateStatus(c *gin.Context) {
	identity, ok := requireIdentity(c)
	if !ok {
		return
	}
	bookingID, ok := stadium.ParseID(c)
	if !ok {
		return
	}

	var req UpdateStatusRequest
	if !api.BindJSON(c, &req) {
		return
	}

	ctx := c.Request.Context()
	b, err := h.service.UpdateStatus(ctx, identity, bookingID, req.Status)
	if err != nil {
		h.respondError(c, err, "update booking status")
		return
	}

	c.JSON(http.StatusOK, b)
}

// @Summary      Cancel my booking
// @Description  Allowed until the cancellation window before the start time.
// @Tags         bookings
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Booking ID"
// @Success      200 {object} booking.BookingWithDetails
// @Failure      400 {object} api.ErrorResponse
// @Failure      401 {object} api.ErrorResponse
// @Failure      403 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Router       /bookings/{id}/cancel [post]
func (h *Handler) Cancel(c *gin.Context) {
	identity, ok := requireIdentity(c)
	if !ok {
		return
	}
	bookingID, ok := stadium.ParseID(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	b, err := h.service.Cancel(ctx, identity, bookingID)
	if err != nil {
		h.respondError(c, err, "cancel booking")
		return
	}

	c.JSON(http.StatusOK, b)
}

type stadiumQuery struct {
	Status Status `form:"status" binding:"omitempty,oneof=PENDING CONFIRMED CANCELLED COMPLETED"`
}

// @Summary      Bookings for a stadium
// @Tags         bookings
// @Produce      json
// @Security     BearerAuth
// @Param        id     path  int    true  "Stadium ID"
// @Param        status query string false "Status filter"
// @Success      200 {array}  booking.BookingWithDetails
// @Failure      401 {object} api.ErrorResponse
// @Failure      403 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Router       /stadiums/{id}/bookings [get]
func (h *Handler) ListForStadium(c *gin.Context) {
	bookings, stadiumID, ok := h.stadiumBookings(c)
	if !ok {
		return
	}
	logger.Debug("stadium bookings listed", "stadium_id", stadiumID, "count", len(bookings))
	c.JSON(http.StatusOK, bookings)
}

// @Summary      Export stadium bookings
// @Description  Same rows as the list endpoint, as an xlsx workbook.
// @Tags         bookings
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security     BearerAuth
// @Param        id     path  int    true  "Stadium ID"
// @Param        status query string false "Status filter"
// @Success      200 {file} file
// @Failure      401 {object} api.ErrorResponse
// @Failure      403 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Router       /stadiums/{id}/bookings/export [get]
func (h *Handler) Export(c *gin.Context) {
	bookings, stadiumID, ok := h.stadiumBookings(c)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := WriteXLSX(&buf, bookings, h.loc); err != nil {
		h.respondError(c, err, "export bookings")
		return
	}

	filename := fmt.Sprintf("stadium-%d-bookings.xlsx", stadiumID)
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

func (h *Handler) stadiumBookings(c *gin.Context) ([]BookingWithDetails, int, bool) {
	identity, ok := requireIdentity(c)
	if !ok {
		return nil, 0, false
	}
	stadiumID, ok := stadium.ParseID(c)
	if !ok {
		return nil, 0, false
	}

	var q stadiumQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid query parameters"})
		return nil, 0, false
	}

	ctx := c.Request.Context()
	bookings, err := h.service.ListForStadium(ctx, identity, stadiumID, q.Status)
	if err != nil {
		h.respondError(c, err, "list stadium bookings")
		return nil, 0, false
	}
	return bookings, stadiumID, true
}
