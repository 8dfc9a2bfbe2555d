package availability

import (
	"errors"
	"net/http"

	"stadiumbook/internal/api"
	"stadiumbook/internal/auth"
	"stadiumbook/internal/logger"
	"stadiumbook/internal/stadium"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{
		service: service,
	}
}

func (h *Handler) respondError(c *gin.Context, err error) {
	var slotErr *InvalidSlotError
	switch {
	case errors.As(err, &slotErr):
		c.JSON(http.StatusBadRequest, api.ValidationErrorResponse{
			Error:   "Validation failed",
			Details: []api.ValidationError{{Field: slotErr.Field, Message: slotErr.Message}},
		})
	case errors.Is(err, ErrDateRequired):
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Date is required"})
	case errors.Is(err, ErrInvalidDate):
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid date, expected YYYY-MM-DD"})
	case errors.Is(err, stadium.ErrStadiumNotFound):
		c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "Stadium not found"})
	case errors.Is(err, ErrForbidden):
		c.JSON(http.StatusForbidden, api.ErrorResponse{Error: "Forbidden"})
	default:
		logger.Error("availability request failed", "error", err, "path", c.Request.URL.Path)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Internal server error"})
	}
}

// @Summary      Availability for a date
// @Description  Candidate windows from recurring and date-specific slots, plus windows already booked.
// @Tags         availability
// @Produce      json
// @Param        id   path  int    true "Stadium ID"
// @Param        date query string true "Date (YYYY-MM-DD)"
// @Success      200 {object} availability.DayAvailability
// @Failure      400 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /stadiums/{id}/availability [get]
func (h *Handler) ForDate(c *gin.Context) {
	stadiumID, ok := stadium.ParseID(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	result, err := h.service.ForDate(ctx, stadiumID, c.Query("date"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// @Summary      Slot configuration
// @Tags         availability
// @Produce      json
// @Param        id path int true "Stadium ID"
// @Success      200 {object} availability.SlotsResponse
// @Failure      404 {object} api.ErrorResponse
// @Router       /stadiums/{id}/availability/slots [get]
func (h *Handler) Slots(c *gin.Context) {
	stadiumID, ok := stadium.ParseID(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	resp, err := h.service.Slots(ctx, stadiumID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary      Replace slot configuration
// @Description  Owner or admin replaces every recurring and specific slot of the stadium.
// @Tags         availability
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id      path int                         true "Stadium ID"
// @Param        request body availability.ReplaceRequest true "New slots"
// @Success      200 {object} availability.SlotsResponse
// @Failure      400 {object} api.ValidationErrorResponse
// @Failure      401 {object} api.ErrorResponse
// @Failure      403 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Router       /stadiums/{id}/availability [put]
func (h *Handler) Replace(c *gin.Context) {
	identity, ok := auth.CurrentIdentity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "Unauthorized"})
		return
	}
	stadiumID, ok := stadium.ParseID(c)
	if !ok {
		return
	}

	var req ReplaceRequest
	if !api.BindJSON(c, &req) {
		return
	}

	ctx := c.Request.Context()
	resp, err := h.service.Replace(ctx, identity, stadiumID, req)
	if err != nil {
		h.respondError(c, err)
		return
	}

	logger.Info("availability replaced", "stadium_id", stadiumID,
		"recurring", len(resp.RecurringSlots), "specific", len(resp.SpecificSlots))
	c.JSON(http.StatusOK, resp)
}
