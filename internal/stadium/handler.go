package stadium

import (
	"errors"
	"net/http"
	"strconv"

	"stadiumbook/internal/api"
	"stadiumbook/internal/auth"
	"stadiumbook/internal/logger"

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

func (h *Handler) respondError(c *gin.Context, err error, action string) {
	switch {
	case errors.Is(err, ErrStadiumNotFound):
		c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "Stadium not found"})
	case errors.Is(err, ErrForbidden):
		c.JSON(http.StatusForbidden, api.ErrorResponse{Error: "Forbidden"})
	default:
		logger.Error(action+" failed", "error", err, "path", c.Request.URL.Path)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Internal server error"})
	}
}

// ParseID reads the :id path parameter, writing a 400 when it is not a positive integer.
func ParseID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id < 1 {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid ID"})
		return 0, false
	}
	return id, true
}

// @Summary      Create a stadium
// @Description  Stadium owners register a new venue.
// @Tags         stadiums
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body stadium.CreateStadiumRequest true "Stadium payload"
// @Success      201 {object} stadium.Stadium
// @Failure      400 {object} api.ValidationErrorResponse
// @Failure      401 {object} api.ErrorResponse
// @Failure      403 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /stadiums [post]
func (h *Handler) Create(c *gin.Context) {
	identity, ok := auth.CurrentIdentity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "Unauthorized"})
		return
	}

	var req CreateStadiumRequest
	if !api.BindJSON(c, &req) {
		return
	}

	ctx := c.Request.Context()
	st, err := h.service.Create(ctx, identity, req)
	if err != nil {
		h.respondError(c, err, "create stadium")
		return
	}

	logger.Info("stadium created", "stadium_id", st.ID, "owner_id", st.OwnerID)
	c.JSON(http.StatusCreated, st)
}

// @Summary      List stadiums
// @Tags         stadiums
// @Produce      json
// @Param        q        query string false "Search name, city or sport"
// @Param        city     query string false "City (case-insensitive substring)"
// @Param        sport    query string false "Sport type"
// @Param        priceMin query int    false "Minimum price per hour, cents"
// @Param        priceMax query int    false "Maximum price per hour, cents"
// @Param        ownerId  query int    false "Owner user ID"
// @Param        sort     query string false "newest, price-asc, price-desc or rating"
// @Param        page     query int    false "Page (default 1)"
// @Param        pageSize query int    false "Page size (default 10, max 100)"
// @Success      200 {object} stadium.ListResponse
// @Failure      400 {object} api.ValidationErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /stadiums [get]
func (h *Handler) List(c *gin.Context) {
	var f ListFilter
	if err := c.ShouldBindQuery(&f); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid query parameters"})
		return
	}

	ctx := c.Request.Context()
	resp, err := h.service.List(ctx, f)
	if err != nil {
		h.respondError(c, err, "list stadiums")
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary      Get a stadium
// @Tags         stadiums
// @Produce      json
// @Param        id path int true "Stadium ID"
// @Success      200 {object} stadium.Listing
// @Failure      400 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Router       /stadiums/{id} [get]
func (h *Handler) Get(c *gin.Context) {
	stadiumID, ok := ParseID(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	listing, err := h.service.Get(ctx, stadiumID)
	if err != nil {
		h.respondError(c, err, "get stadium")
		return
	}

	c.JSON(http.StatusOK, listing)
}

// @Summary      Update a stadium
// @Description  Owner or admin; omitted fields are unchanged.
// @Tags         stadiums
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id      path int                          true "Stadium ID"
// @Param        request body stadium.UpdateStadiumRequest true "Fields to change"
// @Success      200 {object} stadium.Stadium
// @Failure      400 {object} api.ValidationErrorResponse
// @Failure      401 {object} api.ErrorResponse
// @Failure      403 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Router       /stadiums/{id} [put]
func (h *Handler) Update(c *gin.Context) {
	identity, ok := auth.CurrentIdentity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "Unauthorized"})
		return
	}
	stadiumID, ok := ParseID(c)
	if !ok {
		return
	}

	var req UpdateStadiumRequest
	if !api.BindJSON(c, &req) {
		return
	}

	ctx := c.Request.Context()
	st, err := h.service.Update(ctx, identity, stadiumID, req)
	if err != nil {
		h.respondError(c, err, "update stadium")
		return
	}

	c.JSON(http.StatusOK, st)
}

// @Summary      Delete a stadium
// @Description  Owner or admin. Bookings, availability and reviews are removed with it.
// @Tags         stadiums
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Stadium ID"
// @Success      200 {object} api.MessageResponse
// @Failure      401 {object} api.ErrorResponse
// @Failure      403 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Router       /stadiums/{id} [delete]
func (h *Handler) Delete(c *gin.Context) {
	identity, ok := auth.CurrentIdentity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "Unauthorized"})
		return
	}
	stadiumID, ok := ParseID(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	if err := h.service.Delete(ctx, identity, stadiumID); err != nil {
		h.respondError(c, err, "delete stadium")
		return
	}

	logger.Info("stadium deleted", "stadium_id", stadiumID, "by", identity.UserID)
	c.JSON(http.StatusOK, api.MessageResponse{Message: "Stadium deleted"})
}
