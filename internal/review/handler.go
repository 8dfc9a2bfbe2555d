package review

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

func (h *Handler) respondError(c *gin.Context, err error, action string) {
	switch {
	case errors.Is(err, stadium.ErrStadiumNotFound):
		c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "Stadium not found"})
	case errors.Is(err, ErrReviewNotFound):
		c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "Review not found"})
	case errors.Is(err, ErrAlreadyReviewed):
		c.JSON(http.StatusConflict, api.ErrorResponse{Error: "You have already reviewed this stadium"})
	case errors.Is(err, ErrForbidden):
		c.JSON(http.StatusForbidden, api.ErrorResponse{Error: "Forbidden"})
	default:
		logger.Error(action+" failed", "error", err, "path", c.Request.URL.Path)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Internal server error"})
	}
}

// @Summary      Review a stadium
// @Tags         reviews
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id      path int                        true "Stadium ID"
// @Param        request body review.CreateReviewRequest true "Review"
// @Success      201 {object} review.Review
// @Failure      400 {object} api.ValidationErrorResponse
// @Failure      401 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Failure      409 {object} api.ErrorResponse
// @Router       /stadiums/{id}/reviews [post]
func (h *Handler) Create(c *gin.Context) {
	identity, ok := auth.CurrentIdentity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "Unauthorized"})
		return
	}
	stadiumID, ok := stadium.ParseID(c)
	if !ok {
		return
	}

	var req CreateReviewRequest
	if !api.BindJSON(c, &req) {
		return
	}

	ctx := c.Request.Context()
	rv, err := h.service.Create(ctx, identity, stadiumID, req)
	if err != nil {
		h.respondError(c, err, "create review")
		return
	}

	c.JSON(http.StatusCreated, rv)
}

// @Summary      Reviews for a stadium
// @Description  Newest first.
// @Tags         reviews
// @Produce      json
// @Param        id path int true "Stadium ID"
// @Success      200 {array}  review.ReviewWithAuthor
// @Failure      404 {object} api.ErrorResponse
// @Router       /stadiums/{id}/reviews [get]
func (h *Handler) List(c *gin.Context) {
	stadiumID, ok := stadium.ParseID(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	reviews, err := h.service.List(ctx, stadiumID)
	if err != nil {
		h.respondError(c, err, "list reviews")
		return
	}

	c.JSON(http.StatusOK, reviews)
}

// @Summary      Delete a review
// @Description  Author or admin.
// @Tags         reviews
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Review ID"
// @Success      200 {object} api.MessageResponse
// @Failure      401 {object} api.ErrorResponse
// @Failure      403 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Router       /reviews/{id} [delete]
func (h *Handler) Delete(c *gin.Context) {
	identity, ok := auth.CurrentIdentity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "Unauthorized"})
		return
	}
	reviewID, ok := stadium.ParseID(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	if err := h.service.Delete(ctx, identity, reviewID); err != nil {
		h.respondError(c, err, "delete review")
		return
	}

	c.JSON(http.StatusOK, api.MessageResponse{Message: "Review deleted"})
}
