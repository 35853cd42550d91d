package handlers

import (
	"net/http"
	"strconv"

	"fixly/middleware"
	"fixly/models"
	"fixly/services/review"
	"fixly/utils"

	"github.com/gin-gonic/gin"
)

// ReviewHandler exposes reviews and provider rating queries over HTTP.
type ReviewHandler struct {
	Service review.ReviewService
}

func NewReviewHandler(svc review.ReviewService) *ReviewHandler {
	return &ReviewHandler{Service: svc}
}

// CreateReview handles POST /api/reviews.
func (h *ReviewHandler) CreateReview(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "Unauthorized", "not authenticated")
		return
	}

	var req models.ReviewCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request", err.Error())
		return
	}

	r, err := h.Service.CreateReview(c.Request.Context(), actor, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, r)
}

// UpdateReview handles PATCH /api/reviews/:id.
func (h *ReviewHandler) UpdateReview(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "Unauthorized", "not authenticated")
		return
	}

	var req models.ReviewUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request", err.Error())
		return
	}

	r, err := h.Service.UpdateReview(c.Request.Context(), actor, c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, r)
}

// DeleteReview handles DELETE /api/reviews/:id.
func (h *ReviewHandler) DeleteReview(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "Unauthorized", "not authenticated")
		return
	}

	if err := h.Service.DeleteReview(c.Request.Context(), actor, c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "review deleted"})
}

// GetReview handles GET /api/reviews/:id. Reviews are public.
func (h *ReviewHandler) GetReview(c *gin.Context) {
	r, err := h.Service.GetReview(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, r)
}

// ListProviderReviews handles GET /api/providers/:id/reviews with optional
// skip and limit query parameters.
func (h *ReviewHandler) ListProviderReviews(c *gin.Context) {
	skip, err := parsePageParam(c.DefaultQuery("skip", "0"))
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request", "skip must be a non-negative integer")
		return
	}
	limit, err := parsePageParam(c.DefaultQuery("limit", "0"))
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request", "limit must be a non-negative integer")
		return
	}

	reviews, err := h.Service.ListProviderReviews(c.Request.Context(), c.Param("id"), skip, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, reviews)
}

func parsePageParam(raw string) (int64, error) {
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, err
	}
	if v < 0 {
		return 0, strconv.ErrRange
	}
	return v, nil
}
