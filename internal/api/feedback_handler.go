package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"promptadmin-backend-go/internal/core"
	"promptadmin-backend-go/internal/middleware"
)

// FeedbackHandler handles API endpoints for feedback administration.
type FeedbackHandler struct {
	feedbackService core.FeedbackService
}

// NewFeedbackHandler creates a new FeedbackHandler.
func NewFeedbackHandler(fs core.FeedbackService) *FeedbackHandler {
	return &FeedbackHandler{feedbackService: fs}
}

// GetFeedback handles GET /api/feedback/:feedbackId
func (h *FeedbackHandler) GetFeedback(c *gin.Context) {
	feedback, err := h.feedbackService.GetByID(c.Request.Context(), c.Param("feedbackId"))
	if err != nil {
		mapServiceErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, feedback)
}

// ListFeedback handles GET /api/feedback?rating=N (rating absent lists all).
func (h *FeedbackHandler) ListFeedback(c *gin.Context) {
	rating := 0
	if raw := c.Query("rating"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid rating; expected an integer 1-5"})
			return
		}
		rating = parsed
	}

	entries, err := h.feedbackService.List(c.Request.Context(), rating)
	if err != nil {
		mapServiceErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, entries)
}

// DeleteFeedback handles DELETE /api/feedback/:feedbackId (hard delete).
func (h *FeedbackHandler) DeleteFeedback(c *gin.Context) {
	if err := h.feedbackService.Delete(c.Request.Context(), middleware.ActorID(c), c.Param("feedbackId")); err != nil {
		mapServiceErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Message: "Feedback deleted"})
}
