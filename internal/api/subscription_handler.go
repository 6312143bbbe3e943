package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"promptadmin-backend-go/internal/core"
	"promptadmin-backend-go/internal/db"
	"promptadmin-backend-go/internal/middleware"
	"promptadmin-backend-go/internal/models"
)

// SubscriptionHandler handles API endpoints for user subscription
// administration.
type SubscriptionHandler struct {
	subscriptionService core.SubscriptionService
}

// NewSubscriptionHandler creates a new SubscriptionHandler.
func NewSubscriptionHandler(ss core.SubscriptionService) *SubscriptionHandler {
	return &SubscriptionHandler{subscriptionService: ss}
}

// CreateSubscription handles POST /api/subscriptions (admin grant).
func (h *SubscriptionHandler) CreateSubscription(c *gin.Context) {
	var req models.CreateSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload", Details: err.Error()})
		return
	}

	sub, err := h.subscriptionService.Create(c.Request.Context(), middleware.ActorID(c), req)
	if err != nil {
		mapServiceErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusCreated, sub)
}

// GetSubscription handles GET /api/subscriptions/:subId
func (h *SubscriptionHandler) GetSubscription(c *gin.Context) {
	sub, err := h.subscriptionService.GetByID(c.Request.Context(), c.Param("subId"))
	if err != nil {
		mapServiceErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, sub)
}

// ListSubscriptions handles GET /api/subscriptions with optional narrowing:
// ?userId=, ?planId=, ?active=true|false
func (h *SubscriptionHandler) ListSubscriptions(c *gin.Context) {
	q := db.SubscriptionQuery{
		UserID: c.Query("userId"),
		PlanID: c.Query("planId"),
	}
	switch c.Query("active") {
	case "true":
		active := true
		q.ActiveOnly = &active
	case "false":
		active := false
		q.ActiveOnly = &active
	case "":
	default:
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid active filter; expected true or false"})
		return
	}

	subs, err := h.subscriptionService.List(c.Request.Context(), q)
	if err != nil {
		mapServiceErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, subs)
}

// CancelSubscription handles POST /api/subscriptions/:subId/cancel
func (h *SubscriptionHandler) CancelSubscription(c *gin.Context) {
	sub, err := h.subscriptionService.Cancel(c.Request.Context(), middleware.ActorID(c), c.Param("subId"))
	if err != nil {
		mapServiceErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, sub)
}
