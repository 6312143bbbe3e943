package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"promptadmin-backend-go/internal/core"
	"promptadmin-backend-go/internal/middleware"
	"promptadmin-backend-go/internal/models"
)

// PlanHandler handles API endpoints for subscription plan administration.
type PlanHandler struct {
	planService core.PlanService
}

// NewPlanHandler creates a new PlanHandler.
func NewPlanHandler(ps core.PlanService) *PlanHandler {
	return &PlanHandler{planService: ps}
}

// CreatePlan handles POST /api/plans
func (h *PlanHandler) CreatePlan(c *gin.Context) {
	var req models.CreatePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload", Details: err.Error()})
		return
	}

	plan, err := h.planService.Create(c.Request.Context(), middleware.ActorID(c), req)
	if err != nil {
		mapServiceErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusCreated, plan)
}

// GetPlan handles GET /api/plans/:planId
func (h *PlanHandler) GetPlan(c *gin.Context) {
	plan, err := h.planService.GetByID(c.Request.Context(), c.Param("planId"))
	if err != nil {
		mapServiceErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, plan)
}

// ListPlans handles GET /api/plans
func (h *PlanHandler) ListPlans(c *gin.Context) {
	plans, err := h.planService.List(c.Request.Context())
	if err != nil {
		mapServiceErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, plans)
}

// UpdatePlan handles PUT /api/plans/:planId
func (h *PlanHandler) UpdatePlan(c *gin.Context) {
	var req models.UpdatePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload", Details: err.Error()})
		return
	}

	plan, err := h.planService.Update(c.Request.Context(), middleware.ActorID(c), c.Param("planId"), req)
	if err != nil {
		mapServiceErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, plan)
}

// DeletePlan handles DELETE /api/plans/:planId. Plans with active
// subscriptions are rejected.
func (h *PlanHandler) DeletePlan(c *gin.Context) {
	if err := h.planService.Delete(c.Request.Context(), middleware.ActorID(c), c.Param("planId")); err != nil {
		mapServiceErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Message: "Plan deleted"})
}
