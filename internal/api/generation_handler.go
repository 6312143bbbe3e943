package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"promptadmin-backend-go/internal/core"
)

// GenerationHandler handles the read-only generation endpoints.
type GenerationHandler struct {
	generationService core.GenerationService
}

// NewGenerationHandler creates a new GenerationHandler.
func NewGenerationHandler(gs core.GenerationService) *GenerationHandler {
	return &GenerationHandler{generationService: gs}
}

// GetGeneration handles GET /api/generations/:genId
func (h *GenerationHandler) GetGeneration(c *gin.Context) {
	gen, err := h.generationService.GetByID(c.Request.Context(), c.Param("genId"))
	if err != nil {
		mapServiceErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, gen)
}

// ListGenerations handles GET /api/generations?userId=&status=
func (h *GenerationHandler) ListGenerations(c *gin.Context) {
	gens, err := h.generationService.List(c.Request.Context(), c.Query("userId"), c.Query("status"))
	if err != nil {
		mapServiceErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, gens)
}
