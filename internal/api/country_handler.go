package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"promptadmin-backend-go/internal/core"
	"promptadmin-backend-go/internal/middleware"
	"promptadmin-backend-go/internal/models"
)

// CountryHandler handles API endpoints for country administration.
type CountryHandler struct {
	countryService core.CountryService
}

// NewCountryHandler creates a new CountryHandler.
func NewCountryHandler(cs core.CountryService) *CountryHandler {
	return &CountryHandler{countryService: cs}
}

// CreateCountry handles POST /api/countries
func (h *CountryHandler) CreateCountry(c *gin.Context) {
	var req models.CreateCountryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload", Details: err.Error()})
		return
	}

	country, err := h.countryService.Create(c.Request.Context(), middleware.ActorID(c), req)
	if err != nil {
		mapServiceErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusCreated, country)
}

// GetCountry handles GET /api/countries/:countryId
func (h *CountryHandler) GetCountry(c *gin.Context) {
	country, err := h.countryService.GetByID(c.Request.Context(), c.Param("countryId"))
	if err != nil {
		mapServiceErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, country)
}

// ListCountries handles GET /api/countries?filter=active|trashed|all
// Results are alphabetical by name.
func (h *CountryHandler) ListCountries(c *gin.Context) {
	filter, ok := listFilterFromQuery(c)
	if !ok {
		return
	}
	countries, err := h.countryService.List(c.Request.Context(), filter)
	if err != nil {
		mapServiceErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, countries)
}

// UpdateCountry handles PUT /api/countries/:countryId
func (h *CountryHandler) UpdateCountry(c *gin.Context) {
	var req models.UpdateCountryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload", Details: err.Error()})
		return
	}

	country, err := h.countryService.Update(c.Request.Context(), middleware.ActorID(c), c.Param("countryId"), req)
	if err != nil {
		mapServiceErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, country)
}

// AddCountryCategory handles POST /api/countries/:countryId/categories/:categoryId
func (h *CountryHandler) AddCountryCategory(c *gin.Context) {
	country, err := h.countryService.AddCategory(c.Request.Context(), middleware.ActorID(c), c.Param("countryId"), c.Param("categoryId"))
	if err != nil {
		mapServiceErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, country)
}

// RemoveCountryCategory handles DELETE /api/countries/:countryId/categories/:categoryId
func (h *CountryHandler) RemoveCountryCategory(c *gin.Context) {
	country, err := h.countryService.RemoveCategory(c.Request.Context(), middleware.ActorID(c), c.Param("countryId"), c.Param("categoryId"))
	if err != nil {
		mapServiceErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, country)
}

// DeleteCountry handles DELETE /api/countries/:countryId (moves the country
// to trash).
func (h *CountryHandler) DeleteCountry(c *gin.Context) {
	if err := h.countryService.SoftDelete(c.Request.Context(), middleware.ActorID(c), c.Param("countryId")); err != nil {
		mapServiceErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Message: "Country moved to trash"})
}

// RestoreCountry handles POST /api/countries/:countryId/restore
func (h *CountryHandler) RestoreCountry(c *gin.Context) {
	if err := h.countryService.Restore(c.Request.Context(), middleware.ActorID(c), c.Param("countryId")); err != nil {
		mapServiceErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Message: "Country restored"})
}

// PurgeCountry handles DELETE /api/countries/:countryId/purge
func (h *CountryHandler) PurgeCountry(c *gin.Context) {
	if err := h.countryService.PermanentDelete(c.Request.Context(), middleware.ActorID(c), c.Param("countryId")); err != nil {
		mapServiceErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Message: "Country permanently deleted"})
}
