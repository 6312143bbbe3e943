package api

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"promptadmin-backend-go/internal/core"
	"promptadmin-backend-go/internal/db"
	"promptadmin-backend-go/internal/models"
)

// ErrorResponse is a generic structure for returning errors via API.
type ErrorResponse struct {
	Error   string `json:"error"`             // A high-level error message or code
	Details string `json:"details,omitempty"` // More specific details about the error, if available
}

// SuccessResponse is a generic structure for simple success messages.
type SuccessResponse struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// LoginResponse is the POST /api/auth/login success body. The token travels in
// the body as well as the cookies so non-browser clients can present it as a
// bearer token.
type LoginResponse struct {
	Success bool         `json:"success"`
	Message string       `json:"message"`
	User    *models.User `json:"user"`
	Token   string       `json:"token"`
}

// VerifyResponse is the GET /api/auth/verify success body.
type VerifyResponse struct {
	Success bool         `json:"success"`
	User    *models.User `json:"user"`
}

// PurgeResponse reports the ordered steps a bulk permanent delete completed.
// Steps are included even when a later step failed, so the operator can see
// how far the purge got.
type PurgeResponse struct {
	Message string           `json:"message"`
	Steps   []core.PurgeStep `json:"steps"`
}

// mapServiceErrorToStatus maps core service errors to HTTP status codes. All
// handlers share this mapping because the services share their sentinels.
func mapServiceErrorToStatus(c *gin.Context, err error) {
	var statusCode int
	var errResponse ErrorResponse

	switch {
	case errors.Is(err, core.ErrUserNotFound),
		errors.Is(err, core.ErrCategoryNotFound),
		errors.Is(err, core.ErrSubcategoryNotFound),
		errors.Is(err, core.ErrCountryNotFound),
		errors.Is(err, core.ErrPromptNotFound),
		errors.Is(err, core.ErrPlanNotFound),
		errors.Is(err, core.ErrSubscriptionNotFound),
		errors.Is(err, core.ErrGenerationNotFound),
		errors.Is(err, core.ErrFeedbackNotFound):
		statusCode = http.StatusNotFound
		errResponse = ErrorResponse{Error: err.Error()}
	case errors.Is(err, core.ErrValidation), errors.Is(err, core.ErrConfirmationMismatch):
		statusCode = http.StatusBadRequest
		errResponse = ErrorResponse{Error: err.Error()}
	case errors.Is(err, core.ErrAlreadyTrashed), errors.Is(err, core.ErrNotTrashed):
		statusCode = http.StatusConflict
		errResponse = ErrorResponse{Error: err.Error()}
	case errors.Is(err, core.ErrInvalidCredentials):
		statusCode = http.StatusUnauthorized
		errResponse = ErrorResponse{Error: core.ErrInvalidCredentials.Error()}
	case errors.Is(err, core.ErrNotAdmin):
		statusCode = http.StatusForbidden
		errResponse = ErrorResponse{Error: core.ErrNotAdmin.Error()}
	default:
		log.Printf("Internal Server Error: %v", err)
		statusCode = http.StatusInternalServerError
		errResponse = ErrorResponse{Error: "An unexpected internal server error occurred."}
	}
	c.JSON(statusCode, errResponse)
}

// listFilterFromQuery reads the ?filter= query parameter. Absent or "active"
// lists active documents; "trashed" lists the trash; "all" lists both.
func listFilterFromQuery(c *gin.Context) (db.ListFilter, bool) {
	switch c.DefaultQuery("filter", "active") {
	case "active":
		return db.ListActive, true
	case "trashed":
		return db.ListTrashed, true
	case "all":
		return db.ListAll, true
	}
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid filter; expected active, trashed or all"})
	return 0, false
}
