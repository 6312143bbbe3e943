package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"promptadmin-backend-go/internal/core"
	"promptadmin-backend-go/internal/middleware"
	"promptadmin-backend-go/internal/models"
)

// UserHandler handles API endpoints for user administration.
type UserHandler struct {
	userService core.UserService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(us core.UserService) *UserHandler {
	return &UserHandler{userService: us}
}

// CreateUser handles POST /api/users
func (h *UserHandler) CreateUser(c *gin.Context) {
	var req models.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload", Details: err.Error()})
		return
	}

	user, err := h.userService.Create(c.Request.Context(), middleware.ActorID(c), req)
	if err != nil {
		mapServiceErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusCreated, user)
}

// GetUser handles GET /api/users/:userId
func (h *UserHandler) GetUser(c *gin.Context) {
	user, err := h.userService.GetByID(c.Request.Context(), c.Param("userId"))
	if err != nil {
		mapServiceErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// ListUsers handles GET /api/users?filter=active|trashed|all
func (h *UserHandler) ListUsers(c *gin.Context) {
	filter, ok := listFilterFromQuery(c)
	if !ok {
		return
	}
	users, err := h.userService.List(c.Request.Context(), filter)
	if err != nil {
		mapServiceErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

// UpdateUser handles PUT /api/users/:userId
func (h *UserHandler) UpdateUser(c *gin.Context) {
	var req models.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload", Details: err.Error()})
		return
	}

	user, err := h.userService.Update(c.Request.Context(), middleware.ActorID(c), c.Param("userId"), req)
	if err != nil {
		mapServiceErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// DeleteUser handles DELETE /api/users/:userId (moves the user to trash).
func (h *UserHandler) DeleteUser(c *gin.Context) {
	if err := h.userService.SoftDelete(c.Request.Context(), middleware.ActorID(c), c.Param("userId")); err != nil {
		mapServiceErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Message: "User moved to trash"})
}

// RestoreUser handles POST /api/users/:userId/restore
func (h *UserHandler) RestoreUser(c *gin.Context) {
	if err := h.userService.Restore(c.Request.Context(), middleware.ActorID(c), c.Param("userId")); err != nil {
		mapServiceErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Message: "User restored"})
}

// PurgeUser handles DELETE /api/users/:userId/purge. The completed steps are
// returned in order even when a later step failed.
func (h *UserHandler) PurgeUser(c *gin.Context) {
	steps, err := h.userService.Purge(c.Request.Context(), middleware.ActorID(c), c.Param("userId"))
	if err != nil {
		if steps != nil {
			c.JSON(http.StatusInternalServerError, PurgeResponse{Message: "Purge failed partway: " + err.Error(), Steps: steps})
			return
		}
		mapServiceErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, PurgeResponse{Message: "User permanently deleted", Steps: steps})
}

// ListUserLogins handles GET /api/users/:userId/logins?limit=N
func (h *UserHandler) ListUserLogins(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid limit; expected a non-negative integer"})
			return
		}
		limit = parsed
	}

	history, err := h.userService.LoginHistory(c.Request.Context(), c.Param("userId"), limit)
	if err != nil {
		mapServiceErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, history)
}
