package api

import (
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"promptadmin-backend-go/internal/core"
	"promptadmin-backend-go/internal/db"
	"promptadmin-backend-go/internal/middleware"
	"promptadmin-backend-go/internal/models"
)

// maxImportSize caps the CSV import payload at 10 MiB.
const maxImportSize = 10 << 20

// PromptHandler handles API endpoints for prompt administration, including
// CSV import and CSV/JSON export.
type PromptHandler struct {
	promptService core.PromptService
}

// NewPromptHandler creates a new PromptHandler.
func NewPromptHandler(ps core.PromptService) *PromptHandler {
	return &PromptHandler{promptService: ps}
}

// CreatePrompt handles POST /api/prompts
func (h *PromptHandler) CreatePrompt(c *gin.Context) {
	var req models.CreatePromptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload", Details: err.Error()})
		return
	}

	prompt, err := h.promptService.Create(c.Request.Context(), middleware.ActorID(c), req)
	if err != nil {
		mapServiceErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusCreated, prompt)
}

// GetPrompt handles GET /api/prompts/:promptId
func (h *PromptHandler) GetPrompt(c *gin.Context) {
	prompt, err := h.promptService.GetByID(c.Request.Context(), c.Param("promptId"))
	if err != nil {
		mapServiceErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, prompt)
}

// ListPrompts handles GET /api/prompts with optional narrowing:
// ?filter=active|trashed|all, ?categoryId=, ?subCategoryId=, ?trending=true
func (h *PromptHandler) ListPrompts(c *gin.Context) {
	filter, ok := listFilterFromQuery(c)
	if !ok {
		return
	}
	q := db.PromptQuery{
		Filter:        filter,
		CategoryID:    c.Query("categoryId"),
		SubCategoryID: c.Query("subCategoryId"),
		TrendingOnly:  c.Query("trending") == "true",
	}

	prompts, err := h.promptService.List(c.Request.Context(), q)
	if err != nil {
		mapServiceErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, prompts)
}

// UpdatePrompt handles PUT /api/prompts/:promptId
func (h *PromptHandler) UpdatePrompt(c *gin.Context) {
	var req models.UpdatePromptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload", Details: err.Error()})
		return
	}

	prompt, err := h.promptService.Update(c.Request.Context(), middleware.ActorID(c), c.Param("promptId"), req)
	if err != nil {
		mapServiceErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, prompt)
}

// DeletePrompt handles DELETE /api/prompts/:promptId (moves the prompt to
// trash).
func (h *PromptHandler) DeletePrompt(c *gin.Context) {
	if err := h.promptService.SoftDelete(c.Request.Context(), middleware.ActorID(c), c.Param("promptId")); err != nil {
		mapServiceErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Message: "Prompt moved to trash"})
}

// RestorePrompt handles POST /api/prompts/:promptId/restore
func (h *PromptHandler) RestorePrompt(c *gin.Context) {
	if err := h.promptService.Restore(c.Request.Context(), middleware.ActorID(c), c.Param("promptId")); err != nil {
		mapServiceErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Message: "Prompt restored"})
}

// PurgePrompt handles DELETE /api/prompts/:promptId/purge
func (h *PromptHandler) PurgePrompt(c *gin.Context) {
	if err := h.promptService.PermanentDelete(c.Request.Context(), middleware.ActorID(c), c.Param("promptId")); err != nil {
		mapServiceErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Message: "Prompt permanently deleted"})
}

// ImportPrompts handles POST /api/prompts/import. The CSV rides either as a
// multipart "file" field or as the raw request body.
func (h *PromptHandler) ImportPrompts(c *gin.Context) {
	csvData, err := readImportPayload(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Could not read import payload", Details: err.Error()})
		return
	}
	if len(csvData) == 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Import payload is empty"})
		return
	}

	result, err := h.promptService.Import(c.Request.Context(), middleware.ActorID(c), csvData)
	if err != nil {
		mapServiceErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// ExportPrompts handles GET /api/prompts/export?format=csv|json as a file
// download.
func (h *PromptHandler) ExportPrompts(c *gin.Context) {
	format := c.DefaultQuery("format", core.ExportFormatCSV)

	file, err := h.promptService.Export(c.Request.Context(), format)
	if err != nil {
		mapServiceErrorToStatus(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Filename))
	c.Data(http.StatusOK, file.ContentType, file.Data)
}

func readImportPayload(c *gin.Context) ([]byte, error) {
	if fileHeader, err := c.FormFile("file"); err == nil {
		f, err := fileHeader.Open()
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return io.ReadAll(io.LimitReader(f, maxImportSize))
	}
	return io.ReadAll(io.LimitReader(c.Request.Body, maxImportSize))
}
