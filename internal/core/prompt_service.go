package core

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"promptadmin-backend-go/internal/db"
	"promptadmin-backend-go/internal/export"
	"promptadmin-backend-go/internal/models"
	"promptadmin-backend-go/internal/storage"
)

// Export format identifiers accepted by PromptService.Export.
const (
	ExportFormatCSV  = "csv"
	ExportFormatJSON = "json"
)

// ImportResult summarizes a CSV import: how many rows were written and which
// rows were rejected, with per-row messages.
type ImportResult struct {
	Imported int               `json:"imported"`
	Skipped  int               `json:"skipped"`
	Errors   []export.RowError `json:"errors,omitempty"`
}

// ExportFile is a ready-to-download export: content plus the timestamped
// filename and MIME type the handler should serve it with.
type ExportFile struct {
	Filename    string
	ContentType string
	Data        []byte
}

// promptService implements the PromptService interface.
type promptService struct {
	promptRepo   db.PromptRepository
	categoryRepo db.CategoryRepository
	objectStore  storage.ObjectStore
	auditService AuditService
}

// NewPromptService creates a new PromptService instance. The category
// repository validates references on create/update and resolves names during
// import/export; objectStore may be nil, in which case preview image cleanup
// is skipped.
func NewPromptService(promptRepo db.PromptRepository, categoryRepo db.CategoryRepository, objectStore storage.ObjectStore, auditService AuditService) PromptService {
	return &promptService{
		promptRepo:   promptRepo,
		categoryRepo: categoryRepo,
		objectStore:  objectStore,
		auditService: auditService,
	}
}

// Create adds a new prompt after validating its category and subcategory
// references and its image-requirement code.
func (s *promptService) Create(ctx context.Context, actorID string, req models.CreatePromptRequest) (*models.Prompt, error) {
	if !models.ValidImageRequirement(req.ImageRequirement) {
		return nil, fmt.Errorf("%w: imageRequirement %d is out of range [-1,4]", ErrValidation, req.ImageRequirement)
	}
	if err := s.validateCategoryRefs(ctx, req.CategoryID, req.SubCategoryID); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	prompt := &models.Prompt{
		Title:            req.Title,
		Prompt:           req.Prompt,
		CategoryID:       req.CategoryID,
		SubCategoryID:    req.SubCategoryID,
		URL:              req.URL,
		ImageRequirement: req.ImageRequirement,
		Tags:             req.Tags,
		IsTrending:       req.IsTrending,
		CreatedBy:        actorID,
		CreatedAt:        now,
		UpdatedBy:        actorID,
		UpdatedAt:        now,
	}
	if _, err := s.promptRepo.Create(ctx, prompt); err != nil {
		return nil, fmt.Errorf("failed to create prompt in repository: %w", err)
	}

	s.audit(ctx, actorID, "PROMPT_CREATE", prompt.ID, map[string]interface{}{"title": prompt.Title, "categoryId": prompt.CategoryID})
	return prompt, nil
}

// GetByID retrieves a prompt by its ID.
func (s *promptService) GetByID(ctx context.Context, promptID string) (*models.Prompt, error) {
	prompt, err := s.promptRepo.GetByID(ctx, promptID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, fmt.Errorf("%w: prompt with ID '%s'", ErrPromptNotFound, promptID)
		}
		return nil, fmt.Errorf("failed to get prompt '%s' from repository: %w", promptID, err)
	}
	return prompt, nil
}

// List retrieves prompts matching the query.
func (s *promptService) List(ctx context.Context, q db.PromptQuery) ([]*models.Prompt, error) {
	prompts, err := s.promptRepo.List(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("failed to list prompts: %w", err)
	}
	return prompts, nil
}

// Update applies the provided fields to a prompt. A category or subcategory
// change is re-validated against the category store.
func (s *promptService) Update(ctx context.Context, actorID, promptID string, req models.UpdatePromptRequest) (*models.Prompt, error) {
	prompt, err := s.GetByID(ctx, promptID)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		if *req.Title == "" {
			return nil, fmt.Errorf("%w: prompt title cannot be empty", ErrValidation)
		}
		prompt.Title = *req.Title
	}
	if req.Prompt != nil {
		if *req.Prompt == "" {
			return nil, fmt.Errorf("%w: prompt text cannot be empty", ErrValidation)
		}
		prompt.Prompt = *req.Prompt
	}
	if req.ImageRequirement != nil {
		if !models.ValidImageRequirement(*req.ImageRequirement) {
			return nil, fmt.Errorf("%w: imageRequirement %d is out of range [-1,4]", ErrValidation, *req.ImageRequirement)
		}
		prompt.ImageRequirement = *req.ImageRequirement
	}

	categoryID := prompt.CategoryID
	subCategoryID := prompt.SubCategoryID
	if req.CategoryID != nil {
		categoryID = *req.CategoryID
		// A category change invalidates the old subcategory unless the request
		// also names a new one.
		if req.SubCategoryID == nil {
			subCategoryID = ""
		}
	}
	if req.SubCategoryID != nil {
		subCategoryID = *req.SubCategoryID
	}
	if categoryID != prompt.CategoryID || subCategoryID != prompt.SubCategoryID {
		if err := s.validateCategoryRefs(ctx, categoryID, subCategoryID); err != nil {
			return nil, err
		}
		prompt.CategoryID = categoryID
		prompt.SubCategoryID = subCategoryID
	}

	if req.URL != nil {
		prompt.URL = *req.URL
	}
	if req.Tags != nil {
		prompt.Tags = *req.Tags
	}
	if req.IsTrending != nil {
		prompt.IsTrending = *req.IsTrending
	}
	prompt.UpdatedBy = actorID
	prompt.UpdatedAt = time.Now().UTC()

	if err := s.promptRepo.Update(ctx, prompt); err != nil {
		return nil, fmt.Errorf("failed to update prompt '%s': %w", promptID, err)
	}

	s.audit(ctx, actorID, "PROMPT_UPDATE", promptID, nil)
	return prompt, nil
}

// SoftDelete moves an active prompt into the trash.
func (s *promptService) SoftDelete(ctx context.Context, actorID, promptID string) error {
	prompt, err := s.GetByID(ctx, promptID)
	if err != nil {
		return err
	}
	if prompt.IsDeleted {
		return fmt.Errorf("%w: prompt '%s'", ErrAlreadyTrashed, promptID)
	}

	now := time.Now().UTC()
	prompt.IsDeleted = true
	prompt.DeletedBy = actorID
	prompt.DeletedAt = &now
	if err := s.promptRepo.Update(ctx, prompt); err != nil {
		return fmt.Errorf("failed to soft delete prompt '%s': %w", promptID, err)
	}

	s.audit(ctx, actorID, "PROMPT_DELETE", promptID, nil)
	return nil
}

// Restore moves a trashed prompt back to the active state.
func (s *promptService) Restore(ctx context.Context, actorID, promptID string) error {
	prompt, err := s.GetByID(ctx, promptID)
	if err != nil {
		return err
	}
	if !prompt.IsDeleted {
		return fmt.Errorf("%w: prompt '%s'", ErrNotTrashed, promptID)
	}

	prompt.IsDeleted = false
	prompt.DeletedBy = ""
	prompt.DeletedAt = nil
	if err := s.promptRepo.Update(ctx, prompt); err != nil {
		return fmt.Errorf("failed to restore prompt '%s': %w", promptID, err)
	}

	s.audit(ctx, actorID, "PROMPT_RESTORE", promptID, nil)
	return nil
}

// PermanentDelete removes a trashed prompt document and best-effort deletes
// its stored preview image. Image cleanup failures are logged, never rolled
// back: the document delete is the operation of record.
func (s *promptService) PermanentDelete(ctx context.Context, actorID, promptID string) error {
	prompt, err := s.GetByID(ctx, promptID)
	if err != nil {
		return err
	}
	if !prompt.IsDeleted {
		return fmt.Errorf("%w: prompt '%s' must be trashed before permanent deletion", ErrNotTrashed, promptID)
	}

	if err := s.promptRepo.Delete(ctx, promptID); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return fmt.Errorf("%w: prompt with ID '%s'", ErrPromptNotFound, promptID)
		}
		return fmt.Errorf("failed to permanently delete prompt '%s': %w", promptID, err)
	}

	if s.objectStore != nil && prompt.URL != "" {
		if err := s.objectStore.DeleteByURL(ctx, prompt.URL); err != nil {
			log.Printf("Warning: failed to delete preview image for prompt '%s' (%s): %v", promptID, prompt.URL, err)
		}
	}

	s.audit(ctx, actorID, "PROMPT_PURGE", promptID, map[string]interface{}{"title": prompt.Title})
	return nil
}

// Import parses the CSV payload and creates one prompt per valid row. Rows
// naming an unknown category or subcategory are skipped with a per-row error;
// the batch never aborts on a bad row.
func (s *promptService) Import(ctx context.Context, actorID string, csvData []byte) (*ImportResult, error) {
	rows, rowErrs, err := export.ParsePromptsCSV(csvData)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	categories, err := s.categoryRepo.List(ctx, db.ListActive)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories for import: %w", err)
	}

	result := &ImportResult{Errors: rowErrs}
	now := time.Now().UTC()
	for _, row := range rows {
		categoryID, subCategoryID, resolveErr := resolveCategoryNames(categories, row.CategoryName, row.SubcategoryName)
		if resolveErr != nil {
			result.Errors = append(result.Errors, export.RowError{Line: row.Line, Message: resolveErr.Error()})
			continue
		}

		prompt := &models.Prompt{
			Title:            row.Title,
			Prompt:           row.Prompt,
			CategoryID:       categoryID,
			SubCategoryID:    subCategoryID,
			ImageRequirement: row.ImageRequirement,
			Tags:             row.Tags,
			IsTrending:       row.IsTrending,
			CreatedBy:        actorID,
			CreatedAt:        now,
			UpdatedBy:        actorID,
			UpdatedAt:        now,
		}
		if _, err := s.promptRepo.Create(ctx, prompt); err != nil {
			result.Errors = append(result.Errors, export.RowError{Line: row.Line, Message: fmt.Sprintf("failed to store row: %v", err)})
			continue
		}
		result.Imported++
	}
	result.Skipped = len(result.Errors)

	s.audit(ctx, actorID, "PROMPT_IMPORT", "", map[string]interface{}{"imported": result.Imported, "skipped": result.Skipped})
	return result, nil
}

// Export renders all active prompts as a downloadable CSV or JSON file.
func (s *promptService) Export(ctx context.Context, format string) (*ExportFile, error) {
	prompts, err := s.promptRepo.List(ctx, db.PromptQuery{Filter: db.ListActive})
	if err != nil {
		return nil, fmt.Errorf("failed to list prompts for export: %w", err)
	}

	now := time.Now().UTC()
	switch format {
	case ExportFormatCSV:
		categories, err := s.categoryRepo.List(ctx, db.ListAll)
		if err != nil {
			return nil, fmt.Errorf("failed to list categories for export: %w", err)
		}
		byID := make(map[string]*models.Category, len(categories))
		for _, category := range categories {
			byID[category.ID] = category
		}
		data, err := export.PromptsCSV(prompts,
			func(id string) string {
				if category, ok := byID[id]; ok {
					return category.Name
				}
				return ""
			},
			func(categoryID, subID string) string {
				category, ok := byID[categoryID]
				if !ok {
					return ""
				}
				for _, sub := range category.Subcategories {
					if sub.ID == subID {
						return sub.Name
					}
				}
				return ""
			})
		if err != nil {
			return nil, err
		}
		return &ExportFile{
			Filename:    export.Filename("prompts_export", "csv", now),
			ContentType: "text/csv",
			Data:        data,
		}, nil
	case ExportFormatJSON:
		data, err := export.PromptsJSON(prompts)
		if err != nil {
			return nil, err
		}
		return &ExportFile{
			Filename:    export.Filename("prompts_export", "json", now),
			ContentType: "application/json",
			Data:        data,
		}, nil
	}
	return nil, fmt.Errorf("%w: unsupported export format '%s'", ErrValidation, format)
}

// validateCategoryRefs checks that the category exists, is not trashed, and —
// when a subcategory id is given — that the subcategory exists under it and is
// not trashed either.
func (s *promptService) validateCategoryRefs(ctx context.Context, categoryID, subCategoryID string) error {
	category, err := s.categoryRepo.GetByID(ctx, categoryID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return fmt.Errorf("%w: category with ID '%s'", ErrCategoryNotFound, categoryID)
		}
		return fmt.Errorf("failed to get category '%s' for prompt validation: %w", categoryID, err)
	}
	if category.IsDeleted {
		return fmt.Errorf("%w: category '%s' is trashed", ErrValidation, categoryID)
	}
	if subCategoryID == "" {
		return nil
	}
	for _, sub := range category.Subcategories {
		if sub.ID == subCategoryID {
			if sub.IsDeleted {
				return fmt.Errorf("%w: subcategory '%s' is trashed", ErrValidation, subCategoryID)
			}
			return nil
		}
	}
	return fmt.Errorf("%w: subcategory with ID '%s' in category '%s'", ErrSubcategoryNotFound, subCategoryID, categoryID)
}

// resolveCategoryNames maps the import file's category/subcategory names onto
// stored ids. Matching is case-insensitive; an empty subcategory name means
// none.
func resolveCategoryNames(categories []*models.Category, categoryName, subcategoryName string) (string, string, error) {
	var match *models.Category
	for _, category := range categories {
		if strings.EqualFold(category.Name, categoryName) {
			match = category
			break
		}
	}
	if match == nil {
		return "", "", fmt.Errorf("unknown category '%s'", categoryName)
	}
	if subcategoryName == "" {
		return match.ID, "", nil
	}
	for _, sub := range match.Subcategories {
		if strings.EqualFold(sub.Name, subcategoryName) {
			if sub.IsDeleted {
				return "", "", fmt.Errorf("subcategory '%s' in category '%s' is trashed", subcategoryName, categoryName)
			}
			return match.ID, sub.ID, nil
		}
	}
	return "", "", fmt.Errorf("unknown subcategory '%s' in category '%s'", subcategoryName, categoryName)
}

func (s *promptService) audit(ctx context.Context, actorID, action, targetID string, details map[string]interface{}) {
	if s.auditService == nil {
		return
	}
	entry := models.AuditLog{
		UserID:     actorID,
		Action:     action,
		TargetType: "PROMPT",
		TargetID:   targetID,
		Timestamp:  time.Now().UTC(),
		Details:    details,
	}
	if err := s.auditService.CreateAuditLog(ctx, entry); err != nil {
		log.Printf("Warning: failed to create audit log for %s (targetID: %s): %v", action, targetID, err)
	}
}
