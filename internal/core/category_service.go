package core

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"promptadmin-backend-go/internal/db"
	"promptadmin-backend-go/internal/models"
)

// categoryService implements the CategoryService interface. It owns the
// lifecycle rules with cross-entity reach: the delete cascade into embedded
// subcategories, the usage-check gate over prompts and countries, and the
// orphaned-subcategory view.
type categoryService struct {
	categoryRepo db.CategoryRepository
	promptRepo   db.PromptRepository
	countryRepo  db.CountryRepository
	auditService AuditService
}

// NewCategoryService creates a new CategoryService instance.
func NewCategoryService(
	categoryRepo db.CategoryRepository,
	promptRepo db.PromptRepository,
	countryRepo db.CountryRepository,
	auditService AuditService,
) CategoryService {
	return &categoryService{
		categoryRepo: categoryRepo,
		promptRepo:   promptRepo,
		countryRepo:  countryRepo,
		auditService: auditService,
	}
}

// Create adds a new category with an empty subcategory list.
func (s *categoryService) Create(ctx context.Context, actorID string, req models.CreateCategoryRequest) (*models.Category, error) {
	now := time.Now().UTC()
	category := &models.Category{
		Name:          req.Name,
		IconImage:     req.IconImage,
		Order:         req.Order,
		Subcategories: []models.Subcategory{},
		CreatedBy:     actorID,
		CreatedAt:     now,
		UpdatedBy:     actorID,
		UpdatedAt:     now,
	}
	if _, err := s.categoryRepo.Create(ctx, category); err != nil {
		return nil, fmt.Errorf("failed to create category in repository: %w", err)
	}

	s.audit(ctx, actorID, "CATEGORY_CREATE", category.ID, map[string]interface{}{"name": category.Name})
	return category, nil
}

// GetByID retrieves a category by its ID.
func (s *categoryService) GetByID(ctx context.Context, categoryID string) (*models.Category, error) {
	category, err := s.categoryRepo.GetByID(ctx, categoryID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, fmt.Errorf("%w: category with ID '%s'", ErrCategoryNotFound, categoryID)
		}
		return nil, fmt.Errorf("failed to get category '%s' from repository: %w", categoryID, err)
	}
	return category, nil
}

// List retrieves categories filtered by deletion state.
func (s *categoryService) List(ctx context.Context, filter db.ListFilter) ([]*models.Category, error) {
	categories, err := s.categoryRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}

// Update applies the provided fields to a category.
func (s *categoryService) Update(ctx context.Context, actorID, categoryID string, req models.UpdateCategoryRequest) (*models.Category, error) {
	category, err := s.GetByID(ctx, categoryID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		if *req.Name == "" {
			return nil, fmt.Errorf("%w: category name cannot be empty", ErrValidation)
		}
		category.Name = *req.Name
	}
	if req.IconImage != nil {
		category.IconImage = *req.IconImage
	}
	if req.Order != nil {
		category.Order = *req.Order
	}
	category.UpdatedBy = actorID
	category.UpdatedAt = time.Now().UTC()

	if err := s.categoryRepo.Update(ctx, category); err != nil {
		return nil, fmt.Errorf("failed to update category '%s': %w", categoryID, err)
	}

	s.audit(ctx, actorID, "CATEGORY_UPDATE", categoryID, nil)
	return category, nil
}

// Usage reports how many non-deleted prompts reference the category and which
// countries list it. This is an advisory pre-delete check, not a lock: a new
// prompt can still be created between the check and the delete.
func (s *categoryService) Usage(ctx context.Context, categoryID string) (*models.CategoryUsage, error) {
	if _, err := s.GetByID(ctx, categoryID); err != nil {
		return nil, err
	}

	promptCount, err := s.promptRepo.CountByCategoryID(ctx, categoryID)
	if err != nil {
		return nil, fmt.Errorf("failed to count prompts for category '%s': %w", categoryID, err)
	}

	countries, err := s.countryRepo.ListByCategoryID(ctx, categoryID)
	if err != nil {
		return nil, fmt.Errorf("failed to list countries for category '%s': %w", categoryID, err)
	}
	countryNames := make([]string, 0, len(countries))
	for _, country := range countries {
		countryNames = append(countryNames, country.Name)
	}

	return &models.CategoryUsage{
		CategoryID:  categoryID,
		PromptCount: promptCount,
		Countries:   countryNames,
	}, nil
}

// confirmGate enforces the type-to-confirm rule: the operator-supplied text
// must byte-equal the category's current name.
func confirmGate(category *models.Category, confirmName string) error {
	if confirmName != category.Name {
		return fmt.Errorf("%w: expected exact category name", ErrConfirmationMismatch)
	}
	return nil
}

// SoftDelete trashes a category and cascades the deletion flag to every
// embedded subcategory in the same document write.
func (s *categoryService) SoftDelete(ctx context.Context, actorID, categoryID, confirmName string) error {
	category, err := s.GetByID(ctx, categoryID)
	if err != nil {
		return err
	}
	if category.IsDeleted {
		return fmt.Errorf("%w: category '%s'", ErrAlreadyTrashed, categoryID)
	}
	if err := confirmGate(category, confirmName); err != nil {
		return err
	}

	now := time.Now().UTC()
	category.IsDeleted = true
	category.DeletedBy = actorID
	category.DeletedAt = &now
	for i := range category.Subcategories {
		sub := &category.Subcategories[i]
		if sub.IsDeleted {
			continue
		}
		sub.IsDeleted = true
		sub.DeletedBy = actorID
		sub.DeletedAt = &now
	}

	if err := s.categoryRepo.Update(ctx, category); err != nil {
		return fmt.Errorf("failed to soft delete category '%s': %w", categoryID, err)
	}

	s.audit(ctx, actorID, "CATEGORY_DELETE", categoryID, map[string]interface{}{"name": category.Name})
	return nil
}

// Restore untrashes a category. Subcategories are deliberately NOT restored:
// resurrecting ones an operator removed on purpose would be worse than the
// extra clicks, so each must be restored individually via the orphaned view.
func (s *categoryService) Restore(ctx context.Context, actorID, categoryID string) error {
	category, err := s.GetByID(ctx, categoryID)
	if err != nil {
		return err
	}
	if !category.IsDeleted {
		return fmt.Errorf("%w: category '%s'", ErrNotTrashed, categoryID)
	}

	category.IsDeleted = false
	category.DeletedBy = ""
	category.DeletedAt = nil
	if err := s.categoryRepo.Update(ctx, category); err != nil {
		return fmt.Errorf("failed to restore category '%s': %w", categoryID, err)
	}

	s.audit(ctx, actorID, "CATEGORY_RESTORE", categoryID, nil)
	return nil
}

// PermanentDelete removes a trashed category document for good. The category
// must already be in the trash; there is no Active -> Gone transition.
func (s *categoryService) PermanentDelete(ctx context.Context, actorID, categoryID, confirmName string) error {
	category, err := s.categoryRepo.GetByID(ctx, categoryID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return fmt.Errorf("%w: category with ID '%s'", ErrCategoryNotFound, categoryID)
		}
		return fmt.Errorf("failed to get category '%s' for permanent delete: %w", categoryID, err)
	}
	if !category.IsDeleted {
		return fmt.Errorf("%w: category '%s' must be trashed before permanent deletion", ErrNotTrashed, categoryID)
	}
	if err := confirmGate(category, confirmName); err != nil {
		return err
	}

	if err := s.categoryRepo.Delete(ctx, categoryID); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return fmt.Errorf("%w: category with ID '%s'", ErrCategoryNotFound, categoryID)
		}
		return fmt.Errorf("failed to permanently delete category '%s': %w", categoryID, err)
	}

	s.audit(ctx, actorID, "CATEGORY_PURGE", categoryID, map[string]interface{}{"name": category.Name})
	return nil
}

// AddSubcategory appends a subcategory to the category's embedded list.
func (s *categoryService) AddSubcategory(ctx context.Context, actorID, categoryID string, req models.CreateSubcategoryRequest) (*models.Category, error) {
	category, err := s.GetByID(ctx, categoryID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	sub := models.Subcategory{
		ID:        uuid.NewString(),
		Name:      req.Name,
		Order:     req.Order,
		CreatedBy: actorID,
		CreatedAt: now,
		UpdatedBy: actorID,
		UpdatedAt: now,
	}
	category.Subcategories = append(category.Subcategories, sub)
	category.UpdatedBy = actorID
	category.UpdatedAt = now

	if err := s.categoryRepo.Update(ctx, category); err != nil {
		return nil, fmt.Errorf("failed to add subcategory to category '%s': %w", categoryID, err)
	}

	s.audit(ctx, actorID, "SUBCATEGORY_CREATE", sub.ID, map[string]interface{}{"categoryId": categoryID, "name": sub.Name})
	return category, nil
}

// findSubcategory returns a pointer into the category's embedded list, or nil.
func findSubcategory(category *models.Category, subcategoryID string) *models.Subcategory {
	for i := range category.Subcategories {
		if category.Subcategories[i].ID == subcategoryID {
			return &category.Subcategories[i]
		}
	}
	return nil
}

// UpdateSubcategory applies the provided fields to an embedded subcategory.
func (s *categoryService) UpdateSubcategory(ctx context.Context, actorID, categoryID, subcategoryID string, req models.UpdateSubcategoryRequest) (*models.Category, error) {
	category, err := s.GetByID(ctx, categoryID)
	if err != nil {
		return nil, err
	}
	sub := findSubcategory(category, subcategoryID)
	if sub == nil {
		return nil, fmt.Errorf("%w: subcategory '%s' in category '%s'", ErrSubcategoryNotFound, subcategoryID, categoryID)
	}

	if req.Name != nil {
		if *req.Name == "" {
			return nil, fmt.Errorf("%w: subcategory name cannot be empty", ErrValidation)
		}
		sub.Name = *req.Name
	}
	if req.Order != nil {
		sub.Order = *req.Order
	}
	sub.UpdatedBy = actorID
	sub.UpdatedAt = time.Now().UTC()

	if err := s.categoryRepo.Update(ctx, category); err != nil {
		return nil, fmt.Errorf("failed to update subcategory '%s' in category '%s': %w", subcategoryID, categoryID, err)
	}

	s.audit(ctx, actorID, "SUBCATEGORY_UPDATE", subcategoryID, map[string]interface{}{"categoryId": categoryID})
	return category, nil
}

// SoftDeleteSubcategory trashes a single embedded subcategory.
func (s *categoryService) SoftDeleteSubcategory(ctx context.Context, actorID, categoryID, subcategoryID string) error {
	category, err := s.GetByID(ctx, categoryID)
	if err != nil {
		return err
	}
	sub := findSubcategory(category, subcategoryID)
	if sub == nil {
		return fmt.Errorf("%w: subcategory '%s' in category '%s'", ErrSubcategoryNotFound, subcategoryID, categoryID)
	}
	if sub.IsDeleted {
		return fmt.Errorf("%w: subcategory '%s'", ErrAlreadyTrashed, subcategoryID)
	}

	now := time.Now().UTC()
	sub.IsDeleted = true
	sub.DeletedBy = actorID
	sub.DeletedAt = &now

	if err := s.categoryRepo.Update(ctx, category); err != nil {
		return fmt.Errorf("failed to soft delete subcategory '%s': %w", subcategoryID, err)
	}

	s.audit(ctx, actorID, "SUBCATEGORY_DELETE", subcategoryID, map[string]interface{}{"categoryId": categoryID})
	return nil
}

// RestoreSubcategory untrashes a single embedded subcategory, independent of
// the parent's state.
func (s *categoryService) RestoreSubcategory(ctx context.Context, actorID, categoryID, subcategoryID string) error {
	category, err := s.GetByID(ctx, categoryID)
	if err != nil {
		return err
	}
	sub := findSubcategory(category, subcategoryID)
	if sub == nil {
		return fmt.Errorf("%w: subcategory '%s' in category '%s'", ErrSubcategoryNotFound, subcategoryID, categoryID)
	}
	if !sub.IsDeleted {
		return fmt.Errorf("%w: subcategory '%s'", ErrNotTrashed, subcategoryID)
	}

	sub.IsDeleted = false
	sub.DeletedBy = ""
	sub.DeletedAt = nil

	if err := s.categoryRepo.Update(ctx, category); err != nil {
		return fmt.Errorf("failed to restore subcategory '%s': %w", subcategoryID, err)
	}

	s.audit(ctx, actorID, "SUBCATEGORY_RESTORE", subcategoryID, map[string]interface{}{"categoryId": categoryID})
	return nil
}

// RemoveSubcategory permanently removes a trashed subcategory from the
// embedded list.
func (s *categoryService) RemoveSubcategory(ctx context.Context, actorID, categoryID, subcategoryID string) error {
	category, err := s.GetByID(ctx, categoryID)
	if err != nil {
		return err
	}

	idx := -1
	for i := range category.Subcategories {
		if category.Subcategories[i].ID == subcategoryID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return fmt.Errorf("%w: subcategory '%s' in category '%s'", ErrSubcategoryNotFound, subcategoryID, categoryID)
	}
	if !category.Subcategories[idx].IsDeleted {
		return fmt.Errorf("%w: subcategory '%s' must be trashed before permanent deletion", ErrNotTrashed, subcategoryID)
	}

	category.Subcategories = append(category.Subcategories[:idx], category.Subcategories[idx+1:]...)
	if err := s.categoryRepo.Update(ctx, category); err != nil {
		return fmt.Errorf("failed to remove subcategory '%s' from category '%s': %w", subcategoryID, categoryID, err)
	}

	s.audit(ctx, actorID, "SUBCATEGORY_PURGE", subcategoryID, map[string]interface{}{"categoryId": categoryID})
	return nil
}

// OrphanedSubcategories lists subcategories whose deletion state differs from
// their parent's, across all categories. These are the entries that a plain
// active or trash listing of categories would misrepresent.
func (s *categoryService) OrphanedSubcategories(ctx context.Context) ([]models.OrphanedSubcategory, error) {
	categories, err := s.categoryRepo.List(ctx, db.ListAll)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories for orphan scan: %w", err)
	}

	var orphans []models.OrphanedSubcategory
	for _, category := range categories {
		for _, sub := range category.Subcategories {
			if sub.IsDeleted == category.IsDeleted {
				continue
			}
			orphans = append(orphans, models.OrphanedSubcategory{
				CategoryID:      category.ID,
				CategoryName:    category.Name,
				CategoryDeleted: category.IsDeleted,
				Subcategory:     sub,
			})
		}
	}

	return orphans, nil
}

func (s *categoryService) audit(ctx context.Context, actorID, action, targetID string, details map[string]interface{}) {
	if s.auditService == nil {
		return
	}
	entry := models.AuditLog{
		UserID:     actorID,
		Action:     action,
		TargetType: "CATEGORY",
		TargetID:   targetID,
		Timestamp:  time.Now().UTC(),
		Details:    details,
	}
	if err := s.auditService.CreateAuditLog(ctx, entry); err != nil {
		log.Printf("Warning: failed to create audit log for %s (targetID: %s): %v", action, targetID, err)
	}
}
