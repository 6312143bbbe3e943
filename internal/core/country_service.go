package core

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"
	"unicode/utf8"

	"promptadmin-backend-go/internal/db"
	"promptadmin-backend-go/internal/models"
)

// countryService implements the CountryService interface.
type countryService struct {
	countryRepo  db.CountryRepository
	categoryRepo db.CategoryRepository
	auditService AuditService
}

// NewCountryService creates a new CountryService instance. The category
// repository is used to validate category membership edits.
func NewCountryService(countryRepo db.CountryRepository, categoryRepo db.CategoryRepository, auditService AuditService) CountryService {
	return &countryService{
		countryRepo:  countryRepo,
		categoryRepo: categoryRepo,
		auditService: auditService,
	}
}

// normalizeISOCode validates and upper-cases a 2-letter ISO code. The length
// check runs on the trimmed input and counts characters, not bytes, so a
// single multibyte character cannot sneak past it; anything but exactly 2
// characters is rejected before any write happens.
func normalizeISOCode(code string) (string, error) {
	code = strings.TrimSpace(code)
	if n := utf8.RuneCountInString(code); n != 2 {
		return "", fmt.Errorf("%w: isoCode must be exactly 2 characters, got %d", ErrValidation, n)
	}
	return strings.ToUpper(code), nil
}

// Create adds a new country. The ISO code is validated and stored upper-cased.
func (s *countryService) Create(ctx context.Context, actorID string, req models.CreateCountryRequest) (*models.Country, error) {
	isoCode, err := normalizeISOCode(req.ISOCode)
	if err != nil {
		return nil, err
	}
	categories := req.Categories
	if categories == nil {
		categories = []string{}
	}

	now := time.Now().UTC()
	country := &models.Country{
		Name:       req.Name,
		ISOCode:    isoCode,
		Categories: categories,
		CreatedBy:  actorID,
		CreatedAt:  now,
		UpdatedBy:  actorID,
		UpdatedAt:  now,
	}
	if _, err := s.countryRepo.Create(ctx, country); err != nil {
		return nil, fmt.Errorf("failed to create country in repository: %w", err)
	}

	s.audit(ctx, actorID, "COUNTRY_CREATE", country.ID, map[string]interface{}{"name": country.Name, "isoCode": country.ISOCode})
	return country, nil
}

// GetByID retrieves a country by its ID.
func (s *countryService) GetByID(ctx context.Context, countryID string) (*models.Country, error) {
	country, err := s.countryRepo.GetByID(ctx, countryID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, fmt.Errorf("%w: country with ID '%s'", ErrCountryNotFound, countryID)
		}
		return nil, fmt.Errorf("failed to get country '%s' from repository: %w", countryID, err)
	}
	return country, nil
}

// List retrieves countries filtered by deletion state, alphabetical by name.
func (s *countryService) List(ctx context.Context, filter db.ListFilter) ([]*models.Country, error) {
	countries, err := s.countryRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list countries: %w", err)
	}
	return countries, nil
}

// Update applies the provided fields to a country. An ISO code change is
// validated before anything is written.
func (s *countryService) Update(ctx context.Context, actorID, countryID string, req models.UpdateCountryRequest) (*models.Country, error) {
	country, err := s.GetByID(ctx, countryID)
	if err != nil {
		return nil, err
	}

	if req.ISOCode != nil {
		isoCode, err := normalizeISOCode(*req.ISOCode)
		if err != nil {
			return nil, err
		}
		country.ISOCode = isoCode
	}
	if req.Name != nil {
		if *req.Name == "" {
			return nil, fmt.Errorf("%w: country name cannot be empty", ErrValidation)
		}
		country.Name = *req.Name
	}
	if req.Categories != nil {
		country.Categories = *req.Categories
	}
	country.UpdatedBy = actorID
	country.UpdatedAt = time.Now().UTC()

	if err := s.countryRepo.Update(ctx, country); err != nil {
		return nil, fmt.Errorf("failed to update country '%s': %w", countryID, err)
	}

	s.audit(ctx, actorID, "COUNTRY_UPDATE", countryID, nil)
	return country, nil
}

// AddCategory adds a category id to the country's membership list. The
// category must exist and not be trashed.
func (s *countryService) AddCategory(ctx context.Context, actorID, countryID, categoryID string) (*models.Country, error) {
	country, err := s.GetByID(ctx, countryID)
	if err != nil {
		return nil, err
	}

	category, err := s.categoryRepo.GetByID(ctx, categoryID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, fmt.Errorf("%w: category with ID '%s'", ErrCategoryNotFound, categoryID)
		}
		return nil, fmt.Errorf("failed to get category '%s' for membership check: %w", categoryID, err)
	}
	if category.IsDeleted {
		return nil, fmt.Errorf("%w: cannot add trashed category '%s' to a country", ErrValidation, categoryID)
	}

	for _, id := range country.Categories {
		if id == categoryID {
			return country, nil // already a member
		}
	}
	country.Categories = append(country.Categories, categoryID)
	country.UpdatedBy = actorID
	country.UpdatedAt = time.Now().UTC()

	if err := s.countryRepo.Update(ctx, country); err != nil {
		return nil, fmt.Errorf("failed to add category '%s' to country '%s': %w", categoryID, countryID, err)
	}

	s.audit(ctx, actorID, "COUNTRY_ADD_CATEGORY", countryID, map[string]interface{}{"categoryId": categoryID})
	return country, nil
}

// RemoveCategory removes a category id from the country's membership list.
// Removing an id that is not present is a no-op.
func (s *countryService) RemoveCategory(ctx context.Context, actorID, countryID, categoryID string) (*models.Country, error) {
	country, err := s.GetByID(ctx, countryID)
	if err != nil {
		return nil, err
	}

	filtered := country.Categories[:0]
	removed := false
	for _, id := range country.Categories {
		if id == categoryID {
			removed = true
			continue
		}
		filtered = append(filtered, id)
	}
	if !removed {
		return country, nil
	}
	country.Categories = filtered
	country.UpdatedBy = actorID
	country.UpdatedAt = time.Now().UTC()

	if err := s.countryRepo.Update(ctx, country); err != nil {
		return nil, fmt.Errorf("failed to remove category '%s' from country '%s': %w", categoryID, countryID, err)
	}

	s.audit(ctx, actorID, "COUNTRY_REMOVE_CATEGORY", countryID, map[string]interface{}{"categoryId": categoryID})
	return country, nil
}

// SoftDelete moves an active country into the trash.
func (s *countryService) SoftDelete(ctx context.Context, actorID, countryID string) error {
	country, err := s.GetByID(ctx, countryID)
	if err != nil {
		return err
	}
	if country.IsDeleted {
		return fmt.Errorf("%w: country '%s'", ErrAlreadyTrashed, countryID)
	}

	now := time.Now().UTC()
	country.IsDeleted = true
	country.DeletedBy = actorID
	country.DeletedAt = &now
	if err := s.countryRepo.Update(ctx, country); err != nil {
		return fmt.Errorf("failed to soft delete country '%s': %w", countryID, err)
	}

	s.audit(ctx, actorID, "COUNTRY_DELETE", countryID, nil)
	return nil
}

// Restore moves a trashed country back to the active state.
func (s *countryService) Restore(ctx context.Context, actorID, countryID string) error {
	country, err := s.GetByID(ctx, countryID)
	if err != nil {
		return err
	}
	if !country.IsDeleted {
		return fmt.Errorf("%w: country '%s'", ErrNotTrashed, countryID)
	}

	country.IsDeleted = false
	country.DeletedBy = ""
	country.DeletedAt = nil
	if err := s.countryRepo.Update(ctx, country); err != nil {
		return fmt.Errorf("failed to restore country '%s': %w", countryID, err)
	}

	s.audit(ctx, actorID, "COUNTRY_RESTORE", countryID, nil)
	return nil
}

// PermanentDelete removes a trashed country document for good.
func (s *countryService) PermanentDelete(ctx context.Context, actorID, countryID string) error {
	country, err := s.countryRepo.GetByID(ctx, countryID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return fmt.Errorf("%w: country with ID '%s'", ErrCountryNotFound, countryID)
		}
		return fmt.Errorf("failed to get country '%s' for permanent delete: %w", countryID, err)
	}
	if !country.IsDeleted {
		return fmt.Errorf("%w: country '%s' must be trashed before permanent deletion", ErrNotTrashed, countryID)
	}

	if err := s.countryRepo.Delete(ctx, countryID); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return fmt.Errorf("%w: country with ID '%s'", ErrCountryNotFound, countryID)
		}
		return fmt.Errorf("failed to permanently delete country '%s': %w", countryID, err)
	}

	s.audit(ctx, actorID, "COUNTRY_PURGE", countryID, map[string]interface{}{"name": country.Name})
	return nil
}

func (s *countryService) audit(ctx context.Context, actorID, action, targetID string, details map[string]interface{}) {
	if s.auditService == nil {
		return
	}
	entry := models.AuditLog{
		UserID:     actorID,
		Action:     action,
		TargetType: "COUNTRY",
		TargetID:   targetID,
		Timestamp:  time.Now().UTC(),
		Details:    details,
	}
	if err := s.auditService.CreateAuditLog(ctx, entry); err != nil {
		log.Printf("Warning: failed to create audit log for %s (targetID: %s): %v", action, targetID, err)
	}
}
