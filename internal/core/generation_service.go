package core

import (
	"context"
	"errors"
	"fmt"

	"promptadmin-backend-go/internal/db"
	"promptadmin-backend-go/internal/models"
)

// generationService implements the read-only GenerationService interface.
type generationService struct {
	genRepo db.GenerationRepository
}

// NewGenerationService creates a new GenerationService instance.
func NewGenerationService(genRepo db.GenerationRepository) GenerationService {
	return &generationService{genRepo: genRepo}
}

// GetByID retrieves a generation record by its ID.
func (s *generationService) GetByID(ctx context.Context, genID string) (*models.UserGeneration, error) {
	gen, err := s.genRepo.GetByID(ctx, genID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, fmt.Errorf("%w: generation with ID '%s'", ErrGenerationNotFound, genID)
		}
		return nil, fmt.Errorf("failed to get generation '%s' from repository: %w", genID, err)
	}
	return gen, nil
}

// List retrieves generation records, optionally narrowed by user and status.
func (s *generationService) List(ctx context.Context, userID, status string) ([]*models.UserGeneration, error) {
	if status != "" && status != models.GenerationPending && status != models.GenerationSuccess && status != models.GenerationFailed {
		return nil, fmt.Errorf("%w: unknown generation status '%s'", ErrValidation, status)
	}
	gens, err := s.genRepo.List(ctx, userID, status)
	if err != nil {
		return nil, fmt.Errorf("failed to list generations: %w", err)
	}
	return gens, nil
}
