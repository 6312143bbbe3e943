package core

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"promptadmin-backend-go/internal/db"
	"promptadmin-backend-go/internal/models"
)

// feedbackService implements the FeedbackService interface.
type feedbackService struct {
	feedbackRepo db.FeedbackRepository
	auditService AuditService
}

// NewFeedbackService creates a new FeedbackService instance.
func NewFeedbackService(feedbackRepo db.FeedbackRepository, auditService AuditService) FeedbackService {
	return &feedbackService{
		feedbackRepo: feedbackRepo,
		auditService: auditService,
	}
}

// GetByID retrieves a feedback entry by its ID.
func (s *feedbackService) GetByID(ctx context.Context, feedbackID string) (*models.Feedback, error) {
	feedback, err := s.feedbackRepo.GetByID(ctx, feedbackID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, fmt.Errorf("%w: feedback with ID '%s'", ErrFeedbackNotFound, feedbackID)
		}
		return nil, fmt.Errorf("failed to get feedback '%s' from repository: %w", feedbackID, err)
	}
	return feedback, nil
}

// List retrieves feedback entries, optionally narrowed to one star rating.
// Rating 0 lists everything.
func (s *feedbackService) List(ctx context.Context, rating int) ([]*models.Feedback, error) {
	if rating < 0 || rating > 5 {
		return nil, fmt.Errorf("%w: rating filter must be 1-5, got %d", ErrValidation, rating)
	}
	entries, err := s.feedbackRepo.List(ctx, rating)
	if err != nil {
		return nil, fmt.Errorf("failed to list feedback: %w", err)
	}
	return entries, nil
}

// Delete removes a feedback entry. Feedback has no trash tier, so this is a
// hard delete.
func (s *feedbackService) Delete(ctx context.Context, actorID, feedbackID string) error {
	feedback, err := s.GetByID(ctx, feedbackID)
	if err != nil {
		return err
	}

	if err := s.feedbackRepo.Delete(ctx, feedbackID); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return fmt.Errorf("%w: feedback with ID '%s'", ErrFeedbackNotFound, feedbackID)
		}
		return fmt.Errorf("failed to delete feedback '%s': %w", feedbackID, err)
	}

	s.audit(ctx, actorID, "FEEDBACK_DELETE", feedbackID, map[string]interface{}{"userId": feedback.UserID, "rating": feedback.Rating})
	return nil
}

func (s *feedbackService) audit(ctx context.Context, actorID, action, targetID string, details map[string]interface{}) {
	if s.auditService == nil {
		return
	}
	entry := models.AuditLog{
		UserID:     actorID,
		Action:     action,
		TargetType: "FEEDBACK",
		TargetID:   targetID,
		Timestamp:  time.Now().UTC(),
		Details:    details,
	}
	if err := s.auditService.CreateAuditLog(ctx, entry); err != nil {
		log.Printf("Warning: failed to create audit log for %s (targetID: %s): %v", action, targetID, err)
	}
}
