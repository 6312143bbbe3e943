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

// subscriptionService implements the SubscriptionService interface.
type subscriptionService struct {
	subRepo      db.SubscriptionRepository
	userRepo     db.UserRepository
	planRepo     db.PlanRepository
	auditService AuditService
}

// NewSubscriptionService creates a new SubscriptionService instance. User and
// plan repositories validate references when an admin grants a subscription.
func NewSubscriptionService(subRepo db.SubscriptionRepository, userRepo db.UserRepository, planRepo db.PlanRepository, auditService AuditService) SubscriptionService {
	return &subscriptionService{
		subRepo:      subRepo,
		userRepo:     userRepo,
		planRepo:     planRepo,
		auditService: auditService,
	}
}

// Create grants a user a subscription to a plan. The end date is derived from
// the plan's duration; expiry is never stored.
func (s *subscriptionService) Create(ctx context.Context, actorID string, req models.CreateSubscriptionRequest) (*SubscriptionView, error) {
	user, err := s.userRepo.GetByID(ctx, req.UserID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, fmt.Errorf("%w: user with ID '%s'", ErrUserNotFound, req.UserID)
		}
		return nil, fmt.Errorf("failed to get user '%s' for subscription: %w", req.UserID, err)
	}
	if user.IsDeleted {
		return nil, fmt.Errorf("%w: cannot subscribe trashed user '%s'", ErrValidation, req.UserID)
	}

	plan, err := s.planRepo.GetByID(ctx, req.PlanID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, fmt.Errorf("%w: plan with ID '%s'", ErrPlanNotFound, req.PlanID)
		}
		return nil, fmt.Errorf("failed to get plan '%s' for subscription: %w", req.PlanID, err)
	}
	if !plan.IsActive {
		return nil, fmt.Errorf("%w: plan '%s' is not active", ErrValidation, req.PlanID)
	}

	start := time.Now().UTC()
	if req.StartDate != nil {
		start = req.StartDate.UTC()
	}
	sub := &models.UserSubscription{
		UserID:        req.UserID,
		PlanID:        req.PlanID,
		StartDate:     start,
		EndDate:       start.AddDate(0, 0, plan.DurationDays),
		IsActive:      true,
		PaymentMethod: req.PaymentMethod,
		TransactionID: req.TransactionID,
	}
	if _, err := s.subRepo.Create(ctx, sub); err != nil {
		return nil, fmt.Errorf("failed to create subscription in repository: %w", err)
	}

	s.audit(ctx, actorID, "SUBSCRIPTION_CREATE", sub.ID, map[string]interface{}{"userId": sub.UserID, "planId": sub.PlanID})
	return s.view(sub), nil
}

// GetByID retrieves a subscription with its derived expiry.
func (s *subscriptionService) GetByID(ctx context.Context, subID string) (*SubscriptionView, error) {
	sub, err := s.subRepo.GetByID(ctx, subID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, fmt.Errorf("%w: subscription with ID '%s'", ErrSubscriptionNotFound, subID)
		}
		return nil, fmt.Errorf("failed to get subscription '%s' from repository: %w", subID, err)
	}
	return s.view(sub), nil
}

// List retrieves subscriptions matching the query, each with derived expiry.
func (s *subscriptionService) List(ctx context.Context, q db.SubscriptionQuery) ([]*SubscriptionView, error) {
	subs, err := s.subRepo.List(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("failed to list subscriptions: %w", err)
	}
	views := make([]*SubscriptionView, 0, len(subs))
	for _, sub := range subs {
		views = append(views, s.view(sub))
	}
	return views, nil
}

// Cancel deactivates a subscription. Cancelling an already inactive
// subscription is a no-op.
func (s *subscriptionService) Cancel(ctx context.Context, actorID, subID string) (*SubscriptionView, error) {
	sub, err := s.subRepo.GetByID(ctx, subID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, fmt.Errorf("%w: subscription with ID '%s'", ErrSubscriptionNotFound, subID)
		}
		return nil, fmt.Errorf("failed to get subscription '%s' for cancel: %w", subID, err)
	}
	if !sub.IsActive {
		return s.view(sub), nil
	}

	sub.IsActive = false
	if err := s.subRepo.Update(ctx, sub); err != nil {
		return nil, fmt.Errorf("failed to cancel subscription '%s': %w", subID, err)
	}

	s.audit(ctx, actorID, "SUBSCRIPTION_CANCEL", subID, map[string]interface{}{"userId": sub.UserID})
	return s.view(sub), nil
}

func (s *subscriptionService) view(sub *models.UserSubscription) *SubscriptionView {
	return &SubscriptionView{
		UserSubscription: *sub,
		Expired:          sub.Expired(time.Now().UTC()),
	}
}

func (s *subscriptionService) audit(ctx context.Context, actorID, action, targetID string, details map[string]interface{}) {
	if s.auditService == nil {
		return
	}
	entry := models.AuditLog{
		UserID:     actorID,
		Action:     action,
		TargetType: "SUBSCRIPTION",
		TargetID:   targetID,
		Timestamp:  time.Now().UTC(),
		Details:    details,
	}
	if err := s.auditService.CreateAuditLog(ctx, entry); err != nil {
		log.Printf("Warning: failed to create audit log for %s (targetID: %s): %v", action, targetID, err)
	}
}
