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

// planService implements the PlanService interface.
type planService struct {
	planRepo     db.PlanRepository
	subRepo      db.SubscriptionRepository
	auditService AuditService
}

// NewPlanService creates a new PlanService instance. The subscription
// repository guards deletion of plans that still have active subscribers.
func NewPlanService(planRepo db.PlanRepository, subRepo db.SubscriptionRepository, auditService AuditService) PlanService {
	return &planService{
		planRepo:     planRepo,
		subRepo:      subRepo,
		auditService: auditService,
	}
}

// Create adds a new subscription plan.
func (s *planService) Create(ctx context.Context, actorID string, req models.CreatePlanRequest) (*models.SubscriptionPlan, error) {
	if req.Price < 0 {
		return nil, fmt.Errorf("%w: plan price cannot be negative", ErrValidation)
	}
	if req.GenerationLimit < 0 {
		return nil, fmt.Errorf("%w: generation limit cannot be negative", ErrValidation)
	}

	now := time.Now().UTC()
	plan := &models.SubscriptionPlan{
		Name:            req.Name,
		Price:           req.Price,
		Currency:        req.Currency,
		DurationDays:    req.DurationDays,
		GenerationLimit: req.GenerationLimit,
		Features:        req.Features,
		IsActive:        req.IsActive,
		Order:           req.Order,
		CreatedBy:       actorID,
		CreatedAt:       now,
		UpdatedBy:       actorID,
		UpdatedAt:       now,
	}
	if _, err := s.planRepo.Create(ctx, plan); err != nil {
		return nil, fmt.Errorf("failed to create plan in repository: %w", err)
	}

	s.audit(ctx, actorID, "PLAN_CREATE", plan.ID, map[string]interface{}{"name": plan.Name, "price": plan.Price})
	return plan, nil
}

// GetByID retrieves a plan by its ID.
func (s *planService) GetByID(ctx context.Context, planID string) (*models.SubscriptionPlan, error) {
	plan, err := s.planRepo.GetByID(ctx, planID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, fmt.Errorf("%w: plan with ID '%s'", ErrPlanNotFound, planID)
		}
		return nil, fmt.Errorf("failed to get plan '%s' from repository: %w", planID, err)
	}
	return plan, nil
}

// List retrieves all plans in display order.
func (s *planService) List(ctx context.Context) ([]*models.SubscriptionPlan, error) {
	plans, err := s.planRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list plans: %w", err)
	}
	return plans, nil
}

// Update applies the provided fields to a plan.
func (s *planService) Update(ctx context.Context, actorID, planID string, req models.UpdatePlanRequest) (*models.SubscriptionPlan, error) {
	plan, err := s.GetByID(ctx, planID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		if *req.Name == "" {
			return nil, fmt.Errorf("%w: plan name cannot be empty", ErrValidation)
		}
		plan.Name = *req.Name
	}
	if req.Price != nil {
		if *req.Price < 0 {
			return nil, fmt.Errorf("%w: plan price cannot be negative", ErrValidation)
		}
		plan.Price = *req.Price
	}
	if req.Currency != nil {
		plan.Currency = *req.Currency
	}
	if req.DurationDays != nil {
		if *req.DurationDays <= 0 {
			return nil, fmt.Errorf("%w: plan duration must be positive", ErrValidation)
		}
		plan.DurationDays = *req.DurationDays
	}
	if req.GenerationLimit != nil {
		if *req.GenerationLimit < 0 {
			return nil, fmt.Errorf("%w: generation limit cannot be negative", ErrValidation)
		}
		plan.GenerationLimit = *req.GenerationLimit
	}
	if req.Features != nil {
		plan.Features = *req.Features
	}
	if req.IsActive != nil {
		plan.IsActive = *req.IsActive
	}
	if req.Order != nil {
		plan.Order = *req.Order
	}
	plan.UpdatedBy = actorID
	plan.UpdatedAt = time.Now().UTC()

	if err := s.planRepo.Update(ctx, plan); err != nil {
		return nil, fmt.Errorf("failed to update plan '%s': %w", planID, err)
	}

	s.audit(ctx, actorID, "PLAN_UPDATE", planID, nil)
	return plan, nil
}

// Delete removes a plan outright. Plans with active subscriptions cannot be
// deleted; deactivate them instead.
func (s *planService) Delete(ctx context.Context, actorID, planID string) error {
	plan, err := s.GetByID(ctx, planID)
	if err != nil {
		return err
	}

	active := true
	subs, err := s.subRepo.List(ctx, db.SubscriptionQuery{PlanID: planID, ActiveOnly: &active})
	if err != nil {
		return fmt.Errorf("failed to check subscriptions for plan '%s': %w", planID, err)
	}
	if len(subs) > 0 {
		return fmt.Errorf("%w: plan '%s' has %d active subscription(s)", ErrValidation, planID, len(subs))
	}

	if err := s.planRepo.Delete(ctx, planID); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return fmt.Errorf("%w: plan with ID '%s'", ErrPlanNotFound, planID)
		}
		return fmt.Errorf("failed to delete plan '%s': %w", planID, err)
	}

	s.audit(ctx, actorID, "PLAN_DELETE", planID, map[string]interface{}{"name": plan.Name})
	return nil
}

func (s *planService) audit(ctx context.Context, actorID, action, targetID string, details map[string]interface{}) {
	if s.auditService == nil {
		return
	}
	entry := models.AuditLog{
		UserID:     actorID,
		Action:     action,
		TargetType: "PLAN",
		TargetID:   targetID,
		Timestamp:  time.Now().UTC(),
		Details:    details,
	}
	if err := s.auditService.CreateAuditLog(ctx, entry); err != nil {
		log.Printf("Warning: failed to create audit log for %s (targetID: %s): %v", action, targetID, err)
	}
}
