package db

import (
	"context"
	"errors"
	"fmt"
	"log"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"promptadmin-backend-go/internal/models"
)

const plansCollection = "subscription_plans"

// firestorePlanRepository implements the PlanRepository interface using Firestore.
type firestorePlanRepository struct {
	client *firestore.Client
}

// NewFirestorePlanRepository creates a new instance of firestorePlanRepository.
func NewFirestorePlanRepository(client *firestore.Client) PlanRepository {
	if client == nil {
		log.Fatal("Firestore client is not initialized for PlanRepository.")
	}
	return &firestorePlanRepository{client: client}
}

// Create adds a new plan document with an auto-generated ID.
func (r *firestorePlanRepository) Create(ctx context.Context, plan *models.SubscriptionPlan) (string, error) {
	docRef := r.client.Collection(plansCollection).NewDoc()
	plan.ID = docRef.ID
	if _, err := docRef.Create(ctx, plan); err != nil {
		return "", fmt.Errorf("failed to create plan: %w", err)
	}
	return docRef.ID, nil
}

// GetByID retrieves a plan document by its ID.
func (r *firestorePlanRepository) GetByID(ctx context.Context, planID string) (*models.SubscriptionPlan, error) {
	if planID == "" {
		return nil, errors.New("planID cannot be empty for GetByID operation")
	}
	docSnap, err := r.client.Collection(plansCollection).Doc(planID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, fmt.Errorf("plan with ID '%s' not found: %w", planID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get plan with ID '%s': %w", planID, err)
	}

	var plan models.SubscriptionPlan
	if err := docSnap.DataTo(&plan); err != nil {
		return nil, fmt.Errorf("failed to decode plan data for ID '%s': %w", planID, err)
	}
	plan.ID = docSnap.Ref.ID

	return &plan, nil
}

// List retrieves all plan documents ordered by the operator-managed order field.
func (r *firestorePlanRepository) List(ctx context.Context) ([]*models.SubscriptionPlan, error) {
	iter := r.client.Collection(plansCollection).OrderBy("order", firestore.Asc).Documents(ctx)
	defer iter.Stop()

	var plans []*models.SubscriptionPlan
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to iterate plans: %w", err)
		}
		var plan models.SubscriptionPlan
		if err := doc.DataTo(&plan); err != nil {
			log.Printf("Error decoding plan data (ID: %s): %v. Skipping.", doc.Ref.ID, err)
			continue
		}
		plan.ID = doc.Ref.ID
		plans = append(plans, &plan)
	}

	return plans, nil
}

// Update overwrites an existing plan document with the given state.
func (r *firestorePlanRepository) Update(ctx context.Context, plan *models.SubscriptionPlan) error {
	if plan.ID == "" {
		return errors.New("plan ID cannot be empty for Update operation")
	}
	_, err := r.client.Collection(plansCollection).Doc(plan.ID).Set(ctx, plan)
	if err != nil {
		return fmt.Errorf("failed to update plan with ID '%s': %w", plan.ID, err)
	}
	return nil
}

// Delete removes a plan document permanently.
func (r *firestorePlanRepository) Delete(ctx context.Context, planID string) error {
	if planID == "" {
		return errors.New("planID cannot be empty for Delete operation")
	}
	_, err := r.client.Collection(plansCollection).Doc(planID).Delete(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return fmt.Errorf("plan with ID '%s' not found for deletion: %w", planID, ErrNotFound)
		}
		return fmt.Errorf("failed to delete plan with ID '%s': %w", planID, err)
	}
	return nil
}
