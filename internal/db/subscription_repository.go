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

const subscriptionsCollection = "user_subscriptions"

// firestoreSubscriptionRepository implements the SubscriptionRepository
// interface using Firestore.
type firestoreSubscriptionRepository struct {
	client *firestore.Client
}

// NewFirestoreSubscriptionRepository creates a new instance of firestoreSubscriptionRepository.
func NewFirestoreSubscriptionRepository(client *firestore.Client) SubscriptionRepository {
	if client == nil {
		log.Fatal("Firestore client is not initialized for SubscriptionRepository.")
	}
	return &firestoreSubscriptionRepository{client: client}
}

// Create adds a new user subscription document with an auto-generated ID.
func (r *firestoreSubscriptionRepository) Create(ctx context.Context, sub *models.UserSubscription) (string, error) {
	docRef := r.client.Collection(subscriptionsCollection).NewDoc()
	sub.ID = docRef.ID
	if _, err := docRef.Create(ctx, sub); err != nil {
		return "", fmt.Errorf("failed to create subscription: %w", err)
	}
	return docRef.ID, nil
}

// GetByID retrieves a user subscription document by its ID.
func (r *firestoreSubscriptionRepository) GetByID(ctx context.Context, subID string) (*models.UserSubscription, error) {
	if subID == "" {
		return nil, errors.New("subID cannot be empty for GetByID operation")
	}
	docSnap, err := r.client.Collection(subscriptionsCollection).Doc(subID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, fmt.Errorf("subscription with ID '%s' not found: %w", subID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get subscription with ID '%s': %w", subID, err)
	}

	var sub models.UserSubscription
	if err := docSnap.DataTo(&sub); err != nil {
		return nil, fmt.Errorf("failed to decode subscription data for ID '%s': %w", subID, err)
	}
	sub.ID = docSnap.Ref.ID

	return &sub, nil
}

// List retrieves user subscriptions matching the query, newest first.
func (r *firestoreSubscriptionRepository) List(ctx context.Context, q SubscriptionQuery) ([]*models.UserSubscription, error) {
	query := r.client.Collection(subscriptionsCollection).Query
	if q.UserID != "" {
		query = query.Where("userId", "==", q.UserID)
	}
	if q.PlanID != "" {
		query = query.Where("planId", "==", q.PlanID)
	}
	if q.ActiveOnly != nil {
		query = query.Where("isActive", "==", *q.ActiveOnly)
	}
	query = query.OrderBy("startDate", firestore.Desc)

	iter := query.Documents(ctx)
	defer iter.Stop()

	var subs []*models.UserSubscription
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to iterate subscriptions: %w", err)
		}
		var sub models.UserSubscription
		if err := doc.DataTo(&sub); err != nil {
			log.Printf("Error decoding subscription data (ID: %s): %v. Skipping.", doc.Ref.ID, err)
			continue
		}
		sub.ID = doc.Ref.ID
		subs = append(subs, &sub)
	}

	return subs, nil
}

// Update overwrites an existing subscription document with the given state.
func (r *firestoreSubscriptionRepository) Update(ctx context.Context, sub *models.UserSubscription) error {
	if sub.ID == "" {
		return errors.New("subscription ID cannot be empty for Update operation")
	}
	_, err := r.client.Collection(subscriptionsCollection).Doc(sub.ID).Set(ctx, sub)
	if err != nil {
		return fmt.Errorf("failed to update subscription with ID '%s': %w", sub.ID, err)
	}
	return nil
}

// DeleteByUserID removes every subscription belonging to a user and reports
// how many were deleted. Used when a user is purged; safe to re-run.
func (r *firestoreSubscriptionRepository) DeleteByUserID(ctx context.Context, userID string) (int, error) {
	if userID == "" {
		return 0, errors.New("userID cannot be empty for DeleteByUserID operation")
	}
	iter := r.client.Collection(subscriptionsCollection).Where("userId", "==", userID).Documents(ctx)
	defer iter.Stop()

	deleted := 0
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return deleted, fmt.Errorf("failed to iterate subscriptions for user '%s': %w", userID, err)
		}
		if _, err := doc.Ref.Delete(ctx); err != nil {
			return deleted, fmt.Errorf("failed to delete subscription '%s' for user '%s': %w", doc.Ref.ID, userID, err)
		}
		deleted++
	}

	return deleted, nil
}
