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

const feedbackCollection = "feedback"

// firestoreFeedbackRepository implements the FeedbackRepository interface using Firestore.
type firestoreFeedbackRepository struct {
	client *firestore.Client
}

// NewFirestoreFeedbackRepository creates a new instance of firestoreFeedbackRepository.
func NewFirestoreFeedbackRepository(client *firestore.Client) FeedbackRepository {
	if client == nil {
		log.Fatal("Firestore client is not initialized for FeedbackRepository.")
	}
	return &firestoreFeedbackRepository{client: client}
}

// GetByID retrieves a feedback document by its ID.
func (r *firestoreFeedbackRepository) GetByID(ctx context.Context, feedbackID string) (*models.Feedback, error) {
	if feedbackID == "" {
		return nil, errors.New("feedbackID cannot be empty for GetByID operation")
	}
	docSnap, err := r.client.Collection(feedbackCollection).Doc(feedbackID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, fmt.Errorf("feedback with ID '%s' not found: %w", feedbackID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get feedback with ID '%s': %w", feedbackID, err)
	}

	var fb models.Feedback
	if err := docSnap.DataTo(&fb); err != nil {
		return nil, fmt.Errorf("failed to decode feedback data for ID '%s': %w", feedbackID, err)
	}
	fb.ID = docSnap.Ref.ID

	return &fb, nil
}

// List retrieves feedback, optionally filtered by rating (0 means all),
// newest first.
func (r *firestoreFeedbackRepository) List(ctx context.Context, rating int) ([]*models.Feedback, error) {
	query := r.client.Collection(feedbackCollection).Query
	if rating > 0 {
		query = query.Where("rating", "==", rating)
	}
	query = query.OrderBy("createdAt", firestore.Desc)

	iter := query.Documents(ctx)
	defer iter.Stop()

	var feedback []*models.Feedback
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to iterate feedback: %w", err)
		}
		var fb models.Feedback
		if err := doc.DataTo(&fb); err != nil {
			log.Printf("Error decoding feedback data (ID: %s): %v. Skipping.", doc.Ref.ID, err)
			continue
		}
		fb.ID = doc.Ref.ID
		feedback = append(feedback, &fb)
	}

	return feedback, nil
}

// Delete removes a feedback document permanently.
func (r *firestoreFeedbackRepository) Delete(ctx context.Context, feedbackID string) error {
	if feedbackID == "" {
		return errors.New("feedbackID cannot be empty for Delete operation")
	}
	_, err := r.client.Collection(feedbackCollection).Doc(feedbackID).Delete(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return fmt.Errorf("feedback with ID '%s' not found for deletion: %w", feedbackID, ErrNotFound)
		}
		return fmt.Errorf("failed to delete feedback with ID '%s': %w", feedbackID, err)
	}
	return nil
}

// DeleteByUserID removes every feedback entry belonging to a user and reports
// how many were deleted. Used when a user is purged; safe to re-run.
func (r *firestoreFeedbackRepository) DeleteByUserID(ctx context.Context, userID string) (int, error) {
	if userID == "" {
		return 0, errors.New("userID cannot be empty for DeleteByUserID operation")
	}
	iter := r.client.Collection(feedbackCollection).Where("userId", "==", userID).Documents(ctx)
	defer iter.Stop()

	deleted := 0
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return deleted, fmt.Errorf("failed to iterate feedback for user '%s': %w", userID, err)
		}
		if _, err := doc.Ref.Delete(ctx); err != nil {
			return deleted, fmt.Errorf("failed to delete feedback '%s' for user '%s': %w", doc.Ref.ID, userID, err)
		}
		deleted++
	}

	return deleted, nil
}
