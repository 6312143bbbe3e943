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

const generationsCollection = "user_generations"

// firestoreGenerationRepository implements the GenerationRepository interface
// using Firestore.
type firestoreGenerationRepository struct {
	client *firestore.Client
}

// NewFirestoreGenerationRepository creates a new instance of firestoreGenerationRepository.
func NewFirestoreGenerationRepository(client *firestore.Client) GenerationRepository {
	if client == nil {
		log.Fatal("Firestore client is not initialized for GenerationRepository.")
	}
	return &firestoreGenerationRepository{client: client}
}

// GetByID retrieves a generation document by its ID.
func (r *firestoreGenerationRepository) GetByID(ctx context.Context, genID string) (*models.UserGeneration, error) {
	if genID == "" {
		return nil, errors.New("genID cannot be empty for GetByID operation")
	}
	docSnap, err := r.client.Collection(generationsCollection).Doc(genID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, fmt.Errorf("generation with ID '%s' not found: %w", genID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get generation with ID '%s': %w", genID, err)
	}

	var gen models.UserGeneration
	if err := docSnap.DataTo(&gen); err != nil {
		return nil, fmt.Errorf("failed to decode generation data for ID '%s': %w", genID, err)
	}
	gen.ID = docSnap.Ref.ID

	return &gen, nil
}

// List retrieves generations, optionally filtered by user and status, newest first.
func (r *firestoreGenerationRepository) List(ctx context.Context, userID, genStatus string) ([]*models.UserGeneration, error) {
	query := r.client.Collection(generationsCollection).Query
	if userID != "" {
		query = query.Where("userId", "==", userID)
	}
	if genStatus != "" {
		query = query.Where("generationStatus", "==", genStatus)
	}
	query = query.OrderBy("createdAt", firestore.Desc)

	iter := query.Documents(ctx)
	defer iter.Stop()

	var gens []*models.UserGeneration
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to iterate generations: %w", err)
		}
		var gen models.UserGeneration
		if err := doc.DataTo(&gen); err != nil {
			log.Printf("Error decoding generation data (ID: %s): %v. Skipping.", doc.Ref.ID, err)
			continue
		}
		gen.ID = doc.Ref.ID
		gens = append(gens, &gen)
	}

	return gens, nil
}

// DeleteByUserID removes every generation belonging to a user and returns the
// image URLs of the removed documents so callers can clean up stored assets.
// Used when a user is purged; safe to re-run.
func (r *firestoreGenerationRepository) DeleteByUserID(ctx context.Context, userID string) ([]string, error) {
	if userID == "" {
		return nil, errors.New("userID cannot be empty for DeleteByUserID operation")
	}
	iter := r.client.Collection(generationsCollection).Where("userId", "==", userID).Documents(ctx)
	defer iter.Stop()

	var imageURLs []string
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return imageURLs, fmt.Errorf("failed to iterate generations for user '%s': %w", userID, err)
		}
		var gen models.UserGeneration
		if err := doc.DataTo(&gen); err != nil {
			log.Printf("Error decoding generation data (ID: %s): %v. Deleting anyway.", doc.Ref.ID, err)
		} else if gen.ImageURL != "" {
			imageURLs = append(imageURLs, gen.ImageURL)
		}
		if _, err := doc.Ref.Delete(ctx); err != nil {
			return imageURLs, fmt.Errorf("failed to delete generation '%s' for user '%s': %w", doc.Ref.ID, userID, err)
		}
	}

	return imageURLs, nil
}
