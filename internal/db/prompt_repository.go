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

const promptsCollection = "prompts"

// firestorePromptRepository implements the PromptRepository interface using Firestore.
type firestorePromptRepository struct {
	client *firestore.Client
}

// NewFirestorePromptRepository creates a new instance of firestorePromptRepository.
func NewFirestorePromptRepository(client *firestore.Client) PromptRepository {
	if client == nil {
		log.Fatal("Firestore client is not initialized for PromptRepository.")
	}
	return &firestorePromptRepository{client: client}
}

// Create adds a new prompt document with an auto-generated ID.
func (r *firestorePromptRepository) Create(ctx context.Context, prompt *models.Prompt) (string, error) {
	docRef := r.client.Collection(promptsCollection).NewDoc()
	prompt.ID = docRef.ID
	if _, err := docRef.Create(ctx, prompt); err != nil {
		return "", fmt.Errorf("failed to create prompt: %w", err)
	}
	return docRef.ID, nil
}

// GetByID retrieves a prompt document by its ID.
func (r *firestorePromptRepository) GetByID(ctx context.Context, promptID string) (*models.Prompt, error) {
	if promptID == "" {
		return nil, errors.New("promptID cannot be empty for GetByID operation")
	}
	docSnap, err := r.client.Collection(promptsCollection).Doc(promptID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, fmt.Errorf("prompt with ID '%s' not found: %w", promptID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get prompt with ID '%s': %w", promptID, err)
	}

	var prompt models.Prompt
	if err := docSnap.DataTo(&prompt); err != nil {
		return nil, fmt.Errorf("failed to decode prompt data for ID '%s': %w", promptID, err)
	}
	prompt.ID = docSnap.Ref.ID

	return &prompt, nil
}

// List retrieves prompt documents matching the query, newest first.
func (r *firestorePromptRepository) List(ctx context.Context, q PromptQuery) ([]*models.Prompt, error) {
	query := r.client.Collection(promptsCollection).Query
	switch q.Filter {
	case ListActive:
		query = query.Where("isDeleted", "==", false)
	case ListTrashed:
		query = query.Where("isDeleted", "==", true)
	}
	if q.CategoryID != "" {
		query = query.Where("categoryId", "==", q.CategoryID)
	}
	if q.SubCategoryID != "" {
		query = query.Where("subCategoryId", "==", q.SubCategoryID)
	}
	if q.TrendingOnly {
		query = query.Where("isTrending", "==", true)
	}
	query = query.OrderBy("createdAt", firestore.Desc)

	iter := query.Documents(ctx)
	defer iter.Stop()

	var prompts []*models.Prompt
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to iterate prompts: %w", err)
		}
		var prompt models.Prompt
		if err := doc.DataTo(&prompt); err != nil {
			log.Printf("Error decoding prompt data (ID: %s): %v. Skipping.", doc.Ref.ID, err)
			continue
		}
		prompt.ID = doc.Ref.ID
		prompts = append(prompts, &prompt)
	}

	return prompts, nil
}

// CountByCategoryID counts non-deleted prompts referencing a category. Feeds
// the category usage-check gate.
func (r *firestorePromptRepository) CountByCategoryID(ctx context.Context, categoryID string) (int, error) {
	if categoryID == "" {
		return 0, errors.New("categoryID cannot be empty for CountByCategoryID operation")
	}
	query := r.client.Collection(promptsCollection).
		Where("isDeleted", "==", false).
		Where("categoryId", "==", categoryID)

	iter := query.Documents(ctx)
	defer iter.Stop()

	count := 0
	for {
		_, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return 0, fmt.Errorf("failed to count prompts for category '%s': %w", categoryID, err)
		}
		count++
	}

	return count, nil
}

// Update overwrites an existing prompt document with the given state.
func (r *firestorePromptRepository) Update(ctx context.Context, prompt *models.Prompt) error {
	if prompt.ID == "" {
		return errors.New("prompt ID cannot be empty for Update operation")
	}
	_, err := r.client.Collection(promptsCollection).Doc(prompt.ID).Set(ctx, prompt)
	if err != nil {
		return fmt.Errorf("failed to update prompt with ID '%s': %w", prompt.ID, err)
	}
	return nil
}

// Delete removes a prompt document permanently.
func (r *firestorePromptRepository) Delete(ctx context.Context, promptID string) error {
	if promptID == "" {
		return errors.New("promptID cannot be empty for Delete operation")
	}
	_, err := r.client.Collection(promptsCollection).Doc(promptID).Delete(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return fmt.Errorf("prompt with ID '%s' not found for deletion: %w", promptID, ErrNotFound)
		}
		return fmt.Errorf("failed to delete prompt with ID '%s': %w", promptID, err)
	}
	return nil
}
