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

const categoriesCollection = "categories"

// firestoreCategoryRepository implements the CategoryRepository interface
// using Firestore. Subcategories live inside the category document, so there
// are no subcategory-level operations here; the service mutates the embedded
// slice and calls Update.
type firestoreCategoryRepository struct {
	client *firestore.Client
}

// NewFirestoreCategoryRepository creates a new instance of firestoreCategoryRepository.
func NewFirestoreCategoryRepository(client *firestore.Client) CategoryRepository {
	if client == nil {
		log.Fatal("Firestore client is not initialized for CategoryRepository.")
	}
	return &firestoreCategoryRepository{client: client}
}

// Create adds a new category document with an auto-generated ID.
func (r *firestoreCategoryRepository) Create(ctx context.Context, category *models.Category) (string, error) {
	docRef := r.client.Collection(categoriesCollection).NewDoc()
	category.ID = docRef.ID
	if _, err := docRef.Create(ctx, category); err != nil {
		return "", fmt.Errorf("failed to create category: %w", err)
	}
	return docRef.ID, nil
}

// GetByID retrieves a category document by its ID.
func (r *firestoreCategoryRepository) GetByID(ctx context.Context, categoryID string) (*models.Category, error) {
	if categoryID == "" {
		return nil, errors.New("categoryID cannot be empty for GetByID operation")
	}
	docSnap, err := r.client.Collection(categoriesCollection).Doc(categoryID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, fmt.Errorf("category with ID '%s' not found: %w", categoryID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get category with ID '%s': %w", categoryID, err)
	}

	var category models.Category
	if err := docSnap.DataTo(&category); err != nil {
		return nil, fmt.Errorf("failed to decode category data for ID '%s': %w", categoryID, err)
	}
	category.ID = docSnap.Ref.ID

	return &category, nil
}

// List retrieves category documents filtered by deletion state, ordered by the
// operator-managed order field.
func (r *firestoreCategoryRepository) List(ctx context.Context, filter ListFilter) ([]*models.Category, error) {
	query := r.client.Collection(categoriesCollection).Query
	switch filter {
	case ListActive:
		query = query.Where("isDeleted", "==", false)
	case ListTrashed:
		query = query.Where("isDeleted", "==", true)
	}
	query = query.OrderBy("order", firestore.Asc)

	iter := query.Documents(ctx)
	defer iter.Stop()

	var categories []*models.Category
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to iterate categories: %w", err)
		}
		var category models.Category
		if err := doc.DataTo(&category); err != nil {
			log.Printf("Error decoding category data (ID: %s): %v. Skipping.", doc.Ref.ID, err)
			continue
		}
		category.ID = doc.Ref.ID
		categories = append(categories, &category)
	}

	return categories, nil
}

// Update overwrites an existing category document, embedded subcategories
// included.
func (r *firestoreCategoryRepository) Update(ctx context.Context, category *models.Category) error {
	if category.ID == "" {
		return errors.New("category ID cannot be empty for Update operation")
	}
	_, err := r.client.Collection(categoriesCollection).Doc(category.ID).Set(ctx, category)
	if err != nil {
		return fmt.Errorf("failed to update category with ID '%s': %w", category.ID, err)
	}
	return nil
}

// Delete removes a category document permanently.
func (r *firestoreCategoryRepository) Delete(ctx context.Context, categoryID string) error {
	if categoryID == "" {
		return errors.New("categoryID cannot be empty for Delete operation")
	}
	_, err := r.client.Collection(categoriesCollection).Doc(categoryID).Delete(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return fmt.Errorf("category with ID '%s' not found for deletion: %w", categoryID, ErrNotFound)
		}
		return fmt.Errorf("failed to delete category with ID '%s': %w", categoryID, err)
	}
	return nil
}
