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

const countriesCollection = "countries"

// firestoreCountryRepository implements the CountryRepository interface using Firestore.
type firestoreCountryRepository struct {
	client *firestore.Client
}

// NewFirestoreCountryRepository creates a new instance of firestoreCountryRepository.
func NewFirestoreCountryRepository(client *firestore.Client) CountryRepository {
	if client == nil {
		log.Fatal("Firestore client is not initialized for CountryRepository.")
	}
	return &firestoreCountryRepository{client: client}
}

// Create adds a new country document with an auto-generated ID.
func (r *firestoreCountryRepository) Create(ctx context.Context, country *models.Country) (string, error) {
	docRef := r.client.Collection(countriesCollection).NewDoc()
	country.ID = docRef.ID
	if _, err := docRef.Create(ctx, country); err != nil {
		return "", fmt.Errorf("failed to create country: %w", err)
	}
	return docRef.ID, nil
}

// GetByID retrieves a country document by its ID.
func (r *firestoreCountryRepository) GetByID(ctx context.Context, countryID string) (*models.Country, error) {
	if countryID == "" {
		return nil, errors.New("countryID cannot be empty for GetByID operation")
	}
	docSnap, err := r.client.Collection(countriesCollection).Doc(countryID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, fmt.Errorf("country with ID '%s' not found: %w", countryID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get country with ID '%s': %w", countryID, err)
	}

	var country models.Country
	if err := docSnap.DataTo(&country); err != nil {
		return nil, fmt.Errorf("failed to decode country data for ID '%s': %w", countryID, err)
	}
	country.ID = docSnap.Ref.ID

	return &country, nil
}

// List retrieves country documents filtered by deletion state, ordered
// alphabetically by name.
func (r *firestoreCountryRepository) List(ctx context.Context, filter ListFilter) ([]*models.Country, error) {
	query := r.client.Collection(countriesCollection).Query
	switch filter {
	case ListActive:
		query = query.Where("isDeleted", "==", false)
	case ListTrashed:
		query = query.Where("isDeleted", "==", true)
	}
	query = query.OrderBy("name", firestore.Asc)

	iter := query.Documents(ctx)
	defer iter.Stop()

	var countries []*models.Country
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to iterate countries: %w", err)
		}
		var country models.Country
		if err := doc.DataTo(&country); err != nil {
			log.Printf("Error decoding country data (ID: %s): %v. Skipping.", doc.Ref.ID, err)
			continue
		}
		country.ID = doc.Ref.ID
		countries = append(countries, &country)
	}

	return countries, nil
}

// ListByCategoryID retrieves non-deleted countries whose categories array
// contains the given category id. Used by the category usage-check gate.
func (r *firestoreCountryRepository) ListByCategoryID(ctx context.Context, categoryID string) ([]*models.Country, error) {
	if categoryID == "" {
		return nil, errors.New("categoryID cannot be empty for ListByCategoryID operation")
	}
	query := r.client.Collection(countriesCollection).
		Where("isDeleted", "==", false).
		Where("categories", "array-contains", categoryID)

	iter := query.Documents(ctx)
	defer iter.Stop()

	var countries []*models.Country
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to iterate countries for category '%s': %w", categoryID, err)
		}
		var country models.Country
		if err := doc.DataTo(&country); err != nil {
			log.Printf("Error decoding country data (ID: %s): %v. Skipping.", doc.Ref.ID, err)
			continue
		}
		country.ID = doc.Ref.ID
		countries = append(countries, &country)
	}

	return countries, nil
}

// Update overwrites an existing country document with the given state.
func (r *firestoreCountryRepository) Update(ctx context.Context, country *models.Country) error {
	if country.ID == "" {
		return errors.New("country ID cannot be empty for Update operation")
	}
	_, err := r.client.Collection(countriesCollection).Doc(country.ID).Set(ctx, country)
	if err != nil {
		return fmt.Errorf("failed to update country with ID '%s': %w", country.ID, err)
	}
	return nil
}

// Delete removes a country document permanently.
func (r *firestoreCountryRepository) Delete(ctx context.Context, countryID string) error {
	if countryID == "" {
		return errors.New("countryID cannot be empty for Delete operation")
	}
	_, err := r.client.Collection(countriesCollection).Doc(countryID).Delete(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return fmt.Errorf("country with ID '%s' not found for deletion: %w", countryID, ErrNotFound)
		}
		return fmt.Errorf("failed to delete country with ID '%s': %w", countryID, err)
	}
	return nil
}
