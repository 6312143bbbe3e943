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

const (
	usersCollection       = "users"
	loginHistorySubcoll   = "loginHistory"
	loginHistoryListLimit = 50
)

// firestoreUserRepository implements the UserRepository interface using Firestore.
type firestoreUserRepository struct {
	client *firestore.Client
}

// NewFirestoreUserRepository creates a new instance of firestoreUserRepository.
func NewFirestoreUserRepository(client *firestore.Client) UserRepository {
	if client == nil {
		log.Fatal("Firestore client is not initialized for UserRepository.")
	}
	return &firestoreUserRepository{client: client}
}

// Create adds a new user document with an auto-generated ID.
func (r *firestoreUserRepository) Create(ctx context.Context, user *models.User) (string, error) {
	docRef := r.client.Collection(usersCollection).NewDoc()
	user.ID = docRef.ID
	if _, err := docRef.Create(ctx, user); err != nil {
		return "", fmt.Errorf("failed to create user: %w", err)
	}
	return docRef.ID, nil
}

// GetByID retrieves a user document by its ID.
func (r *firestoreUserRepository) GetByID(ctx context.Context, userID string) (*models.User, error) {
	if userID == "" {
		return nil, errors.New("userID cannot be empty for GetByID operation")
	}
	docSnap, err := r.client.Collection(usersCollection).Doc(userID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, fmt.Errorf("user with ID '%s' not found: %w", userID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get user with ID '%s': %w", userID, err)
	}

	var user models.User
	if err := docSnap.DataTo(&user); err != nil {
		return nil, fmt.Errorf("failed to decode user data for ID '%s': %w", userID, err)
	}
	user.ID = docSnap.Ref.ID

	return &user, nil
}

// GetByEmail retrieves the user with the given email, or ErrNotFound.
func (r *firestoreUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if email == "" {
		return nil, errors.New("email cannot be empty for GetByEmail operation")
	}
	iter := r.client.Collection(usersCollection).Where("email", "==", email).Limit(1).Documents(ctx)
	defer iter.Stop()

	doc, err := iter.Next()
	if err == iterator.Done {
		return nil, fmt.Errorf("user with email '%s' not found: %w", email, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query user by email '%s': %w", email, err)
	}

	var user models.User
	if err := doc.DataTo(&user); err != nil {
		return nil, fmt.Errorf("failed to decode user data for email '%s': %w", email, err)
	}
	user.ID = doc.Ref.ID

	return &user, nil
}

// List retrieves user documents filtered by deletion state, newest first.
func (r *firestoreUserRepository) List(ctx context.Context, filter ListFilter) ([]*models.User, error) {
	query := r.client.Collection(usersCollection).Query
	switch filter {
	case ListActive:
		query = query.Where("isDeleted", "==", false)
	case ListTrashed:
		query = query.Where("isDeleted", "==", true)
	}
	query = query.OrderBy("createdAt", firestore.Desc)

	iter := query.Documents(ctx)
	defer iter.Stop()

	var users []*models.User
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to iterate users: %w", err)
		}
		var user models.User
		if err := doc.DataTo(&user); err != nil {
			log.Printf("Error decoding user data (ID: %s): %v. Skipping.", doc.Ref.ID, err)
			continue
		}
		user.ID = doc.Ref.ID
		users = append(users, &user)
	}

	return users, nil
}

// Update overwrites an existing user document with the given state.
func (r *firestoreUserRepository) Update(ctx context.Context, user *models.User) error {
	if user.ID == "" {
		return errors.New("user ID cannot be empty for Update operation")
	}
	_, err := r.client.Collection(usersCollection).Doc(user.ID).Set(ctx, user)
	if err != nil {
		return fmt.Errorf("failed to update user with ID '%s': %w", user.ID, err)
	}
	return nil
}

// Delete removes a user document permanently. The loginHistory subcollection
// is not removed here; callers must delete it explicitly.
func (r *firestoreUserRepository) Delete(ctx context.Context, userID string) error {
	if userID == "" {
		return errors.New("userID cannot be empty for Delete operation")
	}
	_, err := r.client.Collection(usersCollection).Doc(userID).Delete(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return fmt.Errorf("user with ID '%s' not found for deletion: %w", userID, ErrNotFound)
		}
		return fmt.Errorf("failed to delete user with ID '%s': %w", userID, err)
	}
	return nil
}

// AddLoginHistory appends a sign-in record under users/{id}/loginHistory.
func (r *firestoreUserRepository) AddLoginHistory(ctx context.Context, userID string, entry *models.LoginHistory) error {
	if userID == "" {
		return errors.New("userID cannot be empty for AddLoginHistory operation")
	}
	docRef := r.client.Collection(usersCollection).Doc(userID).Collection(loginHistorySubcoll).NewDoc()
	entry.ID = docRef.ID
	if _, err := docRef.Create(ctx, entry); err != nil {
		return fmt.Errorf("failed to add login history for user '%s': %w", userID, err)
	}
	return nil
}

// ListLoginHistory returns the most recent sign-in records for a user.
func (r *firestoreUserRepository) ListLoginHistory(ctx context.Context, userID string, limit int) ([]*models.LoginHistory, error) {
	if userID == "" {
		return nil, errors.New("userID cannot be empty for ListLoginHistory operation")
	}
	if limit <= 0 {
		limit = loginHistoryListLimit
	}
	iter := r.client.Collection(usersCollection).Doc(userID).Collection(loginHistorySubcoll).
		OrderBy("loginTime", firestore.Desc).Limit(limit).Documents(ctx)
	defer iter.Stop()

	var entries []*models.LoginHistory
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to iterate login history for user '%s': %w", userID, err)
		}
		var entry models.LoginHistory
		if err := doc.DataTo(&entry); err != nil {
			log.Printf("Error decoding login history (ID: %s) for user '%s': %v. Skipping.", doc.Ref.ID, userID, err)
			continue
		}
		entry.ID = doc.Ref.ID
		entries = append(entries, &entry)
	}

	return entries, nil
}

// DeleteLoginHistory removes every document in the loginHistory subcollection
// and reports how many were deleted. Used when a user is purged.
func (r *firestoreUserRepository) DeleteLoginHistory(ctx context.Context, userID string) (int, error) {
	if userID == "" {
		return 0, errors.New("userID cannot be empty for DeleteLoginHistory operation")
	}
	iter := r.client.Collection(usersCollection).Doc(userID).Collection(loginHistorySubcoll).Documents(ctx)
	defer iter.Stop()

	deleted := 0
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return deleted, fmt.Errorf("failed to iterate login history for user '%s': %w", userID, err)
		}
		if _, err := doc.Ref.Delete(ctx); err != nil {
			return deleted, fmt.Errorf("failed to delete login history doc '%s' for user '%s': %w", doc.Ref.ID, userID, err)
		}
		deleted++
	}

	return deleted, nil
}
