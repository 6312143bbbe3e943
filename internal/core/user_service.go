package core

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"promptadmin-backend-go/internal/db"
	"promptadmin-backend-go/internal/models"
	"promptadmin-backend-go/internal/storage"
)

// userService implements the UserService interface.
type userService struct {
	userRepo     db.UserRepository
	subRepo      db.SubscriptionRepository
	genRepo      db.GenerationRepository
	feedbackRepo db.FeedbackRepository
	objectStore  storage.ObjectStore
	auditService AuditService
}

// NewUserService creates a new UserService instance. The subscription,
// generation and feedback repositories plus the object store are needed for
// the purge cascade.
func NewUserService(
	userRepo db.UserRepository,
	subRepo db.SubscriptionRepository,
	genRepo db.GenerationRepository,
	feedbackRepo db.FeedbackRepository,
	objectStore storage.ObjectStore,
	auditService AuditService,
) UserService {
	return &userService{
		userRepo:     userRepo,
		subRepo:      subRepo,
		genRepo:      genRepo,
		feedbackRepo: feedbackRepo,
		objectStore:  objectStore,
		auditService: auditService,
	}
}

// Create adds a user account. A password is required when, and only
// meaningful when, the requested role is admin; it is stored as a bcrypt hash.
func (s *userService) Create(ctx context.Context, actorID string, req models.CreateUserRequest) (*models.User, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if _, err := s.userRepo.GetByEmail(ctx, email); err == nil {
		return nil, fmt.Errorf("%w: email '%s' is already registered", ErrValidation, email)
	} else if !errors.Is(err, db.ErrNotFound) {
		return nil, fmt.Errorf("failed to check email uniqueness: %w", err)
	}

	provider := req.Provider
	if provider == "" {
		provider = models.ProviderManual
	}

	newUser := &models.User{
		Name:      req.Name,
		Email:     email,
		Role:      req.Role,
		Provider:  provider,
		Language:  req.Language,
		PhotoURL:  req.PhotoURL,
		CreatedAt: time.Now().UTC(),
	}

	if req.Role == models.RoleAdmin {
		if req.Password == "" {
			return nil, fmt.Errorf("%w: password is required for admin accounts", ErrValidation)
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		newUser.PasswordHash = string(hash)
	}

	if _, err := s.userRepo.Create(ctx, newUser); err != nil {
		return nil, fmt.Errorf("failed to create user in repository: %w", err)
	}

	s.audit(ctx, actorID, "USER_CREATE", newUser.ID, map[string]interface{}{"email": newUser.Email, "role": newUser.Role})
	return newUser, nil
}

// GetByID retrieves a user by their ID.
func (s *userService) GetByID(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, fmt.Errorf("%w: user with ID '%s'", ErrUserNotFound, userID)
		}
		return nil, fmt.Errorf("failed to get user by ID '%s' from repository: %w", userID, err)
	}
	return user, nil
}

// List retrieves users filtered by deletion state.
func (s *userService) List(ctx context.Context, filter db.ListFilter) ([]*models.User, error) {
	users, err := s.userRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// Update applies the provided fields to a user.
func (s *userService) Update(ctx context.Context, actorID, userID string, req models.UpdateUserRequest) (*models.User, error) {
	user, err := s.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.Language != nil {
		user.Language = *req.Language
	}
	if req.PhotoURL != nil {
		user.PhotoURL = *req.PhotoURL
	}
	if req.Role != nil {
		if *req.Role != models.RoleAdmin && *req.Role != models.RoleUser {
			return nil, fmt.Errorf("%w: role must be 'admin' or 'user'", ErrValidation)
		}
		user.Role = *req.Role
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update user '%s': %w", userID, err)
	}

	s.audit(ctx, actorID, "USER_UPDATE", userID, nil)
	return user, nil
}

// SoftDelete moves an active user into the trash.
func (s *userService) SoftDelete(ctx context.Context, actorID, userID string) error {
	user, err := s.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if user.IsDeleted {
		return fmt.Errorf("%w: user '%s'", ErrAlreadyTrashed, userID)
	}

	now := time.Now().UTC()
	user.IsDeleted = true
	user.DeletedBy = actorID
	user.DeletedAt = &now
	if err := s.userRepo.Update(ctx, user); err != nil {
		return fmt.Errorf("failed to soft delete user '%s': %w", userID, err)
	}

	s.audit(ctx, actorID, "USER_DELETE", userID, nil)
	return nil
}

// Restore moves a trashed user back to the active state, clearing the
// deletion audit fields (deletion history lives in the audit log).
func (s *userService) Restore(ctx context.Context, actorID, userID string) error {
	user, err := s.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if !user.IsDeleted {
		return fmt.Errorf("%w: user '%s'", ErrNotTrashed, userID)
	}

	user.IsDeleted = false
	user.DeletedBy = ""
	user.DeletedAt = nil
	if err := s.userRepo.Update(ctx, user); err != nil {
		return fmt.Errorf("failed to restore user '%s': %w", userID, err)
	}

	s.audit(ctx, actorID, "USER_RESTORE", userID, nil)
	return nil
}

// Purge permanently deletes a trashed user and every dependent record:
// subscriptions, generations (with best-effort image cleanup), feedback,
// login history, then the user document itself. Each completed sub-step is
// appended to the returned list; on failure the completed steps are returned
// alongside the error. Every sub-step is a delete-by-query, so a re-run after
// a partial failure converges.
func (s *userService) Purge(ctx context.Context, actorID, userID string) ([]PurgeStep, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, fmt.Errorf("%w: user with ID '%s'", ErrUserNotFound, userID)
		}
		return nil, fmt.Errorf("failed to get user '%s' for purge: %w", userID, err)
	}
	if !user.IsDeleted {
		return nil, fmt.Errorf("%w: user '%s' must be trashed before permanent deletion", ErrNotTrashed, userID)
	}

	var steps []PurgeStep
	record := func(format string, args ...interface{}) {
		steps = append(steps, PurgeStep{
			Message:   fmt.Sprintf(format, args...),
			Timestamp: time.Now().UTC(),
		})
	}

	subsDeleted, err := s.subRepo.DeleteByUserID(ctx, userID)
	if err != nil {
		return steps, fmt.Errorf("failed to delete subscriptions for user '%s': %w", userID, err)
	}
	record("Deleted %d subscription(s)", subsDeleted)

	imageURLs, err := s.genRepo.DeleteByUserID(ctx, userID)
	if err != nil {
		return steps, fmt.Errorf("failed to delete generations for user '%s': %w", userID, err)
	}
	record("Deleted %d generation record(s)", len(imageURLs))

	cleaned := 0
	for _, rawURL := range imageURLs {
		if s.objectStore == nil {
			break
		}
		if err := s.objectStore.DeleteByURL(ctx, rawURL); err != nil {
			// Asset cleanup is best-effort; an orphaned object is acceptable.
			log.Printf("Warning: failed to delete generated image '%s' for user '%s': %v", rawURL, userID, err)
			continue
		}
		cleaned++
	}
	record("Removed %d stored image(s)", cleaned)

	feedbackDeleted, err := s.feedbackRepo.DeleteByUserID(ctx, userID)
	if err != nil {
		return steps, fmt.Errorf("failed to delete feedback for user '%s': %w", userID, err)
	}
	record("Deleted %d feedback record(s)", feedbackDeleted)

	historyDeleted, err := s.userRepo.DeleteLoginHistory(ctx, userID)
	if err != nil {
		return steps, fmt.Errorf("failed to delete login history for user '%s': %w", userID, err)
	}
	record("Deleted %d login history record(s)", historyDeleted)

	if err := s.userRepo.Delete(ctx, userID); err != nil {
		return steps, fmt.Errorf("failed to delete user document '%s': %w", userID, err)
	}
	record("Deleted user account %s", user.Email)

	s.audit(ctx, actorID, "USER_PURGE", userID, map[string]interface{}{"email": user.Email})
	return steps, nil
}

// LoginHistory returns the most recent sign-ins for a user.
func (s *userService) LoginHistory(ctx context.Context, userID string, limit int) ([]*models.LoginHistory, error) {
	if _, err := s.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	entries, err := s.userRepo.ListLoginHistory(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list login history for user '%s': %w", userID, err)
	}
	return entries, nil
}

func (s *userService) audit(ctx context.Context, actorID, action, targetID string, details map[string]interface{}) {
	if s.auditService == nil {
		return
	}
	entry := models.AuditLog{
		UserID:     actorID,
		Action:     action,
		TargetType: "USER",
		TargetID:   targetID,
		Timestamp:  time.Now().UTC(),
		Details:    details,
	}
	if err := s.auditService.CreateAuditLog(ctx, entry); err != nil {
		log.Printf("Warning: failed to create audit log for %s (targetID: %s): %v", action, targetID, err)
	}
}
