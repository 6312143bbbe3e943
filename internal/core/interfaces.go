package core

import (
	"context"
	"time"

	"promptadmin-backend-go/internal/db"
	"promptadmin-backend-go/internal/models"
)

// LoginResult is what a successful credential check yields: the admin's
// profile (with the just-written lastLogin) and a signed session token.
type LoginResult struct {
	User  *models.User `json:"user"`
	Token string       `json:"token"`
}

// AuthService handles admin credential checks and session verification.
type AuthService interface {
	// Login verifies credentials and, for admins only, issues a session token
	// and records the sign-in. deviceID/deviceInfo feed the login history.
	Login(ctx context.Context, email, password, deviceID string, deviceInfo map[string]string) (*LoginResult, error)
	// VerifySession re-derives identity from a raw token: signature check,
	// user re-read, stored-role re-check.
	VerifySession(ctx context.Context, rawToken string) (*models.User, error)
}

// PurgeStep is one completed sub-step of a bulk permanent delete, reported to
// the operator in order.
type PurgeStep struct {
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// UserService defines the interface for user administration.
type UserService interface {
	Create(ctx context.Context, actorID string, req models.CreateUserRequest) (*models.User, error)
	GetByID(ctx context.Context, userID string) (*models.User, error)
	List(ctx context.Context, filter db.ListFilter) ([]*models.User, error)
	Update(ctx context.Context, actorID, userID string, req models.UpdateUserRequest) (*models.User, error)
	SoftDelete(ctx context.Context, actorID, userID string) error
	Restore(ctx context.Context, actorID, userID string) error
	// Purge permanently deletes a trashed user and every dependent record,
	// returning the completed steps even when a later step failed.
	Purge(ctx context.Context, actorID, userID string) ([]PurgeStep, error)
	LoginHistory(ctx context.Context, userID string, limit int) ([]*models.LoginHistory, error)
}

// CategoryService defines the interface for category and subcategory
// administration, including the cascade and usage-check rules.
type CategoryService interface {
	Create(ctx context.Context, actorID string, req models.CreateCategoryRequest) (*models.Category, error)
	GetByID(ctx context.Context, categoryID string) (*models.Category, error)
	List(ctx context.Context, filter db.ListFilter) ([]*models.Category, error)
	Update(ctx context.Context, actorID, categoryID string, req models.UpdateCategoryRequest) (*models.Category, error)
	// Usage reports prompts and countries referencing the category, shown to
	// the operator before a delete is allowed.
	Usage(ctx context.Context, categoryID string) (*models.CategoryUsage, error)
	// SoftDelete trashes the category and cascades to every embedded
	// subcategory. confirmName must byte-equal the category's current name.
	SoftDelete(ctx context.Context, actorID, categoryID, confirmName string) error
	// Restore untrashes the category only; subcategories stay as they are and
	// must be restored individually.
	Restore(ctx context.Context, actorID, categoryID string) error
	PermanentDelete(ctx context.Context, actorID, categoryID, confirmName string) error

	AddSubcategory(ctx context.Context, actorID, categoryID string, req models.CreateSubcategoryRequest) (*models.Category, error)
	UpdateSubcategory(ctx context.Context, actorID, categoryID, subcategoryID string, req models.UpdateSubcategoryRequest) (*models.Category, error)
	SoftDeleteSubcategory(ctx context.Context, actorID, categoryID, subcategoryID string) error
	RestoreSubcategory(ctx context.Context, actorID, categoryID, subcategoryID string) error
	RemoveSubcategory(ctx context.Context, actorID, categoryID, subcategoryID string) error
	// OrphanedSubcategories lists subcategories whose deletion state differs
	// from their parent's, across all categories.
	OrphanedSubcategories(ctx context.Context) ([]models.OrphanedSubcategory, error)
}

// CountryService defines the interface for country administration.
type CountryService interface {
	Create(ctx context.Context, actorID string, req models.CreateCountryRequest) (*models.Country, error)
	GetByID(ctx context.Context, countryID string) (*models.Country, error)
	List(ctx context.Context, filter db.ListFilter) ([]*models.Country, error)
	Update(ctx context.Context, actorID, countryID string, req models.UpdateCountryRequest) (*models.Country, error)
	AddCategory(ctx context.Context, actorID, countryID, categoryID string) (*models.Country, error)
	RemoveCategory(ctx context.Context, actorID, countryID, categoryID string) (*models.Country, error)
	SoftDelete(ctx context.Context, actorID, countryID string) error
	Restore(ctx context.Context, actorID, countryID string) error
	PermanentDelete(ctx context.Context, actorID, countryID string) error
}

// PromptService defines the interface for prompt administration, including
// CSV import and CSV/JSON export.
type PromptService interface {
	Create(ctx context.Context, actorID string, req models.CreatePromptRequest) (*models.Prompt, error)
	GetByID(ctx context.Context, promptID string) (*models.Prompt, error)
	List(ctx context.Context, q db.PromptQuery) ([]*models.Prompt, error)
	Update(ctx context.Context, actorID, promptID string, req models.UpdatePromptRequest) (*models.Prompt, error)
	SoftDelete(ctx context.Context, actorID, promptID string) error
	Restore(ctx context.Context, actorID, promptID string) error
	// PermanentDelete removes the document and best-effort deletes the stored
	// preview image; image cleanup failures are logged, not rolled back.
	PermanentDelete(ctx context.Context, actorID, promptID string) error
	Import(ctx context.Context, actorID string, csvData []byte) (*ImportResult, error)
	Export(ctx context.Context, format string) (*ExportFile, error)
}

// PlanService defines the interface for subscription plan administration.
type PlanService interface {
	Create(ctx context.Context, actorID string, req models.CreatePlanRequest) (*models.SubscriptionPlan, error)
	GetByID(ctx context.Context, planID string) (*models.SubscriptionPlan, error)
	List(ctx context.Context) ([]*models.SubscriptionPlan, error)
	Update(ctx context.Context, actorID, planID string, req models.UpdatePlanRequest) (*models.SubscriptionPlan, error)
	Delete(ctx context.Context, actorID, planID string) error
}

// SubscriptionView decorates a stored subscription with its derived expiry.
type SubscriptionView struct {
	models.UserSubscription
	Expired bool `json:"expired"`
}

// SubscriptionService defines the interface for user subscription administration.
type SubscriptionService interface {
	Create(ctx context.Context, actorID string, req models.CreateSubscriptionRequest) (*SubscriptionView, error)
	GetByID(ctx context.Context, subID string) (*SubscriptionView, error)
	List(ctx context.Context, q db.SubscriptionQuery) ([]*SubscriptionView, error)
	Cancel(ctx context.Context, actorID, subID string) (*SubscriptionView, error)
}

// GenerationService exposes the read-only generations view.
type GenerationService interface {
	GetByID(ctx context.Context, genID string) (*models.UserGeneration, error)
	List(ctx context.Context, userID, status string) ([]*models.UserGeneration, error)
}

// FeedbackService defines the interface for feedback administration.
type FeedbackService interface {
	GetByID(ctx context.Context, feedbackID string) (*models.Feedback, error)
	List(ctx context.Context, rating int) ([]*models.Feedback, error)
	Delete(ctx context.Context, actorID, feedbackID string) error
}

// AuditService defines the interface for audit logging operations.
type AuditService interface {
	CreateAuditLog(ctx context.Context, logEntry models.AuditLog) error
}
