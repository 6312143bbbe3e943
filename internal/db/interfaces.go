package db

import (
	"context"

	"promptadmin-backend-go/internal/models"
)

// ListFilter narrows a collection listing to active documents, trashed
// documents, or both.
type ListFilter int

const (
	ListActive ListFilter = iota // isDeleted == false
	ListTrashed                  // isDeleted == true
	ListAll                      // no deletion filter
)

// UserRepository defines the interface for user document storage.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) (string, error) // returns new document ID
	GetByID(ctx context.Context, userID string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	List(ctx context.Context, filter ListFilter) ([]*models.User, error)
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, userID string) error
	AddLoginHistory(ctx context.Context, userID string, entry *models.LoginHistory) error
	ListLoginHistory(ctx context.Context, userID string, limit int) ([]*models.LoginHistory, error)
	DeleteLoginHistory(ctx context.Context, userID string) (int, error) // returns documents removed
}

// CategoryRepository defines the interface for category document storage.
// Subcategories are embedded in the category document, so subcategory writes
// go through Update on the parent.
type CategoryRepository interface {
	Create(ctx context.Context, category *models.Category) (string, error)
	GetByID(ctx context.Context, categoryID string) (*models.Category, error)
	List(ctx context.Context, filter ListFilter) ([]*models.Category, error)
	Update(ctx context.Context, category *models.Category) error
	Delete(ctx context.Context, categoryID string) error
}

// CountryRepository defines the interface for country document storage.
type CountryRepository interface {
	Create(ctx context.Context, country *models.Country) (string, error)
	GetByID(ctx context.Context, countryID string) (*models.Country, error)
	List(ctx context.Context, filter ListFilter) ([]*models.Country, error)
	ListByCategoryID(ctx context.Context, categoryID string) ([]*models.Country, error)
	Update(ctx context.Context, country *models.Country) error
	Delete(ctx context.Context, countryID string) error
}

// PromptQuery narrows a prompt listing.
type PromptQuery struct {
	Filter        ListFilter
	CategoryID    string
	SubCategoryID string
	TrendingOnly  bool
}

// PromptRepository defines the interface for prompt document storage.
type PromptRepository interface {
	Create(ctx context.Context, prompt *models.Prompt) (string, error)
	GetByID(ctx context.Context, promptID string) (*models.Prompt, error)
	List(ctx context.Context, q PromptQuery) ([]*models.Prompt, error)
	CountByCategoryID(ctx context.Context, categoryID string) (int, error) // non-deleted prompts only
	Update(ctx context.Context, prompt *models.Prompt) error
	Delete(ctx context.Context, promptID string) error
}

// PlanRepository defines the interface for subscription plan storage.
type PlanRepository interface {
	Create(ctx context.Context, plan *models.SubscriptionPlan) (string, error)
	GetByID(ctx context.Context, planID string) (*models.SubscriptionPlan, error)
	List(ctx context.Context) ([]*models.SubscriptionPlan, error)
	Update(ctx context.Context, plan *models.SubscriptionPlan) error
	Delete(ctx context.Context, planID string) error
}

// SubscriptionQuery narrows a user-subscription listing. Nil ActiveOnly means
// no IsActive filter.
type SubscriptionQuery struct {
	UserID     string
	PlanID     string
	ActiveOnly *bool
}

// SubscriptionRepository defines the interface for user subscription storage.
type SubscriptionRepository interface {
	Create(ctx context.Context, sub *models.UserSubscription) (string, error)
	GetByID(ctx context.Context, subID string) (*models.UserSubscription, error)
	List(ctx context.Context, q SubscriptionQuery) ([]*models.UserSubscription, error)
	Update(ctx context.Context, sub *models.UserSubscription) error
	DeleteByUserID(ctx context.Context, userID string) (int, error) // returns documents removed
}

// GenerationRepository defines the interface for user generation storage. The
// admin surface never creates generations.
type GenerationRepository interface {
	GetByID(ctx context.Context, genID string) (*models.UserGeneration, error)
	List(ctx context.Context, userID, status string) ([]*models.UserGeneration, error)
	DeleteByUserID(ctx context.Context, userID string) ([]string, error) // returns image URLs of removed docs
}

// FeedbackRepository defines the interface for feedback storage.
type FeedbackRepository interface {
	GetByID(ctx context.Context, feedbackID string) (*models.Feedback, error)
	List(ctx context.Context, rating int) ([]*models.Feedback, error) // rating 0 lists all
	Delete(ctx context.Context, feedbackID string) error
	DeleteByUserID(ctx context.Context, userID string) (int, error)
}

// AuditRepository defines the interface for audit log storage.
type AuditRepository interface {
	Create(ctx context.Context, logEntry models.AuditLog) error
}
