package core

import "errors"

// Sentinel errors shared across services. Handlers map these to HTTP statuses.
var (
	ErrUserNotFound         = errors.New("user not found")
	ErrCategoryNotFound     = errors.New("category not found")
	ErrSubcategoryNotFound  = errors.New("subcategory not found")
	ErrCountryNotFound      = errors.New("country not found")
	ErrPromptNotFound       = errors.New("prompt not found")
	ErrPlanNotFound         = errors.New("plan not found")
	ErrSubscriptionNotFound = errors.New("subscription not found")
	ErrGenerationNotFound   = errors.New("generation not found")
	ErrFeedbackNotFound     = errors.New("feedback not found")

	// ErrValidation marks a rejected write; nothing was stored.
	ErrValidation = errors.New("validation failed")

	// ErrConfirmationMismatch is returned when the type-to-confirm text does
	// not byte-equal the category's current name.
	ErrConfirmationMismatch = errors.New("confirmation name does not match")

	// ErrAlreadyTrashed / ErrNotTrashed guard the lifecycle state machine:
	// Active -> Trashed -> (Active | Gone). There is no Active -> Gone edge.
	ErrAlreadyTrashed = errors.New("entity is already in trash")
	ErrNotTrashed     = errors.New("entity is not in trash")

	// Authentication failures.
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNotAdmin           = errors.New("user is not an admin")
)
