package models

import "time"

// LoginRequest is the body for POST /api/auth/login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// CreateUserRequest is the body for POST /api/users. Password is required only
// when Role is "admin"; the service enforces that rule.
type CreateUserRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Role     string `json:"role" binding:"required,oneof=admin user"`
	Provider string `json:"provider,omitempty"`
	Language string `json:"language,omitempty"`
	PhotoURL string `json:"photoURL,omitempty"`
	Password string `json:"password,omitempty"`
}

// UpdateUserRequest uses pointers so absent fields are left untouched.
type UpdateUserRequest struct {
	Name     *string `json:"name,omitempty"`
	Language *string `json:"language,omitempty"`
	PhotoURL *string `json:"photoURL,omitempty"`
	Role     *string `json:"role,omitempty"`
}

// CreateCategoryRequest is the body for POST /api/categories.
type CreateCategoryRequest struct {
	Name      string `json:"name" binding:"required"`
	IconImage string `json:"iconImage,omitempty"`
	Order     int    `json:"order"`
}

// UpdateCategoryRequest uses pointers so absent fields are left untouched.
type UpdateCategoryRequest struct {
	Name      *string `json:"name,omitempty"`
	IconImage *string `json:"iconImage,omitempty"`
	Order     *int    `json:"order,omitempty"`
}

// DeleteCategoryRequest carries the type-to-confirm gate. ConfirmName must
// byte-equal the category's current name.
type DeleteCategoryRequest struct {
	ConfirmName string `json:"confirmName" binding:"required"`
}

// CreateSubcategoryRequest is the body for POST /api/categories/:id/subcategories.
type CreateSubcategoryRequest struct {
	Name  string `json:"name" binding:"required"`
	Order int    `json:"order"`
}

// UpdateSubcategoryRequest uses pointers so absent fields are left untouched.
type UpdateSubcategoryRequest struct {
	Name  *string `json:"name,omitempty"`
	Order *int    `json:"order,omitempty"`
}

// CreateCountryRequest is the body for POST /api/countries.
type CreateCountryRequest struct {
	Name       string   `json:"name" binding:"required"`
	ISOCode    string   `json:"isoCode" binding:"required"`
	Categories []string `json:"categories,omitempty"`
}

// UpdateCountryRequest uses pointers so absent fields are left untouched.
type UpdateCountryRequest struct {
	Name       *string   `json:"name,omitempty"`
	ISOCode    *string   `json:"isoCode,omitempty"`
	Categories *[]string `json:"categories,omitempty"`
}

// CreatePromptRequest is the body for POST /api/prompts.
type CreatePromptRequest struct {
	Title            string   `json:"title" binding:"required"`
	Prompt           string   `json:"prompt" binding:"required"`
	CategoryID       string   `json:"categoryId" binding:"required"`
	SubCategoryID    string   `json:"subCategoryId,omitempty"`
	URL              string   `json:"url,omitempty"`
	ImageRequirement int      `json:"imageRequirement"`
	Tags             []string `json:"tags,omitempty"`
	IsTrending       bool     `json:"isTrending"`
}

// UpdatePromptRequest uses pointers so absent fields are left untouched.
type UpdatePromptRequest struct {
	Title            *string   `json:"title,omitempty"`
	Prompt           *string   `json:"prompt,omitempty"`
	CategoryID       *string   `json:"categoryId,omitempty"`
	SubCategoryID    *string   `json:"subCategoryId,omitempty"`
	URL              *string   `json:"url,omitempty"`
	ImageRequirement *int      `json:"imageRequirement,omitempty"`
	Tags             *[]string `json:"tags,omitempty"`
	IsTrending       *bool     `json:"isTrending,omitempty"`
}

// CreatePlanRequest is the body for POST /api/plans.
type CreatePlanRequest struct {
	Name            string   `json:"name" binding:"required"`
	Price           float64  `json:"price"`
	Currency        string   `json:"currency" binding:"required"`
	DurationDays    int      `json:"durationDays" binding:"required,gt=0"`
	GenerationLimit int      `json:"generationLimit"`
	Features        []string `json:"features,omitempty"`
	IsActive        bool     `json:"isActive"`
	Order           int      `json:"order"`
}

// UpdatePlanRequest uses pointers so absent fields are left untouched.
type UpdatePlanRequest struct {
	Name            *string   `json:"name,omitempty"`
	Price           *float64  `json:"price,omitempty"`
	Currency        *string   `json:"currency,omitempty"`
	DurationDays    *int      `json:"durationDays,omitempty"`
	GenerationLimit *int      `json:"generationLimit,omitempty"`
	Features        *[]string `json:"features,omitempty"`
	IsActive        *bool     `json:"isActive,omitempty"`
	Order           *int      `json:"order,omitempty"`
}

// CreateSubscriptionRequest is the body for POST /api/subscriptions.
type CreateSubscriptionRequest struct {
	UserID        string     `json:"userId" binding:"required"`
	PlanID        string     `json:"planId" binding:"required"`
	StartDate     *time.Time `json:"startDate,omitempty"` // defaults to now
	PaymentMethod string     `json:"paymentMethod" binding:"required,oneof=google apple"`
	TransactionID string     `json:"transactionId,omitempty"`
}
