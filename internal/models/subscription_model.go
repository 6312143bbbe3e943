package models

import "time"

// Payment methods accepted by the mobile stores.
const (
	PaymentMethodGoogle = "google"
	PaymentMethodApple  = "apple"
)

// SubscriptionPlan is an offering users can subscribe to. Plans have no trash
// tier; deactivation is done via IsActive.
type SubscriptionPlan struct {
	ID              string    `json:"id" firestore:"-"` // Document ID
	Name            string    `json:"name" firestore:"name"`
	Price           float64   `json:"price" firestore:"price"`
	Currency        string    `json:"currency" firestore:"currency"`
	DurationDays    int       `json:"durationDays" firestore:"durationDays"`
	GenerationLimit int       `json:"generationLimit" firestore:"generationLimit"`
	Features        []string  `json:"features,omitempty" firestore:"features,omitempty"`
	IsActive        bool      `json:"isActive" firestore:"isActive"`
	Order           int       `json:"order" firestore:"order"`
	CreatedBy       string    `json:"createdBy,omitempty" firestore:"createdBy,omitempty"`
	CreatedAt       time.Time `json:"createdAt" firestore:"createdAt"`
	UpdatedBy       string    `json:"updatedBy,omitempty" firestore:"updatedBy,omitempty"`
	UpdatedAt       time.Time `json:"updatedAt" firestore:"updatedAt"`
}

// UserSubscription links a user to a plan for a period. Expiry is derived from
// EndDate at read time, never stored.
type UserSubscription struct {
	ID            string    `json:"id" firestore:"-"` // Document ID
	UserID        string    `json:"userId" firestore:"userId"`
	PlanID        string    `json:"planId" firestore:"planId"`
	StartDate     time.Time `json:"startDate" firestore:"startDate"`
	EndDate       time.Time `json:"endDate" firestore:"endDate"`
	IsActive      bool      `json:"isActive" firestore:"isActive"`
	PaymentMethod string    `json:"paymentMethod" firestore:"paymentMethod"` // "google" or "apple"
	TransactionID string    `json:"transactionId,omitempty" firestore:"transactionId,omitempty"`
}

// Expired reports whether the subscription period has ended as of now.
func (s *UserSubscription) Expired(now time.Time) bool {
	return s.EndDate.Before(now)
}
