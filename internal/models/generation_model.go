package models

import "time"

// Generation statuses.
const (
	GenerationPending = "pending"
	GenerationSuccess = "success"
	GenerationFailed  = "failed"
)

// GenerationMetadata captures how an image was produced.
type GenerationMetadata struct {
	Model          string            `json:"model,omitempty" firestore:"model,omitempty"`
	ProcessingTime float64           `json:"processingTime,omitempty" firestore:"processingTime,omitempty"` // seconds
	Parameters     map[string]string `json:"parameters,omitempty" firestore:"parameters,omitempty"`
}

// UserGeneration is one image-generation attempt by a user. Read-only from the
// admin surface; written by the mobile backend.
type UserGeneration struct {
	ID             string             `json:"id" firestore:"-"` // Document ID
	UserID         string             `json:"userId" firestore:"userId"`
	PlanID         string             `json:"planId,omitempty" firestore:"planId,omitempty"`
	SubscriptionID string             `json:"subscriptionId,omitempty" firestore:"subscriptionId,omitempty"`
	PromptText     string             `json:"promptText" firestore:"promptText"`
	Status         string             `json:"generationStatus" firestore:"generationStatus"`
	ImageURL       string             `json:"imageUrl,omitempty" firestore:"imageUrl,omitempty"`
	ErrorMessage   string             `json:"errorMessage,omitempty" firestore:"errorMessage,omitempty"`
	Metadata       GenerationMetadata `json:"metadata" firestore:"metadata"`
	CreatedAt      time.Time          `json:"createdAt" firestore:"createdAt"`
}
