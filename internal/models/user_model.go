package models

import "time"

// User roles.
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// Sign-in providers.
const (
	ProviderGoogle = "google"
	ProviderApple  = "apple"
	ProviderManual = "manual"
	ProviderIOS    = "ios"
)

// User represents a platform account, either a mobile end user or an admin.
// PasswordHash is only populated for admin-created accounts and is never
// serialized to JSON.
type User struct {
	ID           string     `json:"id" firestore:"-"` // Document ID
	Name         string     `json:"name" firestore:"name"`
	Email        string     `json:"email" firestore:"email"`
	Role         string     `json:"role" firestore:"role"` // "admin" or "user"
	Provider     string     `json:"provider" firestore:"provider"`
	Language     string     `json:"language,omitempty" firestore:"language,omitempty"`
	PhotoURL     string     `json:"photoURL,omitempty" firestore:"photoURL,omitempty"`
	PasswordHash string     `json:"-" firestore:"passwordHash,omitempty"`
	CreatedAt    time.Time  `json:"createdAt" firestore:"createdAt"`
	LastLogin    *time.Time `json:"lastLogin,omitempty" firestore:"lastLogin,omitempty"`
	IsDeleted    bool       `json:"isDeleted" firestore:"isDeleted"`
	DeletedBy    string     `json:"deletedBy,omitempty" firestore:"deletedBy,omitempty"`
	DeletedAt    *time.Time `json:"deletedAt,omitempty" firestore:"deletedAt,omitempty"`
}

// LoginHistory is a record of a single sign-in, stored in the
// users/{id}/loginHistory subcollection.
type LoginHistory struct {
	ID         string            `json:"id" firestore:"-"`
	LoginTime  time.Time         `json:"loginTime" firestore:"loginTime"`
	DeviceID   string            `json:"deviceId,omitempty" firestore:"deviceId,omitempty"`
	DeviceInfo map[string]string `json:"deviceInfo,omitempty" firestore:"deviceInfo,omitempty"`
}
