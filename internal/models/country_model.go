package models

import "time"

// Country scopes which categories are visible in a region. Categories is a
// bare membership list of category ids with no ordering semantics.
type Country struct {
	ID         string     `json:"id" firestore:"-"` // Document ID
	Name       string     `json:"name" firestore:"name"`
	ISOCode    string     `json:"isoCode" firestore:"isoCode"` // exactly 2 chars, upper-cased
	Categories []string   `json:"categories" firestore:"categories"`
	CreatedBy  string     `json:"createdBy,omitempty" firestore:"createdBy,omitempty"`
	CreatedAt  time.Time  `json:"createdAt" firestore:"createdAt"`
	UpdatedBy  string     `json:"updatedBy,omitempty" firestore:"updatedBy,omitempty"`
	UpdatedAt  time.Time  `json:"updatedAt" firestore:"updatedAt"`
	IsDeleted  bool       `json:"isDeleted" firestore:"isDeleted"`
	DeletedBy  string     `json:"deletedBy,omitempty" firestore:"deletedBy,omitempty"`
	DeletedAt  *time.Time `json:"deletedAt,omitempty" firestore:"deletedAt,omitempty"`
}
