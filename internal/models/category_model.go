package models

import "time"

// Subcategory is embedded inside its parent Category document. It carries its
// own soft-delete state so it can be trashed and restored independently of the
// parent.
type Subcategory struct {
	ID          string     `json:"id" firestore:"id"`
	Name        string     `json:"name" firestore:"name"`
	Order       int        `json:"order" firestore:"order"`
	SearchCount int64      `json:"searchCount" firestore:"searchCount"`
	CreatedBy   string     `json:"createdBy,omitempty" firestore:"createdBy,omitempty"`
	CreatedAt   time.Time  `json:"createdAt" firestore:"createdAt"`
	UpdatedBy   string     `json:"updatedBy,omitempty" firestore:"updatedBy,omitempty"`
	UpdatedAt   time.Time  `json:"updatedAt" firestore:"updatedAt"`
	IsDeleted   bool       `json:"isDeleted" firestore:"isDeleted"`
	DeletedBy   string     `json:"deletedBy,omitempty" firestore:"deletedBy,omitempty"`
	DeletedAt   *time.Time `json:"deletedAt,omitempty" firestore:"deletedAt,omitempty"`
}

// Category groups prompts. Its subcategory list is embedded in the document,
// not a subcollection.
type Category struct {
	ID            string        `json:"id" firestore:"-"` // Document ID
	Name          string        `json:"name" firestore:"name"`
	IconImage     string        `json:"iconImage,omitempty" firestore:"iconImage,omitempty"`
	Order         int           `json:"order" firestore:"order"`
	SearchCount   int64         `json:"searchCount" firestore:"searchCount"`
	Subcategories []Subcategory `json:"subcategories" firestore:"subcategories"`
	CreatedBy     string        `json:"createdBy,omitempty" firestore:"createdBy,omitempty"`
	CreatedAt     time.Time     `json:"createdAt" firestore:"createdAt"`
	UpdatedBy     string        `json:"updatedBy,omitempty" firestore:"updatedBy,omitempty"`
	UpdatedAt     time.Time     `json:"updatedAt" firestore:"updatedAt"`
	IsDeleted     bool          `json:"isDeleted" firestore:"isDeleted"`
	DeletedBy     string        `json:"deletedBy,omitempty" firestore:"deletedBy,omitempty"`
	DeletedAt     *time.Time    `json:"deletedAt,omitempty" firestore:"deletedAt,omitempty"`
}

// OrphanedSubcategory pairs a subcategory with its parent so the trash view can
// show where it came from. A subcategory is orphaned when its deletion state
// differs from its parent's.
type OrphanedSubcategory struct {
	CategoryID      string      `json:"categoryId"`
	CategoryName    string      `json:"categoryName"`
	CategoryDeleted bool        `json:"categoryDeleted"`
	Subcategory     Subcategory `json:"subcategory"`
}

// CategoryUsage reports what still references a category, shown to the
// operator before a delete is allowed.
type CategoryUsage struct {
	CategoryID  string   `json:"categoryId"`
	PromptCount int      `json:"promptCount"` // non-deleted prompts referencing the category
	Countries   []string `json:"countries"`   // names of countries listing the category
}
