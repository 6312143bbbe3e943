package models

import "time"

// Image requirement codes for a prompt.
const (
	ImageRequirementNone     = -1 // prompt takes no input image
	ImageRequirementOptional = 0  // input image optional
	// 1..4 mean that many input images are required.
	ImageRequirementMax = 4
)

// Prompt is a single AI image-generation prompt, referencing its category and
// subcategory by bare id.
type Prompt struct {
	ID               string     `json:"id" firestore:"-"` // Document ID
	Title            string     `json:"title" firestore:"title"`
	Prompt           string     `json:"prompt" firestore:"prompt"`
	CategoryID       string     `json:"categoryId" firestore:"categoryId"`
	SubCategoryID    string     `json:"subCategoryId,omitempty" firestore:"subCategoryId,omitempty"`
	URL              string     `json:"url,omitempty" firestore:"url,omitempty"` // preview image
	ImageRequirement int        `json:"imageRequirement" firestore:"imageRequirement"`
	Tags             []string   `json:"tags,omitempty" firestore:"tags,omitempty"`
	IsTrending       bool       `json:"isTrending" firestore:"isTrending"`
	LikesCount       int64      `json:"likesCount" firestore:"likesCount"`
	SavesCount       int64      `json:"savesCount" firestore:"savesCount"`
	SearchCount      int64      `json:"searchCount" firestore:"searchCount"`
	CreatedBy        string     `json:"createdBy,omitempty" firestore:"createdBy,omitempty"`
	CreatedAt        time.Time  `json:"createdAt" firestore:"createdAt"`
	UpdatedBy        string     `json:"updatedBy,omitempty" firestore:"updatedBy,omitempty"`
	UpdatedAt        time.Time  `json:"updatedAt" firestore:"updatedAt"`
	IsDeleted        bool       `json:"isDeleted" firestore:"isDeleted"`
	DeletedBy        string     `json:"deletedBy,omitempty" firestore:"deletedBy,omitempty"`
	DeletedAt        *time.Time `json:"deletedAt,omitempty" firestore:"deletedAt,omitempty"`
}

// ValidImageRequirement reports whether code is one of the allowed
// image-requirement values.
func ValidImageRequirement(code int) bool {
	return code >= ImageRequirementNone && code <= ImageRequirementMax
}
