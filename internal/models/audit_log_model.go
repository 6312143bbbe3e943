package models

import "time"

// AuditLog records an admin action against a back-office entity. Deletion
// history lives here rather than on the restored document.
type AuditLog struct {
	ID         string                 `json:"id" firestore:"-"`
	Timestamp  time.Time              `json:"timestamp" firestore:"timestamp,serverTimestamp"`
	UserID     string                 `json:"userId" firestore:"userId"` // acting admin
	Action     string                 `json:"action" firestore:"action"` // e.g. "CATEGORY_DELETE", "USER_RESTORE", "AUTH_LOGIN"
	TargetType string                 `json:"targetType,omitempty" firestore:"targetType,omitempty"`
	TargetID   string                 `json:"targetId,omitempty" firestore:"targetId,omitempty"`
	IPAddress  string                 `json:"ipAddress,omitempty" firestore:"ipAddress,omitempty"`
	Details    map[string]interface{} `json:"details,omitempty" firestore:"details,omitempty"`
}
