package models

import "time"

// DeviceInfo describes the device a feedback entry was submitted from.
type DeviceInfo struct {
	OS         string `json:"os,omitempty" firestore:"os,omitempty"`
	Model      string `json:"model,omitempty" firestore:"model,omitempty"`
	AppVersion string `json:"appVersion,omitempty" firestore:"appVersion,omitempty"`
}

// Feedback is an in-app rating with an optional message. Feedback has no trash
// tier; admin deletes are hard deletes.
type Feedback struct {
	ID         string     `json:"id" firestore:"-"` // Document ID
	UserID     string     `json:"userId" firestore:"userId"`
	Rating     int        `json:"rating" firestore:"rating"` // 1..5
	Message    string     `json:"message,omitempty" firestore:"message,omitempty"`
	DeviceInfo DeviceInfo `json:"deviceInfo" firestore:"deviceInfo"`
	CreatedAt  time.Time  `json:"createdAt" firestore:"createdAt"`
}
