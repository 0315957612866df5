package domain

import "time"

// AuditLog records a successful mutation for traceability. Writing it is
// fire-and-forget; a failed write never rolls back the business operation.
type AuditLog struct {
	LogID       string    `json:"logID"`
	UserID      string    `json:"userID"`
	Action      string    `json:"action"`
	Description string    `json:"description"`
	IPAddress   string    `json:"ipAddress"`
	CreatedAt   time.Time `json:"createdAt"`
}
