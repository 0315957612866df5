package domain

import "time"

// RelationStatus is the lifecycle state of a coach-student relation.
// Only approved relations permit booking.
type RelationStatus string

const (
	RelationPending    RelationStatus = "pending"
	RelationApproved   RelationStatus = "approved"
	RelationRejected   RelationStatus = "rejected"
	RelationTerminated RelationStatus = "terminated"
)

// CoachStudentRelation links a student to a coach. The booking core only
// reads it; relation management lives outside the core.
type CoachStudentRelation struct {
	RelationID string         `json:"relationID"`
	StudentID  string         `json:"studentID"`
	CoachID    string         `json:"coachID"`
	Status     RelationStatus `json:"status"`
	CreatedAt  time.Time      `json:"createdAt"`
}
