package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// MatchStatus is the lifecycle state of a tournament.
type MatchStatus string

const (
	MatchUpcoming         MatchStatus = "upcoming"
	MatchRegistrationOpen MatchStatus = "registration"
	MatchOngoing          MatchStatus = "ongoing"
	MatchCompleted        MatchStatus = "completed"
	MatchCancelled        MatchStatus = "cancelled"
)

// GroupLabel is the competition group a student registers into.
type GroupLabel string

const (
	GroupA GroupLabel = "group_a"
	GroupB GroupLabel = "group_b"
	GroupC GroupLabel = "group_c"
)

// PaymentStatus tracks the registration fee of a match registration.
type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPaid     PaymentStatus = "paid"
	PaymentRefunded PaymentStatus = "refunded"
)

// Match is a tournament with a registration window and a per-head fee.
type Match struct {
	MatchID           string          `json:"matchID"`
	Name              string          `json:"name"`
	CampusID          string          `json:"campusID"`
	MatchDate         time.Time       `json:"matchDate"`
	RegistrationStart time.Time       `json:"registrationStart"`
	RegistrationEnd   time.Time       `json:"registrationEnd"`
	RegistrationFee   decimal.Decimal `json:"registrationFee"`
	Status            MatchStatus     `json:"status"`
	CreatedAt         time.Time       `json:"createdAt"`
}

// MatchRegistration is one student's entry in one match. At most one
// registration exists per (match, student).
type MatchRegistration struct {
	RegistrationID   string        `json:"registrationID"`
	MatchID          string        `json:"matchID"`
	StudentID        string        `json:"studentID"`
	Group            GroupLabel    `json:"group"`
	RegistrationTime time.Time     `json:"registrationTime"`
	PaymentStatus    PaymentStatus `json:"paymentStatus"`
}
