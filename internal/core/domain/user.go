package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// UserRole identifies what a user may do in the system.
type UserRole string

const (
	RoleStudent     UserRole = "student"
	RoleCoach       UserRole = "coach"
	RoleCampusAdmin UserRole = "campus_admin"
	RoleSuperAdmin  UserRole = "super_admin"
)

// IsAdmin reports whether the role carries administrative privileges.
func (r UserRole) IsAdmin() bool {
	return r == RoleCampusAdmin || r == RoleSuperAdmin
}

// UserStatus indicates whether a user may act in the system.
type UserStatus string

const (
	UserActive   UserStatus = "active"
	UserInactive UserStatus = "inactive"
	UserPending  UserStatus = "pending"
)

// User represents any actor: student, coach or administrator.
type User struct {
	UserID       string     `json:"userID"`
	Username     string     `json:"username"`
	PasswordHash string     `json:"-"`
	RealName     string     `json:"realName"`
	Gender       string     `json:"gender"`
	Age          int        `json:"age"`
	Phone        string     `json:"phone"`
	Email        string     `json:"email"`
	Role         UserRole   `json:"role"`
	CampusID     string     `json:"campusID"` // empty for super admins
	Status       UserStatus `json:"status"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

// CoachProfile holds the coaching attributes of a user with RoleCoach.
// HourlyRate is the basis for lesson fees; it is read at booking creation
// and never retroactively applied to existing bookings.
type CoachProfile struct {
	ProfileID       string          `json:"profileID"`
	UserID          string          `json:"userID"`
	Level           string          `json:"level"`
	HourlyRate      decimal.Decimal `json:"hourlyRate"`
	PhotoURL        string          `json:"photoURL"`
	Achievements    string          `json:"achievements"`
	MaxStudents     int             `json:"maxStudents"`
	CurrentStudents int             `json:"currentStudents"`
	CreatedAt       time.Time       `json:"createdAt"`
}
