package dto

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/spinhall/tt_booking_app/internal/core/domain"
)

// CreateMatchRequest defines the data needed to create a tournament.
type CreateMatchRequest struct {
	Name            string          `json:"name" binding:"required"`
	CampusID        string          `json:"campusID" binding:"required"`
	MatchDate       string          `json:"matchDate" binding:"required"`
	RegistrationEnd string          `json:"registrationEnd" binding:"required"`
	RegistrationFee decimal.Decimal `json:"registrationFee" binding:"required"`
}

// MatchRegisterRequest defines the data needed to enter a tournament.
type MatchRegisterRequest struct {
	Group domain.GroupLabel `json:"group" binding:"required,oneof=group_a group_b group_c"`
}

// ListMatchesParams defines query parameters for match listings.
type ListMatchesParams struct {
	Status   string `form:"status" binding:"omitempty,oneof=upcoming registration ongoing completed cancelled"`
	CampusID string `form:"campus_id"`
	Page     int    `form:"page,default=1"`
	PerPage  int    `form:"per_page,default=10"`
}

// ListRegistrationsParams defines query parameters for registration listings.
type ListRegistrationsParams struct {
	Group   string `form:"group" binding:"omitempty,oneof=group_a group_b group_c"`
	Page    int    `form:"page,default=1"`
	PerPage int    `form:"per_page,default=10"`
}

// MatchResponse defines the data returned for a match.
type MatchResponse struct {
	MatchID           string          `json:"matchID"`
	Name              string          `json:"name"`
	CampusID          string          `json:"campusID"`
	MatchDate         string          `json:"matchDate"`
	RegistrationStart time.Time       `json:"registrationStart"`
	RegistrationEnd   time.Time       `json:"registrationEnd"`
	RegistrationFee   decimal.Decimal `json:"registrationFee"`
	Status            string          `json:"status"`
	CreatedAt         time.Time       `json:"createdAt"`
}

// ToMatchResponse converts a domain.Match to its response DTO.
func ToMatchResponse(m *domain.Match) MatchResponse {
	return MatchResponse{
		MatchID:           m.MatchID,
		Name:              m.Name,
		CampusID:          m.CampusID,
		MatchDate:         FormatDate(m.MatchDate),
		RegistrationStart: m.RegistrationStart,
		RegistrationEnd:   m.RegistrationEnd,
		RegistrationFee:   m.RegistrationFee,
		Status:            string(m.Status),
		CreatedAt:         m.CreatedAt,
	}
}

// ToListMatchResponse converts a slice of matches.
func ToListMatchResponse(matches []domain.Match) []MatchResponse {
	res := make([]MatchResponse, len(matches))
	for i := range matches {
		res[i] = ToMatchResponse(&matches[i])
	}
	return res
}

// MatchDetailResponse is a match plus its per-group paid registration counts.
type MatchDetailResponse struct {
	MatchResponse
	RegistrationStats map[domain.GroupLabel]int `json:"registrationStats"`
}

// RegistrationResponse defines the data returned for a match registration.
type RegistrationResponse struct {
	RegistrationID   string    `json:"registrationID"`
	MatchID          string    `json:"matchID"`
	StudentID        string    `json:"studentID"`
	Group            string    `json:"group"`
	RegistrationTime time.Time `json:"registrationTime"`
	PaymentStatus    string    `json:"paymentStatus"`
}

// ToRegistrationResponse converts a domain.MatchRegistration to its DTO.
func ToRegistrationResponse(r *domain.MatchRegistration) RegistrationResponse {
	return RegistrationResponse{
		RegistrationID:   r.RegistrationID,
		MatchID:          r.MatchID,
		StudentID:        r.StudentID,
		Group:            string(r.Group),
		RegistrationTime: r.RegistrationTime,
		PaymentStatus:    string(r.PaymentStatus),
	}
}

// ToListRegistrationResponse converts a slice of registrations.
func ToListRegistrationResponse(regs []domain.MatchRegistration) []RegistrationResponse {
	res := make([]RegistrationResponse, len(regs))
	for i := range regs {
		res[i] = ToRegistrationResponse(&regs[i])
	}
	return res
}
