package dto

import (
	"time"

	"github.com/spinhall/tt_booking_app/internal/core/domain"
)

// RegisterRequest defines the data needed to create a user.
type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=3,max=50"`
	Password string `json:"password" binding:"required,min=6,max=16"`
	RealName string `json:"realName" binding:"required"`
	Gender   string `json:"gender" binding:"omitempty,oneof=male female"`
	Age      int    `json:"age" binding:"omitempty,gt=0"`
	Phone    string `json:"phone"`
	Email    string `json:"email" binding:"omitempty,email"`
	Role     string `json:"role" binding:"required,oneof=student coach"`
	CampusID string `json:"campusID" binding:"required"`
}

// LoginRequest defines login credentials.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse carries the issued token and the user it identifies.
type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

// UserResponse defines the data returned for a user.
type UserResponse struct {
	UserID    string    `json:"userID"`
	Username  string    `json:"username"`
	RealName  string    `json:"realName"`
	Role      string    `json:"role"`
	CampusID  string    `json:"campusID"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}

// ToUserResponse converts a domain.User to its response DTO.
func ToUserResponse(u *domain.User) UserResponse {
	return UserResponse{
		UserID:    u.UserID,
		Username:  u.Username,
		RealName:  u.RealName,
		Role:      string(u.Role),
		CampusID:  u.CampusID,
		Status:    string(u.Status),
		CreatedAt: u.CreatedAt,
	}
}
