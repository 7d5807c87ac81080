package dto

import (
	"time"

	"github.com/ringlabs/ring_token_engine/internal/core/domain"
)

// CreateUserRequest defines the data needed to create a user row.
type CreateUserRequest struct {
	UserID         string `json:"userID"`
	Name           string `json:"name" binding:"required"`
	InitialBalance int64  `json:"initialBalance"`
}

// UserResponse defines the data returned for a user.
type UserResponse struct {
	UserID      string    `json:"userID"`
	Name        string    `json:"name"`
	RingBalance int64     `json:"ringBalance"`
	CreatedAt   time.Time `json:"createdAt"`
	CreatedBy   string    `json:"createdBy"`
}

// ToUserResponse converts a domain.User to UserResponse DTO
func ToUserResponse(user *domain.User) UserResponse {
	return UserResponse{
		UserID:      user.UserID,
		Name:        user.Name,
		RingBalance: user.RingBalance,
		CreatedAt:   user.CreatedAt,
		CreatedBy:   user.CreatedBy,
	}
}
