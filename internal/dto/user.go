package dto

import (
	"time"

	"github.com/tasktribe/tasktribe-api/internal/models"
)

// UserDTO represents a user in API responses
type UserDTO struct {
	ID              uint64     `json:"_id"`
	Name            string     `json:"name"`
	Email           string     `json:"email"`
	ProfilePicture  string     `json:"profilePicture,omitempty"`
	IsEmailVerified bool       `json:"isEmailVerified"`
	LastLogin       *time.Time `json:"lastLogin,omitempty"`
	CreatedAt       time.Time  `json:"createdAt"`
}

// LoginResponse carries the login token alongside the authenticated user
type LoginResponse struct {
	Message string  `json:"message"`
	Token   string  `json:"token"`
	User    UserDTO `json:"user"`
}

// ToUserDTO converts a User model to UserDTO
func ToUserDTO(user models.User) UserDTO {
	return UserDTO{
		ID:              user.ID,
		Name:            user.Name,
		Email:           user.Email,
		ProfilePicture:  user.ProfilePicture,
		IsEmailVerified: user.IsEmailVerified,
		LastLogin:       user.LastLogin,
		CreatedAt:       user.CreatedAt,
	}
}
