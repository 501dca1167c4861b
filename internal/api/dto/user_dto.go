package dto

import (
	"time"

	"github.com/ticketdesk/ticketdesk-service/internal/domain"
)

// RegisterRequest payload for self-registration.
type RegisterRequest struct {
	Name       string      `json:"name" validate:"required,max=120"`
	Email      string      `json:"email" validate:"required,email"`
	Password   string      `json:"password" validate:"required,min=6,max=72"`
	Role       domain.Role `json:"role" validate:"omitempty,oneof=student faculty sub_admin super_admin"`
	Department string      `json:"department" validate:"max=120"`
}

// LoginRequest payload for login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// ChangePasswordRequest payload.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=6,max=72"`
}

// CreateUserRequest is used by super admins to add accounts of any role.
type CreateUserRequest struct {
	Name       string      `json:"name" validate:"required,max=120"`
	Email      string      `json:"email" validate:"required,email"`
	Password   string      `json:"password" validate:"required,min=6,max=72"`
	Role       domain.Role `json:"role" validate:"required,oneof=student faculty sub_admin super_admin"`
	Department string      `json:"department" validate:"required_if=Role sub_admin,max=120"`
}

// UpdateUserRequest carries optional changes.
type UpdateUserRequest struct {
	Name       *string      `json:"name" validate:"omitempty,min=1,max=120"`
	Email      *string      `json:"email" validate:"omitempty,email"`
	Password   *string      `json:"password" validate:"omitempty,min=6,max=72"`
	Role       *domain.Role `json:"role" validate:"omitempty,oneof=student faculty sub_admin super_admin"`
	Department *string      `json:"department" validate:"omitempty,max=120"`
}

// UserResponse is the public view of an account. It never carries the password hash.
type UserResponse struct {
	ID         string      `json:"id"`
	Name       string      `json:"name"`
	Email      string      `json:"email"`
	Role       domain.Role `json:"role"`
	Department string      `json:"department,omitempty"`
	CreatedAt  time.Time   `json:"createdAt"`
	UpdatedAt  time.Time   `json:"updatedAt"`
}

// AuthResponse standard response for register and login.
type AuthResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expiresAt"`
	Role      domain.Role  `json:"role"`
	User      UserResponse `json:"user"`
}

// ToUserResponse maps a domain user.
func ToUserResponse(u *domain.User) UserResponse {
	return UserResponse{
		ID:         u.ID,
		Name:       u.Name,
		Email:      u.Email,
		Role:       u.Role,
		Department: u.Department,
		CreatedAt:  u.CreatedAt,
		UpdatedAt:  u.UpdatedAt,
	}
}

// ToUserResponses maps a list of users.
func ToUserResponses(users []domain.User) []UserResponse {
	resp := make([]UserResponse, 0, len(users))
	for i := range users {
		resp = append(resp, ToUserResponse(&users[i]))
	}
	return resp
}
