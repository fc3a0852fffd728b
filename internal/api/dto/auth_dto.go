package dto

import (
	"time"

	"github.com/suporte-ti/helpdesk/internal/domain"
)

// SignUpRequest payload for account creation.
type SignUpRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Role     string `json:"role,omitempty"`
	Sector   string `json:"sector,omitempty"`
}

// SignInRequest payload for login.
type SignInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UserResponse is the public account shape.
type UserResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// ProfileResponse is the public profile shape.
type ProfileResponse struct {
	ID        string      `json:"id"`
	Name      string      `json:"name"`
	Email     string      `json:"email"`
	Role      domain.Role `json:"role"`
	Sector    string      `json:"sector,omitempty"`
	CreatedAt time.Time   `json:"created_at"`
}

// SessionResponse is returned by sign-up, sign-in and the session query.
type SessionResponse struct {
	User      UserResponse    `json:"user"`
	Profile   ProfileResponse `json:"profile"`
	Token     string          `json:"token,omitempty"`
	ExpiresAt *time.Time      `json:"expires_at,omitempty"`
}

// UpdateProfileRequest carries the mutable profile fields.
type UpdateProfileRequest struct {
	Name   *string `json:"name"`
	Sector *string `json:"sector"`
	Role   *string `json:"role"`
}

// NewUserResponse maps a domain user.
func NewUserResponse(user *domain.User) UserResponse {
	return UserResponse{ID: user.ID, Email: user.Email, CreatedAt: user.CreatedAt}
}

// NewProfileResponse maps a domain profile.
func NewProfileResponse(profile *domain.Profile) ProfileResponse {
	return ProfileResponse{
		ID:        profile.ID,
		Name:      profile.Name,
		Email:     profile.Email,
		Role:      profile.Role,
		Sector:    profile.Sector,
		CreatedAt: profile.CreatedAt,
	}
}
