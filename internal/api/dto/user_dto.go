package dto

import (
	"time"

	"github.com/spec-kit/shop-service/internal/domain"
)

// UserRegisterRequest payload for new users.
type UserRegisterRequest struct {
	Name      string `json:"name" validate:"required,max=120"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=6,max=72"`
	Phone     string `json:"phone" validate:"max=40"`
	Street    string `json:"street" validate:"max=255"`
	Apartment string `json:"apartment" validate:"max=120"`
	Zip       string `json:"zip" validate:"max=32"`
	City      string `json:"city" validate:"max=120"`
	Country   string `json:"country" validate:"max=120"`
}

// UserLoginRequest payload for login.
type UserLoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// UpdateProfileRequest payload for PUT /api/user/me. Absent fields stay unchanged.
type UpdateProfileRequest struct {
	Name      *string `json:"name" validate:"omitempty,min=1,max=120"`
	Email     *string `json:"email" validate:"omitempty,email"`
	Phone     *string `json:"phone" validate:"omitempty,max=40"`
	Street    *string `json:"street" validate:"omitempty,max=255"`
	Apartment *string `json:"apartment" validate:"omitempty,max=120"`
	Zip       *string `json:"zip" validate:"omitempty,max=32"`
	City      *string `json:"city" validate:"omitempty,max=120"`
	Country   *string `json:"country" validate:"omitempty,max=120"`
}

// ChangePasswordRequest payload for password change.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=6,max=72"`
}

// LoginResponse is returned by a successful login. User carries the email.
type LoginResponse struct {
	User      string    `json:"user"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// UserResponse is the public shape of an account. The password hash never leaves the service.
type UserResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	IsAdmin   bool      `json:"isAdmin"`
	Street    string    `json:"street"`
	Apartment string    `json:"apartment"`
	Zip       string    `json:"zip"`
	City      string    `json:"city"`
	Country   string    `json:"country"`
	CreatedAt time.Time `json:"createdAt"`
}

func NewUserResponse(u *domain.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Phone:     u.Phone,
		IsAdmin:   u.IsAdmin,
		Street:    u.Street,
		Apartment: u.Apartment,
		Zip:       u.Zip,
		City:      u.City,
		Country:   u.Country,
		CreatedAt: u.CreatedAt,
	}
}
