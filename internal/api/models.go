package api

import (
	"github.com/google/uuid"
)

// Common request/response structures

// RegisterRequest defines the payload for the user registration endpoint.
type RegisterRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

// LoginRequest defines the payload for the user login endpoint.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=1"`
}

// AuthResponse defines the successful response for authentication endpoints.
type AuthResponse struct {
	// UserID is the unique identifier for the authenticated user
	UserID uuid.UUID `json:"user_id"`

	// AccessToken is the JWT token used for API authorization
	AccessToken string `json:"token"`

	// RefreshToken is the JWT token used to obtain new access tokens
	RefreshToken string `json:"refresh_token,omitempty"`
}

// RefreshTokenRequest defines the payload for the token refresh endpoint.
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// RefreshTokenResponse defines the successful response for the token
// refresh endpoint.
type RefreshTokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// ForgotPasswordRequest defines the payload for requesting a password
// reset link.
type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// ResetPasswordRequest defines the payload for completing a password
// reset with a token from the emailed link.
type ResetPasswordRequest struct {
	Token    string `json:"token"    validate:"required"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

// MessageResponse is a generic acknowledgment body.
type MessageResponse struct {
	Message string `json:"message"`
}

// CreateTaskRequest defines the payload for task creation. Priority and
// Status are optional; an omitted priority is derived from the due date.
// DueDate is a calendar date in YYYY-MM-DD form.
type CreateTaskRequest struct {
	Title       string  `json:"title"        validate:"required,max=255"`
	Description string  `json:"description"`
	DueDate     *string `json:"due_date"`
	Priority    string  `json:"priority"     validate:"omitempty,oneof=high medium low"`
	Status      string  `json:"status"       validate:"omitempty,oneof=pending in_progress completed"`
	IsImportant bool    `json:"is_important"`
	Category    string  `json:"category"     validate:"max=100"`
}

// UpdateTaskRequest defines the payload for a partial task update. Absent
// fields are left untouched. An empty-string due_date clears the due date;
// a YYYY-MM-DD value replaces it.
type UpdateTaskRequest struct {
	Title       *string `json:"title"        validate:"omitempty,max=255"`
	Description *string `json:"description"`
	DueDate     *string `json:"due_date"`
	Priority    *string `json:"priority"     validate:"omitempty,oneof=high medium low"`
	Status      *string `json:"status"       validate:"omitempty,oneof=pending in_progress completed"`
	IsImportant *bool   `json:"is_important"`
	Category    *string `json:"category"     validate:"omitempty,max=100"`
}
