package handler

import "github.com/clublink/usersync/internal/core/domain"

// userRequest is the body of POST and PUT.
type userRequest struct {
	Email   string `json:"email"   validate:"required,email"`
	Role    string `json:"role"    validate:"omitempty,oneof=admin owner member"`
	ClerkID string `json:"clerkId" validate:"required"`
}

func (r userRequest) toDraft() domain.Draft {
	return domain.Draft{
		Email:   r.Email,
		Role:    domain.Role(r.Role),
		ClerkID: r.ClerkID,
	}.WithDefaults()
}

// userListResponse is the envelope for GET.
type userListResponse struct {
	Success bool          `json:"success"`
	Data    []domain.User `json:"data"`
	Count   int           `json:"count"`
}

// userResponse is the envelope for POST, PUT and DELETE.
type userResponse struct {
	Success bool         `json:"success"`
	Data    *domain.User `json:"data,omitempty"`
	Message string       `json:"message,omitempty"`
}
