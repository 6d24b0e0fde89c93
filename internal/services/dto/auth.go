package dto

// ---------------- Requests ----------------

type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Role     string `json:"role" validate:"required,oneof=CLIENT PROVIDER"`
	Name     string `json:"name" validate:"required,max=100"`
	Phone    string `json:"phone" validate:"omitempty,max=20"`
	Category string `json:"category" validate:"omitempty,oneof=healthcare education home technical creative professional"`
	City     string `json:"city" validate:"omitempty,max=100"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// ---------------- Responses ----------------

type AuthResponse struct {
	AccessToken string       `json:"access_token"`
	User        UserResponse `json:"user"`
}

type UserResponse struct {
	ID         string `json:"id"`
	Email      string `json:"email"`
	Role       string `json:"role"`
	Name       string `json:"name"`
	EntityID   string `json:"entity_id"` // the domain-entity id notifications are filed under
	IsVerified bool   `json:"is_verified"`
}
