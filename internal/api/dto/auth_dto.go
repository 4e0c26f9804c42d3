package dto

import "github.com/Brownie44l1/sellerhub/internal/models"

// ==============================================
// AUTH REQUEST DTOs
// ==============================================

// LoginRequest - Email + password, role defaults to user
type LoginRequest struct {
	Email    string      `json:"email" binding:"required,email"`
	Password string      `json:"password" binding:"required"`
	Role     models.Role `json:"role" binding:"omitempty,oneof=user admin"`
}

// ==============================================
// AUTH RESPONSE DTOs
// ==============================================

// SessionResponse - What the front-end knows about the signed-in client
type SessionResponse struct {
	Authenticated bool                `json:"authenticated"`
	Role          models.Role         `json:"role,omitempty"`
	User          *models.UserProfile `json:"user,omitempty"`
}
