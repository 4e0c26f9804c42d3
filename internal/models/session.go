package models

import (
	"github.com/shopspring/decimal"
)

// ==============================================
// SESSION
// ==============================================

// Role selects which token slot a session occupies.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// TokenKey is the client storage key holding the bearer token for r.
func (r Role) TokenKey() string {
	if r == RoleAdmin {
		return "adminToken"
	}
	return "userToken"
}

// Session is the authenticated state of one client. A zero Session is anonymous.
type Session struct {
	Token string       `json:"-"`
	Role  Role         `json:"role"`
	User  *UserProfile `json:"user"`
}

// Authenticated reports whether the session carries a token.
func (s *Session) Authenticated() bool {
	return s != nil && s.Token != ""
}

// ==============================================
// USER PROFILE
// ==============================================

// UserProfile is the denormalized profile snapshot returned by the API.
type UserProfile struct {
	ID            string            `json:"_id"`
	Name          string            `json:"name"`
	Username      string            `json:"username"`
	Email         string            `json:"email"`
	Balance       decimal.Decimal   `json:"balance"`
	ReferralCode  string            `json:"referralCode,omitempty"`
	IsKYCApproved bool              `json:"isKycApproved"`
	ProfileImage  string            `json:"profileImage,omitempty"`
	SocialLinks   map[string]string `json:"socialLinks,omitempty"`
}

// LoginRequest is forwarded upstream as-is
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse covers both the user and admin login endpoints.
type LoginResponse struct {
	Token string       `json:"token"`
	User  *UserProfile `json:"user,omitempty"`
	Admin *UserProfile `json:"admin,omitempty"`
}

// Profile returns whichever profile the endpoint populated.
func (r *LoginResponse) Profile() *UserProfile {
	if r.User != nil {
		return r.User
	}
	return r.Admin
}
