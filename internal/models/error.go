package models

import (
	"errors"
	"fmt"
)

// ==============================================
// CUSTOM ERROR TYPES
// ==============================================

// AppError represents a structured application error
type AppError struct {
	Code    string // Error code for client
	Message string // Human-readable message
	Err     error  // Underlying error (for logging)
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates a new AppError
func NewAppError(code, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// ==============================================
// PREDEFINED ERRORS
// ==============================================

// Session Errors
var (
	ErrNotAuthenticated   = errors.New("not signed in")
	ErrInvalidRole        = errors.New("invalid role")
	ErrTokenExpired       = errors.New("session token expired")
	ErrMissingCredentials = errors.New("email and password are required")
)

// Wallet Errors
var (
	ErrInvalidTab       = errors.New("invalid wallet tab")
	ErrSupersededLoad   = errors.New("wallet load superseded by a newer request")
	ErrMissingFields    = errors.New("all fields are required")
	ErrInvalidAmount    = errors.New("amount must be greater than zero")
	ErrBelowMinimum     = errors.New("amount is below the minimum withdrawal")
	ErrExceedsAvailable = errors.New("amount exceeds available balance")
)

// Payment Errors
var (
	ErrUnknownMethod   = errors.New("unsupported payment method")
	ErrEmptyInvoice    = errors.New("payment processor returned no invoice url or pay address")
	ErrMissingRedirect = errors.New("payment gateway returned no redirect url")
)

// Order Errors
var (
	ErrPurchaseNotFound      = errors.New("purchase not found")
	ErrClaimNotEligible      = errors.New("profit is not claimable yet")
	ErrClaimRejected         = errors.New("claim rejected by server")
	ErrMissingEscrowTxn      = errors.New("purchase has no buyer escrow transaction")
	ErrEscrowAlreadyReleased = errors.New("escrow already transferred")
	ErrActionInFlight        = errors.New("request already in progress")
)

// Storage Errors
var (
	ErrMissingProduct  = errors.New("product reference is required")
	ErrInvalidQuantity = errors.New("quantity must be at least 1")
)

// KYC Errors
var (
	ErrKYCIncomplete = errors.New("all KYC fields and both ID images are required")
)

// ==============================================
// ERROR CODES (for API responses)
// ==============================================
const (
	ErrCodeValidationFailed = "VALIDATION_FAILED"
	ErrCodeUnauthorized     = "UNAUTHORIZED"
	ErrCodeNotEligible      = "NOT_ELIGIBLE"
	ErrCodeConflict         = "CONFLICT"
	ErrCodeUpstream         = "UPSTREAM_ERROR"
	ErrCodeNotFound         = "NOT_FOUND"
	ErrCodeInternalError    = "INTERNAL_ERROR"
)

// ==============================================
// HELPER FUNCTIONS
// ==============================================

// IsValidationError checks if err was raised before any network call
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidTab) ||
		errors.Is(err, ErrMissingFields) ||
		errors.Is(err, ErrInvalidAmount) ||
		errors.Is(err, ErrBelowMinimum) ||
		errors.Is(err, ErrExceedsAvailable) ||
		errors.Is(err, ErrUnknownMethod) ||
		errors.Is(err, ErrMissingCredentials) ||
		errors.Is(err, ErrInvalidRole) ||
		errors.Is(err, ErrKYCIncomplete) ||
		errors.Is(err, ErrMissingProduct) ||
		errors.Is(err, ErrInvalidQuantity)
}

// IsGatingError checks if err comes from a client-side eligibility gate
func IsGatingError(err error) bool {
	return errors.Is(err, ErrClaimNotEligible) ||
		errors.Is(err, ErrMissingEscrowTxn) ||
		errors.Is(err, ErrEscrowAlreadyReleased) ||
		errors.Is(err, ErrActionInFlight)
}
