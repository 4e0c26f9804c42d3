package handlers

import (
	"errors"
	"net/http"

	"github.com/Brownie44l1/sellerhub/internal/apiclient"
	"github.com/Brownie44l1/sellerhub/internal/models"
	"github.com/gin-gonic/gin"
)

// ==============================================
// HELPER FUNCTIONS
// ==============================================

// respondSuccess sends a successful JSON response
func respondSuccess(c *gin.Context, statusCode int, data interface{}) {
	c.JSON(statusCode, data)
}

// respondError sends an error JSON response
func respondError(c *gin.Context, statusCode int, message string, err error) {
	c.JSON(statusCode, gin.H{
		"error":   message,
		"code":    models.ErrCodeValidationFailed,
		"message": err.Error(),
	})
}

// respondServiceError maps service errors to appropriate HTTP status codes and responses
func respondServiceError(c *gin.Context, err error) {
	statusCode, code, label := mapServiceError(err)
	c.JSON(statusCode, gin.H{
		"error":   label,
		"code":    code,
		"message": userMessage(err),
	})
}

// userMessage forwards the API's own message when there is one.
func userMessage(err error) string {
	var appErr *models.AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	var apiErr *apiclient.APIError
	if errors.As(err, &apiErr) {
		return apiclient.ServerMessage(err)
	}
	for _, known := range domainErrors {
		if errors.Is(err, known) {
			return err.Error()
		}
	}
	return apiclient.GenericErrorMessage
}

// domainErrors are safe to show verbatim; anything else may carry transport detail.
var domainErrors = []error{
	models.ErrNotAuthenticated, models.ErrInvalidRole, models.ErrTokenExpired, models.ErrMissingCredentials,
	models.ErrInvalidTab, models.ErrSupersededLoad, models.ErrMissingFields, models.ErrInvalidAmount,
	models.ErrBelowMinimum, models.ErrExceedsAvailable, models.ErrUnknownMethod, models.ErrEmptyInvoice,
	models.ErrMissingRedirect, models.ErrPurchaseNotFound, models.ErrClaimNotEligible,
	models.ErrMissingEscrowTxn, models.ErrEscrowAlreadyReleased, models.ErrActionInFlight,
	models.ErrMissingProduct, models.ErrInvalidQuantity, models.ErrKYCIncomplete,
}

// mapServiceError maps service errors to HTTP status, error code and a short label
func mapServiceError(err error) (int, string, string) {
	var appErr *models.AppError
	if errors.As(err, &appErr) {
		switch appErr.Code {
		case models.ErrCodeValidationFailed:
			return http.StatusBadRequest, appErr.Code, "Invalid request"
		case models.ErrCodeUnauthorized:
			return http.StatusUnauthorized, appErr.Code, "Unauthorized"
		case models.ErrCodeNotFound:
			return http.StatusNotFound, appErr.Code, "Not found"
		}
	}

	switch {
	// Session errors (401 Unauthorized)
	case errors.Is(err, models.ErrNotAuthenticated):
		return http.StatusUnauthorized, models.ErrCodeUnauthorized, "Not signed in"
	case errors.Is(err, models.ErrTokenExpired):
		return http.StatusUnauthorized, models.ErrCodeUnauthorized, "Session expired"

	// Business logic errors (422 Unprocessable Entity), checked before the wrapped
	// upstream error so a rejected claim is not reported as a plain 400
	case errors.Is(err, models.ErrExceedsAvailable):
		return http.StatusUnprocessableEntity, models.ErrCodeNotEligible, "Insufficient balance"
	case errors.Is(err, models.ErrClaimNotEligible):
		return http.StatusUnprocessableEntity, models.ErrCodeNotEligible, "Not claimable yet"
	case errors.Is(err, models.ErrClaimRejected):
		return http.StatusUnprocessableEntity, models.ErrCodeNotEligible, "Claim rejected"
	case errors.Is(err, models.ErrMissingEscrowTxn):
		return http.StatusUnprocessableEntity, models.ErrCodeNotEligible, "No escrow to transfer"

	// Validation errors (400 Bad Request)
	case models.IsValidationError(err):
		return http.StatusBadRequest, models.ErrCodeValidationFailed, "Validation failed"

	// Conflicts (409 Conflict)
	case errors.Is(err, models.ErrSupersededLoad):
		return http.StatusConflict, models.ErrCodeConflict, "Superseded by a newer request"
	case errors.Is(err, models.ErrActionInFlight):
		return http.StatusConflict, models.ErrCodeConflict, "Request already in progress"
	case errors.Is(err, models.ErrEscrowAlreadyReleased):
		return http.StatusConflict, models.ErrCodeConflict, "Already transferred"

	// Not found errors (404 Not Found)
	case errors.Is(err, models.ErrPurchaseNotFound):
		return http.StatusNotFound, models.ErrCodeNotFound, "Purchase not found"

	// Upstream answered but unusably (502 Bad Gateway)
	case errors.Is(err, models.ErrEmptyInvoice), errors.Is(err, models.ErrMissingRedirect):
		return http.StatusBadGateway, models.ErrCodeUpstream, "Payment provider error"
	}

	var apiErr *apiclient.APIError
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.Status == http.StatusUnauthorized:
			return http.StatusUnauthorized, models.ErrCodeUnauthorized, "Unauthorized"
		case apiErr.Status >= 400 && apiErr.Status < 500:
			return apiErr.Status, models.ErrCodeUpstream, "Request rejected"
		default:
			return http.StatusBadGateway, models.ErrCodeUpstream, "Upstream error"
		}
	}

	// Default: network failures and anything unexpected
	return http.StatusBadGateway, models.ErrCodeUpstream, apiclient.GenericErrorMessage
}
