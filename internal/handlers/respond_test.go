package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/Brownie44l1/sellerhub/internal/apiclient"
	"github.com/Brownie44l1/sellerhub/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestMapServiceError(t *testing.T) {
	rejected := fmt.Errorf("%w: %w", models.ErrClaimRejected, &apiclient.APIError{Status: 400, Message: "Already claimed"})

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"not signed in", models.ErrNotAuthenticated, http.StatusUnauthorized, models.ErrCodeUnauthorized},
		{"token expired", models.ErrTokenExpired, http.StatusUnauthorized, models.ErrCodeUnauthorized},
		{"missing fields", models.ErrMissingFields, http.StatusBadRequest, models.ErrCodeValidationFailed},
		{"below minimum", models.ErrBelowMinimum, http.StatusBadRequest, models.ErrCodeValidationFailed},
		{"unknown method", fmt.Errorf("%w: %q", models.ErrUnknownMethod, "paypal"), http.StatusBadRequest, models.ErrCodeValidationFailed},
		{"exceeds available", models.ErrExceedsAvailable, http.StatusUnprocessableEntity, models.ErrCodeNotEligible},
		{"claim locked", models.ErrClaimNotEligible, http.StatusUnprocessableEntity, models.ErrCodeNotEligible},
		{"claim rejected upstream", rejected, http.StatusUnprocessableEntity, models.ErrCodeNotEligible},
		{"superseded load", models.ErrSupersededLoad, http.StatusConflict, models.ErrCodeConflict},
		{"in flight", models.ErrActionInFlight, http.StatusConflict, models.ErrCodeConflict},
		{"already released", models.ErrEscrowAlreadyReleased, http.StatusConflict, models.ErrCodeConflict},
		{"purchase not found", models.ErrPurchaseNotFound, http.StatusNotFound, models.ErrCodeNotFound},
		{"empty invoice", models.ErrEmptyInvoice, http.StatusBadGateway, models.ErrCodeUpstream},
		{"upstream 401", &apiclient.APIError{Status: 401}, http.StatusUnauthorized, models.ErrCodeUnauthorized},
		{"upstream 403", &apiclient.APIError{Status: 403, Message: "KYC required"}, http.StatusForbidden, models.ErrCodeUpstream},
		{"upstream 500", &apiclient.APIError{Status: 500}, http.StatusBadGateway, models.ErrCodeUpstream},
		{"network failure", errors.New("dial tcp: connection refused"), http.StatusBadGateway, models.ErrCodeUpstream},
		{"app error", models.NewAppError(models.ErrCodeNotFound, "gone", nil), http.StatusNotFound, models.ErrCodeNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, code, _ := mapServiceError(tt.err)
			assert.Equal(t, tt.wantStatus, status)
			assert.Equal(t, tt.wantCode, code)
		})
	}
}

func TestUserMessage(t *testing.T) {
	assert.Equal(t, "Insufficient funds", userMessage(&apiclient.APIError{Status: 400, Message: "Insufficient funds"}))
	assert.Equal(t, apiclient.GenericErrorMessage, userMessage(&apiclient.APIError{Status: 500}))
	assert.Equal(t, models.ErrBelowMinimum.Error(), userMessage(models.ErrBelowMinimum))
	assert.Equal(t, apiclient.GenericErrorMessage, userMessage(errors.New("dial tcp 10.0.0.1:443: i/o timeout")))
}
