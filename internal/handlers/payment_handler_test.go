package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Brownie44l1/sellerhub/internal/apiclient"
	"github.com/Brownie44l1/sellerhub/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func setupPayments(t *testing.T) (*gin.Engine, *MockPaymentService) {
	svc := new(MockPaymentService)
	return newRouter(signedInHandle(t), NewPaymentHandler(svc).RegisterRoutes), svc
}

func postJSON(router *gin.Engine, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestDeposit_Redirect(t *testing.T) {
	router, svc := setupPayments(t)
	svc.On("Start", mock.Anything, mock.Anything, "trc20", "50").Return(&service.PaymentOutcome{
		Kind:        service.OutcomeRedirect,
		Method:      "trc20",
		RedirectURL: "https://pay.example/inv/1",
	}, nil)

	w := postJSON(router, "/api/v1/deposits", `{"amount":50,"method":"trc20"}`)

	require.Equal(t, http.StatusOK, w.Code)
	var body service.PaymentOutcome
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, service.OutcomeRedirect, body.Kind)
	assert.Equal(t, "https://pay.example/inv/1", body.RedirectURL)
	svc.AssertExpectations(t)
}

func TestDeposit_FailureEchoesInput(t *testing.T) {
	router, svc := setupPayments(t)
	svc.On("Start", mock.Anything, mock.Anything, "easypaisa", "75.5").
		Return(nil, &apiclient.APIError{Status: 400, Message: "Gateway unavailable"})

	w := postJSON(router, "/api/v1/deposits", `{"amount":"75.5","method":"easypaisa"}`)

	require.Equal(t, http.StatusBadRequest, w.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Gateway unavailable", body["message"])
	assert.Equal(t, "easypaisa", body["method"])
	assert.EqualValues(t, 75.5, body["amount"])
}

func TestDeposit_MissingMethod(t *testing.T) {
	router, svc := setupPayments(t)

	w := postJSON(router, "/api/v1/deposits", `{"amount":50}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	svc.AssertNotCalled(t, "Start", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestDepositOffline_Created(t *testing.T) {
	router, svc := setupPayments(t)
	svc.On("StartOffline", mock.Anything, mock.Anything, "bank_transfer", "100").Return(&service.PaymentOutcome{
		Kind:        service.OutcomeSupport,
		Method:      "bank_transfer",
		RedirectURL: "/support/chat",
	}, nil)

	w := postJSON(router, "/api/v1/deposits/offline", `{"amount":100,"method":"bank_transfer"}`)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), "/support/chat")
}
