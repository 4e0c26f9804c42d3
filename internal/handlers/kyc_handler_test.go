package handlers

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Brownie44l1/sellerhub/internal/models"
	"github.com/Brownie44l1/sellerhub/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockKYCService struct {
	mock.Mock
}

func (m *MockKYCService) Submit(ctx context.Context, h *session.Handle, sub models.KYCSubmission) (*models.KYCRecord, error) {
	args := m.Called(ctx, h, sub)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.KYCRecord), args.Error(1)
}

func (m *MockKYCService) Status(ctx context.Context, h *session.Handle) (*models.KYCRecord, error) {
	args := m.Called(ctx, h)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.KYCRecord), args.Error(1)
}

func kycRequest(t *testing.T, withBack bool) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range map[string]string{
		"name": "Ayesha Khan", "address": "12 Mall Road", "phone": "+923001234567",
		"email": "ayesha@example.com", "idType": "cnic", "idNumber": "35202-1234567-1",
	} {
		require.NoError(t, w.WriteField(k, v))
	}
	front, err := w.CreateFormFile("idFront", "front.jpg")
	require.NoError(t, err)
	_, _ = front.Write([]byte("front-bytes"))
	if withBack {
		back, err := w.CreateFormFile("idBack", "back.jpg")
		require.NoError(t, err)
		_, _ = back.Write([]byte("back-bytes"))
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/kyc", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func TestKYCSubmit_ForwardsFieldsAndFiles(t *testing.T) {
	svc := new(MockKYCService)
	router := newRouter(signedInHandle(t), NewKYCHandler(svc).RegisterRoutes)

	svc.On("Submit", mock.Anything, mock.Anything, mock.MatchedBy(func(sub models.KYCSubmission) bool {
		return sub.Record.Name == "Ayesha Khan" &&
			sub.Record.IDType == "cnic" &&
			string(sub.IDFront.Data) == "front-bytes" &&
			sub.IDFront.Filename == "front.jpg" &&
			string(sub.IDBack.Data) == "back-bytes"
	})).Return(&models.KYCRecord{Name: "Ayesha Khan", Status: models.KYCStatusPending}, nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, kycRequest(t, true))

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), models.KYCStatusPending)
	svc.AssertExpectations(t)
}

func TestKYCSubmit_MissingImage(t *testing.T) {
	svc := new(MockKYCService)
	router := newRouter(signedInHandle(t), NewKYCHandler(svc).RegisterRoutes)
	svc.On("Submit", mock.Anything, mock.Anything, mock.Anything).Return(nil, models.ErrKYCIncomplete)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, kycRequest(t, false))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), models.ErrKYCIncomplete.Error())
}

func TestKYCStatus_NotSubmitted(t *testing.T) {
	svc := new(MockKYCService)
	router := newRouter(signedInHandle(t), NewKYCHandler(svc).RegisterRoutes)
	svc.On("Status", mock.Anything, mock.Anything).Return(nil, nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/kyc", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":null}`, w.Body.String())
}
