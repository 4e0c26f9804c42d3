package handlers

import (
	"bytes"
	"context"
	"io"
	"testing"
	"time"

	"github.com/Brownie44l1/sellerhub/internal/apiclient"
	"github.com/Brownie44l1/sellerhub/internal/models"
	"github.com/Brownie44l1/sellerhub/internal/money"
	"github.com/Brownie44l1/sellerhub/internal/service"
	"github.com/Brownie44l1/sellerhub/internal/session"
	"github.com/Brownie44l1/sellerhub/internal/store"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// ==============================================
// MOCK SERVICES
// ==============================================

type MockWalletViews struct {
	mock.Mock
}

func (m *MockWalletViews) Load(ctx context.Context, h *session.Handle, tab models.Tab, page int) (service.WalletSnapshot, error) {
	args := m.Called(ctx, h, tab, page)
	return args.Get(0).(service.WalletSnapshot), args.Error(1)
}

type MockWithdrawService struct {
	mock.Mock
}

func (m *MockWithdrawService) Preview(amount decimal.Decimal) money.Fee {
	return money.WithdrawalFee(amount)
}

func (m *MockWithdrawService) Limits(ctx context.Context, h *session.Handle) (service.Limits, error) {
	args := m.Called(ctx, h)
	return args.Get(0).(service.Limits), args.Error(1)
}

func (m *MockWithdrawService) Submit(ctx context.Context, h *session.Handle, form service.WithdrawForm) (*service.WithdrawResult, error) {
	args := m.Called(ctx, h, form)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.WithdrawResult), args.Error(1)
}

type MockPaymentService struct {
	mock.Mock
}

func (m *MockPaymentService) Start(ctx context.Context, h *session.Handle, method string, amount decimal.Decimal) (*service.PaymentOutcome, error) {
	args := m.Called(ctx, h, method, amount.String())
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.PaymentOutcome), args.Error(1)
}

func (m *MockPaymentService) StartOffline(ctx context.Context, h *session.Handle, method string, amount decimal.Decimal) (*service.PaymentOutcome, error) {
	args := m.Called(ctx, h, method, amount.String())
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.PaymentOutcome), args.Error(1)
}

type MockOrderService struct {
	mock.Mock
}

func (m *MockOrderService) List(ctx context.Context, h *session.Handle) (service.Board, []models.Purchase, error) {
	args := m.Called(ctx, h)
	purchases, _ := args.Get(1).([]models.Purchase)
	return args.Get(0).(service.Board), purchases, args.Error(2)
}

func (m *MockOrderService) Watch(ctx context.Context, purchases []models.Purchase, every time.Duration) <-chan service.Board {
	args := m.Called(ctx, purchases, every)
	return args.Get(0).(<-chan service.Board)
}

func (m *MockOrderService) Claim(ctx context.Context, h *session.Handle, purchaseID string) (*service.ActionResult, error) {
	args := m.Called(ctx, h, purchaseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ActionResult), args.Error(1)
}

func (m *MockOrderService) Transfer(ctx context.Context, h *session.Handle, purchaseID string) (*service.ActionResult, error) {
	args := m.Called(ctx, h, purchaseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ActionResult), args.Error(1)
}

type MockSessionService struct {
	mock.Mock
}

func (m *MockSessionService) Login(ctx context.Context, h *session.Handle, role models.Role, req models.LoginRequest) error {
	return m.Called(ctx, h, role, req).Error(0)
}

func (m *MockSessionService) Logout(ctx context.Context, h *session.Handle) error {
	return m.Called(ctx, h).Error(0)
}

func (m *MockSessionService) RefreshProfile(ctx context.Context, h *session.Handle) (*models.UserProfile, error) {
	args := m.Called(ctx, h)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.UserProfile), args.Error(1)
}

type MockViewForgetter struct {
	mock.Mock
}

func (m *MockViewForgetter) Forget(clientID string) {
	m.Called(clientID)
}

type MockJournalReader struct {
	mock.Mock
}

func (m *MockJournalReader) ListByUser(ctx context.Context, userID string, limit int) ([]models.JournalEntry, error) {
	args := m.Called(ctx, userID, limit)
	entries, _ := args.Get(0).([]models.JournalEntry)
	return entries, args.Error(1)
}

// ==============================================
// TEST SETUP
// ==============================================

// loginAPI answers the login endpoint with a fixed token and user. The zero value
// signs in as u1.
type loginAPI struct {
	user *models.UserProfile
}

func (l loginAPI) profile() *models.UserProfile {
	if l.user != nil {
		return l.user
	}
	return &models.UserProfile{ID: "u1", Name: "Ayesha"}
}

func (l loginAPI) Login(context.Context, models.Role, models.LoginRequest) (*models.LoginResponse, error) {
	return &models.LoginResponse{Token: "tok", User: l.profile()}, nil
}

func (l loginAPI) Profile(context.Context, apiclient.Credentials) (*models.UserProfile, error) {
	return l.profile(), nil
}

const testClientID = "client-1"

func signedInHandle(t *testing.T) *session.Handle {
	t.Helper()
	return signedInAs(t, loginAPI{})
}

// signedInAs logs testClientID in through api, so several users can share one browser.
func signedInAs(t *testing.T, api loginAPI) *session.Handle {
	t.Helper()
	mgr := session.NewManager(api, store.NewMemoryStore(time.Hour))
	h := session.NewHandle(testClientID)
	require.NoError(t, mgr.Login(context.Background(), h, models.RoleUser, models.LoginRequest{Email: "a@b.c", Password: "pw"}))
	return h
}

// newRouter mounts routes under /api/v1 with h attached as the request's session.
// A nil h leaves the request anonymous.
func newRouter(h *session.Handle, register func(rg *gin.RouterGroup)) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	rg := router.Group("/api/v1", func(c *gin.Context) {
		c.Set(clientIDKey, testClientID)
		if h != nil {
			c.Set(sessionKey, h)
		}
		c.Next()
	})
	register(rg)
	return router
}

func jsonBody(s string) io.Reader {
	return bytes.NewBufferString(s)
}
