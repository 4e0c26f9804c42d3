package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/Brownie44l1/sellerhub/internal/apiclient"
	"github.com/Brownie44l1/sellerhub/internal/models"
	"github.com/Brownie44l1/sellerhub/internal/session"
	"github.com/Brownie44l1/sellerhub/internal/store"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

// ==============================================
// MOCK API
// ==============================================

type MockAPI struct {
	mu    sync.Mutex
	calls []string

	LoginFunc              func(ctx context.Context, role models.Role, req models.LoginRequest) (*models.LoginResponse, error)
	ProfileFunc            func(ctx context.Context, cred apiclient.Credentials) (*models.UserProfile, error)
	MyTransactionsFunc     func(ctx context.Context, cred apiclient.Credentials, tab models.Tab, page int) (*models.TransactionPage, error)
	WithdrawFunc           func(ctx context.Context, cred apiclient.Credentials, req models.WithdrawRequest, key string) (*models.MutationResponse, error)
	DepositFunc            func(ctx context.Context, cred apiclient.Credentials, req models.DepositRequest) (*models.MutationResponse, error)
	CreateInvoiceFunc      func(ctx context.Context, cred apiclient.Credentials, req models.InvoiceRequest) (*models.Invoice, error)
	CreateTrackerFunc      func(ctx context.Context, cred apiclient.Credentials, req models.TrackerRequest) (*models.Tracker, error)
	MyPurchasesFunc        func(ctx context.Context, cred apiclient.Credentials) ([]models.Purchase, error)
	ClaimProfitFunc        func(ctx context.Context, cred apiclient.Credentials, purchaseID string) (*models.MutationResponse, error)
	ReleaseBuyerEscrowFunc func(ctx context.Context, cred apiclient.Credentials, transactionID string) (*models.MutationResponse, error)
	SubmitKYCFunc          func(ctx context.Context, cred apiclient.Credentials, sub models.KYCSubmission) (*models.KYCRecord, error)
	KYCStatusFunc          func(ctx context.Context, cred apiclient.Credentials) (*models.KYCRecord, error)
}

var errNotImplemented = errors.New("not implemented")

func (m *MockAPI) track(name string) {
	m.mu.Lock()
	m.calls = append(m.calls, name)
	m.mu.Unlock()
}

// Calls returns the names of the endpoints hit so far.
func (m *MockAPI) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}

func (m *MockAPI) Login(ctx context.Context, role models.Role, req models.LoginRequest) (*models.LoginResponse, error) {
	m.track("Login")
	if m.LoginFunc != nil {
		return m.LoginFunc(ctx, role, req)
	}
	return nil, errNotImplemented
}

func (m *MockAPI) Profile(ctx context.Context, cred apiclient.Credentials) (*models.UserProfile, error) {
	m.track("Profile")
	if m.ProfileFunc != nil {
		return m.ProfileFunc(ctx, cred)
	}
	return nil, errNotImplemented
}

func (m *MockAPI) MyTransactions(ctx context.Context, cred apiclient.Credentials, tab models.Tab, page int) (*models.TransactionPage, error) {
	m.track("MyTransactions")
	if m.MyTransactionsFunc != nil {
		return m.MyTransactionsFunc(ctx, cred, tab, page)
	}
	return nil, errNotImplemented
}

func (m *MockAPI) Withdraw(ctx context.Context, cred apiclient.Credentials, req models.WithdrawRequest, key string) (*models.MutationResponse, error) {
	m.track("Withdraw")
	if m.WithdrawFunc != nil {
		return m.WithdrawFunc(ctx, cred, req, key)
	}
	return nil, errNotImplemented
}

func (m *MockAPI) Deposit(ctx context.Context, cred apiclient.Credentials, req models.DepositRequest) (*models.MutationResponse, error) {
	m.track("Deposit")
	if m.DepositFunc != nil {
		return m.DepositFunc(ctx, cred, req)
	}
	return nil, errNotImplemented
}

func (m *MockAPI) CreateInvoice(ctx context.Context, cred apiclient.Credentials, req models.InvoiceRequest) (*models.Invoice, error) {
	m.track("CreateInvoice")
	if m.CreateInvoiceFunc != nil {
		return m.CreateInvoiceFunc(ctx, cred, req)
	}
	return nil, errNotImplemented
}

func (m *MockAPI) CreateTracker(ctx context.Context, cred apiclient.Credentials, req models.TrackerRequest) (*models.Tracker, error) {
	m.track("CreateTracker")
	if m.CreateTrackerFunc != nil {
		return m.CreateTrackerFunc(ctx, cred, req)
	}
	return nil, errNotImplemented
}

func (m *MockAPI) MyPurchases(ctx context.Context, cred apiclient.Credentials) ([]models.Purchase, error) {
	m.track("MyPurchases")
	if m.MyPurchasesFunc != nil {
		return m.MyPurchasesFunc(ctx, cred)
	}
	return nil, errNotImplemented
}

func (m *MockAPI) ClaimProfit(ctx context.Context, cred apiclient.Credentials, purchaseID string) (*models.MutationResponse, error) {
	m.track("ClaimProfit")
	if m.ClaimProfitFunc != nil {
		return m.ClaimProfitFunc(ctx, cred, purchaseID)
	}
	return nil, errNotImplemented
}

func (m *MockAPI) ReleaseBuyerEscrow(ctx context.Context, cred apiclient.Credentials, transactionID string) (*models.MutationResponse, error) {
	m.track("ReleaseBuyerEscrow")
	if m.ReleaseBuyerEscrowFunc != nil {
		return m.ReleaseBuyerEscrowFunc(ctx, cred, transactionID)
	}
	return nil, errNotImplemented
}

func (m *MockAPI) SubmitKYC(ctx context.Context, cred apiclient.Credentials, sub models.KYCSubmission) (*models.KYCRecord, error) {
	m.track("SubmitKYC")
	if m.SubmitKYCFunc != nil {
		return m.SubmitKYCFunc(ctx, cred, sub)
	}
	return nil, errNotImplemented
}

func (m *MockAPI) KYCStatus(ctx context.Context, cred apiclient.Credentials) (*models.KYCRecord, error) {
	m.track("KYCStatus")
	if m.KYCStatusFunc != nil {
		return m.KYCStatusFunc(ctx, cred)
	}
	return nil, errNotImplemented
}

// ==============================================
// MOCK JOURNAL
// ==============================================

type MockJournal struct {
	mu      sync.Mutex
	Entries []models.JournalEntry
	Err     error
}

func (j *MockJournal) Record(_ context.Context, e *models.JournalEntry) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Entries = append(j.Entries, *e)
	return j.Err
}

// ==============================================
// HELPERS
// ==============================================

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// signedIn returns a handle logged in through the real session manager with the given
// profile balance.
func signedIn(t *testing.T, api *MockAPI, balance string) (*session.Handle, *session.Manager) {
	t.Helper()
	if api.LoginFunc == nil {
		api.LoginFunc = func(ctx context.Context, role models.Role, req models.LoginRequest) (*models.LoginResponse, error) {
			return &models.LoginResponse{Token: "tok", User: &models.UserProfile{ID: "u1", Balance: dec(balance)}}, nil
		}
	}
	mgr := session.NewManager(api, store.NewMemoryStore(time.Hour))
	h := session.NewHandle("client-1")
	require.NoError(t, mgr.Login(context.Background(), h, models.RoleUser, models.LoginRequest{Email: "a@b.c", Password: "pw"}))
	return h, mgr
}
