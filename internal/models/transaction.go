package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// The remote API speaks JSON numbers for money.
func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// ==============================================
// TRANSACTION MODELS
// ==============================================

// Transaction is the client-side copy of a remote ledger row. It is never mutated
// locally; status transitions are observed by re-fetching.
type Transaction struct {
	ID            string              `json:"_id"`
	Type          string              `json:"type"`
	Amount        decimal.Decimal     `json:"amount"`
	Fee           decimal.NullDecimal `json:"fee"`
	NetAmount     decimal.NullDecimal `json:"netAmount"`
	Status        string              `json:"status"`
	Method        string              `json:"method,omitempty"`
	AccountName   string              `json:"accountName,omitempty"`
	AccountNumber string              `json:"accountNumber,omitempty"`
	OrderID       string              `json:"orderId,omitempty"`
	CreatedAt     time.Time           `json:"createdAt"`
}

// IsWithdrawal reports whether the row is a withdrawal request.
func (t *Transaction) IsWithdrawal() bool {
	return t.Type == TransactionTypeWithdraw || t.Type == TransactionTypeWithdrawal
}

// IsPending checks if the transaction still awaits admin action
func (t *Transaction) IsPending() bool {
	return t.Status == TransactionStatusPending
}

// Transaction types reported by the API
const (
	TransactionTypeDeposit    = "deposit"
	TransactionTypeWithdraw   = "withdraw"
	TransactionTypeWithdrawal = "withdrawal"
	TransactionTypeBonus      = "bonus"
	TransactionTypeProfit     = "profit"
	TransactionTypeTransfer   = "transfer"
	TransactionTypeCommission = "commission"
)

// Transaction statuses
const (
	TransactionStatusPending  = "pending"
	TransactionStatusApproved = "approved"
	TransactionStatusRejected = "rejected"
)

// ==============================================
// WALLET TABS
// ==============================================

// Tab scopes the transaction list server-side.
type Tab string

const (
	TabAccount    Tab = "account"
	TabDeposit    Tab = "deposit"
	TabWithdrawal Tab = "withdrawal"
)

// ParseTab validates a tab query value. Empty means the account tab.
func ParseTab(s string) (Tab, error) {
	switch Tab(s) {
	case "":
		return TabAccount, nil
	case TabAccount, TabDeposit, TabWithdrawal:
		return Tab(s), nil
	default:
		return "", ErrInvalidTab
	}
}

// ==============================================
// WALLET ENVELOPE
// ==============================================

// TransactionPage is the envelope returned by GET /wallet/my-transactions. The balance
// snapshot travels with the page and is not fetchable on its own.
type TransactionPage struct {
	Transactions        []Transaction   `json:"transactions"`
	CurrentPage         int             `json:"currentPage"`
	TotalPages          int             `json:"totalPages"`
	UserBalance         decimal.Decimal `json:"userBalance"`
	WithdrawableBalance decimal.Decimal `json:"withdrawableBalance"`
	IsRestricted        bool            `json:"isRestricted"`
	TotalEscrow         decimal.Decimal `json:"totalEscrow"`
}

// Balances is the balance part of the envelope.
type Balances struct {
	UserBalance         decimal.Decimal `json:"userBalance"`
	WithdrawableBalance decimal.Decimal `json:"withdrawableBalance"`
	IsRestricted        bool            `json:"isRestricted"`
	TotalEscrow         decimal.Decimal `json:"totalEscrow"`
}

// Balances extracts the balance snapshot from the page.
func (p *TransactionPage) Balances() Balances {
	return Balances{
		UserBalance:         p.UserBalance,
		WithdrawableBalance: p.WithdrawableBalance,
		IsRestricted:        p.IsRestricted,
		TotalEscrow:         p.TotalEscrow,
	}
}

// ==============================================
// REQUEST BODIES (upstream)
// ==============================================

// WithdrawRequest is the body of POST /wallet/withdraw
type WithdrawRequest struct {
	Amount        decimal.Decimal `json:"amount"`
	Method        string          `json:"method"`
	AccountName   string          `json:"accountName"`
	AccountNumber string          `json:"accountNumber"`
}

// DepositRequest is the body of POST /wallet/deposit (offline flow only)
type DepositRequest struct {
	Amount decimal.Decimal `json:"amount"`
	Method string          `json:"method"`
}

// MutationResponse is the common shape of wallet/purchase mutations.
type MutationResponse struct {
	Message     string       `json:"message"`
	Transaction *Transaction `json:"transaction,omitempty"`
	User        *UserProfile `json:"user,omitempty"`
}
