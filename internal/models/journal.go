package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// JournalEntry records one mutating call the gateway issued upstream.
type JournalEntry struct {
	ID        int64               `db:"id" json:"id"`
	ClientID  string              `db:"client_id" json:"clientId"`
	UserID    *string             `db:"user_id" json:"userId,omitempty"`
	Action    string              `db:"action" json:"action"`
	Method    *string             `db:"method" json:"method,omitempty"`
	Amount    decimal.NullDecimal `db:"amount" json:"amount"`
	Reference *string             `db:"reference" json:"reference,omitempty"`
	Status    string              `db:"status" json:"status"`
	Detail    map[string]any      `db:"detail" json:"detail,omitempty"`
	CreatedAt time.Time           `db:"created_at" json:"createdAt"`
}

// Journal actions
const (
	JournalActionWithdrawRequested = "withdraw_requested"
	JournalActionDepositRequested  = "deposit_requested"
	JournalActionInvoiceCreated    = "invoice_created"
	JournalActionTrackerCreated    = "tracker_created"
	JournalActionProfitClaimed     = "profit_claimed"
	JournalActionEscrowReleased    = "escrow_released"
	JournalActionKYCSubmitted      = "kyc_submitted"
)

// Journal statuses
const (
	JournalStatusOK     = "ok"
	JournalStatusFailed = "failed"
)
