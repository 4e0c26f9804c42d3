package dto

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// ==============================================
// WALLET REQUEST DTOs
// ==============================================

// WalletQuery - GET /wallet
type WalletQuery struct {
	Tab  string `form:"tab"`
	Page int    `form:"page" binding:"omitempty,min=1"`
}

// RawAmount accepts a JSON number or string and keeps the text, so an empty field
// can be told apart from zero.
type RawAmount string

func (a *RawAmount) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*a = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*a = RawAmount(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("amount must be a number: %w", err)
	}
	*a = RawAmount(n.String())
	return nil
}

// WithdrawRequest - POST /wallet/withdraw. Field checks happen in the service so the
// rule order stays in one place.
type WithdrawRequest struct {
	WithdrawalAddress string    `json:"withdrawalAddress"`
	Amount            RawAmount `json:"amount"`
	Method            string    `json:"method"`
}

// WithdrawPreviewQuery - GET /wallet/withdraw/preview
type WithdrawPreviewQuery struct {
	Amount string `form:"amount" binding:"required"`
}

// DepositRequest - POST /deposits and /deposits/offline
type DepositRequest struct {
	Amount decimal.Decimal `json:"amount"`
	Method string          `json:"method" binding:"required"`
}

// ==============================================
// WALLET RESPONSE DTOs
// ==============================================

// WithdrawPreviewResponse - Fee shown before submission
type WithdrawPreviewResponse struct {
	Amount       decimal.Decimal `json:"amount"`
	Fee          decimal.Decimal `json:"fee"`
	NetAmount    decimal.Decimal `json:"netAmount"`
	MaxAvailable decimal.Decimal `json:"maxAvailable"`
	Minimum      decimal.Decimal `json:"minimum"`
}
