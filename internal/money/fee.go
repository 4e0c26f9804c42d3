// Package money holds the withdrawal fee rule shared by the wallet ledger view and
// the withdraw flow. Both must use WithdrawalFee so displayed and validated values agree.
package money

import "github.com/shopspring/decimal"

var (
	// WithdrawalFeeRate is the platform fee charged on withdrawals (3.8%).
	WithdrawalFeeRate = decimal.RequireFromString("0.038")

	// MinWithdrawal is the smallest withdrawal the platform accepts.
	MinWithdrawal = decimal.NewFromInt(30)
)

// Fee is the result of applying the withdrawal fee to an amount.
type Fee struct {
	Amount decimal.Decimal `json:"amount"`
	Fee    decimal.Decimal `json:"fee"`
	Net    decimal.Decimal `json:"netAmount"`
}

// WithdrawalFee returns fee = round(amount*0.038, 2) and net = round(amount-fee, 2),
// rounding half up on the cent.
func WithdrawalFee(amount decimal.Decimal) Fee {
	fee := RoundCents(amount.Mul(WithdrawalFeeRate))
	return Fee{
		Amount: amount,
		Fee:    fee,
		Net:    RoundCents(amount.Sub(fee)),
	}
}

// RoundCents rounds to two decimal places, half up.
func RoundCents(d decimal.Decimal) decimal.Decimal {
	// decimal.Round is half away from zero; money here is never negative.
	return d.Round(2)
}
