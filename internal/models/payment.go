package models

import "github.com/shopspring/decimal"

// InvoiceRequest is the body of POST /nowpayments/create
type InvoiceRequest struct {
	Amount      decimal.Decimal `json:"amount"`
	PayCurrency string          `json:"pay_currency"`
}

// Invoice carries either a hosted invoice URL or a raw pay address.
type Invoice struct {
	PaymentID   string          `json:"payment_id,omitempty"`
	InvoiceURL  string          `json:"invoice_url,omitempty"`
	PayAddress  string          `json:"pay_address,omitempty"`
	PayAmount   decimal.Decimal `json:"pay_amount,omitempty"`
	PayCurrency string          `json:"pay_currency,omitempty"`
}

// TrackerRequest is the body of POST /safepay/create-tracker
type TrackerRequest struct {
	Amount decimal.Decimal `json:"amount"`
	Method string          `json:"method"`
}

// Tracker is the gateway session created upstream.
type Tracker struct {
	Token       string `json:"token,omitempty"`
	RedirectURL string `json:"redirectUrl"`
}
