package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Purchase statuses
const (
	PurchaseStatusToBePaid  = "to_be_paid"
	PurchaseStatusPaid      = "paid"
	PurchaseStatusCancelled = "cancelled"
)

// EscrowStatusApproved marks an escrow that has already been released.
const EscrowStatusApproved = "approved"

// ProductRef is the product summary embedded in a purchase.
type ProductRef struct {
	ID    string          `json:"_id"`
	Name  string          `json:"name"`
	Image string          `json:"image,omitempty"`
	Price decimal.Decimal `json:"price"`
}

// Purchase is a client-observed order; the server owns every transition.
type Purchase struct {
	ID                       string          `json:"_id"`
	Product                  ProductRef      `json:"product"`
	Amount                   decimal.Decimal `json:"amount"`
	Status                   string          `json:"status"`
	CreatedAt                time.Time       `json:"createdAt"`
	EscrowStatus             string          `json:"escrowStatus,omitempty"`
	BuyerEscrowTransactionID *string         `json:"buyerEscrowTransactionId"`
	PaymentClaimedAt         *time.Time      `json:"paymentClaimedAt,omitempty"`
}

// EscrowReleased reports whether the escrow transfer already happened.
func (p *Purchase) EscrowReleased() bool {
	return p.EscrowStatus == EscrowStatusApproved
}

// HasEscrowTransaction reports whether the purchase references a buyer escrow row.
func (p *Purchase) HasEscrowTransaction() bool {
	return p.BuyerEscrowTransactionID != nil && *p.BuyerEscrowTransactionID != ""
}

// PurchaseList is the body of GET /purchases/my
type PurchaseList struct {
	Purchases []Purchase `json:"purchases"`
}

// ClaimProfitRequest is the body of POST /purchases/claim-profit
type ClaimProfitRequest struct {
	PurchaseID string `json:"purchaseId"`
}

// ReleaseEscrowRequest is the body of POST /wallet/release-buyer-escrow
type ReleaseEscrowRequest struct {
	TransactionID string `json:"transactionId"`
}
