package apiclient

import (
	"context"
	"net/http"

	"github.com/Brownie44l1/sellerhub/internal/models"
)

// CreateInvoice creates a crypto invoice with the payment processor.
func (c *Client) CreateInvoice(ctx context.Context, cred Credentials, req models.InvoiceRequest) (*models.Invoice, error) {
	var out models.Invoice
	if err := c.doJSON(ctx, cred, request{method: http.MethodPost, path: "/nowpayments/create", body: req}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateTracker opens a session with the redirect-based payment gateway.
func (c *Client) CreateTracker(ctx context.Context, cred Credentials, req models.TrackerRequest) (*models.Tracker, error) {
	var out models.Tracker
	if err := c.doJSON(ctx, cred, request{method: http.MethodPost, path: "/safepay/create-tracker", body: req}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
