package apiclient

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/Brownie44l1/sellerhub/internal/models"
)

// MyTransactions fetches one page of the ledger together with the balance snapshot.
func (c *Client) MyTransactions(ctx context.Context, cred Credentials, tab models.Tab, page int) (*models.TransactionPage, error) {
	q := url.Values{}
	q.Set("tab", string(tab))
	q.Set("page", strconv.Itoa(page))

	var out models.TransactionPage
	if err := c.doJSON(ctx, cred, request{method: http.MethodGet, path: "/wallet/my-transactions", query: q}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Deposit records a pending offline deposit.
func (c *Client) Deposit(ctx context.Context, cred Credentials, req models.DepositRequest) (*models.MutationResponse, error) {
	var out models.MutationResponse
	if err := c.doJSON(ctx, cred, request{method: http.MethodPost, path: "/wallet/deposit", body: req}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Withdraw submits a withdrawal request. idempotencyKey may be empty.
func (c *Client) Withdraw(ctx context.Context, cred Credentials, req models.WithdrawRequest, idempotencyKey string) (*models.MutationResponse, error) {
	r := request{method: http.MethodPost, path: "/wallet/withdraw", body: req}
	if idempotencyKey != "" {
		r.headers = map[string]string{"Idempotency-Key": idempotencyKey}
	}
	var out models.MutationResponse
	if err := c.doJSON(ctx, cred, r, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ReleaseBuyerEscrow transfers a purchase's escrow to the seller's balance.
func (c *Client) ReleaseBuyerEscrow(ctx context.Context, cred Credentials, transactionID string) (*models.MutationResponse, error) {
	var out models.MutationResponse
	body := models.ReleaseEscrowRequest{TransactionID: transactionID}
	if err := c.doJSON(ctx, cred, request{method: http.MethodPost, path: "/wallet/release-buyer-escrow", body: body}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
