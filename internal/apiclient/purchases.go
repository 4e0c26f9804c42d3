package apiclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/Brownie44l1/sellerhub/internal/models"
)

// MyPurchases lists the signed-in user's purchases. The API has returned both a bare
// array and a {"purchases": [...]} object; both are accepted.
func (c *Client) MyPurchases(ctx context.Context, cred Credentials) ([]models.Purchase, error) {
	var raw json.RawMessage
	if err := c.doJSON(ctx, cred, request{method: http.MethodGet, path: "/purchases/my"}, &raw); err != nil {
		return nil, err
	}
	return decodePurchases(raw)
}

func decodePurchases(raw json.RawMessage) ([]models.Purchase, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var list []models.Purchase
	if raw[0] == '[' {
		if err := json.Unmarshal(raw, &list); err != nil {
			return nil, fmt.Errorf("decode purchases: %w", err)
		}
		return list, nil
	}
	var wrapped models.PurchaseList
	if err := json.Unmarshal(raw, &wrapped); err != nil {
		return nil, fmt.Errorf("decode purchases: %w", err)
	}
	return wrapped.Purchases, nil
}

// ClaimProfit asks the server to convert a matured purchase's profit.
func (c *Client) ClaimProfit(ctx context.Context, cred Credentials, purchaseID string) (*models.MutationResponse, error) {
	var out models.MutationResponse
	body := models.ClaimProfitRequest{PurchaseID: purchaseID}
	if err := c.doJSON(ctx, cred, request{method: http.MethodPost, path: "/purchases/claim-profit", body: body}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
