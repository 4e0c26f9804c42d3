package apiclient

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Brownie44l1/sellerhub/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticToken string

func (s staticToken) BearerToken() string { return string(s) }

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewWithHTTPClient(srv.URL+"/api/", srv.Client())
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// ==============================================
// PLUMBING
// ==============================================

func TestDo_SendsBearerToken(t *testing.T) {
	var auth string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		writeJSON(w, http.StatusOK, map[string]any{"_id": "u1", "balance": 10})
	})

	_, err := c.Profile(context.Background(), staticToken("abc"))
	require.NoError(t, err)
	assert.Equal(t, "Bearer abc", auth)
}

func TestDo_AnonymousOmitsAuthorization(t *testing.T) {
	var auth []string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Values("Authorization")
		writeJSON(w, http.StatusOK, map[string]any{"token": "t"})
	})

	_, err := c.Login(context.Background(), models.RoleUser, models.LoginRequest{Email: "a@b.c", Password: "x"})
	require.NoError(t, err)
	assert.Empty(t, auth)
}

func TestDo_ErrorMessages(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantMsg string
	}{
		{"message field", http.StatusBadRequest, `{"message":"Insufficient balance"}`, "Insufficient balance"},
		{"error field", http.StatusForbidden, `{"error":"KYC required"}`, "KYC required"},
		{"no body", http.StatusInternalServerError, ``, GenericErrorMessage},
		{"html body", http.StatusBadGateway, `<html>bad gateway</html>`, GenericErrorMessage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			})

			_, err := c.MyPurchases(context.Background(), staticToken("t"))
			require.Error(t, err)
			assert.True(t, IsStatus(err, tt.status))
			assert.Equal(t, tt.wantMsg, ServerMessage(err))
		})
	}
}

func TestServerMessage_NonAPIError(t *testing.T) {
	assert.Equal(t, GenericErrorMessage, ServerMessage(context.DeadlineExceeded))
}

// ==============================================
// ENDPOINTS
// ==============================================

func TestLogin_AdminPath(t *testing.T) {
	var path string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		writeJSON(w, http.StatusOK, map[string]any{
			"token": "admintoken",
			"admin": map[string]any{"_id": "a1", "name": "Root"},
		})
	})

	resp, err := c.Login(context.Background(), models.RoleAdmin, models.LoginRequest{Email: "a@b.c", Password: "x"})
	require.NoError(t, err)
	assert.Equal(t, "/api/admin/login", path)
	assert.Equal(t, "admintoken", resp.Token)
	require.NotNil(t, resp.Profile())
	assert.Equal(t, "a1", resp.Profile().ID)
}

func TestMyTransactions_QueryAndEnvelope(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/wallet/my-transactions", r.URL.Path)
		assert.Equal(t, "withdrawal", r.URL.Query().Get("tab"))
		assert.Equal(t, "2", r.URL.Query().Get("page"))
		writeJSON(w, http.StatusOK, map[string]any{
			"transactions":        []map[string]any{{"_id": "t1", "type": "withdraw", "amount": 50, "status": "pending"}},
			"currentPage":         2,
			"totalPages":          3,
			"userBalance":         120.5,
			"withdrawableBalance": 80,
			"isRestricted":        true,
			"totalEscrow":         15,
		})
	})

	page, err := c.MyTransactions(context.Background(), staticToken("t"), models.TabWithdrawal, 2)
	require.NoError(t, err)
	require.Len(t, page.Transactions, 1)
	assert.True(t, page.Transactions[0].IsWithdrawal())
	assert.Equal(t, 3, page.TotalPages)
	assert.True(t, page.IsRestricted)
	assert.True(t, decimal.NewFromFloat(120.5).Equal(page.UserBalance))
	assert.True(t, decimal.NewFromInt(80).Equal(page.WithdrawableBalance))
}

func TestWithdraw_SendsIdempotencyKey(t *testing.T) {
	var (
		key  string
		body models.WithdrawRequest
	)
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		key = r.Header.Get("Idempotency-Key")
		_ = json.NewDecoder(r.Body).Decode(&body)
		writeJSON(w, http.StatusCreated, map[string]any{"message": "Withdrawal request submitted"})
	})

	req := models.WithdrawRequest{
		Amount:        decimal.NewFromInt(40),
		Method:        "trc20",
		AccountName:   "Crypto Wallet",
		AccountNumber: "TXabc",
	}
	resp, err := c.Withdraw(context.Background(), staticToken("t"), req, "key-1")
	require.NoError(t, err)
	assert.Equal(t, "key-1", key)
	assert.Equal(t, "Withdrawal request submitted", resp.Message)
	assert.True(t, decimal.NewFromInt(40).Equal(body.Amount))
	assert.Equal(t, "TXabc", body.AccountNumber)
}

func TestMyPurchases_AcceptsBothShapes(t *testing.T) {
	payloads := map[string]string{
		"array":   `[{"_id":"p1","status":"paid"}]`,
		"wrapped": `{"purchases":[{"_id":"p1","status":"paid"}]}`,
	}
	for name, payload := range payloads {
		t.Run(name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				_, _ = io.WriteString(w, payload)
			})

			list, err := c.MyPurchases(context.Background(), staticToken("t"))
			require.NoError(t, err)
			require.Len(t, list, 1)
			assert.Equal(t, "p1", list[0].ID)
		})
	}
}

func TestClaimAndRelease_Bodies(t *testing.T) {
	got := map[string]map[string]string{}
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var b map[string]string
		_ = json.NewDecoder(r.Body).Decode(&b)
		got[r.URL.Path] = b
		writeJSON(w, http.StatusOK, map[string]any{"message": "ok"})
	})

	_, err := c.ClaimProfit(context.Background(), staticToken("t"), "p1")
	require.NoError(t, err)
	_, err = c.ReleaseBuyerEscrow(context.Background(), staticToken("t"), "tx9")
	require.NoError(t, err)

	assert.Equal(t, "p1", got["/api/purchases/claim-profit"]["purchaseId"])
	assert.Equal(t, "tx9", got["/api/wallet/release-buyer-escrow"]["transactionId"])
}

func TestCreateInvoice(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var b map[string]any
		_ = json.NewDecoder(r.Body).Decode(&b)
		assert.Equal(t, "usdttrc20", b["pay_currency"])
		writeJSON(w, http.StatusOK, map[string]any{"invoice_url": "https://pay.example/i/1"})
	})

	inv, err := c.CreateInvoice(context.Background(), staticToken("t"), models.InvoiceRequest{
		Amount:      decimal.NewFromInt(50),
		PayCurrency: "usdttrc20",
	})
	require.NoError(t, err)
	assert.Equal(t, "https://pay.example/i/1", inv.InvoiceURL)
}

func TestSubmitKYC_Multipart(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if !assert.NoError(t, r.ParseMultipartForm(1<<20)) {
			return
		}
		assert.Equal(t, "Jane", r.FormValue("name"))
		assert.Equal(t, "passport", r.FormValue("idType"))

		f, hdr, err := r.FormFile("idFront")
		if !assert.NoError(t, err) {
			return
		}
		defer f.Close()
		data, _ := io.ReadAll(f)
		assert.Equal(t, "front.png", hdr.Filename)
		assert.Equal(t, []byte("front-bytes"), data)

		_, _, err = r.FormFile("idBack")
		assert.NoError(t, err)

		writeJSON(w, http.StatusCreated, map[string]any{"kyc": map[string]any{"name": "Jane", "status": "pending"}})
	})

	rec, err := c.SubmitKYC(context.Background(), staticToken("t"), models.KYCSubmission{
		Record:  models.KYCRecord{Name: "Jane", Address: "1 St", Phone: "123", Email: "j@x.y", IDType: "passport", IDNumber: "P1"},
		IDFront: models.KYCDocument{Filename: "front.png", ContentType: "image/png", Data: []byte("front-bytes")},
		IDBack:  models.KYCDocument{Filename: "back.png", Data: []byte("back-bytes")},
	})
	require.NoError(t, err)
	assert.Equal(t, models.KYCStatusPending, rec.Status)
}

func TestKYCStatus_NotFoundIsNil(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]any{"message": "No KYC found"})
	})

	rec, err := c.KYCStatus(context.Background(), staticToken("t"))
	require.NoError(t, err)
	assert.Nil(t, rec)
}
