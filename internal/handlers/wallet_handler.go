package handlers

import (
	"context"
	"net/http"

	"github.com/Brownie44l1/sellerhub/internal/api/dto"
	"github.com/Brownie44l1/sellerhub/internal/models"
	"github.com/Brownie44l1/sellerhub/internal/money"
	"github.com/Brownie44l1/sellerhub/internal/service"
	"github.com/Brownie44l1/sellerhub/internal/session"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// ==============================================
// SERVICE INTERFACES (for testing)
// ==============================================

type WalletViewService interface {
	Load(ctx context.Context, h *session.Handle, tab models.Tab, page int) (service.WalletSnapshot, error)
}

type WithdrawService interface {
	Preview(amount decimal.Decimal) money.Fee
	Limits(ctx context.Context, h *session.Handle) (service.Limits, error)
	Submit(ctx context.Context, h *session.Handle, form service.WithdrawForm) (*service.WithdrawResult, error)
}

// ==============================================
// HANDLER (HTTP Layer ONLY)
// ==============================================

type WalletHandler struct {
	views    WalletViewService
	withdraw WithdrawService
}

func NewWalletHandler(views WalletViewService, withdraw WithdrawService) *WalletHandler {
	return &WalletHandler{views: views, withdraw: withdraw}
}

// ==============================================
// ENDPOINTS
// ==============================================

// GetWallet handles GET /api/v1/wallet?tab=&page=
func (h *WalletHandler) GetWallet(c *gin.Context) {
	var q dto.WalletQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid query", err)
		return
	}
	tab, err := models.ParseTab(q.Tab)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	snap, err := h.views.Load(c.Request.Context(), currentSession(c), tab, q.Page)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, snap)
}

// PreviewWithdraw handles GET /api/v1/wallet/withdraw/preview?amount=
func (h *WalletHandler) PreviewWithdraw(c *gin.Context) {
	var q dto.WithdrawPreviewQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid query", err)
		return
	}
	amount, err := decimal.NewFromString(q.Amount)
	if err != nil || !amount.IsPositive() {
		respondServiceError(c, models.ErrInvalidAmount)
		return
	}

	limits, err := h.withdraw.Limits(c.Request.Context(), currentSession(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	fee := h.withdraw.Preview(amount)
	respondSuccess(c, http.StatusOK, dto.WithdrawPreviewResponse{
		Amount:       fee.Amount,
		Fee:          fee.Fee,
		NetAmount:    fee.Net,
		MaxAvailable: limits.MaxAvailable(),
		Minimum:      money.MinWithdrawal,
	})
}

// Withdraw handles POST /api/v1/wallet/withdraw
func (h *WalletHandler) Withdraw(c *gin.Context) {
	var req dto.WithdrawRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request", err)
		return
	}

	resp, err := h.withdraw.Submit(c.Request.Context(), currentSession(c), service.WithdrawForm{
		WithdrawalAddress: req.WithdrawalAddress,
		Amount:            string(req.Amount),
		Method:            req.Method,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondSuccess(c, http.StatusCreated, resp)
}

// ==============================================
// ROUTE REGISTRATION
// ==============================================

func (h *WalletHandler) RegisterRoutes(rg *gin.RouterGroup) {
	wallet := rg.Group("/wallet", RequireSession())
	{
		wallet.GET("", h.GetWallet)
		wallet.GET("/withdraw/preview", h.PreviewWithdraw)
		wallet.POST("/withdraw", h.Withdraw)
	}
}
