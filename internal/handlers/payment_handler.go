package handlers

import (
	"context"
	"net/http"

	"github.com/Brownie44l1/sellerhub/internal/api/dto"
	"github.com/Brownie44l1/sellerhub/internal/service"
	"github.com/Brownie44l1/sellerhub/internal/session"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type PaymentService interface {
	Start(ctx context.Context, h *session.Handle, method string, amount decimal.Decimal) (*service.PaymentOutcome, error)
	StartOffline(ctx context.Context, h *session.Handle, method string, amount decimal.Decimal) (*service.PaymentOutcome, error)
}

type PaymentHandler struct {
	service PaymentService
}

func NewPaymentHandler(service PaymentService) *PaymentHandler {
	return &PaymentHandler{service: service}
}

// Deposit handles POST /api/v1/deposits for the online strategies. On failure the
// amount and method are echoed back so the front-end can offer a retry.
func (h *PaymentHandler) Deposit(c *gin.Context) {
	h.start(c, h.service.Start)
}

// DepositOffline handles POST /api/v1/deposits/offline
func (h *PaymentHandler) DepositOffline(c *gin.Context) {
	h.start(c, h.service.StartOffline)
}

type startFunc func(ctx context.Context, h *session.Handle, method string, amount decimal.Decimal) (*service.PaymentOutcome, error)

func (h *PaymentHandler) start(c *gin.Context, run startFunc) {
	var req dto.DepositRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request", err)
		return
	}

	out, err := run(c.Request.Context(), currentSession(c), req.Method, req.Amount)
	if err != nil {
		status, code, label := mapServiceError(err)
		c.JSON(status, gin.H{
			"error":   label,
			"code":    code,
			"message": userMessage(err),
			"amount":  req.Amount,
			"method":  req.Method,
		})
		return
	}

	status := http.StatusOK
	if out.Kind == service.OutcomeSupport {
		status = http.StatusCreated
	}
	respondSuccess(c, status, out)
}

func (h *PaymentHandler) RegisterRoutes(rg *gin.RouterGroup) {
	deposits := rg.Group("/deposits", RequireSession())
	{
		deposits.POST("", h.Deposit)
		deposits.POST("/offline", h.DepositOffline)
	}
}
