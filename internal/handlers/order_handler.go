package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/Brownie44l1/sellerhub/internal/models"
	"github.com/Brownie44l1/sellerhub/internal/service"
	"github.com/Brownie44l1/sellerhub/internal/session"
	"github.com/gin-gonic/gin"
)

type OrderService interface {
	List(ctx context.Context, h *session.Handle) (service.Board, []models.Purchase, error)
	Watch(ctx context.Context, purchases []models.Purchase, every time.Duration) <-chan service.Board
	Claim(ctx context.Context, h *session.Handle, purchaseID string) (*service.ActionResult, error)
	Transfer(ctx context.Context, h *session.Handle, purchaseID string) (*service.ActionResult, error)
}

type OrderHandler struct {
	service OrderService
	tick    time.Duration
}

// NewOrderHandler creates the order center handler. tick is the countdown frame interval.
func NewOrderHandler(service OrderService, tick time.Duration) *OrderHandler {
	if tick <= 0 {
		tick = time.Second
	}
	return &OrderHandler{service: service, tick: tick}
}

// List handles GET /api/v1/orders
func (h *OrderHandler) List(c *gin.Context) {
	board, _, err := h.service.List(c.Request.Context(), currentSession(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, board)
}

// Stream handles GET /api/v1/orders/stream. It fetches the purchases once and then
// pushes a "board" event per tick with fresh countdowns until the client leaves.
func (h *OrderHandler) Stream(c *gin.Context) {
	ctx := c.Request.Context()
	_, purchases, err := h.service.List(ctx, currentSession(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.Header("Cache-Control", "no-cache")
	c.Header("X-Accel-Buffering", "no")

	frames := h.service.Watch(ctx, purchases, h.tick)
	for {
		select {
		case <-ctx.Done():
			return
		case board, ok := <-frames:
			if !ok {
				return
			}
			c.SSEvent("board", board)
			c.Writer.Flush()
		}
	}
}

// Claim handles POST /api/v1/orders/:id/claim
func (h *OrderHandler) Claim(c *gin.Context) {
	res, err := h.service.Claim(c.Request.Context(), currentSession(c), c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, res)
}

// Transfer handles POST /api/v1/orders/:id/transfer
func (h *OrderHandler) Transfer(c *gin.Context) {
	res, err := h.service.Transfer(c.Request.Context(), currentSession(c), c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, res)
}

func (h *OrderHandler) RegisterRoutes(rg *gin.RouterGroup) {
	orders := rg.Group("/orders", RequireSession())
	{
		orders.GET("", h.List)
		orders.GET("/stream", h.Stream)
		orders.POST("/:id/claim", h.Claim)
		orders.POST("/:id/transfer", h.Transfer)
	}
}
