package handlers

import (
	"context"
	"net/http"

	"github.com/Brownie44l1/sellerhub/internal/api/dto"
	"github.com/Brownie44l1/sellerhub/internal/models"
	"github.com/gin-gonic/gin"
)

type CartService interface {
	Cart(ctx context.Context, clientID string) ([]models.CartItem, error)
	AddToCart(ctx context.Context, clientID, productRef string, quantity int) ([]models.CartItem, error)
	UpdateQuantity(ctx context.Context, clientID, productRef string, quantity int) ([]models.CartItem, error)
	RemoveFromCart(ctx context.Context, clientID, productRef string) ([]models.CartItem, error)
	ClearCart(ctx context.Context, clientID string) error
	Wishlist(ctx context.Context, clientID string) ([]models.WishlistItem, error)
	ToggleWishlist(ctx context.Context, clientID, productRef string) (bool, []models.WishlistItem, error)
	AnnouncementShown(ctx context.Context, clientID string) (bool, error)
	MarkAnnouncementShown(ctx context.Context, clientID string) error
}

// CartHandler serves client-only storage. It works for anonymous clients too.
type CartHandler struct {
	service CartService
}

func NewCartHandler(service CartService) *CartHandler {
	return &CartHandler{service: service}
}

// GetCart handles GET /api/v1/cart
func (h *CartHandler) GetCart(c *gin.Context) {
	items, err := h.service.Cart(c.Request.Context(), c.GetString(clientIDKey))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, items)
}

// AddToCart handles POST /api/v1/cart
func (h *CartHandler) AddToCart(c *gin.Context) {
	var req dto.CartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request", err)
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}
	items, err := h.service.AddToCart(c.Request.Context(), c.GetString(clientIDKey), req.ProductRef, req.Quantity)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, items)
}

// UpdateCart handles PATCH /api/v1/cart
func (h *CartHandler) UpdateCart(c *gin.Context) {
	var req dto.CartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request", err)
		return
	}
	items, err := h.service.UpdateQuantity(c.Request.Context(), c.GetString(clientIDKey), req.ProductRef, req.Quantity)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, items)
}

// DeleteFromCart handles DELETE /api/v1/cart?productRef= ; without productRef the
// whole cart is cleared.
func (h *CartHandler) DeleteFromCart(c *gin.Context) {
	clientID := c.GetString(clientIDKey)
	ref := c.Query("productRef")
	if ref == "" {
		if err := h.service.ClearCart(c.Request.Context(), clientID); err != nil {
			respondServiceError(c, err)
			return
		}
		respondSuccess(c, http.StatusOK, []models.CartItem{})
		return
	}
	items, err := h.service.RemoveFromCart(c.Request.Context(), clientID, ref)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, items)
}

// GetWishlist handles GET /api/v1/wishlist
func (h *CartHandler) GetWishlist(c *gin.Context) {
	items, err := h.service.Wishlist(c.Request.Context(), c.GetString(clientIDKey))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, items)
}

// ToggleWishlist handles POST /api/v1/wishlist
func (h *CartHandler) ToggleWishlist(c *gin.Context) {
	var req dto.WishlistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request", err)
		return
	}
	added, items, err := h.service.ToggleWishlist(c.Request.Context(), c.GetString(clientIDKey), req.ProductRef)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, dto.WishlistResponse{Added: added, Items: items})
}

// GetAnnouncement handles GET /api/v1/announcement
func (h *CartHandler) GetAnnouncement(c *gin.Context) {
	shown, err := h.service.AnnouncementShown(c.Request.Context(), c.GetString(clientIDKey))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, dto.AnnouncementResponse{Shown: shown})
}

// MarkAnnouncement handles POST /api/v1/announcement
func (h *CartHandler) MarkAnnouncement(c *gin.Context) {
	if err := h.service.MarkAnnouncementShown(c.Request.Context(), c.GetString(clientIDKey)); err != nil {
		respondServiceError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, dto.AnnouncementResponse{Shown: true})
}

func (h *CartHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/cart", h.GetCart)
	rg.POST("/cart", h.AddToCart)
	rg.PATCH("/cart", h.UpdateCart)
	rg.DELETE("/cart", h.DeleteFromCart)
	rg.GET("/wishlist", h.GetWishlist)
	rg.POST("/wishlist", h.ToggleWishlist)
	rg.GET("/announcement", h.GetAnnouncement)
	rg.POST("/announcement", h.MarkAnnouncement)
}
