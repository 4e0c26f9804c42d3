package dto

import "github.com/Brownie44l1/sellerhub/internal/models"

// CartItemRequest - POST/PATCH /cart
type CartItemRequest struct {
	ProductRef string `json:"productRef" binding:"required"`
	Quantity   int    `json:"quantity"`
}

// WishlistRequest - POST /wishlist
type WishlistRequest struct {
	ProductRef string `json:"productRef" binding:"required"`
}

// WishlistResponse - Wishlist after a toggle
type WishlistResponse struct {
	Added bool                  `json:"added"`
	Items []models.WishlistItem `json:"items"`
}

// AnnouncementResponse - Whether the announcement was already shown
type AnnouncementResponse struct {
	Shown bool `json:"shown"`
}
