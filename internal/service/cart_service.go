package service

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/Brownie44l1/sellerhub/internal/models"
	"github.com/Brownie44l1/sellerhub/internal/store"
)

// CartService keeps cart, wishlist and the announcement flag in client storage.
// None of it reaches the API until checkout.
type CartService struct {
	store store.Store

	// serializes read-modify-write per process
	mu sync.Mutex
}

func NewCartService(st store.Store) *CartService {
	return &CartService{store: st}
}

// ==============================================
// CART
// ==============================================

func (s *CartService) Cart(ctx context.Context, clientID string) ([]models.CartItem, error) {
	items := []models.CartItem{}
	if err := s.load(ctx, clientID, models.StorageKeyCart, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// AddToCart adds quantity to an existing line or appends a new one.
func (s *CartService) AddToCart(ctx context.Context, clientID, productRef string, quantity int) ([]models.CartItem, error) {
	productRef = strings.TrimSpace(productRef)
	if productRef == "" {
		return nil, models.ErrMissingProduct
	}
	if quantity < 1 {
		return nil, models.ErrInvalidQuantity
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.Cart(ctx, clientID)
	if err != nil {
		return nil, err
	}
	found := false
	for i := range items {
		if items[i].ProductRef == productRef {
			items[i].Quantity += quantity
			found = true
			break
		}
	}
	if !found {
		items = append(items, models.CartItem{ProductRef: productRef, Quantity: quantity})
	}
	return items, s.store.Set(ctx, clientID, models.StorageKeyCart, items)
}

// UpdateQuantity sets a line's quantity. Zero or less removes the line.
func (s *CartService) UpdateQuantity(ctx context.Context, clientID, productRef string, quantity int) ([]models.CartItem, error) {
	if quantity < 1 {
		return s.RemoveFromCart(ctx, clientID, productRef)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.Cart(ctx, clientID)
	if err != nil {
		return nil, err
	}
	for i := range items {
		if items[i].ProductRef == productRef {
			items[i].Quantity = quantity
			return items, s.store.Set(ctx, clientID, models.StorageKeyCart, items)
		}
	}
	return nil, models.ErrMissingProduct
}

func (s *CartService) RemoveFromCart(ctx context.Context, clientID, productRef string) ([]models.CartItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.Cart(ctx, clientID)
	if err != nil {
		return nil, err
	}
	kept := items[:0]
	for _, it := range items {
		if it.ProductRef != productRef {
			kept = append(kept, it)
		}
	}
	return kept, s.store.Set(ctx, clientID, models.StorageKeyCart, kept)
}

func (s *CartService) ClearCart(ctx context.Context, clientID string) error {
	return s.store.Delete(ctx, clientID, models.StorageKeyCart)
}

// ==============================================
// WISHLIST
// ==============================================

func (s *CartService) Wishlist(ctx context.Context, clientID string) ([]models.WishlistItem, error) {
	items := []models.WishlistItem{}
	if err := s.load(ctx, clientID, models.StorageKeyWishlist, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// ToggleWishlist adds productRef when absent and removes it when present. It reports
// whether the product is on the wishlist afterwards.
func (s *CartService) ToggleWishlist(ctx context.Context, clientID, productRef string) (bool, []models.WishlistItem, error) {
	productRef = strings.TrimSpace(productRef)
	if productRef == "" {
		return false, nil, models.ErrMissingProduct
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.Wishlist(ctx, clientID)
	if err != nil {
		return false, nil, err
	}
	kept := make([]models.WishlistItem, 0, len(items)+1)
	removed := false
	for _, it := range items {
		if it.ProductRef == productRef {
			removed = true
			continue
		}
		kept = append(kept, it)
	}
	if !removed {
		kept = append(kept, models.WishlistItem{ProductRef: productRef})
	}
	if err := s.store.Set(ctx, clientID, models.StorageKeyWishlist, kept); err != nil {
		return false, nil, err
	}
	return !removed, kept, nil
}

// ==============================================
// ANNOUNCEMENT
// ==============================================

func (s *CartService) AnnouncementShown(ctx context.Context, clientID string) (bool, error) {
	var shown bool
	if err := s.load(ctx, clientID, models.StorageKeyAnnouncementShown, &shown); err != nil {
		return false, err
	}
	return shown, nil
}

func (s *CartService) MarkAnnouncementShown(ctx context.Context, clientID string) error {
	return s.store.Set(ctx, clientID, models.StorageKeyAnnouncementShown, true)
}

// load leaves out untouched when the key is absent.
func (s *CartService) load(ctx context.Context, clientID, key string, out any) error {
	err := s.store.Get(ctx, clientID, key, out)
	if errors.Is(err, store.ErrNotFound) {
		return nil
	}
	return err
}
