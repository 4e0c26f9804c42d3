package models

// CartItem lives only in client storage until checkout.
type CartItem struct {
	ProductRef string `json:"productRef"`
	Quantity   int    `json:"quantity"`
}

// WishlistItem lives only in client storage.
type WishlistItem struct {
	ProductRef string `json:"productRef"`
}

// Client storage keys mirrored from the browser.
const (
	StorageKeyRole              = "role"
	StorageKeyCart              = "cart"
	StorageKeyWishlist          = "wishlist"
	StorageKeyAnnouncementShown = "announcementShown"
	StorageKeyProfile           = "profile"
)
