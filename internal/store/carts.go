package store

import (
	"context"
	"database/sql"
	"errors"

	"storefront-service/internal/models"
)

// AddToCart stages a listing for purchase. It returns false without
// writing when the listing is missing, inactive or already consumed.
// Re-adding a listing already in the cart is a no-op returning true;
// quantity is never incremented.
func (s *Store) AddToCart(ctx context.Context, userID, listingID int64) (bool, error) {
	var available bool
	err := s.db.GetContext(ctx, &available,
		"SELECT available FROM listings WHERE id = $1 AND active", listingID)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if !available {
		return false, nil
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO cart_items (user_id, listing_id, quantity)
		VALUES ($1, $2, 1)
		ON CONFLICT (user_id, listing_id) DO NOTHING`,
		userID, listingID)
	if err != nil {
		return false, err
	}
	return true, nil
}

// GetCartItems returns the user's cart joined against live listing title
// and price. Prices here follow listing edits; checkout freezes them.
func (s *Store) GetCartItems(ctx context.Context, userID int64) ([]models.CartEntry, error) {
	var entries []models.CartEntry
	err := s.db.SelectContext(ctx, &entries, `
		SELECT l.id AS listing_id, l.title, l.price, ci.quantity
		FROM cart_items ci
		JOIN listings l ON l.id = ci.listing_id
		WHERE ci.user_id = $1
		ORDER BY ci.id`,
		userID)
	return entries, err
}

// ClearCart unconditionally removes every cart entry for the user.
func (s *Store) ClearCart(ctx context.Context, userID int64) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM cart_items WHERE user_id = $1", userID)
	return err
}
