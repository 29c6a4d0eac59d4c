package store

import (
	"context"
	"fmt"

	"storefront-service/internal/models"
)

type checkoutEntry struct {
	ListingID int64 `db:"listing_id"`
	Price     int64 `db:"price"`
	Quantity  int   `db:"quantity"`
	Available bool  `db:"available"`
}

// CheckoutFromCart converts the user's cart into an order, order lines
// and a pending payment claim, reserving every listing on the way. The
// whole body runs in one transaction: it either commits completely or
// leaves no trace.
//
// Failure modes: models.ErrEmptyCart when nothing remains after garbage
// collection, models.ErrOutOfStock when an entry is unavailable, carries
// a quantity above one, or loses the reservation race to a concurrent
// checkout.
func (s *Store) CheckoutFromCart(ctx context.Context, userID int64, proofRef string) (*models.CheckoutResult, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin checkout: %w", err)
	}
	defer tx.Rollback()

	// Drop cart rows whose listing has been hard-deleted underneath them.
	_, err = tx.ExecContext(ctx, `
		DELETE FROM cart_items
		WHERE user_id = $1
		  AND listing_id NOT IN (SELECT id FROM listings)`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("failed to collect stale cart rows: %w", err)
	}

	// Snapshot read: the prices captured here are the prices the buyer
	// commits to, regardless of later listing edits.
	var entries []checkoutEntry
	err = tx.SelectContext(ctx, &entries, `
		SELECT l.id AS listing_id, l.price, ci.quantity, (l.available AND l.active) AS available
		FROM cart_items ci
		JOIN listings l ON l.id = ci.listing_id
		WHERE ci.user_id = $1
		ORDER BY ci.id`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("failed to read cart: %w", err)
	}

	if len(entries) == 0 {
		return nil, models.ErrEmptyCart
	}

	var total int64
	for _, e := range entries {
		// Quantity above one is treated the same as no stock: the model
		// never supports multi-unit purchase of a single listing.
		if e.Quantity > 1 || !e.Available {
			return nil, models.ErrOutOfStock
		}
		total += e.Price * int64(e.Quantity)
	}

	var orderID int64
	err = tx.GetContext(ctx, &orderID, `
		INSERT INTO orders (user_id, total, status)
		VALUES ($1, $2, $3)
		RETURNING id`,
		userID, total, models.OrderStatusPendingReview)
	if err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	for _, e := range entries {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO order_items (order_id, listing_id, quantity, price)
			VALUES ($1, $2, $3, $4)`,
			orderID, e.ListingID, e.Quantity, e.Price)
		if err != nil {
			return nil, fmt.Errorf("failed to create order line: %w", err)
		}

		// The snapshot read above is not a lock. Two checkouts can both
		// pass the availability guard for the same listing; the CAS here
		// lets only one through, and the loser rolls back everything
		// inserted so far.
		reserved, err := reserveListingTx(ctx, tx, e.ListingID, userID, orderID)
		if err != nil {
			return nil, fmt.Errorf("failed to reserve listing %d: %w", e.ListingID, err)
		}
		if !reserved {
			return nil, models.ErrOutOfStock
		}
	}

	var paymentID int64
	err = tx.GetContext(ctx, &paymentID, `
		INSERT INTO payments (order_id, user_id, total, status, proof_ref)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`,
		orderID, userID, total, models.PaymentStatusPending, proofRef)
	if err != nil {
		return nil, fmt.Errorf("failed to create payment claim: %w", err)
	}

	_, err = tx.ExecContext(ctx, "DELETE FROM cart_items WHERE user_id = $1", userID)
	if err != nil {
		return nil, fmt.Errorf("failed to clear cart: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit checkout: %w", err)
	}

	return &models.CheckoutResult{OrderID: orderID, PaymentID: paymentID, Total: total}, nil
}

// GetOrderByID retrieves an order by ID
func (s *Store) GetOrderByID(ctx context.Context, id int64) (*models.Order, error) {
	var order models.Order
	err := s.db.GetContext(ctx, &order, "SELECT * FROM orders WHERE id = $1", id)
	if err != nil {
		return nil, mapNoRows(err)
	}
	return &order, nil
}

// GetOrderItems retrieves the captured lines of an order.
func (s *Store) GetOrderItems(ctx context.Context, orderID int64) ([]models.OrderItem, error) {
	var items []models.OrderItem
	err := s.db.SelectContext(ctx, &items,
		"SELECT * FROM order_items WHERE order_id = $1 ORDER BY id", orderID)
	return items, err
}

// GetOrderItemDetails joins the captured lines with listing content for
// delivery and history rendering. Prices are the checkout-time snapshot.
func (s *Store) GetOrderItemDetails(ctx context.Context, orderID int64) ([]models.OrderItemDetail, error) {
	var items []models.OrderItemDetail
	err := s.db.SelectContext(ctx, &items, `
		SELECT oi.listing_id, l.title, l.description, l.image_ref, oi.quantity, oi.price
		FROM order_items oi
		JOIN listings l ON l.id = oi.listing_id
		WHERE oi.order_id = $1
		ORDER BY oi.id`,
		orderID)
	return items, err
}

// GetOrdersByUserID retrieves orders for a user, newest first.
func (s *Store) GetOrdersByUserID(ctx context.Context, userID int64) ([]models.Order, error) {
	var orders []models.Order
	err := s.db.SelectContext(ctx, &orders,
		"SELECT * FROM orders WHERE user_id = $1 ORDER BY created_at DESC", userID)
	return orders, err
}
