package store

import (
	"context"

	"storefront-service/internal/models"
)

// GetStats aggregates order and payment counts by status in one query.
func (s *Store) GetStats(ctx context.Context) (*models.Stats, error) {
	var st models.Stats
	err := s.db.GetContext(ctx, &st, `
		SELECT
			(SELECT COUNT(*) FROM orders) AS orders_total,
			(SELECT COUNT(*) FROM orders WHERE status = 'paid') AS orders_paid,
			(SELECT COUNT(*) FROM orders WHERE status = 'pending_review') AS orders_pending,
			(SELECT COUNT(*) FROM orders WHERE status = 'rejected') AS orders_rejected,
			(SELECT COUNT(*) FROM payments WHERE status = 'pending') AS payments_pending`)
	if err != nil {
		return nil, err
	}
	return &st, nil
}

// GetUserPurchaseHistory returns the lines of a user's paid orders,
// newest order first.
func (s *Store) GetUserPurchaseHistory(ctx context.Context, userID int64) ([]models.PurchaseRecord, error) {
	var records []models.PurchaseRecord
	err := s.db.SelectContext(ctx, &records, `
		SELECT o.id AS order_id, o.total, o.status, o.created_at,
		       l.title, oi.quantity, oi.price
		FROM orders o
		JOIN order_items oi ON oi.order_id = o.id
		JOIN listings l ON l.id = oi.listing_id
		WHERE o.user_id = $1 AND o.status = $2
		ORDER BY o.id DESC, oi.id ASC`,
		userID, models.OrderStatusPaid)
	return records, err
}

// GetListingBuyer reports who consumed a listing, joined against the
// buyer's user record when one exists.
func (s *Store) GetListingBuyer(ctx context.Context, listingID int64) (*models.ListingBuyer, error) {
	var b models.ListingBuyer
	err := s.db.GetContext(ctx, &b, `
		SELECT l.id AS listing_id, l.title,
		       l.consumed_by_order AS order_id,
		       l.consumed_by_user AS user_id,
		       l.consumed_at,
		       u.username, u.first_name
		FROM listings l
		LEFT JOIN users u ON u.id = l.consumed_by_user
		WHERE l.id = $1`,
		listingID)
	if err != nil {
		return nil, mapNoRows(err)
	}
	return &b, nil
}

// ListPaidUsers rolls paid orders up per buyer, most recent payer first.
func (s *Store) ListPaidUsers(ctx context.Context, limit int) ([]models.PaidUser, error) {
	var users []models.PaidUser
	err := s.db.SelectContext(ctx, &users, `
		SELECT o.user_id, u.username, u.first_name,
		       COUNT(*) AS orders_count,
		       MAX(o.created_at) AS last_paid_at
		FROM orders o
		LEFT JOIN users u ON u.id = o.user_id
		WHERE o.status = $1
		GROUP BY o.user_id, u.username, u.first_name
		ORDER BY last_paid_at DESC
		LIMIT $2`,
		models.OrderStatusPaid, limit)
	return users, err
}

// GetPaymentsReport returns every payment joined with its order and user,
// newest first.
func (s *Store) GetPaymentsReport(ctx context.Context) ([]models.PaymentReportRow, error) {
	var rows []models.PaymentReportRow
	err := s.db.SelectContext(ctx, &rows, `
		SELECT p.id AS payment_id, p.order_id, p.user_id, p.total,
		       p.status AS payment_status, p.created_at, p.processed_at,
		       o.status AS order_status, u.username
		FROM payments p
		LEFT JOIN orders o ON o.id = p.order_id
		LEFT JOIN users u ON u.id = p.user_id
		ORDER BY p.id DESC`)
	return rows, err
}
