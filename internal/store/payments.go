package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"storefront-service/internal/models"

	"github.com/jmoiron/sqlx"
)

// GetPayment retrieves a payment claim by id.
func (s *Store) GetPayment(ctx context.Context, id int64) (*models.Payment, error) {
	var p models.Payment
	err := s.db.GetContext(ctx, &p, "SELECT * FROM payments WHERE id = $1", id)
	if err != nil {
		return nil, mapNoRows(err)
	}
	return &p, nil
}

// ListPendingPayments returns the operator triage queue, oldest first.
func (s *Store) ListPendingPayments(ctx context.Context) ([]models.Payment, error) {
	var payments []models.Payment
	err := s.db.SelectContext(ctx, &payments, `
		SELECT * FROM payments
		WHERE status = $1
		ORDER BY created_at ASC`,
		models.PaymentStatusPending)
	return payments, err
}

// decidePaymentTx flips a pending claim to its terminal status. The WHERE
// clause on the current status is the transition guard: a claim that has
// already been decided is left untouched and the duplicate is reported as
// models.ErrAlreadyProcessed, a missing claim as models.ErrNotFound.
func decidePaymentTx(ctx context.Context, tx *sqlx.Tx, paymentID int64, status string) (*models.Payment, error) {
	var p models.Payment
	err := tx.GetContext(ctx, &p, `
		UPDATE payments
		SET status = $1, processed_at = NOW()
		WHERE id = $2 AND status = $3
		RETURNING *`,
		status, paymentID, models.PaymentStatusPending)
	if err == nil {
		return &p, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	var exists bool
	if chkErr := tx.GetContext(ctx, &exists,
		"SELECT EXISTS(SELECT 1 FROM payments WHERE id = $1)", paymentID); chkErr != nil {
		return nil, chkErr
	}
	if exists {
		return nil, models.ErrAlreadyProcessed
	}
	return nil, models.ErrNotFound
}

// ConfirmPayment finalizes a pending claim: claim confirmed, order paid,
// buyer's purchase counter incremented, all in one transaction.
func (s *Store) ConfirmPayment(ctx context.Context, paymentID int64) (*models.Payment, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin confirm: %w", err)
	}
	defer tx.Rollback()

	p, err := decidePaymentTx(ctx, tx, paymentID, models.PaymentStatusConfirmed)
	if err != nil {
		return nil, err
	}

	_, err = tx.ExecContext(ctx,
		"UPDATE orders SET status = $1 WHERE id = $2",
		models.OrderStatusPaid, p.OrderID)
	if err != nil {
		return nil, fmt.Errorf("failed to mark order paid: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		"UPDATE users SET purchases_count = purchases_count + 1 WHERE id = $1",
		p.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to increment purchase counter: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit confirm: %w", err)
	}
	return p, nil
}

// RejectPayment reverses a pending claim: claim rejected, order rejected,
// and exactly the listings consumed by that order re-listed. Returns the
// decided claim and the released listing ids.
func (s *Store) RejectPayment(ctx context.Context, paymentID int64) (*models.Payment, []int64, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to begin reject: %w", err)
	}
	defer tx.Rollback()

	p, err := decidePaymentTx(ctx, tx, paymentID, models.PaymentStatusRejected)
	if err != nil {
		return nil, nil, err
	}

	_, err = tx.ExecContext(ctx,
		"UPDATE orders SET status = $1 WHERE id = $2",
		models.OrderStatusRejected, p.OrderID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to mark order rejected: %w", err)
	}

	released, err := releaseListingsTx(ctx, tx, p.OrderID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to release listings: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, nil, fmt.Errorf("failed to commit reject: %w", err)
	}
	return p, released, nil
}
