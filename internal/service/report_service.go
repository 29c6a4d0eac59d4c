package service

import (
	"context"

	"storefront-service/internal/models"
	"storefront-service/internal/store"
	"storefront-service/internal/util"
)

// ReportService serves the read-only projections: triage queue, status
// aggregates, purchase history and payment reports. No write side
// effects and no invariants of its own.
type ReportService struct {
	store *store.Store
}

// NewReportService creates a new report service
func NewReportService(store *store.Store) *ReportService {
	return &ReportService{store: store}
}

// PendingPayments returns the operator triage queue, oldest first.
func (s *ReportService) PendingPayments(ctx context.Context) ([]models.Payment, error) {
	ctx, span := util.StartSpan(ctx, "ReportService.PendingPayments")
	defer span.End()

	return s.store.ListPendingPayments(ctx)
}

// Stats aggregates order and payment counts by status.
func (s *ReportService) Stats(ctx context.Context) (*models.Stats, error) {
	ctx, span := util.StartSpan(ctx, "ReportService.Stats")
	defer span.End()

	return s.store.GetStats(ctx)
}

// PurchaseHistory returns a user's paid orders, newest first.
func (s *ReportService) PurchaseHistory(ctx context.Context, userID int64) ([]models.PurchaseRecord, error) {
	ctx, span := util.StartSpan(ctx, "ReportService.PurchaseHistory")
	defer span.End()

	return s.store.GetUserPurchaseHistory(ctx, userID)
}

// PaidUsers rolls paid orders up per buyer.
func (s *ReportService) PaidUsers(ctx context.Context, limit int) ([]models.PaidUser, error) {
	return s.store.ListPaidUsers(ctx, limit)
}

// PaymentsReport returns every payment joined with order and user.
func (s *ReportService) PaymentsReport(ctx context.Context) ([]models.PaymentReportRow, error) {
	return s.store.GetPaymentsReport(ctx)
}

// Order returns one order with its captured lines.
func (s *ReportService) Order(ctx context.Context, orderID int64) (*models.Order, []models.OrderItem, error) {
	order, err := s.store.GetOrderByID(ctx, orderID)
	if err != nil {
		return nil, nil, err
	}
	items, err := s.store.GetOrderItems(ctx, orderID)
	if err != nil {
		return nil, nil, err
	}
	return order, items, nil
}
