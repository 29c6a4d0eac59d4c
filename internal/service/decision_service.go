package service

import (
	"context"
	"errors"
	"time"

	"storefront-service/internal/models"
	"storefront-service/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DecisionStore is the slice of the store the decision service needs.
// Confirm and reject each run their own transaction including the status
// guard; the service never sees a half-applied decision.
type DecisionStore interface {
	ConfirmPayment(ctx context.Context, paymentID int64) (*models.Payment, error)
	RejectPayment(ctx context.Context, paymentID int64) (*models.Payment, []int64, error)
	GetOrderItemDetails(ctx context.Context, orderID int64) ([]models.OrderItemDetail, error)
}

// DecisionPublisher publishes post-commit decision events.
type DecisionPublisher interface {
	PublishPaymentConfirmed(ctx context.Context, event *models.PaymentConfirmedEvent) error
	PublishPaymentRejected(ctx context.Context, event *models.PaymentRejectedEvent) error
}

// DecisionService drives the operator's pending -> confirmed|rejected
// state machine. Both transitions are terminal; a duplicate decision is
// reported as models.ErrAlreadyProcessed with no state change. A pending
// claim has no expiry: it is resolved only by an explicit decision.
type DecisionService struct {
	store     DecisionStore
	publisher DecisionPublisher
	logger    *zap.Logger
}

// NewDecisionService creates a new decision service
func NewDecisionService(store DecisionStore, publisher DecisionPublisher) *DecisionService {
	return &DecisionService{
		store:     store,
		publisher: publisher,
		logger:    util.GetLogger(),
	}
}

// ConfirmResult reports a finalized sale.
type ConfirmResult struct {
	OrderID   int64                    `json:"order_id"`
	PaymentID int64                    `json:"payment_id"`
	UserID    int64                    `json:"user_id"`
	Total     int64                    `json:"total"`
	Items     []models.OrderItemDetail `json:"items"`
}

// RejectResult reports a reversed sale.
type RejectResult struct {
	OrderID          int64   `json:"order_id"`
	PaymentID        int64   `json:"payment_id"`
	UserID           int64   `json:"user_id"`
	ReleasedListings []int64 `json:"released_listings"`
}

// Confirm finalizes a pending claim: claim confirmed, order paid, buyer
// purchase counter incremented. Delivery of the purchased content to the
// buyer happens through the published event and is best-effort.
func (s *DecisionService) Confirm(ctx context.Context, paymentID int64) (*ConfirmResult, error) {
	ctx, span := util.StartSpan(ctx, "DecisionService.Confirm")
	defer span.End()

	p, err := s.store.ConfirmPayment(ctx, paymentID)
	if err != nil {
		if errors.Is(err, models.ErrAlreadyProcessed) {
			util.DecisionsDuplicateTotal.Inc()
		}
		return nil, err
	}

	util.PaymentsConfirmedTotal.Inc()
	s.logger.Info("Payment confirmed",
		zap.Int64("payment_id", p.ID),
		zap.Int64("order_id", p.OrderID),
		zap.Int64("user_id", p.UserID))

	items, err := s.store.GetOrderItemDetails(ctx, p.OrderID)
	if err != nil {
		// The decision has committed; an incomplete delivery payload is
		// a notification concern, not a transaction failure.
		s.logger.Error("Failed to load delivery items", zap.Error(err))
		items = nil
	}

	if s.publisher != nil {
		event := &models.PaymentConfirmedEvent{
			BaseEvent: models.BaseEvent{
				EventID:   uuid.New().String(),
				EventType: models.EventTypePaymentConfirmed,
				Timestamp: time.Now(),
			},
			OrderID:   p.OrderID,
			PaymentID: p.ID,
			UserID:    p.UserID,
			Total:     p.Total,
			Items:     deliveryItems(items),
		}
		if err := s.publisher.PublishPaymentConfirmed(ctx, event); err != nil {
			util.NotificationsFailedTotal.Inc()
			s.logger.Error("Failed to publish PaymentConfirmed event", zap.Error(err))
		} else {
			util.NotificationsPublishedTotal.Inc()
		}
	}

	return &ConfirmResult{
		OrderID:   p.OrderID,
		PaymentID: p.ID,
		UserID:    p.UserID,
		Total:     p.Total,
		Items:     items,
	}, nil
}

// Reject reverses a pending claim: claim and order rejected, and exactly
// the listings consumed by that order returned to availability.
func (s *DecisionService) Reject(ctx context.Context, paymentID int64) (*RejectResult, error) {
	ctx, span := util.StartSpan(ctx, "DecisionService.Reject")
	defer span.End()

	p, released, err := s.store.RejectPayment(ctx, paymentID)
	if err != nil {
		if errors.Is(err, models.ErrAlreadyProcessed) {
			util.DecisionsDuplicateTotal.Inc()
		}
		return nil, err
	}

	util.PaymentsRejectedTotal.Inc()
	util.ListingsReleasedTotal.Add(float64(len(released)))
	s.logger.Info("Payment rejected",
		zap.Int64("payment_id", p.ID),
		zap.Int64("order_id", p.OrderID),
		zap.Int64s("released_listings", released))

	if s.publisher != nil {
		event := &models.PaymentRejectedEvent{
			BaseEvent: models.BaseEvent{
				EventID:   uuid.New().String(),
				EventType: models.EventTypePaymentRejected,
				Timestamp: time.Now(),
			},
			OrderID:          p.OrderID,
			PaymentID:        p.ID,
			UserID:           p.UserID,
			ReleasedListings: released,
		}
		if err := s.publisher.PublishPaymentRejected(ctx, event); err != nil {
			util.NotificationsFailedTotal.Inc()
			s.logger.Error("Failed to publish PaymentRejected event", zap.Error(err))
		} else {
			util.NotificationsPublishedTotal.Inc()
		}
	}

	return &RejectResult{
		OrderID:          p.OrderID,
		PaymentID:        p.ID,
		UserID:           p.UserID,
		ReleasedListings: released,
	}, nil
}

func deliveryItems(items []models.OrderItemDetail) []models.DeliveryItem {
	out := make([]models.DeliveryItem, 0, len(items))
	for _, it := range items {
		out = append(out, models.DeliveryItem{
			ListingID:   it.ListingID,
			Title:       it.Title,
			Description: it.Description,
			ImageRef:    it.ImageRef,
			Quantity:    it.Quantity,
			Price:       it.Price,
		})
	}
	return out
}
