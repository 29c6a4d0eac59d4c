package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"storefront-service/internal/models"
	"storefront-service/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CheckoutStore is the slice of the store the checkout service needs.
// The store method owns the transaction; the service maps outcomes,
// counts them and fans out the after-commit side effects.
type CheckoutStore interface {
	CheckoutFromCart(ctx context.Context, userID int64, proofRef string) (*models.CheckoutResult, error)
}

// CheckoutPublisher publishes the post-commit notification event.
type CheckoutPublisher interface {
	PublishCheckoutSubmitted(ctx context.Context, event *models.CheckoutSubmittedEvent) error
}

// CheckoutService converts carts into orders with reserved inventory.
type CheckoutService struct {
	store     CheckoutStore
	publisher CheckoutPublisher
	logger    *zap.Logger
}

// NewCheckoutService creates a new checkout service
func NewCheckoutService(store CheckoutStore, publisher CheckoutPublisher) *CheckoutService {
	return &CheckoutService{
		store:     store,
		publisher: publisher,
		logger:    util.GetLogger(),
	}
}

// Submit runs the checkout transaction for the user's cart. On success
// it returns the created order/payment pair and total; the notification
// event that follows is best-effort and never fails the submission,
// since the transaction has already committed.
func (s *CheckoutService) Submit(ctx context.Context, userID int64, proofRef string) (*models.CheckoutResult, error) {
	ctx, span := util.StartSpan(ctx, "CheckoutService.Submit")
	defer span.End()

	start := time.Now()
	defer func() {
		util.CheckoutLatency.Observe(time.Since(start).Seconds())
	}()

	result, err := s.store.CheckoutFromCart(ctx, userID, proofRef)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrEmptyCart):
			util.CheckoutsFailedTotal.WithLabelValues("empty_cart").Inc()
		case errors.Is(err, models.ErrOutOfStock):
			util.CheckoutsFailedTotal.WithLabelValues("out_of_stock").Inc()
			s.logger.Info("Checkout lost stock",
				zap.Int64("user_id", userID))
		default:
			util.CheckoutsFailedTotal.WithLabelValues("storage_error").Inc()
			return nil, fmt.Errorf("checkout failed: %w", err)
		}
		return nil, err
	}

	util.CheckoutsSubmittedTotal.Inc()
	s.logger.Info("Checkout submitted",
		zap.Int64("user_id", userID),
		zap.Int64("order_id", result.OrderID),
		zap.Int64("payment_id", result.PaymentID),
		zap.Int64("total", result.Total))

	if s.publisher != nil {
		event := &models.CheckoutSubmittedEvent{
			BaseEvent: models.BaseEvent{
				EventID:   uuid.New().String(),
				EventType: models.EventTypeCheckoutSubmitted,
				Timestamp: time.Now(),
			},
			OrderID:   result.OrderID,
			PaymentID: result.PaymentID,
			UserID:    userID,
			Total:     result.Total,
			ProofRef:  proofRef,
		}
		if err := s.publisher.PublishCheckoutSubmitted(ctx, event); err != nil {
			util.NotificationsFailedTotal.Inc()
			s.logger.Error("Failed to publish CheckoutSubmitted event", zap.Error(err))
		} else {
			util.NotificationsPublishedTotal.Inc()
		}
	}

	return result, nil
}
