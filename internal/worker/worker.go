package worker

import (
	"context"
	"fmt"
	"log"

	"storefront-service/internal/broker"
	"storefront-service/internal/models"
	"storefront-service/internal/notify"
	"storefront-service/internal/util"

	"go.uber.org/zap"
)

// NotificationWorker consumes decision events and fans them out through
// the Notifier: operator prompts for new claims, delivery payloads for
// confirmed sales, rejection notices. Every send is fire-and-forget; a
// failed send is logged and never re-queued against committed state.
type NotificationWorker struct {
	consumer        *broker.Consumer
	eventHandler    *broker.EventHandler
	notifier        notify.Notifier
	operatorChannel int64
	logger          *zap.Logger
}

// NewNotificationWorker creates a new notification worker
func NewNotificationWorker(consumer *broker.Consumer, notifier notify.Notifier, operatorChannel int64) *NotificationWorker {
	w := &NotificationWorker{
		consumer:        consumer,
		notifier:        notifier,
		operatorChannel: operatorChannel,
		logger:          util.GetLogger(),
	}

	eventHandler := broker.NewEventHandler()
	eventHandler.OnCheckoutSubmitted(w.handleCheckoutSubmitted)
	eventHandler.OnPaymentConfirmed(w.handlePaymentConfirmed)
	eventHandler.OnPaymentRejected(w.handlePaymentRejected)
	w.eventHandler = eventHandler

	return w
}

// Start starts the worker
func (w *NotificationWorker) Start(ctx context.Context) error {
	log.Println("Starting notification worker...")
	return w.consumer.StartConsuming(ctx, w.eventHandler.HandleMessage)
}

// Stop stops the worker
func (w *NotificationWorker) Stop() error {
	log.Println("Stopping notification worker...")
	return w.consumer.Close()
}

func (w *NotificationWorker) handleCheckoutSubmitted(ctx context.Context, e *models.CheckoutSubmittedEvent) error {
	w.send(ctx, w.operatorChannel, notify.PendingReviewText(e))
	w.send(ctx, e.UserID, "Your payment is being reviewed. You will be notified once it is processed.")
	return nil
}

func (w *NotificationWorker) handlePaymentConfirmed(ctx context.Context, e *models.PaymentConfirmedEvent) error {
	w.send(ctx, e.UserID, "Payment confirmed.")

	for _, item := range e.Items {
		if err := w.notifier.SendPhoto(ctx, e.UserID, item.ImageRef, notify.DeliveryCaption(item)); err != nil {
			w.logger.Error("Failed to deliver item",
				zap.Int64("user_id", e.UserID),
				zap.Int64("listing_id", item.ListingID),
				zap.Error(err))
		}
	}

	w.send(ctx, w.operatorChannel,
		fmt.Sprintf("Sale completed: order #%d, %s", e.OrderID, notify.FormatPrice(e.Total)))
	return nil
}

func (w *NotificationWorker) handlePaymentRejected(ctx context.Context, e *models.PaymentRejectedEvent) error {
	w.send(ctx, e.UserID, "Payment rejected. If this is a mistake, contact support.")
	return nil
}

func (w *NotificationWorker) send(ctx context.Context, chatID int64, text string) {
	if err := w.notifier.SendMessage(ctx, chatID, text); err != nil {
		w.logger.Error("Failed to send notification",
			zap.Int64("chat_id", chatID),
			zap.Error(err))
	}
}
