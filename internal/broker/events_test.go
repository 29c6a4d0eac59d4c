package broker

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"storefront-service/internal/models"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func marshalEvent(t *testing.T, event interface{}) kafka.Message {
	t.Helper()
	data, err := json.Marshal(event)
	require.NoError(t, err)
	return kafka.Message{Value: data}
}

func TestHandleCheckoutSubmitted(t *testing.T) {
	eh := NewEventHandler()

	var got *models.CheckoutSubmittedEvent
	eh.OnCheckoutSubmitted(func(ctx context.Context, e *models.CheckoutSubmittedEvent) error {
		got = e
		return nil
	})

	msg := marshalEvent(t, &models.CheckoutSubmittedEvent{
		BaseEvent: models.BaseEvent{
			EventID:   "evt-1",
			EventType: models.EventTypeCheckoutSubmitted,
			Timestamp: time.Now(),
		},
		OrderID:   7,
		PaymentID: 3,
		UserID:    100,
		Total:     4000,
		ProofRef:  "proof-1",
	})

	err := eh.HandleMessage(context.Background(), msg)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, int64(7), got.OrderID)
	assert.Equal(t, "proof-1", got.ProofRef)
}

func TestHandlePaymentConfirmedCarriesItems(t *testing.T) {
	eh := NewEventHandler()

	var got *models.PaymentConfirmedEvent
	eh.OnPaymentConfirmed(func(ctx context.Context, e *models.PaymentConfirmedEvent) error {
		got = e
		return nil
	})

	msg := marshalEvent(t, &models.PaymentConfirmedEvent{
		BaseEvent: models.BaseEvent{
			EventID:   "evt-2",
			EventType: models.EventTypePaymentConfirmed,
			Timestamp: time.Now(),
		},
		OrderID:   7,
		PaymentID: 3,
		UserID:    100,
		Total:     4000,
		Items: []models.DeliveryItem{
			{ListingID: 1, Title: "item", Price: 4000, Quantity: 1},
		},
	})

	err := eh.HandleMessage(context.Background(), msg)
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Len(t, got.Items, 1)
	assert.Equal(t, int64(1), got.Items[0].ListingID)
}

func TestHandleUnknownEventType(t *testing.T) {
	eh := NewEventHandler()
	eh.OnCheckoutSubmitted(func(ctx context.Context, e *models.CheckoutSubmittedEvent) error {
		t.Fatal("handler should not fire for unknown event type")
		return nil
	})

	msg := kafka.Message{Value: []byte(`{"event_id":"evt-3","event_type":"SOMETHING_ELSE"}`)}
	err := eh.HandleMessage(context.Background(), msg)
	assert.NoError(t, err)
}

func TestHandleMalformedPayload(t *testing.T) {
	eh := NewEventHandler()
	err := eh.HandleMessage(context.Background(), kafka.Message{Value: []byte("not json")})
	assert.Error(t, err)
}

func TestHandleUnregisteredHandler(t *testing.T) {
	eh := NewEventHandler()

	msg := marshalEvent(t, &models.PaymentRejectedEvent{
		BaseEvent: models.BaseEvent{
			EventID:   "evt-4",
			EventType: models.EventTypePaymentRejected,
			Timestamp: time.Now(),
		},
		OrderID: 7,
	})

	// No handler registered for the type is not an error.
	err := eh.HandleMessage(context.Background(), msg)
	assert.NoError(t, err)
}
