package worker

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

type sentMessage struct {
	chatID int64
	text   string
}

type sentPhoto struct {
	chatID   int64
	photoRef string
	caption  string
}

// recordingNotifier captures sends instead of delivering them.
type recordingNotifier struct {
	messages []sentMessage
	photos   []sentPhoto
}

func (n *recordingNotifier) SendMessage(ctx context.Context, chatID int64, text string) error {
	n.messages = append(n.messages, sentMessage{chatID, text})
	return nil
}

func (n *recordingNotifier) SendPhoto(ctx context.Context, chatID int64, photoRef, caption string) error {
	n.photos = append(n.photos, sentPhoto{chatID, photoRef, caption})
	return nil
}

func deliver(t *testing.T, w *NotificationWorker, event interface{}) {
	t.Helper()
	data, err := json.Marshal(event)
	require.NoError(t, err)
	require.NoError(t, w.eventHandler.HandleMessage(context.Background(), kafka.Message{Value: data}))
}

func TestCheckoutSubmittedFanOut(t *testing.T) {
	n := &recordingNotifier{}
	w := NewNotificationWorker(nil, n, -100500)

	deliver(t, w, &models.CheckoutSubmittedEvent{
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

	require.Len(t, n.messages, 2)
	assert.Equal(t, int64(-100500), n.messages[0].chatID)
	assert.Contains(t, n.messages[0].text, "Payment claim #3")
	assert.Equal(t, int64(100), n.messages[1].chatID)
	assert.Contains(t, n.messages[1].text, "reviewed")
}

func TestPaymentConfirmedDeliversItems(t *testing.T) {
	n := &recordingNotifier{}
	w := NewNotificationWorker(nil, n, -100500)

	deliver(t, w, &models.PaymentConfirmedEvent{
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
			{ListingID: 1, Title: "Unit A", ImageRef: "img-a", Price: 1500, Quantity: 1},
			{ListingID: 2, Title: "Unit B", ImageRef: "img-b", Price: 2500, Quantity: 1},
		},
	})

	// Buyer confirmation plus operator summary, and one photo per item.
	require.Len(t, n.messages, 2)
	assert.Equal(t, int64(100), n.messages[0].chatID)
	assert.Equal(t, int64(-100500), n.messages[1].chatID)
	assert.Contains(t, n.messages[1].text, "order #7")

	require.Len(t, n.photos, 2)
	assert.Equal(t, "img-a", n.photos[0].photoRef)
	assert.Contains(t, n.photos[0].caption, "Unit A")
	assert.Equal(t, int64(100), n.photos[1].chatID)
}

func TestPaymentRejectedNotifiesBuyer(t *testing.T) {
	n := &recordingNotifier{}
	w := NewNotificationWorker(nil, n, -100500)

	deliver(t, w, &models.PaymentRejectedEvent{
		BaseEvent: models.BaseEvent{
			EventID:   "evt-3",
			EventType: models.EventTypePaymentRejected,
			Timestamp: time.Now(),
		},
		OrderID:          7,
		PaymentID:        3,
		UserID:           100,
		ReleasedListings: []int64{1},
	})

	require.Len(t, n.messages, 1)
	assert.Equal(t, int64(100), n.messages[0].chatID)
	assert.Contains(t, n.messages[0].text, "rejected")
	assert.Empty(t, n.photos)
}
