package notify

import (
	"testing"

	"storefront-service/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestDeliveryCaption(t *testing.T) {
	caption := DeliveryCaption(models.DeliveryItem{
		Title:       "Unit 42",
		Description: "pickup point details",
		Price:       1500,
		Quantity:    1,
	})

	assert.Contains(t, caption, "Unit 42")
	assert.Contains(t, caption, "pickup point details")
	assert.Contains(t, caption, "1500 RUB")
	assert.NotContains(t, caption, "Quantity")
}

func TestDeliveryCaptionMultiQuantity(t *testing.T) {
	caption := DeliveryCaption(models.DeliveryItem{
		Title:    "Unit 42",
		Price:    1500,
		Quantity: 3,
	})

	assert.Contains(t, caption, "Quantity: 3")
}

func TestPendingReviewText(t *testing.T) {
	text := PendingReviewText(&models.CheckoutSubmittedEvent{
		OrderID:   7,
		PaymentID: 3,
		UserID:    100,
		Total:     4000,
		ProofRef:  "proof-1",
	})

	assert.Contains(t, text, "Payment claim #3")
	assert.Contains(t, text, "Order #7")
	assert.Contains(t, text, "4000 RUB")
	assert.Contains(t, text, "proof-1")
}
