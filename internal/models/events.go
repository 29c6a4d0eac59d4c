package models

import "time"

// Event types
const (
	EventTypeCheckoutSubmitted = "CHECKOUT_SUBMITTED"
	EventTypePaymentConfirmed  = "PAYMENT_CONFIRMED"
	EventTypePaymentRejected   = "PAYMENT_REJECTED"
)

// BaseEvent contains common fields for all events
type BaseEvent struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	Timestamp time.Time `json:"timestamp"`
}

// CheckoutSubmittedEvent is published after a checkout commits. The
// operator channel learns of the new pending payment claim from it.
type CheckoutSubmittedEvent struct {
	BaseEvent
	OrderID   int64  `json:"order_id"`
	PaymentID int64  `json:"payment_id"`
	UserID    int64  `json:"user_id"`
	Total     int64  `json:"total"`
	ProofRef  string `json:"proof_ref"`
}

// DeliveryItem carries the content of one purchased listing to the buyer.
type DeliveryItem struct {
	ListingID   int64  `json:"listing_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	ImageRef    string `json:"image_ref"`
	Quantity    int    `json:"quantity"`
	Price       int64  `json:"price"`
}

// PaymentConfirmedEvent is published after a confirm decision commits.
// Items carry the delivery payload for the buyer.
type PaymentConfirmedEvent struct {
	BaseEvent
	OrderID   int64          `json:"order_id"`
	PaymentID int64          `json:"payment_id"`
	UserID    int64          `json:"user_id"`
	Total     int64          `json:"total"`
	Items     []DeliveryItem `json:"items"`
}

// PaymentRejectedEvent is published after a reject decision commits and
// the order's listings have been released.
type PaymentRejectedEvent struct {
	BaseEvent
	OrderID          int64   `json:"order_id"`
	PaymentID        int64   `json:"payment_id"`
	UserID           int64   `json:"user_id"`
	ReleasedListings []int64 `json:"released_listings"`
}
