package models

import "time"

// City is the top level of the location hierarchy.
type City struct {
	ID   int64  `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
}

// Area belongs to exactly one city.
type Area struct {
	ID     int64  `db:"id" json:"id"`
	CityID int64  `db:"city_id" json:"city_id"`
	Name   string `db:"name" json:"name"`
}

// Variant is the top level of the category taxonomy.
type Variant struct {
	Name      string `db:"name" json:"name"`
	SortOrder int    `db:"sort_order" json:"sort_order"`
}

// Class is the second level of the category taxonomy, scoped to a variant.
type Class struct {
	ID          int64  `db:"id" json:"id"`
	VariantName string `db:"variant_name" json:"variant_name"`
	Name        string `db:"name" json:"name"`
	SortOrder   int    `db:"sort_order" json:"sort_order"`
}

// Listing is a single purchasable inventory unit. Availability is strictly
// binary; the three consumption fields are set and cleared together with
// the available flag, never independently.
type Listing struct {
	ID              int64      `db:"id" json:"id"`
	CityID          int64      `db:"city_id" json:"city_id"`
	AreaID          int64      `db:"area_id" json:"area_id"`
	Variant         string     `db:"variant" json:"variant"`
	Class           string     `db:"class" json:"class"`
	Title           string     `db:"title" json:"title"`
	Description     string     `db:"description" json:"description"`
	Price           int64      `db:"price" json:"price"`
	ImageRef        string     `db:"image_ref" json:"image_ref"`
	Available       bool       `db:"available" json:"available"`
	Active          bool       `db:"active" json:"active"`
	ConsumedByOrder *int64     `db:"consumed_by_order" json:"consumed_by_order,omitempty"`
	ConsumedByUser  *int64     `db:"consumed_by_user" json:"consumed_by_user,omitempty"`
	ConsumedAt      *time.Time `db:"consumed_at" json:"consumed_at,omitempty"`
}

// User is a storefront customer.
type User struct {
	ID             int64     `db:"id" json:"id"`
	Username       string    `db:"username" json:"username"`
	FirstName      string    `db:"first_name" json:"first_name"`
	PurchasesCount int       `db:"purchases_count" json:"purchases_count"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}

// CartItem stages a listing for purchase. Unique per (user, listing).
type CartItem struct {
	ID        int64 `db:"id" json:"id"`
	UserID    int64 `db:"user_id" json:"user_id"`
	ListingID int64 `db:"listing_id" json:"listing_id"`
	Quantity  int   `db:"quantity" json:"quantity"`
}

// CartEntry is a cart item joined against the live listing row. Title and
// price reflect the current listing until checkout freezes them.
type CartEntry struct {
	ListingID int64  `db:"listing_id" json:"listing_id"`
	Title     string `db:"title" json:"title"`
	Price     int64  `db:"price" json:"price"`
	Quantity  int    `db:"quantity" json:"quantity"`
}

// Order is the immutable result of a checkout. Total is the sum of the
// captured line prices and does not follow later listing edits.
type Order struct {
	ID        int64     `db:"id" json:"id"`
	UserID    int64     `db:"user_id" json:"user_id"`
	Total     int64     `db:"total" json:"total"`
	Status    string    `db:"status" json:"status"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// OrderItem is a checkout-time snapshot of one cart entry.
type OrderItem struct {
	ID        int64 `db:"id" json:"id"`
	OrderID   int64 `db:"order_id" json:"order_id"`
	ListingID int64 `db:"listing_id" json:"listing_id"`
	Quantity  int   `db:"quantity" json:"quantity"`
	Price     int64 `db:"price" json:"price"`
}

// OrderItemDetail joins an order line with its listing's descriptive
// fields for delivery and history rendering.
type OrderItemDetail struct {
	ListingID   int64  `db:"listing_id" json:"listing_id"`
	Title       string `db:"title" json:"title"`
	Description string `db:"description" json:"description"`
	ImageRef    string `db:"image_ref" json:"image_ref"`
	Quantity    int    `db:"quantity" json:"quantity"`
	Price       int64  `db:"price" json:"price"`
}

// Payment is the operator-reviewed claim that an order has been paid.
// It is the single mutable gate after checkout: pending until an operator
// confirms or rejects it, both terminal.
type Payment struct {
	ID          int64      `db:"id" json:"id"`
	OrderID     int64      `db:"order_id" json:"order_id"`
	UserID      int64      `db:"user_id" json:"user_id"`
	Total       int64      `db:"total" json:"total"`
	Status      string     `db:"status" json:"status"`
	ProofRef    string     `db:"proof_ref" json:"proof_ref"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
	ProcessedAt *time.Time `db:"processed_at" json:"processed_at,omitempty"`
}

// Order statuses
const (
	OrderStatusPendingReview = "pending_review"
	OrderStatusPaid          = "paid"
	OrderStatusRejected      = "rejected"
)

// Payment statuses
const (
	PaymentStatusPending   = "pending"
	PaymentStatusConfirmed = "confirmed"
	PaymentStatusRejected  = "rejected"
)

// CheckoutResult is returned by a successful checkout submission.
type CheckoutResult struct {
	OrderID   int64 `json:"order_id"`
	PaymentID int64 `json:"payment_id"`
	Total     int64 `json:"total"`
}

// Stats aggregates order and payment counts by status.
type Stats struct {
	OrdersTotal     int `db:"orders_total" json:"orders_total"`
	OrdersPaid      int `db:"orders_paid" json:"orders_paid"`
	OrdersPending   int `db:"orders_pending" json:"orders_pending"`
	OrdersRejected  int `db:"orders_rejected" json:"orders_rejected"`
	PaymentsPending int `db:"payments_pending" json:"payments_pending"`
}

// PurchaseRecord is one line of a user's paid purchase history.
type PurchaseRecord struct {
	OrderID   int64     `db:"order_id" json:"order_id"`
	Total     int64     `db:"total" json:"total"`
	Status    string    `db:"status" json:"status"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	Title     string    `db:"title" json:"title"`
	Quantity  int       `db:"quantity" json:"quantity"`
	Price     int64     `db:"price" json:"price"`
}

// ListingBuyer reports who consumed a listing, if anyone.
type ListingBuyer struct {
	ListingID  int64      `db:"listing_id" json:"listing_id"`
	Title      string     `db:"title" json:"title"`
	OrderID    *int64     `db:"order_id" json:"order_id,omitempty"`
	UserID     *int64     `db:"user_id" json:"user_id,omitempty"`
	Username   *string    `db:"username" json:"username,omitempty"`
	FirstName  *string    `db:"first_name" json:"first_name,omitempty"`
	ConsumedAt *time.Time `db:"consumed_at" json:"consumed_at,omitempty"`
}

// PaidUser is one row of the paid-users roll-up report.
type PaidUser struct {
	UserID      int64     `db:"user_id" json:"user_id"`
	Username    *string   `db:"username" json:"username,omitempty"`
	FirstName   *string   `db:"first_name" json:"first_name,omitempty"`
	OrdersCount int       `db:"orders_count" json:"orders_count"`
	LastPaidAt  time.Time `db:"last_paid_at" json:"last_paid_at"`
}

// PaymentReportRow joins a payment with its order and user for the full
// payments report.
type PaymentReportRow struct {
	PaymentID     int64      `db:"payment_id" json:"payment_id"`
	OrderID       int64      `db:"order_id" json:"order_id"`
	UserID        int64      `db:"user_id" json:"user_id"`
	Total         int64      `db:"total" json:"total"`
	PaymentStatus string     `db:"payment_status" json:"payment_status"`
	OrderStatus   *string    `db:"order_status" json:"order_status,omitempty"`
	Username      *string    `db:"username" json:"username,omitempty"`
	CreatedAt     time.Time  `db:"created_at" json:"created_at"`
	ProcessedAt   *time.Time `db:"processed_at" json:"processed_at,omitempty"`
}
