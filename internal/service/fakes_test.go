package service

import (
	"context"
	"errors"
	"sync"

	"storefront-service/internal/models"
)

// fakeStore is an in-memory stand-in for the Postgres store. It applies
// the same guards the SQL does: availability checked row by row under a
// lock, decisions applied only to pending claims.
type fakeStore struct {
	mu sync.Mutex

	listings map[int64]*models.Listing
	carts    map[int64][]int64
	orders   map[int64]*models.Order
	items    map[int64][]models.OrderItem
	payments map[int64]*models.Payment
	users    map[int64]int // purchases count

	nextOrderID   int64
	nextPaymentID int64

	checkoutErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		listings: make(map[int64]*models.Listing),
		carts:    make(map[int64][]int64),
		orders:   make(map[int64]*models.Order),
		items:    make(map[int64][]models.OrderItem),
		payments: make(map[int64]*models.Payment),
		users:    make(map[int64]int),
	}
}

func (f *fakeStore) addListing(id, price int64) {
	f.listings[id] = &models.Listing{
		ID:        id,
		Title:     "listing",
		Price:     price,
		Available: true,
		Active:    true,
	}
}

func (f *fakeStore) AddToCart(ctx context.Context, userID, listingID int64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	l, ok := f.listings[listingID]
	if !ok || !l.Available || !l.Active {
		return false, nil
	}
	for _, id := range f.carts[userID] {
		if id == listingID {
			return true, nil
		}
	}
	f.carts[userID] = append(f.carts[userID], listingID)
	return true, nil
}

func (f *fakeStore) GetCartItems(ctx context.Context, userID int64) ([]models.CartEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var entries []models.CartEntry
	for _, id := range f.carts[userID] {
		l, ok := f.listings[id]
		if !ok {
			continue
		}
		entries = append(entries, models.CartEntry{
			ListingID: id,
			Title:     l.Title,
			Price:     l.Price,
			Quantity:  1,
		})
	}
	return entries, nil
}

func (f *fakeStore) ClearCart(ctx context.Context, userID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	delete(f.carts, userID)
	return nil
}

func (f *fakeStore) CheckoutFromCart(ctx context.Context, userID int64, proofRef string) (*models.CheckoutResult, error) {
	if f.checkoutErr != nil {
		return nil, f.checkoutErr
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	// Drop cart rows whose listing no longer exists.
	var live []int64
	for _, id := range f.carts[userID] {
		if _, ok := f.listings[id]; ok {
			live = append(live, id)
		}
	}
	f.carts[userID] = live

	if len(live) == 0 {
		return nil, models.ErrEmptyCart
	}
	for _, id := range live {
		l := f.listings[id]
		if !l.Available || !l.Active {
			return nil, models.ErrOutOfStock
		}
	}

	f.nextOrderID++
	orderID := f.nextOrderID

	var total int64
	var items []models.OrderItem
	for _, id := range live {
		l := f.listings[id]
		l.Available = false
		l.ConsumedByOrder = &orderID
		l.ConsumedByUser = &userID
		total += l.Price
		items = append(items, models.OrderItem{
			OrderID:   orderID,
			ListingID: id,
			Quantity:  1,
			Price:     l.Price,
		})
	}

	f.orders[orderID] = &models.Order{
		ID:     orderID,
		UserID: userID,
		Total:  total,
		Status: models.OrderStatusPendingReview,
	}
	f.items[orderID] = items

	f.nextPaymentID++
	f.payments[f.nextPaymentID] = &models.Payment{
		ID:       f.nextPaymentID,
		OrderID:  orderID,
		UserID:   userID,
		Total:    total,
		Status:   models.PaymentStatusPending,
		ProofRef: proofRef,
	}

	delete(f.carts, userID)

	return &models.CheckoutResult{
		OrderID:   orderID,
		PaymentID: f.nextPaymentID,
		Total:     total,
	}, nil
}

func (f *fakeStore) ConfirmPayment(ctx context.Context, paymentID int64) (*models.Payment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	p, ok := f.payments[paymentID]
	if !ok {
		return nil, models.ErrNotFound
	}
	if p.Status != models.PaymentStatusPending {
		return nil, models.ErrAlreadyProcessed
	}
	p.Status = models.PaymentStatusConfirmed
	f.orders[p.OrderID].Status = models.OrderStatusPaid
	f.users[p.UserID]++

	cp := *p
	return &cp, nil
}

func (f *fakeStore) RejectPayment(ctx context.Context, paymentID int64) (*models.Payment, []int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	p, ok := f.payments[paymentID]
	if !ok {
		return nil, nil, models.ErrNotFound
	}
	if p.Status != models.PaymentStatusPending {
		return nil, nil, models.ErrAlreadyProcessed
	}
	p.Status = models.PaymentStatusRejected
	f.orders[p.OrderID].Status = models.OrderStatusRejected

	var released []int64
	for id, l := range f.listings {
		if l.ConsumedByOrder != nil && *l.ConsumedByOrder == p.OrderID {
			l.Available = true
			l.ConsumedByOrder = nil
			l.ConsumedByUser = nil
			released = append(released, id)
		}
	}

	cp := *p
	return &cp, released, nil
}

func (f *fakeStore) GetOrderItemDetails(ctx context.Context, orderID int64) ([]models.OrderItemDetail, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var details []models.OrderItemDetail
	for _, it := range f.items[orderID] {
		l := f.listings[it.ListingID]
		details = append(details, models.OrderItemDetail{
			ListingID:   it.ListingID,
			Title:       l.Title,
			Description: l.Description,
			ImageRef:    l.ImageRef,
			Quantity:    it.Quantity,
			Price:       it.Price,
		})
	}
	return details, nil
}

// fakePublisher records published events and optionally fails.
type fakePublisher struct {
	mu   sync.Mutex
	fail bool

	checkouts []*models.CheckoutSubmittedEvent
	confirms  []*models.PaymentConfirmedEvent
	rejects   []*models.PaymentRejectedEvent
}

var errPublish = errors.New("broker unavailable")

func (p *fakePublisher) PublishCheckoutSubmitted(ctx context.Context, e *models.CheckoutSubmittedEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.fail {
		return errPublish
	}
	p.checkouts = append(p.checkouts, e)
	return nil
}

func (p *fakePublisher) PublishPaymentConfirmed(ctx context.Context, e *models.PaymentConfirmedEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.fail {
		return errPublish
	}
	p.confirms = append(p.confirms, e)
	return nil
}

func (p *fakePublisher) PublishPaymentRejected(ctx context.Context, e *models.PaymentRejectedEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.fail {
		return errPublish
	}
	p.rejects = append(p.rejects, e)
	return nil
}
