package service

import (
	"context"
	"sync"
	"testing"

	"storefront-service/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubmitEmptyCart(t *testing.T) {
	fs := newFakeStore()
	svc := NewCheckoutService(fs, &fakePublisher{})

	_, err := svc.Submit(context.Background(), 100, "proof-1")
	assert.ErrorIs(t, err, models.ErrEmptyCart)
}

func TestSubmitHappyPath(t *testing.T) {
	fs := newFakeStore()
	fs.addListing(1, 1500)
	fs.addListing(2, 2500)
	pub := &fakePublisher{}
	svc := NewCheckoutService(fs, pub)

	ctx := context.Background()
	added, err := fs.AddToCart(ctx, 100, 1)
	require.NoError(t, err)
	require.True(t, added)
	added, err = fs.AddToCart(ctx, 100, 2)
	require.NoError(t, err)
	require.True(t, added)

	result, err := svc.Submit(ctx, 100, "proof-1")
	require.NoError(t, err)
	assert.Equal(t, int64(4000), result.Total)

	// Both listings are reserved and the cart is gone.
	assert.False(t, fs.listings[1].Available)
	assert.False(t, fs.listings[2].Available)
	entries, err := fs.GetCartItems(ctx, 100)
	require.NoError(t, err)
	assert.Empty(t, entries)

	// Order pends review behind a pending payment claim.
	assert.Equal(t, models.OrderStatusPendingReview, fs.orders[result.OrderID].Status)
	assert.Equal(t, models.PaymentStatusPending, fs.payments[result.PaymentID].Status)
	assert.Equal(t, "proof-1", fs.payments[result.PaymentID].ProofRef)

	require.Len(t, pub.checkouts, 1)
	assert.Equal(t, result.OrderID, pub.checkouts[0].OrderID)
	assert.Equal(t, int64(100), pub.checkouts[0].UserID)
}

func TestSubmitUnavailableListing(t *testing.T) {
	fs := newFakeStore()
	fs.addListing(1, 1000)
	fs.addListing(2, 2000)
	svc := NewCheckoutService(fs, &fakePublisher{})

	ctx := context.Background()
	_, err := fs.AddToCart(ctx, 100, 1)
	require.NoError(t, err)
	_, err = fs.AddToCart(ctx, 100, 2)
	require.NoError(t, err)

	// Another buyer takes listing 2 first.
	fs.listings[2].Available = false

	_, err = svc.Submit(ctx, 100, "proof-1")
	assert.ErrorIs(t, err, models.ErrOutOfStock)

	// Nothing was committed: no order, listing 1 untouched, cart intact.
	assert.Empty(t, fs.orders)
	assert.True(t, fs.listings[1].Available)
	entries, err := fs.GetCartItems(ctx, 100)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestSubmitDeletedListingSkipped(t *testing.T) {
	fs := newFakeStore()
	fs.addListing(1, 1000)
	fs.addListing(2, 2000)
	svc := NewCheckoutService(fs, &fakePublisher{})

	ctx := context.Background()
	_, err := fs.AddToCart(ctx, 100, 1)
	require.NoError(t, err)
	_, err = fs.AddToCart(ctx, 100, 2)
	require.NoError(t, err)

	// Listing 2 disappears entirely; it is dropped, not failed on.
	delete(fs.listings, 2)

	result, err := svc.Submit(ctx, 100, "proof-1")
	require.NoError(t, err)
	assert.Equal(t, int64(1000), result.Total)
	assert.Len(t, fs.items[result.OrderID], 1)
}

func TestConcurrentCheckoutSingleWinner(t *testing.T) {
	fs := newFakeStore()
	fs.addListing(1, 5000)
	svc := NewCheckoutService(fs, &fakePublisher{})

	ctx := context.Background()
	_, err := fs.AddToCart(ctx, 100, 1)
	require.NoError(t, err)
	_, err = fs.AddToCart(ctx, 200, 1)
	require.NoError(t, err)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i, userID := range []int64{100, 200} {
		wg.Add(1)
		go func(i int, userID int64) {
			defer wg.Done()
			_, errs[i] = svc.Submit(ctx, userID, "proof")
		}(i, userID)
	}
	wg.Wait()

	winners := 0
	for _, err := range errs {
		if err == nil {
			winners++
		} else {
			assert.ErrorIs(t, err, models.ErrOutOfStock)
		}
	}
	assert.Equal(t, 1, winners)
	assert.Len(t, fs.orders, 1)
	assert.False(t, fs.listings[1].Available)
}

func TestSubmitFreezesPrice(t *testing.T) {
	fs := newFakeStore()
	fs.addListing(1, 1000)
	svc := NewCheckoutService(fs, &fakePublisher{})

	ctx := context.Background()
	_, err := fs.AddToCart(ctx, 100, 1)
	require.NoError(t, err)

	result, err := svc.Submit(ctx, 100, "proof-1")
	require.NoError(t, err)

	// A later price change must not touch the captured order line.
	fs.listings[1].Price = 9999

	assert.Equal(t, int64(1000), fs.orders[result.OrderID].Total)
	assert.Equal(t, int64(1000), fs.items[result.OrderID][0].Price)
}

func TestSubmitPublishFailureStillSucceeds(t *testing.T) {
	fs := newFakeStore()
	fs.addListing(1, 1000)
	pub := &fakePublisher{fail: true}
	svc := NewCheckoutService(fs, pub)

	ctx := context.Background()
	_, err := fs.AddToCart(ctx, 100, 1)
	require.NoError(t, err)

	result, err := svc.Submit(ctx, 100, "proof-1")
	require.NoError(t, err)
	assert.NotZero(t, result.OrderID)
	assert.Empty(t, pub.checkouts)
}
