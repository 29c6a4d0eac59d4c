package store

import (
	"context"
	"os"
	"testing"

	"storefront-service/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testStore connects to the database named by STORE_TEST_DATABASE_URL.
// The schema is applied on connect; tests create their own taxonomy and
// listings so they do not depend on seeded data.
func testStore(t *testing.T) *Store {
	t.Helper()
	url := os.Getenv("STORE_TEST_DATABASE_URL")
	if url == "" {
		t.Skip("Integration test - set STORE_TEST_DATABASE_URL")
	}
	s, err := NewStore(url)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func seedListing(t *testing.T, s *Store, price int64) int64 {
	t.Helper()
	ctx := context.Background()

	cityID, err := s.AddCity(ctx, "Test City")
	require.NoError(t, err)
	areaID, err := s.AddArea(ctx, cityID, "Test Area")
	require.NoError(t, err)
	require.NoError(t, s.AddVariant(ctx, "standard", 1))
	require.NoError(t, s.AddClass(ctx, "standard", "basic", 1))

	id, err := s.CreateListing(ctx, &NewListing{
		CityID:      cityID,
		AreaID:      areaID,
		Variant:     "standard",
		Class:       "basic",
		Title:       "Test Listing",
		Description: "test content",
		Price:       price,
		ImageRef:    "img-1",
	})
	require.NoError(t, err)
	return id
}

func TestCheckoutLifecycle(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	listingID := seedListing(t, s, 2500)
	require.NoError(t, s.UpsertUser(ctx, 100, "buyer", "Buyer"))

	added, err := s.AddToCart(ctx, 100, listingID)
	require.NoError(t, err)
	require.True(t, added)

	result, err := s.CheckoutFromCart(ctx, 100, "proof-1")
	require.NoError(t, err)
	assert.Equal(t, int64(2500), result.Total)

	// The listing is reserved for exactly this order.
	l, err := s.GetListing(ctx, listingID)
	require.NoError(t, err)
	assert.False(t, l.Available)
	require.NotNil(t, l.ConsumedByOrder)
	assert.Equal(t, result.OrderID, *l.ConsumedByOrder)

	// The cart is cleared and a second submit fails empty.
	entries, err := s.GetCartItems(ctx, 100)
	require.NoError(t, err)
	assert.Empty(t, entries)
	_, err = s.CheckoutFromCart(ctx, 100, "proof-2")
	assert.ErrorIs(t, err, models.ErrEmptyCart)

	// Confirm finalizes payment, order and purchase counter.
	p, err := s.ConfirmPayment(ctx, result.PaymentID)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusConfirmed, p.Status)

	order, err := s.GetOrderByID(ctx, result.OrderID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusPaid, order.Status)

	u, err := s.GetUser(ctx, 100)
	require.NoError(t, err)
	assert.Equal(t, 1, u.PurchasesCount)

	// A second decision of either kind is refused.
	_, err = s.ConfirmPayment(ctx, result.PaymentID)
	assert.ErrorIs(t, err, models.ErrAlreadyProcessed)
	_, _, err = s.RejectPayment(ctx, result.PaymentID)
	assert.ErrorIs(t, err, models.ErrAlreadyProcessed)
}

func TestRejectReleasesExactListings(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	listingID := seedListing(t, s, 1000)
	require.NoError(t, s.UpsertUser(ctx, 200, "buyer2", "Buyer"))

	_, err := s.AddToCart(ctx, 200, listingID)
	require.NoError(t, err)
	result, err := s.CheckoutFromCart(ctx, 200, "proof-1")
	require.NoError(t, err)

	p, released, err := s.RejectPayment(ctx, result.PaymentID)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusRejected, p.Status)
	assert.Equal(t, []int64{listingID}, released)

	l, err := s.GetListing(ctx, listingID)
	require.NoError(t, err)
	assert.True(t, l.Available)
	assert.Nil(t, l.ConsumedByOrder)

	// Released inventory can be bought again.
	added, err := s.AddToCart(ctx, 200, listingID)
	require.NoError(t, err)
	assert.True(t, added)
}

func TestCheckoutLosesRace(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	listingID := seedListing(t, s, 1000)
	require.NoError(t, s.UpsertUser(ctx, 300, "a", "A"))
	require.NoError(t, s.UpsertUser(ctx, 400, "b", "B"))

	_, err := s.AddToCart(ctx, 300, listingID)
	require.NoError(t, err)
	_, err = s.AddToCart(ctx, 400, listingID)
	require.NoError(t, err)

	_, err = s.CheckoutFromCart(ctx, 300, "proof-a")
	require.NoError(t, err)

	// The second buyer's snapshot sees the listing gone.
	_, err = s.CheckoutFromCart(ctx, 400, "proof-b")
	assert.ErrorIs(t, err, models.ErrOutOfStock)

	// And no order was created for the loser.
	orders, err := s.GetOrdersByUserID(ctx, 400)
	require.NoError(t, err)
	assert.Empty(t, orders)
}

func TestCartAddRefusesUnavailable(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	listingID := seedListing(t, s, 1000)
	require.NoError(t, s.UpsertUser(ctx, 500, "c", "C"))

	require.NoError(t, s.SoftDeleteListing(ctx, listingID))

	added, err := s.AddToCart(ctx, 500, listingID)
	require.NoError(t, err)
	assert.False(t, added)
}

func TestSettingsRoundTrip(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	_, err := s.GetSetting(ctx, "missing-key")
	assert.ErrorIs(t, err, models.ErrNotFound)

	require.NoError(t, s.SetSetting(ctx, "payment_details", "card 1234"))
	v, err := s.GetSetting(ctx, "payment_details")
	require.NoError(t, err)
	assert.Equal(t, "card 1234", v)

	require.NoError(t, s.SetSetting(ctx, "payment_details", "card 5678"))
	v, err = s.GetSetting(ctx, "payment_details")
	require.NoError(t, err)
	assert.Equal(t, "card 5678", v)
}
