package service

import (
	"context"
	"fmt"

	"storefront-service/internal/models"
	"storefront-service/internal/util"

	"go.uber.org/zap"
)

// CartStore is the slice of the store the cart service needs.
type CartStore interface {
	AddToCart(ctx context.Context, userID, listingID int64) (bool, error)
	GetCartItems(ctx context.Context, userID int64) ([]models.CartEntry, error)
	ClearCart(ctx context.Context, userID int64) error
}

// CartService handles the per-user staging set of listings. Cart rows are
// private to one user, so no coordination beyond the store is needed.
type CartService struct {
	store  CartStore
	logger *zap.Logger
}

// NewCartService creates a new cart service
func NewCartService(store CartStore) *CartService {
	return &CartService{
		store:  store,
		logger: util.GetLogger(),
	}
}

// Add stages a listing for purchase. Returns false when the listing is
// missing, inactive or unavailable; re-adding is a no-op returning true.
func (s *CartService) Add(ctx context.Context, userID, listingID int64) (bool, error) {
	ctx, span := util.StartSpan(ctx, "CartService.Add")
	defer span.End()

	added, err := s.store.AddToCart(ctx, userID, listingID)
	if err != nil {
		util.CartAddsTotal.WithLabelValues("error").Inc()
		return false, fmt.Errorf("failed to add to cart: %w", err)
	}

	if added {
		util.CartAddsTotal.WithLabelValues("added").Inc()
	} else {
		util.CartAddsTotal.WithLabelValues("unavailable").Inc()
		s.logger.Debug("Cart add refused",
			zap.Int64("user_id", userID),
			zap.Int64("listing_id", listingID))
	}
	return added, nil
}

// List returns the cart joined against live listing title and price.
func (s *CartService) List(ctx context.Context, userID int64) ([]models.CartEntry, error) {
	ctx, span := util.StartSpan(ctx, "CartService.List")
	defer span.End()

	return s.store.GetCartItems(ctx, userID)
}

// Clear removes every cart entry for the user.
func (s *CartService) Clear(ctx context.Context, userID int64) error {
	ctx, span := util.StartSpan(ctx, "CartService.Clear")
	defer span.End()

	return s.store.ClearCart(ctx, userID)
}
