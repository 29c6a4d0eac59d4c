package service

import (
	"context"
	"fmt"

	"storefront-service/internal/models"
	"storefront-service/internal/redisclient"
	"storefront-service/internal/store"
	"storefront-service/internal/util"

	"go.uber.org/zap"
)

// InventoryService handles operator-side listing lifecycle: creation,
// soft deletion and the admin inventory views. Reservation and release
// are not here; they belong to the checkout and decision transactions.
type InventoryService struct {
	store  *store.Store
	cache  *redisclient.Client
	logger *zap.Logger
}

// NewInventoryService creates a new inventory service. cache may be nil.
func NewInventoryService(store *store.Store, cache *redisclient.Client) *InventoryService {
	return &InventoryService{
		store:  store,
		cache:  cache,
		logger: util.GetLogger(),
	}
}

// Create inserts a new available, active listing.
func (s *InventoryService) Create(ctx context.Context, l *store.NewListing) (int64, error) {
	ctx, span := util.StartSpan(ctx, "InventoryService.Create")
	defer span.End()

	id, err := s.store.CreateListing(ctx, l)
	if err != nil {
		return 0, err
	}

	s.invalidatePage(ctx, l.CityID, l.AreaID, l.Variant, l.Class)
	s.logger.Info("Listing created",
		zap.Int64("listing_id", id),
		zap.String("title", l.Title))
	return id, nil
}

// SoftDelete takes a listing off the storefront without touching its
// sold history.
func (s *InventoryService) SoftDelete(ctx context.Context, listingID int64) error {
	ctx, span := util.StartSpan(ctx, "InventoryService.SoftDelete")
	defer span.End()

	l, err := s.store.GetListing(ctx, listingID)
	if err != nil {
		return err
	}

	if err := s.store.SoftDeleteListing(ctx, listingID); err != nil {
		return fmt.Errorf("failed to soft-delete listing: %w", err)
	}

	s.invalidatePage(ctx, l.CityID, l.AreaID, l.Variant, l.Class)
	s.logger.Info("Listing soft-deleted", zap.Int64("listing_id", listingID))
	return nil
}

// Get retrieves a listing by id.
func (s *InventoryService) Get(ctx context.Context, listingID int64) (*models.Listing, error) {
	return s.store.GetListing(ctx, listingID)
}

// ListActive returns purchasable listings for the admin view.
func (s *InventoryService) ListActive(ctx context.Context, limit int) ([]models.Listing, error) {
	return s.store.ListActiveListings(ctx, limit)
}

// ListSold returns consumed listings, most recently sold first.
func (s *InventoryService) ListSold(ctx context.Context, limit int) ([]models.Listing, error) {
	return s.store.ListSoldListings(ctx, limit)
}

// ListAll returns every listing regardless of state.
func (s *InventoryService) ListAll(ctx context.Context, limit int) ([]models.Listing, error) {
	return s.store.ListAllListings(ctx, limit)
}

// Buyer reports who consumed a listing, if anyone.
func (s *InventoryService) Buyer(ctx context.Context, listingID int64) (*models.ListingBuyer, error) {
	return s.store.GetListingBuyer(ctx, listingID)
}

func (s *InventoryService) invalidatePage(ctx context.Context, cityID, areaID int64, variant, class string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateListingPage(ctx, cityID, areaID, variant, class); err != nil {
		s.logger.Warn("Listing cache invalidation failed", zap.Error(err))
	}
}
