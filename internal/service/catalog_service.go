package service

import (
	"context"

	"storefront-service/internal/models"
	"storefront-service/internal/redisclient"
	"storefront-service/internal/store"
	"storefront-service/internal/util"

	"go.uber.org/zap"
)

// CatalogService serves the location/category taxonomy and the filtered
// browse view, with a Redis cache-aside in front of browse pages. Cache
// failures are logged and the database answers instead.
type CatalogService struct {
	store  *store.Store
	cache  *redisclient.Client
	logger *zap.Logger
}

// NewCatalogService creates a new catalog service. cache may be nil.
func NewCatalogService(store *store.Store, cache *redisclient.Client) *CatalogService {
	return &CatalogService{
		store:  store,
		cache:  cache,
		logger: util.GetLogger(),
	}
}

// Browse returns purchasable listings under one taxonomy leaf.
func (s *CatalogService) Browse(ctx context.Context, cityID, areaID int64, variant, class string) ([]models.Listing, error) {
	ctx, span := util.StartSpan(ctx, "CatalogService.Browse")
	defer span.End()

	if s.cache != nil {
		listings, hit, err := s.cache.GetListingPage(ctx, cityID, areaID, variant, class)
		if err != nil {
			s.logger.Warn("Listing cache read failed", zap.Error(err))
		} else if hit {
			return listings, nil
		}
	}

	listings, err := s.store.GetListingsByFilter(ctx, cityID, areaID, variant, class)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.SetListingPage(ctx, cityID, areaID, variant, class, listings); err != nil {
			s.logger.Warn("Listing cache write failed", zap.Error(err))
		}
	}
	return listings, nil
}

func (s *CatalogService) Cities(ctx context.Context) ([]models.City, error) {
	return s.store.GetCities(ctx)
}

func (s *CatalogService) Areas(ctx context.Context, cityID int64) ([]models.Area, error) {
	return s.store.GetAreasByCity(ctx, cityID)
}

func (s *CatalogService) Variants(ctx context.Context) ([]models.Variant, error) {
	return s.store.GetVariants(ctx)
}

func (s *CatalogService) Classes(ctx context.Context, variant string) ([]models.Class, error) {
	return s.store.GetClasses(ctx, variant)
}

func (s *CatalogService) AddCity(ctx context.Context, name string) (int64, error) {
	return s.store.AddCity(ctx, name)
}

func (s *CatalogService) AddArea(ctx context.Context, cityID int64, name string) (int64, error) {
	return s.store.AddArea(ctx, cityID, name)
}

func (s *CatalogService) AddVariant(ctx context.Context, name string, sortOrder int) error {
	return s.store.AddVariant(ctx, name, sortOrder)
}

func (s *CatalogService) AddClass(ctx context.Context, variant, name string, sortOrder int) error {
	return s.store.AddClass(ctx, variant, name, sortOrder)
}

func (s *CatalogService) RenameCity(ctx context.Context, cityID int64, newName string) error {
	return s.store.RenameCity(ctx, cityID, newName)
}

func (s *CatalogService) RenameArea(ctx context.Context, areaID int64, newName string) error {
	return s.store.RenameArea(ctx, areaID, newName)
}

func (s *CatalogService) RenameVariant(ctx context.Context, oldName, newName string) error {
	return s.store.RenameVariant(ctx, oldName, newName)
}

func (s *CatalogService) RenameClass(ctx context.Context, variant, oldName, newName string) error {
	return s.store.RenameClass(ctx, variant, oldName, newName)
}

func (s *CatalogService) DeleteCity(ctx context.Context, cityID int64) error {
	return s.store.DeleteCity(ctx, cityID)
}

func (s *CatalogService) DeleteArea(ctx context.Context, areaID int64) error {
	return s.store.DeleteArea(ctx, areaID)
}

func (s *CatalogService) DeleteVariant(ctx context.Context, name string) error {
	return s.store.DeleteVariant(ctx, name)
}

func (s *CatalogService) DeleteClass(ctx context.Context, variant, name string) error {
	return s.store.DeleteClass(ctx, variant, name)
}

// AreaCount reports how many purchasable listings an area holds.
func (s *CatalogService) AreaCount(ctx context.Context, areaID int64) (int, error) {
	return s.store.CountListingsByArea(ctx, areaID)
}

// ClassCount reports how many purchasable listings a taxonomy leaf holds.
func (s *CatalogService) ClassCount(ctx context.Context, variant, class string) (int, error) {
	return s.store.CountListingsByClass(ctx, variant, class)
}
