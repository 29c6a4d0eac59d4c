package service

import (
	"context"
	"errors"

	"storefront-service/internal/models"
	"storefront-service/internal/redisclient"
	"storefront-service/internal/store"
	"storefront-service/internal/util"

	"go.uber.org/zap"
)

// SettingPaymentDetails is the key holding the operator-editable payment
// instructions shown to buyers at checkout.
const SettingPaymentDetails = "payment_details"

// SettingsService is the explicit key-value configuration store queried
// at point of use, with a Redis cache in front.
type SettingsService struct {
	store  *store.Store
	cache  *redisclient.Client
	logger *zap.Logger

	// fallback payment details used when the store has none yet.
	defaultPaymentDetails string
}

// NewSettingsService creates a new settings service. cache may be nil.
func NewSettingsService(store *store.Store, cache *redisclient.Client, defaultPaymentDetails string) *SettingsService {
	return &SettingsService{
		store:                 store,
		cache:                 cache,
		logger:                util.GetLogger(),
		defaultPaymentDetails: defaultPaymentDetails,
	}
}

// Get reads one setting, cache first.
func (s *SettingsService) Get(ctx context.Context, key string) (string, error) {
	if s.cache != nil {
		value, hit, err := s.cache.GetSetting(ctx, key)
		if err != nil {
			s.logger.Warn("Settings cache read failed", zap.Error(err))
		} else if hit {
			return value, nil
		}
	}

	value, err := s.store.GetSetting(ctx, key)
	if err != nil {
		return "", err
	}

	if s.cache != nil {
		if err := s.cache.SetSetting(ctx, key, value); err != nil {
			s.logger.Warn("Settings cache write failed", zap.Error(err))
		}
	}
	return value, nil
}

// Set upserts one setting and drops the stale cache entry.
func (s *SettingsService) Set(ctx context.Context, key, value string) error {
	if err := s.store.SetSetting(ctx, key, value); err != nil {
		return err
	}
	if s.cache != nil {
		if err := s.cache.InvalidateSetting(ctx, key); err != nil {
			s.logger.Warn("Settings cache invalidation failed", zap.Error(err))
		}
	}
	return nil
}

// PaymentDetails returns the payment instructions, falling back to the
// configured default when the store has none.
func (s *SettingsService) PaymentDetails(ctx context.Context) (string, error) {
	value, err := s.Get(ctx, SettingPaymentDetails)
	if errors.Is(err, models.ErrNotFound) {
		return s.defaultPaymentDetails, nil
	}
	if err != nil {
		return "", err
	}
	return value, nil
}
