package service

import (
	"context"

	"storefront-service/internal/models"
	"storefront-service/internal/store"
)

// UserService records customer identities and serves their profiles.
// The purchase counter is mutated only by the decision transaction.
type UserService struct {
	store *store.Store
}

// NewUserService creates a new user service
func NewUserService(store *store.Store) *UserService {
	return &UserService{store: store}
}

// Upsert records or refreshes a customer's identity.
func (s *UserService) Upsert(ctx context.Context, id int64, username, firstName string) error {
	return s.store.UpsertUser(ctx, id, username, firstName)
}

// Get retrieves a user by id.
func (s *UserService) Get(ctx context.Context, id int64) (*models.User, error) {
	return s.store.GetUser(ctx, id)
}
