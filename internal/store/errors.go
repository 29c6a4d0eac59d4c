package store

import (
	"database/sql"
	"errors"

	"storefront-service/internal/models"
)

// mapNoRows translates sql.ErrNoRows into the domain's not-found error so
// callers never match on database/sql directly.
func mapNoRows(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return models.ErrNotFound
	}
	return err
}
