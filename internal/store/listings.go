package store

import (
	"context"
	"fmt"

	"storefront-service/internal/models"

	"github.com/jmoiron/sqlx"
)

// NewListing carries the operator-supplied fields of a listing to create.
type NewListing struct {
	CityID      int64
	AreaID      int64
	Variant     string
	Class       string
	Title       string
	Description string
	Price       int64
	ImageRef    string
}

// CreateListing inserts a new available, active listing and returns its id.
func (s *Store) CreateListing(ctx context.Context, l *NewListing) (int64, error) {
	var id int64
	err := s.db.GetContext(ctx, &id, `
		INSERT INTO listings (city_id, area_id, variant, class, title, description, price, image_ref)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id`,
		l.CityID, l.AreaID, l.Variant, l.Class, l.Title, l.Description, l.Price, l.ImageRef)
	if err != nil {
		return 0, fmt.Errorf("failed to create listing: %w", err)
	}
	return id, nil
}

// GetListing retrieves a listing by id.
func (s *Store) GetListing(ctx context.Context, id int64) (*models.Listing, error) {
	var l models.Listing
	err := s.db.GetContext(ctx, &l, "SELECT * FROM listings WHERE id = $1", id)
	if err != nil {
		return nil, mapNoRows(err)
	}
	return &l, nil
}

// GetListingsByFilter returns available, active listings under one
// (city, area, variant, class) leaf, newest first.
func (s *Store) GetListingsByFilter(ctx context.Context, cityID, areaID int64, variant, class string) ([]models.Listing, error) {
	var listings []models.Listing
	err := s.db.SelectContext(ctx, &listings, `
		SELECT * FROM listings
		WHERE city_id = $1 AND area_id = $2 AND variant = $3 AND class = $4
		  AND active AND available
		ORDER BY id DESC`,
		cityID, areaID, variant, class)
	return listings, err
}

// ListActiveListings returns purchasable listings for the admin inventory view.
func (s *Store) ListActiveListings(ctx context.Context, limit int) ([]models.Listing, error) {
	var listings []models.Listing
	err := s.db.SelectContext(ctx, &listings, `
		SELECT * FROM listings
		WHERE active AND available
		ORDER BY id DESC
		LIMIT $1`, limit)
	return listings, err
}

// ListSoldListings returns consumed listings, most recently sold first.
func (s *Store) ListSoldListings(ctx context.Context, limit int) ([]models.Listing, error) {
	var listings []models.Listing
	err := s.db.SelectContext(ctx, &listings, `
		SELECT * FROM listings
		WHERE consumed_by_order IS NOT NULL
		ORDER BY consumed_at DESC, id DESC
		LIMIT $1`, limit)
	return listings, err
}

// ListAllListings returns every listing regardless of state.
func (s *Store) ListAllListings(ctx context.Context, limit int) ([]models.Listing, error) {
	var listings []models.Listing
	err := s.db.SelectContext(ctx, &listings, `
		SELECT * FROM listings ORDER BY id DESC LIMIT $1`, limit)
	return listings, err
}

// SoftDeleteListing takes a listing off the storefront. The consumption
// fields are left untouched so sold history survives deletion.
func (s *Store) SoftDeleteListing(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE listings SET active = FALSE, available = FALSE WHERE id = $1", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return models.ErrNotFound
	}
	return nil
}

// reserveListingTx transitions one listing from available to consumed,
// but only if it is still available and active. The WHERE clause is the
// compare-and-set: of any number of concurrent checkouts racing for this
// listing, exactly one sees a row count of 1.
func reserveListingTx(ctx context.Context, tx *sqlx.Tx, listingID, userID, orderID int64) (bool, error) {
	res, err := tx.ExecContext(ctx, `
		UPDATE listings
		SET available = FALSE,
		    consumed_by_order = $1,
		    consumed_by_user = $2,
		    consumed_at = NOW()
		WHERE id = $3 AND available AND active`,
		orderID, userID, listingID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

// releaseListingsTx re-lists every listing consumed by the given order:
// consumption fields cleared, availability restored. Returns the ids of
// the released listings.
func releaseListingsTx(ctx context.Context, tx *sqlx.Tx, orderID int64) ([]int64, error) {
	rows, err := tx.QueryContext(ctx, `
		UPDATE listings
		SET available = TRUE,
		    active = TRUE,
		    consumed_by_order = NULL,
		    consumed_by_user = NULL,
		    consumed_at = NULL
		WHERE consumed_by_order = $1
		RETURNING id`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
