package store

import (
	"context"
	"fmt"

	"storefront-service/internal/models"
)

// Catalog taxonomy: cities/areas for location, variants/classes for
// category. Rename operations cascade into listings the way the original
// data did, so existing rows keep matching their taxonomy leaf.

func (s *Store) GetCities(ctx context.Context) ([]models.City, error) {
	var cities []models.City
	err := s.db.SelectContext(ctx, &cities, "SELECT * FROM cities ORDER BY name")
	return cities, err
}

func (s *Store) GetAreasByCity(ctx context.Context, cityID int64) ([]models.Area, error) {
	var areas []models.Area
	err := s.db.SelectContext(ctx, &areas,
		"SELECT * FROM areas WHERE city_id = $1 ORDER BY name", cityID)
	return areas, err
}

func (s *Store) GetVariants(ctx context.Context) ([]models.Variant, error) {
	var variants []models.Variant
	err := s.db.SelectContext(ctx, &variants,
		"SELECT * FROM variants ORDER BY sort_order, name")
	return variants, err
}

func (s *Store) GetClasses(ctx context.Context, variant string) ([]models.Class, error) {
	var classes []models.Class
	err := s.db.SelectContext(ctx, &classes,
		"SELECT * FROM classes WHERE variant_name = $1 ORDER BY sort_order, name", variant)
	return classes, err
}

func (s *Store) AddCity(ctx context.Context, name string) (int64, error) {
	var id int64
	err := s.db.GetContext(ctx, &id,
		"INSERT INTO cities (name) VALUES ($1) RETURNING id", name)
	return id, err
}

func (s *Store) AddArea(ctx context.Context, cityID int64, name string) (int64, error) {
	var id int64
	err := s.db.GetContext(ctx, &id,
		"INSERT INTO areas (city_id, name) VALUES ($1, $2) RETURNING id", cityID, name)
	return id, err
}

func (s *Store) AddVariant(ctx context.Context, name string, sortOrder int) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO variants (name, sort_order) VALUES ($1, $2)", name, sortOrder)
	return err
}

func (s *Store) AddClass(ctx context.Context, variant, name string, sortOrder int) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO classes (variant_name, name, sort_order) VALUES ($1, $2, $3)",
		variant, name, sortOrder)
	return err
}

func (s *Store) RenameCity(ctx context.Context, cityID int64, newName string) error {
	_, err := s.db.ExecContext(ctx,
		"UPDATE cities SET name = $1 WHERE id = $2", newName, cityID)
	return err
}

func (s *Store) RenameArea(ctx context.Context, areaID int64, newName string) error {
	_, err := s.db.ExecContext(ctx,
		"UPDATE areas SET name = $1 WHERE id = $2", newName, areaID)
	return err
}

// RenameVariant renames a variant and cascades into classes and listings
// in one transaction.
func (s *Store) RenameVariant(ctx context.Context, oldName, newName string) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		"UPDATE variants SET name = $1 WHERE name = $2", newName, oldName); err != nil {
		return fmt.Errorf("failed to rename variant: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		"UPDATE classes SET variant_name = $1 WHERE variant_name = $2", newName, oldName); err != nil {
		return fmt.Errorf("failed to cascade rename into classes: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		"UPDATE listings SET variant = $1 WHERE variant = $2", newName, oldName); err != nil {
		return fmt.Errorf("failed to cascade rename into listings: %w", err)
	}
	return tx.Commit()
}

// RenameClass renames a class within a variant, cascading into listings.
func (s *Store) RenameClass(ctx context.Context, variant, oldName, newName string) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		"UPDATE classes SET name = $1 WHERE variant_name = $2 AND name = $3",
		newName, variant, oldName); err != nil {
		return fmt.Errorf("failed to rename class: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		"UPDATE listings SET class = $1 WHERE variant = $2 AND class = $3",
		newName, variant, oldName); err != nil {
		return fmt.Errorf("failed to cascade rename into listings: %w", err)
	}
	return tx.Commit()
}

func (s *Store) DeleteCity(ctx context.Context, cityID int64) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM cities WHERE id = $1", cityID)
	return err
}

func (s *Store) DeleteArea(ctx context.Context, areaID int64) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM areas WHERE id = $1", areaID)
	return err
}

func (s *Store) DeleteVariant(ctx context.Context, name string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM variants WHERE name = $1", name)
	return err
}

func (s *Store) DeleteClass(ctx context.Context, variant, name string) error {
	_, err := s.db.ExecContext(ctx,
		"DELETE FROM classes WHERE variant_name = $1 AND name = $2", variant, name)
	return err
}

// CountListingsByArea returns how many purchasable listings an area holds,
// for menu badges.
func (s *Store) CountListingsByArea(ctx context.Context, areaID int64) (int, error) {
	var n int
	err := s.db.GetContext(ctx, &n, `
		SELECT COUNT(*) FROM listings
		WHERE area_id = $1 AND active AND available`, areaID)
	return n, err
}

// CountListingsByClass returns how many purchasable listings a taxonomy
// leaf holds. An empty class counts the whole variant.
func (s *Store) CountListingsByClass(ctx context.Context, variant, class string) (int, error) {
	var n int
	if class == "" {
		err := s.db.GetContext(ctx, &n, `
			SELECT COUNT(*) FROM listings
			WHERE variant = $1 AND active AND available`, variant)
		return n, err
	}
	err := s.db.GetContext(ctx, &n, `
		SELECT COUNT(*) FROM listings
		WHERE variant = $1 AND class = $2 AND active AND available`, variant, class)
	return n, err
}
