package db

import (
	"context"
	"database/sql"
	"fmt"

	"restaurantapi/internal/domain/models"
)

// SeedRoles lists the fixed roles; ID 1 is the default for new accounts.
func SeedRoles() []models.Role {
	return []models.Role{
		{ID: models.DefaultRoleID, Name: models.RoleUser},
		{ID: 2, Name: models.RoleManager},
		{ID: 3, Name: models.RoleAdmin},
	}
}

// SeedRestaurants is the sample data loaded into an empty store.
func SeedRestaurants() []models.Restaurant {
	return []models.Restaurant{
		{
			Name:         "KFC",
			Category:     "Fast Food",
			Description:  "KFC (short for Kentucky Fried Chicken) is an American fast food restaurant chain headquartered in Louisville, Kentucky.",
			ContactEmail: "contact@kfc.com",
			HasDelivery:  true,
			Address:      models.Address{City: "Kraków", Street: "Długa 5", PostalCode: "30-001"},
			Dishes: []models.Dish{
				{Name: "Nashville Hot Chicken", Price: 10.30},
				{Name: "Chicken Nuggets", Price: 5.30},
			},
		},
		{
			Name:         "McDonald Szewska",
			Category:     "Fast Food",
			Description:  "McDonald's Corporation is an American multinational fast food chain, founded in 1940.",
			ContactEmail: "contact@mcdonald.com",
			HasDelivery:  true,
			Address:      models.Address{City: "Kraków", Street: "Szewska 2", PostalCode: "30-001"},
		},
	}
}

// Seed inserts roles and sample restaurants into empty tables.
func Seed(ctx context.Context, db *sql.DB) error {
	var roles int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM roles`).Scan(&roles); err != nil {
		return fmt.Errorf("count roles: %w", err)
	}
	if roles == 0 {
		for _, r := range SeedRoles() {
			if _, err := db.ExecContext(ctx, `INSERT INTO roles (id, name) VALUES (?, ?)`, r.ID, r.Name); err != nil {
				return fmt.Errorf("seed role %s: %w", r.Name, err)
			}
		}
	}

	var restaurants int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM restaurants`).Scan(&restaurants); err != nil {
		return fmt.Errorf("count restaurants: %w", err)
	}
	if restaurants > 0 {
		return nil
	}
	for _, r := range SeedRestaurants() {
		if err := seedRestaurant(ctx, db, r); err != nil {
			return err
		}
	}
	return nil
}

func seedRestaurant(ctx context.Context, db *sql.DB, r models.Restaurant) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, `INSERT INTO addresses (city, street, postal_code) VALUES (?, ?, ?)`,
		r.Address.City, r.Address.Street, r.Address.PostalCode)
	if err != nil {
		return fmt.Errorf("seed address: %w", err)
	}
	addressID, _ := res.LastInsertId()

	res, err = tx.ExecContext(ctx, `
		INSERT INTO restaurants (name, description, category, has_delivery, contact_email, contact_number, address_id)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, r.Name, r.Description, r.Category, r.HasDelivery, r.ContactEmail, r.ContactNumber, addressID)
	if err != nil {
		return fmt.Errorf("seed restaurant %s: %w", r.Name, err)
	}
	restaurantID, _ := res.LastInsertId()

	for _, d := range r.Dishes {
		if _, err := tx.ExecContext(ctx, `INSERT INTO dishes (name, description, price, restaurant_id) VALUES (?, ?, ?, ?)`,
			d.Name, d.Description, d.Price, restaurantID); err != nil {
			return fmt.Errorf("seed dish %s: %w", d.Name, err)
		}
	}
	return tx.Commit()
}
