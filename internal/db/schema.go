package db

import (
	"context"
	"database/sql"
	"fmt"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS roles (
		id BIGINT PRIMARY KEY AUTO_INCREMENT,
		name VARCHAR(50) NOT NULL UNIQUE
	)`,
	`CREATE TABLE IF NOT EXISTS users (
		id BIGINT PRIMARY KEY AUTO_INCREMENT,
		email VARCHAR(255) NOT NULL UNIQUE,
		first_name VARCHAR(100) NULL,
		last_name VARCHAR(100) NULL,
		date_of_birth DATE NULL,
		nationality VARCHAR(100) NULL,
		password_hash VARCHAR(255) NOT NULL,
		role_id BIGINT NOT NULL,
		CONSTRAINT fk_users_role FOREIGN KEY (role_id) REFERENCES roles(id)
	)`,
	`CREATE TABLE IF NOT EXISTS addresses (
		id BIGINT PRIMARY KEY AUTO_INCREMENT,
		city VARCHAR(50) NOT NULL,
		street VARCHAR(50) NOT NULL,
		postal_code VARCHAR(20) NULL
	)`,
	`CREATE TABLE IF NOT EXISTS restaurants (
		id BIGINT PRIMARY KEY AUTO_INCREMENT,
		name VARCHAR(25) NOT NULL,
		description TEXT NULL,
		category VARCHAR(100) NOT NULL,
		has_delivery TINYINT(1) NOT NULL DEFAULT 0,
		contact_email VARCHAR(255) NULL,
		contact_number VARCHAR(50) NULL,
		created_by_id BIGINT NULL,
		address_id BIGINT NOT NULL,
		INDEX idx_restaurants_created_by (created_by_id),
		CONSTRAINT fk_restaurants_address FOREIGN KEY (address_id) REFERENCES addresses(id) ON DELETE CASCADE,
		CONSTRAINT fk_restaurants_user FOREIGN KEY (created_by_id) REFERENCES users(id) ON DELETE SET NULL
	)`,
	`CREATE TABLE IF NOT EXISTS dishes (
		id BIGINT PRIMARY KEY AUTO_INCREMENT,
		name VARCHAR(100) NOT NULL,
		description TEXT NULL,
		price DECIMAL(10,2) NOT NULL DEFAULT 0,
		restaurant_id BIGINT NOT NULL,
		CONSTRAINT fk_dishes_restaurant FOREIGN KEY (restaurant_id) REFERENCES restaurants(id) ON DELETE CASCADE
	)`,
}

// EnsureSchema creates missing tables. Existing tables are left untouched.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	return nil
}
