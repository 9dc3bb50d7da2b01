package repositories

import (
	"context"
	"database/sql"
	"fmt"

	intconfig "restaurantapi/internal/config"
	"restaurantapi/internal/domain"
	"restaurantapi/internal/domain/models"
	"restaurantapi/internal/utils"
)

type DishRepository struct {
	DB *sql.DB
}

func (r DishRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

func (r DishRepository) Create(ctx context.Context, d models.Dish) (int64, error) {
	res, err := r.db().ExecContext(ctx, `
		INSERT INTO dishes (name, description, price, restaurant_id)
		VALUES (?, ?, ?, ?)
	`, d.Name, utils.NullIfEmpty(d.Description), d.Price, d.RestaurantID)
	if err != nil {
		return 0, fmt.Errorf("insert dish: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("dish id: %w", err)
	}
	return id, nil
}

func (r DishRepository) GetByID(ctx context.Context, id int64) (models.Dish, error) {
	var d models.Dish
	err := r.db().QueryRowContext(ctx, `
		SELECT id, name, COALESCE(description, ''), price, restaurant_id
		FROM dishes
		WHERE id = ?
	`, id).Scan(&d.ID, &d.Name, &d.Description, &d.Price, &d.RestaurantID)
	if err != nil {
		if isNoRows(err) {
			return models.Dish{}, domain.NotFoundError{Resource: "dish", Err: err}
		}
		return models.Dish{}, fmt.Errorf("get dish: %w", err)
	}
	return d, nil
}

func (r DishRepository) ListByRestaurant(ctx context.Context, restaurantID int64) ([]models.Dish, error) {
	rows, err := r.db().QueryContext(ctx, `
		SELECT id, name, COALESCE(description, ''), price, restaurant_id
		FROM dishes
		WHERE restaurant_id = ?
		ORDER BY id ASC
	`, restaurantID)
	if err != nil {
		return nil, fmt.Errorf("list dishes: %w", err)
	}
	return scanDishes(rows)
}

func (r DishRepository) DeleteByRestaurant(ctx context.Context, restaurantID int64) error {
	if _, err := r.db().ExecContext(ctx, `DELETE FROM dishes WHERE restaurant_id = ?`, restaurantID); err != nil {
		return fmt.Errorf("delete dishes: %w", err)
	}
	return nil
}

func (r DishRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db().ExecContext(ctx, `DELETE FROM dishes WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete dish: %w", err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return domain.NotFoundError{Resource: "dish"}
	}
	return nil
}

func scanDishes(rows *sql.Rows) ([]models.Dish, error) {
	defer rows.Close()

	list := []models.Dish{}
	for rows.Next() {
		var d models.Dish
		if err := rows.Scan(&d.ID, &d.Name, &d.Description, &d.Price, &d.RestaurantID); err != nil {
			return nil, fmt.Errorf("scan dish: %w", err)
		}
		list = append(list, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate dishes: %w", err)
	}
	return list, nil
}
