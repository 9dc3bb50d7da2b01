package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	intconfig "restaurantapi/internal/config"
	"restaurantapi/internal/domain"
	"restaurantapi/internal/domain/models"
	"restaurantapi/internal/query"
	"restaurantapi/internal/utils"
)

const restaurantSelect = `
	SELECT
		r.id,
		r.name,
		COALESCE(r.description, ''),
		r.category,
		r.has_delivery,
		COALESCE(r.contact_email, ''),
		COALESCE(r.contact_number, ''),
		COALESCE(r.created_by_id, 0),
		a.id,
		a.city,
		a.street,
		COALESCE(a.postal_code, '')
	FROM restaurants r
	JOIN addresses a ON a.id = r.address_id
`

// RestaurantRepository stores restaurants with their address and dishes.
type RestaurantRepository struct {
	DB *sql.DB
}

func (r RestaurantRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

// sortColumn maps the closed column set onto SQL sort keys. Keys are
// lowercased and compared by code point, the same order the in-memory store
// uses, so accents stay significant.
func sortColumn(c query.Column) (string, error) {
	switch c {
	case query.ColumnName:
		return "LOWER(r.name) COLLATE utf8mb4_bin", nil
	case query.ColumnDescription:
		return "LOWER(COALESCE(r.description, '')) COLLATE utf8mb4_bin", nil
	case query.ColumnCategory:
		return "LOWER(r.category) COLLATE utf8mb4_bin", nil
	}
	return "", fmt.Errorf("%w: %v", query.ErrInvalidSortColumn, c)
}

// List returns one page and the total match count. Both statements run in a
// single read-only transaction so the count describes the same snapshot as
// the page.
func (r RestaurantRepository) List(ctx context.Context, d query.Descriptor) ([]models.Restaurant, int, error) {
	where, args := query.SearchClause(d, "r.name", "COALESCE(r.description, '')")
	if where != "" {
		where = " WHERE " + where
	}

	order := " ORDER BY r.id ASC"
	if d.SortBy != query.ColumnNone {
		col, err := sortColumn(d.SortBy)
		if err != nil {
			return nil, 0, err
		}
		order = fmt.Sprintf(" ORDER BY %s %s, r.id ASC", col, d.SortDirection)
	}

	tx, err := r.db().BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true})
	if err != nil {
		return nil, 0, fmt.Errorf("begin list tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var total int
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM restaurants r`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count restaurants: %w", err)
	}

	pageArgs := append(append([]any{}, args...), d.PageSize, d.Offset())
	rows, err := tx.QueryContext(ctx, restaurantSelect+where+order+" LIMIT ? OFFSET ?", pageArgs...)
	if err != nil {
		return nil, 0, fmt.Errorf("list restaurants: %w", err)
	}
	list, err := scanRestaurants(rows)
	if err != nil {
		return nil, 0, err
	}

	if err := attachDishes(ctx, tx, list); err != nil {
		return nil, 0, err
	}
	if err := tx.Commit(); err != nil {
		return nil, 0, fmt.Errorf("commit list tx: %w", err)
	}
	return list, total, nil
}

// GetByID loads one restaurant including address and dishes.
func (r RestaurantRepository) GetByID(ctx context.Context, id int64) (models.Restaurant, error) {
	rows, err := r.db().QueryContext(ctx, restaurantSelect+" WHERE r.id = ?", id)
	if err != nil {
		return models.Restaurant{}, fmt.Errorf("get restaurant: %w", err)
	}
	list, err := scanRestaurants(rows)
	if err != nil {
		return models.Restaurant{}, err
	}
	if len(list) == 0 {
		return models.Restaurant{}, domain.NotFoundError{Resource: "restaurant", Err: sql.ErrNoRows}
	}
	if err := attachDishes(ctx, r.db(), list); err != nil {
		return models.Restaurant{}, err
	}
	return list[0], nil
}

// Create inserts the address and the restaurant and returns the new id.
func (r RestaurantRepository) Create(ctx context.Context, rest models.Restaurant) (int64, error) {
	tx, err := r.db().BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin create tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, `INSERT INTO addresses (city, street, postal_code) VALUES (?, ?, ?)`,
		rest.Address.City, rest.Address.Street, utils.NullIfEmpty(rest.Address.PostalCode))
	if err != nil {
		return 0, fmt.Errorf("insert address: %w", err)
	}
	addressID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("address id: %w", err)
	}

	var createdBy any
	if rest.CreatedByID > 0 {
		createdBy = rest.CreatedByID
	}
	res, err = tx.ExecContext(ctx, `
		INSERT INTO restaurants (name, description, category, has_delivery, contact_email, contact_number, created_by_id, address_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, rest.Name, utils.NullIfEmpty(rest.Description), rest.Category, rest.HasDelivery,
		utils.NullIfEmpty(rest.ContactEmail), utils.NullIfEmpty(rest.ContactNumber), createdBy, addressID)
	if err != nil {
		return 0, fmt.Errorf("insert restaurant: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("restaurant id: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit create tx: %w", err)
	}
	return id, nil
}

// Update writes the editable columns of an existing restaurant.
func (r RestaurantRepository) Update(ctx context.Context, rest models.Restaurant) error {
	_, err := r.db().ExecContext(ctx, `
		UPDATE restaurants
		SET name = ?, description = ?, has_delivery = ?
		WHERE id = ?
	`, rest.Name, utils.NullIfEmpty(rest.Description), rest.HasDelivery, rest.ID)
	if err != nil {
		return fmt.Errorf("update restaurant: %w", err)
	}
	return nil
}

// Delete removes the restaurant's address; restaurant and dishes follow by
// ON DELETE CASCADE.
func (r RestaurantRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db().ExecContext(ctx, `
		DELETE a FROM addresses a
		JOIN restaurants r ON r.address_id = a.id
		WHERE r.id = ?
	`, id)
	if err != nil {
		return fmt.Errorf("delete restaurant: %w", err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return domain.NotFoundError{Resource: "restaurant"}
	}
	return nil
}

// CountOwnedBy counts restaurants created by userID.
func (r RestaurantRepository) CountOwnedBy(ctx context.Context, userID int64) (int, error) {
	var n int
	err := r.db().QueryRowContext(ctx, `SELECT COUNT(*) FROM restaurants WHERE created_by_id = ?`, userID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count restaurants by owner: %w", err)
	}
	return n, nil
}

func scanRestaurants(rows *sql.Rows) ([]models.Restaurant, error) {
	defer rows.Close()

	list := []models.Restaurant{}
	for rows.Next() {
		var rest models.Restaurant
		if err := rows.Scan(
			&rest.ID,
			&rest.Name,
			&rest.Description,
			&rest.Category,
			&rest.HasDelivery,
			&rest.ContactEmail,
			&rest.ContactNumber,
			&rest.CreatedByID,
			&rest.Address.ID,
			&rest.Address.City,
			&rest.Address.Street,
			&rest.Address.PostalCode,
		); err != nil {
			return nil, fmt.Errorf("scan restaurant: %w", err)
		}
		rest.AddressID = rest.Address.ID
		rest.Dishes = []models.Dish{}
		list = append(list, rest)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate restaurants: %w", err)
	}
	return list, nil
}

type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// attachDishes loads the dishes of every restaurant in list with one query.
func attachDishes(ctx context.Context, q queryer, list []models.Restaurant) error {
	if len(list) == 0 {
		return nil
	}
	index := make(map[int64]int, len(list))
	placeholders := make([]string, 0, len(list))
	args := make([]any, 0, len(list))
	for i, rest := range list {
		index[rest.ID] = i
		placeholders = append(placeholders, "?")
		args = append(args, rest.ID)
	}

	rows, err := q.QueryContext(ctx, `
		SELECT id, name, COALESCE(description, ''), price, restaurant_id
		FROM dishes
		WHERE restaurant_id IN (`+strings.Join(placeholders, ",")+`)
		ORDER BY id ASC
	`, args...)
	if err != nil {
		return fmt.Errorf("load dishes: %w", err)
	}
	dishes, err := scanDishes(rows)
	if err != nil {
		return err
	}
	for _, d := range dishes {
		if i, ok := index[d.RestaurantID]; ok {
			list[i].Dishes = append(list[i].Dishes, d)
		}
	}
	return nil
}

func isNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}
