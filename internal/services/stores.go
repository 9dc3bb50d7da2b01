package services

import (
	"context"

	"restaurantapi/internal/domain/models"
	"restaurantapi/internal/query"
)

// RestaurantStore is implemented by repositories.RestaurantRepository and the
// memory store.
type RestaurantStore interface {
	List(ctx context.Context, d query.Descriptor) ([]models.Restaurant, int, error)
	GetByID(ctx context.Context, id int64) (models.Restaurant, error)
	Create(ctx context.Context, r models.Restaurant) (int64, error)
	Update(ctx context.Context, r models.Restaurant) error
	Delete(ctx context.Context, id int64) error
	CountOwnedBy(ctx context.Context, userID int64) (int, error)
}

type DishStore interface {
	Create(ctx context.Context, d models.Dish) (int64, error)
	GetByID(ctx context.Context, id int64) (models.Dish, error)
	ListByRestaurant(ctx context.Context, restaurantID int64) ([]models.Dish, error)
	DeleteByRestaurant(ctx context.Context, restaurantID int64) error
	Delete(ctx context.Context, id int64) error
}

type UserStore interface {
	EmailExists(ctx context.Context, email string) (bool, error)
	RoleExists(ctx context.Context, roleID int64) (bool, error)
	Create(ctx context.Context, u models.User) (int64, error)
	GetByEmail(ctx context.Context, email string) (models.User, error)
}
