package services

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"restaurantapi/internal/domain"
	"restaurantapi/internal/domain/models"
	"restaurantapi/internal/utils"
)

// DishService manages the dishes of one restaurant. Every call checks that
// the restaurant exists before touching dishes.
type DishService struct {
	Restaurants RestaurantStore
	Dishes      DishStore
}

func (s DishService) Create(ctx context.Context, restaurantID int64, dto models.CreateDishDto) (int64, error) {
	if err := s.requireRestaurant(ctx, restaurantID); err != nil {
		return 0, err
	}
	if dto.Price < 0 {
		return 0, domain.ValidationError{Field: "price", Msg: "must not be negative"}
	}
	id, err := s.Dishes.Create(ctx, models.Dish{
		Name:         strings.TrimSpace(dto.Name),
		Description:  strings.TrimSpace(dto.Description),
		Price:        dto.Price,
		RestaurantID: restaurantID,
	})
	if err != nil {
		return 0, fmt.Errorf("create dish: %w", err)
	}
	utils.LogEvent(utils.RequestIDFrom(ctx), "dish", "create",
		"restaurant_id="+strconv.FormatInt(restaurantID, 10)+" dish_id="+strconv.FormatInt(id, 10))
	return id, nil
}

func (s DishService) GetByID(ctx context.Context, restaurantID, dishID int64) (models.Dish, error) {
	if err := s.requireRestaurant(ctx, restaurantID); err != nil {
		return models.Dish{}, err
	}
	return s.dishOf(ctx, restaurantID, dishID)
}

func (s DishService) GetAll(ctx context.Context, restaurantID int64) ([]models.Dish, error) {
	if err := s.requireRestaurant(ctx, restaurantID); err != nil {
		return nil, err
	}
	return s.Dishes.ListByRestaurant(ctx, restaurantID)
}

func (s DishService) RemoveAll(ctx context.Context, restaurantID int64) error {
	if err := s.requireRestaurant(ctx, restaurantID); err != nil {
		return err
	}
	return s.Dishes.DeleteByRestaurant(ctx, restaurantID)
}

func (s DishService) RemoveDish(ctx context.Context, restaurantID, dishID int64) error {
	if err := s.requireRestaurant(ctx, restaurantID); err != nil {
		return err
	}
	if _, err := s.dishOf(ctx, restaurantID, dishID); err != nil {
		return err
	}
	return s.Dishes.Delete(ctx, dishID)
}

func (s DishService) requireRestaurant(ctx context.Context, id int64) error {
	_, err := s.Restaurants.GetByID(ctx, id)
	return err
}

// dishOf reports a dish of another restaurant as not found.
func (s DishService) dishOf(ctx context.Context, restaurantID, dishID int64) (models.Dish, error) {
	d, err := s.Dishes.GetByID(ctx, dishID)
	if err != nil {
		return models.Dish{}, err
	}
	if d.RestaurantID != restaurantID {
		return models.Dish{}, domain.NotFoundError{Resource: "dish"}
	}
	return d, nil
}
