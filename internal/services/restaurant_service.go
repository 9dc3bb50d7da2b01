package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"restaurantapi/internal/authz"
	"restaurantapi/internal/domain"
	"restaurantapi/internal/domain/models"
	"restaurantapi/internal/query"
	"restaurantapi/internal/utils"
)

// RestaurantService runs restaurant use cases. Mutations of an existing
// restaurant are checked against the resource policies after the restaurant
// has been loaded.
type RestaurantService struct {
	Restaurants RestaurantStore
	Authz       *authz.Engine
	MaxPageSize int
}

func (s RestaurantService) maxPageSize() int {
	if s.MaxPageSize > 0 {
		return s.MaxPageSize
	}
	return query.DefaultMaxPageSize
}

// GetAll returns one page of restaurants matching d.
func (s RestaurantService) GetAll(ctx context.Context, d query.Descriptor) (query.PagedResult[models.Restaurant], error) {
	if err := d.Validate(s.maxPageSize()); err != nil {
		return query.PagedResult[models.Restaurant]{}, descriptorError(err)
	}
	items, total, err := s.Restaurants.List(ctx, d)
	if err != nil {
		if query.IsInputError(err) {
			return query.PagedResult[models.Restaurant]{}, descriptorError(err)
		}
		return query.PagedResult[models.Restaurant]{}, fmt.Errorf("list restaurants: %w", err)
	}
	return query.NewPagedResult(items, total, d.PageSize, d.PageNumber), nil
}

func (s RestaurantService) GetByID(ctx context.Context, id int64) (models.Restaurant, error) {
	return s.Restaurants.GetByID(ctx, id)
}

// Create stores a new restaurant owned by the caller and returns its id.
func (s RestaurantService) Create(ctx context.Context, caller authz.Identity, dto models.CreateRestaurantDto) (int64, error) {
	userID, ok := caller.UserID()
	if !ok {
		return 0, domain.UnauthorizedError{Msg: "missing user id claim"}
	}

	rest := models.Restaurant{
		Name:          strings.TrimSpace(dto.Name),
		Description:   strings.TrimSpace(dto.Description),
		Category:      strings.TrimSpace(dto.Category),
		HasDelivery:   dto.HasDelivery,
		ContactEmail:  strings.TrimSpace(dto.ContactEmail),
		ContactNumber: strings.TrimSpace(dto.ContactNumber),
		CreatedByID:   userID,
		Address: models.Address{
			City:       strings.TrimSpace(dto.City),
			Street:     strings.TrimSpace(dto.Street),
			PostalCode: strings.TrimSpace(dto.PostalCode),
		},
	}
	if err := s.authorize(ctx, caller, rest, authz.PolicyRestaurantCreate); err != nil {
		return 0, err
	}

	id, err := s.Restaurants.Create(ctx, rest)
	if err != nil {
		return 0, fmt.Errorf("create restaurant: %w", err)
	}
	utils.LogEvent(utils.RequestIDFrom(ctx), "restaurant", "create", "restaurant_id="+strconv.FormatInt(id, 10))
	return id, nil
}

func (s RestaurantService) Update(ctx context.Context, caller authz.Identity, id int64, dto models.UpdateRestaurantDto) error {
	rest, err := s.Restaurants.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.authorize(ctx, caller, rest, authz.PolicyRestaurantUpdate); err != nil {
		return err
	}

	rest.Name = strings.TrimSpace(dto.Name)
	rest.Description = strings.TrimSpace(dto.Description)
	rest.HasDelivery = dto.HasDelivery
	if err := s.Restaurants.Update(ctx, rest); err != nil {
		return fmt.Errorf("update restaurant: %w", err)
	}
	return nil
}

func (s RestaurantService) Delete(ctx context.Context, caller authz.Identity, id int64) error {
	utils.LogWarn(utils.RequestIDFrom(ctx), "restaurant", "delete", "restaurant DELETE action invoked id="+strconv.FormatInt(id, 10))

	rest, err := s.Restaurants.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.authorize(ctx, caller, rest, authz.PolicyRestaurantDelete); err != nil {
		return err
	}
	if err := s.Restaurants.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete restaurant: %w", err)
	}
	return nil
}

// authorize turns a deny into a ForbiddenError. Configuration and
// cancellation errors pass through unchanged.
func (s RestaurantService) authorize(ctx context.Context, caller authz.Identity, rest models.Restaurant, policy string) error {
	if s.Authz == nil {
		return &authz.ConfigurationError{Policy: policy, Msg: "no authorization engine"}
	}
	d, err := s.Authz.Authorize(ctx, caller, rest, policy)
	if err != nil {
		return err
	}
	if !d.Allowed {
		return domain.ForbiddenError{Policy: policy, Reason: d.Reason()}
	}
	return nil
}

func descriptorError(err error) error {
	var in *query.InputError
	if errors.As(err, &in) {
		return domain.ValidationError{Field: in.Param, Msg: in.Err.Error(), Err: err}
	}
	return domain.ValidationError{Msg: err.Error(), Err: err}
}
