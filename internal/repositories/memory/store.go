// Package memory keeps restaurants, dishes and accounts in process memory.
// It serves the same repository contracts as the MySQL implementation and is
// used for local runs and service tests.
package memory

import (
	"context"
	"slices"
	"strings"
	"sync"

	"restaurantapi/internal/db"
	"restaurantapi/internal/domain"
	"restaurantapi/internal/domain/models"
	"restaurantapi/internal/query"
)

type Store struct {
	mu          sync.RWMutex
	restaurants []models.Restaurant // insertion order
	dishes      []models.Dish
	users       []models.User
	roles       []models.Role
	nextID      map[string]int64
}

func NewStore() *Store {
	return &Store{
		roles:  db.SeedRoles(),
		nextID: map[string]int64{},
	}
}

func (s *Store) id(table string) int64 {
	s.nextID[table]++
	return s.nextID[table]
}

// Seed loads the sample restaurants when the store holds none.
func (s *Store) Seed(ctx context.Context) error {
	s.mu.RLock()
	empty := len(s.restaurants) == 0
	s.mu.RUnlock()
	if !empty {
		return nil
	}

	restaurants := s.Restaurants()
	dishes := s.Dishes()
	for _, r := range db.SeedRestaurants() {
		id, err := restaurants.Create(ctx, r)
		if err != nil {
			return err
		}
		for _, d := range r.Dishes {
			d.RestaurantID = id
			if _, err := dishes.Create(ctx, d); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *Store) Restaurants() RestaurantRepository { return RestaurantRepository{s: s} }
func (s *Store) Dishes() DishRepository            { return DishRepository{s: s} }
func (s *Store) Users() UserRepository             { return UserRepository{s: s} }

// withDishes returns a copy of r carrying its dishes. Callers hold s.mu.
func (s *Store) withDishes(r models.Restaurant) models.Restaurant {
	r.Dishes = []models.Dish{}
	for _, d := range s.dishes {
		if d.RestaurantID == r.ID {
			r.Dishes = append(r.Dishes, d)
		}
	}
	return r
}

type RestaurantRepository struct{ s *Store }

func (r RestaurantRepository) List(ctx context.Context, d query.Descriptor) ([]models.Restaurant, int, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	// The descriptor was validated by the caller against the configured bound.
	page, err := query.Apply(r.s.restaurants, d, 0)
	if err != nil {
		return nil, 0, err
	}
	items := make([]models.Restaurant, 0, len(page.Items))
	for _, it := range page.Items {
		items = append(items, r.s.withDishes(it))
	}
	return items, page.TotalItemsCount, nil
}

func (r RestaurantRepository) GetByID(ctx context.Context, id int64) (models.Restaurant, error) {
	if err := ctx.Err(); err != nil {
		return models.Restaurant{}, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	i := r.s.restaurantIndex(id)
	if i < 0 {
		return models.Restaurant{}, domain.NotFoundError{Resource: "restaurant"}
	}
	return r.s.withDishes(r.s.restaurants[i]), nil
}

func (r RestaurantRepository) Create(ctx context.Context, rest models.Restaurant) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	rest.ID = r.s.id("restaurants")
	rest.Address.ID = r.s.id("addresses")
	rest.AddressID = rest.Address.ID
	rest.Dishes = nil
	r.s.restaurants = append(r.s.restaurants, rest)
	return rest.ID, nil
}

func (r RestaurantRepository) Update(ctx context.Context, rest models.Restaurant) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	i := r.s.restaurantIndex(rest.ID)
	if i < 0 {
		return domain.NotFoundError{Resource: "restaurant"}
	}
	cur := &r.s.restaurants[i]
	cur.Name = rest.Name
	cur.Description = rest.Description
	cur.HasDelivery = rest.HasDelivery
	return nil
}

func (r RestaurantRepository) Delete(ctx context.Context, id int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	i := r.s.restaurantIndex(id)
	if i < 0 {
		return domain.NotFoundError{Resource: "restaurant"}
	}
	r.s.restaurants = slices.Delete(r.s.restaurants, i, i+1)
	r.s.dishes = slices.DeleteFunc(r.s.dishes, func(d models.Dish) bool { return d.RestaurantID == id })
	return nil
}

func (r RestaurantRepository) CountOwnedBy(ctx context.Context, userID int64) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	n := 0
	for _, rest := range r.s.restaurants {
		if rest.CreatedByID == userID {
			n++
		}
	}
	return n, nil
}

func (s *Store) restaurantIndex(id int64) int {
	return slices.IndexFunc(s.restaurants, func(r models.Restaurant) bool { return r.ID == id })
}

type DishRepository struct{ s *Store }

func (r DishRepository) Create(ctx context.Context, d models.Dish) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if r.s.restaurantIndex(d.RestaurantID) < 0 {
		return 0, domain.NotFoundError{Resource: "restaurant"}
	}
	d.ID = r.s.id("dishes")
	r.s.dishes = append(r.s.dishes, d)
	return d.ID, nil
}

func (r DishRepository) GetByID(ctx context.Context, id int64) (models.Dish, error) {
	if err := ctx.Err(); err != nil {
		return models.Dish{}, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, d := range r.s.dishes {
		if d.ID == id {
			return d, nil
		}
	}
	return models.Dish{}, domain.NotFoundError{Resource: "dish"}
}

func (r DishRepository) ListByRestaurant(ctx context.Context, restaurantID int64) ([]models.Dish, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	list := []models.Dish{}
	for _, d := range r.s.dishes {
		if d.RestaurantID == restaurantID {
			list = append(list, d)
		}
	}
	return list, nil
}

func (r DishRepository) DeleteByRestaurant(ctx context.Context, restaurantID int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	r.s.dishes = slices.DeleteFunc(r.s.dishes, func(d models.Dish) bool { return d.RestaurantID == restaurantID })
	return nil
}

func (r DishRepository) Delete(ctx context.Context, id int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	i := slices.IndexFunc(r.s.dishes, func(d models.Dish) bool { return d.ID == id })
	if i < 0 {
		return domain.NotFoundError{Resource: "dish"}
	}
	r.s.dishes = slices.Delete(r.s.dishes, i, i+1)
	return nil
}

type UserRepository struct{ s *Store }

func (r UserRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	return r.s.userIndex(email) >= 0, nil
}

func (r UserRepository) RoleExists(ctx context.Context, roleID int64) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	return slices.ContainsFunc(r.s.roles, func(ro models.Role) bool { return ro.ID == roleID }), nil
}

func (r UserRepository) Create(ctx context.Context, u models.User) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if r.s.userIndex(u.Email) >= 0 {
		return 0, domain.ConflictError{Resource: "user", Msg: "email is already taken"}
	}
	u.ID = r.s.id("users")
	u.Email = strings.TrimSpace(u.Email)
	r.s.users = append(r.s.users, u)
	return u.ID, nil
}

func (r UserRepository) GetByEmail(ctx context.Context, email string) (models.User, error) {
	if err := ctx.Err(); err != nil {
		return models.User{}, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	i := r.s.userIndex(email)
	if i < 0 {
		return models.User{}, domain.NotFoundError{Resource: "user"}
	}
	u := r.s.users[i]
	for _, ro := range r.s.roles {
		if ro.ID == u.RoleID {
			u.Role = ro
		}
	}
	return u, nil
}

// userIndex matches emails case-insensitively like the default MySQL collation.
func (s *Store) userIndex(email string) int {
	email = strings.TrimSpace(email)
	return slices.IndexFunc(s.users, func(u models.User) bool { return strings.EqualFold(u.Email, email) })
}
