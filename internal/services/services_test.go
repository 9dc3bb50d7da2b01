package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"restaurantapi/internal/authz"
	"restaurantapi/internal/domain"
	"restaurantapi/internal/domain/models"
	"restaurantapi/internal/query"
	"restaurantapi/internal/repositories/memory"
)

func caller(userID string, claims ...authz.Claim) authz.Identity {
	return authz.NewIdentity(append(claims, authz.Claim{Name: authz.ClaimUserID, Value: userID})...)
}

func newRestaurantService(store *memory.Store) RestaurantService {
	restaurants := store.Restaurants()
	return RestaurantService{
		Restaurants: restaurants,
		Authz:       authz.NewEngine(authz.DefaultPolicies(), authz.WithOwnershipCounter(restaurants)),
	}
}

func createDto(name string) models.CreateRestaurantDto {
	return models.CreateRestaurantDto{Name: name, Category: "Fast Food", City: "Kraków", Street: "Długa 5"}
}

func TestRestaurantServiceUpdateRequiresOwner(t *testing.T) {
	ctx := context.Background()
	svc := newRestaurantService(memory.NewStore())

	id, err := svc.Create(ctx, caller("1"), createDto("KFC"))
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	err = svc.Update(ctx, caller("2"), id, models.UpdateRestaurantDto{Name: "Hijacked"})
	if !domain.IsForbidden(err) {
		t.Fatalf("expected forbidden, got %v", err)
	}
	var fe domain.ForbiddenError
	if !errors.As(err, &fe) || fe.Policy != authz.PolicyRestaurantUpdate {
		t.Fatalf("expected policy %s, got %+v", authz.PolicyRestaurantUpdate, fe)
	}

	if err := svc.Update(ctx, caller("1"), id, models.UpdateRestaurantDto{Name: "KFC Rynek", HasDelivery: true}); err != nil {
		t.Fatalf("owner update returned error: %v", err)
	}
	got, err := svc.GetByID(ctx, id)
	if err != nil {
		t.Fatalf("GetByID returned error: %v", err)
	}
	if got.Name != "KFC Rynek" || !got.HasDelivery || got.Category != "Fast Food" {
		t.Fatalf("unexpected restaurant after update %+v", got)
	}
}

func TestRestaurantServiceNotFoundBeforeAuthorization(t *testing.T) {
	svc := RestaurantService{Restaurants: memory.NewStore().Restaurants()}

	// No engine configured: reaching authorization would be a configuration error.
	err := svc.Delete(context.Background(), caller("2"), 99)
	if !domain.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
	err = svc.Update(context.Background(), caller("2"), 99, models.UpdateRestaurantDto{Name: "x"})
	if !domain.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestRestaurantServiceWithoutEngineIsConfigurationError(t *testing.T) {
	store := memory.NewStore()
	id, err := store.Restaurants().Create(context.Background(), models.Restaurant{Name: "x", CreatedByID: 1})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	svc := RestaurantService{Restaurants: store.Restaurants()}
	if err := svc.Delete(context.Background(), caller("1"), id); !authz.IsConfiguration(err) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}

func TestRestaurantServiceDeleteByOwner(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	svc := newRestaurantService(store)

	id, err := svc.Create(ctx, caller("4"), createDto("Pasta"))
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if _, err := store.Dishes().Create(ctx, models.Dish{Name: "Carbonara", RestaurantID: id}); err != nil {
		t.Fatalf("dish create returned error: %v", err)
	}
	if err := svc.Delete(ctx, caller("5"), id); !domain.IsForbidden(err) {
		t.Fatalf("expected forbidden, got %v", err)
	}
	if err := svc.Delete(ctx, caller("4"), id); err != nil {
		t.Fatalf("owner delete returned error: %v", err)
	}
	if _, err := svc.GetByID(ctx, id); !domain.IsNotFound(err) {
		t.Fatalf("expected restaurant gone, got %v", err)
	}
	dishes, _ := store.Dishes().ListByRestaurant(ctx, id)
	if len(dishes) != 0 {
		t.Fatalf("dishes should be removed with the restaurant")
	}
}

func TestRestaurantServiceCreatedAtLeastTwo(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	svc := newRestaurantService(store)
	owner := caller("7")

	if _, err := svc.Create(ctx, owner, createDto("First")); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	d, err := svc.Authz.Authorize(ctx, owner, nil, authz.PolicyCreatedAtLeast2Restaurants)
	if err != nil || d.Allowed {
		t.Fatalf("expected deny after one restaurant, got %+v err=%v", d, err)
	}

	if _, err := svc.Create(ctx, owner, createDto("Second")); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	d, err = svc.Authz.Authorize(ctx, owner, nil, authz.PolicyCreatedAtLeast2Restaurants)
	if err != nil || !d.Allowed {
		t.Fatalf("expected allow after two restaurants, got %+v err=%v", d, err)
	}
}

func TestRestaurantServiceCreateNeedsUserID(t *testing.T) {
	svc := newRestaurantService(memory.NewStore())
	_, err := svc.Create(context.Background(), authz.NewIdentity(), createDto("KFC"))
	if !domain.IsUnauthorized(err) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestRestaurantServiceGetAll(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	svc := newRestaurantService(store)
	for _, name := range []string{"A Café", "Burger Barn", "Café Deluxe", "Diner", "Eatery"} {
		if _, err := svc.Create(ctx, caller("1"), createDto(name)); err != nil {
			t.Fatalf("Create returned error: %v", err)
		}
	}

	page, err := svc.GetAll(ctx, query.Descriptor{SearchPhrase: "café", PageNumber: 2, PageSize: 1})
	if err != nil {
		t.Fatalf("GetAll returned error: %v", err)
	}
	if page.TotalItemsCount != 2 || len(page.Items) != 1 || page.Items[0].Name != "Café Deluxe" {
		t.Fatalf("unexpected page %+v", page)
	}

	_, err = svc.GetAll(ctx, query.Descriptor{PageNumber: 1, PageSize: query.DefaultMaxPageSize + 1})
	var ve domain.ValidationError
	if !errors.As(err, &ve) || ve.Field != "pageSize" {
		t.Fatalf("expected pageSize validation error, got %v", err)
	}
}

func TestDishServiceScopesDishesToRestaurant(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	rs := store.Restaurants()
	first, _ := rs.Create(ctx, models.Restaurant{Name: "First"})
	second, _ := rs.Create(ctx, models.Restaurant{Name: "Second"})

	svc := DishService{Restaurants: rs, Dishes: store.Dishes()}
	dishID, err := svc.Create(ctx, first, models.CreateDishDto{Name: "Soup", Price: 4.5})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	if _, err := svc.GetByID(ctx, second, dishID); !domain.IsNotFound(err) {
		t.Fatalf("dish of another restaurant must be not found, got %v", err)
	}
	if err := svc.RemoveDish(ctx, second, dishID); !domain.IsNotFound(err) {
		t.Fatalf("removing through another restaurant must be not found, got %v", err)
	}
	if _, err := svc.GetAll(ctx, 404); !domain.IsNotFound(err) {
		t.Fatalf("unknown restaurant must be not found, got %v", err)
	}
	if _, err := svc.Create(ctx, first, models.CreateDishDto{Name: "Free", Price: -1}); !domain.IsValidation(err) {
		t.Fatalf("negative price must be rejected, got %v", err)
	}

	got, err := svc.GetByID(ctx, first, dishID)
	if err != nil || got.Name != "Soup" {
		t.Fatalf("unexpected dish %+v err=%v", got, err)
	}
	if err := svc.RemoveAll(ctx, first); err != nil {
		t.Fatalf("RemoveAll returned error: %v", err)
	}
	all, err := svc.GetAll(ctx, first)
	if err != nil || len(all) != 0 {
		t.Fatalf("expected no dishes, got %v err=%v", all, err)
	}
}

func TestMenuServiceRendersPDF(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	if err := store.Seed(ctx); err != nil {
		t.Fatalf("Seed returned error: %v", err)
	}

	pdf, filename, err := MenuService{Restaurants: store.Restaurants()}.RenderMenu(ctx, 1)
	if err != nil {
		t.Fatalf("RenderMenu returned error: %v", err)
	}
	if len(pdf) < 4 || string(pdf[:4]) != "%PDF" {
		t.Fatalf("output is not a PDF")
	}
	if filename != "MENU_1_KFC.pdf" {
		t.Fatalf("unexpected filename %q", filename)
	}

	if _, _, err := (MenuService{Restaurants: store.Restaurants()}).RenderMenu(ctx, 99); !domain.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestSafeFilenamePartKeepsRunesWhole(t *testing.T) {
	name := strings.Repeat("é", 39) + "éé"
	got := safeFilenamePart(name)
	if !utf8.ValidString(got) {
		t.Fatalf("filename is not valid UTF-8: %q", got)
	}
	if utf8.RuneCountInString(got) != 40 {
		t.Fatalf("expected 40 runes, got %d", utf8.RuneCountInString(got))
	}
	if got := safeFilenamePart("Café Deluxe"); got != "Café_Deluxe" {
		t.Fatalf("unexpected %q", got)
	}
}
