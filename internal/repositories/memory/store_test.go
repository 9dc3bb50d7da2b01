package memory

import (
	"context"
	"testing"

	"restaurantapi/internal/domain"
	"restaurantapi/internal/domain/models"
	"restaurantapi/internal/query"
)

func TestSeedIsIdempotent(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	if err := s.Seed(ctx); err != nil {
		t.Fatalf("Seed returned error: %v", err)
	}
	if err := s.Seed(ctx); err != nil {
		t.Fatalf("second Seed returned error: %v", err)
	}
	list, total, err := s.Restaurants().List(ctx, query.Descriptor{PageNumber: 1, PageSize: 10})
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if total != 2 || len(list[0].Dishes) != 2 {
		t.Fatalf("unexpected seed data: total %d, %+v", total, list)
	}
}

func TestListCopiesRecords(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	id, _ := s.Restaurants().Create(ctx, models.Restaurant{Name: "Original"})

	list, _, err := s.Restaurants().List(ctx, query.Descriptor{PageNumber: 1, PageSize: 10})
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	list[0].Name = "Changed"

	got, err := s.Restaurants().GetByID(ctx, id)
	if err != nil || got.Name != "Original" {
		t.Fatalf("store mutated through List result: %+v err=%v", got, err)
	}
}

func TestCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewStore().Restaurants().CountOwnedBy(ctx, 1); err != context.Canceled {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestUsersUniqueEmail(t *testing.T) {
	ctx := context.Background()
	users := NewStore().Users()
	if _, err := users.Create(ctx, models.User{Email: "a@example.com", RoleID: models.DefaultRoleID}); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if _, err := users.Create(ctx, models.User{Email: "A@example.com", RoleID: models.DefaultRoleID}); !domain.IsConflict(err) {
		t.Fatalf("expected conflict, got %v", err)
	}
	u, err := users.GetByEmail(ctx, "a@example.com")
	if err != nil || u.Role.Name != models.RoleUser {
		t.Fatalf("unexpected user %+v err=%v", u, err)
	}
}

func TestListSortIgnoresCase(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	for _, name := range []string{"Zebra", "apple", "Mango"} {
		if _, err := s.Restaurants().Create(ctx, models.Restaurant{Name: name}); err != nil {
			t.Fatalf("Create returned error: %v", err)
		}
	}

	list, _, err := s.Restaurants().List(ctx, query.Descriptor{SortBy: query.ColumnName, PageNumber: 1, PageSize: 10})
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	got := []string{list[0].Name, list[1].Name, list[2].Name}
	if got[0] != "apple" || got[1] != "Mango" || got[2] != "Zebra" {
		t.Fatalf("unexpected order %v", got)
	}
}
