package repositories

import (
	"context"
	"database/sql/driver"
	"math"
	"testing"

	"restaurantapi/internal/domain"
	"restaurantapi/internal/query"

	"github.com/DATA-DOG/go-sqlmock"
)

var restaurantColumns = []string{
	"id", "name", "description", "category", "has_delivery", "contact_email", "contact_number",
	"created_by_id", "address_id", "city", "street", "postal_code",
}

func TestRestaurantListCountsAndPagesInOneTx(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	pattern := "%caf%"
	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM restaurants r WHERE \(LOWER\(r\.name\) LIKE \?`).
		WithArgs(pattern, pattern).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))
	mock.ExpectQuery(`FROM restaurants r\s+JOIN addresses a .* ORDER BY LOWER\(r\.category\) COLLATE utf8mb4_bin DESC, r\.id ASC LIMIT \? OFFSET \?`).
		WithArgs(pattern, pattern, 2, 2).
		WillReturnRows(sqlmock.NewRows(restaurantColumns).
			AddRow(4, "Cafe Deluxe", "", "Coffee", true, "", "", 9, 14, "Kraków", "Rynek 1", "").
			AddRow(5, "Eatery", "cafe food", "Bistro", false, "", "", 0, 15, "Kraków", "Dluga 3", "30-001"))
	mock.ExpectQuery(`FROM dishes\s+WHERE restaurant_id IN \(\?,\?\)`).
		WithArgs(4, 5).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "description", "price", "restaurant_id"}).
			AddRow(1, "Latte", "", 3.5, 4))
	mock.ExpectCommit()

	repo := RestaurantRepository{DB: db}
	d := query.Descriptor{SearchPhrase: "CAF", SortBy: query.ColumnCategory, SortDirection: query.Descending, PageNumber: 2, PageSize: 2}
	list, total, err := repo.List(context.Background(), d)
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if total != 3 || len(list) != 2 {
		t.Fatalf("expected 2 of 3, got %d of %d", len(list), total)
	}
	if len(list[0].Dishes) != 1 || list[0].Dishes[0].Name != "Latte" {
		t.Fatalf("dishes not attached: %+v", list[0].Dishes)
	}
	if list[1].Dishes == nil || len(list[1].Dishes) != 0 {
		t.Fatalf("restaurant without dishes should carry an empty list")
	}
	if list[0].OwnerID() != 9 || list[0].Address.ID != 14 {
		t.Fatalf("unexpected owner/address %+v", list[0])
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestRestaurantListWithoutSortUsesIDOrder(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM restaurants r$`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery(`ORDER BY r\.id ASC LIMIT \? OFFSET \?`).
		WithArgs(10, 0).
		WillReturnRows(sqlmock.NewRows(restaurantColumns))
	mock.ExpectCommit()

	list, total, err := RestaurantRepository{DB: db}.List(context.Background(), query.Descriptor{PageNumber: 1, PageSize: 10})
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if total != 0 || list == nil || len(list) != 0 {
		t.Fatalf("expected empty non-nil page, got %v total %d", list, total)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestRestaurantGetByIDNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(`WHERE r\.id = \?`).WithArgs(42).WillReturnRows(sqlmock.NewRows(restaurantColumns))

	_, err = RestaurantRepository{DB: db}.GetByID(context.Background(), 42)
	if !domain.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestRestaurantCreateInsertsAddressFirst(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO addresses").
		WithArgs("Kraków", "Długa 5", nil).
		WillReturnResult(sqlmock.NewResult(21, 1))
	mock.ExpectExec("INSERT INTO restaurants").
		WithArgs("KFC", nil, "Fast Food", true, nil, nil, 3, 21).
		WillReturnResult(sqlmock.NewResult(8, 1))
	mock.ExpectCommit()

	rest := sampleRestaurant()
	id, err := RestaurantRepository{DB: db}.Create(context.Background(), rest)
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if id != 8 {
		t.Fatalf("expected id 8, got %d", id)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestRestaurantDeleteMissing(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectExec("DELETE a FROM addresses a").WithArgs(5).WillReturnResult(sqlmock.NewResult(0, 0))

	if err := (RestaurantRepository{DB: db}).Delete(context.Background(), 5); !domain.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestRestaurantCountOwnedBy(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM restaurants WHERE created_by_id = \?`).
		WithArgs(3).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))

	n, err := RestaurantRepository{DB: db}.CountOwnedBy(context.Background(), 3)
	if err != nil {
		t.Fatalf("CountOwnedBy returned error: %v", err)
	}
	if n != 2 {
		t.Fatalf("expected 2, got %d", n)
	}
}

// nonNegativeInt matches integer query arguments that are >= 0.
type nonNegativeInt struct{}

func (nonNegativeInt) Match(v driver.Value) bool {
	n, ok := v.(int64)
	return ok && n >= 0
}

func TestRestaurantListOffsetNeverNegative(t *testing.T) {
	for _, page := range []int{math.MaxInt / 10, math.MaxInt} {
		db, mock, err := sqlmock.New()
		if err != nil {
			t.Fatalf("sqlmock init error: %v", err)
		}

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT COUNT\(\*\) FROM restaurants r$`).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
		mock.ExpectQuery(`ORDER BY r\.id ASC LIMIT \? OFFSET \?`).
			WithArgs(10, nonNegativeInt{}).
			WillReturnRows(sqlmock.NewRows(restaurantColumns))
		mock.ExpectCommit()

		list, total, err := RestaurantRepository{DB: db}.List(context.Background(), query.Descriptor{PageNumber: page, PageSize: 10})
		if err != nil {
			t.Fatalf("page %d: List returned error: %v", page, err)
		}
		if total != 2 || len(list) != 0 {
			t.Fatalf("page %d: expected empty page of 2, got %d of %d", page, len(list), total)
		}
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Fatalf("page %d: unmet expectations: %v", page, err)
		}
		db.Close()
	}
}

func TestRestaurantListSortsByLowercasedBinaryKey(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM restaurants r$`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery(`ORDER BY LOWER\(r\.name\) COLLATE utf8mb4_bin ASC, r\.id ASC LIMIT \? OFFSET \?`).
		WithArgs(10, 0).
		WillReturnRows(sqlmock.NewRows(restaurantColumns))
	mock.ExpectCommit()

	d := query.Descriptor{SortBy: query.ColumnName, PageNumber: 1, PageSize: 10}
	if _, _, err := (RestaurantRepository{DB: db}).List(context.Background(), d); err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
