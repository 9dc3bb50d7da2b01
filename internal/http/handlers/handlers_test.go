package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"

	"restaurantapi/internal/authz"
	intconfig "restaurantapi/internal/config"
	"restaurantapi/internal/domain"
	"restaurantapi/internal/query"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestRespondDomainErrorStatus(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"validation", domain.ValidationError{Field: "price", Msg: "must not be negative"}, http.StatusBadRequest},
		{"query input", &query.InputError{Param: "pageSize", Err: query.ErrInvalidPageSize}, http.StatusBadRequest},
		{"bad request", domain.BadRequestError{Msg: "invalid username or password"}, http.StatusBadRequest},
		{"unauthorized", domain.UnauthorizedError{}, http.StatusUnauthorized},
		{"forbidden", domain.ForbiddenError{Policy: authz.PolicyRestaurantDelete}, http.StatusForbidden},
		{"not found wrapped", fmt.Errorf("load: %w", domain.NotFoundError{Resource: "restaurant"}), http.StatusNotFound},
		{"conflict", domain.ConflictError{Resource: "user"}, http.StatusConflict},
		{"authz config", &authz.ConfigurationError{Policy: "Nope", Msg: "is not registered"}, http.StatusInternalServerError},
		{"cancelled", context.Canceled, http.StatusServiceUnavailable},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
			RespondDomainError(c, tc.err)
			if w.Code != tc.want {
				t.Fatalf("expected %d, got %d (%s)", tc.want, w.Code, w.Body.String())
			}
		})
	}
}

func TestDBCheckReportsMissingTables(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()
	prev := intconfig.DB
	intconfig.DB = db
	defer func() { intconfig.DB = prev }()

	tableQuery := regexp.QuoteMeta("FROM information_schema.tables")
	for _, table := range []string{"roles", "users", "addresses", "restaurants"} {
		mock.ExpectQuery(tableQuery).WithArgs(table).
			WillReturnRows(sqlmock.NewRows([]string{"table_name"}).AddRow(table))
	}
	mock.ExpectQuery(tableQuery).WithArgs("dishes").
		WillReturnRows(sqlmock.NewRows([]string{"table_name"}))

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/db-check", nil)
	DBCheck(c)

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}
	if !regexp.MustCompile(`"missing_tables":\["dishes"\]`).MatchString(w.Body.String()) {
		t.Fatalf("expected dishes reported missing, got %s", w.Body.String())
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestPathIDRejectsNonPositive(t *testing.T) {
	for _, raw := range []string{"0", "-3", "abc"} {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Params = gin.Params{{Key: "id", Value: raw}}
		c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
		if _, ok := pathID(c, "id"); ok || w.Code != http.StatusBadRequest {
			t.Fatalf("%q: expected 400, got ok=%v code=%d", raw, ok, w.Code)
		}
	}
}
