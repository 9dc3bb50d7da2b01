package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"restaurantapi/internal/auth"
	"restaurantapi/internal/authz"
	"restaurantapi/internal/domain/models"
	"restaurantapi/internal/utils"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(r *gin.Engine, header http.Header) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	for k, v := range header {
		req.Header[http.CanonicalHeaderKey(k)] = v
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRequireRoles(t *testing.T) {
	withRole := func(role string) *gin.Engine {
		r := gin.New()
		r.GET("/x", func(c *gin.Context) {
			if role != "" {
				c.Set("userRole", role)
			}
		}, RequireRoles("Admin", "Manager"), func(c *gin.Context) { c.Status(http.StatusOK) })
		return r
	}

	if w := serve(withRole(""), nil); w.Code != http.StatusUnauthorized {
		t.Fatalf("no role: expected 401, got %d", w.Code)
	}
	if w := serve(withRole("User"), nil); w.Code != http.StatusForbidden {
		t.Fatalf("user: expected 403, got %d", w.Code)
	}
	if w := serve(withRole(" manager "), nil); w.Code != http.StatusOK {
		t.Fatalf("manager: expected 200, got %d", w.Code)
	}
}

func TestRequestIDPropagates(t *testing.T) {
	var fromCtx string
	r := gin.New()
	r.GET("/x", RequestID(), func(c *gin.Context) {
		fromCtx = utils.RequestIDFrom(c.Request.Context())
		c.Status(http.StatusOK)
	})

	w := serve(r, http.Header{RequestIDHeader: {"abc-123"}})
	if w.Header().Get(RequestIDHeader) != "abc-123" || fromCtx != "abc-123" {
		t.Fatalf("incoming id not kept: header %q ctx %q", w.Header().Get(RequestIDHeader), fromCtx)
	}

	w = serve(r, nil)
	if len(w.Header().Get(RequestIDHeader)) != 36 {
		t.Fatalf("expected generated uuid, got %q", w.Header().Get(RequestIDHeader))
	}
}

func TestAuthenticateAndRequireAuth(t *testing.T) {
	tokens := auth.NewTokens("0123456789abcdef0123456789abcdef", "issuer", 1)
	var role string
	r := gin.New()
	r.GET("/x", Authenticate(tokens), RequireAuth(), func(c *gin.Context) {
		role = c.GetString("userRole")
		if id, ok := GetIdentity(c).UserID(); !ok || id != 5 {
			c.Status(http.StatusTeapot)
			return
		}
		c.Status(http.StatusOK)
	})

	if w := serve(r, nil); w.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous: expected 401, got %d", w.Code)
	}
	if w := serve(r, http.Header{"Authorization": {"Basic Zm9vOmJhcg=="}}); w.Code != http.StatusUnauthorized {
		t.Fatalf("basic auth: expected 401, got %d", w.Code)
	}

	tok, err := tokens.Issue(models.User{ID: 5, Role: models.Role{Name: models.RoleAdmin}})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if w := serve(r, http.Header{"Authorization": {"Bearer " + tok}}); w.Code != http.StatusOK {
		t.Fatalf("valid token: expected 200, got %d", w.Code)
	}
	if role != models.RoleAdmin {
		t.Fatalf("expected role %s on context, got %q", models.RoleAdmin, role)
	}
}

type failingCounter struct{}

func (failingCounter) CountOwnedBy(context.Context, int64) (int, error) {
	return 0, context.DeadlineExceeded
}

func TestRequirePolicyStatusCodes(t *testing.T) {
	engine := authz.NewEngine(authz.DefaultPolicies(), authz.WithOwnershipCounter(failingCounter{}))
	route := func(policy string, id authz.Identity) *gin.Engine {
		r := gin.New()
		r.GET("/x", func(c *gin.Context) { c.Set(identityKey, id) }, RequirePolicy(engine, policy),
			func(c *gin.Context) { c.Status(http.StatusOK) })
		return r
	}
	withNationality := authz.NewIdentity(
		authz.Claim{Name: authz.ClaimUserID, Value: "1"},
		authz.Claim{Name: authz.ClaimNationality, Value: "PL"},
	)

	if w := serve(route(authz.PolicyHasNationality, withNationality), nil); w.Code != http.StatusOK {
		t.Fatalf("allow: expected 200, got %d", w.Code)
	}
	if w := serve(route(authz.PolicyHasNationality, authz.NewIdentity()), nil); w.Code != http.StatusForbidden {
		t.Fatalf("deny: expected 403, got %d", w.Code)
	}
	if w := serve(route("Unknown", withNationality), nil); w.Code != http.StatusInternalServerError {
		t.Fatalf("unknown policy: expected 500, got %d", w.Code)
	}
	if w := serve(route(authz.PolicyCreatedAtLeast2Restaurants, withNationality), nil); w.Code != http.StatusInternalServerError {
		t.Fatalf("store failure: expected 500, got %d", w.Code)
	}
}
