package api

import (
	stdhttp "net/http"

	"restaurantapi/internal/auth"
	"restaurantapi/internal/authz"
	intconfig "restaurantapi/internal/config"
	"restaurantapi/internal/domain/models"
	h "restaurantapi/internal/http/handlers"
	"restaurantapi/internal/http/middleware"
	"restaurantapi/internal/services"
	"restaurantapi/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Deps are the collaborators the routes are bound to.
type Deps struct {
	Env         intconfig.Env
	Tokens      *auth.Tokens
	Authz       *authz.Engine
	Metrics     *middleware.Metrics
	Gatherer    prometheus.Gatherer
	Restaurants services.RestaurantStore
	Dishes      services.DishStore
	Users       services.UserStore
}

func NewRouter(deps Deps) *gin.Engine {
	env := deps.Env

	if err := h.RegisterValidators(); err != nil {
		utils.LogWarn("", "http", "register_validators", err.Error())
	}

	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Logger(), gin.Recovery(), middleware.CORS(env.AllowedOrigins))
	r.Use(middleware.RequestTime(env.SlowRequest))
	if deps.Metrics != nil {
		r.Use(deps.Metrics.Handler())
	}
	r.Use(middleware.Authenticate(deps.Tokens))

	if err := r.SetTrustedProxies(nil); err != nil {
		utils.LogWarn("", "http", "trusted_proxies", err.Error())
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(stdhttp.StatusNotFound, gin.H{
			"error":  "route not found",
			"path":   c.Request.URL.Path,
			"method": c.Request.Method,
		})
	})

	if deps.Gatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{})))
	}

	restaurants := h.RestaurantHandler{
		Service: services.RestaurantService{
			Restaurants: deps.Restaurants,
			Authz:       deps.Authz,
			MaxPageSize: env.MaxPageSize,
		},
		Menu: services.MenuService{Restaurants: deps.Restaurants},
	}
	dishes := h.DishHandler{
		Service: services.DishService{Restaurants: deps.Restaurants, Dishes: deps.Dishes},
	}
	account := h.AccountHandler{
		Service: services.AccountService{Users: deps.Users, Tokens: deps.Tokens},
	}
	policy := func(name string) gin.HandlerFunc { return middleware.RequirePolicy(deps.Authz, name) }
	authed := middleware.RequireAuth()

	api := r.Group("/api")
	{
		api.GET("/health", h.Health)
		api.GET("/db-check", h.DBCheck)
		api.GET("/routes", h.Routes)

		// Account
		acc := api.Group("/account")
		acc.POST("/register", account.Register)
		acc.POST("/login", account.Login)

		// Restaurants
		rest := api.Group("/restaurant")
		rest.GET("", restaurants.List)
		rest.POST("", authed, middleware.RequireRoles(models.RoleAdmin, models.RoleManager), restaurants.Create)
		rest.GET("/:id", authed, policy(authz.PolicyAtLeast20), restaurants.Get)
		rest.PUT("/:id", authed, restaurants.Update)
		rest.DELETE("/:id", authed, restaurants.Delete)
		rest.GET("/:id/menu.pdf", authed, policy(authz.PolicyCreatedAtLeast2Restaurants), restaurants.MenuPDF)

		// Dishes
		dish := rest.Group("/:id/dish")
		dish.POST("", authed, policy(authz.PolicyHasNationality), dishes.Create)
		dish.GET("", dishes.List)
		dish.GET("/:dishId", dishes.Get)
		dish.DELETE("", authed, dishes.DeleteAll)
		dish.DELETE("/:dishId", authed, dishes.Delete)
	}

	h.SetRouter(r)
	return r
}
