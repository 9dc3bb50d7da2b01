package app

import (
	"context"
	"fmt"

	"restaurantapi/internal/auth"
	"restaurantapi/internal/authz"
	intconfig "restaurantapi/internal/config"
	intdb "restaurantapi/internal/db"
	api "restaurantapi/internal/http"
	"restaurantapi/internal/http/middleware"
	"restaurantapi/internal/repositories"
	"restaurantapi/internal/repositories/memory"
	"restaurantapi/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// stores are the repositories of the selected backend.
type stores struct {
	deps  api.Deps
	close func()
}

// openStores connects the configured storage, bootstraps its schema and
// loads the sample data when env.Seed is set.
func openStores(ctx context.Context, env intconfig.Env) (stores, error) {
	switch env.Storage {
	case intconfig.StorageMemory:
		store := memory.NewStore()
		if env.Seed {
			if err := store.Seed(ctx); err != nil {
				return stores{}, fmt.Errorf("seed memory store: %w", err)
			}
		}
		return stores{
			deps: api.Deps{
				Restaurants: store.Restaurants(),
				Dishes:      store.Dishes(),
				Users:       store.Users(),
			},
			close: func() {},
		}, nil

	case intconfig.StorageMySQL:
		db, err := intconfig.ConnectDB(env.DSN)
		if err != nil {
			return stores{}, err
		}
		if err := intdb.EnsureSchema(ctx, db); err != nil {
			intconfig.CloseDB()
			return stores{}, err
		}
		if env.Seed {
			if err := intdb.Seed(ctx, db); err != nil {
				intconfig.CloseDB()
				return stores{}, err
			}
		}
		return stores{
			deps: api.Deps{
				Restaurants: repositories.RestaurantRepository{DB: db},
				Dishes:      repositories.DishRepository{DB: db},
				Users:       repositories.UserRepository{DB: db},
			},
			close: intconfig.CloseDB,
		}, nil
	}
	return stores{}, fmt.Errorf("unknown storage %q", env.Storage)
}

// buildRouter wires storage, tokens, the authorization engine and metrics
// into the gin engine. The returned func releases the storage.
func buildRouter(ctx context.Context, env intconfig.Env) (*gin.Engine, func(), error) {
	s, err := openStores(ctx, env)
	if err != nil {
		return nil, nil, err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := middleware.NewMetrics(reg)

	deps := s.deps
	deps.Env = env
	deps.Tokens = auth.NewTokens(env.JWTKey, env.JWTIssuer, env.JWTExpireDays)
	deps.Metrics = metrics
	deps.Gatherer = reg
	deps.Authz = authz.NewEngine(authz.DefaultPolicies(),
		authz.WithOwnershipCounter(deps.Restaurants),
		authz.WithObserver(metrics.ObserveDecision),
	)

	utils.LogEvent("", "app", "wire", fmt.Sprintf("storage=%s policies=%v", env.Storage, authz.DefaultPolicies().Names()))
	return api.NewRouter(deps), s.close, nil
}
