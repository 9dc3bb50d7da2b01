package handlers

import (
	"net/http"
	"sync"

	intconfig "restaurantapi/internal/config"
	"restaurantapi/internal/db"

	"github.com/gin-gonic/gin"
)

var (
	routerMu sync.RWMutex
	router   *gin.Engine
)

// SetRouter stores the active gin engine for later inspection (e.g., /api/routes).
func SetRouter(r *gin.Engine) {
	routerMu.Lock()
	defer routerMu.Unlock()
	router = r
}

func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "restaurant api is running"})
}

func DBCheck(c *gin.Context) {
	ctx := c.Request.Context()
	if err := intconfig.EnsureDB(ctx); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "database not connected: " + err.Error()})
		return
	}
	missing := []string{}
	for _, table := range []string{"roles", "users", "addresses", "restaurants", "dishes"} {
		if !db.HasTable(ctx, intconfig.DB, table) {
			missing = append(missing, table)
		}
	}
	if len(missing) > 0 {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "schema incomplete", "missing_tables": missing})
		return
	}

	var count int
	err := intconfig.DB.QueryRowContext(ctx, "SELECT COUNT(*) FROM restaurants").Scan(&count)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "database query failed: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "database connection OK", "restaurants_in_db": count})
}

func Routes(c *gin.Context) {
	routerMu.RLock()
	r := router
	routerMu.RUnlock()
	if r == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "router not ready"})
		return
	}

	routes := r.Routes()
	out := make([]gin.H, 0, len(routes))
	for _, rt := range routes {
		out = append(out, gin.H{
			"method":  rt.Method,
			"path":    rt.Path,
			"handler": rt.Handler,
		})
	}
	c.JSON(http.StatusOK, gin.H{"routes": out})
}
