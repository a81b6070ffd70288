package handlers

import (
	"net/http"
	"sort"
	"sync"
	"time"

	intconfig "travellink/internal/config"

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
	c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "travellink backend running"})
}

func DBCheck(c *gin.Context) {
	if intconfig.DB == nil {
		c.JSON(http.StatusOK, gin.H{"status": "memory", "message": "no database configured, using in-memory stores"})
		return
	}
	start := time.Now()
	if err := intconfig.PingDB(c.Request.Context()); err != nil {
		respondError(c, http.StatusServiceUnavailable, "db_unavailable", "database ping failed: "+err.Error(), "")
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "latency_ms": time.Since(start).Milliseconds()})
}

// Routes lists the registered endpoints ordered by path, then method.
func Routes(c *gin.Context) {
	routerMu.RLock()
	r := router
	routerMu.RUnlock()
	if r == nil {
		respondError(c, http.StatusServiceUnavailable, "not_ready", "router not ready", "")
		return
	}

	routes := r.Routes()
	sort.Slice(routes, func(i, j int) bool {
		if routes[i].Path != routes[j].Path {
			return routes[i].Path < routes[j].Path
		}
		return routes[i].Method < routes[j].Method
	})
	out := make([]string, 0, len(routes))
	for _, rt := range routes {
		out = append(out, rt.Method+" "+rt.Path)
	}
	c.JSON(http.StatusOK, gin.H{"routes": out, "count": len(out)})
}
