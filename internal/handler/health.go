package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Health reports process liveness plus the state of optional backends.
// db and rdb may be nil (in-memory store, no event queue) — absent backends
// are reported as "disabled", not as failures.
func Health(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		status := http.StatusOK
		checks := gin.H{}

		if db == nil {
			checks["database"] = "disabled"
		} else if sqlDB, err := db.DB(); err != nil || sqlDB.PingContext(c.Request.Context()) != nil {
			checks["database"] = "down"
			status = http.StatusServiceUnavailable
		} else {
			checks["database"] = "ok"
		}

		if rdb == nil {
			checks["redis"] = "disabled"
		} else if err := rdb.Ping(c.Request.Context()).Err(); err != nil {
			checks["redis"] = "down"
			status = http.StatusServiceUnavailable
		} else {
			checks["redis"] = "ok"
		}

		c.JSON(status, gin.H{
			"status": http.StatusText(status),
			"time":   time.Now().UTC().Format(time.RFC3339),
			"checks": checks,
		})
	}
}
