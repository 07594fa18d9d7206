package handler

import (
	"context"
	"net/http"
	"time"

	"bclick/internal/infra"
	"bclick/internal/worker"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Health returns a JSON health check response.
// Checks DB and Redis connectivity; never exposes credentials or internals.
// The mail breaker state and the parked job count are informational and do
// not affect the status code.
func Health(db *gorm.DB, rdb *redis.Client, mailCB *infra.CircuitBreaker) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		dbStatus := "connected"
		if db == nil {
			dbStatus = "error"
		} else if sqlDB, err := db.DB(); err != nil || sqlDB.PingContext(ctx) != nil {
			dbStatus = "error"
		}

		redisStatus := "connected"
		if rdb == nil || rdb.Ping(ctx).Err() != nil {
			redisStatus = "error"
		}

		status := http.StatusOK
		if dbStatus != "connected" || redisStatus != "connected" {
			status = http.StatusServiceUnavailable
		}

		body := gin.H{
			"ok":    status == http.StatusOK,
			"db":    dbStatus,
			"redis": redisStatus,
		}
		if mailCB != nil {
			body["mail_breaker"] = mailCB.State().String()
		}
		if redisStatus == "connected" {
			var parked int64
			for _, q := range []string{worker.QueueOrderEvents, worker.QueueEmail} {
				n, err := worker.DLQLength(ctx, rdb, q)
				if err == nil {
					parked += n
				}
			}
			body["dlq"] = parked
		}
		c.JSON(status, body)
	}
}
