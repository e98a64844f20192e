package controllers

import (
	"net/http"

	"github.com/A111221027/0806/config"
	"github.com/gin-gonic/gin"
)

// HealthController serves the health and database status endpoints
type HealthController struct {
	pool *config.Pool
}

// NewHealthController creates a health controller reporting on pool
func NewHealthController(pool *config.Pool) *HealthController {
	return &HealthController{pool: pool}
}

// HealthCheck handles the health check endpoint
func (hc *HealthController) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Order API is running",
	})
}

// DatabaseStatus checks database connectivity and returns table information
func (hc *HealthController) DatabaseStatus(c *gin.Context) {
	db, err := hc.pool.GetDB()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "CONFIGURATION_ERROR",
				"message": "Database pool not ready",
			},
		})
		return
	}

	sqlDB, err := db.DB()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to get database instance",
			},
		})
		return
	}

	if err := sqlDB.PingContext(c.Request.Context()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_CONNECTION_ERROR",
				"message": "Database connection failed",
			},
		})
		return
	}

	tables, err := db.WithContext(c.Request.Context()).Migrator().GetTables()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_QUERY_ERROR",
				"message": "Failed to query tables",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Database connected",
		"tables":  tables,
	})
}
