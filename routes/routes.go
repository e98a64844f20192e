package routes

import (
	"net/http"
	"path/filepath"
	"strings"

	"github.com/A111221027/0806/config"
	"github.com/A111221027/0806/controllers"
	"github.com/A111221027/0806/middleware"
	"github.com/A111221027/0806/services"
	"github.com/gin-gonic/gin"
)

// SetupRouter wires middleware, API routes and static assets
func SetupRouter(cfg *config.Config, pool *config.Pool) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())
	router.Use(middleware.RequestID(), middleware.CORS())

	orderController := controllers.NewOrderController(services.NewOrderService(pool), cfg)
	healthController := controllers.NewHealthController(pool)

	api := router.Group("/api")
	{
		api.GET("/health", healthController.HealthCheck)
		api.GET("/database/status", healthController.DatabaseStatus)

		api.POST("/orders", orderController.CreateOrder)
		api.GET("/orders", orderController.ListOrders)
		api.GET("/orders/:id", orderController.GetOrder)
	}

	// Landing page and the rest of the public directory
	router.StaticFile("/", filepath.Join(cfg.PublicDir, "index.html"))
	router.NoRoute(staticFiles(cfg.PublicDir))

	return router
}

// staticFiles serves GET and HEAD requests from dir and answers everything else with 404
func staticFiles(dir string) gin.HandlerFunc {
	fileServer := http.FileServer(http.Dir(dir))
	return func(c *gin.Context) {
		method := c.Request.Method
		if (method != http.MethodGet && method != http.MethodHead) || strings.HasPrefix(c.Request.URL.Path, "/api/") {
			c.JSON(http.StatusNotFound, gin.H{
				"message": "not found",
			})
			return
		}
		fileServer.ServeHTTP(c.Writer, c.Request)
	}
}
