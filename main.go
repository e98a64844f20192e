package main

import (
	"log"

	"github.com/A111221027/0806/config"
	"github.com/A111221027/0806/routes"
	"github.com/gin-gonic/gin"
)

func main() {
	log.Println("Starting order API server...")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	// The pool connects in the background; order routes answer with
	// CONFIGURATION_ERROR until it is ready.
	pool := config.NewPool()
	go func() {
		if err := pool.Connect(cfg); err != nil {
			log.Printf("Failed to connect to database: %v", err)
		}
	}()
	defer func() {
		if err := pool.Close(); err != nil {
			log.Printf("Failed to close database pool: %v", err)
		}
	}()

	router := routes.SetupRouter(cfg, pool)

	log.Printf("Server is running on http://localhost%s", cfg.Addr())
	if err := router.Run(cfg.Addr()); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
