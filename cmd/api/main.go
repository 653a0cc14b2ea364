package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"

	"github.com/caresync-app/caresync-api/internal/config"
	dbpkg "github.com/caresync-app/caresync-api/internal/db"
	"github.com/caresync-app/caresync-api/internal/logging"
	"github.com/caresync-app/caresync-api/internal/middleware"
	"github.com/caresync-app/caresync-api/internal/routes"
)

func main() {

	cfg := config.Load()
	log := logging.New(cfg.Env)
	db := dbpkg.NewDB(cfg)

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})

	if cfg.Env != "development" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()

	r.Use(middleware.CORSMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	routes.RegisterRoutes(r, db, rdb, cfg, log)

	log.Infof("server running on %s", cfg.Addr())
	if err := r.Run(cfg.Addr()); err != nil {
		log.Fatalf("failed to start server: %v", err)
	}
}
