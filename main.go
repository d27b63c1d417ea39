package main

import (
	"context"
	"log"
	"membergate/access"
	"membergate/bizerror"
	"membergate/config"
	"membergate/infra/tracing"
	"membergate/mindbody"
	"membergate/persistence"
	"membergate/portal"
	"membergate/sessions"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	log.Println("service start")

	if err := godotenv.Load(); err != nil {
		log.Println("no .env file loaded")
	}

	cfg, err := config.Parse()
	if err != nil {
		log.Fatalf("parse config failed %v\n", err)
	}

	// connect database
	ds := &persistence.DataSourceManager{DatabaseConfig: &cfg.Database}
	if err := ds.Start(); err != nil {
		log.Fatalf("database connection failed %v\n", err)
	}
	defer ds.Stop()
	persistence.ActiveDataSourceManager = ds

	// database migration
	if err := ds.GormDB(context.Background()).AutoMigrate(&access.AccessLevel{}).Error; err != nil {
		log.Fatalf("database migration failed %v\n", err)
	}

	closer, err := tracing.InitTracer()
	if err != nil {
		log.Fatalf("tracer setup failed %v\n", err)
	}
	defer closer.Close()

	remote := mindbody.NewClient(cfg.Remote)
	resolver := access.NewResolver(remote)

	engine := gin.Default()
	engine.Use(tracing.TracingIngress(), bizerror.ErrorHandling())
	engine.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "membergate")
	})

	sessions.RegisterSessionsHandler(engine, resolver, remote)
	access.RegisterAccessHandler(engine, resolver, cfg.AdminKey)
	access.RegisterLevelsHandler(engine, cfg.AdminKey)
	portal.RegisterPortalHandler(engine, resolver, cfg.Portal)

	if err := engine.Run(cfg.ServeAddr); err != nil {
		panic(err)
	}
}
