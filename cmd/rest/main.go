package main

import (
	"context"
	"log"

	"workspace-disputes-be/internal/bootstrap"
	"workspace-disputes-be/internal/config"
	"workspace-disputes-be/internal/server"
	"workspace-disputes-be/internal/tracer"
	"workspace-disputes-be/pkg/database"
)

func main() {
	// 1. Tracer (no-op unless OTEL_ENABLED=true)
	shutdownTracer := tracer.InitTracer()
	defer shutdownTracer(context.Background())

	// 2. Configuration
	cfg := config.Load()

	// 3. Database
	gormDB, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		log.Panicf("Unable to connect to GORM DB: %v", err)
	}

	// 4. Dependency container
	container := bootstrap.NewContainer(gormDB, cfg)

	// 5. Background event forwarder
	go func() {
		log.Println("Background: Starting Consumer Service...")
		if err := container.ConsumerService.Consume(context.Background()); err != nil {
			log.Printf("Background Consumer Error: %v", err)
		}
	}()

	// 6. HTTP server
	srv := server.New(cfg, container)
	log.Fatal(srv.Run())
}
