package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	insightlens "insightlens/agents/insight-lens"
	"insightlens/shared/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Create context that responds to signals
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	app := insightlens.NewApp(cfg)
	if err := app.Initialize(); err != nil {
		log.Fatalf("Failed to initialize %s: %v", app.Name(), err)
	}

	if err := app.Run(ctx); err != nil {
		log.Fatalf("%s failed: %v", app.Name(), err)
	}
}
