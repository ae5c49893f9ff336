// @title LearnHub Portal API
// @version 1.0
// @description Backend of the LearnHub learning portal: sign-in, role based screens and live state events.

// @host localhost:8080
// @BasePath /api

package main

import (
	"flag"
	"log"

	"learnhub_portal/internal/app"
	"learnhub_portal/internal/config"
	"learnhub_portal/pkg/logger"
)

func main() {
	configDir := flag.String("config", "configs", "directory holding config.yaml")
	seed := flag.Bool("seed", false, "load the demo catalog and give new users starter enrollments")
	flag.Parse()

	cfg, err := config.LoadConfig(*configDir)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	cfg.Seed = *seed

	application, err := app.NewApp(cfg)
	if err != nil {
		log.Fatalf("Failed to start: %v", err)
	}
	defer logger.Log.Sync()
	application.ConfigDir = *configDir

	application.Run()
}
