package main

import (
	"log"
	"os"

	"github.com/driftlab/blobtask/internal/emulator"
	"github.com/driftlab/blobtask/internal/logger"
)

func main() {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8787"
	}

	apiKey := os.Getenv("BLOBTASK_EMULATOR_KEY")
	if apiKey == "" {
		apiKey = "dev-key"
	}

	logConfig := logger.DefaultConfig()
	logConfig.Console = true
	if err := logger.Init(logConfig); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Close()

	srv, err := emulator.New(apiKey)
	if err != nil {
		log.Fatalf("Failed to create emulator: %v", err)
	}

	log.Printf("blobtask emulator starting on :%s (API key %q)", port, apiKey)
	if err := srv.Start(":" + port); err != nil {
		log.Fatalf("Emulator failed: %v", err)
	}
}
