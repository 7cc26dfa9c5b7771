package main

import (
	"log"

	"vnstock-delta-scan/app"
	"vnstock-delta-scan/config"
)

func main() {
	// Load config from .env file
	cfg := config.LoadFromEnv()

	// Create and start app
	application := app.New(cfg)
	if err := application.Start(); err != nil {
		log.Fatal(err)
	}
}
