package main

import (
	"log/slog"
	"os"

	"PaymentIntake/config"
	"PaymentIntake/internal/app"
	"PaymentIntake/internal/domain/catalog"
)

func main() {
	cfg, err := config.New(catalog.Default())
	if err != nil {
		slog.Error("Config error", "error", err)
		os.Exit(1)
	}

	if err := app.Run(cfg); err != nil {
		slog.Error("App stopped", "error", err)
		os.Exit(1)
	}
}
