package main

import (
	"context"
	"fmt"
	"os"

	"github.com/ledger-api/ledger_api/internal/config"
	"github.com/ledger-api/ledger_api/internal/infra"
	"github.com/ledger-api/ledger_api/internal/ledger"
	"github.com/ledger-api/ledger_api/internal/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}
	if cfg.DatabaseURL == "" {
		fmt.Fprintln(os.Stderr, "DATABASE_URL must be set to migrate")
		os.Exit(1)
	}

	logger := logging.New(cfg.LogLevel)

	ctx := context.Background()
	db, err := infra.NewPostgresPool(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error("connect postgres", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := ledger.Migrate(ctx, db); err != nil {
		logger.Error("apply schema", "error", err)
		os.Exit(1)
	}

	logger.Info("ledger schema applied")
}
