// cmd/tools/catalog-seeder/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"movienight-backend/internal/catalog"
	"movienight-backend/internal/common/config"
	"movienight-backend/internal/common/database"
	"movienight-backend/internal/common/logger"
	"movienight-backend/internal/common/openai"
)

func main() {
	catalogFile := flag.String("file", "", "Path to the catalog file (overrides catalog.file from config)")
	configPath := flag.String("config", "", "Path to a specific config file")
	flag.Parse()

	var cfg *config.Config
	var err error
	if *configPath != "" {
		cfg, err = config.LoadFromFile(*configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	zapLog := logger.New(cfg.Logging.Level, "console")
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	path := cfg.Catalog.File
	if *catalogFile != "" {
		path = *catalogFile
	}

	pg, err := database.NewPostgres(cfg.Database.Postgres)
	if err != nil {
		zapLog.Fatal("postgres init failed", zap.Error(err))
	}
	defer pg.Close()

	ctx := context.Background()
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pg.Ping(pingCtx); err != nil {
		zapLog.Fatal("postgres unreachable", zap.Error(err))
	}

	seeder := catalog.NewSeeder(
		catalog.NewPostgresStore(pg.DB, log),
		openai.NewClient(cfg.APIs.OpenAI, log),
		log,
	)

	report, err := seeder.Run(ctx, path)
	if err != nil {
		zapLog.Fatal("seeding run failed", zap.Error(err))
	}

	fmt.Printf("Seeding complete: %d inserted, %d skipped, %d failed\n",
		report.Inserted, report.Skipped, report.Failed)

	for _, res := range report.Results {
		if res.Status != catalog.StatusInserted {
			fmt.Printf("  %s: %s (%s)\n", res.Status, res.Title, res.Reason)
		}
	}
}
