package main

import (
	"context"
	"flag"
	"log"
	"os"

	"github.com/pageza/tablefork/backend/config"
	"github.com/pageza/tablefork/backend/internal/database"
	"github.com/pageza/tablefork/backend/internal/logger"
	"github.com/pageza/tablefork/backend/internal/service"
)

// Bulk-loads the ingredient reference data from a two-column (name, unit)
// CSV file, get-or-create per line.
func main() {
	path := flag.String("file", "ingredients.csv", "path to the ingredients CSV file")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	zl, err := logger.New(cfg.LogMode)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer zl.Sync()

	db, err := database.New(cfg, zl)
	if err != nil {
		zl.Fatal("failed to connect to database", "error", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		zl.Fatal("failed to migrate database", "error", err)
	}

	file, err := os.Open(*path)
	if err != nil {
		zl.Fatal("failed to open ingredients file", "path", *path, "error", err)
	}
	defer file.Close()

	catalog := service.NewCatalogService(db, zl)
	created, err := catalog.ImportIngredients(context.Background(), file)
	if err != nil {
		zl.Fatal("import failed", "error", err)
	}
	zl.Info("import finished", "created", created)
}
