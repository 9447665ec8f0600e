package main

import (
	"log"

	"golang.org/x/crypto/bcrypt"

	"github.com/pageza/tablefork/backend/config"
	"github.com/pageza/tablefork/backend/internal/database"
	"github.com/pageza/tablefork/backend/internal/logger"
	"github.com/pageza/tablefork/backend/internal/models"
)

// Seeds a development database with the tag palette, a handful of
// ingredients and a demo account.
func main() {
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

	tags := []models.Tag{
		{Name: "Breakfast", Color: "#E26C2D", Slug: "breakfast"},
		{Name: "Lunch", Color: "#49B64E", Slug: "lunch"},
		{Name: "Dinner", Color: "#8775D2", Slug: "dinner"},
	}
	for i := range tags {
		if err := db.Where("slug = ?", tags[i].Slug).FirstOrCreate(&tags[i]).Error; err != nil {
			zl.Fatal("failed to seed tag", "slug", tags[i].Slug, "error", err)
		}
	}

	ingredients := []models.Ingredient{
		{Name: "flour", MeasurementUnit: "g"},
		{Name: "sugar", MeasurementUnit: "g"},
		{Name: "egg", MeasurementUnit: "pcs"},
		{Name: "milk", MeasurementUnit: "ml"},
		{Name: "butter", MeasurementUnit: "g"},
	}
	for i := range ingredients {
		if err := db.Where("name = ? AND measurement_unit = ?", ingredients[i].Name, ingredients[i].MeasurementUnit).
			FirstOrCreate(&ingredients[i]).Error; err != nil {
			zl.Fatal("failed to seed ingredient", "name", ingredients[i].Name, "error", err)
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("demo-password"), bcrypt.DefaultCost)
	if err != nil {
		zl.Fatal("failed to hash demo password", "error", err)
	}
	demo := models.User{
		Email:        "demo@example.com",
		Username:     "demo",
		FirstName:    "Demo",
		LastName:     "User",
		PasswordHash: string(hash),
	}
	if err := db.Where("username = ?", demo.Username).FirstOrCreate(&demo).Error; err != nil {
		zl.Fatal("failed to seed demo user", "error", err)
	}

	zl.Info("seed finished", "tags", len(tags), "ingredients", len(ingredients))
}
