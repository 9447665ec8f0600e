package database

import (
	"gorm.io/gorm"

	"github.com/pageza/tablefork/backend/internal/models"
)

// AutoMigrate creates or updates the schema for every model. The cmd/migrate
// runner applies the SQL files instead; this path serves development and the
// test databases.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Follow{},
		&models.Tag{},
		&models.Ingredient{},
		&models.Recipe{},
		&models.IngredientAmount{},
		&models.RecipeTag{},
		&models.Favorite{},
		&models.CartItem{},
	)
}
