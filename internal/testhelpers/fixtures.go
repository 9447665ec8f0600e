package testhelpers

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/pageza/tablefork/backend/internal/models"
)

// TestPassword is the known password of every fixture user.
const TestPassword = "testpassword123"

// CreateTestUser inserts a user with a bcrypt-hashed known password.
func CreateTestUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(TestPassword), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := models.User{
		Email:        fmt.Sprintf("%s@example.com", username),
		Username:     username,
		FirstName:    "Test",
		LastName:     "User",
		PasswordHash: string(hash),
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return &user
}

// CreateTestTag inserts a tag deriving color and slug from the name.
func CreateTestTag(t *testing.T, db *gorm.DB, name, slug, color string) *models.Tag {
	t.Helper()

	tag := models.Tag{Name: name, Slug: slug, Color: color}
	if err := db.Create(&tag).Error; err != nil {
		t.Fatalf("failed to create test tag: %v", err)
	}
	return &tag
}

// CreateTestIngredient inserts one catalog ingredient.
func CreateTestIngredient(t *testing.T, db *gorm.DB, name, unit string) *models.Ingredient {
	t.Helper()

	ingredient := models.Ingredient{Name: name, MeasurementUnit: unit}
	if err := db.Create(&ingredient).Error; err != nil {
		t.Fatalf("failed to create test ingredient: %v", err)
	}
	return &ingredient
}

// CreateTestRecipe inserts a bare recipe row with one ingredient line and
// one tag link, bypassing service validation.
func CreateTestRecipe(t *testing.T, db *gorm.DB, authorID uuid.UUID, name string, ingredient *models.Ingredient, amount int, tag *models.Tag) *models.Recipe {
	t.Helper()

	recipe := models.Recipe{
		AuthorID:    authorID,
		Name:        name,
		Image:       "data:image/png;base64,aGk=",
		Text:        "test recipe text",
		CookingTime: 10,
	}
	if err := db.Create(&recipe).Error; err != nil {
		t.Fatalf("failed to create test recipe: %v", err)
	}
	if ingredient != nil {
		line := models.IngredientAmount{RecipeID: recipe.ID, IngredientID: ingredient.ID, Amount: amount}
		if err := db.Create(&line).Error; err != nil {
			t.Fatalf("failed to create test ingredient line: %v", err)
		}
	}
	if tag != nil {
		link := models.RecipeTag{RecipeID: recipe.ID, TagID: tag.ID}
		if err := db.Create(&link).Error; err != nil {
			t.Fatalf("failed to create test tag link: %v", err)
		}
	}
	return &recipe
}
