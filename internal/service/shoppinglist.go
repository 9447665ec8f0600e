package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pageza/tablefork/backend/internal/logger"
	"github.com/pageza/tablefork/backend/internal/models"
	"github.com/pageza/tablefork/backend/internal/types"
)

// ShoppingListService derives a merged ingredient list from the user's cart.
type ShoppingListService struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewShoppingListService(db *gorm.DB, log *logger.Logger) *ShoppingListService {
	return &ShoppingListService{db: db, log: log}
}

// Build sums ingredient amounts across every recipe in the user's cart.
// Grouping is by (name, measurement unit), not by ingredient id, so distinct
// catalog rows sharing a name and unit merge into one line. Output order is
// lexicographic by ingredient name, then unit.
func (s *ShoppingListService) Build(ctx context.Context, userID uuid.UUID) ([]types.ShoppingListItem, error) {
	var carted int64
	if err := s.db.WithContext(ctx).Model(&models.CartItem{}).
		Where("user_id = ?", userID).
		Count(&carted).Error; err != nil {
		return nil, err
	}
	if carted == 0 {
		return nil, ErrEmptyCart
	}

	var items []types.ShoppingListItem
	err := s.db.WithContext(ctx).Table("ingredient_amounts").
		Select("ingredients.name AS name, ingredients.measurement_unit AS measurement_unit, SUM(ingredient_amounts.amount) AS total_amount").
		Joins("JOIN ingredients ON ingredients.id = ingredient_amounts.ingredient_id").
		Joins("JOIN cart_items ON cart_items.recipe_id = ingredient_amounts.recipe_id").
		Where("cart_items.user_id = ?", userID).
		Group("ingredients.name, ingredients.measurement_unit").
		Order("ingredients.name, ingredients.measurement_unit").
		Scan(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

// RenderShoppingList produces the plain-text document served as a download:
// a header line followed by one line per aggregated group.
func RenderShoppingList(items []types.ShoppingListItem) string {
	var b strings.Builder
	b.WriteString("Shopping list\n\n")
	for i, item := range items {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "- %s (%s) - %d", item.Name, item.MeasurementUnit, item.TotalAmount)
	}
	return b.String()
}

// ShoppingListFilename names the downloadable attachment for a user.
func ShoppingListFilename(username string) string {
	return fmt.Sprintf("%s_shopping_list.txt", username)
}
