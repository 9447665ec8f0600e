package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pageza/tablefork/backend/internal/logger"
	"github.com/pageza/tablefork/backend/internal/models"
	"github.com/pageza/tablefork/backend/internal/types"
)

// RecipeService manages a recipe together with its ingredient lines and tag
// links as one consistency unit. Multi-table writes run inside a single
// transaction so a mid-sequence failure leaves no partial recipe.
type RecipeService struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewRecipeService(db *gorm.DB, log *logger.Logger) *RecipeService {
	return &RecipeService{db: db, log: log}
}

// Create validates the submission and persists the recipe, its ingredient
// lines and its tag links atomically.
func (s *RecipeService) Create(ctx context.Context, authorID uuid.UUID, req types.CreateRecipeRequest) (*types.RecipeView, error) {
	if err := validateSubmission(req.CookingTime, req.Ingredients, req.Tags); err != nil {
		return nil, err
	}

	recipe := models.Recipe{
		AuthorID:    authorID,
		Name:        req.Name,
		Image:       req.Image,
		Text:        req.Text,
		CookingTime: req.CookingTime,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := checkReferences(tx, req.Ingredients, req.Tags); err != nil {
			return err
		}
		if err := tx.Create(&recipe).Error; err != nil {
			return err
		}
		return createAssociations(tx, recipe.ID, req.Ingredients, req.Tags)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("recipe created", "recipe_id", recipe.ID, "author_id", authorID)

	return s.Get(ctx, &authorID, recipe.ID)
}

// Update overwrites the recipe's scalar fields and fully replaces both
// association sets. Only the author may update; an omitted image keeps the
// stored one.
func (s *RecipeService) Update(ctx context.Context, viewerID, recipeID uuid.UUID, req types.UpdateRecipeRequest) (*types.RecipeView, error) {
	if err := validateSubmission(req.CookingTime, req.Ingredients, req.Tags); err != nil {
		return nil, err
	}

	var recipe models.Recipe
	if err := s.db.WithContext(ctx).First(&recipe, "id = ?", recipeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: recipe", ErrNotFound)
		}
		return nil, err
	}
	if recipe.AuthorID != viewerID {
		return nil, fmt.Errorf("%w: only the author may update a recipe", ErrForbidden)
	}

	recipe.Name = req.Name
	recipe.Text = req.Text
	recipe.CookingTime = req.CookingTime
	if req.Image != "" {
		recipe.Image = req.Image
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := checkReferences(tx, req.Ingredients, req.Tags); err != nil {
			return err
		}
		if err := tx.Save(&recipe).Error; err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", recipe.ID).Delete(&models.IngredientAmount{}).Error; err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", recipe.ID).Delete(&models.RecipeTag{}).Error; err != nil {
			return err
		}
		return createAssociations(tx, recipe.ID, req.Ingredients, req.Tags)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("recipe updated", "recipe_id", recipe.ID)

	return s.Get(ctx, &viewerID, recipe.ID)
}

// Delete removes a recipe and everything hanging off it. Author-only.
func (s *RecipeService) Delete(ctx context.Context, viewerID, recipeID uuid.UUID) error {
	var recipe models.Recipe
	if err := s.db.WithContext(ctx).First(&recipe, "id = ?", recipeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: recipe", ErrNotFound)
		}
		return err
	}
	if recipe.AuthorID != viewerID {
		return fmt.Errorf("%w: only the author may delete a recipe", ErrForbidden)
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, m := range []interface{}{
			&models.IngredientAmount{},
			&models.RecipeTag{},
			&models.Favorite{},
			&models.CartItem{},
		} {
			if err := tx.Where("recipe_id = ?", recipe.ID).Delete(m).Error; err != nil {
				return err
			}
		}
		return tx.Delete(&recipe).Error
	})
}

// Get returns the full read projection of one recipe for the given viewer.
func (s *RecipeService) Get(ctx context.Context, viewerID *uuid.UUID, recipeID uuid.UUID) (*types.RecipeView, error) {
	var recipe models.Recipe
	if err := s.db.WithContext(ctx).First(&recipe, "id = ?", recipeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: recipe", ErrNotFound)
		}
		return nil, err
	}
	return s.view(ctx, viewerID, &recipe)
}

// List returns recipe projections ordered by creation time, newest first.
func (s *RecipeService) List(ctx context.Context, viewerID *uuid.UUID, filter types.RecipeFilter) ([]types.RecipeView, error) {
	query := s.db.WithContext(ctx).Model(&models.Recipe{}).Order("recipes.created_at DESC")

	if filter.Author != nil {
		query = query.Where("recipes.author_id = ?", *filter.Author)
	}
	if len(filter.TagSlugs) > 0 {
		query = query.
			Joins("JOIN recipe_tags ON recipe_tags.recipe_id = recipes.id").
			Joins("JOIN tags ON tags.id = recipe_tags.tag_id").
			Where("tags.slug IN ?", filter.TagSlugs).
			Distinct("recipes.*")
	}
	if filter.IsFavorited && viewerID != nil {
		query = query.
			Joins("JOIN favorites ON favorites.recipe_id = recipes.id").
			Where("favorites.user_id = ?", *viewerID)
	}
	if filter.IsInShoppingCart && viewerID != nil {
		query = query.
			Joins("JOIN cart_items ON cart_items.recipe_id = recipes.id").
			Where("cart_items.user_id = ?", *viewerID)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit).Offset(filter.Offset)
	}

	var recipes []models.Recipe
	if err := query.Find(&recipes).Error; err != nil {
		return nil, err
	}

	views := make([]types.RecipeView, 0, len(recipes))
	for i := range recipes {
		view, err := s.view(ctx, viewerID, &recipes[i])
		if err != nil {
			return nil, err
		}
		views = append(views, *view)
	}
	return views, nil
}

// validateSubmission enforces the create/update invariants before anything
// touches the database.
func validateSubmission(cookingTime int, lines []types.IngredientLine, tagIDs []uuid.UUID) error {
	if cookingTime < 1 {
		return fmt.Errorf("%w: cooking_time must be at least 1 minute", ErrInvalidField)
	}
	if len(lines) == 0 {
		return fmt.Errorf("%w: at least one ingredient is required", ErrInvalidField)
	}
	seenIngredients := make(map[uuid.UUID]struct{}, len(lines))
	for _, line := range lines {
		if _, ok := seenIngredients[line.ID]; ok {
			return fmt.Errorf("%w: ingredient %s listed twice", ErrDuplicateEntry, line.ID)
		}
		seenIngredients[line.ID] = struct{}{}
		if line.Amount < 1 {
			return fmt.Errorf("%w: ingredient amount must be at least 1", ErrInvalidField)
		}
	}
	if len(tagIDs) == 0 {
		return fmt.Errorf("%w: at least one tag is required", ErrInvalidField)
	}
	seenTags := make(map[uuid.UUID]struct{}, len(tagIDs))
	for _, id := range tagIDs {
		if _, ok := seenTags[id]; ok {
			return fmt.Errorf("%w: tag %s listed twice", ErrDuplicateEntry, id)
		}
		seenTags[id] = struct{}{}
	}
	return nil
}

// checkReferences verifies every submitted ingredient and tag id resolves to
// a catalog row.
func checkReferences(tx *gorm.DB, lines []types.IngredientLine, tagIDs []uuid.UUID) error {
	ingredientIDs := make([]uuid.UUID, 0, len(lines))
	for _, line := range lines {
		ingredientIDs = append(ingredientIDs, line.ID)
	}

	var count int64
	if err := tx.Model(&models.Ingredient{}).Where("id IN ?", ingredientIDs).Count(&count).Error; err != nil {
		return err
	}
	if count != int64(len(ingredientIDs)) {
		return fmt.Errorf("%w: unknown ingredient", ErrNotFound)
	}

	if err := tx.Model(&models.Tag{}).Where("id IN ?", tagIDs).Count(&count).Error; err != nil {
		return err
	}
	if count != int64(len(tagIDs)) {
		return fmt.Errorf("%w: unknown tag", ErrNotFound)
	}
	return nil
}

func createAssociations(tx *gorm.DB, recipeID uuid.UUID, lines []types.IngredientLine, tagIDs []uuid.UUID) error {
	amounts := make([]models.IngredientAmount, 0, len(lines))
	for _, line := range lines {
		amounts = append(amounts, models.IngredientAmount{
			RecipeID:     recipeID,
			IngredientID: line.ID,
			Amount:       line.Amount,
		})
	}
	if err := tx.Create(&amounts).Error; err != nil {
		return err
	}

	links := make([]models.RecipeTag, 0, len(tagIDs))
	for _, id := range tagIDs {
		links = append(links, models.RecipeTag{RecipeID: recipeID, TagID: id})
	}
	return tx.Create(&links).Error
}

func (s *RecipeService) view(ctx context.Context, viewerID *uuid.UUID, recipe *models.Recipe) (*types.RecipeView, error) {
	db := s.db.WithContext(ctx)

	var author models.User
	if err := db.First(&author, "id = ?", recipe.AuthorID).Error; err != nil {
		return nil, err
	}

	var tags []models.Tag
	if err := db.
		Joins("JOIN recipe_tags ON recipe_tags.tag_id = tags.id").
		Where("recipe_tags.recipe_id = ?", recipe.ID).
		Order("tags.name").
		Find(&tags).Error; err != nil {
		return nil, err
	}
	tagViews := make([]types.TagView, 0, len(tags))
	for _, t := range tags {
		tagViews = append(tagViews, types.TagView{ID: t.ID, Name: t.Name, Color: t.Color, Slug: t.Slug})
	}

	var ingredients []types.IngredientAmountView
	if err := db.Table("ingredient_amounts").
		Select("ingredient_amounts.ingredient_id AS id, ingredients.name AS name, ingredients.measurement_unit AS measurement_unit, ingredient_amounts.amount AS amount").
		Joins("JOIN ingredients ON ingredients.id = ingredient_amounts.ingredient_id").
		Where("ingredient_amounts.recipe_id = ?", recipe.ID).
		Order("ingredients.name").
		Scan(&ingredients).Error; err != nil {
		return nil, err
	}

	view := types.RecipeView{
		ID:          recipe.ID,
		Tags:        tagViews,
		Author:      userView(&author, false),
		Ingredients: ingredients,
		Name:        recipe.Name,
		Image:       recipe.Image,
		Text:        recipe.Text,
		CookingTime: recipe.CookingTime,
		CreatedAt:   recipe.CreatedAt,
	}

	if viewerID != nil {
		var count int64
		if err := db.Model(&models.Favorite{}).
			Where("user_id = ? AND recipe_id = ?", *viewerID, recipe.ID).
			Count(&count).Error; err != nil {
			return nil, err
		}
		view.IsFavorited = count > 0

		if err := db.Model(&models.CartItem{}).
			Where("user_id = ? AND recipe_id = ?", *viewerID, recipe.ID).
			Count(&count).Error; err != nil {
			return nil, err
		}
		view.IsInShoppingCart = count > 0

		var follows int64
		if err := db.Model(&models.Follow{}).
			Where("user_id = ? AND author_id = ?", *viewerID, recipe.AuthorID).
			Count(&follows).Error; err != nil {
			return nil, err
		}
		view.Author.IsSubscribed = follows > 0
	}

	return &view, nil
}

func shortRecipeView(r *models.Recipe) types.ShortRecipeView {
	return types.ShortRecipeView{
		ID:          r.ID,
		Name:        r.Name,
		Image:       r.Image,
		CookingTime: r.CookingTime,
	}
}
