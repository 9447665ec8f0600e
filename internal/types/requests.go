package types

import "github.com/google/uuid"

// IngredientLine is one (ingredient, amount) pair in a recipe submission.
type IngredientLine struct {
	ID     uuid.UUID `json:"id" binding:"required"`
	Amount int       `json:"amount" binding:"required"`
}

// CreateRecipeRequest represents the request body for creating a recipe
type CreateRecipeRequest struct {
	Name        string           `json:"name" binding:"required,max=256"`
	Image       string           `json:"image" binding:"required"`
	Text        string           `json:"text" binding:"required"`
	CookingTime int              `json:"cooking_time" binding:"required"`
	Ingredients []IngredientLine `json:"ingredients" binding:"required"`
	Tags        []uuid.UUID      `json:"tags" binding:"required"`
}

// UpdateRecipeRequest represents the request body for updating a recipe.
// Image is optional; when omitted the stored image is kept. Everything else
// overwrites the recipe and fully replaces its association sets.
type UpdateRecipeRequest struct {
	Name        string           `json:"name" binding:"required,max=256"`
	Image       string           `json:"image"`
	Text        string           `json:"text" binding:"required"`
	CookingTime int              `json:"cooking_time" binding:"required"`
	Ingredients []IngredientLine `json:"ingredients" binding:"required"`
	Tags        []uuid.UUID      `json:"tags" binding:"required"`
}

// RecipeFilter carries the supported list query parameters.
type RecipeFilter struct {
	Author           *uuid.UUID
	TagSlugs         []string
	IsFavorited      bool
	IsInShoppingCart bool
	Limit            int
	Offset           int
}

// RegisterRequest represents the request body for user registration
type RegisterRequest struct {
	Email     string `json:"email" binding:"required,email,max=254"`
	Username  string `json:"username" binding:"required,max=150"`
	FirstName string `json:"first_name" binding:"required,max=150"`
	LastName  string `json:"last_name" binding:"required,max=150"`
	Password  string `json:"password" binding:"required,min=8"`
}

// LoginRequest represents the request body for token issuance
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// SetPasswordRequest represents the request body for a password change
type SetPasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,min=8"`
}
