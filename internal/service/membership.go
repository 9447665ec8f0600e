package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pageza/tablefork/backend/internal/logger"
	"github.com/pageza/tablefork/backend/internal/models"
	"github.com/pageza/tablefork/backend/internal/types"
)

// MembershipKind selects which per-user recipe set an operation targets.
type MembershipKind string

const (
	SetFavorite MembershipKind = "favorite"
	SetCart     MembershipKind = "shopping_cart"
)

// MembershipService implements the favorites and shopping-cart sets with one
// generalized add/remove pair, since the two are structurally identical.
type MembershipService struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewMembershipService(db *gorm.DB, log *logger.Logger) *MembershipService {
	return &MembershipService{db: db, log: log}
}

// Add puts a recipe into the user's set. A second add of the same pair is an
// error, not a no-op.
func (s *MembershipService) Add(ctx context.Context, kind MembershipKind, userID, recipeID uuid.UUID) (*types.ShortRecipeView, error) {
	var recipe models.Recipe
	if err := s.db.WithContext(ctx).First(&recipe, "id = ?", recipeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: recipe", ErrNotFound)
		}
		return nil, err
	}

	var count int64
	if err := s.db.WithContext(ctx).Model(s.model(kind)).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, fmt.Errorf("%w: recipe already added", ErrAlreadyExists)
	}

	if err := s.db.WithContext(ctx).Create(s.row(kind, userID, recipeID)).Error; err != nil {
		// A concurrent add of the same pair trips the unique index instead
		// of the existence check above.
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("%w: recipe already added", ErrAlreadyExists)
		}
		return nil, err
	}

	view := shortRecipeView(&recipe)
	return &view, nil
}

// Remove deletes a recipe from the user's set.
func (s *MembershipService) Remove(ctx context.Context, kind MembershipKind, userID, recipeID uuid.UUID) error {
	result := s.db.WithContext(ctx).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Delete(s.model(kind))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: recipe is not in the set", ErrAlreadyRemoved)
	}
	return nil
}

func (s *MembershipService) model(kind MembershipKind) interface{} {
	if kind == SetCart {
		return &models.CartItem{}
	}
	return &models.Favorite{}
}

func (s *MembershipService) row(kind MembershipKind, userID, recipeID uuid.UUID) interface{} {
	if kind == SetCart {
		return &models.CartItem{UserID: userID, RecipeID: recipeID}
	}
	return &models.Favorite{UserID: userID, RecipeID: recipeID}
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") || strings.Contains(msg, "duplicate key")
}
