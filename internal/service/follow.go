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

// FollowService manages author subscriptions.
type FollowService struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewFollowService(db *gorm.DB, log *logger.Logger) *FollowService {
	return &FollowService{db: db, log: log}
}

// Subscribe follows an author and returns the subscription projection.
func (s *FollowService) Subscribe(ctx context.Context, userID, authorID uuid.UUID, recipesLimit int) (*types.SubscriptionView, error) {
	if userID == authorID {
		return nil, ErrSelfFollow
	}

	var author models.User
	if err := s.db.WithContext(ctx).First(&author, "id = ?", authorID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: author", ErrNotFound)
		}
		return nil, err
	}

	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Follow{}).
		Where("user_id = ? AND author_id = ?", userID, authorID).
		Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrAlreadySubscribed
	}

	follow := models.Follow{UserID: userID, AuthorID: authorID}
	if err := s.db.WithContext(ctx).Create(&follow).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, ErrAlreadySubscribed
		}
		return nil, err
	}

	s.log.Info("subscription created", "user_id", userID, "author_id", authorID)

	return s.subscriptionView(ctx, &author, recipesLimit)
}

// Unsubscribe drops the follow pair.
func (s *FollowService) Unsubscribe(ctx context.Context, userID, authorID uuid.UUID) error {
	if userID == authorID {
		return ErrSelfFollow
	}

	var author models.User
	if err := s.db.WithContext(ctx).First(&author, "id = ?", authorID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: author", ErrNotFound)
		}
		return err
	}

	result := s.db.WithContext(ctx).
		Where("user_id = ? AND author_id = ?", userID, authorID).
		Delete(&models.Follow{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotSubscribed
	}
	return nil
}

// Subscriptions lists every followed author with a page of their recipes and
// the total recipe count. recipesLimit caps the embedded recipe list when
// positive.
func (s *FollowService) Subscriptions(ctx context.Context, userID uuid.UUID, recipesLimit int) ([]types.SubscriptionView, error) {
	var authors []models.User
	if err := s.db.WithContext(ctx).
		Joins("JOIN follows ON follows.author_id = users.id").
		Where("follows.user_id = ?", userID).
		Order("users.username").
		Find(&authors).Error; err != nil {
		return nil, err
	}

	views := make([]types.SubscriptionView, 0, len(authors))
	for i := range authors {
		view, err := s.subscriptionView(ctx, &authors[i], recipesLimit)
		if err != nil {
			return nil, err
		}
		views = append(views, *view)
	}
	return views, nil
}

func (s *FollowService) subscriptionView(ctx context.Context, author *models.User, recipesLimit int) (*types.SubscriptionView, error) {
	var total int64
	if err := s.db.WithContext(ctx).Model(&models.Recipe{}).
		Where("author_id = ?", author.ID).
		Count(&total).Error; err != nil {
		return nil, err
	}

	query := s.db.WithContext(ctx).
		Where("author_id = ?", author.ID).
		Order("created_at DESC")
	if recipesLimit > 0 {
		query = query.Limit(recipesLimit)
	}
	var recipes []models.Recipe
	if err := query.Find(&recipes).Error; err != nil {
		return nil, err
	}

	shorts := make([]types.ShortRecipeView, 0, len(recipes))
	for i := range recipes {
		shorts = append(shorts, shortRecipeView(&recipes[i]))
	}

	return &types.SubscriptionView{
		ID:           author.ID,
		Email:        author.Email,
		Username:     author.Username,
		FirstName:    author.FirstName,
		LastName:     author.LastName,
		IsSubscribed: true,
		Recipes:      shorts,
		RecipesCount: total,
	}, nil
}
