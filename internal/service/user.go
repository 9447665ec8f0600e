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

// UserService serves the public user projections.
type UserService struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUserService(db *gorm.DB, log *logger.Logger) *UserService {
	return &UserService{db: db, log: log}
}

// Get returns the projection of one user. The subscription flag is computed
// for the viewer and is false for anonymous requests.
func (s *UserService) Get(ctx context.Context, viewerID *uuid.UUID, id uuid.UUID) (*types.UserView, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: user", ErrNotFound)
		}
		return nil, err
	}

	subscribed, err := s.isSubscribed(ctx, viewerID, user.ID)
	if err != nil {
		return nil, err
	}

	view := userView(&user, subscribed)
	return &view, nil
}

// List returns user projections ordered by username.
func (s *UserService) List(ctx context.Context, viewerID *uuid.UUID, limit, offset int) ([]types.UserView, error) {
	var users []models.User
	query := s.db.WithContext(ctx).Order("username")
	if limit > 0 {
		query = query.Limit(limit).Offset(offset)
	}
	if err := query.Find(&users).Error; err != nil {
		return nil, err
	}

	views := make([]types.UserView, 0, len(users))
	for i := range users {
		subscribed, err := s.isSubscribed(ctx, viewerID, users[i].ID)
		if err != nil {
			return nil, err
		}
		views = append(views, userView(&users[i], subscribed))
	}
	return views, nil
}

func (s *UserService) isSubscribed(ctx context.Context, viewerID *uuid.UUID, authorID uuid.UUID) (bool, error) {
	if viewerID == nil {
		return false, nil
	}
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Follow{}).
		Where("user_id = ? AND author_id = ?", *viewerID, authorID).
		Count(&count).Error
	return count > 0, err
}

func userView(u *models.User, isSubscribed bool) types.UserView {
	return types.UserView{
		ID:           u.ID,
		Email:        u.Email,
		Username:     u.Username,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		IsSubscribed: isSubscribed,
	}
}
