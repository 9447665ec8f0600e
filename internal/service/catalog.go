package service

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pageza/tablefork/backend/internal/logger"
	"github.com/pageza/tablefork/backend/internal/models"
	"github.com/pageza/tablefork/backend/internal/types"
)

// CatalogService serves the admin-curated reference data: tags and
// ingredients.
type CatalogService struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCatalogService(db *gorm.DB, log *logger.Logger) *CatalogService {
	return &CatalogService{db: db, log: log}
}

func (s *CatalogService) ListTags(ctx context.Context) ([]types.TagView, error) {
	var tags []models.Tag
	if err := s.db.WithContext(ctx).Order("name").Find(&tags).Error; err != nil {
		return nil, err
	}
	views := make([]types.TagView, 0, len(tags))
	for _, t := range tags {
		views = append(views, types.TagView{ID: t.ID, Name: t.Name, Color: t.Color, Slug: t.Slug})
	}
	return views, nil
}

func (s *CatalogService) GetTag(ctx context.Context, id uuid.UUID) (*types.TagView, error) {
	var tag models.Tag
	if err := s.db.WithContext(ctx).First(&tag, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: tag", ErrNotFound)
		}
		return nil, err
	}
	return &types.TagView{ID: tag.ID, Name: tag.Name, Color: tag.Color, Slug: tag.Slug}, nil
}

// ListIngredients returns ingredients, optionally narrowed by a
// case-insensitive name prefix.
func (s *CatalogService) ListIngredients(ctx context.Context, namePrefix string) ([]models.Ingredient, error) {
	query := s.db.WithContext(ctx).Order("name")
	if namePrefix != "" {
		query = query.Where("LOWER(name) LIKE ?", strings.ToLower(namePrefix)+"%")
	}
	var ingredients []models.Ingredient
	if err := query.Find(&ingredients).Error; err != nil {
		return nil, err
	}
	return ingredients, nil
}

func (s *CatalogService) GetIngredient(ctx context.Context, id uuid.UUID) (*models.Ingredient, error) {
	var ingredient models.Ingredient
	if err := s.db.WithContext(ctx).First(&ingredient, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: ingredient", ErrNotFound)
		}
		return nil, err
	}
	return &ingredient, nil
}

// ImportIngredients bulk-loads reference data from a two-column (name, unit)
// CSV stream, get-or-create per line. Returns the number of rows created.
func (s *CatalogService) ImportIngredients(ctx context.Context, r io.Reader) (int, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	created := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return created, err
		}
		if len(record) < 2 {
			return created, fmt.Errorf("%w: ingredient line needs a name and a unit", ErrInvalidField)
		}
		name := strings.TrimSpace(record[0])
		unit := strings.TrimSpace(record[1])
		if name == "" || unit == "" {
			return created, fmt.Errorf("%w: empty ingredient name or unit", ErrInvalidField)
		}

		ingredient := models.Ingredient{Name: name, MeasurementUnit: unit}
		result := s.db.WithContext(ctx).
			Where("name = ? AND measurement_unit = ?", name, unit).
			FirstOrCreate(&ingredient)
		if result.Error != nil {
			return created, result.Error
		}
		if result.RowsAffected > 0 {
			created++
		}
	}

	s.log.Info("ingredients imported", "created", created)
	return created, nil
}
