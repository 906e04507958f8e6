package postgres

import (
	"context"
	"errors"

	"github.com/skillvue/skillvue-backend/internal/models"
	"github.com/skillvue/skillvue-backend/internal/utils"
	"gorm.io/gorm"
)

type TemplateRepository interface {
	Insert(ctx context.Context, t *models.CollegeJobTemplate) error
	GetByID(ctx context.Context, id string) (*models.CollegeJobTemplate, error)
	ListByCollege(ctx context.Context, collegeID string, limit int) ([]models.CollegeJobTemplate, error)
}

type templateRepo struct {
	db *gorm.DB
}

func NewTemplateRepo(db *gorm.DB) TemplateRepository {
	return &templateRepo{db: db}
}

func (r *templateRepo) Insert(ctx context.Context, t *models.CollegeJobTemplate) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *templateRepo) GetByID(ctx context.Context, id string) (*models.CollegeJobTemplate, error) {
	var t models.CollegeJobTemplate
	err := r.db.WithContext(ctx).Where("id = ?", id).Take(&t).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *templateRepo) ListByCollege(ctx context.Context, collegeID string, limit int) ([]models.CollegeJobTemplate, error) {
	if limit <= 0 {
		limit = 50
	}
	var rows []models.CollegeJobTemplate
	err := r.db.WithContext(ctx).
		Where("college_id = ?", collegeID).
		Order("created_at DESC").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}
