package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/skillvue/skillvue-backend/internal/models"
	pgrepo "github.com/skillvue/skillvue-backend/internal/repositories/postgres"
	"github.com/skillvue/skillvue-backend/internal/utils"
	"gorm.io/datatypes"
)

type CreateTemplateInput struct {
	Title       string
	Description string
	Role        string
	Level       string
	Skills      []string
	Config      []byte
}

type TemplateService interface {
	Create(ctx context.Context, collegeID, createdBy string, in CreateTemplateInput) (*models.CollegeJobTemplate, error)
	Get(ctx context.Context, collegeID, id string) (*models.CollegeJobTemplate, error)
	List(ctx context.Context, collegeID string, limit int) ([]models.CollegeJobTemplate, error)
	Duplicate(ctx context.Context, collegeID, createdBy, id string) (*models.CollegeJobTemplate, error)
}

type templateService struct {
	templates pgrepo.TemplateRepository
	audit     *AuditRecorder
}

func NewTemplateService(templates pgrepo.TemplateRepository, audit *AuditRecorder) TemplateService {
	return &templateService{templates: templates, audit: audit}
}

func (s *templateService) Create(ctx context.Context, collegeID, createdBy string, in CreateTemplateInput) (*models.CollegeJobTemplate, error) {
	const op = "TemplateService.Create"

	if collegeID == "" {
		return nil, utils.E(utils.CodeForbidden, op, "operator is not attached to a college", nil)
	}
	if in.Title == "" || in.Role == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "title and role are required", nil)
	}

	now := time.Now().UTC()
	t := &models.CollegeJobTemplate{
		ID:          uuid.NewString(),
		CollegeID:   collegeID,
		Title:       in.Title,
		Description: in.Description,
		Role:        in.Role,
		Level:       in.Level,
		Skills:      pq.StringArray(in.Skills),
		Config:      datatypes.JSON(in.Config),
		CreatedBy:   createdBy,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.templates.Insert(ctx, t); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to create template", err)
	}

	s.audit.Record(ctx, models.AuditTemplateCreated, EntityTemplate, t.ID, map[string]any{
		"college_id": collegeID,
	})
	return t, nil
}

func (s *templateService) Get(ctx context.Context, collegeID, id string) (*models.CollegeJobTemplate, error) {
	const op = "TemplateService.Get"

	t, err := s.templates.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "template not found", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to get template", err)
	}
	if t.CollegeID != collegeID {
		return nil, utils.E(utils.CodeForbidden, op, "template belongs to another college", nil)
	}
	return t, nil
}

func (s *templateService) List(ctx context.Context, collegeID string, limit int) ([]models.CollegeJobTemplate, error) {
	const op = "TemplateService.List"

	if collegeID == "" {
		return nil, utils.E(utils.CodeForbidden, op, "operator is not attached to a college", nil)
	}
	rows, err := s.templates.ListByCollege(ctx, collegeID, limit)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to list templates", err)
	}
	return rows, nil
}

// Duplicate clones an existing template into the operator's college.
// Cross-college duplication is rejected outright.
func (s *templateService) Duplicate(ctx context.Context, collegeID, createdBy, id string) (*models.CollegeJobTemplate, error) {
	const op = "TemplateService.Duplicate"

	src, err := s.Get(ctx, collegeID, id)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	dup := &models.CollegeJobTemplate{
		ID:          uuid.NewString(),
		CollegeID:   collegeID,
		Title:       src.Title + " (copy)",
		Description: src.Description,
		Role:        src.Role,
		Level:       src.Level,
		Skills:      append(pq.StringArray(nil), src.Skills...),
		Config:      append(datatypes.JSON(nil), src.Config...),
		CreatedBy:   createdBy,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.templates.Insert(ctx, dup); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to duplicate template", err)
	}

	s.audit.Record(ctx, models.AuditTemplateDuplicated, EntityTemplate, dup.ID, map[string]any{
		"source_id":  src.ID,
		"college_id": collegeID,
	})
	return dup, nil
}
