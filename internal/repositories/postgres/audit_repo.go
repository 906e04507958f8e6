package postgres

import (
	"context"

	"github.com/skillvue/skillvue-backend/internal/models"
	"gorm.io/gorm"
)

// AuditRepository is append-only by construction: Insert is the only
// write path, and nothing in the codebase updates or deletes entries.
type AuditRepository interface {
	Insert(ctx context.Context, e *models.AuditEntry) error
	ListByEntity(ctx context.Context, entityType, entityID string, limit int) ([]models.AuditEntry, error)
}

type auditRepo struct {
	db *gorm.DB
}

func NewAuditRepo(db *gorm.DB) AuditRepository {
	return &auditRepo{db: db}
}

func (r *auditRepo) Insert(ctx context.Context, e *models.AuditEntry) error {
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *auditRepo) ListByEntity(ctx context.Context, entityType, entityID string, limit int) ([]models.AuditEntry, error) {
	if limit <= 0 {
		limit = 100
	}
	var rows []models.AuditEntry
	err := r.db.WithContext(ctx).
		Where("entity_type = ? AND entity_id = ?", entityType, entityID).
		Order("created_at ASC").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}
