package services

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/skillvue/skillvue-backend/internal/models"
	"github.com/skillvue/skillvue-backend/internal/repositories/postgres"
	"gorm.io/datatypes"
)

// Entity types used in audit entries.
const (
	EntitySession  = "session"
	EntityTemplate = "college_job_template"
)

// AuditRecorder appends one ledger entry per mutating action. Recording
// is observability, not a transactional participant: a failed insert is
// logged and swallowed so it can never roll back or block the mutation
// it documents. Callers invoke Record after the durable write, within
// the same request, which keeps per-entity ordering aligned with the
// order mutations were applied.
type AuditRecorder struct {
	entries postgres.AuditRepository
	log     *logrus.Logger
}

func NewAuditRecorder(entries postgres.AuditRepository, log *logrus.Logger) *AuditRecorder {
	return &AuditRecorder{entries: entries, log: log}
}

func (a *AuditRecorder) Record(ctx context.Context, action, entityType, entityID string, metadata map[string]any) {
	if a == nil || a.entries == nil {
		return
	}

	var meta datatypes.JSON
	if len(metadata) > 0 {
		b, err := json.Marshal(metadata)
		if err != nil {
			a.log.WithError(err).WithField("action", action).Error("audit metadata not serializable")
		} else {
			meta = datatypes.JSON(b)
		}
	}

	entry := &models.AuditEntry{
		ID:         uuid.NewString(),
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		Metadata:   meta,
		CreatedAt:  time.Now().UTC(),
	}

	if err := a.entries.Insert(ctx, entry); err != nil {
		a.log.WithError(err).WithFields(logrus.Fields{
			"action":    action,
			"entity":    entityType,
			"entity_id": entityID,
		}).Error("audit entry dropped")
	}
}
