package models

import (
	"time"

	"gorm.io/datatypes"
)

// Audit actions recorded against sessions and templates.
const (
	AuditSessionCreated        = "session_created"
	AuditInterviewStarted      = "interview_started"
	AuditQuestionAdvanced      = "question_advanced"
	AuditQuestionNavigatedBack = "question_navigated_back"
	AuditPresenceRecorded      = "presence_recorded"
	AuditInterviewCompleted    = "interview_completed"
	AuditReportViewed          = "report_viewed"
	AuditTemplateCreated       = "template_created"
	AuditTemplateDuplicated    = "template_duplicated"
)

// AuditEntry is one immutable record of a state-changing action. Entries
// are append-only: there is no update or delete path anywhere in the
// codebase, and state is never reconstructed from them.
type AuditEntry struct {
	ID         string         `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	Action     string         `gorm:"column:action;type:text" json:"action"`
	EntityType string         `gorm:"column:entity_type;type:text;index:idx_audit_entity" json:"entity_type"`
	EntityID   string         `gorm:"column:entity_id;type:text;index:idx_audit_entity" json:"entity_id"`
	Metadata   datatypes.JSON `gorm:"column:metadata;type:jsonb" json:"metadata"`
	CreatedAt  time.Time      `gorm:"column:created_at;type:timestamptz;index" json:"created_at"`
}

func (AuditEntry) TableName() string { return "audit_entries" }
