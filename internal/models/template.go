package models

import (
	"time"

	"github.com/lib/pq"
	"gorm.io/datatypes"
)

// CollegeJobTemplate is a reusable job-description bundle owned by a
// college. It has its own lifecycle: operators create and duplicate
// templates, the interview flow never mutates them.
type CollegeJobTemplate struct {
	ID        string `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	CollegeID string `gorm:"column:college_id;type:uuid;index" json:"college_id"`

	Title       string `gorm:"column:title;type:text" json:"title"`
	Description string `gorm:"column:description;type:text" json:"description"`
	Role        string `gorm:"column:role;type:text" json:"role"`
	Level       string `gorm:"column:level;type:text" json:"level"`

	Skills pq.StringArray `gorm:"column:skills;type:text[]" json:"skills"`

	// Interview configuration (question count, time limits, etc) kept as
	// raw JSON so the generator collaborator can evolve it freely.
	Config datatypes.JSON `gorm:"column:config;type:jsonb" json:"config"`

	CreatedBy string    `gorm:"column:created_by;type:text" json:"created_by"`
	CreatedAt time.Time `gorm:"column:created_at;type:timestamptz" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;type:timestamptz" json:"updated_at"`
}

func (CollegeJobTemplate) TableName() string { return "college_job_templates" }
