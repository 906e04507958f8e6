package generator

import (
	"context"
	"encoding/json"

	"github.com/skillvue/skillvue-backend/internal/models"
)

// QuestionSpec describes the interview to generate questions for.
type QuestionSpec struct {
	Mode   string
	Role   string
	Level  string
	Skills []string
}

// QuestionSet is the generator output that seeds a session's question
// list when the interview starts.
type QuestionSet struct {
	Questions []models.Question
	TopSkills []string
}

// QuestionGenerator fills a session's question list. Implementations are
// collaborators; the session lifecycle treats them as black boxes.
type QuestionGenerator interface {
	GenerateQuestions(ctx context.Context, spec QuestionSpec) (*QuestionSet, error)
}

// Evaluation is the report-generator output attached to a completed
// session. Report and ScoreSummary stay opaque to the lifecycle layer.
type Evaluation struct {
	Report       json.RawMessage
	ScoreSummary json.RawMessage
}

type ReportGenerator interface {
	GenerateReport(ctx context.Context, s *models.Session) (*Evaluation, error)
}
