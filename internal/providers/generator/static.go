package generator

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/skillvue/skillvue-backend/internal/models"
)

// Static serves canned questions and a stub report when no Vertex
// project is configured. Lets the service run end to end locally.
type Static struct {
	QuestionCount int
}

func NewStatic() *Static { return &Static{QuestionCount: 5} }

func (g *Static) GenerateQuestions(ctx context.Context, spec QuestionSpec) (*QuestionSet, error) {
	n := g.QuestionCount
	if n <= 0 {
		n = 5
	}

	set := &QuestionSet{TopSkills: spec.Skills}
	for i := 0; i < n; i++ {
		skill := ""
		if len(spec.Skills) > 0 {
			skill = spec.Skills[i%len(spec.Skills)]
		}
		set.Questions = append(set.Questions, models.Question{
			ID:     uuid.NewString(),
			Prompt: fmt.Sprintf("Tell me about a time you applied %s skills as a %s.", nonEmpty(skill, spec.Role), spec.Role),
			Skill:  skill,
		})
	}
	return set, nil
}

func (g *Static) GenerateReport(ctx context.Context, s *models.Session) (*Evaluation, error) {
	report, err := json.Marshal(map[string]any{
		"summary":   fmt.Sprintf("Completed %d-question %s interview for %s.", len(s.Questions), s.Mode, s.Role),
		"generated": "static",
	})
	if err != nil {
		return nil, err
	}
	score, err := json.Marshal(map[string]any{"overall": 0})
	if err != nil {
		return nil, err
	}
	return &Evaluation{Report: report, ScoreSummary: score}, nil
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}
